package bridge

import (
	"github.com/kurobaex/native-bridge/hostenv"
	"github.com/kurobaex/native-bridge/model"
	"github.com/kurobaex/native-bridge/schema"
)

// encodeDescriptor builds the site, board, thread and post descriptors in
// that order, each level taking its parent as the first constructor
// argument.
func (c *call) encodeDescriptor(d model.PostDescriptor) (hostenv.Ref, error) {
	path := []string{schema.PostDescriptor.Name}

	siteName, err := c.newString(d.SiteName, appendPath(path, schema.SiteName.Name)...)
	if err != nil {
		return hostenv.Null, err
	}
	site, err := c.construct(schema.SiteCtor, hostenv.Object(siteName))
	if err != nil {
		return hostenv.Null, err
	}

	boardCode, err := c.newString(d.BoardCode, appendPath(path, schema.BoardCode.Name)...)
	if err != nil {
		return hostenv.Null, err
	}
	board, err := c.construct(schema.BoardCtor, hostenv.Object(site), hostenv.Object(boardCode))
	if err != nil {
		return hostenv.Null, err
	}

	threadNo, err := long(d.ThreadNo, appendPath(path, schema.ThreadNo.Name)...)
	if err != nil {
		return hostenv.Null, err
	}
	thread, err := c.construct(schema.ThreadCtor, hostenv.Object(board), threadNo)
	if err != nil {
		return hostenv.Null, err
	}

	postNo, err := long(d.PostNo, appendPath(path, schema.PostNo.Name)...)
	if err != nil {
		return hostenv.Null, err
	}
	postSubNo, err := long(d.PostSubNo, appendPath(path, schema.PostSubNo.Name)...)
	if err != nil {
		return hostenv.Null, err
	}
	return c.construct(schema.PostDescCtor, hostenv.Object(thread), postNo, postSubNo)
}
