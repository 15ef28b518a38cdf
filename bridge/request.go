package bridge

import (
	"strconv"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/kurobaex/native-bridge/errors"
	"github.com/kurobaex/native-bridge/hostenv"
	"github.com/kurobaex/native-bridge/model"
	"github.com/kurobaex/native-bridge/schema"
)

var validate = validator.New()

// assembleContext decodes a PostParserContext.
func (c *call) assembleContext(ref hostenv.Ref) (*model.ParserContext, error) {
	path := []string{schema.ParserContext.Name}
	if ref.IsNull() {
		return nil, errors.FieldMissing(errors.PhaseDecode, path, "parserContext")
	}

	var (
		pc  model.ParserContext
		err error
	)
	if pc.SiteName, err = c.decodeString(ref, schema.CtxSiteName, path); err != nil {
		return nil, err
	}
	if pc.BoardCode, err = c.decodeString(ref, schema.CtxBoardCode, path); err != nil {
		return nil, err
	}
	if pc.ThreadID, err = c.decodeID(ref, schema.CtxThreadID, path); err != nil {
		return nil, err
	}
	if pc.ThreadPosts, err = c.decodeLongSet(ref, schema.CtxThreadPosts, path); err != nil {
		return nil, err
	}
	if pc.MyReplies, err = c.decodeLongSet(ref, schema.CtxMyReplies, path); err != nil {
		return nil, err
	}

	if err := validate.Struct(&pc); err != nil {
		return nil, errors.New(errors.PhaseDecode, errors.KindInvalidInput).
			Path(path...).
			Detail("invalid parser context").
			Cause(err).
			Build()
	}
	return &pc, nil
}

// assembleThread decodes a ThreadToParse, keeping post order.
func (c *call) assembleThread(ref hostenv.Ref) (*model.RawThread, error) {
	path := []string{schema.ThreadToParse.Name}
	if ref.IsNull() {
		return nil, errors.FieldMissing(errors.PhaseDecode, path, "threadToParse")
	}

	refs, err := c.decodeObjectArray(ref, schema.ThreadPostList, path)
	if err != nil {
		return nil, err
	}

	thread := &model.RawThread{Posts: make([]model.RawPost, len(refs))}
	for i, p := range refs {
		elem := appendPath(path, schema.ThreadPostList.Name, strconv.Itoa(i))
		if p.IsNull() {
			return nil, errors.FieldMissing(errors.PhaseDecode, elem, schema.PostToParse.Name)
		}
		if err := c.assemblePost(p, elem, &thread.Posts[i]); err != nil {
			return nil, err
		}
	}

	if err := validate.Struct(thread); err != nil {
		return nil, errors.New(errors.PhaseDecode, errors.KindInvalidInput).
			Path(path...).
			Detail("invalid post list").
			Cause(err).
			Build()
	}
	return thread, nil
}

func (c *call) assemblePost(ref hostenv.Ref, path []string, post *model.RawPost) error {
	var err error
	if post.PostID, err = c.decodeID(ref, schema.PostID, path); err != nil {
		return err
	}
	if post.PostSubID, err = c.decodeID(ref, schema.PostSubID, path); err != nil {
		return err
	}

	if s, err := optional(c.decodeOptString(ref, schema.PostSiteName, path)); err != nil {
		return err
	} else if s != nil {
		post.SiteName = *s
	}
	if s, err := optional(c.decodeOptString(ref, schema.PostBoardCode, path)); err != nil {
		return err
	} else if s != nil {
		post.BoardCode = *s
	}
	if id, err := c.decodeLong(ref, schema.PostThreadID, path); err == nil {
		if id > 0 {
			post.ThreadID = uint64(id)
		}
	} else if errors.KindOf(err) != errors.KindFieldMissing {
		return err
	}

	comment, err := c.decodeOptString(ref, schema.PostComment, path)
	switch errors.KindOf(err) {
	case "":
		post.Comment = comment
	case errors.KindFieldMissing, errors.KindTypeMismatch, errors.KindInvalidUTF8:
		commentsDegraded.Inc()
		Logger().Warn("comment not decodable, treating post as having no comment",
			zap.Uint64("post", post.PostID),
			zap.Uint64("sub", post.PostSubID),
			zap.Error(err))
	default:
		return err
	}
	return nil
}

// optional drops a missing-field error from an override read.
func optional(s *string, err error) (*string, error) {
	if errors.KindOf(err) == errors.KindFieldMissing {
		return nil, nil
	}
	return s, err
}
