package bridge

import (
	"strconv"

	"github.com/kurobaex/native-bridge/hostenv"
	"github.com/kurobaex/native-bridge/model"
	"github.com/kurobaex/native-bridge/schema"
)

// assembleResponse builds the ThreadParsed envelope. Element i corresponds
// to raw.Posts[i] and is null when the post had no comment or the engine
// could not parse it.
func (c *call) assembleResponse(pc *model.ParserContext, raw *model.RawThread, parsed []*model.ParsedPost) (hostenv.Ref, error) {
	envelope, err := c.construct(schema.ThreadParsedCtor)
	if err != nil {
		return hostenv.Null, err
	}
	list, err := c.newArray(schema.PostParsed, len(raw.Posts))
	if err != nil {
		return hostenv.Null, err
	}

	for i, post := range raw.Posts {
		p := parsed[i]
		if !post.HasComment() || p == nil || p.Comment == nil {
			postsAbsent.Inc()
			continue
		}

		path := []string{schema.ThreadParsed.Name, schema.ParsedList.Name, strconv.Itoa(i)}
		ref, err := c.encodePost(model.DescriptorFor(pc, post), p, path)
		if err != nil {
			return hostenv.Null, err
		}
		if err := c.setElement(list, schema.PostParsed, i, ref); err != nil {
			return hostenv.Null, err
		}
		postsEncoded.Inc()
	}

	if err := c.setField(envelope, schema.ParsedList, hostenv.Object(list)); err != nil {
		return hostenv.Null, err
	}
	return envelope, nil
}

func (c *call) encodePost(desc model.PostDescriptor, p *model.ParsedPost, path []string) (hostenv.Ref, error) {
	obj, err := c.construct(schema.PostParsedCtor)
	if err != nil {
		return hostenv.Null, err
	}

	id, err := long(p.PostID, appendPath(path, schema.ParsedPostID.Name)...)
	if err != nil {
		return hostenv.Null, err
	}
	if err := c.setField(obj, schema.ParsedPostID, id); err != nil {
		return hostenv.Null, err
	}
	subID, err := long(p.PostSubID, appendPath(path, schema.ParsedPostSubID.Name)...)
	if err != nil {
		return hostenv.Null, err
	}
	if err := c.setField(obj, schema.ParsedPostSubID, subID); err != nil {
		return hostenv.Null, err
	}

	descriptor, err := c.encodeDescriptor(desc)
	if err != nil {
		return hostenv.Null, err
	}
	if err := c.setField(obj, schema.ParsedPostDescriptor, hostenv.Object(descriptor)); err != nil {
		return hostenv.Null, err
	}

	comment, err := c.encodeComment(p.Comment, appendPath(path, schema.ParsedPostComment.Name))
	if err != nil {
		return hostenv.Null, err
	}
	if err := c.setField(obj, schema.ParsedPostComment, hostenv.Object(comment)); err != nil {
		return hostenv.Null, err
	}
	return obj, nil
}

func (c *call) encodeComment(pc *model.ParsedComment, path []string) (hostenv.Ref, error) {
	obj, err := c.construct(schema.PostCommentParsedCtor)
	if err != nil {
		return hostenv.Null, err
	}

	raw, err := c.newString(pc.OriginalText, appendPath(path, schema.CommentTextRaw.Name)...)
	if err != nil {
		return hostenv.Null, err
	}
	if err := c.setField(obj, schema.CommentTextRaw, hostenv.Object(raw)); err != nil {
		return hostenv.Null, err
	}
	text, err := c.newString(pc.ParsedText, appendPath(path, schema.CommentTextParsed.Name)...)
	if err != nil {
		return hostenv.Null, err
	}
	if err := c.setField(obj, schema.CommentTextParsed, hostenv.Object(text)); err != nil {
		return hostenv.Null, err
	}

	spans, err := c.encodeSpannables(pc.ParsedText, pc.Spannables, path)
	if err != nil {
		return hostenv.Null, err
	}
	if err := c.setField(obj, schema.CommentSpannables, hostenv.Object(spans)); err != nil {
		return hostenv.Null, err
	}
	return obj, nil
}
