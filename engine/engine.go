package engine

import (
	"context"

	"github.com/kurobaex/native-bridge/errors"
	"github.com/kurobaex/native-bridge/model"
)

// Engine parses every post of a thread. The result must hold one entry per
// input post, in input order; a nil entry marks a post that could not be
// parsed.
type Engine interface {
	ParseThread(ctx context.Context, pc *model.ParserContext, thread *model.RawThread) ([]*model.ParsedPost, error)
}

// Func adapts a function to Engine.
type Func func(ctx context.Context, pc *model.ParserContext, thread *model.RawThread) ([]*model.ParsedPost, error)

func (f Func) ParseThread(ctx context.Context, pc *model.ParserContext, thread *model.RawThread) ([]*model.ParsedPost, error) {
	return f(ctx, pc, thread)
}

// PostParser parses a single post. It returns nil, or a ParsedPost with a
// nil Comment, when the post cannot be parsed.
type PostParser func(pc *model.ParserContext, post model.RawPost) *model.ParsedPost

// PerPost builds an Engine that runs parse over each post in order.
func PerPost(parse PostParser) Engine {
	return Func(func(_ context.Context, pc *model.ParserContext, thread *model.RawThread) ([]*model.ParsedPost, error) {
		out := make([]*model.ParsedPost, len(thread.Posts))
		for i, post := range thread.Posts {
			out[i] = parse(pc, post)
		}
		return out, nil
	})
}

// CheckAligned verifies parsed holds exactly one entry per post of thread
// and that every non-nil entry carries the ids of the post at its index.
func CheckAligned(thread *model.RawThread, parsed []*model.ParsedPost) error {
	if len(parsed) != len(thread.Posts) {
		return errors.EngineContract("engine returned %d results for %d posts", len(parsed), len(thread.Posts))
	}
	for i, p := range parsed {
		if p == nil {
			continue
		}
		in := thread.Posts[i]
		if p.PostID != in.PostID || p.PostSubID != in.PostSubID {
			return errors.EngineContract("result %d is post %d:%d, expected %d:%d", i, p.PostID, p.PostSubID, in.PostID, in.PostSubID)
		}
	}
	return nil
}
