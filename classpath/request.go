package classpath

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"os"

	"github.com/go-playground/validator/v10"

	"github.com/kurobaex/native-bridge/hostenv"
	"github.com/kurobaex/native-bridge/hostenv/heap"
	"github.com/kurobaex/native-bridge/schema"
)

var validate = validator.New()

// Request is a thread to parse, in the shape the host application hands
// to the bridge.
type Request struct {
	SiteName    string        `json:"siteName" validate:"required"`
	BoardCode   string        `json:"boardCode" validate:"required"`
	ThreadPosts []int64       `json:"threadPosts" validate:"dive,gt=0"`
	MyReplies   []int64       `json:"myRepliesInThread" validate:"dive,gt=0"`
	Posts       []PostRequest `json:"posts" validate:"dive"`
	ThreadID    int64         `json:"threadId" validate:"gt=0"`
}

// PostRequest is one post of a Request. Nil pointers leave the host field
// null.
type PostRequest struct {
	SiteName  *string `json:"siteName,omitempty"`
	BoardCode *string `json:"boardCode,omitempty"`
	ThreadID  *int64  `json:"threadId,omitempty" validate:"omitempty,gt=0"`
	Comment   *string `json:"comment"`
	PostID    int64   `json:"postId" validate:"gt=0"`
	PostSubID int64   `json:"postSubId" validate:"gte=0"`
}

// Validate checks the request against its struct tags.
func (r *Request) Validate() error {
	return validate.Struct(r)
}

// DecodeRequest reads and validates a JSON request.
func DecodeRequest(rd io.Reader) (*Request, error) {
	var req Request
	dec := json.NewDecoder(rd)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		return nil, fmt.Errorf("decode request: %w", err)
	}
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("invalid request: %w", err)
	}
	return &req, nil
}

// LoadRequest reads a JSON request file.
func LoadRequest(path string) (*Request, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return DecodeRequest(f)
}

// builder sets fields on freshly constructed data-holder objects and keeps
// the first error.
type builder struct {
	env *heap.Env
	reg *schema.Registry
	err error
}

func (b *builder) object(t schema.Type) hostenv.Ref {
	if b.err != nil {
		return hostenv.Null
	}
	cls, err := b.env.FindClass(b.reg.ClassName(t))
	if err != nil {
		b.err = err
		return hostenv.Null
	}
	obj, err := b.env.NewObject(cls, schema.Method("V"))
	if err != nil {
		b.err = err
	}
	return obj
}

func (b *builder) set(obj hostenv.Ref, f schema.FieldSpec, v hostenv.Value) {
	if b.err != nil {
		return
	}
	err := b.env.SetField(obj, f.Name, b.reg.FieldSig(f), v)
	switch {
	case err == nil:
	case stderrors.Is(err, hostenv.ErrNoSuchField):
		// The class was installed without f; the host has nothing to set.
		b.env.ExceptionClear()
	default:
		b.err = fmt.Errorf("set %s.%s: %w", f.Owner.Name, f.Name, err)
	}
}

func (b *builder) str(s *string) hostenv.Value {
	if s == nil || b.err != nil {
		return hostenv.Object(hostenv.Null)
	}
	ref, err := b.env.NewString(*s)
	if err != nil {
		b.err = err
	}
	return hostenv.Object(ref)
}

// NewRequest materialises req as a PostParserContext and a ThreadToParse
// on the heap env is attached to.
func NewRequest(env *heap.Env, reg *schema.Registry, req *Request) (parserContext, thread hostenv.Ref, err error) {
	if err := req.Validate(); err != nil {
		return hostenv.Null, hostenv.Null, fmt.Errorf("invalid request: %w", err)
	}

	b := &builder{env: env, reg: reg}
	h := env.Heap()

	parserContext = b.object(schema.ParserContext)
	b.set(parserContext, schema.CtxSiteName, b.str(&req.SiteName))
	b.set(parserContext, schema.CtxBoardCode, b.str(&req.BoardCode))
	b.set(parserContext, schema.CtxThreadID, hostenv.Long(req.ThreadID))
	b.set(parserContext, schema.CtxThreadPosts, hostenv.Object(h.NewLongArray(req.ThreadPosts)))
	b.set(parserContext, schema.CtxMyReplies, hostenv.Object(h.NewLongArray(req.MyReplies)))

	posts := make([]hostenv.Ref, len(req.Posts))
	for i, p := range req.Posts {
		post := b.object(schema.PostToParse)
		b.set(post, schema.PostID, hostenv.Long(p.PostID))
		b.set(post, schema.PostSubID, hostenv.Long(p.PostSubID))
		b.set(post, schema.PostComment, b.str(p.Comment))
		if p.SiteName != nil {
			b.set(post, schema.PostSiteName, b.str(p.SiteName))
		}
		if p.BoardCode != nil {
			b.set(post, schema.PostBoardCode, b.str(p.BoardCode))
		}
		if p.ThreadID != nil {
			b.set(post, schema.PostThreadID, hostenv.Long(*p.ThreadID))
		}
		posts[i] = post
	}

	thread = b.object(schema.ThreadToParse)
	if b.err == nil {
		list, err := newObjectArray(env, reg, schema.PostToParse, posts)
		if err != nil {
			return hostenv.Null, hostenv.Null, err
		}
		b.set(thread, schema.ThreadPostList, hostenv.Object(list))
	}
	if b.err != nil {
		return hostenv.Null, hostenv.Null, b.err
	}
	return parserContext, thread, nil
}

func newObjectArray(env hostenv.Env, reg *schema.Registry, elem schema.Type, elems []hostenv.Ref) (hostenv.Ref, error) {
	cls, err := env.FindClass(reg.ClassName(elem))
	if err != nil {
		return hostenv.Null, err
	}
	arr, err := env.NewObjectArray(len(elems), cls, hostenv.Null)
	if err != nil {
		return hostenv.Null, err
	}
	for i, e := range elems {
		if err := env.SetObjectArrayElement(arr, i, e); err != nil {
			return hostenv.Null, err
		}
	}
	return arr, nil
}
