package classpath

import (
	"context"
	stderrors "errors"
	"fmt"

	"github.com/kurobaex/native-bridge/hostenv"
	"github.com/kurobaex/native-bridge/hostenv/heap"
	"github.com/kurobaex/native-bridge/hostenv/mutf8"
	"github.com/kurobaex/native-bridge/model"
	"github.com/kurobaex/native-bridge/schema"
)

// ThreadParsed is a bridge result read back from the host.
type ThreadParsed struct {
	// Posts has one entry per requested post; nil entries are posts the
	// bridge marked absent.
	Posts []*PostParsed `json:"posts"`
}

type PostParsed struct {
	Comment    *model.ParsedComment `json:"comment"`
	Descriptor model.PostDescriptor `json:"descriptor"`
	PostID     uint64               `json:"postId"`
	PostSubID  uint64               `json:"postSubId"`
}

// HostException is a host exception left pending by a bridge call.
type HostException struct {
	Class   string
	Message string
}

func (e *HostException) Error() string {
	return fmt.Sprintf("%s: %s", e.Class, e.Message)
}

// Library is a native library exposing the thread parsing entry point.
type Library interface {
	ParseThreadPosts(ctx context.Context, env hostenv.Env, parserContext, thread hostenv.Ref) hostenv.Ref
}

// Call runs one request through lib on a fresh env of h, the way the host
// application does. A pending exception after the call is returned as a
// *HostException.
func Call(ctx context.Context, h *heap.Heap, reg *schema.Registry, lib Library, req *Request) (*ThreadParsed, error) {
	env := h.Attach()
	defer env.Detach()

	parserContext, thread, err := NewRequest(env, reg, req)
	if err != nil {
		return nil, err
	}

	result := lib.ParseThreadPosts(ctx, env, parserContext, thread)
	if class, msg, pending := env.Thrown(); pending {
		env.ExceptionClear()
		return nil, &HostException{Class: class, Message: msg}
	}
	if result.IsNull() {
		return nil, fmt.Errorf("classpath: parseThreadPosts returned null without an exception")
	}
	return ReadThreadParsed(env, reg, result)
}

// reader walks a result graph, keeping the first error.
type reader struct {
	env *heap.Env
	reg *schema.Registry
	err error
}

func (r *reader) field(obj hostenv.Ref, f schema.FieldSpec) hostenv.Value {
	if r.err != nil {
		return hostenv.Value{}
	}
	v, err := r.env.GetField(obj, f.Name, r.reg.FieldSig(f))
	if err != nil {
		r.err = fmt.Errorf("read %s.%s: %w", f.Owner.Name, f.Name, err)
	}
	return v
}

func (r *reader) object(obj hostenv.Ref, f schema.FieldSpec) hostenv.Ref {
	ref, _ := r.field(obj, f).AsObject()
	return ref
}

func (r *reader) long(obj hostenv.Ref, f schema.FieldSpec) uint64 {
	l, _ := r.field(obj, f).AsLong()
	return uint64(l)
}

func (r *reader) int(obj hostenv.Ref, f schema.FieldSpec) uint32 {
	i, _ := r.field(obj, f).AsInt()
	return uint32(i)
}

func (r *reader) str(obj hostenv.Ref, f schema.FieldSpec) string {
	ref := r.object(obj, f)
	if r.err != nil || ref.IsNull() {
		return ""
	}
	b, err := r.env.GetStringUTFChars(ref)
	if err != nil {
		r.err = err
		return ""
	}
	s, err := mutf8.DecodeCString(b)
	if err != nil {
		r.err = fmt.Errorf("read %s.%s: %w", f.Owner.Name, f.Name, err)
	}
	return s
}

func (r *reader) array(obj hostenv.Ref, f schema.FieldSpec) []hostenv.Ref {
	arr := r.object(obj, f)
	if r.err != nil {
		return nil
	}
	if arr.IsNull() {
		r.err = fmt.Errorf("read %s.%s: %w", f.Owner.Name, f.Name, hostenv.ErrNullReference)
		return nil
	}
	n, err := r.env.GetArrayLength(arr)
	if err != nil {
		r.err = err
		return nil
	}
	out := make([]hostenv.Ref, n)
	for i := range out {
		if out[i], err = r.env.GetObjectArrayElement(arr, i); err != nil {
			r.err = err
			return nil
		}
	}
	return out
}

// ReadThreadParsed converts a ThreadParsed host object into Go values.
func ReadThreadParsed(env *heap.Env, reg *schema.Registry, ref hostenv.Ref) (*ThreadParsed, error) {
	r := &reader{env: env, reg: reg}

	elems := r.array(ref, schema.ParsedList)
	out := &ThreadParsed{Posts: make([]*PostParsed, len(elems))}
	for i, elem := range elems {
		if elem.IsNull() {
			continue
		}
		out.Posts[i] = r.post(elem)
	}
	if r.err != nil {
		env.ExceptionClear()
		return nil, r.err
	}
	return out, nil
}

func (r *reader) post(ref hostenv.Ref) *PostParsed {
	p := &PostParsed{
		PostID:     r.long(ref, schema.ParsedPostID),
		PostSubID:  r.long(ref, schema.ParsedPostSubID),
		Descriptor: r.descriptor(r.object(ref, schema.ParsedPostDescriptor)),
	}
	if comment := r.object(ref, schema.ParsedPostComment); !comment.IsNull() {
		p.Comment = r.comment(comment)
	}
	return p
}

// descriptor walks post -> thread -> board -> site.
func (r *reader) descriptor(post hostenv.Ref) model.PostDescriptor {
	var d model.PostDescriptor
	if r.err != nil || post.IsNull() {
		return d
	}
	d.PostNo = r.long(post, schema.PostNo)
	d.PostSubNo = r.long(post, schema.PostSubNo)
	thread := r.object(post, schema.PostThread)
	d.ThreadNo = r.long(thread, schema.ThreadNo)
	board := r.object(thread, schema.ThreadBoard)
	d.BoardCode = r.str(board, schema.BoardCode)
	site := r.object(board, schema.BoardSite)
	d.SiteName = r.str(site, schema.SiteName)
	return d
}

func (r *reader) comment(ref hostenv.Ref) *model.ParsedComment {
	c := &model.ParsedComment{
		OriginalText: r.str(ref, schema.CommentTextRaw),
		ParsedText:   r.str(ref, schema.CommentTextParsed),
	}
	for _, span := range r.array(ref, schema.CommentSpannables) {
		if r.err != nil {
			break
		}
		if span.IsNull() {
			r.err = fmt.Errorf("read spannableList: %w", hostenv.ErrNullReference)
			break
		}
		s := model.Spannable{
			Start:  r.int(span, schema.SpanStart),
			Length: r.int(span, schema.SpanLength),
			Data:   r.spanData(r.object(span, schema.SpanData)),
		}
		c.Spannables = append(c.Spannables, s)
	}
	return c
}

var errUnknownVariant = stderrors.New("unknown spannable data class")

func (r *reader) spanData(ref hostenv.Ref) model.SpannableData {
	if r.err != nil {
		return nil
	}
	className, err := r.env.Heap().ClassName(ref)
	if err != nil {
		r.err = err
		return nil
	}
	kind, ok := r.reg.SpanKindOf(className)
	if !ok {
		r.err = fmt.Errorf("%w: %s", errUnknownVariant, className)
		return nil
	}

	switch kind {
	case model.KindQuote:
		return &model.Quote{PostNo: r.long(ref, schema.QuotePostNo)}
	case model.KindDeadQuote:
		return &model.DeadQuote{PostNo: r.long(ref, schema.DeadQuotePostNo)}
	case model.KindURLLink:
		return &model.URLLink{Link: r.str(ref, schema.URLLinkURL)}
	case model.KindBoardLink:
		return &model.BoardLink{BoardCode: r.str(ref, schema.BoardLinkBoardCode)}
	case model.KindSearchLink:
		return &model.SearchLink{
			BoardCode:   r.str(ref, schema.SearchLinkBoardCode),
			SearchQuery: r.str(ref, schema.SearchLinkQuery),
		}
	case model.KindThreadLink:
		return &model.ThreadLink{
			BoardCode: r.str(ref, schema.ThreadLinkBoardCode),
			ThreadNo:  r.long(ref, schema.ThreadLinkThreadNo),
			PostNo:    r.long(ref, schema.ThreadLinkPostNo),
		}
	case model.KindFontSize:
		return &model.FontSize{Size: r.str(ref, schema.FontSizeSize)}
	case model.KindFontWeight:
		return &model.FontWeight{Weight: r.str(ref, schema.FontWeightWeight)}
	case model.KindTextForegroundColorRaw:
		return &model.TextForegroundColorRaw{ColorHex: r.str(ref, schema.ForegroundRawHex)}
	case model.KindTextBackgroundColorRaw:
		return &model.TextBackgroundColorRaw{ColorHex: r.str(ref, schema.BackgroundRawHex)}
	case model.KindTextForegroundColorID:
		id, _ := r.field(ref, schema.ForegroundColorID).AsInt()
		return &model.TextForegroundColorID{ColorID: id}
	case model.KindTextBackgroundColorID:
		id, _ := r.field(ref, schema.BackgroundColorID).AsInt()
		return &model.TextBackgroundColorID{ColorID: id}
	default:
		// payload-free variants
		return model.NewSpannableData(kind)
	}
}
