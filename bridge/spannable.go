package bridge

import (
	"strconv"
	"unicode/utf16"

	"go.uber.org/zap"

	"github.com/kurobaex/native-bridge/errors"
	"github.com/kurobaex/native-bridge/hostenv"
	"github.com/kurobaex/native-bridge/model"
	"github.com/kurobaex/native-bridge/schema"
)

// spanEncoder builds the host subtype of one SpannableData. The visitor
// form keeps the variant switch exhaustive at compile time.
type spanEncoder struct {
	c    *call
	path []string
	out  hostenv.Ref
}

var _ model.SpannableVisitor = (*spanEncoder)(nil)

// args collects constructor arguments, keeping the first conversion error.
type args struct {
	enc  *spanEncoder
	vals []hostenv.Value
	err  error
}

func (e *spanEncoder) args() *args {
	return &args{enc: e}
}

func (a *args) str(s string, field string) *args {
	if a.err != nil {
		return a
	}
	ref, err := a.enc.c.newString(s, appendPath(a.enc.path, field)...)
	a.vals, a.err = append(a.vals, hostenv.Object(ref)), err
	return a
}

func (a *args) long(v uint64, field string) *args {
	if a.err != nil {
		return a
	}
	l, err := long(v, appendPath(a.enc.path, field)...)
	a.vals, a.err = append(a.vals, l), err
	return a
}

func (a *args) int(v int32) *args {
	a.vals = append(a.vals, hostenv.Int(v))
	return a
}

func (e *spanEncoder) emit(k model.SpanKind, a *args) error {
	if a != nil && a.err != nil {
		return a.err
	}
	var vals []hostenv.Value
	if a != nil {
		vals = a.vals
	}
	ref, err := e.c.construct(schema.SpannableCtors[k], vals...)
	if err != nil {
		return err
	}
	e.out = ref
	return nil
}

func (e *spanEncoder) VisitQuote(d *model.Quote) error {
	return e.emit(model.KindQuote, e.args().long(d.PostNo, "postNo"))
}

func (e *spanEncoder) VisitDeadQuote(d *model.DeadQuote) error {
	return e.emit(model.KindDeadQuote, e.args().long(d.PostNo, "postNo"))
}

func (e *spanEncoder) VisitURLLink(d *model.URLLink) error {
	return e.emit(model.KindURLLink, e.args().str(d.Link, "urlLink"))
}

func (e *spanEncoder) VisitBoardLink(d *model.BoardLink) error {
	return e.emit(model.KindBoardLink, e.args().str(d.BoardCode, "boardCode"))
}

func (e *spanEncoder) VisitSearchLink(d *model.SearchLink) error {
	return e.emit(model.KindSearchLink, e.args().
		str(d.BoardCode, "boardCode").
		str(d.SearchQuery, "searchQuery"))
}

func (e *spanEncoder) VisitThreadLink(d *model.ThreadLink) error {
	return e.emit(model.KindThreadLink, e.args().
		str(d.BoardCode, "boardCode").
		long(d.ThreadNo, "threadNo").
		long(d.PostNo, "postNo"))
}

func (e *spanEncoder) VisitSpoiler(*model.Spoiler) error {
	return e.emit(model.KindSpoiler, nil)
}

func (e *spanEncoder) VisitGreenText(*model.GreenText) error {
	return e.emit(model.KindGreenText, nil)
}

func (e *spanEncoder) VisitBoldText(*model.BoldText) error {
	return e.emit(model.KindBoldText, nil)
}

func (e *spanEncoder) VisitFontSize(d *model.FontSize) error {
	return e.emit(model.KindFontSize, e.args().str(d.Size, "size"))
}

func (e *spanEncoder) VisitFontWeight(d *model.FontWeight) error {
	return e.emit(model.KindFontWeight, e.args().str(d.Weight, "weight"))
}

func (e *spanEncoder) VisitMonospace(*model.Monospace) error {
	return e.emit(model.KindMonospace, nil)
}

func (e *spanEncoder) VisitTextForegroundColorRaw(d *model.TextForegroundColorRaw) error {
	return e.emit(model.KindTextForegroundColorRaw, e.args().str(d.ColorHex, "colorHex"))
}

func (e *spanEncoder) VisitTextBackgroundColorRaw(d *model.TextBackgroundColorRaw) error {
	return e.emit(model.KindTextBackgroundColorRaw, e.args().str(d.ColorHex, "colorHex"))
}

func (e *spanEncoder) VisitTextForegroundColorID(d *model.TextForegroundColorID) error {
	return e.emit(model.KindTextForegroundColorID, e.args().int(d.ColorID))
}

func (e *spanEncoder) VisitTextBackgroundColorID(d *model.TextBackgroundColorID) error {
	return e.emit(model.KindTextBackgroundColorID, e.args().int(d.ColorID))
}

// encodeSpannables builds the PostCommentSpannable[] for text. Order is
// preserved. Spans reaching past the end of text are kept and reported.
func (c *call) encodeSpannables(text string, spans []model.Spannable, path []string) (hostenv.Ref, error) {
	arr, err := c.newArray(schema.PostCommentSpannable, len(spans))
	if err != nil {
		return hostenv.Null, err
	}

	textLen := utf16Len(text)
	for i, sp := range spans {
		elem := appendPath(path, schema.CommentSpannables.Name, strconv.Itoa(i))
		if sp.Data == nil {
			return hostenv.Null, errors.New(errors.PhaseEncode, errors.KindInvalidInput).
				Path(elem...).
				Detail("spannable has no data").
				Build()
		}
		if sp.End() > textLen {
			spansOutOfRange.Inc()
			Logger().Warn("spannable exceeds parsed text",
				zap.Strings("path", elem),
				zap.Stringer("kind", sp.Data.Kind()),
				zap.Uint32("start", sp.Start),
				zap.Uint32("length", sp.Length),
				zap.Uint64("text_length", textLen))
		}

		ref, err := c.encodeSpannable(sp, elem)
		if err != nil {
			return hostenv.Null, err
		}
		if err := c.setElement(arr, schema.PostCommentSpannable, i, ref); err != nil {
			return hostenv.Null, err
		}
	}
	return arr, nil
}

func (c *call) encodeSpannable(sp model.Spannable, path []string) (hostenv.Ref, error) {
	start, err := int32Of(sp.Start, appendPath(path, schema.SpanStart.Name)...)
	if err != nil {
		return hostenv.Null, err
	}
	length, err := int32Of(sp.Length, appendPath(path, schema.SpanLength.Name)...)
	if err != nil {
		return hostenv.Null, err
	}

	enc := &spanEncoder{c: c, path: appendPath(path, schema.SpanData.Name)}
	if err := sp.Data.Accept(enc); err != nil {
		return hostenv.Null, err
	}

	obj, err := c.construct(schema.PostCommentSpannableCtor)
	if err != nil {
		return hostenv.Null, err
	}
	if err := c.setField(obj, schema.SpanStart, start); err != nil {
		return hostenv.Null, err
	}
	if err := c.setField(obj, schema.SpanLength, length); err != nil {
		return hostenv.Null, err
	}
	if err := c.setField(obj, schema.SpanData, hostenv.Object(enc.out)); err != nil {
		return hostenv.Null, err
	}
	return obj, nil
}

func utf16Len(s string) uint64 {
	var n uint64
	for _, r := range s {
		n += uint64(utf16.RuneLen(r))
	}
	return n
}
