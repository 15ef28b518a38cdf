package model

import "fmt"

// SpanKind tags a SpannableData variant.
type SpanKind uint8

const (
	KindQuote SpanKind = iota
	KindDeadQuote
	KindURLLink
	KindBoardLink
	KindSearchLink
	KindThreadLink
	KindSpoiler
	KindGreenText
	KindBoldText
	KindFontSize
	KindFontWeight
	KindMonospace
	KindTextForegroundColorRaw
	KindTextBackgroundColorRaw
	KindTextForegroundColorID
	KindTextBackgroundColorID

	NumSpanKinds = int(iota)
)

var spanKindNames = [NumSpanKinds]string{
	KindQuote:                  "quote",
	KindDeadQuote:              "dead_quote",
	KindURLLink:                "url_link",
	KindBoardLink:              "board_link",
	KindSearchLink:             "search_link",
	KindThreadLink:             "thread_link",
	KindSpoiler:                "spoiler",
	KindGreenText:              "green_text",
	KindBoldText:               "bold_text",
	KindFontSize:               "font_size",
	KindFontWeight:             "font_weight",
	KindMonospace:              "monospace",
	KindTextForegroundColorRaw: "text_foreground_color_raw",
	KindTextBackgroundColorRaw: "text_background_color_raw",
	KindTextForegroundColorID:  "text_foreground_color_id",
	KindTextBackgroundColorID:  "text_background_color_id",
}

func (k SpanKind) String() string {
	if int(k) < NumSpanKinds {
		return spanKindNames[k]
	}
	return fmt.Sprintf("SpanKind(%d)", uint8(k))
}

// Valid reports whether k names a known variant.
func (k SpanKind) Valid() bool {
	return int(k) < NumSpanKinds
}

// ParseSpanKind is the inverse of SpanKind.String.
func ParseSpanKind(s string) (SpanKind, bool) {
	for k, name := range spanKindNames {
		if name == s {
			return SpanKind(k), true
		}
	}
	return 0, false
}

// SpannableData is the closed union of annotation payloads.
type SpannableData interface {
	Kind() SpanKind
	// Accept calls the visitor method for the concrete variant.
	Accept(v SpannableVisitor) error
	spannableData()
}

// SpannableVisitor has one method per SpannableData variant.
type SpannableVisitor interface {
	VisitQuote(*Quote) error
	VisitDeadQuote(*DeadQuote) error
	VisitURLLink(*URLLink) error
	VisitBoardLink(*BoardLink) error
	VisitSearchLink(*SearchLink) error
	VisitThreadLink(*ThreadLink) error
	VisitSpoiler(*Spoiler) error
	VisitGreenText(*GreenText) error
	VisitBoldText(*BoldText) error
	VisitFontSize(*FontSize) error
	VisitFontWeight(*FontWeight) error
	VisitMonospace(*Monospace) error
	VisitTextForegroundColorRaw(*TextForegroundColorRaw) error
	VisitTextBackgroundColorRaw(*TextBackgroundColorRaw) error
	VisitTextForegroundColorID(*TextForegroundColorID) error
	VisitTextBackgroundColorID(*TextBackgroundColorID) error
}

// Quote links to a post that exists in the thread.
type Quote struct {
	PostNo uint64 `msgpack:"post_no" json:"postNo"`
}

// DeadQuote links to a post that is not in the thread.
type DeadQuote struct {
	PostNo uint64 `msgpack:"post_no" json:"postNo"`
}

type URLLink struct {
	Link string `msgpack:"link" json:"link"`
}

type BoardLink struct {
	BoardCode string `msgpack:"board_code" json:"boardCode"`
}

type SearchLink struct {
	BoardCode   string `msgpack:"board_code" json:"boardCode"`
	SearchQuery string `msgpack:"search_query" json:"searchQuery"`
}

type ThreadLink struct {
	BoardCode string `msgpack:"board_code" json:"boardCode"`
	ThreadNo  uint64 `msgpack:"thread_no" json:"threadNo"`
	PostNo    uint64 `msgpack:"post_no" json:"postNo"`
}

type Spoiler struct{}

type GreenText struct{}

type BoldText struct{}

type FontSize struct {
	Size string `msgpack:"size" json:"size"`
}

type FontWeight struct {
	Weight string `msgpack:"weight" json:"weight"`
}

type Monospace struct{}

type TextForegroundColorRaw struct {
	ColorHex string `msgpack:"color_hex" json:"colorHex"`
}

type TextBackgroundColorRaw struct {
	ColorHex string `msgpack:"color_hex" json:"colorHex"`
}

type TextForegroundColorID struct {
	ColorID int32 `msgpack:"color_id" json:"colorId"`
}

type TextBackgroundColorID struct {
	ColorID int32 `msgpack:"color_id" json:"colorId"`
}

func (*Quote) Kind() SpanKind                  { return KindQuote }
func (*DeadQuote) Kind() SpanKind              { return KindDeadQuote }
func (*URLLink) Kind() SpanKind                { return KindURLLink }
func (*BoardLink) Kind() SpanKind              { return KindBoardLink }
func (*SearchLink) Kind() SpanKind             { return KindSearchLink }
func (*ThreadLink) Kind() SpanKind             { return KindThreadLink }
func (*Spoiler) Kind() SpanKind                { return KindSpoiler }
func (*GreenText) Kind() SpanKind              { return KindGreenText }
func (*BoldText) Kind() SpanKind               { return KindBoldText }
func (*FontSize) Kind() SpanKind               { return KindFontSize }
func (*FontWeight) Kind() SpanKind             { return KindFontWeight }
func (*Monospace) Kind() SpanKind              { return KindMonospace }
func (*TextForegroundColorRaw) Kind() SpanKind { return KindTextForegroundColorRaw }
func (*TextBackgroundColorRaw) Kind() SpanKind { return KindTextBackgroundColorRaw }
func (*TextForegroundColorID) Kind() SpanKind  { return KindTextForegroundColorID }
func (*TextBackgroundColorID) Kind() SpanKind  { return KindTextBackgroundColorID }

func (d *Quote) Accept(v SpannableVisitor) error      { return v.VisitQuote(d) }
func (d *DeadQuote) Accept(v SpannableVisitor) error  { return v.VisitDeadQuote(d) }
func (d *URLLink) Accept(v SpannableVisitor) error    { return v.VisitURLLink(d) }
func (d *BoardLink) Accept(v SpannableVisitor) error  { return v.VisitBoardLink(d) }
func (d *SearchLink) Accept(v SpannableVisitor) error { return v.VisitSearchLink(d) }
func (d *ThreadLink) Accept(v SpannableVisitor) error { return v.VisitThreadLink(d) }
func (d *Spoiler) Accept(v SpannableVisitor) error    { return v.VisitSpoiler(d) }
func (d *GreenText) Accept(v SpannableVisitor) error  { return v.VisitGreenText(d) }
func (d *BoldText) Accept(v SpannableVisitor) error   { return v.VisitBoldText(d) }
func (d *FontSize) Accept(v SpannableVisitor) error   { return v.VisitFontSize(d) }
func (d *FontWeight) Accept(v SpannableVisitor) error { return v.VisitFontWeight(d) }
func (d *Monospace) Accept(v SpannableVisitor) error  { return v.VisitMonospace(d) }
func (d *TextForegroundColorRaw) Accept(v SpannableVisitor) error {
	return v.VisitTextForegroundColorRaw(d)
}
func (d *TextBackgroundColorRaw) Accept(v SpannableVisitor) error {
	return v.VisitTextBackgroundColorRaw(d)
}
func (d *TextForegroundColorID) Accept(v SpannableVisitor) error {
	return v.VisitTextForegroundColorID(d)
}
func (d *TextBackgroundColorID) Accept(v SpannableVisitor) error {
	return v.VisitTextBackgroundColorID(d)
}

func (*Quote) spannableData()                  {}
func (*DeadQuote) spannableData()              {}
func (*URLLink) spannableData()                {}
func (*BoardLink) spannableData()              {}
func (*SearchLink) spannableData()             {}
func (*ThreadLink) spannableData()             {}
func (*Spoiler) spannableData()                {}
func (*GreenText) spannableData()              {}
func (*BoldText) spannableData()               {}
func (*FontSize) spannableData()               {}
func (*FontWeight) spannableData()             {}
func (*Monospace) spannableData()              {}
func (*TextForegroundColorRaw) spannableData() {}
func (*TextBackgroundColorRaw) spannableData() {}
func (*TextForegroundColorID) spannableData()  {}
func (*TextBackgroundColorID) spannableData()  {}

// NewSpannableData returns a zero payload of kind k, or nil if k is unknown.
func NewSpannableData(k SpanKind) SpannableData {
	switch k {
	case KindQuote:
		return &Quote{}
	case KindDeadQuote:
		return &DeadQuote{}
	case KindURLLink:
		return &URLLink{}
	case KindBoardLink:
		return &BoardLink{}
	case KindSearchLink:
		return &SearchLink{}
	case KindThreadLink:
		return &ThreadLink{}
	case KindSpoiler:
		return &Spoiler{}
	case KindGreenText:
		return &GreenText{}
	case KindBoldText:
		return &BoldText{}
	case KindFontSize:
		return &FontSize{}
	case KindFontWeight:
		return &FontWeight{}
	case KindMonospace:
		return &Monospace{}
	case KindTextForegroundColorRaw:
		return &TextForegroundColorRaw{}
	case KindTextBackgroundColorRaw:
		return &TextBackgroundColorRaw{}
	case KindTextForegroundColorID:
		return &TextForegroundColorID{}
	case KindTextBackgroundColorID:
		return &TextBackgroundColorID{}
	default:
		return nil
	}
}
