package schema

import "github.com/kurobaex/native-bridge/model"

// Subsystem selects the namespace a Type lives in.
type Subsystem uint8

const (
	PostParsing Subsystem = iota
	Spannable
	Descriptor
	Lang
)

func (s Subsystem) String() string {
	switch s {
	case PostParsing:
		return "post_parsing"
	case Spannable:
		return "spannable"
	case Descriptor:
		return "descriptor"
	case Lang:
		return "lang"
	default:
		return "unknown"
	}
}

// Type is a logical host type: a short name within a subsystem.
type Type struct {
	Name      string
	Subsystem Subsystem
}

func (t Type) String() string {
	return t.Subsystem.String() + ":" + t.Name
}

var (
	String           = Type{Subsystem: Lang, Name: "String"}
	RuntimeException = Type{Subsystem: Lang, Name: "RuntimeException"}

	ParserContext        = Type{Subsystem: PostParsing, Name: "PostParserContext"}
	ThreadToParse        = Type{Subsystem: PostParsing, Name: "ThreadToParse"}
	PostToParse          = Type{Subsystem: PostParsing, Name: "PostToParse"}
	ThreadParsed         = Type{Subsystem: PostParsing, Name: "ThreadParsed"}
	PostParsed           = Type{Subsystem: PostParsing, Name: "PostParsed"}
	PostCommentParsed    = Type{Subsystem: PostParsing, Name: "PostCommentParsed"}
	PostCommentSpannable = Type{Subsystem: Spannable, Name: "PostCommentSpannable"}
	SpannableData        = Type{Subsystem: Spannable, Name: "IPostCommentSpannableData"}

	SiteDescriptor   = Type{Subsystem: Descriptor, Name: "SiteDescriptor"}
	BoardDescriptor  = Type{Subsystem: Descriptor, Name: "BoardDescriptor"}
	ThreadDescriptor = Type{Subsystem: Descriptor, Name: "ChanDescriptor$ThreadDescriptor"}
	PostDescriptor   = Type{Subsystem: Descriptor, Name: "PostDescriptor"}
)

func variant(name string) Type {
	return Type{Subsystem: Spannable, Name: SpannableData.Name + "$" + name}
}

// SpannableVariants maps every span kind to the host subtype of
// SpannableData that carries it.
var SpannableVariants = [model.NumSpanKinds]Type{
	model.KindQuote:                  variant("Quote"),
	model.KindDeadQuote:              variant("DeadQuote"),
	model.KindURLLink:                variant("UrlLink"),
	model.KindBoardLink:              variant("BoardLink"),
	model.KindSearchLink:             variant("SearchLink"),
	model.KindThreadLink:             variant("ThreadLink"),
	model.KindSpoiler:                variant("Spoiler"),
	model.KindGreenText:              variant("GreenText"),
	model.KindBoldText:               variant("BoldText"),
	model.KindFontSize:               variant("FontSize"),
	model.KindFontWeight:             variant("FontWeight"),
	model.KindMonospace:              variant("Monospace"),
	model.KindTextForegroundColorRaw: variant("TextForegroundColorRaw"),
	model.KindTextBackgroundColorRaw: variant("TextBackgroundColorRaw"),
	model.KindTextForegroundColorID:  variant("TextForegroundColorId"),
	model.KindTextBackgroundColorID:  variant("TextBackgroundColorId"),
}

// Types lists every type the bridge resolves, in registration order.
var Types = append([]Type{
	String,
	RuntimeException,
	ParserContext,
	ThreadToParse,
	PostToParse,
	ThreadParsed,
	PostParsed,
	PostCommentParsed,
	PostCommentSpannable,
	SpannableData,
	SiteDescriptor,
	BoardDescriptor,
	ThreadDescriptor,
	PostDescriptor,
}, SpannableVariants[:]...)
