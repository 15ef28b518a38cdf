package schema

import "github.com/kurobaex/native-bridge/model"

// Ref is the declared type of a field or constructor parameter.
type Ref struct {
	Type  Type
	Prim  string
	Array bool
}

// Prim is a primitive or primitive-array descriptor such as "J" or "[J".
func Prim(sig string) Ref { return Ref{Prim: sig} }

// Obj refers to an instance of t.
func Obj(t Type) Ref { return Ref{Type: t} }

// ArrayOf refers to an array of t.
func ArrayOf(t Type) Ref { return Ref{Type: t, Array: true} }

// FieldSpec is an instance field the bridge reads or writes.
type FieldSpec struct {
	Owner Type
	Name  string
	Ref   Ref
	// Optional fields may be absent from the host class.
	Optional bool
}

// CtorSpec is a constructor whose parameters initialise Fields in order.
type CtorSpec struct {
	Owner  Type
	Fields []FieldSpec
}

// Request fields.
var (
	CtxSiteName    = FieldSpec{Owner: ParserContext, Name: "siteName", Ref: Obj(String)}
	CtxBoardCode   = FieldSpec{Owner: ParserContext, Name: "boardCode", Ref: Obj(String)}
	CtxThreadID    = FieldSpec{Owner: ParserContext, Name: "threadId", Ref: Prim("J")}
	CtxThreadPosts = FieldSpec{Owner: ParserContext, Name: "threadPosts", Ref: Prim("[J")}
	CtxMyReplies   = FieldSpec{Owner: ParserContext, Name: "myRepliesInThread", Ref: Prim("[J")}

	ThreadPostList = FieldSpec{Owner: ThreadToParse, Name: "postToParseList", Ref: ArrayOf(PostToParse)}

	PostSiteName  = FieldSpec{Owner: PostToParse, Name: "siteName", Ref: Obj(String), Optional: true}
	PostBoardCode = FieldSpec{Owner: PostToParse, Name: "boardCode", Ref: Obj(String), Optional: true}
	PostThreadID  = FieldSpec{Owner: PostToParse, Name: "threadId", Ref: Prim("J"), Optional: true}
	PostID        = FieldSpec{Owner: PostToParse, Name: "postId", Ref: Prim("J")}
	PostSubID     = FieldSpec{Owner: PostToParse, Name: "postSubId", Ref: Prim("J")}
	PostComment   = FieldSpec{Owner: PostToParse, Name: "comment", Ref: Obj(String)}
)

// Result fields.
var (
	ParsedList = FieldSpec{Owner: ThreadParsed, Name: "postParsedList", Ref: ArrayOf(PostParsed)}

	ParsedPostID         = FieldSpec{Owner: PostParsed, Name: "postId", Ref: Prim("J")}
	ParsedPostSubID      = FieldSpec{Owner: PostParsed, Name: "postSubId", Ref: Prim("J")}
	ParsedPostDescriptor = FieldSpec{Owner: PostParsed, Name: "postDescriptor", Ref: Obj(PostDescriptor)}
	ParsedPostComment    = FieldSpec{Owner: PostParsed, Name: "postCommentParsed", Ref: Obj(PostCommentParsed)}

	CommentTextRaw    = FieldSpec{Owner: PostCommentParsed, Name: "commentTextRaw", Ref: Obj(String)}
	CommentTextParsed = FieldSpec{Owner: PostCommentParsed, Name: "commentTextParsed", Ref: Obj(String)}
	CommentSpannables = FieldSpec{Owner: PostCommentParsed, Name: "spannableList", Ref: ArrayOf(PostCommentSpannable)}

	SpanStart  = FieldSpec{Owner: PostCommentSpannable, Name: "start", Ref: Prim("I")}
	SpanLength = FieldSpec{Owner: PostCommentSpannable, Name: "length", Ref: Prim("I")}
	SpanData   = FieldSpec{Owner: PostCommentSpannable, Name: "spannableData", Ref: Obj(SpannableData)}
)

// Descriptor fields. Each level owns the level below it.
var (
	SiteName      = FieldSpec{Owner: SiteDescriptor, Name: "siteName", Ref: Obj(String)}
	BoardSite     = FieldSpec{Owner: BoardDescriptor, Name: "siteDescriptor", Ref: Obj(SiteDescriptor)}
	BoardCode     = FieldSpec{Owner: BoardDescriptor, Name: "boardCode", Ref: Obj(String)}
	ThreadBoard   = FieldSpec{Owner: ThreadDescriptor, Name: "boardDescriptor", Ref: Obj(BoardDescriptor)}
	ThreadNo      = FieldSpec{Owner: ThreadDescriptor, Name: "threadNo", Ref: Prim("J")}
	PostThread    = FieldSpec{Owner: PostDescriptor, Name: "threadDescriptor", Ref: Obj(ThreadDescriptor)}
	PostNo        = FieldSpec{Owner: PostDescriptor, Name: "postNo", Ref: Prim("J")}
	PostSubNo     = FieldSpec{Owner: PostDescriptor, Name: "postSubNo", Ref: Prim("J")}
	SiteCtor      = CtorSpec{Owner: SiteDescriptor, Fields: []FieldSpec{SiteName}}
	BoardCtor     = CtorSpec{Owner: BoardDescriptor, Fields: []FieldSpec{BoardSite, BoardCode}}
	ThreadCtor    = CtorSpec{Owner: ThreadDescriptor, Fields: []FieldSpec{ThreadBoard, ThreadNo}}
	PostDescCtor  = CtorSpec{Owner: PostDescriptor, Fields: []FieldSpec{PostThread, PostNo, PostSubNo}}
	descriptorSet = []CtorSpec{SiteCtor, BoardCtor, ThreadCtor, PostDescCtor}
)

// Envelope constructors take no arguments; their fields are set afterwards.
var (
	ThreadParsedCtor         = CtorSpec{Owner: ThreadParsed}
	PostParsedCtor           = CtorSpec{Owner: PostParsed}
	PostCommentParsedCtor    = CtorSpec{Owner: PostCommentParsed}
	PostCommentSpannableCtor = CtorSpec{Owner: PostCommentSpannable}
)

func variantField(k model.SpanKind, name string, ref Ref) FieldSpec {
	return FieldSpec{Owner: SpannableVariants[k], Name: name, Ref: ref}
}

func variantCtor(k model.SpanKind, fields ...FieldSpec) CtorSpec {
	return CtorSpec{Owner: SpannableVariants[k], Fields: fields}
}

// Variant payload fields.
var (
	QuotePostNo         = variantField(model.KindQuote, "postNo", Prim("J"))
	DeadQuotePostNo     = variantField(model.KindDeadQuote, "postNo", Prim("J"))
	URLLinkURL          = variantField(model.KindURLLink, "urlLink", Obj(String))
	BoardLinkBoardCode  = variantField(model.KindBoardLink, "boardCode", Obj(String))
	SearchLinkBoardCode = variantField(model.KindSearchLink, "boardCode", Obj(String))
	SearchLinkQuery     = variantField(model.KindSearchLink, "searchQuery", Obj(String))
	ThreadLinkBoardCode = variantField(model.KindThreadLink, "boardCode", Obj(String))
	ThreadLinkThreadNo  = variantField(model.KindThreadLink, "threadNo", Prim("J"))
	ThreadLinkPostNo    = variantField(model.KindThreadLink, "postNo", Prim("J"))
	FontSizeSize        = variantField(model.KindFontSize, "size", Obj(String))
	FontWeightWeight    = variantField(model.KindFontWeight, "weight", Obj(String))
	ForegroundRawHex    = variantField(model.KindTextForegroundColorRaw, "colorHex", Obj(String))
	BackgroundRawHex    = variantField(model.KindTextBackgroundColorRaw, "colorHex", Obj(String))
	ForegroundColorID   = variantField(model.KindTextForegroundColorID, "colorId", Prim("I"))
	BackgroundColorID   = variantField(model.KindTextBackgroundColorID, "colorId", Prim("I"))
)

// SpannableCtors is the constructor of each variant subtype, indexed like
// SpannableVariants.
var SpannableCtors = [model.NumSpanKinds]CtorSpec{
	model.KindQuote:                  variantCtor(model.KindQuote, QuotePostNo),
	model.KindDeadQuote:              variantCtor(model.KindDeadQuote, DeadQuotePostNo),
	model.KindURLLink:                variantCtor(model.KindURLLink, URLLinkURL),
	model.KindBoardLink:              variantCtor(model.KindBoardLink, BoardLinkBoardCode),
	model.KindSearchLink:             variantCtor(model.KindSearchLink, SearchLinkBoardCode, SearchLinkQuery),
	model.KindThreadLink:             variantCtor(model.KindThreadLink, ThreadLinkBoardCode, ThreadLinkThreadNo, ThreadLinkPostNo),
	model.KindSpoiler:                variantCtor(model.KindSpoiler),
	model.KindGreenText:              variantCtor(model.KindGreenText),
	model.KindBoldText:               variantCtor(model.KindBoldText),
	model.KindFontSize:               variantCtor(model.KindFontSize, FontSizeSize),
	model.KindFontWeight:             variantCtor(model.KindFontWeight, FontWeightWeight),
	model.KindMonospace:              variantCtor(model.KindMonospace),
	model.KindTextForegroundColorRaw: variantCtor(model.KindTextForegroundColorRaw, ForegroundRawHex),
	model.KindTextBackgroundColorRaw: variantCtor(model.KindTextBackgroundColorRaw, BackgroundRawHex),
	model.KindTextForegroundColorID:  variantCtor(model.KindTextForegroundColorID, ForegroundColorID),
	model.KindTextBackgroundColorID:  variantCtor(model.KindTextBackgroundColorID, BackgroundColorID),
}

// Fields lists every field the bridge touches.
var Fields = collectFields()

// Ctors lists every constructor the bridge invokes.
var Ctors = append(append([]CtorSpec{
	ThreadParsedCtor,
	PostParsedCtor,
	PostCommentParsedCtor,
	PostCommentSpannableCtor,
}, descriptorSet...), SpannableCtors[:]...)

func collectFields() []FieldSpec {
	fields := []FieldSpec{
		CtxSiteName, CtxBoardCode, CtxThreadID, CtxThreadPosts, CtxMyReplies,
		ThreadPostList,
		PostSiteName, PostBoardCode, PostThreadID, PostID, PostSubID, PostComment,
		ParsedList,
		ParsedPostID, ParsedPostSubID, ParsedPostDescriptor, ParsedPostComment,
		CommentTextRaw, CommentTextParsed, CommentSpannables,
		SpanStart, SpanLength, SpanData,
	}
	for _, c := range descriptorSet {
		fields = append(fields, c.Fields...)
	}
	for _, c := range SpannableCtors {
		fields = append(fields, c.Fields...)
	}
	return fields
}

// FieldsOf returns the fields declared on t, in declaration order.
func FieldsOf(t Type) []FieldSpec {
	var out []FieldSpec
	for _, f := range Fields {
		if f.Owner == t {
			out = append(out, f)
		}
	}
	return out
}

// CtorsOf returns the constructors declared on t.
func CtorsOf(t Type) []CtorSpec {
	var out []CtorSpec
	for _, c := range Ctors {
		if c.Owner == t {
			out = append(out, c)
		}
	}
	return out
}
