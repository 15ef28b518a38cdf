package model

// ParserContext identifies the thread being parsed. Built once per call and
// not modified afterwards.
type ParserContext struct {
	ThreadPosts IDSet  `msgpack:"thread_posts" json:"threadPosts"`
	MyReplies   IDSet  `msgpack:"my_replies" json:"myRepliesInThread"`
	SiteName    string `msgpack:"site_name" json:"siteName" validate:"required"`
	BoardCode   string `msgpack:"board_code" json:"boardCode" validate:"required"`
	ThreadID    uint64 `msgpack:"thread_id" json:"threadId" validate:"gt=0"`
}

// RawPost is one post as handed to the engine. A nil Comment means the post
// has no text, which is not the same as an empty comment.
//
// SiteName, BoardCode and ThreadID are optional per-post overrides of the
// context values; zero means "use the context".
type RawPost struct {
	Comment   *string `msgpack:"comment" json:"comment"`
	SiteName  string  `msgpack:"site_name,omitempty" json:"siteName,omitempty"`
	BoardCode string  `msgpack:"board_code,omitempty" json:"boardCode,omitempty"`
	ThreadID  uint64  `msgpack:"thread_id,omitempty" json:"threadId,omitempty"`
	PostID    uint64  `msgpack:"post_id" json:"postId" validate:"gt=0"`
	PostSubID uint64  `msgpack:"post_sub_id" json:"postSubId"`
}

// HasComment reports whether the post carries text.
func (p RawPost) HasComment() bool {
	return p.Comment != nil
}

// RawThread is the ordered post list. Result index i belongs to Posts[i].
type RawThread struct {
	Posts []RawPost `msgpack:"posts" json:"posts" validate:"dive"`
}

// ParsedPost is the engine result for one RawPost. A nil Comment means the
// post could not be parsed.
type ParsedPost struct {
	Comment   *ParsedComment `msgpack:"comment" json:"comment"`
	PostID    uint64         `msgpack:"post_id" json:"postId"`
	PostSubID uint64         `msgpack:"post_sub_id" json:"postSubId"`
}

// ParsedComment is a comment after parsing. ParsedText may differ from
// OriginalText when the engine rewrites markup.
type ParsedComment struct {
	OriginalText string      `msgpack:"original_text" json:"originalText"`
	ParsedText   string      `msgpack:"parsed_text" json:"parsedText"`
	Spannables   []Spannable `msgpack:"spannables" json:"spannables"`
}

// Spannable annotates ParsedText[Start : Start+Length].
type Spannable struct {
	Data   SpannableData
	Start  uint32
	Length uint32
}

// End returns the exclusive end offset.
func (s Spannable) End() uint64 {
	return uint64(s.Start) + uint64(s.Length)
}
