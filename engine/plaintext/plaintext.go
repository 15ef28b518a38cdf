// Package plaintext is a small reference parser engine for imageboard
// comments. It understands quotes, cross-board links, greentext, URLs and a
// bracket markup:
//
//	>>123                 Quote, or DeadQuote when 123 is not in the thread
//	>>>/g/                BoardLink
//	>>>/g/123[#p456]      ThreadLink
//	>>>/g/query           SearchLink
//	>line                 GreenText
//	http(s)://...         URLLink
//	[spoiler] [b] [code]  Spoiler, BoldText, Monospace
//	[color=#f00] [color=id:3] [bg=#0f0] [bg=id:1]
//	[size=large] [weight=700]
//
// Markup tags are removed from the parsed text. Span offsets count UTF-16
// code units of the parsed text.
package plaintext

import (
	"cmp"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"unicode/utf16"

	"github.com/kurobaex/native-bridge/engine"
	"github.com/kurobaex/native-bridge/model"
)

// New returns the engine.
func New() engine.Engine {
	return engine.PerPost(Parse)
}

// Parse parses one post. A post without a comment yields a ParsedPost with
// a nil Comment.
func Parse(pc *model.ParserContext, post model.RawPost) *model.ParsedPost {
	out := &model.ParsedPost{PostID: post.PostID, PostSubID: post.PostSubID}
	if post.Comment == nil {
		return out
	}
	out.Comment = ParseComment(pc, *post.Comment)
	return out
}

// ParseComment parses raw comment text.
func ParseComment(pc *model.ParserContext, raw string) *model.ParsedComment {
	text, spans := stripMarkup(raw)
	idx := newOffsets(text)
	spans = append(spans, greentext(text, idx)...)
	spans = append(spans, links(pc, text, idx)...)

	slices.SortStableFunc(spans, func(a, b model.Spannable) int {
		return cmp.Compare(a.Start, b.Start)
	})
	return &model.ParsedComment{OriginalText: raw, ParsedText: text, Spannables: spans}
}

// offsets maps byte offsets of a string to UTF-16 offsets.
type offsets []uint32

func newOffsets(s string) offsets {
	idx := make(offsets, len(s)+1)
	var u uint32
	for i, r := range s {
		idx[i] = u
		u += uint32(utf16.RuneLen(r))
	}
	idx[len(s)] = u
	return idx
}

func (o offsets) span(start, end int, data model.SpannableData) model.Spannable {
	return model.Spannable{Start: o[start], Length: o[end] - o[start], Data: data}
}

var greenRe = regexp.MustCompile(`(?m)^>[^\n]*`)

func greentext(text string, idx offsets) []model.Spannable {
	var spans []model.Spannable
	for _, m := range greenRe.FindAllStringIndex(text, -1) {
		line := text[m[0]:m[1]]
		if quoteRe.MatchString(line) || strings.HasPrefix(line, ">>>/") {
			continue
		}
		spans = append(spans, idx.span(m[0], m[1], &model.GreenText{}))
	}
	return spans
}

var (
	quoteRe = regexp.MustCompile(`^>>\d`)
	linkRe  = regexp.MustCompile(`>>>/([A-Za-z0-9]+)/(?:(\d+)(?:#p(\d+))?|(\S*))|>>(\d+)|https?://[^\s\[\]<>"]+`)
)

func links(pc *model.ParserContext, text string, idx offsets) []model.Spannable {
	var spans []model.Spannable
	for _, m := range linkRe.FindAllStringSubmatchIndex(text, -1) {
		start, end := m[0], m[1]
		group := func(n int) string {
			if m[2*n] < 0 {
				return ""
			}
			return text[m[2*n]:m[2*n+1]]
		}

		var data model.SpannableData
		switch {
		case m[10] >= 0:
			no, err := strconv.ParseUint(group(5), 10, 64)
			if err != nil {
				continue
			}
			if pc != nil && pc.ThreadPosts.Contains(no) {
				data = &model.Quote{PostNo: no}
			} else {
				data = &model.DeadQuote{PostNo: no}
			}
		case m[2] >= 0 && m[4] >= 0:
			threadNo, err := strconv.ParseUint(group(2), 10, 64)
			if err != nil {
				continue
			}
			postNo := threadNo
			if m[6] >= 0 {
				if postNo, err = strconv.ParseUint(group(3), 10, 64); err != nil {
					continue
				}
			}
			data = &model.ThreadLink{BoardCode: group(1), ThreadNo: threadNo, PostNo: postNo}
		case m[2] >= 0 && group(4) == "":
			data = &model.BoardLink{BoardCode: group(1)}
		case m[2] >= 0:
			data = &model.SearchLink{BoardCode: group(1), SearchQuery: group(4)}
		default:
			end = start + len(strings.TrimRight(text[start:end], ".,;:!?)'"))
			data = &model.URLLink{Link: text[start:end]}
		}
		spans = append(spans, idx.span(start, end, data))
	}
	return spans
}
