// Package model holds the native values exchanged with a parser engine.
//
// Request side:
//
//	ParserContext - site, board, thread and the two post id sets
//	RawThread     - ordered RawPost list, each with an optional comment
//
// Result side:
//
//	ParsedPost    - one per RawPost, with an optional ParsedComment
//	ParsedComment - original text, parsed text and Spannable annotations
//	Spannable     - a (start, length) range over the parsed text carrying
//	                one SpannableData variant
//
// SpannableData is a closed union of sixteen variants. Every consumer
// implements SpannableVisitor, so a new variant does not compile until all
// visitors handle it.
//
// All values are created fresh per call and never shared between calls.
// Offsets and lengths are in UTF-16 code units, matching host string
// indexing.
package model
