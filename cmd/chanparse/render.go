package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"unicode/utf16"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"golang.org/x/term"

	"github.com/kurobaex/native-bridge/classpath"
	"github.com/kurobaex/native-bridge/model"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	descStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	quoteStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF8C69")).
			Underline(true)

	deadQuoteStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF8C69")).
			Strikethrough(true)

	linkStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6CA0DC")).
			Underline(true)

	greenStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#789922"))

	spoilerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#000000")).
			Background(lipgloss.Color("#000000"))

	codeStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#303030"))

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

// renderer prints parse results for a terminal, or plain text when the
// output is redirected.
type renderer struct {
	w     io.Writer
	color bool
	width int
}

func newRenderer(w io.Writer) *renderer {
	r := &renderer{w: w, width: 80}
	f, ok := w.(*os.File)
	if ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())) {
		r.color = true
		if w, _, err := term.GetSize(int(f.Fd())); err == nil && w > 20 {
			r.width = w
		}
	}
	return r
}

func (r *renderer) paint(st lipgloss.Style, s string) string {
	if !r.color {
		return s
	}
	return st.Render(s)
}

func (r *renderer) thread(name string, res *classpath.ThreadParsed) {
	fmt.Fprintf(r.w, "%s %d posts\n\n", r.paint(titleStyle, name), len(res.Posts))
	for i, p := range res.Posts {
		if p == nil {
			fmt.Fprintf(r.w, "#%d %s\n\n", i, r.paint(helpStyle, "(no comment)"))
			continue
		}
		fmt.Fprint(r.w, r.post(i, p))
	}
}

func (r *renderer) failure(name string, err error) {
	fmt.Fprintf(r.w, "%s %s\n\n", r.paint(titleStyle, name), r.paint(errorStyle, err.Error()))
}

func (r *renderer) post(i int, p *classpath.PostParsed) string {
	var b strings.Builder
	fmt.Fprintf(&b, "#%d %s\n", i, r.paint(descStyle, p.Descriptor.String()))
	if p.Comment != nil {
		body := r.highlight(p.Comment.ParsedText, p.Comment.Spannables)
		b.WriteString(lipgloss.NewStyle().Width(r.width - 2).PaddingLeft(2).Render(body))
		b.WriteString("\n")
		for _, sp := range p.Comment.Spannables {
			b.WriteString("  ")
			b.WriteString(r.paint(helpStyle, describeSpan(sp)))
			b.WriteString("\n")
		}
	}
	b.WriteString("\n")
	return b.String()
}

// highlight styles text by its spans. Offsets are UTF-16 code units; where
// spans overlap, the one listed last wins.
func (r *renderer) highlight(text string, spans []model.Spannable) string {
	if !r.color || len(spans) == 0 {
		return text
	}
	units := utf16.Encode([]rune(text))
	n := uint64(len(units))

	cuts := []uint64{0, n}
	for _, sp := range spans {
		cuts = append(cuts, min(uint64(sp.Start), n), min(sp.End(), n))
	}
	slices.Sort(cuts)
	cuts = slices.Compact(cuts)

	var b strings.Builder
	for i := 0; i+1 < len(cuts); i++ {
		from, to := cuts[i], cuts[i+1]
		seg := string(utf16.Decode(units[from:to]))
		st, ok := styleAt(spans, from)
		if !ok {
			b.WriteString(seg)
			continue
		}
		b.WriteString(st.Render(seg))
	}
	return b.String()
}

func styleAt(spans []model.Spannable, pos uint64) (lipgloss.Style, bool) {
	for i := len(spans) - 1; i >= 0; i-- {
		sp := spans[i]
		if uint64(sp.Start) <= pos && pos < sp.End() && sp.Data != nil {
			return spanStyle(sp.Data), true
		}
	}
	return lipgloss.Style{}, false
}

func spanStyle(d model.SpannableData) lipgloss.Style {
	switch d := d.(type) {
	case *model.Quote:
		return quoteStyle
	case *model.DeadQuote:
		return deadQuoteStyle
	case *model.URLLink, *model.BoardLink, *model.SearchLink, *model.ThreadLink:
		return linkStyle
	case *model.GreenText:
		return greenStyle
	case *model.Spoiler:
		return spoilerStyle
	case *model.Monospace:
		return codeStyle
	case *model.BoldText:
		return lipgloss.NewStyle().Bold(true)
	case *model.FontWeight:
		return lipgloss.NewStyle().Bold(d.Weight == "bold")
	case *model.TextForegroundColorRaw:
		return lipgloss.NewStyle().Foreground(lipgloss.Color(d.ColorHex))
	case *model.TextBackgroundColorRaw:
		return lipgloss.NewStyle().Background(lipgloss.Color(d.ColorHex))
	case *model.TextForegroundColorID:
		return lipgloss.NewStyle().Foreground(lipgloss.ANSIColor(uint(d.ColorID) % 16))
	case *model.TextBackgroundColorID:
		return lipgloss.NewStyle().Background(lipgloss.ANSIColor(uint(d.ColorID) % 16))
	default:
		return lipgloss.NewStyle()
	}
}

func describeSpan(sp model.Spannable) string {
	kind := "unknown"
	payload := "{}"
	if sp.Data != nil {
		kind = sp.Data.Kind().String()
		if b, err := json.Marshal(sp.Data); err == nil {
			payload = string(b)
		}
	}
	return fmt.Sprintf("[%d,+%d) %s %s", sp.Start, sp.Length, kind, payload)
}
