package plaintext

import (
	"regexp"
	"slices"
	"strconv"
	"strings"
	"unicode/utf16"

	"github.com/kurobaex/native-bridge/model"
)

var (
	tagRe = regexp.MustCompile(`\[(/?)(spoiler|b|code|color|bg|size|weight)(?:=([^\]\s]+))?\]`)
	hexRe = regexp.MustCompile(`^#(?:[0-9A-Fa-f]{3}|[0-9A-Fa-f]{6}|[0-9A-Fa-f]{8})$`)
)

type openTag struct {
	data  model.SpannableData
	name  string
	start uint32
}

// stripMarkup removes recognised tags and returns the remaining text with
// one span per tag pair. Unknown or unmatched tags are kept as text;
// unclosed tags extend to the end.
func stripMarkup(raw string) (string, []model.Spannable) {
	var (
		b     strings.Builder
		spans []model.Spannable
		stack []openTag
		pos   uint32
	)
	write := func(s string) {
		b.WriteString(s)
		pos += utf16Len(s)
	}
	closeTag := func(t openTag) {
		if pos > t.start {
			spans = append(spans, model.Spannable{Start: t.start, Length: pos - t.start, Data: t.data})
		}
	}

	last := 0
	for _, m := range tagRe.FindAllStringSubmatchIndex(raw, -1) {
		write(raw[last:m[0]])
		last = m[1]

		closing := m[3] > m[2]
		name := raw[m[4]:m[5]]
		param := ""
		if m[6] >= 0 {
			param = raw[m[6]:m[7]]
		}

		if closing {
			i := lastOpen(stack, name)
			if i < 0 || param != "" {
				write(raw[m[0]:m[1]])
				continue
			}
			closeTag(stack[i])
			stack = slices.Delete(stack, i, i+1)
			continue
		}

		data := tagData(name, param)
		if data == nil {
			write(raw[m[0]:m[1]])
			continue
		}
		stack = append(stack, openTag{data: data, name: name, start: pos})
	}
	write(raw[last:])

	for _, t := range stack {
		closeTag(t)
	}
	return b.String(), spans
}

func lastOpen(stack []openTag, name string) int {
	for i := len(stack) - 1; i >= 0; i-- {
		if stack[i].name == name {
			return i
		}
	}
	return -1
}

func tagData(name, param string) model.SpannableData {
	switch name {
	case "spoiler", "b", "code":
		if param != "" {
			return nil
		}
		switch name {
		case "spoiler":
			return &model.Spoiler{}
		case "b":
			return &model.BoldText{}
		default:
			return &model.Monospace{}
		}
	case "color", "bg":
		fg := name == "color"
		if id, ok := strings.CutPrefix(param, "id:"); ok {
			n, err := strconv.ParseInt(id, 10, 32)
			if err != nil {
				return nil
			}
			if fg {
				return &model.TextForegroundColorID{ColorID: int32(n)}
			}
			return &model.TextBackgroundColorID{ColorID: int32(n)}
		}
		if !hexRe.MatchString(param) {
			return nil
		}
		if fg {
			return &model.TextForegroundColorRaw{ColorHex: param}
		}
		return &model.TextBackgroundColorRaw{ColorHex: param}
	case "size":
		if param == "" {
			return nil
		}
		return &model.FontSize{Size: param}
	case "weight":
		if param == "" {
			return nil
		}
		return &model.FontWeight{Weight: param}
	default:
		return nil
	}
}

func utf16Len(s string) uint32 {
	var n uint32
	for _, r := range s {
		n += uint32(utf16.RuneLen(r))
	}
	return n
}
