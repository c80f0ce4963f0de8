package entry

import (
	"strings"

	"github.com/Tiliavir/trivial-journal/internal/model"
)

// clockWidth is len("09:05 am - ").
const clockWidth = 11

// Parse splits text into its heading and units. Render(Parse(text))
// reproduces text exactly as long as text contains a newline.
func Parse(text string) model.Document {
	heading, rest, _ := strings.Cut(text, "\n")
	doc := model.Document{Heading: heading}

	var cur *model.Unit
	var seg strings.Builder
	flush := func() {
		if cur == nil {
			doc.Preamble = seg.String()
		} else {
			cur.Clock, cur.Content = splitClock(seg.String())
			doc.Units = append(doc.Units, *cur)
		}
		seg.Reset()
	}

	for i := 0; i < len(rest); i++ {
		if rest[i] == '\n' && i+1 < len(rest) && (rest[i+1] == '\n' || rest[i+1] == '\t') {
			flush()
			kind := model.Block
			if rest[i+1] == '\t' {
				kind = model.Line
			}
			cur = &model.Unit{Kind: kind}
			i++
			continue
		}
		seg.WriteByte(rest[i])
	}
	flush()

	return doc
}

// Render writes doc back into entry text.
func Render(doc model.Document) string {
	var b strings.Builder
	b.WriteString(doc.Heading)
	b.WriteByte('\n')
	b.WriteString(doc.Preamble)
	for _, u := range doc.Units {
		b.WriteString(u.Kind.Separator())
		if u.Clock != "" {
			b.WriteString(u.Clock)
			b.WriteString(" - ")
		}
		b.WriteString(u.Content)
	}
	return b.String()
}

// splitClock separates a leading "HH:MM am - " from the unit text. Text
// without that prefix is returned as content with an empty clock.
func splitClock(s string) (string, string) {
	if len(s) < clockWidth || !isClock(s[:8]) || s[8:clockWidth] != " - " {
		return "", s
	}
	return s[:8], s[clockWidth:]
}

func isClock(s string) bool {
	digit := func(c byte) bool { return c >= '0' && c <= '9' }
	return digit(s[0]) && digit(s[1]) && s[2] == ':' && digit(s[3]) && digit(s[4]) &&
		s[5] == ' ' && (s[6:8] == "am" || s[6:8] == "pm")
}
