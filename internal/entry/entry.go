// Package entry implements the text model of a day's journal entry: the
// heading written at creation, timestamped units appended as blocks or
// nested lines, and toggling the most recent unit between the two forms.
package entry

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Tiliavir/trivial-journal/internal/model"
)

// ToggleInput is the input that flips the most recent unit.
const ToggleInput = "~"

// ErrRejected is returned when input cannot be applied to the entry.
var ErrRejected = errors.New("no entries to toggle")

// Heading returns the first line of a new entry, including its newline.
func Heading(journal string, date time.Time) string {
	return fmt.Sprintf("%s - %s %d/%d/%d\n",
		journal, date.Weekday(), date.Year(), int(date.Month()), date.Day())
}

// Timestamp renders t as a zero padded 12-hour clock, e.g. "09:05 pm".
func Timestamp(t time.Time) string {
	hour := t.Hour() % 12
	if hour == 0 {
		hour = 12
	}
	ampm := "am"
	if t.Hour() >= 12 {
		ampm = "pm"
	}
	return fmt.Sprintf("%02d:%02d %s", hour, t.Minute(), ampm)
}

// HasNoEntries reports whether text holds nothing beyond its heading.
// The heading carries one '-', every unit adds another.
func HasNoEntries(text string) bool {
	return strings.Count(text, "-") < 2
}

func unit(t time.Time, kind model.UnitKind, content string) string {
	return kind.Separator() + Timestamp(t) + " - " + content
}

// Append merges one line of user input into text and returns the new text.
// Input starting with '-' opens a new block, anything else is nested under
// the current block, and the first input of a day is always a block.
func Append(text string, now time.Time, input string) (string, error) {
	empty := HasNoEntries(text)

	switch {
	case strings.TrimSpace(input) == ToggleInput:
		if empty {
			return text, ErrRejected
		}
		return Toggle(text), nil

	case strings.HasPrefix(input, "-") || empty:
		content := strings.TrimPrefix(strings.TrimSpace(input), "-")
		return text + unit(now, model.Block, strings.TrimSpace(content)), nil

	default:
		return text + unit(now, model.Line, strings.TrimSpace(input)), nil
	}
}

// Toggle flips the separator in front of the most recent unit, turning a
// block into a nested line or a nested line into a block. Everything else
// is left byte for byte. Text without any separator is returned unchanged.
func Toggle(text string) string {
	block := strings.LastIndex(text, model.Block.Separator())
	line := strings.LastIndex(text, model.Line.Separator())

	switch {
	case block < 0 && line < 0:
		return text
	case block > line:
		return replaceAt(text, block, model.Line.Separator())
	default:
		return replaceAt(text, line, model.Block.Separator())
	}
}

// replaceAt swaps the two byte separator at i for sep.
func replaceAt(text string, i int, sep string) string {
	return text[:i] + sep + text[i+2:]
}
