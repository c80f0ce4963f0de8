package timecalc

import (
	"strconv"
	"strings"
	"time"
)

// NowLabel marks the synthetic final mark appended by Breakdown.
const NowLabel = "<now>"

// Elapsed holds the durations reported for one mark.
type Elapsed struct {
	SinceStart time.Duration
	SinceBlock time.Duration
	SinceLast  time.Duration
}

// Mark is a timestamped line of an entry.
type Mark struct {
	At         time.Time
	Line       string
	BlockStart bool
	// Elapsed is nil for the first mark and, unless granular output was
	// requested, for marks nested inside a block.
	Elapsed *Elapsed
}

// ParseClock reads the "HH:MM am|pm" found around the first ':' of line and
// anchors it to day. Lines without a usable time report false.
// "12:xx am" keeps hour 12, matching how entries have always been read.
func ParseClock(line string, day time.Time) (time.Time, bool) {
	colon := strings.IndexByte(line, ':')
	if colon < 2 || colon+3 > len(line) {
		return time.Time{}, false
	}

	hour, err := strconv.Atoi(line[colon-2 : colon])
	if err != nil || hour < 0 {
		return time.Time{}, false
	}
	minute, err := strconv.Atoi(line[colon+1 : colon+3])
	if err != nil || minute < 0 || minute > 59 {
		return time.Time{}, false
	}
	if hour != 12 && colon+6 <= len(line) && line[colon+4:colon+6] == "pm" {
		hour += 12
	}
	if hour > 23 {
		return time.Time{}, false
	}

	return time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, day.Location()), true
}

// Breakdown extracts the timestamped lines of text, anchored to day, and
// appends a final NowLabel mark at now. Every mark after the first that
// starts a block, or every one of them when granular is set, carries the
// time elapsed since the first mark, since the current block started and
// since the previous mark.
func Breakdown(text string, day, now time.Time, granular bool) []Mark {
	var marks []Mark
	for _, line := range strings.Split(text, "\n") {
		if at, ok := ParseClock(line, day); ok {
			marks = append(marks, Mark{At: at, Line: line, BlockStart: isBlockStart(line)})
		}
	}
	marks = append(marks, Mark{At: now, Line: NowLabel, BlockStart: true})

	start := marks[0].At
	block := start
	for i := 1; i < len(marks); i++ {
		m := &marks[i]
		if m.BlockStart || granular {
			m.Elapsed = &Elapsed{
				SinceStart: m.At.Sub(start),
				SinceBlock: m.At.Sub(block),
				SinceLast:  m.At.Sub(marks[i-1].At),
			}
		}
		if m.BlockStart {
			block = m.At
		}
	}
	return marks
}

func isBlockStart(line string) bool {
	return !strings.Contains(line, "\t")
}
