// Package search finds entries containing a piece of text by walking a
// journal's history.
package search

import (
	"strings"
	"time"

	"github.com/Tiliavir/trivial-journal/internal/history"
	"github.com/Tiliavir/trivial-journal/internal/model"
)

// Line is one line of a matching block.
type Line struct {
	Text  string
	Match bool
	// Column is the byte offset of the match in Text, Length its byte length.
	Column int
	Length int
}

// Block is a blank-line separated part of an entry that contains the query.
type Block struct {
	Lines []Line
}

// Result is the first entry found by Find.
type Result struct {
	Date    time.Time
	Heading string
	Blocks  []Block
}

// Find walks journal from start in dir and returns the first entry whose
// text contains query, ignoring case. A nil result means nothing further
// matched. Entries that have no blank-line separated body are passed over.
func Find(src history.Source, journal string, start time.Time, dir model.Direction, query string) (*Result, error) {
	if query == "" {
		return nil, nil
	}

	var found *Result
	err := history.Walk(src, journal, start, dir, func(date time.Time, text string) bool {
		found = match(date, text, query)
		return found == nil
	})
	if err != nil {
		return nil, err
	}
	return found, nil
}

func match(date time.Time, text, query string) *Result {
	if !strings.Contains(strings.ToLower(text), strings.ToLower(query)) {
		return nil
	}
	head, _, ok := strings.Cut(text, "\n\n")
	if !ok {
		return nil
	}

	res := &Result{Date: date, Heading: head}
	for _, b := range strings.Split(text, "\n\n") {
		if indexFold(b, query) < 0 {
			continue
		}
		var block Block
		for _, l := range strings.Split(b, "\n") {
			line := Line{Text: l}
			if i := indexFold(l, query); i >= 0 {
				line.Match, line.Column, line.Length = true, i, len(query)
			}
			block.Lines = append(block.Lines, line)
		}
		res.Blocks = append(res.Blocks, block)
	}
	if len(res.Blocks) == 0 {
		return nil
	}
	return res
}

// indexFold is strings.Index with ASCII case folding. Byte offsets in s are
// preserved so the result can be used to place a highlight.
func indexFold(s, sub string) int {
	return strings.Index(lowerASCII(s), lowerASCII(sub))
}

func lowerASCII(s string) string {
	b := []byte(s)
	for i, c := range b {
		if 'A' <= c && c <= 'Z' {
			b[i] = c + 'a' - 'A'
		}
	}
	return string(b)
}

// Cursor steps through successive matches of one query.
type Cursor struct {
	src     history.Source
	journal string
	query   string
	at      time.Time
}

// NewCursor returns a cursor positioned at from. The first Next call searches
// from the day before or after from.
func NewCursor(src history.Source, journal, query string, from time.Time) *Cursor {
	return &Cursor{src: src, journal: journal, query: query, at: from}
}

// Query returns the text the cursor searches for.
func (c *Cursor) Query() string { return c.query }

// At returns the date of the last hit, or the starting date before any hit.
func (c *Cursor) At() time.Time { return c.at }

// Next returns the next match in dir, starting one day past the last hit.
// The cursor only moves when something is found.
func (c *Cursor) Next(dir model.Direction) (*Result, error) {
	res, err := Find(c.src, c.journal, c.at.AddDate(0, 0, dir.Step()), dir, c.query)
	if err != nil || res == nil {
		return nil, err
	}
	c.at = res.Date
	return res, nil
}
