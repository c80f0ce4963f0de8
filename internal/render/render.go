// Package render prints entries, history pages, search hits and time
// breakdowns for the terminal.
package render

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"github.com/Tiliavir/trivial-journal/internal/entry"
	"github.com/Tiliavir/trivial-journal/internal/history"
	"github.com/Tiliavir/trivial-journal/internal/search"
	"github.com/Tiliavir/trivial-journal/internal/timecalc"
)

var (
	title  = color.New(color.Bold, color.Underline)
	faint  = color.New(color.Faint)
	hint   = color.New(color.Faint, color.Italic)
	marked = color.New(color.FgHiYellow, color.Bold)
)

// Printer writes to a terminal or any other writer.
type Printer struct {
	w io.Writer
}

// New returns a Printer writing to w.
func New(w io.Writer) *Printer {
	return &Printer{w: w}
}

// Writer returns the underlying writer.
func (p *Printer) Writer() io.Writer { return p.w }

// Println writes a plain line.
func (p *Printer) Println(a ...interface{}) {
	_, _ = fmt.Fprintln(p.w, a...)
}

// Printf writes plain formatted text.
func (p *Printer) Printf(format string, a ...interface{}) {
	_, _ = fmt.Fprintf(p.w, format, a...)
}

// Entry prints the text of an entry with its heading emphasised. An entry
// without input gets a hint on how to start.
func (p *Printer) Entry(journal, text string) {
	head, body, _ := strings.Cut(text, "\n")
	_, _ = title.Fprintln(p.w, head)
	if body != "" {
		_, _ = fmt.Fprintln(p.w, body)
	}
	if entry.HasNoEntries(text) {
		_, _ = fmt.Fprintln(p.w)
		_, _ = hint.Fprintf(p.w, "You haven't put any entries in [%s] yet.\nType '/help' at any time to find out how.\n", journal)
	}
	_, _ = fmt.Fprintln(p.w)
}

// Page prints a page of history, oldest entry first, each behind a banner
// telling how far back it is.
func (p *Printer) Page(res history.PageResult) {
	for _, d := range res.Days {
		banner := "<latest entry>"
		if d.Latest > 0 {
			banner = fmt.Sprintf("<latest entry - %d>", d.Latest)
		}
		_, _ = faint.Fprintf(p.w, "\n---------------- %s ----------------\n\n", banner)
		_, _ = fmt.Fprintln(p.w, d.Text)
	}

	_, _ = fmt.Fprintln(p.w)
	if len(res.Days) == 0 {
		_, _ = fmt.Fprintf(p.w, "No entries were found for page %d with a page size of %d.\n", res.Page, res.Size)
		return
	}
	_, _ = fmt.Fprintf(p.w, "Viewing entries from latest-%d to latest-%d\n",
		res.Days[0].Latest, res.Days[len(res.Days)-1].Latest)
	if !res.Complete() {
		_, _ = fmt.Fprintf(p.w, "(Only %d/%d entries were found)\n", len(res.Days), res.Size)
	}
}

// Match prints the blocks of a search hit, marking the matching text of each
// line above and below.
func (p *Printer) Match(res *search.Result) {
	_, _ = title.Fprintf(p.w, "Found results in %s:\n", res.Heading)
	for _, b := range res.Blocks {
		_, _ = fmt.Fprintln(p.w)
		for _, l := range b.Lines {
			if !l.Match {
				_, _ = fmt.Fprintf(p.w, "    %s\n", l.Text)
				continue
			}
			end := l.Column + l.Length
			_, _ = fmt.Fprintln(p.w)
			_, _ = fmt.Fprintln(p.w, Marker(l, 'v'))
			_, _ = fmt.Fprintf(p.w, "--> %s%s%s     <--\n",
				l.Text[:l.Column], marked.Sprint(l.Text[l.Column:end]), l.Text[end:])
			_, _ = fmt.Fprintln(p.w, Marker(l, '^'))
			_, _ = fmt.Fprintln(p.w)
		}
	}
}

// Marker returns a row of sym placed under the matching part of l, indented
// to line up with the "--> " prefix. Tabs are kept so the row aligns.
func Marker(l search.Line, sym rune) string {
	var b strings.Builder
	b.WriteString("    ")
	for _, r := range l.Text[:l.Column] {
		if r == '\t' {
			b.WriteRune('\t')
		} else {
			b.WriteRune(' ')
		}
	}
	n := utf8.RuneCountInString(l.Text[l.Column : l.Column+l.Length])
	b.WriteString(strings.Repeat(string(sym), n))
	return b.String()
}

// Breakdown prints the timestamped lines of an entry together with the time
// elapsed at each block start, or at every line when granular.
func (p *Printer) Breakdown(marks []timecalc.Mark, granular bool) {
	heading := "Viewing time breakdown"
	if granular {
		heading += " (granular)"
	}
	_, _ = title.Fprintln(p.w, heading+":")
	_, _ = fmt.Fprintln(p.w)

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(faint.Sprint("line"), faint.Sprint("since start"), faint.Sprint("since block"), faint.Sprint("since last"))
	for i, m := range marks {
		if i > 0 && m.BlockStart {
			tbl.AddRow("")
		}
		line := strings.TrimLeft(m.Line, "\t")
		if !m.BlockStart {
			line = "  " + line
		}
		if m.Elapsed == nil {
			tbl.AddRow(line)
			continue
		}
		tbl.AddRow(line,
			timecalc.FormatHours(m.Elapsed.SinceStart),
			timecalc.FormatHours(m.Elapsed.SinceBlock),
			timecalc.FormatHours(m.Elapsed.SinceLast))
	}
	_, _ = fmt.Fprintln(p.w, tbl)

	if n := len(marks); n > 1 {
		_, _ = fmt.Fprintln(p.w)
		_, _ = faint.Fprintf(p.w, "%s since the first line\n", timecalc.FormatDuration(marks[n-1].At.Sub(marks[0].At)))
	}
}

// Journals prints the numbered list of journals, marking current.
func (p *Printer) Journals(names []string, current string) {
	tbl := uitable.New()
	tbl.Separator = "  "
	for i, n := range names {
		mark := ""
		if n == current {
			mark = "*"
		}
		tbl.AddRow(fmt.Sprintf("%d", i), mark, n)
	}
	tbl.RightAlign(0)
	_, _ = fmt.Fprintln(p.w, tbl)
}
