package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/trivial-journal/internal/entry"
	"github.com/Tiliavir/trivial-journal/internal/model"
	"github.com/Tiliavir/trivial-journal/internal/timecalc"
)

var (
	exportFormat string
	exportFrom   string
	exportTo     string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the lines of a journal to stdout",
	Args:  cobra.NoArgs,
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportFormat, "format", "csv", "Output format: csv, json, md")
	exportCmd.Flags().StringVar(&exportFrom, "from", "", "First day (YYYY-MM-DD); defaults to the first entry")
	exportCmd.Flags().StringVar(&exportTo, "to", "", "Last day (YYYY-MM-DD); defaults to today")
}

// exportDay is one parsed entry.
type exportDay struct {
	Date time.Time
	Doc  model.Document
}

// exportRow is one unit as written to csv and json.
type exportRow struct {
	Date    string `json:"date"`
	Journal string `json:"journal"`
	Kind    string `json:"kind"`
	Clock   string `json:"clock"`
	Content string `json:"content"`
}

func runExport(cmd *cobra.Command, args []string) error {
	sess := openSession(newPicker())
	to := timecalc.EndOfDay(parseDate("to", exportTo))
	var from time.Time
	if exportFrom != "" {
		from = parseDate("from", exportFrom)
	}

	dates, err := store.Dates(context.Background(), sess.Journal())
	if err != nil {
		fatal(err)
	}

	var days []exportDay
	for _, d := range dates {
		if d.Before(from) || d.After(to) {
			continue
		}
		text, err := store.Load(sess.Journal(), d)
		if err != nil {
			fatal(err)
		}
		days = append(days, exportDay{Date: d, Doc: entry.Parse(text)})
	}

	switch exportFormat {
	case "json":
		data, err := json.MarshalIndent(rows(sess.Journal(), days), "", "  ")
		if err != nil {
			fmt.Fprintln(os.Stderr, "error encoding JSON:", err)
			os.Exit(2)
		}
		fmt.Println(string(data))
	case "md":
		printMarkdown(os.Stdout, days)
	default: // csv
		printCSV(os.Stdout, rows(sess.Journal(), days))
	}

	return nil
}

func rows(journal string, days []exportDay) []exportRow {
	out := []exportRow{}
	for _, d := range days {
		for _, u := range d.Doc.Units {
			out = append(out, exportRow{
				Date:    d.Date.Format("2006-01-02"),
				Journal: journal,
				Kind:    u.Kind.String(),
				Clock:   u.Clock,
				Content: u.Content,
			})
		}
	}
	return out
}

func printCSV(w io.Writer, rows []exportRow) {
	fmt.Fprintln(w, "date,journal,kind,clock,content")
	for _, r := range rows {
		fmt.Fprintf(w, "%s,%s,%s,%s,%s\n",
			csvEscape(r.Date),
			csvEscape(r.Journal),
			csvEscape(r.Kind),
			csvEscape(r.Clock),
			csvEscape(r.Content),
		)
	}
}

// printMarkdown writes each entry as a section with blocks as list items
// and nested lines indented below them.
func printMarkdown(w io.Writer, days []exportDay) {
	if len(days) == 0 {
		fmt.Fprintln(w, "No entries found.")
		return
	}
	for i, d := range days {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "## %s\n\n", d.Doc.Heading)
		for _, u := range d.Doc.Units {
			indent := ""
			if u.Kind == model.Line {
				indent = "  "
			}
			clock := ""
			if u.Clock != "" {
				clock = "**" + u.Clock + "** "
			}
			fmt.Fprintf(w, "%s- %s%s\n", indent, clock, u.Content)
		}
	}
}

// csvEscape wraps a field in quotes if it contains a comma, quote, or newline.
func csvEscape(s string) string {
	needsQuote := false
	for _, c := range s {
		if c == ',' || c == '"' || c == '\n' || c == '\r' {
			needsQuote = true
			break
		}
	}
	if !needsQuote {
		return s
	}
	// Escape internal double quotes by doubling them.
	escaped := ""
	for _, c := range s {
		if c == '"' {
			escaped += "\""
		}
		escaped += string(c)
	}
	return `"` + escaped + `"`
}
