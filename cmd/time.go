package cmd

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/trivial-journal/internal/render"
	"github.com/Tiliavir/trivial-journal/internal/storage"
	"github.com/Tiliavir/trivial-journal/internal/timecalc"
)

var (
	timeGranular bool
	timeDate     string
)

var timeCmd = &cobra.Command{
	Use:   "time",
	Short: "Show the time elapsed between the blocks of an entry",
	Args:  cobra.NoArgs,
	RunE:  runTime,
}

func init() {
	timeCmd.Flags().BoolVarP(&timeGranular, "granular", "g", false, "Show the time between every line")
	timeCmd.Flags().StringVar(&timeDate, "date", "", "Day to analyse (YYYY-MM-DD); defaults to today")
}

func runTime(cmd *cobra.Command, args []string) error {
	sess := openSession(newPicker())
	date := parseDate("date", timeDate)

	var (
		marks []timecalc.Mark
		err   error
	)
	if timecalc.SameDay(date, time.Now()) {
		marks, err = sess.Breakdown(timeGranular)
	} else {
		// A past day ends at midnight rather than now.
		var text string
		text, err = store.Load(sess.Journal(), date)
		if err == nil {
			marks = timecalc.Breakdown(text, date, timecalc.EndOfDay(date), timeGranular)
		}
	}
	if errors.Is(err, storage.ErrNotFound) {
		fmt.Fprintf(os.Stderr, "No entry in %s for %s.\n", sess.Journal(), date.Format("2006-01-02"))
		os.Exit(1)
	}
	if err != nil {
		fatal(err)
	}

	render.New(os.Stdout).Breakdown(marks, timeGranular)
	return nil
}
