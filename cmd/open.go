package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/trivial-journal/internal/storage"
	"github.com/Tiliavir/trivial-journal/internal/timecalc"
)

var openDate string

var openCmd = &cobra.Command{
	Use:   "open",
	Short: "Edit an entry in the configured editor",
	Args:  cobra.NoArgs,
	RunE:  runOpen,
}

func init() {
	openCmd.Flags().StringVar(&openDate, "date", "", "Day to edit (YYYY-MM-DD); defaults to today")
}

func runOpen(cmd *cobra.Command, args []string) error {
	sess := openSession(newPicker())
	date := parseDate("date", openDate)

	if timecalc.SameDay(date, sess.Now()) {
		if _, err := sess.Today(); err != nil {
			fatal(err)
		}
	} else if _, err := store.Load(sess.Journal(), date); errors.Is(err, storage.ErrNotFound) {
		fmt.Fprintf(os.Stderr, "No entry in %s for %s.\n", sess.Journal(), date.Format("2006-01-02"))
		os.Exit(1)
	} else if err != nil {
		fatal(err)
	}

	path := store.Path(sess.Journal(), date)
	log.Info("opening entry in editor", "path", path, "editor", cfg.Editor)
	if err := openEditor(path); err != nil {
		fatal(err)
	}
	return nil
}
