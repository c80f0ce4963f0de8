package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/trivial-journal/internal/render"
	"github.com/Tiliavir/trivial-journal/internal/storage"
	"github.com/Tiliavir/trivial-journal/internal/timecalc"
)

var (
	showDate   string
	showFollow bool
)

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the entry of a day",
	Args:  cobra.NoArgs,
	RunE:  runShow,
}

func init() {
	showCmd.Flags().StringVar(&showDate, "date", "", "Day to show (YYYY-MM-DD); defaults to today")
	showCmd.Flags().BoolVarP(&showFollow, "follow", "f", false, "Print the entry again whenever it changes")
}

func runShow(cmd *cobra.Command, args []string) error {
	sess := openSession(newPicker())
	date := parseDate("date", showDate)
	out := render.New(os.Stdout)

	show := func() {
		text, err := store.Load(sess.Journal(), date)
		if errors.Is(err, storage.ErrNotFound) && timecalc.SameDay(date, sess.Now()) {
			text, err = sess.Today()
		}
		if errors.Is(err, storage.ErrNotFound) {
			fmt.Printf("No entry in %s for %s.\n", sess.Journal(), date.Format("2006-01-02"))
			return
		}
		if err != nil {
			fatal(err)
		}
		out.Entry(sess.Journal(), text)
	}

	show()
	if !showFollow {
		return nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	changed, err := store.Watch(ctx, sess.Journal(), date)
	if err != nil {
		fatal(err)
	}
	for range changed {
		show()
	}
	return nil
}
