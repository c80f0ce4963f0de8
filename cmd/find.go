package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/trivial-journal/internal/model"
	"github.com/Tiliavir/trivial-journal/internal/render"
	"github.com/Tiliavir/trivial-journal/internal/search"
)

var (
	findForward bool
	findDate    string
	findAll     bool
)

var findCmd = &cobra.Command{
	Use:   "find <text>...",
	Short: "Search earlier entries for some text",
	Long: `Search entries for some text, ignoring case. The search walks backward
from the given day (today by default), or forward with --forward, and prints
the first entry found, or every entry with --all.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runFind,
}

func init() {
	findCmd.Flags().BoolVar(&findForward, "forward", false, "Search forward in time")
	findCmd.Flags().StringVar(&findDate, "date", "", "Day to start from (YYYY-MM-DD); defaults to today")
	findCmd.Flags().BoolVarP(&findAll, "all", "a", false, "Print every matching entry")
}

func runFind(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")
	dir := model.Backward
	if findForward {
		dir = model.Forward
	}

	sess := openSession(newPicker())
	start := parseDate("date", findDate)
	out := render.New(os.Stdout)

	res, err := search.Find(store, sess.Journal(), start, dir, query)
	found := 0
	for err == nil && res != nil {
		out.Match(res)
		fmt.Println()
		found++
		if !findAll {
			break
		}
		res, err = search.Find(store, sess.Journal(), res.Date.AddDate(0, 0, dir.Step()), dir, query)
	}
	if err != nil {
		fatal(err)
	}
	if found == 0 {
		fmt.Printf("No entries in %s contain %q.\n", sess.Journal(), query)
	}
	return nil
}
