package cmd

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/trivial-journal/internal/render"
	"github.com/Tiliavir/trivial-journal/internal/repl"
	"github.com/Tiliavir/trivial-journal/internal/storage"
)

var journalsCmd = &cobra.Command{
	Use:   "journals",
	Short: "List or create journals",
}

var journalsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all journals with their index",
	Args:  cobra.NoArgs,
	RunE:  runJournalsList,
}

var journalsNewCmd = &cobra.Command{
	Use:   "new [name]",
	Short: "Create a journal with an entry for today",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runJournalsNew,
}

func init() {
	journalsCmd.AddCommand(journalsListCmd)
	journalsCmd.AddCommand(journalsNewCmd)
}

func runJournalsList(cmd *cobra.Command, args []string) error {
	journals, err := store.ListJournals()
	if errors.Is(err, storage.ErrNotFound) {
		fmt.Println("No journals yet. Create one with: tj journals new <name>")
		return nil
	}
	if err != nil {
		fatal(err)
	}

	current := ""
	if cfg.Journal != "" {
		current, _ = storage.Resolve(cfg.Journal, journals)
	}
	render.New(os.Stdout).Journals(journals, current)
	return nil
}

func runJournalsNew(cmd *cobra.Command, args []string) error {
	name := ""
	if len(args) == 1 {
		name = args[0]
	}
	name, err := repl.CreateJournal(store, newPicker(), os.Stdout, name, time.Now())
	if err != nil {
		fatal(err)
	}
	fmt.Printf("Created journal %q at %s\n", name, store.Path(name, time.Now()))
	return nil
}
