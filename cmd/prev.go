package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/trivial-journal/internal/render"
)

var (
	prevPage int
	prevSize int
)

var prevCmd = &cobra.Command{
	Use:     "prev",
	Aliases: []string{"last"},
	Short:   "Show earlier entries, most recent last",
	Args:    cobra.NoArgs,
	RunE:    runPrev,
}

func init() {
	prevCmd.Flags().IntVarP(&prevPage, "page", "p", 1, "Page number, 1 being the most recent")
	prevCmd.Flags().IntVar(&prevSize, "size", 0, "Entries per page (default from config)")
}

func runPrev(cmd *cobra.Command, args []string) error {
	size := prevSize
	if size <= 0 {
		size = cfg.PageSize
	}

	sess := openSession(newPicker())
	res, err := sess.Page(size, prevPage)
	if err != nil {
		fatal(err)
	}
	render.New(os.Stdout).Page(res)
	return nil
}
