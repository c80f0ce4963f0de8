package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/trivial-journal/internal/entry"
)

var writeBlock bool

var writeCmd = &cobra.Command{
	Use:   "write <text>...",
	Short: "Append a line to today's entry",
	Long: `Append a line to today's entry. Text starting with "-" (or --block)
starts a new block, anything else is nested under the current block, and a
lone "~" toggles the last line between the two.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runWrite,
}

func init() {
	writeCmd.Flags().BoolVarP(&writeBlock, "block", "b", false, "Start a new block")
}

func runWrite(cmd *cobra.Command, args []string) error {
	input := strings.Join(args, " ")
	if writeBlock {
		input = "-" + input
	}

	sess := openSession(newPicker())
	text, err := sess.Write(input)
	if errors.Is(err, entry.ErrRejected) {
		fmt.Fprintln(os.Stderr, "Can't use '~' when there aren't any entries")
		os.Exit(1)
	}
	if err != nil {
		fatal(err)
	}

	lines := strings.Split(text, "\n")
	fmt.Println(lines[len(lines)-1])
	return nil
}
