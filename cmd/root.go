package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/trivial-journal/internal/config"
	"github.com/Tiliavir/trivial-journal/internal/logging"
	"github.com/Tiliavir/trivial-journal/internal/repl"
	"github.com/Tiliavir/trivial-journal/internal/session"
	"github.com/Tiliavir/trivial-journal/internal/storage"
)

var (
	configPath  string
	rootDir     string
	journalFlag string
	verbose     bool

	cfg     *config.Config
	store   *storage.Store
	log     logging.Logger = logging.NewNopLogger()
	logFile *os.File
)

var rootCmd = &cobra.Command{
	Use:   "tj",
	Short: "Trivial Journal – a minimal plain-text journal",
	Long: `tj keeps one plain-text file per day and journal, stored as
~/.tj/journals/<journal>/<YYYY>/<MM>/<DD>.txt. Run it without arguments to
start writing; type /help once inside to see what else it can do.`,
	Args:              cobra.NoArgs,
	PersistentPreRunE: setup,
	PersistentPostRun: teardown,
	RunE:              runRepl,
	SilenceUsage:      true,
}

// Execute is the entry point called from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default ~/.tj/config.toml)")
	rootCmd.PersistentFlags().StringVar(&rootDir, "root", "", "Directory holding the journals")
	rootCmd.PersistentFlags().StringVarP(&journalFlag, "journal", "j", "", "Journal to use, by name, prefix or index")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Also log to stderr")

	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(writeCmd)
	rootCmd.AddCommand(prevCmd)
	rootCmd.AddCommand(findCmd)
	rootCmd.AddCommand(timeCmd)
	rootCmd.AddCommand(journalsCmd)
	rootCmd.AddCommand(openCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(backupCmd)
	rootCmd.AddCommand(configCmd)
}

// setup loads the config and opens the log and the journal store.
func setup(cmd *cobra.Command, args []string) error {
	if configPath == "" {
		p, err := config.DefaultPath()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}
		configPath = p
	}

	load := config.Load
	if !writesDefaultConfig(cmd) {
		load = config.Read
	}
	c, err := load(configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if rootDir != "" {
		c.Root = rootDir
	}
	if journalFlag != "" {
		c.Journal = journalFlag
	}
	cfg = c

	opID := logging.NewOperationID()
	l, f, err := logging.New(cfg.LogDir, opID, verbose)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: logging disabled: %v\n", err)
	} else {
		log, logFile = l, f
	}
	log.Debug("starting", "command", cmd.CommandPath(), "root", cfg.Root)

	store = storage.Open(cfg.Root, log)
	return nil
}

// writesDefaultConfig reports whether running cmd may create the config file
// on first run. The config commands manage the file themselves.
func writesDefaultConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c == configCmd {
			return false
		}
	}
	return true
}

func teardown(cmd *cobra.Command, args []string) {
	if logFile != nil {
		_ = logFile.Close()
	}
}

// fatal reports err and exits, with 2 for storage problems and 1 otherwise.
func fatal(err error) {
	fmt.Fprintln(os.Stderr, err)
	if errors.Is(err, storage.ErrInvalidName) || errors.Is(err, storage.ErrNotFound) {
		os.Exit(1)
	}
	os.Exit(2)
}

// openSession resolves the journal to use and returns a session on it.
func openSession(picker repl.Picker) *session.Session {
	name, err := repl.Choose(store, picker, os.Stdout, cfg.Journal, time.Now())
	if err != nil {
		fatal(err)
	}
	sess, err := session.New(store, name, session.RealClock{}, log)
	if err != nil {
		fatal(err)
	}
	return sess
}

// parseDate reads a YYYY-MM-DD flag value in local time; empty means today.
func parseDate(flag, value string) time.Time {
	if value == "" {
		return time.Now()
	}
	d, err := time.ParseInLocation("2006-01-02", value, time.Local)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid --%s value %q: %v\n", flag, value, err)
		os.Exit(1)
	}
	return d
}

// openEditor runs the configured editor on path. The editor setting may
// carry arguments, e.g. "code --wait".
func openEditor(path string) error {
	fields := strings.Fields(cfg.Editor)
	if len(fields) == 0 {
		return fmt.Errorf("no editor configured")
	}
	c := exec.Command(fields[0], append(fields[1:], path)...)
	c.Stdin = os.Stdin
	c.Stdout = os.Stdout
	c.Stderr = os.Stderr
	if err := c.Run(); err != nil {
		return fmt.Errorf("failed to open editor (%s): %w", path, err)
	}
	return nil
}

func runRepl(cmd *cobra.Command, args []string) error {
	in := bufio.NewReader(os.Stdin)
	var picker repl.Picker = repl.NewLinePicker(in, os.Stdout)
	if interactive() {
		picker = promptPicker{}
	}

	sess := openSession(picker)
	loop := repl.New(sess, store, repl.Options{
		In:       in,
		Out:      os.Stdout,
		Picker:   picker,
		Open:     openEditor,
		PageSize: cfg.PageSize,
		Clear:    interactive(),
		Log:      log,
	})
	if err := loop.Run(); err != nil {
		fatal(err)
	}
	return nil
}
