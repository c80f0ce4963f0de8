package repl

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/Tiliavir/trivial-journal/internal/session"
	"github.com/Tiliavir/trivial-journal/internal/storage"
)

// Store is the journal store the loop works on.
type Store interface {
	session.Store
	ListJournals() ([]string, error)
	Path(journal string, date time.Time) string
}

// Picker asks the user to choose a journal or name a new one.
type Picker interface {
	Pick(journals []string) (string, error)
	NewName() (string, error)
}

// Choose returns the journal to work on. preferred, when set, is resolved
// by index or prefix and used as a new journal name if nothing matches. A
// single journal is selected without asking, and with no journals at all
// the user is asked to create one.
func Choose(store Store, picker Picker, out io.Writer, preferred string, now time.Time) (string, error) {
	journals, err := store.ListJournals()
	if errors.Is(err, storage.ErrNotFound) {
		if preferred != "" {
			return preferred, storage.ValidateName(preferred)
		}
		return CreateJournal(store, picker, out, "", now)
	}
	if err != nil {
		return "", err
	}

	if preferred != "" {
		if name, ok := storage.Resolve(preferred, journals); ok {
			return name, nil
		}
		return preferred, storage.ValidateName(preferred)
	}
	if len(journals) == 1 {
		return journals[0], nil
	}
	return picker.Pick(journals)
}

// CreateJournal creates a journal with today's entry. Names that already
// refer to an existing journal, by index or prefix, are refused and the
// user is asked again. A non-empty name is tried before asking.
func CreateJournal(store Store, picker Picker, out io.Writer, name string, now time.Time) (string, error) {
	for {
		if name == "" {
			var err error
			if name, err = picker.NewName(); err != nil {
				return "", err
			}
		}
		name = strings.TrimSpace(name)

		journals, err := store.ListJournals()
		if err != nil && !errors.Is(err, storage.ErrNotFound) {
			return "", err
		}
		if existing, ok := storage.Resolve(name, journals); ok {
			fmt.Fprintf(out, "That name already refers to the journal '%s', please pick another one.\n", existing)
			name = ""
			continue
		}
		if err := storage.ValidateName(name); err != nil {
			fmt.Fprintln(out, err)
			name = ""
			continue
		}

		if _, err := store.LoadOrInit(name, now); err != nil {
			return "", err
		}
		return name, nil
	}
}

// linePicker reads choices as plain lines of input.
type linePicker struct {
	in  *bufio.Reader
	out io.Writer
}

// NewLinePicker returns a Picker that prints a numbered list and reads the
// answer from in.
func NewLinePicker(in io.Reader, out io.Writer) Picker {
	br, ok := in.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(in)
	}
	return &linePicker{in: br, out: out}
}

func (p *linePicker) Pick(journals []string) (string, error) {
	for {
		fmt.Fprintln(p.out, "Select a journal:")
		for i, j := range journals {
			fmt.Fprintf(p.out, "[%d] - %s\n", i, j)
		}
		input, err := readLine(p.in)
		if err != nil {
			return "", err
		}
		if name, ok := storage.Resolve(input, journals); ok {
			return name, nil
		}
		fmt.Fprintln(p.out, "Input was invalid, try again")
	}
}

func (p *linePicker) NewName() (string, error) {
	for {
		fmt.Fprintln(p.out, "Enter the name of your new journal:")
		input, err := readLine(p.in)
		if err != nil {
			return "", err
		}
		if input != "" {
			return input, nil
		}
	}
}

// readLine returns the next line of in without its line ending. The last
// line is returned even when it is not terminated.
func readLine(in *bufio.Reader) (string, error) {
	line, err := in.ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || line == "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
