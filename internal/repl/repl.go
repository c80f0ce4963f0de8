// Package repl runs the interactive journaling loop: it shows today's entry,
// reads one line at a time and either appends it or runs a command.
package repl

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/Tiliavir/trivial-journal/internal/entry"
	"github.com/Tiliavir/trivial-journal/internal/history"
	"github.com/Tiliavir/trivial-journal/internal/logging"
	"github.com/Tiliavir/trivial-journal/internal/model"
	"github.com/Tiliavir/trivial-journal/internal/render"
	"github.com/Tiliavir/trivial-journal/internal/search"
	"github.com/Tiliavir/trivial-journal/internal/session"
	"github.com/Tiliavir/trivial-journal/internal/storage"
)

// clearScreen moves the cursor home and clears the terminal.
const clearScreen = "\033[H\033[2J"

// errExit ends the loop from inside a nested prompt.
var errExit = errors.New("exit")

// Options configure a Loop.
type Options struct {
	In  io.Reader
	Out io.Writer
	// Picker chooses journals for /switch and /new. Defaults to plain
	// numbered prompts on In and Out.
	Picker Picker
	// Open edits the file at path, usually in an external editor.
	Open     func(path string) error
	PageSize int
	// Clear redraws the screen before each prompt.
	Clear bool
	Log   logging.Logger
}

// Loop is one interactive session.
type Loop struct {
	sess   *session.Session
	store  Store
	in     *bufio.Reader
	out    *render.Printer
	picker Picker
	open   func(path string) error
	size   int
	clear  bool
	log    logging.Logger

	message string
}

// New returns a loop over sess. store must be the store sess writes to.
func New(sess *session.Session, store Store, opts Options) *Loop {
	l := &Loop{
		sess:   sess,
		store:  store,
		in:     bufio.NewReader(opts.In),
		out:    render.New(opts.Out),
		picker: opts.Picker,
		open:   opts.Open,
		size:   opts.PageSize,
		clear:  opts.Clear,
		log:    opts.Log,
	}
	if l.picker == nil {
		l.picker = NewLinePicker(l.in, opts.Out)
	}
	if l.size <= 0 {
		l.size = history.DefaultPageSize
	}
	if l.log == nil {
		l.log = logging.NewNopLogger()
	}
	return l
}

// Run shows today's entry and processes input until /exit or the end of
// input. Errors are only returned for failures the loop cannot continue
// after, such as an unreadable journal directory.
func (l *Loop) Run() error {
	for {
		text, err := l.sess.Today()
		if err != nil {
			return err
		}
		l.redraw()
		l.out.Entry(l.sess.Journal(), text)
		if l.message != "" {
			l.out.Printf("\n%s\n", l.message)
			l.message = ""
		}
		l.out.Printf("\ncurrent->%s: ", l.sess.Journal())

		input, err := l.readLine()
		if errors.Is(err, io.EOF) || errors.Is(err, errExit) {
			return nil
		}
		if err != nil {
			return err
		}

		err = l.dispatch(Parse(input))
		switch {
		case errors.Is(err, errExit), errors.Is(err, io.EOF):
			return nil
		case errors.Is(err, storage.ErrBadLayout):
			return err
		case err != nil:
			l.log.Warn("command failed", "input", input, "err", err)
			l.message = err.Error()
		}
	}
}

func (l *Loop) dispatch(cmd Command) error {
	switch cmd.Kind {
	case Ignore:
		return nil
	case Exit:
		return errExit
	case Help:
		return l.help()
	case Write:
		_, err := l.sess.Write(cmd.Text)
		if errors.Is(err, entry.ErrRejected) {
			l.message = "Can't use '~' when there aren't any entries"
			return nil
		}
		return err
	case Switch:
		return l.switchJournal(cmd.Text)
	case NewJournal:
		name, err := CreateJournal(l.store, l.picker, l.out.Writer(), cmd.Text, l.sess.Now())
		if err != nil {
			return err
		}
		return l.sess.Switch(name)
	case Prev:
		return l.prev()
	case Time:
		return l.times(false)
	case GTime:
		return l.times(true)
	case Find:
		return l.find(cmd.Text)
	case Open:
		return l.edit()
	default:
		l.message = fmt.Sprintf("Unknown command %q, type /help to see what is available.", cmd.Text)
		return nil
	}
}

func (l *Loop) switchJournal(arg string) error {
	journals, err := l.store.ListJournals()
	if errors.Is(err, storage.ErrNotFound) {
		l.message = "No journals available, use /new to make one."
		return nil
	}
	if err != nil {
		return err
	}

	var name string
	if arg != "" {
		var ok bool
		if name, ok = storage.Resolve(arg, journals); !ok {
			l.message = fmt.Sprintf("There is no journal matching %q.", arg)
			return nil
		}
	} else if name, err = l.picker.Pick(journals); err != nil {
		return err
	}
	return l.sess.Switch(name)
}

func (l *Loop) prev() error {
	page := 0
	for {
		l.redraw()
		res, err := l.sess.Page(l.size, page)
		if err != nil {
			return err
		}
		l.out.Page(res)

		l.out.Println("input a page number (1 or more), or anything else to go back")
		input, err := l.readLine()
		if err != nil {
			return err
		}
		n, err := strconv.Atoi(strings.TrimSpace(input))
		if err != nil || n < 0 {
			return nil
		}
		page = n
	}
}

func (l *Loop) times(granular bool) error {
	l.redraw()
	marks, err := l.sess.Breakdown(granular)
	if err != nil {
		return err
	}
	l.out.Breakdown(marks, granular)
	l.out.Println("press enter to go back ...")
	_, err = l.readLine()
	return err
}

func (l *Loop) find(query string) error {
	var cursor *search.Cursor
	if query != "" {
		cursor = l.sess.Search(query)
	}

	l.redraw()
	for {
		if cursor != nil {
			l.out.Printf("Searching for %q\n", cursor.Query())
		}
		l.out.Println(`Enter search text, "<" or ">" to search backwards or forwards, or ":quit" to go back`)
		input, err := l.readLine()
		if err != nil {
			return err
		}
		l.redraw()

		var dir model.Direction
		switch strings.TrimSpace(input) {
		case ":quit":
			return nil
		case "<", "":
			dir = model.Backward
		case ">":
			dir = model.Forward
		default:
			cursor = l.sess.Search(input)
			continue
		}

		if cursor == nil {
			l.out.Println("Enter some text to search for first.")
			continue
		}
		l.out.Printf("searching %ss from %s ...\n", dir, cursor.At().AddDate(0, 0, dir.Step()).Format("2006-01-02"))
		res, err := cursor.Next(dir)
		if err != nil {
			return err
		}
		if res == nil {
			l.out.Println("No further results.")
			continue
		}
		l.out.Match(res)
	}
}

func (l *Loop) edit() error {
	if l.open == nil {
		l.message = "No editor configured."
		return nil
	}
	path := l.store.Path(l.sess.Journal(), l.sess.Now())
	l.log.Info("opening entry in editor", "path", path)
	return l.open(path)
}

func (l *Loop) help() error {
	l.redraw()
	l.out.Println(helpText)
	l.out.Println("Press enter to continue...")
	_, err := l.readLine()
	return err
}

// readLine reads one line of input. "/exit" ends the session from any prompt.
func (l *Loop) readLine() (string, error) {
	line, err := readLine(l.in)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(line) == "/exit" {
		return "", errExit
	}
	return line, nil
}

func (l *Loop) redraw() {
	if l.clear {
		l.out.Printf("%s", clearScreen)
	}
}

const helpText = `Help


Getting around:
	Type /help, /? or ? to show this text
	Type /exit to leave, from any prompt

Writing:
	Type any text to add it to the current block of lines
	like
	this

Type a dash (-) in front of your text to start a new block
	Type a tilde (~) on its own to turn the last line into a new block, or a block back into a line
	(handy when you forgot the dash)

Reading:
	Type /prev or /last to page through earlier entries
	Type /time for the time that passed between blocks
	Type /gtime for the time between every line
	Type /find, optionally followed by some text, to search earlier entries
	Type /open to edit today's entry in your editor

Journals:
	You can keep several journals
	Type /new to create one, you will be asked for a name
	Type /switch or /set to change to another journal, or /switch <name> to go there directly`
