package repl_test

import (
	"bytes"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"

	"github.com/Tiliavir/trivial-journal/internal/entry"
	"github.com/Tiliavir/trivial-journal/internal/repl"
	"github.com/Tiliavir/trivial-journal/internal/session"
	"github.com/Tiliavir/trivial-journal/internal/storage"
	"github.com/Tiliavir/trivial-journal/internal/testutil"
)

func init() {
	color.NoColor = true
}

type fakePicker struct {
	pick  string
	names []string
	asked int
}

func (f *fakePicker) Pick([]string) (string, error) {
	if f.pick == "" {
		return "", io.EOF
	}
	return f.pick, nil
}

func (f *fakePicker) NewName() (string, error) {
	if f.asked >= len(f.names) {
		return "", io.EOF
	}
	f.asked++
	return f.names[f.asked-1], nil
}

type fixture struct {
	store  *storage.Store
	clock  *testutil.StubClock
	sess   *session.Session
	out    bytes.Buffer
	picker *fakePicker
	opened []string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		store:  storage.Open(filepath.Join(t.TempDir(), "journals"), nil),
		clock:  testutil.FixedClock(),
		picker: &fakePicker{},
	}
	sess, err := session.New(f.store, "Work", f.clock, nil)
	if err != nil {
		t.Fatal(err)
	}
	f.sess = sess
	return f
}

func (f *fixture) run(t *testing.T, input string) string {
	t.Helper()
	loop := repl.New(f.sess, f.store, repl.Options{
		In:     strings.NewReader(input),
		Out:    &f.out,
		Picker: f.picker,
		Open: func(path string) error {
			f.opened = append(f.opened, path)
			return nil
		},
	})
	if err := loop.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	return f.out.String()
}

func (f *fixture) today(t *testing.T, journal string) string {
	t.Helper()
	text, err := f.store.Load(journal, f.clock.Now())
	if err != nil {
		t.Fatalf("Load(%s): %v", journal, err)
	}
	return text
}

func TestParse(t *testing.T) {
	tests := []struct {
		input string
		want  repl.Command
	}{
		{"", repl.Command{Kind: repl.Ignore}},
		{"  -  ", repl.Command{Kind: repl.Ignore}},
		{"/exit", repl.Command{Kind: repl.Exit}},
		{"?", repl.Command{Kind: repl.Help}},
		{"/?", repl.Command{Kind: repl.Help}},
		{"help me", repl.Command{Kind: repl.Help}},
		{"/help", repl.Command{Kind: repl.Help}},
		{"/set", repl.Command{Kind: repl.Switch}},
		{"/switch Home", repl.Command{Kind: repl.Switch, Text: "Home"}},
		{"/new  Travel ", repl.Command{Kind: repl.NewJournal, Text: "Travel"}},
		{"/last", repl.Command{Kind: repl.Prev}},
		{"/prev", repl.Command{Kind: repl.Prev}},
		{"/time", repl.Command{Kind: repl.Time}},
		{"/times", repl.Command{Kind: repl.Time}},
		{"/gtime", repl.Command{Kind: repl.GTime}},
		{"/find lunch break", repl.Command{Kind: repl.Find, Text: "lunch break"}},
		{"/open", repl.Command{Kind: repl.Open}},
		{"/bogus x", repl.Command{Kind: repl.Unknown, Text: "/bogus"}},
		{"-new block", repl.Command{Kind: repl.Write, Text: "-new block"}},
		{"~", repl.Command{Kind: repl.Write, Text: "~"}},
		{" just text", repl.Command{Kind: repl.Write, Text: " just text"}},
	}
	for _, tt := range tests {
		if got := repl.Parse(tt.input); got != tt.want {
			t.Errorf("Parse(%q) = %+v, want %+v", tt.input, got, tt.want)
		}
	}
}

func TestLoopWritesEntry(t *testing.T) {
	f := newFixture(t)
	out := f.run(t, "first\nsecond\n\n-\n-third\n/exit\nnot written\n")

	want := "Work - Friday 2024/3/1\n" +
		"\n\n09:15 am - first" +
		"\n\t09:15 am - second" +
		"\n\n09:15 am - third"
	if got := f.today(t, "Work"); got != want {
		t.Errorf("entry = %q, want %q", got, want)
	}
	if !strings.Contains(out, "You haven't put any entries in [Work] yet.") {
		t.Errorf("output missing first-run hint:\n%s", out)
	}
	if !strings.Contains(out, "current->Work: ") {
		t.Errorf("output missing prompt:\n%s", out)
	}
}

func TestLoopEndsAtEOF(t *testing.T) {
	f := newFixture(t)
	f.run(t, "unterminated")
	if got := f.today(t, "Work"); !strings.HasSuffix(got, "09:15 am - unterminated") {
		t.Errorf("entry = %q", got)
	}
}

func TestLoopToggleRejected(t *testing.T) {
	f := newFixture(t)
	out := f.run(t, "~\n/exit\n")
	if !strings.Contains(out, "Can't use '~' when there aren't any entries") {
		t.Errorf("output missing rejection:\n%s", out)
	}
	if got := f.today(t, "Work"); !entry.HasNoEntries(got) {
		t.Errorf("entry changed after rejected toggle: %q", got)
	}
}

func TestLoopUnknownCommand(t *testing.T) {
	f := newFixture(t)
	out := f.run(t, "/bogus\n/exit\n")
	if !strings.Contains(out, `Unknown command "/bogus"`) {
		t.Errorf("output:\n%s", out)
	}
}

func TestLoopHelp(t *testing.T) {
	f := newFixture(t)
	out := f.run(t, "/help\n\n/exit\n")
	if !strings.Contains(out, "Type /exit to leave") || !strings.Contains(out, "Press enter to continue...") {
		t.Errorf("output missing help:\n%s", out)
	}
}

func TestLoopPrev(t *testing.T) {
	f := newFixture(t)
	yesterday := f.clock.Now().AddDate(0, 0, -1)
	if err := f.store.Save("Work", yesterday, entry.Heading("Work", yesterday)+"\n\n08:00 am - yesterday"); err != nil {
		t.Fatal(err)
	}

	out := f.run(t, "/prev\n1\nback\n/exit\n")
	for _, want := range []string{"<latest entry>", "<latest entry - 1>", "08:00 am - yesterday", "Viewing entries from latest-1 to latest-0", "(Only 2/20 entries were found)"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if n := strings.Count(out, "input a page number"); n != 2 {
		t.Errorf("page prompt shown %d times, want 2", n)
	}
}

func TestLoopTime(t *testing.T) {
	f := newFixture(t)
	out := f.run(t, "start\n/gtime\n\n/exit\n")
	if !strings.Contains(out, "Viewing time breakdown (granular):") || !strings.Contains(out, "<now>") {
		t.Errorf("output missing breakdown:\n%s", out)
	}
}

func TestLoopFind(t *testing.T) {
	f := newFixture(t)
	for i, text := range []string{"Hello there", "nothing", "hello again"} {
		d := f.clock.Now().AddDate(0, 0, -(i + 1))
		if err := f.store.Save("Work", d, entry.Heading("Work", d)+"\n\n08:00 am - "+text); err != nil {
			t.Fatal(err)
		}
	}

	out := f.run(t, "/find\n<\nhello\n<\n<\n<\n>\n:quit\n/exit\n")
	for _, want := range []string{
		"Enter some text to search for first.",
		`Searching for "hello"`,
		"Found results in Work - Thursday 2024/2/29:",
		"--> 08:00 am - Hello there     <--",
		"Found results in Work - Tuesday 2024/2/27:",
		"No further results.",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if n := strings.Count(out, "Found results in Work - Thursday 2024/2/29:"); n != 2 {
		t.Errorf("forward search after the last hit found Feb 29 %d times, want 2", n)
	}
}

func TestLoopSwitchAndNew(t *testing.T) {
	f := newFixture(t)
	if _, err := f.store.LoadOrInit("Home", f.clock.Now()); err != nil {
		t.Fatal(err)
	}
	if _, err := f.store.LoadOrInit("Work", f.clock.Now()); err != nil {
		t.Fatal(err)
	}
	f.picker.names = []string{"work", "Travel"}

	out := f.run(t, "/switch ho\nat home\n/switch nope\n/new\non the road\n/exit\n")

	if got := f.today(t, "Home"); !strings.Contains(got, "at home") {
		t.Errorf("Home entry = %q", got)
	}
	if got := f.today(t, "Travel"); !strings.Contains(got, "on the road") {
		t.Errorf("Travel entry = %q", got)
	}
	if !strings.Contains(out, `There is no journal matching "nope".`) {
		t.Errorf("output missing no-match message:\n%s", out)
	}
	if !strings.Contains(out, "That name already refers to the journal 'Work', please pick another one.") {
		t.Errorf("output missing existing-name warning:\n%s", out)
	}
	if f.sess.Journal() != "Travel" {
		t.Errorf("current journal = %q, want Travel", f.sess.Journal())
	}
}

func TestLoopOpen(t *testing.T) {
	f := newFixture(t)
	f.run(t, "/open\n/exit\n")
	want := f.store.Path("Work", f.clock.Now())
	if len(f.opened) != 1 || f.opened[0] != want {
		t.Errorf("opened = %v, want [%s]", f.opened, want)
	}
}

func TestChoose(t *testing.T) {
	f := newFixture(t)
	now := f.clock.Now()
	var out bytes.Buffer

	f.picker.names = []string{"Diary"}
	name, err := repl.Choose(f.store, f.picker, &out, "", now)
	if err != nil || name != "Diary" {
		t.Fatalf("Choose with no journals = %q, %v; want Diary", name, err)
	}
	if _, err := f.store.Load("Diary", now); err != nil {
		t.Errorf("new journal has no entry for today: %v", err)
	}

	if name, err := repl.Choose(f.store, f.picker, &out, "", now); err != nil || name != "Diary" {
		t.Errorf("Choose with one journal = %q, %v; want Diary", name, err)
	}

	if _, err := f.store.LoadOrInit("Work", now); err != nil {
		t.Fatal(err)
	}
	f.picker.pick = "Work"
	if name, err := repl.Choose(f.store, f.picker, &out, "", now); err != nil || name != "Work" {
		t.Errorf("Choose with picker = %q, %v; want Work", name, err)
	}
	if name, err := repl.Choose(f.store, f.picker, &out, "di", now); err != nil || name != "Diary" {
		t.Errorf("Choose(di) = %q, %v; want Diary", name, err)
	}
	if name, err := repl.Choose(f.store, f.picker, &out, "Garden", now); err != nil || name != "Garden" {
		t.Errorf("Choose(Garden) = %q, %v; want Garden", name, err)
	}
	if _, err := repl.Choose(f.store, f.picker, &out, "a/b", now); !errors.Is(err, storage.ErrInvalidName) {
		t.Errorf("Choose(a/b) err = %v, want ErrInvalidName", err)
	}
}

func TestLinePicker(t *testing.T) {
	var out bytes.Buffer
	p := repl.NewLinePicker(strings.NewReader("x\n1\n\nBook\n"), &out)

	name, err := p.Pick([]string{"Home", "Work"})
	if err != nil || name != "Work" {
		t.Fatalf("Pick = %q, %v; want Work", name, err)
	}
	if !strings.Contains(out.String(), "[0] - Home") || !strings.Contains(out.String(), "Input was invalid, try again") {
		t.Errorf("Pick output:\n%s", out.String())
	}

	name, err = p.NewName()
	if err != nil || name != "Book" {
		t.Errorf("NewName = %q, %v; want Book", name, err)
	}

	if _, err := p.NewName(); !errors.Is(err, io.EOF) {
		t.Errorf("NewName at end of input: err = %v, want EOF", err)
	}
}
