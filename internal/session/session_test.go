package session_test

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/Tiliavir/trivial-journal/internal/entry"
	"github.com/Tiliavir/trivial-journal/internal/model"
	"github.com/Tiliavir/trivial-journal/internal/session"
	"github.com/Tiliavir/trivial-journal/internal/storage"
	"github.com/Tiliavir/trivial-journal/internal/testutil"
)

func newSession(t *testing.T) (*session.Session, *storage.Store, *testutil.StubClock) {
	t.Helper()
	store := storage.Open(filepath.Join(t.TempDir(), "journals"), nil)
	clock := testutil.FixedClock()
	s, err := session.New(store, "Work", clock, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s, store, clock
}

func TestWriteBuildsEntry(t *testing.T) {
	s, store, clock := newSession(t)

	steps := []string{"started the day", "checked mail", "-  meeting ", "notes"}
	for _, in := range steps {
		if _, err := s.Write(in); err != nil {
			t.Fatalf("Write(%q): %v", in, err)
		}
		clock.Advance(15 * time.Minute)
	}

	want := "Work - Friday 2024/3/1\n" +
		"\n\n09:15 am - started the day" +
		"\n\t09:30 am - checked mail" +
		"\n\n09:45 am - meeting" +
		"\n\t10:00 am - notes"
	got, err := store.Load("Work", clock.Now())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got != want {
		t.Errorf("entry = %q, want %q", got, want)
	}
}

func TestWriteIgnoresEmptyInput(t *testing.T) {
	s, _, _ := newSession(t)
	before, err := s.Today()
	if err != nil {
		t.Fatal(err)
	}
	for _, in := range []string{"", "   ", "-", " - "} {
		after, err := s.Write(in)
		if err != nil || after != before {
			t.Errorf("Write(%q) = %q, %v; want unchanged", in, after, err)
		}
	}
}

func TestWriteToggle(t *testing.T) {
	s, _, _ := newSession(t)

	if _, err := s.Write("~"); !errors.Is(err, entry.ErrRejected) {
		t.Fatalf("toggle on empty entry: err = %v, want ErrRejected", err)
	}

	if _, err := s.Write("a"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Write("b"); err != nil {
		t.Fatal(err)
	}
	got, err := s.Write("~")
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	want := "Work - Friday 2024/3/1\n\n\n09:15 am - a\n\n09:15 am - b"
	if got != want {
		t.Errorf("after toggle = %q, want %q", got, want)
	}
}

func TestSwitch(t *testing.T) {
	s, store, clock := newSession(t)

	if err := s.Switch("../x"); !errors.Is(err, storage.ErrInvalidName) {
		t.Errorf("Switch(../x) err = %v, want ErrInvalidName", err)
	}
	if s.Journal() != "Work" {
		t.Errorf("Journal after bad switch = %q", s.Journal())
	}

	if err := s.Switch("Home"); err != nil {
		t.Fatalf("Switch: %v", err)
	}
	if _, err := s.Write("hi"); err != nil {
		t.Fatal(err)
	}
	if _, err := store.Load("Home", clock.Now()); err != nil {
		t.Errorf("Load(Home) after write: %v", err)
	}
	if _, err := store.Load("Work", clock.Now()); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Load(Work) err = %v, want ErrNotFound", err)
	}
}

func TestBreakdown(t *testing.T) {
	s, _, clock := newSession(t)
	for _, in := range []string{"a", "b", "-c"} {
		if _, err := s.Write(in); err != nil {
			t.Fatal(err)
		}
		clock.Advance(30 * time.Minute)
	}

	marks, err := s.Breakdown(false)
	if err != nil {
		t.Fatalf("Breakdown: %v", err)
	}
	if len(marks) != 4 {
		t.Fatalf("marks = %d, want 4", len(marks))
	}
	last := marks[3].Elapsed
	if last == nil || last.SinceStart != 90*time.Minute || last.SinceLast != 30*time.Minute {
		t.Errorf("now mark elapsed = %+v", last)
	}
}

func TestSearchAndPage(t *testing.T) {
	s, store, clock := newSession(t)
	yesterday := clock.Now().AddDate(0, 0, -1)
	if err := store.Save("Work", yesterday, entry.Heading("Work", yesterday)+"\n\n08:00 am - Found it"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Write("today"); err != nil {
		t.Fatal(err)
	}

	res, err := s.Search("found").Next(model.Backward)
	if err != nil || res == nil {
		t.Fatalf("search = %v, %v", res, err)
	}
	if res.Date.Day() != yesterday.Day() {
		t.Errorf("search hit %v, want %v", res.Date, yesterday)
	}

	p, err := s.Page(20, 1)
	if err != nil {
		t.Fatalf("Page: %v", err)
	}
	if len(p.Days) != 2 || p.Complete() {
		t.Errorf("Page = %+v, want two days", p)
	}
}
