// Package session ties together the journal being written to, the store it
// lives in and the clock used to stamp input.
package session

import (
	"strings"
	"time"

	"github.com/Tiliavir/trivial-journal/internal/entry"
	"github.com/Tiliavir/trivial-journal/internal/history"
	"github.com/Tiliavir/trivial-journal/internal/logging"
	"github.com/Tiliavir/trivial-journal/internal/search"
	"github.com/Tiliavir/trivial-journal/internal/storage"
	"github.com/Tiliavir/trivial-journal/internal/timecalc"
)

// Clock abstracts time retrieval so sessions are deterministic in tests.
type Clock interface {
	Now() time.Time
}

// RealClock returns the actual current time.
type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }

// Store is the part of storage.Store a session needs.
type Store interface {
	history.Source
	LoadOrInit(journal string, date time.Time) (string, error)
	Save(journal string, date time.Time, text string) error
}

// Session is the current journal of one invocation.
type Session struct {
	store   Store
	journal string
	clock   Clock
	log     logging.Logger
}

// New returns a session writing to journal.
func New(store Store, journal string, clock Clock, log logging.Logger) (*Session, error) {
	if err := storage.ValidateName(journal); err != nil {
		return nil, err
	}
	if clock == nil {
		clock = RealClock{}
	}
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &Session{store: store, journal: journal, clock: clock, log: log}, nil
}

// Journal returns the name of the current journal.
func (s *Session) Journal() string { return s.journal }

// Now returns the session clock's current time.
func (s *Session) Now() time.Time { return s.clock.Now() }

// Switch makes journal the current journal.
func (s *Session) Switch(journal string) error {
	if err := storage.ValidateName(journal); err != nil {
		return err
	}
	s.log.Info("switched journal", "from", s.journal, "to", journal)
	s.journal = journal
	return nil
}

// Today returns the text of today's entry, creating it if needed.
func (s *Session) Today() (string, error) {
	return s.store.LoadOrInit(s.journal, s.clock.Now())
}

// Ignored reports whether input carries nothing to write.
func Ignored(input string) bool {
	in := strings.TrimSpace(input)
	return in == "" || in == "-"
}

// Write applies one line of input to today's entry and saves it. It returns
// the entry's text afterwards. entry.ErrRejected leaves the entry untouched.
func (s *Session) Write(input string) (string, error) {
	now := s.clock.Now()
	text, err := s.store.LoadOrInit(s.journal, now)
	if err != nil {
		return "", err
	}
	if Ignored(input) {
		return text, nil
	}

	updated, err := entry.Append(text, now, input)
	if err != nil {
		return text, err
	}
	if err := s.store.Save(s.journal, now, updated); err != nil {
		return text, err
	}
	s.log.Debug("appended input", "journal", s.journal, "bytes", len(updated)-len(text))
	return updated, nil
}

// Breakdown returns the time marks of today's entry.
func (s *Session) Breakdown(granular bool) ([]timecalc.Mark, error) {
	now := s.clock.Now()
	text, err := s.store.LoadOrInit(s.journal, now)
	if err != nil {
		return nil, err
	}
	return timecalc.Breakdown(text, now, now, granular), nil
}

// Page returns one page of the most recent entries.
func (s *Session) Page(size, page int) (history.PageResult, error) {
	return history.Page(s.store, s.journal, s.clock.Now(), size, page)
}

// Search returns a cursor over the matches of query, positioned at today.
func (s *Session) Search(query string) *search.Cursor {
	return search.NewCursor(s.store, s.journal, query, s.clock.Now())
}
