// Package history walks the existing entries of a journal in calendar order.
package history

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/Tiliavir/trivial-journal/internal/model"
	"github.com/Tiliavir/trivial-journal/internal/storage"
	"github.com/Tiliavir/trivial-journal/internal/timecalc"
)

// Source is the part of the journal store the navigator reads from.
type Source interface {
	Years(journal string) ([]int, error)
	Load(journal string, date time.Time) (string, error)
}

// VisitFunc is called for every existing entry. Returning false stops the walk.
type VisitFunc func(date time.Time, text string) bool

// Walk visits the entries of journal one calendar day at a time starting at
// start and moving in dir. Days without an entry are skipped. Years that
// have no folder are jumped over, and the walk ends past the first or last
// year of the journal or when visit returns false.
func Walk(src Source, journal string, start time.Time, dir model.Direction, visit VisitFunc) error {
	years, err := src.Years(journal)
	if err != nil {
		return err
	}

	date := timecalc.StartOfDay(start)
	idx, ok := anchor(years, date.Year(), dir)
	if !ok {
		return nil
	}
	if years[idx] != date.Year() {
		date = yearEdge(years[idx], dir, date.Location())
	}

	for {
		year := date.Year()
		for date.Year() == year {
			text, err := src.Load(journal, date)
			switch {
			case err == nil:
				if !visit(date, text) {
					return nil
				}
			case !errors.Is(err, storage.ErrNotFound):
				return fmt.Errorf("walking %s: %w", journal, err)
			}
			date = date.AddDate(0, 0, dir.Step())
		}

		idx += dir.Step()
		if idx < 0 || idx >= len(years) {
			return nil
		}
		date = yearEdge(years[idx], dir, date.Location())
	}
}

// anchor returns the index of the year the walk begins in: year itself when
// it has a folder, otherwise the closest year in the walking direction.
func anchor(years []int, year int, dir model.Direction) (int, bool) {
	// First index with years[i] >= year.
	i := sort.SearchInts(years, year)
	if i < len(years) && years[i] == year {
		return i, true
	}
	if dir == model.Forward {
		return i, i < len(years)
	}
	return i - 1, i > 0
}

// yearEdge is the day a walk in dir enters year.
func yearEdge(year int, dir model.Direction, loc *time.Location) time.Time {
	if dir == model.Forward {
		return timecalc.StartOfYear(year, loc)
	}
	return timecalc.EndOfYear(year, loc)
}
