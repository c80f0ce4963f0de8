package history

import (
	"time"

	"github.com/Tiliavir/trivial-journal/internal/model"
)

// DefaultPageSize is the number of entries shown per page.
const DefaultPageSize = 20

// Day is one entry on a page.
type Day struct {
	Date time.Time
	Text string
	// Latest counts entries back from the newest one: 0 is the most recent.
	Latest int
}

// PageResult holds one page of entries, oldest first.
type PageResult struct {
	Page int
	Size int
	Days []Day
}

// Complete reports whether the page holds a full page of entries.
func (p PageResult) Complete() bool { return len(p.Days) == p.Size }

// Page collects the page-th block of size entries walking backward from
// from. Pages are 1-based; page 0 is treated as page 1.
func Page(src Source, journal string, from time.Time, size, page int) (PageResult, error) {
	if size <= 0 {
		size = DefaultPageSize
	}
	if page < 1 {
		page = 1
	}
	res := PageResult{Page: page, Size: size}

	first := size * (page - 1)
	last := first + size
	count := 0
	err := Walk(src, journal, from, model.Backward, func(date time.Time, text string) bool {
		if count >= first {
			res.Days = append(res.Days, Day{Date: date, Text: text, Latest: count})
		}
		count++
		return count < last
	})
	if err != nil {
		return PageResult{}, err
	}

	for i, j := 0, len(res.Days)-1; i < j; i, j = i+1, j-1 {
		res.Days[i], res.Days[j] = res.Days[j], res.Days[i]
	}
	return res, nil
}
