package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/peterbourgon/diskv/v3"

	"github.com/Tiliavir/trivial-journal/internal/entry"
	"github.com/Tiliavir/trivial-journal/internal/logging"
)

var (
	// ErrNotFound reports a journal or entry that does not exist yet.
	ErrNotFound = errors.New("not found")
	// ErrBadLayout reports a journal directory that is not a year folder.
	ErrBadLayout = errors.New("journal folders must all be years")
	// ErrInvalidName reports a journal name that is not a single path segment.
	ErrInvalidName = errors.New("invalid journal name")
)

const (
	fileExt = ".txt"
	tmpDir  = ".tmp"
)

// Store maps (journal, date) to the text of that day's entry, kept at
// <root>/<journal>/<YYYY>/<MM>/<DD>.txt.
type Store struct {
	root string
	d    *diskv.Diskv
	log  logging.Logger
}

// Open returns a Store rooted at root. The directory is created lazily on
// the first write.
func Open(root string, log logging.Logger) *Store {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &Store{
		root: root,
		d: diskv.New(diskv.Options{
			BasePath:          root,
			AdvancedTransform: keyToPath,
			InverseTransform:  pathToKey,
			// Entries are edited out of band, so reads always go to disk.
			CacheSizeMax: 0,
			TempDir:      filepath.Join(root, tmpDir),
			PathPerm:     0o700,
			FilePerm:     0o600,
		}),
		log: log,
	}
}

// Root returns the directory holding all journals.
func (s *Store) Root() string { return s.root }

// key returns "<journal>/<YYYY>/<MM>/<DD>". Month and day are zero padded,
// the year is not, so sorting year folders numerically sorts them in time.
func key(journal string, date time.Time) string {
	return strings.Join([]string{
		journal,
		strconv.Itoa(date.Year()),
		fmt.Sprintf("%02d", int(date.Month())),
		fmt.Sprintf("%02d", date.Day()),
	}, "/")
}

func keyToPath(k string) *diskv.PathKey {
	parts := strings.Split(k, "/")
	return &diskv.PathKey{
		Path:     parts[:len(parts)-1],
		FileName: parts[len(parts)-1] + fileExt,
	}
}

func pathToKey(pk *diskv.PathKey) string {
	return strings.Join(append(append([]string{}, pk.Path...), strings.TrimSuffix(pk.FileName, fileExt)), "/")
}

// Path returns the file backing the entry for date.
func (s *Store) Path(journal string, date time.Time) string {
	pk := keyToPath(key(journal, date))
	return filepath.Join(append([]string{s.root}, append(pk.Path, pk.FileName)...)...)
}

// ValidateName rejects names that would not map to a single folder below root.
func ValidateName(journal string) error {
	switch {
	case strings.TrimSpace(journal) == "",
		journal == "." || journal == "..",
		strings.HasPrefix(journal, "."),
		strings.ContainsAny(journal, `/\`):
		return fmt.Errorf("%w: %q", ErrInvalidName, journal)
	}
	return nil
}

// ListJournals returns the names of all journals in sorted order, or
// ErrNotFound when there are none.
func (s *Store) ListJournals() ([]string, error) {
	names, err := s.folders(s.root)
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("there are no journals in %s: %w", s.root, ErrNotFound)
	}
	return names, nil
}

// folders lists the visible sub directories of dir, sorted by name.
func (s *Store) folders(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage error listing %s: %w", dir, err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() && !strings.HasPrefix(e.Name(), ".") {
			names = append(names, e.Name())
		}
	}
	return names, nil
}

// Years returns the years that hold entries for journal, ascending. A
// journal without any folder has no years.
func (s *Store) Years(journal string) ([]int, error) {
	names, err := s.folders(filepath.Join(s.root, journal))
	if err != nil {
		return nil, err
	}

	years := make([]int, 0, len(names))
	for _, n := range names {
		y, err := strconv.Atoi(n)
		if err != nil {
			return nil, fmt.Errorf("%w: %q in journal %q", ErrBadLayout, n, journal)
		}
		years = append(years, y)
	}
	sort.Ints(years)
	return years, nil
}

// Load returns the text of the entry for date with '\r' removed.
func (s *Store) Load(journal string, date time.Time) (string, error) {
	if err := ValidateName(journal); err != nil {
		return "", err
	}
	k := key(journal, date)
	data, err := s.d.Read(k)
	if errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("entry %s: %w", k, ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("storage error reading %s: %w", k, err)
	}
	return strings.ReplaceAll(string(data), "\r", ""), nil
}

// LoadOrInit loads the entry for date, creating it with just its heading
// when it does not exist yet.
func (s *Store) LoadOrInit(journal string, date time.Time) (string, error) {
	text, err := s.Load(journal, date)
	if !errors.Is(err, ErrNotFound) {
		return text, err
	}

	text = entry.Heading(journal, date)
	if err := s.Save(journal, date, text); err != nil {
		return "", err
	}
	s.log.Info("created entry", "journal", journal, "date", key(journal, date))
	return text, nil
}

// Save overwrites the entry for date, creating missing folders.
func (s *Store) Save(journal string, date time.Time, text string) error {
	if err := ValidateName(journal); err != nil {
		return err
	}
	k := key(journal, date)
	if err := s.d.Write(k, []byte(text)); err != nil {
		s.log.Error("could not write entry", "key", k, "err", err)
		return fmt.Errorf("storage error writing %s: %w", k, err)
	}
	s.log.Debug("saved entry", "key", k, "bytes", len(text))
	return nil
}

// Dates returns the dates of every entry stored for journal, ascending.
func (s *Store) Dates(ctx context.Context, journal string) ([]time.Time, error) {
	var dates []time.Time
	for k := range s.d.KeysPrefix(journal+"/", ctx.Done()) {
		parts := strings.Split(k, "/")
		if len(parts) != 4 || parts[0] != journal {
			continue
		}
		d, err := time.ParseInLocation("2006/01/02", strings.Join(parts[1:], "/"), time.Local)
		if err != nil {
			s.log.Warn("skipping unexpected file", "key", k, "err", err)
			continue
		}
		dates = append(dates, d)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates, nil
}
