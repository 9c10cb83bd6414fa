// ABOUTME: Flat-file record store for engagements and lookup choices
// ABOUTME: CSV-backed with a TTL read cache and atomic overwrites
package store

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/natefinch/atomic"

	"github.com/harperreed/engage/models"
)

// Store owns the engagements CSV and the lookup-choices JSON.
//
// Writers follow a single-writer last-write-wins discipline: Save
// replaces the whole file atomically, so concurrent processes cannot
// tear it but can silently lose each other's updates. That matches the
// original system and is an accepted constraint, not a bug.
type Store struct {
	engagementsPath string
	choicesPath     string
	ttl             time.Duration

	mu       sync.Mutex
	records  []models.Engagement
	choices  Choices
	loadedAt time.Time
}

// Open creates a store rooted at dir, ensuring the directory exists.
// ttl bounds how stale cached reads may be; callers needing
// read-your-writes get it automatically because every successful write
// refreshes the cache.
func Open(dir string, ttl time.Duration) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Store{
		engagementsPath: filepath.Join(dir, "engagements.csv"),
		choicesPath:     filepath.Join(dir, "configchoice.json"),
		ttl:             ttl,
	}, nil
}

// Path returns the engagements CSV location.
func (s *Store) Path() string {
	return s.engagementsPath
}

// Load returns the current record set and lookup choices, served from
// cache within the TTL. The returned slice is the caller's to keep;
// mutations must go through the store's write operations.
func (s *Store) Load() ([]models.Engagement, Choices, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked()
}

func (s *Store) loadLocked() ([]models.Engagement, Choices, error) {
	if s.records != nil && time.Since(s.loadedAt) < s.ttl {
		return append([]models.Engagement(nil), s.records...), s.choices, nil
	}

	records, err := readEngagementsCSV(s.engagementsPath)
	if err != nil {
		return nil, nil, err
	}
	choices, err := loadChoices(s.choicesPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load lookup choices: %w", err)
	}

	s.records = records
	s.choices = choices
	s.loadedAt = time.Now()
	return append([]models.Engagement(nil), records...), choices, nil
}

// Invalidate drops the read cache so the next Load hits the files.
func (s *Store) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = nil
	s.choices = nil
}

// Save overwrites the engagements CSV with records. On success the
// cache is refreshed so subsequent reads observe the write; on failure
// the cached set is left untouched and a PersistError is returned.
func (s *Store) Save(records []models.Engagement) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveLocked(records)
}

func (s *Store) saveLocked(records []models.Engagement) error {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, records); err != nil {
		return &PersistError{Path: s.engagementsPath, Err: err}
	}

	if err := atomic.WriteFile(s.engagementsPath, bytes.NewReader(buf.Bytes())); err != nil {
		return &PersistError{Path: s.engagementsPath, Err: err}
	}

	s.records = append([]models.Engagement(nil), records...)
	s.loadedAt = time.Now()
	return nil
}

// WriteCSV encodes records in the canonical column order, header first.
func WriteCSV(out io.Writer, records []models.Engagement) error {
	w := csv.NewWriter(out)
	if err := w.Write(csvHeader); err != nil {
		return err
	}
	for i := range records {
		if err := w.Write(encodeRow(&records[i])); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// readEngagementsCSV reads and decodes the store file. A missing file
// is an empty record set. Decoding is tolerant: ragged rows, BOM-damaged
// headers, and malformed cells degrade to defaults per field.
func readEngagementsCSV(path string) ([]models.Engagement, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return []models.Engagement{}, nil
		}
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err == io.EOF {
		return []models.Engagement{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("corrupt engagements file %s: %w", path, err)
	}
	idx := headerIndex(header)

	var records []models.Engagement
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("corrupt engagements file %s: %w", path, err)
		}
		records = append(records, decodeRow(row, idx))
	}
	if records == nil {
		records = []models.Engagement{}
	}
	return records, nil
}
