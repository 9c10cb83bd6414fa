// ABOUTME: Bulk CSV import replacing the full record set
// ABOUTME: Archives the prior file and backfills missing identifiers
package store

import (
	"encoding/csv"
	"fmt"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/natefinch/atomic"
	"github.com/oklog/ulid/v2"

	"github.com/harperreed/engage/models"
)

// requiredImportColumns is the minimal column set an import file must
// carry. Normalized header names are checked, so BOMs and title-cased
// exports pass.
var requiredImportColumns = []string{
	"company_name", "gics_sector", "region", "country", "program",
}

// ImportResult reports one bulk-import run.
type ImportResult struct {
	Imported    int
	IDsAssigned int
	ArchivePath string
}

func (r *ImportResult) String() string {
	msg := fmt.Sprintf("Imported %d engagements", r.Imported)
	if r.IDsAssigned > 0 {
		msg += fmt.Sprintf(" (%d IDs assigned)", r.IDsAssigned)
	}
	if r.ArchivePath != "" {
		msg += fmt.Sprintf("; previous data archived to %s", filepath.Base(r.ArchivePath))
	}
	return msg
}

// Import replaces the entire record set with the CSV read from r. The
// prior file, if any, is archived first so a bad import is recoverable
// by hand. Records without an engagement ID get the next sequential
// one.
func (s *Store) Import(r io.Reader) (*ImportResult, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("import file is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("unreadable import file: %w", err)
	}

	idx := headerIndex(header)
	var missing []string
	for _, col := range requiredImportColumns {
		if _, ok := idx[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("import file is missing required columns: %s", strings.Join(missing, ", "))
	}

	var records []models.Engagement
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("unreadable import file: %w", err)
		}
		records = append(records, decodeRow(row, idx))
	}

	nextID := 1
	for i := range records {
		if records[i].ID >= nextID {
			nextID = records[i].ID + 1
		}
	}
	assigned := 0
	for i := range records {
		if records[i].ID == 0 {
			records[i].ID = nextID
			nextID++
			assigned++
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	archive, err := s.archiveLocked()
	if err != nil {
		return nil, err
	}
	if err := s.saveLocked(records); err != nil {
		return nil, err
	}

	return &ImportResult{
		Imported:    len(records),
		IDsAssigned: assigned,
		ArchivePath: archive,
	}, nil
}

// archiveLocked copies the current engagements file aside under a
// ULID-stamped name, returning "" when there is nothing to archive.
func (s *Store) archiveLocked() (string, error) {
	f, err := os.Open(s.engagementsPath)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", err
	}
	defer f.Close()

	entropy := ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0)
	id := ulid.MustNew(ulid.Timestamp(time.Now()), entropy)
	dir := filepath.Dir(s.engagementsPath)
	archive := filepath.Join(dir, fmt.Sprintf("engagements-%s.csv", id))

	if err := atomic.WriteFile(archive, f); err != nil {
		return "", fmt.Errorf("failed to archive previous data: %w", err)
	}
	return archive, nil
}
