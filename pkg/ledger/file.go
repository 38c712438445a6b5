package ledger

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/matzehuels/facture/pkg/errors"
)

// FileStore keeps one JSON file per record, grouped by year:
// <dir>/<year>/<invoice id>.json.
type FileStore struct {
	mu  sync.RWMutex
	dir string
}

// NewFileStore creates a file-based store in dir.
// The directory will be created if it doesn't exist.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "ledger path is empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "create ledger dir")
	}
	return &FileStore{dir: dir}, nil
}

// Dir returns the store's root directory.
func (s *FileStore) Dir() string { return s.dir }

// Put writes rec, replacing an existing record with the same InvoiceID.
func (s *FileStore) Put(ctx context.Context, rec *Record) error {
	if err := errors.ValidateInvoiceID(rec.InvoiceID); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Keep the record ID stable across re-issues.
	if old, err := s.read(s.find(rec.InvoiceID)); err == nil && old != nil {
		rec.ID = old.ID
	}

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "marshal record")
	}
	path := s.find(rec.InvoiceID)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "create ledger dir")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "write record")
	}
	return nil
}

// Get reads the record of invoiceID.
func (s *FileStore) Get(ctx context.Context, invoiceID string) (*Record, error) {
	if err := errors.ValidateInvoiceID(invoiceID); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, err := s.read(s.find(invoiceID))
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, notFound(invoiceID)
	}
	return rec, nil
}

// List returns the matching records ordered by date. Unreadable files are
// skipped.
func (s *FileStore) List(ctx context.Context, f Filter) ([]*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pattern := filepath.Join(s.dir, "*", "*.json")
	if f.Year != 0 {
		pattern = filepath.Join(s.dir, strconv.Itoa(f.Year), "*.json")
	}
	paths, err := filepath.Glob(pattern)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "list ledger")
	}

	var recs []*Record
	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rec, err := s.read(p)
		if err != nil || rec == nil {
			continue
		}
		if f.Match(rec) {
			recs = append(recs, rec)
		}
	}
	sortRecords(recs)
	return recs, nil
}

// Close does nothing for the file store.
func (s *FileStore) Close() error {
	return nil
}

// find returns the file of invoiceID. The identifier ends with the issue
// date as YYYYMMDD; its year names the directory.
func (s *FileStore) find(invoiceID string) string {
	year := invoiceID[len(invoiceID)-8 : len(invoiceID)-4]
	return filepath.Join(s.dir, year, invoiceID+".json")
}

// read returns nil, nil when the file does not exist.
func (s *FileStore) read(path string) (*Record, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "read record")
	}
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "parse %s", filepath.Base(path))
	}
	return &rec, nil
}

// Ensure FileStore implements Store.
var _ Store = (*FileStore)(nil)
