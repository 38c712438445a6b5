// Package numbering assigns per-year sequence numbers, document identifiers
// and output file names.
package numbering

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/matzehuels/facture/pkg/errors"
	"github.com/matzehuels/facture/pkg/invoice"
)

// Sequencer hands out the next number of a year, starting at 1.
type Sequencer interface {
	Next(ctx context.Context, year int) (int, error)
}

// DirSequencer numbers documents by counting the PDFs already written to
// Root/YYYY. The year directory is created on first use.
type DirSequencer struct {
	Root string
}

// NewDirSequencer returns a DirSequencer rooted at root.
func NewDirSequencer(root string) *DirSequencer {
	return &DirSequencer{Root: root}
}

// YearDir returns the directory holding the documents of year.
func (s *DirSequencer) YearDir(year int) string {
	return filepath.Join(s.Root, strconv.Itoa(year))
}

// Next implements Sequencer.
func (s *DirSequencer) Next(ctx context.Context, year int) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	dir := s.YearDir(year)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, errors.Wrap(errors.ErrCodeInvalidPath, err, "create %s", dir)
	}
	matches, err := filepath.Glob(filepath.Join(dir, "*.pdf"))
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeInternal, err, "list %s", dir)
	}
	return len(matches) + 1, nil
}

// MemorySequencer keeps counters in memory. Previews and tests use it.
type MemorySequencer struct {
	mu   sync.Mutex
	next map[int]int
}

// NewMemorySequencer returns an empty MemorySequencer.
func NewMemorySequencer() *MemorySequencer {
	return &MemorySequencer{next: make(map[int]int)}
}

// Next implements Sequencer.
func (s *MemorySequencer) Next(_ context.Context, year int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next[year]++
	return s.next[year], nil
}

// InvoiceID builds an identifier such as F00120261018: the kind initial, the
// number padded to three digits and the date as YYYYMMDD.
func InvoiceID(kind invoice.Kind, number int, date time.Time) string {
	return fmt.Sprintf("%s%03d%s", kind.Initial(), number, date.Format("20060102"))
}

// ParseID splits an identifier built by InvoiceID into its kind initial, its
// number and its date.
func ParseID(id string) (initial string, number int, date time.Time, err error) {
	if err := errors.ValidateInvoiceID(id); err != nil {
		return "", 0, time.Time{}, err
	}
	digits := id[1 : len(id)-8]
	number, err = strconv.Atoi(digits)
	if err != nil {
		return "", 0, time.Time{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "invoice id %s", id)
	}
	date, err = time.ParseInLocation("20060102", id[len(id)-8:], time.Local)
	if err != nil {
		return "", 0, time.Time{}, errors.New(errors.ErrCodeInvalidInput, "invoice id %s does not end in a YYYYMMDD date", id)
	}
	return id[:1], number, date, nil
}

// CheckID reconciles a preset identifier with the document: the initial must
// match the kind and the date part the document date. An undated document
// takes its date from the identifier.
func CheckID(inv *invoice.Invoice) error {
	initial, number, date, err := ParseID(inv.ID)
	if err != nil {
		return err
	}
	if initial != inv.Kind.Initial() {
		return errors.New(errors.ErrCodeInvalidInput, "invoice id %s does not start with %s for a %s", inv.ID, inv.Kind.Initial(), inv.Kind)
	}
	switch {
	case inv.Date.IsZero():
		inv.Date = date
	case !sameDay(inv.Date, date):
		return errors.New(errors.ErrCodeInvalidDate, "invoice id %s does not match the document date %s", inv.ID, inv.Date.Format("2006-01-02"))
	}
	inv.Number = number
	return nil
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// FileName returns "<id>_<client>.pdf" with the client summary lowercased and
// stripped of spaces.
func FileName(id, clientSummary string) string {
	client := strings.ToLower(clientSummary)
	client = strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t':
			return -1
		case '/', '\\', 0:
			return '-'
		}
		return r
	}, client)
	return id + "_" + client + ".pdf"
}

// Today returns the calendar date of now at midnight, in now's location.
func Today(now time.Time) time.Time {
	y, m, d := now.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, now.Location())
}

// Assign dates an undated document to today and gives it the next number and
// its identifier.
func Assign(ctx context.Context, seq Sequencer, inv *invoice.Invoice, now time.Time) error {
	if inv.Date.IsZero() {
		inv.Date = Today(now)
	}
	n, err := seq.Next(ctx, inv.Date.Year())
	if err != nil {
		return err
	}
	inv.Number = n
	inv.ID = InvoiceID(inv.Kind, n, inv.Date)
	return nil
}
