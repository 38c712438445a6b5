// Package ledger records every issued document.
//
// A [Record] summarizes one numbered invoice or quote: its identifier, client,
// totals, output path and the fingerprint of the document it was rendered
// from. Records are kept by a [Store]; the file backend suits a single
// machine, the MongoDB and PostgreSQL backends a shared setup.
package ledger

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/matzehuels/facture/pkg/errors"
	"github.com/matzehuels/facture/pkg/invoice"
)

// Record describes one issued document.
type Record struct {
	ID          string          `json:"id"`
	InvoiceID   string          `json:"invoice_id"`
	Kind        string          `json:"kind"`
	Client      string          `json:"client"`
	Subject     string          `json:"subject,omitempty"`
	Date        time.Time       `json:"date"`
	Total       decimal.Decimal `json:"total"`
	TotalTax    decimal.Decimal `json:"total_tax"`
	Currency    string          `json:"currency"`
	Path        string          `json:"path,omitempty"`
	Fingerprint string          `json:"fingerprint"`
	CreatedAt   time.Time       `json:"created_at"`
}

// NewRecord summarizes a numbered document written to path.
func NewRecord(inv *invoice.Invoice, path, fingerprint string, now time.Time) *Record {
	return &Record{
		ID:          uuid.NewString(),
		InvoiceID:   inv.ID,
		Kind:        string(inv.Kind),
		Client:      inv.Client.Summary,
		Subject:     inv.Subject,
		Date:        inv.Date,
		Total:       inv.Price(),
		TotalTax:    inv.PriceTax(),
		Currency:    inv.Currency,
		Path:        path,
		Fingerprint: fingerprint,
		CreatedAt:   now.UTC(),
	}
}

// Filter narrows List. Zero fields match everything.
type Filter struct {
	Year   int
	Kind   string
	Client string // case-insensitive substring
}

// Match reports whether rec passes the filter.
func (f Filter) Match(rec *Record) bool {
	if f.Year != 0 && rec.Date.Year() != f.Year {
		return false
	}
	if f.Kind != "" && rec.Kind != f.Kind {
		return false
	}
	if f.Client != "" && !strings.Contains(strings.ToLower(rec.Client), strings.ToLower(f.Client)) {
		return false
	}
	return true
}

// Store persists records. Put replaces any record with the same InvoiceID.
type Store interface {
	Put(ctx context.Context, rec *Record) error
	Get(ctx context.Context, invoiceID string) (*Record, error)
	List(ctx context.Context, f Filter) ([]*Record, error)
	Close() error
}

// Backend names accepted by Open.
const (
	BackendFile     = "file"
	BackendMongo    = "mongo"
	BackendPostgres = "postgres"
	BackendNone     = "none"
)

// Options selects and configures a backend.
type Options struct {
	Backend       string
	Path          string
	MongoURI      string
	MongoDatabase string
	PostgresDSN   string
}

// Open returns the store for opts.Backend. Remote backends are retried with
// backoff while they are unreachable.
func Open(ctx context.Context, opts Options) (Store, error) {
	switch opts.Backend {
	case "", BackendFile:
		return NewFileStore(opts.Path)
	case BackendNone:
		return NewNullStore(), nil
	case BackendMongo:
		return OpenMongo(ctx, opts.MongoURI, opts.MongoDatabase)
	case BackendPostgres:
		return OpenPostgres(ctx, opts.PostgresDSN)
	default:
		return nil, errors.New(errors.ErrCodeUnsupported, "unknown ledger backend %q", opts.Backend)
	}
}

// BackendOf names the backend of s.
func BackendOf(s Store) string {
	switch s.(type) {
	case *FileStore:
		return BackendFile
	case *MongoStore:
		return BackendMongo
	case *PostgresStore:
		return BackendPostgres
	case *NullStore:
		return BackendNone
	default:
		return "custom"
	}
}

func notFound(invoiceID string) error {
	return errors.New(errors.ErrCodeInvoiceNotFound, "no ledger record for %s", invoiceID)
}

// sortRecords orders by date, then identifier.
func sortRecords(recs []*Record) {
	sort.Slice(recs, func(i, j int) bool {
		if !recs[i].Date.Equal(recs[j].Date) {
			return recs[i].Date.Before(recs[j].Date)
		}
		return recs[i].InvoiceID < recs[j].InvoiceID
	})
}
