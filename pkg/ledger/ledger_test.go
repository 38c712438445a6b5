package ledger

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/matzehuels/facture/pkg/errors"
	"github.com/matzehuels/facture/pkg/invoice"
)

func testRecord(id, client string, date time.Time) *Record {
	return &Record{
		ID:          "rec-" + id,
		InvoiceID:   id,
		Kind:        "facture",
		Client:      client,
		Date:        date,
		Total:       decimal.RequireFromString("28200"),
		TotalTax:    decimal.RequireFromString("29280.50"),
		Currency:    "€",
		Fingerprint: Hash([]byte(id)),
		CreatedAt:   date,
	}
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNewRecord(t *testing.T) {
	inv := invoice.New(&invoice.Address{Summary: "Acme"}, &invoice.Address{Summary: "Studio"}, invoice.Creator{Name: "Studio"})
	inv.ID = "F00120261018"
	inv.Date = day(2026, 10, 18)
	inv.AddItem(invoice.Item{Count: decimal.NewFromInt(2), Price: decimal.NewFromInt(50), Tax: decimal.NewFromInt(20)})

	now := time.Date(2026, 10, 18, 9, 30, 0, 0, time.FixedZone("CEST", 7200))
	rec := NewRecord(inv, "/tmp/f.pdf", "abc", now)

	if rec.ID == "" {
		t.Error("NewRecord should assign an ID")
	}
	if rec.InvoiceID != inv.ID || rec.Client != "Acme" || rec.Kind != "facture" {
		t.Errorf("NewRecord() = %+v", rec)
	}
	if !rec.Total.Equal(decimal.NewFromInt(100)) || !rec.TotalTax.Equal(decimal.NewFromInt(120)) {
		t.Errorf("totals = %s / %s, want 100 / 120", rec.Total, rec.TotalTax)
	}
	if rec.CreatedAt.Location() != time.UTC {
		t.Error("CreatedAt should be UTC")
	}
}

func TestFilterMatch(t *testing.T) {
	rec := testRecord("F00120261018", "Acme Corp", day(2026, 10, 18))

	tests := []struct {
		name   string
		filter Filter
		want   bool
	}{
		{"zero", Filter{}, true},
		{"year", Filter{Year: 2026}, true},
		{"other year", Filter{Year: 2025}, false},
		{"kind", Filter{Kind: "facture"}, true},
		{"other kind", Filter{Kind: "devis"}, false},
		{"client substring", Filter{Client: "acme"}, true},
		{"other client", Filter{Client: "globex"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.filter.Match(rec); got != tt.want {
				t.Errorf("Match() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFileStore(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	s, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	defer s.Close()

	if s.Dir() != dir {
		t.Errorf("Dir() = %q, want %q", s.Dir(), dir)
	}

	_, err = s.Get(ctx, "F00120261018")
	if !errors.Is(err, errors.ErrCodeInvoiceNotFound) {
		t.Fatalf("Get on empty store = %v, want %s", err, errors.ErrCodeInvoiceNotFound)
	}

	rec := testRecord("F00120261018", "Acme", day(2026, 10, 18))
	if err := s.Put(ctx, rec); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "2026", "F00120261018.json")); err != nil {
		t.Errorf("record file missing: %v", err)
	}

	got, err := s.Get(ctx, "F00120261018")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.ID != rec.ID || got.Client != "Acme" {
		t.Errorf("Get() = %+v", got)
	}
	if !got.TotalTax.Equal(rec.TotalTax) {
		t.Errorf("TotalTax = %s, want %s", got.TotalTax, rec.TotalTax)
	}
}

func TestFileStoreKeepsRecordID(t *testing.T) {
	ctx := context.Background()
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	first := testRecord("F00120261018", "Acme", day(2026, 10, 18))
	if err := s.Put(ctx, first); err != nil {
		t.Fatal(err)
	}

	again := testRecord("F00120261018", "Acme Renamed", day(2026, 10, 18))
	again.ID = "something-else"
	if err := s.Put(ctx, again); err != nil {
		t.Fatal(err)
	}
	if again.ID != first.ID {
		t.Errorf("re-Put ID = %q, want %q", again.ID, first.ID)
	}

	got, err := s.Get(ctx, "F00120261018")
	if err != nil {
		t.Fatal(err)
	}
	if got.Client != "Acme Renamed" {
		t.Errorf("Client = %q, want the replacement", got.Client)
	}
}

func TestFileStoreList(t *testing.T) {
	ctx := context.Background()
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	recs := []*Record{
		testRecord("F00220261101", "Globex", day(2026, 11, 1)),
		testRecord("F00120261018", "Acme", day(2026, 10, 18)),
		testRecord("F00120251231", "Acme", day(2025, 12, 31)),
	}
	quote := testRecord("D00120261020", "Acme", day(2026, 10, 20))
	quote.Kind = "devis"
	recs = append(recs, quote)

	for _, r := range recs {
		if err := s.Put(ctx, r); err != nil {
			t.Fatalf("Put %s: %v", r.InvoiceID, err)
		}
	}

	tests := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{"all", Filter{}, []string{"F00120251231", "F00120261018", "D00120261020", "F00220261101"}},
		{"year", Filter{Year: 2026}, []string{"F00120261018", "D00120261020", "F00220261101"}},
		{"kind", Filter{Kind: "devis"}, []string{"D00120261020"}},
		{"client", Filter{Client: "ACME", Kind: "facture"}, []string{"F00120251231", "F00120261018"}},
		{"none", Filter{Year: 2020}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.List(ctx, tt.filter)
			if err != nil {
				t.Fatalf("List: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("List() returned %d records, want %d", len(got), len(tt.want))
			}
			for i, r := range got {
				if r.InvoiceID != tt.want[i] {
					t.Errorf("record %d = %s, want %s", i, r.InvoiceID, tt.want[i])
				}
			}
		})
	}
}

func TestFileStoreRejectsBadID(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	rec := testRecord("../../etc", "Acme", day(2026, 1, 1))
	if err := s.Put(context.Background(), rec); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("Put(bad id) = %v, want %s", err, errors.ErrCodeInvalidInput)
	}
}

func TestNewFileStoreEmptyDir(t *testing.T) {
	if _, err := NewFileStore(""); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("NewFileStore(\"\") = %v, want %s", err, errors.ErrCodeInvalidConfig)
	}
}

func TestNullStore(t *testing.T) {
	ctx := context.Background()
	s := NewNullStore()
	defer s.Close()

	if err := s.Put(ctx, testRecord("F00120261018", "Acme", day(2026, 10, 18))); err != nil {
		t.Errorf("Put error: %v", err)
	}
	if _, err := s.Get(ctx, "F00120261018"); !errors.Is(err, errors.ErrCodeInvoiceNotFound) {
		t.Errorf("NullStore should not store records, Get = %v", err)
	}
	recs, err := s.List(ctx, Filter{})
	if err != nil || len(recs) != 0 {
		t.Errorf("List() = %v, %v", recs, err)
	}
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	s, err := Open(ctx, Options{Path: t.TempDir()})
	if err != nil {
		t.Fatalf("Open(default): %v", err)
	}
	if _, ok := s.(*FileStore); !ok {
		t.Errorf("default backend = %T, want *FileStore", s)
	}

	s, err = Open(ctx, Options{Backend: BackendNone})
	if err != nil {
		t.Fatalf("Open(none): %v", err)
	}
	if _, ok := s.(*NullStore); !ok {
		t.Errorf("none backend = %T, want *NullStore", s)
	}

	if _, err := Open(ctx, Options{Backend: "sqlite"}); !errors.Is(err, errors.ErrCodeUnsupported) {
		t.Errorf("Open(sqlite) = %v, want %s", err, errors.ErrCodeUnsupported)
	}
}

func TestFingerprint(t *testing.T) {
	type doc struct {
		Client string `json:"client"`
		Total  string `json:"total"`
	}

	a, err := Fingerprint(doc{"Acme", "10"})
	if err != nil {
		t.Fatal(err)
	}
	b, _ := Fingerprint(doc{"Acme", "10"})
	c, _ := Fingerprint(doc{"Acme", "11"})

	if a != b {
		t.Error("Fingerprint should be deterministic")
	}
	if a == c {
		t.Error("different documents should have different fingerprints")
	}
	if len(a) != 64 {
		t.Errorf("Fingerprint length = %d, want 64", len(a))
	}
}

func TestRetryWithBackoff(t *testing.T) {
	old := retryDelay
	retryDelay = time.Millisecond
	defer func() { retryDelay = old }()

	ctx := context.Background()

	calls := 0
	err := RetryWithBackoff(ctx, func() error {
		calls++
		if calls < 3 {
			return Retryable(errors.New(errors.ErrCodeNetwork, "down"))
		}
		return nil
	})
	if err != nil || calls != 3 {
		t.Errorf("retryable: err = %v, calls = %d, want nil, 3", err, calls)
	}

	calls = 0
	err = RetryWithBackoff(ctx, func() error {
		calls++
		return errors.New(errors.ErrCodeInvalidConfig, "bad dsn")
	})
	if calls != 1 || !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("permanent: err = %v, calls = %d, want 1 call", err, calls)
	}

	calls = 0
	err = RetryWithBackoff(ctx, func() error {
		calls++
		return Retryable(errors.New(errors.ErrCodeNetwork, "still down"))
	})
	if calls != 3 || !IsRetryable(err) {
		t.Errorf("exhausted: err = %v, calls = %d, want 3 calls", err, calls)
	}
}

func TestRetryWithBackoffCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := RetryWithBackoff(ctx, func() error {
		return Retryable(errors.New(errors.ErrCodeNetwork, "down"))
	})
	if err != context.Canceled {
		t.Errorf("RetryWithBackoff on cancelled ctx = %v, want context.Canceled", err)
	}
}

func TestRetryableNil(t *testing.T) {
	if Retryable(nil) != nil {
		t.Error("Retryable(nil) should be nil")
	}
}

// storeRoundTrip exercises a remote backend against a live server.
func storeRoundTrip(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()
	id := "F9" + time.Now().UTC().Format("150405") + "20261018"

	rec := testRecord(id, "Integration Client", day(2026, 10, 18))
	rec.ID = uuid.NewString()
	if err := s.Put(ctx, rec); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, err := s.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !got.TotalTax.Equal(rec.TotalTax) || got.Client != rec.Client {
		t.Errorf("Get() = %+v", got)
	}
	recs, err := s.List(ctx, Filter{Year: 2026, Client: "integration"})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(recs) == 0 {
		t.Error("List() should find the record")
	}
	for _, pattern := range []string{"integration%", "integr_tion", ".*"} {
		recs, err := s.List(ctx, Filter{Year: 2026, Client: pattern})
		if err != nil {
			t.Fatalf("List(%q): %v", pattern, err)
		}
		for _, r := range recs {
			if r.InvoiceID == id {
				t.Errorf("List(%q) should match the client name literally", pattern)
			}
		}
	}
	if _, err := s.Get(ctx, "F00019990101"); !errors.Is(err, errors.ErrCodeInvoiceNotFound) {
		t.Errorf("Get(missing) = %v", err)
	}
}

func TestEscapeLike(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"acme", "acme"},
		{"100%", `100\%`},
		{"a_b", `a\_b`},
		{`c:\x`, `c:\\x`},
		{"", ""},
	}
	for _, tt := range tests {
		if got := escapeLike(tt.in); got != tt.want {
			t.Errorf("escapeLike(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestMongoStore(t *testing.T) {
	uri := os.Getenv("FACTURE_TEST_MONGO")
	if uri == "" {
		t.Skip("FACTURE_TEST_MONGO not set")
	}
	s, err := OpenMongo(context.Background(), uri, "facture_test")
	if err != nil {
		t.Fatalf("OpenMongo: %v", err)
	}
	defer s.Close()
	storeRoundTrip(t, s)
}

func TestPostgresStore(t *testing.T) {
	dsn := os.Getenv("FACTURE_TEST_POSTGRES")
	if dsn == "" {
		t.Skip("FACTURE_TEST_POSTGRES not set")
	}
	s, err := OpenPostgres(context.Background(), dsn)
	if err != nil {
		t.Fatalf("OpenPostgres: %v", err)
	}
	defer s.Close()
	storeRoundTrip(t, s)
}
