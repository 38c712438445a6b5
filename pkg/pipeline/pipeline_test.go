package pipeline

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/matzehuels/facture/pkg/errors"
	"github.com/matzehuels/facture/pkg/invoice"
	"github.com/matzehuels/facture/pkg/ledger"
	"github.com/matzehuels/facture/pkg/numbering"
)

var fixedNow = time.Date(2026, 10, 18, 14, 0, 0, 0, time.UTC)

func testInvoice() *invoice.Invoice {
	inv := invoice.New(
		&invoice.Address{Summary: "Acme Corp", City: "Paris"},
		&invoice.Address{Summary: "Studio Lune", City: "Lyon"},
		invoice.Creator{Name: "Studio Lune"},
	)
	inv.Subject = "Illustrations"
	inv.AddItem(invoice.Item{Count: decimal.NewFromInt(32), Price: decimal.NewFromInt(600), Description: "Item 1"})
	inv.AddItem(invoice.Item{Count: decimal.NewFromInt(60), Price: decimal.NewFromInt(50), Description: "Item 2", Tax: decimal.NewFromInt(21)})
	return inv
}

func TestOptionsValidate(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		code errors.Code
	}{
		{"dir", Options{OutputDir: "/tmp/factures"}, ""},
		{"exact path", Options{OutputPath: "/tmp/f.pdf"}, ""},
		{"exact path upper", Options{OutputPath: "/tmp/F.PDF"}, ""},
		{"dry run without dir", Options{DryRun: true}, ""},
		{"no output", Options{}, errors.ErrCodeInvalidPath},
		{"not a pdf", Options{OutputPath: "/tmp/f.txt"}, errors.ErrCodeInvalidPath},
		{"hidden file", Options{OutputPath: "/tmp/.pdf"}, errors.ErrCodeInvalidPath},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.Validate()
			if tt.code == "" {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.code) {
				t.Errorf("Validate() = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestOptionsPath(t *testing.T) {
	inv := testInvoice()
	inv.ID = "F00120261018"
	inv.Date = fixedNow

	opts := Options{OutputDir: "/out"}
	if got, want := opts.Path(inv), filepath.Join("/out", "2026", "F00120261018_acmecorp.pdf"); got != want {
		t.Errorf("Path() = %q, want %q", got, want)
	}
	opts.OutputPath = "/elsewhere/x.pdf"
	if got := opts.Path(inv); got != "/elsewhere/x.pdf" {
		t.Errorf("Path() with OutputPath = %q", got)
	}
}

func TestExecute(t *testing.T) {
	ctx := context.Background()
	out := t.TempDir()
	store, err := ledger.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	runner := NewRunner(numbering.NewDirSequencer(out), store, nil)
	defer runner.Close()
	opts := Options{OutputDir: out, Now: func() time.Time { return fixedNow }}

	res, err := runner.Execute(ctx, testInvoice(), opts)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if res.InvoiceID != "F00120261018" {
		t.Errorf("InvoiceID = %q, want F00120261018", res.InvoiceID)
	}
	wantPath := filepath.Join(out, "2026", "F00120261018_acmecorp.pdf")
	if res.Path != wantPath {
		t.Errorf("Path = %q, want %q", res.Path, wantPath)
	}
	data, err := os.ReadFile(wantPath)
	if err != nil {
		t.Fatalf("PDF not written: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) || !bytes.Equal(data, res.PDF) {
		t.Error("written file should be the rendered PDF")
	}
	if res.Stats.Items != 2 || res.Stats.Bytes != len(data) {
		t.Errorf("Stats = %+v", res.Stats)
	}

	rec, err := runner.Lookup(ctx, "F00120261018")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if rec.Path != wantPath || !rec.Total.Equal(decimal.NewFromInt(22200)) || rec.Fingerprint == "" {
		t.Errorf("record = %+v", rec)
	}

	// The second document of the year counts the first one.
	res, err = runner.Execute(ctx, testInvoice(), opts)
	if err != nil {
		t.Fatalf("second Execute: %v", err)
	}
	if res.InvoiceID != "F00220261018" {
		t.Errorf("second InvoiceID = %q, want F00220261018", res.InvoiceID)
	}
}

func TestExecuteDryRun(t *testing.T) {
	out := t.TempDir()
	runner := NewRunner(numbering.NewDirSequencer(out), nil, nil)

	res, err := runner.Execute(context.Background(), testInvoice(), Options{
		OutputDir: out,
		DryRun:    true,
		Now:       func() time.Time { return fixedNow },
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if res.Path != "" || res.Record != nil {
		t.Errorf("dry run wrote %q / %+v", res.Path, res.Record)
	}
	if len(res.PDF) == 0 {
		t.Error("dry run should still render")
	}
	matches, _ := filepath.Glob(filepath.Join(out, "*", "*.pdf"))
	if len(matches) != 0 {
		t.Errorf("dry run wrote files: %v", matches)
	}
}

func TestExecuteKeepsID(t *testing.T) {
	inv := testInvoice()
	inv.Kind = invoice.KindQuote
	inv.ID = "D00720260101"
	inv.Date = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	path := filepath.Join(t.TempDir(), "quote.pdf")
	res, err := NewRunner(nil, nil, nil).Execute(context.Background(), inv, Options{OutputPath: path})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if res.InvoiceID != "D00720260101" || res.Path != path {
		t.Errorf("result = %s at %s", res.InvoiceID, res.Path)
	}
}

func TestExecuteExactPathNumbering(t *testing.T) {
	ctx := context.Background()
	out := t.TempDir()
	elsewhere := t.TempDir()
	store, err := ledger.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	runner := NewRunner(numbering.NewDirSequencer(out), store, nil)
	defer runner.Close()

	globex := testInvoice()
	globex.Client.Summary = "Globex"

	tests := []struct {
		inv    *invoice.Invoice
		file   string
		wantID string
	}{
		{testInvoice(), "acme.pdf", "F00120261018"},
		{globex, "globex.pdf", "F00220261018"},
	}
	for _, tt := range tests {
		res, err := runner.Execute(ctx, tt.inv, Options{
			OutputPath: filepath.Join(elsewhere, tt.file),
			Now:        func() time.Time { return fixedNow },
		})
		if err != nil {
			t.Fatalf("Execute(%s): %v", tt.file, err)
		}
		if res.InvoiceID != tt.wantID {
			t.Errorf("Execute(%s) id = %q, want %q", tt.file, res.InvoiceID, tt.wantID)
		}
	}

	recs, err := store.List(ctx, ledger.Filter{Year: 2026})
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 2 {
		t.Fatalf("ledger holds %d records, want 2", len(recs))
	}
	rec, err := store.Get(ctx, "F00120261018")
	if err != nil || rec.Client != "Acme Corp" {
		t.Errorf("first record = %+v, %v", rec, err)
	}
}

func TestExecuteConflict(t *testing.T) {
	ctx := context.Background()
	store, err := ledger.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	runner := NewRunner(nil, store, nil)
	defer runner.Close()
	dir := t.TempDir()
	opts := func(file string) Options {
		return Options{OutputPath: filepath.Join(dir, file), Now: func() time.Time { return fixedNow }}
	}

	first := testInvoice()
	first.ID = "F00520261018"
	if _, err := runner.Execute(ctx, first, opts("first.pdf")); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	// Re-issuing the same document under its identifier is fine.
	again := testInvoice()
	again.ID = "F00520261018"
	if _, err := runner.Execute(ctx, again, opts("again.pdf")); err != nil {
		t.Errorf("re-issue: %v", err)
	}

	other := testInvoice()
	other.ID = "F00520261018"
	other.Client.Summary = "Globex"
	_, err = runner.Execute(ctx, other, opts("other.pdf"))
	if !errors.Is(err, errors.ErrCodeConflict) {
		t.Fatalf("Execute(taken id) = %v, want %s", err, errors.ErrCodeConflict)
	}
	if _, statErr := os.Stat(filepath.Join(dir, "other.pdf")); !os.IsNotExist(statErr) {
		t.Error("conflicting document should not be written")
	}
	rec, err := store.Get(ctx, "F00520261018")
	if err != nil || rec.Client != "Acme Corp" {
		t.Errorf("record after conflict = %+v, %v", rec, err)
	}

	// Automatic numbering skips the recorded number.
	res, err := runner.Execute(ctx, testInvoice(), opts("next.pdf"))
	if err != nil {
		t.Fatal(err)
	}
	if res.InvoiceID != "F00620261018" {
		t.Errorf("next id = %q, want F00620261018", res.InvoiceID)
	}
}

func TestExecuteRejectsInvalid(t *testing.T) {
	runner := NewRunner(nil, nil, nil)
	inv := testInvoice()
	inv.Client = nil

	_, err := runner.Execute(context.Background(), inv, Options{DryRun: true})
	if !errors.Is(err, errors.ErrCodeInvalidDocument) {
		t.Errorf("Execute(no client) = %v, want %s", err, errors.ErrCodeInvalidDocument)
	}

	inv = testInvoice()
	inv.ID = "bogus"
	_, err = runner.Execute(context.Background(), inv, Options{DryRun: true})
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("Execute(bad id) = %v, want %s", err, errors.ErrCodeInvalidInput)
	}

	inv = testInvoice()
	inv.ID = "F00120251231"
	inv.Date = time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	_, err = runner.Execute(context.Background(), inv, Options{DryRun: true})
	if !errors.Is(err, errors.ErrCodeInvalidDate) {
		t.Errorf("Execute(id dated elsewhere) = %v, want %s", err, errors.ErrCodeInvalidDate)
	}
}

func TestSummarize(t *testing.T) {
	inv := testInvoice()
	inv.RoundResult = true
	inv.AddItem(invoice.Item{Count: decimal.NewFromInt(1), Price: decimal.RequireFromString("0.40")})

	s := Summarize(inv)
	if s.Client != "Acme Corp" || s.Provider != "Studio Lune" || len(s.Items) != 3 {
		t.Errorf("Summarize() = %+v", s)
	}
	// 19200 + 3630 + 0.40, rounded half-even
	if !s.TotalTax.Equal(decimal.NewFromInt(22830)) {
		t.Errorf("TotalTax = %s, want 22830", s.TotalTax)
	}
	if !s.Rounding.Equal(decimal.RequireFromString("-0.4")) {
		t.Errorf("Rounding = %s, want -0.4", s.Rounding)
	}
	if len(s.VAT) != 2 {
		t.Errorf("len(VAT) = %d, want 2", len(s.VAT))
	}
	if s.TotalTaxText == "" {
		t.Error("TotalTaxText should be formatted")
	}

	untaxed := invoice.New(&invoice.Address{Summary: "A"}, &invoice.Address{Summary: "B"}, invoice.Creator{Name: "B"})
	untaxed.AddItem(invoice.NewItem(decimal.NewFromInt(1), decimal.NewFromInt(10), "x"))
	if got := Summarize(untaxed); len(got.VAT) != 0 {
		t.Errorf("untaxed VAT = %+v, want none", got.VAT)
	}
}
