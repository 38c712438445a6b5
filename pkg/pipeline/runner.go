package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/facture/pkg/errors"
	fio "github.com/matzehuels/facture/pkg/io"
	"github.com/matzehuels/facture/pkg/invoice"
	"github.com/matzehuels/facture/pkg/ledger"
	"github.com/matzehuels/facture/pkg/numbering"
	"github.com/matzehuels/facture/pkg/observability"
	"github.com/matzehuels/facture/pkg/render"
	"github.com/matzehuels/facture/pkg/render/pdf"
)

// Runner issues documents. Both CLI and API use it.
//
// Runs are serialized: numbering counts the files already written and the
// ledger records of the year, so the next number is only known once the
// previous document is on disk and recorded.
type Runner struct {
	Sequencer numbering.Sequencer
	Store     ledger.Store
	Logger    *log.Logger

	mu sync.Mutex
}

// NewRunner creates a runner.
// If seq is nil, numbers come from memory and restart at 1 for every runner.
// If store is nil, a NullStore is used (nothing is recorded).
func NewRunner(seq numbering.Sequencer, store ledger.Store, logger *log.Logger) *Runner {
	if seq == nil {
		seq = numbering.NewMemorySequencer()
	}
	if store == nil {
		store = ledger.NewNullStore()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Sequencer: seq,
		Store:     store,
		Logger:    logger,
	}
}

// Execute runs the complete number → render → write → record pipeline.
// A document that already carries an ID keeps it.
func (r *Runner) Execute(ctx context.Context, inv *invoice.Invoice, opts Options) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	if err := inv.Validate(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	now := opts.now()
	result := &Result{}
	result.Stats.Items = len(inv.Items())

	// Stage 1: Number
	if inv.ID == "" {
		start := time.Now()
		err := numbering.Assign(ctx, recordedFloor{r.Sequencer, r.Store}, inv, now)
		result.Stats.NumberTime = time.Since(start)
		observability.Pipeline().OnNumberAssigned(ctx, string(inv.Kind), inv.ID, result.Stats.NumberTime, err)
		if err != nil {
			return nil, fmt.Errorf("number: %w", err)
		}
	} else if err := numbering.CheckID(inv); err != nil {
		return nil, err
	}
	result.InvoiceID = inv.ID
	r.Logger.Debug("numbered document", "id", inv.ID, "kind", inv.Kind)

	fingerprint, err := ledger.Fingerprint(fio.FromInvoice(inv))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "fingerprint %s", inv.ID)
	}
	if !opts.DryRun {
		if err := r.checkUnused(ctx, inv.ID, fingerprint); err != nil {
			return nil, err
		}
	}

	// Stage 2: Render
	observability.Pipeline().OnRenderStart(ctx, inv.ID, len(inv.Items()))
	start := time.Now()
	data, err := pdf.Render(inv, pdf.Options{Fonts: opts.Fonts, Language: opts.Language, CreationDate: now})
	result.Stats.RenderTime = time.Since(start)
	observability.Pipeline().OnRenderComplete(ctx, inv.ID, len(data), result.Stats.RenderTime, err)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.PDF = data
	result.Stats.Bytes = len(data)

	r.Logger.Info("rendered document",
		"id", inv.ID,
		"items", result.Stats.Items,
		"duration", result.Stats.RenderTime)

	if opts.DryRun {
		return result, nil
	}

	// Stage 3: Write
	path := opts.Path(inv)
	if err := errors.ValidateFileName(filepath.Base(path)); err != nil {
		return nil, err
	}
	start = time.Now()
	err = render.WriteFile(path, data)
	result.Stats.WriteTime = time.Since(start)
	observability.Pipeline().OnWriteComplete(ctx, path, result.Stats.WriteTime, err)
	if err != nil {
		return nil, fmt.Errorf("write: %w", err)
	}
	result.Path = path

	// Stage 4: Record
	rec := ledger.NewRecord(inv, path, fingerprint, now)
	start = time.Now()
	err = r.Store.Put(ctx, rec)
	observability.Ledger().OnRecordStored(ctx, ledger.BackendOf(r.Store), inv.ID, time.Since(start), err)
	if err != nil {
		return result, fmt.Errorf("record %s (PDF written to %s): %w", inv.ID, path, err)
	}
	result.Record = rec

	return result, nil
}

// checkUnused fails when invoiceID is already recorded for a different
// document. Re-issuing the same document under its identifier is allowed.
func (r *Runner) checkUnused(ctx context.Context, invoiceID, fingerprint string) error {
	rec, err := r.Store.Get(ctx, invoiceID)
	switch {
	case errors.Is(err, errors.ErrCodeInvoiceNotFound):
		return nil
	case err != nil:
		return fmt.Errorf("look up %s: %w", invoiceID, err)
	case rec.Fingerprint != fingerprint:
		return errors.New(errors.ErrCodeConflict, "%s is already recorded for another document (%s, %s)",
			invoiceID, rec.Client, rec.Date.Format("2006-01-02"))
	}
	return nil
}

// Lookup fetches a ledger record by invoice identifier.
func (r *Runner) Lookup(ctx context.Context, invoiceID string) (*ledger.Record, error) {
	rec, err := r.Store.Get(ctx, invoiceID)
	observability.Ledger().OnRecordLookup(ctx, ledger.BackendOf(r.Store), err == nil)
	return rec, err
}

// Close releases resources held by the runner (primarily the store).
func (r *Runner) Close() error {
	if r.Store != nil {
		return r.Store.Close()
	}
	return nil
}
