// Package pipeline turns an invoice into an issued document.
//
// This package implements the number → render → write → record pipeline
// shared by the CLI and the HTTP API. Centralizing it keeps numbering, file
// naming and ledger entries identical whichever entry point issued the
// document.
//
// # Architecture
//
// The pipeline consists of four stages:
//
//  1. Number: give an unnumbered document the next number of its year
//  2. Render: lay the document out as a PDF
//  3. Write: store the PDF under <output>/<year>/<id>_<client>.pdf
//  4. Record: add an entry to the ledger
//
// Dry runs stop after rendering.
//
// # Usage
//
//	runner := pipeline.NewRunner(numbering.NewDirSequencer(dir), store, logger)
//	result, err := runner.Execute(ctx, inv, pipeline.Options{OutputDir: dir})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.Path)
package pipeline

import (
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/matzehuels/facture/pkg/errors"
	"github.com/matzehuels/facture/pkg/fonts"
	"github.com/matzehuels/facture/pkg/invoice"
	"github.com/matzehuels/facture/pkg/ledger"
	"github.com/matzehuels/facture/pkg/numbering"
)

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options configures one pipeline run.
type Options struct {
	// OutputDir receives <year>/<id>_<client>.pdf. It should be the directory
	// the sequencer counts in.
	OutputDir string
	// OutputPath, when set, is the exact file to write. It must end in .pdf.
	OutputPath string

	Fonts    fonts.Set
	Language string

	// DryRun renders without writing the file or the ledger entry.
	DryRun bool

	// Now returns the current time. Nil means time.Now.
	Now func() time.Time
}

// Validate checks the options.
func (o *Options) Validate() error {
	if o.OutputPath != "" {
		if !strings.EqualFold(filepath.Ext(o.OutputPath), ".pdf") {
			return errors.New(errors.ErrCodeInvalidPath, "output file must end in .pdf: %s", o.OutputPath)
		}
		if err := errors.ValidateFileName(filepath.Base(o.OutputPath)); err != nil {
			return err
		}
		return errors.ValidateOutputPath(o.OutputPath)
	}
	if o.OutputDir == "" && !o.DryRun {
		return errors.New(errors.ErrCodeInvalidPath, "output directory is required")
	}
	return nil
}

func (o *Options) now() time.Time {
	if o.Now != nil {
		return o.Now()
	}
	return time.Now()
}

// Path returns where the numbered document inv is written.
func (o *Options) Path(inv *invoice.Invoice) string {
	if o.OutputPath != "" {
		return o.OutputPath
	}
	year := strconv.Itoa(inv.Date.Year())
	return filepath.Join(o.OutputDir, year, numbering.FileName(inv.ID, inv.Client.Summary))
}

// =============================================================================
// Result
// =============================================================================

// Result is the outcome of Execute.
type Result struct {
	InvoiceID string
	Path      string // empty for dry runs
	PDF       []byte
	Record    *ledger.Record
	Stats     Stats
}

// Stats reports what the run did and how long each stage took.
type Stats struct {
	Items      int
	Bytes      int
	NumberTime time.Duration
	RenderTime time.Duration
	WriteTime  time.Duration
}
