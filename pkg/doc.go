// Package pkg provides the libraries behind facture, a generator of French
// invoices ("factures") and quotes ("devis").
//
// # Overview
//
// The pkg directory is organized by concern:
//
//  1. [invoice] - The document model: parties, items, VAT and rounding
//  2. [addressbook], [io] - Inputs: the YAML address book and the JSON document format
//  3. [numbering], [ledger] - Per-year sequence numbers and the record of issued documents
//  4. [render], [fonts], [i18n], [money] - PDF layout, fonts, translations and amounts
//  5. [pipeline] - Orchestration (number → render → write → record)
//  6. [config], [errors], [observability] - Configuration, coded errors and hooks
//
// # Architecture
//
// The typical data flow:
//
//	provider.yaml + clients_abook.yaml + items.yaml    or    document.json
//	         ↓                                                   ↓
//	    [addressbook] package                              [io] package
//	         ↓                                                   ↓
//	                      [invoice.Invoice]
//	                             ↓
//	    [pipeline] package: [numbering] → render/pdf → file → [ledger]
//	                             ↓
//	          <output>/<year>/<id>_<client>.pdf
//
// # Quick Start
//
//	book, _ := addressbook.Load(addressbook.DefaultPaths())
//	inv, _ := book.Build("acme", invoice.KindInvoice, invoice.ModeUnits)
//
//	runner := pipeline.NewRunner(numbering.NewDirSequencer("Factures"), ledger.NewNullStore(), log.Default())
//	res, err := runner.Execute(ctx, inv, pipeline.Options{OutputDir: "Factures"})
//
// [invoice]: github.com/matzehuels/facture/pkg/invoice
// [invoice.Invoice]: github.com/matzehuels/facture/pkg/invoice.Invoice
// [addressbook]: github.com/matzehuels/facture/pkg/addressbook
// [io]: github.com/matzehuels/facture/pkg/io
// [numbering]: github.com/matzehuels/facture/pkg/numbering
// [ledger]: github.com/matzehuels/facture/pkg/ledger
// [render]: github.com/matzehuels/facture/pkg/render
// [fonts]: github.com/matzehuels/facture/pkg/fonts
// [i18n]: github.com/matzehuels/facture/pkg/i18n
// [money]: github.com/matzehuels/facture/pkg/money
// [pipeline]: github.com/matzehuels/facture/pkg/pipeline
// [config]: github.com/matzehuels/facture/pkg/config
// [errors]: github.com/matzehuels/facture/pkg/errors
// [observability]: github.com/matzehuels/facture/pkg/observability
package pkg
