// Package io reads and writes invoices as JSON documents.
//
// # Overview
//
// A JSON document carries everything needed to render one invoice or quote
// without the YAML address book: both parties, the creator, the items and
// the formatting options. The HTTP API accepts it as a request body and
// `facture generate --from` reads it from disk.
//
// # JSON Format
//
//	{
//	  "kind": "facture",
//	  "mode": 1,
//	  "subject": "Illustrations",
//	  "date": "2026-10-18",
//	  "currency": "€",
//	  "provider": {"summary": "Studio Lune", "city": "Lyon"},
//	  "client": {"summary": "Acme"},
//	  "items": [
//	    {"quantity": "32", "unit_price": "600", "description": "Item 1"},
//	    {"quantity": 5, "unit_price": 600, "description": "Item 4", "tax": 15}
//	  ]
//	}
//
// Amounts may be JSON strings or numbers; they are decoded as exact
// decimals either way. Export always writes strings. Dates use the
// YYYY-MM-DD layout.
//
// Optional fields fall back to the invoice defaults: kind "facture", mode
// 1, currency "€", locale fr_FR.UTF-8, half-even rounding. A missing creator
// is the provider.
//
// # Import
//
// [ReadJSON] decodes from any io.Reader, [ImportJSON] from a file path.
// Both validate the resulting invoice.
//
// # Export
//
// [WriteJSON] and [ExportJSON] write the document back. A document exported
// and re-imported renders identically.
package io
