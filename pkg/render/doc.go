// Package render holds what the document renderers share.
//
// # Overview
//
// Rendering turns an [invoice.Invoice] into bytes. The [pdf] subpackage lays
// out the printed document with gofpdf. This package only provides the file
// handling both the renderer and the JSON exporter rely on:
//
//	data, err := pdf.Render(inv, pdf.Options{Language: "fr"})
//	err = render.WriteFile("2026/F00120261018_acme.pdf", data)
//
// # Writing Files
//
// [WriteFile] writes through a temporary file in the target directory and
// renames it into place, so a crash never leaves a truncated PDF behind. The
// directory numbering counts PDFs, and a partial file would shift every
// following number.
//
// [invoice.Invoice]: github.com/matzehuels/facture/pkg/invoice.Invoice
// [pdf]: github.com/matzehuels/facture/pkg/render/pdf
package render
