package io

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/matzehuels/facture/pkg/invoice"
	"github.com/matzehuels/facture/pkg/render"
)

// WriteJSON encodes inv as an indented JSON document and writes it to w.
// The output can be re-imported with [ReadJSON].
func WriteJSON(inv *invoice.Invoice, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(FromInvoice(inv)); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportJSON writes inv to a JSON file at path.
func ExportJSON(inv *invoice.Invoice, path string) error {
	data, err := json.MarshalIndent(FromInvoice(inv), "", "  ")
	if err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return render.WriteFile(path, append(data, '\n'))
}
