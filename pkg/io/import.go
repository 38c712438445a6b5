package io

import (
	"encoding/json"
	"io"
	"os"

	"github.com/matzehuels/facture/pkg/errors"
	"github.com/matzehuels/facture/pkg/invoice"
)

// ReadDocument decodes a JSON document from r without validating it.
// Unknown fields are rejected so that typos do not go unnoticed.
func ReadDocument(r io.Reader) (Document, error) {
	var doc Document
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&doc); err != nil {
		return Document{}, errors.Wrap(errors.ErrCodeInvalidDocument, err, "decode document")
	}
	return doc, nil
}

// ReadJSON decodes a JSON document from r and returns the invoice it
// describes.
//
// ReadJSON returns an error if the JSON is malformed, if a date is not
// YYYY-MM-DD, or if the invoice fails [invoice.Invoice.Validate]. The
// returned errors carry the codes of package errors. ReadJSON does not close r.
func ReadJSON(r io.Reader) (*invoice.Invoice, error) {
	doc, err := ReadDocument(r)
	if err != nil {
		return nil, err
	}
	return doc.Invoice()
}

// ImportJSON reads the JSON document at path.
func ImportJSON(path string) (*invoice.Invoice, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "document %s", path)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "open %s", path)
	}
	defer f.Close()
	return ReadJSON(f)
}
