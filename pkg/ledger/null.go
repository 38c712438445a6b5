package ledger

import "context"

// NullStore records nothing. Dry runs and `ledger.backend = "none"` use it.
type NullStore struct{}

// NewNullStore creates a null store.
func NewNullStore() Store {
	return &NullStore{}
}

// Put does nothing.
func (s *NullStore) Put(ctx context.Context, rec *Record) error {
	return nil
}

// Get always reports the record as missing.
func (s *NullStore) Get(ctx context.Context, invoiceID string) (*Record, error) {
	return nil, notFound(invoiceID)
}

// List returns no records.
func (s *NullStore) List(ctx context.Context, f Filter) ([]*Record, error) {
	return nil, nil
}

// Close does nothing.
func (s *NullStore) Close() error {
	return nil
}

// Ensure NullStore implements Store.
var _ Store = (*NullStore)(nil)
