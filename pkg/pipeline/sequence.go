package pipeline

import (
	"context"

	"github.com/matzehuels/facture/pkg/ledger"
	"github.com/matzehuels/facture/pkg/numbering"
)

// recordedFloor never hands out a number at or below one already recorded in
// the ledger for the same year. Documents written outside the output
// directory are invisible to a DirSequencer but not to the ledger.
type recordedFloor struct {
	seq   numbering.Sequencer
	store ledger.Store
}

// Next implements numbering.Sequencer.
func (s recordedFloor) Next(ctx context.Context, year int) (int, error) {
	n, err := s.seq.Next(ctx, year)
	if err != nil {
		return 0, err
	}
	recs, err := s.store.List(ctx, ledger.Filter{Year: year})
	if err != nil {
		return 0, err
	}
	for _, rec := range recs {
		_, recorded, _, err := numbering.ParseID(rec.InvoiceID)
		if err != nil {
			continue
		}
		if recorded >= n {
			n = recorded + 1
		}
	}
	return n, nil
}
