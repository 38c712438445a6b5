package pipeline

import (
	"github.com/shopspring/decimal"

	"github.com/matzehuels/facture/pkg/invoice"
	"github.com/matzehuels/facture/pkg/money"
)

// Summary is the computed content of a document: what `facture preview`
// prints and the API's preview endpoint returns.
type Summary struct {
	ID       string        `json:"id,omitempty"`
	Kind     string        `json:"kind"`
	Mode     int           `json:"mode"`
	Client   string        `json:"client"`
	Provider string        `json:"provider"`
	Subject  string        `json:"subject,omitempty"`
	Currency string        `json:"currency"`
	Items    []SummaryItem `json:"items"`
	VAT      []VATLine     `json:"vat,omitempty"`

	Total    decimal.Decimal `json:"total"`
	TotalTax decimal.Decimal `json:"total_tax"`
	Rounding decimal.Decimal `json:"rounding"`

	// Formatted amounts in the document's currency locale.
	TotalText    string `json:"total_text"`
	TotalTaxText string `json:"total_tax_text"`
}

// SummaryItem is one line of the items table.
type SummaryItem struct {
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	Unit        string          `json:"unit,omitempty"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Tax         decimal.Decimal `json:"tax"`
	Total       decimal.Decimal `json:"total"`
	TotalTax    decimal.Decimal `json:"total_tax"`
}

// VATLine sums the items of one tax rate.
type VATLine struct {
	Rate     decimal.Decimal `json:"rate"`
	Total    decimal.Decimal `json:"total"`
	TotalTax decimal.Decimal `json:"total_tax"`
	Tax      decimal.Decimal `json:"tax"`
}

// Summarize computes the totals of inv without rendering it. The VAT lines
// are only filled when an item is taxed.
func Summarize(inv *invoice.Invoice) Summary {
	s := Summary{
		ID:       inv.ID,
		Kind:     string(inv.Kind),
		Mode:     int(inv.Mode),
		Currency: inv.Currency,
		Subject:  inv.Subject,
		Items:    make([]SummaryItem, 0, len(inv.Items())),
		Total:    inv.Price(),
		TotalTax: inv.PriceTax(),
	}
	if inv.Client != nil {
		s.Client = inv.Client.Summary
	}
	if inv.Provider != nil {
		s.Provider = inv.Provider.Summary
	}
	if inv.RoundResult {
		s.Rounding = inv.DifferenceInRounding()
	}

	for _, it := range inv.Items() {
		s.Items = append(s.Items, SummaryItem{
			Description: it.Description,
			Quantity:    it.Count,
			Unit:        it.Unit,
			UnitPrice:   it.Price,
			Tax:         it.Tax,
			Total:       it.Total(),
			TotalTax:    it.TotalTax(),
		})
	}
	if inv.HasTax() {
		for _, g := range inv.BreakdownVAT() {
			s.VAT = append(s.VAT, VATLine{Rate: g.Rate, Total: g.Total, TotalTax: g.TotalTax, Tax: g.Tax})
		}
	}

	f := money.New(inv.Currency, inv.CurrencyLocale)
	s.TotalText = f.Format(s.Total)
	s.TotalTaxText = f.Format(s.TotalTax)
	return s
}
