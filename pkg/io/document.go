package io

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/matzehuels/facture/pkg/errors"
	"github.com/matzehuels/facture/pkg/invoice"
	"github.com/matzehuels/facture/pkg/numbering"
)

// DateLayout is the layout of every date in a document.
const DateLayout = "2006-01-02"

// Document is the JSON form of an invoice.
type Document struct {
	Kind   string `json:"kind,omitempty"`
	Mode   int    `json:"mode,omitempty"`
	ID     string `json:"id,omitempty"`
	Number int    `json:"number,omitempty"`

	Title   string `json:"title,omitempty"`
	Subject string `json:"subject,omitempty"`
	Comment string `json:"comment,omitempty"`
	Paytype string `json:"paytype,omitempty"`
	IBAN    string `json:"iban,omitempty"`
	SWIFT   string `json:"swift,omitempty"`

	Date        string `json:"date,omitempty"`
	DueDate     string `json:"due_date,omitempty"`
	TaxableDate string `json:"taxable_date,omitempty"`

	Currency       string `json:"currency,omitempty"`
	CurrencyLocale string `json:"currency_locale,omitempty"`
	RoundResult    bool   `json:"round_result,omitempty"`
	Rounding       string `json:"rounding,omitempty"`

	Provider invoice.Address  `json:"provider"`
	Client   invoice.Address  `json:"client"`
	Creator  *invoice.Creator `json:"creator,omitempty"`

	Items []Item `json:"items"`
}

// Item is one billed line.
type Item struct {
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Description string          `json:"description,omitempty"`
	Unit        string          `json:"unit,omitempty"`
	Tax         decimal.Decimal `json:"tax"`
}

// FromInvoice converts inv to its document form.
func FromInvoice(inv *invoice.Invoice) Document {
	doc := Document{
		Kind:           string(inv.Kind),
		Mode:           int(inv.Mode),
		ID:             inv.ID,
		Number:         inv.Number,
		Title:          inv.Title,
		Subject:        inv.Subject,
		Comment:        inv.Comment,
		Paytype:        inv.Paytype,
		IBAN:           inv.IBAN,
		SWIFT:          inv.SWIFT,
		Date:           formatDate(inv.Date),
		DueDate:        formatDate(inv.DueDate),
		TaxableDate:    formatDate(inv.TaxableDate),
		Currency:       inv.Currency,
		CurrencyLocale: inv.CurrencyLocale,
		RoundResult:    inv.RoundResult,
		Rounding:       string(inv.Rounding),
		Creator:        &invoice.Creator{Name: inv.Creator.Name, StampFilename: inv.Creator.StampFilename},
		Items:          make([]Item, 0, len(inv.Items())),
	}
	if inv.Provider != nil {
		doc.Provider = *inv.Provider
	}
	if inv.Client != nil {
		doc.Client = *inv.Client
	}
	for _, it := range inv.Items() {
		doc.Items = append(doc.Items, Item{
			Quantity:    it.Count,
			UnitPrice:   it.Price,
			Description: it.Description,
			Unit:        it.Unit,
			Tax:         it.Tax,
		})
	}
	return doc
}

// Invoice builds and validates the invoice described by d.
func (d Document) Invoice() (*invoice.Invoice, error) {
	provider := d.Provider
	client := d.Client
	creator := invoice.Creator{Name: provider.Summary}
	if d.Creator != nil && d.Creator.Name != "" {
		creator = *d.Creator
	}

	inv := invoice.New(&client, &provider, creator)
	if d.Kind != "" {
		k, err := invoice.ParseKind(d.Kind)
		if err != nil {
			return nil, err
		}
		inv.Kind = k
	}
	if d.Mode != 0 {
		inv.Mode = invoice.Mode(d.Mode)
	}
	rounding, err := invoice.ParseRoundingStrategy(d.Rounding)
	if err != nil {
		return nil, err
	}
	inv.Rounding = rounding
	inv.RoundResult = d.RoundResult

	inv.ID = d.ID
	inv.Number = d.Number

	inv.Title = d.Title
	inv.Subject = d.Subject
	inv.Comment = d.Comment
	inv.Paytype = d.Paytype
	if d.IBAN != "" {
		if err := errors.ValidateIBAN(d.IBAN); err != nil {
			return nil, err
		}
	}
	inv.IBAN = d.IBAN
	inv.SWIFT = d.SWIFT
	if d.Currency != "" {
		inv.Currency = d.Currency
	}
	if d.CurrencyLocale != "" {
		inv.CurrencyLocale = d.CurrencyLocale
	}

	for _, f := range []struct {
		name string
		in   string
		out  *time.Time
	}{
		{"date", d.Date, &inv.Date},
		{"due_date", d.DueDate, &inv.DueDate},
		{"taxable_date", d.TaxableDate, &inv.TaxableDate},
	} {
		t, err := parseDate(f.name, f.in)
		if err != nil {
			return nil, err
		}
		*f.out = t
	}
	if inv.ID != "" {
		if err := numbering.CheckID(inv); err != nil {
			return nil, err
		}
	}

	for _, it := range d.Items {
		inv.AddItem(invoice.Item{
			Count:       it.Quantity,
			Price:       it.UnitPrice,
			Description: it.Description,
			Unit:        it.Unit,
			Tax:         it.Tax,
		})
	}

	if err := inv.Validate(); err != nil {
		return nil, err
	}
	return inv, nil
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateLayout)
}

func parseDate(field, s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, errors.New(errors.ErrCodeInvalidDate, "%s: %q is not a YYYY-MM-DD date", field, s)
	}
	return t, nil
}
