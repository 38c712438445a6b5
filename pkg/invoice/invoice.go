package invoice

import (
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/shopspring/decimal"

	"github.com/matzehuels/facture/pkg/errors"
)

// Kind tells an invoice from a quote.
type Kind string

const (
	KindInvoice Kind = "facture"
	KindQuote   Kind = "devis"
)

// Kinds lists the accepted kinds, default first.
var Kinds = []Kind{KindInvoice, KindQuote}

// ParseKind validates a kind name.
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", errors.New(errors.ErrCodeInvalidKind, "wrong kind: %q (possible values: facture, devis)", s)
}

// Initial is the upper-case first letter used in document identifiers.
func (k Kind) Initial() string {
	if k == "" {
		return "F"
	}
	return strings.ToUpper(string(k[:1]))
}

// Mode selects the column layout of the items table.
type Mode int

const (
	// ModeUnits prints units, unit price and total.
	ModeUnits Mode = 1
	// ModeAuthorRights prints author rights, sale price and total.
	ModeAuthorRights Mode = 2
)

// Modes lists the accepted modes, default first.
var Modes = []Mode{ModeUnits, ModeAuthorRights}

// ParseMode validates a mode given as "1" or "2".
func ParseMode(s string) (Mode, error) {
	n, err := strconv.Atoi(s)
	if err == nil {
		for _, m := range Modes {
			if int(m) == n {
				return m, nil
			}
		}
	}
	return 0, errors.New(errors.ErrCodeInvalidMode, "wrong mode: %q (possible values: 1, 2)", s)
}

// String returns the mode as its digit.
func (m Mode) String() string { return strconv.Itoa(int(m)) }

// Defaults applied by New.
const (
	DefaultCurrency       = "€"
	DefaultCurrencyLocale = "fr_FR.UTF-8"
)

// Invoice is a document billed by Provider to Client.
type Invoice struct {
	Client   *Address
	Provider *Address
	Creator  Creator

	Kind Kind
	Mode Mode

	Number int    // sequence number within the year
	ID     string // e.g. F00120261018, set by numbering

	Title   string
	Subject string // "objet" line under the header
	Comment string
	Paytype string
	IBAN    string
	SWIFT   string

	Date        time.Time // date of issue
	DueDate     time.Time
	TaxableDate time.Time

	Currency       string // symbol ("€") or ISO code ("EUR")
	CurrencyLocale string // e.g. fr_FR.UTF-8

	RoundResult bool
	Rounding    RoundingStrategy

	items []Item
}

// New creates an invoice with the package defaults.
func New(client, provider *Address, creator Creator) *Invoice {
	return &Invoice{
		Client:         client,
		Provider:       provider,
		Creator:        creator,
		Kind:           KindInvoice,
		Mode:           ModeUnits,
		Currency:       DefaultCurrency,
		CurrencyLocale: DefaultCurrencyLocale,
		Rounding:       RoundHalfEven,
	}
}

// SetKind sets the kind. Unknown values are logged and replaced by the
// default kind.
func (inv *Invoice) SetKind(s string) {
	k, err := ParseKind(s)
	if err != nil {
		log.Warn("falling back to default kind", "err", errors.UserMessage(err), "kind", KindInvoice)
		k = KindInvoice
	}
	inv.Kind = k
}

// SetMode sets the mode. Unknown values are logged and replaced by the
// default mode.
func (inv *Invoice) SetMode(s string) {
	m, err := ParseMode(s)
	if err != nil {
		log.Warn("falling back to default mode", "err", errors.UserMessage(err), "mode", ModeUnits)
		m = ModeUnits
	}
	inv.Mode = m
}

// AddItem appends an item.
func (inv *Invoice) AddItem(it Item) {
	inv.items = append(inv.items, it)
}

// Items returns the items in insertion order.
func (inv *Invoice) Items() []Item {
	return inv.items
}

// Price is the total without tax.
func (inv *Invoice) Price() decimal.Decimal {
	sum := decimal.Zero
	for _, it := range inv.items {
		sum = sum.Add(it.Total())
	}
	return inv.roundResult(sum)
}

// PriceTax is the total with tax.
func (inv *Invoice) PriceTax() decimal.Decimal {
	return inv.roundResult(inv.priceTaxUnrounded())
}

// DifferenceInRounding is what rounding adds to (or removes from) the total
// with tax, whether or not RoundResult is enabled.
func (inv *Invoice) DifferenceInRounding() decimal.Decimal {
	price := inv.priceTaxUnrounded()
	return inv.strategy().Quantize(price).Sub(price)
}

// HasTax reports whether any item carries a non-zero tax rate.
func (inv *Invoice) HasTax() bool {
	for _, it := range inv.items {
		if !it.Tax.IsZero() {
			return true
		}
	}
	return false
}

// TaxGroup sums the items sharing one tax rate.
type TaxGroup struct {
	Rate     decimal.Decimal
	Total    decimal.Decimal
	TotalTax decimal.Decimal
	Tax      decimal.Decimal
}

// BreakdownVAT groups items by tax rate in order of first appearance.
func (inv *Invoice) BreakdownVAT() []TaxGroup {
	var groups []TaxGroup
	index := make(map[string]int)
	for _, it := range inv.items {
		key := it.Tax.String()
		i, ok := index[key]
		if !ok {
			index[key] = len(groups)
			groups = append(groups, TaxGroup{
				Rate:     it.Tax,
				Total:    it.Total(),
				TotalTax: it.TotalTax(),
				Tax:      it.TaxAmount(),
			})
			continue
		}
		g := &groups[i]
		g.Total = g.Total.Add(it.Total())
		g.TotalTax = g.TotalTax.Add(it.TotalTax())
		g.Tax = g.Tax.Add(it.TaxAmount())
	}
	return groups
}

// BreakdownVATTable returns the breakdown as rows of
// (rate, total, total with tax, tax).
func (inv *Invoice) BreakdownVATTable() [][4]decimal.Decimal {
	groups := inv.BreakdownVAT()
	rows := make([][4]decimal.Decimal, len(groups))
	for i, g := range groups {
		rows[i] = [4]decimal.Decimal{g.Rate, g.Total, g.TotalTax, g.Tax}
	}
	return rows
}

// Validate checks that the document can be numbered and rendered.
func (inv *Invoice) Validate() error {
	if inv.Client == nil || inv.Client.Summary == "" {
		return errors.New(errors.ErrCodeInvalidDocument, "client name is required")
	}
	if inv.Provider == nil || inv.Provider.Summary == "" {
		return errors.New(errors.ErrCodeInvalidDocument, "provider name is required")
	}
	if inv.Creator.Name == "" {
		return errors.New(errors.ErrCodeInvalidDocument, "creator name is required")
	}
	if _, err := ParseKind(string(inv.Kind)); err != nil {
		return err
	}
	if _, err := ParseMode(inv.Mode.String()); err != nil {
		return err
	}
	for i, it := range inv.items {
		if it.Count.IsNegative() {
			return errors.New(errors.ErrCodeInvalidAmount, "item %d: negative quantity %s", i+1, it.Count)
		}
	}
	return nil
}

func (inv *Invoice) priceTaxUnrounded() decimal.Decimal {
	sum := decimal.Zero
	for _, it := range inv.items {
		sum = sum.Add(it.TotalTax())
	}
	return sum
}

func (inv *Invoice) roundResult(d decimal.Decimal) decimal.Decimal {
	if inv.RoundResult {
		return inv.strategy().Quantize(d)
	}
	return d
}

func (inv *Invoice) strategy() RoundingStrategy {
	if inv.Rounding == "" {
		return RoundHalfEven
	}
	return inv.Rounding
}
