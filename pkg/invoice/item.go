package invoice

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// Item is one billed line.
type Item struct {
	Count       decimal.Decimal // quantity, in Unit
	Price       decimal.Decimal // price per unit, tax excluded
	Description string
	Unit        string          // pieces, kg, h...
	Tax         decimal.Decimal // tax rate in percent
}

// NewItem creates an item without tax.
func NewItem(count, price decimal.Decimal, description string) Item {
	return Item{Count: count, Price: price, Description: description}
}

// Total is the price of the line without tax.
func (it Item) Total() decimal.Decimal {
	return it.Price.Mul(it.Count)
}

// TotalTax is the price of the line with tax.
func (it Item) TotalTax() decimal.Decimal {
	return it.Price.Mul(it.Count).Mul(decimal.NewFromInt(1).Add(it.Tax.Div(hundred)))
}

// TaxAmount is the tax due on the line alone.
func (it Item) TaxAmount() decimal.Decimal {
	return it.TotalTax().Sub(it.Total())
}

// IsWholeCount reports whether Count has no fractional part.
func (it Item) IsWholeCount() bool {
	return it.Count.Equal(it.Count.Truncate(0))
}
