// Package invoice defines the document model shared by every facture component:
// the parties (provider, client, creator), the billed items and the invoice
// itself with its totals, tax breakdown and rounding rules.
//
// All amounts are [decimal.Decimal] values. Nothing in this package touches
// floats, so totals printed on a document always add up to the cent.
//
// # Totals
//
// An [Item] bills Count units at Price, optionally under a Tax rate given in
// percent:
//
//	Total    = Price × Count
//	TotalTax = Price × Count × (1 + Tax/100)
//
// [Invoice.Price] and [Invoice.PriceTax] sum those per-item amounts. When
// [Invoice.RoundResult] is set both sums are quantized to whole units using
// [Invoice.Rounding] (bankers' rounding by default).
//
// # Tax breakdown
//
// [Invoice.BreakdownVAT] groups items by tax rate, keeping the order in which
// each rate first appears on the document.
package invoice
