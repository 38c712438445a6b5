// Package money formats amounts and quantities for printed documents.
//
// Amounts are shopspring decimals end to end. Locale strings are accepted in
// POSIX form ("fr_FR.UTF-8") or as BCP 47 tags ("en-US") and are normalized
// with golang.org/x/text/language; currency codes are checked against
// ISO 4217 with golang.org/x/text/currency.
package money

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"

	"github.com/matzehuels/facture/pkg/errors"
)

// NBSP separates digit groups and the amount from a trailing symbol. It is
// part of cp1252, so it survives the core PDF fonts.
const NBSP = "\u00a0"

type pattern struct {
	group   string
	decimal string
	prefix  bool // symbol before the amount
}

var (
	suffixComma = pattern{group: ".", decimal: ",", prefix: false}
	spaceComma  = pattern{group: NBSP, decimal: ",", prefix: false}
	english     = pattern{group: ",", decimal: ".", prefix: true}
)

var patterns = map[string]pattern{
	"fr": spaceComma,
	"cs": spaceComma,
	"de": suffixComma,
	"es": suffixComma,
	"it": suffixComma,
	"nl": suffixComma,
	"en": english,
}

var symbols = map[string]string{
	"EUR": "€",
	"USD": "$",
	"GBP": "£",
	"CZK": "Kč",
	"CHF": "CHF",
	"JPY": "¥",
}

// ParseLocale normalizes a POSIX or BCP 47 locale string. Unparseable input
// and the C/POSIX locales yield English.
func ParseLocale(s string) language.Tag {
	s = strings.TrimSpace(s)
	if i := strings.IndexAny(s, ".@"); i >= 0 {
		s = s[:i]
	}
	s = strings.ReplaceAll(s, "_", "-")
	if s == "" || s == "C" || s == "POSIX" {
		return language.English
	}
	tag, err := language.Parse(s)
	if err != nil {
		return language.English
	}
	return tag
}

// Symbol maps an ISO 4217 code to its printed symbol. Anything that does not
// look like a code is returned unchanged, so "€" and "Kč" pass through.
func Symbol(unit string) (string, error) {
	if !isCode(unit) {
		return unit, nil
	}
	u, err := currency.ParseISO(unit)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidInput, err, "unknown currency %q", unit)
	}
	if s, ok := symbols[u.String()]; ok {
		return s, nil
	}
	return u.String(), nil
}

func isCode(s string) bool {
	if len(s) != 3 {
		return false
	}
	for _, r := range s {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}

// Formatter prints amounts in one currency for one locale.
type Formatter struct {
	Unit   string // "€", "Kč" or an ISO code such as "EUR"
	Locale string // "fr_FR.UTF-8", "en-US", ...
}

// New returns a Formatter for unit and locale.
func New(unit, locale string) Formatter {
	return Formatter{Unit: unit, Locale: locale}
}

// Validate reports an unknown ISO currency code.
func (f Formatter) Validate() error {
	_, err := Symbol(f.Unit)
	return err
}

// Format prints amount with two decimals, rounded half-even, and the currency
// symbol placed as the locale expects. In fr-FR whole amounts end in ",-".
func (f Formatter) Format(amount decimal.Decimal) string {
	tag := ParseLocale(f.Locale)
	p := patternFor(tag)

	sym, err := Symbol(f.Unit)
	if err != nil {
		sym = f.Unit
	}

	amount = amount.RoundBank(2)
	sign := ""
	if amount.IsNegative() {
		sign = "-"
		amount = amount.Neg()
	}

	num := formatNumber(amount, 2, p)
	if tag.String() == "fr-FR" && amount.Equal(amount.Truncate(0)) {
		num = strings.TrimSuffix(num, "00") + "-"
	}

	if sym == "" {
		return sign + num
	}
	if p.prefix {
		return sign + sym + num
	}
	return sign + num + NBSP + sym
}

// FormatQuantity prints a count as a grouped integer when it is whole and
// with two grouped decimals otherwise.
func FormatQuantity(count decimal.Decimal, locale string) string {
	p := patternFor(ParseLocale(locale))
	sign := ""
	if count.IsNegative() {
		sign = "-"
		count = count.Neg()
	}
	if count.Equal(count.Truncate(0)) {
		return sign + formatNumber(count, 0, p)
	}
	return sign + formatNumber(count.RoundBank(2), 2, p)
}

func patternFor(tag language.Tag) pattern {
	base, _ := tag.Base()
	if p, ok := patterns[base.String()]; ok {
		return p
	}
	return english
}

// formatNumber prints a non-negative d with places decimals.
func formatNumber(d decimal.Decimal, places int32, p pattern) string {
	s := d.StringFixed(places)
	intPart, frac, _ := strings.Cut(s, ".")

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteString(p.group)
		}
		b.WriteRune(r)
	}
	if frac != "" {
		b.WriteString(p.decimal)
		b.WriteString(frac)
	}
	return b.String()
}
