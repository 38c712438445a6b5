package invoice

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/matzehuels/facture/pkg/errors"
)

// RoundingStrategy selects how totals are quantized when rounding is enabled.
type RoundingStrategy string

// Supported strategies. Names follow the usual decimal-arithmetic vocabulary.
const (
	RoundHalfEven RoundingStrategy = "half-even" // bankers' rounding (default)
	RoundHalfUp   RoundingStrategy = "half-up"   // .5 away from zero
	RoundHalfDown RoundingStrategy = "half-down" // .5 toward zero
	RoundUp       RoundingStrategy = "up"        // away from zero
	RoundDown     RoundingStrategy = "down"      // toward zero
	RoundCeiling  RoundingStrategy = "ceiling"
	RoundFloor    RoundingStrategy = "floor"
)

// RoundingStrategies lists every accepted strategy.
var RoundingStrategies = []RoundingStrategy{
	RoundHalfEven, RoundHalfUp, RoundHalfDown, RoundUp, RoundDown, RoundCeiling, RoundFloor,
}

// ParseRoundingStrategy accepts the strategy names above, case-insensitively,
// with "_" allowed in place of "-". Empty input yields RoundHalfEven.
func ParseRoundingStrategy(s string) (RoundingStrategy, error) {
	if s == "" {
		return RoundHalfEven, nil
	}
	norm := RoundingStrategy(strings.ReplaceAll(strings.ToLower(s), "_", "-"))
	for _, rs := range RoundingStrategies {
		if rs == norm {
			return rs, nil
		}
	}
	return "", errors.New(errors.ErrCodeInvalidInput, "unknown rounding strategy: %q", s)
}

// Quantize rounds d to a whole number using the strategy.
func (rs RoundingStrategy) Quantize(d decimal.Decimal) decimal.Decimal {
	switch rs {
	case RoundHalfUp:
		return d.Round(0)
	case RoundHalfDown:
		if d.Sub(d.Truncate(0)).Abs().Equal(decimal.NewFromFloat(0.5)) {
			return d.Truncate(0)
		}
		return d.Round(0)
	case RoundUp:
		return d.RoundUp(0)
	case RoundDown:
		return d.RoundDown(0)
	case RoundCeiling:
		return d.RoundCeil(0)
	case RoundFloor:
		return d.RoundFloor(0)
	default:
		return d.RoundBank(0)
	}
}
