package material

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Rounding turns the real-valued requirement into whole units.
type Rounding int

const (
	// RoundCeiling returns the smallest integer >= the requirement.
	RoundCeiling Rounding = iota
	// RoundLegacy reproduces trunc(x + 0.99) from the desktop application.
	// It under-counts when the fractional part is in (0, 0.01).
	RoundLegacy
)

var legacyIncrement = decimal.RequireFromString("0.99")

func ParseRounding(value string) (Rounding, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "ceiling", "ceil":
		return RoundCeiling, nil
	case "legacy":
		return RoundLegacy, nil
	default:
		return RoundCeiling, fmt.Errorf("unknown rounding mode %q", value)
	}
}

func (r Rounding) String() string {
	switch r {
	case RoundLegacy:
		return "legacy"
	default:
		return "ceiling"
	}
}

func (r Rounding) apply(x decimal.Decimal) decimal.Decimal {
	if r == RoundLegacy {
		return x.Add(legacyIncrement).Floor()
	}
	return x.Ceil()
}
