package ledger

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// FormatAmount renders v in the given ISO currency, e.g. "$450.00" for USD.
func FormatAmount(v decimal.Decimal, currency string) string {
	// money.New never yields a nil currency, even for unknown codes
	cur := *money.New(0, currency).Currency()
	minor := v.Shift(int32(cur.Fraction)).Round(0)
	return cur.Formatter().Format(minor.IntPart())
}

// Round2 rounds a money or percent value for display.
func Round2(v decimal.Decimal) decimal.Decimal { return v.Round(2) }
