package money

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Formatter renders amounts as localized currency strings for display.
// It is never used in arithmetic.
type Formatter struct {
	printer *message.Printer
	unit    currency.Unit
	symbol  string
	point   string // Locale decimal separator
	scale   int32  // Minor unit digits of the currency
}

// NewFormatter creates a Formatter for a BCP 47 locale (e.g. "en-US", "pt-BR")
// and an ISO 4217 currency code (e.g. "USD", "BRL").
func NewFormatter(locale, code string) (*Formatter, error) {
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, fmt.Errorf("invalid locale %q: %w", locale, err)
	}
	unit, err := currency.ParseISO(code)
	if err != nil {
		return nil, fmt.Errorf("invalid currency %q: %w", code, err)
	}

	printer := message.NewPrinter(tag)
	scale, _ := currency.Standard.Rounding(unit)
	return &Formatter{
		printer: printer,
		unit:    unit,
		symbol:  printer.Sprint(currency.Symbol(unit)),
		point:   strings.Trim(printer.Sprint(number.Decimal(1.5)), "15"),
		scale:   int32(scale),
	}, nil
}

// Format renders d with the currency symbol, rounded half away from zero to
// the currency's minor unit. Digits come from d itself, so large amounts keep
// every cent.
func (f *Formatter) Format(d decimal.Decimal) string {
	rounded := d.Round(f.scale)

	sign := ""
	if rounded.IsNegative() {
		sign = "-"
		rounded = rounded.Neg()
	}

	whole := rounded.Truncate(0).BigInt()
	digits := whole.String()
	if whole.IsInt64() {
		digits = f.printer.Sprint(number.Decimal(whole.Int64()))
	}

	if f.scale > 0 {
		fixed := rounded.StringFixed(f.scale)
		digits += f.point + fixed[len(fixed)-int(f.scale):]
	}
	return f.symbol + " " + sign + digits
}

// Currency returns the ISO code of the formatter's currency.
func (f *Formatter) Currency() string {
	return f.unit.String()
}
