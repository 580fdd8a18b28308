package inventory

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/jhoicas/store-inventory/internal/domain"
)

// Nombres de columna del CSV; también se usan como Field en domain.ParseError.
const (
	FieldName     = "product_name"
	FieldQuantity = "product_quantity"
	FieldPrice    = "product_price"
	FieldDate     = "date_updated"
)

var (
	errEmptyValue = errors.New("valor vacío")
	errNegative   = errors.New("valor negativo")
	errOverflow   = errors.New("valor fuera de rango")
	errExponent   = errors.New("notación exponencial no admitida")
)

var maxCents = decimal.NewFromInt(math.MaxInt64)

// currencyPrinter agrupa miles con coma ("1,234").
var currencyPrinter = message.NewPrinter(language.English)

// ParsePriceCents convierte un precio decimal ("$1,234.56", "2.5", "0.005") a centavos.
// Acepta un "$" inicial y separadores de miles. Redondea al centavo más cercano con
// empate alejándose de cero: "$0.005" -> 1, "$0.015" -> 2.
// La aritmética es decimal, nunca float64.
func ParsePriceCents(s string) (int64, error) {
	clean := strings.TrimSpace(s)
	clean = strings.TrimPrefix(clean, "$")
	clean = strings.TrimSpace(strings.ReplaceAll(clean, ",", ""))
	if clean == "" {
		return 0, &domain.ParseError{Field: FieldPrice, Value: s, Err: errEmptyValue}
	}
	if strings.ContainsAny(clean, "eE") {
		return 0, &domain.ParseError{Field: FieldPrice, Value: s, Err: errExponent}
	}
	d, err := decimal.NewFromString(clean)
	if err != nil {
		return 0, &domain.ParseError{Field: FieldPrice, Value: s, Err: err}
	}
	if d.IsNegative() {
		return 0, &domain.ParseError{Field: FieldPrice, Value: s, Err: errNegative}
	}
	cents := d.Shift(2).Round(0)
	if cents.GreaterThan(maxCents) {
		return 0, &domain.ParseError{Field: FieldPrice, Value: s, Err: errOverflow}
	}
	return cents.IntPart(), nil
}

// FormatPriceCents formatea centavos como "$X,XXX.XX".
func FormatPriceCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s$%s.%02d", sign, currencyPrinter.Sprintf("%d", cents/100), cents%100)
}

// FormatAmount formatea un monto decimal (ej. valor total del stock) como "$X,XXX.XX".
func FormatAmount(amount decimal.Decimal) string {
	return FormatPriceCents(amount.Shift(2).Round(0).IntPart())
}
