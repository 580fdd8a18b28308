package inventory

import (
	"strings"
	"time"

	"github.com/jhoicas/store-inventory/internal/domain"
)

// DateLayout formato MM/DD/YYYY del CSV de inventario y del respaldo.
const DateLayout = "01/02/2006"

// ParseDate interpreta una fecha MM/DD/YYYY estricta (dos dígitos de mes y día).
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, &domain.ParseError{Field: FieldDate, Value: s, Err: err}
	}
	return t, nil
}

// FormatDate devuelve la fecha como MM/DD/YYYY.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// DateOf trunca t a su fecha calendario (medianoche UTC, conservando año/mes/día locales).
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
