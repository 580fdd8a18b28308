package inventory

import (
	"math"
	"strconv"
	"strings"

	"github.com/jhoicas/store-inventory/internal/domain"
)

// ParseQuantity exige un entero no negativo que quepa en la columna INTEGER ("12", " 7 ").
func ParseQuantity(s string) (int, error) {
	clean := strings.TrimSpace(s)
	if clean == "" {
		return 0, &domain.ParseError{Field: FieldQuantity, Value: s, Err: errEmptyValue}
	}
	n, err := strconv.Atoi(clean)
	if err != nil {
		return 0, &domain.ParseError{Field: FieldQuantity, Value: s, Err: err}
	}
	if n < 0 {
		return 0, &domain.ParseError{Field: FieldQuantity, Value: s, Err: errNegative}
	}
	if n > math.MaxInt32 {
		return 0, &domain.ParseError{Field: FieldQuantity, Value: s, Err: errOverflow}
	}
	return n, nil
}
