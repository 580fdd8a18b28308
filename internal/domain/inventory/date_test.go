package inventory_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/store-inventory/internal/domain"
	"github.com/jhoicas/store-inventory/internal/domain/inventory"
)

func TestParseDate_Estricto(t *testing.T) {
	got, err := inventory.ParseDate("03/04/2020")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2020, time.March, 4, 0, 0, 0, 0, time.UTC), got)
	assert.Equal(t, "03/04/2020", inventory.FormatDate(got))
}

func TestParseDate_Invalidas(t *testing.T) {
	for _, input := range []string{"", "3/4/2020", "2020-03-04", "13/01/2020", "02/30/2020", "03/04/20"} {
		t.Run(input, func(t *testing.T) {
			_, err := inventory.ParseDate(input)
			require.Error(t, err)

			var pe *domain.ParseError
			require.True(t, errors.As(err, &pe))
			assert.Equal(t, inventory.FieldDate, pe.Field)
		})
	}
}

func TestDateOf(t *testing.T) {
	loc := time.FixedZone("COT", -5*60*60)
	in := time.Date(2024, time.July, 9, 23, 45, 0, 0, loc)
	assert.Equal(t, time.Date(2024, time.July, 9, 0, 0, 0, 0, time.UTC), inventory.DateOf(in))
}
