package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatter_Format(t *testing.T) {
	f, err := NewFormatter("USD", "en-US")
	require.NoError(t, err)

	out := f.Format(decimal.RequireFromString("1234.5"))
	assert.Contains(t, out, "$")
	assert.Contains(t, out, "1,234.50")
}

func TestFormatter_Number(t *testing.T) {
	f, err := NewFormatter("USD", "en-US")
	require.NoError(t, err)
	assert.Equal(t, "1,500.25", f.Number(decimal.RequireFromString("1500.245"), 2))
}

func TestNewFormatter_Invalid(t *testing.T) {
	_, err := NewFormatter("XYZ1", "es-CO")
	assert.Error(t, err)

	_, err = NewFormatter("COP", "no_es_un_locale!!")
	assert.Error(t, err)

	assert.NotNil(t, MustFormatter("???", "???"))
}

func TestValidators(t *testing.T) {
	assert.True(t, ValidCurrency("COP"))
	assert.False(t, ValidCurrency("pesos"))
	assert.True(t, ValidLocale("es-CO"))
	assert.False(t, ValidLocale(""))
}
