package taxid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckDigit(t *testing.T) {
	dv, err := CheckDigit("900123456")
	require.NoError(t, err)
	assert.Equal(t, byte('8'), dv)

	_, err = CheckDigit("9001")
	assert.ErrorIs(t, err, ErrInvalidNIT)
}

func TestValidate(t *testing.T) {
	for _, ok := range []string{"900123456", "900123456-8", "900.123.456-8", " 9001234568 "} {
		assert.NoError(t, Validate(ok), ok)
	}
	for _, bad := range []string{"900123456-7", "900", "", "90012345612"} {
		assert.ErrorIs(t, Validate(bad), ErrInvalidNIT, bad)
	}
}

func TestNormalize(t *testing.T) {
	got, err := Normalize("900.123.456")
	require.NoError(t, err)
	assert.Equal(t, "900123456-8", got)
}
