package textnorm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFold(t *testing.T) {
	assert.Equal(t, "cafe molido", Fold("Café Molido"))
	assert.Equal(t, "arroz diana 500g", Fold("ARROZ Diana 500g"))
	assert.Equal(t, "nino", Fold("Niño"))
}

func TestContains(t *testing.T) {
	assert.True(t, Contains("Jabón Rey", "jabon"))
	assert.True(t, Contains("7702001", "2001"))
	assert.False(t, Contains("Leche", "queso"))
}
