package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePhone(t *testing.T) {
	cases := map[string]string{
		"612345678":        "612345678",
		"612 34 56 78":     "612345678",
		"612-345-678":      "612345678",
		"+34 612 345 678":  "612345678",
		"34612345678":      "612345678",
		"0034612345678":    "612345678",
		"712345678":        "712345678",
		"912345678":        "912345678", // fijos de Madrid: válidos por el rango 6-9
		"512345678":        "",
		"12345":            "",
		"":                 "",
		"61234567":         "",
		"6123456789":       "",
		"abc612345678def":  "612345678",
	}
	for in, want := range cases {
		assert.Equal(t, want, NormalizePhone(in), "entrada %q", in)
	}
}

func TestValidEmail(t *testing.T) {
	assert.True(t, ValidEmail("maria@example.com"))
	assert.True(t, ValidEmail("pedidos@carniceria.es"))
	assert.False(t, ValidEmail("maria@"))
	assert.False(t, ValidEmail("@example.com"))
	assert.False(t, ValidEmail("maria example@x.com"))
	assert.False(t, ValidEmail(""))
}

func TestValidPassword(t *testing.T) {
	assert.True(t, ValidPassword("carne123"))
	assert.True(t, ValidPassword("abc1de"))
	assert.False(t, ValidPassword("ab1"))
	assert.False(t, ValidPassword("soloLetras"))
	assert.False(t, ValidPassword(""))
}
