package ordercode

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var day = time.Date(2025, 9, 1, 10, 30, 0, 0, time.UTC)

func TestFormat(t *testing.T) {
	assert.Equal(t, "PED-20250901-0001", Format(day, 1))
	assert.Equal(t, "PED-20250901-0042", Format(day, 42))
	assert.Equal(t, "PED-20250901-9999", Format(day, 9999))
}

func TestParse(t *testing.T) {
	date, seq, err := Parse("PED-20250901-0007")
	require.NoError(t, err)
	assert.Equal(t, 7, seq)
	assert.Equal(t, "20250901", date.Format("20060102"))

	for _, bad := range []string{
		"",
		"PED-20250901",
		"XXX-20250901-0001",
		"PED-2025090-0001",
		"PED-20250901-abcd",
		"PED-20250901-0000",
	} {
		_, _, err := Parse(bad)
		assert.Error(t, err, "debería rechazar %q", bad)
	}
}

func TestNext(t *testing.T) {
	// Sin pedido previo: arranca en 1.
	code, err := Next("", day)
	require.NoError(t, err)
	assert.Equal(t, "PED-20250901-0001", code)

	// Incrementa dentro del mismo día.
	code, err = Next("PED-20250901-0003", day)
	require.NoError(t, err)
	assert.Equal(t, "PED-20250901-0004", code)

	// Cambio de día: el código de ayer no cuenta.
	code, err = Next("PED-20250831-0250", day)
	require.NoError(t, err)
	assert.Equal(t, "PED-20250901-0001", code)
}

func TestNextSequenceExhausted(t *testing.T) {
	_, err := Next(Format(day, MaxSequence), day)
	assert.Error(t, err)
}
