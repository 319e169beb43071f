package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParse(t *testing.T) {
	m := NewManager("secreto", time.Hour)

	tok, err := m.Generate(7, "maria@example.com", "cliente")
	require.NoError(t, err)

	claims, err := m.Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, "maria@example.com", claims.Email)
	assert.Equal(t, "cliente", claims.Rol)
}

func TestParseExpired(t *testing.T) {
	m := NewManager("secreto", -time.Minute)
	tok, err := m.Generate(7, "maria@example.com", "admin")
	require.NoError(t, err)

	_, err = m.Parse(tok)
	assert.ErrorIs(t, err, ErrExpired)
}

func TestParseWrongSecret(t *testing.T) {
	tok, err := NewManager("secreto-a", time.Hour).Generate(7, "x@y.com", "admin")
	require.NoError(t, err)

	_, err = NewManager("secreto-b", time.Hour).Parse(tok)
	assert.Error(t, err)
}

func TestParseGarbage(t *testing.T) {
	m := NewManager("secreto", time.Hour)
	_, err := m.Parse("no-es-un-jwt")
	assert.Error(t, err)
}
