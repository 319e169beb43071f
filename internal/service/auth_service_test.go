package service

import (
	"context"
	"testing"
	"time"

	"carniceria/internal/model"
	"carniceria/pkg/token"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newAuthService(t *testing.T, db *gorm.DB) *AuthService {
	t.Helper()
	return NewAuthService(db, token.NewManager("secreto-de-test", time.Hour))
}

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("carne123")
	require.NoError(t, err)
	assert.NotEqual(t, "carne123", hash)
	assert.True(t, CheckPassword(hash, "carne123"))
	assert.False(t, CheckPassword(hash, "otra"))
}

func TestRegisterAndLoginCustomer(t *testing.T) {
	db := testDB(t)
	auth := newAuthService(t, db)

	customer, err := auth.RegisterCustomer(context.Background(), CustomerRegisterRequest{
		Nombre:   "María García",
		Email:    "Maria@Example.com",
		Password: "carne123",
		Telefono: "612 345 678",
	})
	require.NoError(t, err)
	assert.Equal(t, "maria@example.com", customer.Email)
	assert.Equal(t, "612345678", customer.Telefono)
	assert.NotEqual(t, "carne123", customer.PasswordHash)

	tok, got, err := auth.CustomerLogin(context.Background(), "maria@example.com", "carne123")
	require.NoError(t, err)
	assert.NotEmpty(t, tok)
	assert.Equal(t, customer.ID, got.ID)

	_, _, err = auth.CustomerLogin(context.Background(), "maria@example.com", "incorrecta")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, _, err = auth.CustomerLogin(context.Background(), "nadie@example.com", "carne123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRegisterCustomerValidation(t *testing.T) {
	db := testDB(t)
	auth := newAuthService(t, db)

	cases := map[string]CustomerRegisterRequest{
		"sin nombre":      {Email: "a@b.com", Password: "carne123"},
		"email inválido":  {Nombre: "María", Email: "no-email", Password: "carne123"},
		"contraseña corta": {Nombre: "María", Email: "a@b.com", Password: "ab1"},
		"sin número":      {Nombre: "María", Email: "a@b.com", Password: "soloLetras"},
		"teléfono malo":   {Nombre: "María", Email: "a@b.com", Password: "carne123", Telefono: "12345"},
	}
	for name, req := range cases {
		_, err := auth.RegisterCustomer(context.Background(), req)
		require.Error(t, err, name)
		assert.True(t, IsValidation(err), name)
	}
}

func TestRegisterCustomerDuplicateEmail(t *testing.T) {
	db := testDB(t)
	auth := newAuthService(t, db)

	req := CustomerRegisterRequest{Nombre: "María", Email: "maria@example.com", Password: "carne123"}
	_, err := auth.RegisterCustomer(context.Background(), req)
	require.NoError(t, err)

	_, err = auth.RegisterCustomer(context.Background(), req)
	require.Error(t, err)
	assert.True(t, IsConflict(err))
}

func TestCustomerLoginInactive(t *testing.T) {
	db := testDB(t)
	auth := newAuthService(t, db)

	customer, err := auth.RegisterCustomer(context.Background(), CustomerRegisterRequest{
		Nombre: "María", Email: "maria@example.com", Password: "carne123",
	})
	require.NoError(t, err)
	require.NoError(t, db.Model(customer).Update("activo", false).Error)

	_, _, err = auth.CustomerLogin(context.Background(), "maria@example.com", "carne123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestEnsureAdminAndLogin(t *testing.T) {
	db := testDB(t)
	auth := newAuthService(t, db)

	require.NoError(t, auth.EnsureAdmin(context.Background(), "Jefe", "admin@carniceria.es", "admin123"))
	// Idempotente: el segundo arranque no duplica ni rompe.
	require.NoError(t, auth.EnsureAdmin(context.Background(), "Jefe", "admin@carniceria.es", "otra456"))

	var count int64
	require.NoError(t, db.Model(&model.User{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	tok, user, err := auth.AdminLogin(context.Background(), "Admin@Carniceria.es", "admin123")
	require.NoError(t, err)
	assert.NotEmpty(t, tok)
	assert.Equal(t, model.RolAdmin, user.Rol)
	assert.True(t, user.EsAdmin())

	_, _, err = auth.AdminLogin(context.Background(), "admin@carniceria.es", "otra456")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
