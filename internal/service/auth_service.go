package service

import (
	"context"
	"errors"
	"strings"

	"carniceria/internal/dao"
	"carniceria/internal/model"
	"carniceria/pkg/token"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Rol de sesión para clientes de la tienda (los empleados usan los
// roles de model.User).
const RolCliente = "cliente"

// HashPassword y CheckPassword son funciones puras llamadas en el borde
// del servicio, nunca hooks del ORM: el hash se calcula antes de tocar
// la base de datos.
func HashPassword(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// AuthService autentica usuarios del panel y clientes de la tienda.
type AuthService struct {
	users     *dao.UserDao
	customers *dao.CustomerDao
	tokens    *token.Manager
}

func NewAuthService(db *gorm.DB, tokens *token.Manager) *AuthService {
	return &AuthService{
		users:     dao.NewUserDao(db),
		customers: dao.NewCustomerDao(db),
		tokens:    tokens,
	}
}

// AdminLogin valida credenciales de empleado/admin y emite un token.
func (s *AuthService) AdminLogin(ctx context.Context, email, password string) (string, *model.User, error) {
	user, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}
	if !CheckPassword(user.PasswordHash, password) {
		return "", nil, ErrInvalidCredentials
	}
	tok, err := s.tokens.Generate(user.ID, user.Email, user.Rol)
	if err != nil {
		return "", nil, err
	}
	return tok, user, nil
}

// CustomerRegisterRequest son los datos de alta de un cliente.
type CustomerRegisterRequest struct {
	Nombre       string `json:"nombre"`
	Email        string `json:"email"`
	Password     string `json:"password"`
	Telefono     string `json:"telefono"`
	Direccion    string `json:"direccion"`
	Ciudad       string `json:"ciudad"`
	CodigoPostal string `json:"codigo_postal"`
}

// RegisterCustomer da de alta un cliente con la contraseña hasheada en
// el borde del servicio.
func (s *AuthService) RegisterCustomer(ctx context.Context, req CustomerRegisterRequest) (*model.Customer, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if strings.TrimSpace(req.Nombre) == "" {
		return nil, ValidationError("el nombre es obligatorio")
	}
	if !ValidEmail(req.Email) {
		return nil, ValidationError("email inválido")
	}
	if !ValidPassword(req.Password) {
		return nil, ValidationError("la contraseña debe tener al menos 6 caracteres y un número")
	}
	if req.Telefono != "" {
		phone := NormalizePhone(req.Telefono)
		if phone == "" {
			return nil, ValidationError("teléfono inválido")
		}
		req.Telefono = phone
	}

	hash, err := HashPassword(req.Password)
	if err != nil {
		return nil, err
	}
	customer := &model.Customer{
		Nombre:       strings.TrimSpace(req.Nombre),
		Email:        req.Email,
		PasswordHash: hash,
		Telefono:     req.Telefono,
		Direccion:    req.Direccion,
		Ciudad:       req.Ciudad,
		CodigoPostal: req.CodigoPostal,
		Activo:       true,
	}
	if err := s.customers.Create(ctx, customer); err != nil {
		if uniqueViolation(err) {
			return nil, ConflictError("ya existe una cuenta con ese email")
		}
		return nil, err
	}
	return customer, nil
}

// CustomerLogin valida credenciales de cliente y emite un token.
func (s *AuthService) CustomerLogin(ctx context.Context, email, password string) (string, *model.Customer, error) {
	customer, err := s.customers.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}
	if !customer.Activo || !CheckPassword(customer.PasswordHash, password) {
		return "", nil, ErrInvalidCredentials
	}
	tok, err := s.tokens.Generate(customer.ID, customer.Email, RolCliente)
	if err != nil {
		return "", nil, err
	}
	return tok, customer, nil
}

// EnsureAdmin crea el usuario administrador inicial si no existe
// ninguno con ese email (arranque de la aplicación).
func (s *AuthService) EnsureAdmin(ctx context.Context, nombre, email, password string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	hash, err := HashPassword(password)
	if err != nil {
		return err
	}
	return s.users.Create(ctx, &model.User{
		Nombre:       nombre,
		Email:        email,
		PasswordHash: hash,
		Rol:          model.RolAdmin,
		Activo:       true,
	})
}
