package model

import "time"

// Roles de usuario de back-office.
const (
	RolAdmin    = "admin"
	RolEmpleado = "empleado"
)

// User es un usuario del panel de administración.
type User struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Nombre       string `gorm:"size:100;not null" json:"nombre"`
	Email        string `gorm:"size:100;uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"size:100;not null" json:"-"`
	Rol          string `gorm:"size:20;not null;default:empleado" json:"rol"`
	Activo       bool   `gorm:"not null;default:true" json:"activo"`
}

func (User) TableName() string { return "usuarios" }

func (u User) EsAdmin() bool { return u.Rol == RolAdmin }
