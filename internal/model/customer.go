package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Customer es un cliente de la tienda (checkout autenticado).
type Customer struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Nombre       string `gorm:"size:100;not null" json:"nombre"`
	Email        string `gorm:"size:100;uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"size:100;not null" json:"-"`
	Telefono     string `gorm:"size:20" json:"telefono,omitempty"`
	Direccion    string `gorm:"type:text" json:"direccion,omitempty"`
	Ciudad       string `gorm:"size:50" json:"ciudad,omitempty"`
	CodigoPostal string `gorm:"size:10" json:"codigo_postal,omitempty"`

	TotalPedidos int             `gorm:"not null;default:0" json:"total_pedidos"`
	TotalGastado decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"total_gastado"`

	Activo bool `gorm:"not null;default:true" json:"activo"`
}

func (Customer) TableName() string { return "clientes" }
