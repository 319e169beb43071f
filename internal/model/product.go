package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product es un producto del catálogo. Stock nunca baja de cero: se
// descuenta solo al reservar en un pedido y se repone al cancelar.
type Product struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Nombre      string          `gorm:"size:100;not null" json:"nombre"`
	Descripcion string          `gorm:"type:text" json:"descripcion,omitempty"`
	Precio      decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"precio"`
	Categoria   string          `gorm:"size:50;not null;index" json:"categoria"`
	Unidad      string          `gorm:"size:20;not null" json:"unidad"` // kg, gr, unidad, paquete
	Imagen      string          `gorm:"size:255" json:"imagen,omitempty"`
	Destacado   bool            `gorm:"not null;default:false;index" json:"destacado"`

	Stock int `gorm:"not null;default:0" json:"stock"`
	// StockMinimo es el umbral de reposición, solo informativo.
	StockMinimo int `gorm:"not null;default:10" json:"stock_minimo"`

	Activo bool `gorm:"not null;default:true;index" json:"activo"`
}

func (Product) TableName() string { return "productos" }

// BajoStock indica si el producto está por debajo de su umbral.
func (p Product) BajoStock() bool {
	return p.Stock <= p.StockMinimo
}
