package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderItem es una línea de pedido. Cantidad es decimal porque hay
// productos que se venden al peso. El precio unitario es un snapshot:
// cambios posteriores del producto no alteran pedidos existentes.
type OrderItem struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	PedidoID   uint `gorm:"not null;index" json:"pedido_id"`
	ProductoID uint `gorm:"not null;index" json:"producto_id"`

	Cantidad       decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"cantidad"`
	PrecioUnitario decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"precio_unitario"`
	Subtotal       decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"subtotal"`
	Notas          string          `gorm:"size:255" json:"notas,omitempty"`

	Producto *Product `gorm:"foreignKey:ProductoID" json:"producto,omitempty"`
}

func (OrderItem) TableName() string { return "pedido_items" }

// StockUnits es la cantidad que se descuenta del stock: las fracciones
// (ventas al peso) redondean hacia arriba a unidades enteras.
func (i OrderItem) StockUnits() int {
	return int(i.Cantidad.Ceil().IntPart())
}
