package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// BizumStatus es el estado de una referencia de pago Bizum.
type BizumStatus string

const (
	BizumPending   BizumStatus = "PENDING"
	BizumCompleted BizumStatus = "COMPLETED"
	BizumFailed    BizumStatus = "FAILED"
	BizumExpired   BizumStatus = "EXPIRED"
)

// Resolved indica si la referencia alcanzó un estado final.
func (s BizumStatus) Resolved() bool {
	return s == BizumCompleted || s == BizumFailed || s == BizumExpired
}

// BizumPayment registra una referencia de pago Bizum con su fecha de
// creación persistida: la expiración se calcula contra ese instante y
// un reloj inyectable, nunca parseando el identificador.
type BizumPayment struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	PaymentID string `gorm:"size:64;uniqueIndex;not null" json:"payment_id"`
	PedidoID  uint   `gorm:"not null;index" json:"pedido_id"`

	Telefono string          `gorm:"size:20;not null" json:"telefono"`
	Nombre   string          `gorm:"size:100;not null" json:"nombre"`
	Importe  decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"importe"`

	Estado     BizumStatus `gorm:"size:20;not null;default:PENDING;index" json:"estado"`
	ResueltoEn *time.Time  `json:"resuelto_en,omitempty"`
}

func (BizumPayment) TableName() string { return "pagos_bizum" }
