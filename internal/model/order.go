package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order es un pedido. Los datos del cliente se copian en el momento del
// pedido (snapshot): editar el perfil después no cambia pedidos pasados.
type Order struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	CodigoPedido string `gorm:"size:20;uniqueIndex;not null" json:"codigo_pedido"`

	ClienteNombre       string `gorm:"size:100;not null" json:"cliente_nombre"`
	ClienteTelefono     string `gorm:"size:20;not null" json:"cliente_telefono"`
	ClienteEmail        string `gorm:"size:100" json:"cliente_email,omitempty"`
	ClienteDireccion    string `gorm:"type:text;not null" json:"cliente_direccion"`
	ClienteCiudad       string `gorm:"size:50;not null" json:"cliente_ciudad"`
	ClienteCodigoPostal string `gorm:"size:10" json:"cliente_codigo_postal,omitempty"`

	Total      decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"total"`
	Estado     OrderStatus     `gorm:"size:20;not null;default:pendiente;index" json:"estado"`
	MetodoPago PaymentMethod   `gorm:"size:20;not null" json:"metodo_pago"`
	Notas      string          `gorm:"type:text" json:"notas,omitempty"`

	// ClienteID es nulo en pedidos de invitado; UsuarioID registra el
	// último empleado que procesó el pedido.
	ClienteID *uint `gorm:"index" json:"cliente_id,omitempty"`
	UsuarioID *uint `gorm:"index" json:"usuario_id,omitempty"`

	// Referencia de pago externa (Stripe o Bizum simulado).
	PaymentID     string     `gorm:"size:100;index" json:"payment_id,omitempty"`
	PaymentStatus string     `gorm:"size:50;index" json:"payment_status,omitempty"`
	TelefonoBizum string     `gorm:"size:20" json:"telefono_bizum,omitempty"`
	Pagado        bool       `gorm:"not null;default:false;index" json:"pagado"`
	FechaPago     *time.Time `json:"fecha_pago,omitempty"`

	FechaEntrega string `gorm:"size:10" json:"fecha_entrega,omitempty"` // YYYY-MM-DD
	HoraEntrega  string `gorm:"size:5" json:"hora_entrega,omitempty"`   // HH:MM

	NotificacionEnviada bool `gorm:"not null;default:false" json:"notificacion_enviada"`

	Items []OrderItem `gorm:"foreignKey:PedidoID" json:"items,omitempty"`
}

func (Order) TableName() string { return "pedidos" }
