package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"carniceria/internal/dao"
	"carniceria/internal/model"
	"carniceria/pkg/logger"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const bizumPrefix = "BIZ-"

// Límites de importe del pago Bizum, en euros.
var (
	bizumMinAmount = decimal.NewFromFloat(0.50)
	bizumMaxAmount = decimal.NewFromInt(1000)
)

// PaymentService simula la pasarela Bizum: crea referencias de pago y
// resuelve su estado mediante sondeo del cliente. El paso del tiempo y
// el desenlace simulado son inyectables para poder testearlo.
type PaymentService struct {
	bizum  *dao.BizumDao
	orders *OrderService

	expiry       time.Duration // ventana total antes de EXPIRED
	confirmDelay time.Duration // retardo hasta que el pago se resuelve

	now     func() time.Time
	outcome func() model.BizumStatus // COMPLETED o FAILED tras el retardo
}

func NewPaymentService(db *gorm.DB, orders *OrderService, expiry, confirmDelay time.Duration) *PaymentService {
	return &PaymentService{
		bizum:        dao.NewBizumDao(db),
		orders:       orders,
		expiry:       expiry,
		confirmDelay: confirmDelay,
		now:          time.Now,
		outcome:      defaultOutcome,
	}
}

// defaultOutcome simula la pasarela: la mayoría de los
// pagos se confirman, una parte se rechaza.
func defaultOutcome() model.BizumStatus {
	if rand.Float64() > 0.2 {
		return model.BizumCompleted
	}
	return model.BizumFailed
}

// WithClock sustituye el reloj (tests).
func (s *PaymentService) WithClock(now func() time.Time) *PaymentService {
	s.now = now
	return s
}

// WithOutcome sustituye el desenlace simulado (tests).
func (s *PaymentService) WithOutcome(outcome func() model.BizumStatus) *PaymentService {
	s.outcome = outcome
	return s
}

// BizumRequest son los datos que envía el cliente para iniciar el pago.
type BizumRequest struct {
	Telefono     string          `json:"phone"`
	Importe      decimal.Decimal `json:"amount"`
	Nombre       string          `json:"customer_name"`
	CodigoPedido string          `json:"order_code"`
}

// BizumResponse es la respuesta al iniciar un pago.
type BizumResponse struct {
	PaymentID       string          `json:"payment_id"`
	Status          string          `json:"status"`
	Telefono        string          `json:"phone"`
	Importe         decimal.Decimal `json:"amount"`
	CodigoPedido    string          `json:"order_code"`
	ExpirySeconds   int             `json:"expiry_window_seconds"`
	CheckIntervalMS int             `json:"check_interval_ms"`
	Instructions    string          `json:"instructions"`
}

// CreatePayment valida al pagador, genera la referencia y deja el
// pedido en pendiente_pago con la referencia asociada.
func (s *PaymentService) CreatePayment(ctx context.Context, req BizumRequest) (*BizumResponse, error) {
	if strings.TrimSpace(req.Nombre) == "" {
		return nil, ValidationError("faltan datos requeridos: teléfono, monto o nombre")
	}
	phone := NormalizePhone(req.Telefono)
	if phone == "" {
		return nil, ValidationError("teléfono inválido: debe ser un móvil español de 9 dígitos (ej: 612345678)")
	}
	if req.Importe.LessThan(bizumMinAmount) || req.Importe.GreaterThan(bizumMaxAmount) {
		return nil, ValidationError("monto inválido: debe estar entre 0.50€ y 1000€")
	}
	if req.CodigoPedido == "" {
		return nil, ValidationError("order_code es obligatorio")
	}

	order, err := s.orders.GetByCode(ctx, req.CodigoPedido)
	if err != nil {
		return nil, err
	}

	paymentID := newBizumID(s.now())
	payment := &model.BizumPayment{
		CreatedAt: s.now(),
		PaymentID: paymentID,
		PedidoID:  order.ID,
		Telefono:  phone,
		Nombre:    strings.TrimSpace(req.Nombre),
		Importe:   req.Importe,
		Estado:    model.BizumPending,
	}
	if err := s.bizum.Create(ctx, payment); err != nil {
		return nil, err
	}
	if err := s.orders.AttachPayment(ctx, order.ID, paymentID, phone); err != nil {
		return nil, err
	}

	logger.Info("pago bizum iniciado", "payment_id", paymentID, "codigo", order.CodigoPedido)

	return &BizumResponse{
		PaymentID:       paymentID,
		Status:          string(model.BizumPending),
		Telefono:        "+34" + phone,
		Importe:         req.Importe,
		CodigoPedido:    order.CodigoPedido,
		ExpirySeconds:   int(s.expiry.Seconds()),
		CheckIntervalMS: 5000,
		Instructions:    "1. Abre la app Bizum en tu móvil\n2. Busca la notificación de pago\n3. Confirma la operación",
	}, nil
}

// StatusResult es la respuesta del sondeo de estado.
type StatusResult struct {
	PaymentID string            `json:"payment_id"`
	Status    model.BizumStatus `json:"status"`
	Message   string            `json:"message"`
	NextCheck *int              `json:"next_check_ms,omitempty"`
}

// CheckStatus resuelve el estado actual de la referencia. Una vez
// resuelta, las consultas posteriores devuelven el estado almacenado
// sin reaplicar efectos. simulate fuerza un desenlace (solo pruebas
// manuales desde el frontend).
func (s *PaymentService) CheckStatus(ctx context.Context, paymentID, simulate string) (*StatusResult, error) {
	if !strings.HasPrefix(paymentID, bizumPrefix) {
		return nil, ValidationError("ID de pago Bizum inválido")
	}

	payment, err := s.bizum.GetByPaymentID(ctx, paymentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundError("pago " + paymentID)
		}
		return nil, err
	}

	if payment.Estado.Resolved() {
		return s.result(payment.Estado, paymentID), nil
	}

	target := model.BizumPending
	if simulate != "" {
		target = model.BizumStatus(strings.ToUpper(simulate))
		switch target {
		case model.BizumPending, model.BizumCompleted, model.BizumFailed, model.BizumExpired:
		default:
			return nil, ValidationError(fmt.Sprintf("estado simulado desconocido: %q", simulate))
		}
	} else {
		elapsed := s.now().Sub(payment.CreatedAt)
		switch {
		case elapsed > s.expiry:
			target = model.BizumExpired
		case elapsed > s.confirmDelay:
			target = s.outcome()
		}
	}

	if target == model.BizumPending {
		return s.result(model.BizumPending, paymentID), nil
	}

	// Primero el efecto sobre el pedido, después el cierre de la
	// referencia: si la confirmación falla, la referencia sigue PENDING
	// y el siguiente sondeo reintenta.
	if target == model.BizumCompleted {
		if err := s.orders.HandlePaymentSucceeded(ctx, paymentID); err != nil {
			return nil, err
		}
	}
	if target == model.BizumFailed {
		if err := s.orders.HandlePaymentFailed(ctx, paymentID, "pago rechazado en Bizum"); err != nil {
			return nil, err
		}
	}

	first, err := s.bizum.Resolve(ctx, paymentID, target, s.now())
	if err != nil {
		return nil, err
	}
	if !first {
		// Otra petición resolvió la referencia; devolvemos lo almacenado.
		payment, err = s.bizum.GetByPaymentID(ctx, paymentID)
		if err != nil {
			return nil, err
		}
		return s.result(payment.Estado, paymentID), nil
	}

	logger.Info("pago bizum resuelto", "payment_id", paymentID, "estado", target)
	return s.result(target, paymentID), nil
}

func (s *PaymentService) result(status model.BizumStatus, paymentID string) *StatusResult {
	res := &StatusResult{
		PaymentID: paymentID,
		Status:    status,
		Message:   bizumMessage(status),
	}
	if status == model.BizumPending {
		interval := 5000
		res.NextCheck = &interval
	}
	return res
}

func bizumMessage(status model.BizumStatus) string {
	switch status {
	case model.BizumPending:
		return "Esperando confirmación en tu móvil. Abre la app Bizum para completar el pago."
	case model.BizumCompleted:
		return "¡Pago confirmado correctamente! Tu pedido está siendo procesado."
	case model.BizumFailed:
		return "El pago ha sido rechazado. Por favor, intenta con otro método."
	case model.BizumExpired:
		return "El tiempo para completar el pago ha expirado. Por favor, inicia un nuevo pago."
	}
	return "Estado desconocido. Contacta con soporte."
}

// newBizumID genera una referencia legible: marca de tiempo en base 36
// más un fragmento aleatorio. La expiración NO se deriva del id.
func newBizumID(now time.Time) string {
	ts := strconv.FormatInt(now.UnixMilli(), 36)
	frag := strings.Split(uuid.New().String(), "-")[0]
	return strings.ToUpper(bizumPrefix + ts + "-" + frag)
}
