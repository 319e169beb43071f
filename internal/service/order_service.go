package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"carniceria/internal/dao"
	"carniceria/internal/model"
	"carniceria/internal/queue"
	"carniceria/pkg/logger"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// codeRetries acota los reintentos cuando dos checkouts concurrentes
// calculan la misma secuencia diaria y la restricción UNIQUE salta.
const codeRetries = 3

// OrderService implementa el ciclo de vida del pedido: checkout
// transaccional con reserva de stock, máquina de estados, borrado
// restringido y callbacks de pago.
type OrderService struct {
	db        *gorm.DB
	orders    *dao.OrderDao
	products  *dao.ProductDao
	customers *dao.CustomerDao
	events    *queue.Producer // opcional: nil desactiva la publicación

	now func() time.Time
}

func NewOrderService(db *gorm.DB, events *queue.Producer) *OrderService {
	return &OrderService{
		db:        db,
		orders:    dao.NewOrderDao(db),
		products:  dao.NewProductDao(db),
		customers: dao.NewCustomerDao(db),
		events:    events,
		now:       time.Now,
	}
}

// WithClock sustituye el reloj (tests).
func (s *OrderService) WithClock(now func() time.Time) *OrderService {
	s.now = now
	return s
}

// CheckoutItem es una línea del carrito.
type CheckoutItem struct {
	ProductoID     uint            `json:"producto_id"`
	Cantidad       decimal.Decimal `json:"cantidad"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario"`
	Notas          string          `json:"notas,omitempty"`
}

// CheckoutRequest es la petición de checkout, con los datos de contacto
// del cliente (autenticado o invitado) copiados al pedido.
type CheckoutRequest struct {
	ClienteID           *uint
	ClienteNombre       string
	ClienteTelefono     string
	ClienteEmail        string
	ClienteDireccion    string
	ClienteCiudad       string
	ClienteCodigoPostal string

	Items      []CheckoutItem
	Total      decimal.Decimal
	MetodoPago model.PaymentMethod
	Notas      string

	FechaEntrega string
	HoraEntrega  string
}

func (r *CheckoutRequest) validate() error {
	if strings.TrimSpace(r.ClienteNombre) == "" {
		return ValidationError("el nombre del cliente es obligatorio")
	}
	phone := NormalizePhone(r.ClienteTelefono)
	if phone == "" {
		return ValidationError("teléfono inválido: debe ser un móvil español de 9 dígitos")
	}
	r.ClienteTelefono = phone
	if r.ClienteEmail != "" && !ValidEmail(r.ClienteEmail) {
		return ValidationError("email inválido")
	}
	if strings.TrimSpace(r.ClienteDireccion) == "" || strings.TrimSpace(r.ClienteCiudad) == "" {
		return ValidationError("dirección y ciudad son obligatorias")
	}
	if !r.MetodoPago.Valid() {
		return ValidationError(fmt.Sprintf("método de pago inválido: %q", r.MetodoPago))
	}
	if len(r.Items) == 0 {
		return ValidationError("el carrito está vacío")
	}
	for _, it := range r.Items {
		if it.ProductoID == 0 {
			return ValidationError("producto_id es obligatorio en cada línea")
		}
		if !it.Cantidad.IsPositive() {
			return ValidationError("la cantidad debe ser mayor que 0")
		}
		if it.PrecioUnitario.IsNegative() {
			return ValidationError("el precio unitario no puede ser negativo")
		}
	}
	return nil
}

// CreateOrder ejecuta el checkout completo en una única transacción:
// código de pedido, inserción del pedido, reserva de stock y líneas.
// Cualquier fallo revierte todo; no quedan pedidos parciales.
func (s *OrderService) CreateOrder(ctx context.Context, req CheckoutRequest) (*model.Order, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	// La fecha del código se captura al inicio; un cambio de día durante
	// la transacción no la altera.
	date := s.now()

	var order *model.Order
	var err error
	for attempt := 0; attempt < codeRetries; attempt++ {
		order, err = s.tryCreate(ctx, req, date)
		if err == nil {
			break
		}
		if uniqueViolation(err) {
			logger.Warn("colisión de código de pedido, reintentando", "attempt", attempt+1)
			continue
		}
		return nil, err
	}
	if err != nil {
		if uniqueViolation(err) {
			return nil, ConflictError("no se pudo asignar un código de pedido único")
		}
		return nil, err
	}

	// Estadísticas del cliente y notificación son best-effort: no
	// deshacen un pedido ya comprometido.
	if req.ClienteID != nil {
		if err := s.customers.AddPurchase(ctx, *req.ClienteID, order.Total); err != nil {
			logger.Warn("no se pudieron actualizar las estadísticas del cliente",
				"cliente_id", *req.ClienteID, "err", err)
		}
	}
	s.publish(ctx, queue.EventOrderCreated, order)

	return order, nil
}

func (s *OrderService) tryCreate(ctx context.Context, req CheckoutRequest, date time.Time) (*model.Order, error) {
	var created *model.Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		orders := s.orders.WithTx(tx)
		products := s.products.WithTx(tx)

		code, err := orders.NextCode(ctx, date)
		if err != nil {
			return err
		}

		order := &model.Order{
			CodigoPedido:        code,
			ClienteNombre:       req.ClienteNombre,
			ClienteTelefono:     req.ClienteTelefono,
			ClienteEmail:        req.ClienteEmail,
			ClienteDireccion:    req.ClienteDireccion,
			ClienteCiudad:       req.ClienteCiudad,
			ClienteCodigoPostal: req.ClienteCodigoPostal,
			Estado:              model.InitialStatus(req.MetodoPago),
			MetodoPago:          req.MetodoPago,
			Notas:               req.Notas,
			ClienteID:           req.ClienteID,
			FechaEntrega:        req.FechaEntrega,
			HoraEntrega:         req.HoraEntrega,
		}
		if err := orders.Create(ctx, order); err != nil {
			return err
		}

		sum := decimal.Zero
		for _, it := range req.Items {
			prod, err := products.GetByID(ctx, it.ProductoID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return NotFoundError(fmt.Sprintf("producto %d", it.ProductoID))
				}
				return err
			}
			if !prod.Activo {
				return ConflictError(fmt.Sprintf("producto no disponible: %s", prod.Nombre))
			}

			// Precio snapshot: el enviado por el cliente o, si falta, el
			// vigente del catálogo.
			price := it.PrecioUnitario
			if price.IsZero() {
				price = prod.Precio
			}
			subtotal := it.Cantidad.Mul(price).Round(2)

			item := model.OrderItem{
				PedidoID:       order.ID,
				ProductoID:     prod.ID,
				Cantidad:       it.Cantidad,
				PrecioUnitario: price,
				Subtotal:       subtotal,
				Notas:          it.Notas,
			}
			if err := products.ReserveStock(ctx, prod.ID, item.StockUnits()); err != nil {
				if errors.Is(err, dao.ErrInsufficientStock) {
					return ConflictError(fmt.Sprintf("stock insuficiente para: %s", prod.Nombre))
				}
				return err
			}
			if err := orders.CreateItem(ctx, &item); err != nil {
				return err
			}
			order.Items = append(order.Items, item)
			sum = sum.Add(subtotal)
		}

		// El total declarado debe cuadrar con la suma de subtotales.
		if !req.Total.IsZero() && !req.Total.Equal(sum) {
			return ValidationError(fmt.Sprintf(
				"el total %s no coincide con la suma de los items (%s)",
				req.Total.StringFixed(2), sum.StringFixed(2)))
		}
		order.Total = sum
		if err := tx.Model(order).UpdateColumn("total", sum).Error; err != nil {
			return err
		}

		created = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// UpdateStatus aplica una transición de la máquina de estados. userID
// registra al empleado que la ejecuta; adminNote se anexa a las notas.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID uint, target model.OrderStatus, adminNote string, userID *uint) (*model.Order, error) {
	if !target.Valid() {
		return nil, ValidationError(fmt.Sprintf(
			"estado desconocido: %q; estados reconocidos: %s", target, statusList(model.AllStatuses)))
	}

	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundError("pedido")
		}
		return nil, err
	}

	prev := order.Estado
	if !prev.CanTransitionTo(target) {
		return nil, ConflictError(fmt.Sprintf(
			"transición inválida %s -> %s; desde %s solo se permite: %s",
			prev, target, prev, statusList(prev.AllowedNext())))
	}

	updates := map[string]any{}
	if adminNote != "" {
		notas := order.Notas
		if notas != "" {
			notas += "\n"
		}
		updates["notas"] = notas + "[Admin]: " + adminNote
	}
	if userID != nil {
		updates["usuario_id"] = *userID
	}

	if err := s.orders.UpdateStatus(ctx, orderID, prev, target, updates); err != nil {
		if errors.Is(err, dao.ErrOrderStatusChanged) {
			return nil, ConflictError("el pedido fue modificado por otra operación, recarga e inténtalo de nuevo")
		}
		return nil, err
	}

	// La reposición de stock ocurre exactamente una vez: el UPDATE
	// condicionado garantiza que solo una petición pasa de un estado no
	// cancelado a cancelado. Un fallo al reponer no bloquea la
	// cancelación; se deja constancia en el log.
	if target == model.StatusCancelado {
		s.restoreStock(ctx, order)
	}

	order, err = s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, queue.EventOrderStatusChanged, order)
	return order, nil
}

func (s *OrderService) restoreStock(ctx context.Context, order *model.Order) {
	for _, item := range order.Items {
		if err := s.products.RestoreStock(ctx, item.ProductoID, item.StockUnits()); err != nil {
			logger.Error("fallo al reponer stock tras cancelación",
				"codigo", order.CodigoPedido,
				"producto_id", item.ProductoID,
				"cantidad", item.StockUnits(),
				"err", err)
		}
	}
}

// DeleteOrder elimina físicamente un pedido. Solo se permite antes de
// empezar a procesarlo: pendiente, pendiente_pago o cancelado.
func (s *OrderService) DeleteOrder(ctx context.Context, orderID uint) error {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return NotFoundError("pedido")
		}
		return err
	}
	if !order.Estado.Deletable() {
		return ConflictError(fmt.Sprintf(
			"solo se pueden eliminar pedidos en estado: %s, %s, %s",
			model.StatusPendiente, model.StatusCancelado, model.StatusPendientePago))
	}
	return s.orders.Delete(ctx, orderID)
}

// HandlePaymentSucceeded confirma el pedido asociado a una referencia
// de pago externa. Idempotente: la segunda llamada no reescribe nada.
func (s *OrderService) HandlePaymentSucceeded(ctx context.Context, paymentID string) error {
	first, err := s.orders.MarkPaid(ctx, paymentID, s.now())
	if err != nil {
		return err
	}
	if !first {
		// O bien ya estaba confirmado (reintento del gateway) o la
		// referencia no existe.
		if _, err := s.orders.GetByPaymentID(ctx, paymentID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return NotFoundError("pago " + paymentID)
			}
			return err
		}
		logger.Debug("pago ya confirmado, callback duplicado ignorado", "payment_id", paymentID)
		return nil
	}

	if order, err := s.orders.GetByPaymentID(ctx, paymentID); err == nil {
		logger.Info("pago confirmado", "codigo", order.CodigoPedido, "payment_id", paymentID)
		s.publish(ctx, queue.EventOrderPaid, order)
	}
	return nil
}

// HandlePaymentFailed registra el fallo. Un pedido pendiente pasa a
// cancelado con nota y stock repuesto; un pedido pendiente_pago (Bizum)
// se queda a la espera de un nuevo intento.
func (s *OrderService) HandlePaymentFailed(ctx context.Context, paymentID, reason string) error {
	order, err := s.orders.GetByPaymentID(ctx, paymentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return NotFoundError("pago " + paymentID)
		}
		return err
	}
	if reason == "" {
		reason = "razón desconocida"
	}

	switch order.Estado {
	case model.StatusPendiente:
		notas := order.Notas
		if notas != "" {
			notas += "\n"
		}
		err := s.orders.UpdateStatus(ctx, order.ID, order.Estado, model.StatusCancelado, map[string]any{
			"notas":          notas + "Pago fallido: " + reason,
			"payment_status": model.PaymentStatusFailed,
		})
		if err != nil {
			if errors.Is(err, dao.ErrOrderStatusChanged) {
				return nil // otra operación ya movió el pedido
			}
			return err
		}
		s.restoreStock(ctx, order)
	case model.StatusPendientePago:
		if err := s.db.WithContext(ctx).Model(order).
			UpdateColumn("payment_status", model.PaymentStatusFailed).Error; err != nil {
			return err
		}
	default:
		logger.Debug("callback de pago fallido sobre pedido ya procesado",
			"codigo", order.CodigoPedido, "estado", order.Estado)
	}
	return nil
}

// AttachPayment asocia una referencia de pago externa al pedido y lo
// deja esperando confirmación (pendiente_pago).
func (s *OrderService) AttachPayment(ctx context.Context, orderID uint, paymentID, telefono string) error {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return NotFoundError("pedido")
		}
		return err
	}
	if order.Estado != model.StatusPendiente && order.Estado != model.StatusPendientePago {
		return ConflictError(fmt.Sprintf("el pedido en estado %s no admite pago", order.Estado))
	}
	return s.orders.UpdateStatus(ctx, orderID, order.Estado, model.StatusPendientePago, map[string]any{
		"metodo_pago":    model.PagoBizum,
		"telefono_bizum": telefono,
		"payment_id":     paymentID,
		"payment_status": model.PaymentStatusPendingBizum,
	})
}

func (s *OrderService) GetOrder(ctx context.Context, id uint) (*model.Order, error) {
	order, err := s.orders.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundError("pedido")
		}
		return nil, err
	}
	return order, nil
}

func (s *OrderService) GetByCode(ctx context.Context, code string) (*model.Order, error) {
	order, err := s.orders.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundError("pedido " + code)
		}
		return nil, err
	}
	return order, nil
}

func (s *OrderService) ListOrders(ctx context.Context, f dao.ListFilter) ([]model.Order, int64, error) {
	if f.Estado != "" && !f.Estado.Valid() {
		return nil, 0, ValidationError(fmt.Sprintf("estado desconocido: %q", f.Estado))
	}
	return s.orders.List(ctx, f)
}

// OrderStats agrega los totales por estado más los globales.
type OrderStats struct {
	PorEstado    []dao.StatusCount `json:"por_estado"`
	TotalPedidos int64             `json:"total_pedidos"`
	Ingresos     float64           `json:"ingresos"`
}

// Stats calcula el resumen de ventas. Los ingresos solo cuentan pedidos
// confirmados o posteriores, nunca cancelados ni pendientes de pago.
func (s *OrderService) Stats(ctx context.Context) (*OrderStats, error) {
	porEstado, err := s.orders.Stats(ctx)
	if err != nil {
		return nil, err
	}
	out := &OrderStats{PorEstado: porEstado}
	for _, st := range porEstado {
		out.TotalPedidos += st.Count
		switch st.Estado {
		case model.StatusConfirmado, model.StatusPreparando, model.StatusEnviado, model.StatusEntregado:
			out.Ingresos += st.Total
		}
	}
	return out, nil
}

func (s *OrderService) publish(ctx context.Context, eventType string, order *model.Order) {
	if s.events == nil {
		return
	}
	evt := queue.OrderEvent{
		EventID:      uuid.New().String(),
		Type:         eventType,
		CodigoPedido: order.CodigoPedido,
		Estado:       string(order.Estado),
		Cliente:      order.ClienteNombre,
		Telefono:     order.ClienteTelefono,
		Email:        order.ClienteEmail,
		Total:        order.Total.StringFixed(2),
		OccurredAt:   s.now().Unix(),
	}
	if err := s.events.Publish(ctx, evt); err != nil {
		logger.Warn("no se pudo publicar el evento de pedido",
			"type", eventType, "codigo", order.CodigoPedido, "err", err)
	}
}

func statusList(list []model.OrderStatus) string {
	parts := make([]string, len(list))
	for i, s := range list {
		parts[i] = string(s)
	}
	return strings.Join(parts, ", ")
}

// uniqueViolation detecta conflictos de índice único de forma portable
// entre drivers (sqlite y mysql reportan mensajes distintos).
func uniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "unique") || strings.Contains(s, "duplicate")
}
