package router

import (
	"net/http"
	"strconv"
	"strings"

	"carniceria/internal/dao"
	"carniceria/internal/middleware"
	"carniceria/internal/model"
	"carniceria/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type checkoutPayload struct {
	ClienteNombre       string `json:"cliente_nombre"`
	ClienteTelefono     string `json:"cliente_telefono"`
	ClienteEmail        string `json:"cliente_email"`
	ClienteDireccion    string `json:"cliente_direccion"`
	ClienteCiudad       string `json:"cliente_ciudad"`
	ClienteCodigoPostal string `json:"cliente_codigo_postal"`

	Productos  []service.CheckoutItem `json:"productos"`
	Total      decimal.Decimal        `json:"total"`
	MetodoPago string                 `json:"metodo_pago"`
	Notas      string                 `json:"notas"`

	FechaEntrega string `json:"fecha_entrega"`
	HoraEntrega  string `json:"hora_entrega"`
}

func checkout(d Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var payload checkoutPayload
		if err := c.ShouldBindJSON(&payload); err != nil {
			fail(c, service.ValidationError("cuerpo de la petición inválido"))
			return
		}
		req := service.CheckoutRequest{
			ClienteNombre:       payload.ClienteNombre,
			ClienteTelefono:     payload.ClienteTelefono,
			ClienteEmail:        payload.ClienteEmail,
			ClienteDireccion:    payload.ClienteDireccion,
			ClienteCiudad:       payload.ClienteCiudad,
			ClienteCodigoPostal: payload.ClienteCodigoPostal,
			Items:               payload.Productos,
			Total:               payload.Total,
			MetodoPago:          model.PaymentMethod(payload.MetodoPago),
			Notas:               payload.Notas,
			FechaEntrega:        payload.FechaEntrega,
			HoraEntrega:         payload.HoraEntrega,
		}
		req.ClienteID = optionalCustomerID(c, d)

		order, err := d.Orders.CreateOrder(c.Request.Context(), req)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{
			"success":     true,
			"pedido":      order,
			"items_count": len(order.Items),
		})
	}
}

// optionalCustomerID vincula el pedido a la cuenta si la petición lleva
// un token de cliente válido; el checkout de invitado sigue funcionando
// sin token.
func optionalCustomerID(c *gin.Context, d Deps) *uint {
	auth := c.GetHeader("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(auth, prefix) {
		return nil
	}
	claims, err := d.Tokens.Parse(strings.TrimPrefix(auth, prefix))
	if err != nil || claims.Rol != service.RolCliente {
		return nil
	}
	return &claims.UserID
}

// orderStatus es la consulta pública de seguimiento por código.
func orderStatus(d Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		order, err := d.Orders.GetByCode(c.Request.Context(), c.Param("codigo"))
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"pedido": gin.H{
				"codigo_pedido":  order.CodigoPedido,
				"estado":         order.Estado,
				"total":          order.Total,
				"metodo_pago":    order.MetodoPago,
				"pagado":         order.Pagado,
				"fecha_entrega":  order.FechaEntrega,
				"hora_entrega":   order.HoraEntrega,
				"created_at":     order.CreatedAt,
				"items":          order.Items,
				"cliente_nombre": order.ClienteNombre,
			},
		})
	}
}

func adminListOrders(d Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
		f := dao.ListFilter{
			Estado: model.OrderStatus(c.Query("estado")),
			Search: c.Query("buscar"),
			Page:   page,
			Limit:  limit,
		}
		if f.Estado != "" && !f.Estado.Valid() {
			fail(c, service.ValidationError("estado inválido"))
			return
		}
		orders, total, err := d.Orders.ListOrders(c.Request.Context(), f)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"pedidos": orders,
			"total":   total,
			"page":    f.Page,
			"limit":   f.Limit,
		})
	}
}

func adminGetOrder(d Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			fail(c, service.ValidationError("id inválido"))
			return
		}
		order, err := d.Orders.GetOrder(c.Request.Context(), uint(id))
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "pedido": order})
	}
}

func adminUpdateStatus(d Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			fail(c, service.ValidationError("id inválido"))
			return
		}
		var req struct {
			Estado string `json:"estado"`
			Nota   string `json:"nota"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			fail(c, service.ValidationError("cuerpo de la petición inválido"))
			return
		}
		var userID *uint
		if v, ok := c.Get(middleware.CtxUserID); ok {
			if uid, ok := v.(uint); ok {
				userID = &uid
			}
		}
		order, err := d.Orders.UpdateStatus(c.Request.Context(), uint(id), model.OrderStatus(req.Estado), req.Nota, userID)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "pedido": order})
	}
}

func adminDeleteOrder(d Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			fail(c, service.ValidationError("id inválido"))
			return
		}
		if err := d.Orders.DeleteOrder(c.Request.Context(), uint(id)); err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "pedido eliminado"})
	}
}

func adminOrderStats(d Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		stats, err := d.Orders.Stats(c.Request.Context())
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "stats": stats})
	}
}
