// Package router registra las rutas HTTP y traduce los errores del
// núcleo a códigos de estado.
package router

import (
	"errors"
	"net/http"

	"carniceria/internal/config"
	"carniceria/internal/middleware"
	"carniceria/internal/model"
	"carniceria/internal/service"
	"carniceria/pkg/token"

	"github.com/gin-gonic/gin"
	rd "github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Deps agrupa las dependencias que usan los handlers.
type Deps struct {
	DB       *gorm.DB
	RDB      *rd.Client
	Orders   *service.OrderService
	Payments *service.PaymentService
	Auth     *service.AuthService
	Tokens   *token.Manager
	Cfg      config.AppConfig
}

// Setup registra todas las rutas.
func Setup(r *gin.Engine, d Deps) {
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"msg": "pong"})
	})

	rateLimit := middleware.RedisRateLimit(d.RDB, "checkout", d.Cfg.CheckoutRateLimit, d.Cfg.CheckoutRateWindow)

	// Tienda
	r.GET("/api/productos", listProducts(d))
	r.GET("/api/productos/:id", getProduct(d))
	r.POST("/api/pedidos", rateLimit, checkout(d))
	r.GET("/api/pedidos/:codigo", orderStatus(d))

	// Pagos
	r.POST("/api/bizum/create-payment", rateLimit, bizumCreate(d))
	r.GET("/api/bizum/check-status/:payment_id", bizumStatus(d))
	r.POST("/api/payments/webhook", paymentWebhook(d))

	// Autenticación
	r.POST("/api/auth/register", customerRegister(d))
	r.POST("/api/auth/login", customerLogin(d))
	r.POST("/api/admin/login", adminLogin(d))

	// Back-office: empleados y admins
	staff := r.Group("/api/admin", middleware.JWTAuth(d.Tokens, model.RolAdmin, model.RolEmpleado))
	{
		staff.GET("/pedidos", adminListOrders(d))
		staff.GET("/pedidos/stats", adminOrderStats(d))
		staff.GET("/pedidos/:id", adminGetOrder(d))
		staff.PUT("/pedidos/:id/estado", adminUpdateStatus(d))
		staff.POST("/productos", adminCreateProduct(d))
		staff.PUT("/productos/:id", adminUpdateProduct(d))
		staff.PUT("/productos/:id/stock", adminSetStock(d))
	}

	// Solo admin: borrado físico de pedidos
	admin := r.Group("/api/admin", middleware.JWTAuth(d.Tokens, model.RolAdmin))
	{
		admin.DELETE("/pedidos/:id", adminDeleteOrder(d))
	}
}

// fail traduce la taxonomía de errores del servicio a HTTP.
func fail(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		status = http.StatusUnauthorized
	case service.IsValidation(err):
		status = http.StatusBadRequest
	case service.IsNotFound(err):
		status = http.StatusNotFound
	case service.IsConflict(err):
		status = http.StatusConflict
	}
	c.JSON(status, gin.H{"success": false, "message": err.Error()})
}
