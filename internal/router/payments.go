package router

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"

	"carniceria/internal/service"
	"carniceria/pkg/logger"

	"github.com/gin-gonic/gin"
)

func bizumCreate(d Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req service.BizumRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			fail(c, service.ValidationError("cuerpo de la petición inválido"))
			return
		}
		resp, err := d.Payments.CreatePayment(c.Request.Context(), req)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "payment": resp})
	}
}

func bizumStatus(d Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		res, err := d.Payments.CheckStatus(c.Request.Context(), c.Param("payment_id"), c.Query("simulate"))
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, res)
	}
}

// webhookEvent es la notificación que envía la pasarela de tarjetas.
type webhookEvent struct {
	Type      string `json:"type"`
	PaymentID string `json:"payment_id"`
	Reason    string `json:"reason"`
}

// paymentWebhook procesa confirmaciones de la pasarela externa. La
// firma es HMAC-SHA256 del cuerpo con el secreto compartido; sin
// secreto configurado el endpoint queda deshabilitado.
func paymentWebhook(d Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		if d.Cfg.WebhookSecret == "" {
			c.JSON(http.StatusServiceUnavailable, gin.H{"success": false, "message": "webhook no configurado"})
			return
		}
		body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, 1<<20))
		if err != nil {
			fail(c, service.ValidationError("no se pudo leer el cuerpo"))
			return
		}
		mac := hmac.New(sha256.New, []byte(d.Cfg.WebhookSecret))
		mac.Write(body)
		want := hex.EncodeToString(mac.Sum(nil))
		got := c.GetHeader("X-Webhook-Signature")
		if !hmac.Equal([]byte(want), []byte(got)) {
			logger.Warn("firma de webhook inválida", "remote", c.ClientIP())
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "firma inválida"})
			return
		}

		var evt webhookEvent
		if err := json.Unmarshal(body, &evt); err != nil || evt.PaymentID == "" {
			fail(c, service.ValidationError("evento inválido"))
			return
		}

		switch evt.Type {
		case "payment.succeeded":
			err = d.Orders.HandlePaymentSucceeded(c.Request.Context(), evt.PaymentID)
		case "payment.failed":
			err = d.Orders.HandlePaymentFailed(c.Request.Context(), evt.PaymentID, evt.Reason)
		default:
			fail(c, service.ValidationError("tipo de evento desconocido"))
			return
		}
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}
