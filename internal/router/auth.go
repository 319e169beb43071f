package router

import (
	"net/http"

	"carniceria/internal/service"

	"github.com/gin-gonic/gin"
)

type loginPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func adminLogin(d Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req loginPayload
		if err := c.ShouldBindJSON(&req); err != nil {
			fail(c, service.ValidationError("email y contraseña son obligatorios"))
			return
		}
		tok, user, err := d.Auth.AdminLogin(c.Request.Context(), req.Email, req.Password)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "token": tok, "usuario": user})
	}
}

func customerRegister(d Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req service.CustomerRegisterRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			fail(c, service.ValidationError("cuerpo de la petición inválido"))
			return
		}
		customer, err := d.Auth.RegisterCustomer(c.Request.Context(), req)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"success": true, "cliente": customer})
	}
}

func customerLogin(d Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req loginPayload
		if err := c.ShouldBindJSON(&req); err != nil {
			fail(c, service.ValidationError("email y contraseña son obligatorios"))
			return
		}
		tok, customer, err := d.Auth.CustomerLogin(c.Request.Context(), req.Email, req.Password)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "token": tok, "cliente": customer})
	}
}
