package middleware

import (
	"errors"
	"net/http"
	"strings"

	"carniceria/pkg/token"

	"github.com/gin-gonic/gin"
)

// Claves del contexto gin con la identidad autenticada.
const (
	CtxUserID = "user_id"
	CtxEmail  = "email"
	CtxRol    = "rol"
)

// JWTAuth exige un Bearer token válido y, si se indican roles, que el
// del token sea uno de ellos.
func JWTAuth(tm *token.Manager, roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false, "message": "No autenticado",
			})
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false, "message": "Formato de Authorization inválido",
			})
			return
		}

		claims, err := tm.Parse(parts[1])
		if err != nil {
			msg := "Token inválido"
			if errors.Is(err, token.ErrExpired) {
				msg = "Sesión expirada"
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false, "message": msg,
			})
			return
		}

		if len(roles) > 0 && !contains(roles, claims.Rol) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"success": false, "message": "No tienes permisos para esta acción",
			})
			return
		}

		c.Set(CtxUserID, claims.UserID)
		c.Set(CtxEmail, claims.Email)
		c.Set(CtxRol, claims.Rol)
		c.Next()
	}
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
