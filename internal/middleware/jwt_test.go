package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"carniceria/pkg/token"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func authRouter(tm *token.Manager, roles ...string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protegido", JWTAuth(tm, roles...), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"rol": c.GetString(CtxRol)})
	})
	return r
}

func doGet(r *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protegido", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestJWTAuth(t *testing.T) {
	tm := token.NewManager("secreto", time.Hour)
	r := authRouter(tm)

	tok, err := tm.Generate(1, "admin@carniceria.es", "admin")
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, doGet(r, "Bearer "+tok).Code)
	assert.Equal(t, http.StatusUnauthorized, doGet(r, "").Code)
	assert.Equal(t, http.StatusUnauthorized, doGet(r, "Bearer basura").Code)
	assert.Equal(t, http.StatusUnauthorized, doGet(r, "Token "+tok).Code)
}

func TestJWTAuthExpired(t *testing.T) {
	expired := token.NewManager("secreto", -time.Minute)
	tok, err := expired.Generate(1, "a@b.com", "admin")
	require.NoError(t, err)

	r := authRouter(token.NewManager("secreto", time.Hour))
	w := doGet(r, "Bearer "+tok)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Sesión expirada")
}

func TestJWTAuthRoles(t *testing.T) {
	tm := token.NewManager("secreto", time.Hour)
	r := authRouter(tm, "admin")

	adminTok, err := tm.Generate(1, "admin@carniceria.es", "admin")
	require.NoError(t, err)
	clienteTok, err := tm.Generate(2, "maria@example.com", "cliente")
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, doGet(r, "Bearer "+adminTok).Code)
	assert.Equal(t, http.StatusForbidden, doGet(r, "Bearer "+clienteTok).Code)
}
