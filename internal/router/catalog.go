package router

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"carniceria/internal/dao"
	"carniceria/internal/model"
	"carniceria/internal/service"
	"carniceria/pkg/logger"
	"carniceria/pkg/redis"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// listProducts sirve el catálogo público, con cache-aside en Redis.
// Un fallo de Redis degrada a consulta directa, nunca a error.
func listProducts(d Deps) gin.HandlerFunc {
	products := dao.NewProductDao(d.DB)
	return func(c *gin.Context) {
		categoria := c.Query("categoria")

		if payload, ok, err := redis.GetCatalog(c.Request.Context(), d.RDB, categoria); err != nil {
			logger.Warn("cache de catálogo no disponible", "err", err)
		} else if ok {
			c.Data(http.StatusOK, "application/json; charset=utf-8", payload)
			return
		}

		list, err := products.ListActive(c.Request.Context(), categoria)
		if err != nil {
			fail(c, err)
			return
		}
		body, err := json.Marshal(gin.H{"success": true, "productos": list})
		if err != nil {
			fail(c, err)
			return
		}
		if err := redis.PutCatalog(c.Request.Context(), d.RDB, categoria, body, d.Cfg.CatalogCacheTTL); err != nil {
			logger.Warn("no se pudo cachear el catálogo", "err", err)
		}
		c.Data(http.StatusOK, "application/json; charset=utf-8", body)
	}
}

func getProduct(d Deps) gin.HandlerFunc {
	products := dao.NewProductDao(d.DB)
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			fail(c, service.ValidationError("id inválido"))
			return
		}
		p, err := products.GetByID(c.Request.Context(), uint(id))
		if errors.Is(err, gorm.ErrRecordNotFound) {
			fail(c, service.NotFoundError("producto"))
			return
		}
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "producto": p})
	}
}

func adminCreateProduct(d Deps) gin.HandlerFunc {
	products := dao.NewProductDao(d.DB)
	return func(c *gin.Context) {
		var p model.Product
		if err := c.ShouldBindJSON(&p); err != nil {
			fail(c, service.ValidationError("cuerpo de la petición inválido"))
			return
		}
		if p.Nombre == "" || !p.Precio.IsPositive() {
			fail(c, service.ValidationError("nombre y precio positivo son obligatorios"))
			return
		}
		if err := products.Create(c.Request.Context(), &p); err != nil {
			fail(c, err)
			return
		}
		dropCatalogCache(c, d)
		c.JSON(http.StatusCreated, gin.H{"success": true, "producto": p})
	}
}

func adminUpdateProduct(d Deps) gin.HandlerFunc {
	products := dao.NewProductDao(d.DB)
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			fail(c, service.ValidationError("id inválido"))
			return
		}
		existing, err := products.GetByID(c.Request.Context(), uint(id))
		if errors.Is(err, gorm.ErrRecordNotFound) {
			fail(c, service.NotFoundError("producto"))
			return
		}
		if err != nil {
			fail(c, err)
			return
		}
		var p model.Product
		if err := c.ShouldBindJSON(&p); err != nil {
			fail(c, service.ValidationError("cuerpo de la petición inválido"))
			return
		}
		p.ID = existing.ID
		p.CreatedAt = existing.CreatedAt
		if err := products.Update(c.Request.Context(), &p); err != nil {
			fail(c, err)
			return
		}
		dropCatalogCache(c, d)
		c.JSON(http.StatusOK, gin.H{"success": true, "producto": p})
	}
}

// adminSetStock fija el stock absoluto de un producto; la reposición
// relativa ocurre solo vía cancelación de pedidos.
func adminSetStock(d Deps) gin.HandlerFunc {
	products := dao.NewProductDao(d.DB)
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			fail(c, service.ValidationError("id inválido"))
			return
		}
		var req struct {
			Stock *int `json:"stock"`
		}
		if err := c.ShouldBindJSON(&req); err != nil || req.Stock == nil {
			fail(c, service.ValidationError("stock es obligatorio"))
			return
		}
		if *req.Stock < 0 {
			fail(c, service.ValidationError("el stock no puede ser negativo"))
			return
		}
		if err := products.SetStock(c.Request.Context(), uint(id), *req.Stock); err != nil {
			fail(c, err)
			return
		}
		dropCatalogCache(c, d)
		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}

func dropCatalogCache(c *gin.Context, d Deps) {
	if err := redis.InvalidateCatalog(c.Request.Context(), d.RDB); err != nil {
		logger.Warn("no se pudo invalidar la cache de catálogo", "err", err)
	}
}
