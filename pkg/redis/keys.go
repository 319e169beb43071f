package redis

import "fmt"

// CatalogKey es la clave de la caché del catálogo por categoría; la
// cadena vacía representa el catálogo completo.
func CatalogKey(categoria string) string {
	if categoria == "" {
		categoria = "todas"
	}
	return fmt.Sprintf("carniceria:catalog:%s", categoria)
}

// catalogPattern casa con todas las claves de catálogo (invalidación).
const catalogPattern = "carniceria:catalog:*"

// RateLimitKey es la clave de limitación por ámbito e identificador
// (IP o id de cliente).
func RateLimitKey(scope, id string) string {
	return fmt.Sprintf("carniceria:rate_limit:%s:%s", scope, id)
}
