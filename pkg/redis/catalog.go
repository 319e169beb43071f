package redis

import (
	"context"
	"errors"
	"time"

	rd "github.com/redis/go-redis/v9"
)

// GetCatalog devuelve el catálogo cacheado (JSON ya serializado).
// found=false significa miss.
func GetCatalog(ctx context.Context, rdb *rd.Client, categoria string) ([]byte, bool, error) {
	b, err := rdb.Get(ctx, CatalogKey(categoria)).Bytes()
	if err != nil {
		if errors.Is(err, rd.Nil) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return b, true, nil
}

// PutCatalog guarda el catálogo serializado con TTL.
func PutCatalog(ctx context.Context, rdb *rd.Client, categoria string, payload []byte, ttl time.Duration) error {
	return rdb.Set(ctx, CatalogKey(categoria), payload, ttl).Err()
}

// InvalidateCatalog borra todas las variantes cacheadas del catálogo.
// Se llama tras cualquier escritura de producto desde el panel.
func InvalidateCatalog(ctx context.Context, rdb *rd.Client) error {
	iter := rdb.Scan(ctx, 0, catalogPattern, 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return rdb.Del(ctx, keys...).Err()
}
