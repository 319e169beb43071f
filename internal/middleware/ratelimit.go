package middleware

import (
	"fmt"
	"net/http"
	"time"

	rediskey "carniceria/pkg/redis"

	"github.com/gin-gonic/gin"
	rd "github.com/redis/go-redis/v9"
)

// luaRateLimit: limitación por ventana deslizante, atómica en Redis.
// KEYS[1]=clave, ARGV: ahora, inicio de ventana, segundos de ventana,
// miembro único, límite. Devuelve -1 si se supera el límite.
const luaRateLimit = `
local key = KEYS[1]
local now = tonumber(ARGV[1])
local windowStart = tonumber(ARGV[2])
local windowSec = tonumber(ARGV[3])
local member = ARGV[4]

redis.call('ZREMRANGEBYSCORE', key, '0', windowStart)

local count = redis.call('ZCARD', key)

if count < tonumber(ARGV[5]) then
  redis.call('ZADD', key, now, member)
  redis.call('EXPIRE', key, windowSec)
  return count + 1
else
  return -1
end
`

// RedisRateLimit limita peticiones por IP de cliente con una ventana
// deslizante en Redis. Si Redis falla, deja pasar (degradación).
func RedisRateLimit(rdb *rd.Client, scope string, limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := rediskey.RateLimitKey(scope, c.ClientIP())

		now := time.Now().Unix()
		windowSec := int64(window.Seconds())
		member := fmt.Sprintf("%d-%d", now, time.Now().UnixNano())

		res, err := rdb.Eval(c.Request.Context(), luaRateLimit, []string{key},
			now, now-windowSec, windowSec, member, limit).Int()
		if err != nil {
			c.Next()
			return
		}

		if res < 0 {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"success": false,
				"message": "Demasiadas peticiones, inténtalo de nuevo en unos segundos",
			})
			return
		}
		c.Next()
	}
}
