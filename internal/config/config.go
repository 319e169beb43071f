package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// AppConfig agrega la configuración de ejecución; todo llega por
// variables de entorno para no hardcodear nada.
type AppConfig struct {
	HTTPAddr string
	DBPath   string

	RedisAddr string
	RedisDB   int

	// Kafka: brokers (separados por comas), topic y grupo del notificador
	KafkaBrokers []string
	KafkaTopic   string
	KafkaGroupID string

	JWTSecret string
	JWTExpire time.Duration

	// Simulación Bizum: ventana de expiración y retardo de confirmación
	BizumExpiry       time.Duration
	BizumConfirmDelay time.Duration

	// Límite del endpoint de checkout y TTL de la caché del catálogo
	CheckoutRateLimit  int
	CheckoutRateWindow time.Duration
	CatalogCacheTTL    time.Duration

	// Secreto compartido del webhook de la pasarela de tarjetas
	WebhookSecret string

	// Admin inicial creado en el arranque si no existe
	AdminNombre   string
	AdminEmail    string
	AdminPassword string

	LogLevel   string
	LogFormat  string
	LogOutput  string
	LogFile    string
	LogMaxSize int
}

// Load lee y valida la configuración, con valores por defecto de
// desarrollo cuando falta la variable.
func Load() (AppConfig, error) {
	cfg := AppConfig{
		HTTPAddr:           getEnv("HTTP_ADDR", ":8080"),
		DBPath:             getEnv("DB_PATH", "carniceria.db"),
		RedisAddr:          getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:            0,
		KafkaBrokers:       splitCSV(getEnv("KAFKA_BROKERS", "localhost:9092")),
		KafkaTopic:         getEnv("KAFKA_TOPIC", "carniceria-order-events"),
		KafkaGroupID:       getEnv("KAFKA_GROUP_ID", "carniceria-notifier"),
		JWTSecret:          getEnv("JWT_SECRET", "dev-jwt-secret"),
		JWTExpire:          24 * time.Hour,
		BizumExpiry:        120 * time.Second,
		BizumConfirmDelay:  15 * time.Second,
		CheckoutRateLimit:  30,
		CheckoutRateWindow: time.Minute,
		CatalogCacheTTL:    5 * time.Minute,
		WebhookSecret:      getEnv("WEBHOOK_SECRET", "dev-webhook-secret"),
		AdminNombre:        getEnv("ADMIN_NOMBRE", "Administrador"),
		AdminEmail:         getEnv("ADMIN_EMAIL", "admin@carniceria.local"),
		AdminPassword:      getEnv("ADMIN_PASSWORD", ""),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		LogFormat:          getEnv("LOG_FORMAT", "json"),
		LogOutput:          getEnv("LOG_OUTPUT", "stdout"),
		LogFile:            getEnv("LOG_FILE", "logs/carniceria.log"),
		LogMaxSize:         50,
	}

	redisDB, err := getEnvInt("REDIS_DB", cfg.RedisDB)
	if err != nil {
		return AppConfig{}, fmt.Errorf("invalid REDIS_DB: %w", err)
	}
	cfg.RedisDB = redisDB

	jwtHours, err := getEnvInt("JWT_EXPIRE_HOURS", int(cfg.JWTExpire.Hours()))
	if err != nil {
		return AppConfig{}, fmt.Errorf("invalid JWT_EXPIRE_HOURS: %w", err)
	}
	if jwtHours <= 0 {
		return AppConfig{}, fmt.Errorf("JWT_EXPIRE_HOURS must be > 0")
	}
	cfg.JWTExpire = time.Duration(jwtHours) * time.Hour

	bizumExpirySec, err := getEnvInt("BIZUM_EXPIRY_SEC", int(cfg.BizumExpiry.Seconds()))
	if err != nil {
		return AppConfig{}, fmt.Errorf("invalid BIZUM_EXPIRY_SEC: %w", err)
	}
	if bizumExpirySec <= 0 {
		return AppConfig{}, fmt.Errorf("BIZUM_EXPIRY_SEC must be > 0")
	}
	cfg.BizumExpiry = time.Duration(bizumExpirySec) * time.Second

	bizumDelaySec, err := getEnvInt("BIZUM_CONFIRM_DELAY_SEC", int(cfg.BizumConfirmDelay.Seconds()))
	if err != nil {
		return AppConfig{}, fmt.Errorf("invalid BIZUM_CONFIRM_DELAY_SEC: %w", err)
	}
	if bizumDelaySec < 0 || bizumDelaySec >= bizumExpirySec {
		return AppConfig{}, fmt.Errorf("BIZUM_CONFIRM_DELAY_SEC must be in [0, BIZUM_EXPIRY_SEC)")
	}
	cfg.BizumConfirmDelay = time.Duration(bizumDelaySec) * time.Second

	rateLimit, err := getEnvInt("CHECKOUT_RATE_LIMIT", cfg.CheckoutRateLimit)
	if err != nil {
		return AppConfig{}, fmt.Errorf("invalid CHECKOUT_RATE_LIMIT: %w", err)
	}
	if rateLimit <= 0 {
		return AppConfig{}, fmt.Errorf("CHECKOUT_RATE_LIMIT must be > 0")
	}
	cfg.CheckoutRateLimit = rateLimit

	rateWindowSec, err := getEnvInt("CHECKOUT_RATE_WINDOW_SEC", int(cfg.CheckoutRateWindow.Seconds()))
	if err != nil {
		return AppConfig{}, fmt.Errorf("invalid CHECKOUT_RATE_WINDOW_SEC: %w", err)
	}
	if rateWindowSec <= 0 {
		return AppConfig{}, fmt.Errorf("CHECKOUT_RATE_WINDOW_SEC must be > 0")
	}
	cfg.CheckoutRateWindow = time.Duration(rateWindowSec) * time.Second

	catalogTTLSec, err := getEnvInt("CATALOG_CACHE_TTL_SEC", int(cfg.CatalogCacheTTL.Seconds()))
	if err != nil {
		return AppConfig{}, fmt.Errorf("invalid CATALOG_CACHE_TTL_SEC: %w", err)
	}
	if catalogTTLSec <= 0 {
		return AppConfig{}, fmt.Errorf("CATALOG_CACHE_TTL_SEC must be > 0")
	}
	cfg.CatalogCacheTTL = time.Duration(catalogTTLSec) * time.Second

	if len(cfg.KafkaBrokers) == 0 {
		return AppConfig{}, fmt.Errorf("KAFKA_BROKERS must not be empty")
	}
	if cfg.KafkaTopic == "" {
		return AppConfig{}, fmt.Errorf("KAFKA_TOPIC must not be empty")
	}
	if cfg.KafkaGroupID == "" {
		return AppConfig{}, fmt.Errorf("KAFKA_GROUP_ID must not be empty")
	}
	if cfg.JWTSecret == "" {
		return AppConfig{}, fmt.Errorf("JWT_SECRET must not be empty")
	}

	return cfg, nil
}

// getEnv lee una variable de entorno con valor por defecto.
func getEnv(key, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	return v
}

// getEnvInt lee una variable entera con valor por defecto.
func getEnvInt(key string, fallback int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	return strconv.Atoi(v)
}

// splitCSV separa una lista por comas descartando vacíos.
func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
