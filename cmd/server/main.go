package main

import (
	"context"
	"log"

	"carniceria/internal/config"
	"carniceria/internal/model"
	"carniceria/internal/queue"
	"carniceria/internal/router"
	"carniceria/internal/service"
	"carniceria/pkg/logger"
	"carniceria/pkg/token"

	"github.com/gin-gonic/gin"
	rd "github.com/redis/go-redis/v9"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	if err := logger.Init(logger.Options{
		Level:      cfg.LogLevel,
		Format:     cfg.LogFormat,
		Output:     cfg.LogOutput,
		FilePath:   cfg.LogFile,
		MaxSizeMB:  cfg.LogMaxSize,
		MaxBackups: 5,
		MaxAgeDays: 30,
	}); err != nil {
		log.Fatalf("logger: %v", err)
	}

	db, err := gorm.Open(sqlite.Open(cfg.DBPath), &gorm.Config{})
	if err != nil {
		log.Fatalf("db open: %v", err)
	}
	if err := db.AutoMigrate(
		&model.Product{},
		&model.Order{},
		&model.OrderItem{},
		&model.Customer{},
		&model.User{},
		&model.BizumPayment{},
	); err != nil {
		log.Fatalf("db migrate: %v", err)
	}

	rdb := rd.NewClient(&rd.Options{Addr: cfg.RedisAddr, DB: cfg.RedisDB})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		// Redis solo da cache y rate limit; sin él el servicio degrada.
		logger.Warn("redis no disponible", "addr", cfg.RedisAddr, "err", err)
	}

	producer := queue.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopic)
	defer producer.Close()

	tokens := token.NewManager(cfg.JWTSecret, cfg.JWTExpire)
	orders := service.NewOrderService(db, producer)
	payments := service.NewPaymentService(db, orders, cfg.BizumExpiry, cfg.BizumConfirmDelay)
	auth := service.NewAuthService(db, tokens)

	if cfg.AdminPassword != "" {
		if err := auth.EnsureAdmin(context.Background(), cfg.AdminNombre, cfg.AdminEmail, cfg.AdminPassword); err != nil {
			log.Fatalf("admin bootstrap: %v", err)
		}
	}

	r := gin.Default()
	router.Setup(r, router.Deps{
		DB:       db,
		RDB:      rdb,
		Orders:   orders,
		Payments: payments,
		Auth:     auth,
		Tokens:   tokens,
		Cfg:      cfg,
	})

	logger.Info("servidor escuchando", "addr", cfg.HTTPAddr)
	if err := r.Run(cfg.HTTPAddr); err != nil {
		log.Fatalf("http: %v", err)
	}
}
