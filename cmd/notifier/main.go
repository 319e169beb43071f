// El notifier consume los eventos de pedido de Kafka y dispara los
// avisos (hoy, mensajes de WhatsApp simulados en el log). Corre como
// proceso aparte para que un aviso lento nunca frene un checkout.
package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"carniceria/internal/config"
	"carniceria/internal/dao"
	"carniceria/internal/queue"
	"carniceria/pkg/logger"

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

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	n := queue.NewNotifier(cfg.KafkaBrokers, cfg.KafkaTopic, cfg.KafkaGroupID, dao.NewOrderDao(db))
	defer n.Close()

	logger.Info("notifier arrancado", "topic", cfg.KafkaTopic, "group", cfg.KafkaGroupID)
	n.Run(ctx)
}
