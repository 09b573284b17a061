package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"github.com/mendoza-ahrensburg/kasse/internal/app"
)

// setupLogger настраивает формат и уровень логирования кассы.
func setupLogger() {
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	log.SetLevel(logLevelFromEnv(os.Getenv("KASSE_LOG_LEVEL")))
}

// logLevelFromEnv переводит значение переменной окружения в уровень logrus,
// неизвестные значения откатываются на Info.
func logLevelFromEnv(value string) log.Level {
	level, err := log.ParseLevel(strings.TrimSpace(value))
	if err != nil {
		return log.InfoLevel
	}
	return level
}

func main() {
	// .env необязателен, локальная разработка кладёт туда KASSE_* переменные.
	_ = godotenv.Load()

	setupLogger()

	cfg, err := app.LoadConfigFromEnv()
	if err != nil {
		log.WithError(err).Fatal("некорректная конфигурация")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.WithFields(log.Fields{
		"http_addr":    cfg.HTTPAddr,
		"metrics_addr": cfg.MetricsAddr,
		"storage":      cfg.StorageDriver,
	}).Info("запускаем кассу")

	if err := app.Run(ctx, cfg); err != nil && !errors.Is(err, context.Canceled) {
		log.WithError(err).Fatal("приложение завершилось с ошибкой")
	}

	log.Info("касса остановлена")
}
