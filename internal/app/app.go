package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	"github.com/mendoza-ahrensburg/kasse/internal/api"
	"github.com/mendoza-ahrensburg/kasse/internal/catalog"
	"github.com/mendoza-ahrensburg/kasse/internal/health"
	"github.com/mendoza-ahrensburg/kasse/internal/service/ledger"
	"github.com/mendoza-ahrensburg/kasse/internal/service/receipt"
	"github.com/mendoza-ahrensburg/kasse/internal/storage/kv"
	"github.com/mendoza-ahrensburg/kasse/internal/storage/memory"
	"github.com/mendoza-ahrensburg/kasse/internal/storage/postgres"
	"github.com/mendoza-ahrensburg/kasse/internal/storage/state"
	"github.com/mendoza-ahrensburg/kasse/internal/version"
)

// Run собирает зависимости и запускает HTTP API и сервер метрик.
// Блокируется до отмены ctx или фатальной ошибки одного из серверов.
func Run(ctx context.Context, cfg Config) error {
	logger := log.New().WithField("component", "app")
	logger.WithField("version", version.String()).Info("starting kasse")

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("validate config: %w", err)
	}

	store, cleanup, err := openStorage(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer cleanup()

	menu, err := catalog.Load()
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}
	suppliers, err := catalog.LoadSuppliers()
	if err != nil {
		return fmt.Errorf("load suppliers: %w", err)
	}
	logger.WithField("items", menu.ItemCount()).Info("catalog loaded")

	formatter := receipt.NewFormatter(receipt.MendozaProfile(), nil)
	svc, err := ledger.NewService(
		ctx,
		state.NewLedgerRepository(store),
		state.NewReceiptCounterRepository(store),
		formatter,
		nil,
	)
	if err != nil {
		return fmt.Errorf("init ledger service: %w", err)
	}

	healthHandler := health.NewHandler(version.GetVersion())
	healthHandler.RegisterChecker("storage", health.NewStorageChecker(store, state.LedgerKey))

	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	api.NewHandler(svc, menu, suppliers, nil).RegisterRoutes(router)

	apiServer := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: router,
	}

	errCh := make(chan error, 2)

	go func() {
		logger.WithField("addr", cfg.HTTPAddr).Info("http api listening")
		if err := apiServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("http api: %w", err)
		}
	}()

	metricsServer := startMetricsServer(cfg.MetricsAddr, logger, healthHandler, errCh)

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errCh:
		logger.WithError(err).Error("server failed")
		shutdownHTTP(apiServer, logger)
		shutdownHTTP(metricsServer, logger)
		return err
	}

	shutdownHTTP(apiServer, logger)
	shutdownHTTP(metricsServer, logger)
	return nil
}

// openStorage инициализирует KV-хранилище согласно драйверу из конфигурации.
// Возвращённый cleanup освобождает ресурсы драйвера.
func openStorage(ctx context.Context, cfg Config, logger *log.Entry) (kv.Store, func(), error) {
	switch cfg.StorageDriver {
	case StorageDriverMemory:
		logger.Info("using in-memory storage")
		return memory.NewKVStore(), func() {}, nil
	case StorageDriverPostgres:
		pg, err := postgres.Open(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, nil, err
		}
		if cfg.PostgresAutoMigrate {
			if err := pg.EnsureSchema(ctx); err != nil {
				_ = pg.Close()
				return nil, nil, err
			}
		}
		logger.Info("using postgres storage")
		cleanup := func() {
			if err := pg.Close(); err != nil {
				logger.WithError(err).Warn("close postgres store")
			}
		}
		return postgres.NewKVStore(pg), cleanup, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
}

// startMetricsServer поднимает HTTP-сервер с /metrics и health-чеками.
func startMetricsServer(addr string, logger *log.Entry, healthHandler *health.Handler, errCh chan<- error) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/healthz", healthHandler)
	mux.HandleFunc("/livez", health.LivenessHandler)
	mux.HandleFunc("/readyz", healthHandler.ReadinessHandler)

	srv := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	go func() {
		logger.WithField("addr", addr).Info("metrics server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("metrics server: %w", err)
		}
	}()

	return srv
}

// shutdownHTTP останавливает HTTP-сервер с ограничением по времени.
func shutdownHTTP(srv *http.Server, logger *log.Entry) {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Warn("http server shutdown")
	}
}
