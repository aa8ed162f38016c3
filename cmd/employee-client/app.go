package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/employee-admin-client/internal/handler"
	"github.com/noah-isme/employee-admin-client/internal/repository"
	"github.com/noah-isme/employee-admin-client/internal/service"
	"github.com/noah-isme/employee-admin-client/pkg/config"
	"github.com/noah-isme/employee-admin-client/pkg/debounce"
	"github.com/noah-isme/employee-admin-client/pkg/gateway"
	"github.com/noah-isme/employee-admin-client/pkg/storage"
)

// app holds the wired services for one process.
type app struct {
	cfg    *config.Config
	logger *zap.Logger

	store     repository.KeyValueStore
	gateway   *gateway.Client
	metrics   *service.MetricsService
	session   *service.SessionService
	auth      *service.AuthService
	gate      *service.AuthGate
	employees *repository.EmployeeRepository
	notes     *service.NotificationService
	list      *service.ListController
	mutations *service.MutationCoordinator
	theme     *service.ThemeService
	exports   *service.ExportService
	queue     *service.ExportQueue

	metricsServer *http.Server
}

func newApp(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*app, error) {
	store, err := repository.OpenStore(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, logger: logger, store: store, metrics: service.NewMetricsService()}

	var session *service.SessionService
	a.gateway = gateway.New(cfg.GraphQL.Endpoint,
		gateway.WithTimeout(cfg.GraphQL.Timeout),
		gateway.WithTokenSource(func(ctx context.Context) (string, error) { return session.Token(ctx) }),
		gateway.WithObserver(a.metrics),
		gateway.WithLogger(logger),
	)

	authRepo := repository.NewAuthRepository(a.gateway)
	session = service.NewSessionService(store, authRepo, logger)
	a.session = session

	validate := validator.New()
	a.auth = service.NewAuthService(authRepo, session, validate, logger)
	a.gate = service.NewAuthGate(session, logger)
	a.employees = repository.NewEmployeeRepository(a.gateway)
	a.notes = service.NewNotificationService(cfg.Notifications.TTL, debounce.SystemScheduler, a.metrics, logger)
	a.list = service.NewListController(a.employees, a.notes, service.ListConfig{
		PageSize: cfg.List.DefaultPageSize,
		Debounce: cfg.List.SearchDebounce,
	}, debounce.SystemScheduler, logger)
	a.mutations = service.NewMutationCoordinator(a.employees, a.list, a.notes, validate, logger)
	a.theme = service.NewThemeService(store, logger)

	exportDir, err := storage.NewLocalStorage(cfg.Export.Dir)
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	a.exports = service.NewExportService(exportDir, logger)
	a.queue = service.NewExportQueue(a.exports, a.notes, logger)

	if cfg.Metrics.Addr != "" {
		a.serveMetrics(cfg.Metrics.Addr)
	}
	return a, nil
}

func (a *app) serveMetrics(addr string) {
	// stdout belongs to the command output
	gin.SetMode(gin.ReleaseMode)
	router := handler.NewMetricsRouter(a.metrics)
	a.metricsServer = &http.Server{Addr: addr, Handler: router, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := a.metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Warn("metrics server stopped", zap.Error(err))
		}
	}()
	a.logger.Info("serving metrics", zap.String("addr", addr))
}

func (a *app) Close() {
	a.queue.Stop()
	a.list.Close()
	a.notes.Close()
	a.gate.Close()
	if a.metricsServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = a.metricsServer.Shutdown(ctx)
	}
	if err := a.store.Close(); err != nil {
		a.logger.Warn("failed to close storage", zap.Error(err))
	}
}
