package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/visitrack/frontdesk/config"
	"github.com/visitrack/frontdesk/internal/adapters/backend"
	domainauth "github.com/visitrack/frontdesk/internal/domain/auth"
	"github.com/visitrack/frontdesk/internal/observability/statsd"
	"github.com/visitrack/frontdesk/internal/ports"
	"github.com/visitrack/frontdesk/internal/service"
)

// shutdownWaitTimeout bounds how long the HTTP server may take to drain.
const shutdownWaitTimeout = 15 * time.Second

// ServiceContainer holds all application services.
type ServiceContainer struct {
	Backend       *backend.Client
	Auth          *service.AuthService
	Visitors      *service.DashboardService
	Registrations *service.VisitorRegistrationService
	Users         *service.UserDirectoryService
	AddUser       *service.AddUserService
	Stores        *Stores
	Metrics       statsd.Sink
	metricsClient *statsd.Client
}

// Credentials binds a session to the token provider used for backend calls.
// Anonymous requests get none.
func (c ServiceContainer) Credentials(ctx context.Context, sess *domainauth.Session) ports.CredentialProvider {
	if c.Auth == nil || sess == nil {
		return nil
	}
	return c.Auth.Credentials(ctx, sess)
}

// Close releases store sweepers and the metrics socket.
func (c ServiceContainer) Close() error {
	var errs []error
	if c.Stores != nil {
		errs = append(errs, c.Stores.Close())
	}
	if c.metricsClient != nil {
		errs = append(errs, c.metricsClient.Close())
	}
	return errors.Join(errs...)
}

// ServiceDeps groups dependencies for service initialization.
type ServiceDeps struct {
	Config      *config.AppConfig
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

// NewServices wires the backend client, stores and domain services.
func NewServices(deps *ServiceDeps) (ServiceContainer, error) {
	if deps == nil || deps.Config == nil {
		return ServiceContainer{}, errors.New("service deps with config are required")
	}
	cfg := deps.Config
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	metricsClient, metrics := buildMetrics(cfg.Observability.Metrics, logger)

	client := backend.NewClient(backend.Options{
		BaseURL:    cfg.Backend.BaseURL,
		HTTPClient: backend.NewHTTPClient(backend.HTTPClientOptions{Timeout: cfg.Backend.Timeout}),
		UserAgent:  cfg.Backend.UserAgent,
		Logger:     logger,
		Metrics:    metrics,

		MaxResponseBytes: cfg.Backend.MaxResponseBytes,
	})

	stores, err := BuildStores(*cfg, deps.RedisClient, logger)
	if err != nil {
		closeMetrics(metricsClient)
		return ServiceContainer{}, err
	}

	auth, err := BuildAuthService(AuthConfig{
		Auth:       cfg.Auth,
		SessionTTL: cfg.Session.TTL,
		Sessions:   stores.Sessions,
		Backend:    client,
		Logger:     logger,
	})
	if err != nil {
		_ = stores.Close()
		closeMetrics(metricsClient)
		return ServiceContainer{}, err
	}

	loader := service.NewVisitorLoader(service.VisitorLoaderOptions{Directory: client, Logger: logger})
	return ServiceContainer{
		Backend: client,
		Auth:    auth,
		Visitors: service.NewDashboardService(service.DashboardServiceOptions{
			Loader:    loader,
			Directory: client,
			Logger:    logger,
		}),
		Registrations: service.NewVisitorRegistrationService(service.VisitorRegistrationServiceOptions{
			Directory: client,
			Loader:    loader,
			Logger:    logger,
		}),
		Users: service.NewUserDirectoryService(service.UserDirectoryServiceOptions{Users: client, Logger: logger}),
		AddUser: service.NewAddUserService(service.AddUserServiceOptions{
			Drafts:    stores.Drafts,
			Submitter: service.NewUserSubmitter(service.UserSubmitterOptions{Users: client, Logger: logger}),
			Logger:    logger,
		}),
		Stores:        stores,
		Metrics:       metrics,
		metricsClient: metricsClient,
	}, nil
}

func closeMetrics(c *statsd.Client) {
	if c != nil {
		_ = c.Close()
	}
}

func buildMetrics(cfg config.ObservabilityMetricsConfig, logger *slog.Logger) (*statsd.Client, statsd.Sink) {
	if !cfg.IsEnabled() {
		return nil, statsd.Noop{}
	}
	client, err := statsd.NewClient(statsd.Config{
		Enabled: true,
		Address: cfg.StatsdAddress,
		Prefix:  cfg.Prefix,
		Logger:  logger,
	})
	if err != nil {
		logger.Error("failed to initialise statsd client", "error", err)
		return nil, statsd.Noop{}
	}
	return client, client
}

// ServiceOrchestrationConfig contains everything RunServicesWithShutdown needs.
type ServiceOrchestrationConfig struct {
	Config   *config.AppConfig
	Services ServiceContainer
	Logger   *slog.Logger
}

// RunServicesWithShutdown serves HTTP until SIGINT/SIGTERM or a server
// failure, then drains in-flight requests.
func RunServicesWithShutdown(cfg *ServiceOrchestrationConfig) error {
	if cfg == nil || cfg.Config == nil {
		return errors.New("service orchestration config is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	errCh := make(chan error, 1)
	server := StartHTTPServer(&HTTPServerConfig{
		Config:   cfg.Config,
		Services: cfg.Services,
		Logger:   logger,
		Errors:   errCh,
	})

	return waitForShutdown(shutdownConfig{
		ctx:        context.Background(),
		errCh:      errCh,
		httpServer: server,
		logger:     logger,
	})
}

// shutdownConfig contains dependencies for graceful shutdown.
type shutdownConfig struct {
	ctx        context.Context
	errCh      <-chan error
	httpServer *http.Server
	logger     *slog.Logger
}

func waitForShutdown(cfg shutdownConfig) error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case <-quit:
		cfg.logger.Info("shutting down...")
		return gracefulStop(cfg)
	case err := <-cfg.errCh:
		cfg.logger.Error("service error", "error", err)
		if stopErr := gracefulStop(cfg); stopErr != nil {
			cfg.logger.Error("graceful stop failed", "error", stopErr)
		}
		return err
	}
}

func gracefulStop(cfg shutdownConfig) error {
	if cfg.httpServer == nil {
		return nil
	}
	shutdownCtx, cancel := context.WithTimeout(cfg.ctx, shutdownWaitTimeout)
	defer cancel()
	if err := ShutdownHTTPServer(ShutdownConfig{
		Context: shutdownCtx,
		Server:  cfg.httpServer,
		Logger:  cfg.logger,
	}); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}
	return nil
}
