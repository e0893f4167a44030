package app

import (
	"net/http"
	"time"

	"github.com/complai/internal/config"
	"github.com/complai/internal/directus"
	"github.com/complai/internal/handler"
	"github.com/complai/internal/logging"
	"github.com/complai/internal/router"
	"github.com/complai/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/google/wire"
	"go.uber.org/zap"
)

const readHeaderTimeout = 10 * time.Second

// ProviderSet builds the frontend from an AppConfig.
var ProviderSet = wire.NewSet(
	ProvideLogger,
	ProvideDirectusClient,
	wire.Bind(new(service.ItemReader), new(*directus.Client)),
	wire.Bind(new(service.Pinger), new(*directus.Client)),
	service.NewContentService,
	ProvideHealthService,
	ProvideSite,
	handler.NewAPI,
	ProvideEngine,
	ProvideHTTPServer,
	wire.Struct(new(App), "*"),
)

// ProvideLogger creates the process logger and its flush function.
func ProvideLogger(cfg config.AppConfig) (*zap.Logger, func(), error) {
	logger, err := logging.New(cfg.Environment, cfg.LogLevel)
	if err != nil {
		return nil, nil, err
	}
	return logger, func() { _ = logger.Sync() }, nil
}

// ProvideDirectusClient creates the shared CMS client.
func ProvideDirectusClient(cfg config.AppConfig) *directus.Client {
	return directus.NewClient(cfg.DirectusURL, cfg.DirectusToken, cfg.CMSTimeout)
}

func ProvideHealthService(cms service.Pinger, cfg config.AppConfig, logger *zap.Logger) *service.HealthService {
	return service.NewHealthService(cms, cfg.Environment, logger)
}

func ProvideSite(cfg config.AppConfig) handler.Site {
	return handler.Site{
		Name:        cfg.SiteName,
		AppURL:      cfg.AppURL,
		DirectusURL: cfg.DirectusURL,
		Environment: cfg.Environment,
	}
}

// ProvideEngine sets the gin mode and builds the router.
func ProvideEngine(api *handler.API, cfg config.AppConfig, logger *zap.Logger) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	return router.SetupRouter(api, cfg.SessionSecret, logger)
}

func ProvideHTTPServer(cfg config.AppConfig, engine *gin.Engine) *http.Server {
	return &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           engine,
		ReadHeaderTimeout: readHeaderTimeout,
	}
}
