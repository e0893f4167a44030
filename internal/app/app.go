package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/complai/internal/config"
	"github.com/complai/internal/service"
	"go.uber.org/zap"
)

// ShutdownTimeout bounds how long in-flight requests may drain.
const ShutdownTimeout = 10 * time.Second

// ErrUnhealthy is returned by Check when the CMS probe fails.
var ErrUnhealthy = errors.New("cms unhealthy")

// App is the assembled frontend process.
type App struct {
	Config config.AppConfig
	Logger *zap.Logger
	Health *service.HealthService
	Server *http.Server
}

// Run serves HTTP until ctx is cancelled, then drains in-flight requests.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.Logger.Info("server listening",
			zap.String("addr", a.Server.Addr),
			zap.String("directus_url", a.Config.DirectusURL),
			zap.Bool("directus_token", a.Config.DirectusToken != ""),
			zap.String("environment", a.Config.Environment),
		)
		if err := a.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("listen on %s: %w", a.Server.Addr, err)
		}
		return nil
	case <-ctx.Done():
	}

	a.Logger.Info("shutting down", zap.Duration("timeout", ShutdownTimeout))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// Check runs one health probe and writes the report as JSON to w.
func (a *App) Check(ctx context.Context, w io.Writer) error {
	report, _ := a.Health.Check(ctx)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return err
	}
	if !report.Healthy() {
		return ErrUnhealthy
	}
	return nil
}
