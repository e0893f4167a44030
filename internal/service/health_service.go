package service

import (
	"context"
	"net/http"
	"time"

	"github.com/complai/internal/logging"
	"go.uber.org/zap"
)

const (
	StatusHealthy   = "healthy"
	StatusUnhealthy = "unhealthy"

	healthTimestampLayout = "2006-01-02T15:04:05.000Z"
)

// Pinger probes CMS liveness. A nil error means a response was received.
type Pinger interface {
	Ping(ctx context.Context) (int, error)
}

// ServiceStatuses lists the status of each component.
type ServiceStatuses struct {
	Frontend string `json:"frontend"`
	Directus string `json:"directus"`
}

// HealthReport is the JSON body of the health endpoint.
type HealthReport struct {
	Status      string          `json:"status"`
	Timestamp   string          `json:"timestamp"`
	Services    ServiceStatuses `json:"services"`
	Environment string          `json:"environment"`
	Error       string          `json:"error,omitempty"`
}

// Healthy reports whether the overall status is healthy.
func (r HealthReport) Healthy() bool {
	return r.Status == StatusHealthy
}

// HealthService 汇总前端自身与 CMS 的健康状态。
type HealthService struct {
	cms         Pinger
	environment string
	now         func() time.Time
	logger      *zap.Logger
}

// NewHealthService creates a HealthService reporting environment.
func NewHealthService(cms Pinger, environment string, logger *zap.Logger) *HealthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HealthService{cms: cms, environment: environment, now: time.Now, logger: logger}
}

// WithClock 允许在测试中固定时间。
func (s *HealthService) WithClock(now func() time.Time) *HealthService {
	if now == nil {
		return s
	}
	s.now = now
	return s
}

// Check probes the CMS once and returns the report with the HTTP status
// code to answer with: 200 when the CMS answered 2xx, 503 otherwise.
func (s *HealthService) Check(ctx context.Context) (HealthReport, int) {
	report := HealthReport{
		Status:      StatusUnhealthy,
		Timestamp:   s.now().UTC().Format(healthTimestampLayout),
		Services:    ServiceStatuses{Frontend: StatusHealthy, Directus: StatusUnhealthy},
		Environment: s.environment,
	}

	status, err := s.cms.Ping(ctx)
	if err != nil {
		report.Error = err.Error()
		s.logger.Warn("cms ping failed", zap.Error(err), logging.RequestField(ctx))
		return report, http.StatusServiceUnavailable
	}

	if status < http.StatusOK || status >= http.StatusMultipleChoices {
		s.logger.Warn("cms ping unhealthy", zap.Int("status", status), logging.RequestField(ctx))
		return report, http.StatusServiceUnavailable
	}

	report.Status = StatusHealthy
	report.Services.Directus = StatusHealthy
	return report, http.StatusOK
}
