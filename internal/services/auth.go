package services

import (
	"context"
	"fmt"

	"github.com/edusync/task-automation-service/internal/upstream"
	"github.com/edusync/task-automation-service/internal/utils"
)

// AuthService exchanges student credentials for a platform token.
type AuthService struct {
	client  upstream.Client
	metrics *MetricsCollector
	logger  utils.Logger
}

func NewAuthService(client upstream.Client, metrics *MetricsCollector, logger utils.Logger) *AuthService {
	return &AuthService{client: client, metrics: metrics, logger: logger}
}

// Login authenticates against the platform registration endpoint. The
// upstream response is trusted only when it carries a non-empty auth token.
func (a *AuthService) Login(ctx context.Context, ra, password string) (*upstream.LoginResponse, error) {
	resp, err := a.client.Login(ctx, ra, password)
	if err != nil {
		a.logger.Warn("platform login failed", "ra", ra, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrLoginFailed, err)
	}
	if resp == nil || resp.AuthToken == "" {
		return nil, ErrNoAuthToken
	}

	if a.metrics != nil {
		a.metrics.RecordLogin()
	}
	a.logger.Info("platform login succeeded", "nick", resp.Nick)

	return resp, nil
}
