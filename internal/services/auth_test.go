package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edusync/task-automation-service/internal/upstream"
	"github.com/edusync/task-automation-service/internal/utils"
)

func TestAuthLoginSuccess(t *testing.T) {
	metrics := NewMetricsCollector()
	a := NewAuthService(&fakeUpstreamClient{}, metrics, utils.NewDevelopmentLogger())

	resp, err := a.Login(context.Background(), "12345678sp", "secret")
	require.NoError(t, err)
	assert.Equal(t, "token", resp.AuthToken)
	assert.Equal(t, 1, metrics.Snapshot().TotalLogins)
}

func TestAuthLoginUpstreamFailure(t *testing.T) {
	client := &fakeUpstreamClient{
		loginFunc: func(ra, password string) (*upstream.LoginResponse, error) {
			return nil, fmt.Errorf("401 unauthorized")
		},
	}
	a := NewAuthService(client, nil, utils.NewDevelopmentLogger())

	_, err := a.Login(context.Background(), "12345678sp", "wrong")
	assert.ErrorIs(t, err, ErrLoginFailed)
}

func TestAuthLoginEmptyToken(t *testing.T) {
	client := &fakeUpstreamClient{
		loginFunc: func(ra, password string) (*upstream.LoginResponse, error) {
			return &upstream.LoginResponse{}, nil
		},
	}
	a := NewAuthService(client, nil, utils.NewDevelopmentLogger())

	_, err := a.Login(context.Background(), "12345678sp", "secret")
	assert.ErrorIs(t, err, ErrNoAuthToken)
}
