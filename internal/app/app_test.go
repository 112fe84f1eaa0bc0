package app

import (
	"context"
	"testing"

	"backoffice-api/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild_InMemoryDevMode(t *testing.T) {
	a, err := Build(context.Background(), config.Default(), nil)
	require.NoError(t, err)
	defer a.Close()

	assert.Nil(t, a.DB)
	assert.Nil(t, a.AuthVerifier)
	assert.Nil(t, a.TriggerVerifier)
	assert.Nil(t, a.Scheduler)
	assert.NotNil(t, a.Processor)

	require.NoError(t, a.RunPass(context.Background()))
}

func TestBuild_WiresVerifiersAndScheduler(t *testing.T) {
	cfg := config.Default()
	cfg.Auth.JWTSecret = "s3cret"
	cfg.Auth.ProcessToken = "cron-token"
	cfg.Scheduler.Spec = "@every 1m"

	a, err := Build(context.Background(), cfg, nil)
	require.NoError(t, err)
	defer a.Close()

	assert.NotNil(t, a.AuthVerifier)
	require.NotNil(t, a.TriggerVerifier)
	assert.NotNil(t, a.Scheduler)

	claims, err := a.TriggerVerifier.Verify(context.Background(), "cron-token")
	require.NoError(t, err)
	assert.Equal(t, "scheduler", claims.UserID)
}

func TestBuild_InvalidSchedule(t *testing.T) {
	cfg := config.Default()
	cfg.Scheduler.Spec = "not a cron"

	_, err := Build(context.Background(), cfg, nil)
	assert.Error(t, err)
}
