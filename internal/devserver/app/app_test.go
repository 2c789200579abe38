package app

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/leavedesk/pkg/slogx"
)

func TestRunStopsOnCancel(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.Port = 0
	cfg.ShutdownGracePeriod = time.Second

	application, err := NewWithLogger(cfg, slogx.Discard(), nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- application.Run(ctx) }()

	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestNewRejectsBadUsersFile(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.UsersFile = "does-not-exist.toml"

	_, err := NewWithLogger(cfg, slogx.Discard(), nil)
	require.Error(t, err)
}
