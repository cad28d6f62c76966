package server

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dmitrijs2005/taskkeeper/internal/server/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApp_RunStopsOnCancel(t *testing.T) {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.EndpointAddr = "127.0.0.1:0"
	cfg.DatabaseDSN = filepath.Join(t.TempDir(), "tasks.db")
	cfg.LogLevel = "error"

	app, err := NewApp(context.Background(), cfg)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("app did not stop")
	}

	// The admin seeded on the first start is kept on the second.
	again, err := NewApp(context.Background(), cfg)
	require.NoError(t, err)
	require.NoError(t, again.db.Close())
}

func TestNewApp_BadDSN(t *testing.T) {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o600))
	cfg.DatabaseDSN = filepath.Join(blocker, "x.db")
	cfg.LogLevel = "error"

	_, err := NewApp(context.Background(), cfg)
	require.ErrorContains(t, err, "db init error")
}
