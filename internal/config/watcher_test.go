package config_test

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mohamedthameursassi/intermodal/internal/config"
)

func TestWatch_ReloadsOnWriteAfterDebounce(t *testing.T) {
	path := writeTempConfig(t, `
http:
  port: 8080
store:
  path: ./a.db
`)

	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reloaded := make(chan *config.Config, 1)
	go func() {
		_ = config.Watch(ctx, path, log, func(c *config.Config) {
			select {
			case reloaded <- c:
			default:
			}
		})
	}()

	// Give the watcher a moment to register before the write.
	time.Sleep(50 * time.Millisecond)

	require.NoError(t, os.WriteFile(path, []byte(`
http:
  port: 9090
store:
  path: ./a.db
`), 0o644))

	select {
	case c := <-reloaded:
		assert.Equal(t, 9090, c.HTTP.Port)
	case <-time.After(2 * time.Second):
		t.Fatal("config was not reloaded within 2s")
	}
}
