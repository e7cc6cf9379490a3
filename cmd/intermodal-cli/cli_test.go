package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"

	"github.com/mohamedthameursassi/intermodal/internal/models"
)

func rootCmd() *cli.Command {
	return &cli.Command{
		Name: "intermodal-cli",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Value: "config.yaml"},
		},
		Commands: []*cli.Command{searchCommand(), seedCommand()},
	}
}

func writeConfigPointingAt(t *testing.T, dbPath string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	contents := "store:\n  path: " + dbPath + "\nsearch:\n  transfer_radius_km: 50\n"
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

// captureStdout redirects os.Stdout for the duration of fn and returns
// everything written to it. runSearch writes its result straight to
// os.Stdout via json.Encoder, so tests need to intercept it there.
func captureStdout(t *testing.T, fn func()) []byte {
	t.Helper()
	orig := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w
	defer func() { os.Stdout = orig }()

	fn()

	require.NoError(t, w.Close())
	out, err := io.ReadAll(r)
	require.NoError(t, err)
	return out
}

func TestSeedThenSearch_EndToEnd(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")
	cfgPath := writeConfigPointingAt(t, dbPath)

	seedArgs := []string{"intermodal-cli", "--config", cfgPath, "seed"}
	require.NoError(t, rootCmd().Run(context.Background(), seedArgs))

	var bundle models.ItineraryBundle
	out := captureStdout(t, func() {
		searchArgs := []string{"intermodal-cli", "--config", cfgPath, "search",
			"--origin", "Boston", "--destination", "New York"}
		require.NoError(t, rootCmd().Run(context.Background(), searchArgs))
	})

	require.NoError(t, json.Unmarshal(bytes.TrimSpace(out), &bundle))
	assert.Equal(t, models.StatusOK, bundle.Status)
	require.NotEmpty(t, bundle.Legs)
	assert.Equal(t, models.ModeFlight, bundle.Legs[0].Edge.Mode)
}

func TestSeed_WithSnapshotOut_WritesReadableSnapshot(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")
	cfgPath := writeConfigPointingAt(t, dbPath)
	snapPath := filepath.Join(t.TempDir(), "snap.gob")

	args := []string{"intermodal-cli", "--config", cfgPath, "seed", "--snapshot-out", snapPath}
	require.NoError(t, rootCmd().Run(context.Background(), args))

	info, err := os.Stat(snapPath)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestSeed_WithTransitButNoAPIKey_SkipsWithoutError(t *testing.T) {
	t.Setenv("GOOGLE_MAPS_API_KEY", "")
	dbPath := filepath.Join(t.TempDir(), "test.db")
	cfgPath := writeConfigPointingAt(t, dbPath)

	args := []string{"intermodal-cli", "--config", cfgPath, "seed", "--with-transit"}
	require.NoError(t, rootCmd().Run(context.Background(), args))
}

func TestSearch_UsesSnapshotInsteadOfLiveStore(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")
	cfgPath := writeConfigPointingAt(t, dbPath)
	snapPath := filepath.Join(t.TempDir(), "snap.gob")

	require.NoError(t, rootCmd().Run(context.Background(),
		[]string{"intermodal-cli", "--config", cfgPath, "seed", "--snapshot-out", snapPath}))

	var bundle models.ItineraryBundle
	out := captureStdout(t, func() {
		args := []string{"intermodal-cli", "--config", cfgPath, "search",
			"--origin", "Boston", "--destination", "New York", "--snapshot", snapPath}
		require.NoError(t, rootCmd().Run(context.Background(), args))
	})

	require.NoError(t, json.Unmarshal(bytes.TrimSpace(out), &bundle))
	assert.Equal(t, models.StatusOK, bundle.Status)
}
