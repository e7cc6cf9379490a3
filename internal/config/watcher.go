package config

import (
	"context"
	"log/slog"
	"time"

	"github.com/fsnotify/fsnotify"
)

// OnReload is called with the freshly reloaded config after a debounced
// file-change event. Errors during reload are logged, not returned: a
// bad edit should not kill the running server.
type OnReload func(*Config)

// Watch reloads filename into a fresh Config and invokes cb whenever the
// file changes on disk, debounced by 200ms to collapse the burst of
// write events a single save can produce (grounded on
// Starford96-kenaz's internal/index.Watch debounce timer, narrowed from
// directory reindexing to a single config file).
func Watch(ctx context.Context, filename string, log *slog.Logger, cb OnReload) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Add(filename); err != nil {
		return err
	}
	log.Info("config: watching", slog.String("file", filename))

	var timer *time.Timer
	var timerCh <-chan time.Time
	schedule := func() {
		if timer == nil {
			timer = time.NewTimer(200 * time.Millisecond)
			timerCh = timer.C
		} else {
			timer.Reset(200 * time.Millisecond)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil

		case <-timerCh:
			cfg := Default()
			if err := Load(filename, cfg); err != nil {
				log.Warn("config: reload failed", slog.String("error", err.Error()))
				continue
			}
			log.Info("config: reloaded", slog.String("file", filename))
			cb(cfg)

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				schedule()
			}

		case werr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Error("config: watch error", slog.String("error", werr.Error()))
		}
	}
}
