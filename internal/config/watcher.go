package config

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watch reloads the file at path whenever it is written or recreated and passes the
// new configuration to fn. Invalid files are logged and skipped. The containing
// directory is watched so editors that replace the file are picked up too.
// Watching stops when ctx is cancelled.
func Watch(ctx context.Context, path string, fn func(*BrokerConfig)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file system watcher: %w", err)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		watcher.Close()
		return err
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		watcher.Close()
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(abs), err)
	}

	go func() {
		defer func() {
			watcher.Close()
			slog.Info("Config watcher stopped", "path", abs)
		}()

		for {
			select {
			case <-ctx.Done():
				return

			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != abs {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
					continue
				}

				cfg, err := Load(abs)
				if err != nil {
					slog.Error("Ignoring invalid config change", "path", abs, "error", err)
					continue
				}
				slog.Info("Config file changed", "path", abs, "event", event.Op.String())
				fn(cfg)

			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				slog.Error("Config watcher error", "error", err)
			}
		}
	}()

	slog.Debug("Started config watcher", "path", abs)
	return nil
}
