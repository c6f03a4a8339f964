/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package pipeline

import (
	"context"
	"path/filepath"
	"slices"
	"time"

	"github.com/fsnotify/fsnotify"

	"bennypowers.dev/tokenpipe/internal/logger"
)

// DefaultDebounce is how long Watch collects changes before rebuilding.
const DefaultDebounce = 300 * time.Millisecond

// WatchConfig configures Watch.
type WatchConfig struct {
	// Dirs are the directories to watch, non-recursively.
	Dirs []string

	// Match selects the changed paths that trigger a rebuild. Nil matches all.
	Match func(path string) bool

	// Debounce delays the rebuild until changes settle.
	Debounce time.Duration
}

// Watch calls onChange after matching files in the watched directories
// change, at most once per debounce interval. It blocks until ctx is done.
func Watch(ctx context.Context, cfg WatchConfig, onChange func()) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	var dirs []string
	for _, d := range cfg.Dirs {
		d = filepath.Clean(d)
		if slices.Contains(dirs, d) {
			continue
		}
		if err := w.Add(d); err != nil {
			return err
		}
		dirs = append(dirs, d)
		logger.Debug("watching %s", d)
	}

	debounce := cfg.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	ticker := time.NewTicker(debounce)
	defer ticker.Stop()

	pending := false
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if cfg.Match != nil && !cfg.Match(event.Name) {
				continue
			}
			logger.Debug("change detected: %s", event.Name)
			pending = true
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error(err, "watcher error")
		case <-ticker.C:
			if pending {
				pending = false
				onChange()
			}
		}
	}
}
