// Copyright 2026 Teradata
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
package manager

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// defaultWatchDebounce coalesces the burst of events an editor's save
// produces (write, then chmod, then rename-into-place) into one reload.
const defaultWatchDebounce = 500 * time.Millisecond

// FileWatcher watches a manager config file and reloads the manager when it
// changes on disk. Grounded on the teacher's pattern.HotReloader: watch the
// containing directory (so editors that replace-by-rename still fire an
// event on the watched name), debounce, then act.
type FileWatcher struct {
	manager  *Manager
	path     string
	debounce time.Duration
	logger   *zap.Logger

	watcher *fsnotify.Watcher

	debounceMu sync.Mutex
	timer      *time.Timer

	stopCh chan struct{}
	doneCh chan struct{}
	once   sync.Once
}

// WatchConfigFile starts a FileWatcher over path with the default debounce,
// reloading m whenever the file is written. Call Stop to release the
// underlying watcher.
func (m *Manager) WatchConfigFile(ctx context.Context, path string) (*FileWatcher, error) {
	return m.watchConfigFile(ctx, path, defaultWatchDebounce)
}

func (m *Manager) watchConfigFile(ctx context.Context, path string, debounce time.Duration) (*FileWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	dir := filepath.Dir(path)
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to watch config directory %s: %w", dir, err)
	}

	fw := &FileWatcher{
		manager:  m,
		path:     path,
		debounce: debounce,
		logger:   m.logger,
		watcher:  watcher,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}

	go fw.loop(ctx)
	return fw, nil
}

func (fw *FileWatcher) loop(ctx context.Context) {
	defer close(fw.doneCh)
	defer fw.watcher.Close()

	target := filepath.Clean(fw.path)

	for {
		select {
		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			fw.debounceReload()

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			fw.logger.Error("config file watcher error", zap.Error(err))

		case <-fw.stopCh:
			return

		case <-ctx.Done():
			return
		}
	}
}

func (fw *FileWatcher) debounceReload() {
	fw.debounceMu.Lock()
	defer fw.debounceMu.Unlock()

	if fw.timer != nil {
		fw.timer.Stop()
	}
	fw.timer = time.AfterFunc(fw.debounce, func() {
		if err := fw.manager.Reload(context.Background(), fw.path); err != nil {
			fw.logger.Error("config reload failed", zap.String("path", fw.path), zap.Error(err))
			return
		}
		fw.logger.Info("config reloaded", zap.String("path", fw.path))
	})
}

// Stop halts the watcher. Safe to call more than once.
func (fw *FileWatcher) Stop() {
	fw.once.Do(func() { close(fw.stopCh) })
	<-fw.doneCh
}

// Reload loads the config file at path and applies the difference against
// the manager's current server set: servers added to the file are started,
// servers removed from the file are stopped, and servers whose definition
// changed are restarted with the new definition. Servers already running
// with an unchanged definition are left untouched.
func (m *Manager) Reload(ctx context.Context, path string) error {
	next, err := LoadConfigFile(path)
	if err != nil {
		return err
	}
	if err := next.Validate(); err != nil {
		return fmt.Errorf("reloaded config is invalid: %w", err)
	}

	m.mu.Lock()
	current := m.config.Servers
	var toStop, toStart []string
	toStartConfig := make(map[string]ServerConfig)
	for name := range current {
		if _, stillPresent := next.Servers[name]; !stillPresent {
			toStop = append(toStop, name)
		}
	}
	for name, cfg := range next.Servers {
		prev, existed := current[name]
		if !existed || !sameServerConfig(prev, cfg) {
			if existed {
				toStop = append(toStop, name)
			}
			toStart = append(toStart, name)
			toStartConfig[name] = cfg
		}
	}
	m.config.Servers = next.Servers
	m.mu.Unlock()

	for _, name := range toStop {
		if err := m.StopServer(name); err != nil {
			m.logger.Warn("failed to stop server during reload", zap.String("server", name), zap.Error(err))
		}
	}
	for _, name := range toStart {
		cfg := toStartConfig[name]
		if !cfg.Enabled {
			continue
		}
		if err := m.AddServer(ctx, name, cfg); err != nil {
			m.logger.Error("failed to start server during reload", zap.String("server", name), zap.Error(err))
		}
	}

	return nil
}

func sameServerConfig(a, b ServerConfig) bool {
	if a.Enabled != b.Enabled || a.Command != b.Command || a.Transport != b.Transport || a.Timeout != b.Timeout {
		return false
	}
	if len(a.Args) != len(b.Args) {
		return false
	}
	for i := range a.Args {
		if a.Args[i] != b.Args[i] {
			return false
		}
	}
	if len(a.Env) != len(b.Env) {
		return false
	}
	for k, v := range a.Env {
		if b.Env[k] != v {
			return false
		}
	}
	return true
}
