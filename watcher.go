package main

import (
	"fmt"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

type configReloadedMsg struct {
	config *Config
}

type configErrorMsg struct {
	err error
}

// configWatcher reloads the YAML config when it changes on disk and hands
// the result to the TUI as a message.
type configWatcher struct {
	path    string
	watcher *fsnotify.Watcher
	reload  func() (*Config, error)
	updates chan tea.Msg
	stopCh  chan struct{}
	logger  *zap.Logger
}

func newConfigWatcher(path string, reload func() (*Config, error), logger *zap.Logger) (*configWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	// Editors save by renaming a temp file, so watch the directory.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to watch config directory: %w", err)
	}

	w := &configWatcher{
		path:    path,
		watcher: watcher,
		reload:  reload,
		updates: make(chan tea.Msg, 1),
		stopCh:  make(chan struct{}),
		logger:  logger,
	}
	go w.watchLoop()
	logger.Info("configuration watcher started", zap.String("path", path))
	return w, nil
}

func (w *configWatcher) Stop() {
	close(w.stopCh)
	w.watcher.Close()
}

// next waits for the following reload.
func (w *configWatcher) next() tea.Cmd {
	return func() tea.Msg {
		select {
		case msg := <-w.updates:
			return msg
		case <-w.stopCh:
			return nil
		}
	}
}

func (w *configWatcher) watchLoop() {
	var debounceTimer *time.Timer
	const debounceDuration = 100 * time.Millisecond

	for {
		select {
		case <-w.stopCh:
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != filepath.Base(w.path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(debounceDuration, w.handleConfigChange)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("file watcher error", zap.Error(err))
		}
	}
}

func (w *configWatcher) handleConfigChange() {
	w.logger.Info("configuration file changed, reloading", zap.String("path", w.path))

	var msg tea.Msg
	config, err := w.reload()
	if err != nil {
		w.logger.Error("invalid configuration, keeping current", zap.Error(err))
		msg = configErrorMsg{err: err}
	} else {
		msg = configReloadedMsg{config: config}
	}

	// Only the latest reload matters.
	select {
	case <-w.updates:
	default:
	}
	select {
	case w.updates <- msg:
	case <-w.stopCh:
	}
}
