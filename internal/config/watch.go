package config

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/devmate-ai/devmate/internal/logging"
	"github.com/devmate-ai/devmate/pkg/types"
)

// Watcher reloads configuration when a config file changes on disk.
// Used by the serve command so allowlist and rule edits take effect
// without a restart.
type Watcher struct {
	watcher  *fsnotify.Watcher
	workDir  string
	onReload func(*types.Config)
	stopCh   chan struct{}
	doneCh   chan struct{}
	started  bool
	mu       sync.Mutex
}

// NewWatcher creates a watcher over the project's config locations.
// onReload is invoked with the freshly loaded config after each change.
func NewWatcher(workDir string, onReload func(*types.Config)) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	// Watch directories rather than files; editors replace files on save.
	dirs := []string{workDir, filepath.Join(workDir, ".devmate"), GetPaths().Config}
	watched := 0
	for _, dir := range dirs {
		if err := w.Add(dir); err == nil {
			watched++
		}
	}
	if watched == 0 {
		w.Close()
		return nil, fmt.Errorf("no config directory watchable under %s", workDir)
	}

	return &Watcher{
		watcher:  w,
		workDir:  workDir,
		onReload: onReload,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}, nil
}

// Start begins watching for config changes.
func (w *Watcher) Start() {
	w.mu.Lock()
	if w.started {
		w.mu.Unlock()
		return
	}
	w.started = true
	w.mu.Unlock()
	go w.run()
}

// Stop stops the watcher and waits for the loop to exit.
func (w *Watcher) Stop() {
	close(w.stopCh)
	w.watcher.Close()
	<-w.doneCh
}

func (w *Watcher) run() {
	defer close(w.doneCh)

	log := logging.Component("config")
	for {
		select {
		case <-w.stopCh:
			return
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if !isConfigFile(ev.Name) {
				continue
			}
			cfg, err := Load(w.workDir)
			if err != nil {
				log.Error().Err(err).Str("file", ev.Name).Msg("config reload failed")
				continue
			}
			log.Info().Str("file", ev.Name).Msg("config reloaded")
			w.onReload(cfg)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Error().Err(err).Msg("config watcher error")
		}
	}
}

func isConfigFile(path string) bool {
	base := filepath.Base(path)
	for _, name := range configNames() {
		if base == name {
			return true
		}
	}
	return false
}
