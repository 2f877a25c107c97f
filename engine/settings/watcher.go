package settings

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/spaghettifunk/lumina/engine/core"
)

// Watcher hot-reloads the graphics settings file. On every change it reparses
// the file and fires EVENT_CODE_SETTINGS_RELOADED with the new settings; the
// engine picks them up on the next frame.
type Watcher struct {
	path    string
	watcher *fsnotify.Watcher

	mu      sync.RWMutex
	current GraphicsSettings

	done chan struct{}
}

// NewWatcher loads the file and starts watching its directory. Editors often
// replace files on save, so watching the file itself would lose the watch
// after the first write.
func NewWatcher(path string) (*Watcher, error) {
	current, err := Load(path)
	if err != nil {
		return nil, err
	}
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("settings: creating watcher: %w", err)
	}
	if err := fsWatcher.Add(filepath.Dir(path)); err != nil {
		fsWatcher.Close()
		return nil, fmt.Errorf("settings: watching %s: %w", filepath.Dir(path), err)
	}
	w := &Watcher{
		path:    path,
		watcher: fsWatcher,
		current: current,
		done:    make(chan struct{}),
	}
	go w.run()
	return w, nil
}

// Current returns the last successfully loaded settings.
func (w *Watcher) Current() GraphicsSettings {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.current
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	close(w.done)
	return w.watcher.Close()
}

func (w *Watcher) run() {
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Name != w.path {
				continue
			}
			if !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Create) {
				continue
			}
			w.reload()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			core.LogWarn("settings watcher: %s", err.Error())
		}
	}
}

func (w *Watcher) reload() {
	settings, err := Load(w.path)
	if err != nil {
		// Keep the previous settings on a bad edit.
		core.LogWarn("settings reload failed: %s", err.Error())
		return
	}
	w.mu.Lock()
	w.current = settings
	w.mu.Unlock()
	core.LogInfo("graphics settings reloaded from %s", w.path)
	core.EventFire(core.EventContext{
		Type: core.EVENT_CODE_SETTINGS_RELOADED,
		Data: settings,
	})
}
