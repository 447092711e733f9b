package config

import (
	"errors"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/spaghettifunk/anima-hengine/engine/core"
)

// Watcher keeps the latest valid configuration of a file. Invalid edits are
// logged and ignored, so Current always returns a usable configuration.
type Watcher struct {
	path    string
	current Config

	mutex sync.RWMutex

	done      chan struct{}
	fsnotify  *fsnotify.Watcher
	isClosed  bool
	listeners []func(Config)
	wg        sync.WaitGroup
}

// NewWatcher loads path and starts watching it for changes.
func NewWatcher(path string) (*Watcher, error) {
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}

	fsWatch, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	// Watch the directory: editors often replace the file instead of writing it.
	if err := fsWatch.Add(filepath.Dir(path)); err != nil {
		fsWatch.Close()
		return nil, err
	}

	w := &Watcher{
		path:     filepath.Clean(path),
		current:  cfg,
		done:     make(chan struct{}),
		fsnotify: fsWatch,
	}
	w.wg.Add(1)
	go w.start()
	return w, nil
}

func (w *Watcher) Current() Config {
	w.mutex.RLock()
	defer w.mutex.RUnlock()
	return w.current
}

// OnChange registers fn to be called with every configuration that replaces
// the current one.
func (w *Watcher) OnChange(fn func(Config)) {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	w.listeners = append(w.listeners, fn)
}

func (w *Watcher) Close() error {
	w.mutex.Lock()
	if w.isClosed {
		w.mutex.Unlock()
		return errors.New("config watcher already closed")
	}
	w.isClosed = true
	w.mutex.Unlock()

	close(w.done)
	w.wg.Wait()
	return nil
}

func (w *Watcher) start() {
	defer w.wg.Done()
	for {
		select {
		case e, ok := <-w.fsnotify.Events:
			if !ok {
				return
			}
			if filepath.Clean(e.Name) != w.path {
				continue
			}
			if e.Op&(fsnotify.Create|fsnotify.Write) != 0 {
				w.reload()
			}

		case err, ok := <-w.fsnotify.Errors:
			if !ok {
				return
			}
			core.LogError("config watcher: %s", err)

		case <-w.done:
			w.fsnotify.Close()
			return
		}
	}
}

func (w *Watcher) reload() {
	cfg, err := Load(w.path)
	if err != nil {
		core.LogWarn("ignoring configuration change: %s", err)
		return
	}

	w.mutex.Lock()
	w.current = cfg
	listeners := make([]func(Config), len(w.listeners))
	copy(listeners, w.listeners)
	w.mutex.Unlock()

	core.LogInfo("reloaded configuration from '%s'", w.path)
	for _, fn := range listeners {
		fn(cfg)
	}
}
