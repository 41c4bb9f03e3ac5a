package main

import (
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// kernelWatcher signals Changed when the watched kernel file is written or
// replaced. The directory is watched so editors that save by rename are seen.
type kernelWatcher struct {
	watcher *fsnotify.Watcher
	path    string
	changed chan struct{}
	done    chan struct{}
}

func newKernelWatcher(log *zap.Logger, path string) (*kernelWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("kernel file path: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}

	w := &kernelWatcher{
		watcher: watcher,
		path:    abs,
		changed: make(chan struct{}, 1),
		done:    make(chan struct{}),
	}
	go w.run(log)
	return w, nil
}

func (w *kernelWatcher) run(log *zap.Logger) {
	defer close(w.done)
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			log.Debug("kernel file changed", zap.String("path", event.Name), zap.Stringer("op", event.Op))
			select {
			case w.changed <- struct{}{}:
			default:
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Warn("kernel watcher", zap.Error(err))
		}
	}
}

// Changed receives once per burst of changes not yet consumed.
func (w *kernelWatcher) Changed() <-chan struct{} {
	return w.changed
}

func (w *kernelWatcher) Close() error {
	err := w.watcher.Close()
	<-w.done
	return err
}
