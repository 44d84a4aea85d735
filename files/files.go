package files

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"almanac/almanac"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

func Read(path string) (*almanac.Almanac, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	a, err := almanac.Parse(bufio.NewReader(file))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return a, nil
}

func Write(path string, report io.Reader) error {
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0666)
	if err != nil {
		return err
	}
	defer file.Close()

	if _, err = io.Copy(file, report); err != nil {
		return err
	}
	return nil
}

// Watcher calls back whenever a single file is written or replaced.
type Watcher struct {
	log     *zap.Logger
	path    string
	watcher *fsnotify.Watcher
	done    chan struct{}
}

// Watch watches the directory of path, since editors tend to replace files
// instead of writing them in place.
func Watch(path string, log *zap.Logger, onChange func()) (*Watcher, error) {
	if log == nil {
		log = zap.NewNop()
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create file watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watch %s: %w", path, err)
	}

	w := &Watcher{log: log, path: filepath.Clean(path), watcher: watcher, done: make(chan struct{})}
	go w.loop(onChange)
	return w, nil
}

func (w *Watcher) loop(onChange func()) {
	defer close(w.done)
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path || !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			w.log.Debug("input changed", zap.String("file", w.path), zap.Stringer("op", event.Op))
			onChange()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Warn("input watcher", zap.Error(err))
		}
	}
}

func (w *Watcher) Close() error {
	err := w.watcher.Close()
	<-w.done
	return err
}
