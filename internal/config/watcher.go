package config

import (
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// OptionsWatcher re-parses an options file whenever it is written, created or
// renamed into place.
type OptionsWatcher struct {
	watcher *fsnotify.Watcher
	done    chan struct{}
}

// WatchOptions starts watching path. onChange receives the re-parsed file or
// the parse error; it runs on the watcher goroutine.
func WatchOptions(path string, log zerolog.Logger, onChange func(OptionsFile, error)) (*OptionsWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", path, err)
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	// Editors often replace the file, so watch the directory.
	if err := w.Add(filepath.Dir(abs)); err != nil {
		w.Close()
		return nil, fmt.Errorf("watching %s: %w", path, err)
	}

	ow := &OptionsWatcher{watcher: w, done: make(chan struct{})}
	go ow.loop(abs, log, onChange)
	return ow, nil
}

func (ow *OptionsWatcher) loop(path string, log zerolog.Logger, onChange func(OptionsFile, error)) {
	defer close(ow.done)
	for {
		select {
		case e, ok := <-ow.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(e.Name) != path {
				continue
			}
			if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
				continue
			}
			log.Debug().Str("op", e.Op.String()).Str("file", e.Name).Msg("options file changed")
			onChange(LoadOptions(path))
		case err, ok := <-ow.watcher.Errors:
			if !ok {
				return
			}
			log.Warn().Err(err).Msg("options watcher error")
		}
	}
}

// Close stops the watcher and waits for its goroutine to exit.
func (ow *OptionsWatcher) Close() error {
	err := ow.watcher.Close()
	<-ow.done
	return err
}
