package orion

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/oliverbestmann/selis/glimpse"
)

// ShaderWatcher emits a glimpse.ShaderChanged event whenever a wgsl file
// in the watched directory is written or created.
type ShaderWatcher struct {
	watcher *fsnotify.Watcher
	events  chan glimpse.Event
	done    chan struct{}
}

func WatchShaders(dir string) (*ShaderWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	if err := watcher.Add(dir); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("watch %q: %w", dir, err)
	}

	w := &ShaderWatcher{
		watcher: watcher,
		events:  make(chan glimpse.Event, 16),
		done:    make(chan struct{}),
	}

	go w.loop()

	slog.Info("Watching shaders", slog.String("dir", dir))

	return w, nil
}

// Events returns the channel the ShaderChanged events are sent to.
func (w *ShaderWatcher) Events() <-chan glimpse.Event {
	return w.events
}

func (w *ShaderWatcher) Close() error {
	err := w.watcher.Close()
	<-w.done
	return err
}

func (w *ShaderWatcher) loop() {
	defer close(w.done)

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}

			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}

			if !strings.EqualFold(filepath.Ext(event.Name), ".wgsl") {
				continue
			}

			select {
			case w.events <- glimpse.ShaderChanged{Path: event.Name}:
			default:
				slog.Warn("Drop shader change event", slog.String("path", event.Name))
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}

			slog.Warn("Shader watcher failed", slog.String("err", err.Error()))
		}
	}
}
