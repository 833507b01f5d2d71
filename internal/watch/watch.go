// Package watch reruns a function when any of a set of files changes.
// tlgen uses it to regenerate bindings while a schema is being edited.
package watch

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/teranos/tlgen/errors"
	"github.com/teranos/tlgen/logger"
)

// DefaultDebounce is the quiet period after the last change before Func runs
const DefaultDebounce = 300 * time.Millisecond

// Func is invoked after a debounced change. Its error is logged; watching
// continues.
type Func func(ctx context.Context) error

// Watcher debounces file system events for a fixed set of files
type Watcher struct {
	paths    map[string]bool
	fn       Func
	debounce time.Duration
	watcher  *fsnotify.Watcher
	log      *zap.SugaredLogger

	// Runs is signalled after every invocation of fn, for tests
	runs chan error
}

// New watches the parent directories of paths so that editors which
// replace files on save are still observed.
func New(fn Func, debounce time.Duration, paths ...string) (*Watcher, error) {
	if len(paths) == 0 {
		return nil, errors.New("no paths to watch")
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create fsnotify watcher")
	}

	w := &Watcher{
		paths:    make(map[string]bool, len(paths)),
		fn:       fn,
		debounce: debounce,
		watcher:  fw,
		log:      logger.ComponentLogger("watch"),
	}

	dirs := map[string]bool{}
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			fw.Close()
			return nil, errors.Wrapf(err, "failed to resolve %s", p)
		}
		w.paths[abs] = true
		dir := filepath.Dir(abs)
		if dirs[dir] {
			continue
		}
		dirs[dir] = true
		if err := fw.Add(dir); err != nil {
			fw.Close()
			return nil, errors.WithHint(
				errors.Wrapf(err, "failed to watch %s", dir),
				"the directory of every watched file must exist")
		}
	}
	return w, nil
}

// Run blocks until ctx is done, calling fn once per burst of changes.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.watcher.Close()

	// Reset and Stop never leave a stale tick behind since Go 1.23
	timer := time.NewTimer(w.debounce)
	timer.Stop()

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			w.log.Debugw("change detected", logger.FieldFile, event.Name, "op", event.Op.String())
			timer.Reset(w.debounce)

		case <-timer.C:
			start := time.Now()
			err := w.fn(ctx)
			if err != nil {
				w.log.Errorw("rerun failed", logger.FieldError, err)
			} else {
				w.log.Infow("rerun complete", logger.FieldDurationMS, time.Since(start).Milliseconds())
			}
			if w.runs != nil {
				w.runs <- err
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.log.Warnw("watcher error", logger.FieldError, err)
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
		return false
	}
	abs, err := filepath.Abs(event.Name)
	if err != nil {
		return false
	}
	return w.paths[abs]
}
