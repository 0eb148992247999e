package watch

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	ferrors "git.home.luguber.info/inful/sitefreeze/internal/foundation/errors"
	"git.home.luguber.info/inful/sitefreeze/internal/logfields"
)

// DefaultDebounce is the quiet period after the last change before a
// regeneration starts.
const DefaultDebounce = 300 * time.Millisecond

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce overrides DefaultDebounce.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) { w.debounce = d }
}

// WithIgnore excludes paths (and everything below them) from watching,
// typically the output folder.
func WithIgnore(paths ...string) Option {
	return func(w *Watcher) {
		for _, p := range paths {
			if p == "" {
				continue
			}
			if abs, err := filepath.Abs(p); err == nil {
				w.ignore = append(w.ignore, abs)
			}
		}
	}
}

// Watcher regenerates when files below its roots change.
type Watcher struct {
	fsw      *fsnotify.Watcher
	run      Func
	debounce time.Duration
	ignore   []string

	mu      sync.Mutex
	watched map[string]bool
}

// New creates a Watcher and registers every existing directory below roots.
// Missing roots are skipped.
func New(roots []string, run Func, opts ...Option) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryRuntime, "failed to create file watcher").Build()
	}
	w := &Watcher{fsw: fsw, run: run, debounce: DefaultDebounce, watched: map[string]bool{}}
	for _, o := range opts {
		o(w)
	}
	for _, root := range roots {
		abs, aerr := filepath.Abs(root)
		if aerr != nil {
			_ = fsw.Close()
			return nil, ferrors.WrapError(aerr, ferrors.CategoryConfig, "resolve watch root").
				WithContext("path", root).Build()
		}
		if _, serr := os.Stat(abs); serr != nil {
			slog.Debug("Skipping missing watch root", logfields.Path(abs))
			continue
		}
		if err := w.addTree(abs); err != nil {
			_ = fsw.Close()
			return nil, err
		}
	}
	return w, nil
}

// Watched returns the number of registered directories.
func (w *Watcher) Watched() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.watched)
}

func (w *Watcher) addTree(root string) error {
	return filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if p == root {
				return err
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if p != root && (Ignored(d.Name()) || w.excluded(p)) {
			return filepath.SkipDir
		}
		w.mu.Lock()
		defer w.mu.Unlock()
		if w.watched[p] {
			return nil
		}
		if err := w.fsw.Add(p); err != nil {
			return ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to watch directory").
				WithContext("path", p).Build()
		}
		w.watched[p] = true
		return nil
	})
}

func (w *Watcher) excluded(p string) bool {
	for _, ig := range w.ignore {
		rel, err := filepath.Rel(ig, p)
		if err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if ev.Op == fsnotify.Chmod {
		return false
	}
	if Ignored(filepath.Base(ev.Name)) {
		return false
	}
	abs, err := filepath.Abs(ev.Name)
	if err != nil {
		return false
	}
	return !w.excluded(abs)
}

// Ignored reports whether a file name belongs to hidden or editor
// temporary files.
func Ignored(name string) bool {
	switch {
	case name == "":
		return true
	case strings.HasPrefix(name, "."), strings.HasPrefix(name, "#"):
		return true
	case strings.HasSuffix(name, "~"):
		return true
	}
	switch filepath.Ext(name) {
	case ".swp", ".swx", ".tmp", ".part":
		return true
	}
	return false
}

// Run processes events until ctx is canceled. Changes arriving during a
// regeneration queue exactly one follow-up run.
func (w *Watcher) Run(ctx context.Context) error {
	defer func() { _ = w.fsw.Close() }()

	pending := make(chan struct{}, 1)
	signal := func() {
		select {
		case pending <- struct{}{}:
		default:
		}
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			select {
			case <-ctx.Done():
				return
			case <-pending:
				execute(ctx, "watch", w.run)
			}
		}
	}()

	var timer *time.Timer
	stopTimer := func() {
		if timer != nil {
			timer.Stop()
		}
	}

	errs := w.fsw.Errors
	slog.Info("Watching for changes", slog.Int("directories", w.Watched()))
	for {
		select {
		case <-ctx.Done():
			stopTimer()
			<-done
			return nil
		case ev, ok := <-w.fsw.Events:
			if !ok {
				stopTimer()
				<-done
				return nil
			}
			if !w.relevant(ev) {
				continue
			}
			if ev.Has(fsnotify.Create) {
				if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
					if err := w.addTree(ev.Name); err != nil {
						slog.Warn("Failed to watch new directory", logfields.Path(ev.Name), logfields.Error(err))
					}
				}
			}
			slog.Debug("Change detected", logfields.Path(ev.Name), slog.String("op", ev.Op.String()))
			stopTimer()
			timer = time.AfterFunc(w.debounce, signal)
		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			slog.Error("File watcher error", logfields.Error(err))
		}
	}
}
