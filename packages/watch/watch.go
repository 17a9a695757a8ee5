// Package watch re-runs an action when input files change on disk.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

const (
	// DebounceDelay is how long a burst of events must settle before firing
	DebounceDelay = 300 * time.Millisecond
	// MinInterval is the shortest gap between two consecutive firings
	MinInterval = time.Second
)

type Watcher struct {
	files    map[string]bool
	debounce time.Duration
	limiter  *rate.Limiter
	logger   zerolog.Logger

	mu    sync.Mutex
	timer *time.Timer
}

type Option func(*Watcher)

func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		w.debounce = d
	}
}

// WithMinInterval sets the minimum time between firings. Zero disables
// the limit.
func WithMinInterval(d time.Duration) Option {
	return func(w *Watcher) {
		if d <= 0 {
			w.limiter = rate.NewLimiter(rate.Inf, 1)
			return
		}
		w.limiter = rate.NewLimiter(rate.Every(d), 1)
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(w *Watcher) {
		w.logger = logger
	}
}

// New watches files. Their parent directories are watched so editors that
// replace files on save are still seen.
func New(files []string, opts ...Option) (*Watcher, error) {
	if len(files) == 0 {
		return nil, fmt.Errorf("nothing to watch")
	}

	w := &Watcher{
		files:    make(map[string]bool, len(files)),
		debounce: DebounceDelay,
		limiter:  rate.NewLimiter(rate.Every(MinInterval), 1),
		logger:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(w)
	}

	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			return nil, fmt.Errorf("resolve %s: %w", f, err)
		}
		w.files[abs] = true
	}

	return w, nil
}

// Run calls onChange after each settled change until ctx is done. Calls
// are made from a single goroutine, so a slow onChange is never overlapped
// by the next one; changes that settle meanwhile collapse into one call.
func (w *Watcher) Run(ctx context.Context, onChange func(path string)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	dirs := make(map[string]bool)
	for f := range w.files {
		dir := filepath.Dir(f)
		if dirs[dir] {
			continue
		}
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
		dirs[dir] = true
	}

	ctx, cancel := context.WithCancel(ctx)
	fire := make(chan string, 1)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		w.fireLoop(ctx, fire, onChange)
	}()

	defer func() {
		w.stopTimer()
		cancel()
		wg.Wait()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !w.files[filepath.Clean(event.Name)] {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			w.logger.Debug().Str("file", event.Name).Str("op", event.Op.String()).Msg("file changed")
			w.schedule(event.Name, fire)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn().Err(err).Msg("watcher error")
		}
	}
}

func (w *Watcher) fireLoop(ctx context.Context, fire <-chan string, onChange func(string)) {
	for {
		select {
		case <-ctx.Done():
			return
		case path := <-fire:
			if err := w.limiter.Wait(ctx); err != nil {
				return
			}
			onChange(path)
		}
	}
}

// schedule restarts the debounce timer. When it expires the path is queued
// for fireLoop unless a firing is already queued.
func (w *Watcher) schedule(path string, fire chan<- string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}

	w.timer = time.AfterFunc(w.debounce, func() {
		select {
		case fire <- path:
		default:
			w.logger.Debug().Str("file", path).Msg("change folded into queued re-run")
		}
	})
}

func (w *Watcher) stopTimer() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
}
