package batch

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	debounceTick   = 250 * time.Millisecond
	debounceStable = 300 * time.Millisecond
)

// Watch processes inputs created or rewritten in the input directory until
// ctx is done. A file is picked up once it has been quiet for a short
// interval so half-copied files are not read.
func (r *Runner) Watch(ctx context.Context) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()
	if err := w.Add(r.opts.InDir); err != nil {
		return err
	}
	r.logger.Info("watching (debounced)", zap.String("dir", r.opts.InDir))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.opts.Workers)
	defer g.Wait()

	pending := map[string]time.Time{}
	ticker := time.NewTicker(debounceTick)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			name := filepath.Base(ev.Name)
			if !isInput(name) {
				continue
			}
			pending[name] = time.Now()
		case <-ticker.C:
			r.dispatchStable(gctx, g, pending, time.Now())
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			r.logger.Warn("watch error", zap.Error(err))
		}
	}
}

// dispatchStable starts the files that have been quiet long enough. A file
// that finds every worker busy stays pending for a later tick.
func (r *Runner) dispatchStable(ctx context.Context, g *errgroup.Group, pending map[string]time.Time, now time.Time) {
	for name, t := range pending {
		if now.Sub(t) <= debounceStable {
			continue
		}
		name := name
		if !g.TryGo(func() error {
			r.handle(ctx, name)
			return nil
		}) {
			return
		}
		delete(pending, name)
	}
}
