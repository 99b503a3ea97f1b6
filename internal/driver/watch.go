package driver

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"buble/internal/buildpipeline"
	"buble/internal/trace"
)

// WatchDebounce is how long a burst of file events is collected before the
// changed inputs are rebuilt.
var WatchDebounce = 100 * time.Millisecond

// Watch builds every input, then rebuilds changed inputs until ctx ends.
// report receives the result of each build. Deleting an input deletes its
// output.
func (b *Builder) Watch(ctx context.Context, sink buildpipeline.ProgressSink, report func(*BuildResult)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := b.addRecursive(watcher, b.cfg.SrcDir()); err != nil {
		return err
	}

	res, err := b.Build(ctx, sink)
	if err != nil {
		return ignoreCanceled(ctx, err)
	}
	if report != nil {
		report(res)
	}

	tracer := trace.FromContext(ctx)
	pending := make(map[string]struct{})
	var timer *time.Timer
	var timerC <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if !b.cfg.Skips(event.Name) {
						_ = b.addRecursive(watcher, event.Name)
						b.collect(event.Name, pending)
					}
					continue
				}
			}
			if !b.cfg.Matches(event.Name) || b.inOutDir(event.Name) {
				continue
			}
			switch {
			case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
				b.forget(event.Name)
				delete(pending, event.Name)
				continue
			case event.Has(fsnotify.Write), event.Has(fsnotify.Create):
				pending[event.Name] = struct{}{}
			default:
				continue
			}

			// Reset or start debounce timer
			if timer == nil {
				timer = time.NewTimer(WatchDebounce)
				timerC = timer.C
			} else {
				timer.Reset(WatchDebounce)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			trace.Point(tracer, trace.ScopeDriver, "watch", err.Error(), trace.CurrentSpan(ctx))

		case <-timerC:
			timer, timerC = nil, nil
			files := make([]string, 0, len(pending))
			for path := range pending {
				files = append(files, path)
			}
			clear(pending)
			sort.Strings(files)

			res, err := b.BuildFiles(ctx, files, sink)
			if err != nil {
				return ignoreCanceled(ctx, err)
			}
			if report != nil {
				report(res)
			}
		}
	}
}

// addRecursive adds a directory and all subdirectories to the watch list.
func (b *Builder) addRecursive(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // Ignore errors, continue walking
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && b.cfg.Skips(path) {
			return filepath.SkipDir
		}
		return w.Add(path)
	})
}

// collect queues the inputs of a directory that appeared after the watch
// started.
func (b *Builder) collect(dir string, pending map[string]struct{}) {
	_ = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if path != dir && b.cfg.Skips(path) {
				return filepath.SkipDir
			}
			return nil
		}
		if b.cfg.Matches(path) {
			pending[path] = struct{}{}
		}
		return nil
	})
}

func (b *Builder) inOutDir(path string) bool {
	rel, err := filepath.Rel(b.cfg.OutPath(), path)
	return err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// forget drops a removed input and its output.
func (b *Builder) forget(path string) {
	b.mem.Forget(path)
	out, err := b.OutputPath(path)
	if err != nil {
		return
	}
	_ = os.Remove(out)
	_ = os.Remove(out + ".map")
}

func ignoreCanceled(ctx context.Context, err error) error {
	if ctx.Err() != nil && (errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)) {
		return nil
	}
	return err
}
