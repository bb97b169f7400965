package generator

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// watchDebounce coalesces the bursts of events editors produce on save.
const watchDebounce = 200 * time.Millisecond

// Watch generates once, then regenerates whenever a Go source file under
// the pattern roots changes, until ctx is done. Each run uses a fresh
// session. done, if non-nil, is called after every run.
func (g *Generator) Watch(ctx context.Context, done func(*Report, error), patterns ...string) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() {
		_ = w.Close()
	}()

	for _, root := range watchRoots(patterns) {
		err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
			if err != nil || !d.IsDir() {
				return nil
			}
			if p != root && skipDir(d.Name()) {
				return filepath.SkipDir
			}
			return w.Add(p)
		})
		if err != nil {
			return err
		}
	}

	run := func() {
		report, err := g.Generate(patterns...)
		if done != nil {
			done(report, err)
		}
	}
	run()

	timer := time.NewTimer(watchDebounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Op&fsnotify.Create == fsnotify.Create {
				if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() && !skipDir(fi.Name()) {
					_ = w.Add(ev.Name)
					continue
				}
			}
			if !isSourceFile(filepath.Base(ev.Name)) {
				continue
			}
			g.opts.Logger.Debug("source changed", slog.String("file", ev.Name), slog.String("op", ev.Op.String()))
			timer.Reset(watchDebounce)
		case <-timer.C:
			run()
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			g.opts.Logger.Warn("watch error", slog.String("err", err.Error()))
		}
	}
}

// watchRoots returns the directories to watch for the given patterns.
func watchRoots(patterns []string) []string {
	seen := make(map[string]bool)
	var roots []string
	for _, p := range patterns {
		root := strings.TrimSuffix(p, "/...")
		if root == "" {
			root = "."
		}
		if !seen[root] {
			seen[root] = true
			roots = append(roots, root)
		}
	}
	return roots
}

func skipDir(name string) bool {
	return strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") || name == "vendor" || name == "testdata"
}
