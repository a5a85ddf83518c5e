// Copyright © 2024 The spreadlint authors

package cmd

import (
	"context"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// watchSet describes which paths a --watch run cares about: every
// JavaScript file under a "dir/..." root plus the files named directly.
type watchSet struct {
	roots    []string
	files    map[string]bool
	excludes []string
}

func newWatchSet(args, excludes []string) *watchSet {
	ws := &watchSet{files: make(map[string]bool), excludes: excludes}
	for _, arg := range args {
		if dir, ok := recursiveRoot(arg); ok {
			ws.roots = append(ws.roots, filepath.Clean(dir))
			continue
		}
		ws.files[filepath.Clean(arg)] = true
	}
	return ws
}

// wants reports whether a change to path should trigger a re-lint.
func (ws *watchSet) wants(path string) bool {
	path = filepath.Clean(path)
	if matchesAny(path, ws.excludes) {
		return false
	}
	if ws.files[path] {
		return true
	}
	return isJSFile(path) && ws.underRoot(path)
}

func (ws *watchSet) underRoot(path string) bool {
	for _, root := range ws.roots {
		if within(root, path) {
			return true
		}
	}
	return false
}

// dirs returns the directories to register with the watcher.
func (ws *watchSet) dirs() ([]string, error) {
	seen := make(map[string]bool)
	for _, root := range ws.roots {
		if err := ws.walkDirs(root, seen); err != nil {
			return nil, fmt.Errorf("watching %s: %w", root, err)
		}
	}
	for f := range ws.files {
		seen[filepath.Dir(f)] = true
	}
	return sortedKeys(seen), nil
}

// subdirs returns dir and its watchable descendants, or nothing when dir
// itself is skipped.
func (ws *watchSet) subdirs(dir string) ([]string, error) {
	dir = filepath.Clean(dir)
	if ws.skipDir(dir) {
		return nil, nil
	}
	seen := make(map[string]bool)
	if err := ws.walkDirs(dir, seen); err != nil {
		return nil, err
	}
	return sortedKeys(seen), nil
}

// walkDirs adds root and every directory below it that is not skipped.
func (ws *watchSet) walkDirs(root string, seen map[string]bool) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && ws.skipDir(path) {
			return filepath.SkipDir
		}
		seen[path] = true
		return nil
	})
}

func (ws *watchSet) skipDir(path string) bool {
	return filepath.Base(path) == "node_modules" || matchesAny(path, ws.excludes)
}

func sortedKeys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func within(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// isRelevant reports whether an event may have changed file content.
func isRelevant(ev fsnotify.Event) bool {
	return ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create)
}

// fileWatcher batches file events for a watch set.
type fileWatcher struct {
	set     *watchSet
	watcher *fsnotify.Watcher
	dirs    int
}

// newFileWatcher registers every directory of set. Events are delivered
// once run is called.
func newFileWatcher(set *watchSet) (*fileWatcher, error) {
	dirs, err := set.dirs()
	if err != nil {
		return nil, err
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	for _, d := range dirs {
		if err := w.Add(d); err != nil {
			_ = w.Close()
			return nil, fmt.Errorf("watching %s: %w", d, err)
		}
	}
	return &fileWatcher{set: set, watcher: w, dirs: len(dirs)}, nil
}

// Close stops the underlying watcher.
func (fw *fileWatcher) Close() error {
	return fw.watcher.Close()
}

// addTree registers a directory created after startup along with any
// directories already inside it.
func (fw *fileWatcher) addTree(dir string, logger *log.Logger) {
	dirs, err := fw.set.subdirs(dir)
	if err != nil {
		logger.Printf("watch %s: %v", dir, err)
	}
	for _, d := range dirs {
		if err := fw.watcher.Add(d); err != nil {
			logger.Printf("watch %s: %v", d, err)
			continue
		}
		fw.dirs++
	}
}

// run calls onChange with the changed paths once no further event has
// arrived for delay. It returns when ctx is done or the watcher closes.
func (fw *fileWatcher) run(ctx context.Context, delay time.Duration, logger *log.Logger, onChange func([]string)) {
	pending := make(map[string]bool)
	timer := time.NewTimer(delay)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			if ev.Has(fsnotify.Create) && fw.set.underRoot(ev.Name) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					fw.addTree(ev.Name, logger)
					continue
				}
			}
			if !isRelevant(ev) || !fw.set.wants(ev.Name) {
				continue
			}
			pending[filepath.Clean(ev.Name)] = true
			timer.Reset(delay)
		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			logger.Printf("watch error: %v", err)
		case <-timer.C:
			if len(pending) == 0 {
				continue
			}
			paths := make([]string, 0, len(pending))
			for p := range pending {
				paths = append(paths, p)
			}
			sort.Strings(paths)
			pending = make(map[string]bool)
			onChange(paths)
		}
	}
}
