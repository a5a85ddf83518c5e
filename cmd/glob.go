// Copyright © 2024 The spreadlint authors

package cmd

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
)

// jsExts are the file extensions linted when a directory is expanded.
var jsExts = map[string]bool{
	".js":  true,
	".mjs": true,
	".cjs": true,
	".jsx": true,
}

func isJSFile(path string) bool {
	return jsExts[filepath.Ext(path)]
}

// expandArgs expands arguments, resolving patterns ending with "/..." to all
// JavaScript files found recursively under the given directory. Non-pattern
// arguments pass through unchanged. Paths matching an exclude pattern are
// dropped.
func expandArgs(args []string, excludes []string) ([]string, error) {
	var out []string
	for _, arg := range args {
		if dir, ok := recursiveRoot(arg); ok {
			files, err := findJSFiles(dir, excludes)
			if err != nil {
				return nil, fmt.Errorf("expanding %s: %w", arg, err)
			}
			out = append(out, files...)
		} else {
			out = append(out, arg)
		}
	}
	return filterExcludes(out, excludes), nil
}

// recursiveRoot returns the directory of a "dir/..." argument.
func recursiveRoot(arg string) (string, bool) {
	if arg == "..." {
		return ".", true
	}
	dir, ok := strings.CutSuffix(arg, "/...")
	if !ok {
		return "", false
	}
	if dir == "" {
		dir = "."
	}
	return dir, true
}

func findJSFiles(root string, excludes []string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && (d.Name() == "node_modules" || matchesAny(path, excludes)) {
				return filepath.SkipDir
			}
			return nil
		}
		if isJSFile(path) {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}

// filterExcludes removes paths matching any exclude pattern.
func filterExcludes(paths, excludes []string) []string {
	if len(excludes) == 0 {
		return paths
	}
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		if !matchesAny(p, excludes) {
			out = append(out, p)
		}
	}
	return out
}

// matchesAny reports whether path matches a pattern as a whole, by its base
// name, or by any of its directory components.
func matchesAny(path string, patterns []string) bool {
	path = filepath.ToSlash(path)
	for _, pat := range patterns {
		if ok, _ := filepath.Match(pat, path); ok {
			return true
		}
		for _, comp := range splitPath(path) {
			if ok, _ := filepath.Match(pat, comp); ok {
				return true
			}
		}
	}
	return false
}

// splitPath returns the slash-separated components of path.
func splitPath(path string) []string {
	var parts []string
	for _, p := range strings.Split(filepath.ToSlash(path), "/") {
		if p != "" && p != "." {
			parts = append(parts, p)
		}
	}
	return parts
}
