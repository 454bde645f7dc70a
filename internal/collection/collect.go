// Package collection enumerates candidate audio files under a collection
// root.
//
// The walk is realized eagerly and sorted so repeated runs over the same tree
// process files in the same order. Hidden path components and caller-supplied
// ignore folders are skipped wholesale.
package collection

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ErrNotDirectory indicates the collection root does not exist or is not a
// directory.
var ErrNotDirectory = errors.New("not a directory")

// audio extensions eligible for cataloging and reconciliation.
var collectExtensions = map[string]struct{}{
	".flac": {},
	".mp3":  {},
}

// Collect walks root and returns the sorted absolute paths of all candidate
// audio files. Ignore entries are folder names (not full paths), matched
// case-insensitively against every path component relative to root. Any
// component starting with a dot excludes the file.
func Collect(root string, ignore []string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %q", ErrNotDirectory, root)
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve collection root: %w", err)
	}

	ignoreSet := make(map[string]struct{}, len(ignore))
	for _, name := range ignore {
		name = strings.ToLower(strings.TrimSpace(name))
		if name != "" {
			ignoreSet[name] = struct{}{}
		}
	}

	var collected []string
	err = filepath.WalkDir(absRoot, func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			// Unreadable subtrees are skipped, not fatal.
			if entry != nil && entry.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		rel, relErr := filepath.Rel(absRoot, path)
		if relErr != nil || rel == "." {
			return nil
		}
		if entry.IsDir() {
			if excluded(rel, ignoreSet) {
				return filepath.SkipDir
			}
			return nil
		}
		if _, ok := collectExtensions[strings.ToLower(filepath.Ext(path))]; !ok {
			return nil
		}
		if excluded(rel, ignoreSet) {
			return nil
		}
		collected = append(collected, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %q: %w", absRoot, err)
	}

	sort.Strings(collected)
	return collected, nil
}

// excluded reports whether any component of the relative path is hidden or in
// the ignore set.
func excluded(rel string, ignore map[string]struct{}) bool {
	for _, part := range strings.Split(rel, string(filepath.Separator)) {
		if strings.HasPrefix(part, ".") {
			return true
		}
		if _, ok := ignore[strings.ToLower(part)]; ok {
			return true
		}
	}
	return false
}
