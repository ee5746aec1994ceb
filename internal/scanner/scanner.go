// Package scanner discovers analysis text files for batch rendering.
package scanner

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// DefaultMaxFileSize is the maximum analysis file size to process (1 MB).
const DefaultMaxFileSize int64 = 1 << 20

// skippedDirs are directory names skipped entirely during traversal.
var skippedDirs = []string{
	".git",
	"node_modules",
	"vendor",
	".codeviz",
	"dist",
	"build",
	".idea",
	".vscode",
}

// FileInfo holds metadata about one discovered analysis file.
type FileInfo struct {
	Path    string // Absolute path on disk.
	RelPath string // Path relative to the root directory, forward slashes.
	Size    int64  // File size in bytes.
}

// Config controls the behaviour of Scan.
type Config struct {
	RootDir     string   // Root directory to scan.
	Include     []string // Glob patterns; only matching files are included.
	Exclude     []string // Glob patterns; matching files are excluded.
	MaxFileSize int64    // Files larger than this are skipped (0 = use default).
}

// Scan traverses the directory tree rooted at cfg.RootDir and returns
// every analysis file that passes the include/exclude filters.
func Scan(cfg Config) ([]FileInfo, error) {
	root, err := filepath.Abs(cfg.RootDir)
	if err != nil {
		return nil, fmt.Errorf("scanner: resolve root: %w", err)
	}

	maxSize := cfg.MaxFileSize
	if maxSize <= 0 {
		maxSize = DefaultMaxFileSize
	}

	var files []FileInfo

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			// Skip entries we cannot read instead of aborting.
			return nil
		}

		if d.IsDir() {
			if shouldSkipDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}

		relPath, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}

		if !matchesInclude(relPath, cfg.Include) {
			return nil
		}
		if matchesExclude(relPath, cfg.Exclude) {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return nil
		}
		if info.Size() > maxSize {
			return nil
		}

		files = append(files, FileInfo{
			Path:    path,
			RelPath: filepath.ToSlash(relPath),
			Size:    info.Size(),
		})
		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("scanner: traversal: %w", err)
	}

	return files, nil
}

func shouldSkipDir(name string) bool {
	for _, skip := range skippedDirs {
		if strings.EqualFold(name, skip) {
			return true
		}
	}
	return false
}

// matchesInclude returns true if relPath matches any include pattern.
// An empty pattern list includes everything.
func matchesInclude(relPath string, patterns []string) bool {
	if len(patterns) == 0 {
		return true
	}
	return matchesAny(relPath, patterns)
}

// matchesExclude returns true if relPath matches any exclude pattern.
func matchesExclude(relPath string, patterns []string) bool {
	if len(patterns) == 0 {
		return false
	}
	return matchesAny(relPath, patterns)
}

// matchesAny checks relPath against the given glob patterns. It uses
// doublestar for ** support and also matches against the bare filename.
func matchesAny(relPath string, patterns []string) bool {
	normalized := filepath.ToSlash(relPath)

	for _, pattern := range patterns {
		pattern = filepath.ToSlash(pattern)

		if matched, err := doublestar.PathMatch(pattern, normalized); err == nil && matched {
			return true
		}

		base := filepath.Base(normalized)
		if matched, err := doublestar.PathMatch(pattern, base); err == nil && matched {
			return true
		}
	}
	return false
}
