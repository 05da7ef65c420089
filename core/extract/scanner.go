// Package extract walks a source tree and produces file, declaration, and
// dependency records for the graph build.
//
// Extraction is lexical and pattern-based, not a real parser. That is an
// accepted approximation: the per-language rules live behind the Rules
// interface so an AST-backed implementation can be substituted without
// touching the graph or query layers.
package extract

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gobwas/glob"
)

// =============================================================================
// Configuration
// =============================================================================

// ScanConfig holds configuration for the file scanner.
type ScanConfig struct {
	// RootPath is the directory to scan (required).
	RootPath string

	// Extensions is the file extension allow-list (e.g. [".go", ".ts"]).
	// If empty, the extensions of all registered language rules are used.
	Extensions []string

	// ExcludePatterns are glob patterns for paths to exclude.
	ExcludePatterns []string

	// MaxFileSize is the maximum file size in bytes to read (default 10MB).
	MaxFileSize int64
}

// DefaultMaxFileSize is the default maximum file size (10MB).
const DefaultMaxFileSize int64 = 10 * 1024 * 1024

// defaultExcludedDirs are always skipped: version-control metadata, build
// output, and dependency caches.
var defaultExcludedDirs = map[string]struct{}{
	".git":         {},
	".hg":          {},
	".svn":         {},
	"node_modules": {},
	"vendor":       {},
	"__pycache__":  {},
	".next":        {},
	"dist":         {},
	"build":        {},
	".cache":       {},
	"target":       {},
	"bin":          {},
	"obj":          {},
	".idea":        {},
	".vscode":      {},
}

// =============================================================================
// FileInfo
// =============================================================================

// FileInfo describes a discovered source file.
type FileInfo struct {
	// Path is the absolute path to the file.
	Path string

	// RelPath is the path relative to the scan root, slash-separated.
	RelPath string

	// Size is the file size in bytes.
	Size int64

	// ModTime is when the file was last modified.
	ModTime time.Time

	// Extension is the file extension including the dot (e.g. ".go").
	Extension string
}

// =============================================================================
// Errors
// =============================================================================

var (
	// ErrRootPathEmpty indicates the root path was not specified.
	ErrRootPathEmpty = errors.New("root path cannot be empty")

	// ErrRootPathNotExist indicates the root path does not exist.
	ErrRootPathNotExist = errors.New("root path does not exist")

	// ErrRootPathNotDir indicates the root path is not a directory.
	ErrRootPathNotDir = errors.New("root path is not a directory")

	// ErrInvalidPattern indicates a glob pattern could not be compiled.
	ErrInvalidPattern = errors.New("invalid glob pattern")
)

// =============================================================================
// Scanner
// =============================================================================

// Scanner walks a directory tree and yields files matching the extension
// allow-list and directory exclude rules.
type Scanner struct {
	config          ScanConfig
	extensions      map[string]struct{}
	excludeMatchers []glob.Glob
	maxFileSize     int64
}

// NewScanner creates a new Scanner with the given configuration.
// Patterns are not compiled until Scan is called.
func NewScanner(config ScanConfig) *Scanner {
	maxSize := config.MaxFileSize
	if maxSize <= 0 {
		maxSize = DefaultMaxFileSize
	}

	extensions := make(map[string]struct{}, len(config.Extensions))
	for _, ext := range config.Extensions {
		extensions[strings.ToLower(ext)] = struct{}{}
	}

	return &Scanner{
		config:      config,
		extensions:  extensions,
		maxFileSize: maxSize,
	}
}

// Scan walks the configured root path and returns a channel of FileInfo.
// The channel is closed when scanning completes or the context is cancelled.
// Returns an error if the root path is invalid or patterns cannot compile.
func (s *Scanner) Scan(ctx context.Context) (<-chan *FileInfo, error) {
	if err := s.validateConfig(); err != nil {
		return nil, err
	}
	if err := s.compilePatterns(); err != nil {
		return nil, err
	}

	fileCh := make(chan *FileInfo)
	go s.scanDirectory(ctx, fileCh)
	return fileCh, nil
}

// validateConfig checks that the scanner configuration is valid.
func (s *Scanner) validateConfig() error {
	if s.config.RootPath == "" {
		return ErrRootPathEmpty
	}

	info, err := os.Stat(s.config.RootPath)
	if os.IsNotExist(err) {
		return ErrRootPathNotExist
	}
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return ErrRootPathNotDir
	}
	return nil
}

// compilePatterns compiles the exclude glob patterns.
func (s *Scanner) compilePatterns() error {
	matchers := make([]glob.Glob, 0, len(s.config.ExcludePatterns))
	for _, pattern := range s.config.ExcludePatterns {
		matcher, err := glob.Compile(pattern, '/')
		if err != nil {
			return errors.Join(ErrInvalidPattern, err)
		}
		matchers = append(matchers, matcher)
	}
	s.excludeMatchers = matchers
	return nil
}

// scanDirectory walks the root path and sends matching files to the channel.
// Always closes the channel when done. Walk errors on individual entries are
// skipped so one unreadable directory never aborts discovery.
func (s *Scanner) scanDirectory(ctx context.Context, fileCh chan<- *FileInfo) {
	defer close(fileCh)

	root := s.config.RootPath
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err != nil {
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			if _, excluded := defaultExcludedDirs[d.Name()]; excluded {
				return filepath.SkipDir
			}
			return nil
		}

		info := s.describe(root, path, d)
		if info == nil {
			return nil
		}

		select {
		case fileCh <- info:
		case <-ctx.Done():
			return ctx.Err()
		}
		return nil
	})
}

// describe returns FileInfo for a path, or nil when the file is filtered out.
func (s *Scanner) describe(root, path string, d fs.DirEntry) *FileInfo {
	ext := strings.ToLower(filepath.Ext(path))
	if len(s.extensions) > 0 {
		if _, ok := s.extensions[ext]; !ok {
			return nil
		}
	}

	rel, err := filepath.Rel(root, path)
	if err != nil {
		return nil
	}
	rel = filepath.ToSlash(rel)

	for _, matcher := range s.excludeMatchers {
		if matcher.Match(rel) {
			return nil
		}
	}

	stat, err := d.Info()
	if err != nil {
		return nil
	}
	if stat.Size() > s.maxFileSize {
		return nil
	}

	return &FileInfo{
		Path:      path,
		RelPath:   rel,
		Size:      stat.Size(),
		ModTime:   stat.ModTime(),
		Extension: ext,
	}
}
