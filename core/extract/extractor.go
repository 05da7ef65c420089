package extract

import (
	"context"
	"log/slog"
	"os"
	"runtime"
	"sort"
	"strings"
	"sync"
)

// =============================================================================
// Results
// =============================================================================

// FileResult is the extraction output for one source file. It carries the
// node candidates and raw dependency/usage records the relationship builder
// consumes.
type FileResult struct {
	File         FileInfo
	Language     string
	LineCount    int
	Complexity   float64
	Declarations []Declaration
	Imports      []Import
	Calls        []string
}

// Summary reports what a Run produced, including contained failures.
type Summary struct {
	FilesDiscovered int
	FilesExtracted  int
	FilesSkipped    int
}

// =============================================================================
// Extractor
// =============================================================================

// Extractor discovers source files and runs per-language lexical extraction
// over them with a bounded worker pool. Per-file read failures are logged and
// skipped; they never abort the run.
type Extractor struct {
	scanner *Scanner
	rules   map[string]Rules
	workers int
	logger  *slog.Logger
	onSkip  func(relPath string)
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithWorkers bounds the extraction worker pool.
func WithWorkers(workers int) Option {
	return func(e *Extractor) {
		if workers > 0 {
			e.workers = workers
		}
	}
}

// WithLogger sets the logger. Nil selects slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Extractor) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithSkipHandler registers a callback invoked with the relative path of
// every file that is discovered but cannot be extracted.
func WithSkipHandler(fn func(relPath string)) Option {
	return func(e *Extractor) {
		e.onSkip = fn
	}
}

// WithRules replaces the per-language rule registry.
func WithRules(rules map[string]Rules) Option {
	return func(e *Extractor) {
		if len(rules) > 0 {
			e.rules = rules
		}
	}
}

// NewExtractor creates an Extractor for the given scan configuration. When
// the configuration has no extension allow-list, the registered language
// extensions are used.
func NewExtractor(config ScanConfig, opts ...Option) *Extractor {
	e := &Extractor{
		rules:   RulesByExtension(),
		workers: runtime.NumCPU(),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}

	if len(config.Extensions) == 0 {
		for ext := range e.rules {
			config.Extensions = append(config.Extensions, ext)
		}
	}
	e.scanner = NewScanner(config)
	return e
}

// Run discovers and extracts every matching file under the configured root.
// Results are sorted by relative path so downstream phases see a stable
// order. Only discovery setup errors are returned; per-file failures are
// contained in the summary.
func (e *Extractor) Run(ctx context.Context) ([]FileResult, Summary, error) {
	fileCh, err := e.scanner.Scan(ctx)
	if err != nil {
		return nil, Summary{}, err
	}

	var (
		mu      sync.Mutex
		results []FileResult
		summary Summary
	)

	var wg sync.WaitGroup
	for i := 0; i < e.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for info := range fileCh {
				result, ok := e.extractFile(ctx, info)
				mu.Lock()
				summary.FilesDiscovered++
				if ok {
					summary.FilesExtracted++
					results = append(results, result)
				} else {
					summary.FilesSkipped++
					if e.onSkip != nil {
						e.onSkip(info.RelPath)
					}
				}
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, summary, err
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].File.RelPath < results[j].File.RelPath
	})
	return results, summary, nil
}

// extractFile reads and lexes one file. A read failure logs a warning and
// reports ok=false.
func (e *Extractor) extractFile(ctx context.Context, info *FileInfo) (FileResult, bool) {
	if ctx.Err() != nil {
		return FileResult{}, false
	}

	raw, err := os.ReadFile(info.Path)
	if err != nil {
		e.logger.Warn("skipping unreadable file", "path", info.RelPath, "error", err)
		return FileResult{}, false
	}
	content := string(raw)

	result := FileResult{
		File:      *info,
		Language:  "unknown",
		LineCount: countLines(content),
	}

	rules, ok := e.rules[info.Extension]
	if ok {
		result.Language = rules.Language()
		result.Declarations = rules.Declarations(content)
		result.Imports = rules.Imports(content)
		result.Calls = ScanCalls(content)
	}

	result.Complexity = complexity(result.Declarations, content, result.LineCount)
	return result, true
}

// complexity is the cheap heuristic (functions + conditionals) / lines.
func complexity(decls []Declaration, content string, lines int) float64 {
	if lines == 0 {
		return 0
	}
	functions := 0
	for _, decl := range decls {
		if decl.Kind == DeclFunction {
			functions++
		}
	}
	return float64(functions+CountConditionals(content)) / float64(lines)
}

func countLines(content string) int {
	if content == "" {
		return 0
	}
	return strings.Count(content, "\n") + 1
}
