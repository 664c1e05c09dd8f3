// Package analyze is the public entry point of the phlin analyzer. It wires
// configuration loading, the shared symbol table, and the per-file engine
// together, and fans file processing out over a bounded worker pool.
package analyze

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/phlin-dev/phlin/internal"
	tt "github.com/phlin-dev/phlin/internal/types"
)

// Engine is the interface the processing helpers need from the analyzer.
type Engine interface {
	Run(filePath string) ([]tt.Issue, error)
	RunSource(source []byte) ([]tt.Issue, error)
	IgnoreRule(rule string)
	IgnorePath(path string)
	IgnoresPath(path string) bool
	Preload(filenames []string)
}

// New creates an engine from the configuration file at configurationPath.
// An empty path or a missing file falls back to the default configuration.
func New(configurationPath string) (*internal.Engine, error) {
	config, err := loadConfiguration(configurationPath)
	if err != nil {
		return nil, err
	}
	return internal.NewEngine(config), nil
}

func loadConfiguration(configurationPath string) (internal.Config, error) {
	if configurationPath == "" {
		return internal.DefaultConfig(), nil
	}
	if _, err := os.Stat(configurationPath); os.IsNotExist(err) {
		return internal.DefaultConfig(), nil
	}
	return internal.LoadConfig(configurationPath)
}

// ProcessSources analyzes in-memory sources sequentially.
func ProcessSources(
	ctx context.Context,
	logger *zap.Logger,
	engine Engine,
	sources [][]byte,
) ([]tt.Issue, error) {
	var allIssues []tt.Issue
	for i, source := range sources {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		issues, err := engine.RunSource(source)
		if err != nil {
			if logger != nil {
				logger.Error("Error processing source", zap.Int("source", i), zap.Error(err))
			}
			return nil, err
		}
		allIssues = append(allIssues, issues...)
	}

	return allIssues, nil
}

// ProcessFiles analyzes every given path (files or directories).
func ProcessFiles(
	ctx context.Context,
	logger *zap.Logger,
	engine Engine,
	paths []string,
) ([]tt.Issue, error) {
	var allIssues []tt.Issue
	for _, path := range paths {
		issues, err := ProcessPath(ctx, logger, engine, path)
		if err != nil {
			if logger != nil {
				logger.Error("Error processing path", zap.String("path", path), zap.Error(err))
			}
			return nil, err
		}
		allIssues = append(allIssues, issues...)
	}

	return allIssues, nil
}

// ProcessPath analyzes one file or directory tree. For directories the
// symbol table is preloaded from every file first, so cross-file instanceof
// and existence checks resolve, then files are analyzed in parallel.
func ProcessPath(
	ctx context.Context,
	logger *zap.Logger,
	engine Engine,
	path string,
) ([]tt.Issue, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("error accessing %s: %w", path, err)
	}

	if !info.IsDir() {
		if !hasDesiredExtension(path) || engine.IgnoresPath(path) {
			return nil, nil
		}
		return engine.Run(path)
	}

	files, err := collectFiles(path, engine)
	if err != nil {
		return nil, err
	}
	engine.Preload(files)

	bar := progressbar.NewOptions(len(files),
		progressbar.OptionSetDescription(path),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}))

	var (
		mu     sync.Mutex
		issues []tt.Issue
	)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	for _, filePath := range files {
		fp := filePath
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			fileIssues, err := engine.Run(fp)
			if err != nil {
				if logger != nil {
					logger.Error("Error processing file", zap.String("file", fp), zap.Error(err))
				}
				return err
			}

			mu.Lock()
			issues = append(issues, fileIssues...)
			mu.Unlock()

			_ = bar.Add(1)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	fmt.Println()
	return issues, nil
}

func collectFiles(root string, engine Engine) ([]string, error) {
	var files []string
	err := filepath.Walk(root, func(filePath string, fileInfo os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if fileInfo.IsDir() {
			return nil
		}
		if hasDesiredExtension(filePath) && !engine.IgnoresPath(filePath) {
			files = append(files, filePath)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error walking directory %s: %w", root, err)
	}
	return files, nil
}

var desiredExtensions = map[string]bool{
	".php": true,
	".phl": true,
}

func hasDesiredExtension(path string) bool {
	return desiredExtensions[filepath.Ext(path)]
}
