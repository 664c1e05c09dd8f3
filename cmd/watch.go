package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/phlin-dev/phlin/analyze"
	"github.com/phlin-dev/phlin/formatter"
	"github.com/phlin-dev/phlin/internal"
	tt "github.com/phlin-dev/phlin/internal/types"
)

// watchCmd: phlin watch
var watchCmd = &cobra.Command{
	Use:   "watch [paths...]",
	Short: "Re-run the analysis whenever watched files change",
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			fmt.Println("error: Please provide directory paths to watch")
			os.Exit(1)
		}

		engine, err := analyze.New(cfgFile)
		if err != nil {
			logger.Fatal("Failed to initialize analysis engine", zap.Error(err))
		}
		applyIgnoreFlags(engine)

		// unchanged files are served from the cache across re-runs
		cache, err := internal.NewCache(filepath.Join(os.TempDir(), "phlin-cache"), cfgFile)
		if err != nil {
			logger.Warn("Failed to initialize result cache", zap.Error(err))
		} else {
			engine.SetCache(cache)
		}

		ctx := context.Background()

		watcher, err := internal.NewWatcher(func(paths []string) {
			issues, err := analyze.ProcessFiles(ctx, logger, engine, paths)
			if err != nil {
				logger.Error("Error processing changed files", zap.Error(err))
				return
			}
			reportWatchIssues(issues)
		})
		if err != nil {
			logger.Fatal("Failed to create watcher", zap.Error(err))
		}

		for _, path := range args {
			if err := watcher.Add(path); err != nil {
				logger.Fatal("Failed to watch path", zap.String("path", path), zap.Error(err))
			}
		}

		// run once before entering the watch loop
		issues, err := analyze.ProcessFiles(ctx, logger, engine, args)
		if err != nil {
			logger.Error("Error processing files", zap.Error(err))
		} else {
			reportWatchIssues(issues)
		}

		fmt.Println("Watching for changes... (Ctrl+C to stop)")
		if err := watcher.Run(ctx); err != nil && ctx.Err() == nil {
			logger.Fatal("Watcher stopped", zap.Error(err))
		}
	},
}

func reportWatchIssues(issues []tt.Issue) {
	if len(issues) == 0 {
		fmt.Println("No issues found")
		return
	}

	issuesByFile := make(map[string][]tt.Issue)
	for _, issue := range issues {
		issuesByFile[issue.Filename] = append(issuesByFile[issue.Filename], issue)
	}
	for filename, fileIssues := range issuesByFile {
		sourceCode, err := internal.ReadSourceCode(filename)
		if err != nil {
			continue
		}
		fmt.Println(formatter.GenerateFormattedIssue(fileIssues, sourceCode))
	}
}
