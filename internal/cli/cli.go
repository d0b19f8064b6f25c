// Package cli implements the gardener command-line interface.
//
// This package provides commands for analyzing dependency documents,
// rendering dependency graphs as visualizations, serving the analysis
// API over HTTP, and managing the local result cache. The CLI is built
// using cobra and supports verbose logging via the charmbracelet/log
// library.
//
// # Commands
//
// The main commands are:
//   - analyze: Run the dependency analysis pipeline on a document
//   - render: Generate SVG, PDF, PNG, or DOT visualizations
//   - serve: Run the analysis HTTP API
//   - cache: Manage the local analysis cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context to allow structured progress tracking.
//
// # Example
//
//	import "github.com/drips-network/gardener-sub000/internal/cli"
//
//	func main() {
//	    if err := cli.Execute(ctx); err != nil {
//	        os.Exit(1)
//	    }
//	}
package cli

import (
	"context"
	"os"
	"path/filepath"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/drips-network/gardener-sub000/pkg/buildinfo"
	"github.com/drips-network/gardener-sub000/pkg/cache"
)

// appName is the application name used for directories and display.
const appName = "gardener"

// Execute runs the gardener CLI and returns an error if any command fails.
//
// The function sets up the root command with all subcommands (analyze,
// render, serve, cache), configures logging based on the --verbose flag,
// and executes the command tree. The logger is attached to the context
// and accessible to all commands via loggerFromContext.
func Execute(ctx context.Context) error {
	var verbose bool

	root := &cobra.Command{
		Use:          appName,
		Short:        "Gardener analyzes repository dependency graphs",
		Long:         `Gardener builds a typed dependency graph from a repository's source files and manifests, scores every external package by structural importance, and reports the dependencies the codebase leans on most.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := charmlog.InfoLevel
			if verbose {
				level = charmlog.DebugLevel
			}
			cmd.SetContext(withLogger(cmd.Context(), newLogger(os.Stderr, level)))
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(newAnalyzeCmd())
	root.AddCommand(newRenderCmd())
	root.AddCommand(newServeCmd())
	root.AddCommand(newCacheCmd())
	root.AddCommand(newCompletionCmd())

	return root.ExecuteContext(ctx)
}

// newCache returns the cache backend for local CLI runs. Analysis
// results are keyed by document hash, so repeated runs over the same
// document are served from disk.
func newCache(noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// cacheDir returns the cache directory using XDG standard (~/.cache/gardener/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
