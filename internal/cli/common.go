package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/AlexSherTemplar/StaticCodeViewer/internal/analyzer"
	"github.com/AlexSherTemplar/StaticCodeViewer/internal/config"
	"github.com/AlexSherTemplar/StaticCodeViewer/internal/ingest"
)

// resolveRoot turns an optional positional directory argument into an
// absolute analysis root, defaulting to the working directory.
func resolveRoot(args []string) (string, error) {
	root := "."
	if len(args) > 0 {
		root = args[0]
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", root, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("cannot analyze %s: %w", root, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%s is not a directory", root)
	}
	return abs, nil
}

// ingestDiscovery builds the discovery used by both ingestion and the
// watcher's ignore filter.
func ingestDiscovery(root string, cfg *config.Config) (*ingest.Discovery, error) {
	return ingest.NewDiscovery(root, cfg.Paths.Extensions, cfg.Paths.Ignore)
}

// loadQuiet is the no-progress ingestion path used by search and
// serve: discover, read and extract in one call.
func loadQuiet(root string, cfg *config.Config, depth int) ([]analyzer.SourceFile, *analyzer.AnalysisResult, error) {
	files, err := ingest.Load(root, cfg.Paths.Extensions, cfg.Paths.Ignore, cfg.Analyze.MaxFileSize)
	if err != nil {
		return nil, nil, fmt.Errorf("ingestion failed: %w", err)
	}
	return files, analyzer.Extract(files, depth), nil
}

// loadAndExtract runs ingestion and extraction with per-file progress
// reporting, for the interactive analyze command.
func loadAndExtract(root string, cfg *config.Config, depth int, reporter *ProgressReporter) ([]analyzer.SourceFile, *analyzer.AnalysisResult, error) {
	reporter.OnDiscoveryStart()
	discovery, err := ingest.NewDiscovery(root, cfg.Paths.Extensions, cfg.Paths.Ignore)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid ignore patterns: %w", err)
	}
	paths, err := discovery.Discover()
	if err != nil {
		return nil, nil, fmt.Errorf("discovery failed: %w", err)
	}
	reporter.OnDiscoveryComplete(len(paths))

	reader := ingest.NewReader(root, cfg.Analyze.MaxFileSize)
	files := make([]analyzer.SourceFile, 0, len(paths))
	for _, p := range paths {
		if f, ok := reader.Read(p); ok {
			files = append(files, f)
		}
		reporter.OnFileProcessed()
	}

	result := analyzer.Extract(files, depth)
	reporter.OnExtractionComplete(result)
	return files, result, nil
}
