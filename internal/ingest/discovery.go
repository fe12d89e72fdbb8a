// Package ingest discovers and loads source files for analysis.
// Unreadable or non-text files are dropped here, before the core ever
// sees them.
package ingest

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
)

// DefaultExtensions is the fixed allow-list of analyzable extensions.
var DefaultExtensions = []string{
	".py", ".js", ".ts", ".tsx", ".jsx", ".html", ".css", ".json",
	".java", ".cpp", ".c", ".h", ".hpp", ".cc",
}

// DefaultIgnorePatterns are glob patterns skipped during discovery.
var DefaultIgnorePatterns = []string{
	"node_modules/**",
	".git/**",
	"vendor/**",
	"dist/**",
	"build/**",
	"**/__pycache__/**",
}

// compiledPattern holds both the pattern string and compiled glob.
type compiledPattern struct {
	pattern string
	glob    glob.Glob
}

// Discovery walks a directory tree and yields the paths eligible for
// analysis: allow-listed extensions minus ignored subtrees.
type Discovery struct {
	rootDir        string
	extensions     map[string]bool
	ignorePatterns []compiledPattern
}

// NewDiscovery creates a Discovery for rootDir. Empty extensions or
// ignorePatterns fall back to the defaults.
func NewDiscovery(rootDir string, extensions, ignorePatterns []string) (*Discovery, error) {
	if len(extensions) == 0 {
		extensions = DefaultExtensions
	}
	if ignorePatterns == nil {
		ignorePatterns = DefaultIgnorePatterns
	}

	extMap := make(map[string]bool, len(extensions))
	for _, ext := range extensions {
		extMap[strings.ToLower(ext)] = true
	}

	d := &Discovery{
		rootDir:    rootDir,
		extensions: extMap,
	}
	for _, pattern := range ignorePatterns {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, err
		}
		d.ignorePatterns = append(d.ignorePatterns, compiledPattern{pattern: pattern, glob: g})
	}
	return d, nil
}

// Discover walks the tree and returns matching paths relative to the
// root, in walk order.
func (d *Discovery) Discover() ([]string, error) {
	var paths []string

	err := filepath.Walk(d.rootDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		relPath, relErr := filepath.Rel(d.rootDir, path)
		if relErr != nil {
			return relErr
		}
		relPath = filepath.ToSlash(relPath)

		if info.IsDir() {
			if d.ShouldIgnore(relPath) {
				return filepath.SkipDir
			}
			return nil
		}

		if d.ShouldIgnore(relPath) {
			return nil
		}
		if !d.extensions[strings.ToLower(filepath.Ext(path))] {
			return nil
		}

		paths = append(paths, relPath)
		return nil
	})

	return paths, err
}

// ShouldIgnore reports whether a root-relative path falls in an
// ignored subtree.
func (d *Discovery) ShouldIgnore(relPath string) bool {
	if relPath == "." {
		return false
	}
	for _, cp := range d.ignorePatterns {
		if cp.glob.Match(relPath) {
			return true
		}
		// A directory matches its own subtree pattern: "node_modules"
		// should match "node_modules/**" so the walk can skip it.
		if cp.glob.Match(relPath + "/**") {
			return true
		}
	}
	return false
}
