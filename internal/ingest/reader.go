package ingest

import (
	"os"
	"path/filepath"
	"unicode/utf8"

	"github.com/AlexSherTemplar/StaticCodeViewer/internal/analyzer"
)

// DefaultMaxFileSize guards against loading huge blobs into memory.
const DefaultMaxFileSize = 2 << 20 // 2 MiB

// Reader loads discovered paths into in-memory source files.
type Reader struct {
	rootDir     string
	maxFileSize int64
}

// NewReader creates a Reader for rootDir. maxFileSize <= 0 uses the
// default.
func NewReader(rootDir string, maxFileSize int64) *Reader {
	if maxFileSize <= 0 {
		maxFileSize = DefaultMaxFileSize
	}
	return &Reader{rootDir: rootDir, maxFileSize: maxFileSize}
}

// ReadAll loads each root-relative path into a SourceFile, preserving
// input order. Files that cannot be read, exceed the size guard, or
// are not valid UTF-8 text are silently dropped: unreadable input
// never reaches the extractor.
func (r *Reader) ReadAll(relPaths []string) []analyzer.SourceFile {
	files := make([]analyzer.SourceFile, 0, len(relPaths))
	for _, relPath := range relPaths {
		if f, ok := r.Read(relPath); ok {
			files = append(files, f)
		}
	}
	return files
}

// Read loads one root-relative path. ok is false when the file is
// missing, oversized or not valid UTF-8 text.
func (r *Reader) Read(relPath string) (analyzer.SourceFile, bool) {
	full := filepath.Join(r.rootDir, filepath.FromSlash(relPath))

	info, err := os.Stat(full)
	if err != nil || info.Size() > r.maxFileSize {
		return analyzer.SourceFile{}, false
	}

	data, err := os.ReadFile(full)
	if err != nil {
		return analyzer.SourceFile{}, false
	}
	if !utf8.Valid(data) {
		return analyzer.SourceFile{}, false
	}

	return analyzer.SourceFile{
		Name: filepath.Base(relPath),
		Path: relPath,
		Text: string(data),
	}, true
}

// Load is the one-call ingestion path: discover then read.
func Load(rootDir string, extensions, ignorePatterns []string, maxFileSize int64) ([]analyzer.SourceFile, error) {
	d, err := NewDiscovery(rootDir, extensions, ignorePatterns)
	if err != nil {
		return nil, err
	}
	paths, err := d.Discover()
	if err != nil {
		return nil, err
	}
	return NewReader(rootDir, maxFileSize).ReadAll(paths), nil
}
