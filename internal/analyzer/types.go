package analyzer

import (
	"fmt"
	"time"
)

// SourceFile is one ingested file. Text holds the complete, unmodified
// content; Path is the unique key other nodes reference.
type SourceFile struct {
	Name string `json:"name"`
	Path string `json:"path"`
	Text string `json:"-"`
}

// NodeKind represents the type of a graph node.
type NodeKind string

const (
	KindFile     NodeKind = "file"
	KindClass    NodeKind = "class"
	KindFunction NodeKind = "function"
	// KindModule is reserved for grouping; the extractor never emits it.
	KindModule NodeKind = "module"
)

// Node represents a file or a construct (class/function) found in one.
// StartLine/EndLine are 1-indexed and inclusive; a file node spans its
// whole text and carries its own path in FilePath.
type Node struct {
	ID        string   `json:"id"`
	Label     string   `json:"label"`
	Kind      NodeKind `json:"kind"`
	FilePath  string   `json:"file_path,omitempty"`
	StartLine int      `json:"start_line,omitempty"`
	EndLine   int      `json:"end_line,omitempty"`
	Detail    string   `json:"detail,omitempty"`
}

// EdgeKind represents the type of relationship between two nodes.
type EdgeKind string

const (
	EdgeImport      EdgeKind = "imports"
	EdgeCall        EdgeKind = "calls"    // reserved, not produced
	EdgeInheritance EdgeKind = "inherits" // reserved, not produced
	EdgeContains    EdgeKind = "contains"
)

// Edge is a directed relationship between two node ids. Contains edges
// form a forest rooted at file nodes; Import edges may contain cycles
// and duplicates.
type Edge struct {
	Source string   `json:"source"`
	Target string   `json:"target"`
	Kind   EdgeKind `json:"kind"`
}

// Metadata describes one analysis run.
type Metadata struct {
	RunID       string    `json:"run_id"`
	GeneratedAt time.Time `json:"generated_at"`
	Depth       int       `json:"depth"`
	NodeCount   int       `json:"node_count"`
	EdgeCount   int       `json:"edge_count"`
}

// AnalysisResult is the full graph produced by one extraction pass.
// Nodes and edges are in insertion order: files first in input order,
// then per-file constructs in line order. The order is deterministic
// and consumers rely on it.
type AnalysisResult struct {
	Metadata Metadata `json:"_metadata"`
	Nodes    []Node   `json:"nodes"`
	Edges    []Edge   `json:"edges"`
	Summary  string   `json:"summary"`
}

// FileNodeID returns the id of the file node for a path.
func FileNodeID(path string) string {
	return string(KindFile) + ":" + path
}

// ConstructID derives a node id from kind, owning file and label.
// Identically named constructs of the same kind in one file collide;
// collisions are appended as-is, not de-duplicated.
func ConstructID(kind NodeKind, filePath, label string) string {
	return fmt.Sprintf("%s:%s:%s", kind, filePath, label)
}
