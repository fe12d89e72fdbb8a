package analyzer

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/dominikbraun/graph"
	"github.com/maypok86/otter"
)

// lineCacheSize bounds the number of files whose line splits are kept
// in memory for span lookups.
const lineCacheSize = 128

// Explorer answers node/edge queries for one analysis result. It holds
// an in-memory directed graph for adjacency queries and an LRU cache
// of per-file line splits for span slicing. Read-only after creation.
type Explorer struct {
	result    *AnalysisResult
	files     map[string]SourceFile
	g         graph.Graph[string, Node]
	lines     otter.Cache[string, []string]
	closeOnce sync.Once
}

// NewExplorer builds an Explorer over a result and the files it was
// extracted from.
func NewExplorer(result *AnalysisResult, files []SourceFile) (*Explorer, error) {
	byPath := make(map[string]SourceFile, len(files))
	for _, f := range files {
		byPath[f.Path] = f
	}

	g := graph.New(func(n Node) string { return n.ID }, graph.Directed())
	for _, n := range result.Nodes {
		if err := g.AddVertex(n); err != nil && !errors.Is(err, graph.ErrVertexAlreadyExists) {
			return nil, fmt.Errorf("failed to add vertex %s: %w", n.ID, err)
		}
	}
	for _, e := range result.Edges {
		err := g.AddEdge(e.Source, e.Target)
		if err != nil && !errors.Is(err, graph.ErrEdgeAlreadyExists) {
			return nil, fmt.Errorf("failed to add edge %s -> %s: %w", e.Source, e.Target, err)
		}
	}

	lines, err := otter.MustBuilder[string, []string](lineCacheSize).Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build line cache: %w", err)
	}

	return &Explorer{
		result: result,
		files:  byPath,
		g:      g,
		lines:  lines,
	}, nil
}

// Close releases the line cache. Safe to call more than once.
func (x *Explorer) Close() {
	x.closeOnce.Do(x.lines.Close)
}

// Neighbors returns every edge whose source or target is the given
// node id, duplicates included (the edge list, not the deduplicated
// graph, is authoritative here).
func (x *Explorer) Neighbors(id string) []Edge {
	var edges []Edge
	for _, e := range x.result.Edges {
		if e.Source == id || e.Target == id {
			edges = append(edges, e)
		}
	}
	return edges
}

// Degree returns the number of distinct in- and out-neighbors of a
// node, for sizing in the visualization.
func (x *Explorer) Degree(id string) int {
	adj, err := x.g.AdjacencyMap()
	if err != nil {
		return 0
	}
	pred, err := x.g.PredecessorMap()
	if err != nil {
		return 0
	}
	return len(adj[id]) + len(pred[id])
}

// NodeText returns the exact source text backing a node: the span
// [StartLine, EndLine] for constructs, the whole file for file nodes
// or nodes without a usable span. Start is clamped down to 1 and end
// up to the line count before slicing.
func (x *Explorer) NodeText(n Node) string {
	f, ok := x.files[n.FilePath]
	if !ok {
		return ""
	}
	if n.Kind == KindFile || n.StartLine == 0 || n.EndLine == 0 {
		return f.Text
	}

	lines := x.fileLines(f)
	start := n.StartLine - 1
	if start < 0 {
		start = 0
	}
	end := n.EndLine
	if end > len(lines) {
		end = len(lines)
	}
	if start >= end {
		return f.Text
	}
	return strings.Join(lines[start:end], "\n")
}

// SearchNodes returns every node matching the query, case-insensitive:
// label and file path first, then the node's span text (or whole file
// text when it carries no span).
func (x *Explorer) SearchNodes(query string) []Node {
	q := strings.ToLower(query)
	var matches []Node
	for _, n := range x.result.Nodes {
		if strings.Contains(strings.ToLower(n.Label), q) ||
			strings.Contains(strings.ToLower(n.FilePath), q) {
			matches = append(matches, n)
			continue
		}
		if strings.Contains(strings.ToLower(x.NodeText(n)), q) {
			matches = append(matches, n)
		}
	}
	return matches
}

// fileLines returns the cached line split for a file.
func (x *Explorer) fileLines(f SourceFile) []string {
	if lines, ok := x.lines.Get(f.Path); ok {
		return lines
	}
	lines := splitLines(f.Text)
	x.lines.Set(f.Path, lines)
	return lines
}
