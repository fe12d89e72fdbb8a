// Package search provides full-text search over analysis graph nodes,
// backed by an in-memory bleve index. It complements the analyzer's
// naive substring search with field scoping, ranking and highlights.
package search

import (
	"context"
	"fmt"
	"sync"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/mapping"

	"github.com/AlexSherTemplar/StaticCodeViewer/internal/analyzer"
)

// DefaultLimit is the result cap applied when the caller passes none.
const DefaultLimit = 25

// Result is a single ranked search hit.
type Result struct {
	NodeID     string   `json:"node_id"`
	Label      string   `json:"label"`
	Kind       string   `json:"kind"`
	FilePath   string   `json:"file_path"`
	Score      float64  `json:"score"`
	Highlights []string `json:"highlights,omitempty"`
}

// Searcher indexes one analysis result for keyword search.
type Searcher struct {
	index     bleve.Index
	mu        sync.RWMutex // protects index during reindexing
	closeOnce sync.Once
}

// nodeDocument is the shape indexed per node.
type nodeDocument struct {
	Label    string `json:"label"`
	Kind     string `json:"kind"`
	FilePath string `json:"file_path"`
	Text     string `json:"text"`
}

// New creates a Searcher over a result's nodes. Node source text comes
// from the explorer's span slicing, so function hits match only their
// own bodies.
func New(ctx context.Context, result *analyzer.AnalysisResult, explorer *analyzer.Explorer) (*Searcher, error) {
	index, err := bleve.NewMemOnly(buildMapping())
	if err != nil {
		return nil, fmt.Errorf("failed to create search index: %w", err)
	}

	s := &Searcher{index: index}
	if err := s.indexNodes(ctx, result, explorer); err != nil {
		index.Close()
		return nil, err
	}
	return s, nil
}

// buildMapping creates the index mapping for node documents. Kind is a
// keyword field for exact filtering; label, path and text use the
// standard analyzer.
func buildMapping() *mapping.IndexMappingImpl {
	labelMapping := bleve.NewTextFieldMapping()
	labelMapping.Analyzer = "standard"
	labelMapping.Store = true

	kindMapping := bleve.NewTextFieldMapping()
	kindMapping.Analyzer = "keyword"
	kindMapping.Store = true

	pathMapping := bleve.NewTextFieldMapping()
	pathMapping.Analyzer = "standard"
	pathMapping.Store = true

	textMapping := bleve.NewTextFieldMapping()
	textMapping.Analyzer = "standard"
	textMapping.Store = true
	textMapping.IncludeTermVectors = true // phrase search over source text

	docMapping := bleve.NewDocumentMapping()
	docMapping.AddFieldMappingsAt("label", labelMapping)
	docMapping.AddFieldMappingsAt("kind", kindMapping)
	docMapping.AddFieldMappingsAt("file_path", pathMapping)
	docMapping.AddFieldMappingsAt("text", textMapping)

	indexMapping := bleve.NewIndexMapping()
	indexMapping.DefaultMapping = docMapping
	return indexMapping
}

// indexNodes batch-indexes every node in the result. Colliding node
// ids overwrite each other in the index; the graph itself keeps both.
func (s *Searcher) indexNodes(ctx context.Context, result *analyzer.AnalysisResult, explorer *analyzer.Explorer) error {
	const batchSize = 500

	batch := s.index.NewBatch()
	for i, n := range result.Nodes {
		doc := nodeDocument{
			Label:    n.Label,
			Kind:     string(n.Kind),
			FilePath: n.FilePath,
			Text:     explorer.NodeText(n),
		}
		if err := batch.Index(n.ID, doc); err != nil {
			return fmt.Errorf("failed to index node %s: %w", n.ID, err)
		}

		if (i+1)%batchSize == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := s.index.Batch(batch); err != nil {
				return fmt.Errorf("failed to apply index batch: %w", err)
			}
			batch = s.index.NewBatch()
		}
	}
	if batch.Size() > 0 {
		if err := s.index.Batch(batch); err != nil {
			return fmt.Errorf("failed to apply index batch: %w", err)
		}
	}
	return nil
}

// Search runs a query-string search (supports field scoping like
// kind:function, phrases and wildcards) and returns up to limit hits.
func (s *Searcher) Search(ctx context.Context, queryStr string, limit int) ([]Result, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	query := bleve.NewQueryStringQuery(queryStr)
	req := bleve.NewSearchRequestOptions(query, limit, 0, false)
	req.Fields = []string{"label", "kind", "file_path"}
	req.Highlight = bleve.NewHighlight()

	res, err := s.index.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}

	results := make([]Result, 0, len(res.Hits))
	for _, hit := range res.Hits {
		r := Result{
			NodeID: hit.ID,
			Score:  hit.Score,
		}
		if v, ok := hit.Fields["label"].(string); ok {
			r.Label = v
		}
		if v, ok := hit.Fields["kind"].(string); ok {
			r.Kind = v
		}
		if v, ok := hit.Fields["file_path"].(string); ok {
			r.FilePath = v
		}
		for _, fragments := range hit.Fragments {
			r.Highlights = append(r.Highlights, fragments...)
		}
		results = append(results, r)
	}
	return results, nil
}

// Replace swaps in a freshly indexed result, used after re-analysis in
// watch mode.
func (s *Searcher) Replace(ctx context.Context, result *analyzer.AnalysisResult, explorer *analyzer.Explorer) error {
	index, err := bleve.NewMemOnly(buildMapping())
	if err != nil {
		return fmt.Errorf("failed to create search index: %w", err)
	}

	fresh := &Searcher{index: index}
	if err := fresh.indexNodes(ctx, result, explorer); err != nil {
		index.Close()
		return err
	}

	s.mu.Lock()
	old := s.index
	s.index = index
	s.mu.Unlock()

	old.Close()
	return nil
}

// Close releases the index. Safe to call more than once.
func (s *Searcher) Close() error {
	var err error
	s.closeOnce.Do(func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		err = s.index.Close()
	})
	return err
}
