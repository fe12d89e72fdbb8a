package analyzer

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Depth levels control extraction granularity. Values are permissive
// thresholds: anything >= DepthStructure emits classes, anything >=
// DepthFull emits functions. Out-of-range values are never rejected.
const (
	DepthFiles     = 1
	DepthStructure = 2
	DepthFull      = 3
)

// Extract walks every file's lines and produces the structural graph:
// one file node per input, class/function nodes per the requested
// depth, containment edges, and heuristically resolved import edges.
// Import parsing runs at every depth. Extraction never fails: lines
// that match no pattern are skipped, and an empty input yields an
// empty graph with a zero-files summary.
func Extract(files []SourceFile, depth int) *AnalysisResult {
	result := &AnalysisResult{
		Nodes: []Node{},
		Edges: []Edge{},
	}

	// File-node pass. The path index must be complete before any
	// import resolution: import edges may target files that appear
	// later in the input order.
	fileIDs := make(map[string]string, len(files))
	for _, f := range files {
		id := FileNodeID(f.Path)
		fileIDs[f.Path] = id
		result.Nodes = append(result.Nodes, Node{
			ID:        id,
			Label:     f.Name,
			Kind:      KindFile,
			FilePath:  f.Path,
			StartLine: 1,
			EndLine:   len(splitLines(f.Text)),
		})
	}

	// Per-file construct pass.
	for _, f := range files {
		extractFile(f, files, fileIDs, depth, result)
	}

	classes, functions := 0, 0
	for _, n := range result.Nodes {
		switch n.Kind {
		case KindClass:
			classes++
		case KindFunction:
			functions++
		}
	}
	result.Summary = fmt.Sprintf("Depth %d analysis: %d files, %d classes, %d functions",
		depth, len(files), classes, functions)
	result.Metadata = Metadata{
		RunID:       uuid.NewString(),
		GeneratedAt: time.Now().UTC(),
		Depth:       depth,
		NodeCount:   len(result.Nodes),
		EdgeCount:   len(result.Edges),
	}
	return result
}

// extractFile scans one file's lines and appends its construct nodes,
// containment edges and import edges to the result.
func extractFile(f SourceFile, all []SourceFile, fileIDs map[string]string, depth int, result *AnalysisResult) {
	fam := extFamilies[strings.ToLower(filepath.Ext(f.Path))]
	if fam == nil {
		return
	}

	fileID := fileIDs[f.Path]
	lines := splitLines(f.Text)

	// Enclosing-class accumulator, reset per file. Only the
	// indentation family threads it through the scan; for brace
	// families every function attaches to the file.
	var currentClass *Node

	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		lineNo := i + 1

		if m := fam.classRe.FindStringSubmatch(line); m != nil {
			if depth >= DepthStructure {
				node := Node{
					ID:        ConstructID(KindClass, f.Path, m[1]),
					Label:     m[1],
					Kind:      KindClass,
					FilePath:  f.Path,
					StartLine: lineNo,
					EndLine:   EstimateEnd(lines, i, fam.scope),
				}
				result.Nodes = append(result.Nodes, node)
				result.Edges = append(result.Edges, Edge{Source: fileID, Target: node.ID, Kind: EdgeContains})
				if fam.trackClass {
					currentClass = &node
				}
			}
			continue
		}

		if name := matchFunction(fam, line); name != "" {
			if depth >= DepthFull {
				node := Node{
					ID:        ConstructID(KindFunction, f.Path, name),
					Label:     name,
					Kind:      KindFunction,
					FilePath:  f.Path,
					StartLine: lineNo,
					EndLine:   EstimateEnd(lines, i, fam.scope),
				}
				parent := fileID
				if fam.trackClass {
					if indentWidth(line) > 0 && currentClass != nil {
						parent = currentClass.ID
					} else {
						// A top-level def ends the active class scope.
						currentClass = nil
					}
				}
				result.Nodes = append(result.Nodes, node)
				result.Edges = append(result.Edges, Edge{Source: parent, Target: node.ID, Kind: EdgeContains})
			}
			continue
		}

		// Import edges are always relevant, independent of depth.
		if m := fam.importRe.FindStringSubmatch(line); m != nil {
			resolveImport(fam, f.Path, m[1], all, fileIDs, result)
		}
	}
}

// matchFunction tries the family's function patterns in order and
// returns the first captured identifier, or "" when the line is not a
// function definition.
func matchFunction(fam *languageFamily, line string) string {
	var name string
	for _, re := range fam.funcRes {
		if m := re.FindStringSubmatch(line); m != nil {
			name = m[1]
			break
		}
	}
	if name == "" {
		return ""
	}
	if fam.rejectNames[name] {
		return ""
	}
	if fam.rejectTrailingSemi && strings.HasSuffix(strings.TrimSpace(line), ";") {
		return ""
	}
	return name
}

// resolveImport links the importing file to every other file whose
// path matches the imported token. Matching is naive: substring
// containment (suffix containment for includes), not module-path
// semantics, and multiple matches are all linked. This is an O(files)
// scan per import statement, quadratic over a project; acceptable at
// locally-loaded scale and load-bearing for the matching semantics.
func resolveImport(fam *languageFamily, fromPath, token string, all []SourceFile, fileIDs map[string]string, result *AnalysisResult) {
	if fam.lastSegment {
		if idx := strings.LastIndex(token, "/"); idx >= 0 {
			token = token[idx+1:]
		}
	}
	if token == "" {
		return
	}

	for _, other := range all {
		if other.Path == fromPath {
			continue
		}
		matched := strings.Contains(other.Path, token)
		if fam.suffixMatch {
			matched = strings.HasSuffix(other.Path, token)
		}
		if matched {
			result.Edges = append(result.Edges, Edge{
				Source: fileIDs[fromPath],
				Target: fileIDs[other.Path],
				Kind:   EdgeImport,
			})
		}
	}
}

// splitLines splits text on newlines without dropping the trailing
// empty line, matching how spans are reported.
func splitLines(text string) []string {
	return strings.Split(text, "\n")
}
