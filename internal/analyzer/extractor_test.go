package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for Extract:
// - One file node per input file, id derived from path, in input order
// - Python: classes at depth>=2, defs at depth>=3, indented defs attach
//   to the enclosing class, top-level defs reset the class scope
// - ECMA: class and three function patterns, no class attachment
// - C/C++: class/struct, prototype and keyword filtering, no attachment
// - Imports resolve by naive substring (suffix for includes) at every depth
// - Depth monotonicity, idempotence, empty input, unknown extensions

func TestExtract_EndToEndPython(t *testing.T) {
	t.Parallel()

	files := []SourceFile{
		{Name: "a.py", Path: "a.py", Text: "import b\nclass A:\n    def m(self):\n        pass\n"},
		{Name: "b.py", Path: "b.py", Text: "x = 1\n"},
	}

	result := Extract(files, DepthFull)

	var fileNodes, classNodes, funcNodes []Node
	for _, n := range result.Nodes {
		switch n.Kind {
		case KindFile:
			fileNodes = append(fileNodes, n)
		case KindClass:
			classNodes = append(classNodes, n)
		case KindFunction:
			funcNodes = append(funcNodes, n)
		}
	}

	require.Len(t, fileNodes, 2)
	assert.Equal(t, "file:a.py", fileNodes[0].ID)
	assert.Equal(t, "file:b.py", fileNodes[1].ID)

	require.Len(t, classNodes, 1)
	assert.Equal(t, "A", classNodes[0].Label)
	assert.Equal(t, 2, classNodes[0].StartLine)

	require.Len(t, funcNodes, 1)
	assert.Equal(t, "m", funcNodes[0].Label)

	// m is contained by A, not by the file.
	var containsM, importAB int
	for _, e := range result.Edges {
		if e.Kind == EdgeContains && e.Target == funcNodes[0].ID {
			containsM++
			assert.Equal(t, classNodes[0].ID, e.Source)
		}
		if e.Kind == EdgeImport {
			importAB++
			assert.Equal(t, "file:a.py", e.Source)
			assert.Equal(t, "file:b.py", e.Target)
		}
	}
	assert.Equal(t, 1, containsM)
	assert.Equal(t, 1, importAB)

	// Nothing references b.py internals.
	for _, n := range result.Nodes {
		if n.FilePath == "b.py" {
			assert.Equal(t, KindFile, n.Kind)
		}
	}

	assert.Equal(t, "Depth 3 analysis: 2 files, 1 classes, 1 functions", result.Summary)
	assert.Equal(t, len(result.Nodes), result.Metadata.NodeCount)
	assert.Equal(t, len(result.Edges), result.Metadata.EdgeCount)
	assert.NotEmpty(t, result.Metadata.RunID)
}

func TestExtract_PythonTopLevelDefResetsClassScope(t *testing.T) {
	t.Parallel()

	files := []SourceFile{
		{Name: "m.py", Path: "m.py", Text: "class A:\n    def m(self):\n        pass\ndef top():\n    pass\n"},
	}

	result := Extract(files, DepthFull)

	edgesByTarget := map[string]string{}
	for _, e := range result.Edges {
		if e.Kind == EdgeContains {
			edgesByTarget[e.Target] = e.Source
		}
	}

	assert.Equal(t, "class:m.py:A", edgesByTarget["function:m.py:m"])
	assert.Equal(t, "file:m.py", edgesByTarget["function:m.py:top"])
}

func TestExtract_ECMAFamily(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		text      string
		wantKind  NodeKind
		wantLabel string
	}{
		{
			name:      "exported class",
			text:      "export class Widget {\n}\n",
			wantKind:  KindClass,
			wantLabel: "Widget",
		},
		{
			name:      "named function declaration",
			text:      "function render(props) {\n}\n",
			wantKind:  KindFunction,
			wantLabel: "render",
		},
		{
			name:      "const arrow function",
			text:      "const handleClick = (e) => {\n}\n",
			wantKind:  KindFunction,
			wantLabel: "handleClick",
		},
		{
			name:      "const function expression",
			text:      "const init = function () {\n}\n",
			wantKind:  KindFunction,
			wantLabel: "init",
		},
		{
			name:      "async exported function",
			text:      "export async function load() {\n}\n",
			wantKind:  KindFunction,
			wantLabel: "load",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			files := []SourceFile{{Name: "app.ts", Path: "src/app.ts", Text: tt.text}}
			result := Extract(files, DepthFull)

			require.Len(t, result.Nodes, 2)
			assert.Equal(t, tt.wantKind, result.Nodes[1].Kind)
			assert.Equal(t, tt.wantLabel, result.Nodes[1].Label)
			// ECMA functions attach to the file, never to a class.
			require.Len(t, result.Edges, 1)
			assert.Equal(t, "file:src/app.ts", result.Edges[0].Source)
		})
	}
}

func TestExtract_ECMAMethodsAttachToFileNotClass(t *testing.T) {
	t.Parallel()

	files := []SourceFile{{
		Name: "w.ts",
		Path: "w.ts",
		Text: "class Widget {\n}\nfunction helper() {\n}\n",
	}}

	result := Extract(files, DepthFull)

	for _, e := range result.Edges {
		if e.Kind == EdgeContains && e.Target == "function:w.ts:helper" {
			assert.Equal(t, "file:w.ts", e.Source)
		}
	}
}

func TestExtract_CFamilyFunctionFilter(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		line      string
		wantFuncs int
	}{
		{name: "definition", line: "void f(int x) {", wantFuncs: 1},
		{name: "forward declaration rejected", line: "void f(int x);", wantFuncs: 0},
		{name: "if statement rejected", line: "  else if (x) {", wantFuncs: 0},
		{name: "while rejected", line: "static while (1) {", wantFuncs: 0},
		{name: "qualified method definition", line: "int Foo::bar(int x) {", wantFuncs: 1},
		{name: "pointer return", line: "char *strdup2(const char *s) {", wantFuncs: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			files := []SourceFile{{Name: "x.c", Path: "x.c", Text: tt.line + "\n}\n"}}
			result := Extract(files, DepthFull)

			funcs := 0
			for _, n := range result.Nodes {
				if n.Kind == KindFunction {
					funcs++
				}
			}
			assert.Equal(t, tt.wantFuncs, funcs)
		})
	}
}

func TestExtract_CStructAndInclude(t *testing.T) {
	t.Parallel()

	files := []SourceFile{
		{Name: "main.c", Path: "src/main.c", Text: "#include \"util.h\"\nstruct point {\n  int x;\n};\n"},
		{Name: "util.h", Path: "src/util.h", Text: "void helper(void);\n"},
		{Name: "beautil.h", Path: "src/beautil.h", Text: "void other(void);\n"},
	}

	result := Extract(files, DepthStructure)

	var classes []Node
	for _, n := range result.Nodes {
		if n.Kind == KindClass {
			classes = append(classes, n)
		}
	}
	require.Len(t, classes, 1)
	assert.Equal(t, "point", classes[0].Label)

	// Include resolution is a plain suffix match on the path string,
	// not on path segments: both src/util.h and src/beautil.h end with
	// "util.h", so both get linked.
	var targets []string
	for _, e := range result.Edges {
		if e.Kind == EdgeImport {
			targets = append(targets, e.Target)
		}
	}
	assert.Contains(t, targets, "file:src/util.h")
	assert.Contains(t, targets, "file:src/beautil.h")
}

func TestExtract_ECMAImportResolution(t *testing.T) {
	t.Parallel()

	files := []SourceFile{
		{Name: "app.ts", Path: "src/app.ts", Text: "import { helper } from './utils/helpers'\n"},
		{Name: "helpers.ts", Path: "src/utils/helpers.ts", Text: "export function helper() {\n}\n"},
		{Name: "other.ts", Path: "src/other.ts", Text: "const x = 1\n"},
	}

	result := Extract(files, DepthFiles)

	var imports []Edge
	for _, e := range result.Edges {
		if e.Kind == EdgeImport {
			imports = append(imports, e)
		}
	}
	require.Len(t, imports, 1)
	assert.Equal(t, "file:src/app.ts", imports[0].Source)
	assert.Equal(t, "file:src/utils/helpers.ts", imports[0].Target)
}

func TestExtract_ImportsAtEveryDepth(t *testing.T) {
	t.Parallel()

	files := []SourceFile{
		{Name: "a.py", Path: "a.py", Text: "import b\n"},
		{Name: "b.py", Path: "b.py", Text: "x = 1\n"},
	}

	var importEdges [3][]Edge
	for d := 1; d <= 3; d++ {
		result := Extract(files, d)
		for _, e := range result.Edges {
			if e.Kind == EdgeImport {
				importEdges[d-1] = append(importEdges[d-1], e)
			}
		}
	}

	assert.Equal(t, importEdges[0], importEdges[1])
	assert.Equal(t, importEdges[1], importEdges[2])
	require.Len(t, importEdges[0], 1)
}

func TestExtract_DepthMonotonicity(t *testing.T) {
	t.Parallel()

	files := []SourceFile{
		{Name: "a.py", Path: "a.py", Text: "import b\nclass A:\n    def m(self):\n        pass\n"},
		{Name: "b.py", Path: "b.py", Text: "def f():\n    pass\n"},
		{Name: "c.ts", Path: "c.ts", Text: "class C {\n}\nfunction g() {\n}\n"},
	}

	ids := func(result *AnalysisResult) map[string]bool {
		m := make(map[string]bool)
		for _, n := range result.Nodes {
			m[n.ID] = true
		}
		return m
	}

	d1 := ids(Extract(files, 1))
	d2 := ids(Extract(files, 2))
	d3 := ids(Extract(files, 3))

	for id := range d1 {
		assert.True(t, d2[id], "depth 2 missing %s", id)
	}
	for id := range d2 {
		assert.True(t, d3[id], "depth 3 missing %s", id)
	}
	assert.Greater(t, len(d2), len(d1))
	assert.Greater(t, len(d3), len(d2))
}

func TestExtract_Idempotence(t *testing.T) {
	t.Parallel()

	files := []SourceFile{
		{Name: "a.py", Path: "a.py", Text: "import b\nclass A:\n    def m(self):\n        pass\n"},
		{Name: "b.py", Path: "b.py", Text: "x = 1\n"},
	}

	first := Extract(files, DepthFull)
	second := Extract(files, DepthFull)

	assert.Equal(t, first.Nodes, second.Nodes)
	assert.Equal(t, first.Edges, second.Edges)
	assert.Equal(t, first.Summary, second.Summary)
}

func TestExtract_SpanBounds(t *testing.T) {
	t.Parallel()

	files := []SourceFile{
		{Name: "a.py", Path: "a.py", Text: "class A:\n    def m(self):\n        pass\n"},
		{Name: "b.c", Path: "b.c", Text: "void f() {\n}\nvoid g(\n"},
	}

	result := Extract(files, DepthFull)

	lineCounts := map[string]int{}
	for _, f := range files {
		lineCounts[f.Path] = len(splitLines(f.Text))
	}

	for _, n := range result.Nodes {
		if n.Kind == KindFile {
			continue
		}
		assert.LessOrEqual(t, n.StartLine, n.EndLine, "node %s", n.ID)
		assert.GreaterOrEqual(t, n.StartLine, 1, "node %s", n.ID)
		assert.LessOrEqual(t, n.EndLine, lineCounts[n.FilePath], "node %s", n.ID)
	}
}

func TestExtract_EmptyInput(t *testing.T) {
	t.Parallel()

	result := Extract(nil, DepthFull)

	assert.Empty(t, result.Nodes)
	assert.Empty(t, result.Edges)
	assert.Equal(t, "Depth 3 analysis: 0 files, 0 classes, 0 functions", result.Summary)
}

func TestExtract_UnknownExtensionContributesFileNodeOnly(t *testing.T) {
	t.Parallel()

	files := []SourceFile{
		{Name: "index.html", Path: "index.html", Text: "<html>\n<body class=\"main\">\n</body>\n</html>\n"},
		{Name: "App.java", Path: "App.java", Text: "import other;\nclass App {\n}\n"},
	}

	result := Extract(files, DepthFull)

	require.Len(t, result.Nodes, 2)
	assert.Empty(t, result.Edges)
}

func TestExtract_OutOfRangeDepthIsPermissive(t *testing.T) {
	t.Parallel()

	files := []SourceFile{
		{Name: "a.py", Path: "a.py", Text: "class A:\n    def m(self):\n        pass\n"},
	}

	// Depth 0 behaves like "files only", depth 99 like "everything".
	low := Extract(files, 0)
	high := Extract(files, 99)

	assert.Len(t, low.Nodes, 1)
	assert.Len(t, high.Nodes, 3)
}

func TestExtract_DuplicateConstructIDsAreAppended(t *testing.T) {
	t.Parallel()

	files := []SourceFile{
		{Name: "a.py", Path: "a.py", Text: "def f():\n    pass\ndef f():\n    pass\n"},
	}

	result := Extract(files, DepthFull)

	count := 0
	for _, n := range result.Nodes {
		if n.ID == "function:a.py:f" {
			count++
		}
	}
	// Colliding ids are appended, not de-duplicated.
	assert.Equal(t, 2, count)
}
