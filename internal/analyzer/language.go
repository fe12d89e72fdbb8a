package analyzer

import "regexp"

// languageFamily bundles the pattern rules and boundary strategy for
// one family of languages. Dispatch is by file extension; adding a
// family means adding one entry here plus its extension mappings.
type languageFamily struct {
	name  string
	scope ScopeFamily

	classRe  *regexp.Regexp
	funcRes  []*regexp.Regexp // tried in order, first capture wins
	importRe *regexp.Regexp

	// trackClass enables the per-file enclosing-class accumulator so
	// indented defs attach to the class above them. Only the
	// indentation family carries it; brace families attach every
	// function to the file.
	trackClass bool

	// lastSegment reduces the captured import path to its final path
	// segment before matching against other files.
	lastSegment bool

	// suffixMatch requires the target file path to end with the
	// imported name instead of merely containing it.
	suffixMatch bool

	// rejectNames filters function matches whose captured name is a
	// control-flow keyword (brace family false positives).
	rejectNames map[string]bool

	// rejectTrailingSemi drops function matches on lines ending with a
	// semicolon: forward declarations and prototypes, not definitions.
	rejectTrailingSemi bool
}

var (
	indentFamily = &languageFamily{
		name:       "indentation",
		scope:      IndentationScoped,
		classRe:    regexp.MustCompile(`^class\s+([A-Za-z_][A-Za-z0-9_]*)`),
		funcRes:    []*regexp.Regexp{regexp.MustCompile(`^\s*def\s+([A-Za-z_][A-Za-z0-9_]*)`)},
		importRe:   regexp.MustCompile(`^\s*(?:from|import)\s+([A-Za-z_][A-Za-z0-9_]*)`),
		trackClass: true,
	}

	ecmaFamily = &languageFamily{
		name:    "ecma",
		scope:   BraceScoped,
		classRe: regexp.MustCompile(`^(?:export\s+)?class\s+([A-Za-z_$][A-Za-z0-9_$]*)`),
		funcRes: []*regexp.Regexp{
			regexp.MustCompile(`^(?:export\s+)?(?:async\s+)?function\s+([A-Za-z_$][A-Za-z0-9_$]*)`),
			regexp.MustCompile(`^(?:export\s+)?(?:const|let|var)\s+([A-Za-z_$][A-Za-z0-9_$]*)\s*=\s*(?:async\s*)?\([^)]*\)\s*=>`),
			regexp.MustCompile(`^(?:export\s+)?(?:const|let|var)\s+([A-Za-z_$][A-Za-z0-9_$]*)\s*=\s*(?:async\s+)?function\b`),
		},
		importRe:    regexp.MustCompile(`from\s+['"]([^'"]+)['"]`),
		lastSegment: true,
	}

	braceFamily = &languageFamily{
		name:    "brace",
		scope:   BraceScoped,
		classRe: regexp.MustCompile(`^(?:class|struct)\s+([A-Za-z_][A-Za-z0-9_]*)`),
		funcRes: []*regexp.Regexp{
			regexp.MustCompile(`^\s*(?:[\w:*&<>~\[\]]+\s+)+\*?((?:\w+::)*~?\w+)\s*\(`),
		},
		importRe:    regexp.MustCompile(`^\s*#\s*include\s*[<"]([^>"]+)[>"]`),
		lastSegment: true,
		suffixMatch: true,
		rejectNames: map[string]bool{
			"if": true, "while": true, "for": true, "switch": true,
			"return": true, "catch": true, "else": true,
			"new": true, "delete": true,
		},
		rejectTrailingSemi: true,
	}
)

// extFamilies maps file extensions to their language family. Extensions
// outside the map (e.g. .html, .css, .json, .java) contribute a file
// node only.
var extFamilies = map[string]*languageFamily{
	".py":  indentFamily,
	".js":  ecmaFamily,
	".jsx": ecmaFamily,
	".ts":  ecmaFamily,
	".tsx": ecmaFamily,
	".c":   braceFamily,
	".cpp": braceFamily,
	".cc":  braceFamily,
	".h":   braceFamily,
	".hpp": braceFamily,
}
