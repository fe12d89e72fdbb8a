package analyzer

import "strings"

// ScopeFamily selects the boundary-estimation strategy for a language.
type ScopeFamily int

const (
	// IndentationScoped tracks indentation deltas (Python-style blocks).
	IndentationScoped ScopeFamily = iota
	// BraceScoped counts brace balance (C/ECMA-style blocks).
	BraceScoped
)

// braceFallbackSpan caps the estimated block size when a brace-scoped
// construct never balances. Keeps malformed input from producing
// runaway spans.
const braceFallbackSpan = 20

// EstimateEnd returns the exclusive end index of the construct starting
// at startIndex, so the construct occupies lines[startIndex:result].
// Both strategies scan forward only and tolerate any start index
// within the slice, including the last line.
func EstimateEnd(lines []string, startIndex int, family ScopeFamily) int {
	if family == IndentationScoped {
		return estimateIndentEnd(lines, startIndex)
	}
	return estimateBraceEnd(lines, startIndex)
}

// estimateIndentEnd finds the first non-blank line at or below the
// start line's indentation. Blank lines never terminate a block.
func estimateIndentEnd(lines []string, startIndex int) int {
	start := lines[startIndex]
	if strings.TrimSpace(start) == "" {
		return startIndex + 1
	}
	startIndent := indentWidth(start)

	for i := startIndex + 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "" {
			continue
		}
		if indentWidth(lines[i]) <= startIndent {
			return i
		}
	}
	return len(lines)
}

// estimateBraceEnd accumulates a brace balance per line and ends the
// block on the first line where an opened block returns to balance.
func estimateBraceEnd(lines []string, startIndex int) int {
	balance := 0
	opened := false

	for i := startIndex; i < len(lines); i++ {
		for _, r := range lines[i] {
			switch r {
			case '{':
				balance++
				opened = true
			case '}':
				balance--
			}
		}
		if opened && balance <= 0 {
			return i + 1
		}
	}
	return min(startIndex+braceFallbackSpan, len(lines))
}

// indentWidth returns the column of the first non-whitespace character.
func indentWidth(line string) int {
	return len(line) - len(strings.TrimLeft(line, " \t"))
}
