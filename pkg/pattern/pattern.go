// Package pattern classifies the text of phylotree table cells.
//
// A cell either holds a sequence of mutation notations (the branch
// conditions that define a haplogroup) or a free-form label such as a
// haplogroup name or an accession number. The grammar is compiled once at
// package initialization and never mutated afterwards, so every function
// here is safe for concurrent use.
package pattern

import (
	"regexp"
	"strings"
)

// BoundaryMarker is the literal that appears in the title row of the tree
// table. Rows before (and including) it are not tree data.
const BoundaryMarker = "mt-MRCA"

// Notation fragments
const (
	// nucleotide letters, case-insensitive
	atgc = `[atgcATGC]`

	// C152T, (T2887C), A16129G!!
	regularNotation = `\(?` + atgc + `\d+` + atgc + `!*\)?`

	// C459d, 573.XC, 44.1C, 59-60d, reserved
	irregularNotation = `\(?(?:` +
		atgc + `?\d+d` + // deletion
		`|\d+\.[\dX]?` + atgc + `+d?` + // insertion
		`|\d+-\d+d` + // range deletion
		`|reserved` +
		`)!*\)?`
)

// Compiled grammar
var (
	irregularPattern = regexp.MustCompile(`\A` + irregularNotation + `\z`)

	exceptionPattern = compileExceptions(exceptions)

	branchConditionPattern = `(?:` + regularNotation + `|` + exceptionPattern + `)`

	branchConditionsPattern = regexp.MustCompile(
		`\A` + branchConditionPattern + `(?:\s` + branchConditionPattern + `)*\z`,
	)
)

// compileExceptions turns the literal allow-list into a regexp alternation.
// Duplicates are collapsed; order is preserved.
func compileExceptions(literals []string) string {
	seen := make(map[string]bool, len(literals))
	quoted := make([]string, 0, len(literals))
	for _, lit := range literals {
		if seen[lit] {
			continue
		}
		seen[lit] = true
		quoted = append(quoted, regexp.QuoteMeta(lit))
	}
	return `(?:` + strings.Join(quoted, `|`) + `)`
}

// IsTableBoundaryMarker reports whether text contains the marker that opens
// the tree table.
func IsTableBoundaryMarker(text string) bool {
	return strings.Contains(text, BoundaryMarker)
}

// IsIrregularNotation reports whether the whole text is an irregular
// mutation notation: a deletion, an insertion, a range deletion or the
// literal "reserved", optionally parenthesized.
func IsIrregularNotation(text string) bool {
	return irregularPattern.MatchString(text)
}

// IsBranchConditionSequence reports whether the whole text is a sequence of
// mutation tokens separated by single whitespace characters. Each token must
// be a regular substitution notation or an exact entry of the exception
// list.
func IsBranchConditionSequence(text string) bool {
	return branchConditionsPattern.MatchString(text)
}

// Classification describes how a single text is seen by the grammar.
type Classification struct {
	Text             string `json:"text" yaml:"text"`
	BranchConditions bool   `json:"branch_conditions" yaml:"branch_conditions"`
	Irregular        bool   `json:"irregular" yaml:"irregular"`
	BoundaryMarker   bool   `json:"boundary_marker" yaml:"boundary_marker"`
	// Tokens is set only when BranchConditions is true.
	Tokens []string `json:"tokens,omitempty" yaml:"tokens,omitempty"`
}

// Kind names the role text would play in a table row.
func (c Classification) Kind() string {
	switch {
	case c.BoundaryMarker:
		return "boundary"
	case c.BranchConditions:
		return "conditions"
	case c.Irregular:
		return "irregular"
	case c.Text == "":
		return "empty"
	default:
		return "name"
	}
}

// Classify runs every predicate against text.
func Classify(text string) Classification {
	c := Classification{
		Text:             text,
		BranchConditions: IsBranchConditionSequence(text),
		Irregular:        IsIrregularNotation(text),
		BoundaryMarker:   IsTableBoundaryMarker(text),
	}
	if c.BranchConditions {
		c.Tokens = strings.Fields(text)
	}
	return c
}
