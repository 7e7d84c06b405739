package main

import (
	"log"
	"os"
	"path/filepath"

	"github.com/leapstack-labs/phylotree/pkg/pattern"
)

// grammarExamples shows how representative cell texts are classified.
var grammarExamples = []string{
	pattern.BoundaryMarker,
	"L0a1'2",
	"C152T T2887C",
	"A263G! (C16193d)",
	"8281-8289d",
	"8281-8290d",
	"",
}

// generateGrammarDocs writes the cell grammar reference.
func generateGrammarDocs(outDir string) error {
	log.Printf("Generating grammar docs to %s", outDir)

	w := NewMarkdownWriter()
	w.Frontmatter("Cell Grammar", "How phylotree classifies table cells")
	w.GeneratedMarker()

	w.Header(1, "Cell Grammar")
	w.Paragraph("Every table cell is classified before it is placed in the tree. " +
		"Rows before the " + InlineCode(pattern.BoundaryMarker) + " marker are skipped.")

	w.Header(2, "Examples")
	var rows [][]string
	for _, text := range grammarExamples {
		c := pattern.Classify(text)
		cell := InlineCode(text)
		if text == "" {
			cell = "(empty)"
		}
		rows = append(rows, []string{cell, c.Kind()})
	}
	w.Table([]string{"Cell", "Classification"}, rows)

	w.Header(2, "Irregular Notations")
	w.Paragraph("These notations are accepted as branch conditions although the regular grammar does not describe them:")
	var items []string
	for _, e := range pattern.Exceptions() {
		items = append(items, InlineCode(e))
	}
	w.BulletList(items)

	log.Printf("  Generated grammar.md")
	return os.WriteFile(filepath.Join(outDir, "grammar.md"), w.Bytes(), 0600)
}
