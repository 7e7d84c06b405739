// Package main provides a generator that extracts CLI, configuration and
// grammar metadata from phylotree source code and generates markdown
// documentation.
//
// Usage:
//
//	go run ./scripts/gendocs -gen=cli -outdir=docs/cli
//	go run ./scripts/gendocs -gen=config -outdir=docs/reference
//	go run ./scripts/gendocs -gen=grammar -outdir=docs/reference
//	go run ./scripts/gendocs -gen=all
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
)

var (
	genFlag    = flag.String("gen", "all", "what to generate: cli, config, grammar, all")
	outDirFlag = flag.String("outdir", "", "output directory (defaults based on gen type)")
)

func main() {
	flag.Parse()

	projectRoot, err := findProjectRoot()
	if err != nil {
		log.Fatalf("failed to find project root: %v", err)
	}
	log.Printf("Project root: %s", projectRoot)

	if err := run(*genFlag, *outDirFlag, projectRoot); err != nil {
		log.Fatal(err)
	}
	log.Println("Done!")
}

// generators maps a -gen value to its generator and default output directory.
var generators = map[string]struct {
	dir string
	gen func(outDir string) error
}{
	"cli":     {filepath.Join("docs", "cli"), generateCLIDocs},
	"config":  {filepath.Join("docs", "reference"), generateConfigDocs},
	"grammar": {filepath.Join("docs", "reference"), generateGrammarDocs},
}

func run(gen, outDir, projectRoot string) error {
	names := []string{gen}
	if gen == "all" {
		names = []string{"cli", "config", "grammar"}
		outDir = ""
	}

	for _, name := range names {
		g, ok := generators[name]
		if !ok {
			return fmt.Errorf("unknown -gen value: %s (use: cli, config, grammar, all)", gen)
		}
		dir := outDir
		if dir == "" {
			dir = filepath.Join(projectRoot, g.dir)
		}
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
		if err := g.gen(dir); err != nil {
			return fmt.Errorf("failed to generate %s docs: %w", name, err)
		}
	}
	return nil
}

// findProjectRoot walks up from current directory to find go.mod.
func findProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", os.ErrNotExist
		}
		dir = parent
	}
}
