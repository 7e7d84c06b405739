package commands

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/leapstack-labs/phylotree/internal/builder"
	"github.com/leapstack-labs/phylotree/internal/cli/output"
	"github.com/leapstack-labs/phylotree/pkg/pattern"
)

// NewClassifyCommand creates the classify command.
func NewClassifyCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "classify [text...]",
		Short: "Show how texts are read by the tree grammar",
		Long: `Classify table cell texts the way the tree builder does: as the table
boundary marker, as a branch condition sequence, as an irregular mutation
notation, or as a haplogroup name.

Texts are taken from the arguments, otherwise one per line from stdin. When
stdin is a terminal an interactive prompt is started.`,
		Example: `  phylotree classify "C152T T2887C" "L0a1'2" "8281-8290d"
  cut -f2 cells.tsv | phylotree classify -o json
  phylotree classify`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx := NewCommandContextWithoutEngine(cmd)
			r := cmdCtx.Renderer

			if len(args) > 0 {
				return r.Classifications(classifyAll(args))
			}

			in := cmd.InOrStdin()
			if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) { //nolint:gosec // fd fits in int
				return runClassifyREPL(cmd, r, filepath.Join(filepath.Dir(cmdCtx.Cfg.StatePath), "classify_history"))
			}

			texts, err := readLines(in)
			if err != nil {
				return err
			}
			return r.Classifications(classifyAll(texts))
		},
	}
}

func classifyAll(texts []string) []pattern.Classification {
	cs := make([]pattern.Classification, 0, len(texts))
	for _, text := range texts {
		cs = append(cs, pattern.Classify(builder.NormalizeCell(text)))
	}
	return cs
}

// readLines returns the non-blank lines of r.
func readLines(r io.Reader) ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			lines = append(lines, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}
	return lines, nil
}

func runClassifyREPL(cmd *cobra.Command, r *output.Renderer, historyFile string) error {
	if err := os.MkdirAll(filepath.Dir(historyFile), 0750); err != nil {
		historyFile = ""
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "phylotree> ",
		HistoryFile:     historyFile,
		AutoComplete:    newClassifyCompleter(),
		InterruptPrompt: "^C",
		EOFPrompt:       ".quit",
	})
	if err != nil {
		return fmt.Errorf("failed to initialize prompt: %w", err)
	}
	defer func() { _ = rl.Close() }()

	_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Type a cell text to classify it, .help for commands, .quit to exit")

	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if quit := handleClassifyLine(r, line); quit {
			return nil
		}
	}
}

// handleClassifyLine evaluates one prompt line and reports whether the
// prompt should exit.
func handleClassifyLine(r *output.Renderer, line string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}

	switch strings.ToLower(strings.Fields(line)[0]) {
	case ".quit", ".exit":
		return true
	case ".help":
		printClassifyHelp(r.Writer())
		return false
	case ".exceptions":
		for _, e := range pattern.Exceptions() {
			r.Println(e)
		}
		return false
	}

	if err := r.Classifications(classifyAll([]string{line})); err != nil {
		r.Error(err.Error())
	}
	return false
}

func printClassifyHelp(w io.Writer) {
	help := `
Commands:
  .help           Show this help message
  .exceptions     List notations that always count as branch conditions
  .quit / .exit   Exit the prompt

Anything else is classified as a table cell text.
`
	_, _ = fmt.Fprintln(w, help)
}

func newClassifyCompleter() *readline.PrefixCompleter {
	return readline.NewPrefixCompleter(
		readline.PcItem(".help"),
		readline.PcItem(".exceptions"),
		readline.PcItem(".quit"),
		readline.PcItem(".exit"),
	)
}
