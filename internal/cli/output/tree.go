package output

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	ltree "github.com/charmbracelet/lipgloss/tree"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/leapstack-labs/phylotree/internal/builder"
	"github.com/leapstack-labs/phylotree/internal/state"
	"github.com/leapstack-labs/phylotree/pkg/pattern"
	"github.com/leapstack-labs/phylotree/pkg/tree"
)

// Tree renders the nested form of a haplogroup tree.
func (r *Renderer) Tree(title string, p *tree.Pretty) error {
	switch r.EffectiveMode() {
	case ModeJSON:
		return r.JSON(p)
	case ModeYAML:
		return r.YAML(p)
	case ModeMarkdown:
		r.Println(FormatHeader(1, title))
		r.Println()
		writeMarkdownTree(r, p, 0)
		return nil
	default:
		t := ltree.Root(r.styles.Header.Render(title)).
			Enumerator(ltree.RoundedEnumerator).
			EnumeratorStyle(r.styles.Enumerator)
		for name, child := range p.Descendants.All() {
			t.Child(r.textBranch(name, child))
		}
		r.Println(t.String())
		return nil
	}
}

func (r *Renderer) textBranch(name string, p *tree.Pretty) any {
	label := r.textLabel(name, p)
	if p.Descendants.Len() == 0 {
		return label
	}
	t := ltree.Root(label).
		Enumerator(ltree.RoundedEnumerator).
		EnumeratorStyle(r.styles.Enumerator)
	for childName, child := range p.Descendants.All() {
		t.Child(r.textBranch(childName, child))
	}
	return t
}

func (r *Renderer) textLabel(name string, p *tree.Pretty) string {
	var b strings.Builder
	if name == tree.UnnamedBranch {
		b.WriteString(r.styles.Unnamed.Render("(unnamed)"))
	} else {
		b.WriteString(r.styles.Name.Render(name))
	}
	if len(p.Conditions) > 0 {
		b.WriteString("  ")
		b.WriteString(r.styles.Conditions.Render(strings.Join(p.Conditions, " ")))
	}
	if len(p.ExampleAccessions) > 0 {
		b.WriteString("  ")
		b.WriteString(r.styles.Accessions.Render("[" + strings.Join(p.ExampleAccessions, ", ") + "]"))
	}
	return b.String()
}

func writeMarkdownTree(r *Renderer, p *tree.Pretty, depth int) {
	indent := strings.Repeat("  ", depth)
	for name, child := range p.Descendants.All() {
		line := indent + "- `" + name + "`"
		if len(child.Conditions) > 0 {
			line += ": " + strings.Join(child.Conditions, " ")
		}
		if len(child.ExampleAccessions) > 0 {
			line += " _(" + strings.Join(child.ExampleAccessions, ", ") + ")_"
		}
		r.Println(line)
		writeMarkdownTree(r, child, depth+1)
	}
}

// Paths renders the flattened form of a haplogroup tree.
func (r *Renderer) Paths(paths [][]tree.PathEntry) error {
	switch r.EffectiveMode() {
	case ModeJSON:
		return r.JSON(nonNilPaths(paths))
	case ModeYAML:
		return r.YAML(nonNilPaths(paths))
	}

	t := r.newTable()
	t.AppendHeader(table.Row{"#", ColumnTitle("haplogroup"), ColumnTitle("path"), ColumnTitle("conditions")})
	for i, path := range paths {
		leaf := path[len(path)-1]
		t.AppendRow(table.Row{i + 1, leaf.Name, strings.Join(tree.PathNames(path), " > "), JoinOrDash(leaf.Conditions)})
	}
	r.renderTable(t)
	return nil
}

func nonNilPaths(paths [][]tree.PathEntry) [][]tree.PathEntry {
	if paths == nil {
		return [][]tree.PathEntry{}
	}
	return paths
}

// Classifications renders grammar classifications of free texts.
func (r *Renderer) Classifications(cs []pattern.Classification) error {
	switch r.EffectiveMode() {
	case ModeJSON:
		return r.JSON(cs)
	case ModeYAML:
		return r.YAML(cs)
	}

	t := r.newTable()
	t.AppendHeader(table.Row{ColumnTitle("text"), ColumnTitle("kind"), ColumnTitle("tokens")})
	for _, c := range cs {
		t.AppendRow(table.Row{c.Text, c.Kind(), JoinOrDash(c.Tokens)})
	}
	r.renderTable(t)
	return nil
}

// BuildInfo is the machine-readable form of a stored build.
type BuildInfo struct {
	ID           string    `json:"id" yaml:"id"`
	Source       string    `json:"source" yaml:"source"`
	CreatedAt    time.Time `json:"created_at" yaml:"created_at"`
	NodeCount    int       `json:"node_count" yaml:"node_count"`
	Depth        int       `json:"depth" yaml:"depth"`
	WarningCount int       `json:"warning_count" yaml:"warning_count"`
}

// Builds renders a list of stored builds.
func (r *Renderer) Builds(builds []*state.Build) error {
	infos := make([]BuildInfo, 0, len(builds))
	for _, b := range builds {
		infos = append(infos, BuildInfo(*b))
	}

	switch r.EffectiveMode() {
	case ModeJSON:
		return r.JSON(infos)
	case ModeYAML:
		return r.YAML(infos)
	}

	if len(infos) == 0 {
		r.Println("No builds stored yet.")
		return nil
	}
	t := r.newTable()
	t.AppendHeader(table.Row{"ID", ColumnTitle("source"), ColumnTitle("created_at"), ColumnTitle("nodes"), ColumnTitle("depth"), ColumnTitle("warnings")})
	for _, b := range infos {
		t.AppendRow(table.Row{b.ID, b.Source, b.CreatedAt.Local().Format(time.DateTime), b.NodeCount, b.Depth, b.WarningCount})
	}
	r.renderTable(t)
	return nil
}

// Warnings writes advisory warnings to the diagnostics writer.
func (r *Renderer) Warnings(source string, warnings []builder.Warning) {
	for _, w := range warnings {
		msg := w.String()
		if w.Row > 0 {
			msg = source + ":" + strconv.Itoa(w.Row) + ": " + msg
		}
		r.Warning(msg)
	}
}

// Diff writes a unified-style line diff. Lines are prefixed with "+", "-" or " ".
func (r *Renderer) Diff(lines []DiffLine) {
	for _, l := range lines {
		text := string(l.Op) + " " + l.Text
		switch {
		case r.EffectiveMode() != ModeText:
		case l.Op == DiffInsert:
			text = r.styles.Success.Render(text)
		case l.Op == DiffDelete:
			text = r.styles.Error.Render(text)
		default:
			text = r.styles.Muted.Render(text)
		}
		r.Println(text)
	}
}

// DiffOp marks a diff line.
type DiffOp byte

// Diff operations.
const (
	DiffEqual  DiffOp = ' '
	DiffInsert DiffOp = '+'
	DiffDelete DiffOp = '-'
)

// DiffLine is one line of a line diff.
type DiffLine struct {
	Op   DiffOp `json:"op"`
	Text string `json:"text"`
}

// MarshalText renders the op as its prefix character.
func (o DiffOp) MarshalText() ([]byte, error) {
	switch o {
	case DiffEqual, DiffInsert, DiffDelete:
		return []byte{byte(o)}, nil
	}
	return nil, fmt.Errorf("invalid diff op %q", byte(o))
}

func (r *Renderer) newTable() table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(r.out)
	t.SetStyle(table.StyleLight)
	return t
}

func (r *Renderer) renderTable(t table.Writer) {
	if r.EffectiveMode() == ModeMarkdown {
		t.RenderMarkdown()
		return
	}
	t.Render()
}
