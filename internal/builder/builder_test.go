package builder

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/phylotree/internal/testutil"
	"github.com/leapstack-labs/phylotree/pkg/tree"
)

func TestExtractExampleAccessions(t *testing.T) {
	tests := []struct {
		name string
		cols []string
		want []string
	}{
		{"one accession", []string{"L1b1a", "T5393C ", "", "", "JN214480", ""}, []string{"JN214480"}},
		{"two accessions", []string{"L1b1a", "T5393C", "EU092679", "EU092680"}, []string{"EU092679", "EU092680"}},
		{"last only", []string{"L1b1a", "T5393C", "", "EU092680"}, []string{"EU092680"}},
		{"none", []string{"L1b1a", "T5393C", "", ""}, []string{}},
		{"single column", []string{"X"}, []string{"X"}},
		{"empty row", nil, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractExampleAccessions(tt.cols))
		})
	}
}

func TestDetectHaplogroup(t *testing.T) {
	t.Run("skips accession", func(t *testing.T) {
		name, warnings, err := DetectHaplogroup([]string{"L1b1a", "JN214480"}, []string{"JN214480"})
		require.NoError(t, err)
		assert.Equal(t, "L1b1a", name)
		assert.Empty(t, warnings)
	})

	t.Run("no candidates", func(t *testing.T) {
		name, _, err := DetectHaplogroup(nil, []string{"JN214480"})
		require.NoError(t, err)
		assert.Equal(t, tree.UnnamedBranch, name)
	})

	t.Run("only accessions", func(t *testing.T) {
		name, _, err := DetectHaplogroup([]string{"JN214480"}, []string{"JN214480"})
		require.NoError(t, err)
		assert.Equal(t, tree.UnnamedBranch, name)
	})

	t.Run("two names", func(t *testing.T) {
		_, _, err := DetectHaplogroup([]string{"L1b1a", "L1b1b"}, []string{})
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrDuplicateHaplogroupName))

		var dup *DuplicateHaplogroupNameError
		require.ErrorAs(t, err, &dup)
		assert.Equal(t, "L1b1a", dup.First)
		assert.Equal(t, "L1b1b", dup.Second)
		assert.Equal(t, "duplicate haplogroup name: L1b1a <=> L1b1b", err.Error())
	})

	t.Run("irregular name warns", func(t *testing.T) {
		name, warnings, err := DetectHaplogroup([]string{"C459d"}, nil)
		require.NoError(t, err)
		assert.Equal(t, "C459d", name)
		require.Len(t, warnings, 1)
		assert.Equal(t, "C459d", warnings[0].Candidate)
		assert.Equal(t, `check if "C459d" is haplogroup name or not`, warnings[0].String())
	})
}

func TestNormalizeCell(t *testing.T) {
	assert.Equal(t, "T5393C", NormalizeCell("T5393C "))
	assert.Equal(t, "C152T T2887C", NormalizeCell("\n C152T \t\t T2887C\r\n"))
	assert.Equal(t, "A263G", NormalizeCell(" A263G "))
	assert.Equal(t, "", NormalizeCell("   "))
}

func TestBuilder_BoundaryGate(t *testing.T) {
	b := New(WithLogger(testutil.NewTestLogger(t)))

	require.NoError(t, b.ProcessRow([]string{"", "L0", "A263G"}, "some descriptions above"))
	assert.False(t, b.PastBoundary())
	assert.Equal(t, 0, b.Tree().Len(), "rows before the boundary are not data")

	require.NoError(t, b.ProcessRow([]string{"mt-MRCA", "A263G"}, "mt-MRCA"))
	assert.True(t, b.PastBoundary())
	assert.Equal(t, 0, b.Tree().Len(), "boundary row is not data")

	require.NoError(t, b.ProcessRow([]string{"", "L0", "A263G"}, "L0 A263G"))
	assert.Equal(t, 1, b.Tree().Len())

	// a second marker is an ordinary row
	require.NoError(t, b.ProcessRow([]string{"mt-MRCA"}, "mt-MRCA"))
	assert.Equal(t, Stats{Rows: 4, BeforeBoundary: 2, Structural: 1, NonStructural: 1}, b.Stats())
}

func TestBuilder_EndToEnd(t *testing.T) {
	b := New(WithLogger(testutil.NewTestLogger(t)))

	rows := []struct {
		cells []string
		text  string
	}{
		{[]string{"Title"}, "Title"},
		{[]string{"mt-MRCA"}, "mt-MRCA"},
		{[]string{"", "L0", "A263G C16187T", "", ""}, ""},
		{[]string{"", "", "L0a", "G125A", "JN214480", ""}, ""},
		{[]string{"", "", "L0b", "T1C", "", ""}, ""},
		{[]string{"", "", "", "L0b1", "A2G", "EU092679", "EU092680"}, ""},
		{[]string{"", "L1", "C152T", "", ""}, ""},
		{[]string{"", "", "L1a", "G3010A", "", ""}, ""},
	}
	for _, row := range rows {
		require.NoError(t, b.ProcessRow(row.cells, row.text))
	}

	p := b.Prettify()
	require.Equal(t, []string{"L0", "L1"}, p.Descendants.Names())

	l0, _ := p.Descendants.Get("L0")
	assert.Equal(t, []string{"A263G", "C16187T"}, l0.Conditions)
	assert.Equal(t, []string{}, l0.ExampleAccessions)
	assert.Equal(t, []string{"L0a", "L0b"}, l0.Descendants.Names())

	l0a, _ := p.Lookup([]string{"L0", "L0a"})
	assert.Equal(t, []string{"G125A"}, l0a.Conditions)
	assert.Equal(t, []string{"JN214480"}, l0a.ExampleAccessions)

	l0b1, ok := p.Lookup([]string{"L0", "L0b", "L0b1"})
	require.True(t, ok)
	assert.Equal(t, []string{"EU092679", "EU092680"}, l0b1.ExampleAccessions)

	l1a, ok := p.Lookup([]string{"L1", "L1a"})
	require.True(t, ok)
	assert.Equal(t, []string{"G3010A"}, l1a.Conditions)

	assert.Len(t, b.Flatten(), 6)
}

func TestBuilder_UnopenedLevelsAreSkipped(t *testing.T) {
	b := New()
	require.NoError(t, b.ProcessRow([]string{"mt-MRCA"}, "mt-MRCA"))
	require.NoError(t, b.ProcessRow([]string{"", "L0", "A263G", "", ""}, ""))
	require.NoError(t, b.ProcessRow([]string{"", "", "L0a", "G125A", "", ""}, ""))

	p := b.Prettify()
	l0, ok := p.Descendants.Get("L0")
	require.True(t, ok)
	assert.Equal(t, []string{"A263G"}, l0.Conditions)
	assert.Equal(t, []string{}, l0.ExampleAccessions)

	l0a, ok := l0.Descendants.Get("L0a")
	require.True(t, ok)
	assert.Equal(t, []string{"G125A"}, l0a.Conditions)
}

func TestBuilder_RowWithoutConditionsIsIgnored(t *testing.T) {
	b := New()
	require.NoError(t, b.ProcessRow([]string{"mt-MRCA"}, "mt-MRCA"))
	require.NoError(t, b.ProcessRow([]string{"", "L0", "not a condition", "", ""}, ""))
	require.NoError(t, b.ProcessRow([]string{"", "", "", ""}, ""))
	require.NoError(t, b.ProcessRow(nil, ""))

	assert.Equal(t, 0, b.Tree().Len())
	assert.Equal(t, 3, b.Stats().NonStructural)
}

func TestBuilder_LastConditionCellWins(t *testing.T) {
	b := New()
	require.NoError(t, b.ProcessRow([]string{"mt-MRCA"}, "mt-MRCA"))
	require.NoError(t, b.ProcessRow([]string{"", "L0", "A263G", "", ""}, ""))
	require.NoError(t, b.ProcessRow([]string{"", "L0a", "T1C", "G125A", "", ""}, ""))

	node, ok := b.Tree().Lookup([]string{"L0", "L0a"})
	require.True(t, ok, "depth comes from the last condition cell")
	assert.Equal(t, []string{"G125A"}, node.Self.Conditions)
}

func TestBuilder_UnnamedBranch(t *testing.T) {
	b := New()
	require.NoError(t, b.ProcessRow([]string{"mt-MRCA"}, "mt-MRCA"))
	require.NoError(t, b.ProcessRow([]string{"", "L0", "A263G", "", ""}, ""))
	require.NoError(t, b.ProcessRow([]string{"", "", "", "T1C", "JN214480", ""}, ""))

	node, ok := b.Tree().Lookup([]string{"L0", tree.UnnamedBranch})
	require.True(t, ok)
	assert.Equal(t, []string{"T1C"}, node.Self.Conditions)
	assert.Equal(t, []string{"JN214480"}, node.Self.ExampleAccessions)
}

func TestBuilder_DuplicateNameAborts(t *testing.T) {
	b := New(WithLogger(testutil.NewTestLogger(t)))
	require.NoError(t, b.ProcessRow([]string{"mt-MRCA"}, "mt-MRCA"))
	require.NoError(t, b.ProcessRow([]string{"", "L1", "C152T", "", ""}, ""))

	before := tree.Prettify(b.Tree())

	err := b.ProcessRow([]string{"L1b1a", "L1b1b", "T5393C", "", ""}, "")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDuplicateHaplogroupName)

	var dup *DuplicateHaplogroupNameError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, 3, dup.Row)
	assert.Equal(t, "row 3: duplicate haplogroup name: L1b1a <=> L1b1b", err.Error())

	if diff := cmp.Diff(before, tree.Prettify(b.Tree()), cmp.AllowUnexported(tree.Descendants{})); diff != "" {
		t.Errorf("tree changed by the aborted row (-before +after):\n%s", diff)
	}

	// aborted builders stay aborted
	err2 := b.ProcessRow([]string{"", "", "L1a", "G3010A", "", ""}, "")
	assert.Same(t, err, err2)
	assert.Same(t, err, b.Err())
	assert.Equal(t, 1, b.Tree().Count())
}

func TestBuilder_IrregularNameWarns(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	b := New(WithLogger(logger))
	require.NoError(t, b.ProcessRow([]string{"mt-MRCA"}, "mt-MRCA"))
	require.NoError(t, b.ProcessRow([]string{"", "C461d", "A263G", "", ""}, ""))

	warnings := b.Warnings()
	require.Len(t, warnings, 1)
	assert.Equal(t, Warning{Candidate: "C461d", Row: 2}, warnings[0])
	assert.Contains(t, buf.String(), "level=WARN")
	assert.Contains(t, buf.String(), "candidate=C461d")

	_, ok := b.Tree().Child("C461d")
	assert.True(t, ok, "irregular names are still accepted")
}

func TestBuilder_SamePathLastWriteWins(t *testing.T) {
	b := New()
	require.NoError(t, b.ProcessRow([]string{"mt-MRCA"}, "mt-MRCA"))
	require.NoError(t, b.ProcessRow([]string{"", "L0", "A263G", "", ""}, ""))
	require.NoError(t, b.ProcessRow([]string{"", "", "L0a", "G125A", "", ""}, ""))
	require.NoError(t, b.ProcessRow([]string{"", "", "L0b", "T1C", "", ""}, ""))
	require.NoError(t, b.ProcessRow([]string{"", "", "L0a", "C5060T", "JN214480", ""}, ""))

	l0a, ok := b.Tree().Lookup([]string{"L0", "L0a"})
	require.True(t, ok)
	assert.Equal(t, &tree.SelfData{Conditions: []string{"C5060T"}, ExampleAccessions: []string{"JN214480"}}, l0a.Self)

	l0b, ok := b.Tree().Lookup([]string{"L0", "L0b"})
	require.True(t, ok)
	assert.Equal(t, []string{"T1C"}, l0b.Self.Conditions)

	l0, _ := b.Tree().Child("L0")
	assert.Equal(t, []string{"L0a", "L0b"}, l0.ChildNames())
}

func TestBuilder_GrowTree(t *testing.T) {
	b := New()
	b.GrowTree("depth1", []string{"T1C"}, nil, 0)
	b.GrowTree("depth2", []string{"T2C"}, nil, 1)
	b.GrowTree("B", []string{"A1234T"}, []string{"ex1"}, 2)

	node, ok := b.Tree().Lookup([]string{"depth1", "depth2", "B"})
	require.True(t, ok)
	assert.Equal(t, &tree.SelfData{Conditions: []string{"A1234T"}, ExampleAccessions: []string{"ex1"}}, node.Self)

	// going back up reuses the open path
	b.GrowTree("C", []string{"G3010A"}, nil, 1)
	_, ok = b.Tree().Lookup([]string{"depth1", "C"})
	assert.True(t, ok)
}

func TestBuilder_FlattenReplayReproducesTree(t *testing.T) {
	b := New()
	rows := [][]string{
		{"mt-MRCA"},
		{"", "L0", "A263G", "", ""},
		{"", "", "L0a", "G125A", "JN214480", ""},
		{"", "", "", "L0a1", "T1C", "", ""},
		{"", "", "L0b", "C152T", "", ""},
		{"", "L1", "T2887C", "", ""},
	}
	for _, cells := range rows {
		require.NoError(t, b.ProcessRow(cells, cells[0]))
	}

	want := b.Prettify()
	paths := tree.Flatten(want, nil)
	require.Len(t, paths, b.Tree().Count())

	replay := New()
	for _, path := range paths {
		node, ok := want.Lookup(tree.PathNames(path))
		require.True(t, ok)
		last := path[len(path)-1]
		replay.GrowTree(last.Name, last.Conditions, node.ExampleAccessions, len(path)-1)
	}

	if diff := cmp.Diff(want, replay.Prettify(), cmp.AllowUnexported(tree.Descendants{})); diff != "" {
		t.Errorf("replayed tree mismatch (-want +got):\n%s", diff)
	}
}
