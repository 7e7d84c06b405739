package tree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNode_DescendCreatesLazily(t *testing.T) {
	root := NewNode()

	_, ok := root.Lookup([]string{"L0", "L0a"})
	assert.False(t, ok)

	leaf := root.Descend([]string{"L0", "L0a"})
	require.NotNil(t, leaf)
	assert.Nil(t, leaf.Self)

	l0, ok := root.Child("L0")
	require.True(t, ok)
	assert.Nil(t, l0.Self, "intermediate node must not get self-data")
	assert.Equal(t, []string{"L0a"}, l0.ChildNames())

	found, ok := root.Lookup([]string{"L0", "L0a"})
	require.True(t, ok)
	assert.Same(t, leaf, found)
}

func TestNode_GrowOverwritesSelfData(t *testing.T) {
	root := NewNode()
	root.Grow([]string{"L0", "L0a"}, SelfData{Conditions: []string{"A1234T"}, ExampleAccessions: []string{"ex1"}})
	root.Grow([]string{"L0", "L0b"}, SelfData{Conditions: []string{"C152T"}})
	root.Grow([]string{"L0", "L0a"}, SelfData{Conditions: []string{"G3010A"}})

	l0a, ok := root.Lookup([]string{"L0", "L0a"})
	require.True(t, ok)
	require.NotNil(t, l0a.Self)
	assert.Equal(t, []string{"G3010A"}, l0a.Self.Conditions)
	assert.Empty(t, l0a.Self.ExampleAccessions)

	l0b, ok := root.Lookup([]string{"L0", "L0b"})
	require.True(t, ok)
	assert.Equal(t, []string{"C152T"}, l0b.Self.Conditions)

	l0, _ := root.Child("L0")
	assert.Equal(t, []string{"L0a", "L0b"}, l0.ChildNames(), "overwrite keeps sibling order")
}

func TestNode_GrowCopiesInput(t *testing.T) {
	root := NewNode()
	conds := []string{"A1234T"}
	node := root.Grow([]string{"B"}, SelfData{Conditions: conds})
	conds[0] = "changed"
	assert.Equal(t, []string{"A1234T"}, node.Self.Conditions)
}

func TestNode_GrowKeepsChildren(t *testing.T) {
	root := NewNode()
	root.Grow([]string{"depth1", "depth2", "depth3"}, SelfData{Conditions: []string{"T1C"}})
	root.Grow([]string{"depth1", "depth2"}, SelfData{Conditions: []string{"A1234T"}, ExampleAccessions: []string{"ex1"}})

	node, ok := root.Lookup([]string{"depth1", "depth2"})
	require.True(t, ok)
	assert.Equal(t, &SelfData{Conditions: []string{"A1234T"}, ExampleAccessions: []string{"ex1"}}, node.Self)
	assert.Equal(t, []string{"depth3"}, node.ChildNames())
}

func TestNode_AllPreOrder(t *testing.T) {
	root := NewNode()
	root.Descend([]string{"A", "A1", "A1a"})
	root.Descend([]string{"A", "A2"})
	root.Descend([]string{"B"})

	var got [][]string
	for path := range root.All() {
		got = append(got, path)
	}

	assert.Equal(t, [][]string{
		{"A"},
		{"A", "A1"},
		{"A", "A1", "A1a"},
		{"A", "A2"},
		{"B"},
	}, got)
	assert.Equal(t, 5, root.Count())
	assert.Equal(t, 3, root.Depth())
}

func TestNode_AllStopsEarly(t *testing.T) {
	root := NewNode()
	root.Descend([]string{"A", "A1"})
	root.Descend([]string{"B"})

	seen := 0
	for range root.All() {
		seen++
		if seen == 2 {
			break
		}
	}
	assert.Equal(t, 2, seen)
}

func TestNode_SentinelNameIsOrdinaryChild(t *testing.T) {
	root := NewNode()
	root.Grow([]string{UnnamedBranch}, SelfData{Conditions: []string{"T1C"}})
	root.Grow([]string{UnnamedBranch, "X"}, SelfData{Conditions: []string{"A2G"}})

	node, ok := root.Child(UnnamedBranch)
	require.True(t, ok)
	assert.Equal(t, []string{"T1C"}, node.Self.Conditions)
	assert.Equal(t, []string{"X"}, node.ChildNames())
}
