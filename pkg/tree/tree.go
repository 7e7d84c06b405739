// Package tree provides the haplogroup tree model and its presentation forms.
//
// A Node carries optional self-data (the branch conditions and example
// accessions of the haplogroup it represents) and an insertion-ordered set
// of named children. Self-data and children are kept in separate fields, so
// no haplogroup name can collide with the node's own record.
package tree

import (
	"iter"
	"slices"
)

// UnnamedBranch is the name given to a branch whose row carries conditions
// but no usable haplogroup label.
const UnnamedBranch = "__BRANCH__"

// SelfData is the record attached directly to one node.
type SelfData struct {
	Conditions        []string
	ExampleAccessions []string
}

// Node is one haplogroup in the tree. The zero value is not usable; create
// nodes with NewNode.
type Node struct {
	// Self is nil until a row defines this haplogroup.
	Self *SelfData

	names    []string
	children map[string]*Node
}

// NewNode creates an empty node with no self-data and no children.
func NewNode() *Node {
	return &Node{children: make(map[string]*Node)}
}

// Child returns the named child.
func (n *Node) Child(name string) (*Node, bool) {
	c, ok := n.children[name]
	return c, ok
}

// ChildNames returns the names of the children in insertion order.
func (n *Node) ChildNames() []string {
	return slices.Clone(n.names)
}

// Len returns the number of direct children.
func (n *Node) Len() int {
	return len(n.names)
}

// child returns the named child, creating it if absent.
func (n *Node) child(name string) *Node {
	if c, ok := n.children[name]; ok {
		return c
	}
	c := NewNode()
	n.children[name] = c
	n.names = append(n.names, name)
	return c
}

// Descend walks from n along path, creating every missing node on the way,
// and returns the node at the end of the path.
func (n *Node) Descend(path []string) *Node {
	if len(path) == 0 {
		return n
	}
	return n.child(path[0]).Descend(path[1:])
}

// Lookup walks from n along path without creating anything.
func (n *Node) Lookup(path []string) (*Node, bool) {
	cur := n
	for _, name := range path {
		next, ok := cur.children[name]
		if !ok {
			return nil, false
		}
		cur = next
	}
	return cur, true
}

// Grow descends along path and replaces the self-data of the node found
// there. Any previous self-data is overwritten, never merged.
func (n *Node) Grow(path []string, data SelfData) *Node {
	node := n.Descend(path)
	node.Self = &SelfData{
		Conditions:        slices.Clone(data.Conditions),
		ExampleAccessions: slices.Clone(data.ExampleAccessions),
	}
	return node
}

// All yields every node below n in depth-first pre-order together with its
// path from n. The path slice is freshly allocated for each node.
func (n *Node) All() iter.Seq2[[]string, *Node] {
	return func(yield func([]string, *Node) bool) {
		n.walk(nil, yield)
	}
}

func (n *Node) walk(prefix []string, yield func([]string, *Node) bool) bool {
	for _, name := range n.names {
		path := append(slices.Clone(prefix), name)
		child := n.children[name]
		if !yield(path, child) {
			return false
		}
		if !child.walk(path, yield) {
			return false
		}
	}
	return true
}

// Count returns the number of nodes below n.
func (n *Node) Count() int {
	count := 0
	for range n.All() {
		count++
	}
	return count
}

// Depth returns the length of the longest path below n.
func (n *Node) Depth() int {
	depth := 0
	for path := range n.All() {
		depth = max(depth, len(path))
	}
	return depth
}
