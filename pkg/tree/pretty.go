package tree

import (
	"iter"
	"slices"
)

// Pretty is the nested presentation of a node. Conditions and
// ExampleAccessions are nil when the node has no self-data; Descendants is
// nil when it has no children.
type Pretty struct {
	Conditions        []string
	ExampleAccessions []string
	Descendants       *Descendants
}

// HasSelf reports whether the node carried self-data.
func (p *Pretty) HasSelf() bool {
	return p.Conditions != nil || p.ExampleAccessions != nil
}

// Lookup follows names through the descendants of p.
func (p *Pretty) Lookup(names []string) (*Pretty, bool) {
	cur := p
	for _, name := range names {
		if cur.Descendants == nil {
			return nil, false
		}
		next, ok := cur.Descendants.Get(name)
		if !ok {
			return nil, false
		}
		cur = next
	}
	return cur, true
}

// Descendants is an insertion-ordered mapping from haplogroup name to its
// presentation.
type Descendants struct {
	names  []string
	byName map[string]*Pretty
}

// NewDescendants creates an empty mapping.
func NewDescendants() *Descendants {
	return &Descendants{byName: make(map[string]*Pretty)}
}

// Set adds or replaces the named entry. Replacing keeps the original position.
func (d *Descendants) Set(name string, p *Pretty) {
	if _, ok := d.byName[name]; !ok {
		d.names = append(d.names, name)
	}
	d.byName[name] = p
}

// Get returns the named entry.
func (d *Descendants) Get(name string) (*Pretty, bool) {
	p, ok := d.byName[name]
	return p, ok
}

// Names returns the entry names in insertion order.
func (d *Descendants) Names() []string {
	return slices.Clone(d.names)
}

// Len returns the number of entries.
func (d *Descendants) Len() int {
	if d == nil {
		return 0
	}
	return len(d.names)
}

// All yields the entries in insertion order.
func (d *Descendants) All() iter.Seq2[string, *Pretty] {
	return func(yield func(string, *Pretty) bool) {
		if d == nil {
			return
		}
		for _, name := range d.names {
			if !yield(name, d.byName[name]) {
				return
			}
		}
	}
}

// Prettify converts n and everything below it into the nested presentation.
func Prettify(n *Node) *Pretty {
	p := &Pretty{}
	if n.Self != nil {
		p.Conditions = nonNil(n.Self.Conditions)
		p.ExampleAccessions = nonNil(n.Self.ExampleAccessions)
	}
	if n.Len() > 0 {
		p.Descendants = NewDescendants()
		for _, name := range n.names {
			p.Descendants.Set(name, Prettify(n.children[name]))
		}
	}
	return p
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return slices.Clone(s)
}

// PathEntry is one step of a root-to-node path in the flattened form.
type PathEntry struct {
	Name       string   `json:"name" yaml:"name"`
	Conditions []string `json:"conditions" yaml:"conditions"`
}

// Paths yields, for every descendant of p in depth-first pre-order, the path
// of entries leading to it. Each call to the returned sequence starts a new
// traversal.
func Paths(p *Pretty) iter.Seq[[]PathEntry] {
	return PathsFrom(p, nil)
}

// PathsFrom is Paths with every yielded path starting with prefix.
func PathsFrom(p *Pretty, prefix []PathEntry) iter.Seq[[]PathEntry] {
	return func(yield func([]PathEntry) bool) {
		walkPaths(p, prefix, yield)
	}
}

func walkPaths(p *Pretty, prefix []PathEntry, yield func([]PathEntry) bool) bool {
	for name, branch := range p.Descendants.All() {
		current := append(slices.Clone(prefix), PathEntry{Name: name, Conditions: branch.Conditions})
		if !yield(current) {
			return false
		}
		if branch.Descendants.Len() > 0 && !walkPaths(branch, current, yield) {
			return false
		}
	}
	return true
}

// Flatten collects PathsFrom(p, prefix) into a slice.
func Flatten(p *Pretty, prefix []PathEntry) [][]PathEntry {
	var out [][]PathEntry
	for path := range PathsFrom(p, prefix) {
		out = append(out, path)
	}
	return out
}

// PathNames returns the haplogroup names along path.
func PathNames(path []PathEntry) []string {
	names := make([]string, len(path))
	for i, e := range path {
		names[i] = e.Name
	}
	return names
}

// Replay rebuilds a tree from the nested presentation by growing every path
// in flattened order.
func Replay(p *Pretty) *Node {
	root := NewNode()
	for path := range Paths(p) {
		names := PathNames(path)
		src, _ := p.Lookup(names)
		node := root.Descend(names)
		if src.HasSelf() {
			node.Self = &SelfData{
				Conditions:        slices.Clone(src.Conditions),
				ExampleAccessions: slices.Clone(src.ExampleAccessions),
			}
		}
	}
	return root
}
