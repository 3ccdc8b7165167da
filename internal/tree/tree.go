// Package tree holds the nested observation tree built from tabular datasets.
//
// A tree is made of three node kinds: a Leaf holding one observation value, a
// LeafList holding several values that share a key path, and a Branch. A Branch
// carries one or more labelled dimensions, each mapping a key (the raw cell
// value of a column) to a child node. Keys keep their insertion order so the
// encoded document follows the order rows were first seen.
package tree

// Node is one of Leaf, LeafList or *Branch.
type Node interface {
	node()
}

// Leaf is a single observation value.
type Leaf struct {
	Value interface{}
}

// LeafList holds every value observed for one key path, in row order.
type LeafList struct {
	Values []interface{}
}

// Branch groups child nodes under one or more labelled dimensions.
type Branch struct {
	dims []*Dimension
	// orphan is set on branches a lenient merge created for a missing key.
	orphan bool
}

// Dimension is an ordered mapping from key to child node under a label.
type Dimension struct {
	Label    string
	keys     []string
	children map[string]Node
}

func (Leaf) node()     {}
func (LeafList) node() {}
func (*Branch) node()  {}

// NewBranch returns a branch with a single empty dimension.
func NewBranch(label string) *Branch {
	b := &Branch{}
	b.AddDimension(label)
	return b
}

// Dimension returns the dimension with the given label.
func (b *Branch) Dimension(label string) (*Dimension, bool) {
	for _, d := range b.dims {
		if d.Label == label {
			return d, true
		}
	}
	return nil, false
}

// AddDimension returns the dimension with the given label, appending an empty
// one if the branch does not have it yet.
func (b *Branch) AddDimension(label string) *Dimension {
	if d, ok := b.Dimension(label); ok {
		return d
	}
	d := &Dimension{Label: label, children: make(map[string]Node)}
	b.dims = append(b.dims, d)
	return d
}

// Dimensions returns the branch's dimensions in insertion order.
func (b *Branch) Dimensions() []*Dimension {
	return b.dims
}

// Orphan reports whether the branch was created by a lenient merge rather
// than built from the primary dataset.
func (b *Branch) Orphan() bool {
	return b.orphan
}

// Get returns the child stored under key.
func (d *Dimension) Get(key string) (Node, bool) {
	n, ok := d.children[key]
	return n, ok
}

// Set stores n under key. An existing key keeps its position.
func (d *Dimension) Set(key string, n Node) {
	if _, ok := d.children[key]; !ok {
		d.keys = append(d.keys, key)
	}
	d.children[key] = n
}

// Keys returns the dimension's keys in insertion order.
func (d *Dimension) Keys() []string {
	return d.keys
}

// Lookup walks n along alternating label/key segments, e.g.
// Lookup(root, "geo", "FR", "TIME_PERIOD", "2019").
func Lookup(n Node, segments ...string) (Node, bool) {
	if len(segments)%2 != 0 {
		return nil, false
	}
	for i := 0; i < len(segments); i += 2 {
		b, ok := n.(*Branch)
		if !ok {
			return nil, false
		}
		d, ok := b.Dimension(segments[i])
		if !ok {
			return nil, false
		}
		if n, ok = d.Get(segments[i+1]); !ok {
			return nil, false
		}
	}
	return n, true
}
