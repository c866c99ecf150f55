package keymap

import (
	"github.com/dshills/tabstorm/internal/input/key"
)

// PrefixTree provides prefix-based binding lookup. Nodes are keyed by the
// normalized form of each event, so Shift is ignored for characters.
type PrefixTree struct {
	root *prefixNode
}

type prefixNode struct {
	children map[key.Event]*prefixNode
	binding  int
	bound    bool
}

func newPrefixNode() *prefixNode {
	return &prefixNode{children: make(map[key.Event]*prefixNode)}
}

// NewPrefixTree creates a new prefix tree.
func NewPrefixTree() *PrefixTree {
	return &PrefixTree{root: newPrefixNode()}
}

// Insert adds a binding index at the node for seq, replacing any previous one.
func (t *PrefixTree) Insert(seq key.Sequence, binding int) {
	node := t.root
	for _, event := range seq {
		k := event.Normalize()
		child, ok := node.children[k]
		if !ok {
			child = newPrefixNode()
			node.children[k] = child
		}
		node = child
	}
	node.binding = binding
	node.bound = true
}

// Remove removes the binding at seq and prunes empty nodes.
func (t *PrefixTree) Remove(seq key.Sequence) {
	if len(seq) == 0 {
		return
	}

	path := make([]*prefixNode, 0, len(seq)+1)
	path = append(path, t.root)
	node := t.root
	for _, event := range seq {
		child, ok := node.children[event.Normalize()]
		if !ok {
			return
		}
		path = append(path, child)
		node = child
	}
	node.bound = false

	for i := len(path) - 1; i > 0; i-- {
		current := path[i]
		if current.bound || len(current.children) > 0 {
			break
		}
		delete(path[i-1].children, seq[i-1].Normalize())
	}
}

func (t *PrefixTree) find(seq key.Sequence) *prefixNode {
	node := t.root
	for _, event := range seq {
		child, ok := node.children[event.Normalize()]
		if !ok {
			return nil
		}
		node = child
	}
	return node
}

// Lookup finds the binding index for an exact match.
func (t *PrefixTree) Lookup(seq key.Sequence) (int, bool) {
	node := t.find(seq)
	if node == nil || !node.bound {
		return 0, false
	}
	return node.binding, true
}

// HasPrefix checks if any binding starts with (or equals) seq.
func (t *PrefixTree) HasPrefix(seq key.Sequence) bool {
	node := t.find(seq)
	return node != nil && (node.bound || len(node.children) > 0)
}

// Completions returns the indexes of every binding under seq.
func (t *PrefixTree) Completions(seq key.Sequence) []int {
	node := t.find(seq)
	if node == nil {
		return nil
	}
	var out []int
	var walk func(n *prefixNode)
	walk = func(n *prefixNode) {
		if n.bound {
			out = append(out, n.binding)
		}
		for _, c := range n.children {
			walk(c)
		}
	}
	walk(node)
	return out
}
