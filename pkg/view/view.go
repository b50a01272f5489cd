// ABOUTME: Typed projection over a result set
// ABOUTME: A view wraps each record in a node shape built by a caller-supplied factory

package view

import (
	"iter"

	"github.com/nainya/depotview/pkg/result"
	"github.com/nainya/depotview/pkg/tagged"
)

// View projects every record of a result set through a node shape N. It
// owns nothing; nodes read the records of the result set it borrows.
type View[N any] struct {
	result  *result.ResultSet
	newNode func(*tagged.Record) N
}

// New creates a view of rs whose nodes are built by newNode.
func New[N any](rs *result.ResultSet, newNode func(*tagged.Record) N) *View[N] {
	return &View[N]{result: rs, newNode: newNode}
}

// Result returns the underlying result set.
func (v *View[N]) Result() *result.ResultSet {
	return v.result
}

// Count returns the number of nodes.
func (v *View[N]) Count() int {
	return v.result.Len()
}

// At returns the node at index. Out of range indices give a node over no
// record, whose fields all read as defaults.
func (v *View[N]) At(index int) N {
	return v.newNode(v.result.Record(index))
}

// First returns the node of the first record.
func (v *View[N]) First() N {
	return v.At(0)
}

// Nodes iterates the nodes in record order.
func (v *View[N]) Nodes() iter.Seq[N] {
	return func(yield func(N) bool) {
		for _, r := range v.result.Records() {
			if !yield(v.newNode(r)) {
				return
			}
		}
	}
}

// All returns every node.
func (v *View[N]) All() []N {
	nodes := make([]N, 0, v.Count())
	for n := range v.Nodes() {
		nodes = append(nodes, n)
	}
	return nodes
}

// HasError reports whether the command failed or produced no result.
func (v *View[N]) HasError() bool {
	return v.result.HasError()
}

// ErrorText returns the trimmed error output of the command.
func (v *View[N]) ErrorText() string {
	return v.result.ErrorText()
}
