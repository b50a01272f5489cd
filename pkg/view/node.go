// ABOUTME: Base node wrapping one tagged record
// ABOUTME: Typed getters with defaults that every shape builds on

package view

import (
	"iter"
	"slices"
	"time"

	"github.com/nainya/depotview/pkg/tagged"
)

// Node is the base of every node shape: typed reads of one record.
type Node struct {
	tag *tagged.Record
}

// NewNode wraps tag, which may be nil.
func NewNode(tag *tagged.Record) Node {
	return Node{tag: tag}
}

// Tag returns the underlying record.
func (n Node) Tag() *tagged.Record { return n.tag }

// IsEmpty reports whether the node has no record or no fields.
func (n Node) IsEmpty() bool { return n.tag.Len() == 0 }

// ContainsKey reports whether field is present.
func (n Node) ContainsKey(field string) bool { return n.tag.ContainsKey(field) }

// GetString returns field, or "" when absent.
func (n Node) GetString(field string) string {
	return tagged.Get(n.tag, field, tagged.String, "")
}

// GetInt returns field as an int, or 0.
func (n Node) GetInt(field string) int {
	return tagged.Get(n.tag, field, tagged.Int, 0)
}

// GetInt64 returns field as an int64, or 0.
func (n Node) GetInt64(field string) int64 {
	return tagged.Get(n.tag, field, tagged.Int64, 0)
}

// GetBool returns field read as true or false, or false.
func (n Node) GetBool(field string) bool {
	return tagged.Get(n.tag, field, tagged.Bool, false)
}

// GetTime returns field read as unix seconds, or the zero time.
func (n Node) GetTime(field string) time.Time {
	return tagged.Get(n.tag, field, tagged.Time, time.Time{})
}

// GetStrings collects the multi-valued field0, field1, ...
func (n Node) GetStrings(field string) []string {
	return slices.Collect(tagged.Multi(n.tag, field, tagged.String))
}

// Multi reads the multi-valued field0, field1, ... of n through conv,
// stopping at the first gap or value that does not convert.
func Multi[T any](n Node, field string, conv tagged.Converter[T]) iter.Seq[T] {
	return tagged.Multi(n.tag, field, conv)
}

// SetValue writes through to the record.
func (n Node) SetValue(field, value string) { n.tag.SetValue(field, value) }

// RemoveKey writes through to the record.
func (n Node) RemoveKey(field string) { n.tag.RemoveKey(field) }

// Fields returns a copy of the record fields.
func (n Node) Fields() map[string]string { return n.tag.Fields() }

// Property is one named, typed value of a node.
type Property struct {
	Name  string
	Value any
}

// Projector is a node that can list its typed properties in a fixed order.
type Projector interface {
	Properties() []Property
}

// Properties of the base node are the raw fields in record order.
func (n Node) Properties() []Property {
	props := make([]Property, 0, n.tag.Len())
	for k, v := range n.tag.All() {
		props = append(props, Property{Name: k, Value: v})
	}
	return props
}
