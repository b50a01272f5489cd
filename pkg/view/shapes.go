// ABOUTME: Registry of named node shapes for projecting untyped result sets
// ABOUTME: Used by the service and CLI to pick a shape from a command name

package view

import (
	"fmt"
	"slices"
	"strings"

	"github.com/nainya/depotview/pkg/result"
	"github.com/nainya/depotview/pkg/tagged"
)

// Shape names a node shape and builds its nodes.
type Shape struct {
	Name string
	Node func(*tagged.Record) Projector
}

func shape[N Projector](name string, newNode func(*tagged.Record) N) Shape {
	return Shape{Name: name, Node: func(tag *tagged.Record) Projector { return newNode(tag) }}
}

var shapes = []Shape{
	shape("client", NewClientNode),
	shape("clients", NewClientNode),
	shape("depots", NewDepotsNode),
	shape("diff2", NewDiff2Node),
	shape("files", NewFilesNode),
	shape("fstat", NewFStatNode),
	shape("info", NewInfoNode),
	shape("opened", NewOpenedNode),
	shape("print", NewPrintNode),
	shape("raw", NewNode),
	shape("sizes", NewSizesNode),
	shape("user", NewUserNode),
	shape("users", NewUserNode),
	shape("where", NewWhereNode),
}

// Shapes returns the registered shape names in sorted order.
func Shapes() []string {
	names := make([]string, len(shapes))
	for i, s := range shapes {
		names[i] = s.Name
	}
	slices.Sort(names)
	return names
}

// Lookup finds a shape by name, ignoring case.
func Lookup(name string) (Shape, bool) {
	i := slices.IndexFunc(shapes, func(s Shape) bool { return strings.EqualFold(s.Name, name) })
	if i < 0 {
		return Shape{}, false
	}
	return shapes[i], true
}

// Project views rs through the named shape. Records whose fields do not
// match the shape still project, with absent fields read as defaults.
func Project(name string, rs *result.ResultSet) (*View[Projector], error) {
	s, ok := Lookup(name)
	if !ok {
		return nil, fmt.Errorf("unknown shape %q", name)
	}
	return New(rs, s.Node), nil
}
