// ABOUTME: Node shape for where output
// ABOUTME: Maps one depot path to its workspace and local paths

package view

import (
	"github.com/nainya/depotview/pkg/result"
	"github.com/nainya/depotview/pkg/tagged"
)

// Field names of where output.
const (
	WhereLocalPath     = "path"
	WhereDepotPath     = "depotFile"
	WhereWorkspacePath = "clientFile"
)

// WhereNode maps one file between its depot, workspace and local paths.
type WhereNode struct{ Node }

func NewWhereNode(tag *tagged.Record) WhereNode { return WhereNode{NewNode(tag)} }

// Where projects rs as where output.
func Where(rs *result.ResultSet) *View[WhereNode] { return New(rs, NewWhereNode) }

func (n WhereNode) LocalPath() string     { return n.GetString(WhereLocalPath) }
func (n WhereNode) DepotPath() string     { return n.GetString(WhereDepotPath) }
func (n WhereNode) WorkspacePath() string { return n.GetString(WhereWorkspacePath) }

// Unmapped reports whether the mapping excludes the file.
func (n WhereNode) Unmapped() bool { return n.ContainsKey("unmap") }

func (n WhereNode) Properties() []Property {
	return []Property{
		{"depotPath", n.DepotPath()},
		{"workspacePath", n.WorkspacePath()},
		{"localPath", n.LocalPath()},
		{"unmapped", n.Unmapped()},
	}
}
