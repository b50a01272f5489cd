// ABOUTME: Node shapes for files, opened, diff2, sizes, depots and print output
// ABOUTME: Thin typed accessors over the raw record fields

package view

import (
	"github.com/nainya/depotview/pkg/result"
	"github.com/nainya/depotview/pkg/tagged"
)

// FilesNode is one row of files output.
type FilesNode struct{ Node }

func NewFilesNode(tag *tagged.Record) FilesNode { return FilesNode{NewNode(tag)} }

func Files(rs *result.ResultSet) *View[FilesNode] { return New(rs, NewFilesNode) }

func (n FilesNode) DepotFile() string { return n.GetString("depotFile") }
func (n FilesNode) Rev() int          { return n.GetInt("rev") }
func (n FilesNode) Change() int       { return n.GetInt("change") }
func (n FilesNode) Action() string    { return n.GetString("action") }
func (n FilesNode) Type() string      { return n.GetString("type") }
func (n FilesNode) Time() int         { return n.GetInt("time") }

func (n FilesNode) Properties() []Property {
	return []Property{
		{"depotFile", n.DepotFile()},
		{"rev", n.Rev()},
		{"change", n.Change()},
		{"action", n.Action()},
		{"type", n.Type()},
		{"time", n.Time()},
	}
}

// OpenedNode is one opened file. Revisions and changes stay strings as
// the server reports "default" and "none".
type OpenedNode struct{ Node }

func NewOpenedNode(tag *tagged.Record) OpenedNode { return OpenedNode{NewNode(tag)} }

func Opened(rs *result.ResultSet) *View[OpenedNode] { return New(rs, NewOpenedNode) }

func (n OpenedNode) DepotFile() string  { return n.GetString("depotFile") }
func (n OpenedNode) ClientFile() string { return n.GetString("clientFile") }
func (n OpenedNode) Rev() string        { return n.GetString("rev") }
func (n OpenedNode) HaveRev() string    { return n.GetString("haveRev") }
func (n OpenedNode) Action() string     { return n.GetString("action") }
func (n OpenedNode) Change() string     { return n.GetString("change") }
func (n OpenedNode) Type() string       { return n.GetString("type") }
func (n OpenedNode) User() string       { return n.GetString("user") }
func (n OpenedNode) Client() string     { return n.GetString("client") }

func (n OpenedNode) Properties() []Property {
	return []Property{
		{"depotFile", n.DepotFile()},
		{"clientFile", n.ClientFile()},
		{"rev", n.Rev()},
		{"haveRev", n.HaveRev()},
		{"action", n.Action()},
		{"change", n.Change()},
		{"type", n.Type()},
		{"user", n.User()},
		{"client", n.Client()},
	}
}

// Diff2Node compares two depot files.
type Diff2Node struct{ Node }

func NewDiff2Node(tag *tagged.Record) Diff2Node { return Diff2Node{NewNode(tag)} }

func Diff2(rs *result.ResultSet) *View[Diff2Node] { return New(rs, NewDiff2Node) }

func (n Diff2Node) Status() string     { return n.GetString("status") }
func (n Diff2Node) DepotFile() string  { return n.GetString("depotFile") }
func (n Diff2Node) Rev() int           { return n.GetInt("rev") }
func (n Diff2Node) Type() string       { return n.GetString("type") }
func (n Diff2Node) DepotFile2() string { return n.GetString("depotFile2") }
func (n Diff2Node) Rev2() int          { return n.GetInt("rev2") }
func (n Diff2Node) Type2() string      { return n.GetString("type2") }

// Identical reports whether the server found no content difference.
func (n Diff2Node) Identical() bool { return n.Status() == "identical" }

func (n Diff2Node) Properties() []Property {
	return []Property{
		{"status", n.Status()},
		{"depotFile", n.DepotFile()},
		{"rev", n.Rev()},
		{"type", n.Type()},
		{"depotFile2", n.DepotFile2()},
		{"rev2", n.Rev2()},
		{"type2", n.Type2()},
	}
}

// SizesNode is one row of sizes output, per file or summarised.
type SizesNode struct{ Node }

func NewSizesNode(tag *tagged.Record) SizesNode { return SizesNode{NewNode(tag)} }

func Sizes(rs *result.ResultSet) *View[SizesNode] { return New(rs, NewSizesNode) }

func (n SizesNode) DepotFile() string { return n.GetString("depotFile") }
func (n SizesNode) FileSize() int64   { return n.GetInt64("fileSize") }
func (n SizesNode) FileCount() int64  { return n.GetInt64("fileCount") }
func (n SizesNode) Path() string      { return n.GetString("path") }
func (n SizesNode) Rev() int          { return n.GetInt("rev") }

func (n SizesNode) Properties() []Property {
	return []Property{
		{"depotFile", n.DepotFile()},
		{"path", n.Path()},
		{"rev", n.Rev()},
		{"fileSize", n.FileSize()},
		{"fileCount", n.FileCount()},
	}
}

// DepotsNode is one depot of a depot listing.
type DepotsNode struct{ Node }

func NewDepotsNode(tag *tagged.Record) DepotsNode { return DepotsNode{NewNode(tag)} }

func Depots(rs *result.ResultSet) *View[DepotsNode] { return New(rs, NewDepotsNode) }

func (n DepotsNode) Name() string { return n.GetString("name") }
func (n DepotsNode) Time() string { return n.GetString("time") }
func (n DepotsNode) Type() string { return n.GetString("type") }
func (n DepotsNode) Map() string  { return n.GetString("map") }
func (n DepotsNode) Desc() string { return n.GetString("desc") }

func (n DepotsNode) Properties() []Property {
	return []Property{
		{"name", n.Name()},
		{"type", n.Type()},
		{"map", n.Map()},
		{"time", n.Time()},
		{"desc", n.Desc()},
	}
}

// PrintNode is the header record print writes before file content.
type PrintNode struct{ Node }

func NewPrintNode(tag *tagged.Record) PrintNode { return PrintNode{NewNode(tag)} }

func Print(rs *result.ResultSet) *View[PrintNode] { return New(rs, NewPrintNode) }

func (n PrintNode) Action() string    { return n.GetString("Action") }
func (n PrintNode) Change() int       { return n.GetInt("Change") }
func (n PrintNode) DepotFile() string { return n.GetString("DepotFile") }
func (n PrintNode) FileSize() int64   { return n.GetInt64("FileSize") }
func (n PrintNode) Rev() int          { return n.GetInt("Rev") }
func (n PrintNode) Time() int         { return n.GetInt("Time") }
func (n PrintNode) Type() string      { return n.GetString("Type") }

func (n PrintNode) Properties() []Property {
	return []Property{
		{"depotFile", n.DepotFile()},
		{"rev", n.Rev()},
		{"change", n.Change()},
		{"action", n.Action()},
		{"type", n.Type()},
		{"time", n.Time()},
		{"fileSize", n.FileSize()},
	}
}
