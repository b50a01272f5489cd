// ABOUTME: Node shape for fstat output
// ABOUTME: Field name constants, field flag sets and file type helpers

package view

import (
	"strings"
	"time"

	"github.com/nainya/depotview/pkg/result"
	"github.com/nainya/depotview/pkg/tagged"
)

// Field names of fstat output.
const (
	FStatClientFile  = "clientFile"
	FStatDepotFile   = "depotFile"
	FStatMovedFile   = "movedFile"
	FStatPath        = "path"
	FStatIsMapped    = "isMapped"
	FStatShelved     = "shelved"
	FStatHeadAction  = "headAction"
	FStatHeadChange  = "headChange"
	FStatHeadRev     = "headRev"
	FStatHeadType    = "headType"
	FStatHeadTime    = "headTime"
	FStatHeadModTime = "headModTime"
	FStatMovedRev    = "movedRev"
	FStatHaveRev     = "haveRev"
	FStatDesc        = "desc"
	FStatDigest      = "digest"
	FStatFileSize    = "fileSize"
	FStatAction      = "action"
	FStatType        = "type"
	FStatActionOwner = "actionOwner"
	FStatChange      = "change"
	FStatResolved    = "resolved"
	FStatUnresolved  = "unresolved"
	FStatOtherOpen   = "otherOpen"
	FStatOtherLock   = "otherLock"
	FStatOurLock     = "ourLock"
)

// FStatField selects fstat fields to request, e.g. for a -T filter.
type FStatField uint

const (
	FStatFieldDefault   FStatField = 0
	FStatFieldDepotFile FStatField = 1 << (iota - 1)
	FStatFieldClientFile
	FStatFieldFileSize
	FStatFieldHaveRev
	FStatFieldHeadRev
	FStatFieldHeadType
)

var fstatFieldNames = []struct {
	flag FStatField
	name string
}{
	{FStatFieldDepotFile, FStatDepotFile},
	{FStatFieldClientFile, FStatClientFile},
	{FStatFieldFileSize, FStatFileSize},
	{FStatFieldHaveRev, FStatHaveRev},
	{FStatFieldHeadRev, FStatHeadRev},
	{FStatFieldHeadType, FStatHeadType},
}

// Names returns the field names selected by f in a fixed order.
func (f FStatField) Names() []string {
	var names []string
	for _, fn := range fstatFieldNames {
		if f&fn.flag != 0 {
			names = append(names, fn.name)
		}
	}
	return names
}

// FStatNode is one file of fstat output.
type FStatNode struct{ Node }

// NewFStatNode wraps tag.
func NewFStatNode(tag *tagged.Record) FStatNode { return FStatNode{NewNode(tag)} }

// FStat projects rs as fstat output.
func FStat(rs *result.ResultSet) *View[FStatNode] { return New(rs, NewFStatNode) }

// InDepot reports whether the file exists at head in the depot.
func (n FStatNode) InDepot() bool {
	return n.DepotFile() != "" && n.HeadAction() != "delete"
}

func (n FStatNode) ClientFile() string       { return n.GetString(FStatClientFile) }
func (n FStatNode) DepotFile() string        { return n.GetString(FStatDepotFile) }
func (n FStatNode) MovedFile() string        { return n.GetString(FStatMovedFile) }
func (n FStatNode) Path() string             { return n.GetString(FStatPath) }
func (n FStatNode) IsMapped() bool           { return n.ContainsKey(FStatIsMapped) }
func (n FStatNode) Shelved() bool            { return n.ContainsKey(FStatShelved) }
func (n FStatNode) HeadAction() string       { return n.GetString(FStatHeadAction) }
func (n FStatNode) HeadChange() int          { return n.GetInt(FStatHeadChange) }
func (n FStatNode) HeadRev() int             { return n.GetInt(FStatHeadRev) }
func (n FStatNode) HeadType() string         { return n.GetString(FStatHeadType) }
func (n FStatNode) HeadTime() int            { return n.GetInt(FStatHeadTime) }
func (n FStatNode) HeadModTime() int         { return n.GetInt(FStatHeadModTime) }
func (n FStatNode) MovedRev() int            { return n.GetInt(FStatMovedRev) }
func (n FStatNode) HaveRev() int             { return n.GetInt(FStatHaveRev) }
func (n FStatNode) Desc() string             { return n.GetString(FStatDesc) }
func (n FStatNode) Digest() string           { return n.GetString(FStatDigest) }
func (n FStatNode) FileSize() int64          { return n.GetInt64(FStatFileSize) }
func (n FStatNode) Action() string           { return n.GetString(FStatAction) }
func (n FStatNode) Type() string             { return n.GetString(FStatType) }
func (n FStatNode) ActionOwner() string      { return n.GetString(FStatActionOwner) }
func (n FStatNode) Change() int              { return n.GetInt(FStatChange) }
func (n FStatNode) Resolved() string         { return n.GetString(FStatResolved) }
func (n FStatNode) Unresolved() string       { return n.GetString(FStatUnresolved) }
func (n FStatNode) OtherOpen() bool          { return n.ContainsKey(FStatOtherOpen) }
func (n FStatNode) OtherLock() bool          { return n.ContainsKey(FStatOtherLock) }
func (n FStatNode) OurLock() bool            { return n.ContainsKey(FStatOurLock) }
func (n FStatNode) HeadTimestamp() time.Time { return n.GetTime(FStatHeadTime) }

// IsWritableType reports whether the head file type carries the +w modifier.
func (n FStatNode) IsWritableType() bool { return IsWritableFileType(n.HeadType()) }

// IsSymlinkType reports whether the head file type is a symlink.
func (n FStatNode) IsSymlinkType() bool { return IsSymlinkFileType(n.HeadType()) }

// Properties lists the fstat fields.
func (n FStatNode) Properties() []Property {
	return []Property{
		{"depotFile", n.DepotFile()},
		{"clientFile", n.ClientFile()},
		{"path", n.Path()},
		{"inDepot", n.InDepot()},
		{"isMapped", n.IsMapped()},
		{"shelved", n.Shelved()},
		{"headAction", n.HeadAction()},
		{"headChange", n.HeadChange()},
		{"headRev", n.HeadRev()},
		{"headType", n.HeadType()},
		{"headTime", n.HeadTime()},
		{"headModTime", n.HeadModTime()},
		{"haveRev", n.HaveRev()},
		{"movedFile", n.MovedFile()},
		{"movedRev", n.MovedRev()},
		{"desc", n.Desc()},
		{"digest", n.Digest()},
		{"fileSize", n.FileSize()},
		{"action", n.Action()},
		{"type", n.Type()},
		{"actionOwner", n.ActionOwner()},
		{"change", n.Change()},
		{"resolved", n.Resolved()},
		{"unresolved", n.Unresolved()},
		{"otherOpen", n.OtherOpen()},
		{"otherLock", n.OtherLock()},
		{"ourLock", n.OurLock()},
	}
}

// IsWritableFileType reports whether fileType has a w modifier after '+'.
func IsWritableFileType(fileType string) bool {
	_, mods, ok := strings.Cut(fileType, "+")
	return ok && strings.ContainsAny(mods, "wW")
}

// IsSymlinkFileType reports whether fileType names a symlink.
func IsSymlinkFileType(fileType string) bool {
	return strings.Contains(strings.ToLower(fileType), "symlink")
}
