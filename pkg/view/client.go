// ABOUTME: Node shapes for client and clients output
// ABOUTME: Includes client option flags and spec time parsing

package view

import (
	"slices"
	"strings"
	"time"

	"github.com/nainya/depotview/pkg/result"
	"github.com/nainya/depotview/pkg/tagged"
)

// Field names of a client (workspace) spec.
const (
	ClientAccess         = "Access"
	ClientUpdate         = "Update"
	ClientRoot           = "Root"
	ClientName           = "Client"
	ClientOwner          = "Owner"
	ClientHost           = "Host"
	ClientDescription    = "Description"
	ClientOptions        = "Options"
	ClientSubmitOptions  = "SubmitOptions"
	ClientLineEnd        = "LineEnd"
	ClientStream         = "Stream"
	ClientStreamAtChange = "StreamAtChange"
	ClientServerID       = "ServerID"
	ClientView           = "View"
)

// Line ending conventions of a client spec.
const (
	LineEndLocal = "local"
	LineEndUnix  = "unix"
	LineEndMac   = "mac"
	LineEndWin   = "win"
	LineEndShare = "share"
)

// SpecTimeLayout is how the server prints Update and Access.
const SpecTimeLayout = "2006/01/02 15:04:05"

// ClientOption is the set of enabled client options.
type ClientOption uint

const (
	ClientOptionAllWrite ClientOption = 1 << iota
	ClientOptionClobber
	ClientOptionCompress
	ClientOptionLocked
	ClientOptionModTime
	ClientOptionRmDir
)

var clientOptionNames = []struct {
	flag    ClientOption
	on, off string
}{
	{ClientOptionAllWrite, "allwrite", "noallwrite"},
	{ClientOptionClobber, "clobber", "noclobber"},
	{ClientOptionCompress, "compress", "nocompress"},
	{ClientOptionLocked, "locked", "unlocked"},
	{ClientOptionModTime, "modtime", "nomodtime"},
	{ClientOptionRmDir, "rmdir", "normdir"},
}

// ParseClientOptions reads an Options line. An option is enabled only
// when its name appears; a missing line enables nothing.
func ParseClientOptions(text string) ClientOption {
	var o ClientOption
	words := strings.Fields(text)
	for _, name := range clientOptionNames {
		if slices.Contains(words, name.on) {
			o |= name.flag
		}
	}
	return o
}

// String formats o as an Options line naming every option.
func (o ClientOption) String() string {
	words := make([]string, 0, len(clientOptionNames))
	for _, name := range clientOptionNames {
		if o&name.flag != 0 {
			words = append(words, name.on)
		} else {
			words = append(words, name.off)
		}
	}
	return strings.Join(words, " ")
}

// ClientNode is a client spec.
type ClientNode struct{ Node }

// NewClientNode wraps tag.
func NewClientNode(tag *tagged.Record) ClientNode { return ClientNode{NewNode(tag)} }

// Client projects rs as the output of a client spec query.
func Client(rs *result.ResultSet) *View[ClientNode] { return New(rs, NewClientNode) }

// Clients projects rs as a list of clients.
func Clients(rs *result.ResultSet) *View[ClientNode] { return New(rs, NewClientNode) }

// Exists reports whether the server knows the client. A spec template for
// a new client has no Access time.
func (n ClientNode) Exists() bool { return n.ContainsKey(ClientAccess) }

func (n ClientNode) Access() string         { return n.GetString(ClientAccess) }
func (n ClientNode) Update() string         { return n.GetString(ClientUpdate) }
func (n ClientNode) Root() string           { return n.GetString(ClientRoot) }
func (n ClientNode) Client() string         { return n.GetString(ClientName) }
func (n ClientNode) Owner() string          { return n.GetString(ClientOwner) }
func (n ClientNode) Host() string           { return n.GetString(ClientHost) }
func (n ClientNode) Description() string    { return n.GetString(ClientDescription) }
func (n ClientNode) Options() string        { return n.GetString(ClientOptions) }
func (n ClientNode) SubmitOptions() string  { return n.GetString(ClientSubmitOptions) }
func (n ClientNode) LineEnd() string        { return n.GetString(ClientLineEnd) }
func (n ClientNode) Stream() string         { return n.GetString(ClientStream) }
func (n ClientNode) StreamAtChange() string { return n.GetString(ClientStreamAtChange) }
func (n ClientNode) ServerID() string       { return n.GetString(ClientServerID) }
func (n ClientNode) View() []string         { return n.GetStrings(ClientView) }

// OptionNames splits the Options line.
func (n ClientNode) OptionNames() []string { return strings.Fields(n.Options()) }

// OptionFlags parses the Options line.
func (n ClientNode) OptionFlags() ClientOption { return ParseClientOptions(n.Options()) }

// UpdateTime parses Update, or returns the zero time.
func (n ClientNode) UpdateTime() time.Time { return parseSpecTime(n.Update()) }

// AccessTime parses Access, or returns the zero time.
func (n ClientNode) AccessTime() time.Time { return parseSpecTime(n.Access()) }

// SetRoot corrects the client root in the record.
func (n ClientNode) SetRoot(root string) { n.SetValue(ClientRoot, root) }

// SetView replaces the view mapping lines.
func (n ClientNode) SetView(lines []string) { tagged.SetMulti(n.Tag(), ClientView, lines) }

func parseSpecTime(s string) time.Time {
	t, err := time.ParseInLocation(SpecTimeLayout, strings.TrimSpace(s), time.Local)
	if err != nil {
		return time.Time{}
	}
	return t
}

// Properties lists the client spec fields.
func (n ClientNode) Properties() []Property {
	return []Property{
		{"client", n.Client()},
		{"exists", n.Exists()},
		{"owner", n.Owner()},
		{"host", n.Host()},
		{"root", n.Root()},
		{"description", n.Description()},
		{"options", n.Options()},
		{"submitOptions", n.SubmitOptions()},
		{"lineEnd", n.LineEnd()},
		{"stream", n.Stream()},
		{"streamAtChange", n.StreamAtChange()},
		{"serverID", n.ServerID()},
		{"update", n.Update()},
		{"access", n.Access()},
		{"view", n.View()},
	}
}
