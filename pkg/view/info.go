// ABOUTME: Node shape for info output
// ABOUTME: Server and client environment reported by the server

package view

import (
	"github.com/nainya/depotview/pkg/result"
	"github.com/nainya/depotview/pkg/tagged"
)

// InfoNode is the server and session description printed by info.
type InfoNode struct{ Node }

func NewInfoNode(tag *tagged.Record) InfoNode { return InfoNode{NewNode(tag)} }

// Info projects rs as info output.
func Info(rs *result.ResultSet) *View[InfoNode] { return New(rs, NewInfoNode) }

func (n InfoNode) UserName() string       { return n.GetString("userName") }
func (n InfoNode) ClientName() string     { return n.GetString("clientName") }
func (n InfoNode) ClientRoot() string     { return n.GetString("clientRoot") }
func (n InfoNode) ClientLock() string     { return n.GetString("clientLock") }
func (n InfoNode) ClientCwd() string      { return n.GetString("clientCwd") }
func (n InfoNode) ClientHost() string     { return n.GetString("clientHost") }
func (n InfoNode) PeerAddress() string    { return n.GetString("peerAddress") }
func (n InfoNode) ClientAddress() string  { return n.GetString("clientAddress") }
func (n InfoNode) ServerName() string     { return n.GetString("serverName") }
func (n InfoNode) ServerAddress() string  { return n.GetString("serverAddress") }
func (n InfoNode) ServerRoot() string     { return n.GetString("serverRoot") }
func (n InfoNode) ServerDate() string     { return n.GetString("serverDate") }
func (n InfoNode) ServerUptime() string   { return n.GetString("serverUptime") }
func (n InfoNode) ServerVersion() string  { return n.GetString("serverVersion") }
func (n InfoNode) ServerServices() string { return n.GetString("serverServices") }
func (n InfoNode) ServerLicense() string  { return n.GetString("serverLicense") }
func (n InfoNode) CaseHandling() string   { return n.GetString("caseHandling") }
func (n InfoNode) BrokerAddress() string  { return n.GetString("brokerAddress") }
func (n InfoNode) BrokerVersion() string  { return n.GetString("brokerVersion") }

// CaseInsensitive reports whether the server folds path case.
func (n InfoNode) CaseInsensitive() bool { return n.CaseHandling() == "insensitive" }

func (n InfoNode) Properties() []Property {
	return []Property{
		{"userName", n.UserName()},
		{"clientName", n.ClientName()},
		{"clientRoot", n.ClientRoot()},
		{"clientLock", n.ClientLock()},
		{"clientCwd", n.ClientCwd()},
		{"clientHost", n.ClientHost()},
		{"peerAddress", n.PeerAddress()},
		{"clientAddress", n.ClientAddress()},
		{"serverName", n.ServerName()},
		{"serverAddress", n.ServerAddress()},
		{"serverRoot", n.ServerRoot()},
		{"serverDate", n.ServerDate()},
		{"serverUptime", n.ServerUptime()},
		{"serverVersion", n.ServerVersion()},
		{"serverServices", n.ServerServices()},
		{"serverLicense", n.ServerLicense()},
		{"caseHandling", n.CaseHandling()},
		{"brokerAddress", n.BrokerAddress()},
		{"brokerVersion", n.BrokerVersion()},
	}
}
