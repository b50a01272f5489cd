// ABOUTME: Node shapes for user and users output
// ABOUTME: Reviews are multi-valued; passwords are never listed as properties

package view

import (
	"github.com/nainya/depotview/pkg/result"
	"github.com/nainya/depotview/pkg/tagged"
)

// UserNode is a user spec, or one row of a user listing.
type UserNode struct{ Node }

func NewUserNode(tag *tagged.Record) UserNode { return UserNode{NewNode(tag)} }

// User projects rs as a user spec.
func User(rs *result.ResultSet) *View[UserNode] { return New(rs, NewUserNode) }

// Users projects rs as a user listing.
func Users(rs *result.ResultSet) *View[UserNode] { return New(rs, NewUserNode) }

func (n UserNode) User() string           { return n.GetString("User") }
func (n UserNode) Email() string          { return n.GetString("Email") }
func (n UserNode) Update() string         { return n.GetString("Update") }
func (n UserNode) Access() string         { return n.GetString("Access") }
func (n UserNode) FullName() string       { return n.GetString("FullName") }
func (n UserNode) Password() string       { return n.GetString("Password") }
func (n UserNode) Type() string           { return n.GetString("Type") }
func (n UserNode) AuthMethod() string     { return n.GetString("AuthMethod") }
func (n UserNode) PasswordChange() string { return n.GetString("passwordChange") }
func (n UserNode) Reviews() []string      { return n.GetStrings("Reviews") }

// Properties leaves out Password.
func (n UserNode) Properties() []Property {
	return []Property{
		{"user", n.User()},
		{"email", n.Email()},
		{"fullName", n.FullName()},
		{"type", n.Type()},
		{"authMethod", n.AuthMethod()},
		{"update", n.Update()},
		{"access", n.Access()},
		{"passwordChange", n.PasswordChange()},
		{"reviews", n.Reviews()},
	}
}
