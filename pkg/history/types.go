// ABOUTME: File revision history data model
// ABOUTME: Supports temporal queries over the submitted revisions of one file

package history

import (
	"errors"
	"time"
)

var (
	// ErrNoRevisions indicates records held no usable revision
	ErrNoRevisions = errors.New("history: no revisions")

	// ErrUnresolvable indicates a specifier that local history cannot answer
	ErrUnresolvable = errors.New("history: unresolvable specifier")
)

// Entry is one submitted revision of a file
type Entry struct {
	DepotFile   string
	Rev         int       // File revision number, from 1
	Change      int       // Changelist that submitted the revision
	Time        time.Time // Submit time
	Action      string    // add, edit, delete, branch, integrate, ...
	Type        string    // File type, e.g. text+w
	User        string
	Description string
}

// Deleted reports whether the revision removed the file.
func (e *Entry) Deleted() bool {
	return e.Action == "delete" || e.Action == "move/delete" || e.Action == "purge"
}
