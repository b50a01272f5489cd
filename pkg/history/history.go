// ABOUTME: Revision history with temporal lookups
// ABOUTME: Resolves revision specifiers against the revisions of one file

package history

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"
	"time"

	"github.com/nainya/depotview/pkg/result"
	"github.com/nainya/depotview/pkg/revision"
	"github.com/nainya/depotview/pkg/tagged"
)

// History holds the revisions of one file in ascending revision order,
// plus the revision synced to the workspace (0 when not synced).
type History struct {
	DepotFile string
	Have      int
	entries   []*Entry
}

// New builds a history from entries in any order. Duplicate revisions
// keep the first entry seen.
func New(have int, entries ...*Entry) (*History, error) {
	h := &History{Have: have}
	seen := make(map[int]bool, len(entries))
	for _, e := range entries {
		if e == nil || e.Rev <= 0 || seen[e.Rev] {
			continue
		}
		seen[e.Rev] = true
		h.entries = append(h.entries, e)
		if h.DepotFile == "" {
			h.DepotFile = e.DepotFile
		}
	}
	if len(h.entries) == 0 {
		return nil, ErrNoRevisions
	}
	slices.SortFunc(h.entries, func(a, b *Entry) int { return cmp.Compare(a.Rev, b.Rev) })
	return h, nil
}

// FromResultSet reads revisions from fstat, files or filelog records. Flat
// records use rev or headRev; filelog records carry rev0, rev1, ... A
// haveRev field sets the have revision when have is 0.
func FromResultSet(rs *result.ResultSet, have int) (*History, error) {
	var entries []*Entry
	for _, rec := range rs.Records() {
		if have == 0 {
			have = tagged.Get(rec, "haveRev", tagged.Int, 0)
		}
		depotFile := rec.GetValue("depotFile", "")
		if rec.ContainsKey("rev0") {
			for i := 0; rec.ContainsKey("rev" + strconv.Itoa(i)); i++ {
				if e := entryAt(rec, depotFile, strconv.Itoa(i)); e != nil {
					entries = append(entries, e)
				}
			}
			continue
		}
		if e := flatEntry(rec, depotFile); e != nil {
			entries = append(entries, e)
		}
	}
	return New(have, entries...)
}

func entryAt(rec *tagged.Record, depotFile, suffix string) *Entry {
	rev, ok := tagged.TryGet(rec, "rev"+suffix, tagged.Int)
	if !ok {
		return nil
	}
	return &Entry{
		DepotFile:   depotFile,
		Rev:         rev,
		Change:      tagged.Get(rec, "change"+suffix, tagged.Int, 0),
		Time:        tagged.Get(rec, "time"+suffix, tagged.Time, time.Time{}),
		Action:      rec.GetValue("action"+suffix, ""),
		Type:        rec.GetValue("type"+suffix, ""),
		User:        rec.GetValue("user"+suffix, ""),
		Description: rec.GetValue("desc"+suffix, ""),
	}
}

func flatEntry(rec *tagged.Record, depotFile string) *Entry {
	if rec.ContainsKey("rev") {
		return entryAt(rec, depotFile, "")
	}
	rev, ok := tagged.TryGet(rec, "headRev", tagged.Int)
	if !ok {
		return nil
	}
	return &Entry{
		DepotFile:   depotFile,
		Rev:         rev,
		Change:      tagged.Get(rec, "headChange", tagged.Int, 0),
		Time:        tagged.Get(rec, "headTime", tagged.Time, time.Time{}),
		Action:      rec.GetValue("headAction", ""),
		Type:        rec.GetValue("headType", ""),
		Description: rec.GetValue("desc", ""),
	}
}

// Entries returns every revision in ascending order.
func (h *History) Entries() []*Entry {
	return slices.Clone(h.entries)
}

// Latest returns the head revision.
func (h *History) Latest() *Entry {
	return h.entries[len(h.entries)-1]
}

// Get returns revision rev, or nil.
func (h *History) Get(rev int) *Entry {
	i, ok := slices.BinarySearchFunc(h.entries, rev, func(e *Entry, r int) int { return cmp.Compare(e.Rev, r) })
	if !ok {
		return nil
	}
	return h.entries[i]
}

// AsOf returns the revision that was current at t, or nil if the file did
// not exist yet.
func (h *History) AsOf(t time.Time) *Entry {
	var found *Entry
	for _, e := range h.entries {
		if e.Time.After(t) {
			break
		}
		found = e
	}
	return found
}

// AtChange returns the revision current as of changelist change.
func (h *History) AtChange(change int) *Entry {
	var found *Entry
	for _, e := range h.entries {
		if e.Change > change {
			break
		}
		found = e
	}
	return found
}

// List returns up to limit revisions, oldest first. A limit of zero or
// less lists all.
func (h *History) List(limit int) []*Entry {
	if limit <= 0 || limit > len(h.entries) {
		limit = len(h.entries)
	}
	return slices.Clone(h.entries[:limit])
}

// Resolve returns the revisions spec names, in ascending order, taking
// the current time for @now.
func (h *History) Resolve(spec revision.Revision) ([]*Entry, error) {
	return h.ResolveAt(spec, time.Now())
}

// ResolveAt is Resolve with an explicit current time. A specifier that
// names no revision, like #none or a change before the file was added,
// gives an empty list. Labels are held by the server and cannot be
// resolved locally.
func (h *History) ResolveAt(spec revision.Revision, now time.Time) ([]*Entry, error) {
	if spec.Kind() == revision.KindRange {
		return h.resolveRange(spec, now)
	}
	e, err := h.point(spec, now)
	if err != nil {
		return nil, err
	}
	if spec.Kind() == revision.KindNumber && (e == nil || e.Rev != spec.Value()) {
		return nil, fmt.Errorf("%w: %s has no revision #%d", ErrUnresolvable, h.DepotFile, spec.Value())
	}
	if e == nil {
		return []*Entry{}, nil
	}
	return []*Entry{e}, nil
}

// point resolves a single specifier to the last revision at or before it.
func (h *History) point(spec revision.Revision, now time.Time) (*Entry, error) {
	switch spec.Kind() {
	case revision.KindNone:
		return nil, nil
	case revision.KindHead:
		return h.Latest(), nil
	case revision.KindHave:
		if h.Have == 0 {
			return nil, nil
		}
		return h.lastAtOrBefore(h.Have), nil
	case revision.KindNumber:
		return h.lastAtOrBefore(spec.Value()), nil
	case revision.KindChangelist:
		return h.AtChange(spec.Value()), nil
	case revision.KindDate:
		return h.AsOf(spec.Time()), nil
	case revision.KindNow:
		return h.AsOf(now), nil
	case revision.KindLabel:
		return nil, fmt.Errorf("%w: label %q", ErrUnresolvable, spec.LabelName())
	}
	return nil, fmt.Errorf("%w: %s", ErrUnresolvable, spec.Kind())
}

func (h *History) lastAtOrBefore(rev int) *Entry {
	var found *Entry
	for _, e := range h.entries {
		if e.Rev > rev {
			break
		}
		found = e
	}
	return found
}

// lowerBound is the first revision a range starting at spec includes.
func (h *History) lowerBound(spec revision.Revision, now time.Time) (int, error) {
	after := func(keep func(*Entry) bool) int {
		for _, e := range h.entries {
			if keep(e) {
				return e.Rev
			}
		}
		return h.Latest().Rev + 1
	}
	switch spec.Kind() {
	case revision.KindNone:
		return 1, nil
	case revision.KindNumber:
		return max(spec.Value(), 1), nil
	case revision.KindChangelist:
		return after(func(e *Entry) bool { return e.Change >= spec.Value() }), nil
	case revision.KindDate:
		return after(func(e *Entry) bool { return !e.Time.Before(spec.Time()) }), nil
	case revision.KindNow:
		return after(func(e *Entry) bool { return !e.Time.Before(now) }), nil
	}
	e, err := h.point(spec, now)
	if err != nil {
		return 0, err
	}
	if e == nil {
		return 1, nil
	}
	return e.Rev, nil
}

func (h *History) resolveRange(spec revision.Revision, now time.Time) ([]*Entry, error) {
	lo, hi := 1, h.Latest().Rev
	if start, ok := spec.Start(); ok {
		var err error
		if lo, err = h.lowerBound(start, now); err != nil {
			return nil, err
		}
	}
	if end, ok := spec.End(); ok {
		if start, ok := spec.Start(); ok && atSigil(start) && end.Kind() == revision.KindNumber {
			// "@100,200" ends at change 200: the end takes the sigil of the start.
			end = revision.Changelist(end.Value())
		}
		e, err := h.point(end, now)
		if err != nil {
			return nil, err
		}
		if e == nil {
			return []*Entry{}, nil
		}
		hi = e.Rev
	}

	out := []*Entry{}
	for _, e := range h.entries {
		if e.Rev >= lo && e.Rev <= hi {
			out = append(out, e)
		}
	}
	return out, nil
}

// atSigil reports whether r is written with @ rather than #.
func atSigil(r revision.Revision) bool {
	switch r.Kind() {
	case revision.KindChangelist, revision.KindDate, revision.KindNow, revision.KindLabel:
		return true
	}
	return false
}
