// ABOUTME: Revision specifier data model
// ABOUTME: Closed set of variants naming a file revision, changelist, label or point in time

package revision

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Kind identifies which variant a Revision holds.
type Kind int

const (
	KindInvalid Kind = iota // zero Revision, nothing specified
	KindNone
	KindHave
	KindHead
	KindNow
	KindNumber
	KindChangelist
	KindLabel
	KindDate
	KindRange
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindHave:
		return "have"
	case KindHead:
		return "head"
	case KindNow:
		return "now"
	case KindNumber:
		return "number"
	case KindChangelist:
		return "changelist"
	case KindLabel:
		return "label"
	case KindDate:
		return "date"
	case KindRange:
		return "range"
	case KindInvalid:
		return "invalid"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// DateLayout is the only date format the server accepts in a specifier.
const DateLayout = "2006/01/02:15:04:05"

// ErrNoRevision is returned by UnmarshalText when text names no revision.
var ErrNoRevision = errors.New("no revision specifier")

// Revision is an immutable revision specifier. The zero value specifies
// nothing and is reported by Valid as false.
type Revision struct {
	kind  Kind
	value int
	label string
	date  time.Time
	start *Revision
	end   *Revision
}

// None is the revision before a file existed (#none, #0).
func None() Revision { return Revision{kind: KindNone} }

// Have is the revision synced to the current workspace (#have).
func Have() Revision { return Revision{kind: KindHave} }

// Head is the latest submitted revision (#head).
func Head() Revision { return Revision{kind: KindHead} }

// Now is the depot state at the current time (@now).
func Now() Revision { return Revision{kind: KindNow} }

// Number is a file revision number (#n). Revision #0 is #none, so
// Number(0) returns None.
func Number(n int) Revision {
	if n == 0 {
		return None()
	}
	return Revision{kind: KindNumber, value: n}
}

// Changelist is the depot state at a submitted changelist (@n).
func Changelist(n int) Revision { return Revision{kind: KindChangelist, value: n} }

// Label is a named label, client or other symbolic revision (@text).
func Label(name string) Revision { return Revision{kind: KindLabel, label: name} }

// Date is the depot state at a point in time (@yyyy/MM/dd:HH:mm:ss). The
// time is kept to the second in the local zone, which is what the text
// form can carry.
func Date(t time.Time) Revision {
	return Revision{kind: KindDate, date: t.In(time.Local).Truncate(time.Second)}
}

// Range spans start to end. Either side may be nil.
func Range(start, end *Revision) Revision {
	r := Revision{kind: KindRange}
	if start != nil {
		s := *start
		r.start = &s
	}
	if end != nil {
		e := *end
		r.end = &e
	}
	return r
}

// Kind returns the variant.
func (r Revision) Kind() Kind { return r.kind }

// Valid reports whether r specifies anything.
func (r Revision) Valid() bool { return r.kind != KindInvalid }

// Value returns the revision or changelist number for Number and
// Changelist, and 0 otherwise.
func (r Revision) Value() int { return r.value }

// LabelName returns the label text of a Label revision.
func (r Revision) LabelName() string { return r.label }

// Time returns the point in time of a Date revision.
func (r Revision) Time() time.Time { return r.date }

// Start returns the lower bound of a Range.
func (r Revision) Start() (Revision, bool) {
	if r.start == nil {
		return Revision{}, false
	}
	return *r.start, true
}

// End returns the upper bound of a Range.
func (r Revision) End() (Revision, bool) {
	if r.end == nil {
		return Revision{}, false
	}
	return *r.end, true
}

// String returns the canonical text passed to the server. For a Range with
// both ends the sigil of the end is dropped ("#1,3"), as the server reads
// the end with the sigil of the start.
func (r Revision) String() string {
	switch r.kind {
	case KindNone:
		return "#none"
	case KindHave:
		return "#have"
	case KindHead:
		return "#head"
	case KindNow:
		return "@now"
	case KindNumber:
		return fmt.Sprintf("#%d", r.value)
	case KindChangelist:
		return fmt.Sprintf("@%d", r.value)
	case KindLabel:
		return "@" + r.label
	case KindDate:
		return "@" + r.date.Format(DateLayout)
	case KindRange:
		switch {
		case r.start != nil && r.end != nil:
			return r.start.String() + "," + strings.TrimLeft(r.end.String(), "@#")
		case r.start != nil:
			return r.start.String() + ","
		case r.end != nil:
			return r.end.String()
		}
		return ""
	case KindInvalid:
		return ""
	}
	panic(fmt.Sprintf("revision: unhandled kind %v", r.kind))
}

// Equal reports whether r and o are the same variant with the same payload.
func (r Revision) Equal(o Revision) bool {
	if r.kind != o.kind {
		return false
	}
	switch r.kind {
	case KindInvalid, KindNone, KindHave, KindHead, KindNow:
		return true
	case KindNumber, KindChangelist:
		return r.value == o.value
	case KindLabel:
		return r.label == o.label
	case KindDate:
		return r.date.Equal(o.date)
	case KindRange:
		return equalBound(r.start, o.start) && equalBound(r.end, o.end)
	}
	panic(fmt.Sprintf("revision: unhandled kind %v", r.kind))
}

func equalBound(a, b *Revision) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}

// IsHead reports whether r prints as #head.
func (r Revision) IsHead() bool { return r.IsRevisionString("#head") }

// IsHave reports whether r prints as #have.
func (r Revision) IsHave() bool { return r.IsRevisionString("#have") }

// IsNone reports whether r prints as #none.
func (r Revision) IsNone() bool { return r.IsRevisionString("#none") }

// IsRevisionString compares the canonical text of r with id, ignoring case
// and surrounding whitespace.
func (r Revision) IsRevisionString(id string) bool {
	return strings.EqualFold(strings.TrimSpace(r.String()), strings.TrimSpace(id))
}

// MarshalText implements encoding.TextMarshaler.
func (r Revision) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. Blank text yields the
// zero Revision.
func (r *Revision) UnmarshalText(text []byte) error {
	if strings.TrimSpace(string(text)) == "" {
		*r = Revision{}
		return nil
	}
	parsed, ok := Parse(string(text))
	if !ok {
		return fmt.Errorf("%w: %q", ErrNoRevision, text)
	}
	*r = parsed
	return nil
}
