// ABOUTME: Result set of one server command invocation
// ABOUTME: Ordered tagged records plus the text the command wrote to each channel

package result

import (
	"regexp"
	"strings"

	"github.com/nainya/depotview/pkg/tagged"
)

// Channel is the stream a text message arrived on.
type Channel int

const (
	StdOut Channel = 1 << iota
	StdErr
)

func (c Channel) String() string {
	switch c {
	case StdOut:
		return "stdout"
	case StdErr:
		return "stderr"
	}
	return "none"
}

// Text is one message written by the command.
type Text struct {
	Channel Channel
	Value   string
	Level   int
}

// ResultSet holds everything a command produced. A nil *ResultSet stands
// for a command that produced no result and reports an error.
type ResultSet struct {
	records []*tagged.Record
	texts   []Text
}

// New creates a result set holding records.
func New(records ...*tagged.Record) *ResultSet {
	return &ResultSet{records: records}
}

// Append adds a record.
func (rs *ResultSet) Append(r *tagged.Record) {
	rs.records = append(rs.records, r)
}

// AddText records a message on channel.
func (rs *ResultSet) AddText(channel Channel, value string, level int) {
	rs.texts = append(rs.texts, Text{Channel: channel, Value: value, Level: level})
}

// SetError replaces all messages with a single error.
func (rs *ResultSet) SetError(text string) {
	rs.texts = []Text{{Channel: StdErr, Value: text}}
}

// Len returns the number of records.
func (rs *ResultSet) Len() int {
	if rs == nil {
		return 0
	}
	return len(rs.records)
}

// Record returns the record at index, or nil when out of range.
func (rs *ResultSet) Record(index int) *tagged.Record {
	if rs == nil || index < 0 || index >= len(rs.records) {
		return nil
	}
	return rs.records[index]
}

// Records returns the records in order. The slice must not be modified.
func (rs *ResultSet) Records() []*tagged.Record {
	if rs == nil {
		return nil
	}
	return rs.records
}

// Texts returns all messages in arrival order.
func (rs *ResultSet) Texts() []Text {
	if rs == nil {
		return nil
	}
	return rs.texts
}

// HasText reports whether any message arrived on channel.
func (rs *ResultSet) HasText(channel Channel) bool {
	for _, t := range rs.Texts() {
		if t.Channel&channel != 0 {
			return true
		}
	}
	return false
}

// Text joins the messages on channel with newlines.
func (rs *ResultSet) Text(channel Channel) string {
	var parts []string
	for _, t := range rs.Texts() {
		if t.Channel&channel != 0 {
			parts = append(parts, t.Value)
		}
	}
	return strings.Join(parts, "\n")
}

// HasError reports whether the command failed or produced no result.
func (rs *ResultSet) HasError() bool {
	return rs == nil || rs.HasText(StdErr)
}

// ErrorText returns the trimmed error output.
func (rs *ResultSet) ErrorText() string {
	return strings.TrimSpace(rs.Text(StdErr))
}

// HasErrorMatch reports whether any error message matches pattern,
// ignoring case. An invalid or empty pattern matches nothing.
func (rs *ResultSet) HasErrorMatch(pattern string) bool {
	if pattern == "" {
		return false
	}
	re, err := regexp.Compile("(?i)" + pattern)
	if err != nil {
		return false
	}
	for _, t := range rs.Texts() {
		if t.Channel&StdErr != 0 && re.MatchString(t.Value) {
			return true
		}
	}
	return false
}

// TagValue returns the value of key from the first record holding it.
func (rs *ResultSet) TagValue(key string) string {
	if key == "" {
		return ""
	}
	for _, r := range rs.Records() {
		if v, ok := r.TryGetValue(key); ok {
			return v
		}
	}
	return ""
}
