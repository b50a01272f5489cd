// ABOUTME: Decoders for tagged command output in -ztag text and -Mj JSON line form
// ABOUTME: Turns captured server output into a result set of ordered records

package ztag

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/nainya/depotview/pkg/result"
	"github.com/nainya/depotview/pkg/tagged"
)

// Prefix starts every tagged line. Nested output repeats it.
const Prefix = "... "

// MaxLineSize bounds a single line of input.
const MaxLineSize = 4 << 20

// Decoder reads records from -ztag text one at a time.
type Decoder struct {
	scanner *bufio.Scanner
	texts   []result.Text
	line    int
}

// NewDecoder returns a decoder reading from r.
func NewDecoder(r io.Reader) *Decoder {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 64*1024), MaxLineSize)
	return &Decoder{scanner: s}
}

// Next returns the next record, or io.EOF when the input is exhausted.
// Untagged lines outside a record are kept as stdout messages.
func (d *Decoder) Next() (*tagged.Record, error) {
	var rec *tagged.Record
	var last string
	for d.scanner.Scan() {
		d.line++
		line := strings.TrimRight(d.scanner.Text(), "\r")

		if line == "" {
			if rec != nil {
				return rec, nil
			}
			continue
		}

		if strings.HasPrefix(line, Prefix) {
			for strings.HasPrefix(line, Prefix) {
				line = line[len(Prefix):]
			}
			key, value, _ := strings.Cut(line, " ")
			if key == "" {
				return nil, fmt.Errorf("line %d: tagged line without a key", d.line)
			}
			if rec == nil {
				rec = tagged.NewRecord()
			}
			rec.SetValue(key, value)
			last = key
			continue
		}

		if rec == nil {
			d.texts = append(d.texts, result.Text{Channel: result.StdOut, Value: line})
			continue
		}
		prev, _ := rec.TryGetValue(last)
		rec.SetValue(last, prev+"\n"+line)
	}
	if err := d.scanner.Err(); err != nil {
		return nil, fmt.Errorf("read ztag line %d: %w", d.line+1, err)
	}
	if rec != nil {
		return rec, nil
	}
	return nil, io.EOF
}

// Texts returns the untagged messages seen so far.
func (d *Decoder) Texts() []result.Text {
	return d.texts
}

// Decode reads all of r as -ztag text.
func Decode(r io.Reader) (*result.ResultSet, error) {
	d := NewDecoder(r)
	rs := result.New()
	for {
		rec, err := d.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		rs.Append(rec)
	}
	for _, t := range d.Texts() {
		rs.AddText(t.Channel, t.Value, t.Level)
	}
	return rs, nil
}

// ErrorSeverity is the lowest message severity reported as an error.
const ErrorSeverity = 3

// DecodeJSON reads -Mj output: one JSON object per line. Objects carrying
// both severity and data are messages; everything else is a record.
func DecodeJSON(r io.Reader) (*result.ResultSet, error) {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 64*1024), MaxLineSize)
	rs := result.New()
	n := 0
	for s.Scan() {
		n++
		line := strings.TrimSpace(s.Text())
		if line == "" {
			continue
		}
		rec := tagged.NewRecord()
		if err := rec.UnmarshalJSON([]byte(line)); err != nil {
			return nil, fmt.Errorf("decode json line %d: %w", n, err)
		}
		if msg, ok := message(rec); ok {
			rs.AddText(msg.Channel, msg.Value, msg.Level)
			continue
		}
		rs.Append(rec)
	}
	if err := s.Err(); err != nil {
		return nil, fmt.Errorf("read json line %d: %w", n+1, err)
	}
	return rs, nil
}

func message(rec *tagged.Record) (result.Text, bool) {
	data, hasData := rec.TryGetValue("data")
	severity, ok := tagged.TryGet(rec, "severity", tagged.Int)
	if !hasData || !ok {
		return result.Text{}, false
	}
	channel := result.StdOut
	if severity >= ErrorSeverity {
		channel = result.StdErr
	}
	return result.Text{Channel: channel, Value: strings.TrimRight(data, "\n"), Level: severity}, true
}
