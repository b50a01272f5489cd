// ABOUTME: Encoders writing a result set back out as -ztag text or -Mj JSON lines
// ABOUTME: Record key order is preserved in both forms

package ztag

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/nainya/depotview/pkg/result"
	"github.com/nainya/depotview/pkg/tagged"
)

// ErrUnrepresentable is returned by Encode for records the text form
// cannot carry. EncodeJSON has no such limits.
var ErrUnrepresentable = errors.New("ztag: record cannot be written as text")

// Encode writes the records of rs as -ztag text. Each record ends with a
// blank line; multi-line values continue on untagged lines.
func Encode(w io.Writer, rs *result.ResultSet) error {
	bw := bufio.NewWriter(w)
	for _, rec := range rs.Records() {
		if err := encodeRecord(bw, rec); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func encodeRecord(w *bufio.Writer, rec *tagged.Record) error {
	if rec.Len() == 0 {
		return fmt.Errorf("%w: empty record", ErrUnrepresentable)
	}
	for k, v := range rec.All() {
		if err := checkField(k, v); err != nil {
			return err
		}
	}
	for k, v := range rec.All() {
		if _, err := fmt.Fprintf(w, "%s%s %s\n", Prefix, k, v); err != nil {
			return fmt.Errorf("write field %s: %w", k, err)
		}
	}
	_, err := w.WriteString("\n")
	return err
}

// checkField rejects fields that would read back differently. A blank
// line ends the record, a continuation line starting with Prefix becomes
// a field of its own, and a trailing carriage return is stripped.
func checkField(k, v string) error {
	if k == "" || strings.ContainsAny(k, " \r\n") {
		return fmt.Errorf("%w: key %q", ErrUnrepresentable, k)
	}
	for i, line := range strings.Split(v, "\n") {
		if strings.HasSuffix(line, "\r") || i > 0 && (line == "" || strings.HasPrefix(line, Prefix)) {
			return fmt.Errorf("%w: value of %s", ErrUnrepresentable, k)
		}
	}
	return nil
}

// EncodeJSON writes rs as JSON lines: messages first, in arrival order,
// then one object per record with keys in record order.
func EncodeJSON(w io.Writer, rs *result.ResultSet) error {
	bw := bufio.NewWriter(w)
	for _, t := range rs.Texts() {
		severity := t.Level
		if t.Channel == result.StdErr && severity < ErrorSeverity {
			severity = ErrorSeverity
		}
		line, err := json.Marshal(struct {
			Data     string `json:"data"`
			Severity int    `json:"severity"`
		}{t.Value, severity})
		if err != nil {
			return fmt.Errorf("encode message: %w", err)
		}
		bw.Write(line)
		bw.WriteByte('\n')
	}
	for i, rec := range rs.Records() {
		line, err := rec.MarshalJSON()
		if err != nil {
			return fmt.Errorf("encode record %d: %w", i, err)
		}
		bw.Write(line)
		bw.WriteByte('\n')
	}
	return bw.Flush()
}
