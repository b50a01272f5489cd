// ABOUTME: Tagged record, one row of the server's key/value output
// ABOUTME: Unique case-sensitive keys with insertion order kept for serialization

package tagged

import (
	"bytes"
	"encoding/json"
	"fmt"
	"iter"
	"maps"
	"slices"
)

// Record maps field names to string values. A nil *Record reads as an
// empty record and ignores writes. Record is not safe for concurrent
// mutation.
type Record struct {
	keys   []string
	values map[string]string
}

// NewRecord creates an empty record.
func NewRecord() *Record {
	return &Record{values: make(map[string]string)}
}

// FromPairs builds a record from alternating keys and values.
func FromPairs(pairs ...string) *Record {
	if len(pairs)%2 != 0 {
		panic(fmt.Sprintf("tagged: odd number of pair arguments (%d)", len(pairs)))
	}
	r := NewRecord()
	for i := 0; i < len(pairs); i += 2 {
		r.SetValue(pairs[i], pairs[i+1])
	}
	return r
}

// FromMap builds a record from m with keys in sorted order.
func FromMap(m map[string]string) *Record {
	r := NewRecord()
	for _, k := range slices.Sorted(maps.Keys(m)) {
		r.SetValue(k, m[k])
	}
	return r
}

// TryGetValue returns the raw value of field.
func (r *Record) TryGetValue(field string) (string, bool) {
	if r == nil || r.values == nil {
		return "", false
	}
	v, ok := r.values[field]
	return v, ok
}

// GetValue returns the raw value of field, or def when absent.
func (r *Record) GetValue(field, def string) string {
	if v, ok := r.TryGetValue(field); ok {
		return v
	}
	return def
}

// ContainsKey reports whether field is present, whatever its value.
func (r *Record) ContainsKey(field string) bool {
	_, ok := r.TryGetValue(field)
	return ok
}

// SetValue stores value under field. A new field goes to the end of the
// key order; an existing one keeps its position. Empty field names are
// ignored.
func (r *Record) SetValue(field, value string) {
	if r == nil || field == "" {
		return
	}
	if r.values == nil {
		r.values = make(map[string]string)
	}
	if _, ok := r.values[field]; !ok {
		r.keys = append(r.keys, field)
	}
	r.values[field] = value
}

// RemoveKey deletes field if present.
func (r *Record) RemoveKey(field string) {
	if r == nil || r.values == nil {
		return
	}
	if _, ok := r.values[field]; !ok {
		return
	}
	delete(r.values, field)
	r.keys = slices.DeleteFunc(r.keys, func(k string) bool { return k == field })
}

// Len returns the number of fields.
func (r *Record) Len() int {
	if r == nil {
		return 0
	}
	return len(r.keys)
}

// Keys returns the field names in insertion order.
func (r *Record) Keys() []string {
	if r == nil {
		return nil
	}
	return slices.Clone(r.keys)
}

// Fields returns a copy of the fields as a map.
func (r *Record) Fields() map[string]string {
	if r == nil {
		return map[string]string{}
	}
	return maps.Clone(r.values)
}

// All iterates the fields in insertion order.
func (r *Record) All() iter.Seq2[string, string] {
	return func(yield func(string, string) bool) {
		if r == nil {
			return
		}
		for _, k := range r.keys {
			if !yield(k, r.values[k]) {
				return
			}
		}
	}
}

// Clone returns a deep copy of r.
func (r *Record) Clone() *Record {
	if r == nil {
		return nil
	}
	return &Record{keys: slices.Clone(r.keys), values: maps.Clone(r.values)}
}

// MarshalJSON writes the record as a JSON object in key order.
func (r *Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range r.Keys() {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(r.values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads a flat JSON object, keeping key order. Non-string
// scalars are stored in their JSON text form.
func (r *Record) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("tagged: read record: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("tagged: record must be a JSON object")
	}

	*r = Record{values: make(map[string]string)}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("tagged: read key: %w", err)
		}
		key, _ := tok.(string)

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("tagged: read value of %q: %w", key, err)
		}
		val, err := scalarText(raw)
		if err != nil {
			return fmt.Errorf("tagged: value of %q: %w", key, err)
		}
		r.SetValue(key, val)
	}
	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("tagged: read record end: %w", err)
	}
	return nil
}

func scalarText(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return "", nil
	}
	switch raw[0] {
	case '"':
		var s string
		err := json.Unmarshal(raw, &s)
		return s, err
	case '{', '[':
		return "", fmt.Errorf("nested values are not supported")
	case 'n':
		return "", nil
	}
	return string(raw), nil
}
