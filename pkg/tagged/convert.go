// ABOUTME: Typed access to tagged record fields
// ABOUTME: Explicit string conversions; a failed conversion reports false, never panics

package tagged

import (
	"iter"
	"strconv"
	"strings"
	"time"
)

// Converter reads one field value as T. It reports false instead of
// failing when the text does not convert.
type Converter[T any] func(string) (T, bool)

// String passes the value through. Any present value converts, including
// the empty string.
func String(s string) (string, bool) { return s, true }

// Int converts a 32-bit decimal integer.
func Int(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	n, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return 0, false
	}
	return int(n), true
}

// Int64 converts a 64-bit decimal integer.
func Int64(s string) (int64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// Float64 converts a decimal floating point number.
func Float64(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// Bool converts "true" or "false" in any case.
func Bool(s string) (bool, bool) {
	switch s = strings.TrimSpace(s); {
	case strings.EqualFold(s, "true"):
		return true, true
	case strings.EqualFold(s, "false"):
		return false, true
	}
	return false, false
}

// Time converts unix seconds, the form of headTime, headModTime and time.
func Time(s string) (time.Time, bool) {
	n, ok := Int64(s)
	if !ok {
		return time.Time{}, false
	}
	return time.Unix(n, 0), true
}

// Enum returns a converter for an enumeration given its names. Either a
// defined numeric value or an exact name converts.
func Enum[T ~int](names map[string]T) Converter[T] {
	return func(s string) (T, bool) {
		s = strings.TrimSpace(s)
		if n, ok := Int(s); ok {
			for _, v := range names {
				if int(v) == n {
					return v, true
				}
			}
			return 0, false
		}
		v, ok := names[s]
		return v, ok
	}
}

// TryGet converts the value of field. An absent field or a failed
// conversion returns the zero value and false.
func TryGet[T any](r *Record, field string, conv Converter[T]) (T, bool) {
	var zero T
	s, ok := r.TryGetValue(field)
	if !ok {
		return zero, false
	}
	v, ok := conv(s)
	if !ok {
		return zero, false
	}
	return v, true
}

// Get converts the value of field, or returns def.
func Get[T any](r *Record, field string, conv Converter[T], def T) T {
	if v, ok := TryGet(r, field, conv); ok {
		return v
	}
	return def
}

// Multi iterates a multi-valued field stored as field0, field1, ... It
// stops at the first index that is absent or fails to convert, so a gap
// ends the sequence. The sequence can be ranged over more than once.
func Multi[T any](r *Record, field string, conv Converter[T]) iter.Seq[T] {
	return func(yield func(T) bool) {
		for i := 0; ; i++ {
			v, ok := TryGet(r, field+strconv.Itoa(i), conv)
			if !ok || !yield(v) {
				return
			}
		}
	}
}

// SetMulti stores values as field0, field1, ... and removes any higher
// indices left from a longer previous value.
func SetMulti(r *Record, field string, values []string) {
	for i, v := range values {
		r.SetValue(field+strconv.Itoa(i), v)
	}
	for i := len(values); r.ContainsKey(field + strconv.Itoa(i)); i++ {
		r.RemoveKey(field + strconv.Itoa(i))
	}
}
