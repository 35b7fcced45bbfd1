// Package sqlconv converts between the loosely typed values found in a
// db.Row and Go types. Drivers disagree on representations (MySQL returns
// BOOLEAN as an integer, SQLite and MySQL may hand back text for numbers),
// so every reader accepts the common shapes.
package sqlconv

import (
	"fmt"
	"strconv"
	"time"
)

// String reads a text column. NULL becomes "".
func String(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case []byte:
		return string(x)
	}
	return fmt.Sprint(v)
}

// StringPtr reads a nullable text column.
// Returns nil if the value is NULL.
func StringPtr(v any) *string {
	if v == nil {
		return nil
	}
	s := String(v)
	return &s
}

// Int64 reads an integer column. NULL and unparsable text become 0.
func Int64(v any) int64 {
	switch x := v.(type) {
	case int64:
		return x
	case int:
		return int64(x)
	case int32:
		return int64(x)
	case uint64:
		return int64(x)
	case float64:
		return int64(x)
	case string:
		n, _ := strconv.ParseInt(x, 10, 64)
		return n
	case []byte:
		n, _ := strconv.ParseInt(string(x), 10, 64)
		return n
	}
	return 0
}

// Int64Ptr reads a nullable integer column.
// Returns nil if the value is NULL.
func Int64Ptr(v any) *int64 {
	if v == nil {
		return nil
	}
	n := Int64(v)
	return &n
}

// Bool reads a boolean column, including MySQL's TINYINT(1).
func Bool(v any) bool {
	switch x := v.(type) {
	case bool:
		return x
	case nil:
		return false
	case string:
		b, err := strconv.ParseBool(x)
		if err != nil {
			return Int64(x) != 0
		}
		return b
	}
	return Int64(v) != 0
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	time.DateTime,
	time.DateOnly,
}

// Time reads a timestamp column.
// Returns nil if the value is NULL or cannot be parsed.
func Time(v any) *time.Time {
	switch x := v.(type) {
	case time.Time:
		return &x
	case *time.Time:
		return x
	case string:
		for _, layout := range timeLayouts {
			if t, err := time.Parse(layout, x); err == nil {
				return &t
			}
		}
	case []byte:
		return Time(string(x))
	}
	return nil
}

// NullIfEmpty maps "" to NULL when writing a nullable text column.
func NullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// NullIfNil maps a nil pointer to NULL when writing a nullable column.
func NullIfNil[T any](p *T) any {
	if p == nil {
		return nil
	}
	return *p
}

// Ptr returns a pointer to the given value.
// Useful for creating inline pointers: sqlconv.Ptr("hello")
func Ptr[T any](v T) *T {
	return &v
}

// Val returns the value from a pointer, or the zero value if nil.
func Val[T any](p *T) T {
	if p == nil {
		var zero T
		return zero
	}
	return *p
}

// ValOr returns the value from a pointer, or the default value if nil.
func ValOr[T any](p *T, def T) T {
	if p == nil {
		return def
	}
	return *p
}
