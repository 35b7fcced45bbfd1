package db

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Kept wraps a condition value so it is never dropped by the falsy rule.
type Kept struct {
	Value any
}

// Keep marks v as present, e.g. to filter on a column equal to 0, "" or false.
func Keep(v any) Kept {
	if k, ok := v.(Kept); ok {
		return k
	}
	return Kept{Value: v}
}

// IsFalsy reports whether a condition value is considered empty and must be
// skipped: nil, nil pointers, zero numbers, "", false, empty slices and maps,
// and the zero time. Kept values are never falsy.
func IsFalsy(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case Kept:
		return false
	case time.Time:
		return x.IsZero()
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.String, reflect.Slice, reflect.Map, reflect.Array:
		return rv.Len() == 0
	case reflect.Pointer, reflect.Interface, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return rv.IsZero()
}

// Literal renders v as SQL literal text. Integers are unquoted, everything
// else is single-quoted without escaping, so the result is only suitable for
// display. Statements themselves always bind values as parameters.
func Literal(v any) string {
	switch x := v.(type) {
	case nil:
		return "NULL"
	case Kept:
		return Literal(x.Value)
	case int:
		return strconv.Itoa(x)
	case int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprint(x)
	case time.Time:
		return "'" + x.Format(time.DateTime) + "'"
	case []byte:
		return "'" + string(x) + "'"
	}
	return "'" + fmt.Sprint(v) + "'"
}

// Literals applies Literal element-wise. An empty sequence is returned as is.
func Literals(vs []any) []string {
	if len(vs) == 0 {
		return nil
	}
	out := make([]string, len(vs))
	for i, v := range vs {
		out[i] = Literal(v)
	}
	return out
}

// Interpolate substitutes the bound arguments of query back into its text
// using Literal. Used for debug logging of executed statements.
func Interpolate(d Dialect, query string, args []any) string {
	if len(args) == 0 {
		return query
	}

	if d.Placeholder(1) == "?" {
		var b strings.Builder
		i := 0
		for _, r := range query {
			if r == '?' && i < len(args) {
				b.WriteString(Literal(args[i]))
				i++
				continue
			}
			b.WriteRune(r)
		}
		return b.String()
	}

	// Numbered placeholders: replace from the highest so $1 never eats $10.
	for i := len(args); i >= 1; i-- {
		query = strings.ReplaceAll(query, d.Placeholder(i), Literal(args[i-1]))
	}
	return query
}

// unwrap returns the value to bind for v.
func unwrap(v any) any {
	if k, ok := v.(Kept); ok {
		return k.Value
	}
	return v
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
