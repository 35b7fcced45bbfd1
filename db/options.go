package db

import (
	"strconv"
	"strings"
)

type options struct {
	columns   []string
	orderBy   string
	ascending bool
	limit     int
	offset    int
	silent    bool
}

// Option tunes a single statement.
type Option func(*options)

func buildOptions(opts []Option) options {
	o := options{ascending: true}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Columns restricts the projection. Without it every column is returned.
func Columns(cols ...string) Option {
	return func(o *options) {
		o.columns = append(o.columns, cols...)
	}
}

// OrderBy sorts the result on col.
func OrderBy(col string, ascending bool) Option {
	return func(o *options) {
		o.orderBy = col
		o.ascending = ascending
	}
}

// Limit caps the number of returned rows. Zero means unbounded.
func Limit(n int) Option {
	return func(o *options) {
		o.limit = n
	}
}

// Offset skips n rows. It only applies together with Limit.
func Offset(n int) Option {
	return func(o *options) {
		o.offset = n
	}
}

// Silent suppresses the debug log line of the statement.
func Silent() Option {
	return func(o *options) {
		o.silent = true
	}
}

func (o options) projection() string {
	if len(o.columns) == 0 {
		return "*"
	}
	return strings.Join(o.columns, ", ")
}

func (o options) tail() string {
	var b strings.Builder
	if o.orderBy != "" {
		b.WriteString(" ORDER BY " + o.orderBy)
		if o.ascending {
			b.WriteString(" ASC")
		} else {
			b.WriteString(" DESC")
		}
	}
	if o.limit > 0 {
		b.WriteString(" LIMIT " + strconv.Itoa(o.limit))
		if o.offset > 0 {
			b.WriteString(" OFFSET " + strconv.Itoa(o.offset))
		}
	}
	return b.String()
}
