package db

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNoConnection          = errors.New("no connection to database yet")
	ErrNoValueInsertion      = errors.New("no value given to insert")
	ErrNoUpdateValues        = errors.New("nothing given to update")
	ErrDuplicateColumnUpdate = errors.New("updating the same column multiple times")
	ErrWrongQuery            = errors.New("query rejected by the database")
)

// Error carries one of the sentinel kinds above together with the operation
// and table it happened on. errors.Is matches Kind, errors.As reaches Err.
type Error struct {
	Kind   error
	Op     string
	Table  string
	Column string
	Err    error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString("db")
	if e.Op != "" {
		b.WriteString(" " + e.Op)
	}
	if e.Table != "" {
		b.WriteString(" " + e.Table)
	}
	b.WriteString(": " + e.Kind.Error())
	if e.Column != "" {
		fmt.Fprintf(&b, " (column=%s)", e.Column)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %T: %v", e.Err, e.Err)
	}
	return b.String()
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func newError(kind error, op, table string) *Error {
	return &Error{Kind: kind, Op: op, Table: table}
}
