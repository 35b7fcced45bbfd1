package db

import "strings"

// Pair is a single column constraint.
type Pair struct {
	Column string
	Value  any
}

// InPair constrains Column to one of Values.
type InPair struct {
	Column string
	Values []any
}

// Conditions is the set of filters combined with AND into a WHERE clause.
// Every category is compiled in field order and, inside a category, in the
// order entries were added. Entries with a falsy value (see IsFalsy) are
// skipped; wrap a value with Keep to filter on 0, "" or false.
type Conditions struct {
	Null      []string
	NotNull   []string
	InList    []InPair
	Equal     []Pair
	NotEqual  []Pair
	LessEq    []Pair
	GreaterEq []Pair
	Less      []Pair
	Greater   []Pair
}

// Where starts an empty condition set.
func Where() *Conditions {
	return &Conditions{}
}

// ByID matches the row whose primary key is id. The id is kept even when
// falsy, so ByID("") matches nothing instead of every row.
func ByID(id any) *Conditions {
	return Where().Eq("id", Keep(id))
}

func (c *Conditions) IsNull(column string) *Conditions {
	c.Null = append(c.Null, column)
	return c
}

func (c *Conditions) IsNotNull(column string) *Conditions {
	c.NotNull = append(c.NotNull, column)
	return c
}

func (c *Conditions) In(column string, values ...any) *Conditions {
	c.InList = append(c.InList, InPair{Column: column, Values: values})
	return c
}

func (c *Conditions) Eq(column string, v any) *Conditions {
	c.Equal = append(c.Equal, Pair{column, v})
	return c
}

func (c *Conditions) Neq(column string, v any) *Conditions {
	c.NotEqual = append(c.NotEqual, Pair{column, v})
	return c
}

func (c *Conditions) Leq(column string, v any) *Conditions {
	c.LessEq = append(c.LessEq, Pair{column, v})
	return c
}

func (c *Conditions) Geq(column string, v any) *Conditions {
	c.GreaterEq = append(c.GreaterEq, Pair{column, v})
	return c
}

func (c *Conditions) Lt(column string, v any) *Conditions {
	c.Less = append(c.Less, Pair{column, v})
	return c
}

func (c *Conditions) Gt(column string, v any) *Conditions {
	c.Greater = append(c.Greater, Pair{column, v})
	return c
}

// Compile renders the clause for dialect d. Placeholders are numbered from
// start, so the clause can follow arguments already bound by the statement
// (e.g. the SET list of an UPDATE). A nil receiver matches every row.
func (c *Conditions) Compile(d Dialect, start int) (string, []any) {
	var b strings.Builder
	var args []any
	b.WriteString("WHERE 1 = 1")

	if c == nil {
		return b.String(), nil
	}

	bind := func(v any) string {
		args = append(args, unwrap(v))
		return d.Placeholder(start + len(args) - 1)
	}

	for _, col := range c.Null {
		b.WriteString(" AND " + col + " IS NULL")
	}
	for _, col := range c.NotNull {
		b.WriteString(" AND " + col + " IS NOT NULL")
	}
	for _, p := range c.InList {
		if len(p.Values) == 0 {
			continue
		}
		marks := make([]string, len(p.Values))
		for i, v := range p.Values {
			marks[i] = bind(v)
		}
		b.WriteString(" AND " + p.Column + " IN (" + strings.Join(marks, ", ") + ")")
	}

	for _, cat := range []struct {
		op    string
		pairs []Pair
	}{
		{"=", c.Equal},
		{"<>", c.NotEqual},
		{"<=", c.LessEq},
		{">=", c.GreaterEq},
		{"<", c.Less},
		{">", c.Greater},
	} {
		for _, p := range cat.pairs {
			if IsFalsy(p.Value) {
				continue
			}
			b.WriteString(" AND " + p.Column + " " + cat.op + " " + bind(p.Value))
		}
	}

	return b.String(), args
}
