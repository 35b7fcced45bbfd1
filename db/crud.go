package db

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"
)

func (c *Client) selectStatement(table string, conds *Conditions, o options) statement {
	clause, args := conds.Compile(c.dialect, 1)
	return statement{
		op:     "select",
		table:  table,
		query:  "SELECT " + o.projection() + " FROM " + table + " " + clause + o.tail(),
		args:   args,
		silent: o.silent,
	}
}

// Select returns the rows of table matching conds.
func (c *Client) Select(ctx context.Context, table string, conds *Conditions, opts ...Option) (Rows, error) {
	if c.conn == nil {
		return nil, newError(ErrNoConnection, "select", table)
	}
	return c.query(ctx, c.conn, c.selectStatement(table, conds, buildOptions(opts)))
}

// SelectByID returns the row with the given primary key, or an empty Row.
func (c *Client) SelectByID(ctx context.Context, table string, id any, opts ...Option) (Row, error) {
	rows, err := c.Select(ctx, table, ByID(id), append(slices.Clone(opts), Limit(1))...)
	if err != nil {
		return nil, err
	}
	return first(rows), nil
}

// Count returns the number of rows matching conds. A nil count means no row
// matched; zero is never returned.
func (c *Client) Count(ctx context.Context, table string, conds *Conditions, opts ...Option) (*int64, error) {
	if c.conn == nil {
		return nil, newError(ErrNoConnection, "count", table)
	}

	o := buildOptions(opts)
	clause, args := conds.Compile(c.dialect, 1)
	rows, err := c.query(ctx, c.conn, statement{
		op:     "count",
		table:  table,
		query:  "SELECT COUNT(" + o.projection() + ") AS count FROM " + table + " " + clause,
		args:   args,
		silent: o.silent,
	})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 || IsFalsy(rows[0]["count"]) {
		return nil, nil
	}

	n, err := toInt64(rows[0]["count"])
	if err != nil {
		return nil, fmt.Errorf("failed to read count of %s: %w", table, err)
	}
	return &n, nil
}

// InsertOne inserts a single row. Unique violations come back as the raw
// driver error; see Dialect.IsUniqueViolation.
func (c *Client) InsertOne(ctx context.Context, table string, values Values, opts ...Option) error {
	if len(values) == 0 {
		return newError(ErrNoValueInsertion, "insert", table)
	}

	cols := sortedKeys(values)
	marks := make([]string, len(cols))
	args := make([]any, len(cols))
	for i, col := range cols {
		args[i] = unwrap(values[col])
		marks[i] = c.dialect.Placeholder(i + 1)
	}

	st := statement{
		op:     "insert",
		table:  table,
		query:  "INSERT INTO " + table + " (" + strings.Join(cols, ", ") + ") VALUES (" + strings.Join(marks, ", ") + ")",
		args:   args,
		silent: buildOptions(opts).silent,
	}

	_, err := withTx(ctx, c, "insert", table, func(q querier) (int64, error) {
		return c.exec(ctx, q, st)
	})
	return err
}

// Update sets columns on every row matching conds and returns the rows as
// they are after the update. assign copies another column's value, values
// binds new ones; a column may appear in only one of them.
//
// The matching ids are read first and the UPDATE targets exactly those ids.
// Both steps share one transaction at the store's default isolation level,
// without row locks, so a concurrent writer may still change which rows
// match between the read and the write.
func (c *Client) Update(ctx context.Context, table string, assign Assign, values Values, conds *Conditions, opts ...Option) (Rows, error) {
	if len(assign) == 0 && len(values) == 0 {
		return nil, newError(ErrNoUpdateValues, "update", table)
	}
	for _, col := range sortedKeys(assign) {
		if _, ok := values[col]; ok {
			return nil, &Error{Kind: ErrDuplicateColumnUpdate, Op: "update", Table: table, Column: col}
		}
	}

	o := buildOptions(opts)
	return withTx(ctx, c, "update", table, func(q querier) (Rows, error) {
		matched, err := c.query(ctx, q, c.selectStatement(table, conds, options{columns: []string{"id"}, silent: o.silent}))
		if err != nil {
			return nil, err
		}
		if len(matched) == 0 {
			return Rows{}, nil
		}

		ids := make([]any, len(matched))
		for i, row := range matched {
			ids[i] = row["id"]
		}

		var sets []string
		var args []any
		for _, col := range sortedKeys(values) {
			args = append(args, unwrap(values[col]))
			sets = append(sets, col+" = "+c.dialect.Placeholder(len(args)))
		}
		for _, col := range sortedKeys(assign) {
			sets = append(sets, col+" = "+assign[col])
		}

		byIDs := Where().In("id", ids...)
		clause, idArgs := byIDs.Compile(c.dialect, len(args)+1)
		if _, err := c.exec(ctx, q, statement{
			op:     "update",
			table:  table,
			query:  "UPDATE " + table + " SET " + strings.Join(sets, ", ") + " " + clause,
			args:   append(args, idArgs...),
			silent: o.silent,
		}); err != nil {
			return nil, err
		}

		return c.query(ctx, q, c.selectStatement(table, byIDs, o))
	})
}

// UpdateByID updates the row with the given primary key. The id column
// itself is never changed. An empty Row means nothing matched.
func (c *Client) UpdateByID(ctx context.Context, table string, id any, values Values, opts ...Option) (Row, error) {
	values = maps.Clone(values)
	delete(values, "id")

	rows, err := c.Update(ctx, table, nil, values, ByID(id), opts...)
	if err != nil {
		return nil, err
	}
	return first(rows), nil
}

// Delete removes the rows matching conds and returns them as they were.
// The DELETE re-evaluates conds inside the same transaction as the read.
func (c *Client) Delete(ctx context.Context, table string, conds *Conditions, opts ...Option) (Rows, error) {
	o := buildOptions(opts)
	return withTx(ctx, c, "delete", table, func(q querier) (Rows, error) {
		matched, err := c.query(ctx, q, c.selectStatement(table, conds, options{silent: o.silent}))
		if err != nil {
			return nil, err
		}
		if len(matched) == 0 {
			return Rows{}, nil
		}

		clause, args := conds.Compile(c.dialect, 1)
		if _, err := c.exec(ctx, q, statement{
			op:     "delete",
			table:  table,
			query:  "DELETE FROM " + table + " " + clause,
			args:   args,
			silent: o.silent,
		}); err != nil {
			return nil, err
		}
		return matched, nil
	})
}

// DeleteByID removes the row with the given primary key and returns it, or
// an empty Row when there was none.
func (c *Client) DeleteByID(ctx context.Context, table string, id any, opts ...Option) (Row, error) {
	rows, err := c.Delete(ctx, table, ByID(id), opts...)
	if err != nil {
		return nil, err
	}
	return first(rows), nil
}

// IDExists reports whether a row with the given primary key exists.
func (c *Client) IDExists(ctx context.Context, table string, id any, opts ...Option) (bool, error) {
	row, err := c.SelectByID(ctx, table, id, append(slices.Clone(opts), Columns("id"))...)
	if err != nil {
		return false, err
	}
	return len(row) > 0, nil
}

func first(rows Rows) Row {
	if len(rows) == 0 {
		return Row{}
	}
	return rows[0]
}

func toInt64(v any) (int64, error) {
	switch x := v.(type) {
	case int64:
		return x, nil
	case int:
		return int64(x), nil
	case int32:
		return int64(x), nil
	case uint64:
		return int64(x), nil
	case float64:
		return int64(x), nil
	case string:
		return strconv.ParseInt(x, 10, 64)
	}
	return 0, fmt.Errorf("unexpected count type %T", v)
}
