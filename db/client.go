package db

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"
)

// Row is one record keyed by column name.
type Row map[string]any

// Rows is an ordered result set. It is never nil on success.
type Rows []Row

// Values maps a column to the value stored in it.
type Values map[string]any

// Assign maps a column to another column whose current value it receives.
type Assign map[string]string

// querier is satisfied by both *sql.Conn and *sql.Tx.
type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Client owns a single connection to the store. It is not safe for
// concurrent use; open one client per request or unit of work.
type Client struct {
	dialect Dialect
	dsn     string
	l       *zap.Logger

	db   *sql.DB
	conn *sql.Conn
}

type statement struct {
	op     string
	table  string
	query  string
	args   []any
	silent bool
}

// Open connects to dsn and pins one connection for the client's lifetime.
func Open(ctx context.Context, d Dialect, dsn string, l *zap.Logger) (*Client, error) {
	c := &Client{
		dialect: d,
		dsn:     dsn,
		l:       l.With(zap.String("dialect", d.Name())),
	}
	if err := c.connect(ctx); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Client) connect(ctx context.Context) error {
	sqlDB, err := sql.Open(c.dialect.DriverName(), c.dsn)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)

	conn, err := sqlDB.Conn(ctx)
	if err != nil {
		sqlDB.Close()
		return fmt.Errorf("failed to acquire connection: %w", err)
	}

	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		sqlDB.Close()
		return fmt.Errorf("failed to ping database: %w", err)
	}

	c.db = sqlDB
	c.conn = conn
	return nil
}

// Close releases the connection. Closing twice is a no-op.
func (c *Client) Close() error {
	if c.conn == nil {
		return nil
	}

	err := c.conn.Close()
	if dbErr := c.db.Close(); err == nil {
		err = dbErr
	}
	c.conn = nil
	c.db = nil
	return err
}

// Dialect returns the dialect statements are compiled for.
func (c *Client) Dialect() Dialect {
	return c.dialect
}

// Connected reports whether the client currently holds a connection.
func (c *Client) Connected() bool {
	return c.conn != nil
}

// Execute runs a raw statement with positional args and returns whatever
// rows it produces, RETURNING clauses included. Statements that produce no
// rows (DDL, plain INSERT, ...) return an empty set.
func (c *Client) Execute(ctx context.Context, query string, args []any, opts ...Option) (Rows, error) {
	if c.conn == nil {
		return nil, newError(ErrNoConnection, "execute", "")
	}

	return c.query(ctx, c.conn, statement{
		op:     "execute",
		query:  query,
		args:   args,
		silent: buildOptions(opts).silent,
	})
}

func (c *Client) query(ctx context.Context, q querier, st statement) (Rows, error) {
	rows, err := q.QueryContext(ctx, st.query, st.args...)
	if err != nil {
		return nil, c.classify(st, err)
	}

	out, err := scanRows(rows)
	if err != nil {
		return nil, c.classify(st, err)
	}

	c.logStatement(st, int64(len(out)))
	return out, nil
}

func (c *Client) exec(ctx context.Context, q querier, st statement) (int64, error) {
	res, err := q.ExecContext(ctx, st.query, st.args...)
	if err != nil {
		return 0, c.classify(st, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		n = -1
	}

	c.logStatement(st, n)
	return n, nil
}

// classify turns a rejected statement into ErrWrongQuery. Anything else
// goes back to the caller untouched.
func (c *Client) classify(st statement, err error) error {
	if c.dialect.IsWrongQuery(err) {
		return &Error{Kind: ErrWrongQuery, Op: st.op, Table: st.table, Err: err}
	}
	return err
}

func (c *Client) logStatement(st statement, rows int64) {
	if st.silent {
		return
	}
	c.l.Debug("executed statement",
		zap.String("op", st.op),
		zap.String("statement", Interpolate(c.dialect, st.query, st.args)),
		zap.Int64("rows", rows),
	)
}

// withTx runs fn inside a transaction on the client's connection and
// commits when fn succeeds.
func withTx[T any](ctx context.Context, c *Client, op, table string, fn func(q querier) (T, error)) (T, error) {
	var zero T

	if c.conn == nil {
		return zero, newError(ErrNoConnection, op, table)
	}

	tx, err := c.conn.BeginTx(ctx, nil)
	if err != nil {
		return zero, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := fn(tx)
	if err != nil {
		return zero, err
	}

	if err := tx.Commit(); err != nil {
		return zero, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return result, nil
}

func scanRows(rows *sql.Rows) (Rows, error) {
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	out := Rows{}
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}

		row := make(Row, len(cols))
		for i, col := range cols {
			if b, ok := vals[i].([]byte); ok {
				row[col] = string(b)
				continue
			}
			row[col] = vals[i]
		}
		out = append(out, row)
	}

	return out, rows.Err()
}
