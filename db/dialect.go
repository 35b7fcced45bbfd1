package db

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" database/sql driver
	"github.com/mattn/go-sqlite3"
)

// Dialect isolates what differs between the supported stores: the
// database/sql driver, placeholder syntax and how driver errors are read.
type Dialect interface {
	// Name is the value used in configuration (DB_DRIVER).
	Name() string

	// DriverName is the registered database/sql driver.
	DriverName() string

	// Placeholder returns the bind marker for the n-th argument, 1-based.
	Placeholder(n int) string

	// IsWrongQuery reports a syntax or semantic rejection of a statement.
	IsWrongQuery(err error) bool

	// IsUniqueViolation reports a duplicate key on insert or update.
	IsUniqueViolation(err error) bool
}

var (
	MySQL    Dialect = mysqlDialect{}
	Postgres Dialect = postgresDialect{}
	SQLite   Dialect = sqliteDialect{}
)

// DialectByName resolves a configured driver name.
func DialectByName(name string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "mysql", "mariadb":
		return MySQL, nil
	case "postgres", "postgresql", "pgx":
		return Postgres, nil
	case "sqlite", "sqlite3":
		return SQLite, nil
	}
	return nil, fmt.Errorf("unsupported database driver: %q", name)
}

type mysqlDialect struct{}

func (mysqlDialect) Name() string           { return "mysql" }
func (mysqlDialect) DriverName() string     { return "mysql" }
func (mysqlDialect) Placeholder(int) string { return "?" }

// MySQL server error numbers that mean the statement itself is wrong.
var mysqlWrongQuery = map[uint16]bool{
	1052: true, // ER_NON_UNIQ_ERROR
	1054: true, // ER_BAD_FIELD_ERROR
	1064: true, // ER_PARSE_ERROR
	1103: true, // ER_WRONG_TABLE_NAME
	1110: true, // ER_FIELD_SPECIFIED_TWICE
	1136: true, // ER_WRONG_VALUE_COUNT_ON_ROW
	1146: true, // ER_NO_SUCH_TABLE
	1149: true, // ER_SYNTAX_ERROR
	1166: true, // ER_WRONG_COLUMN_NAME
}

func (mysqlDialect) IsWrongQuery(err error) bool {
	var myErr *mysql.MySQLError
	return errors.As(err, &myErr) && mysqlWrongQuery[myErr.Number]
}

func (mysqlDialect) IsUniqueViolation(err error) bool {
	var myErr *mysql.MySQLError
	return errors.As(err, &myErr) && myErr.Number == 1062 // ER_DUP_ENTRY
}

type postgresDialect struct{}

func (postgresDialect) Name() string             { return "postgres" }
func (postgresDialect) DriverName() string       { return "pgx" }
func (postgresDialect) Placeholder(n int) string { return "$" + strconv.Itoa(n) }

// Class 42 is "syntax error or access rule violation".
func (postgresDialect) IsWrongQuery(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && strings.HasPrefix(pgErr.Code, "42")
}

func (postgresDialect) IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

type sqliteDialect struct{}

func (sqliteDialect) Name() string           { return "sqlite" }
func (sqliteDialect) DriverName() string     { return "sqlite3" }
func (sqliteDialect) Placeholder(int) string { return "?" }

// SQLite reports parse errors, unknown tables and unknown columns with the
// generic SQLITE_ERROR code.
func (sqliteDialect) IsWrongQuery(err error) bool {
	var liteErr sqlite3.Error
	return errors.As(err, &liteErr) && liteErr.Code == sqlite3.ErrError
}

func (sqliteDialect) IsUniqueViolation(err error) bool {
	var liteErr sqlite3.Error
	if !errors.As(err, &liteErr) {
		return false
	}
	return liteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
		liteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
}
