package db

import (
	"errors"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
)

func TestErrorMessage(t *testing.T) {
	err := &Error{Kind: ErrDuplicateColumnUpdate, Op: "update", Table: "git_user", Column: "login"}
	assert.Equal(t, "db update git_user: updating the same column multiple times (column=login)", err.Error())

	err = newError(ErrNoConnection, "execute", "")
	assert.Equal(t, "db execute: no connection to database yet", err.Error())
}

func TestErrorUnwrap(t *testing.T) {
	cause := &mysql.MySQLError{Number: 1064, Message: "You have an error in your SQL syntax"}
	err := error(&Error{Kind: ErrWrongQuery, Op: "select", Table: "repository", Err: cause})

	assert.ErrorIs(t, err, ErrWrongQuery)
	assert.NotErrorIs(t, err, ErrNoConnection)

	var myErr *mysql.MySQLError
	assert.True(t, errors.As(err, &myErr))
	assert.Equal(t, uint16(1064), myErr.Number)

	assert.Contains(t, err.Error(), "*mysql.MySQLError")
	assert.Contains(t, err.Error(), "SQL syntax")
}
