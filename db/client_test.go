package db

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestZeroMatchMutationsOnlyRead(t *testing.T) {
	ctx := context.Background()
	c, logs := openObserved(t)

	_, err := c.Execute(ctx, "CREATE TABLE account (id VARCHAR(255) PRIMARY KEY, login VARCHAR(255))", nil)
	require.NoError(t, err)
	require.NoError(t, c.InsertOne(ctx, "account", Values{"id": "u1", "login": "alice"}))
	logs.TakeAll()

	rows, err := c.Update(ctx, "account", nil, Values{"login": "bob"}, Where().Eq("login", "nobody"))
	require.NoError(t, err)
	assert.Empty(t, rows)

	row, err := c.UpdateByID(ctx, "account", "missing", Values{"login": "bob"})
	require.NoError(t, err)
	assert.Empty(t, row)

	rows, err = c.Delete(ctx, "account", Where().Eq("login", "nobody"))
	require.NoError(t, err)
	assert.Empty(t, rows)

	row, err = c.DeleteByID(ctx, "account", "missing")
	require.NoError(t, err)
	assert.Empty(t, row)

	assert.Zero(t, logs.FilterField(zap.String("op", "update")).Len())
	assert.Zero(t, logs.FilterField(zap.String("op", "delete")).Len())
	assert.Equal(t, 4, logs.FilterField(zap.String("op", "select")).Len())

	// A matching update does issue the statement.
	_, err = c.UpdateByID(ctx, "account", "u1", Values{"login": "bob"})
	require.NoError(t, err)
	assert.Equal(t, 1, logs.FilterField(zap.String("op", "update")).Len())
}
