package db

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func memoryDSN(t *testing.T) string {
	return "file:" + strings.ReplaceAll(t.Name(), "/", "_") + "?mode=memory&cache=shared"
}

func openObserved(t *testing.T) (*Client, *observer.ObservedLogs) {
	t.Helper()

	core, logs := observer.New(zapcore.DebugLevel)
	c, err := Open(context.Background(), SQLite, memoryDSN(t), zap.New(core))
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c, logs
}

func TestCheckAliveHealthy(t *testing.T) {
	c, logs := openObserved(t)

	require.NoError(t, c.CheckAlive(context.Background()))
	assert.True(t, c.Connected())
	assert.Zero(t, logs.FilterMessage("executed statement").Len(), "probe must be silent")
}

func TestCheckAliveReconnects(t *testing.T) {
	ctx := context.Background()
	c, logs := openObserved(t)

	// Drop the connection underneath the client.
	require.NoError(t, c.conn.Close())

	_, err := c.Execute(ctx, "SELECT 1", nil)
	require.Error(t, err)

	require.NoError(t, c.CheckAlive(ctx))
	assert.True(t, c.Connected())
	assert.Equal(t, 1, logs.FilterMessage("database connection re-established").Len())

	rows, err := c.Execute(ctx, "SELECT 1 AS one", nil)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, int64(1), rows[0]["one"])
}

func TestCheckAliveReconnectFails(t *testing.T) {
	ctx := context.Background()
	c, logs := openObserved(t)

	c.dsn = "file:/nonexistent-dir/tracker.db?mode=ro"
	require.NoError(t, c.conn.Close())

	err := c.CheckAlive(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoConnection)
	assert.False(t, c.Connected())

	critical := logs.FilterMessage("failed to reconnect to database").All()
	require.Len(t, critical, 1)
	assert.Equal(t, zapcore.ErrorLevel, critical[0].Level)
	assert.Equal(t, "critical", critical[0].ContextMap()["severity"])

	_, err = c.Select(ctx, "git_user", nil)
	assert.ErrorIs(t, err, ErrNoConnection)
}

func TestClosedClient(t *testing.T) {
	ctx := context.Background()
	c, _ := openObserved(t)

	require.NoError(t, c.Close())
	require.NoError(t, c.Close())

	_, err := c.Execute(ctx, "SELECT 1", nil)
	assert.ErrorIs(t, err, ErrNoConnection)

	err = c.InsertOne(ctx, "git_user", Values{"id": "u1"})
	assert.ErrorIs(t, err, ErrNoConnection)

	_, err = c.Delete(ctx, "git_user", nil)
	assert.ErrorIs(t, err, ErrNoConnection)

	_, err = c.Count(ctx, "git_user", nil)
	assert.ErrorIs(t, err, ErrNoConnection)
}
