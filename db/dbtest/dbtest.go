// Package dbtest provides throwaway SQLite stores for tests.
package dbtest

import (
	"context"
	"strings"
	"testing"

	"github.com/gomantics/repotracker/config"
	"github.com/gomantics/repotracker/db"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
)

// DSN names an in-memory SQLite store private to t. Every connection opened
// with it during the test sees the same data.
func DSN(t testing.TB) string {
	name := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		}
		return '_'
	}, t.Name())
	return "file:" + name + "?mode=memory&cache=shared"
}

// Config returns a configuration pointing at DSN(t).
func Config(t testing.TB) *config.Config {
	cfg := config.Default()
	cfg.Env = config.EnvTest
	cfg.Database = config.Database{Driver: "sqlite", DSN: DSN(t)}
	return cfg
}

// New returns a connector to a fresh store with the schema applied. One
// connection is held open until the test ends so the store is not dropped
// between clients.
func New(t testing.TB) *db.Connector {
	t.Helper()

	cn, err := db.NewConnector(Config(t), zaptest.NewLogger(t))
	require.NoError(t, err)

	ctx := context.Background()
	keeper, err := cn.Open(ctx)
	require.NoError(t, err)
	t.Cleanup(func() { keeper.Close() })

	require.NoError(t, db.ApplySchema(ctx, keeper, zap.NewNop()))
	return cn
}
