package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompileEmpty(t *testing.T) {
	clause, args := Where().Compile(MySQL, 1)
	assert.Equal(t, "WHERE 1 = 1", clause)
	assert.Empty(t, args)

	var nilConds *Conditions
	clause, args = nilConds.Compile(Postgres, 1)
	assert.Equal(t, "WHERE 1 = 1", clause)
	assert.Empty(t, args)
}

func TestCompileCategoryOrder(t *testing.T) {
	// Added in reverse; compiled in category order.
	conds := Where().
		Gt("i", 5).
		Lt("h", 4).
		Geq("g", 3).
		Leq("f", 2).
		Neq("e", 1).
		Eq("d", "x").
		In("c", 1, 2).
		IsNotNull("b").
		IsNull("a")

	clause, args := conds.Compile(MySQL, 1)
	assert.Equal(t,
		"WHERE 1 = 1 AND a IS NULL AND b IS NOT NULL AND c IN (?, ?) AND d = ? AND e <> ? AND f <= ? AND g >= ? AND h < ? AND i > ?",
		clause,
	)
	assert.Equal(t, []any{1, 2, "x", 1, 2, 3, 4, 5}, args)
}

func TestCompileInsertionOrderWithinCategory(t *testing.T) {
	clause, args := Where().Eq("b", 1).Eq("a", 2).Eq("c", 3).Compile(MySQL, 1)
	assert.Equal(t, "WHERE 1 = 1 AND b = ? AND a = ? AND c = ?", clause)
	assert.Equal(t, []any{1, 2, 3}, args)
}

func TestCompileDeterministic(t *testing.T) {
	conds := Where().In("id", "a", "b").Eq("x", 1).Gt("y", 2)
	first, _ := conds.Compile(Postgres, 1)
	for range 20 {
		again, _ := conds.Compile(Postgres, 1)
		assert.Equal(t, first, again)
	}
}

func TestCompilePostgresNumbering(t *testing.T) {
	clause, args := Where().In("id", "a", "b").Eq("x", 1).Compile(Postgres, 3)
	assert.Equal(t, "WHERE 1 = 1 AND id IN ($3, $4) AND x = $5", clause)
	assert.Equal(t, []any{"a", "b", 1}, args)
}

func TestCompileSkipsFalsyValues(t *testing.T) {
	for _, v := range []any{0, "", nil, false, 0.0} {
		conds := Where().Eq("a", v).Neq("b", v).Leq("c", v).Geq("d", v).Lt("e", v).Gt("f", v)
		clause, args := conds.Compile(MySQL, 1)
		assert.Equal(t, "WHERE 1 = 1", clause, "%#v", v)
		assert.Empty(t, args)
	}

	clause, args := Where().In("id").Compile(MySQL, 1)
	assert.Equal(t, "WHERE 1 = 1", clause)
	assert.Empty(t, args)

	clause, _ = Where().In("id", []any{}...).Compile(MySQL, 1)
	assert.Equal(t, "WHERE 1 = 1", clause)
}

func TestCompileKeepBypassesFalsySkip(t *testing.T) {
	clause, args := Where().Eq("qty", Keep(0)).Eq("active", Keep(false)).Eq("name", Keep("")).Compile(MySQL, 1)
	assert.Equal(t, "WHERE 1 = 1 AND qty = ? AND active = ? AND name = ?", clause)
	assert.Equal(t, []any{0, false, ""}, args)
}

func TestCompileNullChecksAreNeverSkipped(t *testing.T) {
	clause, args := Where().IsNull("deleted_at").IsNotNull("login").Compile(SQLite, 1)
	assert.Equal(t, "WHERE 1 = 1 AND deleted_at IS NULL AND login IS NOT NULL", clause)
	assert.Empty(t, args)
}

func TestCompileBindsInsteadOfInlining(t *testing.T) {
	clause, args := Where().Eq("login", "x' OR '1'='1").Compile(MySQL, 1)
	assert.Equal(t, "WHERE 1 = 1 AND login = ?", clause)
	assert.Equal(t, []any{"x' OR '1'='1"}, args)
}

func TestByID(t *testing.T) {
	clause, args := ByID("").Compile(MySQL, 1)
	assert.Equal(t, "WHERE 1 = 1 AND id = ?", clause)
	assert.Equal(t, []any{""}, args)
}
