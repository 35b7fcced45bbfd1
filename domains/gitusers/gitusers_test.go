package gitusers_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gomantics/repotracker/db"
	"github.com/gomantics/repotracker/db/dbtest"
	"github.com/gomantics/repotracker/domains/gitusers"
	"github.com/gomantics/repotracker/libs/github"
	"github.com/gomantics/repotracker/models"
)

func open(t *testing.T) *db.Client {
	t.Helper()
	c, err := dbtest.New(t).Open(context.Background())
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func TestEnsure(t *testing.T) {
	ctx := context.Background()
	c := open(t)

	a := models.Account{ID: "U_1", Login: "alice", Name: "Alice"}

	inserted, err := gitusers.Ensure(ctx, c, a)
	require.NoError(t, err)
	assert.True(t, inserted)

	inserted, err = gitusers.Ensure(ctx, c, a)
	require.NoError(t, err)
	assert.False(t, inserted)

	got, err := gitusers.Get(ctx, c, "U_1")
	require.NoError(t, err)
	assert.Equal(t, a, *got)
}

func TestEnsureOrganization(t *testing.T) {
	ctx := context.Background()
	c := open(t)

	org := gitusers.FromOwner(&github.Owner{
		ID:         "O_1",
		DatabaseID: 42,
		Kind:       github.KindOrganization,
		Login:      "acme",
	})
	assert.Equal(t, models.GitOrganizationTable, org.Table())
	assert.Equal(t, "42", org.OldID)

	_, err := gitusers.Ensure(ctx, c, org)
	require.NoError(t, err)

	inUsers, err := c.IDExists(ctx, models.GitUserTable, "O_1")
	require.NoError(t, err)
	assert.False(t, inUsers)

	got, err := gitusers.Get(ctx, c, "O_1")
	require.NoError(t, err)
	assert.True(t, got.Organization)
	assert.Equal(t, "acme", got.Login)
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	c := open(t)

	_, err := gitusers.Ensure(ctx, c, models.Account{ID: "U_1", Login: "alice"})
	require.NoError(t, err)
	_, err = gitusers.Ensure(ctx, c, models.Account{ID: "O_1", Login: "acme", Organization: true})
	require.NoError(t, err)

	login, err := gitusers.Login(ctx, c, "U_1")
	require.NoError(t, err)
	assert.Equal(t, "alice", login)

	login, err = gitusers.Login(ctx, c, "O_1")
	require.NoError(t, err)
	assert.Equal(t, "acme", login)

	_, err = gitusers.Login(ctx, c, "nobody")
	assert.ErrorIs(t, err, gitusers.ErrNotFound)

	_, err = gitusers.Get(ctx, c, "nobody")
	assert.ErrorIs(t, err, gitusers.ErrNotFound)
}

func TestFromSignature(t *testing.T) {
	_, ok := gitusers.FromSignature(github.Signature{Name: "ghost", Email: "ghost@example.com"})
	assert.False(t, ok)

	a, ok := gitusers.FromSignature(github.Signature{UserID: "U_2", Login: "bob", Name: "Bob"})
	require.True(t, ok)
	assert.Equal(t, models.Account{ID: "U_2", Login: "bob", Name: "Bob"}, a)
	assert.False(t, a.Organization)
}
