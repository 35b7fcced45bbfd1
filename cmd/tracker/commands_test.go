package main

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/gomantics/repotracker/db/dbtest"
	"github.com/gomantics/repotracker/domains/repos"
	"github.com/gomantics/repotracker/libs/github"
	"github.com/gomantics/repotracker/libs/gitrepo"
)

type fakeGitHub struct{}

func (fakeGitHub) Repository(_ context.Context, owner, name string) (*github.Repository, error) {
	if owner != "acme" || name != "widgets" {
		return nil, github.ErrNotFound
	}
	return &github.Repository{
		ID:        "R_1",
		Name:      "widgets",
		CreatedAt: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
		OwnerID:   "O_1",
		OwnerKind: github.KindOrganization,
	}, nil
}

func (fakeGitHub) Owner(_ context.Context, id string) (*github.Owner, error) {
	return &github.Owner{ID: id, Kind: github.KindOrganization, Login: "acme"}, nil
}

func (fakeGitHub) BranchHead(_ context.Context, _, _, branch string) (string, error) {
	if branch != "main" {
		return "", gitrepo.ErrBranchNotFound
	}
	return "1111111111111111111111111111111111111111", nil
}

func (fakeGitHub) History(context.Context, string, string, string, string, int) (*github.HistoryPage, error) {
	date := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	return &github.HistoryPage{
		Commits: []github.Commit{{
			ID:              "C_1",
			SHA:             "abcdef0123456789",
			MessageHeadline: "initial commit",
			Additions:       10,
			Committer:       github.Signature{Date: &date},
		}},
	}, nil
}

func run(t *testing.T, a *app, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	cmd := newRootCmd(a)
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestCommands(t *testing.T) {
	dbtest.New(t)
	a := &app{cfg: dbtest.Config(t), l: zaptest.NewLogger(t), gh: fakeGitHub{}}

	out, err := run(t, a, "migrate")
	require.NoError(t, err)
	assert.Contains(t, out, "schema applied")

	out, err = run(t, a, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "no repositories tracked")

	out, err = run(t, a, "track", "acme/widgets")
	require.NoError(t, err)
	assert.Contains(t, out, "tracking widgets (R_1) on main")

	_, err = run(t, a, "track", "https://github.com/acme/widgets", "--branch", "main")
	assert.ErrorIs(t, err, repos.ErrAlreadyExists)

	_, err = run(t, a, "track", "acme/widgets", "-b", "dev")
	assert.ErrorIs(t, err, repos.ErrBranchNotFound)

	out, err = run(t, a, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "R_1")
	assert.Contains(t, out, "acme/widgets")

	out, err = run(t, a, "sync")
	require.NoError(t, err)
	assert.Contains(t, out, "sync pass finished")

	out, err = run(t, a, "commits", "R_1")
	require.NoError(t, err)
	assert.Contains(t, out, "abcdef0")
	assert.Contains(t, out, "initial commit")
	assert.Contains(t, out, "1 of 1 commits")

	out, err = run(t, a, "untrack", "R_1")
	require.NoError(t, err)
	assert.Contains(t, out, "untracked widgets (R_1)")

	_, err = run(t, a, "untrack", "R_1")
	assert.ErrorIs(t, err, repos.ErrNotFound)
}

func TestTrackParams(t *testing.T) {
	assert.Equal(t,
		repos.TrackParams{Owner: "acme", Name: "widgets.js", Branch: "main"},
		trackParams("acme/widgets.js", "main"))
	assert.Equal(t,
		repos.TrackParams{URL: "https://github.com/acme/widgets", Branch: "main"},
		trackParams("https://github.com/acme/widgets", "main"))
	assert.Equal(t,
		repos.TrackParams{URL: "github.com/acme/widgets", Branch: "dev"},
		trackParams("github.com/acme/widgets", "dev"))
}
