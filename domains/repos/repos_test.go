package repos_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/gomantics/repotracker/db"
	"github.com/gomantics/repotracker/db/dbtest"
	"github.com/gomantics/repotracker/domains/commits"
	"github.com/gomantics/repotracker/domains/repos"
	"github.com/gomantics/repotracker/libs/github"
	"github.com/gomantics/repotracker/libs/gitrepo"
	"github.com/gomantics/repotracker/models"
)

type fakeGitHub struct {
	repos    map[string]*github.Repository
	owners   map[string]*github.Owner
	branches map[string]string
}

func newFakeGitHub() *fakeGitHub {
	return &fakeGitHub{
		repos: map[string]*github.Repository{
			"acme/widgets": {
				ID:         "R_1",
				DatabaseID: 1001,
				Name:       "widgets",
				CreatedAt:  time.Date(2020, 1, 2, 3, 4, 5, 0, time.UTC),
				OwnerID:    "O_1",
				OwnerKind:  github.KindOrganization,
				Owner:      "acme",
			},
			"alice/dotfiles": {
				ID:        "R_2",
				Name:      "dotfiles",
				IsPrivate: true,
				CreatedAt: time.Date(2021, 5, 6, 7, 8, 9, 0, time.UTC),
				OwnerID:   "U_1",
				OwnerKind: github.KindUser,
				Owner:     "alice",
			},
		},
		owners: map[string]*github.Owner{
			"O_1": {ID: "O_1", Kind: github.KindOrganization, Login: "acme"},
			"U_1": {ID: "U_1", Kind: github.KindUser, Login: "alice", Name: "Alice"},
		},
		branches: map[string]string{
			"acme/widgets@main":    "1111111111111111111111111111111111111111",
			"alice/dotfiles@trunk": "2222222222222222222222222222222222222222",
		},
	}
}

func (f *fakeGitHub) Repository(_ context.Context, owner, name string) (*github.Repository, error) {
	r, ok := f.repos[owner+"/"+name]
	if !ok {
		return nil, github.ErrNotFound
	}
	return r, nil
}

func (f *fakeGitHub) Owner(_ context.Context, id string) (*github.Owner, error) {
	o, ok := f.owners[id]
	if !ok {
		return nil, github.ErrNotFound
	}
	return o, nil
}

func (f *fakeGitHub) BranchHead(_ context.Context, owner, name, branch string) (string, error) {
	sha, ok := f.branches[owner+"/"+name+"@"+branch]
	if !ok {
		return "", gitrepo.ErrBranchNotFound
	}
	return sha, nil
}

func setup(t *testing.T) (*repos.Service, *db.Connector) {
	t.Helper()
	cn := dbtest.New(t)
	return repos.New(cn, newFakeGitHub(), zaptest.NewLogger(t)), cn
}

func TestTrack(t *testing.T) {
	ctx := context.Background()
	svc, _ := setup(t)

	repo, err := svc.Track(ctx, repos.TrackParams{Owner: "acme", Name: "widgets", Branch: "main"})
	require.NoError(t, err)
	assert.Equal(t, "R_1", repo.ID)
	assert.Equal(t, "1001", repo.OldID)
	assert.Equal(t, "refs/heads/main", repo.TrackedBranchRef)
	assert.False(t, repo.RootCommitIsReached)

	d, err := svc.GetByID(ctx, "R_1")
	require.NoError(t, err)
	assert.Equal(t, "widgets", d.Name)
	assert.Equal(t, "acme", d.OwnerLogin)
	assert.Equal(t, "main", d.TrackedBranchName)
	assert.Equal(t, int64(0), d.CommitCount)
	require.NotNil(t, d.CreatedAt)
	assert.True(t, d.CreatedAt.Equal(time.Date(2020, 1, 2, 3, 4, 5, 0, time.UTC)))
}

func TestTrackByURL(t *testing.T) {
	svc, _ := setup(t)

	repo, err := svc.Track(context.Background(), repos.TrackParams{
		URL:    "https://github.com/alice/dotfiles.git",
		Branch: "trunk",
	})
	require.NoError(t, err)
	assert.Equal(t, "R_2", repo.ID)
	assert.True(t, repo.IsPrivate)
}

func TestTrackErrors(t *testing.T) {
	ctx := context.Background()
	svc, _ := setup(t)

	tests := []struct {
		name   string
		params repos.TrackParams
		want   error
	}{
		{"missing branch", repos.TrackParams{Owner: "acme", Name: "widgets"}, repos.ErrInvalidAttributes},
		{"missing name", repos.TrackParams{Owner: "acme", Branch: "main"}, repos.ErrInvalidAttributes},
		{"bad url", repos.TrackParams{URL: "https://example.com/acme", Branch: "main"}, repos.ErrInvalidAttributes},
		{"unknown repository", repos.TrackParams{Owner: "acme", Name: "gadgets", Branch: "main"}, repos.ErrInvalidAttributes},
		{"unknown branch", repos.TrackParams{Owner: "acme", Name: "widgets", Branch: "dev"}, repos.ErrBranchNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Track(ctx, tt.params)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestTrackTwice(t *testing.T) {
	ctx := context.Background()
	svc, _ := setup(t)

	p := repos.TrackParams{Owner: "acme", Name: "widgets", Branch: "main"}
	_, err := svc.Track(ctx, p)
	require.NoError(t, err)

	_, err = svc.Track(ctx, p)
	assert.ErrorIs(t, err, repos.ErrAlreadyExists)
}

func TestList(t *testing.T) {
	ctx := context.Background()
	svc, _ := setup(t)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	_, err = svc.Track(ctx, repos.TrackParams{Owner: "acme", Name: "widgets", Branch: "main"})
	require.NoError(t, err)
	_, err = svc.Track(ctx, repos.TrackParams{Owner: "alice", Name: "dotfiles", Branch: "trunk"})
	require.NoError(t, err)

	list, err = svc.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []repos.Summary{
		{ID: "R_2", OwnerID: "U_1", OwnerLogin: "alice", Name: "dotfiles"},
		{ID: "R_1", OwnerID: "O_1", OwnerLogin: "acme", Name: "widgets"},
	}, list)
}

func TestGetByIDNotFound(t *testing.T) {
	svc, _ := setup(t)

	_, err := svc.GetByID(context.Background(), "R_404")
	assert.ErrorIs(t, err, repos.ErrNotFound)
}

func TestUntrack(t *testing.T) {
	ctx := context.Background()
	svc, cn := setup(t)

	_, err := svc.Track(ctx, repos.TrackParams{Owner: "acme", Name: "widgets", Branch: "main"})
	require.NoError(t, err)

	c, err := cn.Open(ctx)
	require.NoError(t, err)
	defer c.Close()

	committed := time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC)
	n, err := commits.SavePage(ctx, c, "R_1", []github.Commit{
		{ID: "C_1", SHA: "aaa", Committer: github.Signature{Date: &committed}},
		{ID: "C_2", SHA: "bbb", Committer: github.Signature{Date: &committed}},
	})
	require.NoError(t, err)
	require.Equal(t, 2, n)

	d, err := svc.GetByID(ctx, "R_1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), d.CommitCount)

	repo, err := svc.Untrack(ctx, "R_1")
	require.NoError(t, err)
	assert.Equal(t, "widgets", repo.Name)

	left, err := c.Count(ctx, models.CommitTable, db.Where().Eq("repository_id", "R_1"))
	require.NoError(t, err)
	assert.Nil(t, left)

	_, err = svc.GetByID(ctx, "R_1")
	assert.ErrorIs(t, err, repos.ErrNotFound)

	_, err = svc.Untrack(ctx, "R_1")
	assert.ErrorIs(t, err, repos.ErrNotFound)
}
