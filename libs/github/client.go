// Package github reads repository metadata and commit history from the
// GitHub GraphQL API.
package github

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gomantics/repotracker/config"
	"github.com/gomantics/repotracker/libs/gitrepo"
	"github.com/shurcooL/githubv4"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

var (
	ErrNotFound = errors.New("not found on github")
	ErrRequest  = errors.New("github request failed")
)

const requestTimeout = 30 * time.Second

// Client wraps the GraphQL v4 client. Branch lookups go through git
// ls-remote on the same credentials.
type Client struct {
	gql    *githubv4.Client
	remote *gitrepo.Remote
	l      *zap.Logger
}

func New(cfg *config.Config, l *zap.Logger) *Client {
	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.GitHub.Token})
	httpClient := oauth2.NewClient(context.Background(), src)
	httpClient.Timeout = requestTimeout

	return NewWithClient(
		githubv4.NewEnterpriseClient(cfg.GitHub.URL, httpClient),
		gitrepo.NewRemote(gitrepo.NewGitHubProvider(cfg.GitHub.Token), nil),
		l,
	)
}

// NewWithClient assembles a client from already configured parts.
func NewWithClient(gql *githubv4.Client, remote *gitrepo.Remote, l *zap.Logger) *Client {
	return &Client{
		gql:    gql,
		remote: remote,
		l:      l.Named("github"),
	}
}

func (c *Client) query(ctx context.Context, name string, q any, vars map[string]any) error {
	start := time.Now()
	err := c.gql.Query(ctx, q, vars)
	c.l.Debug("graphql query",
		zap.String("query", name),
		zap.Duration("latency", time.Since(start)),
		zap.Error(err),
	)
	if err == nil {
		return nil
	}

	// GitHub answers unknown nodes with a NOT_FOUND error and a null field.
	msg := err.Error()
	if strings.Contains(msg, "Could not resolve to") || strings.Contains(msg, "NOT_FOUND") {
		return fmt.Errorf("%w: %s", ErrNotFound, msg)
	}
	return fmt.Errorf("%w: %s: %w", ErrRequest, name, err)
}

// Repository returns the metadata of owner/name.
func (c *Client) Repository(ctx context.Context, owner, name string) (*Repository, error) {
	var q struct {
		Repository *struct {
			ID         string
			DatabaseID *int64
			Name       string
			IsPrivate  bool
			CreatedAt  time.Time
			Owner      struct {
				Typename string `graphql:"__typename"`
				ID       string
				Login    string
			}
		} `graphql:"repository(owner: $owner, name: $name)"`
	}

	err := c.query(ctx, "repository", &q, map[string]any{
		"owner": githubv4.String(owner),
		"name":  githubv4.String(name),
	})
	if err != nil {
		return nil, err
	}
	if q.Repository == nil {
		return nil, fmt.Errorf("%w: repository %s/%s", ErrNotFound, owner, name)
	}

	r := q.Repository
	repo := &Repository{
		ID:        r.ID,
		Name:      r.Name,
		IsPrivate: r.IsPrivate,
		CreatedAt: r.CreatedAt,
		OwnerID:   r.Owner.ID,
		OwnerKind: OwnerKind(r.Owner.Typename),
		Owner:     r.Owner.Login,
	}
	if r.DatabaseID != nil {
		repo.DatabaseID = *r.DatabaseID
	}
	return repo, nil
}

// Owner returns the user or organization with the given node id.
func (c *Client) Owner(ctx context.Context, id string) (*Owner, error) {
	type profile struct {
		DatabaseID *int64
		AvatarURL  string
		Email      *string
		Name       *string
		Login      string
	}
	var q struct {
		Node *struct {
			Typename     string  `graphql:"__typename"`
			User         profile `graphql:"... on User"`
			Organization profile `graphql:"... on Organization"`
		} `graphql:"node(id: $id)"`
	}

	if err := c.query(ctx, "owner", &q, map[string]any{"id": githubv4.ID(id)}); err != nil {
		return nil, err
	}
	if q.Node == nil {
		return nil, fmt.Errorf("%w: owner %s", ErrNotFound, id)
	}

	p := q.Node.User
	kind := OwnerKind(q.Node.Typename)
	switch kind {
	case KindUser:
	case KindOrganization:
		p = q.Node.Organization
	default:
		return nil, fmt.Errorf("%w: node %s is a %s", ErrNotFound, id, q.Node.Typename)
	}

	o := &Owner{
		ID:        id,
		Kind:      kind,
		AvatarURL: p.AvatarURL,
		Login:     p.Login,
	}
	if p.DatabaseID != nil {
		o.DatabaseID = *p.DatabaseID
	}
	if p.Email != nil {
		o.Email = *p.Email
	}
	if p.Name != nil {
		o.Name = *p.Name
	}
	return o, nil
}

// History returns one page of the commit history of ref, newest first.
// An empty after starts at the head of the branch.
func (c *Client) History(ctx context.Context, owner, name, ref, after string, pageSize int) (*HistoryPage, error) {
	type user struct {
		ID         string
		DatabaseID *int64
		Login      string
	}
	type actor struct {
		AvatarURL string
		Email     *string
		Name      *string
		Date      *time.Time
		User      *user
	}
	var q struct {
		Repository *struct {
			Ref *struct {
				Target struct {
					Commit struct {
						History struct {
							PageInfo struct {
								EndCursor   *string
								HasNextPage bool
							}
							Nodes []struct {
								ID              string
								Oid             string
								MessageHeadline string
								Additions       int64
								Deletions       int64
								Author          actor
								Committer       actor
							}
						} `graphql:"history(first: $first, after: $after)"`
					} `graphql:"... on Commit"`
				}
			} `graphql:"ref(qualifiedName: $ref)"`
		} `graphql:"repository(owner: $owner, name: $name)"`
	}

	var cursor *githubv4.String
	if after != "" {
		cursor = githubv4.NewString(githubv4.String(after))
	}

	err := c.query(ctx, "history", &q, map[string]any{
		"owner": githubv4.String(owner),
		"name":  githubv4.String(name),
		"ref":   githubv4.String(ref),
		"first": githubv4.Int(pageSize),
		"after": cursor,
	})
	if err != nil {
		return nil, err
	}
	if q.Repository == nil || q.Repository.Ref == nil {
		return nil, fmt.Errorf("%w: %s on %s/%s", ErrNotFound, ref, owner, name)
	}

	toSignature := func(a actor) Signature {
		s := Signature{AvatarURL: a.AvatarURL, Date: a.Date}
		if a.Email != nil {
			s.Email = *a.Email
		}
		if a.Name != nil {
			s.Name = *a.Name
		}
		if a.User != nil {
			s.UserID = a.User.ID
			s.Login = a.User.Login
		}
		return s
	}

	h := q.Repository.Ref.Target.Commit.History
	page := &HistoryPage{HasNextPage: h.PageInfo.HasNextPage}
	if h.PageInfo.EndCursor != nil {
		page.EndCursor = *h.PageInfo.EndCursor
	}
	for _, n := range h.Nodes {
		page.Commits = append(page.Commits, Commit{
			ID:              n.ID,
			SHA:             n.Oid,
			MessageHeadline: n.MessageHeadline,
			Additions:       n.Additions,
			Deletions:       n.Deletions,
			Author:          toSignature(n.Author),
			Committer:       toSignature(n.Committer),
		})
	}
	return page, nil
}

// BranchHead returns the commit hash the branch points at, or
// gitrepo.ErrBranchNotFound.
func (c *Client) BranchHead(ctx context.Context, owner, name, branch string) (string, error) {
	return c.remote.BranchHead(ctx, owner, name, branch)
}
