package repos

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gomantics/repotracker/db"
	"github.com/gomantics/repotracker/domains/gitusers"
	"github.com/gomantics/repotracker/libs/github"
	"github.com/gomantics/repotracker/libs/gitrepo"
	"github.com/gomantics/repotracker/models"
	"go.uber.org/zap"
)

var (
	ErrNotFound          = errors.New("repository not found")
	ErrAlreadyExists     = errors.New("repository already tracked")
	ErrInvalidAttributes = errors.New("invalid repository attributes")
	ErrBranchNotFound    = errors.New("branch not found")
)

// GitHub is what tracking needs from the GitHub client.
type GitHub interface {
	Repository(ctx context.Context, owner, name string) (*github.Repository, error)
	Owner(ctx context.Context, id string) (*github.Owner, error)
	BranchHead(ctx context.Context, owner, name, branch string) (string, error)
}

type Service struct {
	cn *db.Connector
	gh GitHub
	l  *zap.Logger
}

func New(cn *db.Connector, gh GitHub, l *zap.Logger) *Service {
	return &Service{cn: cn, gh: gh, l: l.Named("repos")}
}

// Track registers a repository branch. The repository metadata and the
// branch are checked on GitHub, the owner is stored if unknown and the
// repository row is inserted.
func (s *Service) Track(ctx context.Context, p TrackParams) (*models.Repository, error) {
	if p.URL != "" && (p.Owner == "" || p.Name == "") {
		owner, name, err := gitrepo.DefaultRegistry.ParseRepoURL(p.URL)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidAttributes, err)
		}
		p.Owner, p.Name = owner, name
	}
	p.Owner = strings.TrimSpace(p.Owner)
	p.Name = strings.TrimSpace(p.Name)
	p.Branch = strings.TrimSpace(p.Branch)
	if p.Owner == "" || p.Name == "" || p.Branch == "" {
		return nil, fmt.Errorf("%w: owner, name and branch are required", ErrInvalidAttributes)
	}

	meta, err := s.gh.Repository(ctx, p.Owner, p.Name)
	if errors.Is(err, github.ErrNotFound) {
		return nil, fmt.Errorf("%w: no repository %s/%s on github", ErrInvalidAttributes, p.Owner, p.Name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch repository: %w", err)
	}

	if _, err := s.gh.BranchHead(ctx, p.Owner, p.Name, p.Branch); err != nil {
		if errors.Is(err, gitrepo.ErrBranchNotFound) || errors.Is(err, gitrepo.ErrRepoNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrBranchNotFound, p.Branch)
		}
		return nil, fmt.Errorf("failed to check branch: %w", err)
	}

	owner, err := s.gh.Owner(ctx, meta.OwnerID)
	if errors.Is(err, github.ErrNotFound) {
		return nil, fmt.Errorf("%w: no owner %s on github", ErrInvalidAttributes, meta.OwnerID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch owner: %w", err)
	}

	createdAt := meta.CreatedAt
	repo := models.Repository{
		ID:                meta.ID,
		Name:              meta.Name,
		CreatedAt:         &createdAt,
		IsPrivate:         meta.IsPrivate,
		TrackedBranchName: p.Branch,
		TrackedBranchRef:  "refs/heads/" + p.Branch,
		OwnerID:           meta.OwnerID,
	}
	if meta.DatabaseID != 0 {
		repo.OldID = fmt.Sprint(meta.DatabaseID)
	}

	c, err := s.cn.Open(ctx)
	if err != nil {
		return nil, err
	}
	defer c.Close()

	if _, err := gitusers.Ensure(ctx, c, gitusers.FromOwner(owner)); err != nil {
		return nil, err
	}

	if err := c.InsertOne(ctx, models.RepositoryTable, repo.Values()); err != nil {
		if c.Dialect().IsUniqueViolation(err) {
			return nil, ErrAlreadyExists
		}
		return nil, fmt.Errorf("failed to insert repository: %w", err)
	}

	s.l.Info("repository tracked",
		zap.String("id", repo.ID),
		zap.String("repository", p.Owner+"/"+p.Name),
		zap.String("branch", p.Branch),
	)
	return &repo, nil
}

// List returns every tracked repository with its owner login.
func (s *Service) List(ctx context.Context) ([]Summary, error) {
	c, err := s.cn.Open(ctx)
	if err != nil {
		return nil, err
	}
	defer c.Close()

	rows, err := c.Select(ctx, models.RepositoryTable, nil,
		db.Columns("id", "owner_id", "name"),
		db.OrderBy("name", true),
	)
	if err != nil {
		return nil, err
	}

	logins := make(map[string]string)
	out := make([]Summary, 0, len(rows))
	for _, row := range rows {
		r := models.RepositoryFromRow(row)

		login, ok := logins[r.OwnerID]
		if !ok {
			login, err = gitusers.Login(ctx, c, r.OwnerID)
			if err != nil && !errors.Is(err, gitusers.ErrNotFound) {
				return nil, err
			}
			logins[r.OwnerID] = login
		}

		out = append(out, Summary{
			ID:         r.ID,
			OwnerID:    r.OwnerID,
			OwnerLogin: login,
			Name:       r.Name,
		})
	}
	return out, nil
}

// GetByID returns a tracked repository with its owner login and the number
// of commits collected so far.
func (s *Service) GetByID(ctx context.Context, id string) (*Detail, error) {
	c, err := s.cn.Open(ctx)
	if err != nil {
		return nil, err
	}
	defer c.Close()

	row, err := c.SelectByID(ctx, models.RepositoryTable, id)
	if err != nil {
		return nil, err
	}
	if len(row) == 0 {
		return nil, ErrNotFound
	}

	d := &Detail{Repository: models.RepositoryFromRow(row)}

	d.OwnerLogin, err = gitusers.Login(ctx, c, d.OwnerID)
	if err != nil && !errors.Is(err, gitusers.ErrNotFound) {
		return nil, err
	}

	n, err := c.Count(ctx, models.CommitTable, db.Where().Eq("repository_id", id))
	if err != nil {
		return nil, err
	}
	if n != nil {
		d.CommitCount = *n
	}
	return d, nil
}

// Untrack removes a repository and the commits collected for it.
func (s *Service) Untrack(ctx context.Context, id string) (*models.Repository, error) {
	c, err := s.cn.Open(ctx)
	if err != nil {
		return nil, err
	}
	defer c.Close()

	exists, err := c.IDExists(ctx, models.RepositoryTable, id)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrNotFound
	}

	removed, err := c.Delete(ctx, models.CommitTable, db.Where().Eq("repository_id", db.Keep(id)))
	if err != nil {
		return nil, fmt.Errorf("failed to delete commits: %w", err)
	}

	row, err := c.DeleteByID(ctx, models.RepositoryTable, id)
	if err != nil {
		return nil, fmt.Errorf("failed to delete repository: %w", err)
	}
	if len(row) == 0 {
		return nil, ErrNotFound
	}

	repo := models.RepositoryFromRow(row)
	s.l.Info("repository untracked", zap.String("id", id), zap.Int("commits", len(removed)))
	return &repo, nil
}
