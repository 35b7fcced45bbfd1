package commits

import (
	"context"
	"errors"
	"fmt"

	"github.com/gomantics/repotracker/db"
	"github.com/gomantics/repotracker/domains/gitusers"
	"github.com/gomantics/repotracker/libs/github"
	"github.com/gomantics/repotracker/models"
	"github.com/gomantics/repotracker/pkg/sqlconv"
	"go.uber.org/zap"
)

const (
	DefaultLimit = 50
	MaxLimit     = 500
)

var ErrRepositoryNotFound = errors.New("repository is not tracked")

var summaryColumns = []string{
	"id",
	"sha",
	"message_headline",
	"additions",
	"deletions",
	"committed_date",
	"author_avatar_url",
	"author_name",
}

type Service struct {
	cn *db.Connector
	l  *zap.Logger
}

func New(cn *db.Connector, l *zap.Logger) *Service {
	return &Service{cn: cn, l: l.Named("commits")}
}

// List returns the commits collected for a repository, newest first.
func (s *Service) List(ctx context.Context, repoID string, p ListParams) (*ListResult, error) {
	if p.Limit <= 0 {
		p.Limit = DefaultLimit
	}
	p.Limit = min(p.Limit, MaxLimit)
	p.Offset = max(p.Offset, 0)

	c, err := s.cn.Open(ctx)
	if err != nil {
		return nil, err
	}
	defer c.Close()

	exists, err := c.IDExists(ctx, models.RepositoryTable, repoID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrRepositoryNotFound
	}

	conds := db.Where().Eq("repository_id", db.Keep(repoID))

	rows, err := c.Select(ctx, models.CommitTable, conds,
		db.Columns(summaryColumns...),
		db.OrderBy("committed_date", false),
		db.Limit(p.Limit),
		db.Offset(p.Offset),
	)
	if err != nil {
		return nil, err
	}

	total, err := c.Count(ctx, models.CommitTable, conds)
	if err != nil {
		return nil, err
	}

	res := &ListResult{
		Commits: make([]Summary, 0, len(rows)),
		Total:   sqlconv.Val(total),
	}
	for _, row := range rows {
		res.Commits = append(res.Commits, Summary{
			ID:              sqlconv.String(row["id"]),
			SHA:             sqlconv.String(row["sha"]),
			MessageHeadline: sqlconv.String(row["message_headline"]),
			Additions:       sqlconv.Int64(row["additions"]),
			Deletions:       sqlconv.Int64(row["deletions"]),
			CommittedDate:   sqlconv.Time(row["committed_date"]),
			AuthorAvatarURL: sqlconv.String(row["author_avatar_url"]),
			AuthorName:      sqlconv.String(row["author_name"]),
		})
	}
	return res, nil
}

// SavePage stores the commits of one history page for a repository, with
// the GitHub users behind their signatures. Commits already stored are
// skipped. It returns the number of inserted commits.
func SavePage(ctx context.Context, c *db.Client, repoID string, page []github.Commit) (int, error) {
	inserted := 0
	for _, gc := range page {
		for _, sig := range []github.Signature{gc.Author, gc.Committer} {
			if a, ok := gitusers.FromSignature(sig); ok {
				if _, err := gitusers.Ensure(ctx, c, a); err != nil {
					return inserted, err
				}
			}
		}

		exists, err := c.IDExists(ctx, models.CommitTable, gc.ID, db.Silent())
		if err != nil {
			return inserted, err
		}
		if exists {
			continue
		}

		if err := c.InsertOne(ctx, models.CommitTable, FromGitHub(repoID, gc).Values()); err != nil {
			return inserted, fmt.Errorf("failed to insert commit %s: %w", gc.SHA, err)
		}
		inserted++
	}
	return inserted, nil
}

// FromGitHub converts a history entry into the stored commit.
func FromGitHub(repoID string, gc github.Commit) models.Commit {
	sig := func(s github.Signature) models.Signature {
		return models.Signature{
			Date:      s.Date,
			AvatarURL: s.AvatarURL,
			Email:     s.Email,
			Name:      s.Name,
			UserID:    s.UserID,
		}
	}
	return models.Commit{
		ID:              gc.ID,
		RepositoryID:    repoID,
		SHA:             gc.SHA,
		MessageHeadline: gc.MessageHeadline,
		Additions:       gc.Additions,
		Deletions:       gc.Deletions,
		Author:          sig(gc.Author),
		Committer:       sig(gc.Committer),
	}
}
