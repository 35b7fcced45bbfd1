package repositories

import (
	"errors"
	"strconv"
	"time"

	"github.com/gomantics/repotracker/api/web"
	"github.com/gomantics/repotracker/domains/commits"
	"go.uber.org/zap"
)

// CommitsResponse is the response for listing the commits of a repository
type CommitsResponse struct {
	Commits []CommitSummary `json:"commits"`
	Total   int64           `json:"total"`
	Page    int             `json:"page"`
	Limit   int             `json:"limit"`
}

type CommitSummary struct {
	ID              string     `json:"id"`
	SHA             string     `json:"sha"`
	MessageHeadline string     `json:"message_headline"`
	Additions       int64      `json:"additions"`
	Deletions       int64      `json:"deletions"`
	CommittedDate   *time.Time `json:"committed_date,omitempty"`
	AuthorAvatarURL string     `json:"author_avatar_url,omitempty"`
	AuthorName      string     `json:"author_name,omitempty"`
}

// Commits handles GET /v1/repositories/commits
func (h *handlers) Commits(c web.Context) error {
	ctx := c.Request().Context()

	repoID := c.QueryParam("repo_id")
	if repoID == "" {
		return c.BadRequest("repo_id query parameter is required")
	}

	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = commits.DefaultLimit
	}
	limit = min(limit, commits.MaxLimit)

	result, err := h.commits.List(ctx, repoID, commits.ListParams{
		Limit:  limit,
		Offset: (page - 1) * limit,
	})
	if errors.Is(err, commits.ErrRepositoryNotFound) {
		return c.BadRequest("repository is not tracked")
	}
	if err != nil {
		c.L.Error("failed to list commits", zap.Error(err))
		return c.InternalError("failed to list commits")
	}

	summaries := make([]CommitSummary, len(result.Commits))
	for i, cm := range result.Commits {
		summaries[i] = CommitSummary{
			ID:              cm.ID,
			SHA:             cm.SHA,
			MessageHeadline: cm.MessageHeadline,
			Additions:       cm.Additions,
			Deletions:       cm.Deletions,
			CommittedDate:   cm.CommittedDate,
			AuthorAvatarURL: cm.AuthorAvatarURL,
			AuthorName:      cm.AuthorName,
		}
	}

	return c.OK(CommitsResponse{
		Commits: summaries,
		Total:   result.Total,
		Page:    page,
		Limit:   limit,
	})
}
