package repositories

import (
	"errors"
	"time"

	"github.com/gomantics/repotracker/api/web"
	"github.com/gomantics/repotracker/domains/repos"
	"github.com/gomantics/repotracker/models"
	"go.uber.org/zap"
)

// RepositoryResponse is a tracked repository
type RepositoryResponse struct {
	ID                  string     `json:"id"`
	Name                string     `json:"name"`
	OwnerID             string     `json:"owner_id"`
	OwnerLogin          string     `json:"owner_login,omitempty"`
	IsPrivate           bool       `json:"is_private"`
	CreatedAt           *time.Time `json:"created_at,omitempty"`
	TrackedBranchName   string     `json:"tracked_branch_name"`
	TrackedBranchRef    string     `json:"tracked_branch_ref,omitempty"`
	RootCommitIsReached bool       `json:"root_commit_is_reached"`
	LastSyncedAt        *time.Time `json:"last_synced_at,omitempty"`
}

// GetResponse is the response for getting a repository
type GetResponse struct {
	RepositoryResponse
	CommitCount int64 `json:"commit_count"`
}

func newRepositoryResponse(r *models.Repository, ownerLogin string) RepositoryResponse {
	return RepositoryResponse{
		ID:                  r.ID,
		Name:                r.Name,
		OwnerID:             r.OwnerID,
		OwnerLogin:          ownerLogin,
		IsPrivate:           r.IsPrivate,
		CreatedAt:           r.CreatedAt,
		TrackedBranchName:   r.TrackedBranchName,
		TrackedBranchRef:    r.TrackedBranchRef,
		RootCommitIsReached: r.RootCommitIsReached,
		LastSyncedAt:        r.LastSyncedAt,
	}
}

// Get handles GET /v1/repositories/:id
func (h *handlers) Get(c web.Context) error {
	ctx := c.Request().Context()

	repo, err := h.repos.GetByID(ctx, c.Param("id"))
	if errors.Is(err, repos.ErrNotFound) {
		return c.NotFound("repository not found")
	}
	if err != nil {
		c.L.Error("failed to get repo", zap.Error(err))
		return c.InternalError("failed to get repository")
	}

	return c.OK(GetResponse{
		RepositoryResponse: newRepositoryResponse(&repo.Repository, repo.OwnerLogin),
		CommitCount:        repo.CommitCount,
	})
}
