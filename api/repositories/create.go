package repositories

import (
	"errors"

	"github.com/gomantics/repotracker/api/web"
	"github.com/gomantics/repotracker/domains/repos"
	"go.uber.org/zap"
)

// CreateRequest is the request body for tracking a repository. Either url or
// owner and name must be given.
type CreateRequest struct {
	Owner  string `json:"owner" validate:"required_without=URL"`
	Name   string `json:"name" validate:"required_without=URL"`
	URL    string `json:"url" validate:"omitempty,url"`
	Branch string `json:"branch" validate:"required"`
}

// Create handles POST /v1/repositories
func (h *handlers) Create(c web.Context) error {
	var req CreateRequest
	if err := c.BindAndValidate(&req); err != nil {
		return c.BadRequest("owner, name and branch are required")
	}

	ctx := c.Request().Context()

	repo, err := h.repos.Track(ctx, repos.TrackParams{
		Owner:  req.Owner,
		Name:   req.Name,
		URL:    req.URL,
		Branch: req.Branch,
	})
	switch {
	case errors.Is(err, repos.ErrAlreadyExists):
		return c.Conflict("repository is already tracked")
	case errors.Is(err, repos.ErrInvalidAttributes), errors.Is(err, repos.ErrBranchNotFound):
		return c.BadRequest(err.Error())
	case err != nil:
		c.L.Error("failed to track repo", zap.Error(err))
		return c.InternalError("failed to track repository")
	}

	c.L.Info("repository created",
		zap.String("id", repo.ID),
		zap.String("branch", repo.TrackedBranchName),
	)

	return c.Created(newRepositoryResponse(repo, ""))
}
