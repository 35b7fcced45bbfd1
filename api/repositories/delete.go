package repositories

import (
	"errors"

	"github.com/gomantics/repotracker/api/web"
	"github.com/gomantics/repotracker/domains/repos"
	"go.uber.org/zap"
)

// DeleteResponse is the response for untracking a repository
type DeleteResponse struct {
	Message    string             `json:"message"`
	Repository RepositoryResponse `json:"repository"`
}

// Delete handles DELETE /v1/repositories/:id
func (h *handlers) Delete(c web.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")

	repo, err := h.repos.Untrack(ctx, id)
	if errors.Is(err, repos.ErrNotFound) {
		return c.NotFound("repository not found")
	}
	if err != nil {
		c.L.Error("failed to delete repo", zap.Error(err))
		return c.InternalError("failed to delete repository")
	}

	c.L.Info("repository deleted", zap.String("repo_id", id))

	return c.OK(DeleteResponse{
		Message:    "Repository untracked successfully",
		Repository: newRepositoryResponse(repo, ""),
	})
}
