package repositories

import (
	"github.com/gomantics/repotracker/api/web"
	"go.uber.org/zap"
)

// ListResponse is the response for listing repositories
type ListResponse struct {
	Repos []RepoSummary `json:"repos"`
}

// RepoSummary is a summary of a repository
type RepoSummary struct {
	ID         string `json:"id"`
	OwnerID    string `json:"owner_id"`
	OwnerLogin string `json:"owner_login"`
	Name       string `json:"name"`
}

// List handles GET /v1/repositories
func (h *handlers) List(c web.Context) error {
	ctx := c.Request().Context()

	result, err := h.repos.List(ctx)
	if err != nil {
		c.L.Error("failed to list repos", zap.Error(err))
		return c.InternalError("failed to list repositories")
	}

	summaries := make([]RepoSummary, len(result))
	for i, repo := range result {
		summaries[i] = RepoSummary{
			ID:         repo.ID,
			OwnerID:    repo.OwnerID,
			OwnerLogin: repo.OwnerLogin,
			Name:       repo.Name,
		}
	}

	return c.OK(ListResponse{Repos: summaries})
}
