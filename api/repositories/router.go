package repositories

import (
	"github.com/gomantics/repotracker/api/web"
	"github.com/gomantics/repotracker/domains/commits"
	"github.com/gomantics/repotracker/domains/repos"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// handlers serves the repository routes on top of the domain services.
type handlers struct {
	repos   *repos.Service
	commits *commits.Service
}

func Configure(e *echo.Echo, l *zap.Logger, rs *repos.Service, cs *commits.Service) {
	h := &handlers{repos: rs, commits: cs}

	e.POST("/v1/repositories", web.Wrap(h.Create, l))
	e.GET("/v1/repositories", web.Wrap(h.List, l))
	e.GET("/v1/repositories/commits", web.Wrap(h.Commits, l))
	e.GET("/v1/repositories/:id", web.Wrap(h.Get, l))
	e.DELETE("/v1/repositories/:id", web.Wrap(h.Delete, l))
}
