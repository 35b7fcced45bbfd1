package main

import (
	"context"

	"github.com/gomantics/repotracker/config"
	"github.com/gomantics/repotracker/db"
	"github.com/gomantics/repotracker/domains/commits"
	"github.com/gomantics/repotracker/domains/history"
	"github.com/gomantics/repotracker/domains/repos"
	"github.com/gomantics/repotracker/libs/github"
	"github.com/gomantics/repotracker/pkg/logger"
	"go.uber.org/zap"
)

// gitHub is everything the commands need from GitHub.
type gitHub interface {
	repos.GitHub
	history.Source
}

// app holds the dependencies shared by the commands. Fields already set are
// kept, so tests can inject a configuration and a fake GitHub.
type app struct {
	cfg *config.Config
	l   *zap.Logger
	gh  gitHub

	cn      *db.Connector
	repos   *repos.Service
	commits *commits.Service
}

func (a *app) load() error {
	if a.cfg == nil {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		a.cfg = cfg
	}
	if a.l == nil {
		a.l = logger.New(a.cfg).With(zap.String("service", "tracker"))
	}
	if a.gh == nil {
		a.gh = github.New(a.cfg, a.l)
	}

	cn, err := db.NewConnector(a.cfg, a.l)
	if err != nil {
		return err
	}
	a.cn = cn
	a.repos = repos.New(cn, a.gh, a.l)
	a.commits = commits.New(cn, a.l)
	return nil
}

func (a *app) migrate(ctx context.Context) error {
	c, err := a.cn.Open(ctx)
	if err != nil {
		return err
	}
	defer c.Close()
	return db.ApplySchema(ctx, c, a.l)
}
