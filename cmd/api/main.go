package main

import (
	"github.com/gomantics/repotracker/api"
	"github.com/gomantics/repotracker/config"
	"github.com/gomantics/repotracker/db"
	"github.com/gomantics/repotracker/domains/commits"
	"github.com/gomantics/repotracker/domains/history"
	"github.com/gomantics/repotracker/domains/repos"
	"github.com/gomantics/repotracker/libs/github"
	"github.com/gomantics/repotracker/pkg/logger"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

func main() {
	fx.New(
		fx.Provide(
			config.Load,
			logger.New,
			db.NewConnector,
			fx.Annotate(
				github.New,
				fx.As(new(repos.GitHub)),
				fx.As(new(history.Source)),
			),
			repos.New,
			commits.New,
		),
		fx.Decorate(func(l *zap.Logger) *zap.Logger {
			return l.With(zap.String("service", "repotracker"))
		}),
		fx.Invoke(
			db.Init,
			history.StartWorker,
			api.Run,
		),
		fx.WithLogger(func(l *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{
				Logger: l,
			}
		}),
	).Run()
}
