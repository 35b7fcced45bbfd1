// Package history collects the commit history of tracked branches in the
// background, one page per repository and tick, from the branch head down
// to the root commit.
package history

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gomantics/repotracker/config"
	"github.com/gomantics/repotracker/db"
	"github.com/gomantics/repotracker/domains/commits"
	"github.com/gomantics/repotracker/domains/gitusers"
	"github.com/gomantics/repotracker/libs/github"
	"github.com/gomantics/repotracker/models"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Source pages through the history of a branch.
type Source interface {
	History(ctx context.Context, owner, name, ref, after string, pageSize int) (*github.HistoryPage, error)
}

// Worker handles background history sync
type Worker struct {
	cn       *db.Connector
	src      Source
	interval time.Duration
	pageSize int
	l        *zap.Logger

	wg     sync.WaitGroup
	cancel context.CancelFunc
}

func NewWorker(cfg *config.Config, cn *db.Connector, src Source, l *zap.Logger) *Worker {
	return &Worker{
		cn:       cn,
		src:      src,
		interval: cfg.Sync.Interval,
		pageSize: cfg.Sync.PageSize,
		l:        l.Named("history"),
	}
}

// StartWorker starts the background worker
func StartWorker(lc fx.Lifecycle, cfg *config.Config, cn *db.Connector, src Source, l *zap.Logger) {
	if !cfg.Sync.Enabled {
		l.Info("history sync disabled")
		return
	}

	worker := NewWorker(cfg, cn, src, l)

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			workerCtx, cancel := context.WithCancel(context.Background())
			worker.cancel = cancel
			worker.start(workerCtx)
			return nil
		},
		OnStop: func(ctx context.Context) error {
			worker.stop()
			return nil
		},
	})
}

func (w *Worker) start(ctx context.Context) {
	w.l.Info("starting history worker",
		zap.Duration("interval", w.interval),
		zap.Int("page_size", w.pageSize),
	)

	w.wg.Add(1)
	go w.run(ctx)
}

// stop gracefully stops the worker
func (w *Worker) stop() {
	w.l.Info("stopping history worker")
	if w.cancel != nil {
		w.cancel()
	}
	w.wg.Wait()
	w.l.Info("history worker stopped")
}

func (w *Worker) run(ctx context.Context) {
	defer w.wg.Done()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := w.SyncOnce(ctx); err != nil {
				w.l.Error("history sync failed", zap.Error(err))
			}
		}
	}
}

// SyncOnce fetches the next history page of every repository whose root
// commit has not been reached yet.
//
// TODO: once the root is reached, commits pushed later are never fetched;
// walk from the branch head down to the newest stored commit.
func (w *Worker) SyncOnce(ctx context.Context) error {
	c, err := w.cn.Open(ctx)
	if err != nil {
		return err
	}
	defer c.Close()

	if err := c.CheckAlive(ctx); err != nil {
		return err
	}

	rows, err := c.Select(ctx, models.RepositoryTable,
		db.Where().Eq("root_commit_is_reached", db.Keep(false)),
		db.OrderBy("id", true),
	)
	if err != nil {
		return fmt.Errorf("failed to list repositories to sync: %w", err)
	}

	for _, row := range rows {
		repo := models.RepositoryFromRow(row)
		if err := w.syncRepository(ctx, c, repo); err != nil {
			w.l.Error("failed to sync repository",
				zap.String("repository_id", repo.ID),
				zap.Error(err),
			)
		}
	}
	return nil
}

func (w *Worker) syncRepository(ctx context.Context, c *db.Client, repo models.Repository) error {
	owner, err := gitusers.Login(ctx, c, repo.OwnerID)
	if err != nil {
		return fmt.Errorf("failed to resolve owner %s: %w", repo.OwnerID, err)
	}

	page, err := w.src.History(ctx, owner, repo.Name, repo.TrackedBranchRef, repo.LastSyncedCursor, w.pageSize)
	if err != nil {
		return err
	}

	inserted, err := commits.SavePage(ctx, c, repo.ID, page.Commits)
	if err != nil {
		return err
	}

	values := db.Values{
		"last_synced_at":         time.Now().UTC(),
		"root_commit_is_reached": !page.HasNextPage,
	}
	if page.EndCursor != "" {
		values["last_synced_cursor"] = page.EndCursor
	}
	if _, err := c.UpdateByID(ctx, models.RepositoryTable, repo.ID, values); err != nil {
		return fmt.Errorf("failed to store sync progress: %w", err)
	}

	w.l.Info("repository history synced",
		zap.String("repository_id", repo.ID),
		zap.Int("inserted", inserted),
		zap.Bool("root_reached", !page.HasNextPage),
	)
	return nil
}
