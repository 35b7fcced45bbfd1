package models

import (
	"time"

	"github.com/gomantics/repotracker/db"
	"github.com/gomantics/repotracker/pkg/sqlconv"
)

const RepositoryTable = "repository"

// Repository is a tracked GitHub repository and the branch whose history is
// collected.
type Repository struct {
	ID                  string
	OldID               string
	Name                string
	CreatedAt           *time.Time
	RootCommitIsReached bool
	IsPrivate           bool
	TrackedBranchName   string
	TrackedBranchRef    string
	OwnerID             string
	LastSyncedCursor    string
	LastSyncedAt        *time.Time
}

func (r Repository) Values() db.Values {
	return db.Values{
		"id":                     r.ID,
		"old_id":                 sqlconv.NullIfEmpty(r.OldID),
		"name":                   r.Name,
		"created_at":             sqlconv.NullIfNil(r.CreatedAt),
		"root_commit_is_reached": r.RootCommitIsReached,
		"is_private":             r.IsPrivate,
		"tracked_branch_name":    r.TrackedBranchName,
		"tracked_branch_ref":     sqlconv.NullIfEmpty(r.TrackedBranchRef),
		"owner_id":               r.OwnerID,
		"last_synced_cursor":     sqlconv.NullIfEmpty(r.LastSyncedCursor),
		"last_synced_at":         sqlconv.NullIfNil(r.LastSyncedAt),
	}
}

func RepositoryFromRow(row db.Row) Repository {
	return Repository{
		ID:                  sqlconv.String(row["id"]),
		OldID:               sqlconv.String(row["old_id"]),
		Name:                sqlconv.String(row["name"]),
		CreatedAt:           sqlconv.Time(row["created_at"]),
		RootCommitIsReached: sqlconv.Bool(row["root_commit_is_reached"]),
		IsPrivate:           sqlconv.Bool(row["is_private"]),
		TrackedBranchName:   sqlconv.String(row["tracked_branch_name"]),
		TrackedBranchRef:    sqlconv.String(row["tracked_branch_ref"]),
		OwnerID:             sqlconv.String(row["owner_id"]),
		LastSyncedCursor:    sqlconv.String(row["last_synced_cursor"]),
		LastSyncedAt:        sqlconv.Time(row["last_synced_at"]),
	}
}
