package models

import (
	"time"

	"github.com/gomantics/repotracker/db"
	"github.com/gomantics/repotracker/pkg/sqlconv"
)

const CommitTable = "git_commit"

// Signature is the author or committer side of a commit. UserID is empty
// when the email is not linked to a GitHub account.
type Signature struct {
	Date      *time.Time
	AvatarURL string
	Email     string
	Name      string
	UserID    string
}

type Commit struct {
	ID              string
	RepositoryID    string
	SHA             string
	MessageHeadline string
	Additions       int64
	Deletions       int64
	Author          Signature
	Committer       Signature
}

func (c Commit) Values() db.Values {
	return db.Values{
		"id":                   c.ID,
		"repository_id":        c.RepositoryID,
		"sha":                  c.SHA,
		"message_headline":     sqlconv.NullIfEmpty(c.MessageHeadline),
		"additions":            c.Additions,
		"deletions":            c.Deletions,
		"authored_date":        sqlconv.NullIfNil(c.Author.Date),
		"author_avatar_url":    sqlconv.NullIfEmpty(c.Author.AvatarURL),
		"author_email":         sqlconv.NullIfEmpty(c.Author.Email),
		"author_id":            sqlconv.NullIfEmpty(c.Author.UserID),
		"author_name":          sqlconv.NullIfEmpty(c.Author.Name),
		"committed_date":       sqlconv.NullIfNil(c.Committer.Date),
		"committer_avatar_url": sqlconv.NullIfEmpty(c.Committer.AvatarURL),
		"committer_email":      sqlconv.NullIfEmpty(c.Committer.Email),
		"committer_id":         sqlconv.NullIfEmpty(c.Committer.UserID),
		"committer_name":       sqlconv.NullIfEmpty(c.Committer.Name),
	}
}

func CommitFromRow(row db.Row) Commit {
	return Commit{
		ID:              sqlconv.String(row["id"]),
		RepositoryID:    sqlconv.String(row["repository_id"]),
		SHA:             sqlconv.String(row["sha"]),
		MessageHeadline: sqlconv.String(row["message_headline"]),
		Additions:       sqlconv.Int64(row["additions"]),
		Deletions:       sqlconv.Int64(row["deletions"]),
		Author: Signature{
			Date:      sqlconv.Time(row["authored_date"]),
			AvatarURL: sqlconv.String(row["author_avatar_url"]),
			Email:     sqlconv.String(row["author_email"]),
			Name:      sqlconv.String(row["author_name"]),
			UserID:    sqlconv.String(row["author_id"]),
		},
		Committer: Signature{
			Date:      sqlconv.Time(row["committed_date"]),
			AvatarURL: sqlconv.String(row["committer_avatar_url"]),
			Email:     sqlconv.String(row["committer_email"]),
			Name:      sqlconv.String(row["committer_name"]),
			UserID:    sqlconv.String(row["committer_id"]),
		},
	}
}
