// Package models defines the persisted entities: the table each one lives in
// and how it maps to and from db values.
package models

import (
	"github.com/gomantics/repotracker/db"
	"github.com/gomantics/repotracker/pkg/sqlconv"
)

const (
	GitUserTable         = "git_user"
	GitOrganizationTable = "git_organization"
)

// Account is a GitHub user or organization. Both are stored with the same
// columns in their own table.
type Account struct {
	ID           string
	OldID        string
	AvatarURL    string
	Email        string
	Name         string
	Login        string
	Organization bool
}

func (a Account) Table() string {
	if a.Organization {
		return GitOrganizationTable
	}
	return GitUserTable
}

func (a Account) Values() db.Values {
	return db.Values{
		"id":         a.ID,
		"old_id":     sqlconv.NullIfEmpty(a.OldID),
		"avatar_url": sqlconv.NullIfEmpty(a.AvatarURL),
		"email":      sqlconv.NullIfEmpty(a.Email),
		"name":       sqlconv.NullIfEmpty(a.Name),
		"login":      a.Login,
	}
}

func AccountFromRow(row db.Row, organization bool) Account {
	return Account{
		ID:           sqlconv.String(row["id"]),
		OldID:        sqlconv.String(row["old_id"]),
		AvatarURL:    sqlconv.String(row["avatar_url"]),
		Email:        sqlconv.String(row["email"]),
		Name:         sqlconv.String(row["name"]),
		Login:        sqlconv.String(row["login"]),
		Organization: organization,
	}
}
