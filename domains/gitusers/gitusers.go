// Package gitusers stores the GitHub users and organizations that own
// tracked repositories or authored their commits.
package gitusers

import (
	"context"
	"errors"
	"fmt"

	"github.com/gomantics/repotracker/db"
	"github.com/gomantics/repotracker/libs/github"
	"github.com/gomantics/repotracker/models"
	"github.com/gomantics/repotracker/pkg/sqlconv"
)

var ErrNotFound = errors.New("account not found")

// Ensure inserts a unless an account with the same id is already stored.
// It reports whether a row was inserted.
func Ensure(ctx context.Context, c *db.Client, a models.Account) (bool, error) {
	exists, err := c.IDExists(ctx, a.Table(), a.ID)
	if err != nil {
		return false, fmt.Errorf("failed to look up %s %s: %w", a.Table(), a.ID, err)
	}
	if exists {
		return false, nil
	}

	if err := c.InsertOne(ctx, a.Table(), a.Values()); err != nil {
		// Lost a race with another writer; the row is there either way.
		if c.Dialect().IsUniqueViolation(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to insert %s %s: %w", a.Table(), a.ID, err)
	}
	return true, nil
}

// Get returns the account with the given id from either table.
func Get(ctx context.Context, c *db.Client, id string) (*models.Account, error) {
	for _, org := range []bool{false, true} {
		table := models.GitUserTable
		if org {
			table = models.GitOrganizationTable
		}

		row, err := c.SelectByID(ctx, table, id)
		if err != nil {
			return nil, err
		}
		if len(row) > 0 {
			a := models.AccountFromRow(row, org)
			return &a, nil
		}
	}
	return nil, ErrNotFound
}

// Login returns the login of the account with the given id.
func Login(ctx context.Context, c *db.Client, id string) (string, error) {
	for _, table := range []string{models.GitUserTable, models.GitOrganizationTable} {
		row, err := c.SelectByID(ctx, table, id, db.Columns("login"), db.Silent())
		if err != nil {
			return "", err
		}
		if len(row) > 0 {
			return sqlconv.String(row["login"]), nil
		}
	}
	return "", ErrNotFound
}

// FromOwner converts a GitHub profile into the stored account.
func FromOwner(o *github.Owner) models.Account {
	a := models.Account{
		ID:           o.ID,
		AvatarURL:    o.AvatarURL,
		Email:        o.Email,
		Name:         o.Name,
		Login:        o.Login,
		Organization: o.Kind == github.KindOrganization,
	}
	if o.DatabaseID != 0 {
		a.OldID = fmt.Sprint(o.DatabaseID)
	}
	return a
}

// FromSignature builds the user account behind a commit signature. ok is
// false when the signature is not linked to a GitHub user.
func FromSignature(s github.Signature) (a models.Account, ok bool) {
	if s.UserID == "" {
		return models.Account{}, false
	}
	return models.Account{
		ID:        s.UserID,
		AvatarURL: s.AvatarURL,
		Email:     s.Email,
		Name:      s.Name,
		Login:     s.Login,
	}, true
}
