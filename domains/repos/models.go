package repos

import "github.com/gomantics/repotracker/models"

// TrackParams names the repository and branch to track. URL may be given
// instead of Owner and Name.
type TrackParams struct {
	Owner  string
	Name   string
	URL    string
	Branch string
}

// Summary is a tracked repository as listed to clients
type Summary struct {
	ID         string
	OwnerID    string
	OwnerLogin string
	Name       string
}

// Detail is a tracked repository with its owner login and commit count
type Detail struct {
	models.Repository
	OwnerLogin  string
	CommitCount int64
}
