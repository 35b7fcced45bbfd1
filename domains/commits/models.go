package commits

import "time"

// ListParams contains parameters for listing commits
type ListParams struct {
	Limit  int
	Offset int
}

// Summary is the projection of a commit served to clients
type Summary struct {
	ID              string
	SHA             string
	MessageHeadline string
	Additions       int64
	Deletions       int64
	CommittedDate   *time.Time
	AuthorAvatarURL string
	AuthorName      string
}

// ListResult contains the result of listing commits
type ListResult struct {
	Commits []Summary
	Total   int64
}
