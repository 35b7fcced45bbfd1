package github

import "time"

type OwnerKind string

const (
	KindUser         OwnerKind = "User"
	KindOrganization OwnerKind = "Organization"
)

// Repository is the subset of repository metadata the tracker stores.
type Repository struct {
	ID         string
	DatabaseID int64
	Name       string
	IsPrivate  bool
	CreatedAt  time.Time
	OwnerID    string
	OwnerKind  OwnerKind
	Owner      string
}

// Owner is a user or organization profile.
type Owner struct {
	ID         string
	DatabaseID int64
	Kind       OwnerKind
	AvatarURL  string
	Email      string
	Name       string
	Login      string
}

type Signature struct {
	Date      *time.Time
	AvatarURL string
	Email     string
	Name      string
	UserID    string
	Login     string
}

type Commit struct {
	ID              string
	SHA             string
	MessageHeadline string
	Additions       int64
	Deletions       int64
	Author          Signature
	Committer       Signature
}

// HistoryPage is one page of a branch history walk. EndCursor continues
// the walk towards older commits; HasNextPage is false once the root commit
// is part of the page.
type HistoryPage struct {
	Commits     []Commit
	EndCursor   string
	HasNextPage bool
}
