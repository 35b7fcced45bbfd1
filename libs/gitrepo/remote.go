package gitrepo

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-git/go-git/v5"
	gitconfig "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/go-git/go-git/v5/storage/memory"
)

var (
	ErrBranchNotFound      = errors.New("branch not found")
	ErrRepoNotFound        = errors.New("remote repository not found")
	ErrUnsupportedProvider = errors.New("unsupported git provider")
)

// Lister lists the references advertised by a remote. ListRemote satisfies
// it through ListerFunc; tests replace it.
type Lister interface {
	List(ctx context.Context, url string, auth transport.AuthMethod) ([]*plumbing.Reference, error)
}

type ListerFunc func(ctx context.Context, url string, auth transport.AuthMethod) ([]*plumbing.Reference, error)

func (f ListerFunc) List(ctx context.Context, url string, auth transport.AuthMethod) ([]*plumbing.Reference, error) {
	return f(ctx, url, auth)
}

// ListRemote runs the equivalent of `git ls-remote url` without a local
// clone.
func ListRemote(ctx context.Context, url string, auth transport.AuthMethod) ([]*plumbing.Reference, error) {
	remote := git.NewRemote(memory.NewStorage(), &gitconfig.RemoteConfig{
		Name: "origin",
		URLs: []string{url},
	})

	refs, err := remote.ListContext(ctx, &git.ListOptions{Auth: auth})
	if err != nil {
		if errors.Is(err, transport.ErrRepositoryNotFound) || errors.Is(err, transport.ErrAuthenticationRequired) {
			return nil, fmt.Errorf("%w: %s", ErrRepoNotFound, url)
		}
		return nil, fmt.Errorf("failed to list remote %s: %w", url, err)
	}
	return refs, nil
}

// Remote resolves branches of repositories hosted by one provider.
type Remote struct {
	provider Provider
	lister   Lister
}

func NewRemote(p Provider, lister Lister) *Remote {
	if lister == nil {
		lister = ListerFunc(ListRemote)
	}
	return &Remote{provider: p, lister: lister}
}

// BranchHead returns the commit hash refs/heads/<branch> points at.
func (r *Remote) BranchHead(ctx context.Context, owner, name, branch string) (string, error) {
	refs, err := r.lister.List(ctx, r.provider.RepoURL(owner, name), r.provider.Auth())
	if err != nil {
		return "", err
	}

	want := plumbing.NewBranchReferenceName(branch)
	for _, ref := range refs {
		if ref.Name() == want {
			return ref.Hash().String(), nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrBranchNotFound, branch)
}

// Branches returns the short names of every branch of owner/name.
func (r *Remote) Branches(ctx context.Context, owner, name string) ([]string, error) {
	refs, err := r.lister.List(ctx, r.provider.RepoURL(owner, name), r.provider.Auth())
	if err != nil {
		return nil, err
	}

	var branches []string
	for _, ref := range refs {
		if ref.Name().IsBranch() {
			branches = append(branches, ref.Name().Short())
		}
	}
	return branches, nil
}
