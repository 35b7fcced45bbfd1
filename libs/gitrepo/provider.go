package gitrepo

import (
	"fmt"

	"github.com/go-git/go-git/v5/plumbing/transport"
)

// Provider describes a git hosting service that repositories can be tracked on.
type Provider interface {
	// Name returns the provider name (e.g., "github")
	Name() string

	// RepoURL builds the smart-HTTP remote URL of owner/name
	RepoURL(owner, name string) string

	// ParseURL extracts owner and repository name from a URL
	ParseURL(url string) (owner, name string)

	// ValidateURL checks if the URL points at a repository of this provider
	ValidateURL(url string) error

	// Auth returns the credentials for remote operations (nil if anonymous)
	Auth() transport.AuthMethod

	// MatchesURL returns true if the URL belongs to this provider
	MatchesURL(url string) bool
}

// Registry holds registered providers and allows auto-detection
type Registry struct {
	providers []Provider
}

func NewRegistry(providers ...Provider) *Registry {
	return &Registry{providers: providers}
}

// Register adds a provider to the registry
func (r *Registry) Register(p Provider) {
	r.providers = append(r.providers, p)
}

// Detect finds the appropriate provider for a given URL
func (r *Registry) Detect(url string) Provider {
	for _, p := range r.providers {
		if p.MatchesURL(url) {
			return p
		}
	}
	return nil
}

// Get returns a provider by name
func (r *Registry) Get(name string) Provider {
	for _, p := range r.providers {
		if p.Name() == name {
			return p
		}
	}
	return nil
}

// ParseRepoURL resolves url against the registered providers and returns
// the owner and repository name it designates.
func (r *Registry) ParseRepoURL(url string) (owner, name string, err error) {
	p := r.Detect(url)
	if p == nil {
		return "", "", fmt.Errorf("%w: %s", ErrUnsupportedProvider, url)
	}
	if err := p.ValidateURL(url); err != nil {
		return "", "", err
	}
	owner, name = p.ParseURL(url)
	return owner, name, nil
}

// DefaultRegistry knows the anonymous GitHub provider.
var DefaultRegistry = NewRegistry(NewGitHubProvider(""))
