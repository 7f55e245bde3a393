// Package githost abstracts the branch, tree, and commit primitives the
// publish transaction needs from a git hosting service. The GitHub REST
// implementation lives in the github subpackage; the local subpackage drives
// an on-disk repository for offline publishes and tests.
package githost

import (
	"context"
	"errors"
	"fmt"
	"regexp"
)

//go:generate mockgen -destination=mocks/mock_host.go -package=mocks -source=types.go Host

// Sentinel errors shared by Host implementations.
var (
	// ErrBranchNotFound is returned when a branch does not exist.
	ErrBranchNotFound = errors.New("branch not found")
	// ErrUnauthorized is returned when the host rejects the credentials.
	ErrUnauthorized = errors.New("authentication failed")
)

var repositoryPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9-]*/[A-Za-z0-9._-]+$`)

// Repository identifies a repository by owner and name.
type Repository struct {
	Owner string
	Name  string
}

// ParseRepository parses an "owner/name" string.
func ParseRepository(s string) (Repository, error) {
	if !repositoryPattern.MatchString(s) {
		return Repository{}, fmt.Errorf("invalid repository %q: expected the form owner/name", s)
	}
	var repo Repository
	for i := range s {
		if s[i] == '/' {
			repo.Owner = s[:i]
			repo.Name = s[i+1:]
			break
		}
	}
	return repo, nil
}

// String returns the owner/name form.
func (r Repository) String() string {
	return r.Owner + "/" + r.Name
}

// RepositoryInfo carries the repository attributes publish cares about.
type RepositoryInfo struct {
	DefaultBranch string
}

// Host exposes the git-data operations a publish is composed of. Tree
// contents are passed as path-to-content maps; nested paths use forward
// slashes.
type Host interface {
	// GetRepository fetches repository attributes, failing fast on missing
	// repositories or rejected credentials.
	GetRepository(ctx context.Context, repo Repository) (RepositoryInfo, error)
	// BranchExists reports whether the branch exists.
	BranchExists(ctx context.Context, repo Repository, branch string) (bool, error)
	// CreateEmptyBranch creates the branch from scratch with a single
	// seed commit that contains only a README.
	CreateEmptyBranch(ctx context.Context, repo Repository, branch string) error
	// GetBranchTipCommitSha returns the commit sha the branch points at.
	GetBranchTipCommitSha(ctx context.Context, repo Repository, branch string) (string, error)
	// GetTreeShaOfCommit returns the tree sha of a commit.
	GetTreeShaOfCommit(ctx context.Context, repo Repository, commitSha string) (string, error)
	// CreateTree writes a new tree containing the given blobs on top of
	// baseTreeSha. An empty baseTreeSha creates the tree without a base.
	CreateTree(ctx context.Context, repo Repository, baseTreeSha string, contents map[string]string) (string, error)
	// CreateCommit creates a commit pointing at treeSha. An empty
	// parentSha creates a root commit.
	CreateCommit(ctx context.Context, repo Repository, parentSha, treeSha, message string) (string, error)
	// UpdateRef points the branch at commitSha, unconditionally.
	UpdateRef(ctx context.Context, repo Repository, branch, commitSha string) error
	// PagesBranch returns the branch the repository serves its pages
	// site from, or the conventional default when none is configured.
	PagesBranch(ctx context.Context, repo Repository) (string, error)
}

// DefaultPagesBranch is the branch GitHub Pages conventionally serves from
// when the repository has no explicit pages configuration.
const DefaultPagesBranch = "gh-pages"

// InitialCommitMessage seeds a freshly created branch.
const InitialCommitMessage = "Initial commit"

// InitialReadme is the README content seeded into a freshly created
// registry branch.
const InitialReadme = `
# GA4GH Tool Registry Service (TRS) API generated by Yevis

Please see:

- [GitHub - sapporo-wes/yevis-cli](https://github.com/sapporo-wes/yevis-cli)
- [GA4GH - Tool Registry Service API](https://www.ga4gh.org/news/tool-registry-service-api-enabling-an-interoperable-library-of-genomics-analysis-tools/)
- [GitHub - ga4gh/tool-registry-service-schemas](https://github.com/ga4gh/tool-registry-service-schemas)
`
