package vcs

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"regexp"
	"strings"

	kerrors "github.com/PolarWolf314/envgate/internal/errors"
)

const (
	DefaultRemote      = "origin"
	DefaultIdentityKey = "user.name"
)

// Identity names the caller. It is both the GitHub login checked for
// collaborator access and the source of the encryption passphrase.
type Identity string

func (i Identity) String() string { return string(i) }

// Validate reports ErrInvalidIdentity unless i is a well-formed GitHub login.
func (i Identity) Validate() error {
	if !loginPattern.MatchString(string(i)) {
		return fmt.Errorf("%w: %q", kerrors.ErrInvalidIdentity, string(i))
	}
	return nil
}

// Repository holds the GitHub coordinates of a repository.
type Repository struct {
	Owner string
	Name  string
}

func (r Repository) String() string {
	return r.Owner + "/" + r.Name
}

// Validate reports ErrUnparsableRemote unless both parts are usable as
// single URL path segments.
func (r Repository) Validate() error {
	if !loginPattern.MatchString(r.Owner) || !repoNamePattern.MatchString(r.Name) || r.Name == "." || r.Name == ".." {
		return fmt.Errorf("%w: %q is not a valid GitHub repository", kerrors.ErrUnparsableRemote, r.String())
	}
	return nil
}

// remotePattern matches scp-style and URL-style GitHub remotes ending in .git.
var remotePattern = regexp.MustCompile(`^(?:[a-z][a-z0-9+.-]*://)?(?:[^@/]+@)?github\.com[:/]([^/]+)/([^/]+)\.git$`)

var (
	// loginPattern is GitHub's rule for user and organisation names.
	loginPattern    = regexp.MustCompile(`^[A-Za-z0-9](?:[A-Za-z0-9-]{0,38})$`)
	repoNamePattern = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)
)

// ParseRemoteURL extracts owner and name from a GitHub remote URL.
func ParseRemoteURL(remoteURL string) (Repository, error) {
	match := remotePattern.FindStringSubmatch(strings.TrimSpace(remoteURL))
	if match == nil {
		return Repository{}, fmt.Errorf("%w: %q", kerrors.ErrUnparsableRemote, remoteURL)
	}
	repo := Repository{Owner: match[1], Name: match[2]}
	if err := repo.Validate(); err != nil {
		return Repository{}, err
	}
	return repo, nil
}

// Resolver reads repository coordinates and identity from git configuration.
type Resolver struct {
	// Dir is the directory git runs in.
	Dir string

	// Remote is the remote whose URL names the repository.
	Remote string

	// IdentityKey is the git config key holding the caller's GitHub login.
	IdentityKey string

	Runner Runner
}

// NewResolver returns a Resolver for dir using the git executable and default keys.
func NewResolver(dir string) *Resolver {
	return &Resolver{
		Dir:         dir,
		Remote:      DefaultRemote,
		IdentityKey: DefaultIdentityKey,
		Runner:      ExecRunner{},
	}
}

// ResolveRepository returns the GitHub coordinates of the configured remote.
//
// Returns ErrNotAGitRepo when Dir is not inside a work tree, ErrNoRemote when
// the remote has no URL and ErrUnparsableRemote when the URL is not GitHub's.
func (r *Resolver) ResolveRepository(ctx context.Context) (Repository, error) {
	if err := r.ensureRepo(ctx); err != nil {
		return Repository{}, err
	}

	key := "remote." + r.remote() + ".url"
	remoteURL, err := r.configValue(ctx, key)
	if err != nil {
		return Repository{}, err
	}
	if remoteURL == "" {
		return Repository{}, fmt.Errorf("%w: %s is not set", kerrors.ErrNoRemote, key)
	}

	return ParseRemoteURL(remoteURL)
}

// ResolveIdentity returns the configured identity.
// Returns ErrNoIdentityConfigured when the key is unset or blank and
// ErrInvalidIdentity when the value is not a GitHub login.
func (r *Resolver) ResolveIdentity(ctx context.Context) (Identity, error) {
	key := r.identityKey()
	value, err := r.configValue(ctx, key)
	if err != nil {
		return "", err
	}
	if value == "" {
		return "", fmt.Errorf("%w: %s is not set", kerrors.ErrNoIdentityConfigured, key)
	}
	identity := Identity(value)
	if err := identity.Validate(); err != nil {
		return "", fmt.Errorf("%s: %w", key, err)
	}
	return identity, nil
}

func (r *Resolver) ensureRepo(ctx context.Context) error {
	out, err := r.runner().Run(ctx, r.Dir, "rev-parse", "--is-inside-work-tree")
	if err != nil {
		if exitCode(err) >= 0 {
			return fmt.Errorf("%w: %s", kerrors.ErrNotAGitRepo, r.Dir)
		}
		return gitUnavailable(err)
	}
	if out != "true" {
		return fmt.Errorf("%w: %s", kerrors.ErrNotAGitRepo, r.Dir)
	}
	return nil
}

// configValue returns the value of key, or "" when git reports it unset.
func (r *Resolver) configValue(ctx context.Context, key string) (string, error) {
	out, err := r.runner().Run(ctx, r.Dir, "config", "--get", key)
	if err != nil {
		// git config --get exits 1 when the key is not set.
		if exitCode(err) == 1 {
			return "", nil
		}
		if exitCode(err) >= 0 {
			return "", fmt.Errorf("%w: reading %s: %v", kerrors.ErrConfiguration, key, err)
		}
		return "", gitUnavailable(err)
	}
	return strings.TrimSpace(out), nil
}

func (r *Resolver) runner() Runner {
	if r.Runner == nil {
		return ExecRunner{}
	}
	return r.Runner
}

func (r *Resolver) remote() string {
	if r.Remote == "" {
		return DefaultRemote
	}
	return r.Remote
}

func (r *Resolver) identityKey() string {
	if r.IdentityKey == "" {
		return DefaultIdentityKey
	}
	return r.IdentityKey
}

func gitUnavailable(err error) error {
	if errors.Is(err, exec.ErrNotFound) {
		return fmt.Errorf("%w: git executable not found", kerrors.ErrConfiguration)
	}
	return fmt.Errorf("%w: running git: %v", kerrors.ErrConfiguration, err)
}
