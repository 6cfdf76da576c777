package workflows

import (
	"context"
	"fmt"

	"github.com/PolarWolf314/envgate/internal/audit"
	kerrors "github.com/PolarWolf314/envgate/internal/errors"
	"github.com/PolarWolf314/envgate/internal/github"
	logger "github.com/PolarWolf314/envgate/internal/logging"
	"github.com/PolarWolf314/envgate/internal/secrets"
	"github.com/PolarWolf314/envgate/internal/vcs"
)

// Resolver supplies the repository coordinates and the caller's identity.
type Resolver interface {
	ResolveRepository(ctx context.Context) (vcs.Repository, error)
	ResolveIdentity(ctx context.Context) (vcs.Identity, error)
}

// Compile-time interface satisfaction check.
var _ Resolver = (*vcs.Resolver)(nil)

// Deps are the collaborators a workflow runs against.
type Deps struct {
	Resolver Resolver

	// Authorizer is nil when no GitHub credential is available.
	Authorizer github.Authorizer

	// Cipher encrypts. Decrypt picks a cipher from the envelope and uses
	// this one when the formats match.
	Cipher secrets.Cipher

	// Keys defaults to secrets.IdentityKeySource.
	Keys secrets.KeySource

	// Audit may be nil.
	Audit *audit.Log

	Logger logger.Logger
}

// Grant is the outcome of a successful authorization. It is valid for the
// single operation that obtained it.
type Grant struct {
	Repository vcs.Repository
	Identity   vcs.Identity
}

// Authorize resolves the caller and confirms collaborator access.
//
// Returns ErrMissingToken before any lookup when there is no Authorizer.
// Returns ErrNotCollaborator when GitHub answers 404. Network failures are
// returned as they are and never turned into ErrNotCollaborator.
func Authorize(ctx context.Context, deps Deps) (*Grant, error) {
	if deps.Authorizer == nil {
		return nil, kerrors.ErrMissingToken
	}
	if deps.Resolver == nil {
		return nil, fmt.Errorf("%w: no repository resolver configured", kerrors.ErrConfiguration)
	}

	repo, err := deps.Resolver.ResolveRepository(ctx)
	if err != nil {
		return nil, fmt.Errorf("resolving repository: %w", err)
	}
	deps.Logger.Debugf("Repository: %s", repo)

	identity, err := deps.Resolver.ResolveIdentity(ctx)
	if err != nil {
		return nil, fmt.Errorf("resolving identity: %w", err)
	}
	deps.Logger.Debugf("Identity: %s", identity)

	deps.Logger.Infof("Checking collaborator access for %s on %s", identity, repo)
	ok, err := deps.Authorizer.IsCollaborator(ctx, repo, identity.String())
	if err != nil {
		return nil, fmt.Errorf("checking collaborator access for %s on %s: %w", identity, repo, err)
	}
	if !ok {
		return nil, fmt.Errorf("%w (%s on %s)", kerrors.ErrNotCollaborator, identity, repo)
	}

	return &Grant{Repository: repo, Identity: identity}, nil
}

func (d Deps) keys() secrets.KeySource {
	if d.Keys == nil {
		return secrets.IdentityKeySource{}
	}
	return d.Keys
}

func (d Deps) cipher() secrets.Cipher {
	if d.Cipher == nil {
		return secrets.OpenSSLCipher{}
	}
	return d.Cipher
}

// passphrase derives key material for the granted identity.
func (d Deps) passphrase(grant *Grant) (string, error) {
	pass, err := d.keys().Passphrase(grant.Identity)
	if err != nil {
		return "", fmt.Errorf("deriving passphrase: %w", err)
	}
	return pass, nil
}

// record writes an audit entry; failures are logged and otherwise ignored.
func (d Deps) record(entry audit.Entry) {
	if !d.Audit.Enabled() {
		return
	}
	if err := d.Audit.Record(entry); err != nil {
		d.Logger.WarnfAlways("Failed to write audit log %s: %v", d.Audit.Path, err)
	}
}

func checkPaths(source, destination string) error {
	if source == "" || destination == "" {
		return fmt.Errorf("%w: source and destination paths are required", kerrors.ErrConfiguration)
	}
	if source == destination {
		return fmt.Errorf("%w: source and destination must be different files (%s)", kerrors.ErrConfiguration, source)
	}
	return nil
}
