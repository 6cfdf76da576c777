package workflows

import (
	"context"
	"fmt"

	kerrors "github.com/PolarWolf314/envgate/internal/errors"
	"github.com/PolarWolf314/envgate/internal/secrets"
	"github.com/PolarWolf314/envgate/internal/vcs"
)

// StatusOptions configures the status workflow.
type StatusOptions struct {
	// Files are checked for existence, in order.
	Files []string

	// SkipAuthorization leaves Authorized unset and makes no network call.
	SkipAuthorization bool
}

// FileStatus describes one configured file.
type FileStatus struct {
	Path   string
	Exists bool

	// Format is the detected envelope format, empty for plaintext or
	// missing files.
	Format secrets.Format
}

// StatusResult reports what envgate would see if an operation ran now.
// Each lookup is independent, so one failure does not hide the others.
type StatusResult struct {
	Repository    vcs.Repository
	RepositoryErr error

	Identity    vcs.Identity
	IdentityErr error

	// TokenPresent is false when Deps carried no Authorizer.
	TokenPresent bool

	// Authorized is nil when the check was not made.
	Authorized *bool
	AuthErr    error

	Files []FileStatus
}

// Status resolves the repository, identity and collaborator flag without
// touching any file. Not being a collaborator is reported in the result,
// not returned as an error.
func Status(ctx context.Context, deps Deps, opts StatusOptions) (*StatusResult, error) {
	if deps.Resolver == nil {
		return nil, fmt.Errorf("%w: no repository resolver configured", kerrors.ErrConfiguration)
	}

	result := &StatusResult{TokenPresent: deps.Authorizer != nil}

	result.Repository, result.RepositoryErr = deps.Resolver.ResolveRepository(ctx)
	result.Identity, result.IdentityErr = deps.Resolver.ResolveIdentity(ctx)

	if !opts.SkipAuthorization && result.TokenPresent && result.RepositoryErr == nil && result.IdentityErr == nil {
		deps.Logger.Infof("Checking collaborator access for %s on %s", result.Identity, result.Repository)
		ok, err := deps.Authorizer.IsCollaborator(ctx, result.Repository, result.Identity.String())
		if err != nil {
			result.AuthErr = err
		} else {
			result.Authorized = &ok
		}
	}

	for _, path := range opts.Files {
		result.Files = append(result.Files, fileStatus(path))
	}

	return result, nil
}

func fileStatus(path string) FileStatus {
	status := FileStatus{Path: path, Exists: secrets.FileExists(path)}
	if !status.Exists {
		return status
	}
	data, err := secrets.ReadPayload(path)
	if err != nil {
		return status
	}
	if format, err := secrets.DetectFormat(data); err == nil {
		status.Format = format
	}
	return status
}
