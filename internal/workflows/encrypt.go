package workflows

import (
	"context"
	"fmt"

	"github.com/PolarWolf314/envgate/internal/audit"
	"github.com/PolarWolf314/envgate/internal/secrets"
	"github.com/PolarWolf314/envgate/internal/vcs"
)

// EncryptOptions configures the encrypt workflow.
type EncryptOptions struct {
	// Source is the plaintext secrets file.
	Source string

	// Destination receives the ciphertext.
	Destination string

	// DryRun authorizes and encrypts in memory but writes nothing.
	DryRun bool
}

// EncryptResult contains the outcome of an encrypt operation.
type EncryptResult struct {
	Source      string
	Destination string
	Repository  vcs.Repository
	Identity    vcs.Identity
	Format      secrets.Format

	// Bytes is the size of the ciphertext.
	Bytes int

	// DestinationExisted reports whether Destination was (or would be) replaced.
	DestinationExisted bool

	DryRun bool
}

// Encrypt authorizes the caller, then encrypts Source into Destination.
//
// Returns ErrMissingToken, ErrNotCollaborator or any resolver or network
// error before Source is read. Returns ErrFileNotFound if Source is
// missing, a cipher error if encryption fails and ErrWriteFailed if
// Destination cannot be replaced. Destination is untouched on every error.
func Encrypt(ctx context.Context, deps Deps, opts EncryptOptions) (*EncryptResult, error) {
	if err := checkPaths(opts.Source, opts.Destination); err != nil {
		return nil, err
	}

	grant, err := Authorize(ctx, deps)
	if err != nil {
		return nil, err
	}

	passphrase, err := deps.passphrase(grant)
	if err != nil {
		return nil, err
	}

	deps.Logger.Debugf("Reading %s", opts.Source)
	plaintext, err := secrets.ReadPayload(opts.Source)
	if err != nil {
		return nil, err
	}

	cipher := deps.cipher()
	deps.Logger.Infof("Encrypting %s with the %s cipher", opts.Source, cipher.Format())
	ciphertext, err := cipher.Encrypt(plaintext, passphrase)
	if err != nil {
		return nil, fmt.Errorf("encrypting %s: %w", opts.Source, err)
	}

	result := &EncryptResult{
		Source:             opts.Source,
		Destination:        opts.Destination,
		Repository:         grant.Repository,
		Identity:           grant.Identity,
		Format:             cipher.Format(),
		Bytes:              len(ciphertext),
		DestinationExisted: secrets.FileExists(opts.Destination),
		DryRun:             opts.DryRun,
	}

	if opts.DryRun {
		deps.Logger.Infof("Dry run: not writing %s", opts.Destination)
		return result, nil
	}

	if err := secrets.WritePayload(opts.Destination, ciphertext); err != nil {
		return nil, err
	}

	deps.record(audit.Entry{
		Operation:   "encrypt",
		User:        grant.Identity.String(),
		Repository:  grant.Repository.String(),
		Source:      opts.Source,
		Destination: opts.Destination,
		Format:      string(result.Format),
	})

	return result, nil
}
