package workflows

import (
	"context"
	"fmt"

	"github.com/PolarWolf314/envgate/internal/audit"
	"github.com/PolarWolf314/envgate/internal/secrets"
	"github.com/PolarWolf314/envgate/internal/vcs"
)

// DecryptOptions configures the decrypt workflow.
type DecryptOptions struct {
	// Source is the encrypted file.
	Source string

	// Destination receives the plaintext.
	Destination string

	// DryRun authorizes and decrypts in memory but writes nothing.
	DryRun bool
}

// DecryptResult contains the outcome of a decrypt operation.
type DecryptResult struct {
	Source      string
	Destination string
	Repository  vcs.Repository
	Identity    vcs.Identity

	// Format is the envelope format detected in Source.
	Format secrets.Format

	// Bytes is the size of the plaintext.
	Bytes int

	// DestinationExisted reports whether Destination was (or would be) replaced.
	DestinationExisted bool

	DryRun bool
}

// Decrypt authorizes the caller, then decrypts Source into Destination.
//
// The cipher is chosen from the envelope, so files written with either
// format decrypt regardless of the configured one. A wrong passphrase or a
// malformed file returns a cipher error and Destination is not created or
// modified.
func Decrypt(ctx context.Context, deps Deps, opts DecryptOptions) (*DecryptResult, error) {
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
	ciphertext, err := secrets.ReadPayload(opts.Source)
	if err != nil {
		return nil, err
	}

	cipher, err := deps.decrypter(ciphertext)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", opts.Source, err)
	}

	deps.Logger.Infof("Decrypting %s with the %s cipher", opts.Source, cipher.Format())
	plaintext, err := cipher.Decrypt(ciphertext, passphrase)
	if err != nil {
		return nil, fmt.Errorf("decrypting %s: %w", opts.Source, err)
	}

	result := &DecryptResult{
		Source:             opts.Source,
		Destination:        opts.Destination,
		Repository:         grant.Repository,
		Identity:           grant.Identity,
		Format:             cipher.Format(),
		Bytes:              len(plaintext),
		DestinationExisted: secrets.FileExists(opts.Destination),
		DryRun:             opts.DryRun,
	}

	if opts.DryRun {
		deps.Logger.Infof("Dry run: not writing %s", opts.Destination)
		return result, nil
	}

	if err := secrets.WritePayload(opts.Destination, plaintext); err != nil {
		return nil, err
	}

	deps.record(audit.Entry{
		Operation:   "decrypt",
		User:        grant.Identity.String(),
		Repository:  grant.Repository.String(),
		Source:      opts.Source,
		Destination: opts.Destination,
		Format:      string(result.Format),
	})

	return result, nil
}

// decrypter picks the cipher matching the envelope, preferring the injected one.
func (d Deps) decrypter(ciphertext []byte) (secrets.Cipher, error) {
	format, err := secrets.DetectFormat(ciphertext)
	if err != nil {
		return nil, err
	}
	if d.Cipher != nil && d.Cipher.Format() == format {
		return d.Cipher, nil
	}
	return secrets.NewCipher(format)
}
