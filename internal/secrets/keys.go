package secrets

import (
	"fmt"
	"strings"

	kerrors "github.com/PolarWolf314/envgate/internal/errors"
	"github.com/PolarWolf314/envgate/internal/vcs"
)

// KeySource turns the authorized identity into cipher key material.
type KeySource interface {
	Passphrase(identity vcs.Identity) (string, error)
}

// IdentityKeySource uses the identity itself as the passphrase.
type IdentityKeySource struct{}

func (IdentityKeySource) Passphrase(identity vcs.Identity) (string, error) {
	if strings.TrimSpace(identity.String()) == "" {
		return "", fmt.Errorf("%w: cannot derive passphrase from an empty identity", kerrors.ErrNoIdentityConfigured)
	}
	return identity.String(), nil
}
