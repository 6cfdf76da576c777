package secrets

import (
	"bytes"
	"fmt"
	"strings"

	kerrors "github.com/PolarWolf314/envgate/internal/errors"
)

// Format names a ciphertext envelope.
type Format string

const (
	FormatOpenSSL   Format = "openssl"
	FormatSecretbox Format = "secretbox"
)

// DefaultFormat is used when no format is configured.
const DefaultFormat = FormatOpenSSL

// Cipher encrypts and decrypts payloads with a passphrase.
type Cipher interface {
	Encrypt(plaintext []byte, passphrase string) ([]byte, error)
	Decrypt(ciphertext []byte, passphrase string) ([]byte, error)
	Format() Format
}

// ParseFormat validates a format name. Empty means DefaultFormat.
func ParseFormat(name string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(name))) {
	case "":
		return DefaultFormat, nil
	case FormatOpenSSL:
		return FormatOpenSSL, nil
	case FormatSecretbox:
		return FormatSecretbox, nil
	default:
		return "", fmt.Errorf("%w: %q", kerrors.ErrUnknownFormat, name)
	}
}

// NewCipher returns the Cipher for format.
func NewCipher(format Format) (Cipher, error) {
	switch format {
	case FormatOpenSSL:
		return OpenSSLCipher{}, nil
	case FormatSecretbox:
		return SecretboxCipher{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", kerrors.ErrUnknownFormat, format)
	}
}

// DetectFormat inspects an envelope and reports which format produced it.
func DetectFormat(ciphertext []byte) (Format, error) {
	data := bytes.TrimSpace(ciphertext)
	switch {
	case bytes.HasPrefix(data, []byte(secretboxPrefix)):
		return FormatSecretbox, nil
	case bytes.HasPrefix(data, []byte(opensslBase64Magic)):
		return FormatOpenSSL, nil
	default:
		return "", fmt.Errorf("%w: unrecognised envelope", kerrors.ErrMalformedCiphertext)
	}
}

func checkPassphrase(passphrase string, sentinel error) error {
	if passphrase == "" {
		return fmt.Errorf("%w: empty passphrase", sentinel)
	}
	return nil
}
