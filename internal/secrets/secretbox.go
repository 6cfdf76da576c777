package secrets

import (
	"bytes"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"

	"golang.org/x/crypto/nacl/secretbox"
	"golang.org/x/crypto/scrypt"

	kerrors "github.com/PolarWolf314/envgate/internal/errors"
)

const (
	secretboxPrefix    = "envgate:secretbox:"
	secretboxSaltSize  = 16
	secretboxNonceSize = 24

	scryptN = 1 << 15
	scryptR = 8
	scryptP = 1
)

// SecretboxCipher derives a key with scrypt and seals with NaCl secretbox.
type SecretboxCipher struct{}

func (SecretboxCipher) Format() Format { return FormatSecretbox }

// Encrypt seals plaintext. The envelope is the text prefix followed by
// base64(salt || nonce || box).
func (SecretboxCipher) Encrypt(plaintext []byte, passphrase string) ([]byte, error) {
	if err := checkPassphrase(passphrase, kerrors.ErrEncryptFailed); err != nil {
		return nil, err
	}

	header := make([]byte, secretboxSaltSize+secretboxNonceSize)
	if _, err := io.ReadFull(rand.Reader, header); err != nil {
		return nil, fmt.Errorf("%w: failed on ReadFull method: %v", kerrors.ErrEncryptFailed, err)
	}

	key, err := deriveSecretboxKey(passphrase, header[:secretboxSaltSize])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", kerrors.ErrEncryptFailed, err)
	}

	var nonce [secretboxNonceSize]byte
	copy(nonce[:], header[secretboxSaltSize:])

	raw := secretbox.Seal(header, plaintext, &nonce, key)

	out := make([]byte, len(secretboxPrefix)+base64.StdEncoding.EncodedLen(len(raw)))
	copy(out, secretboxPrefix)
	base64.StdEncoding.Encode(out[len(secretboxPrefix):], raw)
	return out, nil
}

// Decrypt opens an envelope produced by Encrypt.
func (SecretboxCipher) Decrypt(ciphertext []byte, passphrase string) ([]byte, error) {
	if err := checkPassphrase(passphrase, kerrors.ErrDecryptFailed); err != nil {
		return nil, err
	}

	data := bytes.TrimSpace(ciphertext)
	if !bytes.HasPrefix(data, []byte(secretboxPrefix)) {
		return nil, fmt.Errorf("%w: missing %q prefix", kerrors.ErrMalformedCiphertext, secretboxPrefix)
	}
	data = data[len(secretboxPrefix):]

	raw := make([]byte, base64.StdEncoding.DecodedLen(len(data)))
	n, err := base64.StdEncoding.Decode(raw, data)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid base64: %v", kerrors.ErrMalformedCiphertext, err)
	}
	raw = raw[:n]

	header := secretboxSaltSize + secretboxNonceSize
	if len(raw) < header+secretbox.Overhead {
		return nil, fmt.Errorf("%w: envelope too short", kerrors.ErrMalformedCiphertext)
	}

	key, err := deriveSecretboxKey(passphrase, raw[:secretboxSaltSize])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", kerrors.ErrDecryptFailed, err)
	}

	var nonce [secretboxNonceSize]byte
	copy(nonce[:], raw[secretboxSaltSize:header])

	plaintext, ok := secretbox.Open(nil, raw[header:], &nonce, key)
	if !ok {
		return nil, fmt.Errorf("%w: failed to decrypt ciphertext with secretbox", kerrors.ErrDecryptFailed)
	}
	if plaintext == nil {
		plaintext = []byte{}
	}
	return plaintext, nil
}

func deriveSecretboxKey(passphrase string, salt []byte) (*[32]byte, error) {
	derived, err := scrypt.Key([]byte(passphrase), salt, scryptN, scryptR, scryptP, 32)
	if err != nil {
		return nil, err
	}
	var key [32]byte
	copy(key[:], derived)
	return &key, nil
}
