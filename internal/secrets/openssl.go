package secrets

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/md5" // #nosec G501 -- EVP_BytesToKey compatibility requires MD5.
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"
	"unicode/utf8"

	kerrors "github.com/PolarWolf314/envgate/internal/errors"
)

const (
	opensslMagic = "Salted__"
	// base64("Salted__") without the character that depends on the salt.
	opensslBase64Magic = "U2FsdGVkX1"
	opensslSaltSize    = 8
	opensslKeySize     = 32
)

// OpenSSLCipher implements the OpenSSL "Salted__" envelope as produced by
// `openssl enc -aes-256-cbc -md md5` and CryptoJS.AES with a passphrase.
// Payloads must be UTF-8 text.
type OpenSSLCipher struct{}

func (OpenSSLCipher) Format() Format { return FormatOpenSSL }

// Encrypt returns the base64 envelope for plaintext.
func (OpenSSLCipher) Encrypt(plaintext []byte, passphrase string) ([]byte, error) {
	if err := checkPassphrase(passphrase, kerrors.ErrEncryptFailed); err != nil {
		return nil, err
	}
	if !utf8.Valid(plaintext) {
		return nil, fmt.Errorf("%w: plaintext is not valid UTF-8", kerrors.ErrEncryptFailed)
	}

	salt := make([]byte, opensslSaltSize)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, fmt.Errorf("%w: generating salt: %v", kerrors.ErrEncryptFailed, err)
	}

	key, iv := bytesToKey([]byte(passphrase), salt, opensslKeySize, aes.BlockSize)
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", kerrors.ErrEncryptFailed, err)
	}

	padded := pkcs7Pad(plaintext, aes.BlockSize)
	raw := make([]byte, len(opensslMagic)+opensslSaltSize+len(padded))
	copy(raw, opensslMagic)
	copy(raw[len(opensslMagic):], salt)
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(raw[len(opensslMagic)+opensslSaltSize:], padded)

	out := make([]byte, base64.StdEncoding.EncodedLen(len(raw)))
	base64.StdEncoding.Encode(out, raw)
	return out, nil
}

// Decrypt opens a base64 envelope. A wrong passphrase is detected through
// the padding and UTF-8 checks and reported as ErrDecryptFailed.
func (OpenSSLCipher) Decrypt(ciphertext []byte, passphrase string) ([]byte, error) {
	if err := checkPassphrase(passphrase, kerrors.ErrDecryptFailed); err != nil {
		return nil, err
	}

	data := bytes.TrimSpace(ciphertext)
	raw := make([]byte, base64.StdEncoding.DecodedLen(len(data)))
	n, err := base64.StdEncoding.Decode(raw, data)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid base64: %v", kerrors.ErrMalformedCiphertext, err)
	}
	raw = raw[:n]

	header := len(opensslMagic) + opensslSaltSize
	if len(raw) < header || !bytes.HasPrefix(raw, []byte(opensslMagic)) {
		return nil, fmt.Errorf("%w: missing %q header", kerrors.ErrMalformedCiphertext, opensslMagic)
	}
	body := raw[header:]
	if len(body) == 0 || len(body)%aes.BlockSize != 0 {
		return nil, fmt.Errorf("%w: ciphertext is not a whole number of blocks", kerrors.ErrMalformedCiphertext)
	}

	key, iv := bytesToKey([]byte(passphrase), raw[len(opensslMagic):header], opensslKeySize, aes.BlockSize)
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", kerrors.ErrDecryptFailed, err)
	}

	plain := make([]byte, len(body))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(plain, body)

	plain, err = pkcs7Unpad(plain, aes.BlockSize)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", kerrors.ErrDecryptFailed, err)
	}
	if !utf8.Valid(plain) {
		return nil, fmt.Errorf("%w: decrypted data is not valid UTF-8", kerrors.ErrDecryptFailed)
	}
	return plain, nil
}

// bytesToKey is OpenSSL's EVP_BytesToKey with MD5 and one iteration.
func bytesToKey(passphrase, salt []byte, keyLen, ivLen int) ([]byte, []byte) {
	var derived, prev []byte
	for len(derived) < keyLen+ivLen {
		h := md5.New() // #nosec G401
		h.Write(prev)
		h.Write(passphrase)
		h.Write(salt)
		prev = h.Sum(nil)
		derived = append(derived, prev...)
	}
	return derived[:keyLen], derived[keyLen : keyLen+ivLen]
}

func pkcs7Pad(data []byte, blockSize int) []byte {
	padLen := blockSize - len(data)%blockSize
	out := make([]byte, len(data)+padLen)
	copy(out, data)
	for i := len(data); i < len(out); i++ {
		out[i] = byte(padLen)
	}
	return out
}

func pkcs7Unpad(data []byte, blockSize int) ([]byte, error) {
	if len(data) == 0 || len(data)%blockSize != 0 {
		return nil, fmt.Errorf("invalid padded length %d", len(data))
	}
	padLen := int(data[len(data)-1])
	if padLen == 0 || padLen > blockSize {
		return nil, fmt.Errorf("invalid padding")
	}
	for _, b := range data[len(data)-padLen:] {
		if int(b) != padLen {
			return nil, fmt.Errorf("invalid padding")
		}
	}
	return data[:len(data)-padLen], nil
}
