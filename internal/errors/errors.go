package errors

import (
	"errors"
	"fmt"
)

// Categories. Every sentinel below wraps exactly one of these.
var (
	// ErrConfiguration indicates required local configuration is missing or invalid.
	ErrConfiguration = errors.New("configuration error")

	// ErrAuthorization indicates the caller was confirmed not to have access.
	ErrAuthorization = errors.New("authorization error")

	// ErrNetwork indicates the authorization service could not give an answer.
	ErrNetwork = errors.New("network error")

	// ErrCipher indicates an encryption or decryption failure.
	ErrCipher = errors.New("cipher error")

	// ErrIO indicates a file could not be read or written.
	ErrIO = errors.New("io error")
)

// Configuration errors.
var (
	// ErrNotAGitRepo indicates the working directory is not inside a git repository.
	ErrNotAGitRepo = fmt.Errorf("%w: not a git repository", ErrConfiguration)

	// ErrNoRemote indicates the configured git remote has no URL.
	ErrNoRemote = fmt.Errorf("%w: git remote is not configured", ErrConfiguration)

	// ErrUnparsableRemote indicates the remote URL is not a GitHub repository URL.
	ErrUnparsableRemote = fmt.Errorf("%w: unable to parse GitHub repository from remote URL", ErrConfiguration)

	// ErrNoIdentityConfigured indicates git has no user name configured.
	ErrNoIdentityConfigured = fmt.Errorf("%w: no git identity configured", ErrConfiguration)

	// ErrInvalidIdentity indicates the identity is not a valid GitHub login.
	ErrInvalidIdentity = fmt.Errorf("%w: git identity is not a valid GitHub username", ErrConfiguration)

	// ErrMissingToken indicates the GitHub credential was not supplied.
	ErrMissingToken = fmt.Errorf("%w: GitHub token not found", ErrConfiguration)

	// ErrInvalidConfig indicates the envgate config file is malformed.
	ErrInvalidConfig = fmt.Errorf("%w: invalid envgate configuration", ErrConfiguration)

	// ErrConfigExists indicates an envgate config file is already present.
	ErrConfigExists = fmt.Errorf("%w: envgate configuration already exists", ErrConfiguration)

	// ErrAuditDisabled indicates no audit log path is configured.
	ErrAuditDisabled = fmt.Errorf("%w: audit log is not enabled", ErrConfiguration)

	// ErrInvalidDateFormat indicates a date filter is not YYYY-MM-DD.
	ErrInvalidDateFormat = fmt.Errorf("%w: invalid date format", ErrConfiguration)
)

// Authorization errors.
var (
	// ErrNotCollaborator indicates GitHub confirmed the user is not a collaborator.
	ErrNotCollaborator = fmt.Errorf("%w: you are not a collaborator on this project", ErrAuthorization)
)

// Network errors.
var (
	// ErrServiceUnreachable indicates the request never produced an HTTP response.
	ErrServiceUnreachable = fmt.Errorf("%w: GitHub API unreachable", ErrNetwork)

	// ErrUnexpectedStatus indicates GitHub answered with a status other than 204 or 404.
	ErrUnexpectedStatus = fmt.Errorf("%w: unexpected response from GitHub API", ErrNetwork)

	// ErrRateLimited indicates the GitHub API rate limit was exhausted.
	ErrRateLimited = fmt.Errorf("%w: GitHub API rate limit exceeded", ErrNetwork)
)

// Cipher errors.
var (
	// ErrEncryptFailed indicates the plaintext could not be encrypted.
	ErrEncryptFailed = fmt.Errorf("%w: failed to encrypt file", ErrCipher)

	// ErrDecryptFailed indicates the ciphertext did not decrypt with the passphrase.
	ErrDecryptFailed = fmt.Errorf("%w: failed to decrypt file", ErrCipher)

	// ErrMalformedCiphertext indicates the encrypted file is not a valid envelope.
	ErrMalformedCiphertext = fmt.Errorf("%w: malformed ciphertext", ErrCipher)

	// ErrUnknownFormat indicates an unsupported cipher format name.
	ErrUnknownFormat = fmt.Errorf("%w: unknown cipher format", ErrCipher)
)

// File errors.
var (
	// ErrFileNotFound indicates the source file does not exist.
	ErrFileNotFound = fmt.Errorf("%w: file not found", ErrIO)

	// ErrWriteFailed indicates the destination file could not be written.
	ErrWriteFailed = fmt.Errorf("%w: failed to write file", ErrIO)
)

// Category returns the short name of the category err belongs to.
func Category(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrConfiguration):
		return "configuration"
	case errors.Is(err, ErrAuthorization):
		return "authorization"
	case errors.Is(err, ErrNetwork):
		return "network"
	case errors.Is(err, ErrCipher):
		return "cipher"
	case errors.Is(err, ErrIO):
		return "io"
	default:
		return "unknown"
	}
}
