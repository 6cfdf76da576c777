// Package errors provides typed error values for envgate.
//
// Every failure the tool can report belongs to one of five categories:
//
//   - Configuration errors: missing remote, identity or credential (ErrConfiguration)
//   - Authorization errors: the caller is not a collaborator (ErrAuthorization)
//   - Network errors: the GitHub API could not answer the question (ErrNetwork)
//   - Cipher errors: encryption failed or ciphertext is bad (ErrCipher)
//   - File errors: the source is missing or the destination unwritable (ErrIO)
//
// Each specific sentinel wraps its category, so both of these hold:
//
//	errors.Is(err, kerrors.ErrNotCollaborator)
//	errors.Is(err, kerrors.ErrAuthorization)
//
// # Usage
//
// Wrap errors with additional context:
//
//	return fmt.Errorf("reading %s: %w", path, errors.ErrFileNotFound)
//
// Handle errors in the CLI layer:
//
//	result, err := workflows.Encrypt(ctx, deps, opts)
//	if errors.Is(err, kerrors.ErrNotCollaborator) {
//	    // Show user-friendly message
//	}
//
// A network failure is never reported as ErrNotCollaborator. Callers that
// need a yes/no answer must treat any ErrNetwork as "unknown".
package errors
