// Package workflows implements envgate's authorize-then-transform operations.
//
// The cmd/ package is a thin layer that parses flags, builds Deps and
// formats results. Workflows do everything else:
//
//  1. Resolve the repository coordinates and the caller's identity.
//  2. Ask GitHub whether that identity is a collaborator.
//  3. Only then derive the passphrase, read the source file, run the
//     cipher and atomically write the destination.
//
// The same identity is used for the collaborator check and the
// passphrase. A failed check returns before any file is opened.
//
// # Error Handling
//
// Workflows return errors from internal/errors, wrapped with context. Use
// errors.Is to branch on them:
//
//	result, err := workflows.Decrypt(ctx, deps, opts)
//	if errors.Is(err, kerrors.ErrNotCollaborator) {
//	    // Show user-friendly message
//	}
//
// # Context Usage
//
// All workflow functions accept a context.Context as their first parameter.
// It bounds the git invocations and the GitHub API call.
package workflows
