// Package vcs resolves the repository coordinates and the caller's identity
// from local git configuration.
//
// All lookups go through the git binary (`git config --get <key>`) so the
// answer matches what git itself would report, including includes and
// conditional config. The Runner interface lets tests substitute a fake.
//
// A single identity source is used for both the collaborator check and the
// encryption passphrase. By default that is `user.name`; the key is
// configurable (for example `github.user`) but it is always one key.
package vcs
