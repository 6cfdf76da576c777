// Package audit provides an optional trail of envgate operations.
//
// When [audit] path is set in .envgate.toml, every successful encrypt or
// decrypt appends one entry recording who ran it, against which repository
// and on which files. Dry runs and failed operations are not recorded.
//
// # Log Format
//
// JSON Lines, one object per line:
//
//	{"id":"…","ts":"2026-01-02T15:04:05.000000Z","op":"encrypt","user":"octocat","repo":"acme/widget","source":".env","destination":".env.encrypted","format":"openssl"}
//
// # Failure Handling
//
// Recording is best-effort. Callers log a warning when Record fails and
// carry on; an operation never fails because the audit log could not be
// written.
//
// Malformed lines are skipped by ReadEntries to tolerate partial writes.
package audit
