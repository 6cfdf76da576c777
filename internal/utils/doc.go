// Package utils provides shared helpers for envgate.
//
// # Filesystem Utilities
//
//   - FindRepoRoot: walks up from a directory to the top of the git work tree
//   - FormatPaths: formats file paths for human-readable output
//
// # Terminal Utilities
//
//   - IsTerminal: reports whether a file is attached to a terminal
package utils
