// Package ui provides semantic text formatting for envgate's console output.
//
// Formatters colourise text when the terminal supports it. When NO_COLOR is
// set or colour is unavailable, Code falls back to `backticks` and
// Highlight to 'single quotes'; the rest print plain text.
//
//	ui.Code.Sprint("envgate encrypt")   // commands
//	ui.Path.Sprint(".env.encrypted")    // file paths
//	ui.Highlight.Sprint("acme/widget")  // repositories and identities
//
// Done, Failed and Hint build the one-line status messages every command
// ends with.
package ui
