// Package configs manages envgate configuration.
//
// Configuration lives in a TOML file at the repository root,
// .envgate.toml. Every key is optional; a missing file means defaults:
//
//	[files]
//	plaintext = ".env"
//	encrypted = ".env.encrypted"
//	decrypted = ".env.decrypted"
//
//	[cipher]
//	format = "openssl"        # or "secretbox"
//
//	[git]
//	remote = "origin"
//	identity_key = "user.name"
//
//	[github]
//	token_env = "GITHUB_TOKEN"
//	api_base_url = "https://api.github.com/"
//
//	[audit]
//	path = ""                 # empty disables the audit log
//
// # Settings
//
// Settings carries the process state the rest of envgate needs: the
// working directory, the repository root and an environment lookup
// function. The CLI builds it once from os.Getwd and os.LookupEnv; nothing
// below the CLI reads ambient process state.
package configs
