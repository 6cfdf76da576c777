// Package secrets provides the passphrase-keyed file cipher for envgate.
//
// # Cipher Formats
//
// Two envelope formats are supported:
//
//   - openssl (default): the OpenSSL / CryptoJS "Salted__" format.
//     AES-256-CBC with PKCS#7 padding; key and IV come from EVP_BytesToKey
//     with MD5 and a single iteration over an 8-byte random salt. The
//     envelope is base64 text. This is the format CryptoJS.AES.encrypt
//     produces for a string passphrase, so existing encrypted files remain
//     readable.
//   - secretbox: scrypt (N=32768, r=8, p=1) over a 16-byte random salt,
//     then NaCl secretbox with a random 24-byte nonce. Authenticated.
//
// Both formats salt every call, so encrypting the same file twice produces
// different output.
//
// # Key Material
//
// The passphrase comes from a KeySource. IdentityKeySource returns the
// caller's git identity unchanged. A username is predictable and often
// public; it is weak key material and the openssl format's single MD5
// iteration does nothing to strengthen it. KeySource is the seam for
// replacing it with a real secret.
//
// # File Operations
//
// WritePayload replaces its destination atomically (temp file in the same
// directory, fsync, rename). A failed transform never reaches it, so a
// failed decrypt leaves no partial plaintext on disk.
package secrets
