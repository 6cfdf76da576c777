package workflows

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/PolarWolf314/envgate/internal/audit"
	kerrors "github.com/PolarWolf314/envgate/internal/errors"
	"github.com/PolarWolf314/envgate/internal/secrets"
)

const envContent = "API_KEY=abc123\nDB_URL=postgres://localhost/db\n"

func TestEncryptDecrypt_RoundTrip(t *testing.T) {
	f := newFixture(t, "octocat", true)
	ctx := context.Background()
	src := f.write(t, ".env", envContent)

	enc, err := Encrypt(ctx, f.deps(), EncryptOptions{Source: src, Destination: f.path(".env.encrypted")})
	if err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}
	if enc.Format != secrets.FormatOpenSSL || enc.Identity != "octocat" || enc.DestinationExisted {
		t.Errorf("Unexpected encrypt result %+v", enc)
	}
	if !strings.HasPrefix(readFile(t, enc.Destination), "U2FsdGVkX1") {
		t.Errorf("Expected an OpenSSL envelope in %s", enc.Destination)
	}

	dec, err := Decrypt(ctx, f.deps(), DecryptOptions{Source: enc.Destination, Destination: f.path(".env.decrypted")})
	if err != nil {
		t.Fatalf("Decrypt failed: %v", err)
	}
	if got := readFile(t, dec.Destination); got != envContent {
		t.Errorf("Decrypted content = %q, want %q", got, envContent)
	}
	if dec.Bytes != len(envContent) {
		t.Errorf("Bytes = %d, want %d", dec.Bytes, len(envContent))
	}
	if f.auth.calls != 2 {
		t.Errorf("Expected one collaborator check per operation, got %d", f.auth.calls)
	}
}

func TestDecrypt_FileFromOpenSSL(t *testing.T) {
	f := newFixture(t, "octocat", true)
	src := f.write(t, ".env.encrypted", "U2FsdGVkX18BAgMEBQYHCM0rVyDKou+GKQFMb/SK/8jaYDtvry8i2Zhgh2NGhKWRqkiJixypW8umMDLI5a0cqg==")

	res, err := Decrypt(context.Background(), f.deps(), DecryptOptions{Source: src, Destination: f.path(".env.decrypted")})
	if err != nil {
		t.Fatalf("Decrypt failed: %v", err)
	}
	if got := readFile(t, res.Destination); got != envContent {
		t.Errorf("Decrypted content = %q, want %q", got, envContent)
	}
}

func TestEncrypt_NotCollaboratorTouchesNothing(t *testing.T) {
	f := newFixture(t, "mallory", false)
	src := f.write(t, ".env", envContent)
	dst := f.path(".env.encrypted")

	_, err := Encrypt(context.Background(), f.deps(), EncryptOptions{Source: src, Destination: dst})
	if !errors.Is(err, kerrors.ErrNotCollaborator) {
		t.Fatalf("Expected ErrNotCollaborator, got %v", err)
	}
	if f.cipher.encrypts != 0 {
		t.Errorf("Cipher invoked %d times after denial", f.cipher.encrypts)
	}
	assertMissing(t, dst)
}

func TestDecrypt_NetworkFailureLeavesDestination(t *testing.T) {
	f := newFixture(t, "octocat", false)
	f.auth.err = kerrors.ErrUnexpectedStatus
	src := f.write(t, ".env.encrypted", "U2FsdGVkX18BAgMEBQYHCOe3QR4Muu1wGnh87jxHVpc=")
	dst := f.write(t, ".env.decrypted", "KEEP=me\n")

	_, err := Decrypt(context.Background(), f.deps(), DecryptOptions{Source: src, Destination: dst})
	if !errors.Is(err, kerrors.ErrNetwork) {
		t.Fatalf("Expected network error, got %v", err)
	}
	if f.cipher.decrypts != 0 {
		t.Errorf("Cipher invoked %d times after network failure", f.cipher.decrypts)
	}
	if got := readFile(t, dst); got != "KEEP=me\n" {
		t.Errorf("Destination modified: %q", got)
	}
}

func TestDecrypt_WrongIdentity(t *testing.T) {
	f := newFixture(t, "octocat", true)
	ctx := context.Background()
	src := f.write(t, ".env", envContent)
	encrypted := f.path(".env.encrypted")
	if _, err := Encrypt(ctx, f.deps(), EncryptOptions{Source: src, Destination: encrypted}); err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}

	f.resolver.identity = "hubot"
	dst := f.path(".env.decrypted")
	_, err := Decrypt(ctx, f.deps(), DecryptOptions{Source: encrypted, Destination: dst})
	if !errors.Is(err, kerrors.ErrCipher) {
		t.Fatalf("Expected cipher error, got %v", err)
	}
	assertMissing(t, dst)
}

func TestDecrypt_MalformedSource(t *testing.T) {
	f := newFixture(t, "octocat", true)
	src := f.write(t, ".env.encrypted", "API_KEY=plaintext\n")
	dst := f.path(".env.decrypted")

	_, err := Decrypt(context.Background(), f.deps(), DecryptOptions{Source: src, Destination: dst})
	if !errors.Is(err, kerrors.ErrMalformedCiphertext) {
		t.Fatalf("Expected ErrMalformedCiphertext, got %v", err)
	}
	assertMissing(t, dst)
}

func TestDecrypt_DetectsSecretboxFormat(t *testing.T) {
	f := newFixture(t, "octocat", true)
	ctx := context.Background()
	src := f.write(t, ".env", envContent)
	encrypted := f.path(".env.encrypted")

	deps := f.deps()
	deps.Cipher = secrets.SecretboxCipher{}
	if _, err := Encrypt(ctx, deps, EncryptOptions{Source: src, Destination: encrypted}); err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}

	// Configured for OpenSSL, but the envelope decides.
	res, err := Decrypt(ctx, f.deps(), DecryptOptions{Source: encrypted, Destination: f.path("out.env")})
	if err != nil {
		t.Fatalf("Decrypt failed: %v", err)
	}
	if res.Format != secrets.FormatSecretbox {
		t.Errorf("Format = %q, want %q", res.Format, secrets.FormatSecretbox)
	}
	if f.cipher.decrypts != 0 {
		t.Errorf("Configured cipher should not be used for a secretbox file")
	}
	if got := readFile(t, res.Destination); got != envContent {
		t.Errorf("Decrypted content = %q", got)
	}
}

func TestEncrypt_MissingSource(t *testing.T) {
	f := newFixture(t, "octocat", true)
	dst := f.path(".env.encrypted")

	_, err := Encrypt(context.Background(), f.deps(), EncryptOptions{Source: f.path(".env"), Destination: dst})
	if !errors.Is(err, kerrors.ErrFileNotFound) {
		t.Fatalf("Expected ErrFileNotFound, got %v", err)
	}
	assertMissing(t, dst)
}

func TestEncrypt_SameSourceAndDestination(t *testing.T) {
	f := newFixture(t, "octocat", true)
	src := f.write(t, ".env", envContent)

	_, err := Encrypt(context.Background(), f.deps(), EncryptOptions{Source: src, Destination: src})
	if !errors.Is(err, kerrors.ErrConfiguration) {
		t.Fatalf("Expected configuration error, got %v", err)
	}
	if f.auth.calls != 0 {
		t.Errorf("Expected no collaborator check")
	}
	if got := readFile(t, src); got != envContent {
		t.Errorf("Source modified: %q", got)
	}
}

func TestEncrypt_DryRunWritesNothing(t *testing.T) {
	f := newFixture(t, "octocat", true)
	src := f.write(t, ".env", envContent)
	dst := f.write(t, ".env.encrypted", "old")

	res, err := Encrypt(context.Background(), f.deps(), EncryptOptions{Source: src, Destination: dst, DryRun: true})
	if err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}
	if !res.DryRun || !res.DestinationExisted {
		t.Errorf("Unexpected dry-run result %+v", res)
	}
	if f.auth.calls != 1 || f.cipher.encrypts != 1 {
		t.Errorf("Dry run should still authorize and encrypt (auth=%d, encrypts=%d)", f.auth.calls, f.cipher.encrypts)
	}
	if got := readFile(t, dst); got != "old" {
		t.Errorf("Destination modified during dry run: %q", got)
	}
}

func TestEncrypt_RecordsAudit(t *testing.T) {
	f := newFixture(t, "octocat", true)
	src := f.write(t, ".env", envContent)
	deps := f.deps()
	deps.Audit = audit.New(f.path("audit.jsonl"))
	ctx := context.Background()

	if _, err := Encrypt(ctx, deps, EncryptOptions{Source: src, Destination: f.path(".env.encrypted"), DryRun: true}); err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}
	if _, err := Encrypt(ctx, deps, EncryptOptions{Source: src, Destination: f.path(".env.encrypted")}); err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}

	entries, err := audit.ReadEntries(deps.Audit.Path)
	if err != nil {
		t.Fatalf("ReadEntries failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("Expected 1 entry (dry runs are not recorded), got %d", len(entries))
	}
	e := entries[0]
	if e.Operation != "encrypt" || e.User != "octocat" || e.Repository != "acme/widget" || e.Format != "openssl" {
		t.Errorf("Unexpected entry %+v", e)
	}
}

func TestEncrypt_AuditFailureOnlyWarns(t *testing.T) {
	f := newFixture(t, "octocat", true)
	src := f.write(t, ".env", envContent)
	blocker := f.write(t, "blocker", "")
	deps := f.deps()
	deps.Audit = audit.New(filepath.Join(blocker, "audit.jsonl"))

	if _, err := Encrypt(context.Background(), deps, EncryptOptions{Source: src, Destination: f.path(".env.encrypted")}); err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}
	if !strings.Contains(f.stderr.String(), "Failed to write audit log") {
		t.Errorf("Expected audit warning, got %q", f.stderr.String())
	}
}
