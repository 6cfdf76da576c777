package workflows

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	logger "github.com/PolarWolf314/envgate/internal/logging"
	"github.com/PolarWolf314/envgate/internal/secrets"
	"github.com/PolarWolf314/envgate/internal/vcs"
)

var testRepo = vcs.Repository{Owner: "acme", Name: "widget"}

type fakeResolver struct {
	repo     vcs.Repository
	identity vcs.Identity
	repoErr  error
	idErr    error
	calls    int
}

func (f *fakeResolver) ResolveRepository(ctx context.Context) (vcs.Repository, error) {
	f.calls++
	return f.repo, f.repoErr
}

func (f *fakeResolver) ResolveIdentity(ctx context.Context) (vcs.Identity, error) {
	f.calls++
	return f.identity, f.idErr
}

type fakeAuthorizer struct {
	allow bool
	err   error

	calls   int
	gotRepo vcs.Repository
	gotUser string
}

func (f *fakeAuthorizer) IsCollaborator(ctx context.Context, repo vcs.Repository, username string) (bool, error) {
	f.calls++
	f.gotRepo = repo
	f.gotUser = username
	return f.allow, f.err
}

// countingCipher records how often the wrapped cipher is invoked.
type countingCipher struct {
	secrets.Cipher
	encrypts int
	decrypts int
}

func (c *countingCipher) Encrypt(plaintext []byte, passphrase string) ([]byte, error) {
	c.encrypts++
	return c.Cipher.Encrypt(plaintext, passphrase)
}

func (c *countingCipher) Decrypt(ciphertext []byte, passphrase string) ([]byte, error) {
	c.decrypts++
	return c.Cipher.Decrypt(ciphertext, passphrase)
}

type fixture struct {
	dir      string
	resolver *fakeResolver
	auth     *fakeAuthorizer
	cipher   *countingCipher
	stderr   *bytes.Buffer
}

func newFixture(t *testing.T, identity string, allow bool) *fixture {
	t.Helper()
	return &fixture{
		dir:      t.TempDir(),
		resolver: &fakeResolver{repo: testRepo, identity: vcs.Identity(identity)},
		auth:     &fakeAuthorizer{allow: allow},
		cipher:   &countingCipher{Cipher: secrets.OpenSSLCipher{}},
		stderr:   &bytes.Buffer{},
	}
}

func (f *fixture) deps() Deps {
	return Deps{
		Resolver:   f.resolver,
		Authorizer: f.auth,
		Cipher:     f.cipher,
		Logger:     logger.Logger{Out: &bytes.Buffer{}, Err: f.stderr},
	}
}

func (f *fixture) path(name string) string {
	return filepath.Join(f.dir, name)
}

func (f *fixture) write(t *testing.T, name, content string) string {
	t.Helper()
	p := f.path(name)
	if err := os.WriteFile(p, []byte(content), 0600); err != nil {
		t.Fatalf("Failed to write %s: %v", name, err)
	}
	return p
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read %s: %v", path, err)
	}
	return string(data)
}

func assertMissing(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("Expected %s not to exist, stat err = %v", path, err)
	}
}
