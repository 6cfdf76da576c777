package cmd

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/PolarWolf314/envgate/internal/configs"
	"github.com/PolarWolf314/envgate/internal/vcs"
)

// fakeGit answers git invocations from a map keyed by the joined arguments.
// Missing keys behave like an unset config value.
type fakeGit struct {
	outputs map[string]string
}

func (f *fakeGit) Run(_ context.Context, _ string, args ...string) (string, error) {
	if out, ok := f.outputs[strings.Join(args, " ")]; ok {
		return out, nil
	}
	return "", &vcs.CommandError{Args: args, ExitCode: 1}
}

// testRepo is a temporary repository wired to a fake git and a fake GitHub API.
type testRepo struct {
	t       *testing.T
	dir     string
	wd      string
	git     *fakeGit
	env     map[string]string
	server  *httptest.Server
	hits    atomic.Int32
	status  atomic.Int32
	allowed map[string]bool
}

func setupTestRepo(t *testing.T, identity string) *testRepo {
	t.Helper()
	ResetGlobalState()

	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, ".git"), 0755); err != nil {
		t.Fatalf("Failed to create .git: %v", err)
	}

	r := &testRepo{
		t:   t,
		dir: dir,
		wd:  dir,
		git: &fakeGit{outputs: map[string]string{
			"rev-parse --is-inside-work-tree": "true",
			"config --get remote.origin.url":  "git@github.com:acme/widget.git",
			"config --get user.name":          identity,
		}},
		env:     map[string]string{"GITHUB_TOKEN": "test-token"},
		allowed: map[string]bool{"octocat": true},
	}

	r.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		r.hits.Add(1)
		if code := r.status.Load(); code != 0 {
			w.WriteHeader(int(code))
			return
		}
		user := strings.TrimPrefix(req.URL.Path, "/repos/acme/widget/collaborators/")
		if req.Header.Get("Authorization") == "token test-token" && r.allowed[user] {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))

	origGetwd, origLookupEnv, origNewRunner := getwd, lookupEnv, newRunner
	getwd = func() (string, error) { return r.wd, nil }
	lookupEnv = func(key string) (string, bool) {
		v, ok := r.env[key]
		return v, ok
	}
	newRunner = func() vcs.Runner { return r.git }

	t.Cleanup(func() {
		r.server.Close()
		getwd, lookupEnv, newRunner = origGetwd, origLookupEnv, origNewRunner
		ResetGlobalState()
	})

	r.writeConfig("")
	return r
}

// writeConfig writes .envgate.toml pointing at the fake API, followed by extra.
func (r *testRepo) writeConfig(extra string) {
	r.t.Helper()
	content := "[github]\napi_base_url = \"" + r.server.URL + "\"\n" + extra
	r.writeFile(configs.ConfigFileName, content)
}

func (r *testRepo) writeFile(name, content string) string {
	r.t.Helper()
	path := filepath.Join(r.dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		r.t.Fatalf("Failed to create directory for %s: %v", name, err)
	}
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		r.t.Fatalf("Failed to write %s: %v", name, err)
	}
	return path
}

func (r *testRepo) readFile(name string) string {
	r.t.Helper()
	data, err := os.ReadFile(filepath.Join(r.dir, name))
	if err != nil {
		r.t.Fatalf("Failed to read %s: %v", name, err)
	}
	return string(data)
}

func (r *testRepo) exists(name string) bool {
	_, err := os.Stat(filepath.Join(r.dir, name))
	return err == nil
}

// run executes envgate with args and returns the combined output.
func (r *testRepo) run(args ...string) (string, error) {
	r.t.Helper()
	ResetGlobalState()
	RootCmd.SetArgs(args)
	return captureOutput(func() error {
		return RootCmd.Execute()
	})
}

// captureOutput captures both stdout and stderr during function execution.
func captureOutput(fn func() error) (string, error) {
	originalStdout := os.Stdout
	originalStderr := os.Stderr

	stdoutReader, stdoutWriter, _ := os.Pipe()
	stderrReader, stderrWriter, _ := os.Pipe()

	os.Stdout = stdoutWriter
	os.Stderr = stderrWriter

	outputChan := make(chan string, 2)
	for _, reader := range []*os.File{stdoutReader, stderrReader} {
		go func(reader *os.File) {
			var buf bytes.Buffer
			_, _ = io.Copy(&buf, reader)
			outputChan <- buf.String()
		}(reader)
	}

	err := fn()

	stdoutWriter.Close()
	stderrWriter.Close()

	os.Stdout = originalStdout
	os.Stderr = originalStderr

	return <-outputChan + <-outputChan, err
}
