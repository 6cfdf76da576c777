package cmd

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/PolarWolf314/envgate/internal/audit"
	"github.com/PolarWolf314/envgate/internal/configs"
	kerrors "github.com/PolarWolf314/envgate/internal/errors"
	"github.com/PolarWolf314/envgate/internal/github"
	"github.com/PolarWolf314/envgate/internal/secrets"
	"github.com/PolarWolf314/envgate/internal/ui"
	"github.com/PolarWolf314/envgate/internal/utils"
	"github.com/PolarWolf314/envgate/internal/vcs"
	"github.com/PolarWolf314/envgate/internal/workflows"
	"github.com/briandowns/spinner"
)

// startSpinner creates a spinner with the given message and starts it when
// stdout is a terminal and neither verbose nor debug output is enabled.
// Returns the spinner and a function that should be deferred to clean up.
//
// spinner.FinalMSG values do not need trailing newlines. The cleanup
// function prints the final message through ui.EnsureNewline.
func startSpinner(message string) (*spinner.Spinner, func()) {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	s.Suffix = " " + message

	if err := s.Color("cyan"); err != nil {
		Logger.Warnf("Failed to set spinner color: %v", err)
	}

	animate := !verbose && !debug && utils.IsTerminal(os.Stdout)
	if animate {
		s.Start()
		log.SetOutput(io.Discard)
	} else {
		Logger.Infof("%s", message)
	}

	cleanup := func() {
		if animate {
			log.SetOutput(os.Stderr)
		}

		finalMsg := ""
		if s.FinalMSG != "" {
			finalMsg = ui.EnsureNewline(s.FinalMSG)
			s.FinalMSG = ""
		}

		if animate {
			s.Stop()
		}

		if finalMsg != "" {
			fmt.Print(finalMsg)
		}
	}

	return s, cleanup
}

// environment is everything a command needs from the process: where it runs,
// the loaded config and the GitHub credential.
type environment struct {
	settings *configs.Settings
	config   *configs.Config

	// token is empty when tokenErr is set.
	token    string
	tokenErr error
}

func loadEnvironment() (*environment, error) {
	wd, err := getwd()
	if err != nil {
		return nil, fmt.Errorf("%w: cannot determine working directory: %v", kerrors.ErrConfiguration, err)
	}

	settings, err := configs.NewSettings(wd, configPath, lookupEnv)
	if err != nil {
		return nil, err
	}
	Logger.Debugf("Working directory: %s, repository root: %s", settings.WorkDir, settings.RepoRoot)

	Logger.Debugf("Loading config from %s", settings.ConfigPath)
	config, err := configs.Load(settings.ConfigPath)
	if err != nil {
		return nil, err
	}

	env := &environment{settings: settings, config: config}
	env.token, env.tokenErr = settings.Token(config)
	return env, nil
}

// deps wires the workflow dependencies. The Authorizer is left nil when no
// token is available.
func (e *environment) deps() (workflows.Deps, error) {
	cipher, err := secrets.NewCipher(e.config.Format())
	if err != nil {
		return workflows.Deps{}, err
	}

	resolver := &vcs.Resolver{
		Dir:         e.settings.WorkDir,
		Remote:      e.config.Git.Remote,
		IdentityKey: e.config.Git.IdentityKey,
		Runner:      newRunner(),
	}

	deps := workflows.Deps{
		Resolver: resolver,
		Cipher:   cipher,
		Keys:     secrets.IdentityKeySource{},
		Logger:   Logger,
	}

	if e.config.Audit.Path != "" {
		deps.Audit = audit.New(e.settings.ConfigFilePath(e.config.Audit.Path))
	}

	if e.tokenErr == nil {
		client, err := github.NewClient(e.token,
			github.WithBaseURL(e.config.GitHub.APIBaseURL),
			github.WithUserAgent("envgate/"+Version),
		)
		if err != nil {
			return workflows.Deps{}, err
		}
		deps.Authorizer = client
	}

	return deps, nil
}

// pathOrDefault resolves a flag value against the working directory, or the
// configured default against the repository root.
func (e *environment) pathOrDefault(flagValue, configured string) string {
	if flagValue != "" {
		return e.settings.ArgPath(flagValue)
	}
	return e.settings.ConfigFilePath(configured)
}

// relPath shows p relative to the working directory when that is shorter.
func relPath(e *environment, p string) string {
	rel, err := filepath.Rel(e.settings.WorkDir, p)
	if err != nil || len(rel) >= len(p) {
		return p
	}
	return rel
}

// reportedError marks an error whose message has already been shown.
type reportedError struct {
	err error
}

func (r *reportedError) Error() string { return r.err.Error() }
func (r *reportedError) Unwrap() error { return r.err }

// IsReported reports whether err was already printed by a command.
func IsReported(err error) bool {
	var r *reportedError
	return errors.As(err, &r)
}

// fail shows err through the spinner and returns it marked as reported.
func fail(s *spinner.Spinner, err error) error {
	Logger.Errorf("%v", err)
	s.FinalMSG = formatError(err)
	return &reportedError{err: err}
}

// formatError renders err with a hint for its category.
func formatError(err error) string {
	msg := ui.Failed(err.Error())

	var hint string
	switch {
	case errors.Is(err, kerrors.ErrNotCollaborator):
		hint = "Ask a repository admin to add your GitHub account as a collaborator"
	case errors.Is(err, kerrors.ErrMissingToken):
		hint = "Export a GitHub personal access token, for example " + ui.Code.Sprint("export GITHUB_TOKEN=<token>")
	case errors.Is(err, kerrors.ErrNotAGitRepo):
		hint = "Run envgate from inside a git repository"
	case errors.Is(err, kerrors.ErrNoRemote):
		hint = "Add a GitHub remote with " + ui.Code.Sprint("git remote add origin git@github.com:<owner>/<repo>.git")
	case errors.Is(err, kerrors.ErrUnparsableRemote):
		hint = "The remote URL must point at github.com and end in .git"
	case errors.Is(err, kerrors.ErrInvalidIdentity):
		hint = "Set " + ui.Code.Sprint("git config user.name") + " to your exact GitHub username"
	case errors.Is(err, kerrors.ErrNoIdentityConfigured):
		hint = "Set your GitHub username with " + ui.Code.Sprint("git config user.name <username>")
	case errors.Is(err, kerrors.ErrConfigExists):
		hint = "Run " + ui.Code.Sprint("envgate init --force") + " to overwrite it"
	case errors.Is(err, kerrors.ErrInvalidConfig):
		hint = "Fix the config file or regenerate it with " + ui.Code.Sprint("envgate init --force")
	case errors.Is(err, kerrors.ErrAuditDisabled):
		hint = "Set " + ui.Code.Sprint("[audit] path") + " in " + ui.Path.Sprint(configs.ConfigFileName) + " to start recording operations"
	case errors.Is(err, kerrors.ErrRateLimited):
		hint = "Wait for the GitHub rate limit to reset and try again"
	case errors.Is(err, kerrors.ErrNetwork):
		hint = "Access could not be verified. Check your network connection and that your token is valid"
	case errors.Is(err, kerrors.ErrUnknownFormat):
		hint = "Supported formats are openssl and secretbox"
	case errors.Is(err, kerrors.ErrEncryptFailed):
		hint = "The openssl format only accepts UTF-8 text. Use " + ui.Code.Sprint("--format secretbox") + " for binary files"
	case errors.Is(err, kerrors.ErrDecryptFailed):
		hint = "The file was encrypted under a different identity or has been modified"
	case errors.Is(err, kerrors.ErrMalformedCiphertext):
		hint = "The file is not an envgate encrypted file"
	case errors.Is(err, kerrors.ErrFileNotFound):
		hint = "Check the path, or pass one with " + ui.Code.Sprint("--in")
	}

	if hint == "" {
		return msg
	}
	return msg + "\n" + ui.Hint(hint)
}
