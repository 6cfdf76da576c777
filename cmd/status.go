package cmd

import (
	"fmt"
	"strings"

	kerrors "github.com/PolarWolf314/envgate/internal/errors"
	"github.com/PolarWolf314/envgate/internal/ui"
	"github.com/PolarWolf314/envgate/internal/workflows"
	"github.com/spf13/cobra"
)

var statusOffline bool

func init() {
	statusCmd.Flags().BoolVar(&statusOffline, "offline", false, "skip the GitHub collaborator check")
}

func resetStatusCommandState() {
	statusOffline = false
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Shows the repository, identity and access envgate would use",
	Long: `Resolves the GitHub repository and your git identity, checks whether
you are a collaborator and lists the configured files. No file is read
beyond detecting the envelope format and nothing is written.

Exits with status 1 when you could not be confirmed as a collaborator.
With --offline no request is sent to GitHub and access is shown as not
checked; the exit status then only reflects the local checks.`,
	Args: cobra.NoArgs,
	RunE: runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	Logger.Infof("Starting status command")
	spinner, cleanup := startSpinner("Checking access...")
	defer cleanup()

	env, err := loadEnvironment()
	if err != nil {
		return fail(spinner, err)
	}

	deps, err := env.deps()
	if err != nil {
		return fail(spinner, err)
	}

	files := []string{
		env.settings.ConfigFilePath(env.config.Files.Plaintext),
		env.settings.ConfigFilePath(env.config.Files.Encrypted),
		env.settings.ConfigFilePath(env.config.Files.Decrypted),
	}

	result, err := workflows.Status(cmd.Context(), deps, workflows.StatusOptions{
		Files:             files,
		SkipAuthorization: statusOffline,
	})
	if err != nil {
		return fail(spinner, err)
	}

	var b strings.Builder
	line := func(label, value string) {
		fmt.Fprintf(&b, "%-12s %s\n", label+":", value)
	}

	if result.RepositoryErr != nil {
		line("Repository", ui.Error.Sprint(result.RepositoryErr.Error()))
	} else {
		line("Repository", ui.Highlight.Sprint(result.Repository.String()))
	}
	if result.IdentityErr != nil {
		line("Identity", ui.Error.Sprint(result.IdentityErr.Error()))
	} else {
		line("Identity", ui.Highlight.Sprint(result.Identity.String()))
	}
	line("Cipher", string(deps.Cipher.Format()))
	if deps.Audit.Enabled() {
		line("Audit log", ui.Path.Sprint(relPath(env, deps.Audit.Path)))
	}

	var access string
	switch {
	case !result.TokenPresent:
		access = ui.Error.Sprint(env.tokenErr.Error())
	case result.AuthErr != nil:
		access = ui.Error.Sprint(result.AuthErr.Error())
	case result.Authorized == nil:
		access = ui.Warning.Sprint("not checked (offline)")
	case *result.Authorized:
		access = ui.Success.Sprint("collaborator")
	default:
		access = ui.Error.Sprint("not a collaborator")
	}
	line("Access", access)

	b.WriteString("\nFiles:\n")
	for _, f := range result.Files {
		state := ui.Warning.Sprint("missing")
		if f.Exists {
			state = ui.Success.Sprint("present")
			if f.Format != "" {
				state += " (" + string(f.Format) + ")"
			}
		}
		fmt.Fprintf(&b, "    - %s %s\n", ui.Path.Sprint(relPath(env, f.Path)), state)
	}

	if result.Authorized != nil && *result.Authorized {
		spinner.FinalMSG = b.String() + "\n" + ui.Done("You can encrypt and decrypt this repository's secrets")
		return nil
	}
	if statusOffline && result.RepositoryErr == nil && result.IdentityErr == nil {
		spinner.FinalMSG = b.String() + "\n" + ui.Hint("Run "+ui.Code.Sprint("envgate status")+" without --offline to check access")
		return nil
	}

	spinner.FinalMSG = b.String() + "\n" + ui.Failed("You cannot currently encrypt or decrypt this repository's secrets")
	return &reportedError{err: statusError(result, env)}
}

// statusError picks the error that best explains a failed status check.
func statusError(result *workflows.StatusResult, env *environment) error {
	switch {
	case result.RepositoryErr != nil:
		return result.RepositoryErr
	case result.IdentityErr != nil:
		return result.IdentityErr
	case !result.TokenPresent:
		return env.tokenErr
	case result.AuthErr != nil:
		return result.AuthErr
	default:
		return fmt.Errorf("%s on %s: %w", result.Identity, result.Repository, kerrors.ErrNotCollaborator)
	}
}
