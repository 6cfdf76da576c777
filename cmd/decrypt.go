package cmd

import (
	"github.com/PolarWolf314/envgate/internal/configs"
	"github.com/PolarWolf314/envgate/internal/ui"
	"github.com/PolarWolf314/envgate/internal/workflows"
	"github.com/spf13/cobra"
)

func init() {
	decryptFlags.register(decryptCmd.Flags(), configs.DefaultEncryptedFile, configs.DefaultDecryptedFile)
}

var decryptCmd = &cobra.Command{
	Use:   "decrypt",
	Short: "Decrypts .env.encrypted into .env.decrypted after checking you are a collaborator",
	Long: `Decrypts the encrypted secrets file with a key derived from your git
identity. The cipher format is detected from the file, so files written with
either supported format can be decrypted.

Nothing is read or written unless GitHub confirms that your git user.name is
a collaborator on the repository. A wrong key leaves the output untouched.

Examples:
  envgate decrypt
  envgate decrypt --out .env
  envgate decrypt --dry-run`,
	Args: cobra.NoArgs,
	RunE: runDecrypt,
}

func runDecrypt(cmd *cobra.Command, args []string) error {
	Logger.Infof("Starting decrypt command")
	spinner, cleanup := startSpinner("Decrypting environment file...")
	defer cleanup()

	env, err := loadEnvironment()
	if err != nil {
		return fail(spinner, err)
	}
	if env.tokenErr != nil {
		return fail(spinner, env.tokenErr)
	}

	deps, err := env.deps()
	if err != nil {
		return fail(spinner, err)
	}

	opts := workflows.DecryptOptions{
		Source:      env.pathOrDefault(decryptFlags.in, env.config.Files.Encrypted),
		Destination: env.pathOrDefault(decryptFlags.out, env.config.Files.Decrypted),
		DryRun:      decryptFlags.dryRun,
	}
	Logger.Debugf("Source: %s, destination: %s, dry run: %t", opts.Source, opts.Destination, opts.DryRun)

	result, err := workflows.Decrypt(cmd.Context(), deps, opts)
	if err != nil {
		return fail(spinner, err)
	}
	Logger.Infof("Decrypted %d bytes (%s format) for %s", result.Bytes, result.Format, result.Identity)

	if result.DryRun {
		msg := ui.Warning.Sprint("[dry-run]") + " Would write " + ui.Path.Sprint(relPath(env, result.Destination))
		if result.DestinationExisted {
			msg += " (replacing the existing file)"
		}
		spinner.FinalMSG = msg + "\n" + ui.Hint("No files were modified")
		return nil
	}

	spinner.FinalMSG = ui.Done("Environment file decrypted successfully!") + "\n" +
		"Wrote " + ui.Path.Sprint(relPath(env, result.Destination)) + "\n" +
		ui.Hint("Keep " + ui.Path.Sprint(relPath(env, result.Destination)) + " out of version control")
	return nil
}
