package cmd

import (
	"github.com/PolarWolf314/envgate/internal/configs"
	"github.com/PolarWolf314/envgate/internal/secrets"
	"github.com/PolarWolf314/envgate/internal/ui"
	"github.com/PolarWolf314/envgate/internal/workflows"
	"github.com/spf13/cobra"
)

func init() {
	encryptFlags.register(encryptCmd.Flags(), configs.DefaultPlaintextFile, configs.DefaultEncryptedFile)
	encryptCmd.Flags().StringVar(&encryptFormat, "format", "", "cipher format, openssl or secretbox (default: [cipher] format from the config)")
}

var encryptCmd = &cobra.Command{
	Use:   "encrypt",
	Short: "Encrypts .env into .env.encrypted after checking you are a collaborator",
	Long: `Encrypts the plaintext secrets file with a key derived from your git
identity and writes the result next to it, ready to commit.

Nothing is read or written unless GitHub confirms that your git user.name is
a collaborator on the repository.

The default openssl format is compatible with OpenSSL and CryptoJS and only
accepts UTF-8 text. Use --format secretbox, or set [cipher] format =
"secretbox" in .envgate.toml, for binary payloads.

Examples:
  envgate encrypt
  envgate encrypt --in config/.env --out config/.env.encrypted
  envgate encrypt --format secretbox
  envgate encrypt --dry-run`,
	Args: cobra.NoArgs,
	RunE: runEncrypt,
}

func runEncrypt(cmd *cobra.Command, args []string) error {
	Logger.Infof("Starting encrypt command")
	spinner, cleanup := startSpinner("Encrypting environment file...")
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
	if encryptFormat != "" {
		format, err := secrets.ParseFormat(encryptFormat)
		if err != nil {
			return fail(spinner, err)
		}
		if deps.Cipher, err = secrets.NewCipher(format); err != nil {
			return fail(spinner, err)
		}
	}

	opts := workflows.EncryptOptions{
		Source:      env.pathOrDefault(encryptFlags.in, env.config.Files.Plaintext),
		Destination: env.pathOrDefault(encryptFlags.out, env.config.Files.Encrypted),
		DryRun:      encryptFlags.dryRun,
	}
	Logger.Debugf("Source: %s, destination: %s, dry run: %t", opts.Source, opts.Destination, opts.DryRun)

	result, err := workflows.Encrypt(cmd.Context(), deps, opts)
	if err != nil {
		return fail(spinner, err)
	}
	Logger.Infof("Encrypted %d bytes for %s on %s", result.Bytes, result.Identity, result.Repository)

	if result.DryRun {
		msg := ui.Warning.Sprint("[dry-run]") + " Would write " + ui.Path.Sprint(relPath(env, result.Destination))
		if result.DestinationExisted {
			msg += " (replacing the existing file)"
		}
		spinner.FinalMSG = msg + "\n" + ui.Hint("No files were modified")
		return nil
	}

	spinner.FinalMSG = ui.Done("Environment file encrypted successfully!") + "\n" +
		"Wrote " + ui.Path.Sprint(relPath(env, result.Destination)) + " for " + ui.Highlight.Sprint(result.Repository.String()) + "\n" +
		ui.Hint("You can now safely commit " + ui.Path.Sprint(relPath(env, result.Destination)) + " to version control")
	return nil
}
