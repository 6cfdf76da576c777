package cmd

import (
	"os"

	logger "github.com/PolarWolf314/envgate/internal/logging"
	"github.com/PolarWolf314/envgate/internal/vcs"
	"github.com/spf13/cobra"
)

// Version is set at build time with -ldflags.
var Version = "dev"

var (
	verbose    bool
	debug      bool
	configPath string
	Logger     logger.Logger

	// Process hooks, replaced in tests.
	getwd     = os.Getwd
	lookupEnv = os.LookupEnv
	newRunner = func() vcs.Runner { return vcs.ExecRunner{} }

	RootCmd = &cobra.Command{
		Use:   "envgate",
		Short: "Encrypt and decrypt a repository's .env file for its GitHub collaborators",
		Long: `envgate keeps a repository's secrets file under version control in
encrypted form. Every encrypt and decrypt first asks GitHub whether your git
identity is a collaborator on the repository's origin remote.

Requires a GitHub token in the GITHUB_TOKEN environment variable and
git config user.name set to your GitHub username.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			Logger = logger.Logger{
				Verbose: verbose,
				Debug:   debug,
			}
			Logger.Debugf("Initializing %s command with verbose=%t, debug=%t", cmd.Name(), verbose, debug)
		},
	}
)

func init() {
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	RootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug output")
	RootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to the envgate config file (default: <repo>/.envgate.toml)")

	RootCmd.AddCommand(encryptCmd)
	RootCmd.AddCommand(decryptCmd)
	RootCmd.AddCommand(statusCmd)
	RootCmd.AddCommand(initCmd)
	RootCmd.AddCommand(logCmd)
}

// ResetGlobalState resets all flag variables to their defaults for testing.
func ResetGlobalState() {
	verbose = false
	debug = false
	configPath = ""
	resetTransformCommandState()
	resetStatusCommandState()
	resetInitCommandState()
	resetLogCommandState()
}
