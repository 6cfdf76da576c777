package cmd

import (
	"github.com/PolarWolf314/envgate/internal/configs"
	"github.com/PolarWolf314/envgate/internal/ui"
	"github.com/PolarWolf314/envgate/internal/utils"
	"github.com/spf13/cobra"
)

var initForce bool

func init() {
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "overwrite an existing config file")
}

func resetInitCommandState() {
	initForce = false
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Writes a default .envgate.toml at the repository root",
	Long: `Creates a .envgate.toml file with the default settings at the root of the
current git repository. envgate works without one; the file only needs to
exist if you want to change file names, the cipher format, the git remote,
the token variable or enable the audit log.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	Logger.Infof("Starting init command")
	spinner, cleanup := startSpinner("Writing config file...")
	defer cleanup()

	wd, err := getwd()
	if err != nil {
		return fail(spinner, err)
	}
	settings, err := configs.NewSettings(wd, configPath, lookupEnv)
	if err != nil {
		return fail(spinner, err)
	}

	root := settings.RepoRoot
	Logger.Debugf("Writing config into %s (force=%t)", root, initForce)
	path, err := configs.Init(root, initForce)
	if err != nil {
		return fail(spinner, err)
	}

	spinner.FinalMSG = ui.Done("envgate config created!") + "\n" +
		"The following file was written:" + utils.FormatPaths([]string{path}) +
		ui.Hint("Commit it so every collaborator uses the same settings")
	return nil
}
