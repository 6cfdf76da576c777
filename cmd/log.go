package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/PolarWolf314/envgate/internal/audit"
	"github.com/PolarWolf314/envgate/internal/workflows"
	"github.com/spf13/cobra"
)

var (
	logLimit     int
	logReverse   bool
	logUser      string
	logOperation string
	logSince     string
	logUntil     string
	logJSON      bool
)

func init() {
	logCmd.Flags().IntVarP(&logLimit, "number", "n", 0, "limit number of entries shown")
	logCmd.Flags().BoolVar(&logReverse, "reverse", false, "show most recent entries first")
	logCmd.Flags().StringVar(&logUser, "user", "", "filter by git identity")
	logCmd.Flags().StringVar(&logOperation, "operation", "", "filter by operation type (comma-separated)")
	logCmd.Flags().StringVar(&logSince, "since", "", "show entries on or after date (YYYY-MM-DD)")
	logCmd.Flags().StringVar(&logUntil, "until", "", "show entries on or before date (YYYY-MM-DD)")
	logCmd.Flags().BoolVar(&logJSON, "json", false, "output as JSON array")
}

func resetLogCommandState() {
	logLimit = 0
	logReverse = false
	logUser = ""
	logOperation = ""
	logSince = ""
	logUntil = ""
	logJSON = false
}

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "View the audit log",
	Long: `Displays the audit log of encrypt and decrypt operations, when auditing
is enabled with [audit] path in .envgate.toml.

Examples:
  envgate log                              # View full log
  envgate log -n 10                        # Last 10 entries
  envgate log --reverse                    # Most recent first
  envgate log --user octocat               # Filter by identity
  envgate log --operation decrypt          # Filter by operation
  envgate log --since 2026-01-01           # Filter by date
  envgate log --json                       # JSON output`,
	Args: cobra.NoArgs,
	RunE: runLog,
}

func runLog(cmd *cobra.Command, args []string) error {
	Logger.Infof("Starting log command")
	spinner, cleanup := startSpinner("Loading audit log...")
	defer cleanup()

	env, err := loadEnvironment()
	if err != nil {
		return fail(spinner, err)
	}

	opts := workflows.LogOptions{
		Limit:   logLimit,
		Reverse: logReverse,
		User:    logUser,
		Since:   logSince,
		Until:   logUntil,
	}
	if env.config.Audit.Path != "" {
		opts.Path = env.settings.ConfigFilePath(env.config.Audit.Path)
	}
	if logOperation != "" {
		opts.Operations = strings.Split(logOperation, ",")
	}

	result, err := workflows.Log(cmd.Context(), opts)
	if err != nil {
		return fail(spinner, err)
	}
	Logger.Debugf("Parsed %d entries, %d after filtering", result.Total, len(result.Entries))

	spinner.FinalMSG = ""
	if len(result.Entries) == 0 {
		if result.Total == 0 {
			spinner.FinalMSG = "No audit log entries found."
		} else {
			spinner.FinalMSG = "No audit log entries found matching the filters."
		}
		return nil
	}

	if logJSON {
		data, err := json.MarshalIndent(result.Entries, "", "  ")
		if err != nil {
			return Logger.ErrorfAndReturn("failed to marshal entries to JSON: %w", err)
		}
		spinner.FinalMSG = string(data)
		return nil
	}

	spinner.FinalMSG = formatEntries(result.Entries)
	return nil
}

func formatEntries(entries []audit.Entry) string {
	var b strings.Builder
	for _, e := range entries {
		fmt.Fprintf(&b, "%-19s  %-20s  %-8s  %s -> %s\n",
			workflows.FormatDateTime(e.Timestamp), e.User, e.Operation, e.Source, e.Destination)
	}
	return b.String()
}
