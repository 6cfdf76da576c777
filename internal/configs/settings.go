package configs

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	kerrors "github.com/PolarWolf314/envgate/internal/errors"
	"github.com/PolarWolf314/envgate/internal/utils"
)

// Settings holds the process state resolved once by the CLI.
type Settings struct {
	// WorkDir is the directory envgate was invoked from.
	WorkDir string

	// RepoRoot is the top of the git work tree containing WorkDir, or
	// WorkDir itself when there is none.
	RepoRoot string

	// ConfigPath is the config file in use.
	ConfigPath string

	// LookupEnv reads environment variables.
	LookupEnv func(string) (string, bool)
}

// NewSettings resolves the repository root above workDir. configPath may be
// empty (use the file at the repository root) or relative to workDir.
func NewSettings(workDir, configPath string, lookupEnv func(string) (string, bool)) (*Settings, error) {
	if lookupEnv == nil {
		lookupEnv = os.LookupEnv
	}

	root, err := utils.FindRepoRoot(workDir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", kerrors.ErrConfiguration, err)
	}
	if root == "" {
		root = workDir
	}

	switch {
	case configPath == "":
		configPath = filepath.Join(root, ConfigFileName)
	case !filepath.IsAbs(configPath):
		configPath = filepath.Join(workDir, configPath)
	}

	return &Settings{
		WorkDir:    workDir,
		RepoRoot:   root,
		ConfigPath: configPath,
		LookupEnv:  lookupEnv,
	}, nil
}

// Token returns the GitHub credential named by config.
// Returns ErrMissingToken when the variable is unset or blank.
func (s *Settings) Token(config *Config) (string, error) {
	name := config.GitHub.TokenEnv
	if name == "" {
		name = DefaultTokenEnv
	}

	value, ok := s.LookupEnv(name)
	if !ok || strings.TrimSpace(value) == "" {
		return "", fmt.Errorf("%w: set the %s environment variable", kerrors.ErrMissingToken, name)
	}
	return strings.TrimSpace(value), nil
}

// ConfigFilePath resolves a path from the config file against the repository root.
func (s *Settings) ConfigFilePath(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(s.RepoRoot, p)
}

// ArgPath resolves a path given on the command line against the working directory.
func (s *Settings) ArgPath(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(s.WorkDir, p)
}
