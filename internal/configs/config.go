package configs

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	kerrors "github.com/PolarWolf314/envgate/internal/errors"
	"github.com/PolarWolf314/envgate/internal/secrets"
	"github.com/PolarWolf314/envgate/internal/vcs"
)

// ConfigFileName is the name of the config file at the repository root.
const ConfigFileName = ".envgate.toml"

const (
	DefaultPlaintextFile = ".env"
	DefaultEncryptedFile = ".env.encrypted"
	DefaultDecryptedFile = ".env.decrypted"
	DefaultTokenEnv      = "GITHUB_TOKEN"
	DefaultAPIBaseURL    = "https://api.github.com/"
)

type Config struct {
	Files  FilesConfig  `toml:"files"`
	Cipher CipherConfig `toml:"cipher"`
	Git    GitConfig    `toml:"git"`
	GitHub GitHubConfig `toml:"github"`
	Audit  AuditConfig  `toml:"audit"`
}

type FilesConfig struct {
	Plaintext string `toml:"plaintext"`
	Encrypted string `toml:"encrypted"`
	Decrypted string `toml:"decrypted"`
}

type CipherConfig struct {
	Format string `toml:"format"`
}

type GitConfig struct {
	Remote      string `toml:"remote"`
	IdentityKey string `toml:"identity_key"`
}

type GitHubConfig struct {
	TokenEnv   string `toml:"token_env"`
	APIBaseURL string `toml:"api_base_url"`
}

type AuditConfig struct {
	Path string `toml:"path"`
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	return &Config{
		Files: FilesConfig{
			Plaintext: DefaultPlaintextFile,
			Encrypted: DefaultEncryptedFile,
			Decrypted: DefaultDecryptedFile,
		},
		Cipher: CipherConfig{Format: string(secrets.DefaultFormat)},
		Git: GitConfig{
			Remote:      vcs.DefaultRemote,
			IdentityKey: vcs.DefaultIdentityKey,
		},
		GitHub: GitHubConfig{
			TokenEnv:   DefaultTokenEnv,
			APIBaseURL: DefaultAPIBaseURL,
		},
	}
}

// Load reads the config file at path on top of DefaultConfig.
// A missing file yields the defaults.
func Load(path string) (*Config, error) {
	config := DefaultConfig()

	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return config, nil
	}

	if err := LoadTOML(path, config); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", kerrors.ErrInvalidConfig, path, err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return config, nil
}

// Save writes config to path.
func Save(path string, config *Config) error {
	if err := SaveTOML(path, config); err != nil {
		return fmt.Errorf("%w: failed to save config: %v", kerrors.ErrWriteFailed, err)
	}
	return nil
}

// Init writes a default config file into root and returns its path.
// Returns ErrConfigExists when one is already there and force is false.
func Init(root string, force bool) (string, error) {
	path := filepath.Join(root, ConfigFileName)

	if _, err := os.Stat(path); err == nil && !force {
		return path, fmt.Errorf("%w: %s", kerrors.ErrConfigExists, path)
	}

	if err := Save(path, DefaultConfig()); err != nil {
		return path, err
	}
	return path, nil
}

// Validate checks that every value is usable.
func (c *Config) Validate() error {
	var problems []string

	if strings.TrimSpace(c.Files.Plaintext) == "" {
		problems = append(problems, "files.plaintext must not be empty")
	}
	if strings.TrimSpace(c.Files.Encrypted) == "" {
		problems = append(problems, "files.encrypted must not be empty")
	}
	if strings.TrimSpace(c.Files.Decrypted) == "" {
		problems = append(problems, "files.decrypted must not be empty")
	}
	if c.Files.Plaintext != "" && c.Files.Plaintext == c.Files.Encrypted {
		problems = append(problems, "files.plaintext and files.encrypted must differ")
	}
	if _, err := secrets.ParseFormat(c.Cipher.Format); err != nil {
		problems = append(problems, fmt.Sprintf("cipher.format %q is not supported", c.Cipher.Format))
	}
	if strings.TrimSpace(c.GitHub.TokenEnv) == "" {
		problems = append(problems, "github.token_env must not be empty")
	}
	if c.GitHub.APIBaseURL != "" {
		u, err := url.Parse(c.GitHub.APIBaseURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			problems = append(problems, fmt.Sprintf("github.api_base_url %q is not an absolute URL", c.GitHub.APIBaseURL))
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", kerrors.ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}

// Format returns the configured cipher format.
func (c *Config) Format() secrets.Format {
	format, err := secrets.ParseFormat(c.Cipher.Format)
	if err != nil {
		return secrets.DefaultFormat
	}
	return format
}
