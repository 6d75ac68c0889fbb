// Package config loads the TickTick API credentials from the user's
// TOML configuration file and the environment.
//
// The file lives at ~/.ticktick.toml. Environment variables take
// precedence over the file, so a fully env-configured run needs no
// file at all. The access token is never written back; authorization
// results stay within the process per run.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

const (
	// DefaultRedirectURI is used when the config does not set one. It
	// must match the redirect URI registered with the TickTick
	// Developer Center.
	DefaultRedirectURI = "http://localhost:8080/callback"

	fileName = ".ticktick.toml"
)

// Environment variable names, original-tool compatible
const (
	EnvClientID     = "TICKTICK_CLIENT_ID"
	EnvClientSecret = "TICKTICK_CLIENT_SECRET"
	EnvRedirectURI  = "TICKTICK_REDIRECT_URI"
	EnvAccessToken  = "TICKTICK_ACCESS_TOKEN"
)

// ErrExists is returned by WriteExample when a config file is already
// in place
var ErrExists = errors.New("configuration file already exists")

// Config is the top-level configuration file structure
type Config struct {
	TickTick TickTickConfig `toml:"ticktick"`
}

// TickTickConfig holds the API credentials
type TickTickConfig struct {
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
	RedirectURI  string `toml:"redirect_uri"`
	AccessToken  string `toml:"access_token"`
}

const exampleConfig = `# TickTick API Configuration
# Get your client_id and client_secret from the TickTick Developer Center
# https://developer.ticktick.com/

[ticktick]
client_id = "your_client_id_here"
client_secret = "your_client_secret_here"

# Optional: Custom redirect URI (defaults to http://localhost:8080/callback)
# Make sure this matches what you configured in the TickTick Developer Center
# redirect_uri = "http://localhost:8080/callback"

# Optional: a pre-existing access token. With this set, no browser
# authorization is needed until the token expires.
# access_token = ""
`

// Path returns the location of the configuration file
func Path() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not find home directory: %w", err)
	}
	return filepath.Join(home, fileName), nil
}

// Load reads the configuration file if present and applies environment
// overrides on top. A missing file is not an error; the environment
// alone may carry the credentials. Validate decides whether the result
// is usable.
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}
	return loadFrom(path)
}

func loadFrom(path string) (*Config, error) {
	cfg := &Config{}

	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	applyEnv(cfg)

	if cfg.TickTick.RedirectURI == "" {
		cfg.TickTick.RedirectURI = DefaultRedirectURI
	}
	return cfg, nil
}

// applyEnv overrides file values with environment variables
func applyEnv(cfg *Config) {
	if v := os.Getenv(EnvClientID); v != "" {
		cfg.TickTick.ClientID = v
	}
	if v := os.Getenv(EnvClientSecret); v != "" {
		cfg.TickTick.ClientSecret = v
	}
	if v := os.Getenv(EnvRedirectURI); v != "" {
		cfg.TickTick.RedirectURI = v
	}
	if v := os.Getenv(EnvAccessToken); v != "" {
		cfg.TickTick.AccessToken = v
	}
}

// Validate checks that the configuration can authenticate somehow:
// either a pre-existing access token, or client credentials for the
// authorization flow.
func (c *Config) Validate() error {
	if c.TickTick.AccessToken != "" {
		return nil
	}
	if c.TickTick.ClientID == "" || c.TickTick.ClientSecret == "" {
		path, _ := Path()
		return fmt.Errorf("no TickTick credentials configured: set client_id and client_secret in %s (run `ticktoday init` to create it) or export %s and %s", path, EnvClientID, EnvClientSecret)
	}
	return nil
}

// WriteExample creates an example configuration file for the user to
// fill in. It refuses to overwrite an existing file.
func WriteExample() (string, error) {
	path, err := Path()
	if err != nil {
		return "", err
	}
	return path, writeExampleTo(path)
}

func writeExampleTo(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%w at %s", ErrExists, path)
	}
	if err := os.WriteFile(path, []byte(exampleConfig), 0600); err != nil {
		return fmt.Errorf("failed to create config file %s: %w", path, err)
	}
	return nil
}
