package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/kelseyhightower/envconfig"
)

// Config contains all configuration parameters for the application.
type Config struct {
	// StorePath overrides the wallet store location. Empty means
	// <user config dir>/solkeep/wallets.json.
	StorePath string `envconfig:"SOLKEEP_STORE_PATH"`

	// KeyringService overrides the OS credential-service name.
	// Used to isolate test runs from the real master key.
	KeyringService string `envconfig:"SOLKEEP_KEYRING_SERVICE" default:"solkeep"`

	SolanaRPCURL string `envconfig:"SOLKEEP_RPC_URL" default:"https://api.mainnet-beta.solana.com"`

	// Scanner defaults
	ScanMaxDepth  int `envconfig:"SOLKEEP_SCAN_MAX_DEPTH" default:"10"`
	ScanMaxFiles  int `envconfig:"SOLKEEP_SCAN_MAX_FILES" default:"100"`
	ScanBatchSize int `envconfig:"SOLKEEP_SCAN_BATCH_SIZE" default:"50"`

	// Vanity defaults
	VanityTimeoutSeconds int `envconfig:"SOLKEEP_VANITY_TIMEOUT_SECONDS" default:"120"`
	VanityThreads        int `envconfig:"SOLKEEP_VANITY_THREADS" default:"0"` // 0 = auto
	VanityProgressMs     int `envconfig:"SOLKEEP_VANITY_PROGRESS_MS" default:"100"`

	LogLevel string `envconfig:"SOLKEEP_LOG_LEVEL" default:"info"`
	LogPath  string `envconfig:"SOLKEEP_LOG_PATH"`
}

// cfg is the global configuration instance
var cfg *Config

// Init loads configuration from environment variables.
func Init() error {
	cfg = &Config{}
	if err := envconfig.Process("", cfg); err != nil {
		return fmt.Errorf("failed to process config: %w", err)
	}
	return nil
}

// Get returns the global configuration instance.
// Panics if Init() was not called.
func Get() *Config {
	if cfg == nil {
		panic("config not initialized, call Init() first")
	}
	return cfg
}

// StoreFilePath resolves the wallet store path, creating the parent
// directory with user-only permissions if absent.
func StoreFilePath() (string, error) {
	c := Get()
	if c.StorePath != "" {
		if err := os.MkdirAll(filepath.Dir(c.StorePath), 0o700); err != nil {
			return "", fmt.Errorf("failed to create store directory: %w", err)
		}
		return c.StorePath, nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve user config dir: %w", err)
	}
	dir := filepath.Join(base, "solkeep")
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("failed to create store directory: %w", err)
	}
	return filepath.Join(dir, "wallets.json"), nil
}

// LogFilePath resolves the log file location.
func LogFilePath() (string, error) {
	c := Get()
	if c.LogPath != "" {
		return c.LogPath, nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve user config dir: %w", err)
	}
	dir := filepath.Join(base, "solkeep")
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("failed to create log directory: %w", err)
	}
	return filepath.Join(dir, "solkeep.log"), nil
}
