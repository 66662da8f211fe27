package internal

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"

	"github.com/iksnae/captain-session/internal/api"
)

const envPrefix = "captain"

// Config is the client configuration. Values come from defaults, then the
// config file, then CAPTAIN_* environment variables.
type Config struct {
	BaseURL     string        `mapstructure:"base_url"`
	StatePath   string        `mapstructure:"state_path"`
	LogFile     string        `mapstructure:"log_file"`
	HTTPTimeout time.Duration `mapstructure:"http_timeout"`
}

// ConfigDir returns ~/.captain, or .captain when there is no home directory
func ConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".captain"
	}
	return filepath.Join(home, ".captain")
}

// LoadConfig reads configuration. With an empty path, config.yaml in
// ConfigDir is used if present; an explicit path must exist.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	dir := ConfigDir()

	v.SetDefault("base_url", api.DefaultBaseURL)
	v.SetDefault("state_path", filepath.Join(dir, "state.db"))
	v.SetDefault("log_file", filepath.Join(dir, "captain.log"))
	v.SetDefault("http_timeout", "0s")

	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	source := path
	if path != "" {
		v.SetConfigFile(path)
	} else {
		source = filepath.Join(dir, "config.yaml")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(dir)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, &ParseError{Source: "config", Key: source, Err: err}
		}
		LogDebug("No config file in %s, using defaults", dir)
	} else {
		LogDebug("Loaded config from %s", v.ConfigFileUsed())
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, &ParseError{Source: "config", Key: source, Err: err}
	}
	return &cfg, nil
}
