package utils

import (
	"errors"
	"fmt"
	"os"
	"path"

	"github.com/spf13/viper"
)

// Config is the configuration for the application
type Config struct {
	Records     int     `mapstructure:"records"`      // Number of fake clients to generate.
	Seed        int64   `mapstructure:"seed"`         // Generator seed, 0 picks one from the clock.
	RecordsFile string  `mapstructure:"records_file"` // JSON file of clients, replaces generation.
	LogPath     string  `mapstructure:"log_path"`     // Where the TUI writes its debug log.
	NameBoost   float64 `mapstructure:"name_boost"`   // Weight of name matches over other fields.
	Editor      string  `mapstructure:"editor"`       // Editor to open the records file with.
}

// ConfigDir returns where the config file and log live by default.
func ConfigDir() string {
	homedir, _ := os.UserHomeDir()
	return path.Join(homedir, "/.config/clients_search")
}

// DefaultConfigPath is the config file read when none is given.
func DefaultConfigPath() string {
	return path.Join(ConfigDir(), "config.yaml")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("records", 25)
	v.SetDefault("seed", 0)
	v.SetDefault("records_file", "")
	v.SetDefault("log_path", path.Join(ConfigDir(), "debug.log"))
	v.SetDefault("name_boost", 10.0)

	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = "vi"
	}
	v.SetDefault("editor", editor)
}

// NewConfig reads the config file at configPath, or the default path when
// empty. A missing file is not an error; defaults are used instead.
func NewConfig(configPath string) (*Config, error) {
	return LoadConfig(viper.New(), configPath)
}

// LoadConfig reads configuration into v and decodes it. Values already set
// on v (flags, overrides) take precedence over the file.
func LoadConfig(v *viper.Viper, configPath string) (*Config, error) {
	explicit := configPath != ""
	if !explicit {
		configPath = DefaultConfigPath()
	}

	v.SetConfigFile(configPath)
	v.SetEnvPrefix("clients_search")
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if explicit || !(errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist)) {
			return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
		}
	}

	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("unable to parse the config file: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate rejects values the application cannot run with.
func (c *Config) Validate() error {
	if c.Records < 0 {
		return fmt.Errorf("records must not be negative, got %d", c.Records)
	}
	if c.NameBoost <= 0 {
		return fmt.Errorf("name_boost must be positive, got %v", c.NameBoost)
	}
	return nil
}
