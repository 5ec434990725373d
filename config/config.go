// Package config loads the settings of the nw command.
//
// Settings come, by increasing priority, from the defaults, an optional
// config file, an optional .env file and the NW_* environment variables.
// Command line flags are applied by the caller on top of the result.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/etnz/networth/remote"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the application configuration.
type Config struct {
	Storage StorageConfig
	Remote  RemoteConfig
	Assist  AssistConfig
}

// StorageConfig selects where the book is kept.
type StorageConfig struct {
	// Kind is "dir" or "sqlite".
	Kind string
	Path string
}

// RemoteConfig holds the remote services settings.
type RemoteConfig struct {
	RateURL string `mapstructure:"rate_url"`
}

// AssistConfig holds the assistant settings.
type AssistConfig struct {
	Model string
}

// Load reads the configuration. The config file is NW_CONFIG when set,
// otherwise config.yaml in the user config directory; a missing file is not
// an error.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("warning: ignoring .env: %v", err)
	}

	v := viper.New()
	v.SetDefault("storage.kind", "dir")
	v.SetDefault("storage.path", defaultDataDir())
	v.SetDefault("remote.rate_url", remote.DefaultRateURL)
	v.SetDefault("assist.model", "gemini-2.5-flash")

	v.SetConfigType("yaml")
	if path := os.Getenv("NW_CONFIG"); path != "" {
		v.SetConfigFile(path)
	} else {
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, "networth"))
		}
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("NW")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return c, nil
}

func defaultDataDir() string {
	if dir, err := os.UserHomeDir(); err == nil {
		return filepath.Join(dir, ".networth")
	}
	return ".networth"
}
