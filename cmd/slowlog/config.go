package main

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"github.com/tinytelemetry/slowlog/internal/model"
)

// appConfig is internal runtime configuration.
// It is package-private to keep defaults and shape local to the CLI entrypoint.
type appConfig struct {
	LogLevel      string `mapstructure:"log-level"`
	ListenAddr    string `mapstructure:"listen-addr"`
	MaxUploadMB   int    `mapstructure:"max-upload-mb"`
	SnippetLength int    `mapstructure:"snippet-length"`
	ConfigPath    string `mapstructure:"-"` // not from config file
}

func loadConfig(configPath string) (appConfig, error) {
	var cfg appConfig

	v := viper.New()
	v.SetEnvPrefix("SLOWLOG")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	v.SetDefault("log-level", model.DefaultLogLevel)
	v.SetDefault("listen-addr", model.DefaultListenAddr)
	v.SetDefault("max-upload-mb", model.DefaultMaxUploadMB)
	v.SetDefault("snippet-length", model.DefaultSnippetLen)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else if home, err := os.UserHomeDir(); err == nil {
		v.SetConfigFile(filepath.Join(home, ".config", "slowlog", "config.yml"))
	}

	if v.ConfigFileUsed() != "" {
		if err := v.ReadInConfig(); err != nil {
			var configFileNotFound viper.ConfigFileNotFoundError
			if !errors.As(err, &configFileNotFound) && !os.IsNotExist(err) {
				return cfg, errors.Wrap(err, "Failed to read config")
			}
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, errors.Wrap(err, "Failed to decode config")
	}
	cfg.ConfigPath = v.ConfigFileUsed()

	if cfg.MaxUploadMB <= 0 {
		return cfg, errors.Errorf("invalid max-upload-mb: %d", cfg.MaxUploadMB)
	}
	if cfg.SnippetLength <= 0 {
		return cfg, errors.Errorf("invalid snippet-length: %d", cfg.SnippetLength)
	}
	if strings.TrimSpace(cfg.ListenAddr) == "" {
		return cfg, errors.New("listen-addr must not be empty")
	}
	return cfg, nil
}
