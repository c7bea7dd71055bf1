package spendapi

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/spf13/viper"
)

// TaxonomyScript points at a Lua rule set served under Name.
type TaxonomyScript struct {
	Name string `mapstructure:"name"` // Taxonomy name used in the filter tree URL
	Path string `mapstructure:"path"` // Path of the Lua script
}

// S3Config locates the bulk download bucket.
type S3Config struct {
	Bucket   string `mapstructure:"bucket"`
	Region   string `mapstructure:"region"`
	Endpoint string `mapstructure:"endpoint"` // S3 compatible endpoint, empty for AWS
	Profile  string `mapstructure:"profile"`  // Shared config profile, empty for the default chain
}

// Config is the API configuration persisted as config.yaml in the config directory.
type Config struct {
	viper           *viper.Viper
	ConfigDir       string           `mapstructure:"config_dir"`
	DatabasePath    string           `mapstructure:"database_path"`
	ListenAddress   string           `mapstructure:"listen_address"`
	LogLevel        string           `mapstructure:"log_level"`
	BaseURL         string           `mapstructure:"base_url"` // API used by the CLI client commands
	S3              S3Config         `mapstructure:"s3"`
	TaxonomyScripts []TaxonomyScript `mapstructure:"taxonomy_scripts"`
}

// LoadConfig reads config.yaml from configDir, writing it with the defaults first when
// it does not exist yet.
func LoadConfig(configDir string) (*Config, error) {
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return nil, fmt.Errorf("creating config dir %s: %w", configDir, err)
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configDir)
	v.SetDefault("config_dir", configDir)
	v.SetDefault("database_path", filepath.Join(configDir, "spendapi.db"))
	v.SetDefault("listen_address", "127.0.0.1:8000")
	v.SetDefault("log_level", "info")
	v.SetDefault("base_url", "http://127.0.0.1:8000")
	v.SetDefault("s3.bucket", "")
	v.SetDefault("s3.region", "us-gov-west-1")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.profile", "")
	v.SetDefault("taxonomy_scripts", []TaxonomyScript{})

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file : %w", err)
		}
		if err := v.SafeWriteConfig(); err != nil {
			return nil, fmt.Errorf("writing config file : %w", err)
		}
	}

	cfg := &Config{viper: v}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config to struct : %w", err)
	}
	cfg.ConfigDir = configDir
	return cfg, nil
}

// AddTaxonomyScript registers a Lua rule set and persists the configuration.
func (cfg *Config) AddTaxonomyScript(name, path string) error {
	if name == "" {
		return errors.New("taxonomy name is empty")
	}
	if slices.ContainsFunc(cfg.TaxonomyScripts, func(s TaxonomyScript) bool { return s.Name == name }) {
		return fmt.Errorf("taxonomy %s is already configured", name)
	}
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("checking taxonomy script %s: %w", path, err)
	}

	cfg.TaxonomyScripts = append(cfg.TaxonomyScripts, TaxonomyScript{Name: name, Path: path})
	return cfg.saveTaxonomyScripts()
}

// DeleteTaxonomyScript removes the Lua rule set registered under name and persists the configuration.
func (cfg *Config) DeleteTaxonomyScript(name string) error {
	cfg.TaxonomyScripts = slices.DeleteFunc(cfg.TaxonomyScripts, func(s TaxonomyScript) bool {
		return s.Name == name
	})
	return cfg.saveTaxonomyScripts()
}

func (cfg *Config) saveTaxonomyScripts() error {
	if cfg.viper == nil {
		return errors.New("config was not loaded from a config dir")
	}
	cfg.viper.Set("taxonomy_scripts", cfg.TaxonomyScripts)
	if err := cfg.viper.WriteConfig(); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}
	if err := cfg.viper.Unmarshal(cfg); err != nil {
		return fmt.Errorf("unmarshalling config to struct : %w", err)
	}
	return nil
}
