// Package config loads the configuration of the richtext command.
package config

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/xcms-dev/richtext/assets"
	"github.com/xcms-dev/richtext/extensions"
	"gopkg.in/yaml.v3"
)

// Config is the content of the configuration file.
type Config struct {
	LogLevel slog.Level `json:"LogLevel" yaml:"logLevel"`
	// Features are editor options. Empty means all of them.
	Features            []string     `json:"Features" yaml:"features" validate:"dive,required"`
	TransformPastedText *bool        `json:"TransformPastedText" yaml:"transformPastedText"`
	Assets              AssetsConfig `json:"Assets" yaml:"assets"`
	Server              ServerConfig `json:"Server" yaml:"server" validate:"required"`
}

// AssetsConfig locates the asset catalog used to render images.
type AssetsConfig struct {
	Catalog   string `json:"Catalog" yaml:"catalog" validate:"omitempty,filepath"`
	CacheSize int64  `json:"CacheSize" yaml:"cacheSize" validate:"gte=0"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Listen string `json:"Listen" yaml:"listen" validate:"required,hostname_port"`
}

// Default returns the configuration used without a configuration file.
func Default() *Config {
	return &Config{
		LogLevel: slog.LevelInfo,
		Assets:   AssetsConfig{CacheSize: assets.DefaultCacheSize},
		Server:   ServerConfig{Listen: "127.0.0.1:8080"},
	}
}

// LoadConfig reads the YAML file at path into config.
func LoadConfig(path string, config *Config) error {
	fileBytes, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return Parse(fileBytes, config)
}

// Parse decodes YAML into config, after expanding environment variables.
func Parse(data []byte, config *Config) error {
	expanded := []byte(os.ExpandEnv(string(data)))
	if err := yaml.Unmarshal(expanded, config); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// InitConfig loads the configuration file at path over the defaults and
// validates it. An empty path gives the defaults.
func InitConfig(path string) (*Config, error) {
	config := Default()
	if path != "" {
		if err := LoadConfig(path, config); err != nil {
			return nil, err
		}
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate checks the fields of the configuration, and that the features
// are known editor options.
func (c *Config) Validate() error {
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(c); err != nil {
		return err
	}
	_, err := c.Options()
	return err
}

// Options returns the enabled editor options.
func (c *Config) Options() ([]extensions.Option, error) {
	if len(c.Features) == 0 {
		return extensions.AllOptions(), nil
	}
	opts := make([]extensions.Option, 0, len(c.Features))
	for _, f := range c.Features {
		o, err := extensions.ParseOption(f)
		if err != nil {
			return nil, err
		}
		opts = append(opts, o)
	}
	return opts, nil
}

// PasteMarkdown returns the options of the Markdown paste handler.
func (c *Config) PasteMarkdown() extensions.PasteMarkdownOptions {
	opts := extensions.DefaultPasteMarkdownOptions()
	if c.TransformPastedText != nil {
		opts.TransformPastedText = *c.TransformPastedText
	}
	return opts
}
