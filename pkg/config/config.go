package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/ssargent/pxlassets/pkg/logging"
	"github.com/ssargent/pxlassets/pkg/shard"
)

// DefaultConfigFile is looked up in the working directory
const DefaultConfigFile = "pxl.yaml"

// Config represents the asset pipeline configuration
type Config struct {
	SourceDir        string   `yaml:"source_dir"`
	OutputDir        string   `yaml:"output_dir"`
	ShardPrefix      string   `yaml:"shard_prefix"`
	ShardGlob        string   `yaml:"shard_glob,omitempty"`
	MaxShardSize     int      `yaml:"max_shard_size"`
	CompressTextures bool     `yaml:"compress_textures"`
	ImageExtensions  []string `yaml:"image_extensions"`
	AudioExtensions  []string `yaml:"audio_extensions"`
	Browser          Browser  `yaml:"browser"`
	Logging          Logging  `yaml:"logging"`
}

// Browser contains asset browser configuration
type Browser struct {
	Port int    `yaml:"port"`
	Bind string `yaml:"bind"`
}

// Logging contains logging configuration
type Logging struct {
	Level string `yaml:"level"`
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		SourceDir:        "assets",
		OutputDir:        ".",
		ShardPrefix:      "assets-",
		MaxShardSize:     shard.MaxSize,
		CompressTextures: true,
		ImageExtensions:  []string{"png", "jpg", "bmp"},
		AudioExtensions:  []string{"ogg", "mp3"},
		Browser: Browser{
			Port: 8080,
			Bind: "127.0.0.1",
		},
		Logging: Logging{
			Level: "info",
		},
	}
}

// LoadConfig loads configuration from the specified path. Keys missing from
// the file keep their default value.
func LoadConfig(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file does not exist: %s", configPath)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", configPath, err)
	}

	return config, nil
}

// SaveConfig saves the configuration to the specified path
func SaveConfig(config *Config, configPath string) error {
	// Ensure config directory exists
	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// BootstrapConfig writes a default configuration pointing at sourceDir
func BootstrapConfig(configPath string, sourceDir string) (*Config, error) {
	config := DefaultConfig()
	if sourceDir != "" {
		config.SourceDir = sourceDir
	}

	if err := SaveConfig(config, configPath); err != nil {
		return nil, fmt.Errorf("failed to save bootstrap config: %w", err)
	}

	return config, nil
}

// Validate checks values that would otherwise fail deep inside a command
func (c *Config) Validate() error {
	if c.MaxShardSize <= 0 || c.MaxShardSize > shard.MaxSize {
		return fmt.Errorf("max_shard_size must be between 1 and %d, got %d", shard.MaxSize, c.MaxShardSize)
	}
	if c.ShardPrefix == "" {
		return fmt.Errorf("shard_prefix must not be empty")
	}
	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		return err
	}
	return nil
}

// RuntimePattern returns the glob used to discover shards at startup
func (c *Config) RuntimePattern() string {
	if c.ShardGlob != "" {
		return c.ShardGlob
	}
	return filepath.Join(c.OutputDir, c.ShardPrefix+"*"+shard.FileExtension)
}

// ConfigExists checks if a configuration file exists
func ConfigExists(configPath string) bool {
	_, err := os.Stat(configPath)
	return !os.IsNotExist(err)
}
