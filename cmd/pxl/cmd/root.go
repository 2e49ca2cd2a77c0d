package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/ssargent/pxlassets/pkg/config"
	"github.com/ssargent/pxlassets/pkg/di"
	"github.com/ssargent/pxlassets/pkg/logging"
	"github.com/ssargent/pxlassets/pkg/pipeline"
)

type configKey struct{}

var container *di.Container

// SetContainer injects the dependency container used by every command
func SetContainer(c *di.Container) {
	container = c
}

func getContainer() *di.Container {
	if container == nil {
		container = di.NewContainer()
	}
	return container
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "pxl",
	Short: "pxl - asset pipeline for game media",
	Long: `pxl compiles a folder of textures and sounds into size-capped shard
files and loads them back by key at runtime.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := cmd.Flags().GetString("config")
		levelFlag, _ := cmd.Flags().GetString("log-level")

		cfg := config.DefaultConfig()
		if config.ConfigExists(configPath) {
			loaded, err := config.LoadConfig(configPath)
			if err != nil {
				return err
			}
			cfg = loaded
		}

		level := cfg.Logging.Level
		if levelFlag != "" {
			level = levelFlag
		}
		if _, err := logging.Setup(level); err != nil {
			return err
		}
		slog.Debug("Configuration loaded", "path", configPath, "source_dir", cfg.SourceDir, "output_dir", cfg.OutputDir)

		cmd.SetContext(context.WithValue(cmd.Context(), configKey{}, cfg))
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringP("config", "c", config.DefaultConfigFile, "Path to the pxl configuration file")
	rootCmd.PersistentFlags().String("log-level", "", "Log level (debug, info, warn, error); overrides the config file")
}

// configFrom returns the configuration loaded by the root command
func configFrom(cmd *cobra.Command) (*config.Config, error) {
	cfg, ok := cmd.Context().Value(configKey{}).(*config.Config)
	if !ok {
		return nil, fmt.Errorf("configuration not loaded")
	}
	return cfg, nil
}

// loadPipeline loads the shards matched by --glob, or the configured pattern
func loadPipeline(cmd *cobra.Command) (*pipeline.Pipeline, error) {
	cfg, err := configFrom(cmd)
	if err != nil {
		return nil, err
	}

	pattern, _ := cmd.Flags().GetString("glob")
	if pattern == "" {
		pattern = cfg.RuntimePattern()
	}

	p, err := pipeline.New(pattern)
	if err != nil {
		return nil, err
	}
	if len(p.Shards()) == 0 {
		slog.Warn("No shards matched", "pattern", pattern)
	}
	return p, nil
}
