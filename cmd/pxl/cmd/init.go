package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ssargent/pxlassets/pkg/config"
)

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init [source-dir]",
	Short: "Write a default pxl.yaml",
	Long: `Write a configuration file with default settings to the path given by
--config. The optional argument sets the source folder.

Examples:
  pxl init
  pxl init ./art --config ./art/pxl.yaml`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := cmd.Flags().GetString("config")
		force, _ := cmd.Flags().GetBool("force")

		if config.ConfigExists(configPath) && !force {
			cmd.Printf("Config already exists at %s. Use --force to overwrite.\n", configPath)
			return nil
		}

		sourceDir := ""
		if len(args) == 1 {
			sourceDir = args[0]
		}

		cfg, err := config.BootstrapConfig(configPath, sourceDir)
		if err != nil {
			return err
		}

		cmd.Printf("Wrote %s\n", configPath)
		cmd.Printf("Source folder: %s\n", cfg.SourceDir)
		cmd.Printf("\nCompile the assets with:\n  pxl compile --config %s\n", configPath)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().Bool("force", false, "Overwrite an existing configuration file")
}
