package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ssargent/pxlassets/pkg/storage"
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Copy every loaded asset into a Pebble database",
	Long: `Load the compiled shards and write each entry into a Pebble database
keyed by shard and asset key, for tools that want random access without
parsing shards.

Example:
  pxl export --out ./export`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out, _ := cmd.Flags().GetString("out")

		p, err := loadPipeline(cmd)
		if err != nil {
			return err
		}

		s, err := storage.NewExportStorage(out)
		if err != nil {
			return fmt.Errorf("failed to open export database: %w", err)
		}
		defer s.Close()

		id, count, err := s.Export(p)
		if err != nil {
			return err
		}

		cmd.Printf("Exported %d assets to %s (export %s)\n", count, out, id)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().String("glob", "", "Shard glob (defaults to the configured output)")
	exportCmd.Flags().String("out", "./export", "Directory of the Pebble database")
}
