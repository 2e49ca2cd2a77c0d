package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/ssargent/pxlassets/pkg/compiler"
)

// compileCmd represents the compile command
var compileCmd = &cobra.Command{
	Use:   "compile",
	Short: "Pack a source folder into shard files",
	Long: `Discover every image and audio file under the source folder, pack them
into shards no larger than max_shard_size and write them to the output folder
together with a build manifest.

Shards left over from a previous, larger build are removed once the new
shards are written.

Examples:
  pxl compile
  pxl compile --source ./art --out ./build
  pxl compile --no-compress`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := configFrom(cmd)
		if err != nil {
			return err
		}

		source, _ := cmd.Flags().GetString("source")
		out, _ := cmd.Flags().GetString("out")
		noCompress, _ := cmd.Flags().GetBool("no-compress")
		if source == "" {
			source = cfg.SourceDir
		}
		if out == "" {
			out = cfg.OutputDir
		}

		c := compiler.New(compiler.Options{
			ImageExtensions:           cfg.ImageExtensions,
			AudioExtensions:           cfg.AudioExtensions,
			MaxShardSize:              cfg.MaxShardSize,
			DisableTextureCompression: noCompress || !cfg.CompressTextures,
			ImageDecoder:              getContainer().GetImageDecoder(),
		})

		dbs, err := c.CompileFolder(source)
		if err != nil {
			return err
		}

		if err := os.MkdirAll(out, 0750); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}

		files, err := c.WriteShards(out, cfg.ShardPrefix, dbs)
		if err != nil {
			return err
		}
		// Only once the new build is complete
		if _, err := c.RemoveStaleShards(out, cfg.ShardPrefix, len(dbs)); err != nil {
			return err
		}

		manifest, err := compiler.NewManifest(files, dbs)
		if err != nil {
			return err
		}
		if err := compiler.SaveManifest(manifest, filepath.Join(out, compiler.ManifestFileName)); err != nil {
			return err
		}

		entries, total := 0, 0
		for _, db := range dbs {
			entries += db.Len()
			total += db.TotalSize()
		}
		cmd.Printf("Compiled %d assets (%s) into %d shards, build %s\n",
			entries, humanize.IBytes(uint64(total)), len(dbs), manifest.BuildID)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(compileCmd)

	compileCmd.Flags().String("source", "", "Source folder (defaults to source_dir)")
	compileCmd.Flags().String("out", "", "Output folder (defaults to output_dir)")
	compileCmd.Flags().Bool("no-compress", false, "Store texture payloads uncompressed")
}
