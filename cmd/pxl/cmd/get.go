package cmd

import (
	"fmt"
	"image"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/ssargent/pxlassets/pkg/codec"
)

// getCmd represents the get command
var getCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Look up an asset by key",
	Long: `Resolve a key against the loaded shards and print where it was found.
The first shard in load order that holds the key wins.

With --out the asset is written to a file: textures as PNG, everything else
as its raw payload.

Examples:
  pxl get world
  pxl get world --out world.png
  pxl get theme --out theme.ogg`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		key := args[0]
		out, _ := cmd.Flags().GetString("out")

		p, err := loadPipeline(cmd)
		if err != nil {
			return err
		}

		shardID, e, ok := p.Locate(key)
		if !ok {
			return fmt.Errorf("asset %q not found", key)
		}

		cmd.Printf("%s in %s: %s, compressed=%t\n",
			e, shardID, humanize.IBytes(uint64(len(e.Payload()))), e.Compressed())

		switch e.Type() {
		case codec.Texture:
			img, err := codec.DecodeTexture(e)
			if err != nil {
				return err
			}
			cmd.Printf("Dimensions: %dx%d\n", img.Bounds().Dx(), img.Bounds().Dy())
			if out != "" {
				return writePNG(out, img)
			}
		case codec.Audio:
			audio, err := codec.DecodeAudio(e, getContainer().GetAudioSystem())
			if err != nil {
				return err
			}
			cmd.Printf("Audio: %d bytes\n", audio.Len())
		}

		if out != "" && e.Type() != codec.Texture {
			if err := os.WriteFile(out, e.Payload(), 0644); err != nil {
				return fmt.Errorf("failed to write %s: %w", out, err)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(getCmd)

	getCmd.Flags().String("glob", "", "Shard glob (defaults to the configured output)")
	getCmd.Flags().String("out", "", "Write the asset to this file")
}

func writePNG(path string, img *image.NRGBA) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := codec.EncodePNG(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
