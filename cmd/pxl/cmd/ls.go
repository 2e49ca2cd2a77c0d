package cmd

import (
	"fmt"
	"sort"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/ssargent/pxlassets/pkg/codec"
)

// lsCmd represents the ls command
var lsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List the assets of the compiled shards",
	Long: `Load every shard matched by the runtime glob and list its entries in
load order.

Examples:
  pxl ls
  pxl ls --type Texture
  pxl ls --glob 'build/assets-*.pxl'`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		typeName, _ := cmd.Flags().GetString("type")
		summary, _ := cmd.Flags().GetBool("summary")

		var typeFilter *codec.EntryType
		if typeName != "" {
			t, err := codec.ParseEntryType(typeName)
			if err != nil {
				return err
			}
			typeFilter = &t
		}

		p, err := loadPipeline(cmd)
		if err != nil {
			return err
		}

		if summary {
			s := p.Stats()
			cmd.Printf("%d shards, %d entries, %s\n", s.Shards, s.Entries, humanize.IBytes(uint64(s.TotalBytes)))
			types := make([]string, 0, len(s.ByType))
			for t := range s.ByType {
				types = append(types, t)
			}
			sort.Strings(types)
			for _, t := range types {
				cmd.Printf("  %-16s %d\n", t, s.ByType[t])
			}
			return nil
		}

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "SHARD\tKEY\tTYPE\tSIZE\tCOMPRESSED")
		for _, id := range p.Shards() {
			db, _ := p.Database(id)
			for _, e := range db.Iter() {
				if typeFilter != nil && e.Type() != *typeFilter {
					continue
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%t\n",
					id, e.Key(), e.Type(), humanize.IBytes(uint64(len(e.Payload()))), e.Compressed())
			}
		}
		return tw.Flush()
	},
}

func init() {
	rootCmd.AddCommand(lsCmd)

	lsCmd.Flags().String("glob", "", "Shard glob (defaults to the configured output)")
	lsCmd.Flags().String("type", "", "Only list entries of this type (Texture, Audio, ...)")
	lsCmd.Flags().Bool("summary", false, "Print totals instead of every entry")
}
