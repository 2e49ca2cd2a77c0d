package cmd

import (
	"log/slog"

	"github.com/spf13/cobra"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Browse the compiled assets over HTTP",
	Long: `Load the compiled shards and serve a read-only asset browser with
JSON listings, raw payloads, texture thumbnails and Prometheus metrics.

Examples:
  pxl serve
  pxl serve --port 9000 --bind 0.0.0.0 --api-key=mysecretkey`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := configFrom(cmd)
		if err != nil {
			return err
		}

		port, _ := cmd.Flags().GetInt("port")
		bind, _ := cmd.Flags().GetString("bind")
		apiKey, _ := cmd.Flags().GetString("api-key")
		if !cmd.Flags().Changed("port") {
			port = cfg.Browser.Port
		}
		if bind == "" {
			bind = cfg.Browser.Bind
		}

		p, err := loadPipeline(cmd)
		if err != nil {
			return err
		}

		if apiKey == "" && bind != "127.0.0.1" && bind != "localhost" {
			slog.Warn("Serving without an API key on a non-loopback address", "bind", bind)
		}

		starter := getContainer().GetServerFactory().CreateServerStarter()
		return starter.StartServer(p, bind, port, apiKey)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("glob", "", "Shard glob (defaults to the configured output)")
	serveCmd.Flags().IntP("port", "p", 8080, "Port to listen on (defaults to browser.port)")
	serveCmd.Flags().String("bind", "", "Address to bind (defaults to browser.bind)")
	serveCmd.Flags().String("api-key", "", "Require this X-API-Key on /api/v1 routes")
}
