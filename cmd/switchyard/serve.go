package main

import (
	"fmt"

	"github.com/aretw0/switchyard"
	"github.com/aretw0/switchyard/internal/cli"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the introspection HTTP server",
	Long: `Serves the wizard flows, version resolution and recorded projects as JSON,
plus Prometheus metrics on /metrics.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		port, _ := cmd.Flags().GetInt("port")

		app, err := loadApp(cmd)
		if err != nil {
			return err
		}
		defer app.Close()

		addr := app.Config.MetricsAddr
		if cmd.Flags().Changed("port") || addr == "" {
			addr = fmt.Sprintf(":%d", port)
		}

		sigCtx := cli.NewSignalContext(cmd.Context())
		defer sigCtx.Cancel()
		return app.Serve(sigCtx, addr, switchyard.Version)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntP("port", "p", 8080, "Port to listen on (overrides metrics_addr)")
}
