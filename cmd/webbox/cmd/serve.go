package cmd

import (
	"github.com/spf13/cobra"

	"github.com/oshokin/webbox/internal/service/server"
)

var (
	// serveTemplate overrides the template location for the daemon.
	serveTemplate string

	// serveCmd runs the generation daemon.
	serveCmd = &cobra.Command{
		Use:   "serve [listen-address]",
		Short: "Run the webbox gRPC daemon.",
		Long: `Starts a gRPC server that generates bundles on behalf of remote clients.

Progress is streamed to the caller while a generation runs.
Listen address can be provided as argument to override config (e.g., :50551, 127.0.0.1:9090).`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// Use listen address argument if provided, otherwise rely on config.
			var listenAddress string
			if len(args) > 0 {
				listenAddress = args[0]
			}

			return server.Run(cmd.Context(), &server.Options{
				ConfigPath:        cfgPath,
				ListenAddress:     listenAddress,
				TemplateDirectory: serveTemplate,
			})
		},
	}
)

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	serveCmd.Flags().StringVar(&serveTemplate, "template", "", "template bundle to clone")
}
