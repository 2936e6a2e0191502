package cmd

import (
	"github.com/spf13/cobra"

	"github.com/oshokin/webbox/internal/service/client"
)

var (
	// generateOptions collects the flags of the generate command.
	generateOptions client.Options

	// generateCmd creates one bundle.
	generateCmd = &cobra.Command{
		Use:   "generate NAME URL ICON",
		Short: "Create a macOS app bundle for a website.",
		Long: `Creates NAME.app in the output directory from the configured template.

URL may omit the scheme ("notion.so" becomes "https://notion.so").
ICON is a PNG, JPEG, GIF, BMP, TIFF or WebP image, ideally at least 1024x1024.
An existing bundle with the same name is replaced atomically.
Use --remote to run the generation on a webbox daemon.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := generateOptions
			opts.ConfigPath = cfgPath
			opts.Name, opts.URL, opts.IconPath = args[0], args[1], args[2]
			opts.Output = cmd.OutOrStdout()

			_, err := client.Run(cmd.Context(), &opts)

			return err
		},
	}
)

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	flags := generateCmd.Flags()
	flags.StringVarP(&generateOptions.OutputDirectory, "output", "o", "", "directory that receives the bundle")
	flags.StringVarP(&generateOptions.RemoteAddress, "remote", "r", "", "address of a webbox daemon")
	flags.StringVar(&generateOptions.TemplateDirectory, "template", "", "template bundle to clone")
	flags.BoolVar(&generateOptions.Reveal, "reveal", false, "show the bundle in the file manager afterwards")
	flags.BoolVar(&generateOptions.Launch, "open", false, "launch the bundle afterwards")
}
