package cmd

import (
	"github.com/spf13/cobra"

	"github.com/oshokin/webbox/internal/service/packager"
)

var (
	// templateOptions collects the flags of template init.
	templateOptions packager.Options

	// templateCmd groups template maintenance commands.
	templateCmd = &cobra.Command{
		Use:   "template",
		Short: "Manage the template bundle.",
	}

	// templateInitCmd scaffolds a template around a runtime executable.
	templateInitCmd = &cobra.Command{
		Use:   "init DIR",
		Short: "Create a template bundle around a runtime executable.",
		Long: `Creates DIR as a template bundle containing the runtime, a default
Info.plist and the notification bridge, then records its location in the
configuration file so later generations find it.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := templateOptions
			opts.ConfigPath = cfgPath
			opts.Directory = args[0]

			_, err := packager.Run(cmd.Context(), &opts)

			return err
		},
	}
)

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	flags := templateInitCmd.Flags()
	flags.StringVar(&templateOptions.RuntimePath, "runtime", "", "runtime executable to embed")
	flags.BoolVar(&templateOptions.SkipSettings, "no-save", false, "do not record the template in the configuration file")

	if err := templateInitCmd.MarkFlagRequired("runtime"); err != nil {
		panic(err)
	}

	templateCmd.AddCommand(templateInitCmd)
}
