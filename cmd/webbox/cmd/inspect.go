package cmd

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/oshokin/webbox/internal/service/inspect"
)

var (
	// inspectJSON prints the report as JSON.
	inspectJSON bool

	// inspectCmd describes a generated bundle.
	inspectCmd = &cobra.Command{
		Use:   "inspect PATH",
		Short: "Show the configuration and icon of a generated bundle.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := inspect.Bundle(args[0])
			if err != nil {
				return err
			}

			if !inspectJSON {
				return report.Print(cmd.OutOrStdout())
			}

			encoder := json.NewEncoder(cmd.OutOrStdout())
			encoder.SetIndent("", "  ")

			return encoder.Encode(report)
		},
	}
)

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	inspectCmd.Flags().BoolVar(&inspectJSON, "json", false, "print the report as JSON")
}
