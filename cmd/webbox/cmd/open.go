package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/oshokin/webbox/internal/service/client"
)

var (
	// pathRemote sends reveal and launch to a daemon.
	pathRemote string

	// revealCmd shows a bundle in the file manager.
	revealCmd = newPathCommand("reveal PATH", "Show a generated bundle in the file manager.", client.Reveal)

	// launchCmd starts a bundle.
	launchCmd = newPathCommand("launch PATH", "Launch a generated bundle.", client.Launch)
)

func newPathCommand(use, short string, action func(context.Context, *client.PathOptions) error) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return action(cmd.Context(), &client.PathOptions{
				ConfigPath:    cfgPath,
				RemoteAddress: pathRemote,
				Path:          args[0],
			})
		},
	}

	cmd.Flags().StringVarP(&pathRemote, "remote", "r", "", "address of a webbox daemon")

	return cmd
}
