package commands

import (
	"github.com/k0kubun/pp"
	"github.com/spf13/cobra"

	"segprep/internal/appconfig"
)

func (a *app) showCmd() *cobra.Command {
	show := &cobra.Command{
		Use:   "show",
		Short: "Show information about the current setup",
	}

	var dump bool
	config := &cobra.Command{
		Use:   "config",
		Short: "Print the merged configuration",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			if dump {
				pp.Fprintln(cmd.OutOrStdout(), a.cfg)
				return
			}
			appconfig.ShowConfig(cmd.OutOrStdout(), a.cfg.ConfigPath, a.cfg)
		},
	}
	config.Flags().BoolVar(&dump, "dump", false, "pretty-print the raw config struct")
	show.AddCommand(config)
	return show
}
