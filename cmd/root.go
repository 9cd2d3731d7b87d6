package cmd

import (
	"github.com/spf13/cobra"

	"youtube-snapshot/config"
)

func Root(config *config.Config) *cobra.Command {
	rootCmd := &cobra.Command{}
	rootCmd.AddCommand(server(config))
	rootCmd.AddCommand(backfill(config))
	return rootCmd
}
