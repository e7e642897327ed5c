/*
Copyright © 2026 Cristian Oliveira <license@cristianoliveira.dev>
*/
package cmd

import (
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "wardlink",
	Short: "Offline cache and live session companion for the hospital web app.",
	Long: `wardlink keeps the hospital administration web application usable
when the network is not: it precaches static assets, serves cached pages and
API responses while offline, and maintains reconnecting realtime channels
for notifications and system status.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.Version = Version
	rootCmd.CompletionOptions.HiddenDefaultCmd = true
}
