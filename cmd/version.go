/*
Copyright © 2026 Cristian Oliveira <license@cristianoliveira.dev>
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is the wardlink release version.
const Version = "0.1.0"

type versionClient interface {
	Version() string
}

// NewVersionCmd creates the version command with explicit dependencies.
func NewVersionCmd(client versionClient) *cobra.Command {
	if client == nil {
		panic("NewVersionCmd: client dependency cannot be nil")
	}

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  `Show the current version of wardlink.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "wardlink version %s\n", client.Version())
			return nil
		},
	}

	return versionCmd
}

// versionCmd represents the version command
var versionCmd = NewVersionCmd(coreClient)

func init() {
	rootCmd.AddCommand(versionCmd)
}
