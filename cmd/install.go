/*
Copyright © 2026 Cristian Oliveira <license@cristianoliveira.dev>
*/
package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cristianoliveira/wardlink/internal/colors"
)

type installClient interface {
	Install(ctx context.Context, manifestPath string) error
}

// NewInstallCmd creates the install command with explicit dependencies.
func NewInstallCmd(client installClient) *cobra.Command {
	if client == nil {
		panic("NewInstallCmd: client dependency cannot be nil")
	}

	installCmd := &cobra.Command{
		Use:   "install <manifest>",
		Short: "Precache the asset manifest into a fresh cache generation",
		Long: `Fetch and cache every asset listed in the YAML manifest. The
install is all-or-nothing: if any asset fails, nothing is written and the
previous cache generation keeps serving. On success the new generation is
activated and older generations are deleted.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Install(cmd.Context(), args[0]); err != nil {
				return fmt.Errorf("install: %w", err)
			}
			colors.Success("Install complete, new cache generation active")
			return nil
		},
	}

	return installCmd
}

// installCmd represents the install command
var installCmd = NewInstallCmd(coreClient)

func init() {
	rootCmd.AddCommand(installCmd)
}
