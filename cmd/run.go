/*
Copyright © 2026 Cristian Oliveira <license@cristianoliveira.dev>
*/
package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

type runClient interface {
	Run(ctx context.Context) error
}

// NewRunCmd creates the run command with explicit dependencies.
func NewRunCmd(client runClient) *cobra.Command {
	if client == nil {
		panic("NewRunCmd: client dependency cannot be nil")
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Start the live session client",
		Long: `Start the live session client: connect the notification and
system status channels, keep the notification tray current and refresh the
dashboard on a fixed cadence. Runs until interrupted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			if err := client.Run(ctx); err != nil {
				return fmt.Errorf("run: %w", err)
			}
			return nil
		},
	}

	runCmd.Flags().StringVar(&flagUserID, "user", "", "user id for the notification channel (env WARDLINK_USER_ID)")
	runCmd.Flags().StringVar(&flagCSRFToken, "csrf-token", "", "CSRF token for mutating API calls (env WARDLINK_CSRF_TOKEN)")
	runCmd.Flags().BoolVar(&flagNotify, "notify", false, "raise system notifications for incoming messages")

	return runCmd
}

// runCmd represents the run command
var runCmd = NewRunCmd(coreClient)

func init() {
	rootCmd.AddCommand(runCmd)
}
