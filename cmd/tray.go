/*
Copyright © 2026 Cristian Oliveira <license@cristianoliveira.dev>
*/
package cmd

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/cristianoliveira/wardlink/internal/tui"
)

// NewTrayCmd creates the tray command with explicit dependencies.
func NewTrayCmd(client defaultClient) *cobra.Command {
	trayCmd := &cobra.Command{
		Use:   "tray",
		Short: "Open the interactive notification tray",
		Long: `Open the interactive notification tray. The session client runs
in the background and streams notifications into the view.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := client.newApp()
			if err != nil {
				return fmt.Errorf("tray: %w", err)
			}
			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()
			a.Session.Start(ctx)
			defer func() {
				a.Session.Stop()
				a.Close()
			}()

			program := tea.NewProgram(tui.NewModel(a.Session.Tray()), tea.WithAltScreen())
			if _, err := program.Run(); err != nil {
				return fmt.Errorf("tray: %w", err)
			}
			return nil
		},
	}

	trayCmd.Flags().StringVar(&flagUserID, "user", "", "user id for the notification channel (env WARDLINK_USER_ID)")
	trayCmd.Flags().StringVar(&flagCSRFToken, "csrf-token", "", "CSRF token for mutating API calls (env WARDLINK_CSRF_TOKEN)")

	return trayCmd
}

// trayCmd represents the tray command
var trayCmd = NewTrayCmd(coreClient)

func init() {
	rootCmd.AddCommand(trayCmd)
}
