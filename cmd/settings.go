/*
Copyright © 2026 Cristian Oliveira <license@cristianoliveira.dev>
*/
package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/cristianoliveira/wardlink/internal/colors"
	"github.com/cristianoliveira/wardlink/internal/settings"
)

type settingsClient interface {
	LoadSettings() (*settings.Settings, error)
	SaveSettings(s *settings.Settings) error
}

// NewSettingsCmd creates the settings command with explicit dependencies.
func NewSettingsCmd(client settingsClient) *cobra.Command {
	if client == nil {
		panic("NewSettingsCmd: client dependency cannot be nil")
	}

	settingsCmd := &cobra.Command{
		Use:   "settings",
		Short: "Inspect or change persisted preferences",
		Long:  `Inspect or change the persisted user preferences (theme, sidebar).`,
	}

	getCmd := &cobra.Command{
		Use:   "get",
		Short: "Print the current preferences",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := client.LoadSettings()
			if err != nil {
				return fmt.Errorf("settings get: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s=%s\n", settings.KeyTheme, s.Theme)
			fmt.Fprintf(cmd.OutOrStdout(), "%s=%t\n", settings.KeySidebar, s.SidebarOpen)
			return nil
		},
	}

	setCmd := &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Change a preference",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := client.LoadSettings()
			if err != nil {
				return fmt.Errorf("settings set: %w", err)
			}
			key, value := args[0], args[1]
			switch key {
			case settings.KeyTheme:
				s.Theme = value
			case settings.KeySidebar:
				open, err := strconv.ParseBool(value)
				if err != nil {
					return fmt.Errorf("settings set: %s must be true or false", settings.KeySidebar)
				}
				s.SidebarOpen = open
			default:
				return fmt.Errorf("settings set: unknown key %q", key)
			}
			if err := client.SaveSettings(s); err != nil {
				return fmt.Errorf("settings set: %w", err)
			}
			colors.Success(fmt.Sprintf("%s updated", key))
			return nil
		},
	}

	settingsCmd.AddCommand(getCmd, setCmd)
	return settingsCmd
}

// settingsCmd represents the settings command
var settingsCmd = NewSettingsCmd(coreClient)

func init() {
	rootCmd.AddCommand(settingsCmd)
}
