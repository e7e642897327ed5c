/*
Copyright © 2026 Cristian Oliveira <license@cristianoliveira.dev>
*/
package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/cristianoliveira/wardlink/internal/app"
)

type statusClient interface {
	Status() (app.Status, error)
}

// NewStatusCmd creates the status command with explicit dependencies.
func NewStatusCmd(client statusClient) *cobra.Command {
	if client == nil {
		panic("NewStatusCmd: client dependency cannot be nil")
	}

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show cache and session status",
		Long:  `Show the cache backend, the active generation and its partition sizes.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := client.Status()
			if err != nil {
				return fmt.Errorf("status: %w", err)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "backend:  %s\n", s.Backend)
			fmt.Fprintf(out, "version:  %s\n", s.Version)
			fmt.Fprintf(out, "active:   %t\n", s.Active)
			fmt.Fprintf(out, "unread:   %d\n", s.Unread)
			names := make([]string, 0, len(s.Partitions))
			for name := range s.Partitions {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				fmt.Fprintf(out, "partition %-14s %d entries\n", name, s.Partitions[name])
			}
			return nil
		},
	}

	return statusCmd
}

// statusCmd represents the status command
var statusCmd = NewStatusCmd(coreClient)

func init() {
	rootCmd.AddCommand(statusCmd)
}
