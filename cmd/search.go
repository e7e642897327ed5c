/*
Copyright © 2026 Cristian Oliveira <license@cristianoliveira.dev>
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cristianoliveira/wardlink/internal/search"
)

type searchClient interface {
	Lookup(query string) []search.Record
}

// NewSearchCmd creates the search command with explicit dependencies.
func NewSearchCmd(client searchClient) *cobra.Command {
	if client == nil {
		panic("NewSearchCmd: client dependency cannot be nil")
	}

	searchCmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Look up search suggestions",
		Long: `Look up search suggestions for a query. Queries shorter than
two characters return nothing; at most five results are shown.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := args[0]
			if len(query) < search.MinQueryLength {
				return nil
			}
			for _, rec := range client.Lookup(query) {
				fmt.Fprintf(cmd.OutOrStdout(), "%-8s %-10s %s\n", rec.ID, rec.Kind, rec.Name)
			}
			return nil
		},
	}

	return searchCmd
}

// searchCmd represents the search command
var searchCmd = NewSearchCmd(coreClient)

func init() {
	rootCmd.AddCommand(searchCmd)
}
