package cli

import (
	"github.com/spf13/cobra"
)

func newEntitiesCmd() *cobra.Command {
	var refresh bool

	cmd := &cobra.Command{
		Use:   "entities",
		Short: "List structures and vessels",
		Long: `List the structures and vessels last fetched from the game server,
grouped by playfield. Pass --refresh to query the server first; entity
queries are expensive on large saves, so the list is otherwise served
from the cache.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := NewOutput(cfg.Output)

			var result EntitiesResult
			if refresh {
				if err := client.Post("/api/v1/entities/refresh", nil, &result); err != nil {
					out.PrintError(err)
					return err
				}
			} else if err := client.Get("/api/v1/entities", &result); err != nil {
				out.PrintError(err)
				return err
			}

			out.Print(result)
			return nil
		},
	}

	cmd.Flags().BoolVar(&refresh, "refresh", false, "Query the game server before listing")

	return cmd
}
