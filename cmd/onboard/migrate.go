package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-onboard/internal/store/sqlite"
)

func migrateCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := sqlite.Open(opts.cfg.Database.Path)
			if err != nil {
				return err
			}
			defer store.Close()

			applied, err := store.Migrate(ctx)
			if err != nil {
				return err
			}
			version, err := store.Version(ctx)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, name := range applied {
				fmt.Fprintf(out, "applied %s\n", name)
			}
			fmt.Fprintf(out, "%s at version %d\n", opts.cfg.Database.Path, version)
			return nil
		},
	}
}
