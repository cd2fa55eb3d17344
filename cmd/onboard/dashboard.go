package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func dashboardCmd(opts *rootOptions) *cobra.Command {
	var identity string

	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Print a user's dashboard summary as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(identity) == "" {
				return fmt.Errorf("--identity is required")
			}
			ctx := cmd.Context()
			a, err := openApp(ctx, opts.cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			dashboard, err := a.svc.Dashboard(ctx, identity)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(dashboard)
		},
	}

	cmd.Flags().StringVar(&identity, "identity", "", "Identity provider user id")
	return cmd
}
