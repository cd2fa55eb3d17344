package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-onboard/pkg/onboarding"
	"github.com/goliatone/go-onboard/pkg/orchestrator"
	"github.com/goliatone/go-onboard/pkg/renderers/tui"
)

func setupCmd(opts *rootOptions) *cobra.Command {
	var (
		identity string
		email    string
	)

	cmd := &cobra.Command{
		Use:   "setup",
		Short: "Run the account setup wizard in the terminal",
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

			out := cmd.OutOrStdout()
			if company, err := a.svc.CompanyOf(ctx, identity); err == nil {
				fmt.Fprintf(out, "%s already set up %s.\n", identity, company.Name)
				return nil
			} else if !errors.Is(err, onboarding.ErrNoCompany) {
				return err
			}

			prompt, err := tui.New(tui.WithOutput(out))
			if err != nil {
				return err
			}
			orch, err := a.orchestrator(ctx, prompt)
			if err != nil {
				return err
			}
			session, err := orch.Start(opts.cfg.Wizard.Flow,
				orchestrator.WithTheme(opts.cfg.Theme.Name, opts.cfg.Theme.Variant),
			)
			if err != nil {
				return err
			}
			if err := prompt.Run(ctx, session); err != nil {
				return err
			}

			values, err := session.Complete(ctx)
			if err != nil {
				return fmt.Errorf("complete %s: %w", opts.cfg.Wizard.Flow, err)
			}
			setup, err := a.svc.CompleteSetup(ctx, identity, email, values)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Successfully created your company.\n%s\n", setup.Company.FullAddress())
			return nil
		},
	}

	cmd.Flags().StringVar(&identity, "identity", "", "Identity provider user id")
	cmd.Flags().StringVar(&email, "email", "", "Representative email")
	return cmd
}
