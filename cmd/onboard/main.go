// Command onboard serves the onboarding application and offers terminal
// access to the same account setup wizard.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-onboard/internal/logging"
	"github.com/goliatone/go-onboard/pkg/config"
)

// rootOptions carries the persistent flags and the configuration they
// resolve to.
type rootOptions struct {
	configFile string
	logLevel   string
	logFormat  string
	dbPath     string

	cfg config.Config
}

func main() {
	if _, err := logging.Configure(os.Stderr, logging.FormatTint, logging.LevelWarn); err != nil {
		_, _ = os.Stderr.WriteString("configure logger: " + err.Error() + "\n")
		os.Exit(1)
	}

	if err := rootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "onboard",
		Short:         "Account onboarding wizard and dashboard",
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			cfg, err := config.Load(
				config.WithFile(opts.configFile),
				config.WithFlag("log.level", flags.Lookup("log-level")),
				config.WithFlag("log.format", flags.Lookup("log-format")),
				config.WithFlag("database.path", flags.Lookup("db")),
			)
			if err != nil {
				return err
			}
			opts.cfg = cfg
			_, err = logging.Configure(os.Stderr, cfg.Log.Format, cfg.Log.Level)
			return err
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.configFile, "config", "", "Config file (yaml, json or toml)")
	flags.StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	flags.StringVar(&opts.logFormat, "log-format", "", "Log format: tint, text, json")
	flags.StringVar(&opts.dbPath, "db", "", "SQLite database path")

	root.AddCommand(serveCmd(opts))
	root.AddCommand(setupCmd(opts))
	root.AddCommand(migrateCmd(opts))
	root.AddCommand(dashboardCmd(opts))
	return root
}
