package commands

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/mmynk/dues/internal/buildinfo"
	"github.com/mmynk/dues/internal/config"
	"github.com/mmynk/dues/pkg/logging"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	var envFile string
	cfg := &config.Config{}

	rootCmd := &cobra.Command{
		Use:     "dues",
		Short:   "Shared expense tracker that settles who owes whom",
		Version: buildinfo.String(),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if envFile != "" {
				if err := godotenv.Load(envFile); err != nil {
					return fmt.Errorf("loading %s: %w", envFile, err)
				}
			} else {
				// A missing .env is fine; the environment alone may be enough.
				_ = godotenv.Load()
			}

			*cfg = *config.Load()
			if err := cfg.Validate(); err != nil {
				return err
			}
			logging.Setup(cfg.LogLevel, cfg.LogFormat)
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "load environment variables from this file")

	rootCmd.AddCommand(
		newServeCommand(cfg),
		newMigrateCommand(cfg),
		newSettleCommand(cfg),
		newVersionCommand(),
	)

	return rootCmd
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		// Printing the version needs no configuration.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), "dues", buildinfo.String())
			return err
		},
	}
}
