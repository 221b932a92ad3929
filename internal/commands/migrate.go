package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mmynk/dues/internal/config"
	"github.com/mmynk/dues/internal/storage/mongo"
	"github.com/mmynk/dues/internal/storage/sqlite"
)

func newMigrateCommand(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations to the configured store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch cfg.DataBackend {
			case config.BackendSQLite:
				version, err := sqlite.RunMigrations(cfg.SQLiteDBPath)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "sqlite schema at version %d (%s)\n", version, cfg.SQLiteDBPath)
			case config.BackendMongo:
				// Connect creates the indexes.
				store, err := mongo.Connect(cmd.Context(), cfg.MongoURI, cfg.MongoDatabase)
				if err != nil {
					return err
				}
				defer store.Close()
				fmt.Fprintf(out, "mongo indexes ensured (%s)\n", cfg.MongoDatabase)
			default:
				fmt.Fprintf(out, "nothing to migrate for %s backend\n", cfg.DataBackend)
			}
			return nil
		},
	}
}
