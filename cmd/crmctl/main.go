package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sumeshsheil/Budget-Travel-Packages-India-sub001/internal/config"
	"github.com/sumeshsheil/Budget-Travel-Packages-India-sub001/internal/infra/database"
)

var Version = "dev"

func main() {
	_ = godotenv.Load()

	if err := newRootCmd(viper.New()).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd(v *viper.Viper) *cobra.Command {
	root := &cobra.Command{
		Use:           "crmctl",
		Short:         "Operator tasks for the travel CRM backend",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()
	flags.String("database-url", "", "PostgreSQL connection string (env DATABASE_URL)")
	flags.String("lead-store", config.StorePostgres, "pipeline store: postgres, mongo or memory (env LEAD_STORE)")
	flags.String("mongo-uri", "mongodb://localhost:27017", "MongoDB URI (env MONGO_URI)")
	flags.String("mongo-db", "travel_crm", "MongoDB database (env MONGO_DB)")

	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	for _, name := range []string{"database-url", "lead-store", "mongo-uri", "mongo-db"} {
		_ = v.BindPFlag(name, flags.Lookup(name))
	}

	root.AddCommand(migrateCmd(v))
	root.AddCommand(sweepCmd(v))
	root.AddCommand(createAdminCmd(v))
	return root
}

// settings resolves flags over environment over defaults.
func settings(v *viper.Viper) (*config.Config, error) {
	cfg := &config.Config{
		DatabaseURL: v.GetString("database-url"),
		LeadStore:   v.GetString("lead-store"),
		MongoURI:    v.GetString("mongo-uri"),
		MongoDB:     v.GetString("mongo-db"),
	}
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("database url is required (--database-url or DATABASE_URL)")
	}
	return cfg, nil
}

func openDB(ctx context.Context, cfg *config.Config) (*sql.DB, error) {
	db, err := database.NewDBConnection(cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}
