package main

import (
	"encoding/json"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sumeshsheil/Budget-Travel-Packages-India-sub001/internal/infra/store"
	"github.com/sumeshsheil/Budget-Travel-Packages-India-sub001/internal/usecase"
)

func sweepCmd(v *viper.Viper) *cobra.Command {
	var staleAfter time.Duration

	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Move leads without recent activity to stale, once",
		Long: `Run the stale sweep a single time and print the result as JSON.

Leads in won, lost or stale are never touched.

Examples:
  crmctl sweep
  crmctl sweep --lead-store mongo --stale-after 240h`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := settings(v)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			db, err := openDB(ctx, cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			pipeline, err := store.Open(ctx, cfg, db)
			if err != nil {
				return err
			}
			defer pipeline.Close(ctx)

			sweeper := usecase.NewStaleSweeper(pipeline.Leads, pipeline.Activities, nil)
			sweeper.StaleAfter = staleAfter
			result, err := sweeper.Run(ctx)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(result)
		},
	}

	cmd.Flags().DurationVar(&staleAfter, "stale-after", usecase.DefaultStaleAfter, "inactivity before a lead goes stale")
	return cmd
}
