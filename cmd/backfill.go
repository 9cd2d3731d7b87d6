package cmd

import (
	"fmt"

	"cloud.google.com/go/civil"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"youtube-snapshot/config"
	"youtube-snapshot/repository"
	server2 "youtube-snapshot/server"
	"youtube-snapshot/service"
)

// backfillMaxRetries is higher than the daily run's cap: the backfill
// issues far more Analytics API calls and trips rate limits more often.
const backfillMaxRetries = 5

func backfill(cfg *config.Config) *cobra.Command {
	var startFlag, endFlag string

	cmd := &cobra.Command{
		Use:   "backfill",
		Short: "backfill historical analytics data for a date range",
		RunE: func(cmd *cobra.Command, args []string) error {
			startDate, err := civil.ParseDate(startFlag)
			if err != nil {
				return fmt.Errorf("parse --start: %w", err)
			}
			endDate, err := civil.ParseDate(endFlag)
			if err != nil {
				return fmt.Errorf("parse --end: %w", err)
			}

			ctx := server2.SetupLogger(cfg)

			repo, err := repository.NewRepo(ctx, cfg.ProjectID, cfg.Dataset)
			if err != nil {
				return err
			}
			defer func() {
				if err := repo.Close(); err != nil {
					zerolog.Ctx(ctx).Error().Err(err).Msg("failed to close warehouse client")
				}
			}()

			backfillCfg := *cfg
			backfillCfg.MaxRetries = backfillMaxRetries

			svc := service.NewBackfillService(server2.AnalyticsFactory(&backfillCfg), repo)
			summary, err := svc.Run(ctx, startDate, endDate)
			if err != nil {
				return err
			}

			zerolog.Ctx(ctx).Info().
				Int("analytics_rows", summary.AnalyticsRows).
				Int("traffic_rows", summary.TrafficRows).
				Int("errors", len(summary.AnalyticsError)).
				Msg("backfill finished")
			return nil
		},
	}

	cmd.Flags().StringVar(&startFlag, "start", "", "start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&endFlag, "end", "", "end date (YYYY-MM-DD)")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")

	return cmd
}
