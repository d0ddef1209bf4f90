package main

import (
	"context"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/EmmittRel/zeeno-analytics/internal/aggregator"
	"github.com/EmmittRel/zeeno-analytics/internal/api"
	"github.com/EmmittRel/zeeno-analytics/internal/cache"
	"github.com/EmmittRel/zeeno-analytics/internal/config"
	"github.com/EmmittRel/zeeno-analytics/internal/database"
	"github.com/EmmittRel/zeeno-analytics/internal/normalizer"
	"github.com/EmmittRel/zeeno-analytics/internal/poller"
	"github.com/EmmittRel/zeeno-analytics/internal/storage"
	"github.com/EmmittRel/zeeno-analytics/internal/utils"
	"github.com/EmmittRel/zeeno-analytics/internal/zeenopay"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("loading configuration")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	conn, err := database.NewClickHouseConnection(ctx, cfg.ClickHouseAddr, cfg.ClickHouseDB)
	if err != nil {
		log.Fatal().Err(err).Msg("connecting to ClickHouse")
	}
	defer conn.Close()

	minioStorage, err := storage.NewMinIOStorage(cfg.MinIOEndpoint, cfg.MinIOAccessKey, cfg.MinIOSecretKey, cfg.MinIOBucket, cfg.MinIOUseSSL)
	if err != nil {
		log.Fatal().Err(err).Msg("initializing MinIO storage")
	}

	client := zeenopay.NewClient(cfg.APIBaseURL, cfg.APIToken,
		zeenopay.WithCache(cache.New(), cfg.CacheTTL))

	agg := aggregator.NewAggregator()
	loader := database.NewVoteLoader(conn)
	exporter := storage.NewReportExporter(minioStorage)

	// One refresh pass: fetch everything, recompute from scratch, persist
	// and export. The pollers rerun this on their intervals.
	refresh := func(ctx context.Context) error {
		now := time.Now()
		snap, err := client.FetchSnapshot(ctx, cfg.EventID, now.AddDate(0, 0, -30), now)
		if err != nil {
			return err
		}

		payments := normalizer.FromSnapshot(snap)
		log.Info().
			Int("payments", len(payments)).
			Int("processors", len(utils.ExtractUniqueProcessors(payments))).
			Msg("snapshot normalized")

		if err := loader.Load(ctx, agg.DailyRows(payments)); err != nil {
			return err
		}

		names := make(map[int64]string, len(snap.Contestants))
		for _, c := range snap.Contestants {
			names[c.ID] = c.Name
		}
		entries := agg.Leaderboard(payments, names)

		if err := exporter.ExportLeaderboard(entries, cfg.EventID, now); err != nil {
			return err
		}

		utils.DisplayLeaderboard(entries)
		utils.DisplayRegionTotals(agg.Totals(payments, aggregator.ByRegion, aggregator.Options{IncludeUnattributed: true}))
		return nil
	}

	if err := refresh(ctx); err != nil {
		log.Fatal().Err(err).Msg("initial refresh pass failed")
	}

	go poller.New("nqr-feed", cfg.NQRPollInterval, refresh).Run(ctx)
	go poller.New("vote-activity", cfg.ActivityPollInterval, func(ctx context.Context) error {
		now := time.Now()
		snap, err := client.FetchSnapshot(ctx, cfg.EventID, now.AddDate(0, 0, -30), now)
		if err != nil {
			return err
		}
		series := agg.ActivitySeries(normalizer.FromSnapshot(snap))
		log.Info().Int("days", len(series)).Msg("activity series refreshed")
		return nil
	}).Run(ctx)

	server := api.NewServer(cfg.EventID, client, agg, conn)
	api.StartServer(cfg.ListenAddr, server)
}
