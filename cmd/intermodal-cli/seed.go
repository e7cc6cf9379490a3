package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/mohamedthameursassi/intermodal/internal/config"
	"github.com/mohamedthameursassi/intermodal/internal/models"
	"github.com/mohamedthameursassi/intermodal/internal/provider/transit"
	"github.com/mohamedthameursassi/intermodal/internal/store"
)

func seedCommand() *cli.Command {
	return &cli.Command{
		Name:  "seed",
		Usage: "load the illustrative sample dataset and optionally write a gob snapshot",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "snapshot-out", Usage: "write a gob snapshot of the seeded tables to this path"},
			&cli.BoolFlag{Name: "with-transit", Usage: "also fetch a live Google Directions transit leg (requires GOOGLE_MAPS_API_KEY)"},
		},
		Action: runSeed,
	}
}

func runSeed(ctx context.Context, cmd *cli.Command) error {
	log := slog.Default()

	cfg := config.Default()
	if _, err := os.Stat(cmd.String("config")); err == nil {
		if err := config.Load(cmd.String("config"), cfg); err != nil {
			return fmt.Errorf("load config: %w", err)
		}
	}

	st, err := store.Open(store.Config{Path: cfg.Store.Path}, log)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	if err := st.Migrate(ctx); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	areas, nodes, edges, offers := sampleDataset()

	if cmd.Bool("with-transit") {
		apiKey := os.Getenv("GOOGLE_MAPS_API_KEY")
		if apiKey == "" {
			log.Warn("--with-transit set but GOOGLE_MAPS_API_KEY is empty, skipping")
		} else {
			tcfg := transit.Config{APIKey: apiKey}
			seeded, err := transit.SeedOffers(ctx, tcfg, edges[0].ID, nodes[0].Lat, nodes[0].Lon, nodes[1].Lat, nodes[1].Lon)
			if err != nil {
				log.Warn("transit seed fetch failed", slog.String("error", err.Error()))
			} else {
				offers = append(offers, seeded...)
			}
		}
	}

	if err := st.Seed(ctx, areas, nodes, edges, offers); err != nil {
		return fmt.Errorf("seed: %w", err)
	}
	log.Info("seeded sample dataset", slog.Int("areas", len(areas)), slog.Int("nodes", len(nodes)),
		slog.Int("edges", len(edges)), slog.Int("offers", len(offers)))

	if p := cmd.String("snapshot-out"); p != "" {
		if err := st.WriteSnapshot(ctx, p); err != nil {
			return fmt.Errorf("write snapshot: %w", err)
		}
		log.Info("wrote gob snapshot", slog.String("path", p))
	}

	return nil
}

// sampleDataset is a small, hand-built door-to-door scenario: two hub
// airports, their host-city areas, a direct flight, and ground legs to a
// hotel node on each side. It exists so `seed` produces a graph that
// `search` can immediately run against without any live provider calls.
func sampleDataset() ([]models.Area, []models.LocationNode, []models.EdgeLeg, []models.Offer) {
	now := time.Now().UTC()

	areas := []models.Area{
		{ID: "area:BOS", Name: "Boston", Kind: "metro", CountryCode: "US", Lat: 42.3601, Lon: -71.0589, RadiusKm: 40},
		{ID: "area:JFK", Name: "New York", Kind: "metro", CountryCode: "US", Lat: 40.7128, Lon: -74.0060, RadiusKm: 60},
	}

	nodes := []models.LocationNode{
		{ID: 1, ExternalRef: "IATA:BOS", Name: "Boston Logan International", Kind: models.KindAirport,
			AreaID: "area:BOS", Lat: 42.3656, Lon: -71.0096, Hub: true, MCTAirToGroundMin: 30, MCTGroundToAirMin: 45,
			MCTAnyToAnyMin: 20, CountryCode: "US", Timezone: "America/New_York"},
		{ID: 2, ExternalRef: "IATA:JFK", Name: "John F. Kennedy International", Kind: models.KindAirport,
			AreaID: "area:JFK", Lat: 40.6413, Lon: -73.7781, Hub: true, MCTAirToGroundMin: 35, MCTGroundToAirMin: 50,
			MCTAnyToAnyMin: 25, CountryCode: "US", Timezone: "America/New_York"},
		{ID: 3, ExternalRef: "", Name: "Downtown Boston Hotel", Kind: models.KindHotel,
			AreaID: "area:BOS", Lat: 42.3550, Lon: -71.0600, Hub: false, CountryCode: "US", Timezone: "America/New_York"},
		{ID: 4, ExternalRef: "", Name: "Midtown Manhattan Hotel", Kind: models.KindHotel,
			AreaID: "area:JFK", Lat: 40.7549, Lon: -73.9840, Hub: false, CountryCode: "US", Timezone: "America/New_York"},
	}

	distBOSJFK := 300.0
	edges := []models.EdgeLeg{
		{ID: 100, FromID: 1, ToID: 2, Mode: models.ModeFlight, IsTransfer: false,
			CarrierCode: "B6", ServiceCode: "B6100", DistanceKm: &distBOSJFK, DurationMin: 95, Structure: models.StructureStatic},
		{ID: 101, FromID: 3, ToID: 1, Mode: models.ModeRideshare, IsTransfer: true,
			DurationMin: 25, Structure: models.StructureDynamicTemplate},
		{ID: 102, FromID: 2, ToID: 4, Mode: models.ModeRideshare, IsTransfer: true,
			DurationMin: 40, Structure: models.StructureDynamicTemplate},
	}

	offers := []models.Offer{
		{ID: 1000, EdgeID: 100, DepartureUTC: now.Add(24 * time.Hour), ArrivalUTC: now.Add(24*time.Hour + 95*time.Minute),
			PriceTotal: 189.00, Currency: "USD", SourceType: models.SourceManualStatic, Provider: "seed",
			IsStatic: false, RetrievedAt: now, EffectiveFrom: now, LastVerifiedAt: now, TTLHours: 24, Active: true},
	}

	return areas, nodes, edges, offers
}
