package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/mohamedthameursassi/intermodal/internal/config"
	"github.com/mohamedthameursassi/intermodal/internal/graph"
	"github.com/mohamedthameursassi/intermodal/internal/models"
	"github.com/mohamedthameursassi/intermodal/internal/place"
	"github.com/mohamedthameursassi/intermodal/internal/search"
	"github.com/mohamedthameursassi/intermodal/internal/store"
	"github.com/mohamedthameursassi/intermodal/internal/transfer"
)

func searchCommand() *cli.Command {
	return &cli.Command{
		Name:  "search",
		Usage: "resolve an origin/destination pair and run one search",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "origin", Aliases: []string{"o"}, Required: true},
			&cli.StringFlag{Name: "destination", Aliases: []string{"d"}, Required: true},
			&cli.StringFlag{Name: "snapshot", Usage: "load the graph tables from a gob snapshot instead of the database"},
		},
		Action: runSearch,
	}
}

func runSearch(ctx context.Context, cmd *cli.Command) error {
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

	var src graph.DataSource = st
	if p := cmd.String("snapshot"); p != "" {
		snap, err := store.LoadSnapshot(p)
		if err != nil {
			return fmt.Errorf("load snapshot: %w", err)
		}
		src = snap
	}

	normalizer := place.New(st, place.NewStubGeocoder())
	scope := place.NewIDScope()

	origin, err := normalizer.Normalize(ctx, cmd.String("origin"), scope)
	if err != nil {
		return fmt.Errorf("normalize origin: %w", err)
	}
	dest, err := normalizer.Normalize(ctx, cmd.String("destination"), scope)
	if err != nil {
		return fmt.Errorf("normalize destination: %w", err)
	}

	extraNodes := append(append([]models.LocationNode{}, addressNodes(origin.Spec)...), addressNodes(dest.Spec)...)

	synth := transfer.New(cfg.Search.Rideshare, time.Now)
	g, err := graph.Build(ctx, src, extraNodes, cfg.Search, synth)
	if err != nil {
		return fmt.Errorf("build graph: %w", err)
	}

	engine := search.New(g, cfg.Search, time.Now)
	bundle, err := engine.Search(ctx, search.Request{
		OriginRaw:              cmd.String("origin"),
		DestRaw:                cmd.String("destination"),
		OriginNodes:            origin.Spec.NodeIDs(),
		DestNodes:              dest.Spec.NodeIDs(),
		OriginCandidateAreaIDs: origin.CandidateAreaIDs,
		OriginChosenAreaID:     origin.ChosenAreaID(),
		DestCandidateAreaIDs:   dest.CandidateAreaIDs,
		DestChosenAreaID:       dest.ChosenAreaID(),
	})
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(bundle)
}

func addressNodes(spec models.PlaceSpec) []models.LocationNode {
	if spec.Mode != models.MatchAddress {
		return nil
	}
	return spec.Nodes
}
