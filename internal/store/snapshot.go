package store

import (
	"context"
	"encoding/gob"
	"os"

	"github.com/mohamedthameursassi/intermodal/internal/models"
)

// Snapshot is a full in-memory copy of the three graph-assembly tables,
// gob-encoded for the CLI's fast-reload path so repeated `search` runs
// against a static dataset skip the sqlite round trip (§4 supplement;
// grounded on the teacher's graph_generators/json_to_gob.go encoder).
type Snapshot struct {
	Nodes  []models.LocationNode
	Edges  []models.EdgeLeg
	Offers []models.Offer
}

// WriteSnapshot reads the three tables from s and gob-encodes them to
// path.
func (s *Store) WriteSnapshot(ctx context.Context, path string) error {
	nodes, err := s.LoadNodes(ctx)
	if err != nil {
		return err
	}
	edges, err := s.LoadEdges(ctx)
	if err != nil {
		return err
	}
	offers, err := s.LoadOffers(ctx)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return &models.PersistenceError{Kind: models.PersistenceUnavailable, Op: "WriteSnapshot", Err: err}
	}
	defer f.Close()

	snap := Snapshot{Nodes: nodes, Edges: edges, Offers: offers}
	if err := gob.NewEncoder(f).Encode(snap); err != nil {
		return &models.PersistenceError{Kind: models.PersistenceCorrupted, Op: "WriteSnapshot", Err: err}
	}
	return nil
}

// LoadSnapshot decodes a gob snapshot written by WriteSnapshot. The
// result satisfies internal/graph.DataSource directly.
func LoadSnapshot(path string) (*Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &models.PersistenceError{Kind: models.PersistenceUnavailable, Op: "LoadSnapshot", Err: err}
	}
	defer f.Close()

	var snap Snapshot
	if err := gob.NewDecoder(f).Decode(&snap); err != nil {
		return nil, &models.PersistenceError{Kind: models.PersistenceCorrupted, Op: "LoadSnapshot", Err: err}
	}
	return &snap, nil
}

func (s *Snapshot) LoadNodes(context.Context) ([]models.LocationNode, error) { return s.Nodes, nil }
func (s *Snapshot) LoadEdges(context.Context) ([]models.EdgeLeg, error)      { return s.Edges, nil }
func (s *Snapshot) LoadOffers(context.Context) ([]models.Offer, error)       { return s.Offers, nil }
