package store

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/mohamedthameursassi/intermodal/internal/models"
)

// Seed bulk-inserts areas, nodes, edges and offers. This is a bootstrap
// path for `intermodal-cli seed`, not part of C1's read-only search-time
// contract (§4.1): nothing on the search path calls it.
func (s *Store) Seed(ctx context.Context, areas []models.Area, nodes []models.LocationNode, edges []models.EdgeLeg, offers []models.Offer) error {
	return s.Transaction(ctx, func(tx *sql.Tx) error {
		for _, a := range areas {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO area (id, name, kind, country_code, lat, lon, radius_km, parent_id)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?)
				ON CONFLICT(id) DO UPDATE SET name=excluded.name, lat=excluded.lat, lon=excluded.lon`,
				a.ID, a.Name, a.Kind, a.CountryCode, a.Lat, a.Lon, a.RadiusKm, a.ParentID); err != nil {
				return err
			}
		}

		if len(areas) > 0 {
			whole, err := loadAreasTx(ctx, tx)
			if err != nil {
				return err
			}
			if err := models.CheckAreaForest(whole); err != nil {
				return err
			}
		}

		for _, n := range nodes {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO location_node
					(id, external_ref, name, kind, area_id, lat, lon, hub,
					 mct_air_to_ground_min, mct_ground_to_air_min, mct_any_to_any_min,
					 country_code, timezone)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
				ON CONFLICT(id) DO UPDATE SET name=excluded.name, lat=excluded.lat, lon=excluded.lon`,
				n.ID, n.ExternalRef, n.Name, string(n.Kind), n.AreaID, n.Lat, n.Lon, n.Hub,
				n.MCTAirToGroundMin, n.MCTGroundToAirMin, n.MCTAnyToAnyMin, n.CountryCode, n.Timezone); err != nil {
				return err
			}
		}

		for _, e := range edges {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO edge_leg
					(id, from_id, to_id, mode, is_transfer, carrier_code, service_code,
					 distance_km, duration_min, mct_override_min, co_located, structure)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
				ON CONFLICT(id) DO UPDATE SET duration_min=excluded.duration_min`,
				e.ID, e.FromID, e.ToID, string(e.Mode), e.IsTransfer, e.CarrierCode, e.ServiceCode,
				e.DistanceKm, e.DurationMin, e.MCTOverrideMin, e.CoLocated, string(e.Structure)); err != nil {
				return err
			}
		}

		for _, o := range offers {
			metaJSON, _ := json.Marshal(o.Meta)
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO offer
					(id, edge_id, departure_utc, arrival_utc, price_total, currency,
					 source_type, provider, provider_ref, cache_ref, is_static,
					 retrieved_at, valid_from, valid_until, effective_from, last_verified_at,
					 ttl_hours, active, reliability_score, meta_json)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
				ON CONFLICT(id) DO UPDATE SET price_total=excluded.price_total`,
				o.ID, o.EdgeID, o.DepartureUTC, o.ArrivalUTC, o.PriceTotal, o.Currency,
				string(o.SourceType), o.Provider, o.ProviderRef, o.CacheRef, o.IsStatic,
				o.RetrievedAt, o.ValidFrom, o.ValidUntil, o.EffectiveFrom, o.LastVerifiedAt,
				o.TTLHours, o.Active, o.ReliabilityScore, string(metaJSON)); err != nil {
				return err
			}
		}
		return nil
	})
}

// loadAreasTx is LoadAreas run against an in-flight transaction, so Seed
// can validate the forest invariant (models.CheckAreaForest) against the
// post-insert set before committing.
func loadAreasTx(ctx context.Context, tx *sql.Tx) ([]models.Area, error) {
	rows, err := tx.QueryContext(ctx, `SELECT id, name, kind, country_code, lat, lon, radius_km, parent_id FROM area`)
	if err != nil {
		return nil, &models.PersistenceError{Kind: models.PersistenceUnavailable, Op: "loadAreasTx", Err: err}
	}
	defer rows.Close()

	var out []models.Area
	for rows.Next() {
		var a models.Area
		if err := rows.Scan(&a.ID, &a.Name, &a.Kind, &a.CountryCode, &a.Lat, &a.Lon, &a.RadiusKm, &a.ParentID); err != nil {
			return nil, &models.PersistenceError{Kind: models.PersistenceCorrupted, Op: "loadAreasTx", Err: err}
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
