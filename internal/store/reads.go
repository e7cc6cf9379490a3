package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/mohamedthameursassi/intermodal/internal/models"
)

// LoadNodes reads the full location_node table, satisfying
// internal/graph.DataSource.
func (s *Store) LoadNodes(ctx context.Context) ([]models.LocationNode, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, external_ref, name, kind, area_id, lat, lon, hub,
		       mct_air_to_ground_min, mct_ground_to_air_min, mct_any_to_any_min,
		       country_code, timezone
		FROM location_node`)
	if err != nil {
		return nil, &models.PersistenceError{Kind: models.PersistenceUnavailable, Op: "LoadNodes", Err: err}
	}
	defer rows.Close()

	var out []models.LocationNode
	for rows.Next() {
		var n models.LocationNode
		var kind string
		if err := rows.Scan(&n.ID, &n.ExternalRef, &n.Name, &kind, &n.AreaID, &n.Lat, &n.Lon, &n.Hub,
			&n.MCTAirToGroundMin, &n.MCTGroundToAirMin, &n.MCTAnyToAnyMin, &n.CountryCode, &n.Timezone); err != nil {
			return nil, &models.PersistenceError{Kind: models.PersistenceCorrupted, Op: "LoadNodes", Err: err}
		}
		n.Kind = models.NodeKind(kind)
		out = append(out, n)
	}
	if err := rows.Err(); err != nil {
		return nil, &models.PersistenceError{Kind: models.PersistenceCorrupted, Op: "LoadNodes", Err: err}
	}
	return out, nil
}

// LoadEdges reads the full edge_leg table, satisfying
// internal/graph.DataSource.
func (s *Store) LoadEdges(ctx context.Context) ([]models.EdgeLeg, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, from_id, to_id, mode, is_transfer, carrier_code, service_code,
		       distance_km, duration_min, mct_override_min, co_located, structure
		FROM edge_leg`)
	if err != nil {
		return nil, &models.PersistenceError{Kind: models.PersistenceUnavailable, Op: "LoadEdges", Err: err}
	}
	defer rows.Close()

	var out []models.EdgeLeg
	for rows.Next() {
		var e models.EdgeLeg
		var mode, structure string
		var distanceKm sql.NullFloat64
		var mctOverride sql.NullInt64
		if err := rows.Scan(&e.ID, &e.FromID, &e.ToID, &mode, &e.IsTransfer, &e.CarrierCode, &e.ServiceCode,
			&distanceKm, &e.DurationMin, &mctOverride, &e.CoLocated, &structure); err != nil {
			return nil, &models.PersistenceError{Kind: models.PersistenceCorrupted, Op: "LoadEdges", Err: err}
		}
		e.Mode = models.Mode(mode)
		e.Structure = models.StructureType(structure)
		if distanceKm.Valid {
			v := distanceKm.Float64
			e.DistanceKm = &v
		}
		if mctOverride.Valid {
			v := int(mctOverride.Int64)
			e.MCTOverrideMin = &v
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, &models.PersistenceError{Kind: models.PersistenceCorrupted, Op: "LoadEdges", Err: err}
	}
	return out, nil
}

// LoadOffers reads the full offer table, satisfying
// internal/graph.DataSource.
func (s *Store) LoadOffers(ctx context.Context) ([]models.Offer, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, edge_id, departure_utc, arrival_utc, price_total, currency,
		       source_type, provider, provider_ref, cache_ref, is_static,
		       retrieved_at, valid_from, valid_until, effective_from, last_verified_at,
		       ttl_hours, active, reliability_score, meta_json
		FROM offer WHERE active = 1`)
	if err != nil {
		return nil, &models.PersistenceError{Kind: models.PersistenceUnavailable, Op: "LoadOffers", Err: err}
	}
	defer rows.Close()

	var out []models.Offer
	for rows.Next() {
		o, err := scanOffer(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, &models.PersistenceError{Kind: models.PersistenceCorrupted, Op: "LoadOffers", Err: err}
	}
	return out, nil
}

func scanOffer(rows *sql.Rows) (models.Offer, error) {
	var o models.Offer
	var sourceType string
	var reliability sql.NullFloat64
	var metaJSON string
	var retrievedAt, validFrom, validUntil, effectiveFrom, lastVerifiedAt sql.NullTime

	if err := rows.Scan(&o.ID, &o.EdgeID, &o.DepartureUTC, &o.ArrivalUTC, &o.PriceTotal, &o.Currency,
		&sourceType, &o.Provider, &o.ProviderRef, &o.CacheRef, &o.IsStatic,
		&retrievedAt, &validFrom, &validUntil, &effectiveFrom, &lastVerifiedAt,
		&o.TTLHours, &o.Active, &reliability, &metaJSON); err != nil {
		return models.Offer{}, &models.PersistenceError{Kind: models.PersistenceCorrupted, Op: "scanOffer", Err: err}
	}

	o.SourceType = models.SourceType(sourceType)
	if reliability.Valid {
		v := reliability.Float64
		o.ReliabilityScore = &v
	}
	o.RetrievedAt = zeroIfInvalid(retrievedAt)
	o.ValidFrom = zeroIfInvalid(validFrom)
	o.ValidUntil = zeroIfInvalid(validUntil)
	o.EffectiveFrom = zeroIfInvalid(effectiveFrom)
	o.LastVerifiedAt = zeroIfInvalid(lastVerifiedAt)

	if metaJSON != "" {
		meta := make(map[string]any)
		if err := json.Unmarshal([]byte(metaJSON), &meta); err == nil {
			o.Meta = meta
		}
	}
	return o, nil
}

func zeroIfInvalid(t sql.NullTime) time.Time {
	if !t.Valid {
		return time.Time{}
	}
	return t.Time
}

// LoadAreas reads the full area table.
func (s *Store) LoadAreas(ctx context.Context) ([]models.Area, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, kind, country_code, lat, lon, radius_km, parent_id FROM area`)
	if err != nil {
		return nil, &models.PersistenceError{Kind: models.PersistenceUnavailable, Op: "LoadAreas", Err: err}
	}
	defer rows.Close()

	var out []models.Area
	for rows.Next() {
		var a models.Area
		if err := rows.Scan(&a.ID, &a.Name, &a.Kind, &a.CountryCode, &a.Lat, &a.Lon, &a.RadiusKm, &a.ParentID); err != nil {
			return nil, &models.PersistenceError{Kind: models.PersistenceCorrupted, Op: "LoadAreas", Err: err}
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// FindAreasByName performs the fuzzy substring lookup the place
// normalizer needs (§4.1, §4.4), satisfying internal/place.AreaSource.
func (s *Store) FindAreasByName(ctx context.Context, substr string) ([]models.Area, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, kind, country_code, lat, lon, radius_km, parent_id
		FROM area WHERE name LIKE '%' || ? || '%' COLLATE NOCASE`, substr)
	if err != nil {
		return nil, &models.PersistenceError{Kind: models.PersistenceUnavailable, Op: "FindAreasByName", Err: err}
	}
	defer rows.Close()

	var out []models.Area
	for rows.Next() {
		var a models.Area
		if err := rows.Scan(&a.ID, &a.Name, &a.Kind, &a.CountryCode, &a.Lat, &a.Lon, &a.RadiusKm, &a.ParentID); err != nil {
			return nil, &models.PersistenceError{Kind: models.PersistenceCorrupted, Op: "FindAreasByName", Err: err}
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// NodesInArea returns every node whose area_id matches areaID, satisfying
// internal/place.AreaSource.
func (s *Store) NodesInArea(ctx context.Context, areaID string) ([]models.LocationNode, error) {
	return s.nodesInAreaByKind(ctx, areaID, "")
}

// HotelsInArea returns the hotel nodes within areaID, satisfying
// internal/place.AreaSource.
func (s *Store) HotelsInArea(ctx context.Context, areaID string) ([]models.LocationNode, error) {
	return s.nodesInAreaByKind(ctx, areaID, string(models.KindHotel))
}

func (s *Store) nodesInAreaByKind(ctx context.Context, areaID, kind string) ([]models.LocationNode, error) {
	query := `
		SELECT id, external_ref, name, kind, area_id, lat, lon, hub,
		       mct_air_to_ground_min, mct_ground_to_air_min, mct_any_to_any_min,
		       country_code, timezone
		FROM location_node WHERE area_id = ?`
	args := []any{areaID}
	if kind != "" {
		query += " AND kind = ?"
		args = append(args, kind)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, &models.PersistenceError{Kind: models.PersistenceUnavailable, Op: "nodesInAreaByKind", Err: err}
	}
	defer rows.Close()

	var out []models.LocationNode
	for rows.Next() {
		var n models.LocationNode
		var k string
		if err := rows.Scan(&n.ID, &n.ExternalRef, &n.Name, &k, &n.AreaID, &n.Lat, &n.Lon, &n.Hub,
			&n.MCTAirToGroundMin, &n.MCTGroundToAirMin, &n.MCTAnyToAnyMin, &n.CountryCode, &n.Timezone); err != nil {
			return nil, &models.PersistenceError{Kind: models.PersistenceCorrupted, Op: "nodesInAreaByKind", Err: err}
		}
		n.Kind = models.NodeKind(k)
		out = append(out, n)
	}
	return out, rows.Err()
}
