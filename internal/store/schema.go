package store

import "context"

// schema mirrors §3's data model: areas, nodes, structural edges, priced
// offers, and the API response cache table (C7 shares this database file
// rather than opening a second one).
const schema = `
CREATE TABLE IF NOT EXISTS area (
	id           TEXT PRIMARY KEY,
	name         TEXT NOT NULL,
	kind         TEXT NOT NULL,
	country_code TEXT NOT NULL,
	lat          REAL NOT NULL,
	lon          REAL NOT NULL,
	radius_km    REAL NOT NULL,
	parent_id    TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS location_node (
	id                    INTEGER PRIMARY KEY,
	external_ref          TEXT NOT NULL DEFAULT '',
	name                  TEXT NOT NULL,
	kind                  TEXT NOT NULL,
	area_id               TEXT NOT NULL DEFAULT '',
	lat                   REAL NOT NULL,
	lon                   REAL NOT NULL,
	hub                   INTEGER NOT NULL DEFAULT 0,
	mct_air_to_ground_min INTEGER NOT NULL DEFAULT 0,
	mct_ground_to_air_min INTEGER NOT NULL DEFAULT 0,
	mct_any_to_any_min    INTEGER NOT NULL DEFAULT 0,
	country_code          TEXT NOT NULL DEFAULT '',
	timezone              TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_location_node_area ON location_node(area_id);
CREATE INDEX IF NOT EXISTS idx_location_node_kind ON location_node(kind);

CREATE TABLE IF NOT EXISTS edge_leg (
	id               INTEGER PRIMARY KEY,
	from_id          INTEGER NOT NULL,
	to_id            INTEGER NOT NULL,
	mode             TEXT NOT NULL,
	is_transfer      INTEGER NOT NULL DEFAULT 0,
	carrier_code     TEXT NOT NULL DEFAULT '',
	service_code     TEXT NOT NULL DEFAULT '',
	distance_km      REAL,
	duration_min     REAL NOT NULL,
	mct_override_min INTEGER,
	co_located       INTEGER NOT NULL DEFAULT 0,
	structure        TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_edge_leg_from ON edge_leg(from_id);

CREATE TABLE IF NOT EXISTS offer (
	id               INTEGER PRIMARY KEY,
	edge_id          INTEGER NOT NULL,
	departure_utc    DATETIME NOT NULL,
	arrival_utc      DATETIME NOT NULL,
	price_total      REAL NOT NULL,
	currency         TEXT NOT NULL,
	source_type      TEXT NOT NULL,
	provider         TEXT NOT NULL DEFAULT '',
	provider_ref     TEXT NOT NULL DEFAULT '',
	cache_ref        TEXT NOT NULL DEFAULT '',
	is_static        INTEGER NOT NULL DEFAULT 0,
	retrieved_at     DATETIME,
	valid_from       DATETIME,
	valid_until      DATETIME,
	effective_from   DATETIME,
	last_verified_at DATETIME,
	ttl_hours        REAL NOT NULL DEFAULT 0,
	active           INTEGER NOT NULL DEFAULT 1,
	reliability_score REAL,
	meta_json        TEXT NOT NULL DEFAULT '{}'
);
CREATE INDEX IF NOT EXISTS idx_offer_edge ON offer(edge_id);

CREATE TABLE IF NOT EXISTS api_cache_entry (
	provider      TEXT NOT NULL,
	endpoint      TEXT NOT NULL,
	params_hash   TEXT NOT NULL,
	params_json   TEXT NOT NULL,
	response_body TEXT NOT NULL,
	created_at    DATETIME NOT NULL,
	expires_at    DATETIME NOT NULL,
	last_used_at  DATETIME NOT NULL,
	hit_count     INTEGER NOT NULL DEFAULT 0,
	PRIMARY KEY (provider, endpoint, params_hash)
);
`

// Migrate creates the schema if it does not already exist. Safe to call
// on every startup.
func (s *Store) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, schema)
	return err
}
