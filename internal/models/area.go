package models

import "fmt"

// Area is a named geographic region used for city/metro-level origin and
// destination resolution. A node belongs to at most one area.
type Area struct {
	ID          string
	Name        string
	Kind        string
	CountryCode string
	Lat         float64
	Lon         float64
	RadiusKm    float64
	ParentID    string // empty when the area has no parent
}

// Valid reports whether the area satisfies its data-model invariants.
// Forest-shape (no parent cycles) is checked across the whole loaded set by
// CheckAreaForest, not per-instance.
func (a Area) Valid() bool {
	return a.RadiusKm > 0
}

// CheckAreaForest verifies that areas' ParentID links form a forest: every
// area's chain of ancestors terminates (empty ParentID) or reaches an area
// outside the set, with no cycle. It is called by the store after every
// bulk write of area rows, since a cycle can only be introduced across the
// whole set, never by a single row in isolation.
func CheckAreaForest(areas []Area) error {
	byID := make(map[string]Area, len(areas))
	for _, a := range areas {
		byID[a.ID] = a
	}

	for _, start := range areas {
		visited := map[string]bool{start.ID: true}
		cur := start
		for cur.ParentID != "" {
			if visited[cur.ParentID] {
				return &PersistenceError{
					Kind: PersistenceCorrupted,
					Op:   "CheckAreaForest",
					Err:  fmt.Errorf("area %q's parent chain cycles back through %q", start.ID, cur.ParentID),
				}
			}
			parent, ok := byID[cur.ParentID]
			if !ok {
				break // parent outside the loaded set; nothing further to walk
			}
			visited[cur.ParentID] = true
			cur = parent
		}
	}
	return nil
}
