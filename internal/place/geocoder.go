package place

import (
	"context"
	"hash/fnv"

	"github.com/mohamedthameursassi/intermodal/internal/spatial"
)

// Geocoder is the external collaborator the normalizer depends on to turn
// a free-form address string into coordinates. Production callers should
// inject a real geocoding service; StubGeocoder below is a deterministic
// fallback explicitly meant for local development and tests (§9 design
// notes: "the normalizer must accept an injected Geocoder capability").
type Geocoder interface {
	Geocode(ctx context.Context, address string) (spatial.LatLon, error)
}

// StubGeocoder derives a deterministic, non-geographic coordinate from a
// hash of the address string, inside a fixed box around (39, -86). This
// reproduces the teacher's placeholder geocoder. The coordinates it
// returns do not match real addresses. Both cmd/server and
// cmd/intermodal-cli wire it in, and the module has no other Geocoder
// implementation.
type StubGeocoder struct {
	CenterLat float64
	CenterLon float64
	SpreadDeg float64
}

// NewStubGeocoder returns a StubGeocoder centered on (39, -86) with a
// +/-5 degree spread.
func NewStubGeocoder() *StubGeocoder {
	return &StubGeocoder{CenterLat: 39, CenterLon: -86, SpreadDeg: 5}
}

func (g *StubGeocoder) Geocode(_ context.Context, address string) (spatial.LatLon, error) {
	h := fnv.New64a()
	_, _ = h.Write([]byte(address))
	sum := h.Sum64()

	latFrac := float64(sum%10000) / 10000
	lonFrac := float64((sum/10000)%10000) / 10000

	return spatial.LatLon{
		Lat: g.CenterLat + (latFrac*2-1)*g.SpreadDeg,
		Lon: g.CenterLon + (lonFrac*2-1)*g.SpreadDeg,
	}, nil
}
