// Package spatial provides the two distance measures the routing core
// needs: a true great-circle distance for anything the spec says must be
// correct (transfer duration/price, adjacency radius membership), and a
// cheap planar approximation for the search engine's lower-bound and
// detour pruning, where being merely admissible and fast matters more
// than precision.
package spatial

import (
	"math"

	"github.com/golang/geo/s2"
)

const earthRadiusKm = 6371.0

// LatLon is a bare coordinate pair, independent of any graph node type.
type LatLon struct {
	Lat float64
	Lon float64
}

// Haversine returns the true great-circle distance between a and b, in
// kilometers.
func Haversine(a, b LatLon) float64 {
	p1 := s2.LatLngFromDegrees(a.Lat, a.Lon)
	p2 := s2.LatLngFromDegrees(b.Lat, b.Lon)
	return p1.Distance(p2).Radians() * earthRadiusKm
}

// ApproxDistanceKm is the cheap planar approximation
// √((Δlat)²+(Δlon)²)·111 the spec mandates for bounding use inside the
// search engine (§4.3). It is intentionally not haversine-accurate; never
// use it where correctness matters.
func ApproxDistanceKm(a, b LatLon) float64 {
	dLat := a.Lat - b.Lat
	dLon := a.Lon - b.Lon
	return math.Sqrt(dLat*dLat+dLon*dLon) * 111
}

// Bearing returns the initial bearing in degrees (0-360) from a to b.
func Bearing(a, b LatLon) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLon := (b.Lon - a.Lon) * math.Pi / 180

	y := math.Sin(dLon) * math.Cos(lat2)
	x := math.Cos(lat1)*math.Sin(lat2) - math.Sin(lat1)*math.Cos(lat2)*math.Cos(dLon)
	bearing := math.Atan2(y, x) * 180 / math.Pi
	return math.Mod(bearing+360, 360)
}
