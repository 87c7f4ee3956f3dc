package store

import "math"

const (
	earthRadiusMeters = 6371000.0

	// metersPerDegreeLat is close enough for a bounding-box prefilter; the
	// exact haversine check runs on everything the box lets through.
	metersPerDegreeLat = 111320.0
)

// haversineMeters returns the great-circle distance between two coordinates.
func haversineMeters(lat1, lon1, lat2, lon2 float64) float64 {
	phi1 := lat1 * math.Pi / 180
	phi2 := lat2 * math.Pi / 180
	dPhi := (lat2 - lat1) * math.Pi / 180
	dLambda := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(dPhi/2)*math.Sin(dPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(dLambda/2)*math.Sin(dLambda/2)
	return 2 * earthRadiusMeters * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

// geoBounds is a latitude/longitude box around a query point. When the box
// crosses the antimeridian, wrapsLon is set and the longitude condition
// becomes (lon >= minLon OR lon <= maxLon).
type geoBounds struct {
	minLat, maxLat float64
	minLon, maxLon float64
	wrapsLon       bool
}

// boundsForRadius computes the bounding box that fully contains the circle of
// radiusMeters around (lat, lon). Near the poles the longitude span collapses
// to the full range.
func boundsForRadius(lat, lon, radiusMeters float64) geoBounds {
	latDelta := radiusMeters / metersPerDegreeLat
	b := geoBounds{
		minLat: math.Max(lat-latDelta, -90),
		maxLat: math.Min(lat+latDelta, 90),
	}

	cosLat := math.Cos(lat * math.Pi / 180)
	if cosLat <= 0 {
		b.minLon, b.maxLon = -180, 180
		return b
	}
	lonDelta := radiusMeters / (metersPerDegreeLat * cosLat)
	if lonDelta >= 180 {
		b.minLon, b.maxLon = -180, 180
		return b
	}

	b.minLon = lon - lonDelta
	b.maxLon = lon + lonDelta
	if b.minLon < -180 {
		b.minLon += 360
		b.wrapsLon = true
	}
	if b.maxLon > 180 {
		b.maxLon -= 360
		b.wrapsLon = true
	}
	return b
}
