// Package geo implementa el matching aproximado por distancia (sin índices espaciales).
package geo

import "math"

// EarthRadiusKm es el radio medio terrestre (IUGG).
const EarthRadiusKm = 6371.0088

type Point struct {
	Lat float64
	Lng float64
}

// Valid chequea rangos WGS84.
func (p Point) Valid() bool {
	if math.IsNaN(p.Lat) || math.IsNaN(p.Lng) {
		return false
	}
	return p.Lat >= -90 && p.Lat <= 90 && p.Lng >= -180 && p.Lng <= 180
}

// DistanceKm devuelve la distancia great-circle (haversine) entre a y b.
func DistanceKm(a, b Point) float64 {
	lat1 := toRad(a.Lat)
	lat2 := toRad(b.Lat)
	dLat := toRad(b.Lat - a.Lat)
	dLng := toRad(b.Lng - a.Lng)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	// clamp por errores de redondeo cerca de antípodas
	h = math.Min(1, math.Max(0, h))

	return 2 * EarthRadiusKm * math.Asin(math.Sqrt(h))
}

// WithinRadius indica si p cae dentro del círculo (center, radiusKm), borde inclusive.
func WithinRadius(center Point, radiusKm float64, p Point) bool {
	if radiusKm <= 0 {
		return false
	}
	return DistanceKm(center, p) <= radiusKm
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}
