// Package geodesy provides the coordinate machinery used by the
// direction-finding engine: DMS and decimal-degree notation, UTM and MGRS
// grid conversion, great-circle projection, and the distance and bearing
// primitives the fix estimator is built on.
package geodesy

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidInput marks values outside the ranges a conversion accepts.
// Callers test for it with errors.Is.
var ErrInvalidInput = errors.New("invalid input")

// EarthRadiusKm is the spherical-Earth radius used by the great-circle math.
const EarthRadiusKm = 6371.0

// Point is a WGS84 position in decimal degrees.
type Point struct {
	Lat float64
	Lon float64
}

// InBounds reports whether the point lies inside the valid coordinate
// ranges: latitude [-90,90], longitude [-180,180].
func (p Point) InBounds() bool {
	return p.Lat >= -90 && p.Lat <= 90 && p.Lon >= -180 && p.Lon <= 180
}

// String renders the point as decimal degrees with six decimals.
func (p Point) String() string {
	return fmt.Sprintf("%.6f, %.6f", p.Lat, p.Lon)
}

// EquirectDistanceKm returns the flat-map distance between two points using
// the equirectangular approximation: 111 km per degree of latitude, with
// longitude scaled by the cosine of the mean latitude. Accurate at the
// regional distances bearing triangulation works over; not meant for long
// paths.
func EquirectDistanceKm(a, b Point) float64 {
	dLat := (b.Lat - a.Lat) * 111.0
	dLon := (b.Lon - a.Lon) * 111.0 * math.Cos(radians((a.Lat+b.Lat)/2))
	return math.Sqrt(dLat*dLat + dLon*dLon)
}

// HaversineKm returns the great-circle distance between two points.
func HaversineKm(a, b Point) float64 {
	lat1 := radians(a.Lat)
	lat2 := radians(b.Lat)
	dLat := radians(b.Lat - a.Lat)
	dLon := radians(b.Lon - a.Lon)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * EarthRadiusKm * math.Asin(math.Sqrt(h))
}

// InitialBearing returns the initial great-circle bearing from one point
// toward another, in degrees clockwise from true north, normalized to
// [0,360).
func InitialBearing(from, to Point) float64 {
	lat1 := radians(from.Lat)
	lat2 := radians(to.Lat)
	dLon := radians(to.Lon - from.Lon)

	y := math.Sin(dLon) * math.Cos(lat2)
	x := math.Cos(lat1)*math.Sin(lat2) - math.Sin(lat1)*math.Cos(lat2)*math.Cos(dLon)
	return math.Mod(degrees(math.Atan2(y, x))+360, 360)
}

func radians(deg float64) float64 { return deg * math.Pi / 180 }
func degrees(rad float64) float64 { return rad * 180 / math.Pi }
