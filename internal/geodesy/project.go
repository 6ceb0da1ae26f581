package geodesy

import "math"

// Project returns the point reached by traveling distanceKm along the
// great circle leaving origin at the given bearing (degrees clockwise
// from true north), on a spherical Earth of radius EarthRadiusKm.
// Bearings outside [0,360) are normalized rather than rejected; a zero
// distance returns the origin.
func Project(origin Point, bearingDeg, distanceKm float64) Point {
	bearing := radians(NormalizeBearing(bearingDeg))
	lat1 := radians(origin.Lat)
	lon1 := radians(origin.Lon)
	ad := distanceKm / EarthRadiusKm

	lat2 := math.Asin(math.Sin(lat1)*math.Cos(ad) +
		math.Cos(lat1)*math.Sin(ad)*math.Cos(bearing))
	lon2 := lon1 + math.Atan2(math.Sin(bearing)*math.Sin(ad)*math.Cos(lat1),
		math.Cos(ad)-math.Sin(lat1)*math.Sin(lat2))

	return Point{Lat: degrees(lat2), Lon: degrees(lon2)}
}

// NormalizeBearing folds any angle in degrees into [0,360).
func NormalizeBearing(deg float64) float64 {
	return math.Mod(math.Mod(deg, 360)+360, 360)
}
