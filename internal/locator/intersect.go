package locator

import (
	"math"

	"sater-locator/internal/geodesy"
)

// Bearing pairs whose chords are closer to parallel than this
// determinant threshold produce no intersection.
const parallelEps = 1e-10

// Intersect computes where the bearing lines of two stations cross.
// Each station's line is materialized as a chord from its position to
// the great-circle endpoint projectionKm away; the chords are then
// intersected as infinite planar lines in (lon,lat) space, a small-scale
// approximation that holds at the regional distances bearing hunts
// cover. projectionKm is a search horizon, not a physical constraint:
// any positive value long enough not to degenerate the chords yields the
// same line intersection.
//
// The candidate is discarded (ok=false) when the bearings are parallel
// within parallelEps, when it lies behind either observer (the angular
// deviation between a station's azimuth and its direction to the
// candidate must stay below 90 degrees for both), or when it falls
// outside valid coordinate ranges, which only happens when near-antipodal
// geometry blows up the planar approximation.
func Intersect(a, b Station, projectionKm float64) (geodesy.Point, bool) {
	endA := geodesy.Project(a.Position, a.Azimuth, projectionKm)
	endB := geodesy.Project(b.Position, b.Azimuth, projectionKm)

	x, y, ok := lineIntersection(
		a.Position.Lon, a.Position.Lat, endA.Lon, endA.Lat,
		b.Position.Lon, b.Position.Lat, endB.Lon, endB.Lat,
	)
	if !ok {
		return geodesy.Point{}, false
	}

	p := geodesy.Point{Lat: y, Lon: x}
	if !ahead(a, p) || !ahead(b, p) {
		return geodesy.Point{}, false
	}
	if !p.InBounds() {
		return geodesy.Point{}, false
	}
	return p, true
}

// lineIntersection solves the crossing of two infinite lines, each given
// by two points, with the 2x2 determinant method. ok is false for
// parallel or near-parallel lines.
func lineIntersection(x1, y1, x2, y2, x3, y3, x4, y4 float64) (x, y float64, ok bool) {
	denom := (x1-x2)*(y3-y4) - (y1-y2)*(x3-x4)
	if math.Abs(denom) < parallelEps {
		return 0, 0, false
	}

	t := ((x1-x3)*(y3-y4) - (y1-y3)*(x3-x4)) / denom
	return x1 + t*(x2-x1), y1 + t*(y2-y1), true
}

// ahead reports whether p lies in front of the station rather than on
// the back half-plane. The direction to p uses the same planar lon/lat
// treatment as the chord solver; the deviation from the azimuth is
// wrap-normalized into [0,pi] and must stay under pi/2.
func ahead(s Station, p geodesy.Point) bool {
	dir := math.Atan2(p.Lon-s.Position.Lon, p.Lat-s.Position.Lat)
	diff := math.Mod(math.Abs(dir-s.Azimuth*math.Pi/180), 2*math.Pi)
	if diff > math.Pi {
		diff = 2*math.Pi - diff
	}
	return diff < math.Pi/2
}
