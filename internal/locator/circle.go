package locator

import (
	"math"

	"sater-locator/internal/geodesy"
)

// MinRadiusKm is the floor applied to every enclosing circle. A single
// crossing is still an observation with slack, not a mathematical point.
const MinRadiusKm = 0.5

// EnclosingCircle returns a circle covering every point in the set,
// using the flat-map distance metric of geodesy.EquirectDistanceKm.
//
// Zero points yield the {0,0},0 sentinel, which callers must interpret
// as "no fix", never as a circle at the origin. One point is its own
// center; two points take their midpoint. Three or more use a fast
// heuristic rather than an exact minimal-circle algorithm: seed the
// circle on the most distant pair, grow it once per outside point by
// averaging radius with distance and sliding the center toward the
// point, then expand the radius over any stragglers the sweep left
// uncovered. The result is guaranteed to contain every input point but
// may exceed the true minimum slightly; the trade favors recomputing on
// every station edit. All returned radii are floored at MinRadiusKm.
func EnclosingCircle(points []geodesy.Point) (geodesy.Point, float64) {
	switch len(points) {
	case 0:
		return geodesy.Point{}, 0
	case 1:
		return points[0], MinRadiusKm
	case 2:
		center := midpoint(points[0], points[1])
		radius := geodesy.EquirectDistanceKm(center, points[0])
		return center, math.Max(radius, MinRadiusKm)
	}

	// Seed from the diameter pair.
	var p1, p2 geodesy.Point
	maxDist := -1.0
	for i := 0; i < len(points); i++ {
		for j := i + 1; j < len(points); j++ {
			if d := geodesy.EquirectDistanceKm(points[i], points[j]); d > maxDist {
				maxDist = d
				p1, p2 = points[i], points[j]
			}
		}
	}

	center := midpoint(p1, p2)
	radius := maxDist / 2

	// One growth sweep in input order.
	for _, p := range points {
		d := geodesy.EquirectDistanceKm(center, p)
		if d <= radius {
			continue
		}
		grown := (radius + d) / 2
		ratio := 0.0
		if d > 0 {
			ratio = (grown - radius) / d
		}
		center.Lat += ratio * (p.Lat - center.Lat)
		center.Lon += ratio * (p.Lon - center.Lon)
		radius = grown
	}

	// Verification pass: the sweep can leave earlier points outside.
	for _, p := range points {
		if d := geodesy.EquirectDistanceKm(center, p); d > radius {
			radius = d
		}
	}

	return center, math.Max(radius, MinRadiusKm)
}

// CircleArea returns the area in square kilometers of a circle of the
// given radius.
func CircleArea(radiusKm float64) float64 {
	return math.Pi * radiusKm * radiusKm
}

func midpoint(a, b geodesy.Point) geodesy.Point {
	return geodesy.Point{Lat: (a.Lat + b.Lat) / 2, Lon: (a.Lon + b.Lon) / 2}
}
