package locator

import "sater-locator/internal/geodesy"

// Fix is the consolidated beacon-location estimate: the enclosing-circle
// center of all validated bearing crossings, with its radius, the
// covered area and the number of crossings that produced it. A Fix is
// ephemeral, recomputed on every call.
type Fix struct {
	Center     geodesy.Point
	RadiusKm   float64
	AreaKm2    float64
	PointCount int
}

// Intersections returns every validated crossing among the visible
// stations' bearing lines, one candidate per unordered pair, in pair
// order. Pairs with parallel bearings or crossings behind an observer
// contribute nothing; a degenerate pair never aborts the rest.
func Intersections(stations []Station, projectionKm float64) []geodesy.Point {
	visible := visibleStations(stations)

	var points []geodesy.Point
	for i := 0; i < len(visible); i++ {
		for j := i + 1; j < len(visible); j++ {
			if p, ok := Intersect(visible[i], visible[j], projectionKm); ok {
				points = append(points, p)
			}
		}
	}
	return points
}

// ComputeFix runs the full engine: intersect every visible station pair
// and enclose the crossings. ok is false when fewer than two stations
// are visible or no pair produced a valid forward crossing; that is a
// normal "no fix" outcome, not an error. The computation is a pure function of
// the station sequence: identical input yields bit-identical output.
func ComputeFix(stations []Station, projectionKm float64) (Fix, bool) {
	points := Intersections(stations, projectionKm)
	if len(points) == 0 {
		return Fix{}, false
	}

	center, radius := EnclosingCircle(points)
	return Fix{
		Center:     center,
		RadiusKm:   radius,
		AreaKm2:    CircleArea(radius),
		PointCount: len(points),
	}, true
}

func visibleStations(stations []Station) []Station {
	visible := make([]Station, 0, len(stations))
	for _, s := range stations {
		if s.Visible {
			visible = append(visible, s)
		}
	}
	return visible
}
