package locator

import (
	"math"
	"testing"

	"sater-locator/internal/geodesy"
)

func station(callsign string, lat, lon, azimuth float64) Station {
	return Station{
		ID:          callsign,
		Callsign:    callsign,
		Position:    geodesy.Point{Lat: lat, Lon: lon},
		Azimuth:     azimuth,
		Uncertainty: DefaultUncertainty,
		Signal:      DefaultSignal,
		Visible:     true,
	}
}

func TestIntersectTwoBearings(t *testing.T) {
	// Station A looks due east, station B sits northeast of A and looks
	// due south: the bearings cross just south of A's latitude on B's
	// meridian
	a := station("A", 43.7, 7.25, 90)
	b := station("B", 43.8, 7.35, 180)

	p, ok := Intersect(a, b, DefaultProjectionKm)
	if !ok {
		t.Fatal("Expected an intersection, got none")
	}

	if math.Abs(p.Lat-43.699458) > 1e-4 {
		t.Errorf("Expected latitude 43.699458, got %.6f", p.Lat)
	}
	if math.Abs(p.Lon-7.35) > 1e-6 {
		t.Errorf("Expected longitude 7.35, got %.6f", p.Lon)
	}
}

func TestIntersectRejectsCrossingBehind(t *testing.T) {
	// Same geometry, but both stations now look away from the crossing.
	// The infinite lines still intersect; the observers do not hear the
	// beacon behind their backs, so the candidate must be discarded.
	a := station("A", 43.7, 7.25, 270)
	b := station("B", 43.8, 7.35, 0)

	if _, ok := Intersect(a, b, DefaultProjectionKm); ok {
		t.Error("Expected crossing behind both observers to be rejected")
	}
}

func TestIntersectRejectsCrossingBehindOneObserver(t *testing.T) {
	// A looks east toward B's meridian, but B looks north, away from the
	// crossing: one failing directionality check is enough
	a := station("A", 43.7, 7.25, 90)
	b := station("B", 43.8, 7.35, 0)

	if _, ok := Intersect(a, b, DefaultProjectionKm); ok {
		t.Error("Expected crossing behind one observer to be rejected")
	}
}

func TestIntersectParallelBearings(t *testing.T) {
	a := station("A", 43.7, 7.25, 0)
	b := station("B", 43.7, 7.35, 0)

	if _, ok := Intersect(a, b, DefaultProjectionKm); ok {
		t.Error("Expected parallel bearings to produce no intersection")
	}
}

func TestIntersectProjectionIsHorizonNotConstraint(t *testing.T) {
	// The chord length defines the line, not the search reach: a crossing
	// 8 km out is found whether the chords are drawn 10 km or 100 km long
	a := station("A", 43.7, 7.25, 90)
	b := station("B", 43.8, 7.35, 180)

	short, okShort := Intersect(a, b, 10)
	long, okLong := Intersect(a, b, 100)

	if !okShort || !okLong {
		t.Fatalf("Expected intersections at both horizons, got short=%t long=%t", okShort, okLong)
	}
	if d := geodesy.EquirectDistanceKm(short, long); d > 0.1 {
		t.Errorf("Expected horizon-independent crossing, got %.3f km apart", d)
	}
}

func TestLineIntersection(t *testing.T) {
	// Perpendicular unit axes cross at the origin
	x, y, ok := lineIntersection(-1, 0, 1, 0, 0, -1, 0, 1)
	if !ok {
		t.Fatal("Expected intersection of perpendicular lines")
	}
	if x != 0 || y != 0 {
		t.Errorf("Expected origin, got (%g, %g)", x, y)
	}

	// Parallel horizontal lines
	if _, _, ok := lineIntersection(0, 0, 1, 0, 0, 1, 1, 1); ok {
		t.Error("Expected no intersection for parallel lines")
	}

	// Coincident lines are parallel too
	if _, _, ok := lineIntersection(0, 0, 1, 1, 2, 2, 3, 3); ok {
		t.Error("Expected no intersection for coincident lines")
	}
}
