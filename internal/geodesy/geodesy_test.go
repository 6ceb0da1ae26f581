package geodesy

import (
	"math"
	"testing"
)

func TestEquirectDistanceKm(t *testing.T) {
	tests := []struct {
		name string
		a, b Point
		want float64
	}{
		{"one degree of latitude", Point{43.2, 7.0}, Point{44.2, 7.0}, 111.0},
		{"one degree of longitude at equator", Point{0, 7.0}, Point{0, 8.0}, 111.0},
		{"one degree of longitude at 60N", Point{60, 0}, Point{60, 1}, 55.5},
		{"same point", Point{43.7, 7.25}, Point{43.7, 7.25}, 0.0},
	}

	for _, tt := range tests {
		if got := EquirectDistanceKm(tt.a, tt.b); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("%s: expected %.3f km, got %.9f km", tt.name, tt.want, got)
		}
	}
}

func TestEquirectDistanceSymmetric(t *testing.T) {
	a := Point{43.7, 7.25}
	b := Point{48.8566, 2.3522}
	if EquirectDistanceKm(a, b) != EquirectDistanceKm(b, a) {
		t.Error("Expected distance to be symmetric")
	}
}

func TestHaversineKm(t *testing.T) {
	// One degree of latitude on the R=6371 sphere
	got := HaversineKm(Point{0, 0}, Point{1, 0})
	want := math.Pi * EarthRadiusKm / 180
	if math.Abs(got-want) > 1e-6 {
		t.Errorf("Expected %.6f km, got %.6f km", want, got)
	}

	// Paris to London
	got = HaversineKm(Point{48.8566, 2.3522}, Point{51.5074, -0.1278})
	if math.Abs(got-343.556) > 0.01 {
		t.Errorf("Expected 343.556 km, got %.3f km", got)
	}

	if HaversineKm(Point{43.7, 7.25}, Point{43.7, 7.25}) != 0 {
		t.Error("Expected zero distance for identical points")
	}
}

func TestInitialBearing(t *testing.T) {
	tests := []struct {
		name     string
		from, to Point
		want     float64
	}{
		{"due east on equator", Point{0, 0}, Point{0, 1}, 90},
		{"due north", Point{0, 0}, Point{1, 0}, 0},
		{"due south", Point{0, 0}, Point{-1, 0}, 180},
		{"due west on equator", Point{0, 0}, Point{0, -1}, 270},
		{"north along meridian", Point{43.7, 7.25}, Point{43.8, 7.25}, 0},
		{"paris to london", Point{48.8566, 2.3522}, Point{51.5074, -0.1278}, 330.021},
	}

	for _, tt := range tests {
		got := InitialBearing(tt.from, tt.to)
		if math.Abs(got-tt.want) > 0.001 {
			t.Errorf("%s: expected %.3f, got %.3f", tt.name, tt.want, got)
		}
		if got < 0 || got >= 360 {
			t.Errorf("%s: bearing %.3f outside [0,360)", tt.name, got)
		}
	}
}

func TestInBounds(t *testing.T) {
	tests := []struct {
		name string
		p    Point
		want bool
	}{
		{"origin", Point{0, 0}, true},
		{"extreme corners", Point{90, 180}, true},
		{"negative extremes", Point{-90, -180}, true},
		{"latitude too high", Point{90.1, 0}, false},
		{"latitude too low", Point{-90.1, 0}, false},
		{"longitude too high", Point{0, 180.1}, false},
		{"longitude too low", Point{0, -180.1}, false},
	}

	for _, tt := range tests {
		if got := tt.p.InBounds(); got != tt.want {
			t.Errorf("%s: expected %t, got %t", tt.name, tt.want, got)
		}
	}
}

func TestPointString(t *testing.T) {
	got := Point{Lat: 43.7, Lon: 7.25}.String()
	want := "43.700000, 7.250000"
	if got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}
