package geodesy

import (
	"errors"
	"math"
	"testing"
)

func TestToUTMParis(t *testing.T) {
	utm, err := ToUTM(48.8566, 2.3522)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if utm.Zone != 31 {
		t.Errorf("Expected zone 31, got %d", utm.Zone)
	}
	if utm.Band != 'U' {
		t.Errorf("Expected band U, got %c", utm.Band)
	}
	if math.Abs(utm.Easting-452482.5) > 1.0 {
		t.Errorf("Expected easting 452482.5 ±1 m, got %.1f", utm.Easting)
	}
	if math.Abs(utm.Northing-5411717.2) > 1.0 {
		t.Errorf("Expected northing 5411717.2 ±1 m, got %.1f", utm.Northing)
	}
}

func TestToUTMSouthernHemisphere(t *testing.T) {
	// Sydney: southern positions carry the 10,000,000 m false northing
	utm, err := ToUTM(-33.8688, 151.2093)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if utm.Zone != 56 {
		t.Errorf("Expected zone 56, got %d", utm.Zone)
	}
	if utm.Band != 'H' {
		t.Errorf("Expected band H, got %c", utm.Band)
	}
	if math.Abs(utm.Easting-334368.6) > 1.0 {
		t.Errorf("Expected easting 334368.6 ±1 m, got %.1f", utm.Easting)
	}
	if math.Abs(utm.Northing-6250948.3) > 1.0 {
		t.Errorf("Expected northing 6250948.3 ±1 m, got %.1f", utm.Northing)
	}
}

func TestUTMZoneOverrides(t *testing.T) {
	tests := []struct {
		name     string
		lat, lon float64
		zone     int
	}{
		{"southwest norway widened", 60.39, 5.32, 32},
		{"norway override west edge", 56.0, 3.0, 32},
		{"east of norway override", 60.0, 12.0, 33},
		{"below norway override", 55.9, 5.0, 31},
		{"svalbard zone 31", 75.0, 5.0, 31},
		{"svalbard zone 33", 75.0, 9.0, 33},
		{"svalbard zone 35", 78.0, 25.0, 35},
		{"svalbard zone 37", 78.0, 35.0, 37},
		{"below svalbard band", 71.9, 9.0, 32},
		{"east of svalbard overrides", 80.0, 42.0, 38},
	}

	for _, tt := range tests {
		utm, err := ToUTM(tt.lat, tt.lon)
		if err != nil {
			t.Errorf("%s: unexpected error: %v", tt.name, err)
			continue
		}
		if utm.Zone != tt.zone {
			t.Errorf("%s: expected zone %d, got %d", tt.name, tt.zone, utm.Zone)
		}
	}
}

func TestUTMBands(t *testing.T) {
	tests := []struct {
		name string
		lat  float64
		band byte
	}{
		{"equator", 0.0, 'N'},
		{"paris", 48.8566, 'U'},
		{"south band floor", -80.0, 'C'},
		{"north band ceiling", 84.0, 'X'},
		{"above lettered range", 85.0, 'Z'},
		{"below lettered range", -85.0, 'Z'},
	}

	for _, tt := range tests {
		utm, err := ToUTM(tt.lat, 7.0)
		if err != nil {
			t.Errorf("%s: unexpected error: %v", tt.name, err)
			continue
		}
		if utm.Band != tt.band {
			t.Errorf("%s: expected band %c, got %c", tt.name, tt.band, utm.Band)
		}
	}
}

func TestToUTMInvalid(t *testing.T) {
	if _, err := ToUTM(91.0, 0.0); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput for latitude 91, got %v", err)
	}
	if _, err := ToUTM(0.0, 181.0); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput for longitude 181, got %v", err)
	}
	if _, err := ToUTM(-90.5, 0.0); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput for latitude -90.5, got %v", err)
	}
}

func TestUTMString(t *testing.T) {
	utm := UTM{Zone: 31, Band: 'U', Easting: 452482.53, Northing: 5411717.18}
	got := utm.String()
	want := "31U 452483 5411717"
	if got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}
