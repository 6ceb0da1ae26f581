package geodesy

import (
	"errors"
	"testing"
)

func TestToMGRSKnownPositions(t *testing.T) {
	tests := []struct {
		name     string
		lat, lon float64
		want     string
	}{
		// Column letters rotate with zone%6: zone 31 uses ABCDEFGH,
		// zone 32 JKLMNPQR, zone 56 JKLMNPQR, zone 33 STUVWXYZ.
		{"paris", 48.8566, 2.3522, "31U DQ 52482 11717"},
		{"sydney", -33.8688, 151.2093, "56H LC 34368 50948"},
		{"bergen", 60.39, 5.32, "32V KH 97230 00510"},
		{"svalbard", 75.0, 9.0, "33X UD 26931 32368"},
		{"gulf of guinea", 0.5, 0.5, "31N BA 21734 55318"},
	}

	for _, tt := range tests {
		got, err := ToMGRS(tt.lat, tt.lon)
		if err != nil {
			t.Errorf("%s: unexpected error: %v", tt.name, err)
			continue
		}
		if got != tt.want {
			t.Errorf("%s: expected %q, got %q", tt.name, tt.want, got)
		}
	}
}

func TestToMGRSInvalid(t *testing.T) {
	if _, err := ToMGRS(91.0, 0.0); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput for latitude 91, got %v", err)
	}
	if _, err := ToMGRS(0.0, -181.0); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput for longitude -181, got %v", err)
	}
}
