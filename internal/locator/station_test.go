package locator

import (
	"errors"
	"testing"

	"sater-locator/internal/geodesy"
)

func TestParseSignalRoundTrip(t *testing.T) {
	for level := SignalS0; level <= SignalS9Plus30; level++ {
		parsed, err := ParseSignal(level.String())
		if err != nil {
			t.Errorf("Failed to parse %q: %v", level.String(), err)
			continue
		}
		if parsed != level {
			t.Errorf("Expected %v to round-trip, got %v", level, parsed)
		}
	}
}

func TestParseSignalLenient(t *testing.T) {
	tests := []struct {
		input string
		want  Signal
	}{
		{"s5", SignalS5},
		{"s9+10", SignalS9Plus10},
		{" S9+30 ", SignalS9Plus30},
		{"S0", SignalS0},
	}

	for _, tt := range tests {
		got, err := ParseSignal(tt.input)
		if err != nil {
			t.Errorf("ParseSignal(%q) failed: %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseSignal(%q): expected %v, got %v", tt.input, tt.want, got)
		}
	}
}

func TestParseSignalUnknown(t *testing.T) {
	for _, input := range []string{"", "S10", "S9+40", "loud", "5"} {
		if _, err := ParseSignal(input); !errors.Is(err, geodesy.ErrInvalidInput) {
			t.Errorf("ParseSignal(%q): expected ErrInvalidInput, got %v", input, err)
		}
	}
}

func TestSignalUsable(t *testing.T) {
	if SignalS0.Usable() {
		t.Error("Expected S0 to be unusable")
	}
	for level := SignalS1; level <= SignalS9Plus30; level++ {
		if !level.Usable() {
			t.Errorf("Expected %v to be usable", level)
		}
	}
}

func TestSignalString(t *testing.T) {
	if s := SignalS9Plus20.String(); s != "S9+20" {
		t.Errorf("Expected S9+20, got %q", s)
	}
	if s := Signal(99).String(); s != "S?(99)" {
		t.Errorf("Expected S?(99) for out-of-range level, got %q", s)
	}
}
