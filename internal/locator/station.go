// Package locator implements the direction-finding engine: pairwise
// bearing-line intersection across ground stations and the enclosing
// circle that consolidates the crossings into a single probable fix.
// Every operation is a pure function of its inputs; the package holds
// no state between calls and performs no I/O.
package locator

import (
	"fmt"
	"strings"

	"sater-locator/internal/geodesy"
)

// Defaults shared by the engine's callers: the original field procedure
// draws 100 km bearing rays and assumes a 5-degree reading uncertainty.
const (
	DefaultProjectionKm = 100.0
	DefaultUncertainty  = 5.0
)

// Signal is an S-meter reception report, S0 through S9+30. S0 means the
// station hears nothing usable: callers normally exclude such stations
// before asking for a fix, but the engine processes them like any other
// if they are passed through (the policy belongs to the caller).
type Signal int

const (
	SignalS0 Signal = iota
	SignalS1
	SignalS2
	SignalS3
	SignalS4
	SignalS5
	SignalS6
	SignalS7
	SignalS8
	SignalS9
	SignalS9Plus10
	SignalS9Plus20
	SignalS9Plus30
)

// DefaultSignal is assumed for new observations without a report.
const DefaultSignal = SignalS5

var signalNames = [...]string{
	"S0", "S1", "S2", "S3", "S4", "S5", "S6", "S7", "S8", "S9",
	"S9+10", "S9+20", "S9+30",
}

func (s Signal) String() string {
	if s < 0 || int(s) >= len(signalNames) {
		return fmt.Sprintf("S?(%d)", int(s))
	}
	return signalNames[s]
}

// Usable reports whether the level carries a usable bearing.
func (s Signal) Usable() bool {
	return s != SignalS0
}

// ParseSignal reads an S-meter level from text, case-insensitively.
// Unknown levels fail with geodesy.ErrInvalidInput.
func ParseSignal(text string) (Signal, error) {
	name := strings.ToUpper(strings.TrimSpace(text))
	for i, n := range signalNames {
		if name == n {
			return Signal(i), nil
		}
	}
	return 0, fmt.Errorf("unknown signal level %q: %w", text, geodesy.ErrInvalidInput)
}

// Station is one ground observer's bearing report. The engine reads
// only Position, Azimuth and Visible; ID is an opaque token carried for
// the caller's benefit, and Uncertainty and Signal are consumed by the
// cone-drawing exporters, never by the intersection math.
type Station struct {
	ID          string
	Callsign    string
	Position    geodesy.Point
	Azimuth     float64
	Uncertainty float64
	Signal      Signal
	Visible     bool
}
