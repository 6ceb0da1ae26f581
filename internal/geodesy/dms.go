package geodesy

import (
	"fmt"
	"math"
	"strings"
)

// Axis identifies which coordinate a DMS value describes, so the
// hemisphere letter can be chosen (lat: N/S, lon: E/W).
type Axis int

const (
	AxisLat Axis = iota
	AxisLon
)

// DMS is a degrees-minutes-seconds coordinate with its hemisphere letter.
// Seconds carry one decimal of precision, the resolution radio operators
// exchange over voice.
type DMS struct {
	Degrees    int
	Minutes    int
	Seconds    float64
	Hemisphere string
}

// String renders the value in the conventional compact notation,
// e.g. `48°51'29.6"N`.
func (d DMS) String() string {
	return fmt.Sprintf("%d°%d'%.1f\"%s", d.Degrees, d.Minutes, d.Seconds, d.Hemisphere)
}

// Decimal converts the value back to decimal degrees.
func (d DMS) Decimal() (float64, error) {
	return DMSToDecimal(d.Degrees, d.Minutes, d.Seconds, d.Hemisphere)
}

// DMSToDecimal converts degrees-minutes-seconds to decimal degrees.
// Southern and western hemispheres yield negative values. Components
// outside their valid ranges (deg < 0, min outside [0,59], sec outside
// [0,60), unknown hemisphere letter) fail with ErrInvalidInput.
func DMSToDecimal(deg, min int, sec float64, hemisphere string) (float64, error) {
	if deg < 0 {
		return 0, fmt.Errorf("degrees %d must not be negative: %w", deg, ErrInvalidInput)
	}
	if min < 0 || min > 59 {
		return 0, fmt.Errorf("minutes %d outside [0,59]: %w", min, ErrInvalidInput)
	}
	if sec < 0 || sec >= 60 {
		return 0, fmt.Errorf("seconds %g outside [0,60): %w", sec, ErrInvalidInput)
	}

	dd := float64(deg) + float64(min)/60 + sec/3600
	switch strings.ToUpper(strings.TrimSpace(hemisphere)) {
	case "N", "E":
		return dd, nil
	case "S", "W":
		return -dd, nil
	default:
		return 0, fmt.Errorf("hemisphere %q must be one of N, S, E, W: %w", hemisphere, ErrInvalidInput)
	}
}

// DecimalToDMS decomposes decimal degrees into DMS form. The hemisphere
// letter follows the sign and the axis. Seconds are rounded to one
// decimal; when rounding reaches 60.0 the carry propagates into minutes
// and degrees so the result stays in canonical form. Round-tripping
// through DMSToDecimal reproduces the input within 1e-4 degrees.
func DecimalToDMS(dd float64, axis Axis) DMS {
	hemisphere := "N"
	if axis == AxisLon {
		hemisphere = "E"
	}
	if dd < 0 {
		if axis == AxisLat {
			hemisphere = "S"
		} else {
			hemisphere = "W"
		}
		dd = -dd
	}

	deg := int(dd)
	min := int((dd - float64(deg)) * 60)
	sec := math.Round((dd-float64(deg)-float64(min)/60)*3600*10) / 10

	if sec >= 60 {
		sec -= 60
		min++
	}
	if min >= 60 {
		min -= 60
		deg++
	}

	return DMS{Degrees: deg, Minutes: min, Seconds: sec, Hemisphere: hemisphere}
}

// FormatDMS renders a decimal-degree coordinate directly as a DMS string.
func FormatDMS(dd float64, axis Axis) string {
	return DecimalToDMS(dd, axis).String()
}
