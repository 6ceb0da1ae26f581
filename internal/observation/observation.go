// Package observation assembles one station's bearing observation in the
// field: a GPS position source plus the operator's bearing report, turned
// into a mission file record.
package observation

import (
	"context"
	"fmt"
	"os"
	"time"

	"sater-locator/internal/config"
	"sater-locator/internal/geodesy"
	"sater-locator/internal/gps"
	"sater-locator/internal/locator"
	"sater-locator/internal/missionfile"
)

// Observer owns the GPS source for one field session.
type Observer struct {
	config *config.Config
	gps    *gps.GPS
}

// BearingReport is the operator-entered half of an observation.
type BearingReport struct {
	Callsign    string
	Azimuth     float64
	Uncertainty float64
	Signal      locator.Signal
	Visible     bool
}

func NewObserver(cfg *config.Config) *Observer {
	return &Observer{config: cfg}
}

// Initialize opens the GPS source selected by the configuration. Manual
// mode needs no hardware; the configured coordinates are used instead.
func (o *Observer) Initialize() error {
	var err error

	switch o.config.GPS.Mode {
	case "nmea":
		o.gps, err = gps.NewGPS(o.config.GPS.Port, o.config.GPS.BaudRate)
		if err != nil {
			return fmt.Errorf("failed to initialize NMEA GPS: %w", err)
		}
		if o.config.Logging.Level == "debug" {
			o.gps.SetDebug(true)
		}
		if err := o.gps.Start(); err != nil {
			return fmt.Errorf("failed to start NMEA GPS: %w", err)
		}
	case "gpsd":
		o.gps, err = gps.NewGPSD(o.config.GPS.GPSDHost, o.config.GPS.GPSDPort)
		if err != nil {
			return fmt.Errorf("failed to initialize GPSD: %w", err)
		}
		if err := o.gps.Start(); err != nil {
			return fmt.Errorf("failed to start GPSD: %w", err)
		}
	case "manual":
		o.gps = nil
	default:
		return fmt.Errorf("invalid GPS mode: %s (must be 'nmea', 'gpsd', or 'manual')", o.config.GPS.Mode)
	}

	return nil
}

func (o *Observer) WaitForGPSFix() error {
	return o.WaitForGPSFixWithContext(context.Background())
}

// WaitForGPSFixWithContext blocks until the GPS source delivers its first
// fix, the configured timeout expires, or the context is cancelled.
func (o *Observer) WaitForGPSFixWithContext(ctx context.Context) error {
	if o.config.GPS.Mode == "manual" {
		fmt.Fprintf(os.Stderr, "GPS disabled - using manual coordinates: %.6f, %.6f\n",
			o.config.GPS.ManualLatitude, o.config.GPS.ManualLongitude)
		return nil
	}

	fmt.Fprintf(os.Stderr, "Waiting for GPS fix via %s (timeout: %v)...\n", o.config.GPS.Mode, o.config.GPS.Timeout)

	type gpsResult struct {
		pos *gps.Position
		err error
	}

	gpsResultChan := make(chan gpsResult, 1)
	go func() {
		pos, err := o.gps.WaitForFix(o.config.GPS.Timeout)
		gpsResultChan <- gpsResult{pos, err}
	}()

	var position *gps.Position
	select {
	case result := <-gpsResultChan:
		if result.err != nil {
			return fmt.Errorf("GPS fix failed: %w", result.err)
		}
		position = result.pos
	case <-ctx.Done():
		return fmt.Errorf("GPS fix cancelled: %w", ctx.Err())
	}

	fmt.Fprintf(os.Stderr, "GPS fix acquired: %s (quality: %s, satellites: %d)\n",
		position.Point, o.gps.GetFixQualityString(), position.Satellites)

	return nil
}

// Position returns the station position: the configured coordinates in
// manual mode, the latest hardware fix otherwise.
func (o *Observer) Position() (gps.Position, error) {
	if o.config.GPS.Mode == "manual" {
		return gps.Position{
			Point: geodesy.Point{
				Lat: o.config.GPS.ManualLatitude,
				Lon: o.config.GPS.ManualLongitude,
			},
			Altitude:   o.config.GPS.ManualAltitude,
			Timestamp:  time.Now(),
			FixQuality: 7, // manual input mode
			Satellites: 0,
		}, nil
	}

	pos, err := o.gps.GetCurrentPosition()
	if err != nil {
		return gps.Position{}, fmt.Errorf("failed to get GPS position: %w", err)
	}
	return *pos, nil
}

// BuildRecord validates the operator's report, resolves the station
// position, and assembles the mission file record with a fresh ID.
func (o *Observer) BuildRecord(report BearingReport) (missionfile.StationRecord, error) {
	if report.Callsign == "" {
		return missionfile.StationRecord{}, fmt.Errorf("missing callsign: %w", geodesy.ErrInvalidInput)
	}
	if report.Azimuth < 0 || report.Azimuth >= 360 {
		return missionfile.StationRecord{}, fmt.Errorf("azimuth %.1f out of range [0,360): %w", report.Azimuth, geodesy.ErrInvalidInput)
	}
	if report.Uncertainty < 0 || report.Uncertainty > 30 {
		return missionfile.StationRecord{}, fmt.Errorf("uncertainty %.1f out of range [0,30]: %w", report.Uncertainty, geodesy.ErrInvalidInput)
	}

	pos, err := o.Position()
	if err != nil {
		return missionfile.StationRecord{}, err
	}
	if !pos.Point.InBounds() {
		return missionfile.StationRecord{}, fmt.Errorf("position %s out of range: %w", pos.Point, geodesy.ErrInvalidInput)
	}

	uncertainty := report.Uncertainty
	visible := report.Visible

	return missionfile.StationRecord{
		ID:          missionfile.NewStationID(),
		Callsign:    report.Callsign,
		Lat:         pos.Lat,
		Lon:         pos.Lon,
		Azimuth:     report.Azimuth,
		Uncertainty: &uncertainty,
		Signal:      report.Signal.String(),
		Visible:     &visible,
	}, nil
}

// SetGPSDebug enables or disables GPS debug logging
func (o *Observer) SetGPSDebug(debug bool) {
	if o.gps != nil {
		o.gps.SetDebug(debug)
	}
}

func (o *Observer) Close() error {
	if o.gps != nil {
		if err := o.gps.Close(); err != nil {
			return fmt.Errorf("GPS close error: %w", err)
		}
	}
	return nil
}
