// Package missionfile reads and writes mission files: the YAML station
// lists the CLIs exchange. A mission file is the durable record of one
// search: each participating station appends its bearing observation,
// and the locator fuses the whole file into a fix.
package missionfile

import (
	"errors"
	"fmt"
	"os"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"sater-locator/internal/geodesy"
	"sater-locator/internal/locator"
)

// Mission is one search operation: a name and the station observations
// reported so far.
type Mission struct {
	Name     string          `yaml:"name"`
	Stations []StationRecord `yaml:"stations"`
}

// StationRecord is one station's observation as stored on disk. Optional
// fields use pointers (or empty strings) so an absent key is
// distinguishable from an explicit zero; ToStations applies the defaults.
type StationRecord struct {
	ID          string   `yaml:"id,omitempty"`          // assigned on append when absent
	Callsign    string   `yaml:"callsign"`              // operator callsign
	Lat         float64  `yaml:"lat"`                   // decimal degrees
	Lon         float64  `yaml:"lon"`                   // decimal degrees
	Azimuth     float64  `yaml:"azimuth"`               // degrees true, [0,360)
	Uncertainty *float64 `yaml:"uncertainty,omitempty"` // degrees, default 5.0
	Signal      string   `yaml:"signal,omitempty"`      // S-meter level, default S5
	Visible     *bool    `yaml:"visible,omitempty"`     // default true
}

// NewStationID returns a short unique station identifier (the first 8
// hex characters of a random UUID).
func NewStationID() string {
	return uuid.NewString()[:8]
}

// Load reads and parses a mission file.
func Load(path string) (*Mission, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read mission file: %w", err)
	}

	var mission Mission
	if err := yaml.Unmarshal(data, &mission); err != nil {
		return nil, fmt.Errorf("failed to parse mission file: %w", err)
	}

	return &mission, nil
}

// Save writes the mission to path, replacing any existing file.
func (m *Mission) Save(path string) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to encode mission: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write mission file: %w", err)
	}

	return nil
}

// AppendStation adds one record to the mission at path, creating the file
// when it does not exist yet. A record without an ID is assigned one. The
// updated mission is returned.
func AppendStation(path string, record StationRecord) (*Mission, error) {
	mission, err := Load(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
		mission = &Mission{}
	}

	if record.ID == "" {
		record.ID = NewStationID()
	}
	mission.Stations = append(mission.Stations, record)

	if err := mission.Save(path); err != nil {
		return nil, err
	}

	return mission, nil
}

// ToStations converts the mission's records into engine stations, applying
// the documented defaults (uncertainty 5.0°, signal S5, visible true) and
// validating ranges. Errors name the offending record and wrap
// geodesy.ErrInvalidInput.
func (m *Mission) ToStations() ([]locator.Station, error) {
	stations := make([]locator.Station, 0, len(m.Stations))

	for i, rec := range m.Stations {
		station, err := rec.toStation()
		if err != nil {
			return nil, fmt.Errorf("station %d (%s): %w", i+1, rec.Callsign, err)
		}
		stations = append(stations, station)
	}

	return stations, nil
}

func (r StationRecord) toStation() (locator.Station, error) {
	if r.Callsign == "" {
		return locator.Station{}, fmt.Errorf("missing callsign: %w", geodesy.ErrInvalidInput)
	}

	pos := geodesy.Point{Lat: r.Lat, Lon: r.Lon}
	if !pos.InBounds() {
		return locator.Station{}, fmt.Errorf("position %s out of range: %w", pos, geodesy.ErrInvalidInput)
	}

	if r.Azimuth < 0 || r.Azimuth >= 360 {
		return locator.Station{}, fmt.Errorf("azimuth %.1f out of range [0,360): %w", r.Azimuth, geodesy.ErrInvalidInput)
	}

	uncertainty := locator.DefaultUncertainty
	if r.Uncertainty != nil {
		uncertainty = *r.Uncertainty
	}
	if uncertainty < 0 || uncertainty > 30 {
		return locator.Station{}, fmt.Errorf("uncertainty %.1f out of range [0,30]: %w", uncertainty, geodesy.ErrInvalidInput)
	}

	signal := locator.DefaultSignal
	if r.Signal != "" {
		var err error
		signal, err = locator.ParseSignal(r.Signal)
		if err != nil {
			return locator.Station{}, err
		}
	}

	visible := true
	if r.Visible != nil {
		visible = *r.Visible
	}

	return locator.Station{
		ID:          r.ID,
		Callsign:    r.Callsign,
		Position:    pos,
		Azimuth:     r.Azimuth,
		Uncertainty: uncertainty,
		Signal:      signal,
		Visible:     visible,
	}, nil
}
