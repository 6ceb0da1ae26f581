// Package config provides configuration structures and defaults for the locator tools
package config

import (
	"time"
)

// Config represents the complete application configuration
type Config struct {
	Locator LocatorConfig `yaml:"locator"` // Fix computation settings
	Station StationConfig `yaml:"station"` // Field observation defaults
	GPS     GPSConfig     `yaml:"gps"`     // GPS receiver settings
	Logging LoggingConfig `yaml:"logging"` // Logging configuration
}

// LocatorConfig contains fix computation parameters
type LocatorConfig struct {
	ProjectionKm float64 `yaml:"projection_km"` // Bearing line length in kilometers
	Format       string  `yaml:"format"`        // Output format: "text", "geojson", or "csv"
}

// StationConfig contains defaults applied to new observation records
type StationConfig struct {
	Callsign           string  `yaml:"callsign"`            // Operator callsign
	DefaultUncertainty float64 `yaml:"default_uncertainty"` // Bearing uncertainty in degrees
	DefaultSignal      string  `yaml:"default_signal"`      // S-meter level for new reports
}

// GPSConfig contains GPS receiver configuration parameters
type GPSConfig struct {
	Mode            string        `yaml:"mode"`             // GPS mode: "nmea", "gpsd", or "manual"
	Port            string        `yaml:"port"`             // Serial port device path (for NMEA mode)
	BaudRate        int           `yaml:"baud_rate"`        // Serial communication baud rate (for NMEA mode)
	GPSDHost        string        `yaml:"gpsd_host"`        // GPSD host address (for gpsd mode)
	GPSDPort        string        `yaml:"gpsd_port"`        // GPSD port (for gpsd mode)
	Timeout         time.Duration `yaml:"timeout"`          // Timeout for GPS fix acquisition
	ManualLatitude  float64       `yaml:"manual_latitude"`  // Manual latitude in decimal degrees
	ManualLongitude float64       `yaml:"manual_longitude"` // Manual longitude in decimal degrees
	ManualAltitude  float64       `yaml:"manual_altitude"`  // Manual altitude in meters
}

// LoggingConfig contains logging configuration parameters
type LoggingConfig struct {
	Level string `yaml:"level"` // Log level (debug, info, warn, error)
	File  string `yaml:"file"`  // Log file path (empty for stderr)
}

// DefaultConfig returns a configuration with sensible default values
func DefaultConfig() *Config {
	return &Config{
		Locator: LocatorConfig{
			ProjectionKm: 100.0,  // Bearing lines reach 100 km
			Format:       "text", // Human-readable report by default
		},
		Station: StationConfig{
			Callsign:           "",    // Must be provided per operator
			DefaultUncertainty: 5.0,   // 5 degree bearing uncertainty
			DefaultSignal:      "S5",  // Mid-scale signal report
		},
		GPS: GPSConfig{
			Mode:            "nmea",           // Default to NMEA serial mode
			Port:            "/dev/ttyUSB0",   // Common USB GPS device path
			BaudRate:        9600,             // Standard NMEA baud rate
			GPSDHost:        "localhost",      // Default gpsd host
			GPSDPort:        "2947",           // Default gpsd port
			Timeout:         30 * time.Second, // 30 second GPS fix timeout
			ManualLatitude:  0.0,              // Default latitude (equator)
			ManualLongitude: 0.0,              // Default longitude (prime meridian)
			ManualAltitude:  0.0,              // Default altitude (sea level)
		},
		Logging: LoggingConfig{
			Level: "info", // Info level logging
			File:  "",     // Log to stderr by default
		},
	}
}
