// SATER Station - field observation recorder for direction-finding stations
// This program records one bearing observation at the operator's position:
// it resolves the station location from GPS hardware (or manual entry),
// validates the bearing report, and appends the record to a mission file.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sater-locator/internal/config"
	"sater-locator/internal/geodesy"
	"sater-locator/internal/locator"
	"sater-locator/internal/missionfile"
	"sater-locator/internal/observation"
	"sater-locator/internal/version"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Command line flag variables
var (
	cfgFile     string  // Configuration file path
	callsign    string  // Operator callsign
	azimuth     float64 // Bearing to the beacon in degrees true
	signalLevel string  // S-meter reception report
	uncertainty float64 // Bearing uncertainty in degrees
	visible     bool    // Include this station in fix computation
	missionPath string  // Mission file to append to (stdout YAML when empty)
	gpsMode     string  // GPS mode: nmea, gpsd, or manual
	gpsPort     string  // GPS device serial port (for NMEA mode)
	gpsBaud     int     // GPS serial baud rate (for NMEA mode)
	gpsdHost    string  // GPSD host address (for gpsd mode)
	gpsdPort    string  // GPSD port (for gpsd mode)
	wait        string  // First-fix timeout (e.g., "30s")
	latitude    float64 // Manual latitude in decimal degrees
	longitude   float64 // Manual longitude in decimal degrees
	altitude    float64 // Manual altitude in meters
	verbose     bool    // Enable verbose logging
	showVersion bool    // Show version information
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "sater-station",
	Short: "Record a field bearing observation for beacon localization",
	Long: `SATER Station records one direction-finding observation from the field:
the operator's position (from a GPS receiver or manual coordinates), the
azimuth toward the beacon, and the reception report.

The record is appended to a mission file for later fusion, or printed as
YAML on stdout when no mission file is given.

Example usage:
  sater-station --callsign F4ABC --azimuth 137.5 --mission sater.yaml
  sater-station --callsign F4ABC --azimuth 90 --signal S7 --gps gpsd
  sater-station --callsign F4ABC --azimuth 245 --gps manual --lat 43.70 --lon 7.25`,
	Run: func(cmd *cobra.Command, args []string) {
		// Handle version flag
		if showVersion {
			fmt.Println(version.GetVersionInfo("SATER Station"))
			return
		}

		if err := runStation(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	},
}

// init initializes the CLI flags and configuration
func init() {
	// Initialize configuration when cobra starts
	cobra.OnInitialize(initConfig)

	// Persistent flags available to all commands
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "./config.yaml", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	// Observation flags
	rootCmd.Flags().StringVar(&callsign, "callsign", "", "operator callsign")
	rootCmd.Flags().Float64VarP(&azimuth, "azimuth", "a", 0, "bearing to the beacon (degrees true, [0,360))")
	rootCmd.Flags().StringVarP(&signalLevel, "signal", "s", "S5", "S-meter reception report (S0..S9+30)")
	rootCmd.Flags().Float64VarP(&uncertainty, "uncertainty", "u", locator.DefaultUncertainty, "bearing uncertainty (degrees, [0,30])")
	rootCmd.Flags().BoolVar(&visible, "visible", true, "include this station in fix computation")
	rootCmd.Flags().StringVarP(&missionPath, "mission", "m", "", "mission file to append to (default: print YAML to stdout)")

	// GPS configuration options
	rootCmd.Flags().StringVar(&gpsMode, "gps", "nmea", "GPS mode: nmea, gpsd, or manual")
	rootCmd.Flags().StringVarP(&gpsPort, "port", "p", "/dev/ttyUSB0", "GPS serial port (for NMEA mode)")
	rootCmd.Flags().IntVar(&gpsBaud, "baud", 9600, "GPS serial baud rate (for NMEA mode)")
	rootCmd.Flags().StringVar(&gpsdHost, "gpsd-host", "localhost", "GPSD host address (for gpsd mode)")
	rootCmd.Flags().StringVar(&gpsdPort, "gpsd-port", "2947", "GPSD port (for gpsd mode)")
	rootCmd.Flags().StringVar(&wait, "wait", "30s", "first GPS fix timeout")

	// Manual GPS coordinates (for manual mode)
	rootCmd.Flags().Float64Var(&latitude, "lat", 0.0, "manual latitude in decimal degrees (for manual mode)")
	rootCmd.Flags().Float64Var(&longitude, "lon", 0.0, "manual longitude in decimal degrees (for manual mode)")
	rootCmd.Flags().Float64Var(&altitude, "alt", 0.0, "manual altitude in meters (for manual mode)")

	rootCmd.Flags().BoolVar(&showVersion, "version", false, "show version information")

	rootCmd.MarkFlagRequired("azimuth")

	// Bind command line flags to viper configuration keys
	viper.BindPFlag("station.callsign", rootCmd.Flags().Lookup("callsign"))
	viper.BindPFlag("station.default_uncertainty", rootCmd.Flags().Lookup("uncertainty"))
	viper.BindPFlag("station.default_signal", rootCmd.Flags().Lookup("signal"))
	viper.BindPFlag("gps.mode", rootCmd.Flags().Lookup("gps"))
	viper.BindPFlag("gps.port", rootCmd.Flags().Lookup("port"))
	viper.BindPFlag("gps.baud_rate", rootCmd.Flags().Lookup("baud"))
	viper.BindPFlag("gps.gpsd_host", rootCmd.Flags().Lookup("gpsd-host"))
	viper.BindPFlag("gps.gpsd_port", rootCmd.Flags().Lookup("gpsd-port"))
	viper.BindPFlag("gps.manual_latitude", rootCmd.Flags().Lookup("lat"))
	viper.BindPFlag("gps.manual_longitude", rootCmd.Flags().Lookup("lon"))
	viper.BindPFlag("gps.manual_altitude", rootCmd.Flags().Lookup("alt"))
	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	// Handle version flag early
	rootCmd.PreRunE = func(cmd *cobra.Command, args []string) error {
		if showVersion {
			fmt.Println(version.GetVersionInfo("SATER Station"))
			os.Exit(0)
		}
		return nil
	}
}

// initConfig reads in config file and ENV variables if set
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Search for config.yaml in current directory
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
	}

	// Read in environment variables that match
	viper.AutomaticEnv()

	// If a config file is found, read it in
	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// runStation is the main application logic
func runStation() error {
	// Load default configuration
	cfg := config.DefaultConfig()

	// Override with values from config file and command line flags
	if err := viper.Unmarshal(cfg); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.Station.Callsign = viper.GetString("station.callsign")
	cfg.Station.DefaultUncertainty = viper.GetFloat64("station.default_uncertainty")
	cfg.Station.DefaultSignal = viper.GetString("station.default_signal")
	cfg.GPS.Mode = viper.GetString("gps.mode")
	cfg.GPS.Port = viper.GetString("gps.port")
	cfg.GPS.BaudRate = viper.GetInt("gps.baud_rate")
	cfg.GPS.GPSDHost = viper.GetString("gps.gpsd_host")
	cfg.GPS.GPSDPort = viper.GetString("gps.gpsd_port")
	cfg.GPS.ManualLatitude = viper.GetFloat64("gps.manual_latitude")
	cfg.GPS.ManualLongitude = viper.GetFloat64("gps.manual_longitude")
	cfg.GPS.ManualAltitude = viper.GetFloat64("gps.manual_altitude")

	// Parse first-fix timeout into time.Duration
	waitParsed, err := time.ParseDuration(wait)
	if err != nil {
		return fmt.Errorf("invalid wait format: %w", err)
	}
	cfg.GPS.Timeout = waitParsed

	// Validate GPS configuration
	switch cfg.GPS.Mode {
	case "manual":
		// Validate manual coordinates
		if cfg.GPS.ManualLatitude < -90 || cfg.GPS.ManualLatitude > 90 {
			return fmt.Errorf("invalid latitude: %.8f (must be between -90 and 90 degrees)", cfg.GPS.ManualLatitude)
		}
		if cfg.GPS.ManualLongitude < -180 || cfg.GPS.ManualLongitude > 180 {
			return fmt.Errorf("invalid longitude: %.8f (must be between -180 and 180 degrees)", cfg.GPS.ManualLongitude)
		}
		// Coordinates left at (0,0) almost certainly mean they were not entered
		if cfg.GPS.ManualLatitude == 0.0 && cfg.GPS.ManualLongitude == 0.0 {
			return fmt.Errorf("manual coordinates not specified: set manual_latitude and manual_longitude in config file or use --lat and --lon flags")
		}
	case "nmea":
		if cfg.GPS.Port == "" {
			return fmt.Errorf("GPS port not specified for NMEA mode")
		}
	case "gpsd":
		if cfg.GPS.GPSDHost == "" {
			return fmt.Errorf("GPSD host not specified for gpsd mode")
		}
		if cfg.GPS.GPSDPort == "" {
			return fmt.Errorf("GPSD port not specified for gpsd mode")
		}
	default:
		return fmt.Errorf("invalid GPS mode: %s (must be 'nmea', 'gpsd', or 'manual')", cfg.GPS.Mode)
	}

	level, err := locator.ParseSignal(cfg.Station.DefaultSignal)
	if err != nil {
		return err
	}

	// Display startup information on stderr; stdout is reserved for the record
	fmt.Fprintf(os.Stderr, "SATER Station starting...\n")
	fmt.Fprintf(os.Stderr, "Callsign: %s\n", cfg.Station.Callsign)
	fmt.Fprintf(os.Stderr, "Azimuth: %.1f° ±%.1f°\n", azimuth, cfg.Station.DefaultUncertainty)
	fmt.Fprintf(os.Stderr, "Signal: %s\n", level)

	switch cfg.GPS.Mode {
	case "manual":
		fmt.Fprintf(os.Stderr, "GPS: MANUAL MODE (using fixed coordinates)\n")
		fmt.Fprintf(os.Stderr, "Location: %.8f°, %.8f° (%.1f m)\n",
			cfg.GPS.ManualLatitude, cfg.GPS.ManualLongitude, cfg.GPS.ManualAltitude)
	case "nmea":
		fmt.Fprintf(os.Stderr, "GPS: NMEA MODE (serial port %s)\n", cfg.GPS.Port)
	case "gpsd":
		fmt.Fprintf(os.Stderr, "GPS: GPSD MODE (%s:%s)\n", cfg.GPS.GPSDHost, cfg.GPS.GPSDPort)
	}

	// Create and initialize the observer
	obs := observation.NewObserver(cfg)
	if err := obs.Initialize(); err != nil {
		return fmt.Errorf("failed to initialize observer: %w", err)
	}
	defer obs.Close()

	// Set up signal handling so a stuck GPS wait can be interrupted
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Fprintf(os.Stderr, "\nReceived interrupt signal, shutting down...\n")
		cancel()
	}()

	// Wait for a position before accepting the bearing
	if err := obs.WaitForGPSFixWithContext(ctx); err != nil {
		return fmt.Errorf("GPS initialization failed: %w", err)
	}

	record, err := obs.BuildRecord(observation.BearingReport{
		Callsign:    cfg.Station.Callsign,
		Azimuth:     azimuth,
		Uncertainty: cfg.Station.DefaultUncertainty,
		Signal:      level,
		Visible:     visible,
	})
	if err != nil {
		return err
	}

	displayRecord(record)

	if missionPath == "" {
		// No mission file: emit the record as a YAML list item for pasting
		data, err := yaml.Marshal([]missionfile.StationRecord{record})
		if err != nil {
			return fmt.Errorf("failed to encode record: %w", err)
		}
		fmt.Print(string(data))
		return nil
	}

	mission, err := missionfile.AppendStation(missionPath, record)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "✅ Recorded %s in %s (%d station(s) on file)\n",
		record.Callsign, missionPath, len(mission.Stations))
	return nil
}

// displayRecord confirms the observation back to the operator with the
// position in the grid notations relayed over the air.
func displayRecord(record missionfile.StationRecord) {
	pos := geodesy.Point{Lat: record.Lat, Lon: record.Lon}

	fmt.Fprintf(os.Stderr, "\nObservation %s:\n", record.ID)
	fmt.Fprintf(os.Stderr, "  Position: %s\n", pos)
	fmt.Fprintf(os.Stderr, "  DMS: %s %s\n",
		geodesy.FormatDMS(pos.Lat, geodesy.AxisLat),
		geodesy.FormatDMS(pos.Lon, geodesy.AxisLon))
	if mgrs, err := geodesy.ToMGRS(pos.Lat, pos.Lon); err == nil {
		fmt.Fprintf(os.Stderr, "  MGRS: %s\n", mgrs)
	}
	fmt.Fprintf(os.Stderr, "  Azimuth: %.1f°, Signal: %s\n\n", record.Azimuth, record.Signal)
}

// main is the entry point of the application
func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
