// SATER Locator - bearing fusion tool for emergency beacon localization
// This program fuses bearing observations from ground direction-finding
// stations to estimate the position of a transmitting distress beacon.
package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"sater-locator/internal/config"
	"sater-locator/internal/geodesy"
	"sater-locator/internal/locator"
	"sater-locator/internal/missionfile"
	"sater-locator/internal/version"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Command line flag variables
var (
	cfgFile      string   // Configuration file path
	missionPath  string   // Mission YAML file with station records
	stationSpecs []string // Inline records "callsign,lat,lon,azimuth[,uncertainty[,signal]]"
	projectionKm float64  // Bearing line length in kilometers
	format       string   // Output format: text, geojson, or csv
	outputFile   string   // Output file path (default: stdout)
	showPoints   bool     // List individual bearing crossings
	beaconSpec   string   // Known beacon position "lat,lon" (training aid)
	verbose      bool     // Enable verbose output
	showVersion  bool     // Show version information
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "sater-locator",
	Short: "Bearing fusion tool for emergency beacon localization",
	Long: `SATER Locator estimates the position of a distress beacon from bearing
observations taken by ground stations. Each station reports its position
and the azimuth on which it hears the beacon; the tool projects every
bearing as a line, intersects all station pairs, and encloses the
crossings in the smallest circle to produce a probable fix.

Stations come from a mission YAML file, inline --station records, or both.
Hidden stations and stations reporting signal S0 are set aside before the
fix is computed.

Supported output formats:
  - text: Operator report with DD/DMS/UTM/MGRS coordinates
  - geojson: For web mapping applications
  - csv: For spreadsheet analysis and custom plotting

Example usage:
  sater-locator --mission sater.yaml
  sater-locator -s "F4ABC,43.70,7.25,90" -s "F4DEF,43.80,7.35,180"
  sater-locator --mission sater.yaml --format geojson --output fix.geojson
  sater-locator --mission training.yaml --beacon "43.6995,7.3500" --points`,
	Run: func(cmd *cobra.Command, args []string) {
		// Handle version flag
		if showVersion {
			fmt.Println(version.GetVersionInfo("SATER Locator"))
			return
		}

		if err := runLocator(); err != nil {
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

	// Command-specific flags
	rootCmd.Flags().StringVarP(&missionPath, "mission", "m", "", "mission file with station records (YAML)")
	rootCmd.Flags().StringArrayVarP(&stationSpecs, "station", "s", nil, "inline station record \"callsign,lat,lon,azimuth[,uncertainty[,signal]]\" (repeatable)")
	rootCmd.Flags().Float64VarP(&projectionKm, "length", "l", locator.DefaultProjectionKm, "bearing line length (km)")
	rootCmd.Flags().StringVarP(&format, "format", "f", "text", "output format (text, geojson, csv)")
	rootCmd.Flags().StringVarP(&outputFile, "output", "o", "", "output file (default: stdout)")
	rootCmd.Flags().BoolVar(&showPoints, "points", false, "list individual bearing crossings")
	rootCmd.Flags().StringVar(&beaconSpec, "beacon", "", "known beacon position \"lat,lon\" for training exercises")
	rootCmd.Flags().BoolVar(&showVersion, "version", false, "show version information")

	// Bind command line flags to viper configuration keys
	viper.BindPFlag("locator.projection_km", rootCmd.Flags().Lookup("length"))
	viper.BindPFlag("locator.format", rootCmd.Flags().Lookup("format"))
	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	// Handle version flag early
	rootCmd.PreRunE = func(cmd *cobra.Command, args []string) error {
		if showVersion {
			fmt.Println(version.GetVersionInfo("SATER Locator"))
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

// runLocator is the main application logic
func runLocator() error {
	// Load default configuration
	cfg := config.DefaultConfig()

	// Override with values from config file and command line flags
	if err := viper.Unmarshal(cfg); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.Locator.ProjectionKm = viper.GetFloat64("locator.projection_km")
	cfg.Locator.Format = viper.GetString("locator.format")

	if cfg.Locator.ProjectionKm <= 0 {
		return fmt.Errorf("invalid bearing line length: %.1f km (must be positive)", cfg.Locator.ProjectionKm)
	}
	switch cfg.Locator.Format {
	case "text", "geojson", "csv":
	default:
		return fmt.Errorf("invalid format: %s (must be 'text', 'geojson', or 'csv')", cfg.Locator.Format)
	}

	// Parse the training beacon position up front so a typo fails fast
	var beacon *geodesy.Point
	if beaconSpec != "" {
		p, err := parseLatLon(beaconSpec)
		if err != nil {
			return fmt.Errorf("invalid --beacon %q: %w", beaconSpec, err)
		}
		beacon = &p
	}

	// Assemble station records from the mission file and inline flags
	mission := &missionfile.Mission{}
	if missionPath != "" {
		m, err := missionfile.Load(missionPath)
		if err != nil {
			return err
		}
		mission = m
	}
	for _, spec := range stationSpecs {
		rec, err := parseStationSpec(spec)
		if err != nil {
			return fmt.Errorf("invalid --station %q: %w", spec, err)
		}
		mission.Stations = append(mission.Stations, rec)
	}
	if len(mission.Stations) == 0 {
		return fmt.Errorf("no stations given: provide --mission and/or --station")
	}

	stations, err := mission.ToStations()
	if err != nil {
		return err
	}

	missionName := mission.Name
	if missionName == "" {
		missionName = "ad hoc"
	}

	// Set aside stations that cannot contribute a bearing
	usable := make([]locator.Station, 0, len(stations))
	var hidden, silent int
	for _, s := range stations {
		switch {
		case !s.Visible:
			hidden++
		case !s.Signal.Usable():
			silent++
		default:
			usable = append(usable, s)
		}
	}

	points := locator.Intersections(usable, cfg.Locator.ProjectionKm)
	fix, ok := locator.ComputeFix(usable, cfg.Locator.ProjectionKm)

	report := &locator.Report{
		Mission:      missionName,
		Stations:     stations,
		ProjectionKm: cfg.Locator.ProjectionKm,
		Points:       points,
	}
	if ok {
		report.Fix = &fix
	}

	// Resolve the output writer
	out := io.Writer(os.Stdout)
	if outputFile != "" {
		f, err := os.Create(outputFile)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	switch cfg.Locator.Format {
	case "geojson":
		if err := report.ExportGeoJSON(out); err != nil {
			return err
		}
		if beacon != nil && report.Fix != nil {
			printBeaconError(os.Stderr, report.Fix, *beacon)
		}
	case "csv":
		if err := report.ExportCSV(out); err != nil {
			return err
		}
		if beacon != nil && report.Fix != nil {
			printBeaconError(os.Stderr, report.Fix, *beacon)
		}
	case "text":
		if err := displayReport(out, report, len(usable), hidden, silent, beacon); err != nil {
			return err
		}
	}

	if !ok {
		return fmt.Errorf("no fix: %d usable station(s) produced no forward crossings", len(usable))
	}
	return nil
}

// parseStationSpec parses one inline station record of the form
// "callsign,lat,lon,azimuth[,uncertainty[,signal]]". Range validation is
// left to the mission record conversion so inline and file records fail
// the same way.
func parseStationSpec(spec string) (missionfile.StationRecord, error) {
	parts := strings.Split(spec, ",")
	if len(parts) < 4 || len(parts) > 6 {
		return missionfile.StationRecord{}, fmt.Errorf("expected callsign,lat,lon,azimuth[,uncertainty[,signal]], got %d field(s)", len(parts))
	}
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	rec := missionfile.StationRecord{
		ID:       missionfile.NewStationID(),
		Callsign: parts[0],
	}

	var err error
	if rec.Lat, err = strconv.ParseFloat(parts[1], 64); err != nil {
		return missionfile.StationRecord{}, fmt.Errorf("bad latitude %q", parts[1])
	}
	if rec.Lon, err = strconv.ParseFloat(parts[2], 64); err != nil {
		return missionfile.StationRecord{}, fmt.Errorf("bad longitude %q", parts[2])
	}
	if rec.Azimuth, err = strconv.ParseFloat(parts[3], 64); err != nil {
		return missionfile.StationRecord{}, fmt.Errorf("bad azimuth %q", parts[3])
	}
	if len(parts) >= 5 && parts[4] != "" {
		u, err := strconv.ParseFloat(parts[4], 64)
		if err != nil {
			return missionfile.StationRecord{}, fmt.Errorf("bad uncertainty %q", parts[4])
		}
		rec.Uncertainty = &u
	}
	if len(parts) == 6 && parts[5] != "" {
		if _, err := locator.ParseSignal(parts[5]); err != nil {
			return missionfile.StationRecord{}, err
		}
		rec.Signal = parts[5]
	}

	return rec, nil
}

// parseLatLon parses a "lat,lon" pair in decimal degrees.
func parseLatLon(spec string) (geodesy.Point, error) {
	parts := strings.Split(spec, ",")
	if len(parts) != 2 {
		return geodesy.Point{}, fmt.Errorf("expected \"lat,lon\", got %d field(s)", len(parts))
	}

	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return geodesy.Point{}, fmt.Errorf("bad latitude %q", parts[0])
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return geodesy.Point{}, fmt.Errorf("bad longitude %q", parts[1])
	}

	p := geodesy.Point{Lat: lat, Lon: lon}
	if !p.InBounds() {
		return geodesy.Point{}, fmt.Errorf("position %s out of range: %w", p, geodesy.ErrInvalidInput)
	}
	return p, nil
}

// displayReport renders the operator report: station table, fix location
// in every coordinate system the field teams use, per-station ranges, and
// a quality assessment.
func displayReport(w io.Writer, report *locator.Report, usable, hidden, silent int, beacon *geodesy.Point) error {
	fmt.Fprintf(w, "╔══════════════════════════════════════════════════════════════╗\n")
	fmt.Fprintf(w, "║                 SATER LOCATOR %s                        ║\n", fmt.Sprintf("%-8s", version.GetFullVersion()))
	fmt.Fprintf(w, "║              Bearing Fusion / Beacon Localization            ║\n")
	fmt.Fprintf(w, "╚══════════════════════════════════════════════════════════════╝\n\n")

	fmt.Fprintf(w, "📡 Mission: %s (%d station reports, bearing lines %.0f km)\n\n",
		report.Mission, len(report.Stations), report.ProjectionKm)

	displayStations(w, report.Stations)

	if hidden > 0 || silent > 0 {
		fmt.Fprintf(w, "⚠️  Set aside %d hidden and %d no-signal station(s); %d usable\n\n",
			hidden, silent, usable)
	}

	fmt.Fprintf(w, "📍 Bearing crossings: %d from %d usable station(s)\n\n", len(report.Points), usable)

	if showPoints && len(report.Points) > 0 {
		fmt.Fprintf(w, "📐 Crossing Points:\n")
		for i, p := range report.Points {
			fmt.Fprintf(w, "   %2d. %11.6f, %12.6f\n", i+1, p.Lat, p.Lon)
		}
		fmt.Fprintf(w, "\n")
	}

	if report.Fix == nil {
		fmt.Fprintf(w, "❌ NO FIX - need at least two usable stations whose bearings cross ahead of them\n")
		return nil
	}

	if err := displayFix(w, report.Fix); err != nil {
		return err
	}

	fmt.Fprintf(w, "📏 Station Ranges to Fix Center:\n")
	for _, s := range report.Stations {
		if !s.Visible || !s.Signal.Usable() {
			continue
		}
		fmt.Fprintf(w, "   %s: %.1f km at %.1f°\n", s.Callsign,
			geodesy.HaversineKm(s.Position, report.Fix.Center),
			geodesy.InitialBearing(s.Position, report.Fix.Center))
	}
	fmt.Fprintf(w, "\n")

	displayAssessment(w, report.Fix)

	if beacon != nil {
		fmt.Fprintf(w, "\n")
		printBeaconError(w, report.Fix, *beacon)
	}

	return nil
}

// displayStations shows every station report, including the set-aside ones
func displayStations(w io.Writer, stations []locator.Station) {
	fmt.Fprintf(w, "📡 Ground Stations (%d total):\n", len(stations))
	fmt.Fprintf(w, "┌──────┬──────────────┬──────────────┬───────────────┬─────────┬───────┬────────┬─────────┐\n")
	fmt.Fprintf(w, "│ #    │ Callsign     │ Latitude     │ Longitude     │ Azimuth │ ±Unc  │ Signal │ Visible │\n")
	fmt.Fprintf(w, "├──────┼──────────────┼──────────────┼───────────────┼─────────┼───────┼────────┼─────────┤\n")

	for i, s := range stations {
		fmt.Fprintf(w, "│ %-4d │ %-12s │ %12.6f │ %13.6f │ %6.1f° │ %4.1f° │ %-6s │ %-7t │\n",
			i+1, s.Callsign, s.Position.Lat, s.Position.Lon, s.Azimuth, s.Uncertainty, s.Signal, s.Visible)
	}

	fmt.Fprintf(w, "└──────┴──────────────┴──────────────┴───────────────┴─────────┴───────┴────────┴─────────┘\n\n")
}

// displayFix shows the estimated beacon location in the coordinate systems
// field teams exchange: decimal degrees, DMS, UTM and MGRS.
func displayFix(w io.Writer, fix *locator.Fix) error {
	utm, err := geodesy.ToUTM(fix.Center.Lat, fix.Center.Lon)
	if err != nil {
		return fmt.Errorf("failed to grid fix center: %w", err)
	}
	mgrs, err := geodesy.ToMGRS(fix.Center.Lat, fix.Center.Lon)
	if err != nil {
		return fmt.Errorf("failed to grid fix center: %w", err)
	}
	dms := geodesy.FormatDMS(fix.Center.Lat, geodesy.AxisLat) + " " +
		geodesy.FormatDMS(fix.Center.Lon, geodesy.AxisLon)

	fmt.Fprintf(w, "🎯 Estimated Beacon Location:\n")
	fmt.Fprintf(w, "┌─────────────────────────┬─────────────────────────────────────────┐\n")
	fmt.Fprintf(w, "│ Parameter               │ Value                                   │\n")
	fmt.Fprintf(w, "├─────────────────────────┼─────────────────────────────────────────┤\n")
	fmt.Fprintf(w, "│ Latitude                │ %14.8f°                        │\n", fix.Center.Lat)
	fmt.Fprintf(w, "│ Longitude               │ %14.8f°                        │\n", fix.Center.Lon)
	fmt.Fprintf(w, "│ DMS                     │ %-39s │\n", dms)
	fmt.Fprintf(w, "│ UTM                     │ %-39s │\n", utm)
	fmt.Fprintf(w, "│ MGRS                    │ %-39s │\n", mgrs)
	fmt.Fprintf(w, "├─────────────────────────┼─────────────────────────────────────────┤\n")
	fmt.Fprintf(w, "│ Search Radius           │ %14.2f km                     │\n", fix.RadiusKm)
	fmt.Fprintf(w, "│ Search Area             │ %14.2f km²                    │\n", fix.AreaKm2)
	fmt.Fprintf(w, "│ Bearing Crossings       │ %14d                        │\n", fix.PointCount)
	fmt.Fprintf(w, "└─────────────────────────┴─────────────────────────────────────────┘\n\n")
	return nil
}

// displayAssessment summarizes how trustworthy the fix is for dispatch
func displayAssessment(w io.Writer, fix *locator.Fix) {
	fmt.Fprintf(w, "📊 Fix Quality Assessment:\n")
	switch {
	case fix.RadiusKm <= 2.0:
		fmt.Fprintf(w, "   ✅ TIGHT FIX - Search radius %.2f km\n", fix.RadiusKm)
	case fix.RadiusKm <= 10.0:
		fmt.Fprintf(w, "   ⚠️  MODERATE FIX - Search radius %.2f km\n", fix.RadiusKm)
	default:
		fmt.Fprintf(w, "   ❌ DISPERSED FIX - Search radius %.2f km (review bearings and station geometry)\n", fix.RadiusKm)
	}

	if fix.PointCount >= 3 {
		fmt.Fprintf(w, "   ✅ GOOD GEOMETRY - %d independent crossings\n", fix.PointCount)
	} else {
		fmt.Fprintf(w, "   ⚠️  LIMITED GEOMETRY - only %d crossing(s); add stations for confirmation\n", fix.PointCount)
	}
}

// printBeaconError reports the great-circle error between the fix center
// and a known training beacon.
func printBeaconError(w io.Writer, fix *locator.Fix, beacon geodesy.Point) {
	errKm := geodesy.HaversineKm(fix.Center, beacon)
	bearing := geodesy.InitialBearing(fix.Center, beacon)

	fmt.Fprintf(w, "🎓 Training Beacon Check:\n")
	fmt.Fprintf(w, "   Beacon truth: %s\n", beacon)
	fmt.Fprintf(w, "   Fix error: %.2f km at %.1f° from fix center\n", errKm, bearing)
	if errKm <= fix.RadiusKm {
		fmt.Fprintf(w, "   ✅ Beacon lies inside the search circle\n")
	} else {
		fmt.Fprintf(w, "   ❌ Beacon lies outside the search circle (by %.2f km)\n", errKm-fix.RadiusKm)
	}
}

// main is the entry point of the application
func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
