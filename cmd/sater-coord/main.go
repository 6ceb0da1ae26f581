// SATER Coord - coordinate conversion utility for direction-finding teams
// This program converts a position between decimal degrees, DMS, UTM and
// MGRS notations, and can project a bearing from it to find the endpoint.
package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"sater-locator/internal/geodesy"
	"sater-locator/internal/version"

	"github.com/spf13/cobra"
)

var (
	latDD       float64 // Latitude in decimal degrees
	lonDD       float64 // Longitude in decimal degrees
	dmsLat      string  // Latitude as "D M S H" (e.g., "48 51 23.8 N")
	dmsLon      string  // Longitude as "D M S H" (e.g., "2 21 7.9 E")
	projectSpec string  // Bearing projection "bearing,km"
	showVersion bool    // Show version information
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "sater-coord",
	Short: "Convert a position between DD, DMS, UTM and MGRS notations",
	Long: `SATER Coord converts one position between the coordinate notations
direction-finding teams exchange: decimal degrees, degrees-minutes-seconds,
UTM grid, and the MGRS grid reference relayed over the radio.

The position is given either as decimal degrees (--lat/--lon) or as quoted
DMS quads (--dms-lat/--dms-lon). With --project it also reports where a
bearing of a given length ends.

Example usage:
  sater-coord --lat 48.8566 --lon 2.3522
  sater-coord --dms-lat "48 51 23.8 N" --dms-lon "2 21 7.9 E"
  sater-coord --lat 43.70 --lon 7.25 --project "90,100"`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		// Handle version flag
		if showVersion {
			fmt.Println(version.GetVersionInfo("SATER Coord"))
			return
		}

		if err := runCoord(cmd); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.Flags().BoolVar(&showVersion, "version", false, "show version information")
	rootCmd.Flags().Float64Var(&latDD, "lat", 0.0, "latitude in decimal degrees")
	rootCmd.Flags().Float64Var(&lonDD, "lon", 0.0, "longitude in decimal degrees")
	rootCmd.Flags().StringVar(&dmsLat, "dms-lat", "", "latitude as \"D M S H\" (e.g., \"48 51 23.8 N\")")
	rootCmd.Flags().StringVar(&dmsLon, "dms-lon", "", "longitude as \"D M S H\" (e.g., \"2 21 7.9 E\")")
	rootCmd.Flags().StringVar(&projectSpec, "project", "", "project a bearing \"bearing,km\" from the position")
}

// runCoord resolves the input position and prints every notation
func runCoord(cmd *cobra.Command) error {
	pos, err := resolvePosition(cmd)
	if err != nil {
		return err
	}

	fmt.Printf("SATER COORD %s\n\n", version.GetFullVersion())

	if err := displayPosition("📋 Position Formats:", pos); err != nil {
		return err
	}

	if projectSpec != "" {
		bearing, distanceKm, err := parseProjection(projectSpec)
		if err != nil {
			return fmt.Errorf("invalid --project %q: %w", projectSpec, err)
		}

		endpoint := geodesy.Project(pos, bearing, distanceKm)
		fmt.Printf("🧭 Projection %.1f° for %.1f km:\n", geodesy.NormalizeBearing(bearing), distanceKm)
		if err := displayPosition("", endpoint); err != nil {
			return err
		}
	}

	return nil
}

// resolvePosition reads the position from either flag pair. The DMS pair
// wins when given; mixing the two notations for one axis is rejected.
func resolvePosition(cmd *cobra.Command) (geodesy.Point, error) {
	haveDMS := dmsLat != "" || dmsLon != ""
	haveDD := cmd.Flags().Changed("lat") || cmd.Flags().Changed("lon")

	switch {
	case haveDMS && haveDD:
		return geodesy.Point{}, fmt.Errorf("give either --lat/--lon or --dms-lat/--dms-lon, not both")
	case haveDMS:
		if dmsLat == "" || dmsLon == "" {
			return geodesy.Point{}, fmt.Errorf("both --dms-lat and --dms-lon are required")
		}
		lat, err := parseDMSQuad(dmsLat)
		if err != nil {
			return geodesy.Point{}, fmt.Errorf("invalid --dms-lat %q: %w", dmsLat, err)
		}
		lon, err := parseDMSQuad(dmsLon)
		if err != nil {
			return geodesy.Point{}, fmt.Errorf("invalid --dms-lon %q: %w", dmsLon, err)
		}
		p := geodesy.Point{Lat: lat, Lon: lon}
		if !p.InBounds() {
			return geodesy.Point{}, fmt.Errorf("position %s out of range: %w", p, geodesy.ErrInvalidInput)
		}
		return p, nil
	case haveDD:
		if !cmd.Flags().Changed("lat") || !cmd.Flags().Changed("lon") {
			return geodesy.Point{}, fmt.Errorf("both --lat and --lon are required")
		}
		p := geodesy.Point{Lat: latDD, Lon: lonDD}
		if !p.InBounds() {
			return geodesy.Point{}, fmt.Errorf("position %s out of range: %w", p, geodesy.ErrInvalidInput)
		}
		return p, nil
	default:
		return geodesy.Point{}, fmt.Errorf("position required: use --lat/--lon or --dms-lat/--dms-lon")
	}
}

// parseDMSQuad parses a "D M S H" quad, e.g. "48 51 23.8 N".
func parseDMSQuad(quad string) (float64, error) {
	fields := strings.Fields(quad)
	if len(fields) != 4 {
		return 0, fmt.Errorf("expected \"D M S H\", got %d field(s)", len(fields))
	}

	deg, err := strconv.Atoi(fields[0])
	if err != nil {
		return 0, fmt.Errorf("bad degrees %q", fields[0])
	}
	min, err := strconv.Atoi(fields[1])
	if err != nil {
		return 0, fmt.Errorf("bad minutes %q", fields[1])
	}
	sec, err := strconv.ParseFloat(fields[2], 64)
	if err != nil {
		return 0, fmt.Errorf("bad seconds %q", fields[2])
	}

	return geodesy.DMSToDecimal(deg, min, sec, fields[3])
}

// parseProjection parses a "bearing,km" pair.
func parseProjection(spec string) (bearing, distanceKm float64, err error) {
	parts := strings.Split(spec, ",")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("expected \"bearing,km\", got %d field(s)", len(parts))
	}

	bearing, err = strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("bad bearing %q", parts[0])
	}
	distanceKm, err = strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("bad distance %q", parts[1])
	}
	if distanceKm <= 0 {
		return 0, 0, fmt.Errorf("distance %.1f km must be positive", distanceKm)
	}

	return bearing, distanceKm, nil
}

// displayPosition prints one position in every notation the teams use
func displayPosition(header string, p geodesy.Point) error {
	utm, err := geodesy.ToUTM(p.Lat, p.Lon)
	if err != nil {
		return err
	}
	mgrs, err := geodesy.ToMGRS(p.Lat, p.Lon)
	if err != nil {
		return err
	}

	if header != "" {
		fmt.Printf("%s\n", header)
	}
	fmt.Printf("   Decimal Degrees: %s\n", p)
	fmt.Printf("   DMS: %s %s\n",
		geodesy.FormatDMS(p.Lat, geodesy.AxisLat),
		geodesy.FormatDMS(p.Lon, geodesy.AxisLon))
	fmt.Printf("   UTM: %s\n", utm)
	fmt.Printf("   MGRS: %s\n\n", mgrs)
	return nil
}

// main is the entry point of the application
func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
