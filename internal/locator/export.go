// Export renderings of a computed fix for mapping tools and spreadsheets.
package locator

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"math"

	"sater-locator/internal/geodesy"
)

// Report bundles one engine run for export: the stations that went in,
// the projection distance used, and the resulting fix and crossing
// points (Fix nil / Points empty when there was no fix). Exporters only
// read it.
type Report struct {
	Mission      string
	Stations     []Station
	ProjectionKm float64
	Fix          *Fix
	Points       []geodesy.Point
}

// ExportGeoJSON writes the report as a GeoJSON FeatureCollection for web
// mapping: a Point per station, a LineString bearing ray and a Polygon
// uncertainty cone per visible station with a usable signal, a Point per
// raw crossing, and, when a fix exists, the uncertainty circle ring plus
// its center point carrying radius, area and MGRS properties.
func (r *Report) ExportGeoJSON(w io.Writer) error {
	features := []map[string]interface{}{}

	for _, s := range r.Stations {
		props := map[string]interface{}{
			"name":            s.Callsign,
			"type":            "station",
			"station_id":      s.ID,
			"azimuth_deg":     s.Azimuth,
			"uncertainty_deg": s.Uncertainty,
			"signal":          s.Signal.String(),
			"visible":         s.Visible,
		}
		if r.Fix != nil {
			props["distance_to_fix_km"] = geodesy.HaversineKm(s.Position, r.Fix.Center)
			props["bearing_to_fix_deg"] = geodesy.InitialBearing(s.Position, r.Fix.Center)
		}
		features = append(features, pointFeature(s.Position, props))

		if !s.Visible || !s.Signal.Usable() {
			continue
		}

		ray := geodesy.Project(s.Position, s.Azimuth, r.ProjectionKm)
		features = append(features, map[string]interface{}{
			"type": "Feature",
			"geometry": map[string]interface{}{
				"type": "LineString",
				"coordinates": [][]float64{
					{s.Position.Lon, s.Position.Lat},
					{ray.Lon, ray.Lat},
				},
			},
			"properties": map[string]interface{}{
				"name":        fmt.Sprintf("%s azimuth", s.Callsign),
				"type":        "azimuth_ray",
				"station_id":  s.ID,
				"azimuth_deg": s.Azimuth,
			},
		})

		if s.Uncertainty > 0 {
			features = append(features, coneFeature(s, r.ProjectionKm))
		}
	}

	for i, p := range r.Points {
		features = append(features, pointFeature(p, map[string]interface{}{
			"name": fmt.Sprintf("Intersection %d", i+1),
			"type": "intersection",
		}))
	}

	if r.Fix != nil {
		features = append(features, circleFeature(r.Fix.Center, r.Fix.RadiusKm))

		mgrs, err := geodesy.ToMGRS(r.Fix.Center.Lat, r.Fix.Center.Lon)
		if err != nil {
			return fmt.Errorf("failed to encode fix center as MGRS: %w", err)
		}
		features = append(features, pointFeature(r.Fix.Center, map[string]interface{}{
			"name":        "Fix center",
			"type":        "fix",
			"radius_km":   r.Fix.RadiusKm,
			"area_km2":    r.Fix.AreaKm2,
			"point_count": r.Fix.PointCount,
			"mgrs":        mgrs,
			"dms": geodesy.FormatDMS(r.Fix.Center.Lat, geodesy.AxisLat) + " " +
				geodesy.FormatDMS(r.Fix.Center.Lon, geodesy.AxisLon),
		}))
	}

	doc := map[string]interface{}{
		"type":     "FeatureCollection",
		"features": features,
		"properties": map[string]interface{}{
			"mission":       r.Mission,
			"projection_km": r.ProjectionKm,
			"station_count": len(r.Stations),
			"point_count":   len(r.Points),
		},
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode GeoJSON: %w", err)
	}
	return nil
}

// ExportCSV writes one row per station followed by a fix row when a fix
// exists. Coordinates carry six decimals, the precision the rest of the
// toolchain exchanges.
func (r *Report) ExportCSV(w io.Writer) error {
	cw := csv.NewWriter(w)

	header := []string{
		"type", "id", "callsign", "lat", "lon",
		"azimuth_deg", "uncertainty_deg", "signal", "visible",
		"radius_km", "area_km2", "points",
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, s := range r.Stations {
		row := []string{
			"station",
			s.ID,
			s.Callsign,
			fmt.Sprintf("%.6f", s.Position.Lat),
			fmt.Sprintf("%.6f", s.Position.Lon),
			fmt.Sprintf("%.1f", s.Azimuth),
			fmt.Sprintf("%.1f", s.Uncertainty),
			s.Signal.String(),
			fmt.Sprintf("%t", s.Visible),
			"", "", "",
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write station row: %w", err)
		}
	}

	if r.Fix != nil {
		row := []string{
			"fix",
			"", "",
			fmt.Sprintf("%.6f", r.Fix.Center.Lat),
			fmt.Sprintf("%.6f", r.Fix.Center.Lon),
			"", "", "", "",
			fmt.Sprintf("%.2f", r.Fix.RadiusKm),
			fmt.Sprintf("%.2f", r.Fix.AreaKm2),
			fmt.Sprintf("%d", r.Fix.PointCount),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write fix row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func pointFeature(p geodesy.Point, props map[string]interface{}) map[string]interface{} {
	return map[string]interface{}{
		"type": "Feature",
		"geometry": map[string]interface{}{
			"type":        "Point",
			"coordinates": []float64{p.Lon, p.Lat},
		},
		"properties": props,
	}
}

// coneFeature builds the uncertainty wedge: station position, then the
// far edge swept from azimuth-uncertainty to azimuth+uncertainty in
// steps of at most one degree, closed back on the station.
func coneFeature(s Station, projectionKm float64) map[string]interface{} {
	segments := int(math.Ceil(2 * s.Uncertainty))
	if segments < 1 {
		segments = 1
	}

	ring := [][]float64{{s.Position.Lon, s.Position.Lat}}
	for i := 0; i <= segments; i++ {
		bearing := s.Azimuth - s.Uncertainty + 2*s.Uncertainty*float64(i)/float64(segments)
		p := geodesy.Project(s.Position, bearing, projectionKm)
		ring = append(ring, []float64{p.Lon, p.Lat})
	}
	ring = append(ring, []float64{s.Position.Lon, s.Position.Lat})

	return map[string]interface{}{
		"type": "Feature",
		"geometry": map[string]interface{}{
			"type":        "Polygon",
			"coordinates": [][][]float64{ring},
		},
		"properties": map[string]interface{}{
			"name":            fmt.Sprintf("%s cone", s.Callsign),
			"type":            "uncertainty_cone",
			"station_id":      s.ID,
			"uncertainty_deg": s.Uncertainty,
		},
	}
}

// circleFeature approximates the uncertainty circle with a 72-segment
// ring, converting the radius to degrees with the same flat-map scale
// the enclosing circle was computed under.
func circleFeature(center geodesy.Point, radiusKm float64) map[string]interface{} {
	const segments = 72

	latRadius := radiusKm / 111.0
	lonRadius := radiusKm / (111.0 * math.Cos(center.Lat*math.Pi/180))

	ring := make([][]float64, 0, segments+1)
	for i := 0; i < segments; i++ {
		angle := 2 * math.Pi * float64(i) / segments
		ring = append(ring, []float64{
			center.Lon + lonRadius*math.Cos(angle),
			center.Lat + latRadius*math.Sin(angle),
		})
	}
	ring = append(ring, ring[0])

	return map[string]interface{}{
		"type": "Feature",
		"geometry": map[string]interface{}{
			"type":        "Polygon",
			"coordinates": [][][]float64{ring},
		},
		"properties": map[string]interface{}{
			"name":      "Uncertainty circle",
			"type":      "uncertainty_circle",
			"radius_km": radiusKm,
		},
	}
}
