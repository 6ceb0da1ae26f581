package locator

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"testing"
)

// twoStationReport builds the standard crossing-bearings fixture with a
// computed fix.
func twoStationReport(t *testing.T) *Report {
	t.Helper()

	stations := []Station{
		station("a1b2c3d4", 43.7, 7.25, 90),
		station("e5f6a7b8", 43.8, 7.35, 180),
	}
	points := Intersections(stations, DefaultProjectionKm)
	fix, ok := ComputeFix(stations, DefaultProjectionKm)
	if !ok {
		t.Fatal("Failed to compute fixture fix")
	}

	return &Report{
		Mission:      "test-mission",
		Stations:     stations,
		ProjectionKm: DefaultProjectionKm,
		Fix:          &fix,
		Points:       points,
	}
}

func TestExportGeoJSON(t *testing.T) {
	report := twoStationReport(t)

	var buf bytes.Buffer
	if err := report.ExportGeoJSON(&buf); err != nil {
		t.Fatalf("Failed to export GeoJSON: %v", err)
	}

	var doc struct {
		Type     string `json:"type"`
		Features []struct {
			Geometry struct {
				Type string `json:"type"`
			} `json:"geometry"`
			Properties map[string]interface{} `json:"properties"`
		} `json:"features"`
		Properties map[string]interface{} `json:"properties"`
	}
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("Failed to parse exported GeoJSON: %v", err)
	}

	if doc.Type != "FeatureCollection" {
		t.Errorf("Expected FeatureCollection, got %q", doc.Type)
	}
	if doc.Properties["mission"] != "test-mission" {
		t.Errorf("Expected mission test-mission, got %v", doc.Properties["mission"])
	}

	// 2 stations + 2 rays + 2 cones + 1 crossing + circle + fix center
	if len(doc.Features) != 9 {
		t.Errorf("Expected 9 features, got %d", len(doc.Features))
	}

	counts := map[string]int{}
	for _, f := range doc.Features {
		kind, _ := f.Properties["type"].(string)
		counts[kind]++
	}
	expected := map[string]int{
		"station":            2,
		"azimuth_ray":        2,
		"uncertainty_cone":   2,
		"intersection":       1,
		"uncertainty_circle": 1,
		"fix":                1,
	}
	for kind, want := range expected {
		if counts[kind] != want {
			t.Errorf("Expected %d %s features, got %d", want, kind, counts[kind])
		}
	}

	for _, f := range doc.Features {
		if f.Properties["type"] != "fix" {
			continue
		}
		if f.Geometry.Type != "Point" {
			t.Errorf("Expected Point geometry for fix, got %q", f.Geometry.Type)
		}
		mgrs, _ := f.Properties["mgrs"].(string)
		if mgrs == "" {
			t.Error("Expected fix feature to carry an MGRS reference")
		}
		if radius, _ := f.Properties["radius_km"].(float64); radius != MinRadiusKm {
			t.Errorf("Expected fix radius %.1f, got %v", MinRadiusKm, f.Properties["radius_km"])
		}
	}
}

func TestExportGeoJSONSkipsUnusableStations(t *testing.T) {
	// No signal and not visible: both stations appear as points but draw
	// no ray or cone, and with no fix there is no circle either
	silent := station("a1b2c3d4", 43.7, 7.25, 90)
	silent.Signal = SignalS0
	hidden := station("e5f6a7b8", 43.8, 7.35, 180)
	hidden.Visible = false

	report := &Report{
		Mission:      "test-mission",
		Stations:     []Station{silent, hidden},
		ProjectionKm: DefaultProjectionKm,
	}

	var buf bytes.Buffer
	if err := report.ExportGeoJSON(&buf); err != nil {
		t.Fatalf("Failed to export GeoJSON: %v", err)
	}

	var doc struct {
		Features []struct {
			Properties map[string]interface{} `json:"properties"`
		} `json:"features"`
	}
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("Failed to parse exported GeoJSON: %v", err)
	}

	if len(doc.Features) != 2 {
		t.Fatalf("Expected only 2 station features, got %d", len(doc.Features))
	}
	for _, f := range doc.Features {
		if kind := f.Properties["type"]; kind != "station" {
			t.Errorf("Expected only station features, got %v", kind)
		}
	}
}

func TestExportCSV(t *testing.T) {
	report := twoStationReport(t)

	var buf bytes.Buffer
	if err := report.ExportCSV(&buf); err != nil {
		t.Fatalf("Failed to export CSV: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("Failed to parse exported CSV: %v", err)
	}

	// Header, two station rows, one fix row
	if len(records) != 4 {
		t.Fatalf("Expected 4 records, got %d", len(records))
	}
	if records[0][0] != "type" || records[0][3] != "lat" {
		t.Errorf("Unexpected header: %v", records[0])
	}

	first := records[1]
	if first[0] != "station" || first[2] != "a1b2c3d4" {
		t.Errorf("Unexpected first station row: %v", first)
	}
	if first[3] != "43.700000" || first[4] != "7.250000" {
		t.Errorf("Expected six-decimal coordinates, got %s, %s", first[3], first[4])
	}
	if first[5] != "90.0" || first[7] != "S5" || first[8] != "true" {
		t.Errorf("Unexpected station fields: %v", first)
	}

	fix := records[3]
	if fix[0] != "fix" {
		t.Errorf("Expected fix row, got %v", fix)
	}
	if fix[9] != "0.50" {
		t.Errorf("Expected radius 0.50, got %q", fix[9])
	}
	if fix[11] != "1" {
		t.Errorf("Expected 1 crossing in fix row, got %q", fix[11])
	}
}

func TestExportCSVNoFix(t *testing.T) {
	report := &Report{
		Mission: "test-mission",
		Stations: []Station{
			station("a1b2c3d4", 43.7, 7.25, 90),
			station("e5f6a7b8", 43.8, 7.35, 180),
		},
		ProjectionKm: DefaultProjectionKm,
	}

	var buf bytes.Buffer
	if err := report.ExportCSV(&buf); err != nil {
		t.Fatalf("Failed to export CSV: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("Failed to parse exported CSV: %v", err)
	}
	if len(records) != 3 {
		t.Errorf("Expected header and 2 station rows, got %d records", len(records))
	}
}
