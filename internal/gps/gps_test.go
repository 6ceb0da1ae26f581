package gps

import (
	"testing"
	"time"

	"github.com/stratoberry/go-gpsd"

	"sater-locator/internal/geodesy"
)

func TestGPSDSatelliteCountPreservation(t *testing.T) {
	// SKY reports often arrive before the first position fix. The count
	// must survive until a TPV report turns it into a full position.
	client := &GPSDClient{
		fixChan: make(chan Position, 10),
		host:    "localhost",
		port:    "2947",
	}

	client.handleSKY(&gpsd.SKYReport{
		Satellites: make([]gpsd.Satellite, 4),
	})

	// Verify satellite count was stored
	if client.position.Satellites != 4 {
		t.Errorf("Expected 4 satellites, got %d", client.position.Satellites)
	}

	// Now simulate a TPV report arriving with a 3D fix
	client.handleTPV(&gpsd.TPVReport{
		Mode: 3,
		Lat:  33.349,
		Lon:  -111.758,
		Alt:  359.84,
		Time: time.Now(),
	})

	// Verify that the position was set correctly AND satellites were preserved
	if client.position.FixQuality != 1 {
		t.Errorf("Expected fix quality 1, got %d", client.position.FixQuality)
	}
	if client.position.Satellites != 4 {
		t.Errorf("Expected 4 satellites to be preserved, got %d", client.position.Satellites)
	}
	if client.position.Lat != 33.349 {
		t.Errorf("Expected latitude 33.349, got %f", client.position.Lat)
	}
	if client.position.Lon != -111.758 {
		t.Errorf("Expected longitude -111.758, got %f", client.position.Lon)
	}
}

func TestGPSDSatelliteCountUpdate(t *testing.T) {
	// A SKY report after a fix updates the count without disturbing the fix
	client := &GPSDClient{
		fixChan: make(chan Position, 10),
		host:    "localhost",
		port:    "2947",
		position: Position{
			Point:      geodesy.Point{Lat: 33.349, Lon: -111.758},
			Altitude:   359.84,
			FixQuality: 1,
			Satellites: 2,
		},
	}

	client.handleSKY(&gpsd.SKYReport{
		Satellites: make([]gpsd.Satellite, 6),
	})

	// Verify satellite count was updated while preserving other position data
	if client.position.Satellites != 6 {
		t.Errorf("Expected 6 satellites, got %d", client.position.Satellites)
	}
	if client.position.FixQuality != 1 {
		t.Errorf("Expected fix quality to be preserved as 1, got %d", client.position.FixQuality)
	}
	if client.position.Lat != 33.349 {
		t.Errorf("Expected latitude to be preserved as 33.349, got %f", client.position.Lat)
	}
}

func TestGPSDIgnoresInvalidTPV(t *testing.T) {
	client := &GPSDClient{
		fixChan: make(chan Position, 10),
	}

	// Mode 1 means no fix; the report must not produce a position
	client.handleTPV(&gpsd.TPVReport{
		Mode: 1,
		Lat:  33.349,
		Lon:  -111.758,
	})
	if client.position.FixQuality != 0 {
		t.Errorf("Expected no fix from mode 1 report, got quality %d", client.position.FixQuality)
	}

	// A (0,0) position with a claimed fix is a receiver that hasn't settled
	client.handleTPV(&gpsd.TPVReport{
		Mode: 3,
		Lat:  0,
		Lon:  0,
	})
	if client.position.FixQuality != 0 {
		t.Errorf("Expected (0,0) report to be ignored, got quality %d", client.position.FixQuality)
	}
}

func TestWaitForFixTimeout(t *testing.T) {
	client := &GPSDClient{
		fixChan: make(chan Position, 10),
	}

	start := time.Now()
	_, err := client.WaitForFix(50 * time.Millisecond)
	elapsed := time.Since(start)

	if err == nil {
		t.Fatal("Expected timeout error when no fix arrives")
	}
	if elapsed < 50*time.Millisecond {
		t.Errorf("WaitForFix returned before the timeout: %v", elapsed)
	}
}

func TestWaitForFixDeliversPosition(t *testing.T) {
	client := &GPSDClient{
		fixChan: make(chan Position, 10),
	}

	want := Position{
		Point:      geodesy.Point{Lat: 43.7, Lon: 7.25},
		FixQuality: 1,
		Satellites: 5,
	}
	client.fixChan <- want

	got, err := client.WaitForFix(time.Second)
	if err != nil {
		t.Fatalf("Expected fix, got error: %v", err)
	}
	if got.Lat != want.Lat || got.Lon != want.Lon {
		t.Errorf("Expected position %v, got %v", want.Point, got.Point)
	}
	if got.Satellites != 5 {
		t.Errorf("Expected 5 satellites, got %d", got.Satellites)
	}
}
