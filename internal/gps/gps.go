package gps

import (
	"bufio"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/adrianmo/go-nmea"
	"github.com/stratoberry/go-gpsd"
	"go.bug.st/serial"

	"sater-locator/internal/geodesy"
)

// Position is one GPS fix. The embedded Point is what the rest of the
// system consumes; altitude and fix metadata are kept for reporting.
type Position struct {
	geodesy.Point
	Altitude   float64
	Timestamp  time.Time
	FixQuality int
	Satellites int
}

// GPSInterface defines the common interface for GPS implementations
type GPSInterface interface {
	Start() error
	WaitForFix(timeout time.Duration) (*Position, error)
	GetCurrentPosition() (*Position, error)
	IsFixValid() bool
	GetFixQualityString() string
	Close() error
}

// GPS wraps either NMEA serial or gpsd implementation
type GPS struct {
	impl GPSInterface
}

// NMEASerial implements GPS via serial NMEA interface
type NMEASerial struct {
	port     serial.Port
	position Position
	fixChan  chan Position
	mu       sync.RWMutex
	debug    bool
}

// GPSDClient implements GPS via gpsd daemon
type GPSDClient struct {
	client   *gpsd.Session
	position Position
	fixChan  chan Position
	mu       sync.RWMutex
	host     string
	port     string
}

// NewGPS creates a GPS instance with NMEA serial interface
func NewGPS(portName string, baudRate int) (*GPS, error) {
	nmeaSerial, err := NewNMEASerial(portName, baudRate)
	if err != nil {
		return nil, err
	}
	return &GPS{impl: nmeaSerial}, nil
}

// NewGPSD creates a GPS instance with gpsd interface
func NewGPSD(host, port string) (*GPS, error) {
	gpsdClient, err := NewGPSDClient(host, port)
	if err != nil {
		return nil, err
	}
	return &GPS{impl: gpsdClient}, nil
}

// NewNMEASerial creates a new NMEA serial GPS interface
func NewNMEASerial(portName string, baudRate int) (*NMEASerial, error) {
	return NewNMEASerialWithDebug(portName, baudRate, false)
}

// NewNMEASerialWithDebug creates a new NMEA serial GPS interface with debug option
func NewNMEASerialWithDebug(portName string, baudRate int, debug bool) (*NMEASerial, error) {
	mode := &serial.Mode{
		BaudRate: baudRate,
		Parity:   serial.NoParity,
		DataBits: 8,
		StopBits: serial.OneStopBit,
	}

	port, err := serial.Open(portName, mode)
	if err != nil {
		return nil, fmt.Errorf("failed to open GPS port %s: %w", portName, err)
	}

	return &NMEASerial{
		port:    port,
		fixChan: make(chan Position, 10),
		debug:   debug,
	}, nil
}

// NewGPSDClient creates a new gpsd client interface
func NewGPSDClient(host, port string) (*GPSDClient, error) {
	return &GPSDClient{
		fixChan: make(chan Position, 10),
		host:    host,
		port:    port,
	}, nil
}

// GPS wrapper methods delegate to implementation
func (g *GPS) Start() error {
	return g.impl.Start()
}

func (g *GPS) WaitForFix(timeout time.Duration) (*Position, error) {
	return g.impl.WaitForFix(timeout)
}

func (g *GPS) GetCurrentPosition() (*Position, error) {
	return g.impl.GetCurrentPosition()
}

func (g *GPS) IsFixValid() bool {
	return g.impl.IsFixValid()
}

func (g *GPS) GetFixQualityString() string {
	return g.impl.GetFixQualityString()
}

func (g *GPS) Close() error {
	return g.impl.Close()
}

// SetDebug enables or disables debug logging for GPS implementations that support it
func (g *GPS) SetDebug(debug bool) {
	if nmea, ok := g.impl.(*NMEASerial); ok {
		nmea.SetDebug(debug)
	}
}

// NMEASerial implementation methods
func (n *NMEASerial) Start() error {
	go n.readLoop()
	return nil
}

func (n *NMEASerial) readLoop() {
	scanner := bufio.NewScanner(n.port)
	log.Printf("GPS: Starting NMEA read loop")

	for scanner.Scan() {
		line := scanner.Text()

		// Only process lines that look like NMEA sentences (start with $ and contain only printable ASCII)
		if len(line) == 0 || line[0] != '$' {
			continue
		}

		// Validate that line contains only printable ASCII to filter out binary data
		isPrintable := true
		for _, r := range line {
			if r < 32 || r > 126 {
				isPrintable = false
				break
			}
		}
		if !isPrintable {
			continue
		}

		if n.debug {
			log.Printf("GPS: Received NMEA: %s", line)
		}

		sentence, err := nmea.Parse(line)
		if err != nil {
			if n.debug {
				log.Printf("GPS: NMEA parse error: %v (line: %s)", err, line)
			}
			continue
		}

		switch s := sentence.(type) {
		case nmea.GGA:
			n.processGGA(s)
		case nmea.RMC:
			n.processRMC(s)
		case nmea.GLL, nmea.VTG, nmea.GSA, nmea.GSV:
			// Valid NMEA sentences but don't carry the position fix we need
			if n.debug {
				log.Printf("GPS: Received %T message (not needed for position)", s)
			}
		default:
			if n.debug {
				log.Printf("GPS: Received %T message (ignoring)", s)
			}
		}
	}

	if err := scanner.Err(); err != nil {
		log.Printf("GPS: Scanner error: %v", err)
	}
	log.Printf("GPS: NMEA read loop ended")
}

func (n *NMEASerial) processGGA(s nmea.GGA) {
	if n.debug {
		log.Printf("GPS: Processing GGA - Quality: %v, Lat: %f, Lon: %f, Sats: %d",
			s.FixQuality, s.Latitude, s.Longitude, s.NumSatellites)
	}

	if s.FixQuality == nmea.Invalid {
		return
	}

	var fixQuality int
	switch s.FixQuality {
	case nmea.GPS:
		fixQuality = 1
	case nmea.DGPS:
		fixQuality = 2
	case nmea.PPS:
		fixQuality = 3
	case nmea.RTK:
		fixQuality = 4
	case nmea.FRTK:
		fixQuality = 5
	case nmea.Manual:
		fixQuality = 7
	default:
		fixQuality = 0
	}

	// Some receivers output (0,0) before first fix; a valid fix quality
	// means the coordinates can be trusted.
	if fixQuality > 0 {
		pos := Position{
			Point:      geodesy.Point{Lat: s.Latitude, Lon: s.Longitude},
			Altitude:   s.Altitude,
			Timestamp:  time.Now(),
			FixQuality: fixQuality,
			Satellites: int(s.NumSatellites),
		}

		n.mu.Lock()
		n.position = pos
		n.mu.Unlock()

		if n.debug {
			log.Printf("GPS: Updated position - Lat: %.6f, Lon: %.6f, Alt: %.1f, Quality: %d, Sats: %d",
				pos.Lat, pos.Lon, pos.Altitude, pos.FixQuality, pos.Satellites)
		}

		select {
		case n.fixChan <- pos:
		default:
		}
	}
}

func (n *NMEASerial) processRMC(s nmea.RMC) {
	// RMC provides additional validation and time info
	if n.debug {
		log.Printf("GPS: Processing RMC - Valid: %t, Lat: %f, Lon: %f",
			s.Validity == "A", s.Latitude, s.Longitude)
	}

	if s.Validity != "A" {
		return
	}

	n.mu.RLock()
	currentPos := n.position
	n.mu.RUnlock()

	// Refresh an existing fix with the RMC position and GPS time
	if currentPos.FixQuality > 0 {
		// RMC carries time of day but no date, so use today's date
		rmcTime := time.Now()
		if s.Time.Valid {
			rmcTime = time.Date(
				rmcTime.Year(), rmcTime.Month(), rmcTime.Day(),
				s.Time.Hour, s.Time.Minute, s.Time.Second,
				int(s.Time.Millisecond)*1000000,
				time.UTC,
			)
		}

		pos := Position{
			Point:      geodesy.Point{Lat: s.Latitude, Lon: s.Longitude},
			Altitude:   currentPos.Altitude, // RMC doesn't have altitude
			Timestamp:  rmcTime,
			FixQuality: currentPos.FixQuality,
			Satellites: currentPos.Satellites,
		}

		n.mu.Lock()
		n.position = pos
		n.mu.Unlock()
	}
}

func (n *NMEASerial) WaitForFix(timeout time.Duration) (*Position, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	for {
		select {
		case pos := <-n.fixChan:
			if pos.FixQuality > 0 {
				return &pos, nil
			}
		case <-timer.C:
			return nil, fmt.Errorf("GPS fix timeout after %v. GPS may be outputting a binary protocol instead of NMEA position messages. Consider --gps=gpsd or configuring the receiver for NMEA GGA/RMC output", timeout)
		}
	}
}

func (n *NMEASerial) GetCurrentPosition() (*Position, error) {
	n.mu.RLock()
	defer n.mu.RUnlock()

	if n.position.FixQuality == 0 {
		return nil, fmt.Errorf("no GPS fix available")
	}

	pos := n.position
	return &pos, nil
}

func (n *NMEASerial) IsFixValid() bool {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.position.FixQuality > 0
}

func (n *NMEASerial) GetFixQualityString() string {
	n.mu.RLock()
	quality := n.position.FixQuality
	n.mu.RUnlock()
	return fixQualityString(quality)
}

func (n *NMEASerial) Close() error {
	if n.port != nil {
		return n.port.Close()
	}
	return nil
}

// SetDebug enables or disables debug logging for NMEA GPS
func (n *NMEASerial) SetDebug(debug bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.debug = debug
	if debug {
		log.Printf("GPS: Debug mode enabled for NMEA GPS")
	}
}

func fixQualityString(quality int) string {
	switch quality {
	case 0:
		return "Invalid"
	case 1:
		return "GPS fix (SPS)"
	case 2:
		return "DGPS fix"
	case 3:
		return "PPS fix"
	case 4:
		return "Real Time Kinematic"
	case 5:
		return "Float RTK"
	case 6:
		return "estimated (dead reckoning)"
	case 7:
		return "Manual input mode"
	case 8:
		return "Simulation mode"
	default:
		return "Unknown"
	}
}

// GPSDClient implementation methods
func (g *GPSDClient) Start() error {
	client, err := gpsd.Dial(gpsd.DefaultAddress)
	if err != nil {
		// Try custom host:port if default fails
		if g.host != "" && g.port != "" {
			address := fmt.Sprintf("%s:%s", g.host, g.port)
			client, err = gpsd.Dial(address)
			if err != nil {
				return fmt.Errorf("failed to connect to gpsd at %s: %w", address, err)
			}
		} else {
			return fmt.Errorf("failed to connect to gpsd: %w", err)
		}
	}

	g.client = client

	g.client.AddFilter("TPV", func(r interface{}) {
		if tpv, ok := r.(*gpsd.TPVReport); ok {
			g.handleTPV(tpv)
		}
	})

	g.client.AddFilter("SKY", func(r interface{}) {
		if sky, ok := r.(*gpsd.SKYReport); ok {
			g.handleSKY(sky)
		}
	})

	g.client.Watch()

	return nil
}

// handleTPV folds one time-position-velocity report into the current
// position. Satellite counts arrive separately in SKY reports and are
// carried over from the stored position.
func (g *GPSDClient) handleTPV(tpv *gpsd.TPVReport) {
	// Convert gpsd fix mode to our quality system
	var fixQuality int
	switch tpv.Mode {
	case 2, 3: // 2D or 3D fix
		fixQuality = 1
	default: // no fix or invalid
		fixQuality = 0
	}

	// Some receivers report (0,0) until the fix settles
	if fixQuality == 0 || tpv.Lat == 0 || tpv.Lon == 0 {
		return
	}

	g.mu.Lock()
	pos := Position{
		Point:      geodesy.Point{Lat: tpv.Lat, Lon: tpv.Lon},
		Altitude:   tpv.Alt,
		Timestamp:  tpv.Time,
		FixQuality: fixQuality,
		Satellites: g.position.Satellites,
	}
	g.position = pos
	g.mu.Unlock()

	select {
	case g.fixChan <- pos:
	default:
	}
}

// handleSKY records the satellite count so the next TPV fix carries it.
func (g *GPSDClient) handleSKY(sky *gpsd.SKYReport) {
	g.mu.Lock()
	g.position.Satellites = len(sky.Satellites)
	g.mu.Unlock()
}

func (g *GPSDClient) WaitForFix(timeout time.Duration) (*Position, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	for {
		select {
		case pos := <-g.fixChan:
			if pos.FixQuality > 0 {
				return &pos, nil
			}
		case <-timer.C:
			return nil, fmt.Errorf("GPS fix timeout after %v", timeout)
		}
	}
}

func (g *GPSDClient) GetCurrentPosition() (*Position, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	if g.position.FixQuality == 0 {
		return nil, fmt.Errorf("no GPS fix available")
	}

	pos := g.position
	return &pos, nil
}

func (g *GPSDClient) IsFixValid() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.position.FixQuality > 0
}

func (g *GPSDClient) GetFixQualityString() string {
	g.mu.RLock()
	quality := g.position.FixQuality
	g.mu.RUnlock()
	return fixQualityString(quality) + " (via gpsd)"
}

func (g *GPSDClient) Close() error {
	if g.client != nil {
		g.client.Close()
	}
	return nil
}
