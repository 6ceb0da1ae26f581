package geodesy

import (
	"fmt"
	"math"
)

// WGS84 ellipsoid parameters and the UTM scale factor.
const (
	wgs84SemiMajorM = 6378137.0
	wgs84Flattening = 1 / 298.257223563
	utmScaleFactor  = 0.9996
)

// Latitude band letters for 8-degree bands starting at 80S. The final X
// is doubled so the band table covers latitudes up to 84N.
const bandLetters = "CDEFGHJKLMNPQRSTUVWXX"

// UTM is a Universal Transverse Mercator grid coordinate.
type UTM struct {
	Zone     int
	Band     byte
	Easting  float64
	Northing float64
}

// String renders the coordinate as zone, band and whole meters,
// e.g. `31U 448265 5411932`.
func (u UTM) String() string {
	return fmt.Sprintf("%d%c %.0f %.0f", u.Zone, u.Band, u.Easting, u.Northing)
}

// ToUTM projects a WGS84 position onto the UTM grid using the standard
// transverse Mercator forward series. The zone follows the 6-degree
// longitude bands with the conventional Svalbard and Norway overrides.
// Latitudes poleward of the lettered bands ([-80,84]) are reported with
// band 'Z'; that letter-table clamp is the only silent adjustment.
// Coordinates outside [-90,90] x [-180,180] fail with ErrInvalidInput.
func ToUTM(lat, lon float64) (UTM, error) {
	if lat < -90 || lat > 90 {
		return UTM{}, fmt.Errorf("latitude %g outside [-90,90]: %w", lat, ErrInvalidInput)
	}
	if lon < -180 || lon > 180 {
		return UTM{}, fmt.Errorf("longitude %g outside [-180,180]: %w", lon, ErrInvalidInput)
	}

	zone := utmZone(lat, lon)
	band := utmBand(lat)

	a := wgs84SemiMajorM
	f := wgs84Flattening
	k0 := utmScaleFactor

	e := math.Sqrt(f * (2 - f))
	e2 := e * e
	ep2 := e2 / (1 - e2)

	lon0 := radians(float64((zone-1)*6 - 180 + 3))
	latRad := radians(lat)
	lonRad := radians(lon)

	sinLat := math.Sin(latRad)
	cosLat := math.Cos(latRad)
	tanLat := math.Tan(latRad)

	n := a / math.Sqrt(1-e2*sinLat*sinLat)
	t := tanLat * tanLat
	c := ep2 * cosLat * cosLat
	A := (lonRad - lon0) * cosLat

	// Meridian arc length from the equator.
	m := a * ((1-e2/4-3*e2*e2/64-5*e2*e2*e2/256)*latRad -
		(3*e2/8+3*e2*e2/32+45*e2*e2*e2/1024)*math.Sin(2*latRad) +
		(15*e2*e2/256+45*e2*e2*e2/1024)*math.Sin(4*latRad) -
		(35*e2*e2*e2/3072)*math.Sin(6*latRad))

	easting := k0*n*(A+(1-t+c)*A*A*A/6+
		(5-18*t+t*t+72*c-58*ep2)*A*A*A*A*A/120) + 500000

	northing := k0 * (m + n*tanLat*(A*A/2+
		(5-t+9*c+4*c*c)*A*A*A*A/24+
		(61-58*t+t*t+600*c-330*ep2)*A*A*A*A*A*A/720))

	if lat < 0 {
		northing += 10000000
	}

	return UTM{Zone: zone, Band: band, Easting: easting, Northing: northing}, nil
}

// utmZone returns the 6-degree longitude zone, with the special cases
// for southwest Norway (zone 32 widened) and Svalbard (zones 31, 33,
// 35, 37 widened, the even zones skipped).
func utmZone(lat, lon float64) int {
	zone := int((lon+180)/6) + 1

	if lat >= 56 && lat < 64 && lon >= 3 && lon < 12 {
		return 32
	}
	if lat >= 72 && lat < 84 {
		switch {
		case lon >= 0 && lon < 9:
			return 31
		case lon >= 9 && lon < 21:
			return 33
		case lon >= 21 && lon < 33:
			return 35
		case lon >= 33 && lon < 42:
			return 37
		}
	}
	return zone
}

// utmBand returns the latitude band letter, or 'Z' outside the lettered
// range.
func utmBand(lat float64) byte {
	if lat < -80 || lat > 84 {
		return 'Z'
	}
	return bandLetters[int((lat+80)/8)]
}
