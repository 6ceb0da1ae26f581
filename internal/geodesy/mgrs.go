package geodesy

import "fmt"

// 100 km grid square alphabets. Column letters rotate through three
// 8-letter sets (paired across the six zone repeat groups); row letters
// cycle through a single 20-letter alphabet. I and O are omitted
// throughout, as in the MGRS standard.
var mgrsColumnSets = [6]string{
	"ABCDEFGH", "JKLMNPQR", "STUVWXYZ",
	"ABCDEFGH", "JKLMNPQR", "STUVWXYZ",
}

const mgrsRowLetters = "ABCDEFGHJKLMNPQRSTUV"

// ToMGRS encodes a WGS84 position as a Military Grid Reference System
// string, e.g. `31U DQ 48265 11932`: UTM zone and band, the 100 km
// square letters, then easting and northing remainders in meters.
// Propagates ErrInvalidInput for out-of-range coordinates.
func ToMGRS(lat, lon float64) (string, error) {
	u, err := ToUTM(lat, lon)
	if err != nil {
		return "", err
	}

	set := u.Zone % 6
	if set == 0 {
		set = 6
	}

	colIdx := int(u.Easting/100000) - 1
	if colIdx < 0 {
		colIdx = 0
	}
	if colIdx > 7 {
		colIdx = 7
	}
	col := mgrsColumnSets[set-1][colIdx]

	row := mgrsRowLetters[int(u.Northing/100000)%20]

	return fmt.Sprintf("%d%c %c%c %05d %05d",
		u.Zone, u.Band, col, row,
		int(u.Easting)%100000, int(u.Northing)%100000), nil
}
