package geodesy

import "math"

// ENUFromECEF rotates ECEF positions into the East-North-Up frame centred on
// the geodetic reference point (lat, lon in radians, alt in meters).
// The input slice is not modified.
func ENUFromECEF(xyz [][3]float64, lat, lon, alt float64) [][3]float64 {
	center := XYZFromLatLonAlt(lat, lon, alt)
	sinLat, cosLat := math.Sincos(lat)
	sinLon, cosLon := math.Sincos(lon)

	enu := make([][3]float64, len(xyz))
	for i, p := range xyz {
		x := p[0] - center[0]
		y := p[1] - center[1]
		z := p[2] - center[2]

		enu[i] = [3]float64{
			-sinLon*x + cosLon*y,
			-sinLat*cosLon*x - sinLat*sinLon*y + cosLat*z,
			cosLat*cosLon*x + cosLat*sinLon*y + sinLat*z,
		}
	}
	return enu
}

// ECEFFromENU is the inverse of ENUFromECEF.
func ECEFFromENU(enu [][3]float64, lat, lon, alt float64) [][3]float64 {
	center := XYZFromLatLonAlt(lat, lon, alt)
	sinLat, cosLat := math.Sincos(lat)
	sinLon, cosLon := math.Sincos(lon)

	xyz := make([][3]float64, len(enu))
	for i, p := range enu {
		e, n, u := p[0], p[1], p[2]
		xyz[i] = [3]float64{
			-sinLat*cosLon*n - sinLon*e + cosLat*cosLon*u + center[0],
			-sinLat*sinLon*n + cosLon*e + cosLat*sinLon*u + center[1],
			cosLat*n + sinLat*u + center[2],
		}
	}
	return xyz
}
