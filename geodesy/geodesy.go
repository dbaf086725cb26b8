package geodesy

import "math"

// WGS-84 ellipsoid parameters.
const (
	GPSA = 6378137.0        // semi-major axis (m)
	GPSB = 6356752.31424518 // semi-minor axis (m)
	E2   = 6.69437999014e-3 // first eccentricity squared
	EP2  = 6.73949674228e-3 // second eccentricity squared
)

const refineSteps = 3

// XYZFromLatLonAlt returns the ECEF position of a geodetic point.
// lat and lon are radians, alt is meters above the ellipsoid.
func XYZFromLatLonAlt(lat, lon, alt float64) [3]float64 {
	sinLat, cosLat := math.Sincos(lat)
	sinLon, cosLon := math.Sincos(lon)

	bDivA2 := (GPSB / GPSA) * (GPSB / GPSA)
	n := GPSA / math.Sqrt(1-E2*sinLat*sinLat)

	return [3]float64{
		(n + alt) * cosLat * cosLon,
		(n + alt) * cosLat * sinLon,
		(bDivA2*n + alt) * sinLat,
	}
}

// LatLonAltFromXYZ is the inverse of XYZFromLatLonAlt.
// It returns latitude and longitude in radians and altitude in meters.
func LatLonAltFromXYZ(xyz [3]float64) (lat, lon, alt float64) {
	p := math.Hypot(xyz[0], xyz[1])
	theta := math.Atan2(xyz[2]*GPSA, p*GPSB)
	sinTheta, cosTheta := math.Sincos(theta)

	lat = math.Atan2(
		xyz[2]+EP2*GPSB*sinTheta*sinTheta*sinTheta,
		p-E2*GPSA*cosTheta*cosTheta*cosTheta,
	)
	lon = math.Atan2(xyz[1], xyz[0])

	// Bowring's estimate is good to well under a millimeter; a few
	// fixed-point steps bring it to machine precision.
	for range refineSteps {
		sinLat := math.Sin(lat)
		n := GPSA / math.Sqrt(1-E2*sinLat*sinLat)
		lat = math.Atan2(xyz[2]+E2*n*sinLat, p)
	}

	sinLat := math.Sin(lat)
	alt = p/math.Cos(lat) - GPSA/math.Sqrt(1-E2*sinLat*sinLat)
	return lat, lon, alt
}

// XYZFromLatLonAltDegrees is XYZFromLatLonAlt with lat and lon in degrees.
func XYZFromLatLonAltDegrees(lat, lon, alt float64) [3]float64 {
	return XYZFromLatLonAlt(Radians(lat), Radians(lon), alt)
}

// LatLonAltDegreesFromXYZ is LatLonAltFromXYZ returning lat and lon in degrees.
func LatLonAltDegreesFromXYZ(xyz [3]float64) (lat, lon, alt float64) {
	lat, lon, alt = LatLonAltFromXYZ(xyz)
	return Degrees(lat), Degrees(lon), alt
}

// Radians converts degrees to radians.
func Radians(deg float64) float64 { return deg * math.Pi / 180 }

// Degrees converts radians to degrees.
func Degrees(rad float64) float64 { return rad * 180 / math.Pi }
