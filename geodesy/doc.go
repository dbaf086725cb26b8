// Package geodesy converts station positions between geodetic coordinates,
// Earth-centered Earth-fixed (ECEF) Cartesian coordinates and a local
// East-North-Up (ENU) frame.
//
// All angles are radians. The UVH5 format stores the telescope latitude and
// longitude in degrees; the *Degrees helpers exist for that boundary.
//
// # Ellipsoid
//
// The transforms use the WGS-84 ellipsoid as parameterised by GPSA, GPSB, E2
// and EP2. LatLonAltFromXYZ starts from Bowring's closed-form approximation and
// refines the latitude with a few fixed-point steps, so a round trip through
// XYZFromLatLonAlt is exact to machine precision near the Earth's surface.
package geodesy
