package uvdata

import "github.com/robert-malhotra/go-uvh5/geodesy"

// UVMeta holds the scalar descriptive metadata of a dataset.
type UVMeta struct {
	Nbls           uint32
	Nblts          uint32
	Nspws          uint32
	Npols          uint8
	Ntimes         uint32
	Nfreqs         uint32
	Nphases        uint32
	NantsData      uint32
	NantsTelescope uint32

	BltOrder     BltOrder
	VisUnits     VisUnit
	PhaseType    PhaseType
	XOrientation Orientation

	Instrument    string
	TelescopeName string
	// TelescopeLocation is the ECEF position of the array center in meters.
	TelescopeLocation  [3]float64
	ObjectName         string
	EqCoeffsConvention EqConvention

	// Optional legacy and auxiliary values; nil when absent.
	DUT1                 *float32
	GST0                 *float32
	RDate                *string
	EarthOmega           *float32
	TimeSys              *string
	UVPlaneReferenceTime *int32

	History string
}

// NewUVMeta returns metadata with every count zero, a single phase, drift
// phasing, uncalibrated units and unknown orderings.
func NewUVMeta() *UVMeta {
	return &UVMeta{
		Nphases:       1,
		BltOrder:      BltUnknown,
		VisUnits:      Uncalib,
		PhaseType:     Drift,
		XOrientation:  OrientUnknown,
		Instrument:    "Unknown",
		TelescopeName: "Unknown",
		ObjectName:    "Unknown",
	}
}

// TelescopeLocationLatLonAlt returns the telescope location as geodetic
// latitude and longitude in radians and altitude in meters.
func (m *UVMeta) TelescopeLocationLatLonAlt() (lat, lon, alt float64) {
	return geodesy.LatLonAltFromXYZ(m.TelescopeLocation)
}

// TelescopeLocationLatLonAltDegrees is TelescopeLocationLatLonAlt with
// latitude and longitude in degrees.
func (m *UVMeta) TelescopeLocationLatLonAltDegrees() (lat, lon, alt float64) {
	return geodesy.LatLonAltDegreesFromXYZ(m.TelescopeLocation)
}

// Equal compares two metadata records. Floating point fields are compared
// within Tolerance, everything else exactly.
func (m *UVMeta) Equal(o *UVMeta) bool {
	if m == nil || o == nil {
		return m == o
	}
	for i := range m.TelescopeLocation {
		if !closeTo(m.TelescopeLocation[i], o.TelescopeLocation[i]) {
			return false
		}
	}
	return m.Nbls == o.Nbls &&
		m.Nblts == o.Nblts &&
		m.Nspws == o.Nspws &&
		m.Npols == o.Npols &&
		m.Ntimes == o.Ntimes &&
		m.Nfreqs == o.Nfreqs &&
		m.Nphases == o.Nphases &&
		m.NantsData == o.NantsData &&
		m.NantsTelescope == o.NantsTelescope &&
		m.BltOrder == o.BltOrder &&
		m.VisUnits == o.VisUnits &&
		m.PhaseType == o.PhaseType &&
		m.XOrientation == o.XOrientation &&
		m.Instrument == o.Instrument &&
		m.TelescopeName == o.TelescopeName &&
		m.ObjectName == o.ObjectName &&
		m.EqCoeffsConvention == o.EqCoeffsConvention &&
		optClose32(m.DUT1, o.DUT1) &&
		optClose32(m.GST0, o.GST0) &&
		optEqual(m.RDate, o.RDate) &&
		optClose32(m.EarthOmega, o.EarthOmega) &&
		optEqual(m.TimeSys, o.TimeSys) &&
		optEqual(m.UVPlaneReferenceTime, o.UVPlaneReferenceTime) &&
		m.History == o.History
}

// Clone returns a deep copy.
func (m *UVMeta) Clone() *UVMeta {
	c := *m
	c.DUT1 = clonePtr(m.DUT1)
	c.GST0 = clonePtr(m.GST0)
	c.RDate = clonePtr(m.RDate)
	c.EarthOmega = clonePtr(m.EarthOmega)
	c.TimeSys = clonePtr(m.TimeSys)
	c.UVPlaneReferenceTime = clonePtr(m.UVPlaneReferenceTime)
	return &c
}

func optClose32(a, b *float32) bool {
	if a == nil || b == nil {
		return a == b
	}
	return closeTo(float64(*a), float64(*b))
}
