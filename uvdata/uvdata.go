package uvdata

import (
	"errors"
	"fmt"
	"math"

	"github.com/robert-malhotra/go-uvh5/geodesy"
)

// Complex is the set of visibility precisions.
type Complex interface {
	~complex64 | ~complex128
}

// Float is the set of sample count precisions.
type Float interface {
	~float32 | ~float64
}

// UVData is a visibility dataset. Data, NSamples and Flags are either all set
// or all nil (metadata only); when set each has shape [Nblts, Ntimes, Npols].
type UVData[C Complex, S Float] struct {
	Meta     *UVMeta
	Arrays   *ArrayMetaData
	Data     *Cube[C]
	NSamples *Cube[S]
	Flags    *Cube[bool]
}

// Float64 is a dataset with double precision visibilities and sample counts.
type Float64 = UVData[complex128, float64]

// Float32 is a dataset with single precision visibilities and sample counts.
type Float32 = UVData[complex64, float32]

// New builds a dataset from a copy of meta with zero-filled arrays. Unless
// metadataOnly is set, zero/false-filled cubes of shape
// [Nblts, Ntimes, Npols] are allocated.
func New[C Complex, S Float](meta *UVMeta, metadataOnly bool) *UVData[C, S] {
	m := meta.Clone()
	d := &UVData[C, S]{
		Meta:   m,
		Arrays: NewArrayMetaData(m),
	}
	if !metadataOnly {
		n0, n1, n2 := int(m.Nblts), int(m.Ntimes), int(m.Npols)
		d.Data = NewCube[C](n0, n1, n2)
		d.NSamples = NewCube[S](n0, n1, n2)
		d.Flags = NewCube[bool](n0, n1, n2)
	}
	return d
}

// FromMeta is New(meta, true).
func FromMeta[C Complex, S Float](meta *UVMeta) *UVData[C, S] {
	return New[C, S](meta, true)
}

// MetadataOnly reports whether the data cubes are absent.
func (d *UVData[C, S]) MetadataOnly() bool {
	return d.Data == nil && d.NSamples == nil && d.Flags == nil
}

// Validate checks the structural invariants: cubes jointly present with the
// expected shape, array lengths consistent with the counts, a valid catalog
// and phase center ids that name catalog entries.
func (d *UVData[C, S]) Validate() error {
	if d.Meta == nil || d.Arrays == nil {
		return errors.New("uvdata: missing metadata")
	}
	m, a := d.Meta, d.Arrays

	present := 0
	for _, ok := range []bool{d.Data != nil, d.NSamples != nil, d.Flags != nil} {
		if ok {
			present++
		}
	}
	if present != 0 && present != 3 {
		return errors.New("uvdata: data, nsample and flag cubes must be set together")
	}
	if present == 3 {
		want := [3]int{int(m.Nblts), int(m.Ntimes), int(m.Npols)}
		for name, shape := range map[string][3]int{
			"data":    d.Data.Shape(),
			"nsample": d.NSamples.Shape(),
			"flag":    d.Flags.Shape(),
		} {
			if shape != want {
				return fmt.Errorf("uvdata: %s cube has shape %v, want %v", name, shape, want)
			}
		}
	}

	checks := []struct {
		name string
		got  int
		want uint32
	}{
		{"spw_array", len(a.SpwArray), m.Nspws},
		{"uvw_array", len(a.UVWArray), m.Nblts},
		{"time_array", len(a.TimeArray), m.Nblts},
		{"lst_array", len(a.LSTArray), m.Nblts},
		{"ant_1_array", len(a.Ant1Array), m.Nblts},
		{"ant_2_array", len(a.Ant2Array), m.Nblts},
		{"freq_array", len(a.FreqArray), m.Nfreqs},
		{"flex_spw_id_array", len(a.SpwIDArray), m.Nfreqs},
		{"polarization_array", len(a.PolarizationArray), uint32(m.Npols)},
		{"integration_time", len(a.IntegrationTime), m.Nblts},
		{"channel_width", len(a.ChannelWidth), m.Nfreqs},
		{"antenna_numbers", len(a.AntennaNumbers), m.NantsTelescope},
		{"antenna_names", len(a.AntennaNames), m.NantsTelescope},
		{"antenna_positions", len(a.AntennaPositions), m.NantsTelescope},
		{"phase_center_id_array", len(a.PhaseCenterIDArray), m.Nblts},
	}
	for _, c := range checks {
		if c.got != int(c.want) {
			return fmt.Errorf("uvdata: %s has %d values, want %d", c.name, c.got, c.want)
		}
	}
	if a.AntennaDiameters != nil && len(a.AntennaDiameters) != int(m.NantsTelescope) {
		return fmt.Errorf("uvdata: antenna_diameters has %d values, want %d",
			len(a.AntennaDiameters), m.NantsTelescope)
	}
	if a.EqCoeffs != nil {
		if len(a.EqCoeffs) != int(m.NantsTelescope) {
			return fmt.Errorf("uvdata: eq_coeffs has %d rows, want %d", len(a.EqCoeffs), m.NantsTelescope)
		}
		for i, row := range a.EqCoeffs {
			if len(row) != int(m.Nfreqs) {
				return fmt.Errorf("uvdata: eq_coeffs row %d has %d values, want %d", i, len(row), m.Nfreqs)
			}
		}
	}
	if err := a.PhaseCenterCatalog.Validate(); err != nil {
		return err
	}
	return a.checkPhaseCenterIDs()
}

// checkPhaseCenterIDs reports the first phase_center_id_array value with no
// catalog entry. An empty catalog leaves the ids unchecked.
func (a *ArrayMetaData) checkPhaseCenterIDs() error {
	if len(a.PhaseCenterCatalog) == 0 {
		return nil
	}
	ids := make(map[uint32]bool, len(a.PhaseCenterCatalog))
	for _, e := range a.PhaseCenterCatalog {
		ids[e.ID()] = true
	}
	for i, id := range a.PhaseCenterIDArray {
		if !ids[id] {
			return fmt.Errorf("%w: phase_center_id_array[%d] = %d has no catalog entry",
				ErrInvalidEntry, i, id)
		}
	}
	return nil
}

// Equal compares two datasets. Floating point and complex values are compared
// within Tolerance, everything else exactly.
func (d *UVData[C, S]) Equal(o *UVData[C, S]) bool {
	if d == nil || o == nil {
		return d == o
	}
	return d.Meta.Equal(o.Meta) &&
		d.Arrays.Equal(o.Arrays) &&
		cubesEqual(d.Data, o.Data, complexClose[C]) &&
		cubesEqual(d.NSamples, o.NSamples, func(a, b S) bool { return closeTo(float64(a), float64(b)) }) &&
		cubesEqual(d.Flags, o.Flags, func(a, b bool) bool { return a == b })
}

// Clone returns a deep copy.
func (d *UVData[C, S]) Clone() *UVData[C, S] {
	return &UVData[C, S]{
		Meta:     d.Meta.Clone(),
		Arrays:   d.Arrays.Clone(),
		Data:     d.Data.Clone(),
		NSamples: d.NSamples.Clone(),
		Flags:    d.Flags.Clone(),
	}
}

// Convert returns a deep copy of d with the cubes converted to another
// precision.
func Convert[C2 Complex, S2 Float, C Complex, S Float](d *UVData[C, S]) *UVData[C2, S2] {
	return &UVData[C2, S2]{
		Meta:     d.Meta.Clone(),
		Arrays:   d.Arrays.Clone(),
		Data:     MapCube(d.Data, func(v C) C2 { return C2(complex128(v)) }),
		NSamples: MapCube(d.NSamples, func(v S) S2 { return S2(v) }),
		Flags:    d.Flags.Clone(),
	}
}

// AntennaPositionsENU returns the antenna positions in the local
// East-North-Up frame of the telescope.
func (d *UVData[C, S]) AntennaPositionsENU() [][3]float64 {
	loc := d.Meta.TelescopeLocation
	ecef := make([][3]float64, len(d.Arrays.AntennaPositions))
	for i, p := range d.Arrays.AntennaPositions {
		ecef[i] = [3]float64{p[0] + loc[0], p[1] + loc[1], p[2] + loc[2]}
	}
	lat, lon, alt := d.Meta.TelescopeLocationLatLonAlt()
	return geodesy.ENUFromECEF(ecef, lat, lon, alt)
}

func complexClose[C Complex](a, b C) bool {
	x, y := complex128(a), complex128(b)
	return math.Abs(real(x)-real(y)) <= Tolerance && math.Abs(imag(x)-imag(y)) <= Tolerance
}
