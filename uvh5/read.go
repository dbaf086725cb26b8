package uvh5

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/robert-malhotra/go-uvh5/geodesy"
	"github.com/robert-malhotra/go-uvh5/h5store"
	"github.com/robert-malhotra/go-uvh5/uvdata"
)

// ReadFile reads a UVH5 file with double precision visibilities.
func ReadFile(path string, opts ...ReadOption) (*uvdata.Float64, error) {
	return ReadFileAs[complex128, float64](path, opts...)
}

// ReadFileAs reads a UVH5 file at the requested precision. The file is closed
// before returning.
func ReadFileAs[C uvdata.Complex, S uvdata.Float](path string, opts ...ReadOption) (d *uvdata.UVData[C, S], err error) {
	f, err := h5store.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			d, err = nil, fmt.Errorf("closing %s: %w", path, cerr)
		}
	}()
	return ReadAs[C, S](f, opts...)
}

// Read decodes a dataset with double precision visibilities from r.
func Read(r h5store.Reader, opts ...ReadOption) (*uvdata.Float64, error) {
	return ReadAs[complex128, float64](r, opts...)
}

// ReadAs decodes a dataset from r. The caller keeps ownership of r.
//
// Legacy layouts are normalized on the way in: 2-D frequency arrays, scalar
// channel widths and 4-D data cubes lose their spectral window axis, and
// files without a phase center catalog get one derived from the single
// phase center header fields. The baseline array and Nbls are always derived
// from the antenna arrays. The history is stamped with HistoryStamp and
// kept within the 20000 bytes a file can hold.
func ReadAs[C uvdata.Complex, S uvdata.Float](r h5store.Reader, opts ...ReadOption) (*uvdata.UVData[C, S], error) {
	o := applyReadOptions(opts)
	if !r.IsGroup(headerGroup) {
		return nil, fmt.Errorf("%w: missing %s group", ErrFormat, headerGroup)
	}

	dec := &decoder{r: r, log: o.logger}
	meta, nphaseStored, err := dec.meta()
	if err != nil {
		return nil, err
	}
	arrays, err := dec.arrays(meta)
	if err != nil {
		return nil, err
	}
	if !nphaseStored && r.IsGroup(catalogGroup) {
		meta.Nphases = uint32(len(arrays.PhaseCenterCatalog))
	}

	d := &uvdata.UVData[C, S]{Meta: meta, Arrays: arrays}
	if o.readData {
		if err := readCubes(dec, d); err != nil {
			return nil, err
		}
	}
	if err := d.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFormat, err)
	}
	return d, nil
}

type decoder struct {
	r   h5store.Reader
	log *slog.Logger
}

// scalar reads a one element header dataset. ok is false when it is absent.
func scalar[T any](dec *decoder, name string) (v T, ok bool, err error) {
	path := header(name)
	if !dec.r.Exists(path) {
		return v, false, nil
	}
	var vals []T
	if err := dec.r.Read(path, &vals); err != nil {
		return v, false, fmt.Errorf("reading %s: %w", path, err)
	}
	if len(vals) != 1 {
		return v, false, fmt.Errorf("%w: %s has %d values, want one", ErrFormat, path, len(vals))
	}
	return vals[0], true, nil
}

func required[T any](dec *decoder, name string) (T, error) {
	v, ok, err := scalar[T](dec, name)
	if err == nil && !ok {
		err = fmt.Errorf("%w: missing required field %s", ErrFormat, header(name))
	}
	return v, err
}

func optional[T any](dec *decoder, name string) (*T, error) {
	v, ok, err := scalar[T](dec, name)
	if err != nil || !ok {
		return nil, err
	}
	return &v, nil
}

// array reads a header dataset with its shape. ok is false when it is absent.
func array[T any](dec *decoder, name string) (vals []T, shape []int, ok bool, err error) {
	path := header(name)
	if !dec.r.Exists(path) {
		return nil, nil, false, nil
	}
	if shape, err = dec.r.Shape(path); err != nil {
		return nil, nil, false, fmt.Errorf("reading %s: %w", path, err)
	}
	if err = dec.r.Read(path, &vals); err != nil {
		return nil, nil, false, fmt.Errorf("reading %s: %w", path, err)
	}
	return vals, shape, true, nil
}

func requiredArray[T any](dec *decoder, name string) ([]T, error) {
	vals, _, ok, err := array[T](dec, name)
	if err == nil && !ok {
		err = fmt.Errorf("%w: missing required field %s", ErrFormat, header(name))
	}
	return vals, err
}

// enum reads an optional enumerated string, falling back to def when absent.
func enum[T any](dec *decoder, name string, parse func(string) (T, error), def T) (T, error) {
	s, ok, err := scalar[string](dec, name)
	if err != nil {
		return def, err
	}
	if !ok {
		dec.log.Debug("field absent, using default", "field", name, "default", def)
		return def, nil
	}
	v, err := parse(s)
	if err != nil {
		return def, fmt.Errorf("%w: %s: %w", ErrFormat, header(name), err)
	}
	return v, nil
}

// meta decodes the scalar header fields. nphaseStored reports whether the
// phase count came from the file rather than the default.
func (dec *decoder) meta() (m *uvdata.UVMeta, nphaseStored bool, err error) {
	m = uvdata.NewUVMeta()

	counts := []struct {
		name string
		dst  *uint32
	}{
		{"Nblts", &m.Nblts},
		{"Nspws", &m.Nspws},
		{"Ntimes", &m.Ntimes},
		{"Nfreqs", &m.Nfreqs},
		{"Nants_data", &m.NantsData},
		{"Nants_telescope", &m.NantsTelescope},
	}
	for _, c := range counts {
		if *c.dst, err = required[uint32](dec, c.name); err != nil {
			return nil, false, err
		}
	}
	if m.Npols, err = required[uint8](dec, "Npols"); err != nil {
		return nil, false, err
	}
	if m.Nphases, nphaseStored, err = dec.nphases(); err != nil {
		return nil, false, err
	}

	var geo [3]float64
	for i, name := range []string{"latitude", "longitude", "altitude"} {
		if geo[i], err = required[float64](dec, name); err != nil {
			return nil, false, err
		}
	}
	m.TelescopeLocation = geodesy.XYZFromLatLonAltDegrees(geo[0], geo[1], geo[2])

	if m.Instrument, err = required[string](dec, "instrument"); err != nil {
		return nil, false, err
	}
	if m.TelescopeName, err = required[string](dec, "telescope_name"); err != nil {
		return nil, false, err
	}
	name, ok, err := scalar[string](dec, "object_name")
	if err != nil {
		return nil, false, err
	}
	m.ObjectName = unknownValue
	if ok {
		m.ObjectName = name
	}
	history, _, err := scalar[string](dec, "history")
	if err != nil {
		return nil, false, err
	}
	m.History = fitHistory(history)

	if m.VisUnits, err = enum(dec, "vis_units", uvdata.ParseVisUnit, uvdata.Uncalib); err != nil {
		return nil, false, err
	}
	if m.XOrientation, err = enum(dec, "x_orientation", uvdata.ParseOrientation, uvdata.OrientUnknown); err != nil {
		return nil, false, err
	}
	if m.BltOrder, err = enum(dec, "blt_order", uvdata.ParseBltOrder, uvdata.BltUnknown); err != nil {
		return nil, false, err
	}
	if m.EqCoeffsConvention, err = enum(dec, "eq_coeffs_convention", uvdata.ParseEqConvention, uvdata.EqUnknown); err != nil {
		return nil, false, err
	}
	if m.PhaseType, err = enum(dec, "phase_type", uvdata.ParsePhaseType, uvdata.Drift); err != nil {
		return nil, false, err
	}

	if m.DUT1, err = optional[float32](dec, "dut1"); err != nil {
		return nil, false, err
	}
	if m.GST0, err = optional[float32](dec, "gst0"); err != nil {
		return nil, false, err
	}
	if m.EarthOmega, err = optional[float32](dec, "earth_omega"); err != nil {
		return nil, false, err
	}
	if m.RDate, err = optional[string](dec, "rdate"); err != nil {
		return nil, false, err
	}
	if m.TimeSys, err = optional[string](dec, "timesys"); err != nil {
		return nil, false, err
	}
	if m.UVPlaneReferenceTime, err = optional[int32](dec, "uvplane_reference_time"); err != nil {
		return nil, false, err
	}
	return m, nphaseStored, nil
}

// nphases reads Nphase, falling back to the older Nphases spelling and then
// to a single phase.
func (dec *decoder) nphases() (uint32, bool, error) {
	for _, name := range []string{"Nphase", "Nphases"} {
		n, ok, err := scalar[uint32](dec, name)
		if err != nil || ok {
			return n, ok, err
		}
	}
	return 1, false, nil
}

func (dec *decoder) arrays(m *uvdata.UVMeta) (*uvdata.ArrayMetaData, error) {
	a := &uvdata.ArrayMetaData{}
	var err error

	if a.SpwArray, err = requiredArray[uint32](dec, "spw_array"); err != nil {
		return nil, err
	}
	if a.UVWArray, err = dec.vectors("uvw_array"); err != nil {
		return nil, err
	}
	floats := []struct {
		name string
		dst  *[]float64
	}{
		{"time_array", &a.TimeArray},
		{"lst_array", &a.LSTArray},
		{"integration_time", &a.IntegrationTime},
	}
	for _, f := range floats {
		if *f.dst, err = requiredArray[float64](dec, f.name); err != nil {
			return nil, err
		}
	}
	if a.Ant1Array, err = requiredArray[uint32](dec, "ant_1_array"); err != nil {
		return nil, err
	}
	if a.Ant2Array, err = requiredArray[uint32](dec, "ant_2_array"); err != nil {
		return nil, err
	}
	if a.FreqArray, err = dec.spectral("freq_array", m.Nfreqs, false); err != nil {
		return nil, err
	}
	if a.ChannelWidth, err = dec.spectral("channel_width", m.Nfreqs, true); err != nil {
		return nil, err
	}

	spwIDs, _, ok, err := array[uint32](dec, "flex_spw_id_array")
	if err != nil {
		return nil, err
	}
	if !ok {
		spwIDs = make([]uint32, m.Nfreqs)
	}
	a.SpwIDArray = spwIDs

	if a.PolarizationArray, err = requiredArray[int8](dec, "polarization_array"); err != nil {
		return nil, err
	}
	if a.AntennaNumbers, err = requiredArray[uint32](dec, "antenna_numbers"); err != nil {
		return nil, err
	}
	if a.AntennaNames, err = requiredArray[string](dec, "antenna_names"); err != nil {
		return nil, err
	}
	if a.AntennaPositions, err = dec.vectors("antenna_positions"); err != nil {
		return nil, err
	}
	if a.EqCoeffs, err = dec.eqCoeffs(); err != nil {
		return nil, err
	}
	if a.AntennaDiameters, _, _, err = array[float32](dec, "antenna_diameters"); err != nil {
		return nil, err
	}

	if err := a.UpdateBaselines(); err != nil {
		return nil, fmt.Errorf("%w: deriving baselines: %w", ErrFormat, err)
	}
	nbls := uint32(uvdata.CountBaselines(a.BaselineArray))
	stored, ok, err := scalar[uint32](dec, "Nbls")
	if err != nil {
		return nil, err
	}
	if ok && stored != nbls {
		dec.log.Debug("stored Nbls disagrees with antenna arrays", "stored", stored, "derived", nbls)
	}
	m.Nbls = nbls

	if a.PhaseCenterCatalog, a.PhaseCenterIDArray, err = dec.catalog(m); err != nil {
		return nil, err
	}
	return a, nil
}

// vectors reads an [n, 3] dataset.
func (dec *decoder) vectors(name string) ([][3]float64, error) {
	flat, shape, ok, err := array[float64](dec, name)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: missing required field %s", ErrFormat, header(name))
	}
	if len(shape) != 2 || shape[1] != 3 {
		return nil, fmt.Errorf("%w: %s has shape %v, want [n 3]", ErrFormat, header(name), shape)
	}
	out := make([][3]float64, shape[0])
	for i := range out {
		copy(out[i][:], flat[3*i:3*i+3])
	}
	return out, nil
}

// spectral reads a frequency-axis array and flattens it to n values. Older
// files store these with a leading spectral window axis of length one, and
// channel_width may be a single value shared by every channel.
func (dec *decoder) spectral(name string, n uint32, broadcast bool) ([]float64, error) {
	vals, shape, ok, err := array[float64](dec, name)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: missing required field %s", ErrFormat, header(name))
	}
	switch {
	case len(shape) == 1:
		return vals, nil
	case len(shape) == 2 && shape[0] == 1:
		dec.log.Debug("dropping legacy spectral window axis", "field", name, "shape", shape)
		return vals, nil
	case len(shape) == 0 && broadcast:
		dec.log.Debug("broadcasting scalar", "field", name, "n", n)
		out := make([]float64, n)
		for i := range out {
			out[i] = vals[0]
		}
		return out, nil
	}
	return nil, fmt.Errorf("%w: %s has %d dimensions (shape %v)", ErrFormat, header(name), len(shape), shape)
}

func (dec *decoder) eqCoeffs() ([][]float32, error) {
	flat, shape, ok, err := array[float32](dec, "eq_coeffs")
	if err != nil || !ok {
		return nil, err
	}
	if len(shape) != 2 {
		return nil, fmt.Errorf("%w: %s has %d dimensions", ErrFormat, header("eq_coeffs"), len(shape))
	}
	rows := make([][]float32, shape[0])
	for i := range rows {
		rows[i] = flat[i*shape[1] : (i+1)*shape[1]]
	}
	return rows, nil
}

// catalog reads the phase center catalog group, or derives a single entry
// from the legacy header fields when the group is absent.
func (dec *decoder) catalog(m *uvdata.UVMeta) (uvdata.Catalog, []uint32, error) {
	if !dec.r.IsGroup(catalogGroup) {
		cat, err := dec.legacyCatalog(m)
		return cat, make([]uint32, m.Nblts), err
	}

	names, err := dec.r.Members(catalogGroup)
	if err != nil {
		return nil, nil, fmt.Errorf("reading %s: %w", catalogGroup, err)
	}
	cat := make(uvdata.Catalog, len(names))
	for _, name := range names {
		path := h5store.JoinPath(catalogGroup, name)
		var s []string
		if err := dec.r.Read(path, &s); err != nil {
			return nil, nil, fmt.Errorf("reading %s: %w", path, err)
		}
		if len(s) != 1 {
			return nil, nil, fmt.Errorf("%w: %s has %d values, want one", ErrFormat, path, len(s))
		}
		e, err := uvdata.DecodeEntry(s[0])
		if err != nil {
			return nil, nil, fmt.Errorf("%w: phase center %q: %w", ErrFormat, name, err)
		}
		cat[name] = e
	}

	ids, err := requiredArray[uint32](dec, "phase_center_id_array")
	if err != nil {
		return nil, nil, err
	}
	return cat, ids, nil
}

func (dec *decoder) legacyCatalog(m *uvdata.UVMeta) (uvdata.Catalog, error) {
	switch m.PhaseType {
	case uvdata.Drift:
		return uvdata.Catalog{legacyZenithName: uvdata.NewUnphased(0)}, nil
	case uvdata.Phased:
		e, err := dec.legacySidereal()
		if err != nil {
			return nil, err
		}
		return uvdata.Catalog{m.ObjectName: e}, nil
	}
	dec.log.Debug("no phase center catalog for phase type", "phase_type", m.PhaseType)
	return uvdata.Catalog{}, nil
}

func (dec *decoder) legacySidereal() (*uvdata.Sidereal, error) {
	ra, err := required[float64](dec, phaseCenterRA)
	if err != nil {
		return nil, err
	}
	decl, err := required[float64](dec, phaseCenterDec)
	if err != nil {
		return nil, err
	}
	epoch, err := required[float64](dec, phaseCenterEpoch)
	if err != nil {
		return nil, err
	}
	frame, ok, err := scalar[string](dec, phaseCenterFrame)
	if err != nil {
		return nil, err
	}
	if !ok {
		frame = unknownValue
	}
	source := uvdata.InfoSourceUVData
	return &uvdata.Sidereal{
		CatID:      0,
		CatType:    uvdata.KindSidereal,
		Lon:        ra,
		Lat:        decl,
		Frame:      strings.ToLower(frame),
		Epoch:      epoch,
		InfoSource: &source,
	}, nil
}

func readCubes[C uvdata.Complex, S uvdata.Float](dec *decoder, d *uvdata.UVData[C, S]) (err error) {
	if !dec.r.IsGroup(dataGroup) {
		return fmt.Errorf("%w: missing %s group", ErrFormat, dataGroup)
	}
	if d.Data, err = readCube[C](dec, "visdata"); err != nil {
		return err
	}
	if d.Flags, err = readCube[bool](dec, "flags"); err != nil {
		return err
	}
	if d.NSamples, err = readCube[S](dec, "nsamples"); err != nil {
		return err
	}
	return nil
}

// readCube reads a [Nblts, Ntimes, Npols] cube, dropping the unit spectral
// window axis of the older 4-D layout.
func readCube[T any](dec *decoder, name string) (*uvdata.Cube[T], error) {
	path := data(name)
	if !dec.r.Exists(path) {
		return nil, fmt.Errorf("%w: missing required field %s", ErrFormat, path)
	}
	shape, err := dec.r.Shape(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	switch len(shape) {
	case 3:
	case 4:
		if shape[1] != 1 {
			return nil, fmt.Errorf("%w: %s has %d spectral windows on the legacy axis, want 1", ErrFormat, path, shape[1])
		}
		dec.log.Debug("dropping legacy spectral window axis", "dataset", path, "shape", shape)
		shape = []int{shape[0], shape[2], shape[3]}
	default:
		return nil, fmt.Errorf("%w: %s has %d dimensions", ErrFormat, path, len(shape))
	}

	var vals []T
	if err := dec.r.Read(path, &vals); err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	c, err := uvdata.CubeFromSlice(vals, shape[0], shape[1], shape[2])
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrFormat, path, err)
	}
	return c, nil
}
