package uvh5

import (
	"fmt"
	"log/slog"

	"github.com/robert-malhotra/go-uvh5/h5store"
	"github.com/robert-malhotra/go-uvh5/uvdata"
)

// WriteFile writes a double precision dataset to a new file at path,
// replacing any existing file.
func WriteFile(path string, d *uvdata.Float64, opts ...WriteOption) error {
	return WriteFileAs(path, d, opts...)
}

// WriteFileAs writes d to a new file at path. The file is closed before
// returning. A failed write leaves a partial file behind.
func WriteFileAs[C uvdata.Complex, S uvdata.Float](path string, d *uvdata.UVData[C, S], opts ...WriteOption) (err error) {
	if err := checkWritable(d); err != nil {
		return err
	}
	w, err := h5store.CreateWith(applyWriteOptions(opts).backend, path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer func() {
		if cerr := w.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing %s: %w", path, cerr)
		}
	}()
	return WriteAs(w, d, opts...)
}

// Write encodes a double precision dataset into w.
func Write(w h5store.Writer, d *uvdata.Float64, opts ...WriteOption) error {
	return WriteAs(w, d, opts...)
}

// WriteAs encodes d into w, which must be empty. The caller keeps ownership
// of w. d is not modified; the written history carries HistoryStamp.
//
// A dataset with a single phase center is written in the legacy layout,
// which has no catalog group. Reading it back renames the entry and resets
// its id to 0: an unphased entry comes back as "zenith" and a sidereal one
// under the object name. Multiple or ephemeris entries keep their names.
func WriteAs[C uvdata.Complex, S uvdata.Float](w h5store.Writer, d *uvdata.UVData[C, S], opts ...WriteOption) error {
	o := applyWriteOptions(opts)
	if err := checkWritable(d); err != nil {
		return err
	}
	layout, err := catalogLayoutFor(d.Meta, d.Arrays.PhaseCenterCatalog)
	if err != nil {
		return err
	}
	o.logger.Debug("writing phase center catalog", "layout", layout, "nphases", d.Meta.Nphases)

	enc := &encoder{w: w, log: o.logger}
	enc.group(headerGroup)
	enc.meta(d.Meta, d.Arrays)
	enc.arrays(d.Arrays)
	enc.catalog(layout, d.Meta, d.Arrays)
	enc.group(dataGroup)
	writeCubes(enc, d, o.compressionLvl)
	return enc.err
}

func checkWritable[C uvdata.Complex, S uvdata.Float](d *uvdata.UVData[C, S]) error {
	if d == nil || d.Meta == nil || d.Arrays == nil {
		return fmt.Errorf("%w: dataset has no metadata", ErrFormat)
	}
	if d.Data == nil || d.NSamples == nil || d.Flags == nil {
		return ErrMetadataOnly
	}
	if err := d.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrFormat, err)
	}
	return nil
}

// catalogLayout is the on-disk encoding chosen for the phase center catalog.
type catalogLayout int

const (
	// layoutDrift writes phase_type "drift" and no catalog.
	layoutDrift catalogLayout = iota
	// layoutSingle writes the single phase center header fields.
	layoutSingle
	// layoutGroup writes the phase_center_catalog group.
	layoutGroup
)

func (l catalogLayout) String() string {
	switch l {
	case layoutDrift:
		return "drift"
	case layoutSingle:
		return "single"
	case layoutGroup:
		return "group"
	}
	return fmt.Sprintf("catalogLayout(%d)", int(l))
}

func catalogLayoutFor(m *uvdata.UVMeta, cat uvdata.Catalog) (catalogLayout, error) {
	switch {
	case m.Nphases > 1 && len(cat) > 0:
		return layoutGroup, nil
	case m.Nphases == 1 && len(cat) == 1:
		switch cat[cat.Names()[0]].(type) {
		case *uvdata.Unphased:
			return layoutDrift, nil
		case *uvdata.Sidereal:
			return layoutSingle, nil
		case *uvdata.Ephemeris:
			return layoutGroup, nil
		}
	}
	return 0, fmt.Errorf("%w: Nphases=%d with %d entries", ErrCatalog, m.Nphases, len(cat))
}

// encoder writes datasets until the first failure, which it keeps in err.
type encoder struct {
	w   h5store.Writer
	log *slog.Logger
	err error
}

func (e *encoder) group(path string) {
	if e.err != nil {
		return
	}
	if err := e.w.CreateGroup(path); err != nil {
		e.err = fmt.Errorf("creating %s: %w", path, err)
	}
}

func (e *encoder) write(path string, shape []int, v any, opts ...h5store.DatasetOption) {
	if e.err != nil {
		return
	}
	if err := e.w.Write(path, shape, v, opts...); err != nil {
		e.err = fmt.Errorf("writing %s: %w", path, err)
	}
}

func writeScalar[T any](e *encoder, name string, v T, opts ...h5store.DatasetOption) {
	e.write(header(name), nil, []T{v}, opts...)
}

func writeOptional[T any](e *encoder, name string, v *T) {
	if v != nil {
		writeScalar(e, name, *v)
	}
}

func writeArray[T any](e *encoder, name string, v []T, opts ...h5store.DatasetOption) {
	e.write(header(name), []int{len(v)}, v, opts...)
}

func (e *encoder) meta(m *uvdata.UVMeta, a *uvdata.ArrayMetaData) {
	bls, err := uvdata.AntennaNumsToBaseline(a.Ant1Array, a.Ant2Array, false)
	if err != nil {
		e.err = fmt.Errorf("%w: %w", ErrFormat, err)
		return
	}
	nbls := uint32(uvdata.CountBaselines(bls))
	if nbls != m.Nbls {
		e.log.Debug("Nbls disagrees with antenna arrays, writing derived count", "meta", m.Nbls, "derived", nbls)
	}
	writeScalar(e, "Nbls", nbls)
	writeScalar(e, "Nblts", m.Nblts)
	writeScalar(e, "Nspws", m.Nspws)
	writeScalar(e, "Npols", m.Npols)
	writeScalar(e, "Ntimes", m.Ntimes)
	writeScalar(e, "Nfreqs", m.Nfreqs)
	writeScalar(e, "Nants_data", m.NantsData)
	writeScalar(e, "Nants_telescope", m.NantsTelescope)

	lat, lon, alt := m.TelescopeLocationLatLonAltDegrees()
	writeScalar(e, "latitude", lat)
	writeScalar(e, "longitude", lon)
	writeScalar(e, "altitude", alt)

	names := h5store.WithStringSize(maxNameLen)
	writeScalar(e, "instrument", m.Instrument, names)
	writeScalar(e, "telescope_name", m.TelescopeName, names)
	writeScalar(e, "object_name", m.ObjectName, names)
	writeScalar(e, "history", fitHistory(m.History), h5store.WithStringSize(maxHistoryLen))

	enums := h5store.WithStringSize(maxEnumLen)
	writeScalar(e, "vis_units", m.VisUnits.String(), enums)
	if m.XOrientation != uvdata.OrientUnknown {
		writeScalar(e, "x_orientation", m.XOrientation.String(), enums)
	}
	if !m.BltOrder.IsUnknown() {
		writeScalar(e, "blt_order", m.BltOrder.String(), enums)
	}
	if m.EqCoeffsConvention != uvdata.EqUnknown {
		writeScalar(e, "eq_coeffs_convention", m.EqCoeffsConvention.String(), enums)
	}

	writeOptional(e, "dut1", m.DUT1)
	writeOptional(e, "gst0", m.GST0)
	writeOptional(e, "earth_omega", m.EarthOmega)
	writeOptional(e, "rdate", m.RDate)
	writeOptional(e, "timesys", m.TimeSys)
	writeOptional(e, "uvplane_reference_time", m.UVPlaneReferenceTime)
}

func (e *encoder) arrays(a *uvdata.ArrayMetaData) {
	writeArray(e, "spw_array", a.SpwArray)
	e.vectors("uvw_array", a.UVWArray)
	writeArray(e, "time_array", a.TimeArray)
	writeArray(e, "lst_array", a.LSTArray)
	writeArray(e, "ant_1_array", a.Ant1Array)
	writeArray(e, "ant_2_array", a.Ant2Array)
	writeArray(e, "freq_array", a.FreqArray)
	writeArray(e, "flex_spw_id_array", a.SpwIDArray)
	writeArray(e, "polarization_array", a.PolarizationArray)
	writeArray(e, "integration_time", a.IntegrationTime)
	writeArray(e, "channel_width", a.ChannelWidth)
	writeArray(e, "antenna_numbers", a.AntennaNumbers)
	writeArray(e, "antenna_names", a.AntennaNames)
	e.vectors("antenna_positions", a.AntennaPositions)

	if a.EqCoeffs != nil {
		var flat []float32
		for _, row := range a.EqCoeffs {
			flat = append(flat, row...)
		}
		cols := 0
		if len(a.EqCoeffs) > 0 {
			cols = len(a.EqCoeffs[0])
		}
		e.write(header("eq_coeffs"), []int{len(a.EqCoeffs), cols}, flat)
	}
	if a.AntennaDiameters != nil {
		writeArray(e, "antenna_diameters", a.AntennaDiameters)
	}
}

func (e *encoder) vectors(name string, v [][3]float64) {
	flat := make([]float64, 0, 3*len(v))
	for _, p := range v {
		flat = append(flat, p[:]...)
	}
	e.write(header(name), []int{len(v), 3}, flat)
}

func (e *encoder) catalog(layout catalogLayout, m *uvdata.UVMeta, a *uvdata.ArrayMetaData) {
	enums := h5store.WithStringSize(maxEnumLen)
	cat := a.PhaseCenterCatalog

	switch layout {
	case layoutDrift:
		writeScalar(e, "phase_type", uvdata.Drift.String(), enums)

	case layoutSingle:
		s := cat[cat.Names()[0]].(*uvdata.Sidereal)
		writeScalar(e, "phase_type", m.PhaseType.String(), enums)
		writeScalar(e, phaseCenterFrame, s.Frame, h5store.WithStringSize(maxNameLen))
		writeScalar(e, phaseCenterRA, s.Lon)
		writeScalar(e, phaseCenterDec, s.Lat)
		writeScalar(e, phaseCenterEpoch, s.Epoch)

	case layoutGroup:
		writeScalar(e, "phase_type", m.PhaseType.String(), enums)
		writeScalar(e, "Nphase", m.Nphases)
		e.group(catalogGroup)
		for _, name := range cat.Names() {
			s, err := uvdata.EncodeEntry(cat[name])
			if err != nil && e.err == nil {
				e.err = fmt.Errorf("encoding phase center %q: %w", name, err)
			}
			e.write(h5store.JoinPath(catalogGroup, name), nil, []string{s})
		}
		writeArray(e, "phase_center_id_array", a.PhaseCenterIDArray)
	}
}

func writeCubes[C uvdata.Complex, S uvdata.Float](e *encoder, d *uvdata.UVData[C, S], level int) {
	shape := d.Data.Shape()
	dims := []int{shape[0], shape[1], shape[2]}
	compress := h5store.WithCompression(level)

	e.write(data("visdata"), dims, d.Data.Data())
	e.write(data("flags"), dims, d.Flags.Data(), compress)
	e.write(data("nsamples"), dims, d.NSamples.Data(), compress)
}
