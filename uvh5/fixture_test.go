package uvh5

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robert-malhotra/go-uvh5/geodesy"
	"github.com/robert-malhotra/go-uvh5/h5store"
	"github.com/robert-malhotra/go-uvh5/uvdata"
)

func ptr[T any](v T) *T { return &v }

// testData returns a small drift scan: two baselines over two times, three
// channels and two polarizations.
func testData(t *testing.T) *uvdata.Float64 {
	t.Helper()

	meta := uvdata.NewUVMeta()
	meta.Nbls = 2
	meta.Nblts = 4
	meta.Nspws = 1
	meta.Npols = 2
	meta.Ntimes = 2
	meta.Nfreqs = 3
	meta.NantsData = 3
	meta.NantsTelescope = 3
	meta.BltOrder = uvdata.BltOrder{Major: uvdata.KeyTime, Minor: uvdata.KeyBaseline}
	meta.VisUnits = uvdata.Jansky
	meta.XOrientation = uvdata.East
	meta.Instrument = "HERA"
	meta.TelescopeName = "HERA"
	meta.ObjectName = "zenith"
	meta.TelescopeLocation = geodesy.XYZFromLatLonAltDegrees(-30.72152612068925, 21.42830382686301, 1051.69)
	meta.History = "Created for codec tests."
	meta.DUT1 = ptr(float32(-0.17))
	meta.RDate = ptr("2020-01-01")
	meta.TimeSys = ptr("UTC")

	d := uvdata.New[complex128, float64](meta, false)
	a := d.Arrays
	a.SpwArray = []uint32{0}
	a.Ant1Array = []uint32{0, 0, 0, 0}
	a.Ant2Array = []uint32{1, 2, 1, 2}
	require.NoError(t, a.UpdateBaselines())
	a.TimeArray = []float64{2459000.1, 2459000.1, 2459000.2, 2459000.2}
	a.LSTArray = []float64{1.1, 1.1, 1.2, 1.2}
	a.IntegrationTime = []float64{10, 10, 10, 10}
	a.UVWArray = [][3]float64{{14.6, 0, 0.1}, {29.2, 0.5, 0.2}, {14.6, 0, 0.1}, {29.2, 0.5, 0.2}}
	a.FreqArray = []float64{1.0e8, 1.0009765625e8, 1.001953125e8}
	a.ChannelWidth = []float64{97656.25, 97656.25, 97656.25}
	a.PolarizationArray = []int8{-5, -6}
	a.AntennaNumbers = []uint32{0, 1, 2}
	a.AntennaNames = []string{"HH0", "HH1", "HH2"}
	a.AntennaPositions = [][3]float64{{0, 0, 0}, {-1.0, 14.6, 0.2}, {-2.1, 29.2, 0.4}}
	a.PhaseCenterCatalog = uvdata.Catalog{"zenith": uvdata.NewUnphased(0)}

	shape := d.Data.Shape()
	for i := 0; i < shape[0]; i++ {
		for j := 0; j < shape[1]; j++ {
			for k := 0; k < shape[2]; k++ {
				v := float64(100*i + 10*j + k)
				d.Data.Set(i, j, k, complex(v, -v/2))
				d.NSamples.Set(i, j, k, 1)
				d.Flags.Set(i, j, k, (i+j+k)%3 == 0)
			}
		}
	}
	require.NoError(t, d.Validate())
	return d
}

// phasedData is testData phased to a single sidereal source.
func phasedData(t *testing.T) *uvdata.Float64 {
	d := testData(t)
	d.Meta.PhaseType = uvdata.Phased
	d.Meta.ObjectName = "3c196"
	d.Arrays.PhaseCenterCatalog = uvdata.Catalog{
		"3c196": &uvdata.Sidereal{
			CatID:      0,
			CatType:    uvdata.KindSidereal,
			Lon:        2.1,
			Lat:        0.85,
			Frame:      "fk5",
			Epoch:      2000,
			InfoSource: ptr(uvdata.InfoSourceUVData),
		},
	}
	return d
}

// multiData is testData with a sidereal and an ephemeris phase center.
func multiData(t *testing.T) *uvdata.Float64 {
	d := testData(t)
	d.Meta.PhaseType = uvdata.Multi
	d.Meta.Nphases = 2
	d.Arrays.PhaseCenterCatalog = uvdata.Catalog{
		"3c196": &uvdata.Sidereal{
			CatID:   0,
			CatType: uvdata.KindSidereal,
			Lon:     2.1,
			Lat:     0.85,
			Frame:   "icrs",
			Epoch:   2000,
			PMRA:    ptr(0.01),
			PMDec:   ptr(-0.02),
		},
		"sun": &uvdata.Ephemeris{
			CatID:   1,
			CatType: uvdata.KindEphem,
			Lon:     []float64{1.0, 1.1},
			Lat:     []float64{0.2, 0.21},
			Frame:   "icrs",
			Epoch:   2000,
			Dist:    []float64{1.5e11, 1.5e11},
			VRad:    []float64{0, 0},
		},
	}
	d.Arrays.PhaseCenterIDArray = []uint32{0, 1, 0, 1}
	return d
}

// stamped returns the dataset expected back from a read of d.
func stamped(d *uvdata.Float64) *uvdata.Float64 {
	want := d.Clone()
	want.Meta.History = StampHistory(d.Meta.History)
	return want
}

// patch rewrites a single dataset on its way into the store. An empty path
// drops the dataset.
type patch func(shape []int, v any) (string, []int, any)

func drop(shape []int, v any) (string, []int, any) { return "", nil, nil }

func rename(path string) patch {
	return func(shape []int, v any) (string, []int, any) { return path, shape, v }
}

func reshape(path string, shape ...int) patch {
	return func(_ []int, v any) (string, []int, any) { return path, shape, v }
}

func replace(path string, shape []int, v any) patch {
	return func([]int, any) (string, []int, any) { return path, shape, v }
}

type patchWriter struct {
	h5store.Writer
	patches map[string]patch
}

func (p *patchWriter) Write(path string, shape []int, v any, opts ...h5store.DatasetOption) error {
	if fn, ok := p.patches[path]; ok {
		if path, shape, v = fn(shape, v); path == "" {
			return nil
		}
	}
	return p.Writer.Write(path, shape, v, opts...)
}

// encode writes d into a memory store, applying patches keyed by dataset path.
func encode(t *testing.T, d *uvdata.Float64, patches map[string]patch) *h5store.Memory {
	t.Helper()
	m := h5store.NewMemory()
	require.NoError(t, Write(&patchWriter{Writer: m, patches: patches}, d))
	return m
}

func readString(t *testing.T, r h5store.Reader, path string) string {
	t.Helper()
	var s []string
	require.NoError(t, r.Read(path, &s))
	require.Len(t, s, 1)
	return s[0]
}

func readFloat(t *testing.T, r h5store.Reader, path string) float64 {
	t.Helper()
	var v []float64
	require.NoError(t, r.Read(path, &v))
	require.Len(t, v, 1)
	return v[0]
}
