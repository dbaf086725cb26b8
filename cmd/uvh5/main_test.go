package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/goccy/go-json"
	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/robert-malhotra/go-uvh5/geodesy"
	"github.com/robert-malhotra/go-uvh5/h5store"
	"github.com/robert-malhotra/go-uvh5/uvdata"
	"github.com/robert-malhotra/go-uvh5/uvh5"
)

const (
	testLat = -30.72152612068925
	testLon = 21.42830382686301
	testAlt = 1051.69
)

// testDataset is one baseline, 14 m east-west, observed for two samples.
func testDataset(t *testing.T) *uvdata.Float64 {
	t.Helper()

	meta := uvdata.NewUVMeta()
	meta.Nbls = 1
	meta.Nblts = 2
	meta.Ntimes = 1
	meta.Npols = 1
	meta.Nfreqs = 2
	meta.Nspws = 1
	meta.NantsData = 2
	meta.NantsTelescope = 2
	meta.TelescopeName = "HERA"
	meta.Instrument = "HERA"
	meta.ObjectName = "zenith"
	meta.TelescopeLocation = geodesy.XYZFromLatLonAltDegrees(testLat, testLon, testAlt)

	d := uvdata.New[complex128, float64](meta, false)
	a := d.Arrays
	a.SpwArray = []uint32{0}
	a.Ant1Array = []uint32{0, 0}
	a.Ant2Array = []uint32{1, 1}
	require.NoError(t, a.UpdateBaselines())
	a.FreqArray = []float64{1.0e8, 1.1e8}
	a.ChannelWidth = []float64{1e7, 1e7}
	a.PolarizationArray = []int8{-5}
	a.AntennaNumbers = []uint32{0, 1}
	a.AntennaNames = []string{"ant0", "ant1"}

	ecef := geodesy.ECEFFromENU([][3]float64{{0, 0, 0}, {14, 0, 0}},
		geodesy.Radians(testLat), geodesy.Radians(testLon), testAlt)
	loc := meta.TelescopeLocation
	for i, p := range ecef {
		a.AntennaPositions[i] = [3]float64{p[0] - loc[0], p[1] - loc[1], p[2] - loc[2]}
	}
	a.PhaseCenterCatalog = uvdata.Catalog{"zenith": uvdata.NewUnphased(0)}
	require.NoError(t, d.Validate())
	return d
}

func testStore(t *testing.T) *h5store.Memory {
	t.Helper()
	m := h5store.NewMemory()
	require.NoError(t, uvh5.Write(m, testDataset(t)))
	return m
}

func TestSummarize(t *testing.T) {
	s := summarize(testDataset(t))

	assert.Equal(t, "HERA", s.Telescope)
	assert.Equal(t, uint32(2), s.Nblts)
	assert.Equal(t, 1.0e8, s.FreqMin)
	assert.Equal(t, 1.1e8, s.FreqMax)
	assert.Equal(t, []string{"zenith"}, s.PhaseCenters)
	assert.InDelta(t, testLat, s.Location.Latitude, 1e-9)
	assert.InDelta(t, testAlt, s.Location.Altitude, 1e-6)
}

func TestWriteSummary(t *testing.T) {
	s := summarize(testDataset(t))

	tests := []struct {
		format    string
		unmarshal func([]byte, any) error
	}{
		{"yaml", yaml.Unmarshal},
		{"json", json.Unmarshal},
		{"toml", toml.Unmarshal},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, writeSummary(&buf, s, tt.format))

			var got map[string]any
			require.NoError(t, tt.unmarshal(buf.Bytes(), &got))
			assert.Equal(t, "HERA", got["telescope"])
			assert.Equal(t, "drift", got["phase_type"])
			assert.Equal(t, "unknown", got["blt_order"])
			assert.Contains(t, got, "location")
		})
	}

	assert.Error(t, writeSummary(&bytes.Buffer{}, s, "xml"))
}

func TestPrintTree(t *testing.T) {
	m := testStore(t)

	var buf bytes.Buffer
	require.NoError(t, printTree(&buf, m, 0))
	out := buf.String()
	assert.Contains(t, out, "/\n")
	assert.Contains(t, out, "Header/\n")
	assert.Contains(t, out, "  Nblts  scalar\n")
	assert.Contains(t, out, "  uvw_array  [2 3]\n")
	assert.Contains(t, out, "Data/\n")
	assert.Contains(t, out, "  visdata  [2 1 1]\n")

	buf.Reset()
	require.NoError(t, printTree(&buf, m, 1))
	assert.Contains(t, buf.String(), "Header/")
	assert.NotContains(t, buf.String(), "Nblts")
}

func TestCountDatasets(t *testing.T) {
	m := h5store.NewMemory()
	require.NoError(t, m.CreateGroup("/Header"))
	require.NoError(t, m.Write("/Header/Nblts", nil, []uint32{2}))
	require.NoError(t, m.Write("/Header/time_array", []int{2}, []float64{1, 2}))

	n, err := countDatasets(m)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestPrintENU(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printENU(&buf, testDataset(t)))

	out := buf.String()
	assert.Contains(t, out, "east (m)")
	assert.Contains(t, out, "ant1")
	assert.Contains(t, out, "14.000")
}

func TestCommandsRegistered(t *testing.T) {
	var names []string
	for _, c := range rootCmd.Commands() {
		names = append(names, c.Name())
	}
	for _, want := range []string{"info", "tree", "convert", "enu"} {
		assert.Contains(t, names, want)
	}
}

func TestInfoMissingFile(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs([]string{"info", filepath.Join(t.TempDir(), "missing.uvh5")})
	assert.Error(t, rootCmd.Execute())
}

func TestConvertWritesFile(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	in := filepath.Join(dir, "in.uvh5")
	out := filepath.Join(dir, "out.uvh5")
	require.NoError(t, uvh5.WriteFile(in, testDataset(t)))

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs([]string{"convert", in, out})
	require.NoError(t, rootCmd.Execute())

	d, err := uvh5.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, uint32(2), d.Meta.Nblts)
	assert.Equal(t, []string{"ant0", "ant1"}, d.Arrays.AntennaNames)

	rootCmd.SetArgs([]string{"convert", in, out})
	assert.ErrorContains(t, rootCmd.Execute(), "--force")
}
