package h5store

import (
	"path/filepath"
	"testing"

	"github.com/robert-malhotra/go-hdf5/hdf5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeGoHDF5Fixture writes a small file with the go-hdf5 writer, which
// stores plain numeric datasets only.
func writeGoHDF5Fixture(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fixture.h5")

	f, err := hdf5.Create(path)
	require.NoError(t, err)
	hdr, err := f.Root().CreateGroup("Header")
	require.NoError(t, err)
	_, err = hdr.CreateDataset("Nblts", []uint32{6})
	require.NoError(t, err)
	_, err = hdr.CreateDataset("freq_array", []float64{1.0e8, 1.1e8, 1.2e8})
	require.NoError(t, err)
	data, err := f.Root().CreateGroup("Data")
	require.NoError(t, err)
	_, err = data.CreateDataset("flags", []uint8{1, 0, 0, 1})
	require.NoError(t, err)
	require.NoError(t, f.Close())
	return path
}

func TestFileReadsGoHDF5(t *testing.T) {
	f, err := Open(writeGoHDF5Fixture(t))
	require.NoError(t, err)
	defer f.Close()

	members, err := f.Members("/")
	require.NoError(t, err)
	assert.Equal(t, []string{"Data", "Header"}, members)

	assert.True(t, f.Exists("/Header/Nblts"))
	assert.False(t, f.Exists("/Header/Nbls"))
	assert.False(t, f.Exists("/Missing/Nblts"))
	assert.True(t, f.IsGroup("/Header"))
	assert.False(t, f.IsGroup("/Header/Nblts"))

	shape, err := f.Shape("/Header/freq_array")
	require.NoError(t, err)
	assert.Equal(t, []int{3}, shape)

	_, err = f.Shape("/Header/missing")
	assert.ErrorIs(t, err, ErrNotFound)

	var n []float32
	require.NoError(t, f.Read("/Header/Nblts", &n))
	assert.Equal(t, []float32{6}, n)

	var freq []float64
	require.NoError(t, f.Read("/Header/freq_array", &freq))
	assert.Equal(t, []float64{1.0e8, 1.1e8, 1.2e8}, freq)

	var flags []bool
	require.NoError(t, f.Read("/Data/flags", &flags))
	assert.Equal(t, []bool{true, false, false, true}, flags)
}

func TestFileWriteRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.h5")

	w, err := Create(path)
	require.NoError(t, err)
	require.NoError(t, w.CreateGroup("/Header"))
	require.NoError(t, w.CreateGroup("/Header/phase_center_catalog"))
	require.NoError(t, w.CreateGroup("/Data"))
	require.NoError(t, w.Write("/Header/Nblts", nil, []int64{4}))
	require.NoError(t, w.Write("/Header/latitude", nil, []float64{-30.72}))
	require.NoError(t, w.Write("/Header/instrument", nil, []string{"HERA"}, WithStringSize(200)))
	require.NoError(t, w.Write("/Header/antenna_names", []int{3}, []string{"a", "bb", "ccc"}))
	require.NoError(t, w.Write("/Header/uvw_array", []int{2, 3}, []float64{1, 2, 3, 4, 5, 6}))
	require.NoError(t, w.Write("/Header/phase_center_catalog/zenith", nil,
		[]string{`{"cat_id":0,"cat_type":"unphased"}`}))
	require.NoError(t, w.Write("/Data/visdata", []int{2, 1, 2}, []complex128{1 + 1i, 2 - 2i, 3, -4i}))
	require.NoError(t, w.Write("/Data/visdata32", []int{2}, []complex64{0.5 + 0.25i, -3}))
	require.NoError(t, w.Write("/Data/flags", []int{2, 1, 2}, []bool{true, false, false, true}, WithCompression(4)))
	require.NoError(t, w.Write("/Data/nsamples", []int{2, 1, 2}, []float32{1, 2, 3, 4}, WithCompression(4)))
	require.NoError(t, w.Close())

	f, err := Open(path)
	require.NoError(t, err)
	defer f.Close()

	members, err := f.Members("/")
	require.NoError(t, err)
	assert.Equal(t, []string{"Data", "Header"}, members)
	members, err = f.Members("/Header/phase_center_catalog")
	require.NoError(t, err)
	assert.Equal(t, []string{"zenith"}, members)
	assert.True(t, f.IsGroup("/Header/phase_center_catalog"))

	var n []uint32
	require.NoError(t, f.Read("/Header/Nblts", &n))
	assert.Equal(t, []uint32{4}, n)
	shape, err := f.Shape("/Header/Nblts")
	require.NoError(t, err)
	assert.Nil(t, shape)

	var s []string
	require.NoError(t, f.Read("/Header/instrument", &s))
	assert.Equal(t, []string{"HERA"}, s)
	require.NoError(t, f.Read("/Header/antenna_names", &s))
	assert.Equal(t, []string{"a", "bb", "ccc"}, s)
	require.NoError(t, f.Read("/Header/phase_center_catalog/zenith", &s))
	assert.Equal(t, []string{`{"cat_id":0,"cat_type":"unphased"}`}, s)

	shape, err = f.Shape("/Header/uvw_array")
	require.NoError(t, err)
	assert.Equal(t, []int{2, 3}, shape)
	shape, err = f.Shape("/Data/flags")
	require.NoError(t, err)
	assert.Equal(t, []int{2, 1, 2}, shape)

	var vis []complex128
	require.NoError(t, f.Read("/Data/visdata", &vis))
	assert.Equal(t, []complex128{1 + 1i, 2 - 2i, 3, -4i}, vis)

	var vis32 []complex64
	require.NoError(t, f.Read("/Data/visdata32", &vis32))
	assert.Equal(t, []complex64{0.5 + 0.25i, -3}, vis32)
	assertFloat64Records(t, path, "/Data/visdata32")

	var flags []bool
	require.NoError(t, f.Read("/Data/flags", &flags))
	assert.Equal(t, []bool{true, false, false, true}, flags)

	var ns []float64
	require.NoError(t, f.Read("/Data/nsamples", &ns))
	assert.Equal(t, []float64{1, 2, 3, 4}, ns)
}

func TestFileWriterErrors(t *testing.T) {
	w, err := Create(filepath.Join(t.TempDir(), "store.h5"))
	require.NoError(t, err)
	defer w.Close()

	assert.ErrorIs(t, w.CreateGroup("/Header/x"), ErrNotFound)
	require.NoError(t, w.CreateGroup("/Header"))
	assert.ErrorIs(t, w.CreateGroup("/Header"), ErrExists)
	assert.ErrorIs(t, w.Write("/Header/a", []int{3}, []float64{1, 2}), ErrShape)
	assert.ErrorIs(t, w.Write("/Header/b", nil, []uintptr{1}), ErrType)
}

// assertFloat64Records checks that a complex dataset is stored as float64
// {r, i} records whatever the precision it was written from.
func assertFloat64Records(t *testing.T, path, name string) {
	t.Helper()
	f, err := hdf5.Open(path)
	require.NoError(t, err)
	defer f.Close()
	ds, err := f.OpenDataset(name)
	require.NoError(t, err)
	assert.Equal(t, 16, ds.DtypeSize())
	var recs []map[string]interface{}
	require.NoError(t, ds.Read(&recs))
	require.NotEmpty(t, recs)
	assert.IsType(t, float64(0), recs[0]["r"])
	assert.IsType(t, float64(0), recs[0]["i"])
}
