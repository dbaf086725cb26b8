package h5store

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryGroups(t *testing.T) {
	m := NewMemory()
	require.NoError(t, m.CreateGroup("/Header"))
	require.NoError(t, m.CreateGroup("/Header/phase_center_catalog"))
	require.NoError(t, m.CreateGroup("/Data"))

	assert.ErrorIs(t, m.CreateGroup("/Header"), ErrExists)
	assert.ErrorIs(t, m.CreateGroup("/Missing/child"), ErrNotFound)
	assert.ErrorIs(t, m.CreateGroup("/"), ErrInvalidPath)

	assert.True(t, m.IsGroup("/Header/phase_center_catalog"))
	assert.True(t, m.Exists("Header"))
	assert.False(t, m.Exists("/Nope"))

	members, err := m.Members("/")
	require.NoError(t, err)
	assert.Equal(t, []string{"Data", "Header"}, members)
}

func TestMemoryWriteRead(t *testing.T) {
	m := NewMemory()
	require.NoError(t, m.CreateGroup("/Header"))

	require.NoError(t, m.Write("/Header/Nblts", nil, []int64{6}))
	require.NoError(t, m.Write("/Header/freq_array", []int{1, 3}, []float64{1e8, 1.1e8, 1.2e8}))
	require.NoError(t, m.Write("/Header/names", []int{2}, []string{"ant0", "ant1"}))

	var n []uint32
	require.NoError(t, m.Read("/Header/Nblts", &n))
	assert.Equal(t, []uint32{6}, n)

	shape, err := m.Shape("/Header/Nblts")
	require.NoError(t, err)
	assert.Nil(t, shape)

	shape, err = m.Shape("/Header/freq_array")
	require.NoError(t, err)
	assert.Equal(t, []int{1, 3}, shape)

	var f32 []float32
	require.NoError(t, m.Read("/Header/freq_array", &f32))
	assert.Equal(t, []float32{1e8, 1.1e8, 1.2e8}, f32)

	var names []string
	require.NoError(t, m.Read("/Header/names", &names))
	assert.Equal(t, []string{"ant0", "ant1"}, names)

	_, err = m.Shape("/Header")
	assert.ErrorIs(t, err, ErrNotDataset)
	assert.ErrorIs(t, m.Read("/Header/missing", &f32), ErrNotFound)
}

func TestMemoryWriteErrors(t *testing.T) {
	m := NewMemory()
	require.NoError(t, m.Write("/x", []int{2}, []float64{1, 2}))

	assert.ErrorIs(t, m.Write("/x", []int{2}, []float64{1, 2}), ErrExists)
	assert.ErrorIs(t, m.Write("/y", []int{3}, []float64{1, 2}), ErrShape)
	assert.ErrorIs(t, m.Write("/z", nil, 3.0), ErrType)
	assert.ErrorIs(t, m.Write("/w", []int{1}, []struct{}{{}}), ErrType)
	assert.ErrorIs(t, m.Write("/x/child", nil, []int32{1}), ErrNotGroup)
}

func TestMemoryCopiesData(t *testing.T) {
	m := NewMemory()
	data := []float64{1, 2, 3}
	require.NoError(t, m.Write("/d", []int{3}, data))
	data[0] = 99

	var got []float64
	require.NoError(t, m.Read("/d", &got))
	assert.Equal(t, 1.0, got[0])
}

func TestMemoryInfo(t *testing.T) {
	m := NewMemory()
	require.NoError(t, m.Write("/flags", []int{2, 2}, []bool{true, false, false, true}, WithCompression(4)))
	require.NoError(t, m.Write("/name", nil, []string{"a long telescope name"}, WithStringSize(6)))

	info, err := m.Info("/flags")
	require.NoError(t, err)
	assert.Equal(t, 4, info.Compression)
	assert.Equal(t, reflect.TypeOf(false), info.Type)
	assert.Equal(t, []int{2, 2}, info.Shape)

	info, err = m.Info("/name")
	require.NoError(t, err)
	assert.Equal(t, 6, info.StringSize)

	var s []string
	require.NoError(t, m.Read("/name", &s))
	assert.Equal(t, []string{"a long"}, s)
}

func TestMemoryClose(t *testing.T) {
	m := NewMemory()
	require.NoError(t, m.Write("/d", nil, []int32{1}))
	r := m.Reopen()
	require.NoError(t, m.Close())

	assert.ErrorIs(t, m.Write("/e", nil, []int32{1}), ErrClosed)
	assert.False(t, m.Exists("/d"))

	var v []int32
	require.NoError(t, r.Read("/d", &v))
	assert.Equal(t, []int32{1}, v)
}

func TestConversions(t *testing.T) {
	tests := []struct {
		name    string
		src     any
		dest    any
		want    any
		wantErr bool
	}{
		{"int to float", []int64{1, 2}, &[]float64{}, &[]float64{1, 2}, false},
		{"float to uint", []float64{3}, &[]uint32{}, &[]uint32{3}, false},
		{"bool to uint8", []bool{true, false}, &[]uint8{}, &[]uint8{1, 0}, false},
		{"int8 to bool", []int8{0, 1, -1}, &[]bool{}, &[]bool{false, true, true}, false},
		{"complex widen", []complex64{1 + 2i}, &[]complex128{}, &[]complex128{1 + 2i}, false},
		{"complex narrow", []complex128{1 + 2i}, &[]complex64{}, &[]complex64{1 + 2i}, false},
		{"string", []string{"x"}, &[]string{}, &[]string{"x"}, false},
		{"string to float", []string{"1"}, &[]float64{}, nil, true},
		{"complex to float", []complex128{1}, &[]float64{}, nil, true},
		{"float to complex", []float64{1}, &[]complex128{}, nil, true},
		{"non pointer", []float64{1}, []float64{}, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := assign(tt.dest, tt.src)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrType)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, tt.dest)
		})
	}
}
