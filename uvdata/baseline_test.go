package uvdata

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAntennaNumsToBaseline(t *testing.T) {
	tests := []struct {
		name       string
		ant1, ant2 []uint32
		attempt256 bool
		want       []uint32
	}{
		{"2048", []uint32{10, 280}, []uint32{20, 310}, false, []uint32{88085, 641335}},
		{"256", []uint32{0, 3}, []uint32{0, 6}, true, []uint32{257, 1031}},
		{"256 falls back", []uint32{0, 300}, []uint32{1, 2}, true, []uint32{67586, 681987}},
		{"empty", nil, nil, false, []uint32{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := AntennaNumsToBaseline(tt.ant1, tt.ant2, tt.attempt256)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAntennaNumsToBaselineErrors(t *testing.T) {
	_, err := AntennaNumsToBaseline([]uint32{1}, []uint32{1, 2}, false)
	assert.Error(t, err)

	_, err = AntennaNumsToBaseline([]uint32{2048}, []uint32{1}, false)
	assert.ErrorIs(t, err, ErrAntenna)
}

func TestBaselineToAntennaNums(t *testing.T) {
	a1, a2 := BaselineToAntennaNums([]uint32{88085, 641335}, false)
	assert.Equal(t, []uint32{10, 280}, a1)
	assert.Equal(t, []uint32{20, 310}, a2)

	a1, a2 = BaselineToAntennaNums([]uint32{257, 1031}, true)
	assert.Equal(t, []uint32{0, 3}, a1)
	assert.Equal(t, []uint32{0, 6}, a2)
}

func TestBaselineRoundTrip(t *testing.T) {
	var ant1, ant2 []uint32
	for a := uint32(0); a <= MaxAntenna; a += 97 {
		for b := uint32(0); b <= MaxAntenna; b += 131 {
			ant1 = append(ant1, a)
			ant2 = append(ant2, b)
		}
	}

	bl, err := AntennaNumsToBaseline(ant1, ant2, false)
	require.NoError(t, err)
	g1, g2 := BaselineToAntennaNums(bl, false)
	assert.Equal(t, ant1, g1)
	assert.Equal(t, ant2, g2)

	small1 := []uint32{0, 1, 17, 254}
	small2 := []uint32{254, 3, 17, 0}
	bl, err = AntennaNumsToBaseline(small1, small2, true)
	require.NoError(t, err)
	g1, g2 = BaselineToAntennaNums(bl, true)
	assert.Equal(t, small1, g1)
	assert.Equal(t, small2, g2)
}

func TestCountBaselines(t *testing.T) {
	assert.Equal(t, 0, CountBaselines(nil))
	assert.Equal(t, 3, CountBaselines([]uint32{1, 2, 3, 1, 2, 3, 3}))
}
