package uvdata

import (
	"fmt"
	"slices"
	"strconv"
)

// ArrayMetaData holds the per-axis arrays of a dataset. Lengths follow the
// counts in UVMeta: blt-axis arrays have Nblts values, frequency-axis arrays
// Nfreqs, antenna arrays NantsTelescope.
type ArrayMetaData struct {
	SpwArray          []uint32
	UVWArray          [][3]float64
	TimeArray         []float64
	LSTArray          []float64
	Ant1Array         []uint32
	Ant2Array         []uint32
	BaselineArray     []uint32
	FreqArray         []float64
	SpwIDArray        []uint32 // flex_spw_id_array
	PolarizationArray []int8
	IntegrationTime   []float64
	ChannelWidth      []float64
	AntennaNumbers    []uint32
	AntennaNames      []string
	AntennaPositions  [][3]float64 // relative to the telescope location, ECEF meters

	// Optional; nil when absent.
	EqCoeffs         [][]float32 // [NantsTelescope][Nfreqs]
	AntennaDiameters []float32

	PhaseCenterCatalog Catalog
	PhaseCenterIDArray []uint32
}

// NewArrayMetaData returns zero-filled arrays sized from meta, with antenna
// names set to their index and one unphased "zenith_<i>" catalog entry per
// phase.
func NewArrayMetaData(meta *UVMeta) *ArrayMetaData {
	cat := make(Catalog, meta.Nphases)
	for i := uint32(0); i < meta.Nphases; i++ {
		cat[fmt.Sprintf("zenith_%d", i)] = NewUnphased(i)
	}

	names := make([]string, meta.NantsTelescope)
	for i := range names {
		names[i] = strconv.Itoa(i)
	}

	nblts := int(meta.Nblts)
	return &ArrayMetaData{
		SpwArray:           make([]uint32, meta.Nspws),
		UVWArray:           make([][3]float64, nblts),
		TimeArray:          make([]float64, nblts),
		LSTArray:           make([]float64, nblts),
		Ant1Array:          make([]uint32, nblts),
		Ant2Array:          make([]uint32, nblts),
		BaselineArray:      make([]uint32, nblts),
		FreqArray:          make([]float64, meta.Nfreqs),
		SpwIDArray:         make([]uint32, meta.Nfreqs),
		PolarizationArray:  make([]int8, meta.Npols),
		IntegrationTime:    make([]float64, nblts),
		ChannelWidth:       make([]float64, meta.Nfreqs),
		AntennaNumbers:     make([]uint32, meta.NantsTelescope),
		AntennaNames:       names,
		AntennaPositions:   make([][3]float64, meta.NantsTelescope),
		PhaseCenterCatalog: cat,
		PhaseCenterIDArray: make([]uint32, nblts),
	}
}

// Equal compares two array sets, floating point values within Tolerance.
func (a *ArrayMetaData) Equal(o *ArrayMetaData) bool {
	if a == nil || o == nil {
		return a == o
	}
	return slices.Equal(a.SpwArray, o.SpwArray) &&
		vecsClose(a.UVWArray, o.UVWArray) &&
		floatsClose(a.TimeArray, o.TimeArray) &&
		floatsClose(a.LSTArray, o.LSTArray) &&
		slices.Equal(a.Ant1Array, o.Ant1Array) &&
		slices.Equal(a.Ant2Array, o.Ant2Array) &&
		slices.Equal(a.BaselineArray, o.BaselineArray) &&
		floatsClose(a.FreqArray, o.FreqArray) &&
		slices.Equal(a.SpwIDArray, o.SpwIDArray) &&
		slices.Equal(a.PolarizationArray, o.PolarizationArray) &&
		floatsClose(a.IntegrationTime, o.IntegrationTime) &&
		floatsClose(a.ChannelWidth, o.ChannelWidth) &&
		slices.Equal(a.AntennaNumbers, o.AntennaNumbers) &&
		slices.Equal(a.AntennaNames, o.AntennaNames) &&
		vecsClose(a.AntennaPositions, o.AntennaPositions) &&
		matricesClose(a.EqCoeffs, o.EqCoeffs) &&
		floats32Close(a.AntennaDiameters, o.AntennaDiameters) &&
		a.PhaseCenterCatalog.Equal(o.PhaseCenterCatalog) &&
		slices.Equal(a.PhaseCenterIDArray, o.PhaseCenterIDArray)
}

// Clone returns a deep copy.
func (a *ArrayMetaData) Clone() *ArrayMetaData {
	c := &ArrayMetaData{
		SpwArray:           slices.Clone(a.SpwArray),
		UVWArray:           slices.Clone(a.UVWArray),
		TimeArray:          slices.Clone(a.TimeArray),
		LSTArray:           slices.Clone(a.LSTArray),
		Ant1Array:          slices.Clone(a.Ant1Array),
		Ant2Array:          slices.Clone(a.Ant2Array),
		BaselineArray:      slices.Clone(a.BaselineArray),
		FreqArray:          slices.Clone(a.FreqArray),
		SpwIDArray:         slices.Clone(a.SpwIDArray),
		PolarizationArray:  slices.Clone(a.PolarizationArray),
		IntegrationTime:    slices.Clone(a.IntegrationTime),
		ChannelWidth:       slices.Clone(a.ChannelWidth),
		AntennaNumbers:     slices.Clone(a.AntennaNumbers),
		AntennaNames:       slices.Clone(a.AntennaNames),
		AntennaPositions:   slices.Clone(a.AntennaPositions),
		AntennaDiameters:   slices.Clone(a.AntennaDiameters),
		PhaseCenterCatalog: a.PhaseCenterCatalog.Clone(),
		PhaseCenterIDArray: slices.Clone(a.PhaseCenterIDArray),
	}
	if a.EqCoeffs != nil {
		c.EqCoeffs = make([][]float32, len(a.EqCoeffs))
		for i, row := range a.EqCoeffs {
			c.EqCoeffs[i] = slices.Clone(row)
		}
	}
	return c
}

// UpdateBaselines recomputes BaselineArray from the antenna arrays using the
// 2048 encoding.
func (a *ArrayMetaData) UpdateBaselines() error {
	bl, err := AntennaNumsToBaseline(a.Ant1Array, a.Ant2Array, false)
	if err != nil {
		return err
	}
	a.BaselineArray = bl
	return nil
}

func vecsClose(a, b [][3]float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		for j := 0; j < 3; j++ {
			if !closeTo(a[i][j], b[i][j]) {
				return false
			}
		}
	}
	return true
}

func floats32Close(a, b []float32) bool {
	if (a == nil) != (b == nil) || len(a) != len(b) {
		return false
	}
	for i := range a {
		if !closeTo(float64(a[i]), float64(b[i])) {
			return false
		}
	}
	return true
}

func matricesClose(a, b [][]float32) bool {
	if (a == nil) != (b == nil) || len(a) != len(b) {
		return false
	}
	for i := range a {
		if !floats32Close(a[i], b[i]) {
			return false
		}
	}
	return true
}
