package uvdata

import "fmt"

const (
	// MaxAntenna256 is the largest antenna number representable in the
	// legacy 256 baseline encoding.
	MaxAntenna256 = 254
	// MaxAntenna is the largest antenna number representable at all.
	MaxAntenna = 2047

	offset2048 = 1 << 16
)

// AntennaNumsToBaseline packs antenna number pairs into baseline numbers.
// With attempt256 the legacy encoding 256*(a1+1)+(a2+1) is used when every
// antenna number fits it; otherwise 2048*(a1+1)+(a2+1)+2^16.
func AntennaNumsToBaseline(ant1, ant2 []uint32, attempt256 bool) ([]uint32, error) {
	if len(ant1) != len(ant2) {
		return nil, fmt.Errorf("antenna arrays differ in length: %d != %d", len(ant1), len(ant2))
	}
	var hi uint32
	for i := range ant1 {
		hi = max(hi, ant1[i], ant2[i])
	}
	if hi > MaxAntenna {
		return nil, fmt.Errorf("%w: %d > %d", ErrAntenna, hi, MaxAntenna)
	}

	use256 := attempt256 && hi <= MaxAntenna256
	bl := make([]uint32, len(ant1))
	for i := range ant1 {
		if use256 {
			bl[i] = 256*(ant1[i]+1) + ant2[i] + 1
		} else {
			bl[i] = 2048*(ant1[i]+1) + ant2[i] + 1 + offset2048
		}
	}
	return bl, nil
}

// BaselineToAntennaNums is the inverse of AntennaNumsToBaseline for the
// encoding selected by use256.
func BaselineToAntennaNums(baselines []uint32, use256 bool) (ant1, ant2 []uint32) {
	mod := uint32(2048)
	if use256 {
		mod = 256
	}
	ant1 = make([]uint32, len(baselines))
	ant2 = make([]uint32, len(baselines))
	for i, bl := range baselines {
		if !use256 {
			bl -= offset2048
		}
		ant2[i] = bl%mod - 1
		ant1[i] = (bl-(ant2[i]+1))/mod - 1
	}
	return ant1, ant2
}

// CountBaselines returns the number of distinct baseline numbers.
func CountBaselines(baselines []uint32) int {
	seen := make(map[uint32]struct{}, len(baselines))
	for _, bl := range baselines {
		seen[bl] = struct{}{}
	}
	return len(seen)
}
