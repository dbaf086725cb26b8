package h5write

import "encoding/binary"

// Files are written with 8 byte offsets and lengths, little-endian.
const (
	offsetSize = 8
	lengthSize = 8
)

// undefinedAddr marks an address field that points nowhere.
const undefinedAddr = ^uint64(0)

// buffer appends little-endian HDF5 fields to a byte slice.
type buffer struct {
	b []byte
}

func (w *buffer) u8(v uint8)   { w.b = append(w.b, v) }
func (w *buffer) u16(v uint16) { w.b = binary.LittleEndian.AppendUint16(w.b, v) }
func (w *buffer) u32(v uint32) { w.b = binary.LittleEndian.AppendUint32(w.b, v) }
func (w *buffer) u64(v uint64) { w.b = binary.LittleEndian.AppendUint64(w.b, v) }

func (w *buffer) offset(v uint64) { w.u64(v) }
func (w *buffer) length(v uint64) { w.u64(v) }

// uintN appends the low n bytes of v.
func (w *buffer) uintN(v uint64, n int) {
	for i := 0; i < n; i++ {
		w.b = append(w.b, byte(v>>(8*i)))
	}
}

func (w *buffer) bytes(p []byte) { w.b = append(w.b, p...) }
func (w *buffer) zeros(n int)    { w.b = append(w.b, make([]byte, n)...) }

// checksum appends the lookup3 checksum of everything from start on.
func (w *buffer) checksum(start int) {
	w.u32(lookup3(w.b[start:]))
}

func (w *buffer) size() int { return len(w.b) }

// sizeBytes returns how many bytes are needed to hold v, from 1, 2, 4 or 8.
func sizeBytes(v uint64) int {
	switch {
	case v <= 0xFF:
		return 1
	case v <= 0xFFFF:
		return 2
	case v <= 0xFFFFFFFF:
		return 4
	}
	return 8
}
