package h5write

// Header message types.
const (
	msgNil            uint8 = 0x00
	msgDataspace      uint8 = 0x01
	msgLinkInfo       uint8 = 0x02
	msgDatatype       uint8 = 0x03
	msgLink           uint8 = 0x06
	msgLayout         uint8 = 0x08
	msgGroupInfo      uint8 = 0x0A
	msgFilterPipeline uint8 = 0x0B
)

// filterDeflate is the registered id of the zlib filter.
const filterDeflate = 1

// message is one encoded header message.
type message struct {
	typ  uint8
	body []byte
}

func newMessage(typ uint8, enc func(w *buffer)) message {
	var w buffer
	enc(&w)
	return message{typ: typ, body: w.b}
}

// dataspaceMessage encodes a version 2 dataspace; empty dims is a scalar.
func dataspaceMessage(dims []uint64) message {
	return newMessage(msgDataspace, func(w *buffer) {
		w.u8(2)
		w.u8(uint8(len(dims)))
		w.u8(0) // no max dims
		if len(dims) == 0 {
			w.u8(0)
			return
		}
		w.u8(1)
		for _, d := range dims {
			w.length(d)
		}
	})
}

func datatypeMessage(t Datatype) message {
	return newMessage(msgDatatype, t.encode)
}

// contiguousLayout encodes a version 3 contiguous layout.
func contiguousLayout(addr, size uint64) message {
	return newMessage(msgLayout, func(w *buffer) {
		w.u8(3)
		w.u8(1)
		w.offset(addr)
		w.length(size)
	})
}

// fixedArrayPageBits is log2 of the entries per fixed array data block page.
const fixedArrayPageBits = 10

// chunkedLayout encodes a version 4 chunked layout indexed by a fixed
// array. The chunk dimensions carry the element size as a trailing axis.
func chunkedLayout(chunk []uint64, elemSize uint32, indexAddr uint64) message {
	dims := append(append([]uint64(nil), chunk...), uint64(elemSize))
	width := 1
	for _, d := range dims {
		width = max(width, sizeBytes(d))
	}
	return newMessage(msgLayout, func(w *buffer) {
		w.u8(4)
		w.u8(2)
		w.u8(0) // flags
		w.u8(uint8(len(dims)))
		w.u8(uint8(width))
		for _, d := range dims {
			w.uintN(d, width)
		}
		w.u8(3) // fixed array index
		w.u8(fixedArrayPageBits)
		w.offset(indexAddr)
	})
}

// deflatePipeline encodes a version 2 filter pipeline holding one zlib
// filter at level.
func deflatePipeline(level int) message {
	return newMessage(msgFilterPipeline, func(w *buffer) {
		w.u8(2)
		w.u8(1)
		w.u16(filterDeflate)
		w.u16(0) // mandatory
		w.u16(1) // client values
		w.u32(uint32(level))
	})
}

// linkMessage encodes a version 1 hard link.
func linkMessage(name string, addr uint64) message {
	n := sizeBytes(uint64(len(name)))
	return newMessage(msgLink, func(w *buffer) {
		w.u8(1)
		switch n {
		case 1:
			w.u8(0)
		case 2:
			w.u8(1)
		case 4:
			w.u8(2)
		default:
			w.u8(3)
		}
		w.uintN(uint64(len(name)), n)
		w.bytes([]byte(name))
		w.offset(addr)
	})
}

// linkInfoMessage declares compact link storage: no fractal heap and no
// name index.
func linkInfoMessage() message {
	return newMessage(msgLinkInfo, func(w *buffer) {
		w.u8(0)
		w.u8(0)
		w.offset(undefinedAddr)
		w.offset(undefinedAddr)
	})
}

func groupInfoMessage() message {
	return newMessage(msgGroupInfo, func(w *buffer) {
		w.u8(0)
		w.u8(0)
	})
}
