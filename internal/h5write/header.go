package h5write

import "fmt"

// minGroupChunk is the smallest header chunk written for a group, leaving
// room for links the way h5py sizes group headers.
const minGroupChunk = 120

// objectHeader encodes a version 2 object header holding msgs in a single
// chunk of at least minChunk bytes. Spare space becomes a NIL message.
func objectHeader(msgs []message, minChunk int) ([]byte, error) {
	chunk := 0
	for _, m := range msgs {
		if len(m.body) > 0xFFFF {
			return nil, fmt.Errorf("h5write: header message type %d is %d bytes", m.typ, len(m.body))
		}
		chunk += 4 + len(m.body)
	}
	pad := max(minChunk-chunk, 0)
	if pad > 0 && pad < 4 {
		// a NIL message needs at least its own 4 byte prefix
		pad = 4
	}
	chunk += pad

	n := sizeBytes(uint64(chunk))
	var w buffer
	w.bytes([]byte("OHDR"))
	w.u8(2)
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
	w.uintN(uint64(chunk), n)
	for _, m := range msgs {
		w.u8(m.typ)
		w.u16(uint16(len(m.body)))
		w.u8(0)
		w.bytes(m.body)
	}
	if pad > 0 {
		w.u8(msgNil)
		w.u16(uint16(pad - 4))
		w.u8(0)
		w.zeros(pad - 4)
	}
	w.checksum(0)
	return w.b, nil
}

// superblockSize is the encoded size of a version 3 superblock.
const superblockSize = 12 + 4*offsetSize + 4

// superblock encodes a version 3 superblock for a file of eof bytes whose
// root group header is at root.
func superblock(eof, root uint64) []byte {
	var w buffer
	w.bytes([]byte("\x89HDF\r\n\x1a\n"))
	w.u8(3)
	w.u8(offsetSize)
	w.u8(lengthSize)
	w.u8(0) // consistency flags
	w.offset(0)
	w.offset(undefinedAddr) // no extension
	w.offset(eof)
	w.offset(root)
	w.checksum(0)
	return w.b
}
