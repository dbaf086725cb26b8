package h5write

import "fmt"

// Class is an HDF5 datatype class.
type Class uint8

const (
	ClassInteger  Class = 0
	ClassFloat    Class = 1
	ClassString   Class = 3
	ClassCompound Class = 6
)

// Datatype describes the stored element type of a dataset. All numeric
// types are little-endian.
type Datatype struct {
	Class   Class
	Size    uint32
	Signed  bool
	Members []Member
}

// Member is one field of a compound datatype.
type Member struct {
	Name   string
	Offset uint32
	Type   Datatype
}

// Integer returns a fixed-point type of size bytes.
func Integer(size uint32, signed bool) Datatype {
	return Datatype{Class: ClassInteger, Size: size, Signed: signed}
}

// Float returns an IEEE 754 type of 4 or 8 bytes.
func Float(size uint32) Datatype {
	return Datatype{Class: ClassFloat, Size: size}
}

// String returns a fixed-length null-terminated ASCII type.
func String(size uint32) Datatype {
	return Datatype{Class: ClassString, Size: size}
}

// Compound returns a compound type of size bytes.
func Compound(size uint32, members ...Member) Datatype {
	return Datatype{Class: ClassCompound, Size: size, Members: members}
}

func (t Datatype) validate() error {
	switch t.Class {
	case ClassInteger:
		switch t.Size {
		case 1, 2, 4, 8:
			return nil
		}
	case ClassFloat:
		if t.Size == 4 || t.Size == 8 {
			return nil
		}
	case ClassString:
		if t.Size > 0 {
			return nil
		}
	case ClassCompound:
		if len(t.Members) == 0 {
			return fmt.Errorf("%w: compound without members", ErrDatatype)
		}
		for _, m := range t.Members {
			if err := m.Type.validate(); err != nil {
				return fmt.Errorf("member %q: %w", m.Name, err)
			}
			if m.Offset+m.Type.Size > t.Size {
				return fmt.Errorf("%w: member %q overruns %d byte record", ErrDatatype, m.Name, t.Size)
			}
		}
		return nil
	}
	return fmt.Errorf("%w: class %d size %d", ErrDatatype, t.Class, t.Size)
}

// encode appends a datatype message body: class and version, 24 class
// bits, size, then the class properties.
func (t Datatype) encode(w *buffer) {
	version := uint8(1)
	if t.Class == ClassCompound {
		version = 3
	}
	w.u8(uint8(t.Class) | version<<4)

	var classBits uint32
	switch t.Class {
	case ClassInteger:
		if t.Signed {
			classBits = 0x08
		}
	case ClassFloat:
		// implied mantissa msb, sign bit location in the second byte
		classBits = 0x20 | (t.Size*8-1)<<8
	case ClassString:
		// null terminated, ASCII
	case ClassCompound:
		classBits = uint32(len(t.Members))
	}
	w.uintN(uint64(classBits), 3)
	w.u32(t.Size)

	switch t.Class {
	case ClassInteger:
		w.u16(0)
		w.u16(uint16(t.Size * 8))
	case ClassFloat:
		w.u16(0)
		w.u16(uint16(t.Size * 8))
		if t.Size == 4 {
			w.u8(23) // exponent location
			w.u8(8)
			w.u8(0) // mantissa location
			w.u8(23)
			w.u32(127)
		} else {
			w.u8(52)
			w.u8(11)
			w.u8(0)
			w.u8(52)
			w.u32(1023)
		}
	case ClassCompound:
		n := sizeBytes(uint64(t.Size))
		for _, m := range t.Members {
			w.bytes([]byte(m.Name))
			w.u8(0)
			w.uintN(uint64(m.Offset), n)
			m.Type.encode(w)
		}
	}
}
