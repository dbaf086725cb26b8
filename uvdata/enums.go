package uvdata

import (
	"fmt"
	"strings"
)

// VisUnit is the unit of the visibility data.
type VisUnit uint8

const (
	Uncalib VisUnit = iota
	Jansky
	KelvinStr
)

var visUnitNames = [...]string{
	Uncalib:   "uncalib",
	Jansky:    "jy",
	KelvinStr: "k str",
}

func (u VisUnit) String() string {
	if int(u) < len(visUnitNames) {
		return visUnitNames[u]
	}
	return fmt.Sprintf("VisUnit(%d)", uint8(u))
}

// ParseVisUnit parses a visibility unit. There is no unknown unit.
func ParseVisUnit(s string) (VisUnit, error) {
	i, err := lookup(visUnitNames[:], s, "visibility unit")
	return VisUnit(i), err
}

func (u VisUnit) MarshalText() ([]byte, error) { return []byte(u.String()), nil }

func (u *VisUnit) UnmarshalText(b []byte) error {
	v, err := ParseVisUnit(string(b))
	if err != nil {
		return err
	}
	*u = v
	return nil
}

// PhaseType describes how the visibilities are phased.
type PhaseType uint8

const (
	Drift PhaseType = iota
	Phased
	Multi // per-sample phasing governed by the phase center catalog
)

var phaseTypeNames = [...]string{
	Drift:  "drift",
	Phased: "phased",
	Multi:  "multi",
}

func (p PhaseType) String() string {
	if int(p) < len(phaseTypeNames) {
		return phaseTypeNames[p]
	}
	return fmt.Sprintf("PhaseType(%d)", uint8(p))
}

// ParsePhaseType parses a phase type.
func ParsePhaseType(s string) (PhaseType, error) {
	i, err := lookup(phaseTypeNames[:], s, "phase type")
	return PhaseType(i), err
}

func (p PhaseType) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

func (p *PhaseType) UnmarshalText(b []byte) error {
	v, err := ParsePhaseType(string(b))
	if err != nil {
		return err
	}
	*p = v
	return nil
}

// EqConvention is the convention used to apply eq_coeffs.
type EqConvention uint8

const (
	EqUnknown EqConvention = iota
	EqDivide
	EqMultiply
)

var eqConventionNames = [...]string{
	EqUnknown:  "unknown",
	EqDivide:   "divide",
	EqMultiply: "multiply",
}

func (e EqConvention) String() string {
	if int(e) < len(eqConventionNames) {
		return eqConventionNames[e]
	}
	return fmt.Sprintf("EqConvention(%d)", uint8(e))
}

// ParseEqConvention parses an equalization convention.
func ParseEqConvention(s string) (EqConvention, error) {
	i, err := lookup(eqConventionNames[:], s, "equalization convention")
	return EqConvention(i), err
}

func (e EqConvention) MarshalText() ([]byte, error) { return []byte(e.String()), nil }

func (e *EqConvention) UnmarshalText(b []byte) error {
	v, err := ParseEqConvention(string(b))
	if err != nil {
		return err
	}
	*e = v
	return nil
}

// Orientation is the orientation of the x dipole.
type Orientation uint8

const (
	OrientUnknown Orientation = iota
	East
	North
)

var orientationNames = [...]string{
	OrientUnknown: "unknown",
	East:          "east",
	North:         "north",
}

func (o Orientation) String() string {
	if int(o) < len(orientationNames) {
		return orientationNames[o]
	}
	return fmt.Sprintf("Orientation(%d)", uint8(o))
}

// ParseOrientation parses a feed orientation.
func ParseOrientation(s string) (Orientation, error) {
	i, err := lookup(orientationNames[:], s, "feed orientation")
	return Orientation(i), err
}

func (o Orientation) MarshalText() ([]byte, error) { return []byte(o.String()), nil }

func (o *Orientation) UnmarshalText(b []byte) error {
	v, err := ParseOrientation(string(b))
	if err != nil {
		return err
	}
	*o = v
	return nil
}

// BltOrderKey is one axis of a baseline-time ordering.
type BltOrderKey uint8

const (
	KeyUnknown BltOrderKey = iota
	KeyAnt1
	KeyAnt2
	KeyTime
	KeyBaseline
	KeyBDA
)

var bltKeyNames = [...]string{
	KeyUnknown:  "unknown",
	KeyAnt1:     "ant1",
	KeyAnt2:     "ant2",
	KeyTime:     "time",
	KeyBaseline: "baseline",
	KeyBDA:      "bda",
}

func (k BltOrderKey) String() string {
	if int(k) < len(bltKeyNames) {
		return bltKeyNames[k]
	}
	return fmt.Sprintf("BltOrderKey(%d)", uint8(k))
}

// BltOrder is the (major, minor) ordering of the baseline-time axis.
// The zero value is the unknown ordering.
type BltOrder struct {
	Major BltOrderKey
	Minor BltOrderKey
}

var (
	BltUnknown = BltOrder{KeyUnknown, KeyUnknown}
	BltBDA     = BltOrder{KeyBDA, KeyBDA}
)

// legal lists the explicit (major, minor) pairs accepted by ParseBltOrder.
var legal = map[BltOrder]bool{
	{KeyBaseline, KeyTime}: true,
	{KeyBaseline, KeyAnt1}: true,
	{KeyBaseline, KeyAnt2}: true,
	{KeyTime, KeyBaseline}: true,
	{KeyTime, KeyAnt1}:     true,
	{KeyTime, KeyAnt2}:     true,
	{KeyAnt1, KeyAnt2}:     true,
	{KeyAnt1, KeyTime}:     true,
	{KeyAnt1, KeyBaseline}: true,
	{KeyAnt2, KeyAnt1}:     true,
	{KeyAnt2, KeyTime}:     true,
	{KeyAnt2, KeyBaseline}: true,
}

// IsUnknown reports whether the ordering is unknown.
func (b BltOrder) IsUnknown() bool { return b == BltUnknown }

func (b BltOrder) String() string {
	switch {
	case b.Major == KeyBDA:
		return "bda,"
	case b.IsUnknown():
		return "unknown"
	}
	return b.Major.String() + ", " + b.Minor.String()
}

// ParseBltOrder parses "major, minor", "bda," or "unknown".
func ParseBltOrder(s string) (BltOrder, error) {
	norm := normalize(s)
	switch norm {
	case "unknown":
		return BltUnknown, nil
	case "bda,":
		return BltBDA, nil
	}

	major, minor, ok := strings.Cut(norm, ",")
	if ok {
		var b BltOrder
		b.Major, ok = keyByName(strings.TrimSpace(major))
		if ok {
			b.Minor, ok = keyByName(strings.TrimSpace(minor))
		}
		if ok && legal[b] && norm == b.String() {
			return b, nil
		}
	}
	return BltUnknown, fmt.Errorf("%w: unknown blt ordering %q", ErrParse, norm)
}

func (b BltOrder) MarshalText() ([]byte, error) { return []byte(b.String()), nil }

func (b *BltOrder) UnmarshalText(text []byte) error {
	v, err := ParseBltOrder(string(text))
	if err != nil {
		return err
	}
	*b = v
	return nil
}

func keyByName(name string) (BltOrderKey, bool) {
	for i, n := range bltKeyNames {
		if n == name {
			return BltOrderKey(i), true
		}
	}
	return KeyUnknown, false
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func lookup(names []string, s, what string) (int, error) {
	norm := normalize(s)
	for i, n := range names {
		if n == norm {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown %s %q", ErrParse, what, norm)
}
