package uvdata

import (
	"bytes"
	"fmt"
	"math"
	"slices"

	"github.com/goccy/go-json"
)

// Catalog kind tags.
const (
	KindUnphased = "unphased"
	KindSidereal = "sidereal"
	KindEphem    = "ephem"
)

// InfoSourceUVData marks catalog entries synthesised from legacy single phase
// center header fields.
const InfoSourceUVData = "UVData"

// Entry is a phase center catalog entry. It is implemented by *Unphased,
// *Sidereal and *Ephemeris.
type Entry interface {
	// ID returns the catalog id referenced by phase_center_id_array.
	ID() uint32
	// Kind returns the kind tag ("unphased", "sidereal" or "ephem").
	Kind() string

	clone() Entry
	equal(Entry) bool
}

// Unphased is a drift scan phase center (zenith).
type Unphased struct {
	CatID   uint32 `json:"cat_id"`
	CatType string `json:"cat_type"`
}

// NewUnphased returns an unphased entry with the given id.
func NewUnphased(id uint32) *Unphased {
	return &Unphased{CatID: id, CatType: KindUnphased}
}

func (e *Unphased) ID() uint32   { return e.CatID }
func (e *Unphased) Kind() string { return e.CatType }

func (e *Unphased) clone() Entry {
	c := *e
	return &c
}

func (e *Unphased) equal(o Entry) bool {
	other, ok := o.(*Unphased)
	return ok && *e == *other
}

// Sidereal is a phase center fixed on the sky.
// Lon and Lat are radians in Frame at Epoch.
type Sidereal struct {
	CatID      uint32   `json:"cat_id"`
	CatType    string   `json:"cat_type"`
	Lon        float64  `json:"cat_lon"`
	Lat        float64  `json:"cat_lat"`
	Frame      string   `json:"cat_frame"`
	Epoch      float64  `json:"cat_epoch"`
	PMRA       *float64 `json:"cat_pm_ra"`
	PMDec      *float64 `json:"cat_pm_dec"`
	Dist       *float64 `json:"cat_dist"`
	VRad       *float64 `json:"cat_vrad"`
	InfoSource *string  `json:"info_source"`
}

func (e *Sidereal) ID() uint32   { return e.CatID }
func (e *Sidereal) Kind() string { return e.CatType }

func (e *Sidereal) clone() Entry {
	c := *e
	c.PMRA = clonePtr(e.PMRA)
	c.PMDec = clonePtr(e.PMDec)
	c.Dist = clonePtr(e.Dist)
	c.VRad = clonePtr(e.VRad)
	c.InfoSource = clonePtr(e.InfoSource)
	return &c
}

func (e *Sidereal) equal(o Entry) bool {
	other, ok := o.(*Sidereal)
	if !ok {
		return false
	}
	return e.CatID == other.CatID &&
		e.CatType == other.CatType &&
		e.Frame == other.Frame &&
		closeTo(e.Lon, other.Lon) &&
		closeTo(e.Lat, other.Lat) &&
		closeTo(e.Epoch, other.Epoch) &&
		optCloseTo(e.PMRA, other.PMRA) &&
		optCloseTo(e.PMDec, other.PMDec) &&
		optCloseTo(e.Dist, other.Dist) &&
		optCloseTo(e.VRad, other.VRad) &&
		optEqual(e.InfoSource, other.InfoSource)
}

// Ephemeris is a moving phase center with one position per ephemeris time.
type Ephemeris struct {
	CatID      uint32    `json:"cat_id"`
	CatType    string    `json:"cat_type"`
	Lon        []float64 `json:"cat_lon"`
	Lat        []float64 `json:"cat_lat"`
	Frame      string    `json:"cat_frame"`
	Epoch      float64   `json:"cat_epoch"`
	Dist       []float64 `json:"cat_dist"`
	VRad       []float64 `json:"cat_vrad"`
	InfoSource *string   `json:"info_source"`
}

func (e *Ephemeris) ID() uint32   { return e.CatID }
func (e *Ephemeris) Kind() string { return e.CatType }

func (e *Ephemeris) clone() Entry {
	c := *e
	c.Lon = slices.Clone(e.Lon)
	c.Lat = slices.Clone(e.Lat)
	c.Dist = slices.Clone(e.Dist)
	c.VRad = slices.Clone(e.VRad)
	c.InfoSource = clonePtr(e.InfoSource)
	return &c
}

func (e *Ephemeris) equal(o Entry) bool {
	other, ok := o.(*Ephemeris)
	if !ok {
		return false
	}
	return e.CatID == other.CatID &&
		e.CatType == other.CatType &&
		e.Frame == other.Frame &&
		closeTo(e.Epoch, other.Epoch) &&
		floatsClose(e.Lon, other.Lon) &&
		floatsClose(e.Lat, other.Lat) &&
		(e.Dist == nil) == (other.Dist == nil) &&
		floatsClose(e.Dist, other.Dist) &&
		(e.VRad == nil) == (other.VRad == nil) &&
		floatsClose(e.VRad, other.VRad) &&
		optEqual(e.InfoSource, other.InfoSource)
}

// EntriesEqual reports whether two entries are the same variant with equal
// fields, comparing floating point fields within Tolerance.
func EntriesEqual(a, b Entry) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.equal(b)
}

// Catalog maps phase center names to entries.
type Catalog map[string]Entry

// Names returns the entry names in sorted order. Serialisation iterates the
// catalog in this order.
func (c Catalog) Names() []string {
	names := make([]string, 0, len(c))
	for name := range c {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Validate checks that ids are unique and every kind tag matches its variant.
func (c Catalog) Validate() error {
	seen := make(map[uint32]string, len(c))
	for _, name := range c.Names() {
		e := c[name]
		if e == nil {
			return fmt.Errorf("%w: %q is nil", ErrInvalidEntry, name)
		}
		if want := kindOf(e); e.Kind() != want {
			return fmt.Errorf("%w: %q has kind %q, want %q", ErrInvalidEntry, name, e.Kind(), want)
		}
		if prev, ok := seen[e.ID()]; ok {
			return fmt.Errorf("%w: %q and %q share id %d", ErrInvalidEntry, prev, name, e.ID())
		}
		seen[e.ID()] = name
	}
	return nil
}

// Equal reports whether both catalogs hold equal entries under the same names.
func (c Catalog) Equal(o Catalog) bool {
	if len(c) != len(o) {
		return false
	}
	for name, e := range c {
		oe, ok := o[name]
		if !ok || !EntriesEqual(e, oe) {
			return false
		}
	}
	return true
}

// Clone returns a deep copy of the catalog.
func (c Catalog) Clone() Catalog {
	if c == nil {
		return nil
	}
	out := make(Catalog, len(c))
	for name, e := range c {
		out[name] = e.clone()
	}
	return out
}

func kindOf(e Entry) string {
	switch e.(type) {
	case *Unphased:
		return KindUnphased
	case *Sidereal:
		return KindSidereal
	case *Ephemeris:
		return KindEphem
	}
	return ""
}

// EncodeEntry serialises an entry to JSON.
func EncodeEntry(e Entry) (string, error) {
	if e == nil {
		return "", fmt.Errorf("%w: nil entry", ErrInvalidEntry)
	}
	b, err := json.Marshal(e)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// positional lists the fields that distinguish a phased entry from an
// unphased one.
var positional = []string{"cat_lon", "cat_lat", "cat_frame", "cat_epoch"}

// DecodeEntry decodes a JSON catalog entry. The variant is chosen from the
// shape of the fields present: Unphased when no positional field exists,
// otherwise Sidereal (scalar lon/lat) and then Ephemeris (array lon/lat).
// The first matching shape wins.
func DecodeEntry(s string) (Entry, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(s), &fields); err != nil {
		return nil, fmt.Errorf("%w: catalog entry: %v", ErrParse, err)
	}
	for _, k := range []string{"cat_id", "cat_type"} {
		if !present(fields, k) {
			return nil, fmt.Errorf("%w: catalog entry missing %q", ErrParse, k)
		}
	}

	if !hasAny(fields, positional) {
		var u Unphased
		if err := json.Unmarshal([]byte(s), &u); err == nil {
			return &u, nil
		}
	}

	var sid Sidereal
	if err := json.Unmarshal([]byte(s), &sid); err == nil && hasAll(fields, positional) {
		return &sid, nil
	}

	var raw ephemJSON
	if err := json.Unmarshal([]byte(s), &raw); err == nil && hasAll(fields, positional) {
		return raw.entry(), nil
	}

	return nil, fmt.Errorf("%w: catalog entry matches no known shape: %s", ErrParse, s)
}

// ephemJSON accepts ephemeris arrays written either as plain JSON lists or as
// {"v":1,"dim":[n],"data":[...]} objects.
type ephemJSON struct {
	CatID      uint32    `json:"cat_id"`
	CatType    string    `json:"cat_type"`
	Lon        jsonArray `json:"cat_lon"`
	Lat        jsonArray `json:"cat_lat"`
	Frame      string    `json:"cat_frame"`
	Epoch      float64   `json:"cat_epoch"`
	Dist       jsonArray `json:"cat_dist"`
	VRad       jsonArray `json:"cat_vrad"`
	InfoSource *string   `json:"info_source"`
}

func (r *ephemJSON) entry() *Ephemeris {
	return &Ephemeris{
		CatID:      r.CatID,
		CatType:    r.CatType,
		Lon:        r.Lon,
		Lat:        r.Lat,
		Frame:      r.Frame,
		Epoch:      r.Epoch,
		Dist:       r.Dist,
		VRad:       r.VRad,
		InfoSource: r.InfoSource,
	}
}

type jsonArray []float64

func (a *jsonArray) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*a = nil
		return nil
	}
	if len(b) > 0 && b[0] == '{' {
		var nd struct {
			Dim  []int     `json:"dim"`
			Data []float64 `json:"data"`
		}
		if err := json.Unmarshal(b, &nd); err != nil {
			return err
		}
		if len(nd.Dim) != 1 || nd.Dim[0] != len(nd.Data) {
			return fmt.Errorf("array object has dim %v for %d values", nd.Dim, len(nd.Data))
		}
		*a = nd.Data
		return nil
	}
	var v []float64
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*a = v
	return nil
}

func present(fields map[string]json.RawMessage, k string) bool {
	v, ok := fields[k]
	return ok && !bytes.Equal(bytes.TrimSpace(v), []byte("null"))
}

func hasAny(fields map[string]json.RawMessage, keys []string) bool {
	for _, k := range keys {
		if present(fields, k) {
			return true
		}
	}
	return false
}

func hasAll(fields map[string]json.RawMessage, keys []string) bool {
	for _, k := range keys {
		if !present(fields, k) {
			return false
		}
	}
	return true
}

func closeTo(a, b float64) bool {
	if a == b {
		return true
	}
	return math.Abs(a-b) <= Tolerance
}

func optCloseTo(a, b *float64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return closeTo(*a, *b)
}

func optEqual[T comparable](a, b *T) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func floatsClose(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !closeTo(a[i], b[i]) {
			return false
		}
	}
	return true
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
