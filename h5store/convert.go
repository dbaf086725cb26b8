package h5store

// Value Conversion
//
// Stores hold each dataset as a typed Go slice; Read converts element-wise
// into the caller's slice type. The rules mirror what HDF5 itself allows
// between datatype classes:
//
//   - Integer and float values convert to any integer or float type
//   - Booleans convert to and from numbers (0 / 1, non-zero is true)
//   - Complex values convert only between complex64 and complex128
//   - Strings convert only to strings
//
// Anything else is ErrType.

import (
	"fmt"
	"reflect"
	"slices"
)

type valueClass int

const (
	classOther valueClass = iota
	classNumeric
	classBool
	classComplex
	classString
)

func classOf(k reflect.Kind) valueClass {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return classNumeric
	case reflect.Bool:
		return classBool
	case reflect.Complex64, reflect.Complex128:
		return classComplex
	case reflect.String:
		return classString
	}
	return classOther
}

// checkSlice verifies that data is a slice of a supported element type and
// returns its reflected value.
func checkSlice(data any) (reflect.Value, error) {
	v := reflect.ValueOf(data)
	if v.Kind() != reflect.Slice {
		return reflect.Value{}, fmt.Errorf("%w: data must be a slice, got %T", ErrType, data)
	}
	if classOf(v.Type().Elem().Kind()) == classOther {
		return reflect.Value{}, fmt.Errorf("%w: unsupported element type %s", ErrType, v.Type().Elem())
	}
	return v, nil
}

// assign converts the slice src into the slice pointed to by dest.
func assign(dest, src any) error {
	dv := reflect.ValueOf(dest)
	if dv.Kind() != reflect.Pointer || dv.Elem().Kind() != reflect.Slice {
		return fmt.Errorf("%w: dest must be a pointer to a slice, got %T", ErrType, dest)
	}
	sv, err := checkSlice(src)
	if err != nil {
		return err
	}

	outType := dv.Elem().Type()
	elemType := outType.Elem()
	from, to := classOf(sv.Type().Elem().Kind()), classOf(elemType.Kind())
	if !convertible(from, to) {
		return fmt.Errorf("%w: cannot read %s into %s", ErrType, sv.Type().Elem(), elemType)
	}

	n := sv.Len()
	out := reflect.MakeSlice(outType, n, n)
	for i := 0; i < n; i++ {
		out.Index(i).Set(convertValue(sv.Index(i), from, to, elemType))
	}
	dv.Elem().Set(out)
	return nil
}

func convertible(from, to valueClass) bool {
	switch from {
	case classNumeric, classBool:
		return to == classNumeric || to == classBool
	case classComplex, classString:
		return to == from
	}
	return false
}

func convertValue(v reflect.Value, from, to valueClass, t reflect.Type) reflect.Value {
	switch {
	case from == classBool && to == classNumeric:
		n := 0
		if v.Bool() {
			n = 1
		}
		return reflect.ValueOf(n).Convert(t)
	case from == classNumeric && to == classBool:
		return reflect.ValueOf(!v.IsZero()).Convert(t)
	}
	return v.Convert(t)
}

// copySlice returns a shallow copy of a supported slice so that stored
// datasets do not alias caller memory.
func copySlice(data any) any {
	switch d := data.(type) {
	case []float64:
		return slices.Clone(d)
	case []float32:
		return slices.Clone(d)
	case []int64:
		return slices.Clone(d)
	case []int32:
		return slices.Clone(d)
	case []uint32:
		return slices.Clone(d)
	case []int8:
		return slices.Clone(d)
	case []uint8:
		return slices.Clone(d)
	case []bool:
		return slices.Clone(d)
	case []string:
		return slices.Clone(d)
	case []complex128:
		return slices.Clone(d)
	case []complex64:
		return slices.Clone(d)
	}
	v := reflect.ValueOf(data)
	out := reflect.MakeSlice(v.Type(), v.Len(), v.Len())
	reflect.Copy(out, v)
	return out.Interface()
}
