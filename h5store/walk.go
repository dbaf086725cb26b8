package h5store

import "errors"

// Object describes a group or dataset visited by Walk.
type Object struct {
	Path  string
	Group bool
	Shape []int // nil for groups and scalar datasets
}

// WalkFunc is called for each object during traversal.
// err is any error encountered inspecting the object.
// Return nil to continue walking, or an error to stop.
type WalkFunc func(obj Object, err error) error

// ErrStopWalk can be returned from a WalkFunc to stop walking without an error.
var ErrStopWalk = errors.New("walk stopped")

// Walk traverses all groups and datasets below root in depth-first order,
// members sorted by name, calling fn for each including root itself.
//
// Example:
//
//	h5store.Walk(r, "/", func(obj h5store.Object, err error) error {
//	    if err != nil {
//	        return err
//	    }
//	    fmt.Println(obj.Path, obj.Shape)
//	    return nil
//	})
func Walk(r Reader, root string, fn WalkFunc) error {
	err := walk(r, CleanPath(root), fn)
	if errors.Is(err, ErrStopWalk) {
		return nil
	}
	return err
}

func walk(r Reader, path string, fn WalkFunc) error {
	if !r.IsGroup(path) {
		shape, err := r.Shape(path)
		return fn(Object{Path: path, Shape: shape}, err)
	}

	if err := fn(Object{Path: path, Group: true}, nil); err != nil {
		return err
	}

	members, err := r.Members(path)
	if err != nil {
		return fn(Object{Path: path, Group: true}, err)
	}
	for _, name := range members {
		if err := walk(r, JoinPath(path, name), fn); err != nil {
			return err
		}
	}
	return nil
}
