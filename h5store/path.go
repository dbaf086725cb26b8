package h5store

import (
	"fmt"
	"strings"
)

// SplitPath splits a path into its components.
// Leading and trailing slashes are handled, empty components are removed.
//
// Examples:
//   - "/" -> []string{}
//   - "/Header" -> []string{"Header"}
//   - "/Header/phase_center_catalog" -> []string{"Header", "phase_center_catalog"}
func SplitPath(path string) []string {
	parts := strings.Split(path, "/")
	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// CleanPath normalizes a path, ensuring it starts with "/" and has no
// trailing or repeated slashes.
func CleanPath(path string) string {
	return "/" + strings.Join(SplitPath(path), "/")
}

// JoinPath joins a group path and member names.
func JoinPath(group string, names ...string) string {
	return CleanPath(group + "/" + strings.Join(names, "/"))
}

// ParentPath splits a path into its parent group and final name.
// It returns an error for the root.
func ParentPath(path string) (parent, name string, err error) {
	parts := SplitPath(path)
	if len(parts) == 0 {
		return "", "", fmt.Errorf("%w: %q has no parent", ErrInvalidPath, path)
	}
	return "/" + strings.Join(parts[:len(parts)-1], "/"), parts[len(parts)-1], nil
}
