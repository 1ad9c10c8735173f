package common

import (
	"net/url"
	"path"
	"strings"
)

// Coalesce returns the first non-zero value from the provided values, or the zero value if all are zero.
//
// Parameters:
//   - values: a variadic list of values to check for non-zero status
//
// Returns:
//   - T: the first non-zero value from the input, or the zero value if all are zero
func Coalesce[T comparable](values ...T) T {
	var zero T
	for _, v := range values {
		if v != zero {
			return v
		}
	}
	return zero
}

// ResolveSibling resolves a reference found inside an asset (mtllib, buffer URI, texture map)
// against the directory of the referencing asset. Asset names are always slash separated.
// Percent-encoded references (as glTF URIs are) are decoded first.
//
// Parameters:
//   - referrer: the name of the asset containing the reference
//   - ref: the reference as written in the asset
//
// Returns:
//   - string: the asset name of the referenced resource
func ResolveSibling(referrer, ref string) string {
	if unescaped, err := url.PathUnescape(ref); err == nil {
		ref = unescaped
	}
	ref = strings.ReplaceAll(ref, "\\", "/")
	if strings.HasPrefix(ref, "/") {
		return strings.TrimPrefix(path.Clean(ref), "/")
	}
	dir := path.Dir(referrer)
	if dir == "." {
		return path.Clean(ref)
	}
	return path.Join(dir, ref)
}
