// Package utils holds small generic helpers shared across packages.
package utils

// Value dereferences p, returning the zero value when p is nil. Used
// for optional fields such as unrated review categories.
func Value[T any](p *T) T {
	if p == nil {
		return *new(T)
	}
	return *p
}

// Ptr returns a pointer to v, for filling optional request fields.
func Ptr[T any](v T) *T {
	return &v
}
