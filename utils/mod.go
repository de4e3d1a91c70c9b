package utils

import "golang.org/x/exp/constraints"

// FindIndex returns the position of the first occurrence of item, or -1.
func FindIndex[T comparable](slice []T, item T) int {
	for i, v := range slice {
		if v == item {
			return i
		}
	}
	return -1
}

// AddInto adds src to dst element by element. dst must be at least as long as src.
func AddInto[T constraints.Integer | constraints.Float](dst, src []T) {
	for i, v := range src {
		dst[i] += v
	}
}
