// Package ordered provides deterministic traversal of maps.
package ordered

import (
	"cmp"
	"maps"
	"slices"
)

// Keys returns the keys of m in ascending order.
func Keys[M ~map[K]V, K cmp.Ordered, V any](m M) []K {
	return slices.Sorted(maps.Keys(m))
}

