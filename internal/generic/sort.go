package generic

import (
	"golang.org/x/exp/constraints"
	"golang.org/x/exp/slices"
)

// SortSlice sorts arr in place, in descending order if reverse is set.
func SortSlice[T constraints.Ordered](arr []T, reverse bool) {
	if !reverse {
		slices.Sort(arr)
		return
	}

	slices.SortFunc(arr, func(a, b T) bool {
		return a > b
	})
}
