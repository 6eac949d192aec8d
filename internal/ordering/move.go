// Package ordering maintains a total, persisted order over homogeneous
// catalog lists driven by drag gestures: an optimistic in-memory move plus
// a single full-list persistence call, with refetch as the only recovery
// path on failure.
package ordering

import "sort"

// Orderable is any catalog entity that can be reordered.
type Orderable interface {
	OrderID() string
	OrderIndex() int
}

// Move returns a copy of list with the element at src removed and
// reinserted at dst. Indices are clamped to the valid range, so dragging
// past the end of the list lands on the last element. Lists of length <= 1
// and src == dst moves come back unchanged.
func Move[T any](list []T, src, dst int) []T {
	out := make([]T, len(list))
	copy(out, list)
	if len(out) <= 1 {
		return out
	}

	src = clamp(src, len(out))
	dst = clamp(dst, len(out))
	if src == dst {
		return out
	}

	moved := out[src]
	if src < dst {
		copy(out[src:dst], out[src+1:dst+1])
	} else {
		copy(out[dst+1:src+1], out[dst:src])
	}
	out[dst] = moved
	return out
}

// IDs projects the ordered list onto its identifiers, the payload of the
// reorder persistence call.
func IDs[T Orderable](list []T) []string {
	ids := make([]string, len(list))
	for i, e := range list {
		ids[i] = e.OrderID()
	}
	return ids
}

// SortByPosition sorts ascending by persisted position. The sort is stable,
// so entities without a meaningful position keep their fetch order.
func SortByPosition[T Orderable](list []T) {
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].OrderIndex() < list[j].OrderIndex()
	})
}

func clamp(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}
