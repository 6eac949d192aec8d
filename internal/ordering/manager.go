package ordering

import (
	"context"
	"sync"
)

// PersistFunc sends the full resulting ordered ID list to the backend in
// one request. The backend is the sole authority for position assignment;
// its response body is not needed by the caller.
type PersistFunc func(ctx context.Context, ids []string) error

// RefetchFunc reloads the canonical order after a failed persistence call.
type RefetchFunc func(ctx context.Context) ([]string, error)

// Manager turns drag gestures over a list into persisted reorders. A second
// gesture is rejected while a persistence call from a prior gesture is
// outstanding, and the whole gesture is a no-op when the caller disables
// reordering (filtered or paginated views, where no global order can be
// derived from a partial list).
type Manager[T Orderable] struct {
	mu       sync.Mutex
	inFlight bool
	disabled bool
	dragFrom int

	persist PersistFunc
	refetch RefetchFunc
}

func NewManager[T Orderable](persist PersistFunc, refetch RefetchFunc) *Manager[T] {
	return &Manager[T]{dragFrom: -1, persist: persist, refetch: refetch}
}

// SetDisabled toggles the gesture off entirely.
func (m *Manager[T]) SetDisabled(disabled bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.disabled = disabled
}

// BeginDrag records the index being moved. No side effects beyond session
// state.
func (m *Manager[T]) BeginDrag(src int) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.disabled || m.inFlight {
		return false
	}
	m.dragFrom = src
	return true
}

// DragOver is purely visual feedback; it must never touch persisted state.
func (m *Manager[T]) DragOver(dst int) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return !m.disabled && !m.inFlight && m.dragFrom >= 0
}

// Dragging reports whether a drag session is open.
func (m *Manager[T]) Dragging() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.dragFrom >= 0
}

// Drop completes the gesture: applies the optimistic move and invokes the
// persistence call with the full resulting ID order. On persistence failure
// the canonical order is refetched and returned — no local rollback
// heuristics, since the optimistic state may already have diverged from a
// concurrent edit by another actor.
func (m *Manager[T]) Drop(ctx context.Context, list []T, src, dst int) ([]T, error) {
	m.mu.Lock()
	if m.disabled || m.inFlight {
		m.mu.Unlock()
		return list, nil
	}
	if len(list) <= 1 || clamp(src, len(list)) == clamp(dst, len(list)) {
		m.dragFrom = -1
		m.mu.Unlock()
		return list, nil
	}
	m.inFlight = true
	m.dragFrom = -1
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		m.inFlight = false
		m.mu.Unlock()
	}()

	moved := Move(list, src, dst)
	if err := m.persist(ctx, IDs(moved)); err != nil {
		canonical, refErr := m.refetch(ctx)
		if refErr != nil {
			return list, refErr
		}
		return reorderByIDs(list, canonical), err
	}
	return moved, nil
}

// reorderByIDs arranges list to match the canonical ID order; entities the
// canonical order does not mention keep their relative position at the end.
func reorderByIDs[T Orderable](list []T, canonical []string) []T {
	byID := make(map[string]T, len(list))
	for _, e := range list {
		byID[e.OrderID()] = e
	}
	out := make([]T, 0, len(list))
	seen := make(map[string]bool, len(canonical))
	for _, id := range canonical {
		if e, ok := byID[id]; ok {
			out = append(out, e)
			seen[id] = true
		}
	}
	for _, e := range list {
		if !seen[e.OrderID()] {
			out = append(out, e)
		}
	}
	return out
}
