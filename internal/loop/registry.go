package loop

// Registry is an ordered set of subscribers.
type Registry[T comparable] struct {
	items []T
}

// Add subscribes v. The returned func removes it; calling it again is a no-op.
func (r *Registry[T]) Add(v T) (remove func()) {
	r.items = append(r.items, v)
	return func() {
		for i, x := range r.items {
			if x == v {
				r.items = append(r.items[:i], r.items[i+1:]...)
				return
			}
		}
	}
}

func (r *Registry[T]) Len() int { return len(r.items) }

// Each calls fn for every subscriber present when Each was called.
func (r *Registry[T]) Each(fn func(T)) {
	snapshot := append([]T(nil), r.items...)
	for _, v := range snapshot {
		fn(v)
	}
}
