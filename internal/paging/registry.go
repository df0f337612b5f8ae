package paging

// Registry owns one independent Pager per list key.
// Selecting a key always starts its list on page 1.
type Registry[K comparable, T any] struct {
	pagers map[K]*Pager[T]
	opts   []Option
	order  []K
}

// NewRegistry creates an empty registry whose pagers share the given options.
func NewRegistry[K comparable, T any](opts ...Option) *Registry[K, T] {
	return &Registry[K, T]{
		pagers: make(map[K]*Pager[T]),
		opts:   opts,
	}
}

// Select creates a fresh pager for key, replacing any previous one.
func (r *Registry[K, T]) Select(key K, details []T) (*Pager[T], error) {
	opts := make([]Option, 0, len(r.opts)+1)
	opts = append(opts, r.opts...)
	opts = append(opts, WithStartPage(1))

	p, err := New(details, opts...)
	if err != nil {
		return nil, err
	}

	if _, exists := r.pagers[key]; !exists {
		r.order = append(r.order, key)
	}
	r.pagers[key] = p
	return p, nil
}

// Get returns the pager for key.
func (r *Registry[K, T]) Get(key K) (*Pager[T], bool) {
	p, ok := r.pagers[key]
	return p, ok
}

// Drop discards the pager for key.
func (r *Registry[K, T]) Drop(key K) {
	if _, ok := r.pagers[key]; !ok {
		return
	}
	delete(r.pagers, key)
	for i, k := range r.order {
		if k == key {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

// Keys returns the selected keys in selection order.
func (r *Registry[K, T]) Keys() []K {
	keys := make([]K, len(r.order))
	copy(keys, r.order)
	return keys
}

// Len returns the number of live pagers.
func (r *Registry[K, T]) Len() int {
	return len(r.pagers)
}
