package manager

// Collection is an insertion-ordered list whose structural changes are
// deferred while it is being iterated. Add/Remove during Each are queued and
// applied by Flush (end of frame); items queued for removal are skipped by
// the remainder of the pass.
type Collection[T comparable] struct {
	items     []T
	iterating int

	pendingAdd    []T
	pendingRemove map[T]struct{}
}

func NewCollection[T comparable](capacity int) *Collection[T] {
	return &Collection[T]{
		items:         make([]T, 0, capacity),
		pendingRemove: make(map[T]struct{}),
	}
}

// Add appends item, or queues it when called mid-iteration. O(1) amortized.
func (c *Collection[T]) Add(item T) {
	if c.iterating > 0 {
		c.pendingAdd = append(c.pendingAdd, item)
		return
	}
	c.items = append(c.items, item)
}

// Find returns the first live item accepted by match.
func (c *Collection[T]) Find(match func(T) bool) (T, bool) {
	for _, it := range c.items {
		if _, gone := c.pendingRemove[it]; gone {
			continue
		}
		if match(it) {
			return it, true
		}
	}
	for _, it := range c.pendingAdd {
		if match(it) {
			return it, true
		}
	}
	var zero T
	return zero, false
}

// Contains reports whether item is live (present and not queued for removal).
func (c *Collection[T]) Contains(item T) bool {
	_, ok := c.Find(func(it T) bool { return it == item })
	return ok
}

// Remove removes the first item accepted by match and returns it. At most one
// item is removed; false means nothing matched.
func (c *Collection[T]) Remove(match func(T) bool) (T, bool) {
	for i, it := range c.items {
		if _, gone := c.pendingRemove[it]; gone {
			continue
		}
		if !match(it) {
			continue
		}
		if c.iterating > 0 {
			c.pendingRemove[it] = struct{}{}
		} else {
			c.items = append(c.items[:i], c.items[i+1:]...)
		}
		return it, true
	}
	for i, it := range c.pendingAdd {
		if match(it) {
			c.pendingAdd = append(c.pendingAdd[:i], c.pendingAdd[i+1:]...)
			return it, true
		}
	}
	var zero T
	return zero, false
}

// RemoveAll removes every item accepted by match and returns the count.
func (c *Collection[T]) RemoveAll(match func(T) bool) int {
	n := 0
	if c.iterating > 0 {
		for _, it := range c.items {
			if _, gone := c.pendingRemove[it]; gone {
				continue
			}
			if match(it) {
				c.pendingRemove[it] = struct{}{}
				n++
			}
		}
	} else {
		kept := c.items[:0]
		for _, it := range c.items {
			if match(it) {
				n++
				continue
			}
			kept = append(kept, it)
		}
		var zero T
		for i := len(kept); i < len(c.items); i++ {
			c.items[i] = zero
		}
		c.items = kept
	}

	kept := c.pendingAdd[:0]
	for _, it := range c.pendingAdd {
		if match(it) {
			n++
			continue
		}
		kept = append(kept, it)
	}
	c.pendingAdd = kept
	return n
}

// Each visits live items in insertion order. Structural changes made by fn
// are deferred until Flush.
func (c *Collection[T]) Each(fn func(T)) {
	c.iterating++
	defer func() { c.iterating-- }()
	for i := 0; i < len(c.items); i++ {
		it := c.items[i]
		if _, gone := c.pendingRemove[it]; gone {
			continue
		}
		fn(it)
	}
}

// Flush applies queued removals, then queued additions.
func (c *Collection[T]) Flush() {
	if c.iterating > 0 {
		return
	}
	if len(c.pendingRemove) > 0 {
		kept := c.items[:0]
		for _, it := range c.items {
			if _, gone := c.pendingRemove[it]; !gone {
				kept = append(kept, it)
			}
		}
		var zero T
		for i := len(kept); i < len(c.items); i++ {
			c.items[i] = zero
		}
		c.items = kept
		clear(c.pendingRemove)
	}
	if len(c.pendingAdd) > 0 {
		c.items = append(c.items, c.pendingAdd...)
		clear(c.pendingAdd)
		c.pendingAdd = c.pendingAdd[:0]
	}
}

// Pending reports whether Flush has work to do.
func (c *Collection[T]) Pending() bool {
	return len(c.pendingAdd) > 0 || len(c.pendingRemove) > 0
}

// Len counts live items, including queued additions.
func (c *Collection[T]) Len() int {
	return len(c.items) - len(c.pendingRemove) + len(c.pendingAdd)
}

// Items returns a copy of the live items in insertion order.
func (c *Collection[T]) Items() []T {
	out := make([]T, 0, c.Len())
	for _, it := range c.items {
		if _, gone := c.pendingRemove[it]; !gone {
			out = append(out, it)
		}
	}
	return append(out, c.pendingAdd...)
}
