package history

// deque is a fixed-capacity ring buffer ordered newest first. Pushing onto a
// full deque evicts the oldest element.
type deque[T any] struct {
	buf  []T
	head int
	n    int
}

func newDeque[T any](capacity int) *deque[T] {
	if capacity < 1 {
		capacity = 1
	}
	return &deque[T]{buf: make([]T, capacity)}
}

func (d *deque[T]) Len() int { return d.n }

func (d *deque[T]) Cap() int { return len(d.buf) }

// PushFront stores v as the newest element and reports the element it
// evicted, if any.
func (d *deque[T]) PushFront(v T) (evicted T, ok bool) {
	if d.n == len(d.buf) {
		back := (d.head + d.n - 1) % len(d.buf)
		evicted, ok = d.buf[back], true
		var zero T
		d.buf[back] = zero
		d.n--
	}
	d.head = (d.head - 1 + len(d.buf)) % len(d.buf)
	d.buf[d.head] = v
	d.n++
	return evicted, ok
}

func (d *deque[T]) PopFront() (T, bool) {
	var zero T
	if d.n == 0 {
		return zero, false
	}
	v := d.buf[d.head]
	d.buf[d.head] = zero
	d.head = (d.head + 1) % len(d.buf)
	d.n--
	return v, true
}

// Front returns a pointer to the newest element so it can be grown in place.
func (d *deque[T]) Front() (*T, bool) {
	if d.n == 0 {
		return nil, false
	}
	return &d.buf[d.head], true
}

// At returns the i-th element counting from the newest.
func (d *deque[T]) At(i int) T {
	return d.buf[(d.head+i)%len(d.buf)]
}

func (d *deque[T]) Clear() {
	var zero T
	for i := range d.buf {
		d.buf[i] = zero
	}
	d.head, d.n = 0, 0
}
