package sequence

// Bounded is a fixed-capacity ring deque. Pushing onto a full deque evicts
// the oldest element.
type Bounded[T any] struct {
	buf   []T
	head  int
	count int
}

func NewBounded[T any](capacity int) *Bounded[T] {
	if capacity < 0 {
		capacity = 0
	}
	return &Bounded[T]{buf: make([]T, capacity)}
}

// PushBack appends v and reports the element evicted to make room, if any.
// A zero-capacity deque evicts v itself.
func (b *Bounded[T]) PushBack(v T) (evicted T, ok bool) {
	if len(b.buf) == 0 {
		return v, true
	}
	if b.count == len(b.buf) {
		evicted = b.buf[b.head]
		b.buf[b.head] = v
		b.head = (b.head + 1) % len(b.buf)
		return evicted, true
	}
	b.buf[(b.head+b.count)%len(b.buf)] = v
	b.count++
	return evicted, false
}

// PopBack removes and returns the newest element.
func (b *Bounded[T]) PopBack() (T, bool) {
	var zero T
	if b.count == 0 {
		return zero, false
	}
	i := (b.head + b.count - 1) % len(b.buf)
	v := b.buf[i]
	b.buf[i] = zero
	b.count--
	return v, true
}

// Back returns the newest element without removing it.
func (b *Bounded[T]) Back() (T, bool) {
	if b.count == 0 {
		var zero T
		return zero, false
	}
	return b.buf[(b.head+b.count-1)%len(b.buf)], true
}

// Items returns the elements oldest first.
func (b *Bounded[T]) Items() []T {
	out := make([]T, b.count)
	for i := 0; i < b.count; i++ {
		out[i] = b.buf[(b.head+i)%len(b.buf)]
	}
	return out
}

func (b *Bounded[T]) Len() int { return b.count }

func (b *Bounded[T]) Cap() int { return len(b.buf) }

func (b *Bounded[T]) Clear() {
	var zero T
	for i := range b.buf {
		b.buf[i] = zero
	}
	b.head = 0
	b.count = 0
}
