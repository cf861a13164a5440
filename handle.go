package memtrack

import (
	"fmt"
	"unsafe"
)

// Handle is an exclusive-ownership wrapper around one heap-resident T
// allocated through a Tracker. At most one handle owns a given object at a
// time; ownership transfers with Move and the object is freed exactly once,
// on the first Release of the owning handle.
//
// A Handle is not synchronized. Exactly one goroutine should use a handle at
// a time, which is what exclusive ownership means.
type Handle[T any] struct {
	t   *Tracker
	buf []byte
	ptr *T
}

// NewHandle allocates a zeroed T through the tracker and returns an owning
// handle for it. Zero-sized types have nothing to own and return an error.
func NewHandle[T any](t *Tracker) (*Handle[T], error) {
	var zero T
	size := int(unsafe.Sizeof(zero))
	if size == 0 {
		return nil, fmt.Errorf("memtrack: cannot own zero-sized type %T", zero)
	}
	buf, err := t.Allocate(size)
	if err != nil {
		return nil, err
	}
	return &Handle[T]{t: t, buf: buf, ptr: (*T)(unsafe.Pointer(&buf[0]))}, nil
}

// NewHandleOf allocates a T through the tracker, initializes it to v, and
// returns an owning handle for it.
func NewHandleOf[T any](t *Tracker, v T) (*Handle[T], error) {
	h, err := NewHandle[T](t)
	if err != nil {
		return nil, err
	}
	*h.ptr = v
	return h, nil
}

// Get returns a pointer to the owned object. Calling Get on an empty handle
// is a programming error and panics.
func (h *Handle[T]) Get() *T {
	if h.ptr == nil {
		panic("memtrack: use of empty handle")
	}
	return h.ptr
}

// Empty reports whether the handle no longer owns an object, either because
// ownership moved away or because it was released.
func (h *Handle[T]) Empty() bool {
	return h.ptr == nil
}

// Move transfers ownership to a new handle and empties the receiver. The
// object itself does not move and nothing is allocated or freed. Moving an
// empty handle yields an empty handle.
func (h *Handle[T]) Move() *Handle[T] {
	next := &Handle[T]{t: h.t, buf: h.buf, ptr: h.ptr}
	h.buf, h.ptr = nil, nil
	return next
}

// Release frees the owned object through the tracker and empties the handle.
// Releasing an empty handle is a no-op, so a chain of moved handles may all
// be deferred safely: only the final owner actually frees.
func (h *Handle[T]) Release() {
	if h.ptr == nil {
		return
	}
	buf := h.buf
	h.buf, h.ptr = nil, nil
	h.t.Deallocate(buf, len(buf))
}
