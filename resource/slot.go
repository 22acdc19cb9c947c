// Copyright (c) 2016 Uber Technologies, Inc.
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

package resource

import "sync/atomic"

// Slot is an atomically swappable implementation slot. It holds a pointer to
// some behavior, for example a Finalizer or a strategy struct, that owners
// may replace at runtime while other goroutines keep invoking it. Callers
// must re-read the slot with Load before each invocation rather than caching
// the result, otherwise a concurrent swap is not observed.
//
// The zero value is an empty slot.
type Slot[T any] struct {
	value atomic.Pointer[T]
}

// Load returns the current occupant of the slot, or nil if empty.
func (s *Slot[T]) Load() *T {
	return s.value.Load()
}

// Store unconditionally replaces the occupant of the slot.
func (s *Slot[T]) Store(value *T) {
	s.value.Store(value)
}

// Swap replaces the occupant of the slot and returns the previous occupant.
func (s *Slot[T]) Swap(value *T) *T {
	return s.value.Swap(value)
}

// CompareAndSwap replaces the occupant of the slot with new only if it
// currently is old, returning whether the replacement took place. Under
// contention exactly one of the competing callers with the same old value
// succeeds.
func (s *Slot[T]) CompareAndSwap(old, new *T) bool {
	return s.value.CompareAndSwap(old, new)
}
