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

package checked

import (
	"fmt"

	"go.uber.org/atomic"
)

// Counter is an atomic reference count. It tracks the number of live owners
// of a shared resource and reports the single moment at which the last owner
// releases, so that exactly one goroutine runs disposal.
//
// Go atomics are sequentially consistent, which is stronger than the
// relaxed increment and acquire-release decrement the counting discipline
// requires: a goroutine that observes the zero transition from DecRef is
// guaranteed to observe every write made by every owner that released
// before it.
//
// All operations are non-blocking and total, the only failure mode is
// caller misuse which trips the package panic hook.
type Counter struct {
	refs atomic.Int32
}

// NewCounter returns a counter initialized to one, the creator holds the
// first reference.
func NewCounter() *Counter {
	c := &Counter{}
	c.refs.Store(1)
	return c
}

// IncRef acquires a reference and returns the new count, which is
// informational only. The caller must already hold a valid reference
// obtained from construction or handed over through some synchronized
// channel, incrementing from an observed zero is a bug.
func (c *Counter) IncRef() int {
	n := c.refs.Inc()
	if n <= 0 {
		Panic(fmt.Errorf("checked.Counter ref inc to non-positive: %d", n))
	}
	return int(n)
}

// TryIncRef acquires a reference only if the counter is still live,
// returning whether a reference was acquired. Unlike IncRef it may be called
// by a goroutine that does not hold a reference of its own, it refuses to
// resurrect a counter that already reached zero.
func (c *Counter) TryIncRef() bool {
	for {
		n := c.refs.Load()
		if n <= 0 {
			return false
		}
		if c.refs.CAS(n, n+1) {
			return true
		}
	}
}

// DecRef releases a reference, returning true if the caller released the
// last reference and must now destroy the counted resource. Exactly one
// DecRef call across all goroutines observes true for a given counter.
func (c *Counter) DecRef() bool {
	n := c.refs.Dec()
	if n < 0 {
		Panic(fmt.Errorf("checked.Counter ref dec below zero: %d", n))
	}
	return n == 0
}

// NumRef returns the current count. The value is advisory, it may change
// immediately after the load and must never be used to decide disposal.
func (c *Counter) NumRef() int {
	return int(c.refs.Load())
}

// CompareAndSwapRef atomically replaces the count with new if it currently
// equals expected, returning whether the replacement took place. It exists
// for building lock-free transitions on top of the counter, under
// contention exactly one of the competing callers with the same expected
// value succeeds.
func (c *Counter) CompareAndSwapRef(expected, new int) bool {
	return c.refs.CAS(int32(expected), int32(new))
}
