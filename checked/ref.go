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

	"github.com/bronze1man/strongswan/resource"

	"go.uber.org/atomic"
)

// RefCount is an embeddable checked reference count. A concrete type embeds
// it as a field, the single allocation then satisfies Ref, Read or ReadWrite
// next to the type's own interfaces and every view shares the one count.
//
// The zero value is a valid reference count at rest with zero references,
// owners call IncRef before use. The finalizer lives in an atomically
// swappable slot so disposal behavior may be replaced while references are
// outstanding.
//
// Lifecycle: the DecRef call that observes the zero transition returns true
// and that caller, and only that caller, runs Finalize. Calling any other
// operation on the entity after that point is a use after free that this
// type cannot detect beyond the panics below.
type RefCount struct {
	refs      atomic.Int32
	reads     atomic.Int32
	writes    atomic.Int32
	finalizer resource.Slot[resource.Finalizer]
}

// IncRef increments the reference count.
func (c *RefCount) IncRef() {
	n := c.refs.Inc()
	if traceback {
		tracebackEvent(c, int(n), incRefEvent)
	}
	if n > 0 {
		return
	}
	panicRef(c, fmt.Errorf("inc ref on invalid ref count: %d", n))
}

// DecRef decrements the reference count, returning true if the caller
// released the last reference and must call Finalize.
func (c *RefCount) DecRef() bool {
	n := c.refs.Dec()
	if traceback {
		tracebackEvent(c, int(n), decRefEvent)
	}
	if n < 0 {
		panicRef(c, fmt.Errorf("dec ref below zero: %d", n))
	}
	return n == 0
}

// MoveRef signals a reference transfer between owners, the count does not
// change. It exists so that traceback recording can capture the handover.
func (c *RefCount) MoveRef() {
	if traceback {
		tracebackEvent(c, c.NumRef(), moveRefEvent)
	}
}

// NumRef returns the current reference count, advisory only.
func (c *RefCount) NumRef() int {
	return int(c.refs.Load())
}

// Finalize calls the finalizer if set. It must only be called by the owner
// whose DecRef returned true.
func (c *RefCount) Finalize() {
	if traceback {
		tracebackEvent(c, c.NumRef(), finalizeEvent)
	}
	if n := c.NumRef(); n != 0 {
		panicRef(c, fmt.Errorf("finalize before zero ref count: %d", n))
	}
	if f := c.Finalizer(); f != nil {
		f.Finalize()
	}
}

// Finalizer returns the finalizer if any or nil otherwise.
func (c *RefCount) Finalizer() resource.Finalizer {
	if f := c.finalizer.Load(); f != nil {
		return *f
	}
	return nil
}

// SetFinalizer sets the finalizer.
func (c *RefCount) SetFinalizer(f resource.Finalizer) {
	c.finalizer.Store(&f)
}

// IncReads increments the active reads count.
func (c *RefCount) IncReads() {
	if !traceback {
		return
	}
	n := c.reads.Inc()
	tracebackEvent(c, c.NumRef(), incReadsEvent)
	if refs := c.NumRef(); refs < 1 {
		panicRef(c, fmt.Errorf("read after free: reads=%d, ref=%d", n, refs))
	}
}

// DecReads decrements the active reads count.
func (c *RefCount) DecReads() {
	if !traceback {
		return
	}
	n := c.reads.Dec()
	tracebackEvent(c, c.NumRef(), decReadsEvent)
	if refs := c.NumRef(); refs < 1 {
		panicRef(c, fmt.Errorf("read finish after free: reads=%d, ref=%d", n, refs))
	}
}

// NumReads returns the active reads count, zero unless traceback recording
// is enabled.
func (c *RefCount) NumReads() int {
	return int(c.reads.Load())
}

// IncWrites increments the active writes count.
func (c *RefCount) IncWrites() {
	if !traceback {
		return
	}
	n := c.writes.Inc()
	tracebackEvent(c, c.NumRef(), incWritesEvent)
	if refs := c.NumRef(); refs < 1 {
		panicRef(c, fmt.Errorf("write after free: writes=%d, ref=%d", n, refs))
	}
}

// DecWrites decrements the active writes count.
func (c *RefCount) DecWrites() {
	if !traceback {
		return
	}
	n := c.writes.Dec()
	tracebackEvent(c, c.NumRef(), decWritesEvent)
	if refs := c.NumRef(); refs < 1 {
		panicRef(c, fmt.Errorf("write finish after free: writes=%d, ref=%d", n, refs))
	}
}

// NumWrites returns the active writes count, zero unless traceback recording
// is enabled.
func (c *RefCount) NumWrites() int {
	return int(c.writes.Load())
}
