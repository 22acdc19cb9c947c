// Copyright (c) 2018 Uber Technologies, Inc.
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

package context

import (
	"sync"

	"github.com/bronze1man/strongswan/resource"
)

// scope is the concrete Context. A scope may be standalone or owned by a
// pool, pooled scopes draw their finalizer slices from the pool and return
// themselves to it once fully closed.
type scope struct {
	mu         sync.RWMutex
	pool       contextPool
	closed     bool
	blockers   int
	blockersWg sync.WaitGroup
	finalizers []resource.Finalizer
}

// NewContext creates a new context.
func NewContext() Context {
	return new(scope)
}

func newPooledContext(pool contextPool) Context {
	return &scope{pool: pool}
}

func (c *scope) IsClosed() bool {
	c.mu.RLock()
	closed := c.closed
	c.mu.RUnlock()
	return closed
}

func (c *scope) RegisterFinalizer(f resource.Finalizer) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}

	if c.finalizers == nil {
		if c.pool != nil {
			c.finalizers = c.pool.GetFinalizers()
		} else {
			c.finalizers = make([]resource.Finalizer, 0, initialFinalizersCapacity)
		}
	}
	c.finalizers = append(c.finalizers, f)
}

// DependsOn defers this scope's finalizers until the blocker closes. The
// blocker signals by finalizing this scope as one of its own finalizers.
func (c *scope) DependsOn(blocker Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}

	c.blockers++
	c.blockersWg.Add(1)
	blocker.RegisterFinalizer(c)
}

// Finalize handles a blocker this scope depends on having closed.
func (c *scope) Finalize() {
	c.blockersWg.Done()
}

func (c *scope) Close() {
	c.shutdown(false)
}

func (c *scope) BlockingClose() {
	c.shutdown(true)
}

func (c *scope) shutdown(block bool) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true

	// A scope with no finalizers may still have blockers outstanding, it
	// must not recycle until every blocker has signalled.
	idle := len(c.finalizers) == 0 && c.blockers == 0
	c.mu.Unlock()

	if idle {
		c.recycle()
		return
	}

	if block {
		c.runFinalizers()
		return
	}
	go c.runFinalizers()
}

func (c *scope) runFinalizers() {
	c.blockersWg.Wait()

	for _, f := range c.finalizers {
		f.Finalize()
	}

	c.recycle()
}

func (c *scope) Reset() {
	c.mu.Lock()

	if c.pool != nil && c.finalizers != nil {
		c.pool.PutFinalizers(c.finalizers)
	}
	c.closed = false
	c.blockers = 0
	c.finalizers = nil

	c.mu.Unlock()
}

func (c *scope) recycle() {
	if c.pool == nil {
		return
	}

	c.Reset()
	c.pool.Put(c)
}
