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
	"testing"
	"time"

	"github.com/bronze1man/strongswan/resource"

	"github.com/fortytw2/leaktest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/atomic"
)

// releaseProbe counts disposals so tests can observe when and how often a
// scope ran its finalizers.
type releaseProbe struct {
	released atomic.Int32
	signal   chan struct{}
}

func newReleaseProbe() *releaseProbe {
	return &releaseProbe{signal: make(chan struct{}, 16)}
}

func (p *releaseProbe) Finalize() {
	p.released.Inc()
	p.signal <- struct{}{}
}

func (p *releaseProbe) wait(t *testing.T) {
	select {
	case <-p.signal:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for finalizer")
	}
}

func TestContextRunsFinalizersOnClose(t *testing.T) {
	defer leaktest.Check(t)()

	probe := newReleaseProbe()
	c := NewContext().(*scope)
	c.RegisterFinalizer(probe)
	require.Equal(t, 1, len(c.finalizers))

	c.Close()
	probe.wait(t)

	assert.Equal(t, int32(1), probe.released.Load())
	assert.True(t, c.IsClosed())
}

func TestContextDropsFinalizerAfterClose(t *testing.T) {
	c := NewContext().(*scope)
	c.Close()

	c.RegisterFinalizer(resource.FinalizerFn(func() {}))
	assert.Equal(t, 0, len(c.finalizers))
}

func TestContextCloseIsIdempotent(t *testing.T) {
	defer leaktest.Check(t)()

	probe := newReleaseProbe()
	c := NewContext()
	c.RegisterFinalizer(probe)

	c.Close()
	c.Close()
	probe.wait(t)

	// Give a duplicate run time to surface.
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(1), probe.released.Load())
}

func TestContextBlockingCloseRunsInline(t *testing.T) {
	probe := newReleaseProbe()
	c := NewContext()
	c.RegisterFinalizer(probe)

	// Finalizers have run by the time the call returns.
	c.BlockingClose()
	assert.Equal(t, int32(1), probe.released.Load())
	assert.True(t, c.IsClosed())
}

func TestContextDependsOnAllocatesNoFinalizers(t *testing.T) {
	c := NewContext().(*scope)
	c.DependsOn(NewContext())
	assert.Nil(t, c.finalizers)
	assert.Equal(t, 1, c.blockers)
}

func TestContextDependsOnDefersFinalizers(t *testing.T) {
	defer leaktest.Check(t)()

	c := NewContext().(*scope)
	assertDependsOnDefers(t, c)

	// A reset scope honors fresh dependencies again.
	c.Reset()
	assertDependsOnDefers(t, c)
}

func assertDependsOnDefers(t *testing.T, c *scope) {
	var (
		probe   = newReleaseProbe()
		blocker = NewContext()
	)

	c.RegisterFinalizer(probe)
	c.DependsOn(blocker)
	c.Close()

	// Closed but the blocker is still open, finalizers must not run.
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(0), probe.released.Load())

	blocker.Close()
	probe.wait(t)
	assert.Equal(t, int32(1), probe.released.Load())
}

func TestContextDependsOnWithoutFinalizersWaits(t *testing.T) {
	defer leaktest.Check(t)()

	p := newTestPool().(*contextsPool)

	dependent := p.Get().(*scope)
	blocker := NewContext()

	// No finalizers registered, only a dependency.
	dependent.DependsOn(blocker)
	dependent.Close()

	// The scope must not recycle while its blocker is open, otherwise the
	// blocker later finalizes a scope some other caller already took from
	// the pool.
	time.Sleep(50 * time.Millisecond)
	assert.True(t, p.Get().(*scope) != dependent)

	blocker.Close()
	waitForCondition(t, func() bool {
		return p.Get().(*scope) == dependent
	})
}

func waitForCondition(t *testing.T, fn func() bool) {
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if fn() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("timed out waiting for condition")
}
