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

	"github.com/bronze1man/strongswan/pool"
	"github.com/bronze1man/strongswan/resource"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPool() Pool {
	opts := pool.NewObjectPoolOptions().SetSize(1)
	return NewPool(opts, opts)
}

func TestPoolGetReturnsUsableContext(t *testing.T) {
	p := newTestPool()

	ctx := p.Get()
	require.NotNil(t, ctx)
	assert.False(t, ctx.IsClosed())

	closed := false
	ctx.RegisterFinalizer(resource.FinalizerFn(func() {
		closed = true
	}))
	ctx.BlockingClose()
	assert.True(t, closed)
}

func TestPooledContextRecycledOnClose(t *testing.T) {
	p := newTestPool().(*contextsPool)

	first := p.Get().(*scope)
	first.BlockingClose()

	// BlockingClose resets the scope and hands it back to the pool.
	second := p.Get().(*scope)
	assert.Same(t, first, second)
	assert.False(t, second.IsClosed())
}

func TestPooledFinalizerSlicesRecycled(t *testing.T) {
	p := newTestPool().(*contextsPool)

	finalizers := p.GetFinalizers()
	assert.Equal(t, 0, len(finalizers))

	finalizers = append(finalizers, resource.FinalizerFn(func() {}))
	p.PutFinalizers(finalizers)

	recycled := p.GetFinalizers()
	assert.Equal(t, 0, len(recycled))
	assert.True(t, cap(recycled) > 0)
}

func TestPoolDropsOversizedFinalizerSlices(t *testing.T) {
	p := newTestPool().(*contextsPool)

	big := make([]resource.Finalizer, 0, 2*initialFinalizersCapacity)
	p.PutFinalizers(big)

	// The oversized slice was left for collection, the pool hands out a
	// fresh slice at the initial capacity.
	got := p.GetFinalizers()
	assert.Equal(t, initialFinalizersCapacity, cap(got))
}
