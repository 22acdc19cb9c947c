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

package pool

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestObjectPoolGetPut(t *testing.T) {
	p := NewObjectPool(NewObjectPoolOptions().SetSize(1))
	p.Init(func() interface{} {
		return 1
	})

	v := p.Get()
	i, ok := v.(int)
	require.True(t, ok)
	assert.Equal(t, 1, i)
	p.Put(v)
}

func TestObjectPoolRefillOnLowWatermark(t *testing.T) {
	defer goleak.VerifyNone(t)

	opts := NewObjectPoolOptions().
		SetSize(100).
		SetRefillLowWatermark(0.25).
		SetRefillHighWatermark(0.75)

	p := NewObjectPool(opts).(*objectPool)
	p.Init(func() interface{} {
		return 1
	})

	for i := 0; i < 75; i++ {
		v := p.Get()
		n, ok := v.(int)
		require.True(t, ok)
		require.Equal(t, 1, n)
	}

	// The background refill must bring the pool back up to the high watermark.
	assert.True(t, waitFor(func() bool {
		return len(p.values) >= p.refillHighWatermark && !p.filling.Load()
	}))
}

func TestObjectPoolGetBeforeInitPanics(t *testing.T) {
	p := NewObjectPool(NewObjectPoolOptions().SetSize(1))
	assert.Panics(t, func() {
		p.Get()
	})
}

func TestObjectPoolPutBeforeInitDropped(t *testing.T) {
	p := NewObjectPool(NewObjectPoolOptions().SetSize(1)).(*objectPool)
	assert.NotPanics(t, func() {
		p.Put(1)
	})
	assert.Equal(t, 0, len(p.values))
}

func TestObjectPoolDoubleInitKeepsFirstAllocator(t *testing.T) {
	p := NewObjectPool(NewObjectPoolOptions().SetSize(1))
	p.Init(func() interface{} {
		return "first"
	})
	assert.NotPanics(t, func() {
		p.Init(func() interface{} {
			return "second"
		})
	})
	assert.Equal(t, "first", p.Get())
}

func TestObjectPoolGetOnEmptyAllocates(t *testing.T) {
	p := NewObjectPool(NewObjectPoolOptions().SetSize(1))
	p.Init(func() interface{} {
		return 1
	})

	// Draining past the pool size falls back to the allocator.
	for i := 0; i < 3; i++ {
		v := p.Get()
		n, ok := v.(int)
		require.True(t, ok)
		assert.Equal(t, 1, n)
	}
}

func TestObjectPoolPutOnFullDiscards(t *testing.T) {
	p := NewObjectPool(NewObjectPoolOptions().SetSize(1)).(*objectPool)
	p.Init(func() interface{} {
		return 1
	})

	p.Put(2)
	assert.Equal(t, 1, len(p.values))
}

func waitFor(fn func() bool) bool {
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if fn() {
			return true
		}
		time.Sleep(10 * time.Millisecond)
	}
	return false
}

func BenchmarkObjectPoolGetPut(b *testing.B) {
	p := NewObjectPool(NewObjectPoolOptions().SetSize(1))
	p.Init(func() interface{} {
		return make([]byte, 0, 16)
	})

	for n := 0; n < b.N; n++ {
		o := p.Get()
		p.Put(o)
	}
}
