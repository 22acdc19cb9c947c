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
	"sort"

	"github.com/bronze1man/strongswan/checked"
)

type checkedBytesPool struct {
	sizesAsc            []Bucket
	maxBucketCapacity   int
	opts                ObjectPoolOptions
	newBackingBytesPool NewBytesPoolFn
	bytesPool           BytesPool
	pool                BucketizedObjectPool
}

// NewCheckedBytesPool creates a bytes pool that returns checked reference
// counted byte slices. Buffers no larger than the largest bucket round trip
// through bucket pools on finalize, larger buffers recycle their backing
// array into the backing bytes pool instead.
func NewCheckedBytesPool(
	sizes []Bucket,
	opts ObjectPoolOptions,
	newBackingBytesPool NewBytesPoolFn,
) CheckedBytesPool {
	if opts == nil {
		opts = NewObjectPoolOptions()
	}

	sizesAsc := make([]Bucket, len(sizes))
	copy(sizesAsc, sizes)
	sort.Sort(BucketByCapacity(sizesAsc))

	var maxBucketCapacity int
	if len(sizesAsc) != 0 {
		maxBucketCapacity = sizesAsc[len(sizesAsc)-1].Capacity
	}

	return &checkedBytesPool{
		sizesAsc:            sizesAsc,
		maxBucketCapacity:   maxBucketCapacity,
		opts:                opts,
		newBackingBytesPool: newBackingBytesPool,
	}
}

func (p *checkedBytesPool) Init() {
	p.bytesPool = p.newBackingBytesPool(p.sizesAsc)
	p.bytesPool.Init()

	p.pool = NewBucketizedObjectPool(p.sizesAsc, p.opts)
	p.pool.Init(func(capacity int) interface{} {
		return p.newPooledBytes(capacity)
	})
}

func (p *checkedBytesPool) Get(capacity int) checked.Bytes {
	if capacity <= p.maxBucketCapacity {
		return p.pool.Get(capacity).(checked.Bytes)
	}
	return p.newOverflowBytes(capacity)
}

func (p *checkedBytesPool) BytesPool() BytesPool {
	return p.bytesPool
}

// newPooledBytes wires a finalizer that resets the buffer and returns the
// whole checked entity to its bucket, the backing array survives pool round
// trips untouched.
func (p *checkedBytesPool) newPooledBytes(capacity int) checked.Bytes {
	finalizer := checked.BytesFinalizerFn(func(b checked.Bytes) {
		b.IncRef()
		b.Resize(0)
		b.DecRef()
		p.pool.Put(b, capacity)
	})

	value := make([]byte, 0, capacity)
	opts := checked.NewBytesOptions().SetFinalizer(finalizer)
	return checked.NewBytes(value, opts)
}

// newOverflowBytes wraps a slice from the backing bytes pool, the wrapper is
// garbage collected on finalize and only the slice is recycled.
func (p *checkedBytesPool) newOverflowBytes(capacity int) checked.Bytes {
	finalizer := checked.BytesFinalizerFn(func(b checked.Bytes) {
		b.IncRef()
		value := b.Bytes()
		b.DecRef()
		p.bytesPool.Put(value)
	})

	opts := checked.NewBytesOptions().SetFinalizer(finalizer)
	return checked.NewBytes(p.bytesPool.Get(capacity), opts)
}

// AppendByteChecked appends a byte to a checked byte slice, getting a new
// slice from the pool if the current slice is at capacity. The returned
// swapped flag signals that the caller must release its reference to the
// given slice and take a reference to the returned one.
func AppendByteChecked(
	bytes checked.Bytes,
	b byte,
	pool CheckedBytesPool,
) (checked.Bytes, bool) {
	if bytes.Len() < bytes.Cap() {
		bytes.Append(b)
		return bytes, false
	}

	newBytes := pool.Get(2 * bytes.Cap())
	newBytes.IncRef()
	newBytes.AppendAll(bytes.Bytes())
	newBytes.Append(b)
	newBytes.DecRef()
	return newBytes, true
}
