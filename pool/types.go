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

// Package pool provides pools for objects and byte slices, including pools
// of checked reference counted byte slices.
package pool

import (
	"github.com/bronze1man/strongswan/checked"
	"github.com/bronze1man/strongswan/instrument"
)

// Allocator allocates an object for a pool.
type Allocator func() interface{}

// BucketizedAllocator allocates an object for a bucket given its capacity.
type BucketizedAllocator func(capacity int) interface{}

// ObjectPool provides a pool for objects.
type ObjectPool interface {
	// Init initializes the pool.
	Init(alloc Allocator)

	// Get provides an object from the pool.
	Get() interface{}

	// Put returns an object to the pool.
	Put(obj interface{})
}

// BucketizedObjectPool provides a bucketized pool of objects.
type BucketizedObjectPool interface {
	// Init initializes the pool.
	Init(alloc BucketizedAllocator)

	// Get provides an object from the pool big enough for the capacity.
	Get(capacity int) interface{}

	// Put returns an object to the pool given the capacity it was
	// retrieved with.
	Put(obj interface{}, capacity int)
}

// BytesPool provides a pool for variable size buffers.
type BytesPool interface {
	// Init initializes the pool.
	Init()

	// Get provides a buffer from the pool.
	Get(capacity int) []byte

	// Put returns a buffer to the pool.
	Put(buffer []byte)
}

// CheckedBytesPool provides a checked bytes pool. Byte slices from the pool
// are reference counted, the last owner to release its reference finalizes
// the slice which recycles the backing array into the pool.
type CheckedBytesPool interface {
	// Init initializes the pool.
	Init()

	// Get provides a checked buffer from the pool, it rests at zero
	// references and callers must IncRef before use.
	Get(capacity int) checked.Bytes

	// BytesPool returns the underlying bytes pool used by checked
	// buffers larger than the largest bucket.
	BytesPool() BytesPool
}

// NewBytesPoolFn constructs the backing bytes pool of a checked bytes pool.
type NewBytesPoolFn func(sizes []Bucket) BytesPool

// Bucket specifies a pool bucket.
type Bucket struct {
	// Capacity is the size of each element in the bucket.
	Capacity int

	// Count is the number of fixed elements in the bucket.
	Count int
}

// BucketByCapacity is a sortable collection of pool buckets.
type BucketByCapacity []Bucket

func (x BucketByCapacity) Len() int {
	return len(x)
}

func (x BucketByCapacity) Swap(i, j int) {
	x[i], x[j] = x[j], x[i]
}

func (x BucketByCapacity) Less(i, j int) bool {
	return x[i].Capacity < x[j].Capacity
}

// ObjectPoolOptions provides options for an object pool.
type ObjectPoolOptions interface {
	// SetSize sets the size of the object pool.
	SetSize(value int) ObjectPoolOptions

	// Size returns the size of the object pool.
	Size() int

	// SetRefillLowWatermark sets the refill low watermark of the pool as a
	// fraction of the pool size, if zero refilling is disabled.
	SetRefillLowWatermark(value float64) ObjectPoolOptions

	// RefillLowWatermark returns the refill low watermark of the pool.
	RefillLowWatermark() float64

	// SetRefillHighWatermark sets the refill high watermark of the pool as
	// a fraction of the pool size, if zero refilling is disabled.
	SetRefillHighWatermark(value float64) ObjectPoolOptions

	// RefillHighWatermark returns the refill high watermark of the pool.
	RefillHighWatermark() float64

	// SetInstrumentOptions sets the instrument options.
	SetInstrumentOptions(value instrument.Options) ObjectPoolOptions

	// InstrumentOptions returns the instrument options.
	InstrumentOptions() instrument.Options
}
