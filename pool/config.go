// Copyright (c) 2017 Uber Technologies, Inc.
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

import "github.com/bronze1man/strongswan/instrument"

// WaterMarkConfiguration sets the refill band of a pool as fractions of its
// size, zero on both ends disables background refilling.
type WaterMarkConfiguration struct {
	RefillLowWaterMark  float64 `yaml:"lowWatermark" validate:"min=0.0,max=1.0"`
	RefillHighWaterMark float64 `yaml:"highWatermark" validate:"min=0.0,max=1.0"`
}

// ObjectPoolConfiguration is the YAML shape of a single object pool.
type ObjectPoolConfiguration struct {
	Size      int                    `yaml:"size"`
	WaterMark WaterMarkConfiguration `yaml:"waterMark"`
}

// NewObjectPoolOptions turns the configuration into pool options, a zero
// size falls back to the package default.
func (c ObjectPoolConfiguration) NewObjectPoolOptions(
	instrumentOpts instrument.Options,
) ObjectPoolOptions {
	opts := NewObjectPoolOptions().
		SetInstrumentOptions(instrumentOpts).
		SetRefillLowWatermark(c.WaterMark.RefillLowWaterMark).
		SetRefillHighWatermark(c.WaterMark.RefillHighWaterMark)
	if c.Size != 0 {
		opts = opts.SetSize(c.Size)
	}
	return opts
}

// BucketConfiguration is the YAML shape of one bucket of a bucketized pool.
type BucketConfiguration struct {
	Count    int `yaml:"count"`
	Capacity int `yaml:"capacity"`
}

// BucketizedPoolConfiguration is the YAML shape of a bucketized pool.
type BucketizedPoolConfiguration struct {
	Buckets   []BucketConfiguration  `yaml:"buckets"`
	WaterMark WaterMarkConfiguration `yaml:"waterMark"`
}

// NewBuckets returns the configured bucket list.
func (c BucketizedPoolConfiguration) NewBuckets() []Bucket {
	buckets := make([]Bucket, 0, len(c.Buckets))
	for _, b := range c.Buckets {
		buckets = append(buckets, Bucket{
			Count:    b.Count,
			Capacity: b.Capacity,
		})
	}
	return buckets
}

// NewObjectPoolOptions turns the configuration into per-bucket pool options,
// bucket counts supply the sizes so none is set here.
func (c BucketizedPoolConfiguration) NewObjectPoolOptions(
	instrumentOpts instrument.Options,
) ObjectPoolOptions {
	return NewObjectPoolOptions().
		SetInstrumentOptions(instrumentOpts).
		SetRefillLowWatermark(c.WaterMark.RefillLowWaterMark).
		SetRefillHighWatermark(c.WaterMark.RefillHighWaterMark)
}
