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
	"github.com/bronze1man/strongswan/resource"
)

// bytesRef is a checked byte slice, a single allocation that answers to the
// Bytes, ReadWrite and Ref views through its embedded reference count.
type bytesRef struct {
	RefCount

	opts  BytesOptions
	value []byte
}

// NewBytes returns a new checked byte slice. The returned entity rests at
// zero references, callers IncRef before use. When the last reference is
// released and the entity finalized, the finalizer from the options is
// passed the byte slice to release or recycle its backing array.
func NewBytes(value []byte, opts BytesOptions) Bytes {
	if opts == nil {
		opts = defaultBytesOptions
	}
	b := &bytesRef{
		opts:  opts,
		value: value,
	}
	b.SetFinalizer(resource.FinalizerFn(b.finalize))
	return b
}

func (b *bytesRef) finalize() {
	if f := b.opts.Finalizer(); f != nil {
		f.FinalizeBytes(b)
	}
}

func (b *bytesRef) Bytes() []byte {
	b.IncReads()
	value := b.value
	b.DecReads()
	return value
}

func (b *bytesRef) Cap() int {
	b.IncReads()
	value := cap(b.value)
	b.DecReads()
	return value
}

func (b *bytesRef) Len() int {
	b.IncReads()
	value := len(b.value)
	b.DecReads()
	return value
}

func (b *bytesRef) Resize(size int) {
	b.IncWrites()
	b.value = b.value[:size]
	b.DecWrites()
}

func (b *bytesRef) Append(value byte) {
	b.IncWrites()
	b.value = append(b.value, value)
	b.DecWrites()
}

func (b *bytesRef) AppendAll(values []byte) {
	b.IncWrites()
	b.value = append(b.value, values...)
	b.DecWrites()
}

func (b *bytesRef) Reset(v []byte) {
	b.IncWrites()
	b.value = v
	b.DecWrites()
}

var defaultBytesOptions = NewBytesOptions()

type bytesOptions struct {
	finalizer BytesFinalizer
}

// NewBytesOptions returns a new set of bytes options.
func NewBytesOptions() BytesOptions {
	return &bytesOptions{}
}

func (o *bytesOptions) Finalizer() BytesFinalizer {
	return o.finalizer
}

func (o *bytesOptions) SetFinalizer(value BytesFinalizer) BytesOptions {
	opts := *o
	opts.finalizer = value
	return &opts
}
