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

// Package checked implements reference counted resources. A single concrete
// struct embeds a RefCount and thereby satisfies the Ref interface alongside
// any number of type specific interfaces, so one allocation answers to all of
// its views and carries one shared count that decides disposal.
package checked

import (
	"github.com/bronze1man/strongswan/resource"
)

// Ref is an entity that checks reference counts.
type Ref interface {
	// IncRef increments the reference count to this entity.
	IncRef()

	// DecRef decrements the reference count to this entity and returns
	// whether the caller released the last reference and consequently
	// must finalize the entity.
	DecRef() bool

	// MoveRef signals a transfer of the current reference to another
	// owner without changing the reference count.
	MoveRef()

	// NumRef returns the reference count to this entity. The value is
	// advisory only, it may change the moment it is returned and must
	// never be used to decide disposal.
	NumRef() int

	// Finalize will call the finalizer if any, it must only be called
	// after the last reference is released.
	Finalize()

	// Finalizer returns the finalizer if any or nil otherwise.
	Finalizer() resource.Finalizer

	// SetFinalizer sets the finalizer.
	SetFinalizer(f resource.Finalizer)
}

// Read is an entity that checks reads. The reads count is maintained only
// when traceback recording is enabled, otherwise these operations are no-ops.
type Read interface {
	Ref

	// IncReads increments the reads count to this entity when traceback
	// recording is enabled.
	IncReads()

	// DecReads decrements the reads count to this entity when traceback
	// recording is enabled.
	DecReads()

	// NumReads returns the active reads count to this entity, advisory
	// and zero unless traceback recording is enabled.
	NumReads() int
}

// ReadWrite is an entity that checks reads and writes, subject to the same
// traceback gating as Read.
type ReadWrite interface {
	Read

	// IncWrites increments the writes count to this entity when traceback
	// recording is enabled.
	IncWrites()

	// DecWrites decrements the writes count to this entity when traceback
	// recording is enabled.
	DecWrites()

	// NumWrites returns the active writes count to this entity, advisory
	// and zero unless traceback recording is enabled.
	NumWrites() int
}

// Bytes is a checked byte slice.
type Bytes interface {
	ReadWrite

	// Bytes returns the current byte slice.
	Bytes() []byte

	// Cap returns the capacity of the byte slice.
	Cap() int

	// Len returns the length of the byte slice.
	Len() int

	// Resize will resize the byte slice without altering its contents.
	Resize(size int)

	// Append will append a single byte to the byte slice.
	Append(value byte)

	// AppendAll will append a byte slice to the byte slice.
	AppendAll(values []byte)

	// Reset will reset the reference of the byte slice.
	Reset(v []byte)
}

// BytesFinalizer finalizes a checked byte slice.
type BytesFinalizer interface {
	FinalizeBytes(b Bytes)
}

// BytesFinalizerFn is a function literal that is a bytes finalizer.
type BytesFinalizerFn func(b Bytes)

// FinalizeBytes will call the function literal as a bytes finalizer.
func (fn BytesFinalizerFn) FinalizeBytes(b Bytes) {
	fn(b)
}

// BytesOptions is a bytes option.
type BytesOptions interface {
	// Finalizer is a bytes finalizer to call when finalized.
	Finalizer() BytesFinalizer

	// SetFinalizer sets a bytes finalizer to call when finalized.
	SetFinalizer(value BytesFinalizer) BytesOptions
}
