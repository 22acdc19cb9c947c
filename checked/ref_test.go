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
	"sync"
	"testing"

	"github.com/bronze1man/strongswan/resource"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/atomic"
)

// opaqueHandle is a zero interface capability object, it carries only the
// reference count and private state accessed through type specific methods.
type opaqueHandle struct {
	RefCount

	value int
}

func TestRefCountLifecycle(t *testing.T) {
	finalized := 0

	h := &opaqueHandle{value: 42}
	h.SetFinalizer(resource.FinalizerFn(func() {
		finalized++
	}))

	h.IncRef()
	assert.Equal(t, 1, h.NumRef())

	h.IncRef()
	assert.False(t, h.DecRef())
	assert.Equal(t, 0, finalized)

	last := h.DecRef()
	require.True(t, last)
	h.Finalize()
	assert.Equal(t, 1, finalized)
	assert.Equal(t, 42, h.value)
}

func TestRefCountSatisfiesRefView(t *testing.T) {
	// The concrete handle and its Ref view are the same allocation.
	h := &opaqueHandle{}
	var ref Ref = h
	ref.IncRef()
	assert.Equal(t, 1, h.NumRef())
	assert.True(t, ref.DecRef())
}

func TestRefCountFinalizerSwap(t *testing.T) {
	var (
		elem  RefCount
		first = resource.FinalizerFn(func() {})
	)

	assert.Nil(t, elem.Finalizer())

	elem.SetFinalizer(first)
	assert.NotNil(t, elem.Finalizer())

	calledSecond := false
	elem.SetFinalizer(resource.FinalizerFn(func() {
		calledSecond = true
	}))

	elem.Finalize()
	assert.True(t, calledSecond)
}

func TestRefCountFinalizeWithoutFinalizer(t *testing.T) {
	var elem RefCount
	elem.IncRef()
	require.True(t, elem.DecRef())
	assert.NotPanics(t, func() {
		elem.Finalize()
	})
}

func TestRefCountMoveRefKeepsCount(t *testing.T) {
	var elem RefCount
	elem.IncRef()
	elem.MoveRef()
	assert.Equal(t, 1, elem.NumRef())
	assert.True(t, elem.DecRef())
}

func TestRefCountDecRefBelowZero(t *testing.T) {
	var err error
	SetPanicFn(func(e error) {
		err = e
	})
	defer ResetPanicFn()

	var elem RefCount
	elem.DecRef()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "below zero")
}

func TestRefCountFinalizeBeforeZero(t *testing.T) {
	var err error
	SetPanicFn(func(e error) {
		err = e
	})
	defer ResetPanicFn()

	var elem RefCount
	elem.IncRef()
	elem.Finalize()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "finalize before zero")
}

func TestRefCountExactlyOneFinalize(t *testing.T) {
	const holders = 9

	var (
		elem      opaqueHandle
		finalized atomic.Int32
	)
	elem.SetFinalizer(resource.FinalizerFn(func() {
		finalized.Inc()
	}))

	for i := 0; i < holders; i++ {
		elem.IncRef()
	}

	var wg sync.WaitGroup
	wg.Add(holders)
	for i := 0; i < holders; i++ {
		go func() {
			if elem.DecRef() {
				elem.Finalize()
			}
			wg.Done()
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), finalized.Load())
	assert.Equal(t, 0, elem.NumRef())
}
