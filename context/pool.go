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
	"github.com/bronze1man/strongswan/pool"
	"github.com/bronze1man/strongswan/resource"
)

// Finalizer slices below this capacity round trip through the pool, larger
// ones are left for collection so a single busy scope cannot pin a large
// array forever.
const initialFinalizersCapacity = 4

// contextsPool pools scopes together with the finalizer slices they fill,
// so steady-state use of pooled contexts does not allocate.
type contextsPool struct {
	contexts   pool.ObjectPool
	finalizers pool.ObjectPool
}

// NewPool creates a new context pool. The first options configure the pool
// of contexts, the second the pool of finalizer slices they draw from.
func NewPool(opts pool.ObjectPoolOptions, finalizerOpts pool.ObjectPoolOptions) Pool {
	p := &contextsPool{
		contexts:   pool.NewObjectPool(opts),
		finalizers: pool.NewObjectPool(finalizerOpts),
	}

	p.contexts.Init(func() interface{} {
		return newPooledContext(p)
	})
	p.finalizers.Init(func() interface{} {
		return make([]resource.Finalizer, 0, initialFinalizersCapacity)
	})

	return p
}

func (p *contextsPool) Get() Context {
	return p.contexts.Get().(Context)
}

func (p *contextsPool) Put(ctx Context) {
	p.contexts.Put(ctx)
}

func (p *contextsPool) GetFinalizers() []resource.Finalizer {
	return p.finalizers.Get().([]resource.Finalizer)
}

func (p *contextsPool) PutFinalizers(finalizers []resource.Finalizer) {
	if cap(finalizers) > initialFinalizersCapacity {
		return
	}

	// Drop the values so pooled slices do not pin finalized resources.
	for i := range finalizers {
		finalizers[i] = nil
	}
	p.finalizers.Put(finalizers[:0])
}
