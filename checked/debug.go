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
	"bytes"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/bronze1man/strongswan/resource"
)

const (
	defaultTraceback         = false
	defaultTracebackCycles   = 3
	defaultTracebackMaxDepth = 64
)

var (
	traceback         = defaultTraceback
	tracebackCycles   = defaultTracebackCycles
	tracebackMaxDepth = defaultTracebackMaxDepth

	callersPool = sync.Pool{New: func() interface{} {
		return make([]uintptr, tracebackMaxDepth)
	}}
	recordPool = sync.Pool{New: func() interface{} {
		return &traceRecord{}
	}}

	panicFn = defaultPanic
)

// PanicFn is a panic function to call on invalid checked state.
type PanicFn func(e error)

// SetPanicFn sets the panic function.
func SetPanicFn(fn PanicFn) {
	panicFn = fn
}

// Panic will execute the currently set panic function.
func Panic(e error) {
	panicFn(e)
}

// ResetPanicFn resets the panic function to the default runtime panic.
func ResetPanicFn() {
	panicFn = defaultPanic
}

func defaultPanic(e error) {
	panic(e)
}

// SetTraceback sets whether to record lifecycle events for traceback.
func SetTraceback(value bool) {
	traceback = value
}

// SetTracebackCycles sets the count of lifecycles to keep records for
// if traceback recording is enabled.
func SetTracebackCycles(value int) {
	tracebackCycles = value
}

// SetTracebackMaxDepth sets the max amount of frames to capture per record.
func SetTracebackMaxDepth(frames int) {
	tracebackMaxDepth = frames
}

func panicRef(c *RefCount, err error) {
	if traceback {
		err = fmt.Errorf("%v, traceback:\n\n%s", err, tracerFor(c).String())
	}
	panicFn(err)
}

type tracedEvent int

const (
	incRefEvent tracedEvent = iota
	decRefEvent
	moveRefEvent
	finalizeEvent
	incReadsEvent
	decReadsEvent
	incWritesEvent
	decWritesEvent
)

func (e tracedEvent) String() string {
	switch e {
	case incRefEvent:
		return "IncRef"
	case decRefEvent:
		return "DecRef"
	case moveRefEvent:
		return "MoveRef"
	case finalizeEvent:
		return "Finalize"
	case incReadsEvent:
		return "IncReads"
	case decReadsEvent:
		return "DecReads"
	case incWritesEvent:
		return "IncWrites"
	case decWritesEvent:
		return "DecWrites"
	}
	return "Unknown"
}

type traceRecord struct {
	event tracedEvent
	ref   int
	pc    []uintptr
	t     time.Time
}

func (r *traceRecord) String() string {
	buf := bytes.NewBuffer(nil)
	frames := runtime.CallersFrames(r.pc)
	for {
		frame, more := frames.Next()
		fmt.Fprintf(buf, "%s(...)\n\t%s:%d +%x\n",
			frame.Function, frame.File, frame.Line, frame.Entry)
		if !more {
			break
		}
	}
	return fmt.Sprintf("%s, ref=%d, unixnanos=%d:\n%s\n",
		r.event.String(), r.ref, r.t.UnixNano(), buf.String())
}

// tracer keeps per-lifecycle records of count events, a lifecycle ends at a
// finalize event. It wraps the object's finalizer so it lives and dies with
// the object it traces.
type tracer struct {
	sync.Mutex
	cycles    [][]*traceRecord
	finalizer resource.Finalizer
}

func (d *tracer) Finalize() {
	if d.finalizer != nil {
		d.finalizer.Finalize()
	}
}

func (d *tracer) append(event tracedEvent, ref int, pc []uintptr) {
	d.Lock()
	if len(d.cycles) == 0 {
		d.cycles = make([][]*traceRecord, 1, tracebackCycles)
	}
	idx := len(d.cycles) - 1
	record := recordPool.Get().(*traceRecord)
	record.event = event
	record.ref = ref
	record.pc = pc
	record.t = time.Now()
	d.cycles[idx] = append(d.cycles[idx], record)
	if event == finalizeEvent {
		// SetTracebackCycles may change between lifecycles, compare against
		// the live setting rather than the capacity at first append.
		if len(d.cycles) >= tracebackCycles {
			// At capacity, evict the oldest lifecycle and reuse its slice
			evicted := d.cycles[0]
			for i, record := range evicted {
				callersPool.Put(record.pc)
				record.pc = nil
				recordPool.Put(record)
				evicted[i] = nil
			}
			copy(d.cycles, d.cycles[1:])
			d.cycles[len(d.cycles)-1] = evicted[:0]
		} else {
			d.cycles = append(d.cycles, nil)
		}
	}
	d.Unlock()
}

func (d *tracer) String() string {
	buffer := bytes.NewBuffer(nil)
	d.Lock()
	// Emit records time descending
	for i := len(d.cycles) - 1; i >= 0; i-- {
		for j := len(d.cycles[i]) - 1; j >= 0; j-- {
			buffer.WriteString(d.cycles[i][j].String())
		}
	}
	d.Unlock()
	return buffer.String()
}

func tracerFor(c *RefCount) *tracer {
	// Note: swapping in the tracer without a CAS on the finalizer slot is
	// racy, two goroutines may both wrap the finalizer. This is a debugging
	// facility only and such races surface when inspecting the tracebacks.
	finalizer := c.Finalizer()
	if finalizer == nil {
		d := &tracer{}
		c.SetFinalizer(d)
		return d
	}
	if d, ok := finalizer.(*tracer); ok {
		return d
	}
	d := &tracer{finalizer: finalizer}
	c.SetFinalizer(d)
	return d
}

func tracebackEvent(c *RefCount, ref int, e tracedEvent) {
	d := tracerFor(c)
	depth := tracebackMaxDepth
	pc := callersPool.Get().([]uintptr)
	if cap(pc) < depth {
		// Max depth may have grown since the slice was pooled
		pc = make([]uintptr, depth)
	}
	pc = pc[:depth]
	skipEntry := 2
	n := runtime.Callers(skipEntry, pc)
	d.append(e, ref, pc[:n])
}
