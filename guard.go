// Copyright 2017 The Memory Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package galloc

import (
	"bytes"
	"runtime"
	"sync"
)

// Fallback is the allocator reentrant calls are forwarded to: calls that
// arrive while Malloc or Free is already running on the same goroutine,
// typically because something on that call stack — a log write, symbol
// resolution, a GC-triggered callback — itself needs to allocate. Go gives
// a program no reachable analogue of "the next loaded library providing
// malloc", so the default Fallback is backed by the Go runtime's own
// heap; SetFallback lets callers (chiefly tests) swap in something else to
// observe reentry.
type Fallback interface {
	Malloc(size int) ([]byte, error)
	Free([]byte)
}

// goRuntimeFallback satisfies Fallback using ordinary Go allocation. It is
// the default, and the only Fallback implementation this package ships:
// once set, it never needs re-resolving, matching spec.md's "cached after
// first resolution" requirement for symbol lookup trivially, since there
// is nothing left to resolve.
type goRuntimeFallback struct{}

func (goRuntimeFallback) Malloc(size int) ([]byte, error) {
	if size <= 0 {
		return nil, nil
	}
	return make([]byte, size), nil
}

func (goRuntimeFallback) Free([]byte) {}

var (
	fallbackMu sync.Mutex
	fallback   Fallback = goRuntimeFallback{}
)

// SetFallback replaces the allocator used for reentrant calls. Passing nil
// restores the default Go-runtime-backed fallback.
func SetFallback(f Fallback) {
	fallbackMu.Lock()
	defer fallbackMu.Unlock()
	if f == nil {
		f = goRuntimeFallback{}
	}
	fallback = f
}

func currentFallback() Fallback {
	fallbackMu.Lock()
	defer fallbackMu.Unlock()
	return fallback
}

// guardMu and guarded realize spec.md's per-thread reentrancy flag. Go has
// no OS-thread-local storage reachable without cgo, and the reentrancy C6
// guards against is scoped to one call stack rather than one OS thread —
// so a map keyed by goroutine identity stands in for "per-thread" here,
// which is the closest a pure Go program can come. This is recorded as an
// explicit resolution of an open question in DESIGN.md.
var (
	guardMu sync.Mutex
	guarded = map[int64]bool{}
)

// goroutineID extracts the numeric id runtime.Stack prints at the start of
// every goroutine's trace ("goroutine 123 [running]: ..."). It is the only
// goroutine-identity primitive the standard library exposes without cgo
// or linkname tricks.
func goroutineID() int64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	b := bytes.TrimPrefix(buf[:n], []byte("goroutine "))
	if i := bytes.IndexByte(b, ' '); i >= 0 {
		b = b[:i]
	}
	return parseDecimal(b)
}

// parseDecimal reads the decimal digits at the start of b directly,
// without strconv.ParseInt's required string conversion, so goroutineID
// never allocates — harmless here since galloc isn't the process
// allocator, but kept in the same spirit as the event log's
// allocation-free path.
func parseDecimal(b []byte) int64 {
	var id int64
	for _, c := range b {
		if c < '0' || c > '9' {
			break
		}
		id = id*10 + int64(c-'0')
	}
	return id
}

// enterGuard reports whether the calling goroutine is already inside a
// guarded call (true means some outer Malloc/Free/Realloc frame set the
// flag already). It unconditionally leaves the flag set; a caller for
// which enterGuard returned false owns the flag and must clear it with
// exitGuard on every return path, including early ones.
func enterGuard() (reentrant bool) {
	id := goroutineID()
	guardMu.Lock()
	defer guardMu.Unlock()
	reentrant = guarded[id]
	guarded[id] = true
	return reentrant
}

// exitGuard clears the calling goroutine's guard flag. Only the frame that
// received reentrant == false from enterGuard may call this.
func exitGuard() {
	id := goroutineID()
	guardMu.Lock()
	defer guardMu.Unlock()
	delete(guarded, id)
}
