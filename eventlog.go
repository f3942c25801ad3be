// Copyright 2017 The Memory Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package galloc

import (
	"fmt"
	"strconv"
	"unsafe"
)

// logState holds the single process-wide event log destination. fd is
// invalidLogFD when logging is disabled, which is the zero-cost default:
// every logWriteLine call becomes a single comparison.
var logState struct {
	fd logFD
}

func init() { logState.fd = invalidLogFD }

// InitLog opens path, truncating any existing content, and makes it the
// destination for every event the allocator logs from then on. Passing an
// empty path disables logging, equivalent to CloseLog.
func InitLog(path string) error {
	if path == "" {
		return CloseLog()
	}

	fd, err := openLogFile(path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrLogOpenFailed, err)
	}
	if logState.fd != invalidLogFD {
		closeLogFD(logState.fd)
	}
	logState.fd = fd
	return nil
}

// CloseLog disables the event log and releases its file descriptor, if
// any is open. It is safe to call when no log is open.
func CloseLog() error {
	if logState.fd == invalidLogFD {
		return nil
	}
	err := closeLogFD(logState.fd)
	logState.fd = invalidLogFD
	return err
}

// field is one key=value pair appended to a log line. It is a plain value
// type, not an interface, specifically so that logWriteLine's variadic
// call sites never box an argument into an interface{} — the allocator
// may be re-entered from inside a log write (e.g. if the destination file
// descriptor itself needs growing an internal buffer in the kernel), so
// nothing on this path may allocate on the Go heap.
type field struct {
	name string
	kind byte // 'i' int, 'u' pointer/uintptr (hex), 's' string
	ival int64
	uval uintptr
	sval string
}

func intField(name string, v int) field { return field{name: name, kind: 'i', ival: int64(v)} }
func strField(name, v string) field     { return field{name: name, kind: 's', sval: v} }
func ptrField(name string, p unsafe.Pointer) field {
	return field{name: name, kind: 'u', uval: uintptr(p)}
}

// appendTo appends f's "name=value" text to b, never writing past limit
// bytes, so b's fixed-capacity backing array is never grown. Numeric
// values are formatted into a small local array first, rather than
// straight into b, so a value that wouldn't fit still can't force b to
// reallocate.
func (f field) appendTo(b []byte, limit int) []byte {
	b = appendBounded(b, f.name, limit)
	b = appendBounded(b, "=", limit)
	switch f.kind {
	case 'i':
		var tmp [32]byte
		return appendBoundedBytes(b, strconv.AppendInt(tmp[:0], f.ival, 10), limit)
	case 'u':
		var tmp [24]byte
		v := append(tmp[:0], "0x"...)
		return appendBoundedBytes(b, strconv.AppendUint(v, uint64(f.uval), 16), limit)
	default:
		return appendBounded(b, f.sval, limit)
	}
}

// appendBounded appends s to b, truncating s so the result never exceeds
// limit bytes — never growing b past its caller's fixed-size buffer,
// regardless of how long s is.
func appendBounded(b []byte, s string, limit int) []byte {
	room := limit - len(b)
	if room <= 0 {
		return b
	}
	if len(s) > room {
		s = s[:room]
	}
	return append(b, s...)
}

func appendBoundedBytes(b, s []byte, limit int) []byte {
	room := limit - len(b)
	if room <= 0 {
		return b
	}
	if len(s) > room {
		s = s[:room]
	}
	return append(b, s...)
}

// logWriteLine appends op and each field to a fixed 256-byte stack buffer
// as plain text, bounding every append to 254 bytes so the line plus its
// trailing newline never exceeds the buffer's capacity, and writes the
// result to the log destination in one raw, unbuffered write. It is a
// no-op when logging is disabled. Nothing on this path goes through
// fmt.Sprintf, bufio, or any other allocating/buffering I/O — not even
// indirectly via a field or an op name too long for the buffer — since
// reintroducing allocation here reintroduces the reentrancy hazard the
// recursion guard exists to prevent.
func logWriteLine(op string, fields ...field) {
	if logState.fd == invalidLogFD {
		return
	}

	const maxLineLen = 254

	var buf [256]byte
	b := buf[:0]
	b = appendBounded(b, op, maxLineLen)
	for _, f := range fields {
		if len(b) >= maxLineLen {
			break
		}
		b = appendBounded(b, " ", maxLineLen)
		b = f.appendTo(b, maxLineLen)
	}
	b = append(b, '\n')
	writeLogFD(logState.fd, b)
}
