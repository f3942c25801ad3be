// Copyright 2017 The Memory Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package galloc

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"
)

func TestLogWriteLineIsNoopWhenDisabled(t *testing.T) {
	require.NoError(t, CloseLog())
	require.NotPanics(t, func() { logWriteLine("probe", intField("n", 1)) })
}

func TestInitLogWritesAndCloseLogStops(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.log")
	require.NoError(t, InitLog(path))
	t.Cleanup(func() { CloseLog() })

	logWriteLine("alloc", intField("size", 16), ptrField("ptr", nil))
	require.NoError(t, CloseLog())

	// Nothing must be written once the log is closed.
	logWriteLine("after_close", intField("size", 32))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	require.Len(t, lines, 1)
	require.Equal(t, "alloc size=16 ptr=0x0", lines[0])
}

func TestInitLogEmptyPathDisablesLogging(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.log")
	require.NoError(t, InitLog(path))
	require.NoError(t, InitLog(""))

	logWriteLine("should_not_appear", intField("n", 1))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Empty(t, data)
}

func TestInitLogReplacesPriorDestination(t *testing.T) {
	first := filepath.Join(t.TempDir(), "first.log")
	second := filepath.Join(t.TempDir(), "second.log")

	require.NoError(t, InitLog(first))
	logWriteLine("to_first", intField("n", 1))

	require.NoError(t, InitLog(second))
	t.Cleanup(func() { CloseLog() })
	logWriteLine("to_second", intField("n", 2))

	firstData, err := os.ReadFile(first)
	require.NoError(t, err)
	require.Contains(t, string(firstData), "to_first")
	require.NotContains(t, string(firstData), "to_second")

	secondData, err := os.ReadFile(second)
	require.NoError(t, err)
	require.Contains(t, string(secondData), "to_second")
}

func TestInitLogFailureReportsWrappedError(t *testing.T) {
	// A path inside a nonexistent directory cannot be opened for writing.
	bad := filepath.Join(t.TempDir(), "no-such-dir", "events.log")
	err := InitLog(bad)
	require.ErrorIs(t, err, ErrLogOpenFailed)
}

func TestCloseLogIsIdempotent(t *testing.T) {
	require.NoError(t, CloseLog())
	require.NoError(t, CloseLog())
}

func TestLogWriteLineTruncatesLongLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.log")
	require.NoError(t, InitLog(path))
	t.Cleanup(func() { CloseLog() })

	logWriteLine("op", strField("blob", strings.Repeat("x", 1000)))
	require.NoError(t, CloseLog())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.True(t, strings.HasSuffix(string(data), "\n"))
	// The whole write, including the trailing newline, never exceeds the
	// fixed stack buffer logWriteLine builds the line in.
	require.LessOrEqual(t, len(data), 256)
}

func TestFieldAppendToFormats(t *testing.T) {
	require.Equal(t, "n=42", string(intField("n", 42).appendTo(nil, 254)))
	require.Equal(t, "op=split", string(strField("op", "split").appendTo(nil, 254)))

	var x int
	p := ptrField("p", unsafe.Pointer(&x))
	require.True(t, strings.HasPrefix(string(p.appendTo(nil, 254)), "p=0x"))
}

func TestFieldAppendToNeverExceedsLimit(t *testing.T) {
	f := strField("blob", strings.Repeat("y", 1000))
	out := f.appendTo(nil, 32)
	require.LessOrEqual(t, len(out), 32)
	require.Equal(t, "blob="+strings.Repeat("y", 27), string(out))
}
