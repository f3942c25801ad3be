// Copyright 2011 Evan Shaw. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE-MMAP-GO file.

//go:build windows

// Modifications (c) 2017 The Memory Authors.

package galloc

import (
	"unsafe"

	"golang.org/x/sys/windows"
)

// logFD identifies the event log's destination: a Windows file handle.
type logFD = windows.Handle

const invalidLogFD logFD = windows.InvalidHandle

// mmapRegion asks the kernel for size bytes of fresh, zero-initialized,
// read-write memory via VirtualAlloc, the Windows analogue of an
// anonymous mmap.
func mmapRegion(size int) (unsafe.Pointer, error) {
	addr, err := windows.VirtualAlloc(0, uintptr(size), windows.MEM_COMMIT|windows.MEM_RESERVE, windows.PAGE_READWRITE)
	if err != nil {
		return nil, err
	}
	return unsafe.Pointer(addr), nil
}

// munmapRegion releases a region obtained from mmapRegion.
func munmapRegion(addr unsafe.Pointer, size int) error {
	return windows.VirtualFree(uintptr(addr), 0, windows.MEM_RELEASE)
}

func openLogFile(path string) (logFD, error) {
	p, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return invalidLogFD, err
	}
	return windows.CreateFile(p, windows.GENERIC_WRITE, 0, nil, windows.CREATE_ALWAYS, windows.FILE_ATTRIBUTE_NORMAL, 0)
}

func writeLogFD(fd logFD, p []byte) (int, error) {
	var n uint32
	err := windows.WriteFile(fd, p, &n, nil)
	return int(n), err
}

func closeLogFD(fd logFD) error {
	return windows.CloseHandle(fd)
}
