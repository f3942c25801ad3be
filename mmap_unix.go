// Copyright 2011 Evan Shaw. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE-MMAP-GO file.

//go:build darwin || dragonfly || freebsd || linux || openbsd || solaris || netbsd

// Modifications (c) 2017 The Memory Authors.

package galloc

import (
	"unsafe"

	"golang.org/x/sys/unix"
)

// logFD identifies the event log's destination: a raw file descriptor.
type logFD = int

const invalidLogFD logFD = -1

// mmapRegion asks the kernel for size bytes of fresh, zero-initialized,
// anonymous, private, read-write memory.
func mmapRegion(size int) (unsafe.Pointer, error) {
	b, err := unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return nil, err
	}
	return unsafe.Pointer(&b[0]), nil
}

// munmapRegion releases a region obtained from mmapRegion.
func munmapRegion(addr unsafe.Pointer, size int) error {
	return unix.Munmap(unsafe.Slice((*byte)(addr), size))
}

func openLogFile(path string) (logFD, error) {
	return unix.Open(path, unix.O_WRONLY|unix.O_CREAT|unix.O_TRUNC, 0o644)
}

func writeLogFD(fd logFD, p []byte) (int, error) {
	return unix.Write(fd, p)
}

func closeLogFD(fd logFD) error {
	return unix.Close(fd)
}
