//go:build !windows

package stackpool

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/unix"
)

var pageSize = unix.Getpagesize()

// Alloc mmaps size bytes anonymously, plus one leading guard page
// mprotected to PROT_NONE. Touching the guard page (a fiber that
// recursively descends past its stack's low end) faults instead of
// silently corrupting an adjacent mapping.
func Alloc(size int) (*Stack, error) {
	size = normalizeSize(size)
	total := size + pageSize

	mem, err := unix.Mmap(-1, 0, total, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE|unix.MAP_ANON)
	if err != nil {
		return nil, &ErrAlloc{Size: size, Err: err}
	}

	if err := unix.Mprotect(mem[:pageSize], unix.PROT_NONE); err != nil {
		_ = unix.Munmap(mem)
		return nil, &ErrAlloc{Size: size, Err: err}
	}

	base := uintptr(unsafe.Pointer(&mem[0])) + uintptr(pageSize)
	top := base + uintptr(size) - headroom

	return &Stack{mem: mem, Base: base, Top: top}, nil
}

// Free unmaps the stack, guard page included. The caller must not
// still be running on this stack — freeing a running fiber is a
// programmer error, checked one layer up in package fiber.
func Free(s *Stack) error {
	if err := unix.Munmap(s.mem); err != nil {
		return fmt.Errorf("stackpool: release: %w", err)
	}
	return nil
}
