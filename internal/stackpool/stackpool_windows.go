//go:build windows

package stackpool

import "unsafe"

var pageSize = 4096

// Alloc heap-allocates size bytes. Unlike the unix backend there is no
// guard page here: a plain Go slice cannot carry an adjacent
// PAGE_NOACCESS region without a separate VirtualAlloc call this
// module does not make. A fiber that overruns its stack on Windows
// corrupts neighboring heap memory silently rather than faulting; a
// guard page is a defense-in-depth nicety here, not something this
// backend can guarantee.
func Alloc(size int) (*Stack, error) {
	size = normalizeSize(size)
	mem := make([]byte, size)
	base := uintptr(unsafe.Pointer(&mem[0]))
	top := base + uintptr(size) - headroom
	return &Stack{mem: mem, Base: base, Top: top}, nil
}

// Free releases the stack's reference; the Go garbage collector
// reclaims the backing array once nothing else points into it.
func Free(s *Stack) error {
	s.mem = nil
	return nil
}
