//go:build amd64 && !windows

package corectx

import "unsafe"

// Swap performs context_swap(save, load, arg) on the amd64 System V
// ABI: it pushes the callee-saved registers of the running context
// onto its own stack, records the resulting stack pointer into *save,
// switches the stack pointer to load, pops that context's
// callee-saved registers back, and resumes it with arg delivered as
// its Swap call's return value (or, for a fresh context, as the first
// argument the bootstrap trampoline observes).
//
// R14 is deliberately excluded from the saved set: on the amd64
// internal ABI the Go runtime reserves R14 for the current goroutine
// pointer, and this runtime never changes which goroutine is running
// during a Swap (every fiber shares one OS thread and one goroutine)
// — only which stack it is executing on.
//
//go:noescape
func Swap(save *Word, load Word, arg Word) Word

//go:noescape
func trampolinePC() uintptr

// NewContext synthesizes the saved-context word for a fiber that has
// never run. Loading it with Swap for the first time pops the record
// pointer into R12 (see swap_amd64.s) and returns into
// asmEntryTrampoline, which calls goTrampoline(rec, arg) with arg
// taken directly from the register Swap delivered it in.
//
// stackTop is internal/stackpool's 16-byte-aligned Top, with at least
// 32 bytes of valid mapped memory above it — internal/stackpool
// reserves this headroom so Swap's unconditional "deliver arg into
// the caller's result slot" write (swap_amd64.s) never lands outside
// the fiber's stack on a fiber's first resumption.
//
// The System V and Windows x64 ABIs both push an 8-byte return
// address on every `call`, so a function's entry SP is always 8 mod
// 16 relative to its caller's 16-aligned SP. asmEntryTrampoline is
// entered the same way (via RET, functionally a call), so the
// synthesized context must land it at that same residue: shift
// stackTop down by 8 before laying out the frame.
func NewContext(stackTop uintptr, rec uintptr) Word {
	const frame = 48 // 5 saved-register slots + 1 return address, 8 bytes each
	top := stackTop - 8
	sp := top - frame
	words := (*[6]uintptr)(unsafe.Pointer(sp))
	words[0] = 0              // -> R15 (unused)
	words[1] = 0              // -> R13 (unused)
	words[2] = rec            // -> R12 (fiber record pointer)
	words[3] = 0              // -> RBX (unused)
	words[4] = 0              // -> RBP (unused)
	words[5] = trampolinePC() // return address: asmEntryTrampoline
	return sp
}
