//go:build arm64 && !windows

package corectx

import "unsafe"

// Swap implements context_swap for the AArch64 AAPCS64 ABI. The
// callee-saved general registers under AAPCS64 are X19-X28, plus the
// frame pointer X29 and the link register X30.
//
// X28 is excluded from the saved set: Go's arm64 internal ABI reserves
// X28 for the current goroutine pointer, mirroring R14 on amd64, and
// this runtime never changes which goroutine is running during a Swap
// (every fiber shares one OS thread and one goroutine).
//
//go:noescape
func Swap(save *Word, load Word, arg Word) Word

//go:noescape
func trampolinePC() uintptr

// NewContext synthesizes the saved-context word for a fiber that has
// never run. Loading it with Swap for the first time pops the fiber
// record pointer out of the X27 slot (see swap_arm64.s, which reuses
// that callee-saved slot rather than adding a dedicated one) and
// returns into asmEntryTrampoline, which calls goTrampoline(rec, arg)
// with arg taken directly from the register Swap delivered it in.
//
// stackTop must be 16-byte aligned, per AAPCS64's SP-alignment
// invariant; internal/stackpool guarantees this and leaves headroom
// above it for the bootstrap path's scratch write.
func NewContext(stackTop uintptr, rec uintptr) Word {
	const frame = 96 // X19-X27, X29, X30, 16-byte aligned with one pad word
	sp := stackTop - frame
	words := (*[12]uintptr)(unsafe.Pointer(sp))
	words[0] = 0              // -> X19 (unused)
	words[1] = 0              // -> X20 (unused)
	words[2] = 0              // -> X21 (unused)
	words[3] = 0              // -> X22 (unused)
	words[4] = 0              // -> X23 (unused)
	words[5] = 0              // -> X24 (unused)
	words[6] = 0              // -> X25 (unused)
	words[7] = 0              // -> X26 (unused)
	words[8] = rec            // -> X27 (fiber record pointer)
	words[9] = 0              // -> X29 / FP (unused)
	words[10] = trampolinePC() // -> X30 / LR: asmEntryTrampoline
	words[11] = 0             // padding, keeps the frame 16-byte sized
	return sp
}
