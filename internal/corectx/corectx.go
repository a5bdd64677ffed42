// Package corectx implements the architecture-level context switch:
// saving and restoring the register set that defines a suspended call
// stack, and transferring control between two such contexts on a
// single OS thread.
//
// A Word is the single machine value exchanged on every transfer. A
// Context is the saved continuation itself; on the native backends it
// is the stack pointer a fiber was suspended at (the callee-saved
// registers live on the stack, pushed and popped by the assembly swap
// routine), and on the portable fallback it is a registry key for a
// goroutine's rendezvous channel.
//
// TrampolineEntry is set exactly once, by the fiber package, before
// any fiber runs. It is invoked the first time a fresh context is
// resumed, with the raw fiber-record pointer and the delivered
// argument word; see NewContext and asmEntryTrampoline in the
// per-architecture swap_*.s files for how that first resumption is
// arranged.
package corectx

// Word is the single machine-word quantity delivered on every
// transfer.
type Word = uintptr

// TrampolineEntry is called on the first resumption of a context
// created by NewContext. It never returns: the bootstrap trampoline
// routes the entry point's return through a terminal transfer back to
// the fiber's caller instead.
var TrampolineEntry func(rec uintptr, arg Word)

//go:nosplit
func goTrampoline(rec uintptr, arg Word) {
	TrampolineEntry(rec, arg)
}
