// Package fiber is a single-threaded, cooperatively scheduled
// symmetric coroutine runtime: independent call stacks ("fibers")
// coexist on one OS thread and transfer control to one another
// explicitly, each transfer carrying a single machine word.
//
// There is no scheduler and no implicit registry of fibers — a
// transfer names its destination handle directly, and the caller is
// responsible for keeping track of whatever handles it allocates (see
// package group for an optional, explicitly opt-in tracker).
//
// Raw context switching and stack allocation happen one layer down, in
// internal/corectx and internal/stackpool; this package owns the handle
// type, the lifecycle state machine, and the bootstrap trampoline that
// lands a freshly allocated fiber in its entry point.
package fiber

import (
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"unsafe"

	"github.com/filamentrt/fiber/internal/corectx"
	"github.com/filamentrt/fiber/internal/stackpool"
	"github.com/filamentrt/fiber/trace"
)

// Word is the single machine value carried by every transfer.
type Word = uintptr

// Entry is a fiber's user-supplied body. It runs with the word the
// first Switch into the fiber delivered, and the handle of whichever
// fiber (or the root) performed that switch. Its return value is
// delivered to the fiber's last caller exactly as if it had called
// SwitchReturn on the spot.
type Entry func(arg Word, caller Handle) Word

type state int32

const (
	stateFresh state = iota
	stateRunning
	stateSuspended
	stateFinished
	stateFreed
)

func (s state) String() string {
	switch s {
	case stateFresh:
		return "fresh"
	case stateRunning:
		return "running"
	case stateSuspended:
		return "suspended"
	case stateFinished:
		return "finished"
	case stateFreed:
		return "freed"
	default:
		return "unknown"
	}
}

// record is the fiber's internal state; Handle is an opaque reference
// to one. The root context (representing the host thread inside a
// Main invocation) is a record with stack == nil.
type record struct {
	stack      *stackpool.Stack
	ctx        corectx.Word
	entry      Entry
	state      int32
	lastCaller Handle
	mainGen    uint64
}

// Handle identifies a single fiber. The zero Handle is the reserved
// "no caller" sentinel used by the root. Two handles compare equal
// (with ==) iff they identify the same fiber.
type Handle struct {
	rec *record
}

// IsValid reports whether h identifies any fiber (the zero Handle, the
// "no caller" sentinel, is not valid).
func (h Handle) IsValid() bool { return h.rec != nil }

// String renders a diagnostic identity for h; it is not a stable ABI.
func (h Handle) String() string {
	if h.rec == nil {
		return "fiber.Handle(nil)"
	}
	return fmt.Sprintf("fiber.Handle(%p)", h.rec)
}

var (
	current *record
	genCtr  uint64

	// mainMu serializes Main invocations. current is process-wide
	// state, not per-OS-thread: two Main calls running at once would
	// race on it even though each holds its own locked OS thread, so
	// only one Main body executes at a time. Callers that want several
	// independent programs to make progress concurrently (package
	// group's RunConcurrent, for instance) get that concurrency from
	// however their programs interleave waiting on this lock and on
	// each other, not from true simultaneous execution.
	mainMu sync.Mutex
)

func init() {
	corectx.TrampolineEntry = runEntry
}

// Current returns the handle of the fiber (or root) presently running.
// It is never the zero Handle while inside a Main invocation; called
// by the root, it returns the same root handle a fresh fiber receives
// as its caller on its first switch from the root. Outside any Main
// invocation it returns the zero Handle.
func Current() Handle {
	if current == nil {
		return Handle{}
	}
	return Handle{rec: current}
}

// Main establishes the root context representing the host thread,
// invokes prog under it, and returns prog's result. It is the only
// entry point into the runtime: Alloc and Switch assume a root already
// exists. Handles allocated during one Main invocation
// must not be used during another; doing so is a fatal error (see
// transfer).
//
// Main locks the calling goroutine to its OS thread for the duration
// of prog: the context-switch primitives repoint the stack pointer
// out from under the Go runtime's bookkeeping for that thread, which
// only the runtime's async-preemption and goroutine-migration
// machinery could otherwise observe mid-flight. Running with
// GODEBUG=asyncpreemptoff=1 removes the remaining preemption window;
// this package cannot set that for its caller, so it is documented
// here instead.
func Main(prog func(argc, argv Word) Word, argc, argv Word) Word {
	mainMu.Lock()
	defer mainMu.Unlock()

	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	gen := atomic.AddUint64(&genCtr, 1)
	root := &record{state: int32(stateRunning), mainGen: gen}
	prevCurrent := current
	current = root
	defer func() { current = prevCurrent }()

	trace.Logf("fiber: main started (generation %d)", gen)
	result := prog(argc, argv)
	trace.Logf("fiber: main returned %d", result)
	return result
}

// Alloc allocates a fiber record and a default-sized stack, writes a
// synthetic context onto it so that its first resumption lands in the
// bootstrap trampoline, and sets its state to Fresh. No user code
// runs. Stack allocation failure is an ordinary resource error: Alloc
// returns it rather than aborting, since running out of address space
// or hitting an rlimit is a normal, recoverable condition for a
// caller that is about to allocate a great many fibers.
func Alloc(entry Entry) (Handle, error) {
	return AllocSize(entry, stackpool.DefaultSize)
}

// AllocSize is Alloc with an explicit stack size (rounded up to the
// next power-of-two page multiple by internal/stackpool).
func AllocSize(entry Entry, size int) (Handle, error) {
	if current == nil {
		panic("fiber: Alloc called outside a Main invocation")
	}
	st, err := stackpool.Alloc(size)
	if err != nil {
		return Handle{}, fmt.Errorf("fiber: alloc: %w", err)
	}

	rec := &record{
		stack:   st,
		entry:   entry,
		state:   int32(stateFresh),
		mainGen: current.mainGen,
	}
	rec.ctx = corectx.NewContext(st.Top, uintptr(unsafe.Pointer(rec)))
	trace.Logf("fiber: allocated %p (stack %d bytes)", rec, size)
	trace.Emit(trace.Event{Kind: trace.KindAlloc, Fiber: uintptr(unsafe.Pointer(rec)), Value: uintptr(size)})
	return Handle{rec: rec}, nil
}

// Free releases h's stack and record. Freeing a Fresh fiber never
// invokes its entry point. Freeing the currently Running fiber is a
// fatal programmer error — there would be no stack left under the
// code that is executing it; freeing the zero Handle is a no-op.
func Free(h Handle) {
	if h.rec == nil {
		return
	}
	rec := h.rec
	st := state(atomic.LoadInt32(&rec.state))
	if st == stateRunning {
		panic("fiber: free of the currently running fiber")
	}
	if st == stateFreed {
		panic("fiber: double free")
	}
	atomic.StoreInt32(&rec.state, int32(stateFreed))
	if rec.stack != nil {
		if err := stackpool.Free(rec.stack); err != nil {
			trace.Logf("fiber: release stack for %p: %v", rec, err)
		}
	}
	trace.Logf("fiber: freed %p", rec)
	trace.Emit(trace.Event{Kind: trace.KindFree, Fiber: uintptr(unsafe.Pointer(rec))})
}

// Switch transfers control to dst, delivering value, and blocks until
// some later switch resumes the calling fiber. It returns the handle
// of whichever fiber performed that resuming switch together with the
// word it delivered — the same (caller, value) pair a Fresh fiber's
// entry point receives on its first resumption, since symmetric
// transfer makes no distinction between resuming a suspended fiber
// and entering a fresh one for the first time.
//
// dst must be Fresh or Suspended and must not be the calling fiber;
// violating either is a fatal programmer error.
func Switch(dst Handle, value Word) (Handle, Word) {
	if dst.rec == nil {
		panic("fiber: switch to the zero handle")
	}
	return transfer(dst.rec, value, false)
}

// SwitchReturn marks the calling fiber Finished and performs a
// terminal transfer to dst with value. It never returns: the fiber's
// stack is not required to remain valid afterward, and no later
// switch may target a Finished fiber.
func SwitchReturn(dst Handle, value Word) {
	if dst.rec == nil {
		panic("fiber: switch_return to the zero handle")
	}
	transfer(dst.rec, value, true)
	panic("fiber: unreachable: a finished fiber resumed")
}

func transfer(dst *record, value Word, finishCurrent bool) (Handle, Word) {
	self := current
	if self == nil {
		panic("fiber: switch called outside a Main invocation")
	}
	if dst == self {
		panic("fiber: switch to the currently running fiber")
	}
	dstState := state(atomic.LoadInt32(&dst.state))
	if dstState == stateFinished {
		panic("fiber: switch to a finished fiber")
	}
	if dstState == stateFreed {
		panic("fiber: switch to a freed fiber")
	}
	if dstState == stateRunning {
		panic("fiber: switch to an already-running fiber")
	}
	if dst.mainGen != self.mainGen {
		panic("fiber: switch to a handle from a different Main invocation")
	}

	dst.lastCaller = Handle{rec: self}
	if finishCurrent {
		atomic.StoreInt32(&self.state, int32(stateFinished))
	} else {
		atomic.StoreInt32(&self.state, int32(stateSuspended))
	}
	atomic.StoreInt32(&dst.state, int32(stateRunning))
	current = dst

	trace.Logf("fiber: switch %p -> %p (value=%d, finish=%v)", self, dst, value, finishCurrent)
	kind := trace.KindSwitch
	if finishCurrent {
		kind = trace.KindSwitchReturn
	}
	trace.Emit(trace.Event{
		Kind:  kind,
		Fiber: uintptr(unsafe.Pointer(self)),
		Other: uintptr(unsafe.Pointer(dst)),
		Value: uintptr(value),
	})
	ret := corectx.Swap(&self.ctx, dst.ctx, corectx.Word(value))

	// Reached only when some later switch resumed self; a transfer
	// with finishCurrent == true never returns here, by the invariant
	// above that nothing may switch into a Finished fiber.
	return self.lastCaller, Word(ret)
}

// runEntry is internal/corectx's TrampolineEntry: invoked exactly once,
// the first time a Fresh fiber's synthetic context is resumed.
func runEntry(recPtr uintptr, arg corectx.Word) {
	rec := (*record)(unsafe.Pointer(recPtr))
	firstCaller := rec.lastCaller
	trace.Logf("fiber: entry start %p (caller=%s)", rec, firstCaller)
	trace.Emit(trace.Event{
		Kind:  trace.KindEntryStart,
		Fiber: recPtr,
		Other: uintptr(unsafe.Pointer(firstCaller.rec)),
		Value: uintptr(arg),
	})

	result := rec.entry(Word(arg), firstCaller)

	// rec.lastCaller may have changed since entry: the fiber may have
	// been switched into again (and out of) any number of times while
	// its entry point ran. The terminal transfer always targets
	// whoever switched in most recently, not whoever started it.
	lastCaller := rec.lastCaller
	trace.Logf("fiber: entry return %p -> %s (value=%d)", rec, lastCaller, result)
	SwitchReturn(lastCaller, result)
}
