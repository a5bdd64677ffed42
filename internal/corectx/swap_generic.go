//go:build !(amd64 && !windows) && !(amd64 && windows) && !(arm64 && !windows)

package corectx

import "sync"

// This backend covers every architecture/OS pair without a hand-written
// assembly Swap above. It cannot switch a single OS thread's own stack
// pointer the way the native backends do, so each Context gets its own
// goroutine and a rendezvous channel instead: a Swap becomes a blocking
// handoff between exactly two goroutines, of which only one is ever
// runnable at a time. That is observably equivalent to a symmetric
// stack switch from the fiber package's point of view, at the cost of
// one parked goroutine per live fiber.
//
// Word values on this backend are opaque registry keys, not pointers:
// storing a live Go pointer as a bare uintptr would hide it from the
// garbage collector.
type rendezvous struct {
	in chan Word
}

var (
	regMu   sync.Mutex
	reg     = map[uintptr]*rendezvous{}
	nextID  uintptr = 1
	current *rendezvous
)

func register(rv *rendezvous) Word {
	regMu.Lock()
	defer regMu.Unlock()
	id := nextID
	nextID++
	reg[id] = rv
	return Word(id)
}

func lookup(w Word) *rendezvous {
	regMu.Lock()
	defer regMu.Unlock()
	rv := reg[uintptr(w)]
	if rv == nil {
		panic("corectx: swap targets an unregistered context")
	}
	return rv
}

// NewContext starts the goroutine that will run a fiber's entry point
// once first resumed, and returns the Word identifying it. stackTop is
// unused: this backend has no stack of its own to place it on.
func NewContext(stackTop uintptr, rec uintptr) Word {
	rv := &rendezvous{in: make(chan Word)}
	w := register(rv)
	go func() {
		arg := <-rv.in
		TrampolineEntry(rec, arg)
		panic("corectx: fiber entry point returned")
	}()
	return w
}

// selfRendezvous returns (creating and registering on first use) the
// rendezvous identifying whichever goroutine is currently calling
// Swap. The very first caller in the process — the host goroutine
// resuming the first fiber — has no goroutine of its own spawned for
// it; it needs none, since it blocks on its own "in" channel directly
// inside this call.
func selfRendezvous() *rendezvous {
	regMu.Lock()
	defer regMu.Unlock()
	if current == nil {
		current = &rendezvous{in: make(chan Word)}
		reg[nextID] = current
		nextID++
	}
	return current
}

func selfWord(rv *rendezvous) Word {
	regMu.Lock()
	defer regMu.Unlock()
	for id, v := range reg {
		if v == rv {
			return Word(id)
		}
	}
	panic("corectx: context not registered")
}

// Swap hands arg to the context identified by load and blocks until
// some later Swap hands a word to the calling context in return.
func Swap(save *Word, load Word, arg Word) Word {
	self := selfRendezvous()
	*save = selfWord(self)

	target := lookup(load)
	regMu.Lock()
	current = target
	regMu.Unlock()

	target.in <- arg
	return <-self.in
}
