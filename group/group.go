// Package group is an explicitly opt-in way for user code to keep
// track of a batch of fibers it created. The fiber package itself
// tracks no registry — a handle is only as findable as the caller
// makes it — so anything that wants to enumerate, wait on, or
// bulk-free a set of fibers has to ask something to remember them.
// Group is that something; it never calls fiber.Alloc, fiber.Switch,
// or fiber.Free on its members' behalf, it only observes handles the
// caller explicitly adds and removes.
package group

import (
	"sync"
	"sync/atomic"

	"github.com/filamentrt/fiber/fiber"
	"golang.org/x/sync/errgroup"
)

// debugLog is set by SetDebugLog; nil by default so importing this
// package costs nothing if the caller never wants the trace.
var debugLog func(args ...interface{})

// SetDebugLog installs a logging function called on every Add/Remove.
// Pass nil to disable it again.
func SetDebugLog(fn func(args ...interface{})) {
	debugLog = fn
}

// Group is a mutex-guarded set of fiber handles. The zero Group is
// ready to use.
type Group struct {
	mu      sync.Mutex
	members map[fiber.Handle]struct{}
	dirty   atomic.Bool
}

// NewGroup returns an empty, ready-to-use Group. Using the zero value
// directly works identically; this constructor exists for symmetry
// with the rest of the package's constructor-based API.
func NewGroup() *Group {
	return &Group{members: make(map[fiber.Handle]struct{})}
}

// Add records h as a member of the group. Adding the zero Handle or a
// handle already present is a no-op.
func (g *Group) Add(h fiber.Handle) {
	if !h.IsValid() {
		return
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.members == nil {
		g.members = make(map[fiber.Handle]struct{})
	}
	if _, ok := g.members[h]; ok {
		return
	}
	g.members[h] = struct{}{}
	g.dirty.Store(true)
	if debugLog != nil {
		debugLog("[group] added", h, "size now", len(g.members))
	}
}

// Remove drops h from the group, if present. It does not free h.
func (g *Group) Remove(h fiber.Handle) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.members[h]; !ok {
		return
	}
	delete(g.members, h)
	g.dirty.Store(true)
	if debugLog != nil {
		debugLog("[group] removed", h, "size now", len(g.members))
	}
}

// Contains reports whether h is currently a member.
func (g *Group) Contains(h fiber.Handle) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, ok := g.members[h]
	return ok
}

// Len returns the number of members currently tracked.
func (g *Group) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.members)
}

// Each calls fn once per member, in no particular order. It walks a
// snapshot of the membership taken before the first call and does not
// hold g's lock while fn runs, so fn may call Add or Remove on g;
// members added during the walk are not visited, and members removed
// during it are still visited.
func (g *Group) Each(fn func(fiber.Handle)) {
	g.mu.Lock()
	members := make([]fiber.Handle, 0, len(g.members))
	for h := range g.members {
		members = append(members, h)
	}
	g.mu.Unlock()

	for _, h := range members {
		fn(h)
	}
}

// FreeAll calls fiber.Free on every member and empties the group. It
// is the caller's responsibility to ensure no member is the currently
// running fiber; fiber.Free panics on that case exactly as it would
// outside a group.
func (g *Group) FreeAll() {
	g.mu.Lock()
	members := make([]fiber.Handle, 0, len(g.members))
	for h := range g.members {
		members = append(members, h)
	}
	g.members = make(map[fiber.Handle]struct{})
	g.mu.Unlock()

	for _, h := range members {
		fiber.Free(h)
		if debugLog != nil {
			debugLog("[group] freed", h)
		}
	}
}

// RunConcurrent starts each of progs on its own goroutine and returns
// the first non-nil error once they have all finished, canceling
// nothing else in response (errgroup.Group's zero value does not wire
// a context). Each prog is expected to wrap its own fiber.Main
// invocation; fiber.Main serializes on a package-wide lock internally,
// so independent progs still take turns running their own fibers to
// completion rather than truly executing in parallel, but callers are
// freed from hand-rolling the errgroup and error aggregation.
func RunConcurrent(progs ...func() error) error {
	var g errgroup.Group
	for _, p := range progs {
		g.Go(p)
	}
	return g.Wait()
}
