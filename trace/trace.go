// Package trace is an optional lifecycle-event hook for package fiber.
// The core runtime has no I/O or logging dependency of its own; this
// package lets a consumer opt into observing the Fresh/Running/
// Suspended/Finished state machine without forcing that dependency on
// every caller, using the same single-slot SetDebugLog(fn) convention
// as the rest of this module's scheduler-adjacent packages.
package trace

import "fmt"

var logFn func(args ...interface{})

// Kind identifies which lifecycle transition an Event reports.
type Kind uint8

const (
	KindAlloc Kind = iota
	KindSwitch
	KindSwitchReturn
	KindFree
	KindEntryStart
)

// Event is a structured lifecycle notification, emitted alongside the
// human-readable Logf line at the same call sites. Consumers that want
// to do something other than print text (devserver's websocket
// streamer, for instance) subscribe via SetEventSink instead of
// parsing Logf's formatted strings back apart.
type Event struct {
	Kind   Kind
	Fiber  uintptr
	Other  uintptr // destination (Switch/SwitchReturn) or caller (EntryStart)
	Value  uintptr
}

var eventSink func(Event)

// SetEventSink installs fn as the structured event sink; pass nil to
// disable it again. Only one sink is supported at a time, matching
// SetDebugLog's single-slot convention.
func SetEventSink(fn func(Event)) {
	eventSink = fn
}

// Emit forwards e to the installed sink, if any.
func Emit(e Event) {
	if eventSink == nil {
		return
	}
	eventSink(e)
}

// SetDebugLog installs fn as the trace sink; pass nil to disable
// tracing again. Logf routes through fmt.Sprintf first, so fn receives
// a single pre-formatted string from it; Log passes its arguments
// through unchanged.
func SetDebugLog(fn func(args ...interface{})) {
	logFn = fn
}

// Logf formats and forwards a trace line if a sink is installed; it is
// a no-op (format included) otherwise.
func Logf(format string, args ...interface{}) {
	if logFn == nil {
		return
	}
	logFn(fmt.Sprintf(format, args...))
}

// Log forwards args directly to the sink if one is installed.
func Log(args ...interface{}) {
	if logFn == nil {
		return
	}
	logFn(args...)
}
