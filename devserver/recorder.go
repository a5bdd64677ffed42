package devserver

import (
	"sync/atomic"

	"github.com/filamentrt/fiber/trace"
)

// Recorder turns package trace's structured lifecycle events into
// sequenced, scenario-labeled TraceEvents and hands each one to sink.
// trace.SetEventSink has a single slot, so only one Recorder may be
// installed at a time; Start/Stop make that ownership explicit rather
// than leaving a bare global assignment at the call site.
type Recorder struct {
	seq      uint64
	scenario atomic.Value
	sink     func(TraceEvent)
}

// NewRecorder returns a Recorder that calls sink for every lifecycle
// event observed while it is installed.
func NewRecorder(sink func(TraceEvent)) *Recorder {
	r := &Recorder{sink: sink}
	r.scenario.Store("")
	return r
}

// Start installs this recorder as trace's event sink, replacing
// whatever sink (if any) was installed before.
func (r *Recorder) Start() {
	trace.SetEventSink(r.onEvent)
}

// Stop clears trace's event sink.
func (r *Recorder) Stop() {
	trace.SetEventSink(nil)
}

// SetScenario labels every event recorded from this point on with
// name, until the next call to SetScenario.
func (r *Recorder) SetScenario(name string) {
	r.scenario.Store(name)
}

func (r *Recorder) onEvent(e trace.Event) {
	seq := atomic.AddUint64(&r.seq, 1)
	scenario, _ := r.scenario.Load().(string)
	r.sink(TraceEvent{
		Seq:      seq,
		Scenario: scenario,
		Type:     EventType(e.Kind),
		Fiber:    uint64(e.Fiber),
		Other:    uint64(e.Other),
		Value:    uint64(e.Value),
	})
}
