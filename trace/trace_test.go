package trace

import "testing"

func TestLogfNoopWithoutSink(t *testing.T) {
	SetDebugLog(nil)
	Logf("no sink installed: %d", 1) // must not panic
}

func TestLogfFormatsThroughSink(t *testing.T) {
	var got string
	SetDebugLog(func(args ...interface{}) {
		if len(args) != 1 {
			t.Fatalf("expected a single pre-formatted string, got %d args", len(args))
		}
		got, _ = args[0].(string)
	})
	defer SetDebugLog(nil)

	Logf("fiber: allocated %p", (*int)(nil))
	if got == "" {
		t.Fatal("Logf did not reach the installed sink")
	}
}

func TestEmitNoopWithoutSink(t *testing.T) {
	SetEventSink(nil)
	Emit(Event{Kind: KindAlloc}) // must not panic
}

func TestEmitReachesSink(t *testing.T) {
	var got Event
	SetEventSink(func(e Event) {
		got = e
	})
	defer SetEventSink(nil)

	Emit(Event{Kind: KindSwitch, Fiber: 1, Other: 2, Value: 3})
	if got.Kind != KindSwitch || got.Fiber != 1 || got.Other != 2 || got.Value != 3 {
		t.Fatalf("Emit delivered %+v, want Kind=KindSwitch Fiber=1 Other=2 Value=3", got)
	}
}
