package devserver

import (
	"testing"

	"github.com/filamentrt/fiber/fiber"
)

func TestRecorderObservesFiberLifecycle(t *testing.T) {
	var got []TraceEvent
	rec := NewRecorder(func(ev TraceEvent) {
		got = append(got, ev)
	})
	rec.SetScenario("test")
	rec.Start()
	defer rec.Stop()

	fiber.Main(func(argc, argv fiber.Word) fiber.Word {
		h, err := fiber.Alloc(func(arg fiber.Word, caller fiber.Handle) fiber.Word {
			return arg
		})
		if err != nil {
			t.Fatalf("Alloc: %v", err)
		}
		fiber.Switch(h, 1)
		fiber.Free(h)
		return 0
	}, 0, 0)

	if len(got) == 0 {
		t.Fatal("recorder observed no events")
	}
	for _, ev := range got {
		if ev.Scenario != "test" {
			t.Fatalf("event %+v not labeled with scenario", ev)
		}
	}

	var sawAlloc, sawSwitch, sawFree bool
	for _, ev := range got {
		switch ev.Type {
		case EventAlloc:
			sawAlloc = true
		case EventSwitch:
			sawSwitch = true
		case EventFree:
			sawFree = true
		}
	}
	if !sawAlloc || !sawSwitch || !sawFree {
		t.Fatalf("missing expected event types: %+v", got)
	}
}

func TestFindScenario(t *testing.T) {
	if _, ok := FindScenario("hello"); !ok {
		t.Fatal("expected builtin scenario \"hello\"")
	}
	if _, ok := FindScenario("does-not-exist"); ok {
		t.Fatal("expected lookup of an unknown scenario to fail")
	}
}
