package fiber

import "testing"

// Scenario 1 (single switch and back), plus the identity and
// return-falls-through laws.
func TestSwitchRoundTrip(t *testing.T) {
	var gotArg Word
	var gotCaller Handle
	var secondArg Word
	var root Handle

	Main(func(argc, argv Word) Word {
		h, err := Alloc(func(arg Word, caller Handle) Word {
			gotArg = arg
			gotCaller = caller

			c, v := Switch(caller, 100)
			_ = c
			secondArg = v
			return v
		})
		if err != nil {
			t.Fatalf("Alloc: %v", err)
		}
		root = Current()

		caller, v := Switch(h, 42)
		if caller != h {
			t.Fatalf("root's switcher should be F, got %v", caller)
		}
		if v != 100 {
			t.Fatalf("root expected 100 back from F's first switch-out, got %d", v)
		}

		caller, v = Switch(h, 7)
		if caller != h {
			t.Fatalf("F's terminal transfer should report F as the switcher")
		}
		if v != 7 {
			t.Fatalf("root expected F's return value 7, got %d", v)
		}

		Free(h)
		return 0
	}, 0, 0)

	if gotArg != 42 {
		t.Fatalf("entry point expected arg=42, got %d", gotArg)
	}
	if gotCaller != root {
		t.Fatalf("entry point's caller should be the root's handle")
	}
	if secondArg != 7 {
		t.Fatalf("F expected 7 from its in-body switch, got %d", secondArg)
	}
}

func TestReturnIsTerminalTransfer(t *testing.T) {
	var result Word
	Main(func(argc, argv Word) Word {
		h, err := Alloc(func(arg Word, caller Handle) Word {
			return arg + 1
		})
		if err != nil {
			t.Fatalf("Alloc: %v", err)
		}
		_, v := Switch(h, 41)
		result = v
		Free(h)
		return 0
	}, 0, 0)
	if result != 42 {
		t.Fatalf("expected 42, got %d", result)
	}
}

func TestFreshOnlyFreeNeverRuns(t *testing.T) {
	ran := false
	Main(func(argc, argv Word) Word {
		h, err := Alloc(func(arg Word, caller Handle) Word {
			ran = true
			return 0
		})
		if err != nil {
			t.Fatalf("Alloc: %v", err)
		}
		Free(h)
		return 0
	}, 0, 0)
	if ran {
		t.Fatalf("entry point must not run for a fiber that was never switched into")
	}
}

func TestHandleStabilityAcrossSwitches(t *testing.T) {
	Main(func(argc, argv Word) Word {
		var seen Handle
		h, err := Alloc(func(arg Word, caller Handle) Word {
			self := Current()
			seen = self
			_, v := Switch(caller, 1)
			if Current() != self {
				t.Fatalf("handle changed across a switch")
			}
			return v
		})
		if err != nil {
			t.Fatalf("Alloc: %v", err)
		}
		if h != h {
			t.Fatalf("handle does not compare equal to itself")
		}

		Switch(h, 0)
		if seen != h {
			t.Fatalf("fiber's own view of its handle differs from the allocator's")
		}
		Switch(h, 9)
		Free(h)
		return 0
	}, 0, 0)
}

func TestSwitchToFinishedPanics(t *testing.T) {
	Main(func(argc, argv Word) Word {
		h, err := Alloc(func(arg Word, caller Handle) Word { return arg })
		if err != nil {
			t.Fatalf("Alloc: %v", err)
		}
		Switch(h, 1) // runs to completion, Finished

		defer func() {
			if recover() == nil {
				t.Fatalf("expected panic switching to a Finished fiber")
			}
		}()
		Switch(h, 2)
		return 0
	}, 0, 0)
}

func TestSwitchToSelfPanics(t *testing.T) {
	Main(func(argc, argv Word) Word {
		var self Handle
		h, err := Alloc(func(arg Word, caller Handle) Word {
			defer func() {
				if recover() == nil {
					t.Fatalf("expected panic switching to the running fiber itself")
				}
				SwitchReturn(caller, 0)
			}()
			Switch(self, 0)
			return 0
		})
		if err != nil {
			t.Fatalf("Alloc: %v", err)
		}
		self = h
		Switch(h, 0)
		Free(h)
		return 0
	}, 0, 0)
}

func TestFreeRunningFiberPanics(t *testing.T) {
	Main(func(argc, argv Word) Word {
		var h Handle
		var err error
		h, err = Alloc(func(arg Word, caller Handle) Word {
			defer func() {
				if recover() == nil {
					t.Fatalf("expected panic freeing the running fiber")
				}
			}()
			Free(h)
			SwitchReturn(caller, 0)
			return 0
		})
		if err != nil {
			t.Fatalf("Alloc: %v", err)
		}
		Switch(h, 0)
		Free(h)
		return 0
	}, 0, 0)
}
