package group

import (
	"errors"
	"testing"

	"github.com/filamentrt/fiber/fiber"
)

func TestAddRemoveContains(t *testing.T) {
	fiber.Main(func(argc, argv fiber.Word) fiber.Word {
		g := NewGroup()
		h1, err := fiber.Alloc(func(arg fiber.Word, caller fiber.Handle) fiber.Word { return arg })
		if err != nil {
			t.Fatalf("Alloc: %v", err)
		}
		h2, err := fiber.Alloc(func(arg fiber.Word, caller fiber.Handle) fiber.Word { return arg })
		if err != nil {
			t.Fatalf("Alloc: %v", err)
		}

		g.Add(h1)
		g.Add(h1) // duplicate add is a no-op
		g.Add(h2)
		if g.Len() != 2 {
			t.Fatalf("expected 2 members, got %d", g.Len())
		}
		if !g.Contains(h1) || !g.Contains(h2) {
			t.Fatalf("group should contain both handles")
		}

		g.Remove(h1)
		if g.Len() != 1 || g.Contains(h1) {
			t.Fatalf("Remove did not drop h1")
		}

		g.FreeAll()
		if g.Len() != 0 {
			t.Fatalf("FreeAll should empty the group")
		}
		return 0
	}, 0, 0)
}

func TestAddIgnoresZeroHandle(t *testing.T) {
	g := NewGroup()
	g.Add(fiber.Handle{})
	if g.Len() != 0 {
		t.Fatalf("zero handle must not be added")
	}
}

func TestRunConcurrentRunsAllPrograms(t *testing.T) {
	results := make(chan int, 3)
	prog := func(n int) func() error {
		return func() error {
			fiber.Main(func(argc, argv fiber.Word) fiber.Word {
				results <- n
				return 0
			}, 0, 0)
			return nil
		}
	}

	if err := RunConcurrent(prog(1), prog(2), prog(3)); err != nil {
		t.Fatalf("RunConcurrent: %v", err)
	}
	close(results)

	seen := map[int]bool{}
	for n := range results {
		seen[n] = true
	}
	if len(seen) != 3 {
		t.Fatalf("expected all 3 programs to run, got %v", seen)
	}
}

func TestRunConcurrentReturnsFirstError(t *testing.T) {
	boom := errors.New("boom")
	err := RunConcurrent(
		func() error { return nil },
		func() error { return boom },
	)
	if !errors.Is(err, boom) {
		t.Fatalf("RunConcurrent() = %v, want %v", err, boom)
	}
}

func TestEachVisitsEveryMember(t *testing.T) {
	fiber.Main(func(argc, argv fiber.Word) fiber.Word {
		g := NewGroup()
		want := map[fiber.Handle]bool{}
		for i := 0; i < 3; i++ {
			h, err := fiber.Alloc(func(arg fiber.Word, caller fiber.Handle) fiber.Word { return arg })
			if err != nil {
				t.Fatalf("Alloc: %v", err)
			}
			g.Add(h)
			want[h] = false
		}

		g.Each(func(h fiber.Handle) {
			want[h] = true
		})
		for h, visited := range want {
			if !visited {
				t.Fatalf("Each skipped %v", h)
			}
		}

		g.FreeAll()
		return 0
	}, 0, 0)
}
