package devserver

import (
	"github.com/filamentrt/fiber/examples/hello"
	"github.com/filamentrt/fiber/examples/sieve"
)

// Scenario is a runnable demo whose fiber lifecycle events a Recorder
// can observe while it runs. Run blocks until the scenario's own
// fiber.Main invocation returns.
type Scenario struct {
	Name        string
	Description string
	Run         func()
}

// BuiltinScenarios are the scenarios devserver can run out of the box.
// A YAML scenario list (LoadScenarioList/ApplyScenarioList) only
// supplies display metadata for these; it cannot add new runnable
// code, since Run closures aren't something a config file can express.
var BuiltinScenarios = []Scenario{
	{
		Name:        "hello",
		Description: `two fibers alternately printing characters so the combined output reads "hello world"`,
		Run:         func() { hello.Run() },
	},
	{
		Name:        "sieve",
		Description: "a lazily-grown pipeline of prime-filter fibers computing the first 25 primes",
		Run:         func() { sieve.Run(25) },
	},
}

// FindScenario looks up a builtin scenario by name.
func FindScenario(name string) (Scenario, bool) {
	for _, s := range BuiltinScenarios {
		if s.Name == name {
			return s, true
		}
	}
	return Scenario{}, false
}

// ScenarioNames returns the names of every builtin scenario, in order.
func ScenarioNames() []string {
	names := make([]string, len(BuiltinScenarios))
	for i, s := range BuiltinScenarios {
		names[i] = s.Name
	}
	return names
}

// ApplyScenarioList overrides BuiltinScenarios' descriptions with
// matching entries from list, by name. Names not matching any builtin
// scenario are ignored: the list only relabels what already exists.
func ApplyScenarioList(list *ScenarioList) {
	if list == nil {
		return
	}
	for _, cfg := range list.Scenarios {
		if cfg.Description == "" {
			continue
		}
		for i := range BuiltinScenarios {
			if BuiltinScenarios[i].Name == cfg.Name {
				BuiltinScenarios[i].Description = cfg.Description
			}
		}
	}
}
