// Package devserver streams a running fiber program's lifecycle
// events — allocate, switch, switch-return, free, entry-start — to a
// connected websocket client, and can trigger a small set of demo
// scenarios to produce those events on request. It exists to make the
// fiber state machine observable from outside the process; the core
// fiber package has no I/O dependency of its own and never imports
// this package.
package devserver

// MessageType identifies the first byte of a wire frame.
type MessageType uint8

const (
	FrameTrace   MessageType = 0x00
	FrameControl MessageType = 0x01
)

// EventType mirrors trace.Kind; the two enums are kept in the same
// order so converting between them is a plain cast (see Recorder).
type EventType uint8

const (
	EventAlloc EventType = iota
	EventSwitch
	EventSwitchReturn
	EventFree
	EventEntryStart
)

func (t EventType) String() string {
	switch t {
	case EventAlloc:
		return "alloc"
	case EventSwitch:
		return "switch"
	case EventSwitchReturn:
		return "switch_return"
	case EventFree:
		return "free"
	case EventEntryStart:
		return "entry_start"
	default:
		return "unknown"
	}
}

// TraceEvent is one observed lifecycle transition, numbered and
// labeled with the scenario that produced it.
type TraceEvent struct {
	Seq      uint64
	Scenario string
	Type     EventType
	Fiber    uint64
	Other    uint64
	Value    uint64
}

// ScenarioConfig is one entry of the YAML scenario list: display
// metadata only. The set of runnable scenarios is fixed in code
// (BuiltinScenarios); this just lets an operator retitle or redescribe
// them without a rebuild.
type ScenarioConfig struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

// ScenarioList is the top-level shape of the scenario YAML file.
type ScenarioList struct {
	Scenarios []ScenarioConfig `yaml:"scenarios"`
}
