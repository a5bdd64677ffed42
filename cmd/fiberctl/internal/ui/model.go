// Package ui is fiberctl watch's live dashboard: a bubbletea program
// that connects to a running devserver's websocket endpoint and
// renders the fiber lifecycle events it streams as they arrive.
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/gorilla/websocket"

	"github.com/filamentrt/fiber/devserver"
)

const maxLogLines = 20

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	countStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
)

// eventMsg wraps one decoded TraceEvent for bubbletea's Update loop.
type eventMsg devserver.TraceEvent

// connErrMsg reports a dial or read failure. The dashboard keeps
// running and displays it rather than exiting — devserver may simply
// not be up yet.
type connErrMsg struct{ err error }

// connectedMsg carries the open connection into the model once dialing
// succeeds.
type connectedMsg struct{ conn *websocket.Conn }

// Model is the watch dashboard's state: a live feed of devserver trace
// events plus running counts per event type.
type Model struct {
	addr string
	conn *websocket.Conn

	width, height int
	spinner       spinner.Model
	connecting    bool
	lastErr       error

	log    []string
	counts map[devserver.EventType]int
	total  uint64
}

// NewModel returns a dashboard that dials the devserver websocket
// endpoint at addr (e.g. "ws://localhost:8787/trace") once started.
func NewModel(addr string) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	return Model{
		addr:       addr,
		spinner:    s,
		connecting: true,
		counts:     make(map[devserver.EventType]int),
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, dial(m.addr))
}

func dial(addr string) tea.Cmd {
	return func() tea.Msg {
		conn, _, err := websocket.DefaultDialer.Dial(addr, nil)
		if err != nil {
			return connErrMsg{err}
		}
		return connectedMsg{conn}
	}
}

// readNext reads websocket messages from conn until one decodes as a
// TraceEvent (control frames like HELLO are skipped) or the
// connection fails.
func readNext(conn *websocket.Conn) tea.Cmd {
	return func() tea.Msg {
		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				return connErrMsg{err}
			}
			ev, err := devserver.DecodeTraceEvent(data)
			if err != nil {
				continue
			}
			return eventMsg(*ev)
		}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			if m.conn != nil {
				m.conn.Close()
			}
			return m, tea.Quit
		}
		return m, nil

	case spinner.TickMsg:
		if !m.connecting {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case connectedMsg:
		m.connecting = false
		m.conn = msg.conn
		m.lastErr = nil
		return m, readNext(m.conn)

	case connErrMsg:
		m.lastErr = msg.err
		m.connecting = false
		return m, nil

	case eventMsg:
		ev := devserver.TraceEvent(msg)
		m.total++
		m.counts[ev.Type]++
		line := fmt.Sprintf("#%-5d %-13s scenario=%-8s fiber=%#x other=%#x value=%d",
			ev.Seq, ev.Type, ev.Scenario, ev.Fiber, ev.Other, ev.Value)
		m.log = append(m.log, line)
		if len(m.log) > maxLogLines {
			m.log = m.log[len(m.log)-maxLogLines:]
		}
		return m, readNext(m.conn)
	}

	return m, nil
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("fiberctl watch"))
	b.WriteString(" — " + m.addr + "\n\n")

	if m.connecting {
		fmt.Fprintf(&b, "%s connecting...\n", m.spinner.View())
		return b.String()
	}
	if m.lastErr != nil {
		fmt.Fprintf(&b, "connection error: %v\n", m.lastErr)
		return b.String()
	}

	fmt.Fprintf(&b, countStyle.Render(fmt.Sprintf("total events: %d", m.total))+"\n")
	for _, t := range []devserver.EventType{
		devserver.EventAlloc,
		devserver.EventSwitch,
		devserver.EventSwitchReturn,
		devserver.EventFree,
		devserver.EventEntryStart,
	} {
		fmt.Fprintf(&b, "  %-13s %d\n", t, m.counts[t])
	}
	b.WriteString("\n")

	for _, line := range m.log {
		b.WriteString(dimStyle.Render(line) + "\n")
	}

	b.WriteString("\n" + dimStyle.Render("q to quit"))
	return b.String()
}
