// Package machine implements the single-step instruction dispatcher: the
// driver operation "step" that advances the engine by one bytecode
// instruction or one long-operation tick, generalized from a tight
// register-VM hot loop to an externally-clocked, frame-granular driver.
package machine

import (
	"log"

	"sentra/internal/bytecode"
	"sentra/internal/callstack"
	"sentra/internal/collab"
	"sentra/internal/event"
	"sentra/internal/expr"
	"sentra/internal/memory"
	"sentra/internal/opreg"
)

// LongOp is satisfied by internal/longop.LongOp; named narrowly here so
// machine never imports longop (longop will import machine's Context).
type LongOp interface {
	Name() string
	Step(ctx Context) (bool, error) // returns done
}

// SavepointSink is satisfied by internal/save.Manager; Machine only calls
// TakeSavepoint, never inspects save internals.
type SavepointSink interface {
	TakeSavepoint(m *Machine) error
}

// LineHook is invoked for every Line marker instruction, keyed by
// (scenario, line).
type LineHook func(scenario, line int)

// Context is the capability surface handed to operation handlers and long
// operations; Machine satisfies it directly.
type Context interface {
	opreg.Context

	EventTick() int64
	InputSnapshot() event.InputState
	ShouldFastForward() bool
	TextSystem() collab.TextSystem
	ConfigCollaborator() collab.Config
	CurrentLine() int
}

// Machine is the complete runtime: memory banks, call stack, operation
// registry, and the collaborators it drives through.
type Machine struct {
	Banks    *memory.Banks
	Stack    *callstack.Stack
	Registry *opreg.Registry
	Scriptor collab.Scriptor
	Text     collab.TextSystem
	Config   collab.Config

	Savepoints SavepointSink
	Input      event.InputState

	halted        bool
	storeRegister int32
	line          int
	lineHooks     map[[2]int]LineHook
	suppressAdv   bool
	eventTick     int64
	fastForward   bool

	log *log.Logger
}

// New builds a Machine wired to its collaborators. The caller is expected
// to have already called Banks.LoadFrom(cfg) and pushed a Root frame onto
// stack.
func New(banks *memory.Banks, stack *callstack.Stack, registry *opreg.Registry, scriptor collab.Scriptor, text collab.TextSystem, cfg collab.Config, logger *log.Logger) *Machine {
	if logger == nil {
		logger = log.Default()
	}
	return &Machine{
		Banks:     banks,
		Stack:     stack,
		Registry:  registry,
		Scriptor:  scriptor,
		Text:      text,
		Config:    cfg,
		lineHooks: make(map[[2]int]LineHook),
		log:       logger,
	}
}

// Halted reports whether the driver loop should stop calling Step.
func (m *Machine) Halted() bool { return m.halted }

// Halt stops the machine; no further instructions or long operations run.
func (m *Machine) Halt() { m.halted = true }

// Line returns the current scenario line number (for diagnostics).
func (m *Machine) Line() int { return m.line }

// RegisterLineHook installs a callback invoked whenever Line(n) fires for
// the given scenario.
func (m *Machine) RegisterLineHook(scenario, line int, hook LineHook) {
	m.lineHooks[[2]int{scenario, line}] = hook
}

// --- expr.Env ---

func (m *Machine) ReadInt(bank, index int) (int32, error)       { return m.Banks.ReadInt(bank, index) }
func (m *Machine) WriteInt(bank, index int, value int32) error  { return m.Banks.WriteInt(bank, index, value) }
func (m *Machine) ReadStr(bank, index int) (string, error)      { return m.Banks.ReadStr(bank, index) }
func (m *Machine) WriteStr(bank, index int, value string) error { return m.Banks.WriteStr(bank, index, value) }
func (m *Machine) StoreRegister() int32                         { return m.storeRegister }
func (m *Machine) SetStoreRegister(v int32)                     { m.storeRegister = v }

// --- opreg.Context ---

func (m *Machine) SuppressAdvance() { m.suppressAdv = true }

func (m *Machine) PushLongOp(lo any) {
	handle, ok := lo.(callstack.LongOpHandle)
	if !ok {
		panic("machine: PushLongOp argument does not implement callstack.LongOpHandle")
	}
	frame := callstack.NewLongOpFrame(callstack.Location{}, handle)
	m.Stack.Push(frame)
}

func (m *Machine) Log(msg string, args ...any) {
	m.log.Printf(msg, args...)
}

// SetEventTick updates the event clock used to latch MouseMotion timing;
// the host loop calls this once per tick before Dispatch.
func (m *Machine) SetEventTick(tick int64) { m.eventTick = tick }

// EventTick returns the event clock as of the last SetEventTick call.
func (m *Machine) EventTick() int64 { return m.eventTick }

// InputSnapshot returns a copy of the current latched input state.
func (m *Machine) InputSnapshot() event.InputState { return m.Input }

// SetFastForward toggles the system-level fast-forward mode that
// TextOut's pacing checks against.
func (m *Machine) SetFastForward(v bool) { m.fastForward = v }

// ShouldFastForward reports whether any fast-forward condition is active:
// system fast-forward, message-no-wait, script-message-no-wait, or a held
// Ctrl with ctrl-key-skip enabled.
func (m *Machine) ShouldFastForward() bool {
	if m.fastForward {
		return true
	}
	if m.Text != nil && (m.Text.MessageNoWait() || m.Text.ScriptMessageNoWait()) {
		return true
	}
	if m.Text != nil && m.Text.CtrlKeySkip() && m.Input.CtrlPressed {
		return true
	}
	return false
}

// TextSystem exposes the text collaborator to long operations.
func (m *Machine) TextSystem() collab.TextSystem { return m.Text }

// ConfigCollaborator exposes the configuration collaborator to long
// operations (named to avoid colliding with the Config field).
func (m *Machine) ConfigCollaborator() collab.Config { return m.Config }

// CurrentLine exposes the current scenario line to long operations.
func (m *Machine) CurrentLine() int { return m.line }

// Dispatch latches ev into the process-wide input state and broadcasts it
// to every LongOp frame on the call stack that implements event.Listener,
// frontmost first — the active-frontmost long operation is effectively
// highest priority; a listener that consumes the event stops delivery to
// the rest.
func (m *Machine) Dispatch(ev event.Event) event.Event {
	m.Input.Apply(ev, m.eventTick)
	var listeners []event.Listener
	for _, f := range m.Stack.Frames() {
		if f.Kind != callstack.LongOp || f.LongOp == nil {
			continue
		}
		if l, ok := f.LongOp.(event.Listener); ok {
			listeners = append(listeners, l)
		}
	}
	return (event.Dispatcher{}).Dispatch(ev, listeners)
}

var _ expr.Env = (*Machine)(nil)

// currentLocation converts the topmost real frame's location to the
// bytecode location type the scriptor resolves.
func (m *Machine) currentLocation() (bytecode.Location, bool) {
	f, ok := m.Stack.TopReal()
	if !ok {
		return bytecode.Location{}, false
	}
	return bytecode.Location{Scenario: f.Location.Scenario, Offset: f.Location.Offset}, true
}

func (m *Machine) setLocation(loc bytecode.Location) {
	f, ok := m.Stack.TopReal()
	if !ok {
		return
	}
	f.Location = callstack.Location{Scenario: loc.Scenario, Offset: loc.Offset}
}

// advance moves the topmost real frame to the scriptor's next location,
// halting the machine if none exists.
func (m *Machine) advance() error {
	loc, ok := m.currentLocation()
	if !ok {
		m.halted = true
		return nil
	}
	if !m.Scriptor.HasNext(loc) {
		m.halted = true
		return nil
	}
	next, err := m.Scriptor.Next(loc)
	if err != nil {
		return err
	}
	m.setLocation(next)
	return nil
}
