package machine

import (
	"sentra/internal/bytecode"
	"sentra/internal/callstack"
	"sentra/internal/errs"
	"sentra/internal/expr"
	"sentra/internal/opreg"
)

// NewTextOutFunc is a factory the bootstrap layer wires to
// internal/longop.NewTextOut; Machine never constructs long operations
// itself, only schedules them through this seam.
type NewTextOutFunc func(text string) LongOp

// Step advances the machine by one unit of work: one long-operation tick
// if the topmost frame is a LongOp, otherwise one bytecode instruction
// from the topmost real frame. A halted machine does nothing and returns
// nil.
//
// Error propagation follows §7: UnimplementedOpcode is caught and logged
// by dispatchCommand itself. Every other error a handler returns is
// caught here, logged with the current (scenario, line) tag and the
// offending operation's name if available, the IP is advanced, and
// execution continues — except UserPresentable, the only kind that
// bubbles out of Step (and, in turn, Run).
func (m *Machine) Step(newTextOut NewTextOutFunc) error {
	if m.halted {
		return nil
	}
	top, ok := m.Stack.Top()
	if !ok {
		m.halted = true
		return nil
	}
	var err error
	if top.Kind == callstack.LongOp {
		err = m.stepLongOp(top)
	} else {
		err = m.stepInstruction(newTextOut)
	}
	if err == nil {
		return nil
	}
	if kind, ok := errs.KindOf(err); ok && kind == errs.UserPresentable {
		return err
	}
	m.logRecoverable(err)
	return m.advance()
}

// logRecoverable logs a non-fatal step error tagged with the current
// (scenario, line) and, if err carries one, the operation name that
// raised it.
func (m *Machine) logRecoverable(err error) {
	loc, _ := m.currentLocation()
	var op string
	if e, ok := err.(*errs.Error); ok {
		op = e.Op
	}
	if op != "" {
		m.Log("recoverable error scenario=%d line=%d op=%s: %v", loc.Scenario, m.line, op, err)
		return
	}
	m.Log("recoverable error scenario=%d line=%d: %v", loc.Scenario, m.line, err)
}

// Run steps the machine until it halts or a UserPresentable error
// surfaces — the only error kind Step lets through — for the driver to
// present to the player as a modal error.
func (m *Machine) Run(newTextOut NewTextOutFunc) error {
	for !m.halted {
		if err := m.Step(newTextOut); err != nil {
			return err
		}
	}
	return nil
}

func (m *Machine) stepLongOp(frame *callstack.Frame) error {
	lo, ok := frame.LongOp.(LongOp)
	if !ok {
		return errs.New(errs.TypeMismatch, "long-op frame %q does not implement machine.LongOp", frame.LongOp.Name())
	}
	lock, err := m.Stack.Lock()
	if err != nil {
		return err
	}
	done, stepErr := lo.Step(m)
	if relErr := lock.Release(); relErr != nil && stepErr == nil {
		stepErr = relErr
	}
	if stepErr != nil {
		return stepErr
	}
	if done {
		return m.Stack.Pop()
	}
	return nil
}

func (m *Machine) stepInstruction(newTextOut NewTextOutFunc) error {
	loc, ok := m.currentLocation()
	if !ok {
		m.halted = true
		return nil
	}
	instr, err := m.Scriptor.ResolveInstruction(loc)
	if err != nil {
		return err
	}

	switch instr.Kind {
	case bytecode.KindEnd:
		m.halted = true
		return nil

	case bytecode.KindMarkerKidoku:
		if err := m.handleKidoku(loc.Scenario, instr.Kidoku); err != nil {
			return err
		}
		return m.advance()

	case bytecode.KindMarkerLine:
		m.line = instr.Line
		if hook, ok := m.lineHooks[[2]int{loc.Scenario, instr.Line}]; ok {
			hook(loc.Scenario, instr.Line)
		}
		return m.advance()

	case bytecode.KindCommand:
		return m.dispatchCommand(instr.Command)

	case bytecode.KindExpression:
		node, ok := instr.Expression.(expr.Node)
		if !ok {
			return errs.New(errs.TypeMismatch, "instruction expression is not an expr.Node")
		}
		if expr.ValueTypeOf(node) == expr.String {
			if _, err := expr.EvalStr(node, m); err != nil {
				return err
			}
		} else if _, err := expr.EvalInt(node, m); err != nil {
			return err
		}
		return m.advance()

	case bytecode.KindTextOut:
		if newTextOut != nil {
			lo := newTextOut(instr.Text)
			m.PushLongOp(lo)
		}
		return m.advance()

	default:
		return errs.New(errs.BadFormat, "unknown instruction kind %d", instr.Kind)
	}
}

func (m *Machine) handleKidoku(scenario, n int) error {
	cfg, err := m.Scriptor.GetScenarioConfig(scenario)
	if err != nil {
		return err
	}
	if cfg.EnableMessageSavepoint && m.Text != nil {
		if page := m.Text.GetCurrentPage(); page != nil && page.NumberOfCharsOnPage() == 0 {
			if m.Savepoints != nil {
				if err := m.Savepoints.TakeSavepoint(m); err != nil {
					return err
				}
			}
		}
	}
	m.Banks.Kidoku.Record(scenario, n)
	return nil
}

// dispatchCommand looks up and invokes the registered operation for cmd.
// A missing operation is a non-fatal UnimplementedOpcode:
// the instruction pointer still advances and the event is logged, not
// raised to the caller.
func (m *Machine) dispatchCommand(cmd bytecode.Command) error {
	op, err := m.Registry.Lookup(cmd.ModuleType, cmd.ModuleID, cmd.Opcode, cmd.Overload)
	if err != nil {
		if kind, ok := errs.KindOf(err); ok && kind == errs.UnimplementedOp {
			m.Log("unimplemented opcode module_type=%d module_id=%d opcode=%d overload=%d", cmd.ModuleType, cmd.ModuleID, cmd.Opcode, cmd.Overload)
			return m.advance()
		}
		return err
	}

	params, err := opreg.ParseParams(op.Shapes, cmd.RawParams, m)
	if err != nil {
		if e, ok := err.(*errs.Error); ok {
			return e.WithOp(op.Name)
		}
		return errs.Wrap(errs.BadFormat, err, "parsing parameters for %s", op.Name)
	}

	m.suppressAdv = false
	if err := op.Run(m, params); err != nil {
		if e, ok := err.(*errs.Error); ok {
			return e.WithOp(op.Name)
		}
		return errs.Wrap(errs.TypeMismatch, err, "operation %s failed", op.Name)
	}
	if m.suppressAdv {
		return nil
	}
	return m.advance()
}
