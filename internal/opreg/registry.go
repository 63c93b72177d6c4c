package opreg

import (
	"fmt"

	"sentra/internal/errs"
	"sentra/internal/expr"
)

// Context is everything an operation handler needs from the running
// machine, named narrowly enough that internal/machine can satisfy it
// structurally without opreg importing machine (which imports opreg).
type Context interface {
	expr.Env
	// SuppressAdvance tells the dispatcher not to auto-advance the
	// instruction pointer after this handler returns: control-flow
	// operations — jumps, calls, selects — manage IP themselves.
	SuppressAdvance()
	// PushLongOp schedules a long operation; its concrete type is defined
	// by internal/longop and satisfies callstack.LongOpHandle plus a
	// Step method the machine type-asserts for.
	PushLongOp(lo any)
	Log(event string, args ...any)
}

// Handler implements one operation's effect given its parsed parameters.
type Handler func(ctx Context, params []Value) error

// Operation is one (opcode, overload) entry within a Module.
type Operation struct {
	Name   string
	Opcode int
	Overload int
	Shapes []ParamShape
	Run    Handler
}

type opKey struct{ opcode, overload int }

// Module groups the operations of one (module-type, module-id) pair —
// e.g. the "Grp" graphics module, or the "Sys" system module.
type Module struct {
	Name       string
	ModuleType int
	ModuleID   int
	ops        map[opKey]Operation
}

// NewModule creates an empty module ready for operations to be added with
// AddOperation.
func NewModule(name string, moduleType, moduleID int) *Module {
	return &Module{Name: name, ModuleType: moduleType, ModuleID: moduleID, ops: map[opKey]Operation{}}
}

// AddOperation registers op within the module, keyed by (opcode,
// overload); a collision is a programming error caught at module-build
// time, not a runtime failure, so it panics on malformed static tables.
func (m *Module) AddOperation(op Operation) {
	key := opKey{op.Opcode, op.Overload}
	if _, exists := m.ops[key]; exists {
		panic(fmt.Sprintf("opreg: module %s already has opcode=%d overload=%d", m.Name, op.Opcode, op.Overload))
	}
	m.ops[key] = op
}

func (m *Module) lookup(opcode, overload int) (Operation, bool) {
	op, ok := m.ops[opKey{opcode, overload}]
	return op, ok
}

type moduleKey struct{ modType, modID int }

// Registry is the process-wide (module-type, module-id) -> Module table.
type Registry struct {
	modules map[moduleKey]*Module
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{modules: map[moduleKey]*Module{}}
}

// AttachModule inserts m; a duplicate (module-type, module-id) fails with
// DuplicateModule.
func (r *Registry) AttachModule(m *Module) error {
	key := moduleKey{m.ModuleType, m.ModuleID}
	if _, exists := r.modules[key]; exists {
		return errs.New(errs.DuplicateModule, "module type=%d id=%d (%s) already attached", m.ModuleType, m.ModuleID, m.Name)
	}
	r.modules[key] = m
	return nil
}

// Lookup resolves (module-type, module-id, opcode, overload) to an
// Operation. A missing module or opcode both report UnimplementedOpcode —
// the dispatcher treats both as the same non-fatal failure.
func (r *Registry) Lookup(modType, modID, opcode, overload int) (Operation, error) {
	m, ok := r.modules[moduleKey{modType, modID}]
	if !ok {
		return Operation{}, errs.New(errs.UnimplementedOp, "no module type=%d id=%d", modType, modID)
	}
	op, ok := m.lookup(opcode, overload)
	if !ok {
		return Operation{}, errs.New(errs.UnimplementedOp, "module %s has no opcode=%d overload=%d", m.Name, opcode, overload)
	}
	return op, nil
}

// Modules returns the attached modules, for diagnostics/tracing.
func (r *Registry) Modules() []*Module {
	out := make([]*Module, 0, len(r.modules))
	for _, m := range r.modules {
		out = append(out, m)
	}
	return out
}
