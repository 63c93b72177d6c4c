// Package opreg is the operation registry and parameter-shape parser,
// generalized from a single flat opcode space to a two-level
// (module, opcode+overload) table with a dispatch-by-integer-key lookup.
package opreg

import (
	"sentra/internal/errs"
	"sentra/internal/expr"
)

// ParamShape is the closed set of parameter shapes an operation's
// signature can declare.
type ParamShape interface{ isParamShape() }

type (
	IntConstant struct{}
	IntReference struct{}
	StrConstant struct{}
	StrReference struct{}
	RGB          struct{}
	RGBA         struct{}
	RectGrp      struct{} // (x1, y1, x2, y2)
	RectRec      struct{} // (x, y, w, h)
	DefaultInt   struct{ Default int32 }
	DefaultStr   struct{ Default string }
	// Argc is only legal as the terminal shape; it consumes all remaining
	// parsed parameters, each shaped like Sub.
	Argc struct{ Sub ParamShape }
	// Complex parses a single raw parameter (an expr.Complex node) whose
	// items are positionally shaped by Subs.
	Complex struct{ Subs []ParamShape }
	// Special parses a single raw parameter (an expr.Special node) and
	// dispatches on its integer tag to one of Cases.
	Special struct{ Cases map[int][]ParamShape }
)

func (IntConstant) isParamShape()  {}
func (IntReference) isParamShape() {}
func (StrConstant) isParamShape()  {}
func (StrReference) isParamShape() {}
func (RGB) isParamShape()          {}
func (RGBA) isParamShape()         {}
func (RectGrp) isParamShape()      {}
func (RectRec) isParamShape()      {}
func (DefaultInt) isParamShape()   {}
func (DefaultStr) isParamShape()   {}
func (Argc) isParamShape()         {}
func (Complex) isParamShape()      {}
func (Special) isParamShape()      {}

// Value is the closed set of parsed parameter values handed to an
// operation handler.
type Value interface{ isValue() }

type (
	IntValue    struct{ V int32 }
	StrValue    struct{ V string }
	// RefValue holds an unevaluated lvalue node for IntReference/StrReference
	// shapes, so the handler can both read and write through it.
	RefValue    struct{ Node expr.Node }
	RGBValue    struct{ R, G, B int32 }
	RGBAValue   struct{ R, G, B, A int32 }
	RectGrpValue struct{ X1, Y1, X2, Y2 int32 }
	RectRecValue struct{ X, Y, W, H int32 }
	ArgcValue    struct{ Items []Value }
	ComplexValue struct{ Items []Value }
	SpecialValue struct {
		Tag   int
		Items []Value
	}
)

func (IntValue) isValue()     {}
func (StrValue) isValue()     {}
func (RefValue) isValue()     {}
func (RGBValue) isValue()     {}
func (RGBAValue) isValue()    {}
func (RectGrpValue) isValue() {}
func (RectRecValue) isValue() {}
func (ArgcValue) isValue()    {}
func (ComplexValue) isValue() {}
func (SpecialValue) isValue() {}

// paramCursor walks a flat list of already-deserialized expression nodes.
type paramCursor struct {
	nodes []expr.Node
	pos   int
}

func (c *paramCursor) next() (expr.Node, bool) {
	if c.pos >= len(c.nodes) {
		return nil, false
	}
	n := c.nodes[c.pos]
	c.pos++
	return n, true
}

// ParseParams deserializes raw (one expr-serialized node per entry) and
// parses them against shapes, evaluating constants and preserving
// reference nodes unevaluated. env is used only to evaluate constant
// shapes inline (e.g. RGB's three int components); IntReference/
// StrReference values are returned unevaluated for the handler to resolve.
func ParseParams(shapes []ParamShape, raw [][]byte, env expr.Env) ([]Value, error) {
	nodes := make([]expr.Node, len(raw))
	for i, b := range raw {
		n, err := expr.Deserialize(b)
		if err != nil {
			return nil, errs.Wrap(errs.BadFormat, err, "parsing parameter %d", i)
		}
		nodes[i] = n
	}
	cur := &paramCursor{nodes: nodes}

	out := make([]Value, 0, len(shapes))
	for i, shape := range shapes {
		if _, isArgc := shape.(Argc); isArgc && i != len(shapes)-1 {
			return nil, errs.New(errs.BadFormat, "Argc shape must be terminal")
		}
		v, err := parseOne(shape, cur, env)
		if err != nil {
			return nil, errs.Wrap(errs.BadFormat, err, "parameter %d", i)
		}
		out = append(out, v)
	}
	return out, nil
}

func parseOne(shape ParamShape, cur *paramCursor, env expr.Env) (Value, error) {
	switch s := shape.(type) {
	case IntConstant:
		n, ok := cur.next()
		if !ok {
			return nil, errs.New(errs.BadFormat, "missing integer constant parameter")
		}
		v, err := expr.EvalInt(n, env)
		if err != nil {
			return nil, err
		}
		return IntValue{V: v}, nil
	case IntReference:
		n, ok := cur.next()
		if !ok {
			return nil, errs.New(errs.BadFormat, "missing integer reference parameter")
		}
		return RefValue{Node: n}, nil
	case StrConstant:
		n, ok := cur.next()
		if !ok {
			return nil, errs.New(errs.BadFormat, "missing string constant parameter")
		}
		v, err := expr.EvalStr(n, env)
		if err != nil {
			return nil, err
		}
		return StrValue{V: v}, nil
	case StrReference:
		n, ok := cur.next()
		if !ok {
			return nil, errs.New(errs.BadFormat, "missing string reference parameter")
		}
		return RefValue{Node: n}, nil
	case RGB:
		vals, err := nInts(cur, env, 3)
		if err != nil {
			return nil, err
		}
		return RGBValue{R: vals[0], G: vals[1], B: vals[2]}, nil
	case RGBA:
		vals, err := nInts(cur, env, 4)
		if err != nil {
			return nil, err
		}
		return RGBAValue{R: vals[0], G: vals[1], B: vals[2], A: vals[3]}, nil
	case RectGrp:
		vals, err := nInts(cur, env, 4)
		if err != nil {
			return nil, err
		}
		return RectGrpValue{X1: vals[0], Y1: vals[1], X2: vals[2], Y2: vals[3]}, nil
	case RectRec:
		vals, err := nInts(cur, env, 4)
		if err != nil {
			return nil, err
		}
		return RectRecValue{X: vals[0], Y: vals[1], W: vals[2], H: vals[3]}, nil
	case DefaultInt:
		n, ok := cur.next()
		if !ok {
			return IntValue{V: s.Default}, nil
		}
		v, err := expr.EvalInt(n, env)
		if err != nil {
			return nil, err
		}
		return IntValue{V: v}, nil
	case DefaultStr:
		n, ok := cur.next()
		if !ok {
			return StrValue{V: s.Default}, nil
		}
		v, err := expr.EvalStr(n, env)
		if err != nil {
			return nil, err
		}
		return StrValue{V: v}, nil
	case Argc:
		var items []Value
		for cur.pos < len(cur.nodes) {
			v, err := parseOne(s.Sub, cur, env)
			if err != nil {
				return nil, err
			}
			items = append(items, v)
		}
		return ArgcValue{Items: items}, nil
	case Complex:
		n, ok := cur.next()
		if !ok {
			return nil, errs.New(errs.BadFormat, "missing complex parameter")
		}
		group, ok := n.(*expr.Complex)
		if !ok {
			return nil, errs.New(errs.TypeMismatch, "parameter is not a complex tuple")
		}
		if len(group.Items) != len(s.Subs) {
			return nil, errs.New(errs.BadFormat, "complex parameter has %d items, want %d", len(group.Items), len(s.Subs))
		}
		items := make([]Value, len(s.Subs))
		for i, sub := range s.Subs {
			sc := &paramCursor{nodes: group.Items[i : i+1]}
			v, err := parseOne(sub, sc, env)
			if err != nil {
				return nil, err
			}
			items[i] = v
		}
		return ComplexValue{Items: items}, nil
	case Special:
		n, ok := cur.next()
		if !ok {
			return nil, errs.New(errs.BadFormat, "missing special parameter")
		}
		sp, ok := n.(*expr.Special)
		if !ok {
			return nil, errs.New(errs.TypeMismatch, "parameter is not a special tag")
		}
		subs, ok := s.Cases[sp.Tag]
		if !ok {
			return nil, errs.New(errs.BadFormat, "special tag %d has no declared shape", sp.Tag)
		}
		if len(sp.Items) != len(subs) {
			return nil, errs.New(errs.BadFormat, "special tag %d has %d items, want %d", sp.Tag, len(sp.Items), len(subs))
		}
		items := make([]Value, len(subs))
		for i, sub := range subs {
			sc := &paramCursor{nodes: sp.Items[i : i+1]}
			v, err := parseOne(sub, sc, env)
			if err != nil {
				return nil, err
			}
			items[i] = v
		}
		return SpecialValue{Tag: sp.Tag, Items: items}, nil
	default:
		return nil, errs.New(errs.BadFormat, "unknown parameter shape")
	}
}

func nInts(cur *paramCursor, env expr.Env, n int) ([]int32, error) {
	out := make([]int32, n)
	for i := 0; i < n; i++ {
		node, ok := cur.next()
		if !ok {
			return nil, errs.New(errs.BadFormat, "expected %d integer components, got %d", n, i)
		}
		v, err := expr.EvalInt(node, env)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}
