package expr

import (
	"encoding/binary"
	"fmt"

	"sentra/internal/errs"
)

// CellRef is a resolved pointer to a single memory cell, returned by
// ReferenceIterator so bulk-copy operations can replay over a range of
// cells without re-walking the expression tree per cell.
type CellRef struct {
	Bank  int
	IsStr bool
	Index int
}

// ReferenceIterator resolves n to the memory cell it addresses. Only
// memory-reference nodes can be referenced this way; anything else,
// including the store register, fails with NotAnLvalue.
func ReferenceIterator(n Node, env Env) (*CellRef, error) {
	switch v := n.(type) {
	case *SimpleMemoryRef:
		return &CellRef{Bank: v.Bank, IsStr: v.IsStr, Index: v.Index}, nil
	case *MemoryRef:
		idx, err := EvalInt(v.Index, env)
		if err != nil {
			return nil, err
		}
		return &CellRef{Bank: v.Bank, IsStr: v.IsStr, Index: int(idx)}, nil
	default:
		return nil, errs.New(errs.NotAnLvalue, "node does not reference a single memory cell")
	}
}

const (
	tagInt byte = iota
	tagStr
)

// Serialize returns a canonical byte form: the node's *current* evaluated
// value, tagged by type. Re-Deserializing and evaluating under the same
// memory state reproduces the original value, which is all
// savepoint-selection snapshots need — they embed values, not live
// references.
func Serialize(n Node, env Env) ([]byte, error) {
	switch ValueTypeOf(n) {
	case Integer:
		v, err := EvalInt(n, env)
		if err != nil {
			return nil, err
		}
		buf := make([]byte, 5)
		buf[0] = tagInt
		binary.LittleEndian.PutUint32(buf[1:], uint32(v))
		return buf, nil
	default:
		s, err := EvalStr(n, env)
		if err != nil {
			return nil, err
		}
		buf := make([]byte, 5+len(s))
		buf[0] = tagStr
		binary.LittleEndian.PutUint32(buf[1:5], uint32(len(s)))
		copy(buf[5:], s)
		return buf, nil
	}
}

// Deserialize reconstructs the literal node Serialize encoded.
func Deserialize(data []byte) (Node, error) {
	if len(data) < 1 {
		return nil, errs.New(errs.BadFormat, "empty serialized expression")
	}
	switch data[0] {
	case tagInt:
		if len(data) < 5 {
			return nil, errs.New(errs.BadFormat, "truncated serialized integer")
		}
		return IntLiteral{Value: int32(binary.LittleEndian.Uint32(data[1:5]))}, nil
	case tagStr:
		if len(data) < 5 {
			return nil, errs.New(errs.BadFormat, "truncated serialized string header")
		}
		n := int(binary.LittleEndian.Uint32(data[1:5]))
		if len(data) < 5+n {
			return nil, errs.New(errs.BadFormat, "truncated serialized string body")
		}
		return StrLiteral{Value: string(data[5 : 5+n])}, nil
	default:
		return nil, errs.New(errs.BadFormat, "unknown serialized expression tag %d", data[0])
	}
}

// DebugString renders a human-readable form of the expression tree.
func DebugString(n Node) string {
	switch v := n.(type) {
	case IntLiteral:
		return fmt.Sprintf("%d", v.Value)
	case StrLiteral:
		return fmt.Sprintf("%q", v.Value)
	case StoreRegisterRef:
		return "store_reg"
	case *MemoryRef:
		return fmt.Sprintf("bank%d[%s]", v.Bank, DebugString(v.Index))
	case *SimpleMemoryRef:
		return fmt.Sprintf("bank%d[%d]", v.Bank, v.Index)
	case *Unary:
		return fmt.Sprintf("-%s", DebugString(v.Operand))
	case *Binary:
		return fmt.Sprintf("(%s %s %s)", DebugString(v.Left), opSymbol(v.Op), DebugString(v.Right))
	case *SimpleAssign:
		if v.IsStr {
			return fmt.Sprintf("bank%d[%d] = %q", v.Bank, v.Index, v.StrVal)
		}
		return fmt.Sprintf("bank%d[%d] = %d", v.Bank, v.Index, v.IntVal)
	case *Complex:
		return fmt.Sprintf("complex(%d)", len(v.Items))
	case *Special:
		return fmt.Sprintf("special(%d, %d)", v.Tag, len(v.Items))
	default:
		return "<?>"
	}
}

func opSymbol(op Op) string {
	switch op {
	case OpAdd, OpAddAssign:
		return "+"
	case OpSub, OpSubAssign:
		return "-"
	case OpMul, OpMulAssign:
		return "*"
	case OpDiv, OpDivAssign:
		return "/"
	case OpMod, OpModAssign:
		return "%"
	case OpAssign:
		return "="
	case OpEqual:
		return "=="
	case OpNotEqual:
		return "!="
	case OpLess:
		return "<"
	case OpLessEqual:
		return "<="
	case OpGreater:
		return ">"
	case OpGreaterEqual:
		return ">="
	case OpLogicalAnd:
		return "&&"
	case OpLogicalOr:
		return "||"
	default:
		return "?"
	}
}
