package expr

import "sentra/internal/errs"

// EvalInt evaluates n as an integer. Fails with TypeMismatch if n is
// string-valued.
func EvalInt(n Node, env Env) (int32, error) {
	switch v := n.(type) {
	case IntLiteral:
		return v.Value, nil
	case StrLiteral:
		return 0, errs.New(errs.TypeMismatch, "string literal used in integer context")
	case StoreRegisterRef:
		return env.StoreRegister(), nil
	case *MemoryRef:
		if v.IsStr {
			return 0, errs.New(errs.TypeMismatch, "string bank %d referenced in integer context", v.Bank)
		}
		idx, err := EvalInt(v.Index, env)
		if err != nil {
			return 0, err
		}
		return env.ReadInt(v.Bank, int(idx))
	case *SimpleMemoryRef:
		if v.IsStr {
			return 0, errs.New(errs.TypeMismatch, "string bank %d referenced in integer context", v.Bank)
		}
		return env.ReadInt(v.Bank, v.Index)
	case *Unary:
		operand, err := EvalInt(v.Operand, env)
		if err != nil {
			return 0, err
		}
		if v.Op != OpNeg {
			return 0, errs.New(errs.TypeMismatch, "unsupported unary operator")
		}
		return -operand, nil
	case *Binary:
		return evalBinaryInt(v, env)
	case *SimpleAssign:
		if v.IsStr {
			return 0, errs.New(errs.TypeMismatch, "string assignment used in integer context")
		}
		if err := env.WriteInt(v.Bank, v.Index, v.IntVal); err != nil {
			return 0, err
		}
		return v.IntVal, nil
	case *Complex:
		if len(v.Items) == 1 {
			return EvalInt(v.Items[0], env)
		}
		return 0, errs.New(errs.TypeMismatch, "complex expression with %d children has no scalar value", len(v.Items))
	case *Special:
		if len(v.Items) == 1 {
			return EvalInt(v.Items[0], env)
		}
		return 0, errs.New(errs.TypeMismatch, "special expression with %d children has no scalar value", len(v.Items))
	default:
		return 0, errs.New(errs.TypeMismatch, "unknown expression node")
	}
}

// EvalStr evaluates n as a string. Fails with TypeMismatch if n is
// integer-valued.
func EvalStr(n Node, env Env) (string, error) {
	switch v := n.(type) {
	case StrLiteral:
		return v.Value, nil
	case *MemoryRef:
		if !v.IsStr {
			return "", errs.New(errs.TypeMismatch, "int bank %d referenced in string context", v.Bank)
		}
		idx, err := EvalInt(v.Index, env)
		if err != nil {
			return "", err
		}
		return env.ReadStr(v.Bank, int(idx))
	case *SimpleMemoryRef:
		if !v.IsStr {
			return "", errs.New(errs.TypeMismatch, "int bank %d referenced in string context", v.Bank)
		}
		return env.ReadStr(v.Bank, v.Index)
	case *SimpleAssign:
		if !v.IsStr {
			return "", errs.New(errs.TypeMismatch, "int assignment used in string context")
		}
		if err := env.WriteStr(v.Bank, v.Index, v.StrVal); err != nil {
			return "", err
		}
		return v.StrVal, nil
	case *Complex:
		if len(v.Items) == 1 {
			return EvalStr(v.Items[0], env)
		}
		return "", errs.New(errs.TypeMismatch, "complex expression with %d children has no scalar value", len(v.Items))
	case *Special:
		if len(v.Items) == 1 {
			return EvalStr(v.Items[0], env)
		}
		return "", errs.New(errs.TypeMismatch, "special expression with %d children has no scalar value", len(v.Items))
	default:
		return "", errs.New(errs.TypeMismatch, "expression node is not string-valued")
	}
}

func evalBinaryInt(b *Binary, env Env) (int32, error) {
	if b.Op == OpAssign {
		rhs, err := EvalInt(b.Right, env)
		if err != nil {
			return 0, err
		}
		return rhs, AssignInt(b.Left, env, rhs)
	}
	if base, ok := compoundBase(b.Op); ok {
		// Compound assignment reads the left operand before the right.
		lhs, err := EvalInt(b.Left, env)
		if err != nil {
			return 0, err
		}
		rhs, err := EvalInt(b.Right, env)
		if err != nil {
			return 0, err
		}
		result := applyArith(base, lhs, rhs)
		return result, AssignInt(b.Left, env, result)
	}
	lhs, err := EvalInt(b.Left, env)
	if err != nil {
		return 0, err
	}
	rhs, err := EvalInt(b.Right, env)
	if err != nil {
		return 0, err
	}
	return applyArith(b.Op, lhs, rhs), nil
}

// AssignInt assigns an integer value through an lvalue node. Fails with
// NotAnLvalue on any other node kind.
func AssignInt(n Node, env Env, value int32) error {
	switch v := n.(type) {
	case StoreRegisterRef:
		env.SetStoreRegister(value)
		return nil
	case *MemoryRef:
		idx, err := EvalInt(v.Index, env)
		if err != nil {
			return err
		}
		return env.WriteInt(v.Bank, int(idx), value)
	case *SimpleMemoryRef:
		return env.WriteInt(v.Bank, v.Index, value)
	case *Complex:
		if len(v.Items) == 1 {
			return AssignInt(v.Items[0], env, value)
		}
	}
	return errs.New(errs.NotAnLvalue, "node is not assignable")
}

// AssignStr assigns a string value through an lvalue node.
func AssignStr(n Node, env Env, value string) error {
	switch v := n.(type) {
	case *MemoryRef:
		idx, err := EvalInt(v.Index, env)
		if err != nil {
			return err
		}
		return env.WriteStr(v.Bank, int(idx), value)
	case *SimpleMemoryRef:
		return env.WriteStr(v.Bank, v.Index, value)
	case *Complex:
		if len(v.Items) == 1 {
			return AssignStr(v.Items[0], env, value)
		}
	}
	return errs.New(errs.NotAnLvalue, "node is not assignable")
}
