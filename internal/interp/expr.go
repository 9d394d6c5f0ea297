package interp

import (
	"github.com/rickyang/rick/internal/ast"
	"github.com/rickyang/rick/internal/diag"
	"github.com/rickyang/rick/internal/token"
	"github.com/rickyang/rick/internal/value"
)

// evalExpr evaluates an expression node to one Value. The bool result
// is always false here; it exists so expr nodes share evalStmt's
// signature and can be dispatched from either evaluator.
func (in *Interp) evalExpr(n ast.Node) (value.Value, bool, *diag.Fault) {
	switch e := n.(type) {
	case *ast.ValueNode:
		return e.Val, false, nil
	case *ast.GetVar:
		return in.topFrame()[e.Offset].Clone(), false, nil
	case *ast.GetIndex:
		idx, _, fault := in.evalExpr(e.Idx)
		if fault != nil {
			return value.None, false, fault
		}
		arr := in.topFrame()[e.Offset]
		i := idx.Int()
		if i < 0 || i >= arr.Len() {
			return value.None, false, in.fault("array index %d out of bounds (length %d)", i, arr.Len())
		}
		return arr.Elem(i), false, nil
	case *ast.UnaryOp:
		return in.evalUnary(e)
	case *ast.BinaryOp:
		return in.evalBinary(e)
	case *ast.Call:
		v, fault := in.evalCall(e)
		return v, false, fault
	default:
		return value.None, false, in.fault("internal error: %T is not an expression node", n)
	}
}

func (in *Interp) evalUnary(u *ast.UnaryOp) (value.Value, bool, *diag.Fault) {
	v, _, fault := in.evalExpr(u.Value)
	if fault != nil {
		return value.None, false, fault
	}
	var result value.Value
	var err error
	switch u.Op {
	case token.Minus:
		result, err = value.Negate(v)
	case token.Bang:
		result, err = value.Not(v)
	default:
		return value.None, false, in.fault("internal error: unsupported unary operator")
	}
	if err != nil {
		return value.None, false, in.fault("%s", err)
	}
	return result, false, nil
}

// evalBinary evaluates lhs then (conditionally) rhs, strictly
// left-to-right (spec.md §9 preserved-semantics note). `and`/`or`
// short-circuit: the right operand is only evaluated when it can still
// change the result, fixing the source's undocumented and/or
// evaluator gap (spec.md §9).
func (in *Interp) evalBinary(b *ast.BinaryOp) (value.Value, bool, *diag.Fault) {
	if b.Op == token.And || b.Op == token.Or {
		lhs, _, fault := in.evalExpr(b.Lhs)
		if fault != nil {
			return value.None, false, fault
		}
		if b.Op == token.And && !lhs.Truthy() {
			return value.Boolean(false), false, nil
		}
		if b.Op == token.Or && lhs.Truthy() {
			return value.Boolean(true), false, nil
		}
		rhs, _, fault := in.evalExpr(b.Rhs)
		if fault != nil {
			return value.None, false, fault
		}
		return value.Boolean(rhs.Truthy()), false, nil
	}

	lhs, _, fault := in.evalExpr(b.Lhs)
	if fault != nil {
		return value.None, false, fault
	}
	rhs, _, fault := in.evalExpr(b.Rhs)
	if fault != nil {
		return value.None, false, fault
	}
	op, ok := mapOp(b.Op)
	if !ok {
		return value.None, false, in.fault("internal error: unsupported binary operator")
	}
	result, err := value.Binary(op, lhs, rhs)
	if err != nil {
		return value.None, false, in.fault("%s", err)
	}
	return result, false, nil
}

func mapOp(k token.Kind) (value.Op, bool) {
	switch k {
	case token.Plus:
		return value.Add, true
	case token.Minus:
		return value.Sub, true
	case token.Star:
		return value.Mul, true
	case token.Slash:
		return value.Div, true
	case token.Percent:
		return value.Mod, true
	case token.StarStar:
		return value.Pow, true
	case token.Eq:
		return value.CmpEq, true
	case token.NotEq:
		return value.CmpNotEq, true
	case token.Gt:
		return value.CmpGt, true
	case token.GtEq:
		return value.CmpGtEq, true
	case token.Lt:
		return value.CmpLt, true
	case token.LtEq:
		return value.CmpLtEq, true
	}
	return 0, false
}
