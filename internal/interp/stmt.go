package interp

import (
	"strings"

	"github.com/rickyang/rick/internal/ast"
	"github.com/rickyang/rick/internal/diag"
	"github.com/rickyang/rick/internal/value"
)

// evalStmt evaluates a statement node. The returned Value is only
// meaningful when unwound is true, in which case it is the operand of
// the return statement that is propagating out through enclosing
// blocks, ifs, and whiles.
func (in *Interp) evalStmt(n ast.Node) (value.Value, bool, *diag.Fault) {
	switch s := n.(type) {
	case *ast.Block:
		return in.evalBlock(s)
	case *ast.If:
		return in.evalIf(s)
	case *ast.While:
		return in.evalWhile(s)
	case *ast.VarDef:
		f := in.topFrame()
		for i := 0; i < s.Count; i++ {
			f = append(f, value.None)
		}
		in.setTopFrame(f)
		return value.None, false, nil
	case *ast.Let:
		return in.evalLet(s)
	case *ast.Read:
		return in.evalRead(s)
	case *ast.Print:
		return in.evalPrint(s)
	case *ast.Return:
		if s.Expr == nil {
			return value.None, true, nil
		}
		v, _, fault := in.evalExpr(s.Expr)
		if fault != nil {
			return value.None, false, fault
		}
		return v, true, nil
	case *ast.Call:
		_, fault := in.evalCall(s)
		if fault != nil {
			return value.None, false, fault
		}
		return value.None, false, nil
	default:
		return value.None, false, in.fault("internal error: %T is not a statement node", n)
	}
}

func (in *Interp) evalBlock(b *ast.Block) (value.Value, bool, *diag.Fault) {
	snapshot := len(in.topFrame())
	for _, stmt := range b.Stmts {
		v, unwound, fault := in.evalStmt(stmt)
		if fault != nil {
			return value.None, false, fault
		}
		if unwound {
			in.truncateFrame(snapshot)
			return v, true, nil
		}
	}
	in.truncateFrame(snapshot)
	return value.None, false, nil
}

func (in *Interp) truncateFrame(n int) {
	f := in.topFrame()
	in.setTopFrame(f[:n])
}

func (in *Interp) evalIf(node *ast.If) (value.Value, bool, *diag.Fault) {
	for _, br := range node.Branches {
		cond, _, fault := in.evalExpr(br.Cond)
		if fault != nil {
			return value.None, false, fault
		}
		if cond.Truthy() {
			return in.evalStmt(br.Body)
		}
	}
	if node.Else != nil {
		return in.evalStmt(node.Else)
	}
	return value.None, false, nil
}

func (in *Interp) evalWhile(node *ast.While) (value.Value, bool, *diag.Fault) {
	for {
		cond, _, fault := in.evalExpr(node.Cond)
		if fault != nil {
			return value.None, false, fault
		}
		if !cond.Truthy() {
			return value.None, false, nil
		}
		v, unwound, fault := in.evalStmt(node.Body)
		if fault != nil {
			return value.None, false, fault
		}
		if unwound {
			return v, true, nil
		}
	}
}

// evalLet implements the three Let shapes: scalar assignment, indexed
// element assignment, and `array LEN` allocation. The RHS (or, for an
// allocation, the length expression) is always evaluated before the
// index, matching spec.md §4.4's node-semantics table.
func (in *Interp) evalLet(l *ast.Let) (value.Value, bool, *diag.Fault) {
	rhs, _, fault := in.evalExpr(l.Rhs)
	if fault != nil {
		return value.None, false, fault
	}

	f := in.topFrame()
	if l.IsArray {
		f[l.Offset] = value.Array(rhs.Int())
		return value.None, false, nil
	}
	if l.Index != nil {
		idx, _, fault := in.evalExpr(l.Index)
		if fault != nil {
			return value.None, false, fault
		}
		arr := f[l.Offset]
		i := idx.Int()
		if i < 0 || i >= arr.Len() {
			return value.None, false, in.fault("array index %d out of bounds (length %d)", i, arr.Len())
		}
		arr.SetElem(i, rhs)
		return value.None, false, nil
	}
	f[l.Offset] = rhs.Clone()
	return value.None, false, nil
}

func (in *Interp) evalRead(r *ast.Read) (value.Value, bool, *diag.Fault) {
	line, err := in.stdin.ReadString('\n')
	if err != nil && line == "" {
		return value.None, false, in.fault("read: %s", err)
	}
	line = strings.TrimRight(line, "\r\n")

	v, err := value.ParseInto(line, r.Scalar)
	if err != nil {
		return value.None, false, in.fault("read: %s", err)
	}

	f := in.topFrame()
	if r.Index != nil {
		idx, _, fault := in.evalExpr(r.Index)
		if fault != nil {
			return value.None, false, fault
		}
		arr := f[r.Offset]
		i := idx.Int()
		if i < 0 || i >= arr.Len() {
			return value.None, false, in.fault("array index %d out of bounds (length %d)", i, arr.Len())
		}
		arr.SetElem(i, v)
		return value.None, false, nil
	}
	f[r.Offset] = v
	return value.None, false, nil
}

// evalPrint writes each item's Display-form to stdout in sequence with
// no separator and no trailing newline (spec.md §4.4, §6).
func (in *Interp) evalPrint(p *ast.Print) (value.Value, bool, *diag.Fault) {
	for _, item := range p.Items {
		v, _, fault := in.evalExpr(item)
		if fault != nil {
			return value.None, false, fault
		}
		in.stdout.Write([]byte(v.String()))
	}
	return value.None, false, nil
}
