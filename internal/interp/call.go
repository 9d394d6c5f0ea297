package interp

import (
	"github.com/rickyang/rick/internal/ast"
	"github.com/rickyang/rick/internal/diag"
	"github.com/rickyang/rick/internal/types"
	"github.com/rickyang/rick/internal/value"
)

// evalCall evaluates a function/procedure invocation: arguments are
// evaluated left-to-right in the caller's frame, collected into a new
// frame, and the callee's body runs against that frame (spec.md §4.4).
// A procedure call yields value.None.
func (in *Interp) evalCall(c *ast.Call) (value.Value, *diag.Fault) {
	fd, ok := in.funcs[c.Name]
	if !ok {
		return value.None, in.fault("call to undefined function %q", c.Name)
	}

	args := make([]value.Value, len(c.Args))
	for i, a := range c.Args {
		v, _, fault := in.evalExpr(a)
		if fault != nil {
			return value.None, fault
		}
		args[i] = v.Clone()
	}

	f := make(frame, len(args))
	copy(f, args)
	in.frames = append(in.frames, f)
	in.depth++
	in.logger.Debug("call", "func", c.Name, "depth", in.depth)

	result, unwound, fault := in.evalStmt(fd.Body)
	in.logger.Debug("return", "func", c.Name, "depth", in.depth)

	in.depth--
	in.frames = in.frames[:len(in.frames)-1]
	if fault != nil {
		return value.None, fault
	}
	if fd.RetType != types.None && !unwound {
		return value.None, in.fault("function %q completed without returning a value", c.Name)
	}
	if !unwound {
		return value.None, nil
	}
	return result, nil
}
