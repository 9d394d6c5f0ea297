// Package interp implements rick's tree-walking evaluator (spec.md
// §4.4). Each node-evaluation method returns the Value it produced
// together with an "unwind" flag that signals a return statement is
// propagating outward, instead of pushing/popping a shared value
// stack (SPEC_FULL.md's chosen evaluator shape, grounded on
// original_source/src/walker.rs's unwinding boolean).
package interp

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"

	"github.com/rickyang/rick/internal/ast"
	"github.com/rickyang/rick/internal/diag"
	"github.com/rickyang/rick/internal/value"
)

// frame is one function activation: parameter and local-variable slots,
// indexed by the parser-assigned offsets.
type frame []value.Value

// Interp holds the evaluator's mutable runtime state: the call stack,
// the top-level function table, and the program's I/O streams.
type Interp struct {
	funcs  map[string]*ast.Funcdef
	frames []frame

	stdin  *bufio.Reader
	stdout io.Writer
	logger *slog.Logger

	fingerprint string // optional, set via WithFingerprint for fault correlation
	depth       int
}

// New builds an Interp over a parsed program. A nil logger disables
// trace-eval output; stdout/stdin default to os.Stdout/os.Stdin-shaped
// streams supplied by the caller (cmd/rick wires the real ones).
func New(top *ast.Toplevel, stdin io.Reader, stdout io.Writer, logger *slog.Logger) *Interp {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(discard{}, &slog.HandlerOptions{Level: slog.LevelError + 1}))
	}
	funcs := make(map[string]*ast.Funcdef, len(top.Funcs))
	for _, fd := range top.Funcs {
		funcs[fd.Name] = fd
	}
	return &Interp{
		funcs:  funcs,
		stdin:  bufio.NewReader(stdin),
		stdout: stdout,
		logger: logger,
	}
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }

// WithFingerprint attaches a source fingerprint (diag.Fingerprint) so
// any fault this Interp reports can be correlated back to the exact
// source text that produced it (SPEC_FULL.md §7 augmentation).
func (in *Interp) WithFingerprint(fp string) *Interp {
	in.fingerprint = fp
	return in
}

func (in *Interp) fault(format string, args ...any) *diag.Fault {
	return &diag.Fault{Message: fmt.Sprintf(format, args...), Fingerprint: in.fingerprint}
}

// Run locates `main`, seeds its single argument slot with argv as an
// Array(String), evaluates it, and returns the integer it returns as
// the process exit code (spec.md §6). A program without `main`, a
// `main` that never reaches a return, or one that returns a non-
// integer, all surface as a Fault rather than a panic.
func (in *Interp) Run(argv []string) (int, *diag.Fault) {
	main, ok := in.funcs["main"]
	if !ok {
		return 0, in.fault("program has no main function")
	}
	if len(main.Params) != 1 {
		return 0, in.fault("main must accept exactly one parameter (a string array of arguments), got %d", len(main.Params))
	}

	argvValues := make([]value.Value, len(argv))
	for i, a := range argv {
		argvValues[i] = value.String(a)
	}
	f := make(frame, 1)
	f[0] = value.ArrayOf(argvValues)
	in.frames = append(in.frames, f)

	in.logger.Debug("call", "func", "main", "depth", in.depth)
	result, unwound, fault := in.evalStmt(main.Body)
	in.logger.Debug("return", "func", "main", "depth", in.depth)
	in.frames = in.frames[:len(in.frames)-1]
	if fault != nil {
		return 0, fault
	}
	if !unwound {
		return 0, in.fault("main completed without returning a value")
	}
	if result.Kind() != value.IntegerKind {
		return 0, in.fault("main must return an integer exit code, got %s", result.TypeCode())
	}
	return int(result.Int()), nil
}

func (in *Interp) topFrame() frame {
	return in.frames[len(in.frames)-1]
}

func (in *Interp) setTopFrame(f frame) {
	in.frames[len(in.frames)-1] = f
}
