// Package ast defines rick's abstract syntax tree. Nodes are built once
// by the parser, owned by the evaluator, and traversed repeatedly
// without mutation (spec.md §3 "Lifecycles").
package ast

import (
	"github.com/rickyang/rick/internal/token"
	"github.com/rickyang/rick/internal/types"
	"github.com/rickyang/rick/internal/value"
)

// Node is the tagged-variant marker every AST node implements. Pos
// reports the node's source location; it is not required for
// correctness, and runtime-fault messages do not include it.
type Node interface {
	Pos() token.Pos
}

type base struct{ pos token.Pos }

func (b base) Pos() token.Pos { return b.pos }

// Toplevel is the root node: every function definition in the program.
type Toplevel struct {
	base
	Funcs []*Funcdef
}

func NewToplevel(pos token.Pos, funcs []*Funcdef) *Toplevel {
	return &Toplevel{base: base{pos}, Funcs: funcs}
}

// Funcdef is one `func NAME(...) [TYPE] BODY` definition.
type Funcdef struct {
	base
	Name    string
	Params  []types.Param
	RetType types.Code
	Body    Node
}

func NewFuncdef(pos token.Pos, name string, params []types.Param, ret types.Code, body Node) *Funcdef {
	return &Funcdef{base: base{pos}, Name: name, Params: params, RetType: ret, Body: body}
}

// Block is `{ stmt* }`. Evaluating it snapshots and truncates the
// current frame length to enforce lexical scoping (spec.md §4.4).
type Block struct {
	base
	Stmts []Node
}

func NewBlock(pos token.Pos, stmts []Node) *Block { return &Block{base: base{pos}, Stmts: stmts} }

// IfBranch is one `if`/`elif` condition-body pair.
type IfBranch struct {
	Cond Node
	Body Node
}

// If is `if EXPR STMT (elif EXPR STMT)* (else STMT)?`.
type If struct {
	base
	Branches []IfBranch
	Else     Node // nil when no else clause
}

func NewIf(pos token.Pos, branches []IfBranch, elseCase Node) *If {
	return &If{base: base{pos}, Branches: branches, Else: elseCase}
}

// While is `while EXPR STMT`.
type While struct {
	base
	Cond Node
	Body Node
}

func NewWhile(pos token.Pos, cond, body Node) *While { return &While{base: base{pos}, Cond: cond, Body: body} }

// VarDef is `var TYPE ID (, ID)*`. Offsets were already assigned by
// the parser at bind time; evaluating it only extends the frame with
// None slots.
type VarDef struct {
	base
	Names []string
	Count int
}

func NewVarDef(pos token.Pos, names []string) *VarDef {
	return &VarDef{base: base{pos}, Names: names, Count: len(names)}
}

// Let is an assignment: `let ID ([EXPR])? = (array EXPR | EXPR)`.
type Let struct {
	base
	Offset  int
	Index   Node // nil unless indexing into an array slot
	IsArray bool // true when RHS is `array LEN`
	Rhs     Node
}

func NewLet(pos token.Pos, offset int, index Node, isArray bool, rhs Node) *Let {
	return &Let{base: base{pos}, Offset: offset, Index: index, IsArray: isArray, Rhs: rhs}
}

// Call is a function or procedure invocation, used both as an
// expression (non-void callee) and as a statement (void callee).
type Call struct {
	base
	Name string
	Args []Node
}

func NewCall(pos token.Pos, name string, args []Node) *Call {
	return &Call{base: base{pos}, Name: name, Args: args}
}

// Read is `read(ID ([EXPR])?)`.
type Read struct {
	base
	Offset int
	Index  Node // nil unless reading into an array slot
	Scalar types.Code
}

func NewRead(pos token.Pos, offset int, index Node, scalar types.Code) *Read {
	return &Read{base: base{pos}, Offset: offset, Index: index, Scalar: scalar}
}

// Print is `print(EXPR (<> EXPR)*)`.
type Print struct {
	base
	Items []Node
}

func NewPrint(pos token.Pos, items []Node) *Print { return &Print{base: base{pos}, Items: items} }

// Return is `return [EXPR]`.
type Return struct {
	base
	Expr Node // nil for a bare `return;` in a procedure
}

func NewReturn(pos token.Pos, expr Node) *Return { return &Return{base: base{pos}, Expr: expr} }

// UnaryOp is prefix `-` or `!`.
type UnaryOp struct {
	base
	Op    token.Kind
	Value Node
}

func NewUnaryOp(pos token.Pos, op token.Kind, v Node) *UnaryOp {
	return &UnaryOp{base: base{pos}, Op: op, Value: v}
}

// BinaryOp is any relational/additive/multiplicative/exponent operator.
type BinaryOp struct {
	base
	Lhs Node
	Op  token.Kind
	Rhs Node
}

func NewBinaryOp(pos token.Pos, lhs Node, op token.Kind, rhs Node) *BinaryOp {
	return &BinaryOp{base: base{pos}, Lhs: lhs, Op: op, Rhs: rhs}
}

// GetVar reads a scalar or whole-array local by its resolved offset.
type GetVar struct {
	base
	Name   string
	Offset int
}

func NewGetVar(pos token.Pos, name string, offset int) *GetVar {
	return &GetVar{base: base{pos}, Name: name, Offset: offset}
}

// GetIndex reads one element of an array local.
type GetIndex struct {
	base
	Name   string
	Offset int
	Idx    Node
}

func NewGetIndex(pos token.Pos, name string, offset int, idx Node) *GetIndex {
	return &GetIndex{base: base{pos}, Name: name, Offset: offset, Idx: idx}
}

// ValueNode is a literal: an IntegerLiteral/FloatLiteral/StringLiteral/
// true/false folded directly into a runtime Value at parse time.
type ValueNode struct {
	base
	Val value.Value
}

func NewValueNode(pos token.Pos, v value.Value) *ValueNode {
	return &ValueNode{base: base{pos}, Val: v}
}
