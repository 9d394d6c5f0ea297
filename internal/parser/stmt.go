package parser

import (
	"github.com/rickyang/rick/internal/ast"
	"github.com/rickyang/rick/internal/diag"
	"github.com/rickyang/rick/internal/token"
	"github.com/rickyang/rick/internal/types"
)

// parseStmt dispatches on the lookahead per spec.md §4.3's statement
// table. The body of a `func` is always a Block in well-formed input,
// but any statement is syntactically accepted, matching the spec.
func (p *Parser) parseStmt() (ast.Node, *diag.Error) {
	switch p.cur().Kind {
	case token.LBrace:
		return p.parseBlock()
	case token.If:
		return p.parseIf()
	case token.While:
		return p.parseWhile()
	case token.Let:
		return p.parseLet()
	case token.Var:
		return p.parseVarDecl()
	case token.Identifier:
		return p.parseCallStmt()
	case token.Read:
		return p.parseRead()
	case token.Print:
		return p.parsePrint()
	case token.Return:
		return p.parseReturn()
	default:
		return nil, diag.New(diag.Expected, p.pos(), "expected a statement, found %q", p.cur().String())
	}
}

// parseBlock enforces lexical scoping: names bound inside the block
// are invisible once it exits (spec.md §3 invariant on local offsets).
func (p *Parser) parseBlock() (ast.Node, *diag.Error) {
	pos := p.pos()
	if _, err := p.expect(token.LBrace); err != nil {
		return nil, err
	}
	snapshot := p.locals.Len()
	var stmts []ast.Node
	for !p.at(token.RBrace) && !p.at(token.Eof) {
		stmt, err := p.parseStmt()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}
	if _, err := p.expect(token.RBrace); err != nil {
		return nil, err
	}
	p.locals.Truncate(snapshot)
	return ast.NewBlock(pos, stmts), nil
}

func (p *Parser) parseIf() (ast.Node, *diag.Error) {
	pos := p.pos()
	p.advance() // 'if'

	cond, condType, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if condType != types.BooleanBit {
		return nil, diag.New(diag.TypeMismatch, pos, "if condition must be boolean, got %s", condType)
	}
	body, err := p.parseStmt()
	if err != nil {
		return nil, err
	}
	branches := []ast.IfBranch{{Cond: cond, Body: body}}

	for p.at(token.Elif) {
		elifPos := p.pos()
		p.advance()
		c, ct, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if ct != types.BooleanBit {
			return nil, diag.New(diag.TypeMismatch, elifPos, "elif condition must be boolean, got %s", ct)
		}
		b, err := p.parseStmt()
		if err != nil {
			return nil, err
		}
		branches = append(branches, ast.IfBranch{Cond: c, Body: b})
	}

	var elseCase ast.Node
	if p.at(token.Else) {
		p.advance()
		elseCase, err = p.parseStmt()
		if err != nil {
			return nil, err
		}
	}

	return ast.NewIf(pos, branches, elseCase), nil
}

func (p *Parser) parseWhile() (ast.Node, *diag.Error) {
	pos := p.pos()
	p.advance() // 'while'
	cond, condType, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if condType != types.BooleanBit {
		return nil, diag.New(diag.TypeMismatch, pos, "while condition must be boolean, got %s", condType)
	}
	body, err := p.parseStmt()
	if err != nil {
		return nil, err
	}
	return ast.NewWhile(pos, cond, body), nil
}

func (p *Parser) parseVarDecl() (ast.Node, *diag.Error) {
	pos := p.pos()
	p.advance() // 'var'
	typ, err := p.parseTypeSpec()
	if err != nil {
		return nil, err
	}
	var names []string
	for {
		idTok, err := p.expect(token.Identifier)
		if err != nil {
			return nil, err
		}
		names = append(names, idTok.Text)
		if p.at(token.Comma) {
			p.advance()
			continue
		}
		break
	}
	if _, err := p.expect(token.Semicolon); err != nil {
		return nil, err
	}
	for _, n := range names {
		if _, ok := p.locals.Bind(n, typ); !ok {
			return nil, diag.New(diag.Expected, pos, "%q is already declared in this scope", n)
		}
	}
	return ast.NewVarDef(pos, names), nil
}

// parseLet implements `let ID ([EXPR])? = (array simple | expr);`
// (spec.md §4.3). The array-allocation branch requires the target
// slot's type to carry the Array bit — the fixed form of the source's
// "tipe | ARRAY == 0" always-false check (spec.md §9).
func (p *Parser) parseLet() (ast.Node, *diag.Error) {
	pos := p.pos()
	p.advance() // 'let'
	idTok, err := p.expect(token.Identifier)
	if err != nil {
		return nil, err
	}
	props, ok := p.locals.Lookup(idTok.Text)
	if !ok {
		return nil, errUnresolved(pos, "variable", idTok.Text, p.locals.Names())
	}
	tipe := props.Type

	var indexNode ast.Node
	if p.at(token.LBracket) {
		lb := p.pos()
		p.advance()
		if !tipe.Has(types.ArrayBit) {
			return nil, diag.New(diag.TypeMismatch, lb, "cannot index non-array %q", idTok.Text)
		}
		idx, idxType, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if idxType != types.IntegerBit {
			return nil, diag.New(diag.TypeMismatch, lb, "array index must be integer, got %s", idxType)
		}
		if _, err := p.expect(token.RBracket); err != nil {
			return nil, err
		}
		indexNode = idx
		tipe = tipe.WithoutArray()
	}

	if _, err := p.expect(token.Assign); err != nil {
		return nil, err
	}

	var rhs ast.Node
	var rhsType types.Code
	isArray := false
	if p.at(token.Array) {
		arrPos := p.pos()
		if !tipe.Has(types.ArrayBit) {
			return nil, diag.New(diag.TypeMismatch, arrPos, "%q is not an array; cannot allocate with 'array'", idTok.Text)
		}
		p.advance()
		lengthExpr, lengthType, err := p.parseSimple()
		if err != nil {
			return nil, err
		}
		if lengthType != types.IntegerBit {
			return nil, diag.New(diag.TypeMismatch, arrPos, "array length must be integer, got %s", lengthType)
		}
		rhs = lengthExpr
		isArray = true
		rhsType = tipe
	} else {
		e, t, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		rhs = e
		rhsType = t
	}

	if rhsType != tipe {
		return nil, diag.New(diag.TypeMismatch, pos, "cannot assign %s to %q of type %s", rhsType, idTok.Text, tipe)
	}

	if _, err := p.expect(token.Semicolon); err != nil {
		return nil, err
	}
	return ast.NewLet(pos, props.Offset, indexNode, isArray, rhs), nil
}

// parseCallStmt parses an identifier-led statement: a procedure call.
// The callee must resolve to a FUNC-only descriptor (no return value).
func (p *Parser) parseCallStmt() (ast.Node, *diag.Error) {
	pos := p.pos()
	nameTok := p.advance()
	name := nameTok.Text
	if _, err := p.expect(token.LParen); err != nil {
		return nil, err
	}
	args, argTypes, err := p.parseArgs()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RParen); err != nil {
		return nil, err
	}
	if _, err := p.expect(token.Semicolon); err != nil {
		return nil, err
	}
	props, ok := p.symtab.Lookup(name)
	if !ok {
		return nil, errUnresolved(pos, "function", name, p.symtab.Names())
	}
	if !props.Type.IsFunc() {
		return nil, diag.New(diag.TypeMismatch, pos, "%q is not callable", name)
	}
	if props.Type.WithoutFunc() != types.None {
		return nil, diag.New(diag.TypeMismatch, pos, "%q returns a value; its result must be used in an expression, not called as a statement", name)
	}
	if err := checkCallArgs(pos, name, props.Params, argTypes); err != nil {
		return nil, err
	}
	return ast.NewCall(pos, name, args), nil
}

func (p *Parser) parseRead() (ast.Node, *diag.Error) {
	pos := p.pos()
	p.advance() // 'read'
	if _, err := p.expect(token.LParen); err != nil {
		return nil, err
	}
	idTok, err := p.expect(token.Identifier)
	if err != nil {
		return nil, err
	}
	props, ok := p.locals.Lookup(idTok.Text)
	if !ok {
		return nil, errUnresolved(pos, "variable", idTok.Text, p.locals.Names())
	}
	var indexNode ast.Node
	scalar := props.Type
	if p.at(token.LBracket) {
		lb := p.pos()
		p.advance()
		if !props.Type.Has(types.ArrayBit) {
			return nil, diag.New(diag.TypeMismatch, lb, "cannot index non-array %q", idTok.Text)
		}
		idx, idxType, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if idxType != types.IntegerBit {
			return nil, diag.New(diag.TypeMismatch, lb, "array index must be integer, got %s", idxType)
		}
		if _, err := p.expect(token.RBracket); err != nil {
			return nil, err
		}
		indexNode = idx
		scalar = props.Type.WithoutArray()
	}
	if _, err := p.expect(token.RParen); err != nil {
		return nil, err
	}
	if _, err := p.expect(token.Semicolon); err != nil {
		return nil, err
	}
	return ast.NewRead(pos, props.Offset, indexNode, scalar), nil
}

func (p *Parser) parsePrint() (ast.Node, *diag.Error) {
	pos := p.pos()
	p.advance() // 'print'
	if _, err := p.expect(token.LParen); err != nil {
		return nil, err
	}
	item, _, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	items := []ast.Node{item}
	for p.at(token.Diamond) {
		p.advance()
		it, _, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	if _, err := p.expect(token.RParen); err != nil {
		return nil, err
	}
	if _, err := p.expect(token.Semicolon); err != nil {
		return nil, err
	}
	return ast.NewPrint(pos, items), nil
}

// parseReturn requires an expression exactly when the enclosing
// function has a non-NONE return type, and requires its type to match.
func (p *Parser) parseReturn() (ast.Node, *diag.Error) {
	pos := p.pos()
	p.advance() // 'return'
	var expr ast.Node
	if p.currentRetType != types.None {
		e, t, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if t != p.currentRetType {
			return nil, diag.New(diag.TypeMismatch, pos, "return type mismatch: function returns %s, got %s", p.currentRetType, t)
		}
		expr = e
	} else if token.StartsExpression(p.cur().Kind) {
		return nil, diag.New(diag.TypeMismatch, pos, "procedure has no return type but 'return' supplies a value")
	}
	if _, err := p.expect(token.Semicolon); err != nil {
		return nil, err
	}
	return ast.NewReturn(pos, expr), nil
}
