package parser

import (
	"github.com/rickyang/rick/internal/ast"
	"github.com/rickyang/rick/internal/diag"
	"github.com/rickyang/rick/internal/token"
	"github.com/rickyang/rick/internal/types"
	"github.com/rickyang/rick/internal/value"
)

// parseExpr implements `expr := simple [ relop expr ]` (spec.md §4.3)
// with type checking applied synchronously at every operator.
func (p *Parser) parseExpr() (ast.Node, types.Code, *diag.Error) {
	lhs, lhsType, err := p.parseSimple()
	if err != nil {
		return nil, types.None, err
	}
	if !token.IsRelationalOp(p.cur().Kind) {
		return lhs, lhsType, nil
	}
	opPos := p.pos()
	opTok := p.advance()
	rhs, rhsType, err := p.parseExpr()
	if err != nil {
		return nil, types.None, err
	}

	if token.IsOrderingOp(opTok.Kind) {
		if !lhsType.IsNumeric() || !rhsType.IsNumeric() {
			return nil, types.None, diag.New(diag.TypeMismatch, opPos, "ordering comparison requires numeric operands, got %s and %s", lhsType, rhsType)
		}
	} else { // == or !=
		bothNumeric := lhsType.IsNumeric() && rhsType.IsNumeric()
		if !bothNumeric && lhsType != rhsType {
			return nil, types.None, diag.New(diag.TypeMismatch, opPos, "equality requires matching types, got %s and %s", lhsType, rhsType)
		}
	}
	return ast.NewBinaryOp(opPos, lhs, opTok.Kind, rhs), types.BooleanBit, nil
}

// parseSimple implements `simple := ['-'] term { addop term }`.
func (p *Parser) parseSimple() (ast.Node, types.Code, *diag.Error) {
	pos := p.pos()
	negate := false
	if p.at(token.Minus) {
		p.advance()
		negate = true
	}
	node, typ, err := p.parseTerm()
	if err != nil {
		return nil, types.None, err
	}
	if negate {
		if !typ.IsNumeric() {
			return nil, types.None, diag.New(diag.TypeMismatch, pos, "unary '-' requires a numeric operand, got %s", typ)
		}
		node = ast.NewUnaryOp(pos, token.Minus, node)
	}

	for token.IsAdditiveOp(p.cur().Kind) {
		opPos := p.pos()
		opTok := p.advance()
		rhsNode, rhsType, err := p.parseTerm()
		if err != nil {
			return nil, types.None, err
		}
		resultType, terr := checkAdditive(opPos, opTok.Kind, typ, rhsType)
		if terr != nil {
			return nil, types.None, terr
		}
		node = ast.NewBinaryOp(opPos, node, opTok.Kind, rhsNode)
		typ = resultType
	}
	return node, typ, nil
}

func checkAdditive(pos token.Pos, op token.Kind, lhs, rhs types.Code) (types.Code, *diag.Error) {
	if lhs != rhs {
		return types.None, diag.New(diag.TypeMismatch, pos, "operands of %q must have the same type, got %s and %s", token.Token{Kind: op}.String(), lhs, rhs)
	}
	switch op {
	case token.Plus:
		if lhs == types.IntegerBit || lhs == types.FloatBit || lhs == types.StringBit {
			return lhs, nil
		}
		return types.None, diag.New(diag.TypeMismatch, pos, "'+' requires numeric or string operands, got %s", lhs)
	case token.Minus:
		if lhs.IsNumeric() {
			return lhs, nil
		}
		return types.None, diag.New(diag.TypeMismatch, pos, "'-' requires numeric operands, got %s", lhs)
	case token.Or:
		if lhs == types.BooleanBit {
			return types.BooleanBit, nil
		}
		return types.None, diag.New(diag.TypeMismatch, pos, "'or' requires boolean operands, got %s", lhs)
	}
	return types.None, diag.New(diag.TypeMismatch, pos, "unsupported additive operator")
}

// parseTerm implements `term := factor { mulop factor }`.
func (p *Parser) parseTerm() (ast.Node, types.Code, *diag.Error) {
	node, typ, err := p.parseFactor()
	if err != nil {
		return nil, types.None, err
	}
	for token.IsMultiplicativeOp(p.cur().Kind) {
		opPos := p.pos()
		opTok := p.advance()
		rhsNode, rhsType, err := p.parseFactor()
		if err != nil {
			return nil, types.None, err
		}
		resultType, terr := checkMultiplicative(opPos, opTok.Kind, typ, rhsType)
		if terr != nil {
			return nil, types.None, terr
		}
		node = ast.NewBinaryOp(opPos, node, opTok.Kind, rhsNode)
		typ = resultType
	}
	return node, typ, nil
}

func checkMultiplicative(pos token.Pos, op token.Kind, lhs, rhs types.Code) (types.Code, *diag.Error) {
	if lhs != rhs {
		return types.None, diag.New(diag.TypeMismatch, pos, "operands of %q must have the same type, got %s and %s", token.Token{Kind: op}.String(), lhs, rhs)
	}
	switch op {
	case token.Star, token.Slash:
		if lhs.IsNumeric() {
			return lhs, nil
		}
		return types.None, diag.New(diag.TypeMismatch, pos, "%q requires numeric operands, got %s", token.Token{Kind: op}.String(), lhs)
	case token.And:
		if lhs == types.BooleanBit {
			return types.BooleanBit, nil
		}
		return types.None, diag.New(diag.TypeMismatch, pos, "'and' requires boolean operands, got %s", lhs)
	}
	return types.None, diag.New(diag.TypeMismatch, pos, "unsupported multiplicative operator")
}

// parseFactor implements `factor := base { '**' base }`, right-
// associative.
func (p *Parser) parseFactor() (ast.Node, types.Code, *diag.Error) {
	node, typ, err := p.parseBaseExpr()
	if err != nil {
		return nil, types.None, err
	}
	if p.at(token.StarStar) {
		opPos := p.pos()
		p.advance()
		rhsNode, rhsType, err := p.parseFactor()
		if err != nil {
			return nil, types.None, err
		}
		if typ != types.IntegerBit || rhsType != types.IntegerBit {
			return nil, types.None, diag.New(diag.TypeMismatch, opPos, "'**' requires integer operands, got %s and %s", typ, rhsType)
		}
		return ast.NewBinaryOp(opPos, node, token.StarStar, rhsNode), types.IntegerBit, nil
	}
	return node, typ, nil
}

// parseBaseExpr implements the `base` production.
func (p *Parser) parseBaseExpr() (ast.Node, types.Code, *diag.Error) {
	pos := p.pos()
	switch p.cur().Kind {
	case token.Identifier:
		return p.parseIdentExpr(pos)
	case token.IntegerLiteral:
		v := p.advance().Int
		return ast.NewValueNode(pos, value.Integer(v)), types.IntegerBit, nil
	case token.FloatLiteral:
		v := p.advance().Float
		return ast.NewValueNode(pos, value.Float(v)), types.FloatBit, nil
	case token.StringLiteral:
		v := p.advance().Text
		return ast.NewValueNode(pos, value.String(v)), types.StringBit, nil
	case token.True:
		p.advance()
		return ast.NewValueNode(pos, value.Boolean(true)), types.BooleanBit, nil
	case token.False:
		p.advance()
		return ast.NewValueNode(pos, value.Boolean(false)), types.BooleanBit, nil
	case token.LParen:
		p.advance()
		inner, typ, err := p.parseExpr()
		if err != nil {
			return nil, types.None, err
		}
		if _, err := p.expect(token.RParen); err != nil {
			return nil, types.None, err
		}
		return inner, typ, nil
	case token.Bang:
		p.advance()
		v, typ, err := p.parseBaseExpr()
		if err != nil {
			return nil, types.None, err
		}
		if typ != types.BooleanBit {
			return nil, types.None, diag.New(diag.TypeMismatch, pos, "unary '!' requires a boolean operand, got %s", typ)
		}
		return ast.NewUnaryOp(pos, token.Bang, v), types.BooleanBit, nil
	default:
		return nil, types.None, diag.New(diag.Expected, pos, "expected an expression, found %q", p.cur().String())
	}
}

func (p *Parser) parseIdentExpr(pos token.Pos) (ast.Node, types.Code, *diag.Error) {
	name := p.advance().Text

	if p.at(token.LParen) {
		p.advance()
		args, argTypes, err := p.parseArgs()
		if err != nil {
			return nil, types.None, err
		}
		if _, err := p.expect(token.RParen); err != nil {
			return nil, types.None, err
		}
		props, ok := p.symtab.Lookup(name)
		if !ok {
			return nil, types.None, errUnresolved(pos, "function", name, p.symtab.Names())
		}
		if !props.Type.IsFunc() {
			return nil, types.None, diag.New(diag.TypeMismatch, pos, "%q is not callable", name)
		}
		if err := checkCallArgs(pos, name, props.Params, argTypes); err != nil {
			return nil, types.None, err
		}
		return ast.NewCall(pos, name, args), props.Type.WithoutFunc(), nil
	}

	if p.at(token.LBracket) {
		p.advance()
		idx, idxType, err := p.parseExpr()
		if err != nil {
			return nil, types.None, err
		}
		if idxType != types.IntegerBit {
			return nil, types.None, diag.New(diag.TypeMismatch, pos, "array index must be integer, got %s", idxType)
		}
		if _, err := p.expect(token.RBracket); err != nil {
			return nil, types.None, err
		}
		props, ok := p.locals.Lookup(name)
		if !ok {
			return nil, types.None, errUnresolved(pos, "variable", name, p.locals.Names())
		}
		if !props.Type.Has(types.ArrayBit) {
			return nil, types.None, diag.New(diag.TypeMismatch, pos, "cannot index non-array %q", name)
		}
		return ast.NewGetIndex(pos, name, props.Offset, idx), props.Type.WithoutArray(), nil
	}

	props, ok := p.locals.Lookup(name)
	if !ok {
		return nil, types.None, errUnresolved(pos, "variable", name, p.locals.Names())
	}
	return ast.NewGetVar(pos, name, props.Offset), props.Type, nil
}

// parseArgs parses a comma-separated call-argument list up to (but not
// consuming) the closing ')'.
func (p *Parser) parseArgs() ([]ast.Node, []types.Code, *diag.Error) {
	var args []ast.Node
	var argTypes []types.Code
	if p.at(token.RParen) {
		return args, argTypes, nil
	}
	for {
		a, t, err := p.parseExpr()
		if err != nil {
			return nil, nil, err
		}
		args = append(args, a)
		argTypes = append(argTypes, t)
		if p.at(token.Comma) {
			p.advance()
			continue
		}
		break
	}
	return args, argTypes, nil
}

// checkCallArgs enforces exact arity and per-position type equality
// against a callee's formal parameters (spec.md §3 invariant).
func checkCallArgs(pos token.Pos, name string, params []types.Param, argTypes []types.Code) *diag.Error {
	if len(argTypes) != len(params) {
		return diag.New(diag.TypeMismatch, pos, "%q expects %d argument(s), got %d", name, len(params), len(argTypes))
	}
	for i, param := range params {
		if argTypes[i] != param.Type {
			return diag.New(diag.TypeMismatch, pos, "argument %d of %q: expected %s, got %s", i+1, name, param.Type, argTypes[i])
		}
	}
	return nil
}
