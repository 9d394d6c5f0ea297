// Package parser implements rick's two-pass recursive-descent parser
// with an integrated type checker (spec.md §4.3). Pass 1 collects
// function signatures (enabling forward references); pass 2 builds the
// AST and enforces every type rule synchronously as it parses.
package parser

import (
	"log/slog"

	"github.com/rickyang/rick/internal/ast"
	"github.com/rickyang/rick/internal/diag"
	"github.com/rickyang/rick/internal/lexer"
	"github.com/rickyang/rick/internal/token"
	"github.com/rickyang/rick/internal/types"
)

// Parser holds the two-pass parsing state over one token vector.
type Parser struct {
	pairs  []lexer.Pair
	idx    int
	symtab *types.SymbolTable
	locals *types.LocalTable

	currentRetType types.Code
	logger         *slog.Logger
}

// New constructs a Parser over the scanner's output. A nil logger
// disables trace output.
func New(pairs []lexer.Pair, logger *slog.Logger) *Parser {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(discard{}, &slog.HandlerOptions{Level: slog.LevelError + 1}))
	}
	return &Parser{
		pairs:  pairs,
		symtab: types.NewSymbolTable(),
		locals: types.NewLocalTable(),
		logger: logger,
	}
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }

// Parse runs pass 1 (signature collection) then pass 2 (program) and
// returns the resulting AST, or the first diag.Error encountered.
// Parsing never recovers from an error; the caller must treat a
// non-nil error as fatal (spec.md §1, §7).
func (p *Parser) Parse() (*ast.Toplevel, *diag.Error) {
	if err := p.pass1(); err != nil {
		return nil, err
	}
	top, err := p.pass2()
	if err != nil {
		return nil, err
	}
	return top, nil
}

// SymbolTable exposes the populated global function table, e.g. for a
// `rick check` caller that wants to report resolved signatures.
func (p *Parser) SymbolTable() *types.SymbolTable { return p.symtab }

func (p *Parser) cur() token.Token {
	if p.idx >= len(p.pairs) {
		return token.Token{Kind: token.Eof}
	}
	return p.pairs[p.idx].Tok
}

func (p *Parser) pos() token.Pos {
	if p.idx >= len(p.pairs) {
		if len(p.pairs) == 0 {
			return token.Pos{Line: 1, Col: 1}
		}
		return p.pairs[len(p.pairs)-1].Pos
	}
	return p.pairs[p.idx].Pos
}

func (p *Parser) at(k token.Kind) bool { return p.cur().Kind == k }

func (p *Parser) advance() token.Token {
	t := p.cur()
	if p.idx < len(p.pairs) {
		p.idx++
	}
	p.logger.Debug("consume", "kind", t.Kind, "pos", p.pos())
	return t
}

// expect consumes the current token if it has kind k, else reports an
// Expected error at the current position naming both tokens'
// canonical textual forms (spec.md §4.1).
func (p *Parser) expect(k token.Kind) (token.Token, *diag.Error) {
	if !p.at(k) {
		want := token.Token{Kind: k}.String()
		return token.Token{}, diag.New(diag.Expected, p.pos(), "expected %q, found %q", want, p.cur().String())
	}
	return p.advance(), nil
}

// pass1 scans the whole token vector for `func` keywords, collecting
// every function's signature into the global symbol table. Tokens
// between signatures (bodies, anything else) are skipped without
// interpretation (spec.md §4.3).
func (p *Parser) pass1() *diag.Error {
	p.idx = 0
	for !p.at(token.Eof) {
		if p.at(token.Func) {
			if err := p.parseSignature(); err != nil {
				return err
			}
			continue
		}
		p.advance()
	}
	return nil
}

func (p *Parser) parseSignature() *diag.Error {
	pos := p.pos()
	p.advance() // 'func'
	nameTok, err := p.expect(token.Identifier)
	if err != nil {
		return err
	}
	name := nameTok.Text
	if _, err := p.expect(token.LParen); err != nil {
		return err
	}
	var params []types.Param
	if !p.at(token.RParen) {
		for {
			if !token.IsTypeStart(p.cur().Kind) {
				return diag.New(diag.MissingTypeSpecifier, p.pos(), "expected a parameter type, found %q", p.cur().String())
			}
			ptype, err := p.parseTypeSpec()
			if err != nil {
				return err
			}
			idTok, err := p.expect(token.Identifier)
			if err != nil {
				return err
			}
			params = append(params, types.Param{Name: idTok.Text, Type: ptype})
			if p.at(token.Comma) {
				p.advance()
				continue
			}
			break
		}
	}
	if _, err := p.expect(token.RParen); err != nil {
		return err
	}
	retType := types.None
	if token.IsTypeStart(p.cur().Kind) {
		t, err := p.parseTypeSpec()
		if err != nil {
			return err
		}
		retType = t
	}
	fullType := retType | types.FuncBit
	if !p.symtab.Define(name, types.Properties{Type: fullType, Offset: types.NoOffset, Params: params}) {
		return diag.New(diag.MalformedFuncdef, pos, "function %q is already defined", name)
	}
	return nil
}

// parseTypeSpec parses `(integer|float|boolean|string) ['array']`.
func (p *Parser) parseTypeSpec() (types.Code, *diag.Error) {
	var base types.Code
	switch p.cur().Kind {
	case token.Integer:
		base = types.IntegerBit
	case token.Float:
		base = types.FloatBit
	case token.Boolean:
		base = types.BooleanBit
	case token.String:
		base = types.StringBit
	default:
		return types.None, diag.New(diag.MissingTypeSpecifier, p.pos(), "expected a type, found %q", p.cur().String())
	}
	p.advance()
	if p.at(token.Array) {
		p.advance()
		base |= types.ArrayBit
	}
	return base, nil
}

// pass2 resets to the start of the token vector and builds the AST,
// one top-level `func` definition at a time. Only `func` is a valid
// top-level item; an empty program (immediate Eof) and any other
// leading token both surface as the same "unimplemented top-level"
// error (spec.md §8 boundary behavior).
func (p *Parser) pass2() (*ast.Toplevel, *diag.Error) {
	p.idx = 0
	var funcs []*ast.Funcdef
	for !p.at(token.Eof) {
		if !p.at(token.Func) {
			return nil, diag.New(diag.Expected, p.pos(), "top-level definitions are not implemented for %q; only 'func' is supported", p.cur().String())
		}
		fd, err := p.parseFuncdef()
		if err != nil {
			return nil, err
		}
		funcs = append(funcs, fd)
	}
	if len(funcs) == 0 {
		return nil, diag.New(diag.Expected, p.pos(), "top-level definitions are not implemented for %q; only 'func' is supported", p.cur().String())
	}
	return ast.NewToplevel(token.Pos{Line: 1, Col: 1}, funcs), nil
}

// parseFuncdef builds one Funcdef. The parameter list was already
// validated in pass 1; pass 2 only needs to walk past it, tracking
// paren depth rather than assuming the first ')' closes the list — a
// depth count is no more expensive and stays correct if the grammar
// ever admits parenthesized default expressions (spec.md §9 design
// note on the source's "skip to first )" shortcut).
func (p *Parser) parseFuncdef() (*ast.Funcdef, *diag.Error) {
	pos := p.pos()
	p.advance() // 'func'
	nameTok, err := p.expect(token.Identifier)
	if err != nil {
		return nil, err
	}
	name := nameTok.Text
	if _, err := p.expect(token.LParen); err != nil {
		return nil, err
	}
	depth := 1
	for depth > 0 {
		if p.at(token.Eof) {
			return nil, diag.New(diag.Expected, p.pos(), "unexpected end of file in parameter list of %q", name)
		}
		if p.at(token.LParen) {
			depth++
		} else if p.at(token.RParen) {
			depth--
		}
		p.advance()
		if depth == 0 {
			break
		}
	}

	if token.IsTypeStart(p.cur().Kind) {
		if _, err := p.parseTypeSpec(); err != nil {
			return nil, err
		}
	}

	props, ok := p.symtab.Lookup(name)
	if !ok {
		return nil, diag.New(diag.MalformedFuncdef, pos, "function %q has no recorded signature", name)
	}
	retType := props.Type.WithoutFunc()

	p.locals.Reset()
	for _, param := range props.Params {
		p.locals.Bind(param.Name, param.Type)
	}
	p.currentRetType = retType

	body, err := p.parseStmt()
	if err != nil {
		return nil, err
	}
	p.currentRetType = types.None

	return ast.NewFuncdef(pos, name, props.Params, retType, body), nil
}

// errUnresolved builds an Expected error for a name missing from a
// symbol table, with a fuzzy "did you mean" suggestion when one is
// close enough (SPEC_FULL.md §7 augmentation).
func errUnresolved(pos token.Pos, what, name string, candidates []string) *diag.Error {
	e := diag.New(diag.Expected, pos, "%s %q is not defined", what, name)
	e.Suggestion = diag.Suggest(name, candidates)
	return e
}
