// Package parser implements the HCTL recursive-descent, operator-precedence
// parser described in spec.md §4.2. Structurally it follows the teacher's
// pkgs/parser/parser.go: a flat token slice, a cursor, and one parse method
// per grammar rule; unlike the teacher's parser it has no decorator/shell
// sugar to resolve, only the fixed HCTL precedence table.
package parser

import (
	"github.com/sybila/hctl-symbolic/pkgs/ast"
	"github.com/sybila/hctl-symbolic/pkgs/herr"
	"github.com/sybila/hctl-symbolic/pkgs/lexer"
	"github.com/sybila/hctl-symbolic/pkgs/token"
)

// precedence levels, listed loosest first: a larger value binds tighter.
// The trailing numbers are the levels of spec.md §4.2 / §6, where 1 is the
// tightest.
const (
	precLowest = iota
	precHybrid     // 8: !{x}:, @{x}:, 3{x}:, V{x}:
	precIff        // 7
	precImp        // 6
	precOr         // 5
	precXor        // 4
	precAnd        // 3
	precTemporal   // 2: EU AU EW AW
	precUnary      // 1: ~, EX AX EF AF EG AG
)

// Parser consumes a token slice produced by the lexer and builds a Formula
// tree via precedence-climbing descent.
type Parser struct {
	input  string
	tokens []token.Token
	pos    int
}

// Parse tokenises and parses a complete HCTL formula string.
func Parse(input string) (*ast.Formula, error) {
	toks, err := lexer.Tokenize(input)
	if err != nil {
		if le, ok := err.(herr.LexicalError); ok {
			le.Source = input
			return nil, le
		}
		return nil, err
	}
	p := &Parser{input: input, tokens: toks}
	f, err := p.parseExpr(precLowest)
	if err != nil {
		return nil, err
	}
	if p.current().Type != token.EOF {
		return nil, p.errorf("end of formula", p.current())
	}
	return f, nil
}

func (p *Parser) current() token.Token { return p.tokens[p.pos] }

func (p *Parser) peek() token.Token {
	if p.pos+1 < len(p.tokens) {
		return p.tokens[p.pos+1]
	}
	return p.tokens[len(p.tokens)-1]
}

func (p *Parser) advance() token.Token {
	t := p.current()
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
	return t
}

func (p *Parser) match(t token.Type) bool { return p.current().Type == t }

func (p *Parser) consume(t token.Type, expected string) (token.Token, error) {
	if !p.match(t) {
		return token.Token{}, p.errorf(expected, p.current())
	}
	return p.advance(), nil
}

func (p *Parser) errorf(expected string, got token.Token) error {
	return herr.ParseError{
		Expected: expected,
		Found:    got.String(),
		Pos:      herr.Position{Line: got.Pos.Line, Column: got.Pos.Column, Offset: got.Pos.Offset},
		Source:   p.input,
	}
}

// parseExpr implements precedence-climbing: it parses a unary/primary term
// then repeatedly folds in binary operators whose precedence exceeds min.
func (p *Parser) parseExpr(min int) (*ast.Formula, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}

	for {
		opPrec, rightAssoc := binaryPrecedence(p.current().Type)
		if opPrec == 0 || opPrec < min {
			return left, nil
		}

		opTok := p.advance()
		nextMin := opPrec + 1
		if rightAssoc {
			nextMin = opPrec
		}
		right, err := p.parseExpr(nextMin)
		if err != nil {
			return nil, err
		}
		left, err = combine(opTok, left, right)
		if err != nil {
			return nil, err
		}
	}
}

// binaryPrecedence returns (precedence, isRightAssociative) for a binary
// operator token, or (0, false) if t is not a binary operator.
func binaryPrecedence(t token.Type) (int, bool) {
	switch t {
	case token.EU, token.AU, token.EW, token.AW:
		return precTemporal, false
	case token.And:
		return precAnd, false
	case token.Xor:
		return precXor, false
	case token.Or:
		return precOr, false
	case token.Imp:
		return precImp, true // right-associative per spec.md §4.2
	case token.Iff:
		return precIff, false
	default:
		return 0, false
	}
}

func combine(op token.Token, l, r *ast.Formula) (*ast.Formula, error) {
	switch op.Type {
	case token.EU:
		return ast.EU(l, r), nil
	case token.AU:
		return ast.AU(l, r), nil
	case token.EW:
		return ast.EW(l, r), nil
	case token.AW:
		return ast.AW(l, r), nil
	case token.And:
		return ast.And(l, r), nil
	case token.Xor:
		return ast.Xor(l, r), nil
	case token.Or:
		return ast.Or(l, r), nil
	case token.Imp:
		return ast.Imp(l, r), nil
	case token.Iff:
		return ast.Iff(l, r), nil
	default:
		return nil, herr.ParseError{Expected: "binary operator", Found: op.String(), Pos: herr.Position{Line: op.Pos.Line, Column: op.Pos.Column, Offset: op.Pos.Offset}}
	}
}

// parseUnary parses unary prefix forms (~, EX/AX/EF/AF/EG/AG) and hybrid
// quantifiers, which bind tighter than nothing but swallow an entire
// right-hand sub-expression (spec.md §4.2: "consume the rest of the
// expression up to the nearest closing parenthesis").
func (p *Parser) parseUnary() (*ast.Formula, error) {
	switch p.current().Type {
	case token.Not:
		p.advance()
		f, err := p.parseExpr(precUnary)
		if err != nil {
			return nil, err
		}
		return ast.Not(f), nil

	case token.EX, token.AX, token.EF, token.AF, token.EG, token.AG:
		op := p.advance()
		f, err := p.parseExpr(precUnary)
		if err != nil {
			return nil, err
		}
		return wrapUnaryTemporal(op.Type, f), nil

	case token.Bind, token.Jump, token.Exists, token.Forall:
		return p.parseHybrid()

	default:
		return p.parsePrimary()
	}
}

func wrapUnaryTemporal(t token.Type, f *ast.Formula) *ast.Formula {
	switch t {
	case token.EX:
		return ast.EX(f)
	case token.AX:
		return ast.AX(f)
	case token.EF:
		return ast.EF(f)
	case token.AF:
		return ast.AF(f)
	case token.EG:
		return ast.EG(f)
	case token.AG:
		return ast.AG(f)
	}
	return f
}

// parseHybrid parses "!{x}: phi", "@{x}: phi", "3{x}: phi", "V{x}: phi",
// their backslash long forms, and the optional domain-restriction sugar
// "!{x} in %name%: phi" / "3{x} in %name%: phi" / "V{x} in %name%: phi".
func (p *Parser) parseHybrid() (*ast.Formula, error) {
	opTok := p.advance()

	varTok, err := p.consume(token.VarRef, "'{variable}'")
	if err != nil {
		return nil, err
	}
	name := varTok.Value

	var domain *ast.Formula
	if p.match(token.In) {
		p.advance()
		wildTok, err := p.consume(token.Wild, "'%wildcard%'")
		if err != nil {
			return nil, err
		}
		domain = ast.WildCard(wildTok.Value)
	}

	if _, err := p.consume(token.Colon, "':'"); err != nil {
		return nil, err
	}

	body, err := p.parseExpr(precHybrid)
	if err != nil {
		return nil, err
	}

	return applyHybrid(opTok.Type, name, domain, body), nil
}

// applyHybrid builds the quantifier node, folding in the optional domain
// restriction per spec.md §4.2: for !/3 the restriction conjoins the
// wildcard, for V it implies from the wildcard.
func applyHybrid(t token.Type, name string, domain, body *ast.Formula) *ast.Formula {
	switch t {
	case token.Bind:
		if domain != nil {
			body = ast.And(domain, body)
		}
		return ast.Bind(name, body)
	case token.Jump:
		return ast.Jump(name, body)
	case token.Exists:
		if domain != nil {
			body = ast.And(domain, body)
		}
		return ast.Exists(name, body)
	case token.Forall:
		if domain != nil {
			body = ast.Imp(domain, body)
		}
		return ast.Forall(name, body)
	}
	return body
}

// parsePrimary parses the atomic forms: constants, propositions, variable
// references, wildcards, and parenthesised sub-expressions.
func (p *Parser) parsePrimary() (*ast.Formula, error) {
	t := p.current()
	switch t.Type {
	case token.True:
		p.advance()
		return ast.Const(true), nil
	case token.False:
		p.advance()
		return ast.Const(false), nil
	case token.Prop:
		p.advance()
		return ast.Prop(t.Value), nil
	case token.VarRef:
		p.advance()
		return ast.Var(t.Value), nil
	case token.Wild:
		p.advance()
		return ast.WildCard(t.Value), nil
	case token.LParen:
		p.advance()
		f, err := p.parseExpr(precLowest)
		if err != nil {
			return nil, err
		}
		if _, err := p.consume(token.RParen, "')'"); err != nil {
			return nil, err
		}
		return f, nil
	default:
		return nil, p.errorf("an atom (constant, proposition, {variable}, %wildcard%, or '(')", t)
	}
}
