// Package parser turns cube schema source files into pkg/ast trees.
//
// # Usage
//
//	prog, err := parser.Parse("orders.js", src)
//	if err != nil {
//	    var perr *parser.ParseError
//	    errors.As(err, &perr) // position of the first syntax error
//	}
//
// # Grammar Overview
//
// The accepted language is the expression subset of JavaScript used by schema
// files:
//
//	program     → (statement ';'*)*
//	statement   → ('const'|'let'|'var') ident ['=' expression] | expression
//	expression  → arrow | unary (binop unary)*
//	arrow       → ['async'] (ident | '(' [ident (',' ident)*] ')') '=>' expression
//	unary       → unop unary | primary postfix*
//	postfix     → '.' ident | '[' expression ']' | '(' args ')' | '?.' ...
//	primary     → literal | template | array | object | '(' expression ')' | ident
//
// Comments are dropped. Function bodies are single expressions; statement blocks,
// classes, regular expression literals and the conditional operator are not
// supported.
package parser

import (
	"errors"
	"fmt"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/leapstack-labs/leapcube/pkg/ast"
	"github.com/leapstack-labs/leapcube/pkg/token"
)

// Parse parses one schema file. filename is only used for positions.
func Parse(filename string, src []byte) (*ast.Program, error) {
	tree, err := grammar.ParseBytes(filename, src)
	if err != nil {
		return nil, wrapError(filename, err)
	}

	c := converter{filename: filename}
	prog := c.program(tree)
	if c.err != nil {
		return nil, c.err
	}
	return prog, nil
}

// ParseString is Parse for string input.
func ParseString(filename, src string) (*ast.Program, error) {
	return Parse(filename, []byte(src))
}

func wrapError(filename string, err error) error {
	var perr participle.Error
	if errors.As(err, &perr) {
		pos := position(perr.Position())
		if pos.Filename == "" {
			pos.Filename = filename
		}
		return &ParseError{Pos: pos, Message: perr.Message()}
	}
	return &ParseError{Pos: token.Position{Filename: filename}, Message: err.Error()}
}

func position(p lexer.Position) token.Position {
	return token.Position{
		Filename: p.Filename,
		Line:     p.Line,
		Column:   p.Column,
		Offset:   p.Offset,
	}
}

// converter lowers the grammar tree into ast nodes. The first error is kept and
// conversion continues so callers only check once.
type converter struct {
	filename string
	err      error
}

func (c *converter) fail(p lexer.Position, format string, args ...any) {
	if c.err == nil {
		pos := position(p)
		if pos.Filename == "" {
			pos.Filename = c.filename
		}
		c.err = &ParseError{Pos: pos, Message: fmt.Sprintf(format, args...)}
	}
}

func (c *converter) program(p *program) *ast.Program {
	prog := &ast.Program{At: position(p.Pos)}
	if prog.At.Filename == "" {
		prog.At.Filename = c.filename
	}
	for _, s := range p.Stmts {
		if st := c.statement(s); st != nil {
			prog.Body = append(prog.Body, st)
		}
	}
	return prog
}

func (c *converter) statement(s *statement) ast.Stmt {
	switch {
	case s.Decl != nil:
		d := &ast.VarDecl{
			At:      position(s.Decl.Pos),
			Keyword: s.Decl.Keyword,
			Name:    c.ident(s.Decl.Name),
		}
		if s.Decl.Init != nil {
			d.Init = c.expression(s.Decl.Init)
		}
		return d
	case s.Expr != nil:
		return &ast.ExprStmt{X: c.expression(s.Expr)}
	}
	c.fail(s.Pos, errUnsupportedSyntax)
	return nil
}

func (c *converter) ident(i *ident) *ast.Identifier {
	return &ast.Identifier{At: position(i.Pos), Name: i.Name}
}

func (c *converter) expression(e *expression) ast.Expr {
	switch {
	case e.Arrow != nil:
		return c.arrow(e.Arrow)
	case e.Binary != nil:
		return c.binary(e.Binary)
	}
	c.fail(e.Pos, errUnsupportedSyntax)
	return &ast.Identifier{At: position(e.Pos)}
}

func (c *converter) arrow(a *arrowFunction) ast.Expr {
	fn := &ast.Function{At: position(a.Pos), Async: a.Async}
	for _, p := range a.Params {
		fn.Params = append(fn.Params, c.ident(p))
	}
	fn.Body = c.expression(a.Body)
	return fn
}

// Higher binds tighter. Mirrors JavaScript operator precedence.
var binaryPrecedence = map[string]int{
	"??": 1,
	"||": 2,
	"&&": 3,
	"|":  4,
	"^":  5,
	"&":  6,
	"==": 7, "!=": 7, "===": 7, "!==": 7,
	"<": 8, ">": 8, "<=": 8, ">=": 8, "instanceof": 8, "in": 8,
	"<<": 9, ">>": 9, ">>>": 9,
	"+": 10, "-": 10,
	"*": 11, "/": 11, "%": 11,
	"**": 12,
}

// binary folds a flat operand/operator chain by precedence. ** is
// right-associative, everything else left-associative.
func (c *converter) binary(b *binaryChain) ast.Expr {
	operands := []ast.Expr{c.unary(b.Head)}
	ops := make([]string, 0, len(b.Tail))
	for _, t := range b.Tail {
		ops = append(ops, t.Op)
		operands = append(operands, c.unary(t.Right))
	}

	return c.fold(operands, ops)
}

// fold is a precedence climber over operands[i] op[i] operands[i+1] ...
func (c *converter) fold(operands []ast.Expr, ops []string) ast.Expr {
	i := 0
	var parse func(minPrec int) ast.Expr
	parse = func(minPrec int) ast.Expr {
		left := operands[i]
		for i < len(ops) {
			op := ops[i]
			prec := binaryPrecedence[op]
			if prec < minPrec {
				break
			}
			i++
			next := prec + 1
			if op == "**" {
				next = prec
			}
			left = &ast.Binary{Left: left, Op: op, Right: parse(next)}
		}
		return left
	}
	return parse(0)
}

func (c *converter) unary(u *unary) ast.Expr {
	if u.Postfix != nil {
		return c.postfix(u.Postfix)
	}
	if u.Operand == nil {
		c.fail(u.Pos, errUnsupportedSyntax)
		return &ast.Identifier{At: position(u.Pos)}
	}
	return &ast.Unary{At: position(u.Pos), Op: u.Op, X: c.unary(u.Operand)}
}

func (c *converter) postfix(p *postfix) ast.Expr {
	x := c.primary(p.Primary)
	for _, op := range p.Ops {
		switch {
		case op.Call != nil:
			x = &ast.Call{Callee: x, Args: c.elements(op.Call.Args)}
		case op.Index != nil:
			x = &ast.Member{Object: x, Property: c.expression(op.Index), Computed: true}
		case op.Property != nil:
			x = &ast.Member{Object: x, Property: c.ident(op.Property)}
		case op.Optional != nil:
			o := op.Optional
			switch {
			case o.Call != nil:
				x = &ast.Call{Callee: x, Args: c.elements(o.Call.Args), Optional: true}
			case o.Index != nil:
				x = &ast.Member{Object: x, Property: c.expression(o.Index), Computed: true, Optional: true}
			case o.Property != nil:
				x = &ast.Member{Object: x, Property: c.ident(o.Property), Optional: true}
			}
		}
	}
	return x
}

func (c *converter) elements(els []*element) []ast.Expr {
	out := make([]ast.Expr, 0, len(els))
	for _, el := range els {
		v := c.expression(el.Value)
		if el.Spread {
			v = &ast.Spread{At: position(el.Pos), X: v}
		}
		out = append(out, v)
	}
	return out
}

func (c *converter) primary(p *primary) ast.Expr {
	at := position(p.Pos)
	switch {
	case p.Keyword != nil:
		return &ast.KeywordLiteral{At: at, Value: *p.Keyword}
	case p.Number != nil:
		return &ast.NumberLiteral{At: at, Raw: *p.Number}
	case p.String != nil:
		return c.stringLiteral(p.Pos, *p.String)
	case p.Template != nil:
		return c.template(p.Template)
	case p.Array != nil:
		return &ast.Array{At: at, Elements: c.elements(p.Array.Elements)}
	case p.Object != nil:
		return c.object(p.Object)
	case p.Paren != nil:
		return &ast.Paren{At: at, X: c.expression(p.Paren)}
	case p.Ident != nil:
		return &ast.Identifier{At: at, Name: *p.Ident}
	}
	c.fail(p.Pos, errUnsupportedSyntax)
	return &ast.Identifier{At: at}
}

func (c *converter) stringLiteral(p lexer.Position, raw string) *ast.StringLiteral {
	value, err := unescape(raw[1 : len(raw)-1])
	if err != nil {
		c.fail(p, errInvalidEscape, "string literal")
	}
	return &ast.StringLiteral{At: position(p), Value: value, Raw: raw}
}

// template splits the token stream into quasis and expressions. Adjacent
// character tokens belong to the same quasi.
func (c *converter) template(t *templateLiteral) *ast.TemplateLiteral {
	lit := &ast.TemplateLiteral{At: position(t.Pos)}
	var raw []byte
	flush := func() {
		cooked, err := unescape(string(raw))
		if err != nil {
			c.fail(t.Pos, errInvalidEscape, "template literal")
		}
		lit.Quasis = append(lit.Quasis, &ast.TemplateElement{Raw: string(raw), Cooked: cooked})
		raw = raw[:0]
	}
	for _, part := range t.Parts {
		if part.Chars != nil {
			raw = append(raw, *part.Chars...)
			continue
		}
		flush()
		lit.Exprs = append(lit.Exprs, c.expression(part.Expr))
	}
	flush()
	return lit
}

func (c *converter) object(o *objectLiteral) *ast.Object {
	obj := &ast.Object{At: position(o.Pos)}
	for _, m := range o.Members {
		if m.Spread != nil {
			obj.Properties = append(obj.Properties, &ast.Spread{At: position(m.Pos), X: c.expression(m.Spread)})
			continue
		}
		if p := c.property(m.Prop); p != nil {
			obj.Properties = append(obj.Properties, p)
		}
	}
	return obj
}

func (c *converter) property(p *property) *ast.Property {
	if p == nil {
		return nil
	}
	k := p.Key
	prop := &ast.Property{At: position(p.Pos)}
	switch {
	case k.Computed != nil:
		prop.Key = c.expression(k.Computed)
		prop.Computed = true
	case k.String != nil:
		prop.Key = c.stringLiteral(k.Pos, *k.String)
	case k.Number != nil:
		prop.Key = &ast.NumberLiteral{At: position(k.Pos), Raw: *k.Number}
	case k.Ident != nil:
		prop.Key = &ast.Identifier{At: position(k.Pos), Name: *k.Ident}
	}

	if p.Value != nil {
		prop.Value = c.expression(p.Value)
		return prop
	}

	// { name } is { name: name } with a distinct value node.
	key, ok := prop.Key.(*ast.Identifier)
	if !ok || prop.Computed {
		c.fail(p.Pos, errShorthandKey)
		return nil
	}
	prop.Value = &ast.Identifier{At: key.At, Name: key.Name}
	prop.Shorthand = true
	return prop
}
