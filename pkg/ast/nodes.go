package ast

import "github.com/leapstack-labs/leapcube/pkg/token"

// ---------- Statements ----------

// Program is the root of one schema file.
type Program struct {
	At   token.Position
	Body []Stmt
}

func (*Program) node() {}

// Kind implements Node.
func (*Program) Kind() Kind { return KindProgram }

// Pos implements Node.
func (p *Program) Pos() token.Position { return p.At }

// VarDecl is a `const|let|var name = init` declaration.
type VarDecl struct {
	At      token.Position
	Keyword string // const, let or var
	Name    *Identifier
	Init    Expr // nil when the declaration has no initializer
}

func (*VarDecl) node()     {}
func (*VarDecl) stmtNode() {}

// Kind implements Node.
func (*VarDecl) Kind() Kind { return KindVarDecl }

// Pos implements Node.
func (d *VarDecl) Pos() token.Position { return d.At }

// ExprStmt is an expression used as a statement, typically a cube(...) call.
type ExprStmt struct {
	X Expr
}

func (*ExprStmt) node()     {}
func (*ExprStmt) stmtNode() {}

// Kind implements Node.
func (*ExprStmt) Kind() Kind { return KindExprStmt }

// Pos implements Node.
func (s *ExprStmt) Pos() token.Position {
	if s.X != nil {
		return s.X.Pos()
	}
	return token.Position{}
}

// ---------- Leaf expressions ----------

// Identifier is a bare name.
type Identifier struct {
	At   token.Position
	Name string
}

func (*Identifier) node()     {}
func (*Identifier) exprNode() {}

// Kind implements Node.
func (*Identifier) Kind() Kind { return KindIdentifier }

// Pos implements Node.
func (i *Identifier) Pos() token.Position { return i.At }

// StringLiteral is a single or double quoted string.
type StringLiteral struct {
	At    token.Position
	Value string // decoded value
	Raw   string // source text including quotes; empty for synthesized nodes
}

func (*StringLiteral) node()     {}
func (*StringLiteral) exprNode() {}

// Kind implements Node.
func (*StringLiteral) Kind() Kind { return KindStringLiteral }

// Pos implements Node.
func (s *StringLiteral) Pos() token.Position { return s.At }

// TemplateElement is one static chunk of a template literal.
type TemplateElement struct {
	Raw    string // as written, escapes intact
	Cooked string // escapes decoded
}

// TemplateLiteral is a backtick string. Quasis always has one more element than
// Exprs: the literal reads Quasis[0] ${Exprs[0]} Quasis[1] ... Quasis[n].
type TemplateLiteral struct {
	At     token.Position
	Quasis []*TemplateElement
	Exprs  []Expr
}

func (*TemplateLiteral) node()     {}
func (*TemplateLiteral) exprNode() {}

// Kind implements Node.
func (*TemplateLiteral) Kind() Kind { return KindTemplateLiteral }

// Pos implements Node.
func (t *TemplateLiteral) Pos() token.Position { return t.At }

// NumberLiteral is a numeric literal kept in source form.
type NumberLiteral struct {
	At  token.Position
	Raw string
}

func (*NumberLiteral) node()     {}
func (*NumberLiteral) exprNode() {}

// Kind implements Node.
func (*NumberLiteral) Kind() Kind { return KindNumberLiteral }

// Pos implements Node.
func (n *NumberLiteral) Pos() token.Position { return n.At }

// KeywordLiteral is one of true, false, null or undefined.
type KeywordLiteral struct {
	At    token.Position
	Value string
}

func (*KeywordLiteral) node()     {}
func (*KeywordLiteral) exprNode() {}

// Kind implements Node.
func (*KeywordLiteral) Kind() Kind { return KindKeywordLiteral }

// Pos implements Node.
func (k *KeywordLiteral) Pos() token.Position { return k.At }

// ---------- Composite expressions ----------

// Array is an array literal.
type Array struct {
	At       token.Position
	Elements []Expr
}

func (*Array) node()     {}
func (*Array) exprNode() {}

// Kind implements Node.
func (*Array) Kind() Kind { return KindArray }

// Pos implements Node.
func (a *Array) Pos() token.Position { return a.At }

// Object is an object literal.
type Object struct {
	At         token.Position
	Properties []ObjectMember
}

func (*Object) node()     {}
func (*Object) exprNode() {}

// Kind implements Node.
func (*Object) Kind() Kind { return KindObject }

// Pos implements Node.
func (o *Object) Pos() token.Position { return o.At }

// Property is a key/value pair of an object literal.
//
// Key is an *Identifier for plain keys and a *StringLiteral or *NumberLiteral for quoted
// keys. When Computed is set the key was written as [expr] and may be any expression.
// Shorthand properties ({ Users }) carry separate key and value identifiers.
type Property struct {
	At        token.Position
	Key       Expr
	Value     Expr
	Computed  bool
	Shorthand bool
}

func (*Property) node()         {}
func (*Property) objectMember() {}

// Kind implements Node.
func (*Property) Kind() Kind { return KindProperty }

// Pos implements Node.
func (p *Property) Pos() token.Position { return p.At }

// KeyName returns the key's identifier name for plain, non-computed keys.
func (p *Property) KeyName() (string, bool) {
	if p.Computed {
		return "", false
	}
	id, ok := p.Key.(*Identifier)
	if !ok {
		return "", false
	}
	return id.Name, true
}

// Spread is ...x inside an array, an object or an argument list.
type Spread struct {
	At token.Position
	X  Expr
}

func (*Spread) node()         {}
func (*Spread) exprNode()     {}
func (*Spread) objectMember() {}

// Kind implements Node.
func (*Spread) Kind() Kind { return KindSpread }

// Pos implements Node.
func (s *Spread) Pos() token.Position { return s.At }

// Member is a member access: Object.Property, Object?.Property or Object[Property].
type Member struct {
	Object   Expr
	Property Expr // *Identifier unless Computed
	Computed bool
	Optional bool
}

func (*Member) node()     {}
func (*Member) exprNode() {}

// Kind implements Node.
func (*Member) Kind() Kind { return KindMember }

// Pos implements Node.
func (m *Member) Pos() token.Position {
	if m.Object != nil {
		return m.Object.Pos()
	}
	return token.Position{}
}

// Call is a call expression.
type Call struct {
	Callee   Expr
	Args     []Expr
	Optional bool
}

func (*Call) node()     {}
func (*Call) exprNode() {}

// Kind implements Node.
func (*Call) Kind() Kind { return KindCall }

// Pos implements Node.
func (c *Call) Pos() token.Position {
	if c.Callee != nil {
		return c.Callee.Pos()
	}
	return token.Position{}
}

// CalleeName returns the callee's name when the callee is a bare identifier.
func (c *Call) CalleeName() (string, bool) {
	id, ok := c.Callee.(*Identifier)
	if !ok {
		return "", false
	}
	return id.Name, true
}

// Function is an arrow function with an expression body. It is the deferred
// function form property values are rewritten into.
type Function struct {
	At     token.Position
	Params []*Identifier
	Body   Expr
	Async  bool
}

func (*Function) node()     {}
func (*Function) exprNode() {}

// Kind implements Node.
func (*Function) Kind() Kind { return KindFunction }

// Pos implements Node.
func (f *Function) Pos() token.Position { return f.At }

// ParamNames returns the parameter names in order.
func (f *Function) ParamNames() []string {
	names := make([]string, len(f.Params))
	for i, p := range f.Params {
		names[i] = p.Name
	}
	return names
}

// Binary is a binary operation. The parser nests operands by operator precedence;
// explicit grouping is kept as *Paren.
type Binary struct {
	Left  Expr
	Op    string
	Right Expr
}

func (*Binary) node()     {}
func (*Binary) exprNode() {}

// Kind implements Node.
func (*Binary) Kind() Kind { return KindBinary }

// Pos implements Node.
func (b *Binary) Pos() token.Position {
	if b.Left != nil {
		return b.Left.Pos()
	}
	return token.Position{}
}

// Unary is a prefix operation such as !x, -x or typeof x.
type Unary struct {
	At token.Position
	Op string
	X  Expr
}

func (*Unary) node()     {}
func (*Unary) exprNode() {}

// Kind implements Node.
func (*Unary) Kind() Kind { return KindUnary }

// Pos implements Node.
func (u *Unary) Pos() token.Position { return u.At }

// Paren is a parenthesised expression.
type Paren struct {
	At token.Position
	X  Expr
}

func (*Paren) node()     {}
func (*Paren) exprNode() {}

// Kind implements Node.
func (*Paren) Kind() Kind { return KindParen }

// Pos implements Node.
func (p *Paren) Pos() token.Position { return p.At }
