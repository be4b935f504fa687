package parser

import (
	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// Template literals switch the lexer into the Template state; each ${ pushes
// TemplateExpr, which lexes like Root until its closing brace. Object braces push
// Brace so that a } inside an interpolation closes the object, not the hole.
var schemaLexer = lexer.MustStateful(lexer.Rules{
	"Root": {
		{Name: "Comment", Pattern: `//[^\n]*|/\*[\s\S]*?\*/`},
		{Name: "Whitespace", Pattern: `\s+`},
		{Name: "Backtick", Pattern: "`", Action: lexer.Push("Template")},
		{Name: "String", Pattern: `"(?:\\[\s\S]|[^"\\\n])*"|'(?:\\[\s\S]|[^'\\\n])*'`},
		{Name: "Number", Pattern: `(?:0[xX][0-9a-fA-F_]+|0[bB][01_]+|0[oO][0-7_]+|(?:\d[\d_]*(?:\.\d*)?|\.\d+)(?:[eE][+-]?\d+)?)n?`},
		{Name: "Ident", Pattern: `[A-Za-z_$][\w$]*`},
		{Name: "LBrace", Pattern: `\{`, Action: lexer.Push("Brace")},
		{Name: "Punct", Pattern: `\.\.\.|\?\.|=>|===|!==|==|!=|<=|>=|&&|\|\||\?\?|\*\*|>>>|<<|>>|[-+*/%<>!~&|^?:=.,;()\[\]}]`},
	},
	"Brace": {
		{Name: "RBrace", Pattern: `\}`, Action: lexer.Pop()},
		lexer.Include("Root"),
	},
	"Template": {
		{Name: "TemplateEnd", Pattern: "`", Action: lexer.Pop()},
		{Name: "ExprStart", Pattern: `\$\{`, Action: lexer.Push("TemplateExpr")},
		{Name: "TemplateChars", Pattern: "(?:\\\\[\\s\\S]|[^`\\\\$]|\\$[^{`\\\\$])+"},
		{Name: "Dollar", Pattern: `\$`},
	},
	"TemplateExpr": {
		{Name: "ExprEnd", Pattern: `\}`, Action: lexer.Pop()},
		lexer.Include("Root"),
	},
})

var grammar = participle.MustBuild[program](
	participle.Lexer(schemaLexer),
	participle.Elide("Whitespace", "Comment"),
	participle.UseLookahead(1024),
)

// ---------- Grammar ----------
//
// Binary operators are parsed as a flat chain and folded by precedence when the
// tree is converted; see binaryPrecedence.

type program struct {
	Pos   lexer.Position
	Stmts []*statement `parser:"';'* ( @@ ';'* )*"`
}

type statement struct {
	Pos  lexer.Position
	Decl *varDecl    `parser:"  @@"`
	Expr *expression `parser:"| @@"`
}

type varDecl struct {
	Pos     lexer.Position
	Keyword string      `parser:"@( 'const' | 'let' | 'var' )"`
	Name    *ident      `parser:"@@"`
	Init    *expression `parser:"( '=' @@ )?"`
}

type ident struct {
	Pos  lexer.Position
	Name string `parser:"@Ident"`
}

type expression struct {
	Pos    lexer.Position
	Arrow  *arrowFunction `parser:"  @@"`
	Binary *binaryChain   `parser:"| @@"`
}

type arrowFunction struct {
	Pos    lexer.Position
	Async  bool        `parser:"@'async'?"`
	Params []*ident    `parser:"( '(' ( @@ ( ',' @@ )* ','? )? ')' | @@ )"`
	Body   *expression `parser:"'=>' @@"`
}

type binaryChain struct {
	Pos  lexer.Position
	Head *unary      `parser:"@@"`
	Tail []*binaryOp `parser:"@@*"`
}

type binaryOp struct {
	Op    string `parser:"@( '===' | '!==' | '==' | '!=' | '<=' | '>=' | '&&' | '||' | '??' | '**' | '>>>' | '<<' | '>>' | '<' | '>' | '+' | '-' | '*' | '/' | '%' | '&' | '|' | '^' | 'instanceof' | 'in' )"`
	Right *unary `parser:"@@"`
}

type unary struct {
	Pos     lexer.Position
	Op      string   `parser:"  @( '!' | '-' | '+' | '~' | 'typeof' | 'void' | 'await' )"`
	Operand *unary   `parser:"  @@"`
	Postfix *postfix `parser:"| @@"`
}

type postfix struct {
	Pos     lexer.Position
	Primary *primary     `parser:"@@"`
	Ops     []*postfixOp `parser:"@@*"`
}

type postfixOp struct {
	Pos      lexer.Position
	Call     *callArgs   `parser:"  @@"`
	Index    *expression `parser:"| '[' @@ ']'"`
	Property *ident      `parser:"| '.' @@"`
	Optional *optionalOp `parser:"| '?.' @@"`
}

type optionalOp struct {
	Call     *callArgs   `parser:"  @@"`
	Index    *expression `parser:"| '[' @@ ']'"`
	Property *ident      `parser:"| @@"`
}

type callArgs struct {
	Args []*element `parser:"'(' ( @@ ( ',' @@ )* ','? )? ')'"`
}

// element is a call argument or array element.
type element struct {
	Pos    lexer.Position
	Spread bool        `parser:"@'...'?"`
	Value  *expression `parser:"@@"`
}

type primary struct {
	Pos      lexer.Position
	Keyword  *string          `parser:"  @( 'true' | 'false' | 'null' | 'undefined' )"`
	Number   *string          `parser:"| @Number"`
	String   *string          `parser:"| @String"`
	Template *templateLiteral `parser:"| @@"`
	Array    *arrayLiteral    `parser:"| @@"`
	Object   *objectLiteral   `parser:"| @@"`
	Paren    *expression      `parser:"| '(' @@ ')'"`
	Ident    *string          `parser:"| @Ident"`
}

type templateLiteral struct {
	Pos   lexer.Position
	Parts []*templatePart `parser:"Backtick @@* TemplateEnd"`
}

type templatePart struct {
	Chars *string     `parser:"  @( TemplateChars | Dollar )"`
	Expr  *expression `parser:"| ExprStart @@ ExprEnd"`
}

type arrayLiteral struct {
	Pos      lexer.Position
	Elements []*element `parser:"'[' ( @@ ( ',' @@ )* ','? )? ']'"`
}

type objectLiteral struct {
	Pos     lexer.Position
	Members []*objectMember `parser:"'{' ( @@ ( ',' @@ )* ','? )? '}'"`
}

type objectMember struct {
	Pos    lexer.Position
	Spread *expression `parser:"  '...' @@"`
	Prop   *property   `parser:"| @@"`
}

type property struct {
	Pos   lexer.Position
	Key   *propertyKey `parser:"@@"`
	Value *expression  `parser:"( ':' @@ )?"`
}

type propertyKey struct {
	Pos      lexer.Position
	Computed *expression `parser:"  '[' @@ ']'"`
	String   *string     `parser:"| @String"`
	Number   *string     `parser:"| @Number"`
	Ident    *string     `parser:"| @Ident"`
}
