package parser

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leapcube/pkg/ast"
)

func parseExpr(t *testing.T, src string) ast.Expr {
	t.Helper()
	prog, err := ParseString("test.js", src)
	require.NoError(t, err)
	require.Len(t, prog.Body, 1)
	stmt, ok := prog.Body[0].(*ast.ExprStmt)
	require.True(t, ok, "expected expression statement, got %T", prog.Body[0])
	return stmt.X
}

func TestParse_CubeDeclaration(t *testing.T) {
	src := `// orders
cube('Orders', {
  sql: ` + "`SELECT * FROM ${Users.sql()} WHERE ${CUBE}.id > 0`" + `,
  measures: {
    count: { type: 'count' },
  },
  dimensions: {
    status: { sql: 'status', type: "string" },
  },
});
`
	prog, err := ParseString("orders.js", src)
	require.NoError(t, err)
	require.Len(t, prog.Body, 1)

	call, ok := prog.Body[0].(*ast.ExprStmt).X.(*ast.Call)
	require.True(t, ok)
	name, ok := call.CalleeName()
	require.True(t, ok)
	assert.Equal(t, "cube", name)
	require.Len(t, call.Args, 2)

	lit, ok := call.Args[0].(*ast.StringLiteral)
	require.True(t, ok)
	assert.Equal(t, "Orders", lit.Value)
	assert.Equal(t, "'Orders'", lit.Raw)

	body, ok := call.Args[1].(*ast.Object)
	require.True(t, ok)
	require.Len(t, body.Properties, 3)

	sql := body.Properties[0].(*ast.Property)
	key, _ := sql.KeyName()
	assert.Equal(t, "sql", key)
	tmpl, ok := sql.Value.(*ast.TemplateLiteral)
	require.True(t, ok)
	require.Len(t, tmpl.Quasis, 3)
	require.Len(t, tmpl.Exprs, 2)
	assert.Equal(t, "SELECT * FROM ", tmpl.Quasis[0].Raw)
	assert.Equal(t, " WHERE ", tmpl.Quasis[1].Raw)
	assert.Equal(t, ".id > 0", tmpl.Quasis[2].Raw)
	assert.IsType(t, &ast.Call{}, tmpl.Exprs[0])
	assert.Equal(t, "CUBE", tmpl.Exprs[1].(*ast.Identifier).Name)

	assert.Equal(t, "orders.js", call.Pos().Filename)
	assert.Equal(t, 2, call.Pos().Line)
	assert.Equal(t, 1, call.Pos().Column)
}

func TestParse_Bytes(t *testing.T) {
	prog, err := Parse("a.js", []byte("const a = 1; let b; var c = a"))
	require.NoError(t, err)
	require.Len(t, prog.Body, 3)

	a := prog.Body[0].(*ast.VarDecl)
	assert.Equal(t, "const", a.Keyword)
	assert.Equal(t, "a", a.Name.Name)
	assert.Equal(t, "1", a.Init.(*ast.NumberLiteral).Raw)

	b := prog.Body[1].(*ast.VarDecl)
	assert.Equal(t, "let", b.Keyword)
	assert.Nil(t, b.Init)

	c := prog.Body[2].(*ast.VarDecl)
	assert.Equal(t, "a", c.Init.(*ast.Identifier).Name)
}

func TestParse_Empty(t *testing.T) {
	for _, src := range []string{"", "  \n", "// only a comment\n", ";;", "/* block */"} {
		prog, err := ParseString("empty.js", src)
		require.NoError(t, err, src)
		assert.Empty(t, prog.Body, src)
	}
}

func TestParse_Templates(t *testing.T) {
	tests := []struct {
		name       string
		src        string
		wantRaw    []string
		wantCooked []string
		wantExprs  int
	}{
		{name: "plain", src: "`abc`", wantRaw: []string{"abc"}, wantCooked: []string{"abc"}},
		{name: "empty", src: "``", wantRaw: []string{""}, wantCooked: []string{""}},
		{name: "only expression", src: "`${a}`", wantRaw: []string{"", ""}, wantCooked: []string{"", ""}, wantExprs: 1},
		{name: "adjacent expressions", src: "`${a}${b}`", wantRaw: []string{"", "", ""}, wantCooked: []string{"", "", ""}, wantExprs: 2},
		{name: "lone dollars", src: "`$ $$ a$`", wantRaw: []string{"$ $$ a$"}, wantCooked: []string{"$ $$ a$"}},
		{name: "dollar before hole", src: "`$${a}`", wantRaw: []string{"$", ""}, wantCooked: []string{"$", ""}, wantExprs: 1},
		{name: "escapes", src: "`a\\nb \\` \\${x}`", wantRaw: []string{"a\\nb \\` \\${x}"}, wantCooked: []string{"a\nb ` ${x}"}},
		{name: "multiline", src: "`a\n  b`", wantRaw: []string{"a\n  b"}, wantCooked: []string{"a\n  b"}},
		{name: "object in hole", src: "`${ f({ a: 1 }) } x`", wantRaw: []string{"", " x"}, wantCooked: []string{"", " x"}, wantExprs: 1},
		{name: "nested template", src: "`a ${ `b ${c}` } d`", wantRaw: []string{"a ", " d"}, wantCooked: []string{"a ", " d"}, wantExprs: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lit, ok := parseExpr(t, tt.src).(*ast.TemplateLiteral)
			require.True(t, ok)

			var raw, cooked []string
			for _, q := range lit.Quasis {
				raw = append(raw, q.Raw)
				cooked = append(cooked, q.Cooked)
			}
			assert.Equal(t, tt.wantRaw, raw)
			assert.Equal(t, tt.wantCooked, cooked)
			assert.Len(t, lit.Exprs, tt.wantExprs)
		})
	}
}

func TestParse_NestedTemplate(t *testing.T) {
	lit := parseExpr(t, "`a ${ `b ${c}` } d`").(*ast.TemplateLiteral)
	inner, ok := lit.Exprs[0].(*ast.TemplateLiteral)
	require.True(t, ok)
	assert.Equal(t, "c", inner.Exprs[0].(*ast.Identifier).Name)
}

func TestParse_Strings(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{`'plain'`, "plain"},
		{`"double"`, "double"},
		{`'it\'s'`, "it's"},
		{`"say \"hi\""`, `say "hi"`},
		{`'tab\there'`, "tab\there"},
		{`'\x41B\u{43}'`, "ABC"},
		{`'\d'`, "d"},
		{`''`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			lit, ok := parseExpr(t, tt.src).(*ast.StringLiteral)
			require.True(t, ok)
			assert.Equal(t, tt.want, lit.Value)
			assert.Equal(t, tt.src, lit.Raw)
		})
	}
}

func TestParse_Precedence(t *testing.T) {
	// a || b && c + d * e ** f ** g
	x := parseExpr(t, "a || b && c + d * e ** f ** g")

	or := x.(*ast.Binary)
	assert.Equal(t, "||", or.Op)
	assert.Equal(t, "a", or.Left.(*ast.Identifier).Name)

	and := or.Right.(*ast.Binary)
	assert.Equal(t, "&&", and.Op)

	plus := and.Right.(*ast.Binary)
	assert.Equal(t, "+", plus.Op)

	mul := plus.Right.(*ast.Binary)
	assert.Equal(t, "*", mul.Op)

	pow := mul.Right.(*ast.Binary)
	assert.Equal(t, "**", pow.Op)
	assert.Equal(t, "e", pow.Left.(*ast.Identifier).Name)
	inner := pow.Right.(*ast.Binary)
	assert.Equal(t, "**", inner.Op)
	assert.Equal(t, "f", inner.Left.(*ast.Identifier).Name)
}

func TestParse_LeftAssociative(t *testing.T) {
	x := parseExpr(t, "a - b - c").(*ast.Binary)
	assert.Equal(t, "c", x.Right.(*ast.Identifier).Name)
	left := x.Left.(*ast.Binary)
	assert.Equal(t, "a", left.Left.(*ast.Identifier).Name)
	assert.Equal(t, "b", left.Right.(*ast.Identifier).Name)
}

func TestParse_UnaryAndParen(t *testing.T) {
	u := parseExpr(t, "!(a === -1)").(*ast.Unary)
	assert.Equal(t, "!", u.Op)
	p := u.X.(*ast.Paren)
	eq := p.X.(*ast.Binary)
	assert.Equal(t, "===", eq.Op)
	neg := eq.Right.(*ast.Unary)
	assert.Equal(t, "-", neg.Op)

	typeOf := parseExpr(t, "typeof x").(*ast.Unary)
	assert.Equal(t, "typeof", typeOf.Op)
}

func TestParse_MemberAndCallChains(t *testing.T) {
	x := parseExpr(t, "a.b[c](d, ...e)?.f?.[g]?.()")

	optCall := x.(*ast.Call)
	assert.True(t, optCall.Optional)
	assert.Empty(t, optCall.Args)

	optIndex := optCall.Callee.(*ast.Member)
	assert.True(t, optIndex.Optional)
	assert.True(t, optIndex.Computed)
	assert.Equal(t, "g", optIndex.Property.(*ast.Identifier).Name)

	optProp := optIndex.Object.(*ast.Member)
	assert.True(t, optProp.Optional)
	assert.False(t, optProp.Computed)

	call := optProp.Object.(*ast.Call)
	require.Len(t, call.Args, 2)
	spread, ok := call.Args[1].(*ast.Spread)
	require.True(t, ok)
	assert.Equal(t, "e", spread.X.(*ast.Identifier).Name)

	index := call.Callee.(*ast.Member)
	assert.True(t, index.Computed)
	dot := index.Object.(*ast.Member)
	assert.Equal(t, "a", dot.Object.(*ast.Identifier).Name)
	assert.Equal(t, "b", dot.Property.(*ast.Identifier).Name)
}

func TestParse_ArrowFunctions(t *testing.T) {
	tests := []struct {
		src        string
		wantParams []string
		wantAsync  bool
	}{
		{"() => 1", []string{}, false},
		{"x => x", []string{"x"}, false},
		{"(a, b) => a + b", []string{"a", "b"}, false},
		{"(a, b,) => a", []string{"a", "b"}, false},
		{"async (a) => a", []string{"a"}, true},
		{"(CUBE) => ({ sql: `${CUBE}.id` })", []string{"CUBE"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			fn, ok := parseExpr(t, tt.src).(*ast.Function)
			require.True(t, ok)
			assert.Equal(t, tt.wantParams, fn.ParamNames())
			assert.Equal(t, tt.wantAsync, fn.Async)
			assert.NotNil(t, fn.Body)
		})
	}

	fn := parseExpr(t, "(CUBE) => ({ sql: `${CUBE}.id` })").(*ast.Function)
	paren, ok := fn.Body.(*ast.Paren)
	require.True(t, ok)
	assert.IsType(t, &ast.Object{}, paren.X)
}

func TestParse_ParenIsNotArrow(t *testing.T) {
	x := parseExpr(t, "(a)")
	assert.IsType(t, &ast.Paren{}, x)

	sum := parseExpr(t, "(a) + (b)").(*ast.Binary)
	assert.IsType(t, &ast.Paren{}, sum.Left)
}

func TestParse_Objects(t *testing.T) {
	obj := parseExpr(t, `({ a: 1, 'b-c': 2, 3: x, [k]: v, d, ...rest, })`).(*ast.Paren).X.(*ast.Object)
	require.Len(t, obj.Properties, 6)

	a := obj.Properties[0].(*ast.Property)
	name, ok := a.KeyName()
	assert.True(t, ok)
	assert.Equal(t, "a", name)

	quoted := obj.Properties[1].(*ast.Property)
	assert.Equal(t, "b-c", quoted.Key.(*ast.StringLiteral).Value)

	num := obj.Properties[2].(*ast.Property)
	assert.Equal(t, "3", num.Key.(*ast.NumberLiteral).Raw)

	computed := obj.Properties[3].(*ast.Property)
	assert.True(t, computed.Computed)
	_, ok = computed.KeyName()
	assert.False(t, ok)

	short := obj.Properties[4].(*ast.Property)
	assert.True(t, short.Shorthand)
	assert.Equal(t, "d", short.Value.(*ast.Identifier).Name)
	assert.NotSame(t, short.Key, short.Value)

	spread := obj.Properties[5].(*ast.Spread)
	assert.Equal(t, "rest", spread.X.(*ast.Identifier).Name)
}

func TestParse_ArraysAndKeywords(t *testing.T) {
	arr := parseExpr(t, "[true, false, null, undefined, 1.5e3, 0xff, ...xs]").(*ast.Array)
	require.Len(t, arr.Elements, 7)
	for i, want := range []string{"true", "false", "null", "undefined"} {
		assert.Equal(t, want, arr.Elements[i].(*ast.KeywordLiteral).Value)
	}
	assert.Equal(t, "1.5e3", arr.Elements[4].(*ast.NumberLiteral).Raw)
	assert.Equal(t, "0xff", arr.Elements[5].(*ast.NumberLiteral).Raw)
	assert.IsType(t, &ast.Spread{}, arr.Elements[6])
}

func TestParse_BlockInsideTemplateHole(t *testing.T) {
	lit := parseExpr(t, "`${ FILTER_PARAMS.Orders.status.filter((x) => `${x} = 1`) }`").(*ast.TemplateLiteral)
	require.Len(t, lit.Exprs, 1)
	call := lit.Exprs[0].(*ast.Call)
	require.Len(t, call.Args, 1)
	assert.IsType(t, &ast.Function{}, call.Args[0])
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		wantLine int
	}{
		{name: "unterminated call", src: "cube('Orders', {", wantLine: 1},
		{name: "stray brace", src: "a\n}", wantLine: 2},
		{name: "unterminated template", src: "`abc", wantLine: 1},
		{name: "bad escape", src: `'\u{zz}'`, wantLine: 1},
		{name: "shorthand string key", src: "({ 'a' })", wantLine: 1},
		{name: "missing operand", src: "a +", wantLine: 1},
		{name: "octal escape", src: `'\01'`, wantLine: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseString("bad.js", tt.src)
			require.Error(t, err)

			var perr *ParseError
			require.True(t, errors.As(err, &perr), "got %T: %v", err, err)
			assert.Equal(t, tt.wantLine, perr.Pos.Line)
			assert.NotEmpty(t, perr.Message)
			assert.Contains(t, err.Error(), "parse error at line")
		})
	}
}

func TestParseError_Error(t *testing.T) {
	err := &ParseError{Message: "boom"}
	err.Pos.Line, err.Pos.Column = 3, 7
	assert.Equal(t, "parse error at line 3, column 7: boom", err.Error())

	err.Pos.Filename = "x.js"
	assert.Equal(t, "x.js: parse error at line 3, column 7: boom", err.Error())
}
