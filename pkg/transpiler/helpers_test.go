package transpiler

import "github.com/leapstack-labs/leapcube/pkg/ast"

// fakeSymbols resolves cube names and globals everywhere and members of the
// declaring cube only. CUBE and TABLE are current-cube placeholders.
type fakeSymbols struct {
	cubes   map[string]bool
	members map[string]map[string]bool
	globals map[string]bool
}

func newFakeSymbols() *fakeSymbols {
	return &fakeSymbols{
		cubes: map[string]bool{"Orders": true, "Users": true, "User": true, "A": true},
		members: map[string]map[string]bool{
			"Orders": {"count": true, "status": true, "amount": true},
		},
		globals: map[string]bool{"someGlobal": true, "SECURITY_CONTEXT": true},
	}
}

func (f *fakeSymbols) ResolveSymbol(cubeName, name string) bool {
	if f.globals[name] || f.cubes[name] {
		return true
	}
	return cubeName != "" && f.members[cubeName][name]
}

func (f *fakeSymbols) IsCurrentCube(name string) bool {
	return name == "CUBE" || name == "TABLE"
}

func (f *fakeSymbols) ResolveCube(name string) bool {
	return f.cubes[name]
}

func ident(name string) *ast.Identifier { return &ast.Identifier{Name: name} }

func str(v string) *ast.StringLiteral { return &ast.StringLiteral{Value: v} }

func tmpl(quasis []string, exprs ...ast.Expr) *ast.TemplateLiteral {
	t := &ast.TemplateLiteral{Exprs: exprs}
	for _, q := range quasis {
		t.Quasis = append(t.Quasis, &ast.TemplateElement{Raw: q, Cooked: q})
	}
	return t
}

func member(obj ast.Expr, name string) *ast.Member {
	return &ast.Member{Object: obj, Property: ident(name)}
}

func prop(key string, v ast.Expr) *ast.Property {
	return &ast.Property{Key: ident(key), Value: v}
}

func obj(props ...*ast.Property) *ast.Object {
	o := &ast.Object{}
	for _, p := range props {
		o.Properties = append(o.Properties, p)
	}
	return o
}

func arr(elems ...ast.Expr) *ast.Array { return &ast.Array{Elements: elems} }

func call(callee string, args ...ast.Expr) *ast.Call {
	return &ast.Call{Callee: ident(callee), Args: args}
}

func arrow(body ast.Expr, params ...string) *ast.Function {
	return WrapDeferred(params, body)
}

func program(exprs ...ast.Expr) *ast.Program {
	p := &ast.Program{}
	for _, e := range exprs {
		p.Body = append(p.Body, &ast.ExprStmt{X: e})
	}
	return p
}

// valueOf returns the value of the property named key in o.
func valueOf(o *ast.Object, key string) ast.Expr {
	for _, m := range o.Properties {
		if p, ok := m.(*ast.Property); ok {
			if name, ok := p.KeyName(); ok && name == key {
				return p.Value
			}
		}
	}
	return nil
}

func transpile(p *ast.Program, symbols *fakeSymbols) {
	Run(p, NewCubePropContext(symbols, symbols, nil))
}
