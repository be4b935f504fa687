package symbols

import (
	"github.com/leapstack-labs/leapcube/pkg/ast"
)

// Blocks of a declaration body whose keys are member names.
var memberBlocks = map[string]MemberType{
	"measures":        MemberMeasure,
	"dimensions":      MemberDimension,
	"segments":        MemberSegment,
	"preAggregations": MemberPreAggregation,
	"hierarchies":     MemberHierarchy,
}

// Collect registers every cube and view declared in prog and returns them in
// source order. Declarations without a static name are skipped; they cannot be
// referenced by name. Collect must run before the tree is transpiled.
func Collect(t *Table, file string, prog *ast.Program) []*Cube {
	var found []*Cube

	ast.Traverse(prog, ast.Visitor{
		ast.KindCall: func(c *ast.Cursor) {
			call := c.Node().(*ast.Call)
			callee, ok := call.CalleeName()
			if !ok || (callee != "cube" && callee != "view") || len(call.Args) < 2 {
				return
			}
			name := staticName(call.Args[0])
			if name == "" {
				return
			}
			body, ok := call.Args[len(call.Args)-1].(*ast.Object)
			if !ok {
				return
			}

			cube := NewCube(name)
			cube.IsView = callee == "view"
			cube.File = file
			collectMembers(cube, body)

			t.Register(cube)
			found = append(found, cube)
		},
	})

	return found
}

// staticName is stricter than the transpiler's declaration name: a template with
// interpolations has no name known before evaluation, so it is not registered
// even though the transpiler scopes its body to the leading chunk.
func staticName(arg ast.Expr) string {
	switch a := arg.(type) {
	case *ast.StringLiteral:
		return a.Value
	case *ast.TemplateLiteral:
		if len(a.Exprs) == 0 && len(a.Quasis) == 1 {
			return a.Quasis[0].Cooked
		}
	}
	return ""
}

func collectMembers(cube *Cube, body *ast.Object) {
	for _, m := range body.Properties {
		p, ok := m.(*ast.Property)
		if !ok {
			continue
		}
		key, ok := propertyKey(p)
		if !ok {
			continue
		}
		typ, ok := memberBlocks[key]
		if !ok {
			continue
		}
		block, ok := p.Value.(*ast.Object)
		if !ok {
			continue
		}
		for _, mm := range block.Properties {
			mp, ok := mm.(*ast.Property)
			if !ok {
				continue
			}
			if name, ok := propertyKey(mp); ok {
				cube.AddMember(name, typ)
			}
		}
	}
}

// propertyKey accepts identifier and quoted keys, which both name members.
func propertyKey(p *ast.Property) (string, bool) {
	if p.Computed {
		return "", false
	}
	switch k := p.Key.(type) {
	case *ast.Identifier:
		return k.Name, true
	case *ast.StringLiteral:
		return k.Value, true
	}
	return "", false
}
