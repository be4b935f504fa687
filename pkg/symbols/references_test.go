package symbols

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/leapstack-labs/leapcube/pkg/ast"
)

func deferred(params ...string) *ast.Function {
	fn := &ast.Function{Body: &ast.StringLiteral{Value: "x"}}
	for _, p := range params {
		fn.Params = append(fn.Params, ident(p))
	}
	return fn
}

func TestReferences(t *testing.T) {
	table := NewTable()
	for _, name := range []string{"users", "orders", "line_items", "products"} {
		table.Register(NewCube(name))
	}

	prog := &ast.Program{Body: []ast.Stmt{
		declare("cube", &ast.StringLiteral{Value: "orders"},
			&ast.Property{Key: ident("sql"), Value: deferred("CUBE", "SECURITY_CONTEXT")},
			&ast.Property{Key: ident("joins"), Value: &ast.Object{Properties: []ast.ObjectMember{
				&ast.Property{Key: ident("users"), Value: &ast.Object{Properties: []ast.ObjectMember{
					&ast.Property{Key: ident("sql"), Value: deferred("CUBE", "users")},
				}}},
			}}},
		),
		declare("cube", &ast.StringLiteral{Value: "line_items"},
			&ast.Property{Key: ident("extends"), Value: deferred("products")},
			&ast.Property{Key: ident("measures"), Value: &ast.Object{Properties: []ast.ObjectMember{
				&ast.Property{Key: ident("total"), Value: &ast.Object{Properties: []ast.ObjectMember{
					&ast.Property{Key: ident("sql"), Value: deferred("orders", "line_items", "products")},
				}}},
			}}},
		),
		declare("view", &ast.StringLiteral{Value: "users"},
			&ast.Property{Key: ident("sql"), Value: deferred("unknownCube")},
		),
		declare("cube", ident("dynamic"),
			&ast.Property{Key: ident("sql"), Value: deferred("users")},
		),
	}}

	refs := References(table, prog)

	assert.Equal(t, map[string][]string{
		"orders":     {"users"},
		"line_items": {"orders", "products"},
		"users":      {},
	}, refs)
}

func TestReferencesUntranspiled(t *testing.T) {
	table := NewTable()
	table.Register(NewCube("users"))

	prog := &ast.Program{Body: []ast.Stmt{
		declare("cube", &ast.StringLiteral{Value: "orders"},
			&ast.Property{Key: ident("sql"), Value: ident("users")},
		),
	}}

	assert.Equal(t, map[string][]string{"orders": {}}, References(table, prog))
}
