package transpiler

import "github.com/leapstack-labs/leapcube/pkg/ast"

// CollectIdentifiers returns the names of the identifiers under c (c's node included)
// that resolve, deduplicated in first-occurrence order of a pre-order traversal.
// The tree is not modified.
func CollectIdentifiers(c *ast.Cursor, resolve Resolver) []string {
	var found []string

	if id, ok := c.Node().(*ast.Identifier); ok && matchIdentifier(c, id, resolve) {
		found = append(found, id.Name)
	}

	c.Traverse(ast.Visitor{
		ast.KindIdentifier: func(ic *ast.Cursor) {
			id := ic.Node().(*ast.Identifier)
			if matchIdentifier(ic, id, resolve) {
				found = append(found, id.Name)
			}
		},
	})

	return uniq(found)
}

// matchIdentifier decides whether one identifier is a symbol reference. The field
// name of a non-computed member access (the y of x.y) never is; its object may be.
func matchIdentifier(c *ast.Cursor, id *ast.Identifier, resolve Resolver) bool {
	if m, ok := c.Parent().(*ast.Member); ok && c.Edge() == ast.EdgeMemberProperty && !m.Computed {
		return false
	}
	return resolve(id.Name)
}

func uniq(names []string) []string {
	if len(names) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(names))
	out := names[:0]
	for _, n := range names {
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}

// WrapDeferred returns an arrow function with the given parameters whose body is
// body itself, not a copy.
func WrapDeferred(params []string, body ast.Expr) *ast.Function {
	fn := &ast.Function{
		At:     body.Pos(),
		Params: make([]*ast.Identifier, 0, len(params)),
		Body:   body,
	}
	for _, p := range params {
		fn.Params = append(fn.Params, &ast.Identifier{Name: p})
	}
	return fn
}
