package symbols

import (
	"sort"

	"github.com/leapstack-labs/leapcube/pkg/ast"
)

// References returns, for every cube and view declared in prog, the other known
// cubes its deferred functions take as parameters, sorted. It must run after the
// tree is transpiled; before that no property takes parameters.
func References(t *Table, prog *ast.Program) map[string][]string {
	refs := make(map[string][]string)

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

			seen := make(map[string]bool)
			for _, prev := range refs[name] {
				seen[prev] = true
			}
			c.Traverse(ast.Visitor{
				ast.KindFunction: func(fc *ast.Cursor) {
					for _, p := range fc.Node().(*ast.Function).ParamNames() {
						if p == name || seen[p] || !t.ResolveCube(p) {
							continue
						}
						seen[p] = true
						refs[name] = append(refs[name], p)
					}
				},
			})
			if _, ok := refs[name]; !ok {
				refs[name] = []string{}
			}
			sort.Strings(refs[name])
		},
	})

	return refs
}
