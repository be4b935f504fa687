// Package transpiler rewrites cube schema syntax trees before they are evaluated.
//
// The main pass, CubePropContext, turns reference-bearing properties of cube, view and
// context declarations into deferred arrow functions whose parameters are the domain
// symbols the original expression mentions:
//
//	cube('Orders', { sql: `SELECT * FROM t WHERE ${CUBE}.id = ${Users.id}` })
//
// becomes
//
//	cube('Orders', { sql: (CUBE, Users) => `SELECT * FROM t WHERE ${CUBE}.id = ${Users.id}` })
//
// so that the evaluator can call the function with the resolved symbols, in parameter
// order, once they are known. Passes never fail: structure they do not recognise is
// left untouched and validation is left to later compiler stages.
package transpiler

import "github.com/leapstack-labs/leapcube/pkg/ast"

// SymbolResolver is the symbol table consulted while collecting identifiers.
type SymbolResolver interface {
	// ResolveSymbol reports whether name denotes a symbol visible from the
	// declaration cubeName. An empty cubeName means the global scope.
	ResolveSymbol(cubeName, name string) bool
	// IsCurrentCube reports whether name is a placeholder for the cube being declared.
	IsCurrentCube(name string) bool
}

// CubeRegistry resolves cube names. It is used for extends targets only.
type CubeRegistry interface {
	ResolveCube(name string) bool
}

// Resolver reports whether an identifier should become a parameter of the
// deferred function.
type Resolver func(name string) bool

// Transpiler is a single rewrite pass. Its visitor is installed into ast.Traverse.
type Transpiler interface {
	Name() string
	Visitor() ast.Visitor
}

// Run applies the transpilers to the tree in order, one full traversal each.
//
// Passes are not idempotent: running CubePropContext twice over the same tree wraps
// already wrapped values a second time. Callers run the pipeline once per parsed file.
func Run(root ast.Node, transpilers ...Transpiler) {
	for _, t := range transpilers {
		ast.Traverse(root, t.Visitor())
	}
}
