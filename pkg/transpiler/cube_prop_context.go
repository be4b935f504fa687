package transpiler

import (
	"log/slog"

	"github.com/leapstack-labs/leapcube/pkg/ast"
)

// Properties whose values reference other members and are always deferred.
var simpleFields = map[string]struct{}{
	"sql":                    {},
	"measureReferences":      {},
	"dimensionReferences":    {},
	"segmentReferences":      {},
	"timeDimensionReference": {},
	"timeDimensions":         {},
	"rollupReferences":       {},
	"drillMembers":           {},
	"drillMemberReferences":  {},
	"contextMembers":         {},
	"columns":                {},
}

// Properties that are deferred only as plain blocks. A block passed straight to a
// call (the body of cube(...) itself, or a member helper) defines members instead.
var complexFields = map[string]struct{}{
	"dimensions": {},
	"segments":   {},
	"rollups":    {},
	"measures":   {},
}

// extendsField is matched as the whole key; a key merely containing "extends"
// is not an extends target.
const extendsField = "extends"

// Scope is the resolution context of one declaration body. An empty CubeName is the
// global scope used by context declarations and anonymous cubes.
type Scope struct {
	CubeName string
	Symbols  SymbolResolver
}

// Resolve accepts names the symbol table resolves from this scope and the
// current-cube placeholders.
func (s Scope) Resolve(name string) bool {
	return s.Symbols.ResolveSymbol(s.CubeName, name) || s.Symbols.IsCurrentCube(name)
}

type registryScope struct {
	cubes CubeRegistry
}

func (s registryScope) Resolve(name string) bool {
	return s.cubes.ResolveCube(name)
}

// CubePropContext defers reference-bearing properties of cube, view and context
// declarations.
type CubePropContext struct {
	symbols SymbolResolver
	cubes   CubeRegistry
	logger  *slog.Logger
}

// NewCubePropContext creates the pass. A nil logger discards debug output.
func NewCubePropContext(symbols SymbolResolver, cubes CubeRegistry, logger *slog.Logger) *CubePropContext {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &CubePropContext{
		symbols: symbols,
		cubes:   cubes,
		logger:  logger,
	}
}

// Name implements Transpiler.
func (t *CubePropContext) Name() string { return "cube-prop-context" }

// Visitor implements Transpiler.
func (t *CubePropContext) Visitor() ast.Visitor {
	return ast.Visitor{
		ast.KindCall: t.declaration,
	}
}

// declaration dispatches cube(...), view(...) and context(...) calls. The last
// argument is the body; anything else is not a declaration and is skipped.
func (t *CubePropContext) declaration(c *ast.Cursor) {
	call := c.Node().(*ast.Call)
	callee, ok := call.CalleeName()
	if !ok || len(call.Args) == 0 {
		return
	}

	switch callee {
	case "cube", "view":
		body := argument(c, len(call.Args)-1)
		name := declarationName(call.Args[0])
		body.Traverse(t.propertyVisitor(Scope{CubeName: name, Symbols: t.symbols}))
		body.Traverse(t.fieldVisitor(extendsField, registryScope{cubes: t.cubes}.Resolve))
	case "context":
		body := argument(c, len(call.Args)-1)
		body.Traverse(t.propertyVisitor(Scope{Symbols: t.symbols}))
	}
}

// declarationName extracts a static name from the first declaration argument:
// a string literal, or the leading chunk of a template literal. Collection does
// not register templates with interpolations, so members resolve inside such a
// body only when a cube of exactly the leading chunk's name exists elsewhere.
func declarationName(arg ast.Expr) string {
	switch a := arg.(type) {
	case *ast.StringLiteral:
		return a.Value
	case *ast.TemplateLiteral:
		if len(a.Quasis) > 0 {
			return a.Quasis[0].Cooked
		}
	}
	return ""
}

func argument(c *ast.Cursor, i int) *ast.Cursor {
	for _, ch := range c.Children() {
		if ch.Edge() == ast.EdgeCallArgument && ch.Index() == i {
			return ch
		}
	}
	return nil
}

func (t *CubePropContext) propertyVisitor(scope Scope) ast.Visitor {
	return ast.Visitor{
		ast.KindProperty: func(c *ast.Cursor) {
			key, ok := c.Node().(*ast.Property).KeyName()
			if !ok {
				return
			}
			_, isSimple := simpleFields[key]
			_, isComplex := complexFields[key]
			isComplex = isComplex && !isCallArgument(c.ParentCursor())
			if !isSimple && !isComplex {
				return
			}
			t.wrapProperty(c, key, scope.CubeName, scope.Resolve)
		},
	}
}

// fieldVisitor defers every property named field using resolve.
func (t *CubePropContext) fieldVisitor(field string, resolve Resolver) ast.Visitor {
	return ast.Visitor{
		ast.KindProperty: func(c *ast.Cursor) {
			key, ok := c.Node().(*ast.Property).KeyName()
			if !ok || key != field {
				return
			}
			t.wrapProperty(c, key, "", resolve)
		},
	}
}

// isCallArgument reports whether the object behind obj is passed directly to a call.
func isCallArgument(obj *ast.Cursor) bool {
	return obj != nil && obj.Edge() == ast.EdgeCallArgument
}

// wrapProperty replaces the value of the property at c with a deferred function.
func (t *CubePropContext) wrapProperty(c *ast.Cursor, key, cubeName string, resolve Resolver) {
	value := c.Field(ast.EdgePropertyValue)
	if value == nil {
		return
	}
	params := CollectIdentifiers(value, resolve)
	value.Replace(WrapDeferred(params, value.Node().(ast.Expr)))

	t.logger.Debug("deferred property",
		slog.String("key", key),
		slog.String("cube", cubeName),
		slog.Any("params", params),
		slog.String("pos", c.Node().Pos().String()),
	)
}
