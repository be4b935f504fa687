// Package symbols holds the cube symbol table consulted by the transpiler.
//
// A Table maps cube and view names to their members and knows the global context
// symbols every schema file may reference. It implements both
// transpiler.SymbolResolver and transpiler.CubeRegistry. Tables are populated from
// parsed schema files (Collect) and from YAML manifests (LoadManifest) before any
// file is transpiled, and are safe for concurrent readers afterwards.
package symbols

import (
	"sort"
	"sync"
)

// MemberType classifies a cube member.
type MemberType string

// Member types, named after the blocks that declare them.
const (
	MemberMeasure        MemberType = "measure"
	MemberDimension      MemberType = "dimension"
	MemberSegment        MemberType = "segment"
	MemberPreAggregation MemberType = "preAggregation"
	MemberHierarchy      MemberType = "hierarchy"
)

// SymbolKind classifies a lookup result.
type SymbolKind int

// Symbol kinds.
const (
	SymbolCube SymbolKind = iota
	SymbolMember
	SymbolContext
)

func (k SymbolKind) String() string {
	switch k {
	case SymbolCube:
		return "cube"
	case SymbolMember:
		return "member"
	case SymbolContext:
		return "context"
	}
	return "unknown"
}

// Cube is a cube or view declaration.
type Cube struct {
	Name     string
	IsView   bool
	File     string // source file or manifest that declared it
	External bool   // declared by a symbol manifest
	Members  map[string]MemberType
}

// NewCube creates a cube with an empty member set.
func NewCube(name string) *Cube {
	return &Cube{Name: name, Members: make(map[string]MemberType)}
}

// AddMember registers a member. A later registration of the same name wins.
func (c *Cube) AddMember(name string, typ MemberType) {
	if c.Members == nil {
		c.Members = make(map[string]MemberType)
	}
	c.Members[name] = typ
}

// MemberNames returns the member names sorted alphabetically.
func (c *Cube) MemberNames() []string {
	names := make([]string, 0, len(c.Members))
	for n := range c.Members {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Symbol is the result of a successful lookup.
type Symbol struct {
	Kind   SymbolKind
	Name   string
	Cube   *Cube      // the cube itself, or the owner of a member
	Member MemberType // set for SymbolMember
}

// Context symbols available in every scope, mapped to the evaluation context field
// they are bound to.
var defaultContextSymbols = map[string]string{
	"SECURITY_CONTEXT": "securityContext",
	"USER_CONTEXT":     "securityContext",
	"FILTER_PARAMS":    "filterParams",
	"FILTER_GROUP":     "filterGroup",
	"SQL_UTILS":        "sqlUtils",
	"COMPILE_CONTEXT":  "compileContext",
}

// Names standing for "the cube being declared".
var currentCubeNames = map[string]struct{}{
	"CUBE":  {},
	"TABLE": {},
}

// Table is a concurrency-safe symbol table.
type Table struct {
	mu      sync.RWMutex
	cubes   map[string]*Cube
	context map[string]string
}

// NewTable creates a table knowing only the default context symbols.
func NewTable() *Table {
	ctx := make(map[string]string, len(defaultContextSymbols))
	for k, v := range defaultContextSymbols {
		ctx[k] = v
	}
	return &Table{
		cubes:   make(map[string]*Cube),
		context: ctx,
	}
}

// Register adds a cube or view. Registering a name twice merges the members into
// the existing entry, except that a schema declaration replaces an external one.
func (t *Table) Register(c *Cube) {
	t.mu.Lock()
	defer t.mu.Unlock()

	existing, ok := t.cubes[c.Name]
	if !ok || (existing.External && !c.External) {
		t.cubes[c.Name] = c
		return
	}
	for name, typ := range c.Members {
		existing.AddMember(name, typ)
	}
	existing.IsView = existing.IsView || c.IsView
}

// RegisterContextSymbol makes name resolvable from every scope.
func (t *Table) RegisterContextSymbol(name, binding string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.context[name] = binding
}

// Cube returns the cube registered under name.
func (t *Table) Cube(name string) (*Cube, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	c, ok := t.cubes[name]
	return c, ok
}

// Cubes returns all registered cubes and views sorted by name.
func (t *Table) Cubes() []*Cube {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]*Cube, 0, len(t.cubes))
	for _, c := range t.cubes {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// ContextSymbols returns the global context symbol names, sorted.
func (t *Table) ContextSymbols() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	names := make([]string, 0, len(t.context))
	for n := range t.context {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Lookup resolves name as seen from the declaration cubeName ("" for the global
// scope). Order: context symbols, current-cube placeholders, members of the
// current cube, cube and view names.
func (t *Table) Lookup(cubeName, name string) (Symbol, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if _, ok := t.context[name]; ok {
		return Symbol{Kind: SymbolContext, Name: name}, true
	}

	current := t.cubes[cubeName]
	if cubeName == "" {
		current = nil
	}

	if _, ok := currentCubeNames[name]; ok {
		if current == nil {
			return Symbol{}, false
		}
		return Symbol{Kind: SymbolCube, Name: current.Name, Cube: current}, true
	}

	if current != nil {
		if typ, ok := current.Members[name]; ok {
			return Symbol{Kind: SymbolMember, Name: name, Cube: current, Member: typ}, true
		}
	}

	if c, ok := t.cubes[name]; ok {
		return Symbol{Kind: SymbolCube, Name: name, Cube: c}, true
	}

	return Symbol{}, false
}

// ResolveSymbol implements transpiler.SymbolResolver.
func (t *Table) ResolveSymbol(cubeName, name string) bool {
	_, ok := t.Lookup(cubeName, name)
	return ok
}

// IsCurrentCube implements transpiler.SymbolResolver.
func (t *Table) IsCurrentCube(name string) bool {
	_, ok := currentCubeNames[name]
	return ok
}

// ResolveCube implements transpiler.CubeRegistry.
func (t *Table) ResolveCube(name string) bool {
	_, ok := t.Cube(name)
	return ok
}
