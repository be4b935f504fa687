package symbols

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newOrdersTable() *Table {
	t := NewTable()
	orders := NewCube("Orders")
	orders.AddMember("count", MemberMeasure)
	orders.AddMember("status", MemberDimension)
	orders.AddMember("Users", MemberDimension) // shadows the Users cube inside Orders
	t.Register(orders)
	t.Register(NewCube("Users"))
	return t
}

func TestTable_Lookup(t *testing.T) {
	table := newOrdersTable()

	tests := []struct {
		name      string
		cubeName  string
		symbol    string
		wantFound bool
		wantKind  SymbolKind
		wantCube  string
	}{
		{name: "context symbol in global scope", cubeName: "", symbol: "SECURITY_CONTEXT", wantFound: true, wantKind: SymbolContext},
		{name: "context symbol in cube scope", cubeName: "Orders", symbol: "FILTER_PARAMS", wantFound: true, wantKind: SymbolContext},
		{name: "placeholder resolves to current cube", cubeName: "Orders", symbol: "CUBE", wantFound: true, wantKind: SymbolCube, wantCube: "Orders"},
		{name: "placeholder without current cube", cubeName: "", symbol: "CUBE", wantFound: false},
		{name: "placeholder in unknown cube", cubeName: "Missing", symbol: "TABLE", wantFound: false},
		{name: "member of current cube", cubeName: "Orders", symbol: "count", wantFound: true, wantKind: SymbolMember, wantCube: "Orders"},
		{name: "member shadows cube name", cubeName: "Orders", symbol: "Users", wantFound: true, wantKind: SymbolMember, wantCube: "Orders"},
		{name: "cube by name", cubeName: "Users", symbol: "Orders", wantFound: true, wantKind: SymbolCube, wantCube: "Orders"},
		{name: "member not visible globally", cubeName: "", symbol: "count", wantFound: false},
		{name: "member of other cube", cubeName: "Users", symbol: "status", wantFound: false},
		{name: "unknown", cubeName: "Orders", symbol: "nope", wantFound: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sym, ok := table.Lookup(tt.cubeName, tt.symbol)
			assert.Equal(t, tt.wantFound, ok)
			assert.Equal(t, tt.wantFound, table.ResolveSymbol(tt.cubeName, tt.symbol))
			if !tt.wantFound {
				return
			}
			assert.Equal(t, tt.wantKind, sym.Kind)
			if tt.wantCube != "" {
				require.NotNil(t, sym.Cube)
				assert.Equal(t, tt.wantCube, sym.Cube.Name)
			}
		})
	}
}

func TestTable_IsCurrentCube(t *testing.T) {
	table := NewTable()
	assert.True(t, table.IsCurrentCube("CUBE"))
	assert.True(t, table.IsCurrentCube("TABLE"))
	assert.False(t, table.IsCurrentCube("cube"))
	assert.False(t, table.IsCurrentCube("Orders"))
}

func TestTable_ResolveCube(t *testing.T) {
	table := newOrdersTable()
	assert.True(t, table.ResolveCube("Orders"))
	assert.False(t, table.ResolveCube("count"))
	assert.False(t, table.ResolveCube("SECURITY_CONTEXT"))
}

func TestTable_RegisterMerges(t *testing.T) {
	table := NewTable()
	a := NewCube("Orders")
	a.AddMember("count", MemberMeasure)
	table.Register(a)

	b := NewCube("Orders")
	b.AddMember("status", MemberDimension)
	b.IsView = true
	table.Register(b)

	got, ok := table.Cube("Orders")
	require.True(t, ok)
	assert.Equal(t, []string{"count", "status"}, got.MemberNames())
	assert.True(t, got.IsView)
	assert.Len(t, table.Cubes(), 1)
}

func TestTable_RegisterReplacesExternal(t *testing.T) {
	table := NewTable()
	ext := NewCube("Users")
	ext.File = "external.yaml"
	ext.External = true
	ext.AddMember("legacy", MemberMeasure)
	table.Register(ext)

	schema := NewCube("Users")
	schema.File = "users.js"
	schema.AddMember("count", MemberMeasure)
	table.Register(schema)

	// A later external declaration merges into the schema cube.
	late := NewCube("Users")
	late.External = true
	late.AddMember("extra", MemberDimension)
	table.Register(late)

	got, ok := table.Cube("Users")
	require.True(t, ok)
	assert.Equal(t, "users.js", got.File)
	assert.False(t, got.External)
	assert.Equal(t, []string{"count", "extra"}, got.MemberNames())
	assert.False(t, table.ResolveSymbol("Users", "legacy"))
}

func TestTable_CubesSorted(t *testing.T) {
	table := NewTable()
	for _, n := range []string{"Users", "Orders", "LineItems"} {
		table.Register(NewCube(n))
	}

	var names []string
	for _, c := range table.Cubes() {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"LineItems", "Orders", "Users"}, names)
}

func TestTable_ContextSymbols(t *testing.T) {
	table := NewTable()
	table.RegisterContextSymbol("TENANT_ID", "tenantId")

	assert.True(t, table.ResolveSymbol("", "TENANT_ID"))
	assert.Contains(t, table.ContextSymbols(), "TENANT_ID")
	assert.Contains(t, table.ContextSymbols(), "SQL_UTILS")

	// Registering on one table does not leak into another.
	assert.False(t, NewTable().ResolveSymbol("", "TENANT_ID"))
}

func TestTable_ConcurrentReaders(t *testing.T) {
	table := newOrdersTable()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				assert.True(t, table.ResolveSymbol("Orders", "count"))
				assert.True(t, table.ResolveCube("Users"))
			}
		}()
	}
	wg.Wait()
}

func TestSymbolKind_String(t *testing.T) {
	assert.Equal(t, "cube", SymbolCube.String())
	assert.Equal(t, "member", SymbolMember.String())
	assert.Equal(t, "context", SymbolContext.String())
	assert.Equal(t, "unknown", SymbolKind(42).String())
}
