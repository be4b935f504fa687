package commands

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leapcube/internal/cli/output"
)

func TestRunDeps_Table(t *testing.T) {
	cc, buf := newTestContext(t, output.ModeText)

	require.NoError(t, runDeps(context.Background(), cc, nil, ""))

	out := buf.String()
	assert.Contains(t, out, "USED BY")
	assert.Contains(t, out, "sales/orders.js")
	assert.Contains(t, out, "(2 cubes, 1 references)")
}

func TestRunDeps_JSON(t *testing.T) {
	cc, buf := newTestContext(t, output.ModeJSON)

	require.NoError(t, runDeps(context.Background(), cc, nil, ""))

	var infos []DepsInfo
	require.NoError(t, json.Unmarshal(buf.Bytes(), &infos))
	assert.Equal(t, []DepsInfo{
		{Name: "Users", File: "users.js", Uses: []string{}, UsedBy: []string{"Orders"}},
		{Name: "Orders", File: "sales/orders.js", Uses: []string{"Users"}, UsedBy: []string{}},
	}, infos)
}

func TestRunDeps_Cube(t *testing.T) {
	tests := []struct {
		name       string
		cube       string
		upstream   []string
		downstream []string
	}{
		{"referencing cube", "Orders", []string{"Users"}, []string{}},
		{"referenced cube", "Users", []string{}, []string{"Orders"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cc, buf := newTestContext(t, output.ModeJSON)

			require.NoError(t, runDeps(context.Background(), cc, nil, tt.cube))

			var deps CubeDeps
			require.NoError(t, json.Unmarshal(buf.Bytes(), &deps))
			assert.Equal(t, tt.cube, deps.Name)
			assert.Equal(t, tt.upstream, deps.Upstream)
			assert.Equal(t, tt.downstream, deps.Downstream)
		})
	}

	t.Run("text", func(t *testing.T) {
		cc, buf := newTestContext(t, output.ModeText)

		require.NoError(t, runDeps(context.Background(), cc, nil, "Orders"))
		assert.Contains(t, buf.String(), "Orders")
		assert.Contains(t, buf.String(), "Upstream:")
		assert.Contains(t, buf.String(), "Users")
	})

	t.Run("unknown", func(t *testing.T) {
		cc, _ := newTestContext(t, output.ModeText)

		err := runDeps(context.Background(), cc, nil, "Nope")
		require.Error(t, err)
		assert.Contains(t, err.Error(), `unknown cube "Nope"`)
	})
}

func TestJoinOrDash(t *testing.T) {
	assert.Equal(t, "-", joinOrDash(nil))
	assert.Equal(t, "a, b", joinOrDash([]string{"a", "b"}))
}
