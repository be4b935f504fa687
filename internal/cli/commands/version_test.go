package commands

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewVersionCommand(t *testing.T) {
	info := BuildInfo{Version: "0.1.0", GitCommit: "abc123", BuildDate: "2026-01-02", GoVersion: "go1.24.11"}

	tests := []struct {
		name    string
		args    []string
		wantOut []string
		exact   string
	}{
		{
			name:    "full",
			wantOut: []string{"leapcube v0.1.0", "commit: abc123", "built:  2026-01-02", "go:     go1.24.11"},
		},
		{
			name:  "short",
			args:  []string{"--short"},
			exact: "0.1.0\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := NewVersionCommand(info)
			buf := new(bytes.Buffer)
			cmd.SetOut(buf)
			cmd.SetErr(buf)
			cmd.SetArgs(tt.args)

			require.NoError(t, cmd.Execute())
			if tt.exact != "" {
				assert.Equal(t, tt.exact, buf.String())
			}
			for _, want := range tt.wantOut {
				assert.Contains(t, buf.String(), want)
			}
		})
	}
}

func TestNewVersionCommand_DefaultsGoVersion(t *testing.T) {
	cmd := NewVersionCommand(BuildInfo{Version: "dev"})
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetArgs(nil)

	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "leapcube vdev")
	assert.Contains(t, buf.String(), "go:     go")
}
