package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/leapcube/internal/cli/output"
	"github.com/leapstack-labs/leapcube/internal/dag"
)

// NewDepsCommand creates the deps command.
func NewDepsCommand() *cobra.Command {
	var cube string

	cmd := &cobra.Command{
		Use:   "deps [files...]",
		Short: "Show which cubes reference which",
		Long: `Show the references between cubes and views found after transpiling: a cube
uses another when one of its deferred properties takes that cube as a parameter.

With --cube, list everything the cube depends on and everything depending on it,
directly or transitively.`,
		Example: `  leapcube deps
  leapcube deps --cube Orders
  leapcube deps -o json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cc, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			return runDeps(cmd.Context(), cc, args, cube)
		},
	}

	cmd.Flags().StringVarP(&cube, "cube", "c", "", "Show transitive dependencies of one cube")
	return cmd
}

// DepsInfo is one cube's direct references.
type DepsInfo struct {
	Name   string   `json:"name"`
	File   string   `json:"file"`
	Uses   []string `json:"uses"`
	UsedBy []string `json:"used_by"`
}

// CubeDeps is the JSON form of deps --cube.
type CubeDeps struct {
	Name       string   `json:"name"`
	Upstream   []string `json:"upstream"`
	Downstream []string `json:"downstream"`
}

func runDeps(ctx context.Context, cc *CommandContext, args []string, cube string) error {
	comp := cc.NewCompiler()
	files, err := loadFiles(cc, comp, args)
	if err != nil {
		return err
	}
	result, err := comp.Compile(ctx, files)
	if err != nil {
		return err
	}

	if cube != "" {
		return renderCubeDeps(cc.Renderer, result.Graph, cube)
	}

	infos := buildDeps(result.Graph)
	r := cc.Renderer
	if r.Mode() == output.ModeJSON {
		return r.JSON(infos)
	}
	if len(infos) == 0 {
		r.Muted("No cubes found")
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(r.Writer())
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Cube", "Uses", "Used By", "File"})
	for _, info := range infos {
		t.AppendRow(table.Row{info.Name, joinOrDash(info.Uses), joinOrDash(info.UsedBy), info.File})
	}
	t.Render()
	r.Printf("(%d cubes, %d references)\n", result.Graph.NodeCount(), result.Graph.EdgeCount())
	return nil
}

// buildDeps lists cubes so that every cube follows the cubes it uses.
func buildDeps(g *dag.Graph) []DepsInfo {
	infos := []DepsInfo{}
	for _, id := range g.Order() {
		n, _ := g.Node(id)
		infos = append(infos, DepsInfo{Name: id, File: n.File, Uses: g.Uses(id), UsedBy: g.UsedBy(id)})
	}
	return infos
}

func renderCubeDeps(r *output.Renderer, g *dag.Graph, cube string) error {
	if _, ok := g.Node(cube); !ok {
		return fmt.Errorf("unknown cube %q", cube)
	}
	deps := CubeDeps{Name: cube, Upstream: g.Upstream(cube), Downstream: g.Affected([]string{cube})}
	if r.Mode() == output.ModeJSON {
		return r.JSON(deps)
	}

	r.Header(1, cube)
	r.KeyValue("Uses", joinOrDash(g.Uses(cube)))
	r.KeyValue("Used by", joinOrDash(g.UsedBy(cube)))
	r.KeyValue("Upstream", joinOrDash(deps.Upstream))
	r.KeyValue("Downstream", joinOrDash(deps.Downstream))
	return nil
}

func joinOrDash(names []string) string {
	if len(names) == 0 {
		return "-"
	}
	return strings.Join(names, ", ")
}
