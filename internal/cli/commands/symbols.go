package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/leapstack-labs/leapcube/internal/cli/output"
	"github.com/leapstack-labs/leapcube/pkg/symbols"
)

// NewSymbolsCommand creates the symbols command.
func NewSymbolsCommand() *cobra.Command {
	var showMembers bool

	cmd := &cobra.Command{
		Use:   "symbols [files...]",
		Short: "List the cubes, views and members the transpiler resolves against",
		Example: `  leapcube symbols
  leapcube symbols --members
  leapcube symbols -o json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cc, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			return runSymbols(cmd.Context(), cc, args, showMembers)
		},
	}

	cmd.Flags().BoolVar(&showMembers, "members", false, "List every member instead of counts")
	return cmd
}

// SymbolsOutput is the JSON form of the symbols command.
type SymbolsOutput struct {
	Cubes   []CubeInfo `json:"cubes"`
	Context []string   `json:"context"`
}

// CubeInfo describes one registered cube or view.
type CubeInfo struct {
	Name    string       `json:"name"`
	Kind    string       `json:"kind"`
	File    string       `json:"file"`
	Members []MemberInfo `json:"members"`
}

// MemberInfo is one cube member.
type MemberInfo struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

func runSymbols(ctx context.Context, cc *CommandContext, args []string, showMembers bool) error {
	comp := cc.NewCompiler()
	files, err := loadFiles(cc, comp, args)
	if err != nil {
		return err
	}
	result, err := comp.Compile(ctx, files)
	if err != nil {
		return err
	}

	out := buildSymbolsOutput(result.Symbols)
	r := cc.Renderer
	if r.Mode() == output.ModeJSON {
		return r.JSON(out)
	}

	if len(out.Cubes) == 0 {
		r.Muted("No cubes found")
	} else if showMembers {
		renderMembers(r, out.Cubes)
	} else {
		renderCubes(r, out.Cubes)
	}
	r.Muted("Context symbols: " + strings.Join(out.Context, ", "))
	return nil
}

func buildSymbolsOutput(t *symbols.Table) *SymbolsOutput {
	title := cases.Title(language.English)

	out := &SymbolsOutput{Cubes: []CubeInfo{}, Context: t.ContextSymbols()}
	for _, c := range t.Cubes() {
		kind := "cube"
		if c.IsView {
			kind = "view"
		}
		info := CubeInfo{Name: c.Name, Kind: title.String(kind), File: c.File, Members: []MemberInfo{}}
		for _, name := range c.MemberNames() {
			info.Members = append(info.Members, MemberInfo{Name: name, Type: string(c.Members[name])})
		}
		out.Cubes = append(out.Cubes, info)
	}
	return out
}

func countMembers(members []MemberInfo, typ symbols.MemberType) int {
	n := 0
	for _, m := range members {
		if m.Type == string(typ) {
			n++
		}
	}
	return n
}

func renderCubes(r *output.Renderer, cubes []CubeInfo) {
	t := table.NewWriter()
	t.SetOutputMirror(r.Writer())
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Name", "Kind", "Measures", "Dimensions", "Segments", "Total", "File"})
	for _, c := range cubes {
		t.AppendRow(table.Row{
			c.Name,
			c.Kind,
			countMembers(c.Members, symbols.MemberMeasure),
			countMembers(c.Members, symbols.MemberDimension),
			countMembers(c.Members, symbols.MemberSegment),
			len(c.Members),
			c.File,
		})
	}
	t.Render()
	r.Printf("(%d declarations)\n", len(cubes))
}

func renderMembers(r *output.Renderer, cubes []CubeInfo) {
	t := table.NewWriter()
	t.SetOutputMirror(r.Writer())
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Cube", "Member", "Type", "Reference"})
	total := 0
	for _, c := range cubes {
		for _, m := range c.Members {
			t.AppendRow(table.Row{c.Name, m.Name, m.Type, fmt.Sprintf("%s.%s", c.Name, m.Name)})
			total++
		}
	}
	t.Render()
	r.Printf("(%d members)\n", total)
}
