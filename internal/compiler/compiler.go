// Package compiler drives schema compilation: it loads schema files, parses them
// concurrently, builds the shared symbol table, rewrites each tree and prints the
// result.
//
// Compilation runs in three phases. Parsing and rewriting fan out over an
// errgroup bounded by Config.Concurrency; symbol collection in between is
// sequential in file order so the table is complete and read-only before any
// rewrite starts. Each tree is owned by exactly one goroutine per phase.
package compiler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/leapstack-labs/leapcube/internal/dag"
	"github.com/leapstack-labs/leapcube/pkg/ast"
	"github.com/leapstack-labs/leapcube/pkg/format"
	"github.com/leapstack-labs/leapcube/pkg/parser"
	"github.com/leapstack-labs/leapcube/pkg/symbols"
	"github.com/leapstack-labs/leapcube/pkg/transpiler"
)

// DefaultConcurrency is used when Config.Concurrency is not positive.
const DefaultConcurrency = 4

// Config holds compiler configuration.
type Config struct {
	Logger      *slog.Logger
	Concurrency int
	Manifests   []string // YAML symbol manifests applied before collection
}

// Compiler compiles schema files. It holds no per-run state and may be reused.
type Compiler struct {
	logger      *slog.Logger
	concurrency int
	manifests   []string
}

// File is one schema source file. Path is relative to the schema directory and
// names the output file.
type File struct {
	Path   string
	Source []byte
}

// Output is the compiled form of one File.
type Output struct {
	Path       string
	Source     []byte
	Cubes      []*symbols.Cube     // declarations found in the file, in source order
	References map[string][]string // cube -> other cubes its properties take
}

// Result is the outcome of a successful Compile.
type Result struct {
	Outputs  []*Output // same order as the input files
	Symbols  *symbols.Table
	Graph    *dag.Graph // references between every known cube
	Duration time.Duration
}

// Summary returns a human-readable summary.
func (r *Result) Summary() string {
	cubes := 0
	for _, o := range r.Outputs {
		cubes += len(o.Cubes)
	}
	return fmt.Sprintf("Files: %d | Declarations: %d | Duration: %s",
		len(r.Outputs), cubes, r.Duration.Round(time.Millisecond))
}

// New creates a compiler.
func New(cfg Config) *Compiler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	return &Compiler{
		logger:      logger,
		concurrency: concurrency,
		manifests:   cfg.Manifests,
	}
}

// Compile parses, rewrites and prints files. Syntax errors are reported for every
// failing file at once, joined with errors.Join. Context cancellation aborts the
// run with the context's error.
func (c *Compiler) Compile(ctx context.Context, files []File) (*Result, error) {
	start := time.Now()
	c.logger.Info("starting compilation", "files", len(files), "concurrency", c.concurrency)

	programs, err := c.parseAll(ctx, files)
	if err != nil {
		return nil, err
	}

	table := symbols.NewTable()
	for _, path := range c.manifests {
		m, err := symbols.LoadManifestFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load symbol manifest: %w", err)
		}
		m.Apply(table, path)
		c.logger.Debug("applied symbol manifest", "path", path, "cubes", len(m.Cubes), "views", len(m.Views))
	}

	outputs := make([]*Output, len(files))
	for i, prog := range programs {
		cubes := symbols.Collect(table, files[i].Path, prog)
		outputs[i] = &Output{Path: files[i].Path, Cubes: cubes}
		c.logger.Debug("collected symbols", "path", files[i].Path, "declarations", len(cubes))
	}

	if err := c.rewriteAll(ctx, table, programs, outputs); err != nil {
		return nil, err
	}

	graph := buildGraph(table, outputs)

	result := &Result{Outputs: outputs, Symbols: table, Graph: graph, Duration: time.Since(start)}
	c.logger.Info("compilation completed",
		"files", len(outputs),
		"cubes", len(table.Cubes()),
		"references", graph.EdgeCount(),
		"duration_ms", result.Duration.Milliseconds())
	return result, nil
}

func (c *Compiler) parseAll(ctx context.Context, files []File) ([]*ast.Program, error) {
	programs := make([]*ast.Program, len(files))
	errs := make([]error, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)
	for i, f := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			prog, err := parser.Parse(f.Path, f.Source)
			if err != nil {
				c.logger.Debug("parse error", "path", f.Path, "error", err.Error())
				errs[i] = err
				return nil // report every failing file, not just the first
			}
			programs[i] = prog
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return programs, nil
}

func (c *Compiler) rewriteAll(ctx context.Context, table *symbols.Table, programs []*ast.Program, outputs []*Output) error {
	tp := transpiler.NewCubePropContext(table, table, c.logger)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)
	for i, prog := range programs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			transpiler.Run(prog, tp)
			outputs[i].References = symbols.References(table, prog)
			outputs[i].Source = []byte(format.Program(prog))
			return nil
		})
	}
	return g.Wait()
}

// buildGraph adds every registered cube, then the references found in each
// output. A cube declared twice keeps the references of both declarations.
func buildGraph(table *symbols.Table, outputs []*Output) *dag.Graph {
	g := dag.NewGraph()
	for _, c := range table.Cubes() {
		g.AddNode(c.Name, c.File)
	}
	for _, o := range outputs {
		for from, uses := range o.References {
			for _, to := range uses {
				// References only names registered cubes, so both ends exist.
				_ = g.AddEdge(from, to)
			}
		}
	}
	return g
}
