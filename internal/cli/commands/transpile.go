package commands

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/leapcube/internal/cli/output"
	"github.com/leapstack-labs/leapcube/internal/compiler"
	"github.com/leapstack-labs/leapcube/internal/state"
)

type transpileOptions struct {
	Stdout bool
	Watch  bool
}

// NewTranspileCommand creates the transpile command.
func NewTranspileCommand() *cobra.Command {
	var opts transpileOptions

	cmd := &cobra.Command{
		Use:     "transpile [files...]",
		Aliases: []string{"build"},
		Short:   "Rewrite cube schema properties into deferred functions",
		Long: `Transpile cube schema files so every property that refers to other cubes,
members or context symbols becomes an arrow function taking those names.

Without arguments every *.js file below the schema directory is compiled and
mirrored into the output directory. Unchanged outputs are not rewritten.`,
		Example: `  # Compile ./schema into ./dist
  leapcube transpile

  # Print a single file
  leapcube transpile schema/orders.js --stdout

  # Recompile on every change
  leapcube transpile --watch`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cc, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			if opts.Watch {
				return watchTranspile(cmd.Context(), cc, args, opts)
			}
			_, err = runTranspile(cmd.Context(), cc, args, opts)
			return err
		},
	}

	cmd.Flags().BoolVar(&opts.Stdout, "stdout", false, "Print compiled files instead of writing them")
	cmd.Flags().BoolVarP(&opts.Watch, "watch", "w", false, "Recompile when schema files or symbol manifests change")

	return cmd
}

// TranspileOutput is the JSON form of a transpile run.
type TranspileOutput struct {
	RunID      string   `json:"run_id,omitempty"`
	OutDir     string   `json:"out_dir,omitempty"`
	Files      int      `json:"files"`
	Written    int      `json:"written"`
	Skipped    int      `json:"skipped"`
	Cubes      []string `json:"cubes"`
	DurationMS int64    `json:"duration_ms"`
}

// PrintedFile is the JSON form of a file printed with --stdout.
type PrintedFile struct {
	Path   string `json:"path"`
	Source string `json:"source"`
}

// runTranspile compiles once and records the run in the state store.
func runTranspile(ctx context.Context, cc *CommandContext, args []string, opts transpileOptions) (*TranspileOutput, error) {
	comp := cc.NewCompiler()

	files, err := loadFiles(cc, comp, args)
	if err != nil {
		return nil, err
	}

	store, err := cc.OpenStore()
	if err != nil {
		return nil, err
	}
	if store != nil {
		defer func() { _ = store.Close() }()
	}

	var run *state.Run
	if store != nil {
		if run, err = store.CreateRun(ctx); err != nil {
			return nil, err
		}
	}

	report, err := compileAndEmit(ctx, cc, comp, files, store, opts)
	if report == nil {
		report = &TranspileOutput{Files: len(files)}
	}
	if run != nil {
		report.RunID = run.ID
		status, errMsg := state.RunStatusCompleted, ""
		if err != nil {
			status, errMsg = state.RunStatusFailed, err.Error()
		}
		stats := state.RunStats{Files: report.Files, Written: report.Written, Skipped: report.Skipped}
		if cerr := store.CompleteRun(context.WithoutCancel(ctx), run.ID, status, stats, errMsg); cerr != nil {
			cc.Logger.Warn("failed to record run", "run_id", run.ID, "error", cerr)
		}
	}
	if err != nil {
		return report, err
	}

	if !opts.Stdout {
		renderTranspile(cc.Renderer, report)
	}
	return report, nil
}

func compileAndEmit(ctx context.Context, cc *CommandContext, comp *compiler.Compiler, files []compiler.File, store *state.Store, opts transpileOptions) (*TranspileOutput, error) {
	result, err := comp.Compile(ctx, files)
	if err != nil {
		return nil, err
	}

	report := &TranspileOutput{
		Files:      len(result.Outputs),
		Cubes:      []string{},
		DurationMS: result.Duration.Milliseconds(),
	}
	for _, o := range result.Outputs {
		for _, c := range o.Cubes {
			report.Cubes = append(report.Cubes, c.Name)
		}
	}

	if opts.Stdout {
		return report, printOutputs(cc.Renderer, result.Outputs)
	}

	// A nil *state.Store must not become a non-nil interface.
	var hashes compiler.HashStore
	if store != nil {
		hashes = store
	}
	written, err := compiler.WriteOutputs(ctx, cc.Cfg.OutDir, result.Outputs, hashes)
	if written != nil {
		report.Written, report.Skipped = written.Written, written.Skipped
	}
	if err != nil {
		return report, err
	}
	report.OutDir = cc.Cfg.OutDir

	cc.Logger.Info("wrote outputs", "out_dir", cc.Cfg.OutDir, "written", report.Written, "skipped", report.Skipped)
	return report, nil
}

func printOutputs(r *output.Renderer, outputs []*compiler.Output) error {
	if r.Mode() == output.ModeJSON {
		printed := make([]PrintedFile, 0, len(outputs))
		for _, o := range outputs {
			printed = append(printed, PrintedFile{Path: o.Path, Source: string(o.Source)})
		}
		return r.JSON(printed)
	}

	for i, o := range outputs {
		if len(outputs) > 1 {
			if i > 0 {
				r.Println()
			}
			r.Println(r.Styles().Muted.Render("// " + o.Path))
		}
		r.Printf("%s", o.Source)
	}
	return nil
}

func renderTranspile(r *output.Renderer, report *TranspileOutput) {
	if r.Mode() == output.ModeJSON {
		_ = r.JSON(report)
		return
	}

	r.Success(fmt.Sprintf("Transpiled %d files (%d written, %d unchanged)", report.Files, report.Written, report.Skipped))
	r.KeyValue("Output", report.OutDir)
	r.KeyValue("Declarations", fmt.Sprintf("%d", len(report.Cubes)))
	r.KeyValue("Duration", (time.Duration(report.DurationMS) * time.Millisecond).String())
	if report.RunID != "" {
		r.KeyValue("Run", report.RunID)
	}
}

// watchTranspile compiles, then recompiles on every relevant change until ctx
// is cancelled. Compile errors are reported and do not stop the watch.
func watchTranspile(ctx context.Context, cc *CommandContext, args []string, opts transpileOptions) error {
	report := func() {
		if _, err := runTranspile(ctx, cc, args, opts); err != nil && !errors.Is(err, context.Canceled) {
			cc.Renderer.Error(err.Error())
		}
	}
	report()

	dirs := []string{cc.Cfg.SchemaDir}
	if len(args) > 0 {
		dirs = dirs[:0]
		seen := map[string]bool{}
		for _, a := range args {
			d := filepath.Dir(a)
			if !seen[d] {
				seen[d] = true
				dirs = append(dirs, d)
			}
		}
	}

	cc.Renderer.Muted("Watching for changes. Press Ctrl+C to stop.")
	w := &watcher{
		dirs:      dirs,
		manifests: cc.Cfg.Symbols,
		logger:    cc.Logger,
		onChange: func(path string) {
			cc.Logger.Info("change detected", "file", filepath.Base(path))
			report()
		},
	}
	return w.run(ctx)
}
