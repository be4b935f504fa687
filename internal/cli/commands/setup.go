// Package commands implements the leapcube subcommands.
package commands

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/leapcube/internal/cli/config"
	"github.com/leapstack-labs/leapcube/internal/cli/output"
	"github.com/leapstack-labs/leapcube/internal/compiler"
	"github.com/leapstack-labs/leapcube/internal/state"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
}

// NewCommandContext builds a CommandContext from the loaded configuration and
// the logger stored in the command context by the root command.
func NewCommandContext(cmd *cobra.Command) (*CommandContext, error) {
	cfg, err := getConfig()
	if err != nil {
		return nil, err
	}
	return &CommandContext{
		Cfg:      cfg,
		Logger:   config.GetLogger(cmd.Context()),
		Renderer: output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(cfg.OutputFormat)),
	}, nil
}

// getConfig returns the configuration loaded by the root command, loading the
// defaults when a command runs on its own.
func getConfig() (*config.Config, error) {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg, nil
	}
	return config.LoadConfig("", nil)
}

// NewCompiler creates a compiler configured from cc.
func (cc *CommandContext) NewCompiler() *compiler.Compiler {
	return compiler.New(compiler.Config{
		Logger:      cc.Logger,
		Concurrency: cc.Cfg.Concurrency,
		Manifests:   cc.Cfg.Symbols,
	})
}

// OpenStore opens the state database. It returns nil, nil when state tracking
// is disabled.
func (cc *CommandContext) OpenStore() (*state.Store, error) {
	if cc.Cfg.NoState {
		return nil, nil
	}
	store, err := state.Open(cc.Cfg.StatePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open state database: %w", err)
	}
	cc.Logger.Debug("opened state database", "path", cc.Cfg.StatePath)
	return store, nil
}

// loadFiles reads the given schema files, or the schema directory when none are
// given.
func loadFiles(cc *CommandContext, comp *compiler.Compiler, args []string) ([]compiler.File, error) {
	if len(args) > 0 {
		return comp.LoadFiles(args)
	}
	if err := cc.Cfg.ValidateDirectories(); err != nil {
		return nil, err
	}
	return comp.LoadDir(cc.Cfg.SchemaDir)
}
