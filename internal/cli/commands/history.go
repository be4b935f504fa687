package commands

import (
	"errors"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/leapcube/internal/cli/output"
	"github.com/leapstack-labs/leapcube/internal/state"
)

// DefaultHistoryLimit is the number of runs shown by default.
const DefaultHistoryLimit = 20

// NewHistoryCommand creates the history command.
func NewHistoryCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent transpile runs",
		Long:  `Show recent transpile runs recorded in the state database, newest first.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cc, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}

			store, err := cc.OpenStore()
			if err != nil {
				return err
			}
			if store == nil {
				return errors.New("state tracking is disabled (--no-state)")
			}
			defer func() { _ = store.Close() }()

			runs, err := store.ListRuns(cmd.Context(), limit)
			if err != nil {
				return err
			}
			renderHistory(cc.Renderer, runs)
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", DefaultHistoryLimit, "Number of runs to show (0 for all)")
	return cmd
}

func renderHistory(r *output.Renderer, runs []*state.Run) {
	if r.Mode() == output.ModeJSON {
		if runs == nil {
			runs = []*state.Run{}
		}
		_ = r.JSON(runs)
		return
	}

	if len(runs) == 0 {
		r.Muted("No runs recorded yet")
		return
	}

	styles := r.Styles()
	t := table.NewWriter()
	t.SetOutputMirror(r.Writer())
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Run", "Status", "Started", "Duration", "Files", "Written", "Skipped", "Error"})
	for _, run := range runs {
		status := string(run.Status)
		switch run.Status {
		case state.RunStatusCompleted:
			status = styles.Success.Render(status)
		case state.RunStatusFailed:
			status = styles.Error.Render(status)
		}
		t.AppendRow(table.Row{
			shortID(run.ID),
			status,
			run.StartedAt.Local().Format(time.DateTime),
			run.Duration().Round(time.Millisecond).String(),
			run.Files,
			run.Written,
			run.Skipped,
			truncate(run.Error, 60),
		})
	}
	t.Render()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
