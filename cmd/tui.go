package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v3"

	"github.com/tomasvidal/trackseek/internal/shared"
	"github.com/tomasvidal/trackseek/internal/ui"
)

// TUI launches the interactive terminal UI for batch resolution.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	if r.catalog == nil {
		return fmt.Errorf("%w: catalog service not configured", shared.ErrServiceUnavailable)
	}
	if r.engine == nil {
		return fmt.Errorf("%w: resolution engine not initialized", shared.ErrServiceUnavailable)
	}

	if cmd.Bool("save") {
		resolutions, jobs, err := r.openStore()
		if err != nil {
			return err
		}
		r.engine.UseStore(resolutions, jobs)
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger("./tmp/trackseek-tui.log")
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	model := ui.NewModel(ctx, r.catalog, r.engine)
	p := tea.NewProgram(model)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
