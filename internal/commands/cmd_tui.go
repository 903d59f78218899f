package commands

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v3"

	"github.com/nhle/tracker/internal/app"
	"github.com/nhle/tracker/internal/model"
)

type TuiCmd struct {
	flags *Flags
}

// NewTuiCmd creates the command that runs the terminal UI
func NewTuiCmd(flags *Flags) *TuiCmd {
	return &TuiCmd{flags: flags}
}

// Run starts the Bubble Tea program and blocks until it exits.
func (cmd *TuiCmd) Run(ctx context.Context, _ *cli.Command) error {
	m := app.New(app.Deps{
		Config:     cmd.flags.Config,
		ConfigPath: cmd.flags.ConfigPath,
		Daily:      cmd.flags.Tracker(model.KindDaily),
		Weekly:     cmd.flags.Tracker(model.KindWeekly),
		Clock:      cmd.flags.now,
		Log:        cmd.flags.Log,
	})

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}
