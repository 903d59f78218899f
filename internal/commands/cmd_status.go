package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
)

// StatusCmd groups the complete and revert commands.
type StatusCmd struct {
	flags            *Flags
	complete, revert periodFlags
}

// NewStatusCmd creates the complete and revert commands
func NewStatusCmd(flags *Flags) *StatusCmd {
	return &StatusCmd{flags: flags}
}

// Register adds the status commands to the application
func (cmd *StatusCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands,
		&cli.Command{
			Name:      "complete",
			Usage:     "Close a period so outcomes can be assigned",
			UsageText: "tracker complete [--weekly] [--date YYYY-MM-DD]",
			Flags:     cmd.complete.flags(),
			Action: func(ctx context.Context, c *cli.Command) error {
				t, err := cmd.complete.resolve(cmd.flags)
				if err != nil {
					return err
				}
				id, err := t.tracker.MarkCompleted(ctx, t.owner, t.key)
				return report(c, t, id, "completed", err)
			},
		},
		&cli.Command{
			Name:      "revert",
			Usage:     "Reopen a completed period as a draft",
			UsageText: "tracker revert [--weekly] [--date YYYY-MM-DD]",
			Flags:     cmd.revert.flags(),
			Action: func(ctx context.Context, c *cli.Command) error {
				t, err := cmd.revert.resolve(cmd.flags)
				if err != nil {
					return err
				}
				id, err := t.tracker.RevertToDraft(ctx, t.owner, t.key)
				return report(c, t, id, "reverted to draft", err)
			},
		},
	)

	return app
}

// report prints the outcome of a status change. An empty id means no
// record existed and nothing changed.
func report(c *cli.Command, t target, id, what string, err error) error {
	if err != nil {
		return fmt.Errorf("update %s: %w", t.label(), err)
	}
	if id == "" {
		fmt.Fprintf(c.Root().ErrWriter, "No %s for %s, nothing changed\n", t.label(), t.owner)
		return nil
	}
	_, err = fmt.Fprintf(c.Root().Writer, "%s %s\n", t.label(), what)
	return err
}
