package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
)

type InitCmd struct {
	flags  *Flags
	period periodFlags
}

// NewInitCmd creates a new init command
func NewInitCmd(flags *Flags) *InitCmd {
	return &InitCmd{flags: flags}
}

// Register adds the init command to the application
func (cmd *InitCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "init",
		Usage:     "Start a period, carrying over unfinished items",
		UsageText: "tracker init [--weekly] [--date YYYY-MM-DD]",
		Description: `Creates the record for the period if it does not exist yet and prints its id.

Daily lists carry over every item of the previous day that did not end green.
Weekly goals carry over the yellow and red goals of a completed previous week,
or every goal of a previous week left in draft.`,
		Flags:  cmd.period.flags(),
		Action: cmd.run,
	})

	return app
}

func (cmd *InitCmd) run(ctx context.Context, c *cli.Command) error {
	t, err := cmd.period.resolve(cmd.flags)
	if err != nil {
		return err
	}

	id, err := t.tracker.Initialize(ctx, t.owner, t.key)
	if err != nil {
		return fmt.Errorf("initialize %s: %w", t.label(), err)
	}

	_, err = fmt.Fprintln(c.Root().Writer, id)
	return err
}
