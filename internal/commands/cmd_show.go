package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/nhle/tracker/internal/model"
	"github.com/nhle/tracker/internal/share"
)

type ShowCmd struct {
	flags  *Flags
	period periodFlags
}

// NewShowCmd creates a new show command
func NewShowCmd(flags *Flags) *ShowCmd {
	return &ShowCmd{flags: flags}
}

// Register adds the show command to the application
func (cmd *ShowCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "show",
		Usage:     "Print the daily list or weekly goals",
		UsageText: "tracker show [--weekly] [--date YYYY-MM-DD]",
		Description: `Prints the record in the same format used for sharing.

Nothing is created; use 'tracker init' to start a period.`,
		Flags:  cmd.period.flags(),
		Action: cmd.run,
	})

	return app
}

func (cmd *ShowCmd) run(ctx context.Context, c *cli.Command) error {
	t, err := cmd.period.resolve(cmd.flags)
	if err != nil {
		return err
	}

	rec, err := t.tracker.Get(ctx, t.owner, t.key)
	if err != nil {
		return fmt.Errorf("load %s: %w", t.label(), err)
	}
	if rec == nil {
		fmt.Fprintf(c.Root().ErrWriter, "No %s for %s, run 'tracker init' to create it\n", t.label(), t.owner)
		return nil
	}

	return printRecord(c, rec)
}

func printRecord(c *cli.Command, rec *model.Record) error {
	_, err := fmt.Fprintln(c.Root().Writer, share.Format(rec))
	return err
}
