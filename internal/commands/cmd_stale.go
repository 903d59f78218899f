package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/nhle/tracker/internal/model"
)

type StaleCmd struct {
	flags *Flags

	// flags
	check bool
}

// NewStaleCmd creates a new stale command
func NewStaleCmd(flags *Flags) *StaleCmd {
	return &StaleCmd{flags: flags}
}

// Register adds the stale command to the application
func (cmd *StaleCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "stale",
		Usage:     "Print the days since the weekly goals were last updated",
		UsageText: "tracker stale [--check]",
		Description: `Prints the number of whole days since the current week's goals were last
touched, falling back to the most recent week on record, or 0 when there is none.

With --check the command fails when the count reaches reminder.stale_days.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "check",
				Usage:       "exit with an error when the goals are stale",
				Destination: &cmd.check,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *StaleCmd) run(ctx context.Context, c *cli.Command) error {
	owner, err := cmd.flags.Owner()
	if err != nil {
		return err
	}

	days, err := cmd.flags.Tracker(model.KindWeekly).DaysSinceLastUpdate(ctx, owner, cmd.flags.now())
	if err != nil {
		return fmt.Errorf("check weekly goals: %w", err)
	}

	if _, err := fmt.Fprintln(c.Root().Writer, days); err != nil {
		return err
	}

	if limit := cmd.flags.Config.Reminder.StaleDays; cmd.check && limit > 0 && days >= limit {
		return fmt.Errorf("weekly goals not updated for %d days", days)
	}
	return nil
}
