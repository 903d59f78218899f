package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/nhle/tracker/internal/share"
)

type HistoryCmd struct {
	flags  *Flags
	period periodFlags

	// flags
	format string
}

// NewHistoryCmd creates a new history command
func NewHistoryCmd(flags *Flags) *HistoryCmd {
	return &HistoryCmd{flags: flags}
}

// Register adds the history command to the application
func (cmd *HistoryCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "history",
		Usage:     "List past records, most recent first",
		UsageText: "tracker history [--weekly] [--format text|json|yaml]",
		Description: `Lists every daily record, or the last 12 weeks of goals with --weekly.

The text format prints the share text of each record.`,
		Flags: append(cmd.period.flags(), &cli.StringFlag{
			Name:        "format",
			Aliases:     []string{"f"},
			Usage:       "output format (text, json, yaml)",
			Value:       share.FormatText,
			Destination: &cmd.format,
		}),
		Action: cmd.run,
	})

	return app
}

func (cmd *HistoryCmd) run(ctx context.Context, c *cli.Command) error {
	t, err := cmd.period.resolve(cmd.flags)
	if err != nil {
		return err
	}

	records, err := t.tracker.List(ctx, t.owner)
	if err != nil {
		return fmt.Errorf("list %s history: %w", t.tracker.Policy().Kind, err)
	}

	if len(records) == 0 && cmd.format == share.FormatText {
		fmt.Fprintf(c.Root().ErrWriter, "No %s records for %s\n", t.tracker.Policy().Kind, t.owner)
		return nil
	}

	return share.Export(c.Root().Writer, records, cmd.format)
}
