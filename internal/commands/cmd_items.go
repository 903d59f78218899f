package commands

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/nhle/tracker/internal/model"
	"github.com/nhle/tracker/internal/share"
)

// ItemsCmd groups the commands editing the items of a record.
type ItemsCmd struct {
	flags *Flags

	add, rm, edit, mark periodFlags

	// flags
	section string
	explain string
}

// NewItemsCmd creates the add, rm, edit and mark commands
func NewItemsCmd(flags *Flags) *ItemsCmd {
	return &ItemsCmd{flags: flags}
}

// Register adds the item commands to the application
func (cmd *ItemsCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands,
		&cli.Command{
			Name:      "add",
			Usage:     "Add an item to a draft",
			UsageText: "tracker add [--weekly] [--section personal|work] TEXT",
			Flags: append(cmd.add.flags(), &cli.StringFlag{
				Name:        "section",
				Aliases:     []string{"s"},
				Usage:       "daily section (personal, work)",
				Destination: &cmd.section,
			}),
			Action: cmd.runAdd,
		},
		&cli.Command{
			Name:      "rm",
			Usage:     "Remove item N from a draft",
			UsageText: "tracker rm [--weekly] N",
			Flags:     cmd.rm.flags(),
			Action:    cmd.runRemove,
		},
		&cli.Command{
			Name:      "edit",
			Usage:     "Replace the text of item N in a draft",
			UsageText: "tracker edit [--weekly] N TEXT",
			Flags:     cmd.edit.flags(),
			Action:    cmd.runEdit,
		},
		&cli.Command{
			Name:      "mark",
			Usage:     "Set the outcome of item N in a completed record",
			UsageText: "tracker mark [--weekly] [--explain TEXT] N green|yellow|red|unset",
			Description: `Outcomes can only be assigned once the period is completed.

An explanation is kept for yellow items only.`,
			Flags: append(cmd.mark.flags(), &cli.StringFlag{
				Name:        "explain",
				Aliases:     []string{"e"},
				Usage:       "explanation for a yellow item",
				Destination: &cmd.explain,
			}),
			Action: cmd.runMark,
		},
	)

	return app
}

func (cmd *ItemsCmd) runAdd(ctx context.Context, c *cli.Command) error {
	text := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if text == "" {
		return fmt.Errorf("item text is required")
	}
	section, err := model.ParseSection(cmd.section)
	if err != nil {
		return err
	}
	if section != model.SectionNone && cmd.add.weekly {
		return fmt.Errorf("sections only apply to daily lists")
	}

	t, err := cmd.add.resolve(cmd.flags)
	if err != nil {
		return err
	}
	if _, err := t.tracker.Initialize(ctx, t.owner, t.key); err != nil {
		return fmt.Errorf("initialize %s: %w", t.label(), err)
	}

	return cmd.update(ctx, c, t, true, 0, func(items []model.Item, _ int) ([]model.Item, error) {
		return model.AppendItem(items, text, section), nil
	})
}

func (cmd *ItemsCmd) runRemove(ctx context.Context, c *cli.Command) error {
	n, err := itemNumber(c.Args().First())
	if err != nil {
		return err
	}
	t, err := cmd.rm.resolve(cmd.flags)
	if err != nil {
		return err
	}

	return cmd.update(ctx, c, t, true, n, model.RemoveItem)
}

func (cmd *ItemsCmd) runEdit(ctx context.Context, c *cli.Command) error {
	n, err := itemNumber(c.Args().First())
	if err != nil {
		return err
	}
	text := strings.TrimSpace(strings.Join(c.Args().Tail(), " "))
	if text == "" {
		return fmt.Errorf("item text is required")
	}
	t, err := cmd.edit.resolve(cmd.flags)
	if err != nil {
		return err
	}

	return cmd.update(ctx, c, t, true, n, func(items []model.Item, idx int) ([]model.Item, error) {
		return model.EditItemText(items, idx, text)
	})
}

func (cmd *ItemsCmd) runMark(ctx context.Context, c *cli.Command) error {
	n, err := itemNumber(c.Args().Get(0))
	if err != nil {
		return err
	}
	if c.Args().Get(1) == "" {
		return fmt.Errorf("outcome is required (green, yellow, red, unset)")
	}
	outcome, err := model.ParseOutcome(c.Args().Get(1))
	if err != nil {
		return err
	}
	t, err := cmd.mark.resolve(cmd.flags)
	if err != nil {
		return err
	}

	explain := cmd.explain
	return cmd.update(ctx, c, t, false, n, func(items []model.Item, idx int) ([]model.Item, error) {
		items, err := model.SetOutcome(items, idx, outcome)
		if err != nil || explain == "" {
			return items, err
		}
		return model.SetExplanation(items, idx, explain)
	})
}

// update applies fn to the items of the target record. draft selects
// whether the record must be a draft (editing) or completed (review). n is
// the item number as printed by show, translated into the stored index
// passed to fn; zero means no item is addressed.
func (cmd *ItemsCmd) update(
	ctx context.Context,
	c *cli.Command,
	t target,
	draft bool,
	n int,
	fn func(items []model.Item, idx int) ([]model.Item, error),
) error {
	rec, err := t.tracker.Get(ctx, t.owner, t.key)
	if err != nil {
		return fmt.Errorf("load %s: %w", t.label(), err)
	}
	if rec == nil {
		fmt.Fprintf(c.Root().ErrWriter, "No %s for %s, nothing changed\n", t.label(), t.owner)
		return nil
	}
	if draft && rec.IsCompleted() {
		return fmt.Errorf("%s is completed, run 'tracker revert' to edit it", t.label())
	}
	if !draft && !rec.IsCompleted() {
		return fmt.Errorf("%s is a draft, run 'tracker complete' before assigning outcomes", t.label())
	}

	idx := -1
	if n > 0 {
		order := share.Order(rec.Items)
		if n > len(order) {
			return fmt.Errorf("item %d of %s: %w", n, t.label(), model.ErrItemIndex)
		}
		idx = order[n-1]
	}

	items, err := fn(rec.Items, idx)
	if err != nil {
		return err
	}
	// Draft edits save items and status together; reviews touch items only.
	if draft {
		_, err = t.tracker.SetItems(ctx, t.owner, t.key, items, rec.Status)
	} else {
		_, err = t.tracker.UpdateItems(ctx, t.owner, t.key, items)
	}
	if err != nil {
		return fmt.Errorf("update %s: %w", t.label(), err)
	}

	cmd.flags.Log.Debug().Str("owner", t.owner).Str("period", t.key).Int("items", len(items)).Msg("items updated")
	rec.Items = model.NormalizeItems(items)
	return printRecord(c, rec)
}

// itemNumber parses a 1-based item number.
func itemNumber(arg string) (int, error) {
	if arg == "" {
		return 0, fmt.Errorf("item number is required")
	}
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid item number %q", arg)
	}
	return n, nil
}
