package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/nhle/tracker/internal/credential"
	"github.com/nhle/tracker/internal/share"
)

type ShareCmd struct {
	flags  *Flags
	period periodFlags

	// flags
	copy bool
	mail bool
}

// NewShareCmd creates a new share command
func NewShareCmd(flags *Flags) *ShareCmd {
	return &ShareCmd{flags: flags}
}

// Register adds the share command to the application
func (cmd *ShareCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "share",
		Usage:     "Print, copy or mail the share text of a record",
		UsageText: "tracker share [--weekly] [--copy] [--mail]",
		Description: `Prints the chat-formatted summary of the record.

--copy puts it on the system clipboard. --mail saves it as a draft in the
IMAP mailbox configured under share.mail; the password is read from
TRACKER_IMAP_PASSWORD or the system keyring.`,
		Flags: append(cmd.period.flags(),
			&cli.BoolFlag{
				Name:        "copy",
				Usage:       "copy the text to the clipboard",
				Destination: &cmd.copy,
			},
			&cli.BoolFlag{
				Name:        "mail",
				Usage:       "save the text as an e-mail draft",
				Destination: &cmd.mail,
			},
		),
		Action: cmd.run,
	})

	return app
}

func (cmd *ShareCmd) run(ctx context.Context, c *cli.Command) error {
	t, err := cmd.period.resolve(cmd.flags)
	if err != nil {
		return err
	}

	rec, err := t.tracker.Get(ctx, t.owner, t.key)
	if err != nil {
		return fmt.Errorf("load %s: %w", t.label(), err)
	}
	if rec == nil {
		return fmt.Errorf("no %s for %s", t.label(), t.owner)
	}

	text := share.Format(rec)
	if _, err := fmt.Fprintln(c.Root().Writer, text); err != nil {
		return err
	}

	if cmd.copy {
		if err := share.Copy(text); err != nil {
			return fmt.Errorf("copy share text: %w", err)
		}
		fmt.Fprintln(c.Root().ErrWriter, "Copied to clipboard")
	}

	if cmd.mail {
		mcfg := cmd.flags.Config.Share.Mail
		if !mcfg.Enabled() {
			return fmt.Errorf("mail is not configured, set share.mail.host in %s", cmd.flags.ConfigPath)
		}
		password, err := credential.Lookup(credential.EnvIMAPPassword, credential.IMAPKey(mcfg.Username))
		if err != nil {
			return fmt.Errorf("load IMAP password: %w", err)
		}
		if err := share.NewMailer(mcfg, password).Save(ctx, share.DraftFor(rec, cmd.flags.now())); err != nil {
			return err
		}
		fmt.Fprintf(c.Root().ErrWriter, "Draft saved to %s\n", mcfg.Mailbox)
	}

	return nil
}
