package share

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/emersion/go-imap/v2"
	"github.com/emersion/go-imap/v2/imapclient"
	"github.com/emersion/go-message/mail"

	"github.com/nhle/tracker/internal/model"
)

// Draft is a message to be saved to the drafts mailbox.
type Draft struct {
	Subject string
	Body    string
	Date    time.Time
}

// DraftFor builds the draft sharing rec.
func DraftFor(rec *model.Record, now time.Time) Draft {
	return Draft{
		Subject: Title(rec),
		Body:    Format(rec),
		Date:    now,
	}
}

// Mailer saves drafts to an IMAP mailbox.
type Mailer struct {
	cfg      model.MailConfig
	password string
}

// NewMailer returns a Mailer for cfg authenticating with password.
func NewMailer(cfg model.MailConfig, password string) *Mailer {
	return &Mailer{cfg: cfg, password: password}
}

// Compose renders d as a plain-text RFC 5322 message.
func (m *Mailer) Compose(d Draft) ([]byte, error) {
	from, err := mail.ParseAddressList(m.cfg.From)
	if err != nil {
		return nil, fmt.Errorf("parsing from address %q: %w", m.cfg.From, err)
	}

	var h mail.Header
	h.SetDate(d.Date)
	h.SetSubject(d.Subject)
	h.SetAddressList("From", from)
	if m.cfg.To != "" {
		to, err := mail.ParseAddressList(m.cfg.To)
		if err != nil {
			return nil, fmt.Errorf("parsing to address %q: %w", m.cfg.To, err)
		}
		h.SetAddressList("To", to)
	}
	if err := h.GenerateMessageID(); err != nil {
		return nil, fmt.Errorf("generating message id: %w", err)
	}
	h.SetContentType("text/plain", map[string]string{"charset": "utf-8"})

	var buf bytes.Buffer
	w, err := mail.CreateSingleInlineWriter(&buf, h)
	if err != nil {
		return nil, fmt.Errorf("creating message writer: %w", err)
	}
	if _, err := io.WriteString(w, d.Body+"\r\n"); err != nil {
		return nil, fmt.Errorf("writing message body: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("closing message writer: %w", err)
	}

	return buf.Bytes(), nil
}

// connect establishes a connection to the IMAP server and authenticates.
// The caller is responsible for calling Logout on the returned client.
func (m *Mailer) connect(_ context.Context) (*imapclient.Client, error) {
	addr := m.cfg.Host + ":" + strconv.Itoa(m.cfg.Port)

	var (
		client *imapclient.Client
		err    error
	)
	if m.cfg.TLS {
		client, err = imapclient.DialTLS(addr, nil)
	} else {
		client, err = imapclient.DialStartTLS(addr, nil)
	}
	if err != nil {
		return nil, fmt.Errorf("connecting to IMAP %s: %w", addr, err)
	}

	if err := client.Login(m.cfg.Username, m.password).Wait(); err != nil {
		_ = client.Logout().Wait()
		return nil, fmt.Errorf("authenticating %s: %w", m.cfg.Username, err)
	}

	return client, nil
}

// Save appends d to the configured mailbox flagged as a draft.
func (m *Mailer) Save(ctx context.Context, d Draft) error {
	msg, err := m.Compose(d)
	if err != nil {
		return err
	}

	client, err := m.connect(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = client.Logout().Wait() }()

	cmd := client.Append(m.cfg.Mailbox, int64(len(msg)), &imap.AppendOptions{
		Flags: []imap.Flag{imap.FlagDraft},
		Time:  d.Date,
	})
	if _, err := cmd.Write(msg); err != nil {
		return fmt.Errorf("writing draft to %s: %w", m.cfg.Mailbox, err)
	}
	if err := cmd.Close(); err != nil {
		return fmt.Errorf("finishing draft upload: %w", err)
	}
	if _, err := cmd.Wait(); err != nil {
		return fmt.Errorf("appending draft to %s: %w", m.cfg.Mailbox, err)
	}

	return nil
}
