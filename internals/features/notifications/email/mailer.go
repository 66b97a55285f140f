package email

import (
	"context"
	"net/mail"
	"strings"

	"erpr_backend/internals/configs"
	"erpr_backend/internals/logging"
)

type Message struct {
	To       mail.Address
	Subject  string
	Text     string
	HTML     string
	Template string
}

func (m Message) HasRecipient() bool { return strings.TrimSpace(m.To.Address) != "" }
func (m Message) HasContent() bool   { return m.Text != "" || m.HTML != "" }

// Mailer delivers one rendered message.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// New picks SendGrid when an API key is configured, the console mailer otherwise.
func New() Mailer {
	if strings.TrimSpace(configs.SendgridAPIKey) != "" {
		return NewSendgridMailer(configs.SendgridAPIKey, configs.AppName, configs.MailFrom)
	}
	return NewConsoleMailer()
}

// SendBestEffort sends and only logs failures; callers never fail a request on email.
func SendBestEffort(ctx context.Context, m Mailer, msg Message) {
	if m == nil || !msg.HasRecipient() {
		return
	}
	if err := m.Send(ctx, msg); err != nil {
		logging.L().Warnw("email not sent", "template", msg.Template, "to", msg.To.Address, "error", err)
	}
}

// Deliver renders a template and sends it, returning the failure to the caller.
func Deliver(ctx context.Context, m Mailer, tpl string, to mail.Address, data map[string]any) error {
	msg, err := Render(tpl, to, data)
	if err != nil {
		return err
	}
	if m == nil || !msg.HasRecipient() {
		return nil
	}
	return m.Send(ctx, msg)
}

// Notify renders a template and sends it best effort.
func Notify(ctx context.Context, m Mailer, tpl string, to mail.Address, data map[string]any) {
	if err := Deliver(ctx, m, tpl, to, data); err != nil {
		logging.L().Warnw("email not sent", "template", tpl, "to", to.Address, "error", err)
	}
}

// Addr builds a recipient, falling back to the email as display name.
func Addr(name, address string) mail.Address {
	if strings.TrimSpace(name) == "" {
		name = address
	}
	return mail.Address{Name: name, Address: address}
}
