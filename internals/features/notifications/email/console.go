package email

import (
	"context"
	"sync"

	"erpr_backend/internals/logging"
)

// ConsoleMailer logs messages instead of sending them and keeps them for inspection.
type ConsoleMailer struct {
	mu   sync.Mutex
	Sent []Message
}

var _ Mailer = (*ConsoleMailer)(nil)

func NewConsoleMailer() *ConsoleMailer { return &ConsoleMailer{} }

func (c *ConsoleMailer) Send(_ context.Context, msg Message) error {
	if !msg.HasRecipient() || !msg.HasContent() {
		return nil
	}
	logging.L().Infow("email (console)",
		"template", msg.Template,
		"to", msg.To.String(),
		"subject", msg.Subject,
		"text", msg.Text,
	)
	c.mu.Lock()
	c.Sent = append(c.Sent, msg)
	c.mu.Unlock()
	return nil
}

func (c *ConsoleMailer) Messages() []Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Message(nil), c.Sent...)
}
