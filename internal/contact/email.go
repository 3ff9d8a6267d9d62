package contact

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"
)

// EmailChannel delivers messages over SMTP. It exists alongside SMSChannel
// so callers can swap channels without touching delivery logic.
type EmailChannel struct {
	host string
	port int
	from string
	auth smtp.Auth

	// send is swappable for tests.
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// EmailConfig holds the SMTP relay coordinates.
type EmailConfig struct {
	Host     string
	Port     int
	From     string
	Username string
	Password string
}

func NewEmailChannel(cfg EmailConfig) *EmailChannel {
	var auth smtp.Auth
	if cfg.Username != "" {
		auth = smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	}

	return &EmailChannel{
		host: cfg.Host,
		port: cfg.Port,
		from: cfg.From,
		auth: auth,
		send: smtp.SendMail,
	}
}

func (c *EmailChannel) SendMessage(ctx context.Context, destinations []string, text, subject string) error {
	if len(destinations) == 0 {
		return fmt.Errorf("%w: no destination addresses", ErrDispatchFailed)
	}
	if text == "" {
		return fmt.Errorf("%w: empty message body", ErrDispatchFailed)
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrDispatchFailed, err)
	}

	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s\r\n", c.from)
	fmt.Fprintf(&msg, "To: %s\r\n", strings.Join(destinations, ", "))
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	msg.WriteString("MIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n")
	msg.WriteString(text)

	addr := fmt.Sprintf("%s:%d", c.host, c.port)
	if err := c.send(addr, c.auth, c.from, destinations, []byte(msg.String())); err != nil {
		return fmt.Errorf("%w: %v", ErrDispatchFailed, err)
	}
	return nil
}
