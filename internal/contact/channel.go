// Package contact delivers messages to users over out-of-band channels.
// Consumers depend only on the Channel capability interface; the concrete
// transport (SMS, email) is wired at startup.
package contact

import (
	"context"
	"errors"
)

// ErrDispatchFailed reports that the downstream provider refused or failed
// to accept the message.
var ErrDispatchFailed = errors.New("contact: message dispatch failed")

// Channel sends a message to one or more destinations. Subject is ignored
// by transports without one (SMS).
type Channel interface {
	SendMessage(ctx context.Context, destinations []string, text, subject string) error
}
