package domain

import "time"

// SecurityLogEntry is one immutable record in the authentication audit
// trail. Entries are append-only; the application never updates or
// deletes them.
type SecurityLogEntry struct {
	CorrelationID    string
	AuthSessionToken string
	Username         string
	AttemptedAt      time.Time
	IPAddress        string
	UserAgent        string
	Success          bool
	Reason           string
}
