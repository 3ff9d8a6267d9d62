package domain

import "time"

// MFASession is the short-lived state bridging first-factor success and
// second-factor completion. It lives in the key-value store under an
// unguessable token with a fixed TTL and is deleted after use.
//
// Validated transitions false -> true exactly once; it gates final token
// issuance and blocks session reuse.
type MFASession struct {
	Username     string    `json:"username"`
	Privilege    Privilege `json:"privilege"`
	Validated    bool      `json:"mfa_validated"`
	CreatedAt    int64     `json:"created_at"`
	OTPCode      string    `json:"otp_code,omitempty"`
	OTPExpiresAt int64     `json:"otp_expires_at,omitempty"`
}

// OTPExpired reports whether the attached one-time code has passed its
// absolute expiry. Sessions without a code count as expired.
func (s *MFASession) OTPExpired(now time.Time) bool {
	if s.OTPExpiresAt == 0 {
		return true
	}
	return now.UnixMilli() > s.OTPExpiresAt
}

// OTPPayload is a freshly generated one-time code awaiting delivery.
type OTPPayload struct {
	Username  string
	Code      string
	ExpiresAt time.Time
}
