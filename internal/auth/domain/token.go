package domain

import "time"

// TokenClaims are the decoded contents of a verified access token.
type TokenClaims struct {
	Username  string
	Privilege Privilege
	ID        string // jti, the revocation-list key
	ExpiresAt time.Time
}

// Identity is the payload returned to a fully authenticated client.
type Identity struct {
	Username  string    `json:"username"`
	Privilege Privilege `json:"privilege"`
	Token     string    `json:"jwt_token"`
}
