package domain

// Privilege is the role attached to a user account.
type Privilege string

const (
	PrivilegeAdmin  Privilege = "ADMIN"
	PrivilegeArtist Privilege = "ARTIST"
	PrivilegeClient Privilege = "CLIENT"
)

// Valid reports whether p is one of the known privilege ranks.
func (p Privilege) Valid() bool {
	switch p {
	case PrivilegeAdmin, PrivilegeArtist, PrivilegeClient:
		return true
	}
	return false
}

// User is the credential-store view of an account. Read-only to the
// authentication flow.
type User struct {
	Username  string
	Privilege Privilege
	Active    bool
}

// Credential holds the stored derived key and salt for a user. The key is
// hex-encoded scrypt output.
type Credential struct {
	Username     string
	PasswordHash string
	Salt         string
}

// ContactInfo holds the delivery addresses on file for a user.
type ContactInfo struct {
	PhoneNumber string
	Email       string
}
