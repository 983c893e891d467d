package model

// Identity is the minimal local picture of the authenticated user. After a
// plain credential login only the email is known; the server-assigned ID
// arrives with later responses, and Provider is set for third-party logins.
type Identity struct {
	ID       string `json:"id,omitempty"`
	Email    string `json:"email"`
	Provider string `json:"provider,omitempty"`
}

// Wellformed reports whether the identity is usable as a restored session.
func (i Identity) Wellformed() bool {
	return i.Email != "" || i.ID != ""
}

// Session pairs an identity with its opaque credential token. A nil
// *Session means anonymous; a non-nil one is the sole source of truth for
// "the user is authenticated".
type Session struct {
	Identity Identity
	Token    string
}
