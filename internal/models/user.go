package models

// User represents a registered account. The ID is assigned by the credential
// store at insert time and is immutable afterwards, as is the username.
type User struct {
	ID           int64  `json:"id"`
	Username     string `json:"username"`
	Email        string `json:"email,omitempty"`
	PasswordHash string `json:"-"` // Never expose this to the client
}
