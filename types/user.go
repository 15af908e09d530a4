package types

import (
	"database/sql"
	"time"
)

// User represents an account in the system.
type User struct {
	// ID is the caller-supplied unique identifier of the account.
	ID int64 `json:"ID" db:"id"`

	// Name is the account's display name.
	Name string `json:"name" db:"name"`

	// NIKHash stores the bcrypt digest of the account's NIK credential.
	// This field is never exposed in API responses.
	NIKHash string `json:"-" db:"nik_hash"`

	// Token is the current session token. Invalid (NULL) means logged out.
	Token sql.NullString `json:"-" db:"token"`

	// CreatedAt is the timestamp when the account was created.
	CreatedAt time.Time `json:"-" db:"created_at"`

	// UpdatedAt is the timestamp of the most recent update to the account.
	UpdatedAt time.Time `json:"-" db:"updated_at"`
}

// Profile is the public projection of a user returned by the API.
type Profile struct {
	ID   int64  `json:"ID"`
	Name string `json:"name"`
}

// Session carries a freshly issued session token.
type Session struct {
	Token string `json:"token"`
}

// Profile returns the public projection of the user.
func (u User) Profile() Profile {
	return Profile{ID: u.ID, Name: u.Name}
}

// UserPatch describes a partial profile update. Nil fields are left untouched.
type UserPatch struct {
	Name    *string
	NIKHash *string
}
