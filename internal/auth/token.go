package auth

import "github.com/google/uuid"

// NewToken issues an opaque session token. Tokens are v4 UUIDs: random,
// string-encoded, and carry no structure the rest of the system reads.
func NewToken() string {
	return uuid.NewString()
}
