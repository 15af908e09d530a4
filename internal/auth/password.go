// Package auth provides the credential hashing and session token
// primitives used by the account service.
package auth

import "golang.org/x/crypto/bcrypt"

// DefaultCost is the bcrypt work factor used when none is configured.
const DefaultCost = 12

// HashSecret hashes the plaintext secret with bcrypt at the given cost.
func HashSecret(plain string, cost int) (string, error) {
	if cost == 0 {
		cost = DefaultCost
	}
	digest, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

// VerifySecret reports whether the plaintext secret matches the digest.
// Malformed digests verify as false rather than erroring.
func VerifySecret(digest, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plain)) == nil
}
