// Package auth — password hashing utilities (the credential store).
//
// WHY BCRYPT?
// bcrypt is a password hashing function specifically designed to be slow.
// That slowness is a security feature: it makes offline brute-force attacks
// expensive. bcrypt also generates a random salt per hash and embeds it in
// the output, so hashing the same password twice yields two different
// strings — and both still verify.
//
// NEVER store passwords in plain text or with fast hashes (MD5, SHA-256).
//
// Hash format (the full output of bcrypt.GenerateFromPassword):
//
//	$2a$12$<22-char salt><31-char hash>
//	 ^   ^
//	 |   cost (12 rounds → 2^12 = 4096 iterations)
//	 version
package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// defaultCost is the bcrypt work factor.
//
// Cost 12 takes roughly ~250ms on a modern server — negligible for a login,
// brutal for an attacker hashing billions of guesses. Tune so that hashing
// takes ~200-300ms on your production hardware.
const defaultCost = 12

// PasswordService hashes and verifies passwords with bcrypt.
//
// It's a struct (not free functions) so that the cost can be injected —
// tests use the bcrypt minimum (cost 4) to avoid the deliberate ~250ms
// per-operation slowdown without changing the logic under test.
//
// The service performs no I/O; its only side effect is CPU time.
type PasswordService struct {
	cost int
}

// NewPasswordService creates a PasswordService with the default cost (12).
func NewPasswordService() *PasswordService {
	return &PasswordService{cost: defaultCost}
}

// NewPasswordServiceWithCost creates a PasswordService with a custom bcrypt
// cost. Production wiring passes the configured cost; tests pass
// bcrypt.MinCost (4). Values outside bcrypt's valid range fall back to the
// default.
func NewPasswordServiceWithCost(cost int) *PasswordService {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = defaultCost
	}
	return &PasswordService{cost: cost}
}

// Hash hashes the given plaintext password with bcrypt.
//
// The output is a self-contained string — it embeds the salt and cost, so
// no separate salt column is needed. Store it directly; Verify knows how to
// decode it.
//
// Returns an error if the plaintext is empty or longer than 72 bytes (a
// bcrypt limit — bcrypt silently truncates longer input, so we reject it
// explicitly rather than surprise the caller).
func (p *PasswordService) Hash(plaintext string) (string, error) {
	if plaintext == "" {
		return "", fmt.Errorf("auth: password must not be empty")
	}
	if len(plaintext) > 72 {
		return "", fmt.Errorf("auth: password must be 72 bytes or fewer")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), p.cost)
	if err != nil {
		return "", fmt.Errorf("auth: hashing password: %w", err)
	}

	return string(hashed), nil
}

// Verify reports whether a plaintext password matches a stored bcrypt hash.
//
// A mismatch and a malformed hash both return false — never a panic. This
// matters because Verify sits on the login path: whatever is in the
// password_hash column (including a corrupted value) must fail closed.
//
// bcrypt.CompareHashAndPassword uses a constant-time comparison internally,
// so Verify is safe against timing attacks.
func (p *PasswordService) Verify(hash, plaintext string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}
