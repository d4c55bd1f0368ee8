package auth

import (
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

// All tests use bcrypt.MinCost (4) — the hashing logic is identical at every
// cost, only the iteration count changes, and cost 12 would add ~250ms to
// every single hash call in this file.
func newTestPasswordService() *PasswordService {
	return NewPasswordServiceWithCost(bcrypt.MinCost)
}

func TestHashAndVerify(t *testing.T) {
	ps := newTestPasswordService()

	hash, err := ps.Hash("password123")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}

	// The hash must be opaque — never the plaintext itself.
	if hash == "password123" {
		t.Fatal("Hash() returned the plaintext unchanged")
	}
	if !strings.HasPrefix(hash, "$2") {
		t.Errorf("Hash() = %q, want a bcrypt-format hash", hash)
	}

	if !ps.Verify(hash, "password123") {
		t.Error("Verify() = false for the correct password")
	}
	if ps.Verify(hash, "incorrectpassword") {
		t.Error("Verify() = true for a wrong password")
	}
}

func TestHashIsSalted(t *testing.T) {
	ps := newTestPasswordService()

	// Hashing the same password twice must yield different strings (random
	// salt), yet both must verify against the original plaintext.
	hash1, err := ps.Hash("password123")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	hash2, err := ps.Hash("password123")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}

	if hash1 == hash2 {
		t.Error("two hashes of the same password are identical — salt is not randomized")
	}
	if !ps.Verify(hash1, "password123") || !ps.Verify(hash2, "password123") {
		t.Error("a salted hash failed to verify its own plaintext")
	}
}

func TestHashRejectsEmptyPassword(t *testing.T) {
	ps := newTestPasswordService()
	if _, err := ps.Hash(""); err == nil {
		t.Error("Hash(\"\") succeeded, want error")
	}
}

func TestHashRejectsOverlongPassword(t *testing.T) {
	ps := newTestPasswordService()

	// 72 bytes is bcrypt's input limit — it silently truncates beyond that,
	// so we reject instead.
	ok := strings.Repeat("a", 72)
	if _, err := ps.Hash(ok); err != nil {
		t.Errorf("Hash(72 bytes) error = %v, want success", err)
	}

	tooLong := strings.Repeat("a", 73)
	if _, err := ps.Hash(tooLong); err == nil {
		t.Error("Hash(73 bytes) succeeded, want error")
	}
}

func TestVerifyMalformedHash(t *testing.T) {
	ps := newTestPasswordService()

	// Garbage in the hash column must fail closed — false, never a panic.
	for _, malformed := range []string{"", "not-a-bcrypt-hash", "$2a$garbage"} {
		if ps.Verify(malformed, "password123") {
			t.Errorf("Verify(%q, ...) = true, want false", malformed)
		}
	}
}
