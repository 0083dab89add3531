package auth

import "testing"

// TestHashAndCheckPassword covers the hash round-trip.
func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	if err != nil {
		t.Fatalf("HashPassword() error: %v", err)
	}
	if hash == "correct horse battery staple" {
		t.Fatal("hash must not equal plaintext")
	}

	if !CheckPassword("correct horse battery staple", hash) {
		t.Error("expected matching password to verify")
	}
	if CheckPassword("wrong password", hash) {
		t.Error("expected non-matching password to fail")
	}
}

// TestHashPasswordUnique verifies per-hash salting.
func TestHashPasswordUnique(t *testing.T) {
	h1, err := HashPassword("same input")
	if err != nil {
		t.Fatalf("HashPassword() error: %v", err)
	}
	h2, err := HashPassword("same input")
	if err != nil {
		t.Fatalf("HashPassword() error: %v", err)
	}
	if h1 == h2 {
		t.Error("expected salted hashes to differ")
	}
}
