package utils

import (
	"strings"
	"testing"
)

func TestHashAndCheckPassword(t *testing.T) {
	t.Run("hash verifies against the original password", func(t *testing.T) {
		hash, err := HashPassword("a perfectly fine password")
		if err != nil {
			t.Fatalf("expected hashing to succeed, got error: %v", err)
		}
		if hash == "a perfectly fine password" {
			t.Fatal("hash must not equal the plaintext password")
		}
		if !CheckPassword("a perfectly fine password", hash) {
			t.Fatal("expected the original password to verify")
		}
	})

	t.Run("wrong password does not verify", func(t *testing.T) {
		hash, err := HashPassword("correct password")
		if err != nil {
			t.Fatalf("expected hashing to succeed, got error: %v", err)
		}
		if CheckPassword("wrong password", hash) {
			t.Fatal("expected a wrong password to fail verification")
		}
	})

	t.Run("garbage hash does not verify", func(t *testing.T) {
		if CheckPassword("anything", "not-a-bcrypt-hash") {
			t.Fatal("expected verification against garbage to fail")
		}
	})

	t.Run("hashing the same password twice yields different hashes", func(t *testing.T) {
		first, err := HashPassword("repeated password")
		if err != nil {
			t.Fatalf("expected hashing to succeed, got error: %v", err)
		}
		second, err := HashPassword("repeated password")
		if err != nil {
			t.Fatalf("expected hashing to succeed, got error: %v", err)
		}
		if first == second {
			t.Fatal("expected salted hashes to differ")
		}
		if !strings.HasPrefix(first, "$2") {
			t.Fatalf("expected a bcrypt hash, got %q", first)
		}
	})
}
