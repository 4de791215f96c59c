package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestJWTRoundTrip(t *testing.T) {
	m, err := NewJWTManager("secret", time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	tok, err := m.GenerateToken("Eater@Example.com")
	if err != nil {
		t.Fatal(err)
	}
	email, err := m.VerifyToken(tok)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if email != "eater@example.com" {
		t.Fatalf("email = %q", email)
	}
}

func TestJWTExpired(t *testing.T) {
	m, _ := NewJWTManager("secret", time.Hour)
	issued := time.Now()
	m.now = func() time.Time { return issued }
	tok, _ := m.GenerateToken("a@b.c")

	m.now = func() time.Time { return issued.Add(2 * time.Hour) }
	if _, err := m.VerifyToken(tok); err == nil || !strings.Contains(err.Error(), "expired") {
		t.Fatalf("expected expiry error, got %v", err)
	}
}

func TestJWTWrongSecret(t *testing.T) {
	a, _ := NewJWTManager("secret-a", time.Hour)
	b, _ := NewJWTManager("secret-b", time.Hour)
	tok, _ := a.GenerateToken("a@b.c")
	if _, err := b.VerifyToken(tok); err == nil {
		t.Fatalf("token signed with another secret accepted")
	}
}

func TestJWTRejectsNoneAlgorithm(t *testing.T) {
	m, _ := NewJWTManager("secret", time.Hour)
	tok := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{Email: "a@b.c"})
	s, err := tok.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := m.VerifyToken(s); err == nil {
		t.Fatalf("unsigned token accepted")
	}
}

func TestNewJWTManagerRequiresSecret(t *testing.T) {
	if _, err := NewJWTManager("", time.Hour); err == nil {
		t.Fatalf("empty secret accepted")
	}
}

func TestHashPassword(t *testing.T) {
	h, err := HashPassword("Secret123")
	if err != nil {
		t.Fatal(err)
	}
	if !CheckPassword(h, "Secret123") {
		t.Fatalf("hash does not match password")
	}
	if CheckPassword(h, "secret123") {
		t.Fatalf("hash matches wrong password")
	}
}
