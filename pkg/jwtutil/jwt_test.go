package jwtutil

import (
	"errors"
	"testing"
	"time"

	"github.com/931ubada/e-commerce-website/pkg/config"

	"github.com/golang-jwt/jwt/v5"
)

type fakeClock struct{ t time.Time }

func (f *fakeClock) Now() time.Time { return f.t }

func newTestUtil(clock *fakeClock) *JWTUtil {
	return NewJWTUtil(&config.JWTConfig{SigningKey: "test-signing-key", TTL: time.Hour}).WithClock(clock.Now)
}

func TestGenerateAndValidate(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)}
	util := newTestUtil(clock)

	token, expiresAt, err := util.GenerateToken("admin")
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}
	if want := clock.t.Add(time.Hour); !expiresAt.Equal(want) {
		t.Errorf("expiresAt = %s, want %s", expiresAt, want)
	}

	claims, err := util.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken() error = %v", err)
	}
	if claims.Username() != "admin" {
		t.Errorf("Username() = %q, want admin", claims.Username())
	}
}

func TestValidateTokenExpiry(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)}
	util := newTestUtil(clock)

	token, _, err := util.GenerateToken("admin")
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}

	clock.t = clock.t.Add(59 * time.Minute)
	if _, err := util.ValidateToken(token); err != nil {
		t.Fatalf("token should still be valid before TTL, got %v", err)
	}

	clock.t = clock.t.Add(2 * time.Minute)
	_, err = util.ValidateToken(token)
	if !errors.Is(err, jwt.ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired after TTL, got %v", err)
	}
}

func TestValidateTokenRejects(t *testing.T) {
	clock := &fakeClock{t: time.Now()}
	util := newTestUtil(clock)

	other := NewJWTUtil(&config.JWTConfig{SigningKey: "another-key", TTL: time.Hour}).WithClock(clock.Now)
	foreign, _, err := other.GenerateToken("admin")
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}

	noSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, AdminClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    Issuer,
			ExpiresAt: jwt.NewNumericDate(clock.t.Add(time.Hour)),
		},
	}).SignedString([]byte("test-signing-key"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, AdminClaims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "admin", Issuer: Issuer},
	}).SignedString([]byte("test-signing-key"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, AdminClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "admin",
			Issuer:    Issuer,
			ExpiresAt: jwt.NewNumericDate(clock.t.Add(time.Hour)),
		},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	tests := map[string]string{
		"empty":      "",
		"garbage":    "not.a.jwt",
		"wrong key":  foreign,
		"no subject": noSubject,
		"no expiry":  noExpiry,
		"alg none":   unsigned,
		"tampered":   foreign + "x",
	}

	for name, token := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := util.ValidateToken(token); err == nil {
				t.Errorf("ValidateToken(%q) succeeded, want error", name)
			}
		})
	}
}

func TestGenerateTokenWithoutKey(t *testing.T) {
	util := NewJWTUtil(&config.JWTConfig{TTL: time.Hour})
	if _, _, err := util.GenerateToken("admin"); err == nil {
		t.Error("expected error when signing key is empty")
	}
}
