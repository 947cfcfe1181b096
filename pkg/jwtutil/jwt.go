package jwtutil

import (
	"errors"
	"fmt"
	"time"

	"github.com/931ubada/e-commerce-website/pkg/config"

	"github.com/golang-jwt/jwt/v5"
)

// Issuer is stamped on every admin token and required on validation
const Issuer = "catalog-admin"

var ErrMissingSubject = errors.New("token has no subject")

// AdminClaims represents the JWT claims of an admin session. The username
// is carried in the registered "sub" claim.
type AdminClaims struct {
	jwt.RegisteredClaims
}

// Username returns the admin bound to the token
func (c *AdminClaims) Username() string {
	return c.Subject
}

// JWTUtil is a utility for JWT token operations
type JWTUtil struct {
	signingKey []byte
	ttl        time.Duration
	now        func() time.Time
}

// NewJWTUtil creates a new JWT utility with the given configuration
func NewJWTUtil(cfg *config.JWTConfig) *JWTUtil {
	return &JWTUtil{
		signingKey: []byte(cfg.SigningKey),
		ttl:        cfg.TTL,
		now:        time.Now,
	}
}

// WithClock replaces the time source used for issuing and validating tokens
func (j *JWTUtil) WithClock(now func() time.Time) *JWTUtil {
	j.now = now
	return j
}

// TTL returns the fixed validity window of issued tokens
func (j *JWTUtil) TTL() time.Duration {
	return j.ttl
}

// GenerateToken creates a signed token for username that expires after the
// configured TTL
func (j *JWTUtil) GenerateToken(username string) (string, time.Time, error) {
	if len(j.signingKey) == 0 {
		return "", time.Time{}, errors.New("JWT signing key not configured")
	}

	issuedAt := j.now()
	expiresAt := issuedAt.Add(j.ttl)

	claims := AdminClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			Issuer:    Issuer,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(j.signingKey)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	// NumericDate truncates to seconds
	return signed, claims.ExpiresAt.Time, nil
}

// ValidateToken validates and parses the JWT token
func (j *JWTUtil) ValidateToken(tokenString string) (*AdminClaims, error) {
	if tokenString == "" {
		return nil, jwt.ErrTokenMalformed
	}

	token, err := jwt.ParseWithClaims(
		tokenString,
		&AdminClaims{},
		func(token *jwt.Token) (interface{}, error) {
			return j.signingKey, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(j.now),
		jwt.WithExpirationRequired(),
		jwt.WithIssuer(Issuer),
	)
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*AdminClaims)
	if !ok || !token.Valid {
		return nil, jwt.ErrSignatureInvalid
	}
	if claims.Subject == "" {
		return nil, ErrMissingSubject
	}

	return claims, nil
}
