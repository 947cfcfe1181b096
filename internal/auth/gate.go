// Package auth is the admin session gate. It checks the single admin's
// credentials, issues session tokens and turns a presented token back into
// the admin identity.
package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"sync"
	"time"

	"github.com/931ubada/e-commerce-website/internal/model"
	"github.com/931ubada/e-commerce-website/pkg/apperr"
	"github.com/931ubada/e-commerce-website/pkg/config"
	"github.com/931ubada/e-commerce-website/pkg/jwtutil"
	"github.com/931ubada/e-commerce-website/prometheus"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	msgBadCredentials = "incorrect username or password"
	msgBadToken       = "invalid or expired token"
)

// AdminStore holds the admin account
type AdminStore interface {
	// Admin returns apperr.ErrNotFound when no admin was seeded.
	Admin(ctx context.Context) (*model.Admin, error)
	EnsureAdmin(ctx context.Context, admin *model.Admin) (bool, error)
}

// Session is the result of a successful login
type Session struct {
	Token     string
	Username  string
	ExpiresAt time.Time
}

type Gate struct {
	admins AdminStore
	tokens *jwtutil.JWTUtil
	log    *zap.Logger

	dummyOnce sync.Once
	dummyHash []byte
}

func NewGate(admins AdminStore, tokens *jwtutil.JWTUtil, log *zap.Logger) *Gate {
	return &Gate{admins: admins, tokens: tokens, log: log}
}

// Login checks username and password against the admin account and issues
// a session token. Unknown usernames and wrong passwords fail the same way.
func (g *Gate) Login(ctx context.Context, username, password string) (*Session, error) {
	prometheus.LoginCounter.Inc()

	admin, err := g.admins.Admin(ctx)
	if err != nil && !errors.Is(err, apperr.ErrNotFound) {
		g.log.Error("Failed to load admin account", zap.Error(err))
		return nil, apperr.Wrap(err)
	}

	// bcrypt runs on every path so the response time does not tell an
	// unknown username from a wrong password
	hash := g.dummy()
	userOK := false
	if admin != nil {
		hash = []byte(admin.PasswordHash)
		userOK = subtle.ConstantTimeCompare([]byte(username), []byte(admin.Username)) == 1
	}
	passOK := bcrypt.CompareHashAndPassword(hash, []byte(password)) == nil

	if admin == nil || !userOK || !passOK {
		prometheus.RecordAuthError("invalid_credentials")
		g.log.Warn("Admin login failed", zap.String("username", username))
		return nil, apperr.UnauthorizedErr(msgBadCredentials)
	}

	token, expiresAt, err := g.tokens.GenerateToken(admin.Username)
	if err != nil {
		g.log.Error("Failed to generate token", zap.Error(err))
		return nil, apperr.Wrap(err)
	}

	g.log.Info("Admin logged in", zap.String("username", admin.Username))
	return &Session{Token: token, Username: admin.Username, ExpiresAt: expiresAt}, nil
}

// Authenticate returns the admin username carried by token. It never
// touches the admin store.
func (g *Gate) Authenticate(token string) (string, error) {
	claims, err := g.tokens.ValidateToken(token)
	if err != nil {
		return "", &apperr.AppError{Kind: apperr.Unauthorized, PublicMsg: msgBadToken, Err: err}
	}
	prometheus.AuthSuccessCounter.Inc()
	return claims.Username(), nil
}

func (g *Gate) dummy() []byte {
	g.dummyOnce.Do(func() {
		g.dummyHash, _ = bcrypt.GenerateFromPassword([]byte(uuid.New().String()), bcrypt.MinCost)
	})
	return g.dummyHash
}

// NewAdminAccount builds the admin account from configuration, hashing the
// plain password with cost unless a bcrypt hash is configured.
func NewAdminAccount(cfg config.AdminConfig, cost int) (*model.Admin, error) {
	if !cfg.Configured() {
		return nil, errors.New("admin username and password are not configured")
	}

	hash := cfg.PasswordHash
	if hash != "" {
		if _, err := bcrypt.Cost([]byte(hash)); err != nil {
			return nil, err
		}
	} else {
		b, err := bcrypt.GenerateFromPassword([]byte(cfg.Password), cost)
		if err != nil {
			return nil, err
		}
		hash = string(b)
	}

	return &model.Admin{
		ID:           uuid.New().String(),
		Username:     cfg.Username,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}, nil
}

// SeedAdmin stores the configured admin unless one exists. With no admin
// configured it only warns; every login then fails.
func SeedAdmin(ctx context.Context, store AdminStore, cfg config.AdminConfig, cost int, log *zap.Logger) error {
	if !cfg.Configured() {
		log.Warn("ADMIN_USERNAME or ADMIN_PASSWORD not set, admin login is disabled")
		return nil
	}

	admin, err := NewAdminAccount(cfg, cost)
	if err != nil {
		return err
	}

	created, err := store.EnsureAdmin(ctx, admin)
	if err != nil {
		return err
	}
	if created {
		log.Info("Admin account created", zap.String("username", admin.Username))
	} else {
		log.Info("Admin account already exists", zap.String("username", admin.Username))
	}
	return nil
}
