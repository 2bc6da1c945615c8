package usecase

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"stock_portfolio/internal/feature/auth/domain/entity"
	"stock_portfolio/internal/shared/apperr"
)

const (
	minPasswordLength = 8

	// refreshTokenBytes is the entropy of a refresh token; it is hex encoded to 64 characters.
	refreshTokenBytes = 32

	// dummyHash is compared against when the user does not exist so that
	// login latency does not reveal which emails are registered.
	dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"
)

// UserRepository abstracts the persistence layer for user entities.
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type UserRepository interface {
	// Create returns ErrEmailAlreadyExists for a duplicate email.
	Create(ctx context.Context, user *entity.User) error
	// FindByEmail returns ErrUserNotFound when absent.
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	// FindByID returns ErrUserNotFound when absent.
	FindByID(ctx context.Context, id uint) (*entity.User, error)
}

// JWTGenerator issues access tokens.
type JWTGenerator interface {
	GenerateToken(userID uint, email string) (string, error)
	Expiration() time.Duration
}

// SessionConfig controls refresh sessions.
type SessionConfig struct {
	RefreshTTL  time.Duration
	MaxSessions int // 0 disables the cap
}

// AuthUsecase implements signup, login and refresh-token rotation.
type AuthUsecase struct {
	users        UserRepository
	sessions     SessionRepository
	jwtGenerator JWTGenerator
	cfg          SessionConfig
	hashCost     int
	now          func() time.Time
}

// NewAuthUsecase creates an AuthUsecase.
func NewAuthUsecase(users UserRepository, sessions SessionRepository, jwtGenerator JWTGenerator, cfg SessionConfig) *AuthUsecase {
	return &AuthUsecase{
		users:        users,
		sessions:     sessions,
		jwtGenerator: jwtGenerator,
		cfg:          cfg,
		hashCost:     bcrypt.DefaultCost,
		now:          time.Now,
	}
}

// NormalizeEmail trims and lowercases an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validatePassword(password string) error {
	if len(password) < minPasswordLength {
		return apperr.New(apperr.KindValidation, fmt.Sprintf("password must be at least %d characters long", minPasswordLength))
	}
	return nil
}

// Signup registers a new user with a hashed password.
func (u *AuthUsecase) Signup(ctx context.Context, username, email, password string) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return apperr.New(apperr.KindValidation, "username is required")
	}
	if err := validatePassword(password); err != nil {
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), u.hashCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user := &entity.User{Username: username, Email: NormalizeEmail(email), Password: string(hashed)}
	return u.users.Create(ctx, user)
}

// Login verifies credentials and opens a new refresh session.
// Every failure is reported as ErrInvalidCredentials.
func (u *AuthUsecase) Login(ctx context.Context, email, password string, meta entity.ClientMeta) (*entity.TokenPair, error) {
	user, err := u.users.FindByEmail(ctx, NormalizeEmail(email))

	passwordHash := dummyHash
	if err == nil && user.Password != "" {
		passwordHash = user.Password
	}
	compareErr := bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(password))

	if err != nil || user.Password == "" || compareErr != nil {
		if err != nil && !errors.Is(err, ErrUserNotFound) {
			return nil, fmt.Errorf("%w: %w", ErrInvalidCredentials, err)
		}
		return nil, ErrInvalidCredentials
	}

	return u.issue(ctx, user, meta)
}

// Refresh rotates a refresh token: the presented session is revoked and a
// new pair is issued. Presenting an already revoked token revokes every
// session of its owner.
func (u *AuthUsecase) Refresh(ctx context.Context, refreshToken string, meta entity.ClientMeta) (*entity.TokenPair, error) {
	if len(refreshToken) != 2*refreshTokenBytes {
		return nil, ErrInvalidRefreshToken
	}

	sess, err := u.sessions.FindByID(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return nil, ErrInvalidRefreshToken
		}
		return nil, fmt.Errorf("find session: %w", err)
	}

	if sess.IsRevoked() {
		slog.Warn("revoked refresh token reused, revoking all sessions", "user_id", sess.UserID, "remote_addr", meta.IPAddress)
		if err := u.sessions.RevokeAllByUserID(ctx, sess.UserID); err != nil {
			slog.Error("failed to revoke sessions", "user_id", sess.UserID, "error", err)
		}
		return nil, ErrSessionRevoked
	}
	if sess.IsExpired(u.now()) {
		return nil, ErrSessionExpired
	}

	user, err := u.users.FindByID(ctx, sess.UserID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidRefreshToken
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	if err := u.sessions.Revoke(ctx, sess.ID); err != nil {
		return nil, fmt.Errorf("revoke session: %w", err)
	}
	return u.issue(ctx, user, meta)
}

// Logout revokes a refresh session. Unknown tokens are ignored.
func (u *AuthUsecase) Logout(ctx context.Context, refreshToken string) error {
	if err := u.sessions.Revoke(ctx, refreshToken); err != nil && !errors.Is(err, ErrSessionNotFound) {
		return fmt.Errorf("revoke session: %w", err)
	}
	return nil
}

// PurgeExpiredSessions deletes sessions past their expiry.
func (u *AuthUsecase) PurgeExpiredSessions(ctx context.Context) (int64, error) {
	return u.sessions.DeleteExpired(ctx)
}

// issue signs an access token and opens a refresh session, evicting the
// user's oldest sessions beyond MaxSessions.
func (u *AuthUsecase) issue(ctx context.Context, user *entity.User, meta entity.ClientMeta) (*entity.TokenPair, error) {
	token, err := u.jwtGenerator.GenerateToken(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	if u.cfg.MaxSessions > 0 {
		count, err := u.sessions.CountByUserID(ctx, user.ID)
		if err != nil {
			return nil, fmt.Errorf("count sessions: %w", err)
		}
		for ; count >= int64(u.cfg.MaxSessions); count-- {
			if err := u.sessions.DeleteOldestByUserID(ctx, user.ID); err != nil {
				return nil, fmt.Errorf("evict session: %w", err)
			}
		}
	}

	id, err := newSessionID()
	if err != nil {
		return nil, err
	}
	now := u.now()
	sess := &entity.Session{
		ID:        id,
		UserID:    user.ID,
		UserAgent: meta.UserAgent,
		IPAddress: meta.IPAddress,
		CreatedAt: now,
		ExpiresAt: now.Add(u.cfg.RefreshTTL),
	}
	if err := u.sessions.Create(ctx, sess); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	return &entity.TokenPair{
		AccessToken:  token,
		RefreshToken: id,
		ExpiresIn:    u.jwtGenerator.Expiration(),
	}, nil
}

func newSessionID() (string, error) {
	b := make([]byte, refreshTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate session id: %w", err)
	}
	return hex.EncodeToString(b), nil
}
