package auth

import (
	"context"
	"crypto/subtle"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/samarthyatrust/samarthya_backend/config"
	"github.com/samarthyatrust/samarthya_backend/pkg/token"
	"github.com/samarthyatrust/samarthya_backend/pkg/util/password"
)

// LoginResult carries the freshly issued access token.
type LoginResult struct {
	AccessToken string    `json:"accessToken"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

// Service authenticates the admin account. Tokens are short-lived JWTs
// bound to a server-side session, so logout takes effect immediately.
type Service interface {
	Login(ctx context.Context, email, pass string) (*LoginResult, error)
	Logout(ctx context.Context, sessionID string) error
	Authenticate(ctx context.Context, raw string) (*token.Claims, error)
}

type service struct {
	cfg      config.AuthConfig
	tokens   *token.Manager
	sessions SessionStore
	log      *slog.Logger
	now      func() time.Time
}

func New(cfg config.AuthConfig, tokens *token.Manager, sessions SessionStore, log *slog.Logger) Service {
	return &service{cfg: cfg, tokens: tokens, sessions: sessions, log: log, now: time.Now}
}

func (s *service) Login(ctx context.Context, email, pass string) (*LoginResult, error) {
	emailMatch := subtle.ConstantTimeCompare([]byte(email), []byte(s.cfg.AdminEmail)) == 1
	passErr := password.Verify(s.cfg.AdminPasswordHash, pass)
	if !emailMatch || passErr != nil {
		s.log.Warn("admin login rejected", "email", email)
		return nil, ErrInvalidCredentials
	}

	sessionID := uuid.New()
	if err := s.sessions.Put(ctx, sessionID.String(), email, s.sessionTTL()); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	signed, err := s.tokens.Issue(email, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	s.log.Info("admin logged in", "session_id", sessionID)

	return &LoginResult{
		AccessToken: signed,
		ExpiresAt:   s.now().UTC().Add(s.accessTTL()),
	}, nil
}

func (s *service) Logout(ctx context.Context, sessionID string) error {
	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("failed to end session: %w", err)
	}
	s.log.Info("admin logged out", "session_id", sessionID)
	return nil
}

// Authenticate verifies the token signature and checks the session is
// still alive.
func (s *service) Authenticate(ctx context.Context, raw string) (*token.Claims, error) {
	claims, err := s.tokens.Verify(raw)
	if err != nil {
		return nil, ErrUnauthorized
	}

	subject, err := s.sessions.Get(ctx, claims.SessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to check session: %w", err)
	}
	if subject == "" {
		return nil, ErrSessionExpired
	}
	return claims, nil
}

func (s *service) sessionTTL() time.Duration {
	if s.cfg.SessionTTLMinutes > 0 {
		return time.Duration(s.cfg.SessionTTLMinutes) * time.Minute
	}
	return 12 * time.Hour
}

func (s *service) accessTTL() time.Duration {
	if s.cfg.AccessTTLMinutes > 0 {
		return time.Duration(s.cfg.AccessTTLMinutes) * time.Minute
	}
	return 15 * time.Minute
}
