package token

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	centralcfg "github.com/samarthyatrust/samarthya_backend/config"
)

type Config struct {
	Secret   []byte
	Issuer   string
	Audience string

	AccessTTL time.Duration
}

// Manager issues and verifies HMAC-signed admin access tokens.
type Manager struct {
	cfg Config
}

func New(cfg Config) (*Manager, error) {
	if len(cfg.Secret) < 32 {
		return nil, ErrConfig{Msg: "secret must be at least 32 bytes"}
	}
	if cfg.Issuer == "" {
		return nil, ErrConfig{Msg: "Issuer is required"}
	}
	if cfg.Audience == "" {
		return nil, ErrConfig{Msg: "Audience is required"}
	}
	if cfg.AccessTTL <= 0 {
		cfg.AccessTTL = 15 * time.Minute
	}
	return &Manager{cfg: cfg}, nil
}

// NewFromCentral creates a Manager from central config.
func NewFromCentral(cfg centralcfg.AuthConfig) (*Manager, error) {
	ttl := time.Duration(cfg.AccessTTLMinutes) * time.Minute
	return New(Config{
		Secret:    []byte(cfg.JWTSecret),
		Issuer:    cfg.Issuer,
		Audience:  cfg.Audience,
		AccessTTL: ttl,
	})
}

// Issue creates a signed access token bound to a session id.
func (m *Manager) Issue(subject string, sessionID uuid.UUID) (string, error) {
	now := time.Now()
	claims := Claims{
		SessionID: sessionID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    m.cfg.Issuer,
			Audience:  jwt.ClaimStrings{m.cfg.Audience},
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.cfg.AccessTTL)),
			ID:        uuid.NewString(),
		},
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(m.cfg.Secret)
	if err != nil {
		return "", ErrIssue{Err: err}
	}
	return signed, nil
}

// Verify parses a token and validates signature, issuer, audience and expiry.
func (m *Manager) Verify(raw string) (*Claims, error) {
	var claims Claims
	t, err := jwt.ParseWithClaims(raw, &claims,
		func(t *jwt.Token) (any, error) { return m.cfg.Secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(m.cfg.Issuer),
		jwt.WithAudience(m.cfg.Audience),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !t.Valid {
		return nil, ErrInvalidToken{Err: err}
	}
	return &claims, nil
}
