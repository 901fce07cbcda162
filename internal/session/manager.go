// Package session binds signed session cookies to user ids stored in Redis.
package session

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	keyPrefix = "session:"
	issuer    = "clubhouse"
	audience  = "clubhouse-web"
)

// Manager issues, resolves and revokes sessions.
//
// A session is a random id (the token's jti) whose Redis key holds the user
// id. The token only proves the id was minted here; revocation and expiry are
// decided by the Redis key.
type Manager struct {
	rdb    *redis.Client
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewManager returns a Manager signing tokens with secret.
func NewManager(rdb *redis.Client, secret string, ttl time.Duration) *Manager {
	return &Manager{
		rdb:    rdb,
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// TTL is the lifetime given to new sessions.
func (m *Manager) TTL() time.Duration {
	return m.ttl
}

func key(sid string) string {
	return keyPrefix + sid
}

// Establish starts a session for userID and returns the token to store in the cookie.
func (m *Manager) Establish(ctx context.Context, userID uint) (string, error) {
	if len(m.secret) == 0 {
		return "", errors.New("session secret not configured")
	}

	sid := uuid.NewString()
	now := m.now()
	claims := jwt.RegisteredClaims{
		ID:        sid,
		Subject:   strconv.FormatUint(uint64(userID), 10),
		Issuer:    issuer,
		Audience:  jwt.ClaimStrings{audience},
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}

	if err := m.rdb.Set(ctx, key(sid), claims.Subject, m.ttl).Err(); err != nil {
		return "", fmt.Errorf("save session: %w", err)
	}
	return token, nil
}

// Resolve returns the user bound to token. ok is false for a malformed,
// forged, expired or revoked token; err is reserved for store failures.
func (m *Manager) Resolve(ctx context.Context, token string) (userID uint, ok bool, err error) {
	claims, err := m.parse(token, true)
	if err != nil {
		return 0, false, nil
	}

	stored, err := m.rdb.Get(ctx, key(claims.ID)).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("lookup session: %w", err)
	}
	if stored != claims.Subject {
		return 0, false, nil
	}

	id, err := strconv.ParseUint(stored, 10, 64)
	if err != nil {
		return 0, false, nil
	}
	return uint(id), true, nil
}

// End revokes the session behind token. Unknown or invalid tokens are ignored.
func (m *Manager) End(ctx context.Context, token string) error {
	// Expired tokens are still revoked so a stale key cannot outlive its cookie.
	claims, err := m.parse(token, false)
	if err != nil {
		return nil
	}
	if err := m.rdb.Del(ctx, key(claims.ID)).Err(); err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	return nil
}

func (m *Manager) parse(token string, validateClaims bool) (*jwt.RegisteredClaims, error) {
	if token == "" {
		return nil, errors.New("empty token")
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(m.now),
	}
	if validateClaims {
		opts = append(opts, jwt.WithIssuer(issuer), jwt.WithAudience(audience), jwt.WithExpirationRequired())
	} else {
		opts = append(opts, jwt.WithoutClaimsValidation())
	}

	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return m.secret, nil
	}, opts...)
	if err != nil || !parsed.Valid {
		return nil, fmt.Errorf("invalid session token: %w", err)
	}
	if claims.ID == "" {
		return nil, errors.New("session token has no id")
	}
	return claims, nil
}
