// Package auth issues and verifies the bearer tokens behind the tracker's
// single shared PIN. Failed attempts are throttled per client IP in Redis.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrInvalidPIN indicates the submitted PIN did not match.
	ErrInvalidPIN = errors.New("auth: invalid pin")
	// ErrTooManyAttempts indicates the client IP is locked out.
	ErrTooManyAttempts = errors.New("auth: too many failed attempts")
	// ErrInvalidToken indicates a missing, malformed or expired token.
	ErrInvalidToken = errors.New("auth: invalid token")
)

const (
	maxAttempts    = 5
	lockoutWindow  = 15 * time.Minute
	attemptsPrefix = "auth:attempts:"
)

// Service validates PINs and mints JWTs.
type Service struct {
	pinHash []byte
	secret  []byte
	expiry  time.Duration
	redis   *redis.Client
	logger  *slog.Logger
	now     func() time.Time
}

// ServiceConfig groups the auth settings.
type ServiceConfig struct {
	// PINHash is a bcrypt hash of the shared PIN.
	PINHash string
	// Secret signs tokens with HS256.
	Secret string
	// Expiry bounds token lifetime.
	Expiry time.Duration
	// Clock overrides time.Now for tests.
	Clock func() time.Time
}

// NewService constructs a Service. redisClient may be nil, which disables
// attempt throttling.
func NewService(cfg ServiceConfig, redisClient *redis.Client, logger *slog.Logger) *Service {
	now := cfg.Clock
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		pinHash: []byte(cfg.PINHash),
		secret:  []byte(cfg.Secret),
		expiry:  cfg.Expiry,
		redis:   redisClient,
		logger:  logger,
		now:     now,
	}
}

// HashPIN derives the bcrypt hash stored in configuration.
func HashPIN(pin string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Login validates the PIN and returns a signed token. remoteIP keys the
// failed-attempt throttle.
func (s *Service) Login(ctx context.Context, pin, remoteIP string) (string, error) {
	if err := s.checkThrottle(ctx, remoteIP); err != nil {
		return "", err
	}
	if err := bcrypt.CompareHashAndPassword(s.pinHash, []byte(pin)); err != nil {
		s.recordFailure(ctx, remoteIP)
		return "", ErrInvalidPIN
	}
	s.clearFailures(ctx, remoteIP)

	now := s.now().UTC()
	claims := jwt.RegisteredClaims{
		Subject:   "user",
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.expiry)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: sign token: %w", err)
	}
	return signed, nil
}

// Verify checks a bearer token and returns its subject.
func (s *Service) Verify(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil || !token.Valid {
		return "", ErrInvalidToken
	}
	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}

func (s *Service) checkThrottle(ctx context.Context, remoteIP string) error {
	if s.redis == nil || remoteIP == "" {
		return nil
	}
	n, err := s.redis.Get(ctx, attemptsPrefix+remoteIP).Int()
	if err != nil && !errors.Is(err, redis.Nil) {
		// Redis being down must not lock everyone out.
		s.logger.Warn("attempt throttle unavailable", slog.Any("error", err))
		return nil
	}
	if n >= maxAttempts {
		return ErrTooManyAttempts
	}
	return nil
}

func (s *Service) recordFailure(ctx context.Context, remoteIP string) {
	if s.redis == nil || remoteIP == "" {
		return
	}
	key := attemptsPrefix + remoteIP
	if err := s.redis.Incr(ctx, key).Err(); err != nil {
		s.logger.Warn("record failed attempt", slog.Any("error", err))
		return
	}
	s.redis.Expire(ctx, key, lockoutWindow)
}

func (s *Service) clearFailures(ctx context.Context, remoteIP string) {
	if s.redis == nil || remoteIP == "" {
		return
	}
	s.redis.Del(ctx, attemptsPrefix+remoteIP)
}
