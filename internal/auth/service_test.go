package auth

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestService(t *testing.T, clock func() time.Time) (*Service, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	hash, err := HashPIN("1234")
	require.NoError(t, err)
	svc := NewService(ServiceConfig{
		PINHash: hash,
		Secret:  "test-secret",
		Expiry:  7 * 24 * time.Hour,
		Clock:   clock,
	}, client, testLogger())
	return svc, mr
}

func TestLoginAndVerify(t *testing.T) {
	svc, _ := newTestService(t, nil)
	ctx := context.Background()

	token, err := svc.Login(ctx, "1234", "10.0.0.1")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	subject, err := svc.Verify(token)
	require.NoError(t, err)
	require.Equal(t, "user", subject)
}

func TestLoginWrongPIN(t *testing.T) {
	svc, _ := newTestService(t, nil)

	_, err := svc.Login(context.Background(), "0000", "10.0.0.1")
	require.ErrorIs(t, err, ErrInvalidPIN)
}

func TestLoginLockoutAfterRepeatedFailures(t *testing.T) {
	svc, _ := newTestService(t, nil)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := svc.Login(ctx, "0000", "10.0.0.9")
		require.ErrorIs(t, err, ErrInvalidPIN)
	}
	// Locked out now, even with the correct PIN.
	_, err := svc.Login(ctx, "1234", "10.0.0.9")
	require.ErrorIs(t, err, ErrTooManyAttempts)

	// A different client is unaffected.
	_, err = svc.Login(ctx, "1234", "10.0.0.10")
	require.NoError(t, err)
}

func TestLockoutExpires(t *testing.T) {
	svc, mr := newTestService(t, nil)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, _ = svc.Login(ctx, "0000", "10.0.0.9")
	}
	_, err := svc.Login(ctx, "1234", "10.0.0.9")
	require.ErrorIs(t, err, ErrTooManyAttempts)

	mr.FastForward(16 * time.Minute)

	_, err = svc.Login(ctx, "1234", "10.0.0.9")
	require.NoError(t, err)
}

func TestVerifyExpiredToken(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc, _ := newTestService(t, func() time.Time { return now })
	ctx := context.Background()

	token, err := svc.Login(ctx, "1234", "10.0.0.1")
	require.NoError(t, err)

	now = now.Add(8 * 24 * time.Hour)
	_, err = svc.Verify(token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyGarbageToken(t *testing.T) {
	svc, _ := newTestService(t, nil)

	_, err := svc.Verify("not-a-token")
	require.ErrorIs(t, err, ErrInvalidToken)
}
