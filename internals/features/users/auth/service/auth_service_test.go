package service

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authModel "waterbilling_backend/internals/features/users/auth/model"
	"waterbilling_backend/internals/testutil"
)

func newService(t *testing.T) *AuthService {
	t.Helper()
	s := NewAuthService(testutil.NewTestDB(t), "test-secret")
	_, err := s.EnsureAdmin(context.Background(), "admin", "supersecret")
	require.NoError(t, err)
	return s
}

func TestLoginIssuesVerifiableToken(t *testing.T) {
	s := newService(t)
	ctx := context.Background()

	sess, err := s.Login(ctx, "admin", "supersecret")
	require.NoError(t, err)
	assert.NotEmpty(t, sess.Token)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), sess.ExpiresAt, time.Minute)

	user, err := s.Authenticate(ctx, sess.Token)
	require.NoError(t, err)
	assert.Equal(t, "admin", user.UserName)
	assert.True(t, user.IsSuperuser)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	s := newService(t)
	ctx := context.Background()

	_, err := s.Login(ctx, "admin", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = s.Login(ctx, "nobody", "supersecret")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogoutRevokesToken(t *testing.T) {
	s := newService(t)
	ctx := context.Background()

	sess, err := s.Login(ctx, "admin", "supersecret")
	require.NoError(t, err)
	require.NoError(t, s.Logout(ctx, sess.Token))
	// logout kedua tidak error
	require.NoError(t, s.Logout(ctx, sess.Token))

	_, err = s.Authenticate(ctx, sess.Token)
	assert.ErrorIs(t, err, ErrTokenRevoked)

	var n int64
	require.NoError(t, s.DB.Model(&authModel.TokenBlacklistModel{}).Count(&n).Error)
	assert.EqualValues(t, 1, n)
}

func TestParseTokenRejectsExpiredAndForeign(t *testing.T) {
	s := newService(t)
	sess, err := s.Login(context.Background(), "admin", "supersecret")
	require.NoError(t, err)

	s.Now = func() time.Time { return time.Now().Add(25 * time.Hour) }
	_, _, err = s.ParseToken(sess.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	foreign, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "not-a-uuid",
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("other-secret"))
	require.NoError(t, err)
	_, _, err = s.ParseToken(foreign)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestEnsureAdminIsIdempotent(t *testing.T) {
	s := newService(t)
	created, err := s.EnsureAdmin(context.Background(), "admin", "anotherpass")
	require.NoError(t, err)
	assert.False(t, created)

	_, err = s.EnsureAdmin(context.Background(), "clerk", "short")
	assert.Error(t, err)
}
