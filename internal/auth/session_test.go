package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/localharvest/marketclient/pkg/logger"
)

func signToken(t *testing.T, userID, role string, exp time.Time) string {
	t.Helper()
	claims := &Claims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return token
}

func TestSession_LoginWithJWT(t *testing.T) {
	s := NewSession(logger.Discard())
	token := signToken(t, "17", "seller", time.Now().Add(time.Hour))

	require.NoError(t, s.Login("Bearer "+token))

	assert.True(t, s.Authenticated())
	assert.Equal(t, token, s.Token())
	assert.Equal(t, "17", s.UserID())
	assert.Equal(t, "seller", s.Role())
}

func TestSession_ExpiredToken(t *testing.T) {
	s := NewSession(logger.Discard())
	require.NoError(t, s.Login(signToken(t, "17", "buyer", time.Now().Add(-time.Minute))))

	assert.False(t, s.Authenticated())
	assert.Empty(t, s.Token())
}

func TestSession_OpaqueToken(t *testing.T) {
	s := NewSession(logger.Discard())
	require.NoError(t, s.Login("42|sanctum-plain-text-token"))

	assert.True(t, s.Authenticated())
	assert.Empty(t, s.Role())
}

func TestSession_MalformedJWT(t *testing.T) {
	s := NewSession(logger.Discard())
	err := s.Login("aaa.bbb.ccc")
	require.Error(t, err)
	assert.False(t, s.Authenticated())
}

func TestSession_EmptyToken(t *testing.T) {
	s := NewSession(logger.Discard())
	assert.ErrorIs(t, s.Login("  "), ErrEmptyToken)
}

func TestSession_SubscribeTransitions(t *testing.T) {
	s := NewSession(logger.Discard())

	var events []bool
	unsubscribe := s.Subscribe(func(authenticated bool) {
		events = append(events, authenticated)
	})

	require.NoError(t, s.Login("token-a"))
	require.NoError(t, s.Login("token-b")) // no transition
	s.Logout()
	s.Logout() // already logged out

	assert.Equal(t, []bool{true, false}, events)

	unsubscribe()
	require.NoError(t, s.Login("token-c"))
	assert.Len(t, events, 2)
}

func TestSession_ExpiryNotifiesOnce(t *testing.T) {
	s := NewSession(logger.Discard())
	now := time.Now()
	s.now = func() time.Time { return now }

	var events []bool
	s.Subscribe(func(authenticated bool) {
		events = append(events, authenticated)
	})

	require.NoError(t, s.Login(signToken(t, "17", "buyer", now.Add(time.Minute))))
	assert.NotEmpty(t, s.Token())

	now = now.Add(2 * time.Minute)
	assert.Empty(t, s.Token())
	assert.False(t, s.Authenticated())
	s.Logout()

	assert.Equal(t, []bool{true, false}, events)
}
