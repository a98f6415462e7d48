// Package auth holds the client-side session: the bearer token attached to
// API requests and the authenticated state derived from it.
package auth

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrEmptyToken is returned by Login when no token is given.
var ErrEmptyToken = errors.New("empty token")

// Claims are the fields the client reads from a JWT access token. The token
// is never verified client-side; the backend remains the authority.
type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// Session is safe for concurrent use.
type Session struct {
	mu     sync.RWMutex
	token  string
	claims *Claims
	// active is the state subscribers were last told about.
	active bool
	subs   map[int]func(authenticated bool)
	nextID int

	now    func() time.Time
	parser *jwt.Parser
	logger *slog.Logger
}

// NewSession creates a logged-out session.
func NewSession(logger *slog.Logger) *Session {
	return &Session{
		subs:   make(map[int]func(bool)),
		now:    time.Now,
		parser: jwt.NewParser(),
		logger: logger,
	}
}

// Login stores token. JWTs have their claims decoded so expiry and role are
// known; opaque tokens are accepted as-is and never expire client-side.
func (s *Session) Login(token string) error {
	token = strings.TrimSpace(strings.TrimPrefix(token, "Bearer "))
	if token == "" {
		return ErrEmptyToken
	}

	claims := &Claims{}
	if _, _, err := s.parser.ParseUnverified(token, claims); err != nil {
		if strings.Count(token, ".") == 2 {
			return fmt.Errorf("decode session token: %w", err)
		}
		claims = nil
	}

	s.mu.Lock()
	was := s.active
	s.token = token
	s.claims = claims
	is := s.authenticatedLocked()
	s.active = is
	subs := s.subscribersLocked()
	s.mu.Unlock()

	if claims != nil {
		s.logger.Debug("session started",
			slog.String("user_id", claims.UserID),
			slog.String("role", claims.Role),
		)
	}
	if was != is {
		notifyAll(subs, is)
	}
	return nil
}

// Logout clears the token and notifies subscribers if the session was active.
func (s *Session) Logout() {
	s.mu.Lock()
	was := s.active
	s.token = ""
	s.claims = nil
	s.active = false
	subs := s.subscribersLocked()
	s.mu.Unlock()

	s.logger.Debug("session ended")
	if was {
		notifyAll(subs, false)
	}
}

// Token returns the bearer token, or "" when logged out or expired.
func (s *Session) Token() string {
	token, ok := s.current()
	if !ok {
		return ""
	}
	return token
}

// Authenticated reports whether a non-expired token is held.
func (s *Session) Authenticated() bool {
	_, ok := s.current()
	return ok
}

// current returns the token and whether it is still valid. The first call
// after the token expires notifies subscribers of the logout.
func (s *Session) current() (string, bool) {
	s.mu.Lock()
	token, ok := s.token, s.authenticatedLocked()
	var subs []func(bool)
	if s.active && !ok {
		s.active = false
		subs = s.subscribersLocked()
	}
	s.mu.Unlock()

	if subs != nil {
		s.logger.Debug("session expired")
		notifyAll(subs, false)
	}
	return token, ok
}

// UserID returns the user id claim, if known.
func (s *Session) UserID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.claims == nil {
		return ""
	}
	if s.claims.UserID != "" {
		return s.claims.UserID
	}
	return s.claims.Subject
}

// Role returns the role claim (buyer, seller, courier), if known.
func (s *Session) Role() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.claims == nil {
		return ""
	}
	return s.claims.Role
}

// Subscribe registers fn to be called on every authenticated/logged-out
// transition. The returned func removes the subscription.
func (s *Session) Subscribe(fn func(authenticated bool)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

func (s *Session) authenticatedLocked() bool {
	if s.token == "" {
		return false
	}
	if s.claims == nil || s.claims.ExpiresAt == nil {
		return true
	}
	return s.now().Before(s.claims.ExpiresAt.Time)
}

func (s *Session) subscribersLocked() []func(bool) {
	subs := make([]func(bool), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	return subs
}

func notifyAll(subs []func(bool), authenticated bool) {
	for _, fn := range subs {
		fn(authenticated)
	}
}
