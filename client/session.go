package client

import (
	"context"
	"strings"
	"sync"
	"time"
	authDto "vprime/internal/domains/auth/model/dto"
	"vprime/shared/constant"
)

// Session holds one admin's token pair. Create one per user; it is safe for concurrent use.
type Session struct {
	client *Client

	mu        sync.RWMutex
	email     string
	tokens    authDto.LoginResponse
	expiresAt time.Time
	now       func() time.Time
}

func NewSession(c *Client) *Session {
	return &Session{
		client: c,
		now:    time.Now,
	}
}

// Client returns a client that sends this session's access token.
func (s *Session) Client() *Client {
	return s.client.with(s)
}

func (s *Session) Login(ctx context.Context, email, password string) error {
	res, err := s.client.Login(ctx, email, password)
	if err != nil {
		return err
	}

	s.store(strings.ToLower(strings.TrimSpace(email)), res)

	return nil
}

// Refresh rotates the token pair. A rejected refresh token ends the session.
func (s *Session) Refresh(ctx context.Context) error {
	s.mu.RLock()
	refreshToken := s.tokens.RefreshToken
	email := s.email
	s.mu.RUnlock()

	if refreshToken == constant.Empty {
		return ErrUnauthenticated
	}

	res, err := s.client.RefreshToken(ctx, refreshToken)
	if err != nil {
		if code := StatusCode(err); code >= 400 && code < 500 {
			s.Logout()
		}

		return err
	}

	s.store(email, res)

	return nil
}

func (s *Session) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.email = constant.Empty
	s.tokens = authDto.LoginResponse{}
	s.expiresAt = time.Time{}
}

// Authenticated reports whether an unexpired access token is held.
func (s *Session) Authenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.tokens.AccessToken == constant.Empty {
		return false
	}

	return s.expiresAt.IsZero() || s.now().Before(s.expiresAt)
}

func (s *Session) Email() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.email
}

func (s *Session) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.tokens.AccessToken
}

func (s *Session) store(email string, res authDto.LoginResponse) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.email = email
	s.tokens = res
	s.expiresAt = time.Time{}

	if res.ExpiresIn > 0 {
		s.expiresAt = s.now().Add(time.Duration(res.ExpiresIn) * time.Second)
	}
}
