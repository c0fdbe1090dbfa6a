package services

import (
	"context"
	"fmt"
	"time"

	"github.com/fathima-sithara/snapshoot-service/internal/auth"
	"github.com/fathima-sithara/snapshoot-service/internal/domain"
	"github.com/fathima-sithara/snapshoot-service/internal/repository"
	"go.uber.org/zap"
)

// LoginFailureDelay is waited on every rejected login.
const LoginFailureDelay = 300 * time.Millisecond

type AuthResult struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

type AuthService struct {
	users  repository.UserRepository
	tokens *auth.TokenManager
	log    *zap.SugaredLogger

	// FailureDelay is the pause applied before rejecting credentials.
	FailureDelay time.Duration

	checkPassword func(hash, password string) bool
}

func NewAuthService(users repository.UserRepository, tokens *auth.TokenManager, log *zap.SugaredLogger) *AuthService {
	return &AuthService{
		users:         users,
		tokens:        tokens,
		log:           log,
		FailureDelay:  LoginFailureDelay,
		checkPassword: auth.CheckPassword,
	}
}

func (s *AuthService) Register(ctx context.Context, username, email, password string) (*AuthResult, error) {
	u, err := newUser(CreateUserInput{Username: username, Email: email, Password: password})
	if err != nil {
		return nil, err
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}
	return s.issue(u)
}

// Login accepts a username or an email as credential.
func (s *AuthService) Login(ctx context.Context, credential, password string) (*AuthResult, error) {
	u, err := s.users.FindByLogin(ctx, credential)
	if err != nil && !isNotFound(err) {
		return nil, err
	}
	// unknown users are compared against a dummy hash so both rejections
	// take the same time
	hash := auth.DummyHash()
	if u != nil {
		hash = u.PasswordHash
	}
	if !s.checkPassword(hash, password) || u == nil {
		s.pause(ctx)
		return nil, domain.NewError(domain.ErrUnauthorized, "invalid credentials")
	}
	return s.issue(u)
}

func (s *AuthService) issue(u *domain.User) (*AuthResult, error) {
	token, err := s.tokens.Issue(domain.Identity{UserID: u.ID, Role: u.Role})
	if err != nil {
		s.log.Errorw("token signing failed", "user_id", u.ID, "err", err)
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &AuthResult{Token: token, User: u}, nil
}

func (s *AuthService) pause(ctx context.Context) {
	if s.FailureDelay <= 0 {
		return
	}
	t := time.NewTimer(s.FailureDelay)
	defer t.Stop()
	select {
	case <-t.C:
	case <-ctx.Done():
	}
}
