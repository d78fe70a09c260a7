package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/Skotchmaster/journohub/internal/domain"
	"github.com/Skotchmaster/journohub/internal/events"
	"github.com/Skotchmaster/journohub/internal/models"
	"github.com/Skotchmaster/journohub/internal/repo"
	"github.com/Skotchmaster/journohub/internal/transport"
	pkg_hash "github.com/Skotchmaster/journohub/pkg/hash"
	"github.com/Skotchmaster/journohub/pkg/logging"
	"github.com/Skotchmaster/journohub/pkg/tokens"
)

// checkPassword is replaced in tests.
var checkPassword = pkg_hash.CheckPassword

// unknownUserHash is compared on the unknown-email path so both login
// failures spend the same bcrypt time.
var unknownUserHash = sync.OnceValue(func() string {
	h, _ := pkg_hash.HashPassword("journohub-unknown-user")
	return h
})

type AuthService struct {
	Repo   *repo.GormRepo
	Tokens *tokens.Service
	Events events.Publisher
}

func (s *AuthService) Register(ctx context.Context, req transport.RegisterRequest) (*transport.AuthResponse, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register")

	email := normalizeEmail(req.Email)
	name := strings.TrimSpace(req.Name)
	if email == "" || name == "" {
		return nil, fmt.Errorf("%w: email and name are required", domain.ErrValidation)
	}

	pwHash, err := hashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := models.User{
		Email:        email,
		PasswordHash: pwHash,
		Role:         domain.RoleStudent,
		Name:         name,
	}
	if err := s.Repo.CreateUser(ctx, &user); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			l.Warn("register_failed", "status", 409, "reason", "email already registered")
		}
		return nil, err
	}

	resp, err := s.issue(&user)
	if err != nil {
		return nil, err
	}

	publish(ctx, s.Events, events.TopicUsers, user.ID, map[string]any{
		"type":   "user_registered",
		"userID": user.ID,
		"email":  user.Email,
	})
	l.Info("register_success", "user_id", user.ID)
	return resp, nil
}

// Login answers every credential failure with ErrInvalidCredentials so the
// caller cannot tell an unknown email from a wrong password.
func (s *AuthService) Login(ctx context.Context, req transport.LoginRequest) (*transport.AuthResponse, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login")

	user, err := s.Repo.FindUserByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			checkPassword(unknownUserHash(), req.Password)
			l.Warn("login_failed", "status", 401, "reason", "unknown email")
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}
	if !checkPassword(user.PasswordHash, req.Password) {
		l.Warn("login_failed", "status", 401, "reason", "wrong password", "user_id", user.ID)
		return nil, domain.ErrInvalidCredentials
	}

	resp, err := s.issue(user)
	if err != nil {
		return nil, err
	}
	l.Info("login_success", "user_id", user.ID)
	return resp, nil
}

func (s *AuthService) issue(u *models.User) (*transport.AuthResponse, error) {
	token, exp, err := s.Tokens.Issue(identityOf(u))
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &transport.AuthResponse{
		Token:     token,
		ExpiresAt: exp,
		User:      transport.NewPublicUser(u),
	}, nil
}
