package service

import (
	"context"
	"log/slog"

	"clubhouse/internal/middleware"
	"clubhouse/internal/models"
	"clubhouse/internal/observability"
	"clubhouse/internal/repository"
	"clubhouse/internal/validation"
)

// Messages shown to the user when credentials are rejected.
const (
	MsgIncorrectUsername = "Incorrect username"
	MsgIncorrectPassword = "Incorrect password"
)

type AuthService struct {
	userRepo repository.UserRepository
}

func NewAuthService(userRepo repository.UserRepository) *AuthService {
	return &AuthService{userRepo: userRepo}
}

// Authenticate checks the log-in form and the credentials.
// Empty fields yield a validation error; bad credentials an auth failure.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	var errs validation.Errors
	errs.Require("username", username, "username field cannot be empty")
	errs.Require("password", password, "password field cannot be empty")
	if err := errs.Err(); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, s.reject(ctx, username, "unknown_username", MsgIncorrectUsername)
	}
	if !CheckPassword(user.Password, password) {
		return nil, s.reject(ctx, username, "wrong_password", MsgIncorrectPassword)
	}
	return user, nil
}

func (s *AuthService) reject(ctx context.Context, username, reason, msg string) error {
	observability.AuthFailures.WithLabelValues(reason).Inc()
	middleware.Logger.WarnContext(ctx, "Log-in rejected",
		slog.String("username", username),
		slog.String("reason", reason),
	)
	return models.NewAuthFailure(msg)
}
