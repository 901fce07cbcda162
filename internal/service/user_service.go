// Package service holds the board's business rules between handlers and repositories.
package service

import (
	"context"
	"crypto/subtle"
	"log/slog"

	"clubhouse/internal/middleware"
	"clubhouse/internal/models"
	"clubhouse/internal/observability"
	"clubhouse/internal/repository"
	"clubhouse/internal/validation"
)

const msgUsernameTaken = "username already exists"

type UserService struct {
	userRepo   repository.UserRepository
	bcryptCost int
	passphrase string
}

// SignUpInput carries sanitized sign-up form fields.
type SignUpInput struct {
	Name            string
	Username        string
	Password        string
	ConfirmPassword string
}

// NewUserService keeps the club passphrase in sanitized form, since JoinClub
// receives submissions after the same sanitation.
func NewUserService(userRepo repository.UserRepository, bcryptCost int, passphrase string) *UserService {
	return &UserService{
		userRepo:   userRepo,
		bcryptCost: bcryptCost,
		passphrase: validation.Sanitize(passphrase),
	}
}

// GetByID loads a user, returning nil when the id is unknown.
func (s *UserService) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

// SignUp validates the form and creates a non-member, non-admin account.
// Every failed rule is reported, not just the first.
func (s *UserService) SignUp(ctx context.Context, in SignUpInput) (*models.User, error) {
	var errs validation.Errors

	errs.Require("name", in.Name, "name field cannot be empty")

	if errs.Require("username", in.Username, "username field cannot be empty") &&
		errs.Alphanumeric("username", in.Username, "username must contain only letters and numbers") {
		existing, err := s.userRepo.GetByUsername(ctx, in.Username)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			errs.Add("username", msgUsernameTaken)
		}
	}

	errs.Require("password", in.Password, "password field cannot be empty")
	if in.ConfirmPassword != in.Password {
		errs.Add("confirm-password", "passwords do not match")
	}

	if err := errs.Err(); err != nil {
		return nil, err
	}

	hashed, err := HashPassword(in.Password, s.bcryptCost)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	user := &models.User{
		Name:     in.Name,
		Username: in.Username,
		Password: hashed,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		// Lost a race with a concurrent sign-up for the same name.
		if models.HasCode(err, models.ErrCodeConflict) {
			return nil, models.NewValidationError(models.FieldError{Field: "username", Msg: msgUsernameTaken})
		}
		return nil, err
	}

	observability.SignUps.Inc()
	middleware.Logger.InfoContext(ctx, "User signed up",
		slog.Uint64("new_user_id", uint64(user.ID)),
		slog.String("username", user.Username),
	)
	return user, nil
}

// JoinClub grants membership when passphrase matches the club passphrase.
// Granting to an existing member is a no-op that still succeeds.
func (s *UserService) JoinClub(ctx context.Context, userID uint, passphrase string) (*models.User, error) {
	if passphrase == "" || subtle.ConstantTimeCompare([]byte(passphrase), []byte(s.passphrase)) != 1 {
		return nil, models.NewValidationError(models.FieldError{Field: "secret-passphrase", Msg: "wrong passphrase"})
	}

	user, err := s.userRepo.SetMembership(ctx, userID)
	if err != nil {
		return nil, err
	}

	observability.MembershipGrants.Inc()
	middleware.Logger.InfoContext(ctx, "Membership granted", slog.Uint64("member_id", uint64(userID)))
	return user, nil
}
