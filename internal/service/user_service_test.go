package service

import (
	"context"
	"errors"
	"testing"

	"clubhouse/internal/models"
	"clubhouse/internal/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validSignUp() SignUpInput {
	return SignUpInput{
		Name:            "Alice",
		Username:        "alice",
		Password:        "pw1",
		ConfirmPassword: "pw1",
	}
}

func TestUserService_SignUp_Success(t *testing.T) {
	t.Parallel()

	repo := noopUserRepo()
	var saved *models.User
	repo.createFn = func(_ context.Context, u *models.User) error {
		u.ID = 10
		saved = u
		return nil
	}
	svc := NewUserService(repo, testCost, "poggers")

	user, err := svc.SignUp(context.Background(), validSignUp())
	require.NoError(t, err)
	require.NotNil(t, saved)

	assert.Equal(t, uint(10), user.ID)
	assert.Equal(t, "alice", saved.Username)
	assert.False(t, saved.MembershipStatus)
	assert.False(t, saved.Admin)
	assert.NotEqual(t, "pw1", saved.Password, "password must be stored hashed")
	assert.True(t, CheckPassword(saved.Password, "pw1"))
}

func TestUserService_SignUp_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*SignUpInput)
		fields []string
	}{
		{"empty name", func(in *SignUpInput) { in.Name = "" }, []string{"name"}},
		{"empty username", func(in *SignUpInput) { in.Username = "" }, []string{"username"}},
		{"non-alphanumeric username", func(in *SignUpInput) { in.Username = "al ice" }, []string{"username"}},
		{"empty password", func(in *SignUpInput) { in.Password = ""; in.ConfirmPassword = "" }, []string{"password"}},
		{"mismatched confirmation", func(in *SignUpInput) { in.ConfirmPassword = "pw2" }, []string{"confirm-password"}},
		{"everything wrong", func(in *SignUpInput) { *in = SignUpInput{ConfirmPassword: "x"} },
			[]string{"name", "username", "password", "confirm-password"}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			repo := noopUserRepo()
			repo.createFn = func(context.Context, *models.User) error {
				t.Fatal("create must not be called on invalid input")
				return nil
			}
			svc := NewUserService(repo, testCost, "poggers")

			in := validSignUp()
			tt.mutate(&in)
			_, err := svc.SignUp(context.Background(), in)
			assertValidationFields(t, err, tt.fields...)
		})
	}
}

func TestUserService_SignUp_UsernameTaken(t *testing.T) {
	t.Parallel()

	repo := noopUserRepo()
	repo.getByUsernameFn = func(_ context.Context, username string) (*models.User, error) {
		return &models.User{ID: 1, Username: username}, nil
	}
	svc := NewUserService(repo, testCost, "poggers")

	_, err := svc.SignUp(context.Background(), validSignUp())
	assertValidationFields(t, err, "username")

	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "username already exists", appErr.Fields[0].Msg)
}

func TestUserService_SignUp_LostRaceReportedAsTaken(t *testing.T) {
	t.Parallel()

	repo := noopUserRepo()
	repo.createFn = func(context.Context, *models.User) error {
		return models.NewConflictError("username already exists")
	}
	svc := NewUserService(repo, testCost, "poggers")

	_, err := svc.SignUp(context.Background(), validSignUp())
	assertValidationFields(t, err, "username")
	assert.False(t, models.HasCode(err, models.ErrCodeConflict))
}

func TestUserService_SignUp_RepoErrorPropagates(t *testing.T) {
	t.Parallel()

	repoErr := models.NewInternalError(errors.New("db down"))
	repo := noopUserRepo()
	repo.getByUsernameFn = func(context.Context, string) (*models.User, error) { return nil, repoErr }
	svc := NewUserService(repo, testCost, "poggers")

	_, err := svc.SignUp(context.Background(), validSignUp())
	assert.ErrorIs(t, err, repoErr)
}

func TestUserService_JoinClub(t *testing.T) {
	t.Parallel()

	t.Run("correct passphrase", func(t *testing.T) {
		t.Parallel()
		repo := noopUserRepo()
		var granted uint
		repo.setMembershipFn = func(_ context.Context, id uint) (*models.User, error) {
			granted = id
			return &models.User{ID: id, MembershipStatus: true}, nil
		}
		svc := NewUserService(repo, testCost, "poggers")

		user, err := svc.JoinClub(context.Background(), 5, "poggers")
		require.NoError(t, err)
		assert.Equal(t, uint(5), granted)
		assert.True(t, user.MembershipStatus)
	})

	for _, attempt := range []string{"", "Poggers", "poggers!", "not poggers"} {
		attempt := attempt
		t.Run("rejects "+attempt, func(t *testing.T) {
			t.Parallel()
			repo := noopUserRepo()
			repo.setMembershipFn = func(context.Context, uint) (*models.User, error) {
				t.Fatal("membership must not be granted")
				return nil, nil
			}
			svc := NewUserService(repo, testCost, "poggers")

			_, err := svc.JoinClub(context.Background(), 5, attempt)
			assertValidationFields(t, err, "secret-passphrase")
		})
	}

	t.Run("configured passphrase", func(t *testing.T) {
		t.Parallel()
		svc := NewUserService(noopUserRepo(), testCost, "open sesame")

		_, err := svc.JoinClub(context.Background(), 1, "poggers")
		assertValidationFields(t, err, "secret-passphrase")

		_, err = svc.JoinClub(context.Background(), 1, "open sesame")
		assert.NoError(t, err)
	})

	t.Run("passphrase with markup characters", func(t *testing.T) {
		t.Parallel()
		svc := NewUserService(noopUserRepo(), testCost, "open&<sesame>/")

		_, err := svc.JoinClub(context.Background(), 1, validation.Sanitize(" open&<sesame>/ "))
		assert.NoError(t, err)

		_, err = svc.JoinClub(context.Background(), 1, validation.Sanitize("open&amp;&lt;sesame&gt;/"))
		assertValidationFields(t, err, "secret-passphrase")
	})
}

func TestUserService_GetByID(t *testing.T) {
	t.Parallel()

	repo := noopUserRepo()
	repo.getByIDFn = func(_ context.Context, id uint) (*models.User, error) {
		if id == 3 {
			return &models.User{ID: 3, Username: "carol"}, nil
		}
		return nil, nil
	}
	svc := NewUserService(repo, testCost, "poggers")

	user, err := svc.GetByID(context.Background(), 3)
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "carol", user.Username)

	user, err = svc.GetByID(context.Background(), 4)
	require.NoError(t, err)
	assert.Nil(t, user)
}

func TestHashPassword(t *testing.T) {
	t.Parallel()

	hash, err := HashPassword("secret", testCost)
	require.NoError(t, err)
	assert.True(t, CheckPassword(hash, "secret"))
	assert.False(t, CheckPassword(hash, "Secret"))
	assert.False(t, CheckPassword("not-a-hash", "secret"))

	// Out-of-range cost falls back to the default rather than failing.
	hash, err = HashPassword("secret", 0)
	require.NoError(t, err)
	assert.True(t, CheckPassword(hash, "secret"))
}
