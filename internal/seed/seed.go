// Package seed fills a development database with demo users and messages and
// provisions admin accounts. It is not used by the server.
package seed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"strconv"
	"strings"
	"time"
	"unicode"

	"clubhouse/internal/middleware"
	"clubhouse/internal/models"
	"clubhouse/internal/repository"
	"clubhouse/internal/service"
	"clubhouse/internal/validation"

	"github.com/brianvoe/gofakeit/v6"
	"gorm.io/gorm"
)

// DefaultPassword is given to every generated demo account.
const DefaultPassword = "password123"

// Options controls how much demo data is generated.
type Options struct {
	Users       int
	Messages    int
	MemberRatio float64
	MaxDays     int
	BcryptCost  int
	// Seed makes the generated data reproducible when non-zero.
	Seed int64
}

// Seeder writes demo data through the repositories.
type Seeder struct {
	db       *gorm.DB
	users    repository.UserRepository
	messages repository.MessageRepository
	opts     Options
	faker    *gofakeit.Faker
	rng      *rand.Rand
}

func NewSeeder(db *gorm.DB, opts Options) *Seeder {
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	if opts.MaxDays <= 0 {
		opts.MaxDays = 90
	}
	return &Seeder{
		db:       db,
		users:    repository.NewUserRepository(db),
		messages: repository.NewMessageRepository(db),
		opts:     opts,
		faker:    gofakeit.New(seed),
		rng:      rand.New(rand.NewSource(seed)),
	}
}

// ClearAll deletes every message and user.
func (s *Seeder) ClearAll(ctx context.Context) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.Message{}).Error; err != nil {
			return fmt.Errorf("clear messages: %w", err)
		}
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.User{}).Error; err != nil {
			return fmt.Errorf("clear users: %w", err)
		}
		return nil
	})
}

// Run seeds the configured number of users and messages.
func (s *Seeder) Run(ctx context.Context) ([]*models.User, []*models.Message, error) {
	users, err := s.SeedUsers(ctx, s.opts.Users)
	if err != nil {
		return nil, nil, err
	}
	messages, err := s.SeedMessages(ctx, users, s.opts.Messages)
	if err != nil {
		return users, nil, err
	}
	return users, messages, nil
}

// SeedUsers creates n accounts with DefaultPassword. Roughly MemberRatio of
// them are club members; none are admins.
func (s *Seeder) SeedUsers(ctx context.Context, n int) ([]*models.User, error) {
	hashed, err := service.HashPassword(DefaultPassword, s.opts.BcryptCost)
	if err != nil {
		return nil, err
	}

	users := make([]*models.User, 0, n)
	for i := 0; i < n; i++ {
		user := &models.User{
			Name:     validation.Sanitize(s.faker.Name()),
			Username: s.username(i),
			Password: hashed,
		}
		if err := s.users.Create(ctx, user); err != nil {
			return users, fmt.Errorf("create user %q: %w", user.Username, err)
		}
		if s.rng.Float64() < s.opts.MemberRatio {
			if user, err = s.users.SetMembership(ctx, user.ID); err != nil {
				return users, err
			}
		}
		users = append(users, user)
	}

	middleware.Logger.InfoContext(ctx, "Seeded users", slog.Int("count", len(users)))
	return users, nil
}

// SeedMessages creates n messages by random authors spread over the last MaxDays.
func (s *Seeder) SeedMessages(ctx context.Context, authors []*models.User, n int) ([]*models.Message, error) {
	if len(authors) == 0 && n > 0 {
		return nil, errors.New("cannot seed messages without authors")
	}

	now := time.Now().UTC()
	messages := make([]*models.Message, 0, n)
	for i := 0; i < n; i++ {
		author := authors[s.rng.Intn(len(authors))]
		authorID := author.ID
		age := time.Duration(s.rng.Int63n(int64(s.opts.MaxDays) * int64(24*time.Hour)))

		msg := &models.Message{
			Text:        validation.Sanitize(s.faker.Sentence(s.rng.Intn(12) + 3)),
			AuthorID:    &authorID,
			DateCreated: now.Add(-age),
		}
		if err := s.messages.Create(ctx, msg); err != nil {
			return messages, fmt.Errorf("create message: %w", err)
		}
		messages = append(messages, msg)
	}

	middleware.Logger.InfoContext(ctx, "Seeded messages", slog.Int("count", len(messages)))
	return messages, nil
}

// EnsureAdmin creates an admin with the given credentials, or promotes the
// existing account of that name. An existing password is left untouched.
func EnsureAdmin(ctx context.Context, users repository.UserRepository, username, password string, cost int) (*models.User, error) {
	username = validation.Sanitize(username)
	password = validation.Sanitize(password)

	var errs validation.Errors
	if errs.Require("username", username, "admin username cannot be empty") {
		errs.Alphanumeric("username", username, "admin username must contain only letters and numbers")
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}

	user, err := users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	if user == nil {
		if password == "" {
			return nil, models.NewValidationError(models.FieldError{Field: "password", Msg: "admin password required to create an account"})
		}
		hashed, err := service.HashPassword(password, cost)
		if err != nil {
			return nil, err
		}
		user = &models.User{Name: username, Username: username, Password: hashed}
		if err := users.Create(ctx, user); err != nil {
			return nil, err
		}
	}

	if err := users.SetAdmin(ctx, user.ID); err != nil {
		return nil, err
	}
	user.Admin = true

	middleware.Logger.InfoContext(ctx, "Admin provisioned", slog.String("username", username))
	return user, nil
}

// username derives a unique alphanumeric handle for the i-th demo user.
func (s *Seeder) username(i int) string {
	base := strings.Map(func(r rune) rune {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			return unicode.ToLower(r)
		}
		return -1
	}, s.faker.Username())
	if base == "" {
		base = "user"
	}
	return base + strconv.Itoa(i)
}
