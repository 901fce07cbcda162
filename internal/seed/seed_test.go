package seed

import (
	"context"
	"regexp"
	"testing"

	"clubhouse/internal/config"
	"clubhouse/internal/database"
	"clubhouse/internal/models"
	"clubhouse/internal/repository"
	"clubhouse/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Connect(&config.Config{DBDriver: "sqlite", SQLitePath: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })
	return db
}

func testOptions() Options {
	return Options{
		Users:       6,
		Messages:    20,
		MemberRatio: 0.5,
		MaxDays:     30,
		BcryptCost:  bcrypt.MinCost,
		Seed:        42,
	}
}

func TestSeeder_Run(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	users, messages, err := NewSeeder(db, testOptions()).Run(ctx)
	require.NoError(t, err)
	require.Len(t, users, 6)
	require.Len(t, messages, 20)

	alnum := regexp.MustCompile(`^[a-z0-9]+$`)
	seen := map[string]bool{}
	for _, u := range users {
		assert.Regexp(t, alnum, u.Username)
		assert.False(t, seen[u.Username], "duplicate username %s", u.Username)
		seen[u.Username] = true
		assert.False(t, u.Admin)
		assert.True(t, service.CheckPassword(u.Password, DefaultPassword))
	}

	listed, err := repository.NewMessageRepository(db).ListRecent(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 20)
	for i := 1; i < len(listed); i++ {
		assert.False(t, listed[i].DateCreated.After(listed[i-1].DateCreated))
	}
	for _, m := range listed {
		require.NotNil(t, m.Author)
		assert.NotEmpty(t, m.Text)
	}
}

func TestSeeder_ClearAll(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	s := NewSeeder(db, testOptions())
	_, _, err := s.Run(ctx)
	require.NoError(t, err)

	require.NoError(t, s.ClearAll(ctx))

	var users, messages int64
	require.NoError(t, db.Model(&models.User{}).Count(&users).Error)
	require.NoError(t, db.Model(&models.Message{}).Count(&messages).Error)
	assert.Zero(t, users)
	assert.Zero(t, messages)
}

func TestSeedMessages_RequiresAuthors(t *testing.T) {
	s := NewSeeder(setupTestDB(t), testOptions())
	_, err := s.SeedMessages(context.Background(), nil, 3)
	assert.Error(t, err)
}

func TestEnsureAdmin(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	users := repository.NewUserRepository(db)

	t.Run("creates a new admin", func(t *testing.T) {
		admin, err := EnsureAdmin(ctx, users, "root", "s3cret", bcrypt.MinCost)
		require.NoError(t, err)
		assert.True(t, admin.Admin)

		stored, err := users.GetByUsername(ctx, "root")
		require.NoError(t, err)
		assert.True(t, stored.Admin)
		assert.True(t, service.CheckPassword(stored.Password, "s3cret"))
	})

	t.Run("promotes an existing user and keeps the password", func(t *testing.T) {
		hashed, err := service.HashPassword("original", bcrypt.MinCost)
		require.NoError(t, err)
		require.NoError(t, users.Create(ctx, &models.User{Name: "Eve", Username: "eve", Password: hashed}))

		_, err = EnsureAdmin(ctx, users, "eve", "", bcrypt.MinCost)
		require.NoError(t, err)

		stored, err := users.GetByUsername(ctx, "eve")
		require.NoError(t, err)
		assert.True(t, stored.Admin)
		assert.True(t, service.CheckPassword(stored.Password, "original"))
	})

	t.Run("rejects bad input", func(t *testing.T) {
		_, err := EnsureAdmin(ctx, users, "", "pw", bcrypt.MinCost)
		assert.True(t, models.HasCode(err, models.ErrCodeValidation))

		_, err = EnsureAdmin(ctx, users, "bad name", "pw", bcrypt.MinCost)
		assert.True(t, models.HasCode(err, models.ErrCodeValidation))

		_, err = EnsureAdmin(ctx, users, "nobody", "", bcrypt.MinCost)
		assert.True(t, models.HasCode(err, models.ErrCodeValidation))
	})
}
