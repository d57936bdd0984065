package repository

import (
	"context"
	"testing"
	"time"

	"pos-inventory/internal/domain"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// Property: stored passwords are bcrypt hashes, never plaintext
func TestProperty_RegistrationStoresHashedPasswords(t *testing.T) {
	resetTables(t)
	repo := NewUserRepository(testDB)
	ctx := context.Background()

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 20
	properties := gopter.NewProperties(parameters)

	properties.Property("passwords are hashed with bcrypt and not stored as plaintext", prop.ForAll(
		func(email string, password string, name string) bool {
			_, _ = testDB.Exec("DELETE FROM users WHERE email = $1", email)

			hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
			if err != nil {
				t.Logf("Failed to hash password: %v", err)
				return false
			}

			user := &domain.User{
				Name:         name,
				Email:        email,
				PasswordHash: string(hashedPassword),
				Role:         domain.RoleCashier,
			}
			if err := repo.Create(ctx, user); err != nil {
				t.Logf("Failed to create user: %v", err)
				return false
			}
			if user.ID == 0 {
				t.Logf("Expected generated ID")
				return false
			}

			retrievedUser, err := repo.FindByEmail(ctx, email)
			if err != nil {
				t.Logf("Failed to find user: %v", err)
				return false
			}

			if retrievedUser.PasswordHash == password {
				t.Logf("Password was stored as plaintext!")
				return false
			}

			if err := bcrypt.CompareHashAndPassword([]byte(retrievedUser.PasswordHash), []byte(password)); err != nil {
				t.Logf("Stored password is not a valid bcrypt hash: %v", err)
				return false
			}

			_, _ = testDB.Exec("DELETE FROM users WHERE email = $1", email)
			return true
		},
		gen.RegexMatch(`[a-z]{5,10}@[a-z]{3,8}\.(com|org|net)`),
		gen.RegexMatch(`[A-Za-z0-9!@#$%]{8,20}`),
		gen.RegexMatch(`[A-Z][a-z]{2,15}`),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestUserRepository_DuplicateEmail(t *testing.T) {
	resetTables(t)
	repo := NewUserRepository(testDB)
	ctx := context.Background()

	seedUser(t, "dup@example.com")

	err := repo.Create(ctx, &domain.User{
		Name:         "Other",
		Email:        "dup@example.com",
		PasswordHash: "hash",
		Role:         domain.RoleCashier,
	})
	assert.ErrorIs(t, err, ErrUserAlreadyExists)
}

func TestUserRepository_FindAndExists(t *testing.T) {
	resetTables(t)
	repo := NewUserRepository(testDB)
	ctx := context.Background()

	user := seedUser(t, "find@example.com")

	found, err := repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "find@example.com", found.Email)
	assert.Equal(t, domain.RoleCashier, found.Role)

	exists, err := repo.Exists(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.Exists(ctx, user.ID+100)
	require.NoError(t, err)
	assert.False(t, exists)

	_, err = repo.FindByID(ctx, user.ID+100)
	assert.ErrorIs(t, err, ErrUserNotFound)

	_, err = repo.FindByEmail(ctx, "missing@example.com")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestRefreshTokenRepository_Lifecycle(t *testing.T) {
	resetTables(t)
	repo := NewRefreshTokenRepository(testDB)
	ctx := context.Background()

	user := seedUser(t, "tokens@example.com")

	token := &domain.RefreshToken{
		UserID:    user.ID,
		Token:     "refresh-token-1",
		ExpiresAt: time.Now().Add(time.Hour),
	}
	require.NoError(t, repo.Create(ctx, token))
	assert.NotZero(t, token.ID)

	found, err := repo.FindByToken(ctx, "refresh-token-1")
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.UserID)

	other := seedUser(t, "other@example.com")
	assert.ErrorIs(t, repo.Revoke(ctx, other.ID, "refresh-token-1"), ErrRefreshTokenNotFound)
	found, err = repo.FindByToken(ctx, "refresh-token-1")
	require.NoError(t, err)
	assert.False(t, found.Revoked)

	require.NoError(t, repo.Revoke(ctx, user.ID, "refresh-token-1"))
	_, err = repo.FindByToken(ctx, "refresh-token-1")
	assert.ErrorIs(t, err, ErrRefreshTokenRevoked)

	assert.ErrorIs(t, repo.Revoke(ctx, user.ID, "unknown"), ErrRefreshTokenNotFound)

	second := &domain.RefreshToken{UserID: user.ID, Token: "refresh-token-2", ExpiresAt: time.Now().Add(time.Hour)}
	require.NoError(t, repo.Create(ctx, second))
	require.NoError(t, repo.RevokeAllForUser(ctx, user.ID))
	_, err = repo.FindByToken(ctx, "refresh-token-2")
	assert.ErrorIs(t, err, ErrRefreshTokenRevoked)
}
