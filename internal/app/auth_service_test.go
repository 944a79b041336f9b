package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quicknotes/internal/model"
)

func TestRegister_CreatesUserWithDefaultCategories(t *testing.T) {
	env := newTestEnv(t)

	result, err := env.auth.Register(RegisterInput{Email: "alice@Example.COM", Password: "testpass123"})
	require.NoError(t, err)
	require.NotNil(t, result.User)
	assert.NotEmpty(t, result.AccessToken)
	assert.NotEmpty(t, result.RefreshToken)

	// Domain is lowercased, local part kept as given.
	assert.Equal(t, "alice@example.com", result.User.Email)
	assert.Equal(t, "alice", result.User.Username)
	assert.False(t, result.User.IsStaff)
	assert.False(t, result.User.IsSuperuser)
	assert.True(t, result.User.IsActive)

	stored, err := env.userRepo.GetByEmail("alice@example.com")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.NotEqual(t, "testpass123", stored.PasswordHash)

	categories, err := env.categoryRepo.ListByUserID(result.User.ID)
	require.NoError(t, err)
	require.Len(t, categories, 3)

	// Name-ascending order.
	assert.Equal(t, "Personal", categories[0].Name)
	assert.Equal(t, model.ColorMint, categories[0].Color)
	assert.Equal(t, "Random Thoughts", categories[1].Name)
	assert.Equal(t, model.ColorPeach, categories[1].Color)
	assert.Equal(t, "School", categories[2].Name)
	assert.Equal(t, model.ColorYellow, categories[2].Color)
}

func TestRegister_KeepsSuppliedUsername(t *testing.T) {
	env := newTestEnv(t)

	result, err := env.auth.Register(RegisterInput{
		Email:    "bob@example.com",
		Password: "testpass123",
		Username: "bobby",
	})
	require.NoError(t, err)
	assert.Equal(t, "bobby", result.User.Username)
}

func TestRegister_EmptyFields(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.auth.Register(RegisterInput{Email: "", Password: "testpass123"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = env.auth.Register(RegisterInput{Email: "carol@example.com", Password: ""})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	env := newTestEnv(t)
	env.registerUser(t, "dave@example.com")

	_, err := env.auth.Register(RegisterInput{Email: "dave@example.com", Password: "otherpass123"})
	assert.ErrorIs(t, err, ErrEmailExists)

	// Normalization applies before the uniqueness check.
	_, err = env.auth.Register(RegisterInput{Email: "dave@EXAMPLE.com", Password: "otherpass123"})
	assert.ErrorIs(t, err, ErrEmailExists)
}

func TestAuthenticate_FailuresAreUniform(t *testing.T) {
	env := newTestEnv(t)
	env.registerUser(t, "eve@example.com")

	_, wrongPassword := env.auth.Authenticate("eve@example.com", "wrongpass123")
	_, unknownEmail := env.auth.Authenticate("nobody@example.com", "whatever123")

	assert.ErrorIs(t, wrongPassword, ErrInvalidCredential)
	assert.ErrorIs(t, unknownEmail, ErrInvalidCredential)
	assert.Equal(t, wrongPassword, unknownEmail)
}

func TestLogin_Success(t *testing.T) {
	env := newTestEnv(t)
	env.registerUser(t, "frank@example.com")

	result, err := env.auth.Login("frank@example.com", "testpass123")
	require.NoError(t, err)
	assert.Equal(t, "frank@example.com", result.User.Email)
	assert.NotEmpty(t, result.AccessToken)
	assert.NotEmpty(t, result.RefreshToken)
}

func TestLogin_MissingFields(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.auth.Login("", "testpass123")
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = env.auth.Login("frank@example.com", "")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestCreateSuperuser_ForcesFlags(t *testing.T) {
	env := newTestEnv(t)

	user, err := env.auth.CreateSuperuser(SuperuserInput{Email: "root@example.com", Password: "rootpass123"})
	require.NoError(t, err)
	assert.True(t, user.IsStaff)
	assert.True(t, user.IsSuperuser)
	assert.True(t, user.IsActive)

	// Superusers get the default categories too.
	categories, err := env.categoryRepo.ListByUserID(user.ID)
	require.NoError(t, err)
	assert.Len(t, categories, 3)
}

func TestCreateSuperuser_RejectsFalseOverrides(t *testing.T) {
	env := newTestEnv(t)
	falseVal := false

	_, err := env.auth.CreateSuperuser(SuperuserInput{
		Email:    "root@example.com",
		Password: "rootpass123",
		IsStaff:  &falseVal,
	})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = env.auth.CreateSuperuser(SuperuserInput{
		Email:       "root@example.com",
		Password:    "rootpass123",
		IsSuperuser: &falseVal,
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestRefresh_IssuesNewAccessToken(t *testing.T) {
	env := newTestEnv(t)
	env.registerUser(t, "gina@example.com")

	login, err := env.auth.Login("gina@example.com", "testpass123")
	require.NoError(t, err)

	access, err := env.auth.Refresh(context.Background(), login.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, access)
}

func TestRefresh_RejectsAccessToken(t *testing.T) {
	env := newTestEnv(t)
	env.registerUser(t, "hank@example.com")

	login, err := env.auth.Login("hank@example.com", "testpass123")
	require.NoError(t, err)

	_, err = env.auth.Refresh(context.Background(), login.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestLogout_RevokesRefreshToken(t *testing.T) {
	env := newTestEnv(t)
	env.registerUser(t, "iris@example.com")

	login, err := env.auth.Login("iris@example.com", "testpass123")
	require.NoError(t, err)

	require.NoError(t, env.auth.Logout(context.Background(), login.RefreshToken))

	_, err = env.auth.Refresh(context.Background(), login.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestLogout_InvalidToken(t *testing.T) {
	env := newTestEnv(t)

	err := env.auth.Logout(context.Background(), "not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
