package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"blogadmin/internal/apperr"
	"blogadmin/internal/config"
	"blogadmin/internal/db"
	"blogadmin/internal/models"
	"blogadmin/internal/repository"
	"blogadmin/internal/utils"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newUserServices(t *testing.T) (*UserService, *AuthService) {
	t.Helper()
	conn, err := db.OpenMemory()
	require.NoError(t, err)
	users := NewUserService(repository.NewStore[models.User](conn, "user"), zap.NewNop())
	auth := NewAuthService(users, config.JWTConfig{Secret: "test-secret", Expires: time.Hour})
	return users, auth
}

func TestBootstrapIsIdempotent(t *testing.T) {
	ctx := context.Background()
	users, _ := newUserServices(t)

	require.NoError(t, users.Bootstrap(ctx, "admin", "admin"))
	require.NoError(t, users.Bootstrap(ctx, "admin", "other"))

	u, err := users.FindByName(ctx, "admin")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, u.Role)
	assert.True(t, utils.CheckPasswordHash("admin", u.Password), "second run keeps the first password")
}

func TestCreateUser(t *testing.T) {
	ctx := context.Background()
	users, _ := newUserServices(t)

	u, err := users.Create(ctx, UserInput{Name: "bob", Password: "pw", Email: "bob@x.com"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleVisitor, u.Role)
	assert.NotEqual(t, "pw", u.Password)
	assert.Equal(t, utils.GravatarURL("bob@x.com"), u.Avatar)

	_, err = users.Create(ctx, UserInput{Name: "bob", Password: "pw2"})
	assert.True(t, errors.Is(err, apperr.ErrConflict))

	_, err = users.Create(ctx, UserInput{Name: "", Password: "pw"})
	assert.True(t, errors.Is(err, apperr.ErrValidation))

	_, err = users.Create(ctx, UserInput{Name: "eve", Password: "pw", Role: "root"})
	assert.True(t, errors.Is(err, apperr.ErrValidation))

	page, err := users.FindAll(ctx, ListParams{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, page.Total)
}

func TestUpdateUser(t *testing.T) {
	ctx := context.Background()
	users, _ := newUserServices(t)
	admin, err := users.Create(ctx, UserInput{Name: "root", Password: "pw", Role: models.RoleAdmin})
	require.NoError(t, err)
	bob, err := users.Create(ctx, UserInput{Name: "bob", Password: "pw"})
	require.NoError(t, err)

	email := "new@x.com"
	_, err = users.Update(ctx, bob, bob.ID, UserPatch{Email: &email})
	assert.True(t, errors.Is(err, apperr.ErrForbidden))

	updated, err := users.Update(ctx, admin, bob.ID, UserPatch{Email: &email})
	require.NoError(t, err)
	assert.Equal(t, "new@x.com", updated.Email)
	assert.Equal(t, "bob", updated.Name)
	assert.True(t, utils.CheckPasswordHash("pw", updated.Password))

	taken := "root"
	_, err = users.Update(ctx, admin, bob.ID, UserPatch{Name: &taken})
	assert.True(t, errors.Is(err, apperr.ErrConflict))

	_, err = users.Update(ctx, admin, 999, UserPatch{Email: &email})
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}

func TestUpdatePassword(t *testing.T) {
	ctx := context.Background()
	users, auth := newUserServices(t)
	u, err := users.Create(ctx, UserInput{Name: "bob", Password: "old"})
	require.NoError(t, err)

	_, err = users.UpdatePassword(ctx, 999, PasswordChange{Password: "old", NewPassword: "n", RelNewPassword: "n"})
	assert.True(t, errors.Is(err, apperr.ErrNotFound))

	_, err = users.UpdatePassword(ctx, u.ID, PasswordChange{Password: "wrong", NewPassword: "n", RelNewPassword: "n"})
	assert.True(t, errors.Is(err, apperr.ErrInvalidCredentials))

	_, err = users.UpdatePassword(ctx, u.ID, PasswordChange{Password: "old", NewPassword: "n1", RelNewPassword: "n2"})
	assert.True(t, errors.Is(err, apperr.ErrValidation))

	_, err = users.UpdatePassword(ctx, u.ID, PasswordChange{Password: "old", NewPassword: "new", RelNewPassword: "new"})
	require.NoError(t, err)

	_, err = auth.Login(ctx, "bob", "old")
	assert.True(t, errors.Is(err, apperr.ErrInvalidCredentials))
	_, err = auth.Login(ctx, "bob", "new")
	assert.NoError(t, err)
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	users, auth := newUserServices(t)
	require.NoError(t, users.Bootstrap(ctx, "admin", "admin"))

	_, wrongPassword := auth.Login(ctx, "admin", "wrong")
	_, unknownUser := auth.Login(ctx, "nonexistent", "x")
	require.Error(t, wrongPassword)
	require.Error(t, unknownUser)
	assert.Equal(t, apperr.KindInvalidCredentials, apperr.KindOf(wrongPassword))
	assert.Equal(t, apperr.KindOf(wrongPassword), apperr.KindOf(unknownUser))
	assert.Equal(t, apperr.Message(wrongPassword), apperr.Message(unknownUser))

	token, err := auth.Login(ctx, "admin", "admin")
	require.NoError(t, err)
	require.NotEmpty(t, token.Token)

	claims, err := auth.ParseToken(token.Token)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Name)
	assert.Equal(t, models.RoleAdmin, claims.Role)

	u, err := auth.ValidateUser(ctx, claims)
	require.NoError(t, err)
	assert.Equal(t, claims.ID, u.ID)
}

func TestParseTokenRejectsTampering(t *testing.T) {
	ctx := context.Background()
	users, auth := newUserServices(t)
	require.NoError(t, users.Bootstrap(ctx, "admin", "admin"))
	u, err := users.FindByName(ctx, "admin")
	require.NoError(t, err)

	token, err := auth.GenerateToken(u)
	require.NoError(t, err)

	other := NewAuthService(users, config.JWTConfig{Secret: "another-secret", Expires: time.Hour})
	_, err = other.ParseToken(token.Token)
	assert.True(t, errors.Is(err, apperr.ErrUnauthorized))

	_, err = auth.ParseToken("not.a.token")
	assert.True(t, errors.Is(err, apperr.ErrUnauthorized))

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{ID: u.ID, Role: models.RoleAdmin}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = auth.ParseToken(none)
	assert.True(t, errors.Is(err, apperr.ErrUnauthorized))
}

func TestParseTokenExpired(t *testing.T) {
	ctx := context.Background()
	users, auth := newUserServices(t)
	require.NoError(t, users.Bootstrap(ctx, "admin", "admin"))
	u, err := users.FindByName(ctx, "admin")
	require.NoError(t, err)

	auth.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	token, err := auth.GenerateToken(u)
	require.NoError(t, err)

	auth.now = time.Now
	_, err = auth.ParseToken(token.Token)
	assert.True(t, errors.Is(err, apperr.ErrUnauthorized))
}

func TestValidateUserRejectsDeletedUser(t *testing.T) {
	ctx := context.Background()
	users, auth := newUserServices(t)
	u, err := users.Create(ctx, UserInput{Name: "bob", Password: "pw"})
	require.NoError(t, err)

	token, err := auth.GenerateToken(u)
	require.NoError(t, err)
	claims, err := auth.ParseToken(token.Token)
	require.NoError(t, err)

	require.NoError(t, users.users.Delete(ctx, u))

	_, err = auth.ValidateUser(ctx, claims)
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}
