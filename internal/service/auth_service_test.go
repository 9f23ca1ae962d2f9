package service

import (
	"context"
	"testing"
	"time"

	"github.com/koaestudio/koa-photos-backend/internal/models"
	"github.com/koaestudio/koa-photos-backend/pkg/bcrypt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedAdmin(t *testing.T, env *testEnv) *models.AdminUser {
	t.Helper()
	hash, err := bcrypt.HashPassword("s3cret")
	require.NoError(t, err)
	user := &models.AdminUser{FullName: "Admin", Email: "admin@koa.com", Password: hash}
	require.NoError(t, env.admins.Create(context.Background(), user))
	return user
}

func TestSignInAndCurrentUser(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := seedAdmin(t, env)

	resp, err := env.authService.SignIn(ctx, models.LoginRequest{Email: "admin@koa.com", Password: "s3cret"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, admin.ID, resp.User.ID)

	claims, err := env.authService.Authenticate(ctx, resp.Token)
	require.NoError(t, err)
	assert.Equal(t, admin.ID, claims.Subject)

	user, err := env.authService.CurrentUser(ctx, claims.Subject)
	require.NoError(t, err)
	assert.Equal(t, "admin@koa.com", user.Email)
}

func TestSignInRejectsBadCredentials(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	seedAdmin(t, env)

	_, err := env.authService.SignIn(ctx, models.LoginRequest{Email: "admin@koa.com", Password: "nope"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = env.authService.SignIn(ctx, models.LoginRequest{Email: "ghost@koa.com", Password: "s3cret"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestSignOutRevokesSession(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	seedAdmin(t, env)

	resp, err := env.authService.SignIn(ctx, models.LoginRequest{Email: "admin@koa.com", Password: "s3cret"})
	require.NoError(t, err)
	claims, err := env.authService.Authenticate(ctx, resp.Token)
	require.NoError(t, err)

	require.NoError(t, env.authService.SignOut(ctx, claims))

	_, err = env.authService.Authenticate(ctx, resp.Token)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestAuthenticateRejectsDownloadTokens(t *testing.T) {
	env := newTestEnv(t)
	token, _, err := env.jwt.GenerateDownloadToken("order-1", time.Hour)
	require.NoError(t, err)

	_, err = env.authService.Authenticate(context.Background(), token)
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = env.authService.Authenticate(context.Background(), "garbage")
	assert.ErrorIs(t, err, ErrUnauthorized)
}
