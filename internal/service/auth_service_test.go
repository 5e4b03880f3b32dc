package service

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/scolaris/scolaris-go-api/internal/dto"
	"github.com/scolaris/scolaris-go-api/internal/models"
)

func newAuthFixture(t *testing.T) (AuthService, *stubUserRepo, *stubTokenRepo, *miniredis.Miniredis) {
	t.Helper()

	server, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(server.Close)

	redisClient := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = redisClient.Close() })

	users := &stubUserRepo{}
	tokens := &stubTokenRepo{users: users}
	validate := validator.New(validator.WithRequiredStructEnabled())

	svc := NewAuthService(users, tokens, redisClient, "test-secret", time.Hour, validate, testLogger())
	return svc, users, tokens, server
}

func TestRegisterLoginValidateRoundtrip(t *testing.T) {
	svc, _, _, _ := newAuthFixture(t)
	ctx := context.Background()

	registered, err := svc.Register(ctx, dto.RegisterRequest{
		FirstName: "Awa", LastName: "Diallo",
		Email: "awa@example.com", Password: "secret123", Role: "teacher",
	})
	require.NoError(t, err)
	require.NotEmpty(t, registered.Token)
	require.Equal(t, "teacher", registered.User.Role)

	logged, err := svc.Login(ctx, dto.LoginRequest{Email: "Awa@Example.com", Password: "secret123"})
	require.NoError(t, err)

	actor, tokenID, err := svc.Validate(ctx, logged.Token)
	require.NoError(t, err)
	require.Equal(t, registered.User.ID, actor.ID)
	require.Equal(t, models.RoleTeacher, actor.Role)
	require.NotEmpty(t, tokenID)
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	svc, _, _, _ := newAuthFixture(t)
	ctx := context.Background()

	payload := dto.RegisterRequest{
		FirstName: "Awa", LastName: "Diallo",
		Email: "awa@example.com", Password: "secret123",
	}
	_, err := svc.Register(ctx, payload)
	require.NoError(t, err)

	_, err = svc.Register(ctx, payload)
	require.ErrorIs(t, err, ErrEmailTaken)
}

func TestRegisterDefaultsToParentRole(t *testing.T) {
	svc, users, _, _ := newAuthFixture(t)

	_, err := svc.Register(context.Background(), dto.RegisterRequest{
		FirstName: "Awa", LastName: "Diallo",
		Email: "awa@example.com", Password: "secret123",
	})
	require.NoError(t, err)
	require.Equal(t, models.RoleParent, users.users[0].Role)
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _, _, _ := newAuthFixture(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, dto.RegisterRequest{
		FirstName: "Awa", LastName: "Diallo",
		Email: "awa@example.com", Password: "secret123",
	})
	require.NoError(t, err)

	_, err = svc.Login(ctx, dto.LoginRequest{Email: "awa@example.com", Password: "wrong"})
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, dto.LoginRequest{Email: "nobody@example.com", Password: "secret123"})
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogoutRevokesToken(t *testing.T) {
	svc, _, _, _ := newAuthFixture(t)
	ctx := context.Background()

	registered, err := svc.Register(ctx, dto.RegisterRequest{
		FirstName: "Awa", LastName: "Diallo",
		Email: "awa@example.com", Password: "secret123",
	})
	require.NoError(t, err)

	_, tokenID, err := svc.Validate(ctx, registered.Token)
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, tokenID))

	// The JWT signature is still valid; revocation comes from the deleted
	// backing record and dropped cache entry.
	_, _, err = svc.Validate(ctx, registered.Token)
	require.ErrorIs(t, err, ErrInvalidToken)

	// Logging out twice is a no-op.
	require.NoError(t, svc.Logout(ctx, tokenID))
}

func TestValidateSurvivesCacheLoss(t *testing.T) {
	svc, _, _, server := newAuthFixture(t)
	ctx := context.Background()

	registered, err := svc.Register(ctx, dto.RegisterRequest{
		FirstName: "Awa", LastName: "Diallo",
		Email: "awa@example.com", Password: "secret123",
	})
	require.NoError(t, err)

	server.FlushAll()

	actor, _, err := svc.Validate(ctx, registered.Token)
	require.NoError(t, err)
	require.Equal(t, registered.User.ID, actor.ID)
}

func TestChangePasswordRevokesOutstandingTokens(t *testing.T) {
	svc, _, tokens, _ := newAuthFixture(t)
	ctx := context.Background()

	registered, err := svc.Register(ctx, dto.RegisterRequest{
		FirstName: "Awa", LastName: "Diallo",
		Email: "awa@example.com", Password: "secret123",
	})
	require.NoError(t, err)
	actor := Actor{ID: registered.User.ID, Role: models.RoleParent}

	err = svc.ChangePassword(ctx, actor, dto.ChangePasswordRequest{OldPassword: "wrong", NewPassword: "next-secret"})
	require.ErrorIs(t, err, ErrWrongPassword)

	err = svc.ChangePassword(ctx, actor, dto.ChangePasswordRequest{OldPassword: "secret123", NewPassword: "next-secret"})
	require.NoError(t, err)
	require.Empty(t, tokens.tokens)

	_, err = svc.Login(ctx, dto.LoginRequest{Email: "awa@example.com", Password: "next-secret"})
	require.NoError(t, err)
}

func TestRefreshTokenRotatesCredential(t *testing.T) {
	svc, _, _, _ := newAuthFixture(t)
	ctx := context.Background()

	registered, err := svc.Register(ctx, dto.RegisterRequest{
		FirstName: "Awa", LastName: "Diallo",
		Email: "awa@example.com", Password: "secret123",
	})
	require.NoError(t, err)

	actor, oldTokenID, err := svc.Validate(ctx, registered.Token)
	require.NoError(t, err)

	refreshed, err := svc.RefreshToken(ctx, actor, oldTokenID)
	require.NoError(t, err)
	require.NotEqual(t, registered.Token, refreshed.Token)

	_, _, err = svc.Validate(ctx, refreshed.Token)
	require.NoError(t, err)
	_, _, err = svc.Validate(ctx, registered.Token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenInfoTruncatesCredential(t *testing.T) {
	svc, _, _, _ := newAuthFixture(t)
	ctx := context.Background()

	registered, err := svc.Register(ctx, dto.RegisterRequest{
		FirstName: "Awa", LastName: "Diallo",
		Email: "awa@example.com", Password: "secret123",
	})
	require.NoError(t, err)

	_, tokenID, err := svc.Validate(ctx, registered.Token)
	require.NoError(t, err)

	info, err := svc.TokenInfo(ctx, tokenID)
	require.NoError(t, err)
	require.Len(t, info.TokenPrefix, 8)
	require.NotEqual(t, tokenID, info.TokenPrefix)
	require.Equal(t, registered.User.ID, info.User.ID)
}
