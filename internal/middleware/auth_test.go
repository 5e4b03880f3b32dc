package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/scolaris/scolaris-go-api/internal/models"
	"github.com/scolaris/scolaris-go-api/internal/service"
)

type stubAuthService struct {
	service.AuthService
	actor   service.Actor
	tokenID string
	err     error
}

func (s *stubAuthService) Validate(_ context.Context, _ string) (service.Actor, string, error) {
	if s.err != nil {
		return service.Actor{}, "", s.err
	}
	return s.actor, s.tokenID, nil
}

func authTestApp(auth service.AuthService) *fiber.App {
	app := fiber.New()
	app.Use(Authenticate(auth))
	app.Get("/me", func(c *fiber.Ctx) error {
		actor, _ := c.Locals(ActorKey).(service.Actor)
		return c.JSON(fiber.Map{"id": actor.ID, "role": string(actor.Role)})
	})
	return app
}

func TestAuthenticateBindsActor(t *testing.T) {
	app := authTestApp(&stubAuthService{
		actor:   service.Actor{ID: 7, Role: models.RoleTeacher},
		tokenID: "token-1",
	})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer some-token")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestAuthenticateRejectsMissingHeader(t *testing.T) {
	app := authTestApp(&stubAuthService{})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/me", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAuthenticateRejectsMalformedHeader(t *testing.T) {
	app := authTestApp(&stubAuthService{})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Basic abc")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAuthenticateRejectsRevokedToken(t *testing.T) {
	app := authTestApp(&stubAuthService{err: service.ErrInvalidToken})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer revoked")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
