package handler_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/scolaris/scolaris-go-api/internal/dto"
	"github.com/scolaris/scolaris-go-api/internal/handler"
	"github.com/scolaris/scolaris-go-api/internal/middleware"
	"github.com/scolaris/scolaris-go-api/internal/models"
	"github.com/scolaris/scolaris-go-api/internal/service"
)

type mockNotificationService struct {
	service.NotificationService
	lastActor   service.Actor
	lastPayload dto.MarkAllReadRequest
	lastID      uint
	marked      int64
	err         error
}

func (m *mockNotificationService) MarkAllRead(_ context.Context, actor service.Actor, payload dto.MarkAllReadRequest) (dto.MarkAllReadResponse, error) {
	m.lastActor = actor
	m.lastPayload = payload
	if m.err != nil {
		return dto.MarkAllReadResponse{}, m.err
	}
	return dto.MarkAllReadResponse{Marked: m.marked}, nil
}

func (m *mockNotificationService) MarkRead(_ context.Context, actor service.Actor, id uint) (dto.NotificationResponse, error) {
	m.lastActor = actor
	m.lastID = id
	if m.err != nil {
		return dto.NotificationResponse{}, m.err
	}
	return dto.NotificationResponse{ID: id, Read: true}, nil
}

func notificationTestApp(svc service.NotificationService, actor service.Actor) *fiber.App {
	app := fiber.New()
	group := app.Group("/api/v1/notifications", func(c *fiber.Ctx) error {
		c.Locals(middleware.ActorKey, actor)
		return c.Next()
	})
	handler.NewNotificationHandler(svc, zerolog.New(io.Discard)).Register(group)
	return app
}

func TestNotificationHandlerReadAllWithoutBody(t *testing.T) {
	svc := &mockNotificationService{marked: 3}
	actor := service.Actor{ID: 11, Role: models.RoleParent}
	app := notificationTestApp(svc, actor)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/notifications/read-all", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var response struct {
		Success bool                    `json:"success"`
		Data    dto.MarkAllReadResponse `json:"data"`
	}
	decodeResponse(t, resp, &response)

	require.True(t, response.Success)
	require.Equal(t, int64(3), response.Data.Marked)
	require.Equal(t, actor, svc.lastActor)
	require.Empty(t, svc.lastPayload.Kind)
}

func TestNotificationHandlerMarkRead(t *testing.T) {
	svc := &mockNotificationService{}
	app := notificationTestApp(svc, service.Actor{ID: 11, Role: models.RoleParent})

	req := httptest.NewRequest(http.MethodPatch, "/api/v1/notifications/42/read", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Equal(t, uint(42), svc.lastID)
}

func TestNotificationHandlerMarkReadUnknownRecord(t *testing.T) {
	svc := &mockNotificationService{err: service.ErrRecordNotFound}
	app := notificationTestApp(svc, service.Actor{ID: 11, Role: models.RoleParent})

	req := httptest.NewRequest(http.MethodPatch, "/api/v1/notifications/42/read", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestNotificationHandlerMarkReadInvalidID(t *testing.T) {
	svc := &mockNotificationService{}
	app := notificationTestApp(svc, service.Actor{ID: 11, Role: models.RoleParent})

	req := httptest.NewRequest(http.MethodPatch, "/api/v1/notifications/abc/read", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
