package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
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

type mockGradeService struct {
	service.GradeService
	lastActor   service.Actor
	lastPayload dto.RecomputeTrimesterRequest
	response    dto.RecomputeResponse
	err         error
}

func (m *mockGradeService) RecomputeTrimester(_ context.Context, actor service.Actor, payload dto.RecomputeTrimesterRequest) (dto.RecomputeResponse, error) {
	m.lastActor = actor
	m.lastPayload = payload
	if m.err != nil {
		return dto.RecomputeResponse{}, m.err
	}
	return m.response, nil
}

func gradeTestApp(svc service.GradeService, actor service.Actor) *fiber.App {
	app := fiber.New()
	group := app.Group("/api/v1/grades", func(c *fiber.Ctx) error {
		c.Locals(middleware.ActorKey, actor)
		return c.Next()
	})
	handler.NewGradeHandler(svc, zerolog.New(io.Discard)).Register(group)
	return app
}

func postJSON(t *testing.T, app *fiber.App, path string, payload interface{}) *http.Response {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func TestGradeHandlerComputeTrimester(t *testing.T) {
	svc := &mockGradeService{response: dto.RecomputeResponse{Computed: 12}}
	actor := service.Actor{ID: 3, Role: models.RoleTeacher}
	app := gradeTestApp(svc, actor)

	resp := postJSON(t, app, "/api/v1/grades/trimester/compute", dto.RecomputeTrimesterRequest{TrimesterID: 5})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var response struct {
		Success bool                  `json:"success"`
		Data    dto.RecomputeResponse `json:"data"`
	}
	decodeResponse(t, resp, &response)

	require.True(t, response.Success)
	require.Equal(t, 12, response.Data.Computed)
	require.Equal(t, actor, svc.lastActor)
	require.Equal(t, uint(5), svc.lastPayload.TrimesterID)
}

func TestGradeHandlerComputeTrimesterPermissionDenied(t *testing.T) {
	svc := &mockGradeService{err: service.ErrPermissionDenied}
	app := gradeTestApp(svc, service.Actor{ID: 9, Role: models.RoleParent})

	resp := postJSON(t, app, "/api/v1/grades/trimester/compute", dto.RecomputeTrimesterRequest{TrimesterID: 5})
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestGradeHandlerComputeTrimesterUnknownTrimester(t *testing.T) {
	svc := &mockGradeService{err: service.ErrTrimesterNotFound}
	app := gradeTestApp(svc, service.Actor{ID: 3, Role: models.RoleTeacher})

	resp := postJSON(t, app, "/api/v1/grades/trimester/compute", dto.RecomputeTrimesterRequest{TrimesterID: 99})
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestGradeHandlerRejectsMalformedBody(t *testing.T) {
	svc := &mockGradeService{}
	app := gradeTestApp(svc, service.Actor{ID: 3, Role: models.RoleTeacher})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/grades/trimester/compute", bytes.NewReader([]byte("{")))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func decodeResponse(t *testing.T, resp *http.Response, target interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(target))
}
