package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/scolaris/scolaris-go-api/internal/dto"
	"github.com/scolaris/scolaris-go-api/internal/service"
	"github.com/scolaris/scolaris-go-api/internal/utils"
)

// ScheduleHandler serves the weekly timetable endpoints.
type ScheduleHandler struct {
	service service.ScheduleService
	logger  zerolog.Logger
}

// NewScheduleHandler constructs the handler instance.
func NewScheduleHandler(service service.ScheduleService, logger zerolog.Logger) *ScheduleHandler {
	return &ScheduleHandler{
		service: service,
		logger:  logger.With().Str("component", "schedule_handler").Logger(),
	}
}

// Register wires the schedule routes.
func (h *ScheduleHandler) Register(router fiber.Router) {
	router.Put("", h.upsert)
	router.Get("", h.find)
	router.Delete("/:id", h.delete)
}

func (h *ScheduleHandler) upsert(c *fiber.Ctx) error {
	var payload dto.ScheduleUpsertRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	response, err := h.service.Upsert(c.Context(), actorFromContext(c), payload)
	if err != nil {
		return sendServiceError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "schedule saved", response)
}

func (h *ScheduleHandler) find(c *fiber.Ctx) error {
	classID, err := parseQueryUint(c, "class_id")
	if err != nil || classID == 0 {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid class id")
	}
	schoolYearID, err := parseQueryUint(c, "school_year_id")
	if err != nil || schoolYearID == 0 {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid school year id")
	}

	response, err := h.service.Find(c.Context(), classID, c.Query("subdivision"), schoolYearID)
	if err != nil {
		return sendServiceError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "schedule", response)
}

func (h *ScheduleHandler) delete(c *fiber.Ctx) error {
	id, err := parseParamID(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid schedule id")
	}

	if err := h.service.Delete(c.Context(), actorFromContext(c), id); err != nil {
		return sendServiceError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "schedule deleted", nil)
}
