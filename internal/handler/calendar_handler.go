package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/scolaris/scolaris-go-api/internal/dto"
	"github.com/scolaris/scolaris-go-api/internal/service"
	"github.com/scolaris/scolaris-go-api/internal/utils"
)

// CalendarHandler serves the academic calendar endpoints: school years,
// their trimesters and the grading periods inside them.
type CalendarHandler struct {
	service service.CalendarService
	logger  zerolog.Logger
}

// NewCalendarHandler constructs the handler instance.
func NewCalendarHandler(service service.CalendarService, logger zerolog.Logger) *CalendarHandler {
	return &CalendarHandler{
		service: service,
		logger:  logger.With().Str("component", "calendar_handler").Logger(),
	}
}

// RegisterSchoolYears wires the school-year routes.
func (h *CalendarHandler) RegisterSchoolYears(router fiber.Router) {
	router.Post("", h.createSchoolYear)
	router.Get("", h.listSchoolYears)
	router.Get("/:id", h.getSchoolYear)
	router.Delete("/:id", h.deleteSchoolYear)
}

// RegisterTrimesters wires the trimester routes.
func (h *CalendarHandler) RegisterTrimesters(router fiber.Router) {
	router.Post("", h.createTrimester)
	router.Get("/:id", h.getTrimester)
	router.Delete("/:id", h.deleteTrimester)
}

// RegisterPeriods wires the period routes.
func (h *CalendarHandler) RegisterPeriods(router fiber.Router) {
	router.Post("", h.createPeriod)
	router.Delete("/:id", h.deletePeriod)
}

func (h *CalendarHandler) createSchoolYear(c *fiber.Ctx) error {
	var payload dto.SchoolYearCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	response, err := h.service.CreateSchoolYear(c.Context(), actorFromContext(c), payload)
	if err != nil {
		return sendServiceError(c, h.logger, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "school year created", response)
}

func (h *CalendarHandler) listSchoolYears(c *fiber.Ctx) error {
	response, err := h.service.ListSchoolYears(c.Context())
	if err != nil {
		return sendServiceError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "school years", response)
}

func (h *CalendarHandler) getSchoolYear(c *fiber.Ctx) error {
	id, err := parseParamID(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid school year id")
	}

	response, err := h.service.GetSchoolYear(c.Context(), id)
	if err != nil {
		return sendServiceError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "school year", response)
}

func (h *CalendarHandler) deleteSchoolYear(c *fiber.Ctx) error {
	id, err := parseParamID(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid school year id")
	}

	if err := h.service.DeleteSchoolYear(c.Context(), actorFromContext(c), id); err != nil {
		return sendServiceError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "school year deleted", nil)
}

func (h *CalendarHandler) createTrimester(c *fiber.Ctx) error {
	var payload dto.TrimesterCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	response, err := h.service.CreateTrimester(c.Context(), actorFromContext(c), payload)
	if err != nil {
		return sendServiceError(c, h.logger, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "trimester created", response)
}

func (h *CalendarHandler) getTrimester(c *fiber.Ctx) error {
	id, err := parseParamID(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid trimester id")
	}

	response, err := h.service.GetTrimester(c.Context(), id)
	if err != nil {
		return sendServiceError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "trimester", response)
}

func (h *CalendarHandler) deleteTrimester(c *fiber.Ctx) error {
	id, err := parseParamID(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid trimester id")
	}

	if err := h.service.DeleteTrimester(c.Context(), actorFromContext(c), id); err != nil {
		return sendServiceError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "trimester deleted", nil)
}

func (h *CalendarHandler) createPeriod(c *fiber.Ctx) error {
	var payload dto.PeriodCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	response, err := h.service.CreatePeriod(c.Context(), actorFromContext(c), payload)
	if err != nil {
		return sendServiceError(c, h.logger, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "period created", response)
}

func (h *CalendarHandler) deletePeriod(c *fiber.Ctx) error {
	id, err := parseParamID(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid period id")
	}

	if err := h.service.DeletePeriod(c.Context(), actorFromContext(c), id); err != nil {
		return sendServiceError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "period deleted", nil)
}
