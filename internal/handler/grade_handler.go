package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/scolaris/scolaris-go-api/internal/dto"
	"github.com/scolaris/scolaris-go-api/internal/service"
	"github.com/scolaris/scolaris-go-api/internal/utils"
)

// GradeHandler serves the derived grade endpoints: bulk recomputes and
// stored trimester/annual grade reads.
type GradeHandler struct {
	service service.GradeService
	logger  zerolog.Logger
}

// NewGradeHandler constructs the handler instance.
func NewGradeHandler(service service.GradeService, logger zerolog.Logger) *GradeHandler {
	return &GradeHandler{
		service: service,
		logger:  logger.With().Str("component", "grade_handler").Logger(),
	}
}

// Register wires the grade routes.
func (h *GradeHandler) Register(router fiber.Router) {
	router.Post("/trimester/compute", h.computeTrimester)
	router.Post("/annual/compute", h.computeAnnual)
	router.Get("/trimester", h.listTrimester)
	router.Get("/annual", h.listAnnual)
}

func (h *GradeHandler) computeTrimester(c *fiber.Ctx) error {
	var payload dto.RecomputeTrimesterRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	response, err := h.service.RecomputeTrimester(c.Context(), actorFromContext(c), payload)
	if err != nil {
		return sendServiceError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "trimester grades computed", response)
}

func (h *GradeHandler) computeAnnual(c *fiber.Ctx) error {
	var payload dto.RecomputeAnnualRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	response, err := h.service.RecomputeAnnual(c.Context(), actorFromContext(c), payload)
	if err != nil {
		return sendServiceError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "annual grades computed", response)
}

func (h *GradeHandler) listTrimester(c *fiber.Ctx) error {
	studentID, err := parseQueryUint(c, "student_id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid student id")
	}
	trimesterID, err := parseQueryUint(c, "trimester_id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid trimester id")
	}

	response, err := h.service.ListTrimesterGrades(c.Context(), studentID, trimesterID)
	if err != nil {
		return sendServiceError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "trimester grades", response)
}

func (h *GradeHandler) listAnnual(c *fiber.Ctx) error {
	studentID, err := parseQueryUint(c, "student_id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid student id")
	}
	schoolYearID, err := parseQueryUint(c, "school_year_id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid school year id")
	}

	response, err := h.service.ListAnnualGrades(c.Context(), studentID, schoolYearID)
	if err != nil {
		return sendServiceError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "annual grades", response)
}
