package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/scolaris/scolaris-go-api/internal/dto"
	"github.com/scolaris/scolaris-go-api/internal/service"
	"github.com/scolaris/scolaris-go-api/internal/utils"
)

// PromotionHandler serves the end-of-year promotion endpoints.
type PromotionHandler struct {
	service service.PromotionService
	logger  zerolog.Logger
}

// NewPromotionHandler constructs the handler instance.
func NewPromotionHandler(service service.PromotionService, logger zerolog.Logger) *PromotionHandler {
	return &PromotionHandler{
		service: service,
		logger:  logger.With().Str("component", "promotion_handler").Logger(),
	}
}

// Register wires the promotion routes.
func (h *PromotionHandler) Register(router fiber.Router) {
	router.Post("/run", h.run)
	router.Post("/commit", h.commit)
	router.Post("/subdivisions", h.assignSubdivisions)
	router.Get("/students/:id/evaluation", h.evaluate)
	router.Post("/students/:id", h.promoteStudent)
}

func (h *PromotionHandler) run(c *fiber.Ctx) error {
	var payload dto.RunPromotionRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	response, err := h.service.PromoteCohort(c.Context(), actorFromContext(c), payload)
	if err != nil {
		return sendServiceError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "promotion run completed", response)
}

func (h *PromotionHandler) commit(c *fiber.Ctx) error {
	var payload dto.CommitPromotionRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	response, err := h.service.CommitPromotion(c.Context(), actorFromContext(c), payload)
	if err != nil {
		return sendServiceError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "promotion committed", response)
}

func (h *PromotionHandler) assignSubdivisions(c *fiber.Ctx) error {
	var payload dto.AssignSubdivisionsRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	response, err := h.service.AssignSubdivisions(c.Context(), actorFromContext(c), payload)
	if err != nil {
		return sendServiceError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "subdivisions assigned", response)
}

func (h *PromotionHandler) evaluate(c *fiber.Ctx) error {
	studentID, err := parseParamID(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid student id")
	}
	schoolYearID, err := parseQueryUint(c, "school_year_id")
	if err != nil || schoolYearID == 0 {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid school year id")
	}

	response, err := h.service.Evaluate(c.Context(), studentID, schoolYearID)
	if err != nil {
		return sendServiceError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "promotion evaluation", response)
}

func (h *PromotionHandler) promoteStudent(c *fiber.Ctx) error {
	studentID, err := parseParamID(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid student id")
	}

	var payload dto.PromoteStudentRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	response, err := h.service.Promote(c.Context(), actorFromContext(c), studentID, payload)
	if err != nil {
		return sendServiceError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "promotion recorded", response)
}
