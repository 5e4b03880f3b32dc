package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/scolaris/scolaris-go-api/internal/dto"
	"github.com/scolaris/scolaris-go-api/internal/service"
	"github.com/scolaris/scolaris-go-api/internal/utils"
)

// SubjectHandler serves the subject endpoints.
type SubjectHandler struct {
	service service.SubjectService
	logger  zerolog.Logger
}

// NewSubjectHandler constructs the handler instance.
func NewSubjectHandler(service service.SubjectService, logger zerolog.Logger) *SubjectHandler {
	return &SubjectHandler{
		service: service,
		logger:  logger.With().Str("component", "subject_handler").Logger(),
	}
}

// Register wires the subject routes.
func (h *SubjectHandler) Register(router fiber.Router) {
	router.Post("", h.create)
	router.Get("", h.list)
	router.Get("/:id", h.get)
	router.Patch("/:id", h.update)
	router.Delete("/:id", h.delete)
}

func (h *SubjectHandler) create(c *fiber.Ctx) error {
	var payload dto.SubjectCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	response, err := h.service.Create(c.Context(), actorFromContext(c), payload)
	if err != nil {
		return sendServiceError(c, h.logger, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "subject created", response)
}

func (h *SubjectHandler) list(c *fiber.Ctx) error {
	classID, err := parseQueryUint(c, "class_id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid class id")
	}

	response, err := h.service.List(c.Context(), classID)
	if err != nil {
		return sendServiceError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "subjects", response)
}

func (h *SubjectHandler) get(c *fiber.Ctx) error {
	id, err := parseParamID(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid subject id")
	}

	response, err := h.service.Get(c.Context(), id)
	if err != nil {
		return sendServiceError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "subject", response)
}

func (h *SubjectHandler) update(c *fiber.Ctx) error {
	id, err := parseParamID(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid subject id")
	}

	var payload dto.SubjectUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	response, err := h.service.Update(c.Context(), actorFromContext(c), id, payload)
	if err != nil {
		return sendServiceError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "subject updated", response)
}

func (h *SubjectHandler) delete(c *fiber.Ctx) error {
	id, err := parseParamID(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid subject id")
	}

	if err := h.service.Delete(c.Context(), actorFromContext(c), id); err != nil {
		return sendServiceError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "subject deleted", nil)
}
