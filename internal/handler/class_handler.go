package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/scolaris/scolaris-go-api/internal/dto"
	"github.com/scolaris/scolaris-go-api/internal/service"
	"github.com/scolaris/scolaris-go-api/internal/utils"
)

// ClassHandler serves the class and subdivision structure endpoints.
type ClassHandler struct {
	service service.ClassService
	logger  zerolog.Logger
}

// NewClassHandler constructs the handler instance.
func NewClassHandler(service service.ClassService, logger zerolog.Logger) *ClassHandler {
	return &ClassHandler{
		service: service,
		logger:  logger.With().Str("component", "class_handler").Logger(),
	}
}

// Register wires the class routes.
func (h *ClassHandler) Register(router fiber.Router) {
	router.Post("", h.create)
	router.Get("", h.list)
	router.Get("/:id", h.get)
	router.Patch("/:id", h.update)
	router.Delete("/:id", h.delete)
}

func (h *ClassHandler) create(c *fiber.Ctx) error {
	var payload dto.ClassCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	response, err := h.service.Create(c.Context(), actorFromContext(c), payload)
	if err != nil {
		return sendServiceError(c, h.logger, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "class created", response)
}

func (h *ClassHandler) list(c *fiber.Ctx) error {
	response, err := h.service.List(c.Context())
	if err != nil {
		return sendServiceError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "classes", response)
}

func (h *ClassHandler) get(c *fiber.Ctx) error {
	id, err := parseParamID(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid class id")
	}

	response, err := h.service.Get(c.Context(), id)
	if err != nil {
		return sendServiceError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "class", response)
}

func (h *ClassHandler) update(c *fiber.Ctx) error {
	id, err := parseParamID(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid class id")
	}

	var payload dto.ClassUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	response, err := h.service.Update(c.Context(), actorFromContext(c), id, payload)
	if err != nil {
		return sendServiceError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "class updated", response)
}

func (h *ClassHandler) delete(c *fiber.Ctx) error {
	id, err := parseParamID(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid class id")
	}

	if err := h.service.Delete(c.Context(), actorFromContext(c), id); err != nil {
		return sendServiceError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "class deleted", nil)
}
