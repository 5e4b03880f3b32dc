package handler

import (
	"mime/multipart"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/scolaris/scolaris-go-api/internal/dto"
	"github.com/scolaris/scolaris-go-api/internal/service"
	"github.com/scolaris/scolaris-go-api/internal/utils"
)

// AssignmentHandler serves the homework endpoints. Creation accepts
// multipart form data so an attachment can ride along with the payload.
type AssignmentHandler struct {
	service service.AssignmentService
	logger  zerolog.Logger
}

// NewAssignmentHandler constructs the handler instance.
func NewAssignmentHandler(service service.AssignmentService, logger zerolog.Logger) *AssignmentHandler {
	return &AssignmentHandler{
		service: service,
		logger:  logger.With().Str("component", "assignment_handler").Logger(),
	}
}

// Register wires the assignment routes.
func (h *AssignmentHandler) Register(router fiber.Router) {
	router.Post("", h.create)
	router.Get("", h.list)
	router.Get("/:id", h.get)
	router.Patch("/:id", h.update)
	router.Delete("/:id", h.delete)
}

func (h *AssignmentHandler) create(c *fiber.Ctx) error {
	var payload dto.AssignmentCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	var file *multipart.FileHeader
	if uploaded, err := c.FormFile("file"); err == nil {
		file = uploaded
	}

	response, err := h.service.Create(c.Context(), actorFromContext(c), payload, file)
	if err != nil {
		return sendServiceError(c, h.logger, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "assignment created", response)
}

func (h *AssignmentHandler) list(c *fiber.Ctx) error {
	classID, err := parseQueryUint(c, "class_id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid class id")
	}

	response, err := h.service.List(c.Context(), classID, c.Query("subdivision"))
	if err != nil {
		return sendServiceError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "assignments", response)
}

func (h *AssignmentHandler) get(c *fiber.Ctx) error {
	id, err := parseParamID(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid assignment id")
	}

	response, err := h.service.Get(c.Context(), id)
	if err != nil {
		return sendServiceError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "assignment", response)
}

func (h *AssignmentHandler) update(c *fiber.Ctx) error {
	id, err := parseParamID(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid assignment id")
	}

	var payload dto.AssignmentUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	response, err := h.service.Update(c.Context(), actorFromContext(c), id, payload)
	if err != nil {
		return sendServiceError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "assignment updated", response)
}

func (h *AssignmentHandler) delete(c *fiber.Ctx) error {
	id, err := parseParamID(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid assignment id")
	}

	if err := h.service.Delete(c.Context(), actorFromContext(c), id); err != nil {
		return sendServiceError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "assignment deleted", nil)
}
