package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/scolaris/scolaris-go-api/internal/dto"
	"github.com/scolaris/scolaris-go-api/internal/service"
	"github.com/scolaris/scolaris-go-api/internal/utils"
)

// MessageHandler serves direct messaging between accounts.
type MessageHandler struct {
	service service.MessageService
	logger  zerolog.Logger
}

// NewMessageHandler constructs the handler instance.
func NewMessageHandler(service service.MessageService, logger zerolog.Logger) *MessageHandler {
	return &MessageHandler{
		service: service,
		logger:  logger.With().Str("component", "message_handler").Logger(),
	}
}

// Register wires the message routes.
func (h *MessageHandler) Register(router fiber.Router) {
	router.Post("", h.send)
	router.Get("/inbox", h.inbox)
	router.Get("/conversations/:userId", h.conversation)
	router.Patch("/:id/read", h.markRead)
}

func (h *MessageHandler) send(c *fiber.Ctx) error {
	var payload dto.MessageSendRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	response, err := h.service.Send(c.Context(), actorFromContext(c), payload)
	if err != nil {
		return sendServiceError(c, h.logger, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "message sent", response)
}

func (h *MessageHandler) inbox(c *fiber.Ctx) error {
	limit, offset, err := pagination(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	response, err := h.service.Inbox(c.Context(), actorFromContext(c), limit, offset)
	if err != nil {
		return sendServiceError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "inbox", response)
}

func (h *MessageHandler) conversation(c *fiber.Ctx) error {
	otherID, err := parseParamID(c, "userId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid user id")
	}

	limit, offset, err := pagination(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	response, err := h.service.Conversation(c.Context(), actorFromContext(c), otherID, limit, offset)
	if err != nil {
		return sendServiceError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "conversation", response)
}

func (h *MessageHandler) markRead(c *fiber.Ctx) error {
	id, err := parseParamID(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid message id")
	}

	response, err := h.service.MarkRead(c.Context(), actorFromContext(c), id)
	if err != nil {
		return sendServiceError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "message marked read", response)
}
