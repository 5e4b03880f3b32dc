package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/scolaris/scolaris-go-api/internal/dto"
	"github.com/scolaris/scolaris-go-api/internal/service"
	"github.com/scolaris/scolaris-go-api/internal/utils"
)

// AuthHandler serves account registration, login and self-service profile
// endpoints.
type AuthHandler struct {
	service service.AuthService
	logger  zerolog.Logger
}

// NewAuthHandler constructs the handler instance.
func NewAuthHandler(service service.AuthService, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		service: service,
		logger:  logger.With().Str("component", "auth_handler").Logger(),
	}
}

// RegisterPublic wires the routes that do not require a credential.
func (h *AuthHandler) RegisterPublic(router fiber.Router) {
	router.Post("/register", h.register)
	router.Post("/login", h.login)
}

// RegisterProtected wires the routes that run behind the auth middleware.
func (h *AuthHandler) RegisterProtected(router fiber.Router) {
	router.Post("/logout", h.logout)
	router.Get("/profile", h.profile)
	router.Patch("/profile", h.updateProfile)
	router.Post("/change-password", h.changePassword)
	router.Get("/token-info", h.tokenInfo)
	router.Post("/refresh-token", h.refreshToken)
}

func (h *AuthHandler) register(c *fiber.Ctx) error {
	var payload dto.RegisterRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	response, err := h.service.Register(c.Context(), payload)
	if err != nil {
		return sendServiceError(c, h.logger, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "account registered", response)
}

func (h *AuthHandler) login(c *fiber.Ctx) error {
	var payload dto.LoginRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	response, err := h.service.Login(c.Context(), payload)
	if err != nil {
		return sendServiceError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "logged in", response)
}

func (h *AuthHandler) logout(c *fiber.Ctx) error {
	if err := h.service.Logout(c.Context(), tokenIDFromContext(c)); err != nil {
		return sendServiceError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "logged out", nil)
}

func (h *AuthHandler) profile(c *fiber.Ctx) error {
	response, err := h.service.Profile(c.Context(), actorFromContext(c))
	if err != nil {
		return sendServiceError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "profile", response)
}

func (h *AuthHandler) updateProfile(c *fiber.Ctx) error {
	var payload dto.ProfileUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	response, err := h.service.UpdateProfile(c.Context(), actorFromContext(c), payload)
	if err != nil {
		return sendServiceError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "profile updated", response)
}

func (h *AuthHandler) changePassword(c *fiber.Ctx) error {
	var payload dto.ChangePasswordRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	if err := h.service.ChangePassword(c.Context(), actorFromContext(c), payload); err != nil {
		return sendServiceError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "password changed", nil)
}

func (h *AuthHandler) tokenInfo(c *fiber.Ctx) error {
	response, err := h.service.TokenInfo(c.Context(), tokenIDFromContext(c))
	if err != nil {
		return sendServiceError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "token info", response)
}

func (h *AuthHandler) refreshToken(c *fiber.Ctx) error {
	response, err := h.service.RefreshToken(c.Context(), actorFromContext(c), tokenIDFromContext(c))
	if err != nil {
		return sendServiceError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "token refreshed", response)
}
