package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/scolaris/scolaris-go-api/internal/service"
	"github.com/scolaris/scolaris-go-api/internal/utils"
)

// SeedHandler exposes the development-only demo data endpoint.
type SeedHandler struct {
	service service.SeedService
	logger  zerolog.Logger
}

// NewSeedHandler constructs the handler instance.
func NewSeedHandler(service service.SeedService, logger zerolog.Logger) *SeedHandler {
	return &SeedHandler{
		service: service,
		logger:  logger.With().Str("component", "seed_handler").Logger(),
	}
}

// Register wires the seed routes.
func (h *SeedHandler) Register(router fiber.Router) {
	router.Post("/demo", h.demo)
}

func (h *SeedHandler) demo(c *fiber.Ctx) error {
	summary, err := h.service.SeedDemo(c.Context(), actorFromContext(c))
	if err != nil {
		return sendServiceError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "demo data seeded", summary)
}
