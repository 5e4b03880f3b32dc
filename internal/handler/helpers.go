package handler

import (
	"errors"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/scolaris/scolaris-go-api/internal/middleware"
	"github.com/scolaris/scolaris-go-api/internal/service"
	"github.com/scolaris/scolaris-go-api/internal/utils"
)

func parseQueryInt(c *fiber.Ctx, key string) (int, error) {
	value := strings.TrimSpace(c.Query(key))
	if value == "" {
		return 0, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}
	return parsed, nil
}

func parseQueryUint(c *fiber.Ctx, key string) (uint, error) {
	value := strings.TrimSpace(c.Query(key))
	if value == "" {
		return 0, nil
	}
	parsed, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return 0, err
	}
	return uint(parsed), nil
}

func parseParamID(c *fiber.Ctx, key string) (uint, error) {
	parsed, err := strconv.ParseUint(strings.TrimSpace(c.Params(key)), 10, 64)
	if err != nil || parsed == 0 {
		return 0, errors.New("invalid identifier")
	}
	return uint(parsed), nil
}

func pagination(c *fiber.Ctx) (limit, offset int, err error) {
	limit, err = parseQueryInt(c, "limit")
	if err != nil {
		return 0, 0, errors.New("invalid limit")
	}
	offset, err = parseQueryInt(c, "offset")
	if err != nil || offset < 0 {
		return 0, 0, errors.New("invalid offset")
	}
	if limit <= 0 {
		limit = 50
	} else if limit > 200 {
		limit = 200
	}
	return limit, offset, nil
}

// actorFromContext returns the authenticated actor bound by the auth
// middleware. The zero actor fails every permission gate downstream.
func actorFromContext(c *fiber.Ctx) service.Actor {
	if v := c.Locals(middleware.ActorKey); v != nil {
		if actor, ok := v.(service.Actor); ok {
			return actor
		}
	}
	return service.Actor{}
}

func tokenIDFromContext(c *fiber.Ctx) string {
	if v := c.Locals(middleware.TokenIDKey); v != nil {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}

func requestLogger(base zerolog.Logger, c *fiber.Ctx) *zerolog.Logger {
	logger := base
	if c != nil {
		if correlation := middleware.GetCorrelationID(c); correlation != "" {
			logger = base.With().Str("correlation_id", correlation).Logger()
		}
	}
	return &logger
}

func isValidationError(err error) bool {
	var validationErrors validator.ValidationErrors
	return errors.As(err, &validationErrors)
}

// sendServiceError maps service sentinel errors onto HTTP statuses. Errors
// without a mapping are logged and reported as 500 without leaking detail.
func sendServiceError(c *fiber.Ctx, logger zerolog.Logger, err error) error {
	if isValidationError(err) {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	switch {
	case errors.Is(err, service.ErrPermissionDenied):
		return utils.SendError(c, fiber.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrInvalidToken):
		return utils.SendError(c, fiber.StatusUnauthorized, err.Error())
	case errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrStudentNotFound),
		errors.Is(err, service.ErrClassNotFound),
		errors.Is(err, service.ErrSubjectNotFound),
		errors.Is(err, service.ErrSchoolYearNotFound),
		errors.Is(err, service.ErrTrimesterNotFound),
		errors.Is(err, service.ErrPeriodNotFound),
		errors.Is(err, service.ErrRecordNotFound):
		return utils.SendError(c, fiber.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrEmailTaken),
		errors.Is(err, service.ErrMatriculeTaken):
		return utils.SendError(c, fiber.StatusConflict, err.Error())
	case errors.Is(err, service.ErrAttachmentTooLarge):
		return utils.SendError(c, fiber.StatusRequestEntityTooLarge, err.Error())
	case errors.Is(err, service.ErrAttachmentType):
		return utils.SendError(c, fiber.StatusUnsupportedMediaType, err.Error())
	case errors.Is(err, service.ErrSeedDisabled):
		return utils.SendError(c, fiber.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrWrongPassword),
		errors.Is(err, service.ErrEmptyMessage),
		errors.Is(err, service.ErrSelfMessage),
		errors.Is(err, service.ErrInvertedRange),
		errors.Is(err, service.ErrRangeOutsideParent),
		errors.Is(err, service.ErrUnknownSubdivision),
		errors.Is(err, service.ErrNoSubdivisions),
		errors.Is(err, service.ErrNotAParent):
		return utils.SendError(c, fiber.StatusUnprocessableEntity, err.Error())
	}

	requestLogger(logger, c).Error().Err(err).Msg("request failed")
	return utils.SendError(c, fiber.StatusInternalServerError, "internal error")
}
