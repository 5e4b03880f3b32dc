package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/scolaris/scolaris-go-api/internal/dto"
	"github.com/scolaris/scolaris-go-api/internal/service"
	"github.com/scolaris/scolaris-go-api/internal/utils"
)

// ScoreHandler serves the raw score entry endpoints. Scores feed the grade
// engine but recording one never triggers a recompute.
type ScoreHandler struct {
	service service.ScoreService
	logger  zerolog.Logger
}

// NewScoreHandler constructs the handler instance.
func NewScoreHandler(service service.ScoreService, logger zerolog.Logger) *ScoreHandler {
	return &ScoreHandler{
		service: service,
		logger:  logger.With().Str("component", "score_handler").Logger(),
	}
}

// Register wires the score routes.
func (h *ScoreHandler) Register(router fiber.Router) {
	router.Post("/coursework", h.recordCoursework)
	router.Get("/coursework", h.listCoursework)
	router.Delete("/coursework/:id", h.deleteCoursework)
	router.Post("/exams", h.recordExam)
	router.Delete("/exams/:id", h.deleteExam)
}

func (h *ScoreHandler) recordCoursework(c *fiber.Ctx) error {
	var payload dto.CourseworkScoreRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	score, err := h.service.RecordCoursework(c.Context(), actorFromContext(c), payload)
	if err != nil {
		return sendServiceError(c, h.logger, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "coursework score recorded", score)
}

func (h *ScoreHandler) listCoursework(c *fiber.Ctx) error {
	studentID, err := parseQueryUint(c, "student_id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid student id")
	}
	subjectID, err := parseQueryUint(c, "subject_id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid subject id")
	}
	periodID, err := parseQueryUint(c, "period_id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid period id")
	}

	scores, err := h.service.ListCoursework(c.Context(), studentID, subjectID, periodID)
	if err != nil {
		return sendServiceError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "coursework scores", scores)
}

func (h *ScoreHandler) deleteCoursework(c *fiber.Ctx) error {
	id, err := parseParamID(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid score id")
	}

	if err := h.service.DeleteCoursework(c.Context(), actorFromContext(c), id); err != nil {
		return sendServiceError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "coursework score deleted", nil)
}

func (h *ScoreHandler) recordExam(c *fiber.Ctx) error {
	var payload dto.ExamScoreRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	score, err := h.service.RecordExam(c.Context(), actorFromContext(c), payload)
	if err != nil {
		return sendServiceError(c, h.logger, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "exam score recorded", score)
}

func (h *ScoreHandler) deleteExam(c *fiber.Ctx) error {
	id, err := parseParamID(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid score id")
	}

	if err := h.service.DeleteExam(c.Context(), actorFromContext(c), id); err != nil {
		return sendServiceError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "exam score deleted", nil)
}
