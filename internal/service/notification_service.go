package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/scolaris/scolaris-go-api/internal/dto"
	"github.com/scolaris/scolaris-go-api/internal/models"
	"github.com/scolaris/scolaris-go-api/internal/observability"
	"github.com/scolaris/scolaris-go-api/internal/repository"
)

// NotificationService records notification state and fans domain events out
// to the guardians concerned. Delivery happens outside the system; events
// are additionally published to Redis and NATS for downstream consumers.
type NotificationService interface {
	NotifyAssignment(ctx context.Context, assignment models.Assignment) (int, error)
	NotifyMessage(ctx context.Context, message models.Message) error
	List(ctx context.Context, actor Actor, limit, offset int) ([]dto.NotificationResponse, error)
	MarkRead(ctx context.Context, actor Actor, id uint) (dto.NotificationResponse, error)
	MarkAllRead(ctx context.Context, actor Actor, payload dto.MarkAllReadRequest) (dto.MarkAllReadResponse, error)
}

type notificationService struct {
	repo         repository.NotificationRepository
	students     repository.StudentRepository
	redis        *redis.Client
	redisChannel string
	nats         *nats.Conn
	natsSubject  string
	logger       zerolog.Logger
	tracer       trace.Tracer
	nodeID       string
	now          func() time.Time
}

type notificationEvent struct {
	Source       string                   `json:"source"`
	Notification dto.NotificationResponse `json:"notification"`
	SentAt       time.Time                `json:"sent_at"`
}

// NewNotificationService constructs a notification service. redisClient and
// natsConn may be nil; event publication is then skipped.
func NewNotificationService(
	repo repository.NotificationRepository,
	students repository.StudentRepository,
	redisClient *redis.Client,
	channelBase string,
	natsConn *nats.Conn,
	logger zerolog.Logger,
) NotificationService {
	channel := ""
	subject := ""
	if channelBase != "" {
		channel = channelBase + ":notifications"
		subject = strings.ReplaceAll(channelBase, ":", ".") + ".notifications"
	}

	return &notificationService{
		repo:         repo,
		students:     students,
		redis:        redisClient,
		redisChannel: channel,
		nats:         natsConn,
		natsSubject:  subject,
		logger:       logger.With().Str("component", "notification_service").Logger(),
		tracer:       otel.Tracer("github.com/scolaris/scolaris-go-api/internal/service/notification"),
		nodeID:       uuid.NewString(),
		now:          time.Now,
	}
}

// NotifyAssignment creates one notification per guardian of every student in
// the assignment's (class, subdivision). A guardian with several children in
// the subdivision receives one notification per child.
func (s *notificationService) NotifyAssignment(ctx context.Context, assignment models.Assignment) (int, error) {
	ctx, span := s.tracer.Start(ctx, "notifications.assignment_fanout", trace.WithAttributes(
		attribute.Int64("assignment_id", int64(assignment.ID)),
		attribute.Int64("class_id", int64(assignment.ClassID)),
		attribute.String("subdivision", assignment.Subdivision),
	))
	defer span.End()

	students, err := s.students.ListByClassSubdivision(ctx, assignment.ClassID, assignment.Subdivision)
	if err != nil {
		span.RecordError(err)
		return 0, err
	}

	created := 0
	for _, student := range students {
		for _, guardian := range student.Guardians {
			notification := models.Notification{
				UserID:      guardian.ID,
				Kind:        models.NotificationAssignment,
				ReferenceID: assignment.ID,
				SentAt:      s.now().UTC(),
			}
			if err := s.repo.Create(ctx, &notification); err != nil {
				span.RecordError(err)
				return created, err
			}
			created++
			s.publish(ctx, dto.NewNotificationResponse(notification))
		}
	}

	observability.NotificationsPublishedTotal().
		WithLabelValues(string(models.NotificationAssignment)).
		Add(float64(created))
	s.logger.Info().
		Uint("assignment_id", assignment.ID).
		Int("notifications", created).
		Msg("assignment fan-out complete")

	return created, nil
}

// NotifyMessage records exactly one notification for the message receiver.
func (s *notificationService) NotifyMessage(ctx context.Context, message models.Message) error {
	ctx, span := s.tracer.Start(ctx, "notifications.message", trace.WithAttributes(
		attribute.Int64("message_id", int64(message.ID)),
		attribute.Int64("receiver_id", int64(message.ReceiverID)),
	))
	defer span.End()

	notification := models.Notification{
		UserID:      message.ReceiverID,
		Kind:        models.NotificationMessage,
		ReferenceID: message.ID,
		SentAt:      s.now().UTC(),
	}
	if err := s.repo.Create(ctx, &notification); err != nil {
		span.RecordError(err)
		return err
	}

	s.publish(ctx, dto.NewNotificationResponse(notification))
	observability.NotificationsPublishedTotal().
		WithLabelValues(string(models.NotificationMessage)).
		Inc()

	return nil
}

func (s *notificationService) List(ctx context.Context, actor Actor, limit, offset int) ([]dto.NotificationResponse, error) {
	notifications, err := s.repo.ListByUser(ctx, actor.ID, limit, offset)
	if err != nil {
		return nil, err
	}
	return dto.NewNotificationResponseSlice(notifications), nil
}

func (s *notificationService) MarkRead(ctx context.Context, actor Actor, id uint) (dto.NotificationResponse, error) {
	notification, err := s.repo.MarkRead(ctx, id, actor.ID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.NotificationResponse{}, ErrRecordNotFound
	}
	if err != nil {
		return dto.NotificationResponse{}, err
	}
	return dto.NewNotificationResponse(notification), nil
}

func (s *notificationService) MarkAllRead(ctx context.Context, actor Actor, payload dto.MarkAllReadRequest) (dto.MarkAllReadResponse, error) {
	marked, err := s.repo.MarkAllRead(ctx, actor.ID, models.NotificationKind(payload.Kind))
	if err != nil {
		return dto.MarkAllReadResponse{}, err
	}
	return dto.MarkAllReadResponse{Marked: marked}, nil
}

// publish emits the notification to the configured brokers. Failures are
// logged and swallowed: the persisted record is the source of truth.
func (s *notificationService) publish(ctx context.Context, notification dto.NotificationResponse) {
	if s.redis == nil && s.nats == nil {
		return
	}

	event := notificationEvent{
		Source:       s.nodeID,
		Notification: notification,
		SentAt:       s.now().UTC(),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		s.logger.Warn().Err(err).Msg("failed to encode notification event")
		return
	}

	if s.redis != nil && s.redisChannel != "" {
		if err := s.redis.Publish(ctx, s.redisChannel, payload).Err(); err != nil {
			s.logger.Warn().Err(err).Msg("failed to publish notification to redis")
		}
	}
	if s.nats != nil && s.natsSubject != "" {
		if err := s.nats.Publish(s.natsSubject, payload); err != nil {
			s.logger.Warn().Err(err).Msg("failed to publish notification to nats")
		}
	}
}
