package service

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/scolaris/scolaris-go-api/internal/access"
	"github.com/scolaris/scolaris-go-api/internal/dto"
	"github.com/scolaris/scolaris-go-api/internal/models"
	"github.com/scolaris/scolaris-go-api/internal/repository"
)

// ErrEmptyMessage signals a message whose body is empty after sanitization.
var ErrEmptyMessage = errors.New("message body empty after sanitization")

// ErrSelfMessage signals an attempt to message one's own account.
var ErrSelfMessage = errors.New("cannot send a message to yourself")

// MessageService handles direct messages between user accounts. Sending one
// always records exactly one notification for the receiver.
type MessageService interface {
	Send(ctx context.Context, actor Actor, payload dto.MessageSendRequest) (dto.MessageResponse, error)
	Conversation(ctx context.Context, actor Actor, otherID uint, limit, offset int) ([]dto.MessageResponse, error)
	Inbox(ctx context.Context, actor Actor, limit, offset int) ([]dto.MessageResponse, error)
	MarkRead(ctx context.Context, actor Actor, id uint) (dto.MessageResponse, error)
}

type messageService struct {
	messages      repository.MessageRepository
	users         repository.UserRepository
	notifications NotificationService
	validator     *validator.Validate
	sanitizer     *bluemonday.Policy
	logger        zerolog.Logger
	tracer        trace.Tracer
}

// NewMessageService constructs a message service.
func NewMessageService(
	messages repository.MessageRepository,
	users repository.UserRepository,
	notifications NotificationService,
	validate *validator.Validate,
	logger zerolog.Logger,
) MessageService {
	return &messageService{
		messages:      messages,
		users:         users,
		notifications: notifications,
		validator:     validate,
		sanitizer:     bluemonday.UGCPolicy(),
		logger:        logger.With().Str("component", "message_service").Logger(),
		tracer:        otel.Tracer("github.com/scolaris/scolaris-go-api/internal/service/message"),
	}
}

func (s *messageService) Send(ctx context.Context, actor Actor, payload dto.MessageSendRequest) (dto.MessageResponse, error) {
	if err := authorize(actor, access.OpSendMessage); err != nil {
		return dto.MessageResponse{}, err
	}
	if err := s.validator.Struct(payload); err != nil {
		return dto.MessageResponse{}, err
	}
	if payload.ReceiverID == actor.ID {
		return dto.MessageResponse{}, ErrSelfMessage
	}

	clean := strings.TrimSpace(s.sanitizer.Sanitize(payload.Body))
	if clean == "" {
		return dto.MessageResponse{}, ErrEmptyMessage
	}

	ctx, span := s.tracer.Start(ctx, "messages.send", trace.WithAttributes(
		attribute.Int64("sender_id", int64(actor.ID)),
		attribute.Int64("receiver_id", int64(payload.ReceiverID)),
	))
	defer span.End()

	if _, err := s.users.GetByID(ctx, payload.ReceiverID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.MessageResponse{}, ErrUserNotFound
		}
		return dto.MessageResponse{}, err
	}

	message := models.Message{
		SenderID:   actor.ID,
		ReceiverID: payload.ReceiverID,
		Body:       clean,
	}
	if err := s.messages.Create(ctx, &message); err != nil {
		span.RecordError(err)
		return dto.MessageResponse{}, err
	}

	if err := s.notifications.NotifyMessage(ctx, message); err != nil {
		s.logger.Warn().Err(err).Uint("message_id", message.ID).Msg("failed to record message notification")
	}

	return dto.NewMessageResponse(message), nil
}

func (s *messageService) Conversation(ctx context.Context, actor Actor, otherID uint, limit, offset int) ([]dto.MessageResponse, error) {
	messages, err := s.messages.ListConversation(ctx, actor.ID, otherID, limit, offset)
	if err != nil {
		return nil, err
	}
	return dto.NewMessageResponseSlice(messages), nil
}

func (s *messageService) Inbox(ctx context.Context, actor Actor, limit, offset int) ([]dto.MessageResponse, error) {
	messages, err := s.messages.ListForUser(ctx, actor.ID, limit, offset)
	if err != nil {
		return nil, err
	}
	return dto.NewMessageResponseSlice(messages), nil
}

func (s *messageService) MarkRead(ctx context.Context, actor Actor, id uint) (dto.MessageResponse, error) {
	message, err := s.messages.MarkRead(ctx, id, actor.ID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.MessageResponse{}, ErrRecordNotFound
	}
	if err != nil {
		return dto.MessageResponse{}, err
	}
	return dto.NewMessageResponse(message), nil
}
