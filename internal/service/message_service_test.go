package service

import (
	"context"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/scolaris/scolaris-go-api/internal/dto"
	"github.com/scolaris/scolaris-go-api/internal/models"
)

type stubMessageRepo struct {
	messages []models.Message
}

func (r *stubMessageRepo) Create(ctx context.Context, message *models.Message) error {
	message.ID = uint(len(r.messages) + 1)
	r.messages = append(r.messages, *message)
	return nil
}

func (r *stubMessageRepo) GetByID(ctx context.Context, id uint) (models.Message, error) {
	for _, message := range r.messages {
		if message.ID == id {
			return message, nil
		}
	}
	return models.Message{}, gorm.ErrRecordNotFound
}

func (r *stubMessageRepo) ListConversation(ctx context.Context, userA, userB uint, limit, offset int) ([]models.Message, error) {
	var out []models.Message
	for _, message := range r.messages {
		if (message.SenderID == userA && message.ReceiverID == userB) ||
			(message.SenderID == userB && message.ReceiverID == userA) {
			out = append(out, message)
		}
	}
	return out, nil
}

func (r *stubMessageRepo) ListForUser(ctx context.Context, userID uint, limit, offset int) ([]models.Message, error) {
	var out []models.Message
	for _, message := range r.messages {
		if message.SenderID == userID || message.ReceiverID == userID {
			out = append(out, message)
		}
	}
	return out, nil
}

func (r *stubMessageRepo) MarkRead(ctx context.Context, id, receiverID uint) (models.Message, error) {
	for i := range r.messages {
		if r.messages[i].ID == id && r.messages[i].ReceiverID == receiverID {
			r.messages[i].Read = true
			return r.messages[i], nil
		}
	}
	return models.Message{}, gorm.ErrRecordNotFound
}

func newMessageFixture(t *testing.T) (MessageService, *stubMessageRepo, *stubNotificationRepo) {
	t.Helper()

	messages := &stubMessageRepo{}
	notifications := &stubNotificationRepo{}
	users := &stubUserRepo{users: []models.User{
		{ID: 1, Role: models.RoleTeacher, Email: "teacher@example.com"},
		{ID: 2, Role: models.RoleParent, Email: "parent@example.com"},
	}, nextID: 2}

	notifySvc := NewNotificationService(notifications, &stubStudentRepo{}, nil, "", nil, testLogger())
	validate := validator.New(validator.WithRequiredStructEnabled())
	svc := NewMessageService(messages, users, notifySvc, validate, testLogger())
	return svc, messages, notifications
}

func TestSendMessageNotifiesReceiver(t *testing.T) {
	svc, messages, notifications := newMessageFixture(t)
	actor := Actor{ID: 1, Role: models.RoleTeacher}

	sent, err := svc.Send(context.Background(), actor, dto.MessageSendRequest{ReceiverID: 2, Body: "Bonjour"})
	require.NoError(t, err)
	require.Equal(t, uint(1), sent.SenderID)
	require.Equal(t, "Bonjour", sent.Body)
	require.Len(t, messages.messages, 1)

	require.Len(t, notifications.notifications, 1)
	require.Equal(t, uint(2), notifications.notifications[0].UserID)
	require.Equal(t, models.NotificationMessage, notifications.notifications[0].Kind)
	require.Equal(t, sent.ID, notifications.notifications[0].ReferenceID)
}

func TestSendMessageSanitizesBody(t *testing.T) {
	svc, _, _ := newMessageFixture(t)
	actor := Actor{ID: 1, Role: models.RoleTeacher}

	sent, err := svc.Send(context.Background(), actor, dto.MessageSendRequest{
		ReceiverID: 2, Body: "<script>alert('x')</script><b>Hello</b>",
	})
	require.NoError(t, err)
	require.Equal(t, "<b>Hello</b>", sent.Body)

	_, err = svc.Send(context.Background(), actor, dto.MessageSendRequest{
		ReceiverID: 2, Body: "<script>only script</script>",
	})
	require.ErrorIs(t, err, ErrEmptyMessage)
}

func TestSendMessageRejectsSelfAndUnknownReceiver(t *testing.T) {
	svc, _, _ := newMessageFixture(t)
	actor := Actor{ID: 1, Role: models.RoleTeacher}

	_, err := svc.Send(context.Background(), actor, dto.MessageSendRequest{ReceiverID: 1, Body: "hi"})
	require.ErrorIs(t, err, ErrSelfMessage)

	_, err = svc.Send(context.Background(), actor, dto.MessageSendRequest{ReceiverID: 99, Body: "hi"})
	require.ErrorIs(t, err, ErrUserNotFound)
}

func TestMessageMarkReadScopedToReceiver(t *testing.T) {
	svc, _, _ := newMessageFixture(t)
	sender := Actor{ID: 1, Role: models.RoleTeacher}

	sent, err := svc.Send(context.Background(), sender, dto.MessageSendRequest{ReceiverID: 2, Body: "Bonjour"})
	require.NoError(t, err)

	_, err = svc.MarkRead(context.Background(), sender, sent.ID)
	require.ErrorIs(t, err, ErrRecordNotFound)

	receiver := Actor{ID: 2, Role: models.RoleParent}
	read, err := svc.MarkRead(context.Background(), receiver, sent.ID)
	require.NoError(t, err)
	require.True(t, read.Read)
}
