package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/scolaris/scolaris-go-api/internal/dto"
	"github.com/scolaris/scolaris-go-api/internal/models"
)

func TestNotifyAssignmentFansOutPerGuardian(t *testing.T) {
	repo := &stubNotificationRepo{}
	classID := uint(1)
	students := &stubStudentRepo{students: []models.Student{
		{ID: 1, ClassID: &classID, Subdivision: "A", Guardians: []models.User{{ID: 10}, {ID: 11}}},
		{ID: 2, ClassID: &classID, Subdivision: "A", Guardians: []models.User{{ID: 12}, {ID: 13}}},
		{ID: 3, ClassID: &classID, Subdivision: "B", Guardians: []models.User{{ID: 14}}},
	}}

	svc := NewNotificationService(repo, students, nil, "", nil, testLogger())

	created, err := svc.NotifyAssignment(context.Background(), models.Assignment{
		ID: 5, ClassID: classID, Subdivision: "A",
	})
	require.NoError(t, err)
	require.Equal(t, 4, created)
	require.Len(t, repo.notifications, 4)
	for _, notification := range repo.notifications {
		require.Equal(t, models.NotificationAssignment, notification.Kind)
		require.Equal(t, uint(5), notification.ReferenceID)
		require.False(t, notification.Read)
		require.False(t, notification.SentAt.IsZero())
	}
}

// A guardian with two children in the subdivision receives one
// notification per child; the fan-out never deduplicates.
func TestNotifyAssignmentSharedGuardianNotDeduplicated(t *testing.T) {
	repo := &stubNotificationRepo{}
	classID := uint(1)
	shared := models.User{ID: 10}
	students := &stubStudentRepo{students: []models.Student{
		{ID: 1, ClassID: &classID, Subdivision: "A", Guardians: []models.User{shared}},
		{ID: 2, ClassID: &classID, Subdivision: "A", Guardians: []models.User{shared, {ID: 11}}},
	}}

	svc := NewNotificationService(repo, students, nil, "", nil, testLogger())

	created, err := svc.NotifyAssignment(context.Background(), models.Assignment{ID: 7, ClassID: classID, Subdivision: "A"})
	require.NoError(t, err)
	require.Equal(t, 3, created)

	sharedCount := 0
	for _, notification := range repo.notifications {
		if notification.UserID == shared.ID {
			sharedCount++
		}
	}
	require.Equal(t, 2, sharedCount)
}

func TestNotifyMessageCreatesSingleNotification(t *testing.T) {
	repo := &stubNotificationRepo{}
	svc := NewNotificationService(repo, &stubStudentRepo{}, nil, "", nil, testLogger())

	err := svc.NotifyMessage(context.Background(), models.Message{ID: 3, SenderID: 1, ReceiverID: 2})
	require.NoError(t, err)
	require.Len(t, repo.notifications, 1)
	require.Equal(t, uint(2), repo.notifications[0].UserID)
	require.Equal(t, models.NotificationMessage, repo.notifications[0].Kind)
	require.Equal(t, uint(3), repo.notifications[0].ReferenceID)
}

func TestMarkAllReadFiltersByKind(t *testing.T) {
	repo := &stubNotificationRepo{notifications: []models.Notification{
		{ID: 1, UserID: 2, Kind: models.NotificationMessage},
		{ID: 2, UserID: 2, Kind: models.NotificationAssignment},
		{ID: 3, UserID: 2, Kind: models.NotificationAssignment, Read: true},
		{ID: 4, UserID: 9, Kind: models.NotificationAssignment},
	}}
	svc := NewNotificationService(repo, &stubStudentRepo{}, nil, "", nil, testLogger())

	actor := Actor{ID: 2, Role: models.RoleParent}
	response, err := svc.MarkAllRead(context.Background(), actor, dto.MarkAllReadRequest{Kind: "assignment"})
	require.NoError(t, err)
	require.Equal(t, int64(1), response.Marked)
}

func TestMarkReadScopedToRecipient(t *testing.T) {
	repo := &stubNotificationRepo{notifications: []models.Notification{
		{ID: 1, UserID: 2, Kind: models.NotificationMessage},
	}}
	svc := NewNotificationService(repo, &stubStudentRepo{}, nil, "", nil, testLogger())

	_, err := svc.MarkRead(context.Background(), Actor{ID: 9, Role: models.RoleParent}, 1)
	require.ErrorIs(t, err, ErrRecordNotFound)

	marked, err := svc.MarkRead(context.Background(), Actor{ID: 2, Role: models.RoleParent}, 1)
	require.NoError(t, err)
	require.True(t, marked.Read)
}
