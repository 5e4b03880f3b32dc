package dto

import (
	"time"

	"github.com/scolaris/scolaris-go-api/internal/models"
)

// MessageSendRequest is the payload for sending a direct message.
type MessageSendRequest struct {
	ReceiverID uint   `json:"receiver_id" validate:"required"`
	Body       string `json:"body" validate:"required,min=1"`
}

// MessageResponse is the serialized representation of a message.
type MessageResponse struct {
	ID         uint      `json:"id"`
	SenderID   uint      `json:"sender_id"`
	ReceiverID uint      `json:"receiver_id"`
	Body       string    `json:"body"`
	Read       bool      `json:"read"`
	CreatedAt  time.Time `json:"created_at"`
}

// NewMessageResponse converts a message model into a DTO.
func NewMessageResponse(message models.Message) MessageResponse {
	return MessageResponse{
		ID:         message.ID,
		SenderID:   message.SenderID,
		ReceiverID: message.ReceiverID,
		Body:       message.Body,
		Read:       message.Read,
		CreatedAt:  message.CreatedAt,
	}
}

// NewMessageResponseSlice converts message models into DTOs.
func NewMessageResponseSlice(messages []models.Message) []MessageResponse {
	responses := make([]MessageResponse, 0, len(messages))
	for _, message := range messages {
		responses = append(responses, NewMessageResponse(message))
	}
	return responses
}

// NotificationResponse is the serialized representation of a notification.
type NotificationResponse struct {
	ID          uint      `json:"id"`
	UserID      uint      `json:"user_id"`
	Kind        string    `json:"kind"`
	ReferenceID uint      `json:"reference_id"`
	Read        bool      `json:"read"`
	SentAt      time.Time `json:"sent_at"`
}

// MarkAllReadRequest marks every unread notification of the caller,
// optionally restricted to one kind.
type MarkAllReadRequest struct {
	Kind string `json:"kind" validate:"omitempty,oneof=message assignment"`
}

// MarkAllReadResponse reports how many notifications were flipped.
type MarkAllReadResponse struct {
	Marked int64 `json:"marked"`
}

// NewNotificationResponse converts a notification model into a DTO.
func NewNotificationResponse(notification models.Notification) NotificationResponse {
	return NotificationResponse{
		ID:          notification.ID,
		UserID:      notification.UserID,
		Kind:        string(notification.Kind),
		ReferenceID: notification.ReferenceID,
		Read:        notification.Read,
		SentAt:      notification.SentAt,
	}
}

// NewNotificationResponseSlice converts notification models into DTOs.
func NewNotificationResponseSlice(notifications []models.Notification) []NotificationResponse {
	responses := make([]NotificationResponse, 0, len(notifications))
	for _, notification := range notifications {
		responses = append(responses, NewNotificationResponse(notification))
	}
	return responses
}
