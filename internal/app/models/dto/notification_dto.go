package dto

import (
	"time"

	"github.com/yigit/advisorly/internal/app/models"
)

// NotificationFilterRequest filters the notification list
type NotificationFilterRequest struct {
	UnreadOnly bool `form:"unreadOnly"`
	PaginationRequest
}

// NotificationResponse represents a notification in API responses and websocket pushes
type NotificationResponse struct {
	ID            int64     `json:"id"`
	Type          string    `json:"type" example:"appointment_confirmed"`
	Title         string    `json:"title" example:"Appointment Confirmed"`
	Message       string    `json:"message"`
	AppointmentID *int64    `json:"appointmentId,omitempty"`
	IsRead        bool      `json:"isRead"`
	CreatedAt     time.Time `json:"createdAt"`
}

// NotificationListResponse is a page of notifications
type NotificationListResponse struct {
	Notifications []NotificationResponse `json:"notifications"`
	Pagination    PaginationInfo         `json:"pagination"`
}

// UnreadCountResponse carries the number of unread notifications
type UnreadCountResponse struct {
	Count int `json:"count" example:"3"`
}

// FromNotification converts a models.Notification to a NotificationResponse
func FromNotification(n *models.Notification) NotificationResponse {
	return NotificationResponse{
		ID:            n.ID,
		Type:          string(n.Type),
		Title:         n.Title,
		Message:       n.Message,
		AppointmentID: n.AppointmentID,
		IsRead:        n.IsRead,
		CreatedAt:     n.CreatedAt,
	}
}

// FromNotifications converts a slice of notifications
func FromNotifications(items []*models.Notification) []NotificationResponse {
	out := make([]NotificationResponse, 0, len(items))
	for _, n := range items {
		out = append(out, FromNotification(n))
	}
	return out
}
