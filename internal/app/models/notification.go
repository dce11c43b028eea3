package models

import "time"

// NotificationType classifies a notification for the client
type NotificationType string

const (
	NotificationAppointmentRequest   NotificationType = "appointment_request"
	NotificationAppointmentCreated   NotificationType = "appointment_created"
	NotificationAppointmentConfirmed NotificationType = "appointment_confirmed"
	NotificationAppointmentRejected  NotificationType = "appointment_rejected"
	NotificationAppointmentAccepted  NotificationType = "appointment_accepted"
	NotificationAppointmentDeclined  NotificationType = "appointment_declined"
	NotificationAppointmentChanged   NotificationType = "appointment_changed"
	NotificationChangesConfirmed     NotificationType = "changes_confirmed"
	NotificationCommentAdded         NotificationType = "comment_added"
)

// Notification is a one-way alert addressed to a single user
type Notification struct {
	ID            int64            `db:"id" json:"id"`
	UserID        int64            `db:"user_id" json:"userId"`
	Type          NotificationType `db:"type" json:"type"`
	Title         string           `db:"title" json:"title"`
	Message       string           `db:"message" json:"message"`
	AppointmentID *int64           `db:"appointment_id" json:"appointmentId,omitempty"`
	IsRead        bool             `db:"is_read" json:"isRead"`
	CreatedAt     time.Time        `db:"created_at" json:"createdAt"`
}
