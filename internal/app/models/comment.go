package models

import "time"

// Comment is an immutable message attached to an appointment
type Comment struct {
	ID            int64     `db:"id" json:"id"`
	AppointmentID int64     `db:"appointment_id" json:"appointmentId"`
	AuthorID      int64     `db:"author_id" json:"authorId"`
	AuthorName    string    `db:"author_name" json:"authorName"`
	AuthorRole    RoleType  `db:"author_role" json:"authorRole"`
	Content       string    `db:"content" json:"content"`
	CreatedAt     time.Time `db:"created_at" json:"createdAt"`
}
