package dto

import (
	"time"

	"github.com/yigit/advisorly/internal/app/models"
)

// CreateCommentRequest represents a new comment on an appointment
type CreateCommentRequest struct {
	Content string `json:"content" binding:"required,notblank,max=2000" example:"Please bring the draft."`
}

// CommentResponse represents a comment in API responses
type CommentResponse struct {
	ID            int64     `json:"id"`
	AppointmentID int64     `json:"appointmentId"`
	AuthorID      int64     `json:"authorId"`
	AuthorName    string    `json:"authorName" example:"Ada Lovelace"`
	AuthorRole    string    `json:"authorRole" example:"STUDENT"`
	Content       string    `json:"content"`
	CreatedAt     time.Time `json:"createdAt"`
}

// FromComment converts a models.Comment to a CommentResponse
func FromComment(c *models.Comment) CommentResponse {
	return CommentResponse{
		ID:            c.ID,
		AppointmentID: c.AppointmentID,
		AuthorID:      c.AuthorID,
		AuthorName:    c.AuthorName,
		AuthorRole:    string(c.AuthorRole),
		Content:       c.Content,
		CreatedAt:     c.CreatedAt,
	}
}

// FromComments converts a slice of comments
func FromComments(comments []*models.Comment) []CommentResponse {
	out := make([]CommentResponse, 0, len(comments))
	for _, c := range comments {
		out = append(out, FromComment(c))
	}
	return out
}
