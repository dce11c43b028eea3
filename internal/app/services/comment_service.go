package services

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"github.com/yigit/advisorly/internal/app/models"
	"github.com/yigit/advisorly/internal/app/models/dto"
	"github.com/yigit/advisorly/internal/app/workflow"
	"github.com/yigit/advisorly/internal/pkg/apperrors"
)

const (
	// MaxCommentLength is the longest comment accepted, in characters
	MaxCommentLength = 2000
	previewLength    = 100
)

// CommentService defines the interface for appointment comments
type CommentService interface {
	AddComment(ctx context.Context, appointmentID int64, actor workflow.Actor, req *dto.CreateCommentRequest) (*dto.CommentResponse, error)
	ListComments(ctx context.Context, appointmentID int64, actor workflow.Actor) ([]dto.CommentResponse, error)
}

// commentServiceImpl implements CommentService
type commentServiceImpl struct {
	appointmentLoader
	comments CommentStore
	users    UserStore
	notifier Notifier
	logger   zerolog.Logger
}

// NewCommentService creates a new CommentService
func NewCommentService(
	comments CommentStore,
	appointments AppointmentStore,
	projects ProjectStore,
	users UserStore,
	notifier Notifier,
	logger zerolog.Logger,
) CommentService {
	return &commentServiceImpl{
		appointmentLoader: appointmentLoader{appointments: appointments, projects: projects},
		comments:          comments,
		users:             users,
		notifier:          notifier,
		logger:            logger,
	}
}

func (s *commentServiceImpl) AddComment(ctx context.Context, appointmentID int64, actor workflow.Actor, req *dto.CreateCommentRequest) (*dto.CommentResponse, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, apperrors.NewValidationError("Comment cannot be empty")
	}
	if utf8.RuneCountInString(content) > MaxCommentLength {
		return nil, apperrors.NewValidationError(fmt.Sprintf("Comment cannot be longer than %d characters", MaxCommentLength))
	}

	a, members, err := s.load(ctx, appointmentID, actor)
	if err != nil {
		return nil, err
	}
	author, err := s.users.GetByID(ctx, actor.ID)
	if err != nil {
		return nil, err
	}

	c := &models.Comment{
		AppointmentID: a.ID,
		AuthorID:      author.ID,
		AuthorName:    author.FullName(),
		AuthorRole:    author.RoleType,
		Content:       content,
	}
	if err := s.comments.Create(ctx, c); err != nil {
		s.logger.Error().Err(err).Int64("appointmentID", a.ID).Msg("Failed to add comment")
		return nil, err
	}

	s.notifier.Notify(ctx, commentIntents(a, members, c))

	resp := dto.FromComment(c)
	return &resp, nil
}

// commentIntents notifies every participant except the author
func commentIntents(a *models.Appointment, members []int64, c *models.Comment) []workflow.NotificationIntent {
	preview := c.Content
	if utf8.RuneCountInString(preview) > previewLength {
		preview = string([]rune(preview)[:previewLength]) + "..."
	}
	msg := fmt.Sprintf("%s commented on %q: %s", c.AuthorName, a.Title, preview)

	var intents []workflow.NotificationIntent
	for _, id := range participants(a, members) {
		if id == c.AuthorID {
			continue
		}
		intents = append(intents, workflow.NotificationIntent{
			UserID:        id,
			Type:          models.NotificationCommentAdded,
			Title:         "New Comment",
			Message:       msg,
			AppointmentID: a.ID,
		})
	}
	return intents
}

func (s *commentServiceImpl) ListComments(ctx context.Context, appointmentID int64, actor workflow.Actor) ([]dto.CommentResponse, error) {
	if _, _, err := s.load(ctx, appointmentID, actor); err != nil {
		return nil, err
	}
	comments, err := s.comments.ListByAppointment(ctx, appointmentID)
	if err != nil {
		return nil, err
	}
	return dto.FromComments(comments), nil
}
