package services

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/yigit/advisorly/internal/app/models"
	"github.com/yigit/advisorly/internal/app/models/dto"
	"github.com/yigit/advisorly/internal/app/workflow"
	"github.com/yigit/advisorly/internal/pkg/helpers"
)

// NotificationMessageType is the websocket envelope type of a pushed notification
const NotificationMessageType = "notification"

// Pusher delivers a payload to the live connections of a user
type Pusher interface {
	SendToUser(userID int64, msgType string, payload interface{}) error
}

// Notifier turns notification intents into stored, pushed notifications.
// Delivery problems are logged and never returned.
type Notifier interface {
	Notify(ctx context.Context, intents []workflow.NotificationIntent)
}

// NotificationService defines the interface for notification operations
type NotificationService interface {
	Notifier
	ListNotifications(ctx context.Context, userID int64, filter *dto.NotificationFilterRequest) (*dto.NotificationListResponse, error)
	UnreadCount(ctx context.Context, userID int64) (int, error)
	MarkRead(ctx context.Context, userID, notificationID int64) error
	MarkAllRead(ctx context.Context, userID int64) (int64, error)
}

// notificationServiceImpl implements NotificationService
type notificationServiceImpl struct {
	store  NotificationStore
	pusher Pusher
	logger zerolog.Logger
}

// NewNotificationService creates a new notification service. pusher may be nil
// when no live connections are served, as in the admin CLI.
func NewNotificationService(store NotificationStore, pusher Pusher, logger zerolog.Logger) NotificationService {
	return &notificationServiceImpl{
		store:  store,
		pusher: pusher,
		logger: logger,
	}
}

func (s *notificationServiceImpl) Notify(ctx context.Context, intents []workflow.NotificationIntent) {
	if len(intents) == 0 {
		return
	}
	// the request may already be finished; delivery must not be cut short by it
	ctx = context.WithoutCancel(ctx)

	for _, in := range intents {
		n := &models.Notification{
			UserID:  in.UserID,
			Type:    in.Type,
			Title:   in.Title,
			Message: in.Message,
		}
		if in.AppointmentID != 0 {
			id := in.AppointmentID
			n.AppointmentID = &id
		}

		if err := s.store.Create(ctx, n); err != nil {
			s.logger.Error().Err(err).
				Int64("userID", in.UserID).
				Str("type", string(in.Type)).
				Msg("Failed to store notification")
			continue
		}

		if s.pusher == nil {
			continue
		}
		if err := s.pusher.SendToUser(n.UserID, NotificationMessageType, dto.FromNotification(n)); err != nil {
			s.logger.Warn().Err(err).Int64("userID", n.UserID).Int64("notificationID", n.ID).
				Msg("Failed to push notification")
		}
	}
}

func (s *notificationServiceImpl) ListNotifications(ctx context.Context, userID int64, filter *dto.NotificationFilterRequest) (*dto.NotificationListResponse, error) {
	if filter == nil {
		filter = &dto.NotificationFilterRequest{}
	}
	page, size := helpers.NormalizePage(filter.Page, filter.PageSize)
	offset, limit := helpers.CalculateOffsetLimit(page, size)

	items, total, err := s.store.ListByUser(ctx, userID, filter.UnreadOnly, offset, limit)
	if err != nil {
		return nil, err
	}

	return &dto.NotificationListResponse{
		Notifications: dto.FromNotifications(items),
		Pagination:    helpers.NewPaginationInfo(total, page, size),
	}, nil
}

func (s *notificationServiceImpl) UnreadCount(ctx context.Context, userID int64) (int, error) {
	return s.store.CountUnread(ctx, userID)
}

func (s *notificationServiceImpl) MarkRead(ctx context.Context, userID, notificationID int64) error {
	return s.store.MarkRead(ctx, notificationID, userID)
}

func (s *notificationServiceImpl) MarkAllRead(ctx context.Context, userID int64) (int64, error) {
	return s.store.MarkAllRead(ctx, userID)
}
