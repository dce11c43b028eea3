package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/advisorly/internal/app/models"
	"github.com/yigit/advisorly/internal/app/models/dto"
	"github.com/yigit/advisorly/internal/app/workflow"
	"github.com/yigit/advisorly/internal/pkg/apperrors"
	"github.com/yigit/advisorly/internal/pkg/auth"
)

func TestComments(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	created := f.createProjectWide(t)
	before := len(f.db.notificationsFor(f.student2.ID))

	c, err := f.comments.AddComment(ctx, created.ID, f.studentActor(), &dto.CreateCommentRequest{Content: "  Can we move it?  "})
	require.NoError(t, err)
	assert.Equal(t, "Can we move it?", c.Content)
	assert.Equal(t, "ada Test", c.AuthorName)
	assert.Equal(t, string(models.RoleStudent), c.AuthorRole)

	// advisor and the other member hear about it, the author does not
	advisorInbox := f.db.notificationsFor(f.advisor.ID)
	require.Len(t, advisorInbox, 1)
	assert.Equal(t, models.NotificationCommentAdded, advisorInbox[0].Type)
	assert.Len(t, f.db.notificationsFor(f.student2.ID), before+1)
	for _, n := range f.db.notificationsFor(f.student.ID) {
		assert.NotEqual(t, models.NotificationCommentAdded, n.Type)
	}

	list, err := f.comments.ListComments(ctx, created.ID, f.advisorActor())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, c.ID, list[0].ID)
}

func TestComments_Errors(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	created := f.createBound(t, "2026-03-10", "14:00")

	_, err := f.comments.AddComment(ctx, created.ID, f.studentActor(), &dto.CreateCommentRequest{Content: "   "})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	_, err = f.comments.AddComment(ctx, created.ID, f.studentActor(), &dto.CreateCommentRequest{Content: strings.Repeat("ğ", MaxCommentLength+1)})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	_, err = f.comments.AddComment(ctx, created.ID, f.student2Actor(), &dto.CreateCommentRequest{Content: "hi"})
	assert.ErrorIs(t, err, apperrors.ErrAppointmentNotFound)

	_, err = f.comments.ListComments(ctx, created.ID, f.student2Actor())
	assert.ErrorIs(t, err, apperrors.ErrAppointmentNotFound)

	_, err = f.comments.AddComment(ctx, created.ID, f.studentActor(), &dto.CreateCommentRequest{Content: strings.Repeat("ğ", MaxCommentLength)})
	assert.NoError(t, err, "the limit counts characters, not bytes")
}

func TestCommentIntents_Preview(t *testing.T) {
	a := &models.Appointment{ID: 1, Title: "Review", AdvisorID: 1, StudentID: ptr(int64(2))}
	c := &models.Comment{AuthorID: 2, AuthorName: "Ada", Content: strings.Repeat("x", 150)}

	intents := commentIntents(a, nil, c)
	require.Len(t, intents, 1)
	assert.Equal(t, int64(1), intents[0].UserID)
	assert.True(t, strings.HasSuffix(intents[0].Message, strings.Repeat("x", 100)+"..."))
}

func TestNotificationService(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	uid := f.student.ID

	f.notifier.Notify(ctx, []workflow.NotificationIntent{
		{UserID: uid, Type: models.NotificationAppointmentConfirmed, Title: "one", AppointmentID: 7},
		{UserID: uid, Type: models.NotificationAppointmentChanged, Title: "two"},
		{UserID: uid, Type: models.NotificationCommentAdded, Title: "three"},
		{UserID: f.advisor.ID, Type: models.NotificationCommentAdded, Title: "other"},
	})
	assert.Equal(t, 3, f.pusher.count(uid))

	count, err := f.notifier.UnreadCount(ctx, uid)
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	page, err := f.notifier.ListNotifications(ctx, uid, &dto.NotificationFilterRequest{
		PaginationRequest: dto.PaginationRequest{Page: 1, PageSize: 2},
	})
	require.NoError(t, err)
	require.Len(t, page.Notifications, 2)
	assert.Equal(t, "three", page.Notifications[0].Title, "newest first")
	assert.Equal(t, 3, page.Pagination.TotalItems)
	assert.Equal(t, 2, page.Pagination.TotalPages)

	require.NoError(t, f.notifier.MarkRead(ctx, uid, page.Notifications[0].ID))
	err = f.notifier.MarkRead(ctx, f.advisor.ID, page.Notifications[1].ID)
	assert.ErrorIs(t, err, apperrors.ErrNotificationNotFound, "users cannot mark each other's notifications")

	unread, err := f.notifier.ListNotifications(ctx, uid, &dto.NotificationFilterRequest{UnreadOnly: true})
	require.NoError(t, err)
	assert.Len(t, unread.Notifications, 2)

	marked, err := f.notifier.MarkAllRead(ctx, uid)
	require.NoError(t, err)
	assert.Equal(t, int64(2), marked)

	count, err = f.notifier.UnreadCount(ctx, uid)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestNotify_WithoutPusher(t *testing.T) {
	db := newMemoryDB()
	svc := NewNotificationService(notificationStore{db}, nil, zerolog.Nop())
	svc.Notify(context.Background(), []workflow.NotificationIntent{{UserID: 1, Type: models.NotificationCommentAdded}})
	assert.Len(t, db.notificationsFor(1), 1)
}

func TestProjectService(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	extra := f.db.addUser("linus", models.RoleStudent, nil)

	created, err := f.projects.CreateProject(ctx, f.advisorActor(), &dto.CreateProjectRequest{
		Name:      " Compiler ",
		MemberIDs: []int64{f.student.ID, f.student.ID},
	})
	require.NoError(t, err)
	assert.Equal(t, "Compiler", created.Name)
	assert.Equal(t, []int64{f.student.ID}, created.MemberIDs)

	added, err := f.projects.AddMember(ctx, f.advisorActor(), created.ID, extra.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []int64{f.student.ID, extra.ID}, added.MemberIDs)

	_, err = f.projects.AddMember(ctx, f.advisorActor(), created.ID, extra.ID)
	assert.ErrorIs(t, err, apperrors.ErrResourceAlreadyExists)

	_, err = f.projects.AddMember(ctx, f.advisorActor(), created.ID, f.advisor.ID)
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	got, err := f.projects.GetProject(ctx, workflow.Actor{ID: extra.ID, Role: models.RoleStudent}, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	require.NoError(t, f.projects.RemoveMember(ctx, f.advisorActor(), created.ID, extra.ID))
	_, err = f.projects.GetProject(ctx, workflow.Actor{ID: extra.ID, Role: models.RoleStudent}, created.ID)
	assert.ErrorIs(t, err, apperrors.ErrProjectNotFound)

	archive, err := f.projects.ArchiveProject(ctx, f.advisorActor(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, archive.ProjectID)
	assert.Equal(t, []int64{f.student.ID}, archive.MemberIDs)

	_, err = f.projects.ArchiveProject(ctx, f.advisorActor(), created.ID)
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	_, err = f.projects.AddMember(ctx, f.advisorActor(), created.ID, extra.ID)
	assert.ErrorIs(t, err, apperrors.ErrProjectArchived)

	active, err := f.projects.ListProjects(ctx, f.advisorActor(), false)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, f.project.ID, active[0].ID)

	all, err := f.projects.ListProjects(ctx, f.advisorActor(), true)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestProjectService_Permissions(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	other := f.db.addUser("other", models.RoleAdvisor, nil)
	otherActor := workflow.Actor{ID: other.ID, Role: models.RoleAdvisor}

	_, err := f.projects.CreateProject(ctx, f.studentActor(), &dto.CreateProjectRequest{Name: "Mine"})
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	_, err = f.projects.CreateProject(ctx, f.advisorActor(), &dto.CreateProjectRequest{Name: "X", MemberIDs: []int64{9999}})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	_, err = f.projects.GetProject(ctx, otherActor, f.project.ID)
	assert.ErrorIs(t, err, apperrors.ErrProjectNotFound)

	_, err = f.projects.ArchiveProject(ctx, otherActor, f.project.ID)
	assert.ErrorIs(t, err, apperrors.ErrProjectNotFound)

	err = f.projects.RemoveMember(ctx, f.studentActor(), f.project.ID, f.student.ID)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
}

func newAuthService(db *memoryDB) *AuthService {
	jwtService := auth.NewJWTService(auth.JWTConfig{
		SecretKey:      "test-secret",
		AccessTokenExp: time.Hour,
		TokenIssuer:    "advisorly.test",
	})
	return NewAuthService(userStore{db}, jwtService, zerolog.Nop())
}

func TestAuthService_RegisterAndLogin(t *testing.T) {
	db := newMemoryDB()
	svc := newAuthService(db)
	ctx := context.Background()

	advisor, err := svc.Register(ctx, &dto.RegisterRequest{
		Email: "Turing@Uni.edu", Password: "Enigma1936", FirstName: "Alan", LastName: "Turing", RoleType: models.RoleAdvisor,
	})
	require.NoError(t, err)
	assert.Equal(t, "turing@uni.edu", advisor.User.Email)
	assert.Equal(t, "Bearer", advisor.Token.TokenType)
	assert.NotEmpty(t, advisor.Token.AccessToken)

	student, err := svc.Register(ctx, &dto.RegisterRequest{
		Email: "ada@uni.edu", Password: "Engine1843", FirstName: "Ada", LastName: "Lovelace",
		RoleType: models.RoleStudent, AdvisorID: ptr(advisor.User.ID),
	})
	require.NoError(t, err)

	stored, err := userStore{db}.GetByID(ctx, student.User.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "Engine1843", stored.Password)
	require.NotNil(t, stored.AdvisorID)
	assert.Equal(t, advisor.User.ID, *stored.AdvisorID)

	login, err := svc.Login(ctx, &dto.LoginRequest{Email: "ADA@uni.edu", Password: "Engine1843"})
	require.NoError(t, err)
	assert.Equal(t, student.User.ID, login.User.ID)

	_, err = svc.Login(ctx, &dto.LoginRequest{Email: "ada@uni.edu", Password: "wrong-pass1"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	_, err = svc.Login(ctx, &dto.LoginRequest{Email: "nobody@uni.edu", Password: "Engine1843"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	_, err = svc.Register(ctx, &dto.RegisterRequest{
		Email: "ada@uni.edu", Password: "Engine1843", FirstName: "Ada", LastName: "Again", RoleType: models.RoleStudent,
	})
	assert.ErrorIs(t, err, apperrors.ErrEmailAlreadyExists)
}

func TestAuthService_RegisterValidation(t *testing.T) {
	db := newMemoryDB()
	svc := newAuthService(db)
	ctx := context.Background()
	studentUser := db.addUser("ada", models.RoleStudent, nil)
	advisorUser := db.addUser("alan", models.RoleAdvisor, nil)

	base := func() *dto.RegisterRequest {
		return &dto.RegisterRequest{Email: "new@uni.edu", Password: "Passw0rdX", FirstName: "N", LastName: "U", RoleType: models.RoleStudent}
	}
	tests := []struct {
		name   string
		modify func(*dto.RegisterRequest)
	}{
		{"weak password", func(r *dto.RegisterRequest) { r.Password = "password" }},
		{"bad email", func(r *dto.RegisterRequest) { r.Email = "not-an-email" }},
		{"unknown role", func(r *dto.RegisterRequest) { r.RoleType = models.RoleSystem }},
		{"advisor is a student", func(r *dto.RegisterRequest) { r.AdvisorID = ptr(studentUser.ID) }},
		{"advisor does not exist", func(r *dto.RegisterRequest) { r.AdvisorID = ptr(int64(9999)) }},
		{"advisor naming an advisor", func(r *dto.RegisterRequest) {
			r.RoleType = models.RoleAdvisor
			r.AdvisorID = ptr(advisorUser.ID)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := base()
			tt.modify(req)
			_, err := svc.Register(ctx, req)
			assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
		})
	}
}

func TestUserService(t *testing.T) {
	f := newFixture()
	svc := NewUserService(userStore{f.db}, zerolog.Nop())
	ctx := context.Background()

	me, err := svc.GetUserProfile(ctx, f.student.ID)
	require.NoError(t, err)
	assert.Equal(t, f.student.Email, me.Email)

	advisors, err := svc.ListByRole(ctx, models.RoleAdvisor)
	require.NoError(t, err)
	require.Len(t, advisors, 1)
	assert.Equal(t, f.advisor.ID, advisors[0].ID)

	_, err = svc.GetUserByID(ctx, 9999)
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}
