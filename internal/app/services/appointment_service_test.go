package services

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/advisorly/internal/app/models"
	"github.com/yigit/advisorly/internal/app/models/dto"
	"github.com/yigit/advisorly/internal/app/workflow"
	"github.com/yigit/advisorly/internal/pkg/apperrors"
)

func (f *fixture) createBound(t *testing.T, date, tod string) *dto.AppointmentResponse {
	t.Helper()
	resp, err := f.appts.CreateAppointment(context.Background(), f.studentActor(), &dto.CreateAppointmentRequest{
		Title:    "Thesis review",
		Date:     date,
		Time:     tod,
		Location: "Room 101",
	})
	require.NoError(t, err)
	return resp
}

func (f *fixture) createProjectWide(t *testing.T) *dto.AppointmentResponse {
	t.Helper()
	resp, err := f.appts.CreateAppointment(context.Background(), f.advisorActor(), &dto.CreateAppointmentRequest{
		Title:     "Sprint demo",
		Date:      "2026-03-12",
		Time:      "10:00",
		Location:  "Lab 3",
		ProjectID: ptr(f.project.ID),
	})
	require.NoError(t, err)
	return resp
}

func transition(event workflow.Event) *dto.TransitionRequest {
	return &dto.TransitionRequest{Event: string(event)}
}

func TestAppointmentLifecycle(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	created := f.createBound(t, "2026-03-10", "14:00")
	assert.Equal(t, models.StatusPending, created.Status)
	assert.Equal(t, f.advisor.ID, created.AdvisorID)
	require.NotNil(t, created.StudentID)
	assert.Equal(t, f.student.ID, *created.StudentID)

	advisorInbox := f.db.notificationsFor(f.advisor.ID)
	require.Len(t, advisorInbox, 1)
	assert.Equal(t, models.NotificationAppointmentRequest, advisorInbox[0].Type)
	assert.Contains(t, advisorInbox[0].Message, "ada Test")

	confirmed, err := f.appts.Transition(ctx, created.ID, f.advisorActor(), transition(workflow.EventConfirm))
	require.NoError(t, err)
	assert.Equal(t, models.StatusConfirmed, confirmed.Status)

	edited, err := f.appts.UpdateFields(ctx, created.ID, f.advisorActor(), &dto.UpdateAppointmentRequest{
		Location: ptr("Room 202"),
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusPendingStudentConfirmation, edited.Status)
	assert.Equal(t, "Room 202", edited.Location)

	studentInbox := f.db.notificationsFor(f.student.ID)
	require.Len(t, studentInbox, 2)
	assert.Equal(t, models.NotificationAppointmentConfirmed, studentInbox[0].Type)
	assert.Equal(t, models.NotificationAppointmentChanged, studentInbox[1].Type)
	assert.Contains(t, studentInbox[1].Message, "Room 202")

	reconfirmed, err := f.appts.Transition(ctx, created.ID, f.studentActor(), transition(workflow.EventConfirmChanges))
	require.NoError(t, err)
	assert.Equal(t, models.StatusConfirmed, reconfirmed.Status)
	assert.Len(t, f.db.notificationsFor(f.advisor.ID), 2)

	completed, err := f.appts.Transition(ctx, created.ID, f.studentActor(), transition(workflow.EventComplete))
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, completed.Status)

	err = f.appts.DeleteAppointment(ctx, created.ID, f.advisorActor())
	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)

	noted, err := f.appts.UpdateFields(ctx, created.ID, f.advisorActor(), &dto.UpdateAppointmentRequest{
		Notes: ptr("Went well"),
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, noted.Status)
	require.NotNil(t, noted.Notes)
	assert.Equal(t, "Went well", *noted.Notes)

	_, err = f.appts.Transition(ctx, created.ID, f.advisorActor(), transition(workflow.EventCancel))
	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)

	// every stored notification was also pushed
	assert.Equal(t, 2, f.pusher.count(f.advisor.ID))
	assert.Equal(t, 2, f.pusher.count(f.student.ID))
}

func TestTransition_EditThroughEvent(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	created := f.createBound(t, "2026-03-10", "14:00")
	_, err := f.appts.Transition(ctx, created.ID, f.advisorActor(), transition(workflow.EventConfirm))
	require.NoError(t, err)

	req := transition(workflow.EventEdit)
	req.Time = ptr("16:30")
	resp, err := f.appts.Transition(ctx, created.ID, f.studentActor(), req)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPendingAdvisorConfirmation, resp.Status)
	assert.Equal(t, "16:30", resp.Time)

	_, err = f.appts.Transition(ctx, created.ID, f.studentActor(), transition(workflow.EventEdit))
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}

func TestProjectWideAppointment_AcceptClaims(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	created := f.createProjectWide(t)
	assert.Nil(t, created.StudentID)
	for _, id := range []int64{f.student.ID, f.student2.ID} {
		inbox := f.db.notificationsFor(id)
		require.Len(t, inbox, 1)
		assert.Equal(t, models.NotificationAppointmentCreated, inbox[0].Type)
	}

	_, err := f.appts.Transition(ctx, created.ID, f.advisorActor(), transition(workflow.EventConfirm))
	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)

	accepted, err := f.appts.Transition(ctx, created.ID, f.student2Actor(), transition(workflow.EventAccept))
	require.NoError(t, err)
	assert.Equal(t, models.StatusConfirmed, accepted.Status)
	require.NotNil(t, accepted.StudentID)
	assert.Equal(t, f.student2.ID, *accepted.StudentID)

	advisorInbox := f.db.notificationsFor(f.advisor.ID)
	require.Len(t, advisorInbox, 1)
	assert.Equal(t, models.NotificationAppointmentAccepted, advisorInbox[0].Type)

	// the other member still sees it but can no longer act on it
	_, err = f.appts.GetAppointment(ctx, created.ID, f.studentActor())
	require.NoError(t, err)
	_, err = f.appts.Transition(ctx, created.ID, f.studentActor(), transition(workflow.EventCancel))
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
}

func TestUpdateFields_OnlyTheAppointmentsStudent(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	created := f.createProjectWide(t)
	_, err := f.appts.UpdateFields(ctx, created.ID, f.student2Actor(), &dto.UpdateAppointmentRequest{Notes: ptr("before anyone accepted")})
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	_, err = f.appts.Transition(ctx, created.ID, f.studentActor(), transition(workflow.EventAccept))
	require.NoError(t, err)

	_, err = f.appts.UpdateFields(ctx, created.ID, f.student2Actor(), &dto.UpdateAppointmentRequest{
		Title: ptr("hijacked"),
		Notes: ptr("not mine"),
	})
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	current, err := f.appts.GetAppointment(ctx, created.ID, f.advisorActor())
	require.NoError(t, err)
	assert.Equal(t, "Sprint demo", current.Title)
	assert.Nil(t, current.Notes)

	renamed, err := f.appts.UpdateFields(ctx, created.ID, f.studentActor(), &dto.UpdateAppointmentRequest{Title: ptr("Demo dry run")})
	require.NoError(t, err)
	assert.Equal(t, "Demo dry run", renamed.Title)
}

func TestProjectWideAppointment_DeclineWithReason(t *testing.T) {
	f := newFixture()
	created := f.createProjectWide(t)

	req := transition(workflow.EventStudentReject)
	req.Reason = "exam week"
	resp, err := f.appts.Transition(context.Background(), created.ID, f.studentActor(), req)
	require.NoError(t, err)
	assert.Equal(t, models.StatusRejected, resp.Status)

	inbox := f.db.notificationsFor(f.advisor.ID)
	require.Len(t, inbox, 1)
	assert.Equal(t, models.NotificationAppointmentDeclined, inbox[0].Type)
	assert.Contains(t, inbox[0].Message, "Reason: exam week")
}

func TestCreateAppointment_Errors(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	orphan := f.db.addUser("orphan", models.RoleStudent, nil)
	outsider := f.db.addUser("outsider", models.RoleStudent, ptr(f.advisor.ID))
	otherAdvisor := f.db.addUser("other", models.RoleAdvisor, nil)

	archived := &models.Project{Name: "Old", AdvisorID: f.advisor.ID, MemberIDs: []int64{f.student.ID}}
	require.NoError(t, projectStore{f.db}.Create(ctx, archived))
	_, err := projectStore{f.db}.Archive(ctx, archived.ID, time.Now())
	require.NoError(t, err)

	valid := func() *dto.CreateAppointmentRequest {
		return &dto.CreateAppointmentRequest{Title: "Review", Date: "2026-03-10", Time: "09:00", Location: "Room 1"}
	}

	tests := []struct {
		name   string
		actor  workflow.Actor
		modify func(*dto.CreateAppointmentRequest)
		want   error
	}{
		{"student without advisor", workflow.Actor{ID: orphan.ID, Role: models.RoleStudent}, nil, apperrors.ErrValidationFailed},
		{"advisor without project", f.advisorActor(), nil, apperrors.ErrValidationFailed},
		{"advisor of another project", workflow.Actor{ID: otherAdvisor.ID, Role: models.RoleAdvisor},
			func(r *dto.CreateAppointmentRequest) { r.ProjectID = ptr(f.project.ID) }, apperrors.ErrResourceNotFound},
		{"student outside project", workflow.Actor{ID: outsider.ID, Role: models.RoleStudent},
			func(r *dto.CreateAppointmentRequest) { r.ProjectID = ptr(f.project.ID) }, apperrors.ErrResourceNotFound},
		{"archived project", f.studentActor(),
			func(r *dto.CreateAppointmentRequest) { r.ProjectID = ptr(archived.ID) }, apperrors.ErrProjectArchived},
		{"bad date", f.studentActor(), func(r *dto.CreateAppointmentRequest) { r.Date = "10.03.2026" }, apperrors.ErrValidationFailed},
		{"bad time", f.studentActor(), func(r *dto.CreateAppointmentRequest) { r.Time = "9am" }, apperrors.ErrValidationFailed},
		{"blank title", f.studentActor(), func(r *dto.CreateAppointmentRequest) { r.Title = "  " }, apperrors.ErrValidationFailed},
		{"system actor", workflow.SystemActor, nil, apperrors.ErrPermissionDenied},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid()
			if tt.modify != nil {
				tt.modify(req)
			}
			_, err := f.appts.CreateAppointment(ctx, tt.actor, req)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestAccessIsReportedAsNotFound(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	created := f.createBound(t, "2026-03-10", "14:00")
	stranger := workflow.Actor{ID: f.student2.ID, Role: models.RoleStudent}
	otherAdvisor := f.db.addUser("other", models.RoleAdvisor, nil)

	_, err := f.appts.GetAppointment(ctx, created.ID, stranger)
	assert.ErrorIs(t, err, apperrors.ErrAppointmentNotFound)

	_, err = f.appts.Transition(ctx, created.ID, workflow.Actor{ID: otherAdvisor.ID, Role: models.RoleAdvisor}, transition(workflow.EventConfirm))
	assert.ErrorIs(t, err, apperrors.ErrAppointmentNotFound)

	_, err = f.appts.GetAppointment(ctx, 9999, f.advisorActor())
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
}

func TestListAppointments(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.createBound(t, "2026-03-10", "14:00")
	f.createProjectWide(t)

	advisorList, err := f.appts.ListAppointments(ctx, f.advisorActor(), nil)
	require.NoError(t, err)
	assert.Len(t, advisorList.Appointments, 2)
	assert.Equal(t, 2, advisorList.Pagination.TotalItems)

	// student2 only sees the project-wide one
	studentList, err := f.appts.ListAppointments(ctx, f.student2Actor(), &dto.AppointmentFilterRequest{})
	require.NoError(t, err)
	require.Len(t, studentList.Appointments, 1)
	assert.Equal(t, "Sprint demo", studentList.Appointments[0].Title)

	paged, err := f.appts.ListAppointments(ctx, f.advisorActor(), &dto.AppointmentFilterRequest{
		PaginationRequest: dto.PaginationRequest{Page: 2, PageSize: 1},
	})
	require.NoError(t, err)
	assert.Len(t, paged.Appointments, 1)
	assert.Equal(t, 2, paged.Pagination.TotalPages)
}

func TestDeleteAppointment(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	bound := f.createBound(t, "2026-03-10", "14:00")
	require.NoError(t, f.appts.DeleteAppointment(ctx, bound.ID, f.studentActor()))
	_, err := f.appts.GetAppointment(ctx, bound.ID, f.advisorActor())
	assert.ErrorIs(t, err, apperrors.ErrAppointmentNotFound)

	wide := f.createProjectWide(t)
	err = f.appts.DeleteAppointment(ctx, wide.ID, f.studentActor())
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	_, err = f.appts.Transition(ctx, wide.ID, f.advisorActor(), transition(workflow.EventCancel))
	require.NoError(t, err)
	assert.NoError(t, f.appts.DeleteAppointment(ctx, wide.ID, f.advisorActor()), "cancelled appointments can be deleted")
}

// racingStore changes the stored status right after every read, as if another
// request committed in between
type racingStore struct {
	appointmentStore
	to models.AppointmentStatus
}

func (s racingStore) GetByID(ctx context.Context, id int64) (*models.Appointment, error) {
	a, err := s.appointmentStore.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.appointments[id].Status = s.to
	s.mu.Unlock()
	return a, nil
}

func TestTransition_StaleStatusIsConflict(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	created := f.createBound(t, "2026-03-10", "14:00")

	racing := NewAppointmentService(racingStore{appointmentStore{f.db}, models.StatusCancelled},
		projectStore{f.db}, userStore{f.db}, f.notifier, time.UTC, zerolog.Nop())

	_, err := racing.Transition(ctx, created.ID, f.advisorActor(), transition(workflow.EventConfirm))
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	stored, err := appointmentStore{f.db}.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCancelled, stored.Status)
	assert.Empty(t, f.db.notificationsFor(f.student.ID), "nothing is sent for a lost race")
}

func TestSweepExpired(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	now := time.Date(2026, 3, 10, 14, 0, 30, 0, time.UTC)

	past := f.createBound(t, "2026-03-10", "13:59")
	atNow := f.createBound(t, "2026-03-10", "14:00")
	future := f.createBound(t, "2026-03-11", "09:00")
	confirmedPast := f.createBound(t, "2026-03-09", "09:00")
	_, err := f.appts.Transition(ctx, confirmedPast.ID, f.advisorActor(), transition(workflow.EventConfirm))
	require.NoError(t, err)

	changedPast := f.createBound(t, "2026-03-09", "10:00")
	_, err = f.appts.Transition(ctx, changedPast.ID, f.advisorActor(), transition(workflow.EventConfirm))
	require.NoError(t, err)
	_, err = f.appts.UpdateFields(ctx, changedPast.ID, f.advisorActor(), &dto.UpdateAppointmentRequest{Time: ptr("11:00")})
	require.NoError(t, err)

	before := len(f.db.notificationsFor(f.student.ID)) + len(f.db.notificationsFor(f.advisor.ID))

	expired, err := f.appts.SweepExpired(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, 2, expired)

	status := func(id int64) models.AppointmentStatus {
		a, err := appointmentStore{f.db}.GetByID(ctx, id)
		require.NoError(t, err)
		return a.Status
	}
	assert.Equal(t, models.StatusNoResponse, status(past.ID))
	assert.Equal(t, models.StatusNoResponse, status(changedPast.ID))
	assert.Equal(t, models.StatusPending, status(atNow.ID))
	assert.Equal(t, models.StatusPending, status(future.ID))
	assert.Equal(t, models.StatusConfirmed, status(confirmedPast.ID))

	again, err := f.appts.SweepExpired(ctx, now)
	require.NoError(t, err)
	assert.Zero(t, again)

	after := len(f.db.notificationsFor(f.student.ID)) + len(f.db.notificationsFor(f.advisor.ID))
	assert.Equal(t, before, after, "the sweep does not notify")
}

func TestSweepExpired_UsesConfiguredTimezone(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	istanbul := time.FixedZone("TRT", 3*60*60)
	svc := NewAppointmentService(appointmentStore{f.db}, projectStore{f.db}, userStore{f.db}, f.notifier, istanbul, zerolog.Nop())

	created := f.createBound(t, "2026-03-10", "16:00")

	// 12:30 UTC is 15:30 in Istanbul
	n, err := svc.SweepExpired(ctx, time.Date(2026, 3, 10, 12, 30, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = svc.SweepExpired(ctx, time.Date(2026, 3, 10, 13, 1, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	a, err := appointmentStore{f.db}.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusNoResponse, a.Status)
}
