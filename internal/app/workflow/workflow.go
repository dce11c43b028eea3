// Package workflow holds the appointment state machine. It is pure decision logic:
// callers load rows, ask Decide what a request means, persist the result and then
// deliver the returned notification intents.
package workflow

import (
	"fmt"

	"github.com/yigit/advisorly/internal/app/models"
	"github.com/yigit/advisorly/internal/pkg/apperrors"
)

// Event is a requested appointment transition
type Event string

const (
	EventConfirm        Event = "confirm"
	EventReject         Event = "reject"
	EventAccept         Event = "accept"
	EventStudentReject  Event = "student_reject"
	EventEdit           Event = "edit"
	EventConfirmChanges Event = "confirm_changes"
	EventComplete       Event = "complete"
	EventFail           Event = "fail"
	EventCancel         Event = "cancel"
	EventExpire         Event = "expire"
)

// IsValid reports whether e is a known event
func (e Event) IsValid() bool {
	switch e {
	case EventConfirm, EventReject, EventAccept, EventStudentReject, EventEdit,
		EventConfirmChanges, EventComplete, EventFail, EventCancel, EventExpire:
		return true
	}
	return false
}

// Actor is the identity requesting an operation
type Actor struct {
	ID   int64
	Role models.RoleType
}

// SystemActor is used by the expiry sweep
var SystemActor = Actor{Role: models.RoleSystem}

// Input is everything Decide needs to judge one request
type Input struct {
	// Appointment as it would look after the request's field changes, with the
	// stored status untouched.
	Appointment *models.Appointment
	Actor       Actor
	Event       Event
	// Members is the roster of the appointment's project, if any
	Members []int64
	// Reason is free text a student may attach to student_reject
	Reason string
}

// NotificationIntent is a notification the caller should create once the
// transition has been persisted
type NotificationIntent struct {
	UserID        int64
	Type          models.NotificationType
	Title         string
	Message       string
	AppointmentID int64
}

// Decision is the outcome of a legal transition
type Decision struct {
	Event Event
	From  models.AppointmentStatus
	To    models.AppointmentStatus
	// ClaimedBy is set when a project member takes over a project-wide appointment
	ClaimedBy *int64
	Intents   []NotificationIntent
}

// Apply writes the decision's status and student binding onto a
func (d Decision) Apply(a *models.Appointment) {
	a.Status = d.To
	if d.ClaimedBy != nil {
		id := *d.ClaimedBy
		a.StudentID = &id
	}
}

// Decide looks the request up in the transition table. It returns
// ErrInvalidTransition when the current status has no row for the event,
// ErrPermissionDenied when the row exists for other roles only or the actor
// fails the row's membership check.
func Decide(in Input) (Decision, error) {
	a := in.Appointment
	if a == nil {
		return Decision{}, apperrors.NewResourceNotFoundError("Appointment not found")
	}
	if !a.Status.IsValid() {
		return Decision{}, fmt.Errorf("appointment %d has unknown status %q", a.ID, a.Status)
	}
	if !in.Event.IsValid() {
		return Decision{}, apperrors.NewValidationError(fmt.Sprintf("Unknown event %q", in.Event))
	}

	byRole, ok := table[transitionKey{from: a.Status, event: in.Event}]
	if !ok {
		return Decision{}, apperrors.NewInvalidTransitionError(
			fmt.Sprintf("Cannot %s an appointment that is %s", in.Event, a.Status))
	}
	r, ok := byRole[in.Actor.Role]
	if !ok {
		return Decision{}, apperrors.NewForbiddenError(
			fmt.Sprintf("Role %s cannot %s this appointment", in.Actor.Role, in.Event))
	}
	if err := r.check(in); err != nil {
		return Decision{}, err
	}

	d := Decision{
		Event: in.Event,
		From:  a.Status,
		To:    r.to,
	}
	if r.claim {
		id := in.Actor.ID
		d.ClaimedBy = &id
	}

	after := a.Clone()
	d.Apply(after)
	d.Intents = r.intents(after, in)
	return d, nil
}

// CanAccess reports whether actor may read or act on a. Members is the roster
// of the appointment's project and may be nil for student-bound appointments.
func CanAccess(a *models.Appointment, actor Actor, members []int64) bool {
	if a == nil {
		return false
	}
	switch actor.Role {
	case models.RoleSystem:
		return true
	case models.RoleAdvisor:
		return actor.ID == a.AdvisorID
	case models.RoleStudent:
		if a.StudentID != nil && *a.StudentID == actor.ID {
			return true
		}
		return a.ProjectID != nil && containsID(members, actor.ID)
	}
	return false
}

// CanDelete returns an error when a may not be deleted in its current status
func CanDelete(a *models.Appointment) error {
	if !a.Status.IsDeletable() {
		return apperrors.NewCustomError(apperrors.ErrInvalidTransition,
			fmt.Sprintf("Appointments that are %s cannot be deleted", a.Status))
	}
	return nil
}

func containsID(ids []int64, id int64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
